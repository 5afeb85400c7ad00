package checks

import (
	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// ComparisonOfBoolWithInt is spec.md §8 scenario S4:
// `int f(bool b){ return b<0; }` flags the `<`. A bool operand compared
// with a relational (not equality) operator against an integer is always
// decidable from the bool's {0,1} range alone, the usual sign that an `int`
// was meant instead of a `bool` on one side. Grounded on
// original_source/lib/checkbool.cpp's checkComparisonOfBoolWithInt.
type ComparisonOfBoolWithInt struct{}

func (ComparisonOfBoolWithInt) ID() string { return "comparisonOfBoolWithInt" }

func (ComparisonOfBoolWithInt) GetErrorMessages(logger *diag.Logger) {}

func (ComparisonOfBoolWithInt) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Operator {
			continue
		}
		switch t.Spelling {
		case "<", ">", "<=", ">=":
		default:
			continue
		}
		lhs, rhs := t.Previous(), t.Next()
		if lhs == nil || rhs == nil {
			continue
		}
		if isBoolOperand(tu, lhs) != isBoolOperand(tu, rhs) {
			emit(logger, files, t, "comparisonOfBoolWithInt", diag.SeverityWarning,
				"Comparison of a bool value using relational operator "+t.Spelling)
		}
	}
}

func isBoolOperand(tu checker.TU, tok *token.Token) bool {
	if tok.Spelling == "true" || tok.Spelling == "false" {
		return true
	}
	if tok.VarID == 0 {
		return false
	}
	v := tu.Tokenizer.DB.VariableOf(tok)
	return v != nil && v.Type.Basic == cctype.Bool && v.Type.PointerDepth == 0 && !v.Type.IsArray
}
