package checks

import (
	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// ZeroDiv is spec.md §8 scenario S1: `void f(int x){ if(x==0){} int y=100/x; }`
// flags the division at `100/x`. Grounded on
// original_source/lib/checkother.cpp's checkZeroDivision, split into two
// sub-cases: a divisor ValueFlow already folded to Known 0, and the
// "checked but not guarded" idiom where an `if (v == 0) {}` with an empty
// body leaves v possibly zero at a later division with no reassignment in
// between.
type ZeroDiv struct{}

func (ZeroDiv) ID() string { return "zerodiv" }

func (ZeroDiv) GetErrorMessages(logger *diag.Logger) {}

func (c ZeroDiv) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Operator || (t.Spelling != "/" && t.Spelling != "%") {
			continue
		}
		divisor := t.Next()
		if divisor == nil {
			continue
		}
		if set, ok := tu.ValueFlow.Sets[divisor]; ok {
			if v, ok := set.Known(avalue.KindInteger); ok && v.Int != nil && v.Int.Sign() == 0 {
				emit(logger, files, t, "zerodiv", diag.SeverityError, "Division by zero")
				continue
			}
		}
	}

	checkUnguardedZeroCheck(tu, logger, files)
}

// checkUnguardedZeroCheck looks for `if (v == 0) { }` with an empty body,
// followed (with no reassignment to v) by a division using v as the
// divisor — the pattern of "checked the value could be zero, then used it
// anyway".
func checkUnguardedZeroCheck(tu checker.TU, logger *diag.Logger, files *token.FileTable) {
	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "if" {
			continue
		}
		open := t.Next()
		if open == nil || open.Spelling != "(" || open.Link == nil {
			continue
		}
		cond := open.Next()
		if !token.Match(cond, "%var% == 0") {
			continue
		}
		body := open.Link.Next()
		if body == nil || body.Spelling != "{" || body.Link != body.Next() {
			continue // not an empty { } body
		}
		varID := cond.VarID
		for u := body.Next(); u != nil; u = u.Next() {
			if u.Spelling == "=" && u.Previous() != nil && u.Previous().VarID == varID {
				break // reassigned before any division is reached
			}
			if u.VarID == varID && u.Previous() != nil && u.Previous().Kind == token.Operator &&
				(u.Previous().Spelling == "/" || u.Previous().Spelling == "%") {
				emit(logger, files, u.Previous(), "zerodiv", diag.SeverityWarning,
					"Division by a value that was just checked for zero and left unguarded")
				break
			}
		}
	}
}
