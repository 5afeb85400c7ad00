package checks

import (
	"math/big"

	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/pkg/token"
)

// MismatchingBitAnd is spec.md §8 scenario S2:
// `int f(int a){ int b=a&0xf0; return b&1; }` flags the second `&`. A
// variable assigned `x & MASK` can only ever have the bits in MASK set;
// ANDing it again with a literal mask that shares no bits always yields
// zero, almost certainly not what was intended. Grounded on
// original_source/lib/checkother.cpp's checkIncompleteBitwiseOperator/
// "mismatching bitand" diagnostics, reimplemented as a linear
// def/use scan in the spirit of internal/valueflow/containers.go's
// push_back tracking rather than a full bit-lattice abstract
// interpretation.
type MismatchingBitAnd struct{}

func (MismatchingBitAnd) ID() string { return "mismatchingBitAnd" }

func (MismatchingBitAnd) GetErrorMessages(logger *diag.Logger) {}

func (MismatchingBitAnd) RunChecks(tu checker.TU, logger *diag.Logger) {
	files := tu.Tokenizer.List.Files()
	masks := map[int]*big.Int{}

	for t := tu.Tokenizer.List.Front(); t != nil; t = t.Next() {
		switch {
		case token.Match(t, "%var% = %var% & %num%"):
			if n, ok := parseIntLiteral(t.Next().Next().Next().Next().Spelling); ok {
				masks[t.VarID] = n
			}
		case token.Match(t, "%var% = %num%"):
			// a plain reassignment invalidates any tracked mask.
			delete(masks, t.VarID)
		case token.Match(t, "%var% & %num%") && t.Previous() != nil && t.Previous().Spelling != "=":
			mask, tracked := masks[t.VarID]
			if !tracked {
				continue
			}
			n, ok := parseIntLiteral(t.Next().Next().Spelling)
			if !ok {
				continue
			}
			if new(big.Int).And(mask, n).Sign() == 0 {
				emit(logger, files, t.Next(), "mismatchingBitAnd", diag.SeverityWarning,
					"Mismatching bitmasks: result is always 0")
			}
		}
	}
}
