package valueflow

import (
	"math/big"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/pkg/token"
)

// foldArraySizes is sub-analysis 5: a fixed-size array's element count is
// Known at every use of the array variable.
func foldArraySizes(c *ctx) {
	for _, v := range c.tr.DB.Variables() {
		if !v.Type.IsArray || len(v.Type.ArrayDims) == 0 || v.Type.ArrayDims[0] < 0 {
			continue
		}
		size := avalue.Value{Kind: avalue.KindContainerSize, ContainerSize: big.NewInt(int64(v.Type.ArrayDims[0])), Certainty: avalue.Known}
		propagateToUses(c, v, size)
	}
}

// propagateContainerSizes is sub-analysis 15, the last one: a linear scan
// tracking push_back/pop_back/resize/clear calls on a bound variable to
// keep a running size estimate, attached to size() call sites — the same
// Token::Match-style pattern scanning cppcheck itself uses for this class
// of "recognize a standard-library idiom" check, rather than a full
// container-state abstract interpretation.
func propagateContainerSizes(c *ctx) {
	sizes := map[int]*big.Int{}
	for _, v := range c.tr.DB.Variables() {
		if v.Declared != nil && v.Declared.AstParent == nil {
			sizes[v.ID] = big.NewInt(0) // a bare declaration with no initializer starts empty
		}
	}

	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.VarID == 0 || sizes[t.VarID] == nil {
			continue
		}
		switch {
		case token.Match(t, "%var% . push_back ("):
			sizes[t.VarID] = new(big.Int).Add(sizes[t.VarID], big.NewInt(1))
		case token.Match(t, "%var% . pop_back ("):
			if sizes[t.VarID].Sign() > 0 {
				sizes[t.VarID] = new(big.Int).Sub(sizes[t.VarID], big.NewInt(1))
			}
		case token.Match(t, "%var% . clear ("):
			sizes[t.VarID] = big.NewInt(0)
		case token.Match(t, "%var% . resize ( %num%"):
			if n, ok := parseIntLiteral(t.Next().Next().Next().Next().Spelling); ok {
				sizes[t.VarID] = n
			} else {
				delete(sizes, t.VarID)
				c.res.bailout(t, "container-size-propagation", BailoutTooComplex)
			}
		case token.Match(t, "%var% . size ("):
			c.res.attach(t, avalue.Value{Kind: avalue.KindContainerSize, ContainerSize: new(big.Int).Set(sizes[t.VarID]), Certainty: avalue.Known})
		}
	}
}
