package valueflow

import (
	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// propagatePointerAliases is sub-analysis 11: `p = &x;` gives p a Known
// Lifetime value pointing at x, forwarded to later uses of p the same way
// forwardAssignments forwards a scalar — the pointer case of the same
// idiom, kept separate since a Lifetime payload rather than an Integer is
// being forwarded.
func propagatePointerAliases(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if !token.Match(t, "%var% = & %var%") {
			continue
		}
		ptr := t
		target := t.Next().Next().Next()
		targetVar := c.tr.DB.VariableOf(target)
		if targetVar == nil {
			continue
		}
		life := avalue.Value{
			Kind:      avalue.KindLifetime,
			Life:      avalue.Lifetime{TargetExprID: target.ExprID, Scope: lifetimeScopeOf(targetVar), ObjectKind: avalue.LifetimeObject},
			Certainty: avalue.Known,
		}
		c.res.attach(ptr, life)
		for u := t.Next(); u != nil; u = u.Next() {
			if u.VarID != ptr.VarID {
				continue
			}
			if isAssignmentTarget(u) {
				break
			}
			c.res.attach(u, life)
		}
	}
}

func lifetimeScopeOf(v *symbols.Variable) avalue.LifetimeScope {
	switch {
	case v.IsArgument:
		return avalue.LifetimeArgument
	case v.Storage == symbols.StorageStatic:
		return avalue.LifetimeStatic
	default:
		return avalue.LifetimeLocal
	}
}

// propagateLifetimes is sub-analysis 14: `return &local;` gets a Known
// Lifetime value flagging that the returned address outlives the storage
// it points to — the classic dangling-pointer shape checkers key off of.
// Broader lifetime tracking (iterators invalidated by a container mutation,
// temporaries bound to a reference) is left unimplemented: nothing upstream
// of this pass yet models iterator or temporary-object identity.
func propagateLifetimes(c *ctx) {
	for _, fn := range c.tr.DB.Functions() {
		for _, root := range fn.ReturnValues {
			if root == nil || root.Spelling != "&" || root.AstOperand1 == nil || root.AstOperand2 != nil {
				continue
			}
			v := c.tr.DB.VariableOf(root.AstOperand1)
			if v == nil || v.IsArgument || v.Storage == symbols.StorageStatic {
				continue
			}
			c.res.attach(root, avalue.Value{
				Kind:      avalue.KindLifetime,
				Life:      avalue.Lifetime{TargetExprID: root.AstOperand1.ExprID, Scope: avalue.LifetimeLocal, ObjectKind: avalue.LifetimeAddress},
				Certainty: avalue.Known,
			})
		}
	}
}
