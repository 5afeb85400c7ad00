package valueflow

import (
	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// foldEnumerators is sub-analysis 2: give every enumerator constant its
// sequential value (explicit "= N" resets the counter; otherwise it is the
// previous enumerator's value plus one, starting at 0), and propagate that
// value to every other identifier token sharing its spelling — enumerators
// are not wired into SymbolDatabase as Variables by declaration discovery
// (spec.md's declarator recognition there is the TYPE/NAME/initializer
// shape, not the enum-body shape), so this pass does its own identifier
// matching rather than VarID matching.
func foldEnumerators(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "enum" {
			continue
		}
		body := t.Next()
		for body != nil && body.Spelling != "{" {
			if body.Spelling == ";" {
				body = nil
				break
			}
			body = body.Next()
		}
		if body == nil || body.Link == nil {
			continue
		}
		applyEnumBody(c, body, body.Link)
	}
}

func applyEnumBody(c *ctx, open, close *token.Token) {
	var names []*token.Token
	next := int64(0)
	for t := open.Next(); t != nil && t != close; t = t.Next() {
		if t.Kind != token.Identifier {
			continue
		}
		name := t
		value := next
		if after := t.Next(); after != nil && after.Spelling == "=" {
			if lit, ok := c.res.Sets[after.Next()]; ok {
				if kv, ok := lit.Known(avalue.KindInteger); ok && kv.Int != nil {
					value = kv.Int.Int64()
				}
			}
		}
		c.res.attach(name, avalue.Int64(value))
		names = append(names, name)
		next = value + 1
		// advance past "= expr" if present, to the next top-level comma.
		for t.Next() != nil && t.Next() != close && t.Next().Spelling != "," {
			t = t.Next()
		}
	}

	for _, name := range names {
		for t := close.Next(); t != nil; t = t.Next() {
			if t.Kind == token.Identifier && t.Spelling == name.Spelling && t.VarID == 0 {
				if v, ok := c.res.Sets[name].Known(avalue.KindInteger); ok {
					c.res.attach(t, v)
				}
			}
		}
	}
}

// propagateGlobalConstants is sub-analysis 3: a `const` variable declared
// with a literal initializer gets that value propagated to every bound use
// (VarID match) — unlike assignmentForwarding (sub-analysis 8), this one
// never needs to worry about the value going stale, since the declaration
// is never reassigned.
func propagateGlobalConstants(c *ctx) {
	for _, v := range c.tr.DB.Variables() {
		if !v.Type.IsConst || v.Declared == nil {
			continue
		}
		assign := v.Declared.AstParent
		if assign == nil || assign.Spelling != "=" || assign.AstOperand2 == nil {
			continue
		}
		rhsSet, ok := c.res.Sets[assign.AstOperand2]
		if !ok {
			continue
		}
		for _, kv := range rhsSet.All() {
			if kv.Certainty != avalue.Known {
				continue
			}
			propagateToUses(c, v, kv)
		}
	}
}

func propagateToUses(c *ctx, v *symbols.Variable, value avalue.Value) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.VarID == v.ID {
			c.res.attach(t, value)
		}
	}
}
