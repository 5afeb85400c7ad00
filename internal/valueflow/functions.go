package valueflow

import (
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// propagateFunctionReturns is sub-analysis 12: a function with exactly one
// `return expr;` whose expr already folded to a Known value (independent of
// any parameter — the degenerate, always-bounded case of the inject-
// parameters evaluator) gets that value attached to every call expression.
// The fuller evaluator spec.md §9 describes — substituting each call site's
// own Known argument values into the body and re-running the earlier
// passes, up to Options.MaxInjectParameterCombinations combinations — needs
// a per-call-site re-entrant value-flow run; this pass covers the constant-
// return case, which is the common one a single-TU analysis can prove
// soundly.
func propagateFunctionReturns(c *ctx) {
	for _, fn := range c.tr.DB.Functions() {
		if len(fn.ReturnValues) != 1 || fn.ReturnValues[0] == nil {
			continue
		}
		set, ok := c.res.Sets[fn.ReturnValues[0]]
		if !ok {
			continue
		}
		known, ok := firstKnown(set)
		if !ok {
			continue
		}
		for t := c.tr.List.Front(); t != nil; t = t.Next() {
			if t.Kind != token.FunctionName || c.tr.DB.FunctionOf(t) != fn {
				continue
			}
			call := t.AstParent
			if call == nil || call.Spelling != "(" {
				continue
			}
			c.res.attach(call, known)
		}
	}
}

// propagateSubfunctions is sub-analysis 13: when a function has exactly one
// call site (so there is no risk of one call's arguments leaking into
// another's view of the parameter), and every argument at that call site
// already folded to a Known value, those values are attached to the
// matching parameter's occurrences throughout the callee body.
func propagateSubfunctions(c *ctx) {
	for _, fn := range c.tr.DB.Functions() {
		if fn.Definition == nil || len(fn.Parameters) == 0 {
			continue
		}
		calls := callSitesOf(c, fn)
		if len(calls) != 1 {
			continue
		}
		args := callArgumentRoots(calls[0])
		if len(args) != len(fn.Parameters) {
			continue
		}
		for i, arg := range args {
			set, ok := c.res.Sets[arg]
			if !ok {
				continue
			}
			known, ok := firstKnown(set)
			if !ok {
				continue
			}
			propagateToUses(c, fn.Parameters[i], known)
		}
	}
}

func callSitesOf(c *ctx, fn *symbols.Function) []*token.Token {
	var calls []*token.Token
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.FunctionName || c.tr.DB.FunctionOf(t) != fn {
			continue
		}
		if call := t.AstParent; call != nil && call.Spelling == "(" {
			calls = append(calls, call)
		}
	}
	return calls
}

// callArgumentRoots recovers every argument's expression root from a call
// token's parenthesized range. Only the first argument is reachable via
// AstOperand2 (parseCallArgs links the rest nowhere, since the original
// design expected callers to read arguments off a slice computed once
// during parsing); this walks the raw token range and a top-level comma
// split to find the rest, identifying each segment's root as the one token
// in it whose AstParent is nil or is the call token itself.
func callArgumentRoots(call *token.Token) []*token.Token {
	if call.Link == nil {
		return nil
	}
	var roots []*token.Token
	cur := call.Next()
	end := call.Link
	for cur != nil && cur != end {
		segEnd := nextArgComma(cur, end)
		if root := argSegmentRoot(call, cur, segEnd); root != nil {
			roots = append(roots, root)
		}
		if segEnd == end {
			break
		}
		cur = segEnd.Next()
	}
	return roots
}

func nextArgComma(start, end *token.Token) *token.Token {
	depth := 0
	for t := start; t != nil && t != end; t = t.Next() {
		switch {
		case t.IsOpeningBracket():
			depth++
		case t.IsBracket():
			depth--
		case t.Spelling == "," && depth == 0:
			return t
		}
	}
	return end
}

func argSegmentRoot(call, start, end *token.Token) *token.Token {
	for t := start; t != nil && t != end; t = t.Next() {
		if t.AstParent == nil || t.AstParent == call {
			return t
		}
	}
	return nil
}
