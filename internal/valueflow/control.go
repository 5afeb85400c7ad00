package valueflow

import (
	"math/big"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/pkg/token"
)

// propagateShortCircuit is sub-analysis 7: &&, ||, and ?: fold to a Known
// value whenever their own short-circuiting makes the right operand
// irrelevant, walking every AST root post-order so a fold on an inner node
// is visible to its parent in the same pass.
func propagateShortCircuit(c *ctx) {
	for _, root := range c.tr.ASTRoots() {
		foldShortCircuit(c, root)
	}
}

func foldShortCircuit(c *ctx, t *token.Token) {
	if t == nil {
		return
	}
	foldShortCircuit(c, t.AstOperand1)
	foldShortCircuit(c, t.AstOperand2)

	switch t.Spelling {
	case "&&", "||":
		left, ok := knownBool(c, t.AstOperand1)
		if !ok {
			return
		}
		if (t.Spelling == "&&" && !left) || (t.Spelling == "||" && left) {
			c.res.attach(t, avalue.Int64(boolToInt(left)))
		}
	case "?":
		condTok := t.AstOperand1
		branch := t.AstOperand2 // the ":" node
		if branch == nil || branch.Spelling != ":" {
			return
		}
		cond, ok := knownBool(c, condTok)
		if !ok {
			return
		}
		chosen := branch.AstOperand2 // else
		if cond {
			chosen = branch.AstOperand1 // then
		}
		set, ok := c.res.Sets[chosen]
		if !ok {
			return
		}
		for _, v := range set.All() {
			if v.Certainty == avalue.Known {
				c.res.attach(t, v)
			}
		}
	}
}

func knownBool(c *ctx, t *token.Token) (bool, bool) {
	if t == nil {
		return false, false
	}
	set, ok := c.res.Sets[t]
	if !ok {
		return false, false
	}
	v, ok := set.Known(avalue.KindInteger)
	if !ok || v.Int == nil {
		return false, false
	}
	return v.Int.Sign() != 0, true
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// narrowByCondition is sub-analysis 9: an `if (var == N)` / `if (var != N)`
// condition narrows var's value inside the branch where that condition
// holds, stopping at the first token that reassigns var so a stale value
// never leaks past a later write — the same bound ProgramMemory.Assume
// models for a single update, applied here directly to the token's own
// avalue.Set since there is no need to thread state past the branch.
func narrowByCondition(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "if" {
			continue
		}
		open := t.Next()
		if open == nil || open.Spelling != "(" || open.Link == nil {
			continue
		}
		closeParen := open.Link
		condVar := open.Next()
		bodyStart := closeParen.Next()
		if bodyStart == nil {
			continue
		}
		bodyEnd := blockEnd(bodyStart)

		switch {
		case token.Match(condVar, "%var% == %num%"):
			n, ok := parseIntLiteral(condVar.Next().Next().Spelling)
			if !ok {
				continue
			}
			narrowRange(c, condVar.VarID, bodyStart, bodyEnd, avalue.IntBig(n))
		case token.Match(condVar, "%var% != %num%"):
			n, ok := parseIntLiteral(condVar.Next().Next().Spelling)
			if !ok {
				continue
			}
			narrowRange(c, condVar.VarID, bodyStart, bodyEnd, avalue.IntBig(n).WithCertainty(avalue.Impossible))
		}
	}
}

// blockEnd returns the token that ends the statement starting at start: its
// matching '}' for a brace block, or its own terminating ';' for a bare
// single statement (the only two shapes phase2's implicit-brace insertion
// leaves behind... except it runs before value-flow, so both shapes still
// need handling here for bodies that normalization didn't touch).
func blockEnd(start *token.Token) *token.Token {
	if start.Spelling == "{" && start.Link != nil {
		return start.Link
	}
	for t := start; t != nil; t = t.Next() {
		if t.Spelling == ";" {
			return t
		}
	}
	return nil
}

// narrowRange attaches value to every occurrence of varID between start and
// end inclusive, stopping early the moment varID is reassigned.
func narrowRange(c *ctx, varID int, start, end *token.Token, value avalue.Value) {
	if end == nil {
		return
	}
	for t := start; t != nil; t = t.Next() {
		if t.VarID == varID {
			if isAssignmentTarget(t) {
				return
			}
			c.res.attach(t, value)
		}
		if t == end {
			return
		}
	}
}

// isAssignmentTarget reports whether t is the left-hand side of a simple
// assignment, the point where a forward/narrowed value stops applying.
func isAssignmentTarget(t *token.Token) bool {
	p := t.AstParent
	return p != nil && p.Spelling == "=" && p.AstOperand1 == t
}

// propagateLoopInduction is sub-analysis 10: a bounded simulation of
// `for (var = A; var CMP B; var++)` loops, attaching var's Possible value
// for each simulated iteration up to Options.MaxIterations — the common
// counted-loop shape; anything else bails out rather than risk an infinite
// or misleading simulation.
func propagateLoopInduction(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "for" {
			continue
		}
		open := t.Next()
		if open == nil || open.Spelling != "(" || open.Link == nil {
			continue
		}
		closeParen := open.Link

		initVar := open.Next()
		if !token.Match(initVar, "%var% = %num% ;") {
			continue
		}
		start, ok := parseIntLiteral(initVar.Next().Next().Spelling)
		if !ok {
			continue
		}

		condStart := initVar.Next().Next().Next().Next()
		if condStart == nil || condStart.VarID != initVar.VarID || !token.Match(condStart, "%var% <|<=|!= %num% ;") {
			c.res.bailout(t, "loop-induction", BailoutUnsupportedConstruct)
			continue
		}
		cmpOp := condStart.Next().Spelling
		limit, ok := parseIntLiteral(condStart.Next().Next().Spelling)
		if !ok {
			continue
		}

		postStart := condStart.Next().Next().Next().Next()
		if postStart == nil || postStart.VarID != initVar.VarID || !token.Match(postStart, "%var% ++ )") {
			c.res.bailout(t, "loop-induction", BailoutUnsupportedConstruct)
			continue
		}

		bodyStart := closeParen.Next()
		if bodyStart == nil {
			continue
		}
		bodyEnd := blockEnd(bodyStart)

		val := new(big.Int).Set(start)
		iterations := 0
		for iterations < c.opts.MaxIterations && loopCondHolds(cmpOp, val, limit) {
			narrowRange(c, initVar.VarID, bodyStart, bodyEnd, avalue.IntBig(new(big.Int).Set(val)).WithCertainty(avalue.Possible))
			val = new(big.Int).Add(val, big.NewInt(1))
			iterations++
		}
		if iterations >= c.opts.MaxIterations {
			c.res.bailout(t, "loop-induction", BailoutIterationCapExceeded)
		}
	}
}

func loopCondHolds(op string, val, limit *big.Int) bool {
	switch op {
	case "<":
		return val.Cmp(limit) < 0
	case "<=":
		return val.Cmp(limit) <= 0
	case "!=":
		return val.Cmp(limit) != 0
	default:
		return false
	}
}
