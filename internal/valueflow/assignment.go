package valueflow

import "github.com/cwbudde/cppgo/internal/avalue"

// forwardAssignments is sub-analysis 8: `var = expr` with a Known rhs
// forwards that value to every later bound use of var, stopping at the
// next reassignment — the scalar case of what ProgramMemory.Assume models
// for a whole path; here it is a straight-line forward scan since a plain
// assignment's reach is the rest of the enclosing statement list, not a
// branch.
func forwardAssignments(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "=" || t.AstOperand1 == nil || t.AstOperand2 == nil {
			continue
		}
		lhs := t.AstOperand1
		if lhs.VarID == 0 || lhs.AstOperand1 != nil || lhs.AstOperand2 != nil {
			continue // not a bare variable target (e.g. *p = ..., a[i] = ...)
		}
		rhsSet, ok := c.res.Sets[t.AstOperand2]
		if !ok {
			continue
		}
		known, ok := firstKnown(rhsSet)
		if !ok {
			continue
		}
		for u := t.Next(); u != nil; u = u.Next() {
			if u.VarID != lhs.VarID {
				continue
			}
			if isAssignmentTarget(u) {
				break
			}
			c.res.attach(u, known)
		}
	}
}

func firstKnown(s *avalue.Set) (avalue.Value, bool) {
	for _, v := range s.All() {
		if v.Certainty == avalue.Known {
			return v, true
		}
	}
	return avalue.Value{}, false
}
