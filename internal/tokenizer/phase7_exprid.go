package tokenizer

import (
	"fmt"

	"github.com/cwbudde/cppgo/pkg/token"
)

// exprIDAssignmentPhase is spec.md §4.2 phase 7: a post-order hash-consing
// pass over every AST tree woven by phase 6, assigning equal ExprIDs to
// structurally equivalent sub-expressions (same operator/leaf identity and
// equal children), the handle ValueFlow keys its ProgramMemory entries on.
type exprIDAssignmentPhase struct{}

func (p *exprIDAssignmentPhase) Name() string { return "exprid-assignment" }

func (p *exprIDAssignmentPhase) Run(ctx *Context) error {
	for _, root := range ctx.astRoots {
		assignExprID(ctx, root)
	}
	return nil
}

// assignExprID computes t's ExprID bottom-up, reusing an existing id for
// any previously seen node with the same canonical key.
func assignExprID(ctx *Context, t *token.Token) int {
	if t == nil {
		return 0
	}
	if t.ExprID != 0 {
		return t.ExprID
	}

	leftID := assignExprID(ctx, t.AstOperand1)
	rightID := assignExprID(ctx, t.AstOperand2)
	key := exprKey(t, leftID, rightID)

	if id, ok := ctx.exprKeys[key]; ok {
		t.ExprID = id
		return id
	}
	ctx.nextExprID++
	id := ctx.nextExprID
	ctx.exprKeys[key] = id
	t.ExprID = id
	return id
}

// exprKey builds the canonical identity of a node: a bound variable keys
// on its VarID (so every use of the same object unifies); a literal keys
// on its own spelling; an operator or call/subscript node keys on its
// spelling plus its already-resolved operand ids, so "a+b" only unifies
// with another "a+b" whose "a" and "b" are themselves the same variables
// or equal sub-expressions.
func exprKey(t *token.Token, leftID, rightID int) string {
	if t.VarID != 0 {
		return fmt.Sprintf("var:%d", t.VarID)
	}
	switch t.Kind {
	case token.LiteralInt, token.LiteralFloat, token.LiteralChar, token.LiteralString:
		return fmt.Sprintf("lit:%s:%s", t.Kind, t.Spelling)
	}
	return fmt.Sprintf("op:%s:%d:%d", t.Spelling, leftID, rightID)
}
