package tokenizer

import (
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// astConstructionPhase is spec.md §4.2 phase 6: weave an AST onto the
// token stream via AstOperand1/AstOperand2/AstParent, using a precedence-
// climbing parser (the token-as-node scheme: an operator token IS its own
// AST node, its operands are the sub-expression roots either side of it).
//
// This phase does not attempt full C/C++ grammar coverage. It handles
// expression statements, declaration initializers, and the controlling
// expressions of if/while/switch/for/return — the shapes value-flow and
// the checkers actually walk. A statement this phase cannot make sense of
// is left with no AST links; nothing downstream assumes every token has
// one.
type astConstructionPhase struct{}

func (p *astConstructionPhase) Name() string { return "ast-construction" }

func (p *astConstructionPhase) Run(ctx *Context) error {
	ctx.astRoots = nil
	for t := ctx.List.Front(); t != nil; {
		switch {
		case t.Spelling == "if" || t.Spelling == "while" || t.Spelling == "switch":
			t = parseConditionParens(ctx, t)
		case t.Spelling == "for":
			t = parseForClauses(ctx, t)
		case t.Spelling == "return":
			t = parseReturn(ctx, t)
		case isStatementStart(t):
			t = parseStatement(ctx, t)
		default:
			t = t.Next()
		}
	}
	return nil
}

// recordRoot appends a successfully parsed expression's root to
// ctx.astRoots for exprId assignment (phase 7) to walk, skipping nil
// (an empty or unparsed range).
func recordRoot(ctx *Context, root *token.Token) {
	if root != nil {
		ctx.astRoots = append(ctx.astRoots, root)
	}
}

// isStatementStart reports whether t opens a plain expression statement or
// a declaration with an initializer: the previous token closes a prior
// statement or block, and t is not itself a control keyword.
func isStatementStart(t *token.Token) bool {
	if controlKeywords[t.Spelling] || t.Spelling == "switch" || t.Spelling == "return" {
		return false
	}
	prev := t.Previous()
	if prev == nil {
		return true
	}
	return prev.Spelling == ";" || prev.Spelling == "{" || prev.Spelling == "}"
}

func parseConditionParens(ctx *Context, keyword *token.Token) *token.Token {
	open := keyword.Next()
	if open == nil || open.Spelling != "(" || open.Link == nil {
		return keyword.Next()
	}
	close := open.Link
	root, _ := parseExpression(open.Next(), close)
	recordRoot(ctx, root)
	return close.Next()
}

// parseForClauses parses the condition and post-expression of a for-loop
// header; the init-clause is left to parseStatement's declaration handling
// by scanning it as an ordinary statement first.
func parseForClauses(ctx *Context, keyword *token.Token) *token.Token {
	open := keyword.Next()
	if open == nil || open.Spelling != "(" || open.Link == nil {
		return keyword.Next()
	}
	close := open.Link

	first := semicolonAfter(open.Next(), close)
	if first == nil {
		return close.Next()
	}
	parseStatement(ctx, open.Next())

	second := semicolonAfter(first.Next(), close)
	if second == nil {
		return close.Next()
	}
	condRoot, _ := parseExpression(first.Next(), second)
	recordRoot(ctx, condRoot)
	postRoot, _ := parseExpression(second.Next(), close)
	recordRoot(ctx, postRoot)
	return close.Next()
}

func semicolonAfter(start, end *token.Token) *token.Token {
	depth := 0
	for t := start; t != nil && t != end; t = t.Next() {
		if t.IsOpeningBracket() {
			depth++
		} else if t.IsBracket() && !t.IsOpeningBracket() {
			depth--
		} else if t.Spelling == ";" && depth == 0 {
			return t
		}
	}
	return nil
}

func parseReturn(ctx *Context, keyword *token.Token) *token.Token {
	end := statementEnd(keyword)
	if end == nil {
		return keyword.Next()
	}
	if keyword.Next() != end {
		root, _ := parseExpression(keyword.Next(), end)
		recordRoot(ctx, root)
		if root != nil {
			scope := ctx.DB.ScopeOf(keyword)
			if fn := enclosingFunction(ctx, scope); fn != nil {
				fn.ReturnValues = append(fn.ReturnValues, root)
			}
		}
	}
	return end.Next()
}

func enclosingFunction(ctx *Context, scope *symbols.Scope) *symbols.Function {
	for s := scope; s != nil; s = s.Parent {
		if s.Kind != symbols.ScopeFunction || s.Open == nil {
			continue
		}
		for _, fn := range ctx.DB.Functions() {
			if fn.Definition == s.Open {
				return fn
			}
		}
	}
	return nil
}

// parseStatement handles a plain expression statement or a declaration's
// initializer. Declarations with no initializer (just "TYPE name ;") are
// skipped entirely: there is nothing to build an AST over.
func parseStatement(ctx *Context, start *token.Token) *token.Token {
	end := statementEnd(start)
	if end == nil {
		return start.Next()
	}
	exprStart := start
	if looksLikeDeclarationPrefix(start) {
		cur := start
		for cur != nil && cur != end && isTypePrefixTokenLoose(cur) {
			cur = cur.Next()
		}
		if cur == nil || cur == end || cur.Kind != token.Identifier {
			return end.Next()
		}
		name := cur
		after := name.Next()
		if after == end || after.Spelling != "=" {
			return end.Next() // plain declaration, no initializer to parse
		}
		exprStart = name
	}
	root, _ := parseExpression(exprStart, end)
	recordRoot(ctx, root)
	return end.Next()
}

func looksLikeDeclarationPrefix(t *token.Token) bool {
	switch t.Kind {
	case token.TypeName, token.Keyword:
		return true
	default:
		return false
	}
}

func isTypePrefixTokenLoose(t *token.Token) bool {
	switch t.Spelling {
	case "const", "volatile", "*", "static", "extern", "struct", "union", "enum":
		return true
	default:
		return t.Kind == token.TypeName || t.Kind == token.Keyword
	}
}
