package tokenizer

import (
	"strconv"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// declarationDiscoveryPhase is spec.md §4.2 phase 4: for each declarator,
// create a Variable or Function and assign VarID to every use.
//
// Declarator recognition here is a pragmatic subset, not a full C/C++
// grammar: a type-start token (a keyword basic type or a name captured by
// phase 2's typedef scan) followed by pointer stars and an identifier,
// then either '(' (a function) or ';'/'='/'[' (a variable). This covers
// the declaration shapes the value-flow and checker layers above actually
// need to exercise; anything shaped differently is left undeclared rather
// than guessed at — the exprId/AST phases downstream degrade gracefully
// for tokens with no bound Variable (they simply carry no VarID).
type declarationDiscoveryPhase struct{}

func (p *declarationDiscoveryPhase) Name() string { return "declaration-discovery" }

func (p *declarationDiscoveryPhase) Run(ctx *Context) error {
	ctx.declPrefix = map[*token.Token][]*token.Token{}

	for t := ctx.List.Front(); t != nil; {
		if !isTypeStart(ctx, t) {
			t = t.Next()
			continue
		}
		consumed := tryDeclaration(ctx, t)
		if consumed == nil {
			t = t.Next()
			continue
		}
		t = consumed
	}

	bindVariableUses(ctx)
	bindFunctionCallUses(ctx)
	return nil
}

// tryDeclaration attempts to parse one declarator starting at t. On
// success it returns the token to resume scanning from (after the
// declaration); on failure it returns nil and the caller advances by one
// token as usual.
func tryDeclaration(ctx *Context, t *token.Token) *token.Token {
	var prefix []*token.Token
	cur := t
	for cur != nil && isTypePrefixToken(ctx, cur) {
		prefix = append(prefix, cur)
		cur = cur.Next()
	}
	if cur == nil || cur.Kind != token.Identifier {
		return nil
	}
	name := cur
	after := name.Next()
	if after == nil {
		return nil
	}

	scope := ctx.DB.ScopeOf(name)

	switch {
	case after.Spelling == "(":
		return declareFunction(ctx, prefix, name, after, scope)
	case after.Spelling == ";" || after.Spelling == "=" || after.Spelling == "[":
		return declareVariable(ctx, prefix, name, scope)
	default:
		return nil
	}
}

func declareFunction(ctx *Context, prefix []*token.Token, name, openParen *token.Token, scope *symbols.Scope) *token.Token {
	closeParen := openParen.Link
	if closeParen == nil {
		return nil
	}

	fn := ctx.DB.DeclareFunction(name.Spelling, scope, nil, cctype.Type{})
	ctx.declPrefix[name] = prefix
	ctx.funcPrefix[fn] = name
	name.Kind = token.FunctionName
	ctx.DB.BindCallSite(name, fn)

	// Parameters belong in the function's own body scope, not the
	// enclosing one, so two functions taking an argument of the same
	// name don't leak into each other's Lookup.
	paramScope := scope
	next := closeParen.Next()
	if next != nil && next.Spelling == "{" {
		fn.Definition = next
		if bodyScope := ctx.DB.ScopeOf(next); bodyScope != nil {
			paramScope = bodyScope
		}
	}
	fn.Parameters = parseParameters(ctx, openParen, closeParen, paramScope)

	// Resume scanning right after the parameter list: the body (if any)
	// still needs to go through this same loop so its own local
	// declarations get discovered.
	return closeParen
}

func parseParameters(ctx *Context, openParen, closeParen *token.Token, paramScope *symbols.Scope) []*symbols.Variable {
	var params []*symbols.Variable
	argNum := 0
	t := openParen.Next()
	for t != nil && t != closeParen {
		var prefix []*token.Token
		for t != nil && t != closeParen && isTypePrefixToken(ctx, t) {
			prefix = append(prefix, t)
			t = t.Next()
		}
		if t != nil && t != closeParen && t.Kind == token.Identifier {
			argNum++
			v := ctx.DB.DeclareVariable(t, t.Spelling, paramScope, cctype.Type{}, symbols.StorageAuto)
			v.IsArgument = true
			v.ArgumentNum = argNum
			ctx.declPrefix[t] = prefix
			params = append(params, v)
			t = t.Next()
		}
		for t != nil && t != closeParen && t.Spelling != "," {
			t = t.Next()
		}
		if t != nil && t.Spelling == "," {
			t = t.Next()
		}
	}
	return params
}

func declareVariable(ctx *Context, prefix []*token.Token, name *token.Token, scope *symbols.Scope) *token.Token {
	storage := symbols.StorageAuto
	for _, pt := range prefix {
		if pt.Spelling == "static" {
			storage = symbols.StorageStatic
		}
		if pt.Spelling == "extern" {
			storage = symbols.StorageExtern
		}
	}
	v := ctx.DB.DeclareVariable(name, name.Spelling, scope, cctype.Type{}, storage)
	ctx.declPrefix[name] = prefix
	ctx.varForDeclare = append(ctx.varForDeclare, v)

	if dims, ok := parseArrayDims(name); ok {
		ctx.arrayDims[name] = dims
	}

	// Skip to the statement's terminating ';' so the initializer
	// expression (if any) is left untouched for AST construction.
	end := statementEnd(name)
	if end == nil {
		return name.Next()
	}
	return end
}

// bindVariableUses makes a second pass binding every identifier that
// names a visible, already-declared variable and is not itself a
// declarator (VarID == 0 and not a function name).
func bindVariableUses(ctx *Context) {
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Identifier || t.VarID != 0 {
			continue
		}
		scope := ctx.DB.ScopeOf(t)
		if v := ctx.DB.Lookup(t.Spelling, scope); v != nil {
			ctx.DB.BindVariableUse(t, v)
			t.Kind = token.VariableName
		}
	}
}

// parseArrayDims recognizes a declarator name's trailing `[N][M]...`
// suffix, returning one entry per bracket pair (-1 for an unsized `[]`
// dimension) and ok=false when name is followed by no bracket at all.
// Bracket linking (phase 1) has already paired every `[`/`]` by the time
// declaration discovery runs, so each dimension's literal (if any) is read
// directly off the token between the pair.
func parseArrayDims(name *token.Token) ([]int, bool) {
	var dims []int
	t := name.Next()
	for t != nil && t.Spelling == "[" {
		closeBracket := t.Link
		if closeBracket == nil {
			return nil, false
		}
		if closeBracket == t.Next() {
			dims = append(dims, -1)
		} else if n, ok := parseArrayDimLiteral(t.Next()); ok {
			dims = append(dims, n)
		} else {
			dims = append(dims, -1)
		}
		t = closeBracket.Next()
	}
	return dims, len(dims) > 0
}

func parseArrayDimLiteral(tok *token.Token) (int, bool) {
	if tok == nil || tok.Kind != token.LiteralInt {
		return 0, false
	}
	n, err := strconv.Atoi(tok.Spelling)
	if err != nil {
		return 0, false
	}
	return n, true
}

// bindFunctionCallUses binds every call-expression identifier (one
// immediately followed by '(' that is not itself a declarator) to the
// nearest enclosing scope's matching overload. Overload resolution by
// argument type does not exist yet; the first (and in practice, for the
// declaration shapes phase 4 recognizes, the only) overload found walking
// outward from the call site's scope is taken.
func bindFunctionCallUses(ctx *Context) {
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Identifier || t.VarID != 0 {
			continue
		}
		next := t.Next()
		if next == nil || next.Spelling != "(" {
			continue
		}
		scope := ctx.DB.ScopeOf(t)
		for s := scope; s != nil; s = s.Parent {
			fns := ctx.DB.Overloads(t.Spelling, s)
			if len(fns) == 0 {
				continue
			}
			ctx.DB.BindCallSite(t, fns[0])
			t.Kind = token.FunctionName
			break
		}
	}
}

