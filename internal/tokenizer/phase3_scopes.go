package tokenizer

import (
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// scopeDiscoveryPhase is spec.md §4.2 phase 3: walk token order, push a
// Scope on `{` (classified by what precedes it) and pop on the matching
// `}`, assigning every token its innermost scope along the way.
type scopeDiscoveryPhase struct{}

func (p *scopeDiscoveryPhase) Name() string { return "scope-discovery" }

func (p *scopeDiscoveryPhase) Run(ctx *Context) error {
	current := ctx.DB.Global
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		switch {
		case t.Spelling == "{" && t.Kind == token.Punctuator:
			kind := classifyBrace(t)
			current = ctx.DB.NewScope(kind, current, t, t.Link)
			ctx.DB.SetTokenScope(t, current)
		case t.Spelling == "}" && t.Kind == token.Punctuator && current != ctx.DB.Global:
			ctx.DB.SetTokenScope(t, current)
			current = current.Parent
		default:
			ctx.DB.SetTokenScope(t, current)
		}
	}
	return nil
}

// classifyBrace determines a new block's ScopeKind by looking at what
// immediately precedes its opening brace, skipping over one parenthesized
// group (a condition or parameter list) if present.
func classifyBrace(open *token.Token) symbols.ScopeKind {
	prev := open.Previous()
	if prev != nil && prev.Spelling == ")" && prev.Link != nil {
		prev = prev.Link.Previous()
	}
	if prev == nil {
		return symbols.ScopeBlock
	}
	switch prev.Spelling {
	case "if":
		return symbols.ScopeIf
	case "else":
		return symbols.ScopeElse
	case "for":
		return symbols.ScopeFor
	case "while":
		return symbols.ScopeWhile
	case "do":
		return symbols.ScopeDo
	case "switch":
		return symbols.ScopeSwitch
	case "try":
		return symbols.ScopeTry
	case "catch":
		return symbols.ScopeCatch
	case "namespace":
		return symbols.ScopeNamespace
	case "struct":
		return symbols.ScopeStruct
	case "union":
		return symbols.ScopeUnion
	case "class":
		return symbols.ScopeClass
	}
	// A `)` immediately closing an identifier's parameter list, where the
	// identifier is not itself a control keyword, reads as a function
	// definition: `name ( params ) {`.
	if closeParen := open.Previous(); closeParen != nil && closeParen.Spelling == ")" {
		return symbols.ScopeFunction
	}
	return symbols.ScopeBlock
}
