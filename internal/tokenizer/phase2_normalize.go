package tokenizer

import (
	"github.com/cwbudde/cppgo/pkg/token"
)

// syntaxNormalizationPhase is spec.md §4.2 phase 2. It canonicalizes
// syntax ahead of scope/declaration discovery:
//
//   - single-statement bodies of if/else/for/while/do get implicit braces,
//     so scope discovery (phase 3) can treat every body uniformly as a
//     braced block;
//   - combined declarations ("int a, b;") are split into one declarator
//     per statement, so declaration discovery (phase 4) only ever has to
//     recognize a single-variable form;
//   - typedef names are captured into ctx.Typedefs so later phases can
//     treat a typedef'd identifier as a type keyword.
//
// for(init; cond; post) is not desugared further: the preprocessed token
// stream already gives the post-expression an explicit, unambiguous
// position between the loop's second and third ';', so there is nothing
// left to make explicit.
type syntaxNormalizationPhase struct{}

func (p *syntaxNormalizationPhase) Name() string { return "syntax-normalization" }

var controlKeywords = map[string]bool{"if": true, "for": true, "while": true, "do": true, "else": true}

func (p *syntaxNormalizationPhase) Run(ctx *Context) error {
	ctx.Typedefs = map[string]bool{}
	captureTypedefs(ctx)
	addImplicitBraces(ctx)
	splitCombinedDeclarations(ctx)
	return nil
}

// captureTypedefs records every name introduced by `typedef ... NAME ;`.
func captureTypedefs(ctx *Context) {
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "typedef" {
			continue
		}
		// The typedef name is the identifier immediately preceding ';',
		// skipping over any trailing pointer stars.
		cur := t.Next()
		var last *token.Token
		for cur != nil && cur.Spelling != ";" {
			if cur.Kind == token.Identifier {
				last = cur
			}
			cur = cur.Next()
		}
		if last != nil {
			last.Kind = token.TypeName
			ctx.Typedefs[last.Spelling] = true
		}
	}
}

// addImplicitBraces finds `if (cond) STMT` (and for/while/do/else
// equivalents) whose body is not already a `{`-opened block, and wraps the
// single statement in a synthetic `{ STMT }`.
func addImplicitBraces(ctx *Context) {
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.Keyword && t.Kind != token.Identifier {
			continue
		}
		if !controlKeywords[t.Spelling] {
			continue
		}

		bodyStart := t.Next()
		if t.Spelling != "else" && t.Spelling != "do" {
			// Skip the parenthesized condition.
			if bodyStart == nil || bodyStart.Spelling != "(" {
				continue
			}
			bodyStart = bodyStart.Link.Next()
		}
		if bodyStart == nil || bodyStart.Spelling == "{" {
			continue // already braced, or malformed (left for a later diagnostic)
		}

		end := statementEnd(bodyStart)
		if end == nil {
			continue
		}

		open := ctx.List.InsertBefore(bodyStart, "{", bodyStart.Pos, token.Punctuator)
		closeTok := ctx.List.InsertAfter(end, "}", end.Pos, token.Punctuator)
		open.Link = closeTok
		closeTok.Link = open
	}
}

// statementEnd returns the first ';' at or after start that is not nested
// inside a (), [] or {} opened after start, or nil if there is none. A
// body ending in a braced block therefore runs on to the next such ';'.
func statementEnd(start *token.Token) *token.Token {
	depth := 0
	for t := start; t != nil; t = t.Next() {
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

// splitCombinedDeclarations rewrites `TYPE a , b ;` into `TYPE a ; TYPE
// b ;`, repeating the leading type-keyword tokens for each declarator so
// phase 4 only has to recognize single declarations.
func splitCombinedDeclarations(ctx *Context) {
	for t := ctx.List.Front(); t != nil; t = t.Next() {
		if !isTypeStart(ctx, t) {
			continue
		}
		// Collect the declarator-type prefix (type keywords, pointer
		// stars, const/unsigned/signed qualifiers).
		var prefix []*token.Token
		cur := t
		for cur != nil && isTypePrefixToken(ctx, cur) {
			prefix = append(prefix, cur)
			cur = cur.Next()
		}
		if cur == nil || cur.Kind != token.Identifier {
			continue
		}
		// Walk forward to find a top-level comma before the terminating
		// ';' — that is the signal this is a combined declaration.
		name := cur
		after := name.Next()
		if after == nil || after.Spelling != "," {
			continue
		}

		// Rewrite: after the first declarator's own terminator position,
		// insert a synthetic ';' then repeat the prefix for each
		// subsequent comma-separated name.
		comma := after
		for comma != nil && comma.Spelling == "," {
			nextName := comma.Next()
			if nextName == nil || nextName.Kind != token.Identifier {
				break
			}
			semi := ctx.List.InsertBefore(comma, ";", comma.Pos, token.Punctuator)
			_ = semi
			ctx.List.Delete(comma)
			for _, pt := range prefix {
				ctx.List.InsertBefore(nextName, pt.Spelling, nextName.Pos, pt.Kind)
			}
			comma = nextName.Next()
		}
	}
}

func isTypeStart(ctx *Context, t *token.Token) bool {
	if t.Kind == token.TypeName {
		return true
	}
	switch t.Spelling {
	case "int", "char", "float", "double", "short", "long", "unsigned", "signed", "void", "bool", "_Bool":
		return true
	default:
		return ctx.Typedefs[t.Spelling]
	}
}

func isTypePrefixToken(ctx *Context, t *token.Token) bool {
	if isTypeStart(ctx, t) {
		return true
	}
	switch t.Spelling {
	case "const", "volatile", "*", "struct", "union", "enum", "static", "extern":
		return true
	default:
		return false
	}
}
