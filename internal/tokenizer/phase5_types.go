package tokenizer

import (
	"strings"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/pkg/token"
)

// typeResolutionPhase is spec.md §4.2 phase 5: turn each declarator's
// captured prefix tokens into a cctype.Type, under the run's configured
// Platform, and stamp every declared variable, function return type and
// parameter accordingly. Literal tokens get no stored type.
type typeResolutionPhase struct{}

func (p *typeResolutionPhase) Name() string { return "type-resolution" }

func (p *typeResolutionPhase) Run(ctx *Context) error {
	for _, v := range ctx.varForDeclare {
		v.Type = resolvePrefixType(ctx, ctx.declPrefix[v.Declared])
		if dims, ok := ctx.arrayDims[v.Declared]; ok {
			v.Type.IsArray = true
			v.Type.ArrayDims = dims
		}
	}
	for fn, nameTok := range ctx.funcPrefix {
		fn.ReturnType = resolvePrefixType(ctx, ctx.declPrefix[nameTok])
		for _, param := range fn.Parameters {
			param.Type = resolvePrefixType(ctx, ctx.declPrefix[param.Declared])
		}
	}
	resolveLiteralTypes(ctx)
	return nil
}

// resolvePrefixType reduces a declarator's captured prefix tokens (basic
// keyword, qualifiers, pointer stars) into a single cctype.Type. Multi-
// keyword combinations ("unsigned long long") fold left to right; a bare
// "unsigned"/"signed" with no following basic defaults to int, per the
// standard's elision rule.
func resolvePrefixType(ctx *Context, prefix []*token.Token) cctype.Type {
	var t cctype.Type
	sawUnsigned, sawSigned, sawBasic := false, false, false

	for _, pt := range prefix {
		switch pt.Spelling {
		case "*":
			t.PointerDepth++
		case "const":
			t.IsConst = true
		case "volatile":
			t.IsVolatile = true
		case "unsigned":
			sawUnsigned = true
		case "signed":
			sawSigned = true
		case "void":
			t.Basic, sawBasic = cctype.Void, true
		case "bool", "_Bool":
			t.Basic, sawBasic = cctype.Bool, true
		case "char":
			t.Basic, sawBasic = cctype.Char, true
		case "short":
			t.Basic, sawBasic = cctype.Short, true
		case "int":
			if !sawBasic {
				t.Basic = cctype.Int
			}
			sawBasic = true
		case "long":
			if t.Basic == cctype.Long {
				t.Basic = cctype.LongLong
			} else {
				t.Basic = cctype.Long
			}
			sawBasic = true
		case "float":
			t.Basic, sawBasic = cctype.Float, true
		case "double":
			if t.Basic == cctype.Long {
				t.Basic = cctype.LongDouble
			} else {
				t.Basic = cctype.Double
			}
			sawBasic = true
		case "struct", "union", "enum":
			// member type resolution is left to the user-type table; the
			// declarator's own Basic stays Unknown here.
		default:
			if ctx.Typedefs[pt.Spelling] {
				t.Basic, sawBasic = cctype.Unknown, true
			}
		}
	}

	if !sawBasic {
		t.Basic = cctype.Int
	}
	if sawUnsigned {
		t.Basic = unsignedVariant(t.Basic)
	} else if sawSigned && t.Basic == cctype.Char {
		t.Basic = cctype.SChar
	}
	return t
}

func unsignedVariant(b cctype.Basic) cctype.Basic {
	switch b {
	case cctype.Char:
		return cctype.UChar
	case cctype.SChar:
		return cctype.UChar
	case cctype.Short:
		return cctype.UShort
	case cctype.Int:
		return cctype.UInt
	case cctype.Long:
		return cctype.ULong
	case cctype.LongLong:
		return cctype.ULongLong
	default:
		return b
	}
}

// resolveLiteralTypes stores nothing: literals do not own a Variable, and
// their U/L/LL suffix characters stay in Spelling, from which literalBasic
// can compute a Basic on demand.
func resolveLiteralTypes(ctx *Context) {
	// A no-op; no literal type is stored on tokens.
	_ = ctx
}

// literalBasic infers a literal token's Basic from its spelling. No phase
// calls it at present.
func literalBasic(t *token.Token) cctype.Basic {
	switch t.Kind {
	case token.LiteralFloat:
		return cctype.Double
	case token.LiteralChar:
		return cctype.Char
	case token.LiteralString:
		return cctype.Char // decays to char*, PointerDepth applied by caller
	case token.LiteralInt:
		return integerLiteralBasic(t.Spelling)
	default:
		return cctype.Unknown
	}
}

// integerLiteralBasic applies the U/L/LL suffix rules to an integer
// literal's spelling to pick its Basic.
func integerLiteralBasic(spelling string) cctype.Basic {
	body := strings.TrimRight(spelling, "uUlL")
	suffix := spelling[len(body):]

	unsigned := strings.ContainsAny(suffix, "uU")
	longCount := strings.Count(suffix, "l") + strings.Count(suffix, "L")

	switch {
	case longCount >= 2 && unsigned:
		return cctype.ULongLong
	case longCount >= 2:
		return cctype.LongLong
	case longCount == 1 && unsigned:
		return cctype.ULong
	case longCount == 1:
		return cctype.Long
	case unsigned:
		return cctype.UInt
	default:
		return cctype.Int
	}
}
