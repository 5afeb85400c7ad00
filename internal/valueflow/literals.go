package valueflow

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/pkg/token"
)

// foldLiterals is sub-analysis 1: every integer/float/char literal token
// gets its own Known value attached directly, the base case every other
// propagation pass builds on.
func foldLiterals(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		switch t.Kind {
		case token.LiteralInt:
			if n, ok := parseIntLiteral(t.Spelling); ok {
				c.res.attach(t, avalue.IntBig(n))
			}
		case token.LiteralFloat:
			if f, ok := parseFloatLiteral(t.Spelling); ok {
				c.res.attach(t, avalue.Float(f))
			}
		case token.LiteralChar:
			if r, ok := parseCharLiteral(t.Spelling); ok {
				c.res.attach(t, avalue.Int64(int64(r)))
			}
		}
	}
}

// parseIntLiteral strips C/C++ integer suffixes (u/U/l/L in any order) and
// parses the remainder, honoring 0x/0b prefixes and a leading 0 as octal.
func parseIntLiteral(spelling string) (*big.Int, bool) {
	body := strings.TrimRight(spelling, "uUlL")
	body = strings.ReplaceAll(body, "'", "") // C++14 digit separators
	if body == "" {
		return nil, false
	}
	n := new(big.Int)
	base := 10
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		base, body = 16, body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		base, body = 2, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, body = 8, body[1:]
	}
	if _, ok := n.SetString(body, base); !ok {
		return nil, false
	}
	return n, true
}

func parseFloatLiteral(spelling string) (float64, bool) {
	body := strings.TrimRight(spelling, "fFlL")
	f, err := strconv.ParseFloat(body, 64)
	return f, err == nil
}

// parseCharLiteral resolves the handful of escape sequences the checker
// layer actually needs to reason about. Any other escape reports ok=false,
// and foldLiterals attaches no value for it.
func parseCharLiteral(spelling string) (rune, bool) {
	body := strings.Trim(spelling, "'")
	if body == "" {
		return 0, false
	}
	if body[0] != '\\' {
		r := []rune(body)
		if len(r) != 1 {
			return 0, false
		}
		return r[0], true
	}
	switch body {
	case `\0`:
		return 0, true
	case `\n`:
		return '\n', true
	case `\t`:
		return '\t', true
	case `\r`:
		return '\r', true
	case `\\`:
		return '\\', true
	case `\'`:
		return '\'', true
	default:
		return 0, false
	}
}

// foldStringLengths is sub-analysis 4: a string literal's length (not
// counting quotes, counting the terminating NUL per the standard's
// strlen/sizeof convention) is always Known.
func foldStringLengths(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Kind != token.LiteralString {
			continue
		}
		body := strings.Trim(t.Spelling, `"`)
		c.res.attach(t, avalue.Value{
			Kind:          avalue.KindContainerSize,
			ContainerSize: big.NewInt(int64(len(body)) + 1),
			Certainty:     avalue.Known,
		})
	}
}

// foldSizeof is sub-analysis 6: a sizeof(...) node's value is Known
// whenever its operand's cctype.Type can be resolved — either a bound
// variable's declared Type, or a single basic-type keyword captured as
// the operand.
func foldSizeof(c *ctx) {
	for t := c.tr.List.Front(); t != nil; t = t.Next() {
		if t.Spelling != "sizeof" || t.AstOperand1 == nil {
			continue
		}
		operand := t.AstOperand1
		typ, ok := resolveOperandType(c, operand)
		if !ok {
			c.res.bailout(t, "sizeof-folding", BailoutUnsupportedConstruct)
			continue
		}
		c.res.attach(t, avalue.Int64(int64(c.opts.Platform.SizeOf(typ))))
	}
}

// resolveOperandType resolves sizeof's operand to a cctype.Type: a bound
// variable's declared type, or a single basic-type keyword (the common
// "sizeof(int)" shape — multi-keyword basics like "unsigned long" are left
// unresolved, a BailoutUnsupportedConstruct, since the AST link here only
// carries the operand's first token, not its full span).
func resolveOperandType(c *ctx, operand *token.Token) (cctype.Type, bool) {
	if operand == nil {
		return cctype.Type{}, false
	}
	if v := c.tr.DB.VariableOf(operand); v != nil {
		return v.Type, true
	}
	switch operand.Spelling {
	case "void":
		return cctype.Type{Basic: cctype.Void}, true
	case "bool", "_Bool":
		return cctype.Type{Basic: cctype.Bool}, true
	case "char":
		return cctype.Type{Basic: cctype.Char}, true
	case "short":
		return cctype.Type{Basic: cctype.Short}, true
	case "int":
		return cctype.Type{Basic: cctype.Int}, true
	case "long":
		return cctype.Type{Basic: cctype.Long}, true
	case "float":
		return cctype.Type{Basic: cctype.Float}, true
	case "double":
		return cctype.Type{Basic: cctype.Double}, true
	default:
		return cctype.Type{}, false
	}
}
