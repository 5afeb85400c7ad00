package tokenizer

import "github.com/cwbudde/cppgo/pkg/token"

// parseExpression parses the token range [start, end) into an AST rooted
// at the returned token, using the comma operator as the lowest-precedence
// entry point. The second return value is always end (kept for symmetry
// with the other parse* helpers that stop early).
func parseExpression(start, end *token.Token) (*token.Token, *token.Token) {
	if start == end || start == nil {
		return nil, end
	}
	root, _ := parseComma(start, end)
	return root, end
}

func parseComma(cur, end *token.Token) (*token.Token, *token.Token) {
	left, cur := parseAssignment(cur, end)
	for cur != end && cur != nil && cur.Spelling == "," {
		op := cur
		right, next := parseAssignment(cur.Next(), end)
		link(op, left, right)
		left, cur = op, next
	}
	return left, cur
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func parseAssignment(cur, end *token.Token) (*token.Token, *token.Token) {
	left, cur := parseTernary(cur, end)
	if cur != end && cur != nil && assignOps[cur.Spelling] {
		op := cur
		right, next := parseAssignment(cur.Next(), end) // right-associative
		link(op, left, right)
		return op, next
	}
	return left, cur
}

func parseTernary(cur, end *token.Token) (*token.Token, *token.Token) {
	cond, cur := parseBinary(cur, end, 1)
	if cur == end || cur == nil || cur.Spelling != "?" {
		return cond, cur
	}
	question := cur
	thenExpr, cur2 := parseAssignment(cur.Next(), end)
	if cur2 == end || cur2 == nil || cur2.Spelling != ":" {
		// Malformed ternary: return what was parsed of the condition and
		// let the caller's scan continue from the '?'.
		return cond, cur
	}
	colon := cur2
	elseExpr, next := parseAssignment(cur2.Next(), end)
	link(colon, thenExpr, elseExpr)
	link(question, cond, colon)
	return question, next
}

// binaryPrecedence ranks left-associative binary operators; higher binds
// tighter. Assignment, ternary, and comma are handled above this level.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func parseBinary(cur, end *token.Token, minPrec int) (*token.Token, *token.Token) {
	left, cur := parseUnary(cur, end)
	for cur != end && cur != nil {
		prec, ok := binaryPrecedence[cur.Spelling]
		if !ok || prec < minPrec {
			break
		}
		op := cur
		right, next := parseBinary(cur.Next(), end, prec+1)
		link(op, left, right)
		left, cur = op, next
	}
	return left, cur
}

var unaryPrefixOps = map[string]bool{
	"!": true, "~": true, "-": true, "+": true, "*": true, "&": true,
	"++": true, "--": true,
}

func parseUnary(cur, end *token.Token) (*token.Token, *token.Token) {
	if cur == end || cur == nil {
		return nil, cur
	}
	if cur.Spelling == "sizeof" {
		op := cur
		next := cur.Next()
		if next != nil && next.Spelling == "(" && next.Link != nil {
			// sizeof(type) or sizeof(expr): the parenthesized contents
			// become operand1 as an opaque leaf (type resolution, not
			// AST construction, interprets it).
			op.AstOperand1 = next.Next()
			if op.AstOperand1 != nil {
				op.AstOperand1.AstParent = op
			}
			return op, next.Link.Next()
		}
		operand, rest := parseUnary(next, end)
		link(op, operand, nil)
		return op, rest
	}
	if unaryPrefixOps[cur.Spelling] && cur.Kind == token.Operator {
		op := cur
		operand, next := parseUnary(cur.Next(), end)
		link(op, operand, nil)
		return op, next
	}
	return parsePostfix(cur, end)
}

func parsePostfix(cur, end *token.Token) (*token.Token, *token.Token) {
	primary, cur := parsePrimary(cur, end)
	for cur != end && cur != nil {
		switch {
		case cur.Spelling == "(" && cur.Link != nil:
			call := cur
			args := parseCallArgs(cur.Next(), cur.Link)
			call.AstOperand1 = primary
			if primary != nil {
				primary.AstParent = call
			}
			if len(args) > 0 {
				call.AstOperand2 = args[0]
				args[0].AstParent = call
			}
			primary, cur = call, cur.Link.Next()
		case cur.Spelling == "[" && cur.Link != nil:
			bracket := cur
			index, _ := parseExpression(cur.Next(), cur.Link)
			link(bracket, primary, index)
			primary, cur = bracket, cur.Link.Next()
		case cur.Spelling == "." || cur.Spelling == "->":
			op := cur
			member := cur.Next()
			link(op, primary, member)
			primary = op
			if member != nil {
				cur = member.Next()
			} else {
				cur = nil
			}
		case cur.Spelling == "++" || cur.Spelling == "--":
			op := cur
			link(op, primary, nil)
			primary, cur = op, cur.Next()
		default:
			return primary, cur
		}
	}
	return primary, cur
}

// parseCallArgs parses a comma-separated argument list into one slice of
// per-argument roots. parsePostfix links only the first root under the
// call (as its AstOperand2); the others keep their own operand links but
// no parent, and value-flow recovers them by walking the call's
// parenthesized token range.
func parseCallArgs(start, end *token.Token) []*token.Token {
	if start == end {
		return nil
	}
	var args []*token.Token
	cur := start
	for cur != end && cur != nil {
		argEnd := nextTopLevelComma(cur, end)
		root, _ := parseAssignment(cur, argEnd)
		if root != nil {
			args = append(args, root)
		}
		if argEnd == end {
			break
		}
		cur = argEnd.Next()
	}
	return args
}

func nextTopLevelComma(start, end *token.Token) *token.Token {
	depth := 0
	for t := start; t != nil && t != end; t = t.Next() {
		if t.IsOpeningBracket() {
			depth++
		} else if t.IsBracket() && !t.IsOpeningBracket() {
			depth--
		} else if t.Spelling == "," && depth == 0 {
			return t
		}
	}
	return end
}

func parsePrimary(cur, end *token.Token) (*token.Token, *token.Token) {
	if cur == end || cur == nil {
		return nil, cur
	}
	if cur.Spelling == "(" && cur.Link != nil {
		inner, _ := parseExpression(cur.Next(), cur.Link)
		return inner, cur.Link.Next()
	}
	return cur, cur.Next()
}

// link wires a binary (or unary, with b nil) AST node's operands and their
// back-pointers in one place.
func link(op, a, b *token.Token) {
	op.AstOperand1 = a
	op.AstOperand2 = b
	if a != nil {
		a.AstParent = op
	}
	if b != nil {
		b.AstParent = op
	}
}
