// Package token defines the lexical unit shared by every later stage of the
// analyzer: the Token and the doubly linked TokenList that owns it.
//
// Symbol, type, and value information is deliberately kept out of this
// package. A Token carries only its own identity (spelling, position, AST
// operand links) plus the numeric VarID/ExprID handles; the rich
// back-references named in spec.md (Variable, Function, Scope, ValueType,
// Values) live in side tables kept by the packages that compute them
// (internal/symbols, internal/valueflow), keyed by *Token or by the numeric
// id. This mirrors go/types.Info rather than go/ast.Object, and it is the
// only way to give Token pointer-level back-references without an import
// cycle between pkg/token and the packages built on top of it.
package token

import "fmt"

// Kind classifies a Token lexically. The preprocessor supplies an initial
// guess (KindHint in the upstream record); the Tokenizer may refine it
// during syntax normalization and type resolution.
type Kind int

const (
	Invalid Kind = iota
	Identifier
	Keyword
	LiteralInt
	LiteralFloat
	LiteralChar
	LiteralString
	Operator
	Punctuator
	TypeName
	VariableName
	FunctionName
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case LiteralInt:
		return "literal-integer"
	case LiteralFloat:
		return "literal-float"
	case LiteralChar:
		return "literal-char"
	case LiteralString:
		return "literal-string"
	case Operator:
		return "operator"
	case Punctuator:
		return "punctuator"
	case TypeName:
		return "type-name"
	case VariableName:
		return "variable-name"
	case FunctionName:
		return "function-name"
	default:
		return "invalid"
	}
}

// Position is a location in the original source, resolved through a
// FileTable. Line and Column are 1-based, matching the upstream contract.
type Position struct {
	File   int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// FileTable maps a Position.File index to the path the preprocessor used.
type FileTable struct {
	paths []string
}

// NewFileTable creates an empty file table.
func NewFileTable() *FileTable {
	return &FileTable{}
}

// Intern returns the index for path, adding it if this is the first time it
// is seen.
func (ft *FileTable) Intern(path string) int {
	for i, p := range ft.paths {
		if p == path {
			return i
		}
	}
	ft.paths = append(ft.paths, path)
	return len(ft.paths) - 1
}

// Path resolves a file index back to its path, or "" if out of range.
func (ft *FileTable) Path(idx int) string {
	if idx < 0 || idx >= len(ft.paths) {
		return ""
	}
	return ft.paths[idx]
}

// Len reports how many distinct files are registered.
func (ft *FileTable) Len() int { return len(ft.paths) }

// Token is the atomic unit. Ownership is exclusive to the TokenList that
// created it; every pointer field on Token is a non-owning back-reference
// whose validity is coterminous with that TokenList.
type Token struct {
	Spelling    string
	Kind        Kind
	Pos         Position
	MacroOrigin bool

	// VarID identifies the declared object this token refers to, assigned
	// during variable/function discovery. 0 means "not a variable use".
	VarID int

	// ExprID is the hash-consed structural-equivalence id assigned during
	// exprId assignment. 0 means "no expression id" (e.g. punctuation).
	ExprID int

	// Link pairs a bracket token with its partner: ( with ), [ with ],
	// { with }. nil outside of bracket tokens.
	Link *Token

	// AST operand links, woven directly onto the token instead of a
	// separate node object, per spec.md §3/§9.
	AstParent   *Token
	AstOperand1 *Token
	AstOperand2 *Token

	next, prev *Token
	list       *List
}

// Next returns the following token in source order, or nil at the tail.
func (t *Token) Next() *Token { return t.next }

// Previous returns the preceding token in source order, or nil at the head.
func (t *Token) Previous() *Token { return t.prev }

// IsBracket reports whether t opens or closes a (), [], or {} pair.
func (t *Token) IsBracket() bool {
	switch t.Spelling {
	case "(", ")", "[", "]", "{", "}":
		return t.Kind == Punctuator
	default:
		return false
	}
}

// IsOpeningBracket reports whether t is (, [, or {.
func (t *Token) IsOpeningBracket() bool {
	return t.IsBracket() && (t.Spelling == "(" || t.Spelling == "[" || t.Spelling == "{")
}

// AstTop walks AstParent links to the root of t's expression tree.
func (t *Token) AstTop() *Token {
	top := t
	for top.AstParent != nil {
		top = top.AstParent
	}
	return top
}

// List is the ordered, doubly linked sequence of Tokens plus the file
// table. It is the single source of truth for source order: every other
// structure (scopes, symbol tables, value-flow results) refers into it by
// *Token or by VarID/ExprID rather than copying tokens around.
type List struct {
	head, tail *Token
	files      *FileTable
	length     int
}

// NewList creates an empty TokenList backed by a fresh FileTable.
func NewList() *List {
	return &List{files: NewFileTable()}
}

// Files returns the file table backing this list's Positions.
func (l *List) Files() *FileTable { return l.files }

// Front returns the first token, or nil if the list is empty.
func (l *List) Front() *Token { return l.head }

// Back returns the last token, or nil if the list is empty.
func (l *List) Back() *Token { return l.tail }

// Len reports the number of tokens currently in the list.
func (l *List) Len() int { return l.length }

// Append adds a new token at the tail in O(1).
func (l *List) Append(spelling string, pos Position, kind Kind) *Token {
	t := &Token{Spelling: spelling, Pos: pos, Kind: kind, list: l}
	if l.tail == nil {
		l.head, l.tail = t, t
	} else {
		t.prev = l.tail
		l.tail.next = t
		l.tail = t
	}
	l.length++
	return t
}

// InsertAfter splices a new token immediately after at.
func (l *List) InsertAfter(at *Token, spelling string, pos Position, kind Kind) *Token {
	t := &Token{Spelling: spelling, Pos: pos, Kind: kind, list: l}
	t.prev = at
	t.next = at.next
	if at.next != nil {
		at.next.prev = t
	} else {
		l.tail = t
	}
	at.next = t
	l.length++
	return t
}

// InsertBefore splices a new token immediately before at.
func (l *List) InsertBefore(at *Token, spelling string, pos Position, kind Kind) *Token {
	t := &Token{Spelling: spelling, Pos: pos, Kind: kind, list: l}
	t.next = at
	t.prev = at.prev
	if at.prev != nil {
		at.prev.next = t
	} else {
		l.head = t
	}
	at.prev = t
	l.length++
	return t
}

// Delete removes t from the list. If t is a bracket with a Link, the
// caller must detach the partner separately: Delete refuses to silently
// break the bracket-link invariant (spec.md §4.1).
func (l *List) Delete(t *Token) error {
	if t.Link != nil {
		return fmt.Errorf("token: delete %q at %s: bracket partner still linked, detach it first", t.Spelling, t.Pos)
	}
	if t.prev != nil {
		t.prev.next = t.next
	} else {
		l.head = t.next
	}
	if t.next != nil {
		t.next.prev = t.prev
	} else {
		l.tail = t.prev
	}
	t.next, t.prev, t.list = nil, nil, nil
	l.length--
	return nil
}

// Unlink removes the bracket-link relationship between a matched pair
// without deleting either token, so that Delete can then remove them one
// at a time.
func Unlink(a, b *Token) {
	if a != nil {
		a.Link = nil
	}
	if b != nil {
		b.Link = nil
	}
}

// SyntaxError is a fatal diagnostic: the condition it describes aborts
// analysis of the whole translation unit.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Message)
}

// LinkBrackets pairs (), [], {} using a single stack-based pass. On
// imbalance it returns a *SyntaxError; pairs closed before the error was
// found keep the links already assigned to them. On success link
// assignment is total: every bracket got a partner.
func (l *List) LinkBrackets() error {
	type open struct {
		tok  *Token
		ch   byte
	}
	var stack []open
	closers := map[string]string{")": "(", "]": "[", "}": "{"}
	openers := map[string]string{"(": ")", "[": "]", "{": "}"}

	for t := l.head; t != nil; t = t.next {
		if t.Kind != Punctuator {
			continue
		}
		if _, ok := openers[t.Spelling]; ok {
			stack = append(stack, open{tok: t})
			continue
		}
		if want, ok := closers[t.Spelling]; ok {
			if len(stack) == 0 {
				return &SyntaxError{Pos: t.Pos, Message: fmt.Sprintf("unmatched %q", t.Spelling)}
			}
			top := stack[len(stack)-1]
			if top.tok.Spelling != want {
				return &SyntaxError{Pos: t.Pos, Message: fmt.Sprintf("expected closer for %q, found %q", top.tok.Spelling, t.Spelling)}
			}
			stack = stack[:len(stack)-1]
			top.tok.Link = t
			t.Link = top.tok
		}
	}
	if len(stack) != 0 {
		top := stack[len(stack)-1]
		return &SyntaxError{Pos: top.tok.Pos, Message: fmt.Sprintf("unmatched %q", top.tok.Spelling)}
	}
	return nil
}
