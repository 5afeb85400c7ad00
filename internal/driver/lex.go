package driver

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/cppgo/pkg/token"
)

// keywords is the fixed C/C++ keyword set this lexer classifies as
// token.Keyword rather than token.Identifier. It is intentionally the
// union of C99 and the C++ keywords exercised by the checks in
// internal/checker/checks, not an exhaustive standard-wording list.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true, "_Bool": true,
	"bool": true, "true": true, "false": true, "class": true, "public": true,
	"private": true, "protected": true, "virtual": true, "namespace": true,
	"template": true, "typename": true, "new": true, "delete": true, "this": true,
	"nullptr": true, "using": true, "operator": true, "friend": true, "explicit": true,
	"catch": true, "throw": true, "try": true,
}

// multiCharOperators lists operator spellings longer than one byte, tried
// longest-first so e.g. ">>=" is never split into ">>" and "=".
var multiCharOperators = []string{
	"<<=", ">>=", "...", "->*",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "++", "--", "->",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "::",
}

// LexError reports a byte the lexer could not turn into any token, keeping
// the file/line/column so it renders the same way a tokenizer FatalError
// does.
type LexError struct {
	File string
	Line int
	Col  int
	Rune rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: unexpected character %q", e.File, e.Line, e.Col, e.Rune)
}

// InlineComment records a //- or /*...*/ comment's text and position, fed
// to diag.ParseInlineComment by the driver to recover cppcheck-suppress
// directives that a real preprocessor would otherwise have discarded.
type InlineComment struct {
	Text string
	Line int
}

// Lex turns raw source bytes into a token.List, appended to list under the
// given display path. It is a deliberately narrow stand-in for spec.md §6's
// out-of-scope "preprocessor" collaborator: no macro expansion, no #include
// following, no conditional compilation. #directives are skipped as a
// whole line (their payload is never tokenized) so that "#include <stdio.h>"
// doesn't get lexed as stray punctuation. Comments are stripped from the
// token stream but their text and line are returned so inline suppression
// directives survive.
func Lex(list *token.List, path string, src []byte) ([]InlineComment, error) {
	file := list.Files().Intern(path)
	var comments []InlineComment

	line, col := 1, 1
	i := 0
	advance := func(n int) {
		for _, b := range src[i : i+n] {
			if b == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += n
	}

	for i < len(src) {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			advance(1)
			continue

		case c == '#':
			for i < len(src) && src[i] != '\n' {
				advance(1)
			}
			continue

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			startLine := line
			advance(2)
			bodyStart := i
			for i < len(src) && src[i] != '\n' {
				advance(1)
			}
			comments = append(comments, InlineComment{Text: string(src[bodyStart:i]), Line: startLine})
			continue

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			startLine := line
			advance(2)
			bodyStart := i
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				advance(1)
			}
			bodyEnd := i
			if i < len(src) {
				advance(2)
			}
			comments = append(comments, InlineComment{Text: string(src[bodyStart:bodyEnd]), Line: startLine})
			continue

		case isIdentStart(c):
			start, startLine, startCol := i, line, col
			for i < len(src) && isIdentCont(src[i]) {
				advance(1)
			}
			spelling := string(src[start:i])
			kind := token.Identifier
			if keywords[spelling] {
				kind = token.Keyword
			}
			list.Append(spelling, token.Position{File: file, Line: startLine, Column: startCol}, kind)
			continue

		case c >= '0' && c <= '9':
			start, startLine, startCol := i, line, col
			isFloat := false
			for i < len(src) && (isIdentCont(src[i]) || src[i] == '.') {
				if src[i] == '.' {
					isFloat = true
				}
				advance(1)
			}
			kind := token.LiteralInt
			if isFloat {
				kind = token.LiteralFloat
			}
			list.Append(string(src[start:i]), token.Position{File: file, Line: startLine, Column: startCol}, kind)
			continue

		case c == '"':
			startLine, startCol := line, col
			start := i
			advance(1)
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' && i+1 < len(src) {
					advance(1)
				}
				advance(1)
			}
			if i < len(src) {
				advance(1)
			}
			list.Append(string(src[start:i]), token.Position{File: file, Line: startLine, Column: startCol}, token.LiteralString)
			continue

		case c == '\'':
			startLine, startCol := line, col
			start := i
			advance(1)
			for i < len(src) && src[i] != '\'' {
				if src[i] == '\\' && i+1 < len(src) {
					advance(1)
				}
				advance(1)
			}
			if i < len(src) {
				advance(1)
			}
			list.Append(string(src[start:i]), token.Position{File: file, Line: startLine, Column: startCol}, token.LiteralChar)
			continue
		}

		startLine, startCol := line, col
		if op, ok := matchOperator(src[i:]); ok {
			list.Append(op, token.Position{File: file, Line: startLine, Column: startCol}, token.Operator)
			advance(len(op))
			continue
		}

		if strings.ContainsRune("(){}[];,", rune(c)) {
			list.Append(string(c), token.Position{File: file, Line: startLine, Column: startCol}, token.Punctuator)
			advance(1)
			continue
		}

		if strings.ContainsRune("+-*/%&|^~!<>=.:?", rune(c)) {
			list.Append(string(c), token.Position{File: file, Line: startLine, Column: startCol}, token.Operator)
			advance(1)
			continue
		}

		r, _ := utf8.DecodeRune(src[i:])
		return comments, &LexError{File: path, Line: startLine, Col: startCol, Rune: r}
	}

	// Bracket linking is left to tokenizer.Tokenize's own bracket-linking
	// phase (internal/tokenizer/phase1_brackets.go), the one place that
	// work is meant to happen.
	return comments, nil
}

// LexFile reads path and lexes it into list, the convenience entry point
// Driver.Run uses per translation unit.
func LexFile(list *token.List, path string) ([]InlineComment, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Lex(list, path, src)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func matchOperator(rest []byte) (string, bool) {
	for _, op := range multiCharOperators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			return op, true
		}
	}
	return "", false
}
