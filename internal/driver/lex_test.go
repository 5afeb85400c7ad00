package driver

import (
	"testing"

	"github.com/cwbudde/cppgo/pkg/token"
	"github.com/stretchr/testify/require"
)

func TestLexProducesExpectedTokenKinds(t *testing.T) {
	list := token.NewList()
	_, err := Lex(list, "t.c", []byte(`int f(int a) { return a / 2; }`))
	require.NoError(t, err)

	var spellings []string
	var kinds []token.Kind
	for tok := list.Front(); tok != nil; tok = tok.Next() {
		spellings = append(spellings, tok.Spelling)
		kinds = append(kinds, tok.Kind)
	}

	require.Equal(t, []string{"int", "f", "(", "int", "a", ")", "{", "return", "a", "/", "2", ";", "}"}, spellings)
	require.Equal(t, token.Keyword, kinds[0])
	require.Equal(t, token.Identifier, kinds[1])
	require.Equal(t, token.Punctuator, kinds[2])
	require.Equal(t, token.Operator, kinds[9])
	require.Equal(t, token.LiteralInt, kinds[10])
}

func TestLexSkipsPreprocessorDirectivesAndComments(t *testing.T) {
	list := token.NewList()
	comments, err := Lex(list, "t.c", []byte(`#include <stdio.h>
// cppcheck-suppress zerodiv
int x = 1;
`))
	require.NoError(t, err)
	require.Equal(t, []string{"int", "x", "=", "1", ";"}, tokenSpellings(list))
	require.Len(t, comments, 1)
	require.Contains(t, comments[0].Text, "cppcheck-suppress")
}

func TestLexReportsUnrecognizedCharacter(t *testing.T) {
	list := token.NewList()
	_, err := Lex(list, "t.c", []byte("int x = `;"))
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, '`', lexErr.Rune)
}

func TestLexHandlesStringAndCharLiterals(t *testing.T) {
	list := token.NewList()
	_, err := Lex(list, "t.c", []byte(`char *p = "abc"; char c = 'x';`))
	require.NoError(t, err)

	var kinds []token.Kind
	for tok := list.Front(); tok != nil; tok = tok.Next() {
		kinds = append(kinds, tok.Kind)
	}
	require.Contains(t, kinds, token.LiteralString)
	require.Contains(t, kinds, token.LiteralChar)
}

func tokenSpellings(list *token.List) []string {
	var out []string
	for tok := list.Front(); tok != nil; tok = tok.Next() {
		out = append(out, tok.Spelling)
	}
	return out
}
