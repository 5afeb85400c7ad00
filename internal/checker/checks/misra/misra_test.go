package misra

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/pkg/token"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, list *token.List) checker.TU {
	t.Helper()
	tr, err := tokenizer.Tokenize(list, tokenizer.Options{})
	require.NoError(t, err)
	return checker.TU{Tokenizer: tr}
}

// void f(){ goto done; done: return; }
func TestNoGotoFlagsGotoStatement(t *testing.T) {
	l := token.NewList()
	file := l.Files().Intern("test.c")
	push := func(s string, k token.Kind) *token.Token {
		return l.Append(s, token.Position{File: file, Line: 1, Column: 1}, k)
	}
	push("void", token.Keyword)
	push("f", token.Identifier)
	push("(", token.Punctuator)
	push(")", token.Punctuator)
	push("{", token.Punctuator)
	push("goto", token.Keyword)
	push("done", token.Identifier)
	push(";", token.Punctuator)
	push("done", token.Identifier)
	push(":", token.Punctuator)
	push("return", token.Keyword)
	push(";", token.Punctuator)
	push("}", token.Punctuator)

	tu := tokenize(t, l)
	logger := diag.NewLogger()
	reg := checker.NewRegistry()
	reg.Register(NoGoto{}, logger)
	reg.RunAll(tu, logger)

	msgs := logger.Published()
	require.Len(t, msgs, 1)
	require.Equal(t, "misra-c2012-15.1", msgs[0].ID)
	require.Equal(t, "MISRA-C:2012 Rule 15.1", msgs[0].Classification)
}
