package checks

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/internal/valueflow"
	"github.com/cwbudde/cppgo/pkg/token"
	"github.com/stretchr/testify/require"
)

// builder lexes a minimal, already-tokenized C fragment by hand, the same
// fixture style internal/valueflow's own tests use rather than running a
// real preprocessor.
type builder struct {
	list *token.List
	file int
}

func newBuilder() *builder {
	l := token.NewList()
	return &builder{list: l, file: l.Files().Intern("test.c")}
}

func (b *builder) push(spelling string, kind token.Kind) *token.Token {
	return b.list.Append(spelling, token.Position{File: b.file, Line: 1, Column: 1}, kind)
}

func (b *builder) ident(s string) *token.Token   { return b.push(s, token.Identifier) }
func (b *builder) keyword(s string) *token.Token { return b.push(s, token.Keyword) }
func (b *builder) punct(s string) *token.Token   { return b.push(s, token.Punctuator) }
func (b *builder) op(s string) *token.Token      { return b.push(s, token.Operator) }
func (b *builder) intLit(s string) *token.Token  { return b.push(s, token.LiteralInt) }
func (b *builder) strLit(s string) *token.Token  { return b.push(s, token.LiteralString) }

func mustAnalyze(t *testing.T, list *token.List) checker.TU {
	t.Helper()
	tr, err := tokenizer.Tokenize(list, tokenizer.Options{})
	require.NoError(t, err)
	vf := valueflow.Analyze(tr, valueflow.Options{})
	return checker.TU{Tokenizer: tr, ValueFlow: vf}
}

// runSingleCheck runs c alone through a Registry against list, returning
// the published messages, for assertion without caring about rendering or
// cross-check ordering.
func runSingleCheck(t *testing.T, list *token.List, c checker.Check) []diag.Message {
	t.Helper()
	tu := mustAnalyze(t, list)
	logger := diag.NewLogger()
	reg := checker.NewRegistry()
	reg.Register(c, logger)
	reg.RunAll(tu, logger)
	return logger.Published()
}
