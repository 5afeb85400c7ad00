package valueflow

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/pkg/token"
)

// builder lexes a minimal, already-tokenized C fragment by hand, the same
// way internal/tokenizer's own tests construct fixtures directly rather
// than running a real preprocessor.
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

func mustTokenize(t *testing.T, list *token.List) *tokenizer.Result {
	t.Helper()
	res, err := tokenizer.Tokenize(list, tokenizer.Options{})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	return res
}

// int x; x = 5; x;
func TestForwardAssignmentsCarriesLiteralToLaterUse(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("x")
	b.punct(";")
	b.ident("x")
	b.op("=")
	b.intLit("5")
	b.punct(";")
	lastUse := b.ident("x")
	b.punct(";")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	set, ok := res.Sets[lastUse]
	if !ok {
		t.Fatalf("expected a value set for the trailing use of x")
	}
	v, ok := set.Known(avalue.KindInteger)
	if !ok || v.Int == nil || v.Int.Int64() != 5 {
		t.Fatalf("want Known integer 5 forwarded to later use, got %+v (ok=%v)", v, ok)
	}
}

// const int x = 7; int y; y = x;
func TestGlobalConstantPropagatesThroughAssignment(t *testing.T) {
	b := newBuilder()
	b.keyword("const")
	b.keyword("int")
	b.ident("x")
	b.op("=")
	b.intLit("7")
	b.punct(";")
	b.keyword("int")
	b.ident("y")
	b.punct(";")
	b.ident("y")
	b.op("=")
	xUse := b.ident("x")
	b.punct(";")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	set, ok := res.Sets[xUse]
	if !ok {
		t.Fatalf("expected a value set for x's use on the rhs of y = x")
	}
	v, ok := set.Known(avalue.KindInteger)
	if !ok || v.Int == nil || v.Int.Int64() != 7 {
		t.Fatalf("want Known integer 7 propagated from the const declaration, got %+v (ok=%v)", v, ok)
	}
}

// enum { A, B, C }; int y; y = B;
func TestEnumeratorsFoldToSequentialValues(t *testing.T) {
	b := newBuilder()
	b.keyword("enum")
	b.punct("{")
	b.ident("A")
	b.punct(",")
	b.ident("B")
	b.punct(",")
	b.ident("C")
	b.punct("}")
	b.punct(";")
	b.keyword("int")
	b.ident("y")
	b.punct(";")
	b.ident("y")
	b.op("=")
	bUse := b.ident("B")
	b.punct(";")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	set, ok := res.Sets[bUse]
	if !ok {
		t.Fatalf("expected a value set for B's use")
	}
	v, ok := set.Known(avalue.KindInteger)
	if !ok || v.Int == nil || v.Int.Int64() != 1 {
		t.Fatalf("want B to fold to 1 (A=0, B=1, C=2), got %+v (ok=%v)", v, ok)
	}
}

// int x; if (x == 5) { x; }
func TestNarrowByConditionAttachesEqualityInsideBranch(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("x")
	b.punct(";")
	b.keyword("if")
	b.punct("(")
	b.ident("x")
	b.op("==")
	b.intLit("5")
	b.punct(")")
	b.punct("{")
	narrowed := b.ident("x")
	b.punct(";")
	b.punct("}")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	set, ok := res.Sets[narrowed]
	if !ok {
		t.Fatalf("expected a value set for x inside the if-branch")
	}
	found := false
	for _, v := range set.All() {
		if v.Kind == avalue.KindInteger && v.Int != nil && v.Int.Int64() == 5 {
			found = true
		}
	}
	if !found {
		t.Fatalf("want x narrowed to 5 inside the equality branch, got %+v", set.All())
	}
}

// for (i = 0; i < 3; i++) { i; }
func TestLoopInductionEnumeratesBoundedIterations(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("i")
	b.punct(";")
	b.keyword("for")
	b.punct("(")
	b.ident("i")
	b.op("=")
	b.intLit("0")
	b.punct(";")
	b.ident("i")
	b.op("<")
	b.intLit("3")
	b.punct(";")
	b.ident("i")
	b.op("++")
	b.punct(")")
	b.punct("{")
	inBody := b.ident("i")
	b.punct(";")
	b.punct("}")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	set, ok := res.Sets[inBody]
	if !ok {
		t.Fatalf("expected a value set for i inside the loop body")
	}
	seen := map[int64]bool{}
	for _, v := range set.All() {
		if v.Kind == avalue.KindInteger && v.Certainty == avalue.Possible && v.Int != nil {
			seen[v.Int.Int64()] = true
		}
	}
	for _, want := range []int64{0, 1, 2} {
		if !seen[want] {
			t.Fatalf("want iteration value %d attached as Possible, saw %+v", want, seen)
		}
	}
}

// int v; v . push_back ( 1 ) ; v . push_back ( 1 ) ; v . size ( ) ;
func TestContainerSizePropagationTracksPushBack(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("v")
	b.punct(";")

	b.ident("v")
	b.punct(".")
	b.ident("push_back")
	b.punct("(")
	b.intLit("1")
	b.punct(")")
	b.punct(";")

	b.ident("v")
	b.punct(".")
	b.ident("push_back")
	b.punct("(")
	b.intLit("1")
	b.punct(")")
	b.punct(";")

	b.ident("v")
	b.punct(".")
	sizeCall := b.ident("size")
	b.punct("(")
	b.punct(")")
	b.punct(";")

	tr := mustTokenize(t, b.list)
	res := Analyze(tr, Options{})

	sizeVarTok := sizeCall.Previous().Previous() // the "v" token preceding ". size ("
	set, ok := res.Sets[sizeVarTok]
	if !ok {
		t.Fatalf("expected a value set attached at the size() call site")
	}
	v, ok := set.Known(avalue.KindContainerSize)
	if !ok || v.ContainerSize == nil || v.ContainerSize.Int64() != 2 {
		t.Fatalf("want container size 2 after two push_back calls, got %+v (ok=%v)", v, ok)
	}
}
