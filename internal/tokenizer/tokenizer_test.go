package tokenizer

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// builder lexes a minimal, already-tokenized C fragment by hand: real
// preprocessing is out of scope for this package, so tests construct the
// token stream directly, the same way phase-level teacher tests build
// their own AST/token fixtures inline.
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

func (b *builder) ident(s string) *token.Token    { return b.push(s, token.Identifier) }
func (b *builder) keyword(s string) *token.Token  { return b.push(s, token.Keyword) }
func (b *builder) punct(s string) *token.Token    { return b.push(s, token.Punctuator) }
func (b *builder) op(s string) *token.Token       { return b.push(s, token.Operator) }
func (b *builder) intLit(s string) *token.Token   { return b.push(s, token.LiteralInt) }

// int add(int a, int b) { int c; c = a + b; return c; }
func buildAddFunction(t *testing.T) *token.List {
	t.Helper()
	b := newBuilder()
	b.keyword("int")
	b.ident("add")
	b.punct("(")
	b.keyword("int")
	b.ident("a")
	b.punct(",")
	b.keyword("int")
	b.ident("b")
	b.punct(")")
	b.punct("{")
	b.keyword("int")
	b.ident("c")
	b.punct(";")
	b.ident("c")
	b.op("=")
	b.ident("a")
	b.op("+")
	b.ident("b")
	b.punct(";")
	b.keyword("return")
	b.ident("c")
	b.punct(";")
	b.punct("}")

	return b.list
}

func TestTokenizeAddFunction(t *testing.T) {
	list := buildAddFunction(t)

	res, err := Tokenize(list, Options{})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	fns := res.DB.Functions()
	if len(fns) != 1 {
		t.Fatalf("want 1 function, got %d", len(fns))
	}
	fn := fns[0]
	if fn.Name != "add" {
		t.Fatalf("want function named add, got %q", fn.Name)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("want 2 parameters, got %d", len(fn.Parameters))
	}
	if fn.Parameters[0].Name != "a" || fn.Parameters[1].Name != "b" {
		t.Fatalf("unexpected parameter names: %+v", fn.Parameters)
	}

	vars := res.DB.Variables()
	var local *symbols.Variable
	for _, v := range vars {
		if v.Name == "c" && v.Scope.Kind == symbols.ScopeFunction {
			local = v
		}
	}
	if local == nil {
		t.Fatalf("want local variable c declared in function scope, vars: %+v", vars)
	}

	if len(fn.ReturnValues) != 1 {
		t.Fatalf("want 1 return value recorded, got %d", len(fn.ReturnValues))
	}
	if fn.ReturnValues[0].VarID != local.ID {
		t.Fatalf("return expression should resolve to local c")
	}
}

func TestTokenizeBindsParameterUsesInsideBody(t *testing.T) {
	list := buildAddFunction(t)
	res, err := Tokenize(list, Options{})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	fns := res.DB.Functions()
	fn := fns[0]
	aParam, bParam := fn.Parameters[0], fn.Parameters[1]
	if aParam.ID == 0 || bParam.ID == 0 {
		t.Fatalf("parameters should have been assigned VarIDs")
	}

	var sawAUse, sawBUse bool
	for cur := list.Front(); cur != nil; cur = cur.Next() {
		if cur.VarID == aParam.ID && cur != aParam.Declared {
			sawAUse = true
		}
		if cur.VarID == bParam.ID && cur != bParam.Declared {
			sawBUse = true
		}
	}
	if !sawAUse || !sawBUse {
		t.Fatalf("expected both parameters to have a bound use inside the body")
	}
}

func TestTokenizeAssignsExprIDsConsistently(t *testing.T) {
	list := buildAddFunction(t)
	if _, err := Tokenize(list, Options{}); err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	var assign *token.Token
	for cur := list.Front(); cur != nil; cur = cur.Next() {
		if cur.Spelling == "=" && cur.Kind == token.Operator {
			assign = cur
		}
	}
	if assign == nil {
		t.Fatalf("expected to find the assignment operator token")
	}
	if assign.ExprID == 0 {
		t.Fatalf("assignment node should have a non-zero ExprID")
	}
	plus := assign.AstOperand2
	if plus == nil || plus.Spelling != "+" {
		t.Fatalf("want assignment's rhs to be the + node, got %+v", plus)
	}
	if assign.AstOperand1.ExprID == 0 {
		t.Fatalf("lhs of assignment should have an ExprID")
	}
	// Two uses of the same variable (c on the lhs of '=' and c in the
	// return statement) must hash-cons to the same ExprID.
	var returnC *token.Token
	for cur := list.Front(); cur != nil; cur = cur.Next() {
		if cur.Spelling == "return" {
			returnC = cur.Next()
		}
	}
	if returnC == nil {
		t.Fatalf("expected to find the return statement's operand")
	}
	if returnC.ExprID != assign.AstOperand1.ExprID {
		t.Fatalf("want both uses of c to share an ExprID, got %d and %d", returnC.ExprID, assign.AstOperand1.ExprID)
	}
}

func TestTokenizeRejectsUnbalancedBrackets(t *testing.T) {
	b := newBuilder()
	b.keyword("int")
	b.ident("broken")
	b.punct("(")
	b.punct(")")
	b.punct("{")
	// missing closing '}'

	_, err := Tokenize(b.list, Options{})
	if err == nil {
		t.Fatalf("expected a fatal bracket-linking error")
	}
	fe, ok := err.(*FatalError)
	if !ok {
		t.Fatalf("want *FatalError, got %T", err)
	}
	if fe.Phase != "bracket-linking" {
		t.Fatalf("want bracket-linking phase, got %q", fe.Phase)
	}
}

func TestTemplateInstantiationDepthBailout(t *testing.T) {
	b := newBuilder()
	b.keyword("template")
	b.op("<")
	b.ident("T")
	b.op(">")
	b.keyword("class")
	b.ident("Box")
	b.punct("{")
	b.punct("}")
	b.punct(";")

	b.ident("Box")
	for i := 0; i < 10; i++ {
		b.op("<")
	}
	b.ident("int")
	for i := 0; i < 10; i++ {
		b.op(">")
	}
	b.ident("deeplyNested")
	b.punct(";")

	res, err := Tokenize(b.list, Options{MaxTemplateDepth: 2})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	found := false
	for _, d := range res.Diagnostics {
		if d.ID == "templateInstantiationBailout" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a templateInstantiationBailout diagnostic, got %+v", res.Diagnostics)
	}
}
