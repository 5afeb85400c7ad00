package symbols

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/pkg/token"
)

func TestDeclareVariableStampsVarID(t *testing.T) {
	db := New()
	fnScope := db.NewScope(ScopeFunction, db.Global, nil, nil)
	decl := &token.Token{Spelling: "x"}

	v := db.DeclareVariable(decl, "x", fnScope, cctype.Type{Basic: cctype.Int}, StorageAuto)
	if decl.VarID != v.ID {
		t.Fatalf("declaring token VarID = %d, want %d", decl.VarID, v.ID)
	}
	if db.VariableOf(decl) != v {
		t.Fatalf("VariableOf did not resolve back to the declared Variable")
	}
}

func TestLookupWalksAncestorScopes(t *testing.T) {
	db := New()
	fnScope := db.NewScope(ScopeFunction, db.Global, nil, nil)
	blockScope := db.NewScope(ScopeBlock, fnScope, nil, nil)

	db.DeclareVariable(&token.Token{Spelling: "x"}, "x", fnScope, cctype.Type{Basic: cctype.Int}, StorageAuto)

	if db.Lookup("x", blockScope) == nil {
		t.Fatalf("Lookup should find a variable declared in an ancestor scope")
	}
	if db.Lookup("missing", blockScope) != nil {
		t.Fatalf("Lookup should not find an undeclared name")
	}
}

func TestScopeContains(t *testing.T) {
	db := New()
	fnScope := db.NewScope(ScopeFunction, db.Global, nil, nil)
	blockScope := db.NewScope(ScopeBlock, fnScope, nil, nil)

	if !fnScope.Contains(blockScope) {
		t.Fatalf("function scope should contain its nested block scope")
	}
	if blockScope.Contains(fnScope) {
		t.Fatalf("a block scope should not contain its own parent")
	}
}

func TestOverloadsAreScopeRelative(t *testing.T) {
	db := New()
	a := db.DeclareFunction("f", db.Global, nil, cctype.Type{Basic: cctype.Void})
	b := db.DeclareFunction("f", db.Global, []*Variable{{Name: "x"}}, cctype.Type{Basic: cctype.Void})

	got := db.Overloads("f", db.Global)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Overloads(f) = %v, want [a b]", got)
	}

	other := db.NewScope(ScopeNamespace, db.Global, nil, nil)
	if len(db.Overloads("f", other)) != 0 {
		t.Fatalf("Overloads should be scope-relative")
	}
}

func TestBindCallSiteUnresolvedIsEmpty(t *testing.T) {
	db := New()
	call := &token.Token{Spelling: "f"}
	if db.FunctionOf(call) != nil {
		t.Fatalf("an unbound call site should resolve to no Function")
	}
}
