// Package symbols builds and indexes the SymbolDatabase named in spec.md
// §4.3: the scope tree, and the Function/Variable/user-type indices the
// Tokenizer populates and everything downstream (ValueFlow, checkers)
// reads.
//
// Token back-references (the spec's "variable back-reference", "function
// back-reference", "scope back-reference") are kept as side tables here
// rather than as fields on token.Token, to avoid a pkg/token <-> symbols
// import cycle — see the package doc on pkg/token for the rationale. This
// mirrors go/types.Info rather than go/ast.Object.
package symbols

import (
	"sort"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/pkg/token"
)

// ScopeKind identifies the lexical region kind, per spec.md §3.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeNamespace
	ScopeClass
	ScopeStruct
	ScopeUnion
	ScopeFunction
	ScopeBlock
	ScopeFor
	ScopeIf
	ScopeElse
	ScopeWhile
	ScopeDo
	ScopeSwitch
	ScopeTry
	ScopeCatch
	ScopeLambda
)

// Scope is a lexical region: a node in the tree rooted at the synthetic
// global scope.
type Scope struct {
	ID     int
	Kind   ScopeKind
	Open   *token.Token
	Close  *token.Token
	Parent *Scope

	children  []*Scope
	variables []*Variable
	functions []*Function
}

// Children returns the nested scopes declared directly within s.
func (s *Scope) Children() []*Scope { return s.children }

// Variables returns the variables declared directly within s.
func (s *Scope) Variables() []*Variable { return s.variables }

// Functions returns the functions declared directly within s.
func (s *Scope) Functions() []*Function { return s.functions }

// Contains reports whether candidate is s itself or a descendant of s,
// i.e. whether a token whose innermost scope is candidate also lies
// within s. This backs testable property 3 in spec.md §8.
func (s *Scope) Contains(candidate *Scope) bool {
	for c := candidate; c != nil; c = c.Parent {
		if c == s {
			return true
		}
	}
	return false
}

// Storage is a Variable's storage duration.
type Storage int

const (
	StorageAuto Storage = iota
	StorageStatic
	StorageExtern
	StorageThreadLocal
)

// Variable is a declared object.
type Variable struct {
	ID       int
	Name     string
	Scope    *Scope
	Storage  Storage
	Type     cctype.Type
	Declared *token.Token // the one declaring token

	IsArgument   bool
	ArgumentNum  int // 1-based; 0 if not a parameter
	IsReference  bool
}

// Virtuality is a member function's virtual-dispatch status.
type Virtuality int

const (
	NotVirtual Virtuality = iota
	Virtual
	VirtualFinal
	VirtualOverride
	ImplicitVirtual
)

// Function is a callable entity. Overloads are distinct Functions sharing
// a name within one (name, scope) bucket.
type Function struct {
	ID         int
	Name       string
	Scope      *Scope
	Parameters []*Variable
	ReturnType cctype.Type
	Virtual    Virtuality
	Definition *token.Token // nil if only declared

	ReturnValues []*token.Token // every `return expr` token's expr root, filled in as the body is walked
}

// UserType is a class/struct/union/enum with its members.
type UserType struct {
	ID      int
	Name    string
	Kind    ScopeKind // ScopeClass, ScopeStruct, ScopeUnion, or ScopeGlobal for enum
	Scope   *Scope
	Members []*Variable
}

// Database is the bundle of indexed views constructed during tokenization.
type Database struct {
	Global *Scope

	scopesByID    map[int]*Scope
	variablesByID map[int]*Variable
	functionsByID map[int]*Function
	userTypes     []*UserType

	// overload buckets, keyed by (name, scope pointer) — C and
	// C++ overloading is scope-relative.
	overloads map[overloadKey][]*Function

	// side tables breaking the Token <-> symbol cycle.
	tokenVariable *Variable
	varOf         map[*token.Token]*Variable
	funcOf        map[*token.Token]*Function
	scopeOf       map[*token.Token]*Scope

	nextScopeID, nextVarID, nextFuncID, nextTypeID int
}

type overloadKey struct {
	name  string
	scope *Scope
}

// New creates a Database with a single synthetic global scope.
func New() *Database {
	db := &Database{
		scopesByID:    map[int]*Scope{},
		variablesByID: map[int]*Variable{},
		functionsByID: map[int]*Function{},
		overloads:     map[overloadKey][]*Function{},
		varOf:         map[*token.Token]*Variable{},
		funcOf:        map[*token.Token]*Function{},
		scopeOf:       map[*token.Token]*Scope{},
	}
	db.Global = db.NewScope(ScopeGlobal, nil, nil, nil)
	return db
}

// NewScope creates and registers a scope as a child of parent (nil for the
// global scope itself).
func (db *Database) NewScope(kind ScopeKind, parent *Scope, open, closeTok *token.Token) *Scope {
	db.nextScopeID++
	s := &Scope{ID: db.nextScopeID, Kind: kind, Open: open, Close: closeTok, Parent: parent}
	db.scopesByID[s.ID] = s
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// SetTokenScope records tok's innermost scope.
func (db *Database) SetTokenScope(tok *token.Token, s *Scope) { db.scopeOf[tok] = s }

// ScopeOf returns tok's innermost scope, or nil if unassigned.
func (db *Database) ScopeOf(tok *token.Token) *Scope { return db.scopeOf[tok] }

// DeclareVariable registers a new Variable declared by tok within scope,
// assigns it a fresh VarID, and stamps tok.VarID.
func (db *Database) DeclareVariable(tok *token.Token, name string, scope *Scope, typ cctype.Type, storage Storage) *Variable {
	db.nextVarID++
	v := &Variable{ID: db.nextVarID, Name: name, Scope: scope, Type: typ, Storage: storage, Declared: tok}
	db.variablesByID[v.ID] = v
	scope.variables = append(scope.variables, v)
	tok.VarID = v.ID
	db.varOf[tok] = v
	return v
}

// BindVariableUse stamps a later use of an already-declared variable.
func (db *Database) BindVariableUse(tok *token.Token, v *Variable) {
	tok.VarID = v.ID
	db.varOf[tok] = v
}

// VariableByID resolves a Token.VarID to its Variable, or nil.
func (db *Database) VariableByID(id int) *Variable { return db.variablesByID[id] }

// VariableOf is the typed accessor for a token's bound Variable.
func (db *Database) VariableOf(tok *token.Token) *Variable { return db.varOf[tok] }

// DeclareFunction registers a new Function (or, if name is already
// overloaded in scope, a new overload of it).
func (db *Database) DeclareFunction(name string, scope *Scope, params []*Variable, ret cctype.Type) *Function {
	db.nextFuncID++
	f := &Function{ID: db.nextFuncID, Name: name, Scope: scope, Parameters: params, ReturnType: ret}
	db.functionsByID[f.ID] = f
	scope.functions = append(scope.functions, f)
	key := overloadKey{name: name, scope: scope}
	db.overloads[key] = append(db.overloads[key], f)
	return f
}

// FunctionByID resolves a call-site back-pointer to its Function, or nil.
func (db *Database) FunctionByID(id int) *Function { return db.functionsByID[id] }

// BindCallSite records which Function a call-site token resolves to
// (empty/unrecorded for unresolved overloads or function pointers, per the
// invariant in spec.md §4.3).
func (db *Database) BindCallSite(tok *token.Token, f *Function) { db.funcOf[tok] = f }

// FunctionOf is the typed accessor for a call-site token's resolved
// Function.
func (db *Database) FunctionOf(tok *token.Token) *Function { return db.funcOf[tok] }

// Overloads returns every Function named name directly in scope (not
// ancestor scopes), sorted by declaration id for determinism.
func (db *Database) Overloads(name string, scope *Scope) []*Function {
	fns := append([]*Function(nil), db.overloads[overloadKey{name: name, scope: scope}]...)
	sort.Slice(fns, func(i, j int) bool { return fns[i].ID < fns[j].ID })
	return fns
}

// Lookup searches scope and its ancestors for a variable visible by name,
// innermost scope first.
func (db *Database) Lookup(name string, scope *Scope) *Variable {
	for s := scope; s != nil; s = s.Parent {
		for _, v := range s.variables {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// DeclareUserType registers a class/struct/union/enum.
func (db *Database) DeclareUserType(name string, kind ScopeKind, scope *Scope) *UserType {
	db.nextTypeID++
	ut := &UserType{ID: db.nextTypeID, Name: name, Kind: kind, Scope: scope}
	db.userTypes = append(db.userTypes, ut)
	return ut
}

// UserTypes returns every registered class/struct/union/enum.
func (db *Database) UserTypes() []*UserType { return db.userTypes }

// Variables returns every declared Variable, sorted by id for deterministic
// iteration (spec.md §4.5's determinism requirement applies to every
// hash-backed index in the database, not only ProgramMemory).
func (db *Database) Variables() []*Variable {
	out := make([]*Variable, 0, len(db.variablesByID))
	for _, v := range db.variablesByID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Functions returns every declared Function, sorted by id.
func (db *Database) Functions() []*Function {
	out := make([]*Function, 0, len(db.functionsByID))
	for _, f := range db.functionsByID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
