// Package tokenizer implements spec.md §4.2: it takes a preprocessed token
// stream and produces a fully linked, fully classified TokenList plus a
// SymbolDatabase, ready for value-flow.
//
// The eight phases run as an ordered PassManager, the same shape as the
// teacher's internal/semantic.PassManager: each Phase either succeeds or
// raises a classified, possibly-fatal error, and later phases read what
// earlier phases wrote onto the shared *Context.
package tokenizer

import (
	"fmt"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/symbols"
	"github.com/cwbudde/cppgo/pkg/token"
)

// Options configures a Tokenizer run.
type Options struct {
	Platform cctype.Platform

	// MaxTemplateDepth bounds template instantiation recursion (phase 8).
	// Zero selects a modest default of 8, per spec.md §9.
	MaxTemplateDepth int
}

func (o Options) withDefaults() Options {
	if o.Platform == (cctype.Platform{}) {
		o.Platform = cctype.Native
	}
	if o.MaxTemplateDepth == 0 {
		o.MaxTemplateDepth = 8
	}
	return o
}

// Context is the shared, mutable state threaded through the eight phases.
type Context struct {
	Opts Options

	List *token.List
	DB   *symbols.Database

	Diagnostics []diag.Message

	// Typedefs holds the names introduced by `typedef ... NAME;`,
	// populated by the syntax-normalization phase and consulted by
	// declaration discovery and type resolution.
	Typedefs map[string]bool

	// SkippedFunctions is keyed by functions whose body could not be
	// turned into an AST. No phase adds entries to it at present: AST
	// construction (phase 6) leaves a statement it cannot parse without
	// AST links instead of marking its whole function.
	SkippedFunctions map[*symbols.Function]bool

	// declPrefix records, for a declarator's name token, the type-prefix
	// tokens (keywords, pointer stars, qualifiers) that preceded it —
	// declaration discovery (phase 4) collects these; type resolution
	// (phase 5) consumes them to build the declarator's cctype.Type.
	declPrefix map[*token.Token][]*token.Token

	// funcPrefix maps a declared Function back to its name token, the
	// mirror of declPrefix's name-token keying for return types.
	funcPrefix map[*symbols.Function]*token.Token

	// varForDeclare lists every Variable declared by phase 4, in
	// declaration order, for phase 5 to resolve types over.
	varForDeclare []*symbols.Variable

	// arrayDims records, for a declarator's name token, the dimension
	// sizes parsed from a trailing `[N]...` suffix (-1 for an unsized
	// `[]` dimension) — declaration discovery (phase 4) collects these
	// the same way it collects declPrefix; type resolution (phase 5)
	// folds them into the declarator's cctype.Type.IsArray/ArrayDims.
	arrayDims map[*token.Token][]int

	// astRoots lists the root of every statement, initializer and
	// controlling expression woven by AST construction (phase 6), in the
	// order parsed, for exprId assignment (phase 7) to walk without having
	// to rediscover expression boundaries itself. Call arguments after the
	// first are parsed but not linked under the call or listed here, so
	// they get no ExprID.
	astRoots []*token.Token

	nextExprID int
	exprKeys   map[string]int
}

func newContext(list *token.List, opts Options) *Context {
	return &Context{
		Opts:             opts,
		List:             list,
		DB:               symbols.New(),
		SkippedFunctions: map[*symbols.Function]bool{},
		Typedefs:         map[string]bool{},
		declPrefix:       map[*token.Token][]*token.Token{},
		arrayDims:        map[*token.Token][]int{},
		funcPrefix:       map[*symbols.Function]*token.Token{},
		exprKeys:         map[string]int{},
	}
}

func (c *Context) info(pos token.Position, id, message string) {
	c.Diagnostics = append(c.Diagnostics, diag.Message{
		ID:       id,
		Severity: diag.SeverityInformation,
		Message:  message,
		CallStack: []diag.Location{
			diag.FromPosition(c.List.Files(), pos, message),
		},
	})
}

// Phase is one of the eight ordered steps of spec.md §4.2.
type Phase interface {
	Name() string
	Run(ctx *Context) error
}

// FatalError wraps a phase's unrecoverable failure: the TU cannot be
// analyzed further, per spec.md §7's "Fatal TU error" category.
type FatalError struct {
	Phase string
	Err   error
}

func (e *FatalError) Error() string { return fmt.Sprintf("tokenizer: phase %s: %v", e.Phase, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// Result is what a successful (or partially successful, per §4.2's
// non-fatal unsupported-construct rule) Tokenizer run produces.
type Result struct {
	List *token.List
	DB   *symbols.Database

	Diagnostics []diag.Message

	// astRoots is Context.astRoots (call arguments after the first are
	// not included), in source order; ValueFlow walks these rather than rediscovering
	// roots by scanning for parentless tokens, which would miss a bare
	// single-token expression statement.
	astRoots []*token.Token
}

// ASTRoots returns every expression root recorded during AST construction,
// in source order.
func (r *Result) ASTRoots() []*token.Token { return r.astRoots }

// phases lists the eight steps in spec.md §4.2 order. Declared as a
// function (not a package-level slice) so every Tokenize call gets fresh
// Phase instances with no shared mutable state between translation units.
func phases() []Phase {
	return []Phase{
		&bracketLinkingPhase{},
		&syntaxNormalizationPhase{},
		&scopeDiscoveryPhase{},
		&declarationDiscoveryPhase{},
		&typeResolutionPhase{},
		&astConstructionPhase{},
		&exprIDAssignmentPhase{},
		&templateInstantiationPhase{},
	}
}

// Tokenize runs the eight phases over list in order, stopping at the first
// fatal error. Non-fatal diagnostics collected along the way (bailouts,
// skipped-function notices) are returned alongside a partial Result even
// when a later phase never runs — mirroring PassManager.RunAll's
// short-circuit on critical errors.
func Tokenize(list *token.List, opts Options) (*Result, error) {
	ctx := newContext(list, opts.withDefaults())
	for _, phase := range phases() {
		if err := phase.Run(ctx); err != nil {
			return &Result{List: ctx.List, DB: ctx.DB, Diagnostics: ctx.Diagnostics, astRoots: ctx.astRoots}, &FatalError{Phase: phase.Name(), Err: err}
		}
	}
	return &Result{List: ctx.List, DB: ctx.DB, Diagnostics: ctx.Diagnostics, astRoots: ctx.astRoots}, nil
}
