// Package checker implements spec.md §4.6: the registry/dispatch layer
// that runs concrete checks once per translation unit, after ValueFlow has
// finished, against a shared ErrorLogger.
package checker

import (
	"fmt"

	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/internal/valueflow"
)

// TU bundles the per-translation-unit inputs a Check reads: the tokenized,
// symbol-resolved stream and its ValueFlow result. Checks are read-only
// against both — the only thing they may write to is the ErrorLogger
// passed alongside.
type TU struct {
	Tokenizer *tokenizer.Result
	ValueFlow *valueflow.Result
}

// Check is a single named analysis rule, spec.md §4.6's checker unit.
type Check interface {
	// ID is the stable identifier checks register under; it becomes the
	// ErrorMessage.ID prefix/owner for everything this check emits.
	ID() string

	// RunChecks inspects tu and writes any findings to logger. It must not
	// mutate tu's AST, SymbolDatabase, or ValueFlow state.
	RunChecks(tu TU, logger *diag.Logger)
}

// ErrorMessageProvider is the optional getErrorMessages(logger) operation
// point: a check that can enumerate the diagnostics it may produce,
// independent of any particular TU, for documentation and for the
// "check-every-rule" self-test.
type ErrorMessageProvider interface {
	GetErrorMessages(logger *diag.Logger)
}

// ClassInfoProvider is the optional classInfo() human-readable summary.
type ClassInfoProvider interface {
	ClassInfo() string
}

// Registry collects Check instances and dispatches RunChecks over them in
// registration order (spec.md's "iterating the registry" dispatch model).
type Registry struct {
	checks []Check
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds c to the registry. If c also implements
// ErrorMessageProvider, GetErrorMessages is invoked immediately against
// logger, matching spec.md's "invoked at registration time".
func (r *Registry) Register(c Check, logger *diag.Logger) {
	r.checks = append(r.checks, c)
	if p, ok := c.(ErrorMessageProvider); ok && logger != nil {
		p.GetErrorMessages(logger)
	}
}

// Checks returns the registered checks in registration order.
func (r *Registry) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

// RunAll runs every registered check against tu, writing findings to
// logger. A check that panics is recovered at the dispatch boundary: the
// panic becomes an internalError-class diagnostic (spec.md §7's "Internal
// bug" category, surfaced with a cppcheckError id) and the remaining
// checks still run.
func (r *Registry) RunAll(tu TU, logger *diag.Logger) {
	for _, c := range r.checks {
		runOne(c, tu, logger)
	}
}

func runOne(c Check, tu TU, logger *diag.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Emit(diag.Message{
				ID:       "cppcheckError",
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("internal error in check %q: %v", c.ID(), rec),
			})
		}
	}()
	c.RunChecks(tu, logger)
}
