// Package driver implements spec.md §5's hosting process: it turns a list
// of translation-unit paths into a single aggregated diag.Logger, running
// the lex → tokenize → value-flow → checker pipeline once per TU and
// enforcing the per-TU isolation and bounded-parallelism rules spec.md §5
// describes. It is the component SPEC_FULL.md names as the owner of the
// package-level *zap.Logger built once at process startup, grounded on
// theRebelliousNerd-codenerd's cmd/nerd/main.go logger-construction pattern.
package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/checker"
	"github.com/cwbudde/cppgo/internal/checker/checks"
	"github.com/cwbudde/cppgo/internal/checker/checks/misra"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/libcfg"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/internal/valueflow"
	"github.com/cwbudde/cppgo/pkg/token"
	"go.uber.org/zap"
)

// DefaultRegistry builds the registry every cppgo binary ships with:
// the six spec.md §8 scenario checks plus the MISRA goto rule, in a fixed
// order so --enable/--disable filtering (left to the caller) sees a stable
// list.
func DefaultRegistry(lib *libcfg.Library, logger *diag.Logger) *checker.Registry {
	reg := checker.NewRegistry()
	reg.Register(checks.ZeroDiv{}, logger)
	reg.Register(checks.MismatchingBitAnd{}, logger)
	reg.Register(checks.BufferAccessOutOfBounds{Library: lib}, logger)
	reg.Register(checks.ComparisonOfBoolWithInt{}, logger)
	reg.Register(checks.StringLiteralWrite{}, logger)
	reg.Register(checks.KnownConditionTrueFalse{}, logger)
	reg.Register(misra.NoGoto{}, logger)
	return reg
}

// Options configures a Driver run.
type Options struct {
	Platform cctype.Platform
	Library  *libcfg.Library

	// Workers bounds how many translation units run concurrently. Zero
	// selects a modest default of 4: spec.md §5 permits running TUs in
	// parallel but names no specific width, and an unbounded pool would
	// let one cppgo invocation starve the rest of a build machine.
	Workers int

	// PerTUTimeout bounds a single translation unit's lex+tokenize+
	// valueflow+checker pipeline. Zero disables the timeout. Grounded on
	// spec.md §5's "shared stop flag polled at phase boundaries": this
	// module's phases don't thread a cancellation flag through their
	// already-written loops, so a coarser context.Context deadline
	// wrapping the whole per-TU goroutine is the pragmatic stand-in —
	// it can't interrupt mid-phase, but it bounds wall-clock the same
	// way a watchdog would, and it never corrupts the shared Logger
	// because each TU's own state is never shared across goroutines.
	PerTUTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Platform == (cctype.Platform{}) {
		o.Platform = cctype.Native
	}
	if o.Library == nil {
		o.Library = libcfg.Builtin()
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Driver runs the analysis pipeline over a set of translation units.
type Driver struct {
	opts Options
	log  *zap.Logger
}

// New builds a Driver. zapLogger is the process-wide logger constructed
// once at startup (see cmd/cppgo/cmd/root.go's PersistentPreRunE); a nil
// logger is replaced by zap.NewNop() so a Driver is always safe to call
// without a CLI wrapping it (e.g. from a test).
func New(opts Options, zapLogger *zap.Logger) *Driver {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Driver{opts: opts.withDefaults(), log: zapLogger}
}

// tuOutcome is one translation unit's pipeline result, collected on a
// per-goroutine channel rather than written directly to the shared Logger,
// so that Run can finish the ones that succeeded even when one TU panics
// or times out.
type tuOutcome struct {
	path     string
	messages []diag.Message
	err      error
}

// Run lexes, tokenizes, value-flows, and checks every path in paths,
// aggregating every TU's findings into logger. Per spec.md §5, each TU
// owns its own token list, symbol database, and value-flow state
// exclusively — only logger is shared, and Logger.Emit is already
// mutex-guarded (internal/diag/logger.go), so no additional
// synchronization is needed around it. The caller owns logger's
// construction so it can apply suppressions and severity filters before
// any message is emitted into it — Emit applies those filters at
// emit-time, not retroactively against Published().
func (d *Driver) Run(paths []string, logger *diag.Logger) error {
	reg := DefaultRegistry(d.opts.Library, logger)

	sem := make(chan struct{}, d.opts.Workers)
	outcomes := make(chan tuOutcome, len(paths))
	var wg sync.WaitGroup

	for _, path := range paths {
		path := path
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes <- d.runOne(path, reg)
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for oc := range outcomes {
		if oc.err != nil {
			d.log.Warn("translation unit aborted", zap.String("file", oc.path), zap.Error(oc.err))
			logger.Emit(diag.Message{
				ID:       "analysisAborted",
				Severity: diag.SeverityInformation,
				Message:  fmt.Sprintf("analysis of %s did not complete: %v", oc.path, oc.err),
			})
			continue
		}
		for _, m := range oc.messages {
			logger.Emit(m)
		}
	}

	return nil
}

// runOne runs the full pipeline for a single TU inside its own goroutine.
// Findings are appended to a private diag.Logger (one per TU, never
// shared) purely so ResetDedup's "scoped to this TU" rule (spec.md §4.7)
// is structural rather than something Run has to remember to call.
func (d *Driver) runOne(path string, reg *checker.Registry) tuOutcome {
	ctx := context.Background()
	var cancel context.CancelFunc
	if d.opts.PerTUTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.opts.PerTUTimeout)
		defer cancel()
	}

	done := make(chan tuOutcome, 1)
	go func() {
		done <- d.pipeline(path, reg)
	}()

	select {
	case oc := <-done:
		return oc
	case <-ctx.Done():
		return tuOutcome{path: path, err: ctx.Err()}
	}
}

// pipeline runs lex -> tokenize -> valueflow -> checker for one file,
// recovering from any phase's panic the same way checker.Registry.RunAll
// recovers from a single check's panic, since a malformed file is a
// recoverable analysis failure (spec.md §7) rather than grounds to take
// the whole Run down.
func (d *Driver) pipeline(path string, reg *checker.Registry) (oc tuOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			oc = tuOutcome{path: path, err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	list := token.NewList()
	comments, err := LexFile(list, path)
	if err != nil {
		return tuOutcome{path: path, err: err}
	}

	inlineIdx := diag.NewInlineSuppressions(inlineDirectives(comments))

	tr, err := tokenizer.Tokenize(list, tokenizer.Options{Platform: d.opts.Platform})
	if err != nil {
		return tuOutcome{path: path, err: err}
	}

	vf := valueflow.Analyze(tr, valueflow.Options{Platform: d.opts.Platform})

	tuLogger := diag.NewLogger()
	tuLogger.SetInlineSuppressions(path, inlineIdx)
	reg.RunAll(checker.TU{Tokenizer: tr, ValueFlow: vf}, tuLogger)

	return tuOutcome{path: path, messages: tuLogger.Published()}
}

func inlineDirectives(comments []InlineComment) []diag.InlineDirective {
	var out []diag.InlineDirective
	for _, c := range comments {
		if d, ok := diag.ParseInlineComment(c.Text, c.Line); ok {
			out = append(out, d)
		}
	}
	return out
}
