// Package valueflow implements spec.md §4.4: the fifteen ordered
// sub-analyses that attach an avalue.Set to expression tokens, using
// internal/tokenizer's Result (token stream + SymbolDatabase) as input.
// Each sub-analysis writes token value sets directly; none threads state
// through internal/valueflow/programmemory.Memory.
package valueflow

import (
	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/tokenizer"
	"github.com/cwbudde/cppgo/pkg/token"
)

// BailoutReason classifies why a sub-analysis gave up on a particular
// expression, grounded on original_source/lib/vf_bailout.h's taxonomy of
// bailout causes rather than a single free-text reason.
type BailoutReason int

const (
	BailoutTooComplex BailoutReason = iota
	BailoutGlobalVariable
	BailoutAssignmentInCondition
	BailoutUnknownFunction
	BailoutIterationCapExceeded
	BailoutUnsupportedConstruct
)

func (r BailoutReason) String() string {
	switch r {
	case BailoutTooComplex:
		return "too complex"
	case BailoutGlobalVariable:
		return "variable is global"
	case BailoutAssignmentInCondition:
		return "assignment in condition"
	case BailoutUnknownFunction:
		return "function body or signature unknown"
	case BailoutIterationCapExceeded:
		return "iteration cap exceeded"
	case BailoutUnsupportedConstruct:
		return "unsupported construct"
	default:
		return "unknown"
	}
}

// Bailout records one sub-analysis's decision to stop reasoning about an
// expression, for the valueFlowBailout information diagnostic.
type Bailout struct {
	Tok    *token.Token
	Reason BailoutReason
	Pass   string
}

// Options bounds the sub-analyses that would otherwise be unbounded.
type Options struct {
	Platform cctype.Platform

	// MaxInjectParameterCombinations is the cap for a per-call-site
	// Cartesian product of known argument values (spec.md §9's bounded
	// inject-parameters evaluator). No sub-analysis reads it:
	// function-return propagation only handles returns that are Known
	// independent of the arguments.
	MaxInjectParameterCombinations int

	// MaxIterations caps loop-induction's fixed-point search.
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.Platform == (cctype.Platform{}) {
		o.Platform = cctype.Native
	}
	if o.MaxInjectParameterCombinations == 0 {
		o.MaxInjectParameterCombinations = 16
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 64
	}
	return o
}

// Result is the output of Analyze: every token's accumulated value set,
// plus the bailouts hit along the way.
type Result struct {
	Sets     map[*token.Token]*avalue.Set
	Bailouts []Bailout
}

// setFor returns (creating if needed) t's avalue.Set.
func (r *Result) setFor(t *token.Token) *avalue.Set {
	s, ok := r.Sets[t]
	if !ok {
		s = &avalue.Set{}
		r.Sets[t] = s
	}
	return s
}

// attach records v as one of t's known/possible values, and — per spec.md
// §4.4's join rule — demotes to two Possibles when a different Known value
// is already attached for the same variant instead of silently overwriting
// it.
func (r *Result) attach(t *token.Token, v avalue.Value) {
	s := r.setFor(t)
	if v.Certainty == avalue.Known {
		if existing, ok := s.Known(v.Kind); ok && !existing.Equal(v) {
			s.Add(existing.WithPath(1).WithCertainty(avalue.Possible))
			s.Add(v.WithPath(2).WithCertainty(avalue.Possible))
			return
		}
	}
	s.Add(v)
}

func (r *Result) bailout(t *token.Token, pass string, reason BailoutReason) {
	r.Bailouts = append(r.Bailouts, Bailout{Tok: t, Reason: reason, Pass: pass})
}

// ctx threads the shared inputs through each sub-analysis function without
// repeating the same four parameters on every call.
type ctx struct {
	tr   *tokenizer.Result
	opts Options
	res  *Result
}

// Analyze runs the fifteen sub-analyses, in spec.md §4.4's order, over a
// single translation unit's tokenized, symbol-resolved output.
func Analyze(tr *tokenizer.Result, opts Options) *Result {
	c := &ctx{tr: tr, opts: opts.withDefaults(), res: &Result{Sets: map[*token.Token]*avalue.Set{}}}

	foldLiterals(c)
	foldEnumerators(c)
	propagateGlobalConstants(c)
	foldStringLengths(c)
	foldArraySizes(c)
	foldSizeof(c)
	propagateShortCircuit(c)
	forwardAssignments(c)
	narrowByCondition(c)
	propagateLoopInduction(c)
	propagatePointerAliases(c)
	propagateFunctionReturns(c)
	propagateSubfunctions(c)
	propagateLifetimes(c)
	propagateContainerSizes(c)

	return c.res
}
