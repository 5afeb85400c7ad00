// Package avalue defines AbstractValue, the tagged union ValueFlow attaches
// to expression tokens (spec.md §3), and the ProgramMemory it is stored in
// builds directly on top of.
package avalue

import (
	"fmt"
	"math/big"

	"github.com/cwbudde/cppgo/pkg/token"
)

// Kind selects which variant of the AbstractValue union is populated.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindToken
	KindContainerSize
	KindIterator
	KindLifetime
	KindUninit
	KindBufferSize
	KindSymbolicInfer
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindToken:
		return "token"
	case KindContainerSize:
		return "container-size"
	case KindIterator:
		return "iterator"
	case KindLifetime:
		return "lifetime"
	case KindUninit:
		return "uninit"
	case KindBufferSize:
		return "buffer-size"
	case KindSymbolicInfer:
		return "symbolic-infer"
	default:
		return "unknown"
	}
}

// Bound narrows an Integer value to a range approximation.
type Bound int

const (
	BoundPoint Bound = iota
	BoundLower
	BoundUpper
)

// Certainty is the tier a value is held with: whether the expression is
// asserted to equal it (Known), may equal it on some path (Possible),
// cannot equal it (Impossible), or the tier itself is unresolved
// (Inconclusive — a distinct concept from the Inconclusive *flag*, which
// marks heuristic origin).
type Certainty int

const (
	Known Certainty = iota
	Possible
	Impossible
	Inconclusive
)

// LifetimeScope is where a Lifetime value's referent storage lives.
type LifetimeScope int

const (
	LifetimeLocal LifetimeScope = iota
	LifetimeArgument
	LifetimeSubFunction
	LifetimeThread
	LifetimeStatic
)

// LifetimeObjectKind is what category of thing a Lifetime value refers to.
type LifetimeObjectKind int

const (
	LifetimeObject LifetimeObjectKind = iota
	LifetimeLambda
	LifetimeIteratorKind
	LifetimeAddress
)

// ErrorStep is one breadcrumb in a value's errorPath: the token where
// something relevant happened, and a short human-readable explanation.
type ErrorStep struct {
	Tok   *token.Token
	Text  string
}

// Iterator is the {container-exprId, position} pair for an Iterator value.
type Iterator struct {
	ContainerExprID int
	Position        *Value // the position's own abstract value, e.g. a known Integer offset
}

// Lifetime is the {target, scope, kind} triple for a Lifetime value.
type Lifetime struct {
	TargetExprID int
	Scope        LifetimeScope
	ObjectKind   LifetimeObjectKind
}

// Value is the AbstractValue tagged union of spec.md §3. The variant
// fields (Int, FloatV, Tok, ContainerSize, Iter, Life, BufferSize) are meaningful only
// when Kind selects them; the remaining fields are the common metadata
// wrapping every variant.
type Value struct {
	Kind Kind

	Int           *big.Int
	FloatV        float64
	Tok           *token.Token
	ContainerSize *big.Int
	Iter          Iterator
	Life          Lifetime
	BufferSize    *big.Int

	Bound Bound

	Certainty    Certainty
	Inconclusive bool

	Path      int // path-condition tag distinguishing branches at a merge
	ErrorPath []ErrorStep
	Condition *token.Token
	DefaultArg bool
}

// Int64 constructs a Known point Integer value.
func Int64(v int64) Value {
	return Value{Kind: KindInteger, Int: big.NewInt(v), Certainty: Known, Bound: BoundPoint}
}

// IntBig constructs a Known point Integer value from a big.Int.
func IntBig(v *big.Int) Value {
	return Value{Kind: KindInteger, Int: v, Certainty: Known, Bound: BoundPoint}
}

// Float constructs a Known Float value.
func Float(v float64) Value {
	return Value{Kind: KindFloat, FloatV: v, Certainty: Known, Bound: BoundPoint}
}

// SymbolicToken constructs a Known Token (symbolic-equality) value.
func SymbolicToken(t *token.Token) Value {
	return Value{Kind: KindToken, Tok: t, Certainty: Known, Bound: BoundPoint}
}

// UninitValue constructs a Known Uninit value.
func UninitValue() Value {
	return Value{Kind: KindUninit, Certainty: Known}
}

// WithPath returns a copy of v tagged with a path-condition id, used when
// attaching the same value along two sides of a branch that must later be
// told apart at a join.
func (v Value) WithPath(path int) Value {
	out := v
	out.Path = path
	return out
}

// WithCertainty returns a copy of v with its Certainty tier replaced, used
// when a join demotes a Known value to Possible.
func (v Value) WithCertainty(c Certainty) Value {
	out := v
	out.Certainty = c
	return out
}

// WithCondition returns a copy of v recording which token introduced it.
func (v Value) WithCondition(cond *token.Token) Value {
	out := v
	out.Condition = cond
	return out
}

// Explain returns a copy of v with one more breadcrumb appended to its
// errorPath.
func (v Value) Explain(tok *token.Token, text string) Value {
	out := v
	out.ErrorPath = append(append([]ErrorStep(nil), v.ErrorPath...), ErrorStep{Tok: tok, Text: text})
	return out
}

// SameVariant reports whether a and b are the same Kind, ignoring their
// payload and metadata — used to enforce "at most one Known of a given
// variant" (spec.md §3).
func (v Value) SameVariant(other Value) bool { return v.Kind == other.Kind }

// Equal reports whether two values are the same variant with the same
// payload (for Integer, also the same Bound). Iterator and SymbolicInfer
// values never compare equal. Used by exprId-deduplication and by joins that need to tell "Known 3" on
// one branch from "Known 4" on the other apart.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInteger:
		if v.Int == nil || other.Int == nil {
			return v.Int == other.Int
		}
		return v.Int.Cmp(other.Int) == 0 && v.Bound == other.Bound
	case KindFloat:
		return v.FloatV == other.FloatV
	case KindToken:
		return v.Tok == other.Tok
	case KindContainerSize:
		if v.ContainerSize == nil || other.ContainerSize == nil {
			return v.ContainerSize == other.ContainerSize
		}
		return v.ContainerSize.Cmp(other.ContainerSize) == 0
	case KindBufferSize:
		if v.BufferSize == nil || other.BufferSize == nil {
			return v.BufferSize == other.BufferSize
		}
		return v.BufferSize.Cmp(other.BufferSize) == 0
	case KindUninit:
		return true
	case KindLifetime:
		return v.Life == other.Life
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("int(%s)", v.Int)
	case KindFloat:
		return fmt.Sprintf("float(%g)", v.FloatV)
	case KindToken:
		if v.Tok != nil {
			return fmt.Sprintf("tok(%s)", v.Tok.Spelling)
		}
		return "tok(?)"
	case KindContainerSize:
		return fmt.Sprintf("container-size(%s)", v.ContainerSize)
	case KindBufferSize:
		return fmt.Sprintf("buffer-size(%s)", v.BufferSize)
	case KindUninit:
		return "uninit"
	default:
		return v.Kind.String()
	}
}

// Set is the bag of AbstractValues attached to a single expression token —
// spec.md's Token.values field, lifted out of token.Token to keep that
// package free of the avalue dependency. ValueFlow is the only writer;
// checkers read through the accessor methods only.
type Set struct {
	values []Value
}

// Add appends v to the set, enforcing "at most one Known of a given
// variant" by replacing any existing Known of the same Kind.
func (s *Set) Add(v Value) {
	if v.Certainty == Known {
		for i, existing := range s.values {
			if existing.Certainty == Known && existing.SameVariant(v) {
				s.values[i] = v
				return
			}
		}
	}
	s.values = append(s.values, v)
}

// All returns every value currently attached, in attachment order.
func (s *Set) All() []Value { return s.values }

// Known returns the single Known value of the given kind, if any.
func (s *Set) Known(kind Kind) (Value, bool) {
	for _, v := range s.values {
		if v.Certainty == Known && v.Kind == kind {
			return v, true
		}
	}
	return Value{}, false
}

// IsImpossible reports whether candidate is asserted Impossible for this
// expression (spec.md testable property 5).
func (s *Set) IsImpossible(candidate Value) bool {
	for _, v := range s.values {
		if v.Certainty == Impossible && v.Equal(candidate) {
			return true
		}
	}
	return false
}
