// Package programmemory implements ProgramMemory (spec.md §4.5): an
// exprId -> AbstractValue map for the state known along one control-flow
// path, with copy-on-write semantics so sibling branches can diverge
// cheaply. internal/valueflow does not use it; its condition-based
// narrowing writes token value sets directly.
package programmemory

import (
	"math/big"
	"sort"

	"github.com/cwbudde/cppgo/internal/avalue"
	"github.com/cwbudde/cppgo/pkg/token"
)

// Memory is a copy-on-write map from exprId to avalue.Value. The zero
// value is not usable; construct with New.
type Memory struct {
	values map[int]avalue.Value
	shared *bool // true once this handle's backing map may be aliased by a Copy
}

// New returns an empty ProgramMemory ("nothing known").
func New() *Memory {
	shared := false
	return &Memory{values: map[int]avalue.Value{}, shared: &shared}
}

// Copy returns a new handle over the same backing map in O(1). Both the
// original and the copy are marked shared; the first one to mutate clones
// the map for itself (copy-on-write).
func (m *Memory) Copy() *Memory {
	*m.shared = true
	shared := true
	return &Memory{values: m.values, shared: &shared}
}

func (m *Memory) detach() {
	if !*m.shared {
		return
	}
	cp := make(map[int]avalue.Value, len(m.values))
	for k, v := range m.values {
		cp[k] = v
	}
	m.values = cp
	shared := false
	m.shared = &shared
}

// SetValue overwrites any prior value for exprID.
func (m *Memory) SetValue(exprID int, v avalue.Value) {
	m.detach()
	m.values[exprID] = v
}

// SetIntValue is a typed shortcut for SetValue with a Known point Integer.
func (m *Memory) SetIntValue(exprID int, v int64) {
	m.SetValue(exprID, avalue.Int64(v))
}

// SetContainerSizeValue is a typed shortcut for a Known ContainerSize.
func (m *Memory) SetContainerSizeValue(exprID int, size int64) {
	m.SetValue(exprID, avalue.Value{Kind: avalue.KindContainerSize, ContainerSize: big.NewInt(size), Certainty: avalue.Known})
}

// SetTokValue is a typed shortcut for a Known symbolic Token value.
func (m *Memory) SetTokValue(exprID int, tok *token.Token) {
	m.SetValue(exprID, avalue.SymbolicToken(tok))
}

// GetValue returns the value stored for exprID. If allowImpossible is
// false, an Impossible-certainty entry is treated as absent.
func (m *Memory) GetValue(exprID int, allowImpossible bool) (avalue.Value, bool) {
	v, ok := m.values[exprID]
	if !ok {
		return avalue.Value{}, false
	}
	if !allowImpossible && v.Certainty == avalue.Impossible {
		return avalue.Value{}, false
	}
	return v, true
}

// SetUnknown erases any entry for exprID, asserting "we lost track".
func (m *Memory) SetUnknown(exprID int) {
	m.detach()
	delete(m.values, exprID)
}

// EraseIf removes every entry whose exprID satisfies predicate. Used when
// a statement has side effects that may invalidate many expressions at
// once (e.g. a call through a non-const pointer).
func (m *Memory) EraseIf(predicate func(exprID int) bool) {
	m.detach()
	for k := range m.values {
		if predicate(k) {
			delete(m.values, k)
		}
	}
}

// Assume returns a copy of m refined under the assumption that some
// condition holds. The caller supplies the (exprID, value) updates that
// condition implies, since deciding that needs AST structure this package
// does not have; Assume's job is only to apply them to the copy with the
// right copy-on-write semantics, leaving m unchanged.
func (m *Memory) Assume(updates map[int]avalue.Value) *Memory {
	out := m.Copy()
	for exprID, v := range updates {
		out.SetValue(exprID, v)
	}
	return out
}

// Replace performs a wholesale substitution on branch entry: m becomes an
// independent copy of other.
func (m *Memory) Replace(other *Memory) {
	m.values = other.values
	shared := true
	*other.shared = true
	m.shared = &shared
}

// Join unions two branches' ProgramMemory state at a control-flow merge
// (end of if/else). ProgramMemory holds at most one value per exprID — the
// "current known state along this path" — so a join can only keep an
// exprID where both sides agree: identical entries survive (demoted to
// Possible if either side only knew it as Possible to begin with); any
// exprID known on one side but not the other, or known to different
// values on each side, is erased, since neither branch can be assumed
// taken once control reaches the merge point.
//
// The richer "a Known on one side and a different Known on the other
// becomes two Possibles" rule in spec.md §4.4 describes what happens to
// the expression token's own avalue.Set (which can hold many values at
// once); ValueFlow applies that rule directly when it joins token value
// sets, separately from this ProgramMemory join.
func Join(a, b *Memory) *Memory {
	out := New()
	for exprID, av := range a.values {
		bv, ok := b.values[exprID]
		if !ok || !av.Equal(bv) {
			continue
		}
		merged := av
		if av.Certainty == avalue.Possible || bv.Certainty == avalue.Possible {
			merged.Certainty = avalue.Possible
		}
		out.SetValue(exprID, merged)
	}
	return out
}

// ExprIDs returns every key currently present, sorted ascending. External
// iteration (diagnostics, debug dumps) must go through this rather than
// ranging the internal map directly, per spec.md §4.5's determinism
// requirement.
func (m *Memory) ExprIDs() []int {
	out := make([]int, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Len reports how many exprIDs currently have an entry.
func (m *Memory) Len() int { return len(m.values) }
