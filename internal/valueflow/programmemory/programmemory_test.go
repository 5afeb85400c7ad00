package programmemory

import (
	"testing"

	"github.com/cwbudde/cppgo/internal/avalue"
)

func TestSetGetValueRoundtrip(t *testing.T) {
	m := New()
	m.SetIntValue(1, 42)
	v, ok := m.GetValue(1, false)
	if !ok || v.Int.Int64() != 42 {
		t.Fatalf("GetValue(1) = %v, %v; want 42, true", v, ok)
	}
}

func TestCopyOnWriteDoesNotLeakMutations(t *testing.T) {
	a := New()
	a.SetIntValue(1, 1)
	b := a.Copy()
	b.SetIntValue(1, 2)

	av, _ := a.GetValue(1, false)
	bv, _ := b.GetValue(1, false)
	if av.Int.Int64() != 1 {
		t.Fatalf("mutating the copy leaked into the original: a[1] = %s", av.Int)
	}
	if bv.Int.Int64() != 2 {
		t.Fatalf("b[1] = %s, want 2", bv.Int)
	}
}

func TestGetValueHidesImpossibleByDefault(t *testing.T) {
	m := New()
	m.SetValue(1, avalue.Value{Kind: avalue.KindInteger, Certainty: avalue.Impossible})
	if _, ok := m.GetValue(1, false); ok {
		t.Fatalf("GetValue(allowImpossible=false) should hide an Impossible entry")
	}
	if _, ok := m.GetValue(1, true); !ok {
		t.Fatalf("GetValue(allowImpossible=true) should surface the Impossible entry")
	}
}

func TestSetUnknownErases(t *testing.T) {
	m := New()
	m.SetIntValue(1, 5)
	m.SetUnknown(1)
	if _, ok := m.GetValue(1, false); ok {
		t.Fatalf("SetUnknown should erase the entry")
	}
}

func TestEraseIf(t *testing.T) {
	m := New()
	m.SetIntValue(1, 1)
	m.SetIntValue(2, 2)
	m.EraseIf(func(exprID int) bool { return exprID == 1 })
	if _, ok := m.GetValue(1, false); ok {
		t.Fatalf("exprID 1 should have been erased")
	}
	if _, ok := m.GetValue(2, false); !ok {
		t.Fatalf("exprID 2 should survive")
	}
}

func TestJoinKeepsOnlyAgreeingEntries(t *testing.T) {
	a := New()
	a.SetIntValue(1, 5)
	a.SetIntValue(2, 9)

	b := New()
	b.SetIntValue(1, 5)
	b.SetIntValue(2, 10)

	joined := Join(a, b)
	if v, ok := joined.GetValue(1, false); !ok || v.Int.Int64() != 5 {
		t.Fatalf("exprID 1 should survive the join as 5, got %v %v", v, ok)
	}
	if _, ok := joined.GetValue(2, false); ok {
		t.Fatalf("exprID 2 disagrees between branches and should be erased by the join")
	}
}

func TestExprIDsSorted(t *testing.T) {
	m := New()
	m.SetIntValue(5, 1)
	m.SetIntValue(1, 1)
	m.SetIntValue(3, 1)
	got := m.ExprIDs()
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("ExprIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExprIDs() = %v, want %v", got, want)
		}
	}
}
