package memo

import "testing"

type sized struct {
	value    string
	examined int
}

func (s sized) ExaminedLen() int { return s.examined }

// ruleA has non-zero size: distinct allocations of a zero-size type may
// share one address, which would make two "distinct" rule pointers equal.
type ruleA struct{ _ byte }

func TestGetPut(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	if _, ok := tbl.Get(r, 0); ok {
		t.Fatalf("expected no entry before Put")
	}
	tbl.Put(r, 0, sized{value: "x", examined: 3})
	v, ok := tbl.Get(r, 0)
	if !ok || v.value != "x" {
		t.Fatalf("Get after Put = %+v, %v", v, ok)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
}

func TestInvalidateDropsOverlapping(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	tbl.Put(r, 0, sized{examined: 5})  // [0,5) overlaps edit [3,4)
	tbl.Put(r, 10, sized{examined: 2}) // [10,12), entirely after the edit

	tbl.Invalidate(3, 4, 0) // delta 0: replace 1 char with 1 char

	if _, ok := tbl.Get(r, 0); ok {
		t.Fatalf("entry overlapping the edit should have been purged")
	}
	if _, ok := tbl.Get(r, 10); !ok {
		t.Fatalf("entry after the edit should survive (possibly shifted)")
	}
}

func TestInvalidateShiftsEntriesAfterEdit(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	tbl.Put(r, 20, sized{examined: 3})

	// Replace [5, 6) (1 char) with "abc" (3 chars): delta = +2.
	tbl.Invalidate(5, 6, 2)

	if _, ok := tbl.Get(r, 20); ok {
		t.Fatalf("entry should have moved from position 20")
	}
	v, ok := tbl.Get(r, 22)
	if !ok || v.examined != 3 {
		t.Fatalf("expected shifted entry at position 22, got %+v, %v", v, ok)
	}
}

func TestInvalidateLeavesPriorEntriesAlone(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	tbl.Put(r, 0, sized{examined: 3}) // window [0,3), strictly before edit at [5,6)

	tbl.Invalidate(5, 6, 10)

	v, ok := tbl.Get(r, 0)
	if !ok || v.examined != 3 {
		t.Fatalf("entry entirely before the edit must remain unshifted, got %+v, %v", v, ok)
	}
}

func TestInvalidateShiftsZeroWidthEntryAtPureInsertionPoint(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	// A failed attempt at the end of the buffer examines nothing past its
	// own position; record it exactly where a later pure insertion lands.
	tbl.Put(r, 10, sized{examined: 0})

	tbl.Invalidate(10, 10, 5) // insert 5 characters at position 10

	if _, ok := tbl.Get(r, 10); ok {
		t.Fatalf("a zero-width entry sitting exactly at an insertion point must not be handed back once new content appears there")
	}
	if _, ok := tbl.Get(r, 15); !ok {
		t.Fatalf("expected the entry to survive shifted to position 15")
	}
}

func TestCloneIsIndependentOfSubsequentMutation(t *testing.T) {
	tbl := New[*ruleA, sized]()
	r := &ruleA{}
	tbl.Put(r, 0, sized{value: "original", examined: 3})

	snapshot := tbl.Clone()

	tbl.Invalidate(0, 0, 5) // mutate the live table after the snapshot was taken
	tbl.Put(r, 100, sized{value: "new"})

	v, ok := snapshot.Get(r, 0)
	if !ok || v.value != "original" {
		t.Fatalf("snapshot entry at 0 = %+v, %v; want the pre-mutation value unshifted", v, ok)
	}
	if _, ok := snapshot.Get(r, 100); ok {
		t.Fatalf("snapshot should not see entries added to the live table after cloning")
	}
	if snapshot.Len() != 1 {
		t.Fatalf("snapshot.Len() = %d, want 1", snapshot.Len())
	}

	// And mutating the snapshot itself must not leak back into tbl.
	snapshot.Put(r, 200, sized{value: "snapshot-only"})
	if _, ok := tbl.Get(r, 200); ok {
		t.Fatalf("mutating the clone leaked into the original table")
	}
}

func TestDistinctRuleIdentitiesDoNotCollide(t *testing.T) {
	tbl := New[*ruleA, sized]()
	a, a2 := &ruleA{}, &ruleA{}
	tbl.Put(a, 0, sized{value: "a"})
	tbl.Put(a2, 0, sized{value: "a2"})
	va, _ := tbl.Get(a, 0)
	va2, _ := tbl.Get(a2, 0)
	if va.value == va2.value {
		t.Fatalf("distinct rule pointers must not share a memo slot")
	}
}
