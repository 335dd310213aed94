// Package memo implements MemoTable (spec §4.5): a mapping from (rule
// identity, position) to a cached parse result, with range-invalidation
// driven by each entry's examined length.
//
// The teacher's parser is plain recursive descent with no memo table at
// all, so there is no direct analogue to port; this is built from the
// spec. It is structured the way the teacher structures its other small
// stateful lookup types (syntax/set.go's SyntaxSet: a thin struct over a
// map/bitset with explicit invalidation methods, no external dependency).
// Go generics keep this package independent of the grammar package that
// defines the concrete rule-identity and result types, avoiding an import
// cycle between them.
package memo

// Sized is the constraint a memoized value must satisfy: it must report
// how many characters its derivation examined, the basis for invalidation
// (spec §4.5, §9 "memo invalidation").
type Sized interface {
	ExaminedLen() int
}

type key[R comparable] struct {
	rule R
	pos  int
}

// Table is a memo table keyed by (rule identity R, position) storing
// values V. R is typically a pointer type, giving portable, comparable
// rule identity without a separate interning scheme.
type Table[R comparable, V Sized] struct {
	entries map[key[R]]V
}

// New returns an empty memo table.
func New[R comparable, V Sized]() *Table[R, V] {
	return &Table[R, V]{entries: make(map[key[R]]V)}
}

// Get returns the cached value for (rule, pos), if present.
func (t *Table[R, V]) Get(rule R, pos int) (V, bool) {
	v, ok := t.entries[key[R]{rule, pos}]
	return v, ok
}

// Put records value for (rule, pos), overwriting any previous entry.
func (t *Table[R, V]) Put(rule R, pos int, value V) {
	t.entries[key[R]{rule, pos}] = value
}

// Len reports the number of live entries (for tests and profiling).
func (t *Table[R, V]) Len() int { return len(t.entries) }

// Clear discards every entry.
func (t *Table[R, V]) Clear() { t.entries = make(map[key[R]]V) }

// Clone returns a table holding a snapshot of t's current entries,
// independent of subsequent mutation of either table. Used to roll back
// to a known-good memo state when a reparse after Invalidate fails.
func (t *Table[R, V]) Clone() *Table[R, V] {
	next := make(map[key[R]]V, len(t.entries))
	for k, v := range t.entries {
		next[k] = v
	}
	return &Table[R, V]{entries: next}
}

// Invalidate applies an edit that replaced raw range [editLo, editHi) with
// L characters (delta = L - (editHi - editLo)) to the table, per spec
// §4.5: every entry whose window [pos, pos+examinedLength) intersects
// [editLo, editHi) is purged; every surviving entry with pos >= editHi has
// its position key shifted by delta. Entries with pos+examinedLength <=
// editLo are untouched.
func (t *Table[R, V]) Invalidate(editLo, editHi, delta int) {
	next := make(map[key[R]]V, len(t.entries))
	for k, v := range t.entries {
		start := k.pos
		end := start + v.ExaminedLen()
		switch {
		// Checked before the end<=editLo case so that a pure insertion
		// (editLo==editHi) at an entry's exact start position shifts it
		// rather than leaving it keyed at the insertion point: an entry
		// recorded there examined the buffer as it stood before the
		// insert (commonly a failure caused by running out of input) and
		// must not be handed back once new content appears exactly there.
		case start >= editHi:
			next[key[R]{rule: k.rule, pos: start + delta}] = v
		case end <= editLo:
			next[k] = v
		default:
			// overlaps the edited range: dropped
		}
	}
	t.entries = next
}
