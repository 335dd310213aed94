package iterator

import "github.com/scribble-md/scribble/errs"

// Buffer is the minimal contract ScopedIterator needs: indexed byte access
// and a total length. *buffer.PieceTable satisfies it structurally.
type Buffer interface {
	Length() int
	At(index int) (byte, bool)
}

// ScopeKind selects a scope's terminator behavior.
type ScopeKind int

const (
	// ScopeUnbounded never terminates early; it runs to the end of buf.
	ScopeUnbounded ScopeKind = iota
	// ScopeEndBefore stops yielding just before the first position where
	// the pattern completes; the matched text itself is never yielded.
	ScopeEndBefore
	// ScopeEndAfter yields through and including the pattern's last byte,
	// then stops.
	ScopeEndAfter
)

type scope struct {
	kind    ScopeKind
	matcher PatternMatcher
	done    bool
	// finishedViaMatch is true only when done became true because the
	// pattern completed, as opposed to the buffer running out.
	finishedViaMatch bool
	// held is the suffix of consumed-but-undecided bytes: the bytes that
	// might still turn out to be part of a pattern match in progress.
	held []byte
	// emitQueue holds bytes already decided (known not to be part of any
	// future match, or the full matched text on an end-after completion)
	// but not yet returned to the caller.
	emitQueue []byte
}

// ScopedIterator is a forward byte iterator with a stack of scopes that
// clamp iteration at a pattern boundary (spec §4.2).
type ScopedIterator struct {
	buf    Buffer
	index  int
	scopes []*scope
}

// New creates an iterator over buf starting at position from, with a
// single unbounded base scope.
func New(buf Buffer, from int) *ScopedIterator {
	return &ScopedIterator{buf: buf, index: from, scopes: []*scope{{kind: ScopeUnbounded}}}
}

// Index reports the iterator's current absolute position in buf.
func (it *ScopedIterator) Index() int { return it.index }

// PushEndBefore pushes a scope that stops just before pattern completes.
// Pushing a scope does not consume characters.
func (it *ScopedIterator) PushEndBefore(pattern PatternMatcher) {
	it.scopes = append(it.scopes, &scope{kind: ScopeEndBefore, matcher: pattern})
}

// PushEndAfter pushes a scope that stops just after pattern completes.
func (it *ScopedIterator) PushEndAfter(pattern PatternMatcher) {
	it.scopes = append(it.scopes, &scope{kind: ScopeEndAfter, matcher: pattern})
}

// PushUnbounded pushes a scope with no terminator of its own (useful to
// shadow an outer scope's terminator temporarily).
func (it *ScopedIterator) PushUnbounded() {
	it.scopes = append(it.scopes, &scope{kind: ScopeUnbounded})
}

// Pop discards the current scope; iteration resumes under the parent scope
// at the current absolute index, not the index at push time. Fails with a
// ProgrammingError when popping the base scope.
func (it *ScopedIterator) Pop() error {
	if len(it.scopes) <= 1 {
		return &errs.ProgrammingError{Message: "iterator: pop of empty scope stack"}
	}
	it.scopes = it.scopes[:len(it.scopes)-1]
	return nil
}

// TopFinishedViaMatch reports whether the current top scope completed
// because its pattern matched (as opposed to reaching the end of buf).
func (it *ScopedIterator) TopFinishedViaMatch() bool {
	top := it.scopes[len(it.scopes)-1]
	return top.done && top.finishedViaMatch
}

// Next advances the iterator and returns the next byte under the top
// scope's rule, or ok=false when that scope has no more bytes to yield.
func (it *ScopedIterator) Next() (byte, bool) {
	for {
		top := it.scopes[len(it.scopes)-1]

		if len(top.emitQueue) > 0 {
			c := top.emitQueue[0]
			top.emitQueue = top.emitQueue[1:]
			return c, true
		}
		if top.done {
			return 0, false
		}
		if top.kind == ScopeUnbounded {
			c, ok := it.buf.At(it.index)
			if !ok {
				top.done = true
				continue
			}
			it.index++
			return c, true
		}

		c, ok := it.buf.At(it.index)
		if !ok {
			// Buffer exhausted mid-pattern: whatever is still tentatively
			// held could never complete, so release it before finishing.
			if len(top.held) > 0 {
				top.emitQueue = append(top.emitQueue, top.held...)
				top.held = nil
				continue
			}
			top.done = true
			continue
		}
		it.index++

		oldMatched := top.matcher.MatchedLength()
		state := top.matcher.Feed(c)
		newMatched := top.matcher.MatchedLength()

		top.held = append(top.held[:min(oldMatched, len(top.held))], c)

		if state == Yes {
			// The characters fed since matched last hit zero, plus c,
			// form exactly the completed match: old matched was
			// len(pattern)-1 by construction, so
			// held now holds the full matched text regardless of the
			// overlap border newMatched retains for future matches.
			match := top.held
			top.held = nil
			top.matcher.Reset()
			_ = newMatched // overlap continuation is irrelevant once a scope finalizes
			top.done = true
			top.finishedViaMatch = true
			if top.kind == ScopeEndAfter {
				top.emitQueue = append(top.emitQueue, match...)
			}
			continue
		}

		releaseCount := len(top.held) - newMatched
		if releaseCount > 0 {
			top.emitQueue = append(top.emitQueue, top.held[:releaseCount]...)
			top.held = append([]byte(nil), top.held[releaseCount:]...)
		}
	}
}
