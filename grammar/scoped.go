package grammar

import "github.com/scribble-md/scribble/iterator"

// ScopeKind mirrors iterator.ScopeKind for the two terminator flavors a
// Scoped rule can push (spec §4.4 "Scoped(scopeKind, pattern, A)").
type ScopeKind = iterator.ScopeKind

const (
	ScopeEndBefore = iterator.ScopeEndBefore
	ScopeEndAfter  = iterator.ScopeEndAfter
)

// scopedReader adapts a State to iterator.Buffer, clamping both Length and
// At to the State's Limit so a scan never reads past an enclosing scope's
// boundary.
type scopedReader struct{ s *State }

func (r scopedReader) Length() int { return r.s.Limit }
func (r scopedReader) At(i int) (byte, bool) { return r.s.at(i) }

// scopedRule runs inner with a narrowed buffer view: the view's limit is
// the boundary a scan for pattern would find starting at the rule's
// position, under the given scope kind. This is a pragmatic adaptation of
// spec §4.4's "runs A with a pushed scope on the iterator": rather than
// threading a streaming ScopedIterator through every position-addressed
// combinator (which would be awkward for a packrat parser that re-enters
// arbitrary positions via the memo table), the boundary is found once with
// a throwaway ScopedIterator and then inner parses against an ordinary
// bounded State, exactly as every other combinator does.
type scopedRule struct {
	kind       ScopeKind
	newPattern func() iterator.PatternMatcher
	inner      Rule
}

// Scoped builds a rule that runs inner with its view of the buffer clamped
// to the boundary scanned by pattern under kind. newPattern must return a
// fresh PatternMatcher on each call, since scanning mutates matcher state.
func Scoped(kind ScopeKind, newPattern func() iterator.PatternMatcher, inner Rule) Rule {
	return scopedRule{kind: kind, newPattern: newPattern, inner: inner}
}

func (r scopedRule) Parse(s *State, pos int) ParseResult {
	end, scanned, found := scanScopeEnd(s, pos, r.kind, r.newPattern())

	bounded := s
	if found {
		bounded = s.narrowed(end)
	}
	res := r.inner.Parse(bounded, pos)

	// The decision of where the boundary lies depended on every byte the
	// scan read (through the pattern's own bytes, or up to the limit when
	// no match was found), even if inner itself didn't examine that far;
	// account for that so memo invalidation remains sound.
	if scanned-pos > res.ExaminedLength {
		res.ExaminedLength = scanned - pos
	}
	return res
}

func scanScopeEnd(s *State, pos int, kind ScopeKind, pattern iterator.PatternMatcher) (end, scanned int, found bool) {
	it := iterator.New(scopedReader{s: s}, pos)
	switch kind {
	case ScopeEndBefore:
		it.PushEndBefore(pattern)
	default:
		it.PushEndAfter(pattern)
	}
	count := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		count++
	}
	if !it.TopFinishedViaMatch() {
		return 0, it.Index(), false
	}
	return pos + count, it.Index(), true
}
