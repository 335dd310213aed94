// Package iterator implements ScopedIterator and PatternMatcher (spec
// §4.2-§4.3). Neither has a direct analogue in the teacher: gotypst's
// Scanner (syntax/scanner.go) is a flat peek/eat cursor with no scope
// stack or match-state machine, so this package is built straight from the
// spec. Grapheme-aware helpers use github.com/rivo/uniseg the way the
// teacher's library/foundations/str.go leans on it for grapheme-cluster
// string length.
package iterator

import "github.com/rivo/uniseg"

// MatchState classifies a PatternMatcher's response to a fed byte.
type MatchState int

const (
	No MatchState = iota
	Maybe
	Yes
)

// PatternMatcher incrementally classifies the suffix-so-far of a byte
// stream. It must be copyable so parsers can snapshot state across
// alternatives (spec §4.3).
type PatternMatcher interface {
	// Feed advances the matcher by one byte and reports its new state.
	Feed(b byte) MatchState
	// MatchedLength reports how many trailing fed bytes are currently part
	// of a tentative match; right after a completed match this is the
	// overlap carried into the next one, not the completed match's length.
	// Used by ScopedIterator to
	// decide which consumed bytes are safe to release to the caller.
	MatchedLength() int
	// Reset returns the matcher to its initial state.
	Reset()
	// Clone returns an independent copy of the matcher's current state.
	Clone() PatternMatcher
}

// StringLiteralPattern is the primary PatternMatcher: it matches a fixed
// byte sequence, using a Knuth-Morris-Pratt failure function so that
// overlapping matches (e.g. "**" over "****") are reported at every
// position they occur, per spec §4.3's overlapping-match requirement,
// rather than only at non-overlapping boundaries.
type StringLiteralPattern struct {
	literal string
	fail    []int
	matched int
}

// NewStringLiteralPattern builds a matcher for the given fixed byte
// sequence.
func NewStringLiteralPattern(literal string) *StringLiteralPattern {
	return &StringLiteralPattern{literal: literal, fail: buildFailureFunction(literal)}
}

func buildFailureFunction(s string) []int {
	fail := make([]int, len(s))
	k := 0
	for i := 1; i < len(s); i++ {
		for k > 0 && s[i] != s[k] {
			k = fail[k-1]
		}
		if s[i] == s[k] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// Feed implements PatternMatcher.
func (p *StringLiteralPattern) Feed(b byte) MatchState {
	if len(p.literal) == 0 {
		return Yes
	}
	for {
		if b == p.literal[p.matched] {
			p.matched++
			break
		}
		if p.matched == 0 {
			return No
		}
		p.matched = p.fail[p.matched-1]
	}
	if p.matched == len(p.literal) {
		// A run of self-overlapping characters (e.g. "**") must keep
		// reporting yes at every subsequent position, so the border
		// length becomes the new matched count instead of a hard reset.
		p.matched = p.fail[p.matched-1]
		return Yes
	}
	return Maybe
}

// MatchedLength implements PatternMatcher.
func (p *StringLiteralPattern) MatchedLength() int { return p.matched }

// Reset implements PatternMatcher.
func (p *StringLiteralPattern) Reset() { p.matched = 0 }

// Clone implements PatternMatcher.
func (p *StringLiteralPattern) Clone() PatternMatcher {
	c := *p
	return &c
}

// GraphemeWidth returns the number of extended grapheme clusters in s,
// distinct from its byte length. Used by callers (e.g. the CLI) that want
// to report a human cursor position rather than a raw byte offset.
func GraphemeWidth(s string) int {
	n := 0
	state := -1
	for len(s) > 0 {
		_, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		s = rest
		state = newState
		n++
	}
	return n
}
