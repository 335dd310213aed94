// Package minimark is a concrete mini-markdown grammar: the one instance
// of the grammar/Rule combinator surface the core package consumes (spec
// §1 "the concrete markup grammar is treated as one instance of the
// combinator surface"). It recognizes emphasis (*text*), strong emphasis
// (**text**), ATX-style headings (#, ##, ### …), and plain paragraph text,
// separated by blank lines.
//
// Built from github.com/scribble-md/scribble/grammar combinators plus three
// small package-local Rule types (leafLiteral, flankedText, singleCharText),
// per spec §8's worked scenarios (emphasis/strong_emphasis nesting,
// heading soft-tab/H-level substitution).
package minimark

import (
	"strconv"
	"strings"

	"github.com/scribble-md/scribble/grammar"
	"github.com/scribble-md/scribble/iterator"
	"github.com/scribble-md/scribble/projection"
	"github.com/scribble-md/scribble/tree"
)

// Node type tags used by this grammar; exported so callers (tests,
// styling providers) can match on them without string literals.
const (
	Document        tree.NodeType = "document"
	Paragraph       tree.NodeType = "paragraph"
	Blank           tree.NodeType = "blank"
	Emphasis        tree.NodeType = "emphasis"
	StrongEmphasis  tree.NodeType = "strong_emphasis"
	Heading         tree.NodeType = "heading"
	Delimiter       tree.NodeType = "delimiter"
	Text            tree.NodeType = "text"
	HeaderDelimiter tree.NodeType = "headerDelimiter"
	SoftTab         tree.NodeType = "softTab"
)

func isHash(b byte) bool            { return b == '#' }
func isSpace(b byte) bool           { return b == ' ' }
func notNewline(b byte) bool        { return b != '\n' }
func notStarOrNewline(b byte) bool  { return b != '*' && b != '\n' }

// leafLiteral matches a fixed string and, on success, wraps it directly in
// a leaf Node of type t — unlike grammar.Literal, which produces no node
// of its own (most literals are pure syntax absorbed by their enclosing
// Absorb; this is for the handful, like blank-line separators, that want
// to surface as a node in their own right).
type leafLiteral struct {
	t    tree.NodeType
	text string
}

func (r leafLiteral) Parse(s *grammar.State, pos int) grammar.ParseResult {
	res := grammar.Literal(r.text).Parse(s, pos)
	if res.Succeeded {
		res.Node = tree.Leaf(r.t, r.text)
	}
	return res
}

// flankedText matches one or more characters excluding '*' and '\n', but
// only when the run neither starts nor ends with a space — the usual
// emphasis-flanking convention (an opening delimiter followed immediately
// by whitespace, or a closing one preceded by it, does not count).
// Without this, "Hello * world*" would read as an emphasis run wrapping
// " world" and lose the leading-space cue the spec's scenario 3 precondition
// treats as plain text instead (spec §8 scenario 3).
//
// The run is bounded by scanning ahead for the closing "*" with a Scoped
// rule (spec §4.4 "Scoped(scopeKind, pattern, A)") rather than relying
// solely on the character class to stop at it: CharacterClass still
// excludes '*' as a fallback for the unterminated case (no closing
// delimiter ahead), but when one is found, the scan narrows the view to
// end exactly there.
type flankedText struct{}

func (flankedText) Parse(s *grammar.State, pos int) grammar.ParseResult {
	inner := grammar.Scoped(grammar.ScopeEndBefore, func() iterator.PatternMatcher {
		return iterator.NewStringLiteralPattern("*")
	}, grammar.Repetition(grammar.CharacterClass("notStarOrNewline", notStarOrNewline), 1, -1))
	base := inner.Parse(s, pos)
	if !base.Succeeded {
		return base
	}
	// Safe without a Limit check: both offsets fall within [pos, pos+base.Length),
	// which base's own Repetition already validated byte-by-byte.
	first, _ := s.Buf.At(pos)
	last, _ := s.Buf.At(pos + base.Length - 1)
	if isSpace(first) || isSpace(last) {
		return grammar.ParseResult{ExaminedLength: base.ExaminedLength}
	}
	return grammar.ParseResult{
		Succeeded:      true,
		Length:         base.Length,
		ExaminedLength: base.ExaminedLength,
		Node:           tree.LeafLen(Text, base.Length),
	}
}

// singleCharText is the fallback inline alternative: exactly one raw
// character, absorbed as plain text. Without it, any position where
// neither emphasis form nor a plain run applies (most commonly a lone '*'
// that cannot close or open a flanked span) would fail the whole
// paragraph outright; with it, that character folds into the surrounding
// plain text via similarity-merge instead (spec §3, §8 scenario 2's
// "Hello **world*" precondition, where the unmatched first '*' joins
// "Hello " as literal text).
type singleCharText struct{}

func (singleCharText) Parse(s *grammar.State, pos int) grammar.ParseResult {
	if pos >= s.Limit {
		return grammar.ParseResult{}
	}
	b, ok := s.Buf.At(pos)
	if !ok || b == '\n' {
		return grammar.ParseResult{ExaminedLength: 1}
	}
	return grammar.ParseResult{Succeeded: true, Length: 1, ExaminedLength: 1, Node: tree.LeafLen(Text, 1)}
}

// Grammar builds the start rule and returns it alongside the substitution
// map its projection should be computed with.
func Grammar() (grammar.Rule, projection.SubstitutionMap) {
	strongEmphasis := grammar.Absorb(StrongEmphasis, grammar.Sequence(
		grammar.Absorb(Delimiter, grammar.Literal("**")),
		flankedText{},
		grammar.Absorb(Delimiter, grammar.Literal("**")),
	))
	emphasis := grammar.Absorb(Emphasis, grammar.Sequence(
		grammar.Absorb(Delimiter, grammar.Literal("*")),
		flankedText{},
		grammar.Absorb(Delimiter, grammar.Literal("*")),
	))

	headingText := grammar.Absorb(Text, grammar.Repetition(grammar.CharacterClass("notNewline", notNewline), 0, -1))
	heading := grammar.Absorb(Heading, grammar.Sequence(
		grammar.Absorb(HeaderDelimiter, grammar.Repetition(grammar.CharacterClass("hash", isHash), 1, 6)),
		grammar.Absorb(SoftTab, grammar.Literal(" ")),
		headingText,
	))

	plainText := grammar.Absorb(Text, grammar.Repetition(grammar.CharacterClass("plain", notStarOrNewline), 1, -1))

	// Order matters (PEG ordered choice): strong emphasis before emphasis
	// so "**" isn't consumed one star at a time, a maximal plain run
	// before the single-character fallback so ordinary text doesn't
	// fragment into one leaf per character (similarity-merge would
	// reassemble it, but needlessly).
	inline := grammar.NewNamed("inline")
	inline.Bind(grammar.Choice(strongEmphasis, emphasis, plainText, singleCharText{}))

	paragraphLine := grammar.NewNamed("paragraphLine")
	paragraphLine.Bind(grammar.Choice(
		heading,
		grammar.Repetition(inline, 1, -1),
	))

	blankLine := leafLiteral{t: Blank, text: "\n\n"}

	entry := grammar.NewNamed("entry")
	entry.Bind(grammar.Sequence(
		grammar.Absorb(Paragraph, paragraphLine),
		grammar.Repetition(blankLine, 0, 1),
	))

	document := grammar.Absorb(Document, grammar.Repetition(entry, 0, -1))

	subs := projection.SubstitutionMap{
		SoftTab: projection.Literal("\t"),
		HeaderDelimiter: func(n *tree.Node, _ int) string {
			return "H" + strconv.Itoa(len(n.Text()))
		},
	}
	return document, subs
}

// HeadingLevel returns the level (1-6) of a heading node, derived from its
// headerDelimiter child's matched text.
func HeadingLevel(heading *tree.Node) int {
	for _, c := range heading.Children() {
		if c.Type() == HeaderDelimiter {
			return strings.Count(c.Text(), "#")
		}
	}
	return 0
}
