package grammar

import "github.com/scribble-md/scribble/tree"

// Literal matches a fixed byte sequence (spec §4.4).
type literalRule struct{ text string }

func Literal(text string) Rule { return literalRule{text: text} }

func (r literalRule) Parse(s *State, pos int) ParseResult {
	for i := 0; i < len(r.text); i++ {
		b, ok := s.at(pos + i)
		if !ok {
			return fail(i)
		}
		if b != r.text[i] {
			return fail(i + 1)
		}
	}
	return ParseResult{Succeeded: true, Length: len(r.text), ExaminedLength: len(r.text)}
}

// CharacterClass matches one byte satisfying pred (spec §4.4). name is
// used only for diagnostics/debugging, not matching.
type characterClassRule struct {
	name string
	pred func(byte) bool
}

func CharacterClass(name string, pred func(byte) bool) Rule {
	return characterClassRule{name: name, pred: pred}
}

func (r characterClassRule) Parse(s *State, pos int) ParseResult {
	b, ok := s.at(pos)
	if !ok {
		return fail(0)
	}
	if !r.pred(b) {
		return fail(1)
	}
	return ParseResult{Succeeded: true, Length: 1, ExaminedLength: 1}
}

// Sequence consumes each child in turn, failing on the first failure, and
// produces a fragment of the children's nodes (spec §4.4).
type sequenceRule struct{ rules []Rule }

func Sequence(rules ...Rule) Rule { return sequenceRule{rules: rules} }

func (r sequenceRule) Parse(s *State, pos int) ParseResult {
	acc := ParseResult{Succeeded: true}
	b := tree.NewBuilder()
	cursor := pos
	for _, rule := range r.rules {
		res := rule.Parse(s, cursor)
		acc.appendChild(res)
		if !acc.Succeeded {
			break
		}
		cursor += res.Length
		appendResultNode(b, res)
	}
	if acc.Succeeded {
		acc.Fragment = b.Children()
	}
	return acc
}

// Choice tries each child at the same position and succeeds with the
// first success; examinedLength is the max over all attempts (spec §4.4,
// PEG ordered choice — no backtracking once one alternative succeeds).
type choiceRule struct{ rules []Rule }

func Choice(rules ...Rule) Rule { return choiceRule{rules: rules} }

func (r choiceRule) Parse(s *State, pos int) ParseResult {
	maxExamined := 0
	for _, alt := range r.rules {
		res := alt.Parse(s, pos)
		if res.ExaminedLength > maxExamined {
			maxExamined = res.ExaminedLength
		}
		if res.Succeeded {
			res.ExaminedLength = maxExamined
			return res
		}
	}
	return fail(maxExamined)
}

// Repetition repeatedly applies inner greedily; examinedLength includes
// the final failing (or zero-width) attempt that stopped the loop. No
// backtracking out of a repetition is permitted (spec §4.4, §4.5).
type repetitionRule struct {
	inner    Rule
	min, max int // max < 0 means unbounded
}

func Repetition(inner Rule, min, max int) Rule {
	return repetitionRule{inner: inner, min: min, max: max}
}

func (r repetitionRule) Parse(s *State, pos int) ParseResult {
	b := tree.NewBuilder()
	cursor := pos
	count := 0
	examined := 0
	for r.max < 0 || count < r.max {
		res := r.inner.Parse(s, cursor)
		examined += res.ExaminedLength
		if !res.Succeeded {
			break
		}
		appendResultNode(b, res)
		count++
		if res.Length == 0 {
			// A zero-width success would loop forever; one is enough.
			break
		}
		cursor += res.Length
	}
	if count < r.min {
		return fail(examined)
	}
	return ParseResult{Succeeded: true, Length: cursor - pos, ExaminedLength: examined, Fragment: b.Children()}
}

// Lookahead applies inner without consuming (length=0); examinedLength
// equals inner's; success polarity is inverted when positive is false
// (spec §4.4).
type lookaheadRule struct {
	inner    Rule
	positive bool
}

func Lookahead(inner Rule, positive bool) Rule {
	return lookaheadRule{inner: inner, positive: positive}
}

func (r lookaheadRule) Parse(s *State, pos int) ParseResult {
	res := r.inner.Parse(s, pos)
	succeeded := res.Succeeded
	if !r.positive {
		succeeded = !succeeded
	}
	return ParseResult{Succeeded: succeeded, ExaminedLength: res.ExaminedLength}
}

// Absorb wraps inner's fragment into a Node of type t; length equals
// inner's length (spec §4.4).
type absorbRule struct {
	t     tree.NodeType
	inner Rule
}

func Absorb(t tree.NodeType, inner Rule) Rule { return absorbRule{t: t, inner: inner} }

func (r absorbRule) Parse(s *State, pos int) ParseResult {
	res := r.inner.Parse(s, pos)
	if !res.Succeeded {
		return fail(res.ExaminedLength)
	}
	b := tree.NewBuilder()
	appendResultNode(b, res)
	node := b.Build(r.t)
	if len(b.Children()) == 0 && res.Length > 0 {
		// inner matched real characters (Literal, CharacterClass, or a
		// Repetition/Sequence built purely from them) but produced no Node
		// or Fragment of its own — those rules are pure byte-class tests
		// with no node-building opinion. An Inner node built from zero
		// children would report Length() 0 per §3's length-consistency
		// invariant even though res.Length says otherwise, desyncing every
		// later sibling's raw offset. Absorb a single leaf carrying the
		// matched text instead.
		node = tree.Leaf(r.t, rawText(s, pos, res.Length))
	}
	return ParseResult{
		Succeeded:      true,
		Length:         res.Length,
		ExaminedLength: res.ExaminedLength,
		Node:           node,
	}
}

// rawText reads length bytes starting at pos directly off the buffer, for
// the case above where inner's own scan already validated that range
// byte-by-byte, so no further bounds check is needed here.
func rawText(s *State, pos, length int) string {
	buf := make([]byte, length)
	for i := 0; i < length; i++ {
		b, _ := s.at(pos + i)
		buf[i] = b
	}
	return string(buf)
}
