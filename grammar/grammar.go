// Package grammar implements the Rule combinator surface, ParseResult, and
// Grammar (spec §4.4): a closed DAG of composable rules, each exposing one
// parse operation, built as data rather than a class hierarchy (spec §9
// "grammar as data, not inheritance").
//
// "Rules as data" extends the teacher's own preference for flat exported
// constructor functions over subclassing (syntax.Leaf/syntax.Inner/
// syntax.ErrorNode in node.go) to a closed combinator set.
package grammar

import (
	"github.com/scribble-md/scribble/tree"
)

// Reader is the minimal buffer contract a grammar needs: indexed byte
// access and a total length. *buffer.PieceTable satisfies it structurally.
type Reader interface {
	Length() int
	At(index int) (byte, bool)
}

// MemoTable is the minimal memo-table contract State threads through a
// parse. Its concrete type, parse.Memo, instantiates memo.Table[RuleID,
// ParseResult] at the call site, keeping this package free of a dependency
// on the memo package's generic instantiation choices.
type MemoTable interface {
	Get(rule *Named, pos int) (ParseResult, bool)
	Put(rule *Named, pos int, value ParseResult)
}

// State threads a bounded, read-only view of the buffer and the memo
// table through a single parse. Scoped narrows Limit for the duration of
// a nested Parse call; everything else is shared unchanged across the
// whole recursive descent.
type State struct {
	Buf   Reader
	Memo  MemoTable
	Limit int
}

func (s *State) at(i int) (byte, bool) {
	if i < 0 || i >= s.Limit {
		return 0, false
	}
	return s.Buf.At(i)
}

func (s *State) narrowed(limit int) *State {
	if limit > s.Limit {
		limit = s.Limit
	}
	return &State{Buf: s.Buf, Memo: s.Memo, Limit: limit}
}

// ParseResult is the outcome of applying a Rule at a position (spec §3).
// Node and Fragment are mutually exclusive: at most one is non-nil.
type ParseResult struct {
	Succeeded      bool
	Length         int
	ExaminedLength int
	Node           *tree.Node
	Fragment       []*tree.Node
	Attempts       int
	Successes      int
}

// ExaminedLen implements memo.Sized.
func (r ParseResult) ExaminedLen() int { return r.ExaminedLength }

func fail(examined int) ParseResult {
	return ParseResult{ExaminedLength: examined}
}

// appendChild folds child into the accumulator per spec §3's composition
// rule: examinedLength is cumulative unconditionally, length accumulates
// only while no failure has occurred yet, and the first failing child
// poisons length to 0 (further children, if any, still only add to
// examinedLength).
func (acc *ParseResult) appendChild(child ParseResult) {
	acc.ExaminedLength += child.ExaminedLength
	if !acc.Succeeded {
		return
	}
	if !child.Succeeded {
		acc.Succeeded = false
		acc.Length = 0
		return
	}
	acc.Length += child.Length
}

func appendResultNode(b *tree.Builder, res ParseResult) {
	switch {
	case res.Node != nil:
		b.Append(res.Node)
	case res.Fragment != nil:
		b.AppendFragment(res.Fragment)
	}
}

// Rule is the interface every combinator and every external grammar
// provider implements (spec §4.4, §6 "Grammar provider").
type Rule interface {
	Parse(s *State, pos int) ParseResult
}

// Grammar holds a grammar's single start rule (spec §4.4 "the grammar
// exposes a single start rule").
type Grammar struct {
	Start Rule
}
