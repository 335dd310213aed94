// Package parse drives a grammar.Rule over a buffer.PieceTable to produce a
// tree.Node (spec §4.5 PackratParser). Incrementality is not a property of
// this package's control flow: Run always parses from position 0. It comes
// entirely from the memo table Run is handed, which callers invalidate over
// an edit's span before re-running (spec §4.8, §2).
package parse

import (
	"github.com/scribble-md/scribble/buffer"
	"github.com/scribble-md/scribble/errs"
	"github.com/scribble-md/scribble/grammar"
	"github.com/scribble-md/scribble/memo"
	"github.com/scribble-md/scribble/tree"
)

// Memo is the concrete memoization table a packrat parse threads through
// one document's lifetime: keyed on a Named rule's identity and a buffer
// position, storing the ParseResult (including examined length) found
// there (spec §4.5, §3 MemoTable).
type Memo = memo.Table[grammar.RuleID, grammar.ParseResult]

// NewMemo allocates an empty memo table.
func NewMemo() *Memo {
	return memo.New[grammar.RuleID, grammar.ParseResult]()
}

// Run parses buf from position 0 with start, consulting and populating m.
// It returns the resulting tree along with an *errs.IncompleteParsing if
// start succeeded without consuming the whole buffer (the partial tree is
// still returned so callers can inspect what did parse). If start fails
// outright, the tree is nil and the error is an *errs.IncompleteParsing at
// position 0. It returns an *errs.ProgrammingError if start reports success
// without producing a single root node (a Node, or a fragment holding
// exactly one node; spec §4.4, §4.5), and panics with one if start is nil.
func Run(start grammar.Rule, buf *buffer.PieceTable, m *Memo) (*tree.Node, error) {
	if start == nil {
		panic(&errs.ProgrammingError{Message: "parse: grammar has no start rule"})
	}
	state := &grammar.State{Buf: buf, Memo: m, Limit: buf.Length()}
	res := start.Parse(state, 0)

	if !res.Succeeded {
		return nil, &errs.IncompleteParsing{Position: 0}
	}
	if res.Node == nil {
		if len(res.Fragment) == 1 {
			return res.Fragment[0], finishRun(res, buf)
		}
		return nil, &errs.ProgrammingError{
			Message: "parse: start rule succeeded without producing a single root node",
		}
	}
	return res.Node, finishRun(res, buf)
}

func finishRun(res grammar.ParseResult, buf *buffer.PieceTable) error {
	if res.Length < buf.Length() {
		return &errs.IncompleteParsing{Position: res.Length}
	}
	return nil
}

// Reparse invalidates every memo entry whose recorded span intersects the
// raw range [editLo, editHi), shifts entries after the edit by delta, and
// re-runs start from position 0 (spec §4.8 step 4, §2). Most subtrees
// outside the edit resolve via a memo hit; only rules whose memoized span
// touched the edit are recomputed.
func Reparse(start grammar.Rule, buf *buffer.PieceTable, m *Memo, editLo, editHi, delta int) (*tree.Node, error) {
	m.Invalidate(editLo, editHi, delta)
	return Run(start, buf, m)
}
