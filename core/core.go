// Package core implements ParsedString (spec §4.8): the façade owning a
// document's buffer, grammar, memo table, tree, and projection, and the
// edit-subscriber protocol around it.
//
// Grounded on the teacher's Source (syntax/source.go) as the nearest
// analogue of a single owned, mutable document wrapping a parse: Source
// holds its own text plus the parsed root and exposes Edit as the sole
// mutator. Materially different, because Source.Edit just reparses flatly
// ("incremental reparsing is complex and deferred for now") and has no
// subscriber protocol at all; both the incremental algorithm and the
// willProcessEditing/didProcessEditing notifications are new, built from
// spec §4.8 and §6.
package core

import (
	"fmt"

	"github.com/scribble-md/scribble/buffer"
	"github.com/scribble-md/scribble/errs"
	"github.com/scribble-md/scribble/grammar"
	"github.com/scribble-md/scribble/parse"
	"github.com/scribble-md/scribble/projection"
	"github.com/scribble-md/scribble/tree"
)

// Grammar pairs a start rule with the substitution map its projection
// uses, the unit a Grammar provider registers with a ParsedString (spec
// §6 "Grammar provider").
type Grammar struct {
	Start         grammar.Rule
	Substitutions projection.SubstitutionMap
}

// EditMask is a bitset of what changed in an edit notification (spec §6).
type EditMask uint8

const (
	CharactersEdited EditMask = 1 << iota
	AttributesEdited
)

// EditNotification is delivered to subscribers twice per edit: once
// before the new state is installed (WillProcessEditing) and once after
// (DidProcessEditing), both carrying identical fields (spec §5 ordering
// guarantee).
type EditNotification struct {
	Mask           EditMask
	VisibleRange   [2]int
	ChangeInLength int
}

// EditSubscriber receives edit notifications (spec §6).
type EditSubscriber interface {
	WillProcessEditing(n EditNotification)
	DidProcessEditing(n EditNotification)
}

// StylingProvider computes attributes for a node type over a raw range,
// external to the core (spec §6 "Styling provider"); Attributes delegates
// to one if registered.
type StylingProvider interface {
	Attributes(nodeType tree.NodeType, rawRange [2]int) any
}

// ParsedString is the top-level façade (spec §4.8).
type ParsedString struct {
	buf     *buffer.PieceTable
	grammar Grammar
	memo    *parse.Memo
	tree    *tree.Node

	proj *projection.Projection

	subscribers []EditSubscriber
	styling     StylingProvider
}

// New parses text under g and returns the resulting façade. When the start
// rule succeeds without consuming the whole buffer, an IncompleteParsing
// error is returned alongside a non-nil ParsedString holding the partial
// tree, per spec §4.8's failure handling. When the start rule fails
// outright (an IncompleteParsing at position 0), or on any other error,
// the returned façade is nil.
func New(text string, g Grammar) (*ParsedString, error) {
	buf := buffer.New(text)
	m := parse.NewMemo()

	var root *tree.Node
	var parseErr error
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = toProgrammingError(r)
			}
		}()
		root, parseErr = parse.Run(g.Start, buf, m)
		return nil
	}()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, parseErr
	}

	proj := projection.Compute(root, buf.String(), g.Substitutions)
	ps := &ParsedString{buf: buf, grammar: g, memo: m, tree: root, proj: proj}
	return ps, parseErr
}

// Subscribe registers s to receive future edit notifications.
func (ps *ParsedString) Subscribe(s EditSubscriber) {
	ps.subscribers = append(ps.subscribers, s)
}

// SetStylingProvider registers the external styling collaborator
// Attributes delegates to.
func (ps *ParsedString) SetStylingProvider(p StylingProvider) {
	ps.styling = p
}

// String returns the current visible (projected) content.
func (ps *ParsedString) String() string { return ps.proj.Visible() }

// RawString returns the current raw buffer content.
func (ps *ParsedString) RawString() string { return ps.buf.String() }

// Length returns the visible length in code units.
func (ps *ParsedString) Length() int { return ps.proj.VisibleLength() }

// RawLength returns the raw buffer length.
func (ps *ParsedString) RawLength() int { return ps.buf.Length() }

// Tree returns the current parse tree's root.
func (ps *ParsedString) Tree() *tree.Node { return ps.tree }

// Projection returns the current raw-to-visible replacement projection.
func (ps *ParsedString) Projection() *projection.Projection { return ps.proj }

// Path returns the chain of (node, rawRange) pairs from the root down to
// the leaf containing the given visible index (spec §4.8 "path(to:)").
func (ps *ParsedString) Path(visibleIndex int) ([]tree.Path, error) {
	raw, err := ps.proj.IndexBeforeReplacements(visibleIndex)
	if err != nil {
		return nil, err
	}
	return ps.tree.PathTo(raw)
}

// Attributes delegates to the registered StylingProvider for the node
// covering visibleIndex (spec §4.8 "attributes(at:)"); unmodeled without
// a registered provider.
func (ps *ParsedString) Attributes(visibleIndex int) (any, error) {
	path, err := ps.Path(visibleIndex)
	if err != nil {
		return nil, err
	}
	if ps.styling == nil || len(path) == 0 {
		return nil, nil
	}
	leaf := path[len(path)-1]
	return ps.styling.Attributes(leaf.Node.Type(), [2]int{leaf.RawStart, leaf.RawEnd}), nil
}

// ReplaceCharacters mutates the raw buffer over [rawLo, rawHi) with
// replacement, reparses, and notifies subscribers (spec §4.8 steps 2-6;
// step 1's visible-to-raw translation is ReplaceVisibleCharacters).
//
// If parsing leaves an unparsed suffix, the partial tree is installed and
// an *errs.IncompleteParsing is returned (still a successful edit from the
// façade's point of view: subscribers are notified and the new, partial
// state stands). If a rule panics, the edit is reported failed and the
// previous tree/projection/buffer are retained unchanged (spec §4.8
// "Failure handling").
func (ps *ParsedString) ReplaceCharacters(rawLo, rawHi int, replacement string) (err error) {
	if rawLo < 0 || rawHi > ps.buf.Length() || rawLo > rawHi {
		return &errs.OutOfBounds{Index: rawLo}
	}

	oldRaw := ps.buf.String()
	oldTree, oldProj := ps.tree, ps.proj
	memoSnapshot := ps.memo.Clone()

	defer func() {
		if r := recover(); r != nil {
			ps.buf = buffer.New(oldRaw)
			ps.tree = oldTree
			ps.proj = oldProj
			ps.memo = memoSnapshot
			err = toProgrammingError(r)
		}
	}()

	delta := len(replacement) - (rawHi - rawLo)
	ps.buf.ReplaceCharacters(rawLo, rawHi, replacement)
	ps.memo.Invalidate(rawLo, rawHi, delta)

	newTree, parseErr := parse.Run(ps.grammar.Start, ps.buf, ps.memo)
	if newTree == nil {
		ps.buf = buffer.New(oldRaw)
		ps.tree = oldTree
		ps.proj = oldProj
		ps.memo = memoSnapshot
		return parseErr
	}

	newProj := projection.Compute(newTree, ps.buf.String(), ps.grammar.Substitutions)
	visLo, visHi := diffProjections(ps.proj, newProj)

	ps.tree = newTree
	ps.proj = newProj

	notification := EditNotification{
		Mask:           CharactersEdited,
		VisibleRange:   [2]int{visLo, visHi},
		ChangeInLength: newProj.VisibleLength() - oldProj.VisibleLength(),
	}
	for _, s := range ps.subscribers {
		s.WillProcessEditing(notification)
	}
	for _, s := range ps.subscribers {
		s.DidProcessEditing(notification)
	}

	return parseErr
}

// ReplaceVisibleCharacters translates [visLo, visHi) to raw coordinates
// via the current projection, then delegates to ReplaceCharacters (spec
// §4.8 step 1).
func (ps *ParsedString) ReplaceVisibleCharacters(visLo, visHi int, replacement string) error {
	rawLo, err := ps.proj.IndexBeforeReplacements(visLo)
	if err != nil {
		return err
	}
	rawHi, err := ps.proj.IndexBeforeReplacements(visHi)
	if err != nil {
		return err
	}
	return ps.ReplaceCharacters(rawLo, rawHi, replacement)
}

func toProgrammingError(r any) error {
	if e, ok := r.(error); ok {
		return e
	}
	return &errs.ProgrammingError{Message: fmt.Sprint(r)}
}

// diffProjections reports the minimal visible range, in the new
// projection's coordinates, that contains every position whose character
// or substitution differs between old and new (spec §9 "incremental
// subscriber notifications": the contract only requires containment, not
// minimality, but the common-prefix/common-suffix trim is tight in
// practice).
func diffProjections(oldP, newP *projection.Projection) (lo, hi int) {
	a, b := oldP.Visible(), newP.Visible()
	prefix := commonPrefixLen(a, b)

	maxSuffix := len(a) - prefix
	if rem := len(b) - prefix; rem < maxSuffix {
		maxSuffix = rem
	}
	suffix := commonSuffixLen(a, b, maxSuffix)

	lo = prefix
	hi = len(b) - suffix
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b string, maxLen int) int {
	i := 0
	for i < maxLen && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
