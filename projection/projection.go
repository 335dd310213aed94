// Package projection implements ReplacementProjection (spec §4.7): the
// mapping from raw buffer coordinates to the visible string produced by
// per-node substitutions, plus inverse lookup. A projection is always
// computed in full from a tree; there is no operation that updates an
// existing projection's intervals across an edit.
//
// Grounded on the teacher's own coordinate-translation style in
// syntax/span.go (byte-offset arithmetic, no third-party dependency) with
// the outer-wins-over-inner suppression rule spec §4.7 requires layered on
// top, which span.go has no equivalent of (gotypst has no substitution
// layer at all).
package projection

import (
	"strings"

	"github.com/scribble-md/scribble/errs"
	"github.com/scribble-md/scribble/tree"
)

// Substitution computes the visible text standing in for a node's matched
// region. node is the node itself; rawStart is its absolute raw offset.
type Substitution func(node *tree.Node, rawStart int) string

// Literal returns a Substitution that always produces the same fixed text,
// regardless of the node it replaces.
func Literal(text string) Substitution {
	return func(*tree.Node, int) string { return text }
}

// SubstitutionMap assigns a Substitution to every NodeType that should be
// replaced in the visible projection; node types absent from the map pass
// their raw text through unchanged.
type SubstitutionMap map[tree.NodeType]Substitution

// Interval is one non-overlapping replacement: the raw range
// [RawStart, RawEnd) is rendered as Visible in the projected string, which
// occupies [VisibleStart, VisibleStart+len(Visible)) there.
type Interval struct {
	RawStart, RawEnd int
	VisibleStart     int
	Visible          string
}

func (iv Interval) visibleEnd() int { return iv.VisibleStart + len(iv.Visible) }

// Projection is the computed visible string plus its ordered replacement
// intervals and the raw length it was derived from (spec §3, §4.7).
type Projection struct {
	visible   string
	rawLength int
	intervals []Interval
}

// Compute walks root in document order, building the visible string by
// copying raw text straight through except where a node's type appears in
// subs, in which case the substitution's output is emitted instead and the
// node's children are not recursed into (outer wins over inner, spec
// §4.7).
func Compute(root *tree.Node, raw string, subs SubstitutionMap) *Projection {
	var sb strings.Builder
	var intervals []Interval
	walk(root, 0, raw, subs, &sb, &intervals)
	return &Projection{visible: sb.String(), rawLength: len(raw), intervals: intervals}
}

func walk(n *tree.Node, rawStart int, raw string, subs SubstitutionMap, sb *strings.Builder, intervals *[]Interval) {
	if n == nil {
		return
	}
	if sub, ok := subs[n.Type()]; ok && n.Type() != "" {
		visible := sub(n, rawStart)
		*intervals = append(*intervals, Interval{
			RawStart:     rawStart,
			RawEnd:       rawStart + n.Length(),
			VisibleStart: sb.Len(),
			Visible:      visible,
		})
		sb.WriteString(visible)
		return
	}

	if n.IsLeaf() {
		if n.Text() != "" {
			sb.WriteString(n.Text())
		} else {
			sb.WriteString(raw[rawStart : rawStart+n.Length()])
		}
		return
	}

	cursor := rawStart
	for _, child := range n.Children() {
		walk(child, cursor, raw, subs, sb, intervals)
		cursor += child.Length()
	}
}

// Visible returns the projected string.
func (p *Projection) Visible() string { return p.visible }

// RawLength returns the raw document length this projection was derived
// from.
func (p *Projection) RawLength() int { return p.rawLength }

// VisibleLength returns the projected string's length in code units.
func (p *Projection) VisibleLength() int { return len(p.visible) }

// Intervals returns the ordered, non-overlapping replacement intervals.
func (p *Projection) Intervals() []Interval { return p.intervals }

// IndexAfterReplacements converts a raw index to a visible index (spec
// §4.7). Any raw index inside a replaced range maps to the visible index
// of that range's start.
func (p *Projection) IndexAfterReplacements(raw int) (int, error) {
	if raw < 0 || raw > p.rawLength {
		return 0, &errs.OutOfBounds{Index: raw}
	}
	delta := 0
	for _, iv := range p.intervals {
		if iv.RawStart >= raw {
			break
		}
		if raw < iv.RawEnd {
			return iv.VisibleStart, nil
		}
		delta += (iv.RawEnd - iv.RawStart) - len(iv.Visible)
	}
	return raw - delta, nil
}

// IndexBeforeReplacements converts a visible index to a raw index (spec
// §4.7). Any visible index inside a substituted region maps to the raw
// index of the replaced node's start.
func (p *Projection) IndexBeforeReplacements(visible int) (int, error) {
	if visible < 0 || visible > len(p.visible) {
		return 0, &errs.OutOfBounds{Index: visible}
	}
	for _, iv := range p.intervals {
		if visible >= iv.VisibleStart && visible < iv.visibleEnd() {
			return iv.RawStart, nil
		}
	}
	delta := 0
	for _, iv := range p.intervals {
		if iv.VisibleStart >= visible {
			break
		}
		delta += (iv.RawEnd - iv.RawStart) - len(iv.Visible)
	}
	return visible + delta, nil
}

