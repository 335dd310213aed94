package tree

import (
	"strings"

	"github.com/scribble-md/scribble/errs"
)

// Child returns the child at index, or an OutOfBounds error.
func (n *Node) Child(index int) (*Node, error) {
	kids := n.data.children()
	if index < 0 || index >= len(kids) {
		return nil, &errs.OutOfBounds{Index: index}
	}
	return kids[index], nil
}

// NodeAt navigates to the node reached by following path, a sequence of
// child indices from n (spec §4.6 "node(at: path)").
func (n *Node) NodeAt(path []int) (*Node, error) {
	cur := n
	for _, idx := range path {
		next, err := cur.Child(idx)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// LeafContaining returns the leaf node covering raw index, and the offset
// of index within that leaf (spec §4.6 "leafNode(containing:)").
func (n *Node) LeafContaining(index int) (*Node, int, error) {
	if index < 0 || index > n.Length() {
		return nil, 0, &errs.OutOfBounds{Index: index}
	}
	cur := n
	offset := index
	for !cur.IsLeaf() {
		kids := cur.Children()
		if len(kids) == 0 {
			// An empty fragment (an inner node with no children already
			// counts as a leaf): there is no leaf to descend into.
			return nil, 0, &errs.OutOfBounds{Index: index}
		}
		found := false
		for i, c := range kids {
			last := i == len(kids)-1
			if offset < c.Length() || (last && offset == c.Length()) {
				cur = c
				found = true
				break
			}
			offset -= c.Length()
		}
		if !found {
			return nil, 0, &errs.OutOfBounds{Index: index}
		}
	}
	return cur, offset, nil
}

// CompactStructure renders a canonical S-expression of the tree, used by
// tests as a tree-shape assertion (spec §4.6), mirroring the teacher's own
// String()/debug-dump convention on SyntaxNode.
func (n *Node) CompactStructure() string {
	var sb strings.Builder
	n.writeCompact(&sb)
	return sb.String()
}

func (n *Node) writeCompact(sb *strings.Builder) {
	if n.IsFragment() {
		// A published tree should never retain an unspliced fragment;
		// inline its children defensively rather than rendering it.
		for i, c := range n.Children() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			c.writeCompact(sb)
		}
		return
	}
	if n.IsLeaf() {
		sb.WriteString(string(n.Type()))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(string(n.Type()))
	for _, c := range n.Children() {
		sb.WriteByte(' ')
		c.writeCompact(sb)
	}
	sb.WriteByte(')')
}

// Range computes the absolute raw byte range [start, end) of the node
// reached by path, by prefix-summing sibling lengths during traversal
// (spec §9 open question (b): length-only nodes derive ranges this way
// rather than storing them, mirroring how the teacher's LinkedNode.offset
// is computed by summing sibling lengths rather than stored per node).
func (n *Node) Range(path []int) (start, end int, err error) {
	cur := n
	offset := 0
	for _, idx := range path {
		kids := cur.Children()
		if idx < 0 || idx >= len(kids) {
			return 0, 0, &errs.OutOfBounds{Index: idx}
		}
		for i := 0; i < idx; i++ {
			offset += kids[i].Length()
		}
		cur = kids[idx]
	}
	return offset, offset + cur.Length(), nil
}

// Path describes a node reached during a document-order traversal: the
// node itself and its raw byte range.
type Path struct {
	Node       *Node
	RawStart   int
	RawEnd     int
}

// PathTo returns the chain of (node, rawRange) pairs from the root down to
// the leaf containing rawIndex, used by ParsedString.Path (spec §4.8).
func (n *Node) PathTo(rawIndex int) ([]Path, error) {
	if rawIndex < 0 || rawIndex > n.Length() {
		return nil, &errs.OutOfBounds{Index: rawIndex}
	}
	var chain []Path
	cur := n
	base := 0
	for {
		chain = append(chain, Path{Node: cur, RawStart: base, RawEnd: base + cur.Length()})
		if cur.IsLeaf() || cur.IsFragment() && len(cur.Children()) == 0 {
			break
		}
		kids := cur.Children()
		if len(kids) == 0 {
			break
		}
		offset := rawIndex - base
		advanced := false
		for i, c := range kids {
			last := i == len(kids)-1
			if offset < c.Length() || (last && offset == c.Length()) {
				cur = c
				advanced = true
				break
			}
			base += c.Length()
			offset -= c.Length()
		}
		if !advanced {
			break
		}
	}
	return chain, nil
}
