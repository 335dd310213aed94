// Package tree implements Node/Tree (spec §4.6): the parse tree itself,
// with length-addressable navigation and shared-subtree reuse across
// re-parses.
//
// Grounded on the teacher's syntax/node.go, whose SyntaxNode is built from
// a small nodeData interface with leafNode/innerNode/errorNode
// implementations rather than a class hierarchy; this package mirrors that
// split, adding a fragmentData variant per spec §4.6/§9 ("implement
// [fragments] as a distinct variant of Node (tag) rather than a marker
// flag"). Unlike the teacher's Span-numbered nodes, length here is the only
// sizing field (spec §9 open question (b)); absolute ranges are derived by
// prefix-summing during traversal rather than stored per node.
package tree

// NodeType is a node's symbolic tag. A plain string is naturally
// interned by the Go compiler for any given literal, satisfying spec
// §4.6's "symbolic tag, string-interned" attribute without a custom enum.
type NodeType string

// nodeData is the variant payload behind Node, mirroring syntax/node.go's
// nodeData/leafNode/innerNode split.
type nodeData interface {
	typ() NodeType
	length() int
	children() []*Node
	text() string
	isFragment() bool
}

type leafData struct {
	t    NodeType
	txt  string
	ln   int
	load any
}

func (d *leafData) typ() NodeType    { return d.t }
func (d *leafData) length() int      { return d.ln }
func (d *leafData) children() []*Node { return nil }
func (d *leafData) text() string     { return d.txt }
func (d *leafData) isFragment() bool { return false }

type innerData struct {
	t    NodeType
	kids []*Node
	load any
}

func (d *innerData) typ() NodeType     { return d.t }
func (d *innerData) children() []*Node { return d.kids }
func (d *innerData) text() string      { return "" }
func (d *innerData) isFragment() bool  { return false }
func (d *innerData) length() int {
	total := 0
	for _, c := range d.kids {
		total += c.Length()
	}
	return total
}

type fragmentData struct {
	kids []*Node
}

func (d *fragmentData) typ() NodeType     { return "" }
func (d *fragmentData) children() []*Node { return d.kids }
func (d *fragmentData) text() string      { return "" }
func (d *fragmentData) isFragment() bool  { return true }
func (d *fragmentData) length() int {
	total := 0
	for _, c := range d.kids {
		total += c.Length()
	}
	return total
}

// Node is the parse tree's node type (spec §4.6). Once returned from a
// Builder it is treated as immutable and may be shared by reference
// between the previous and current tree (spec §4.6/§9 "immutable shared
// nodes"); none of the methods below mutate a published Node.
type Node struct {
	data nodeData
}

// Leaf builds a leaf node of type t whose matched text is text; its length
// is len(text).
func Leaf(t NodeType, text string) *Node {
	return &Node{data: &leafData{t: t, txt: text, ln: len(text)}}
}

// LeafLen builds a leaf node of type t with an explicit length but no
// stored text (used for opaque spans where the matched text isn't needed).
func LeafLen(t NodeType, length int) *Node {
	return &Node{data: &leafData{t: t, ln: length}}
}

// Inner builds a regular tagged node whose length is the sum of its
// children's lengths, per §3's length-consistency invariant.
func Inner(t NodeType, children []*Node) *Node {
	return &Node{data: &innerData{t: t, kids: children}}
}

// Fragment builds an anonymous carrier node whose children are spliced
// into whatever parent later appends it (spec §4.6).
func Fragment(children []*Node) *Node {
	return &Node{data: &fragmentData{kids: children}}
}

// Type returns the node's symbolic tag ("" for fragments).
func (n *Node) Type() NodeType { return n.data.typ() }

// Length returns the number of raw characters this node covers.
func (n *Node) Length() int { return n.data.length() }

// Children returns the node's ordered children, or nil for a leaf.
func (n *Node) Children() []*Node { return n.data.children() }

// Text returns the leaf's matched text, or "" for non-leaves.
func (n *Node) Text() string { return n.data.text() }

// IsFragment reports whether n is an (unspliced) fragment.
func (n *Node) IsFragment() bool { return n.data.isFragment() }

// IsLeaf reports whether n has no children and is not a fragment.
func (n *Node) IsLeaf() bool { return !n.data.isFragment() && len(n.data.children()) == 0 }

// Payload returns the node's optional payload (replacement text override,
// performance counters), or nil if none was attached.
func (n *Node) Payload() any {
	switch d := n.data.(type) {
	case *leafData:
		return d.load
	case *innerData:
		return d.load
	default:
		return nil
	}
}

// WithPayload returns a copy of n carrying the given payload. n itself is
// left unmodified, preserving the immutable-once-published invariant.
func (n *Node) WithPayload(payload any) *Node {
	switch d := n.data.(type) {
	case *leafData:
		nd := *d
		nd.load = payload
		return &Node{data: &nd}
	case *innerData:
		nd := *d
		nd.load = payload
		return &Node{data: &nd}
	default:
		return n
	}
}
