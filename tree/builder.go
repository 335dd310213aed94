package tree

// Builder accumulates children during the "under construction" phase of a
// rule's parse, before the result is published as an immutable Node (spec
// §9 "immutable shared nodes": construction mutates a builder, never a
// published Node).
type Builder struct {
	kids []*Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// Append adds a child. A fragment child is spliced: each of its children
// is appended in turn (recursively, in case of a nested unspliced
// fragment) rather than the fragment itself being kept, per spec §4.6.
// Similarity-merge (spec §3) is applied at every step: appending a leaf of
// type T immediately after another leaf of type T merges them by summing
// length instead of keeping two siblings.
func (b *Builder) Append(child *Node) {
	if child == nil {
		return
	}
	if child.IsFragment() {
		for _, gc := range child.Children() {
			b.Append(gc)
		}
		return
	}
	b.appendOne(child)
}

func (b *Builder) appendOne(child *Node) {
	if n := len(b.kids); n > 0 {
		last := b.kids[n-1]
		if last.IsLeaf() && child.IsLeaf() && last.Type() == child.Type() {
			// Keep stored text only when both sides carry their full
			// matched text; otherwise the merged leaf is length-only.
			txt := ""
			if len(last.Text()) == last.Length() && len(child.Text()) == child.Length() {
				txt = last.Text() + child.Text()
			}
			b.kids[n-1] = &Node{data: &leafData{
				t:   last.Type(),
				txt: txt,
				ln:  last.Length() + child.Length(),
			}}
			return
		}
	}
	b.kids = append(b.kids, child)
}

// AppendFragment appends each of children in turn, equivalent to wrapping
// them in a Fragment and appending that.
func (b *Builder) AppendFragment(children []*Node) {
	for _, c := range children {
		b.Append(c)
	}
}

// Children returns the builder's current children, in order.
func (b *Builder) Children() []*Node { return b.kids }

// Len returns the sum of the current children's lengths.
func (b *Builder) Len() int {
	total := 0
	for _, c := range b.kids {
		total += c.Length()
	}
	return total
}

// Build finalizes the builder into a regular tagged node.
func (b *Builder) Build(t NodeType) *Node { return Inner(t, b.kids) }

// BuildFragment finalizes the builder into an anonymous fragment.
func (b *Builder) BuildFragment() *Node { return Fragment(b.kids) }
