package tree

import "testing"

func TestSimilarityMerge(t *testing.T) {
	b := NewBuilder()
	b.Append(Leaf("text", "ab"))
	b.Append(Leaf("text", "cd"))
	b.Append(Leaf("delimiter", "*"))
	n := b.Build("paragraph")

	kids := n.Children()
	if len(kids) != 2 {
		t.Fatalf("expected 2 children after merge, got %d: %s", len(kids), n.CompactStructure())
	}
	if kids[0].Type() != "text" || kids[0].Text() != "abcd" || kids[0].Length() != 4 {
		t.Fatalf("merged leaf = %+v, want type=text text=abcd length=4", kids[0])
	}
	if kids[1].Type() != "delimiter" {
		t.Fatalf("second child type = %q, want delimiter", kids[1].Type())
	}
}

func TestNoAdjacentSameTypeLeaves(t *testing.T) {
	b := NewBuilder()
	for _, s := range []string{"a", "b", "c"} {
		b.Append(Leaf("text", s))
	}
	n := b.Build("paragraph")
	kids := n.Children()
	if len(kids) != 1 {
		t.Fatalf("expected all three text leaves to merge into one, got %d", len(kids))
	}
	if kids[0].Text() != "abc" {
		t.Fatalf("merged text = %q, want abc", kids[0].Text())
	}
}

func TestFragmentSplice(t *testing.T) {
	inner := NewBuilder()
	inner.Append(Leaf("delimiter", "*"))
	inner.Append(Leaf("text", "hi"))
	inner.Append(Leaf("delimiter", "*"))
	frag := inner.BuildFragment()

	outer := NewBuilder()
	outer.Append(frag)
	n := outer.Build("emphasis")

	if n.CompactStructure() != "(emphasis delimiter text delimiter)" {
		t.Fatalf("got %s", n.CompactStructure())
	}
}

func TestLengthConsistency(t *testing.T) {
	b := NewBuilder()
	b.Append(Leaf("delimiter", "*"))
	b.Append(Leaf("text", "hello"))
	b.Append(Leaf("delimiter", "*"))
	n := b.Build("emphasis")
	if n.Length() != 7 {
		t.Fatalf("length = %d, want 7", n.Length())
	}
}

func TestCompactStructure(t *testing.T) {
	emphasis := NewBuilder()
	emphasis.Append(Leaf("delimiter", "*"))
	emphasis.Append(Leaf("text", "This is emphasized text."))
	emphasis.Append(Leaf("delimiter", "*"))
	paragraph := NewBuilder()
	paragraph.Append(emphasis.Build("emphasis"))
	document := NewBuilder()
	document.Append(paragraph.Build("paragraph"))
	root := document.Build("document")

	want := "(document (paragraph (emphasis delimiter text delimiter)))"
	if got := root.CompactStructure(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestNodeAtAndOutOfBounds(t *testing.T) {
	leaf := Leaf("text", "x")
	inner := Inner("paragraph", []*Node{leaf})
	root := Inner("document", []*Node{inner})

	got, err := root.NodeAt([]int{0, 0})
	if err != nil || got != leaf {
		t.Fatalf("NodeAt([0,0]) = %v, %v; want the leaf node, nil", got, err)
	}

	if _, err := root.NodeAt([]int{5}); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestLeafContaining(t *testing.T) {
	a := Leaf("text", "abc")
	b := Leaf("text", "def")
	root := Inner("paragraph", []*Node{a, b})

	leaf, offset, err := root.LeafContaining(4)
	if err != nil {
		t.Fatalf("LeafContaining: %v", err)
	}
	if leaf != b || offset != 1 {
		t.Fatalf("got leaf=%v offset=%d, want b, offset 1", leaf.Text(), offset)
	}
}

func TestReuseIdentity(t *testing.T) {
	shared := Leaf("text", "shared")
	b1 := NewBuilder()
	b1.Append(shared)
	old := b1.Build("paragraph")

	// Force distinct types so shared survives unmerged in the new tree.
	b3 := NewBuilder()
	b3.Append(shared)
	b3.Append(Leaf("delimiter", "*"))
	updated := b3.Build("paragraph")

	if old.Children()[0] != updated.Children()[0] {
		t.Fatalf("expected the shared leaf to be reference-identical across trees")
	}
}
