package projection_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/scribble-md/scribble/projection"
	"github.com/scribble-md/scribble/tree"
)

func TestHeadingSoftTabWorkedExample(t *testing.T) {
	raw := "# Main heading\n\n## Second heading\n\n### Third level header"

	heading := func(level int, text string) *tree.Node {
		delim := strings.Repeat("#", level)
		return tree.Inner("heading", []*tree.Node{
			tree.Leaf("headerDelimiter", delim),
			tree.Leaf("softTab", " "),
			tree.LeafLen("text", len(text)),
		})
	}
	blank := tree.Leaf("blank", "\n\n")

	root := tree.Inner("document", []*tree.Node{
		heading(1, "Main heading"),
		blank,
		heading(2, "Second heading"),
		blank,
		heading(3, "Third level header"),
	})

	subs := projection.SubstitutionMap{
		"softTab": projection.Literal("\t"),
		"headerDelimiter": func(n *tree.Node, _ int) string {
			return "H" + strconv.Itoa(len(n.Text()))
		},
	}

	p := projection.Compute(root, raw, subs)
	want := "H1\tMain heading\n\nH2\tSecond heading\n\nH3\tThird level header"
	if p.Visible() != want {
		t.Fatalf("got  %q\nwant %q", p.Visible(), want)
	}
}

func TestOuterWinsOverInner(t *testing.T) {
	raw := "*x*"
	inner := tree.Leaf("emphasisMarker", "x")
	outer := tree.Inner("emphasis", []*tree.Node{
		tree.Leaf("star", "*"),
		inner,
		tree.Leaf("star", "*"),
	})
	subs := projection.SubstitutionMap{
		"emphasis":       projection.Literal("<em>"),
		"emphasisMarker": projection.Literal("SHOULD-NOT-APPEAR"),
	}
	p := projection.Compute(outer, raw, subs)
	if p.Visible() != "<em>" {
		t.Fatalf("got %q, want the inner substitution suppressed entirely", p.Visible())
	}
	if len(p.Intervals()) != 1 {
		t.Fatalf("expected exactly one interval (the outer), got %d", len(p.Intervals()))
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	raw := "plain *em* more"
	root := tree.Inner("document", []*tree.Node{
		tree.LeafLen("plain", len("plain ")),
		tree.Inner("emphasis", []*tree.Node{
			tree.Leaf("star", "*"),
			tree.LeafLen("text", 2),
			tree.Leaf("star", "*"),
		}),
		tree.LeafLen("plain", len(" more")),
	})
	subs := projection.SubstitutionMap{
		"emphasis": projection.Literal("<em>em</em>"),
	}
	p := projection.Compute(root, raw, subs)

	for i := 0; i <= len(raw); i++ {
		visible, err := p.IndexAfterReplacements(i)
		if err != nil {
			t.Fatalf("IndexAfterReplacements(%d): %v", i, err)
		}
		back, err := p.IndexBeforeReplacements(visible)
		if err != nil {
			t.Fatalf("IndexBeforeReplacements(%d): %v", visible, err)
		}
		insideReplacement := i > len("plain ") && i < len("plain *em*")
		if !insideReplacement && back != i {
			t.Fatalf("round trip failed at raw %d: got back %d", i, back)
		}
		if insideReplacement && back != len("plain ") {
			t.Fatalf("round trip inside a replaced node should land on its raw start, got %d", back)
		}
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	root := tree.Leaf("text", "abc")
	p := projection.Compute(root, "abc", nil)
	if _, err := p.IndexAfterReplacements(-1); err == nil {
		t.Fatalf("expected an out-of-bounds error")
	}
	if _, err := p.IndexBeforeReplacements(100); err == nil {
		t.Fatalf("expected an out-of-bounds error")
	}
}
