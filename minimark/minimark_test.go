package minimark_test

import (
	"testing"

	"github.com/scribble-md/scribble/buffer"
	"github.com/scribble-md/scribble/minimark"
	"github.com/scribble-md/scribble/parse"
	"github.com/scribble-md/scribble/projection"
	"github.com/scribble-md/scribble/tree"
)

func mustParse(t *testing.T, text string) *parseResult {
	t.Helper()
	start, subs := minimark.Grammar()
	buf := buffer.New(text)
	m := parse.NewMemo()
	root, err := parse.Run(start, buf, m)
	if err != nil {
		t.Fatalf("parse(%q): %v", text, err)
	}
	return &parseResult{root: root, buf: buf, subs: subs}
}

type parseResult struct {
	root *tree.Node
	buf  *buffer.PieceTable
	subs projection.SubstitutionMap
}

func TestSimpleEmphasis(t *testing.T) {
	r := mustParse(t, "*This is emphasized text.*")
	got := r.root.CompactStructure()
	want := "(document (paragraph (emphasis delimiter text delimiter)))"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestStrongEmphasis(t *testing.T) {
	r := mustParse(t, "Hi **there** world")
	got := r.root.CompactStructure()
	want := "(document (paragraph text (strong_emphasis delimiter text delimiter) text))"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestHeadingLevelsAndProjection(t *testing.T) {
	text := "# Main heading\n\n## Second heading\n\n### Third level header"
	start, subs := minimark.Grammar()
	buf := buffer.New(text)
	m := parse.NewMemo()
	root, err := parse.Run(start, buf, m)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := projection.Compute(root, buf.String(), subs)
	want := "H1\tMain heading\n\nH2\tSecond heading\n\nH3\tThird level header"
	if p.Visible() != want {
		t.Fatalf("got  %q\nwant %q", p.Visible(), want)
	}

	headings := 0
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.Type() == minimark.Heading {
			headings++
			level := minimark.HeadingLevel(n)
			if level != headings {
				t.Fatalf("heading %d reports level %d", headings, level)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	if headings != 3 {
		t.Fatalf("found %d headings, want 3", headings)
	}
}
