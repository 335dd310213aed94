package core_test

import (
	"testing"

	"github.com/scribble-md/scribble/core"
	"github.com/scribble-md/scribble/errs"
	"github.com/scribble-md/scribble/grammar"
	"github.com/scribble-md/scribble/minimark"
)

func newMinimarkParsedString(t *testing.T, text string) *core.ParsedString {
	t.Helper()
	start, subs := minimark.Grammar()
	ps, err := core.New(text, core.Grammar{Start: start, Substitutions: subs})
	if err != nil {
		t.Fatalf("core.New(%q): %v", text, err)
	}
	return ps
}

// Spec §8 scenario 1: a bare emphasis span.
func TestScenario1SimpleEmphasis(t *testing.T) {
	ps := newMinimarkParsedString(t, "*This is emphasized text.*")
	got := ps.Tree().CompactStructure()
	want := "(document (paragraph (emphasis delimiter text delimiter)))"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

// Spec §8 scenario 2: inserting "*" at raw index 14 in "Hello **world*"
// turns the lone trailing emphasis into a strong emphasis.
func TestScenario2InsertUpgradesEmphasisToStrong(t *testing.T) {
	ps := newMinimarkParsedString(t, "Hello **world*")
	before := ps.Tree().CompactStructure()
	wantBefore := "(document (paragraph text (emphasis delimiter text delimiter)))"
	if before != wantBefore {
		t.Fatalf("precondition got  %s\nprecondition want %s", before, wantBefore)
	}

	if err := ps.ReplaceCharacters(14, 14, "*"); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}

	after := ps.Tree().CompactStructure()
	wantAfter := "(document (paragraph text (strong_emphasis delimiter text delimiter)))"
	if after != wantAfter {
		t.Fatalf("got  %s\nwant %s", after, wantAfter)
	}
	if ps.RawString() != "Hello **world**" {
		t.Fatalf("raw string = %q", ps.RawString())
	}
}

// Spec §8 scenario 3: deleting the space after the opening "*" in
// "Hello * world*" turns unparsed plain text into an emphasis span.
func TestScenario3DeleteEnablesEmphasis(t *testing.T) {
	ps := newMinimarkParsedString(t, "Hello * world*")
	before := ps.Tree().CompactStructure()
	wantBefore := "(document (paragraph text))"
	if before != wantBefore {
		t.Fatalf("precondition got  %s\nprecondition want %s", before, wantBefore)
	}

	if err := ps.ReplaceCharacters(7, 8, ""); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}

	after := ps.Tree().CompactStructure()
	wantAfter := "(document (paragraph text (emphasis delimiter text delimiter)))"
	if after != wantAfter {
		t.Fatalf("got  %s\nwant %s", after, wantAfter)
	}
	if ps.RawString() != "Hello *world*" {
		t.Fatalf("raw string = %q", ps.RawString())
	}
}

// Spec §8 scenario 4: the heading soft-tab/H-level projection worked
// example, driven end to end through ParsedString rather than the
// projection package directly.
func TestScenario4HeadingProjection(t *testing.T) {
	ps := newMinimarkParsedString(t, "# Main heading\n\n## Second heading\n\n### Third level header")
	want := "H1\tMain heading\n\nH2\tSecond heading\n\nH3\tThird level header"
	if ps.String() != want {
		t.Fatalf("got  %q\nwant %q", ps.String(), want)
	}
}

// Spec §8 scenario 6: appending text at the end of a two-paragraph
// document (it extends the second paragraph and adds a third) must not
// disturb the memoized strong_emphasis subtree that precedes the appended
// text in the second paragraph — it must be the exact same *tree.Node
// across the edit (spec §4.6/§9 "immutable shared nodes").
func TestScenario6AppendPreservesSharedSubtreeIdentity(t *testing.T) {
	text := "Hello\n\nx **bold** y"
	ps := newMinimarkParsedString(t, text)

	before, err := ps.Tree().NodeAt([]int{2, 1})
	if err != nil {
		t.Fatalf("NodeAt before edit: %v", err)
	}
	if before.Type() != minimark.StrongEmphasis {
		t.Fatalf("node at path [2,1] before edit has type %q, want %q", before.Type(), minimark.StrongEmphasis)
	}

	appendAt := len(text)
	if err := ps.ReplaceCharacters(appendAt, appendAt, "Change paragraph!\n\nAnd add a new one."); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}

	after, err := ps.Tree().NodeAt([]int{2, 1})
	if err != nil {
		t.Fatalf("NodeAt after edit: %v", err)
	}
	if after != before {
		t.Fatalf("strong_emphasis node at path [2,1] was not reused by reference across the append")
	}
}

// Spec §5 ordering guarantee: exactly one WillProcessEditing precedes
// exactly one DidProcessEditing per edit, both carrying identical fields.
type recordingSubscriber struct {
	wills, dids []core.EditNotification
}

func (r *recordingSubscriber) WillProcessEditing(n core.EditNotification) {
	r.wills = append(r.wills, n)
}
func (r *recordingSubscriber) DidProcessEditing(n core.EditNotification) {
	r.dids = append(r.dids, n)
}

func TestEditNotificationOrderingAndPayload(t *testing.T) {
	ps := newMinimarkParsedString(t, "Hello **world*")
	sub := &recordingSubscriber{}
	ps.Subscribe(sub)

	if err := ps.ReplaceCharacters(14, 14, "*"); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}

	if len(sub.wills) != 1 || len(sub.dids) != 1 {
		t.Fatalf("got %d WillProcessEditing and %d DidProcessEditing, want exactly 1 each", len(sub.wills), len(sub.dids))
	}
	if sub.wills[0] != sub.dids[0] {
		t.Fatalf("will %+v and did %+v carry different fields", sub.wills[0], sub.dids[0])
	}
	if sub.dids[0].Mask&core.CharactersEdited == 0 {
		t.Fatalf("expected CharactersEdited set in mask %v", sub.dids[0].Mask)
	}
	if sub.dids[0].ChangeInLength != 1 {
		t.Fatalf("change in length = %d, want 1", sub.dids[0].ChangeInLength)
	}
}

// panicOnSecondRun wraps a grammar's start rule and panics the second time
// it is invoked (once per parse.Run call), letting a test trigger the
// panic specifically during an edit's reparse rather than the initial one.
type panicOnSecondRun struct {
	inner grammar.Rule
	calls *int
}

func (r panicOnSecondRun) Parse(s *grammar.State, pos int) grammar.ParseResult {
	*r.calls++
	if *r.calls == 2 {
		panic("boom")
	}
	return r.inner.Parse(s, pos)
}

// ReplaceCharacters on failure (a panicking rule) must retain the previous
// tree/buffer unchanged and report a *errs.ProgrammingError (spec §4.8
// "Failure handling").
func TestReplaceCharactersRetainsStateOnPanic(t *testing.T) {
	start, subs := minimark.Grammar()
	calls := new(int)
	wrapped := panicOnSecondRun{inner: start, calls: calls}

	ps, err := core.New("plain text", core.Grammar{Start: wrapped, Substitutions: subs})
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	firstTree := ps.Tree()
	firstRaw := ps.RawString()

	editErr := ps.ReplaceCharacters(0, 0, "more ")
	if editErr == nil {
		t.Fatalf("expected an error from the panicking reparse")
	}
	if _, ok := editErr.(*errs.ProgrammingError); !ok {
		t.Fatalf("got error of type %T, want *errs.ProgrammingError", editErr)
	}
	if ps.Tree() != firstTree {
		t.Fatalf("tree was replaced despite the reparse panicking")
	}
	if ps.RawString() != firstRaw {
		t.Fatalf("raw string = %q, want unchanged %q", ps.RawString(), firstRaw)
	}
}
