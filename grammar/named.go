package grammar

import "github.com/scribble-md/scribble/errs"

// RuleID is the stable, pointer-based identity memoization keys on. Only
// Named rules are memoized (spec §4.5); every other combinator is cheap to
// re-derive and carries no identity of its own.
type RuleID = *Named

// Named gives a rule a stable identity for grammar references (supporting
// mutual/forward recursion through Bind) and for memoization (spec §4.4
// "Named(ref)"). Left recursion is not supported: a cycle of Named rules
// that returns to the same position without consuming input will recurse
// forever, exactly as spec §4.5 warns; grammars must be factored to avoid
// it.
type Named struct {
	name string
	rule Rule
}

// NewNamed declares a named rule. Bind its target afterward to allow
// forward/mutual references within a grammar's rule graph.
func NewNamed(name string) *Named {
	return &Named{name: name}
}

// Bind attaches the rule this name refers to.
func (n *Named) Bind(rule Rule) { n.rule = rule }

// Name returns the rule's declared name.
func (n *Named) Name() string { return n.name }

// Parse implements Rule. On a memo hit the cached ParseResult — including
// its subtree — is returned verbatim, preserving reference identity across
// re-parses (spec §4.5, §4.6).
func (n *Named) Parse(s *State, pos int) ParseResult {
	if cached, ok := s.Memo.Get(n, pos); ok {
		return cached
	}
	if n.rule == nil {
		panic(&errs.ProgrammingError{Message: "grammar: named rule \"" + n.name + "\" has no bound rule"})
	}
	res := n.rule.Parse(s, pos)
	s.Memo.Put(n, pos, res)
	return res
}
