// Package errs holds the core's error kinds (spec §7). These are typed
// structs, not an error-wrapping framework, mirroring syntax.SyntaxError's
// small-struct-with-Error-method shape from the teacher.
package errs

import "fmt"

// IncompleteParsing reports that the parser stopped before consuming the
// whole buffer. Recoverable: the caller retains the partial tree.
type IncompleteParsing struct {
	Position int
}

func (e *IncompleteParsing) Error() string {
	return fmt.Sprintf("incomplete parsing: stopped at position %d", e.Position)
}

// OverlappingReplacement reports an attempt to insert a replacement
// interval overlapping one already present in a projection.
type OverlappingReplacement struct {
	Start, End int
}

func (e *OverlappingReplacement) Error() string {
	return fmt.Sprintf("overlapping replacement interval [%d, %d)", e.Start, e.End)
}

// OutOfBounds reports an invalid index passed to coordinate translation or
// path lookup.
type OutOfBounds struct {
	Index int
}

func (e *OutOfBounds) Error() string {
	return fmt.Sprintf("index %d out of bounds", e.Index)
}

// ProgrammingError indicates caller misuse rather than a recoverable parse
// or edit failure: popping an empty scope stack, a grammar with no start
// rule. Fatal, per the teacher's own panic-on-misuse convention in
// syntax/node.go.
type ProgrammingError struct {
	Message string
}

func (e *ProgrammingError) Error() string {
	return "programming error: " + e.Message
}
