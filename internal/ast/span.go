// Package ast defines the surface Abstract Syntax Tree produced by the
// parser: declarations, statements and expressions of the Zaco source
// language, augmented with ownership annotations (owned/ref/mut ref/clone).
package ast

import "strconv"

// Location is a single position in one source file, counted in runes
// (not bytes, not display width) so that multi-byte identifiers and
// emoji in comments don't skew column numbers.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Span is a half-open range [Start, End) of line/column Locations in
// the source of one module, attached to every AST node.
type Span struct {
	Start    Location
	End      Location
	SourceID int
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// MergeSpans returns the smallest span covering both a and b. Both must
// belong to the same SourceID.
func MergeSpans(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Line < start.Line || (b.Start.Line == start.Line && b.Start.Column < start.Column) {
		start = b.Start
	}
	if b.End.Line > end.Line || (b.End.Line == end.Line && b.End.Column > end.Column) {
		end = b.End
	}
	return Span{Start: start, End: end, SourceID: a.SourceID}
}

// Source is one compilation unit's raw text, paired with the module
// path the linker later uses to sanitize init-function names.
type Source struct {
	Path     string
	Contents string
	ID       int
}
