package ast

import "fmt"

// SourceLocation identifies a (line, column) position in the original DSL
// source. Both components are 1-based; the sentinel (-1, -1) means the
// position is unknown. Locations are diagnostic only and never affect
// semantics.
type SourceLocation struct {
	Line   int
	Column int
}

// UnknownLocation returns the (-1, -1) sentinel.
func UnknownLocation() SourceLocation {
	return SourceLocation{Line: -1, Column: -1}
}

// Locate builds a SourceLocation from a 1-based line and column.
func Locate(line, column int) SourceLocation {
	return SourceLocation{Line: line, Column: column}
}

// IsUnknown reports whether the location is the unknown sentinel.
// Any non-positive component counts as unknown.
func (l SourceLocation) IsUnknown() bool {
	return l.Line < 1 || l.Column < 1
}

// String renders "line:column", or "<unknown>" for the sentinel.
func (l SourceLocation) String() string {
	if l.IsUnknown() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
