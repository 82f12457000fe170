package scriptrunner

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input text. Positions are
// counted in runes (Unicode code points), not in bytes. A span denotes a
// start position and the position just behind the end.
type Span [2]int // (x…y)

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Contains is a predicate: is pos within [x…y) ?
func (s Span) Contains(pos int) bool {
	return pos >= s[0] && pos < s[1]
}

// Shift moves a span by delta positions.
func (s Span) Shift(delta int) Span {
	return Span{s[0] + delta, s[1] + delta}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Positions --------------------------------------------------------

// Position is a line/column location within a document. Both values are 0-based,
// columns are counted in runes from the start of the line.
type Position struct {
	Line   int
	Column int
}

// Advance moves a position over line-relative position p, as if p had been
// measured from the start of the line denoted by pos.Line.
func (pos Position) Advance(p Position) Position {
	return Position{Line: pos.Line + p.Line, Column: p.Column}
}

func (pos Position) String() string {
	return fmt.Sprintf("%d:%d", pos.Line+1, pos.Column+1)
}
