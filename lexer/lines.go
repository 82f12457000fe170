package lexer

import (
	"unicode/utf8"

	"github.com/lukascekic/scriptrunner"
)

// splitLines splits a document into lines. Every line keeps its terminator,
// which may be "\n", "\r\n" or a lone "\r". Only the last line may lack a
// terminator; it is omitted if empty. Concatenating the lines yields the
// document.
func splitLines(doc string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(doc); i++ {
		switch doc[i] {
		case '\n':
			lines = append(lines, doc[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(doc) && doc[i+1] == '\n' {
				i++
			}
			lines = append(lines, doc[start:i+1])
			start = i + 1
		}
	}
	if start < len(doc) {
		lines = append(lines, doc[start:])
	}
	return lines
}

// lineFrame locates a line within the document: its 0-based index and the rune
// offset of its first character.
type lineFrame struct {
	index  int
	offset int
}

// project transforms line-relative tokens into document coordinates. This is
// the only place where cached, line-relative positions get shifted.
func (f lineFrame) project(tokens []Token, into []Token) []Token {
	origin := scriptrunner.Position{Line: f.index}
	for _, t := range tokens {
		span := t.Span().Shift(f.offset)
		pos := origin.Advance(t.Position())
		t.Start, t.End = span.From(), span.To()
		t.Line, t.Column = pos.Line, pos.Column
		into = append(into, t)
	}
	return into
}

// next returns the frame of the line following a line with the given content.
func (f lineFrame) next(content string) lineFrame {
	return lineFrame{index: f.index + 1, offset: f.offset + utf8.RuneCountInString(content)}
}
