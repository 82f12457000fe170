package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'scriptrunner.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.lexer")
}

// Scan tokenizes text, starting in lexer state start. It returns the tokens in
// document order together with the lexer state at the end of text.
//
// Scan never fails: input which no rule accepts results in ERROR tokens of one
// rune each. Tokens are contiguous and cover text completely; offsets are rune
// offsets relative to the start of text. Scan does not merge tokens, i.e. runs
// of the same kind may be reported as more than one token.
//
// Multi-line constructs are block comments (not nested) and raw strings. If text
// ends within one of them, the returned state tells which.
func Scan(text string, start State) ([]Token, State) {
	if text == "" {
		return nil, start
	}
	sc := &scan{text: text, state: start}
	pos := 0
	if start != Initial {
		end, closed := continueConstruct(text, 0, start)
		sc.emit(start.tokenType(), 0, end)
		if closed {
			sc.state = Initial
		}
		pos = end
	}
	if pos < len(text) {
		sc.run(pos)
	}
	return sc.tokens, sc.state
}

// Tokenize is the single-pass tokenizer for a whole document. Runs of the same
// kind are merged, the same way IncrementalLexer.Tokenize does.
func Tokenize(text string) []Token {
	tokens, _ := Scan(text, Initial)
	return Coalesce(tokens)
}

// scan holds the progress of a call to Scan.
type scan struct {
	text   string
	state  State
	tokens []Token
	runes  int // rune offset of the next token
	line   int
	col    int
}

// run lets the DFA do the work, starting at byte position pos.
func (sc *scan) run(pos int) {
	s, err := lexmachineLexer().Scanner([]byte(sc.text))
	if err != nil { // cannot happen for a compiled DFA
		tracer().Errorf("scanner error: %v", err)
		sc.emit(ERROR, pos, len(sc.text))
		return
	}
	s.TC = pos
	for {
		tok, err, eos := s.Next()
		if eos {
			break
		}
		if err != nil {
			ui, ok := err.(*machines.UnconsumedInput)
			if !ok { // should not happen, but make progress anyway
				tracer().Errorf("scanner error: %v", err)
				sc.emit(ERROR, s.TC, len(sc.text))
				break
			}
			s.TC = sc.unmatched(ui.StartTC)
			continue
		}
		t := tok.(*lexmachine.Token)
		from, to := t.TC, t.TC+len(t.Lexeme)
		switch t.Type {
		case blockCommentOpener, rawStringOpener:
			state := InBlockComment
			if t.Type == rawStringOpener {
				state = InRawString
			}
			end, closed := continueConstruct(sc.text, to, state)
			sc.emit(state.tokenType(), from, end)
			if !closed {
				sc.state = state
			}
			s.TC = end
		case int(IDENTIFIER):
			if sc.text[from] == '`' {
				sc.emit(IDENTIFIER, from, to)
				break
			}
			end := identifierEnd(sc.text, to)
			sc.emit(classify(sc.text[from:end]), from, end)
			s.TC = end
		default:
			sc.emit(TokenType(t.Type), from, to)
		}
	}
}

// unmatched handles a position where no rule matches. Letters outside of ASCII
// start an identifier, everything else is an error of one rune.
// It returns the byte position after the token emitted.
func (sc *scan) unmatched(from int) int {
	r, w := utf8.DecodeRuneInString(sc.text[from:])
	if r != utf8.RuneError && unicode.IsLetter(r) {
		end := identifierEnd(sc.text, from+w)
		sc.emit(classify(sc.text[from:end]), from, end)
		return end
	}
	sc.emit(ERROR, from, from+w)
	return from + w
}

// emit appends a token for text[from:to] (byte positions) and advances the
// rune offset and the line/column position.
func (sc *scan) emit(tt TokenType, from, to int) {
	lexeme := sc.text[from:to]
	n := utf8.RuneCountInString(lexeme)
	sc.tokens = append(sc.tokens, Token{
		Type:   tt,
		Text:   lexeme,
		Start:  sc.runes,
		End:    sc.runes + n,
		Line:   sc.line,
		Column: sc.col,
	})
	sc.runes += n
	for i, r := range lexeme {
		switch {
		case r == '\n':
			sc.line++
			sc.col = 0
		case r == '\r':
			if from+i+1 < len(sc.text) && sc.text[from+i+1] == '\n' {
				continue // \r\n counts as one line break
			}
			sc.line++
			sc.col = 0
		default:
			sc.col++
		}
	}
}

// identifierEnd extends an identifier over letters, digits and underscores,
// starting at byte position pos.
func identifierEnd(text string, pos int) int {
	for pos < len(text) {
		r, w := utf8.DecodeRuneInString(text[pos:])
		if r == utf8.RuneError || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		pos += w
	}
	return pos
}

// continueConstruct finds the end of a multi-line construct which is open at
// byte position pos. If the construct is not closed within text, it extends to
// the end of text and closed is false.
func continueConstruct(text string, pos int, state State) (end int, closed bool) {
	switch state {
	case InBlockComment:
		if i := strings.Index(text[pos:], "*/"); i >= 0 {
			return pos + i + 2, true
		}
	case InRawString:
		if i := strings.Index(text[pos:], `"""`); i >= 0 {
			end = pos + i + 3
			for end < len(text) && text[end] == '"' {
				end++
			}
			return end, true
		}
	default:
		return pos, true
	}
	return len(text), false
}
