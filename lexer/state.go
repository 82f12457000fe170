package lexer

// State is the lexer state at a line boundary. It records whether a line starts
// (or ends) inside a construct spanning multiple lines.
type State int8

// Lexer states
const (
	Initial        State = iota // not inside a multi-line construct
	InBlockComment              // inside /* … */
	InRawString                 // inside """ … """
)

func (s State) String() string {
	switch s {
	case Initial:
		return "Initial"
	case InBlockComment:
		return "InBlockComment"
	case InRawString:
		return "InRawString"
	}
	return "State(?)"
}

// tokenType is the category of text scanned while in state s.
func (s State) tokenType() TokenType {
	if s == InRawString {
		return STRING
	}
	return COMMENT
}
