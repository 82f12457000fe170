package lexer

import (
	"fmt"

	"github.com/lukascekic/scriptrunner"
)

// TokenType is the lexical category of a token. The set of categories is fixed.
type TokenType int8

// Token categories for Kotlin script.
const (
	ERROR TokenType = iota
	KEYWORD
	BUILTIN_TYPE
	IDENTIFIER
	STRING
	CHAR
	NUMBER
	COMMENT
	OPERATOR
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LT
	GT
	WHITESPACE
	NEWLINE
	numTokenTypes
)

var tokenTypeNames = [...]string{
	ERROR:        "ERROR",
	KEYWORD:      "KEYWORD",
	BUILTIN_TYPE: "BUILTIN_TYPE",
	IDENTIFIER:   "IDENTIFIER",
	STRING:       "STRING",
	CHAR:         "CHAR",
	NUMBER:       "NUMBER",
	COMMENT:      "COMMENT",
	OPERATOR:     "OPERATOR",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LBRACE:       "LBRACE",
	RBRACE:       "RBRACE",
	LBRACKET:     "LBRACKET",
	RBRACKET:     "RBRACKET",
	LT:           "LT",
	GT:           "GT",
	WHITESPACE:   "WHITESPACE",
	NEWLINE:      "NEWLINE",
}

func (tt TokenType) String() string {
	if tt < 0 || tt >= numTokenTypes {
		return fmt.Sprintf("TokenType(%d)", int(tt))
	}
	return tokenTypeNames[tt]
}

// IsBracket is true for the six paired bracket kinds. LT and GT are not
// considered brackets, as they double as comparison operators.
func (tt TokenType) IsBracket() bool {
	return tt >= LPAREN && tt <= RBRACKET
}

// IsOpening is true for '(', '{' and '['.
func (tt TokenType) IsOpening() bool {
	return tt == LPAREN || tt == LBRACE || tt == LBRACKET
}

// IsClosing is true for ')', '}' and ']'.
func (tt TokenType) IsClosing() bool {
	return tt == RPAREN || tt == RBRACE || tt == RBRACKET
}

// Partner returns the paired bracket kind for a bracket, and ERROR for
// every other kind.
func (tt TokenType) Partner() TokenType {
	switch tt {
	case LPAREN:
		return RPAREN
	case RPAREN:
		return LPAREN
	case LBRACE:
		return RBRACE
	case RBRACE:
		return LBRACE
	case LBRACKET:
		return RBRACKET
	case RBRACKET:
		return LBRACKET
	}
	return ERROR
}

// Mergeable is false for every kind where each occurence has to stay a token
// of its own (brackets, '<' and '>').
func (tt TokenType) Mergeable() bool {
	return !tt.IsBracket() && tt != LT && tt != GT
}

// --- Tokens ----------------------------------------------------------------

// Token is a classified run of text. Start and End are rune offsets into the
// document, End being exclusive. Line and Column are 0-based; Column counts runes
// from the start of the line.
type Token struct {
	Type   TokenType
	Text   string
	Start  int
	End    int
	Line   int
	Column int
}

// Span returns the rune offsets covered by a token.
func (t Token) Span() scriptrunner.Span {
	return scriptrunner.Span{t.Start, t.End}
}

// Position returns the line/column position of the first rune of a token.
func (t Token) Position() scriptrunner.Position {
	return scriptrunner.Position{Line: t.Line, Column: t.Column}
}

// Len returns the length of a token in runes.
func (t Token) Len() int {
	return t.End - t.Start
}

func (t Token) String() string {
	return fmt.Sprintf("%s%s %q", t.Type, t.Span(), t.Text)
}

// Tokenizer is the interface other components use to get tokens for a text.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(string) []Token

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []Token {
	return f(text)
}

var _ Tokenizer = TokenizerFunc(Tokenize)
var _ Tokenizer = (*IncrementalLexer)(nil)
