package lexer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Keywords of Kotlin script, including soft keywords and modifiers.
var keywords = []string{
	"fun", "val", "var", "if", "else", "when", "for", "while", "do",
	"class", "object", "interface", "enum", "sealed", "data", "abstract", "open",
	"return", "break", "continue", "throw", "try", "catch", "finally",
	"null", "true", "false", "is", "as", "in", "out",
	"private", "public", "protected", "internal", "override", "suspend",
	"import", "package", "this", "super", "companion", "init", "constructor",
	"typealias", "inline", "reified", "crossinline", "noinline", "lateinit",
	"by", "where", "get", "set", "annotation", "vararg", "const", "final",
	"expect", "actual", "external", "tailrec", "operator", "infix",
}

// Types of the Kotlin standard library which are highlighted on their own.
var builtinTypes = []string{
	"String", "Int", "Long", "Float", "Double", "Boolean", "Char", "Byte", "Short",
	"Unit", "Any", "Nothing", "Array", "List", "Set", "Map",
	"MutableList", "MutableSet", "MutableMap", "Sequence", "Pair", "Triple",
	"IntArray", "DoubleArray", "FloatArray", "LongArray", "BooleanArray",
	"CharArray", "ByteArray", "ShortArray", "Comparable", "Number",
}

// Operators, longer ones first for readability only: the DFA always takes the
// longest match.
var operators = []string{
	"===", "!==", "..<",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "->", "=>", "::", "..", "?.", "?:", "!!",
	"=", "+", "-", "*", "/", "%", "!", "?", ":", ".", ",", ";",
	"@", "&", "|", "^", "~", "#", "$",
}

// Keywords returns the keywords of the language, in a stable order.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

// BuiltinTypes returns the builtin type names of the language, in a stable order.
func BuiltinTypes() []string {
	return append([]string(nil), builtinTypes...)
}

var keywordSet, builtinTypeSet = makeSet(keywords), makeSet(builtinTypes)

func makeSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// classify decides between KEYWORD, BUILTIN_TYPE and IDENTIFIER for a word.
func classify(word string) TokenType {
	if _, ok := keywordSet[word]; ok {
		return KEYWORD
	}
	if _, ok := builtinTypeSet[word]; ok {
		return BUILTIN_TYPE
	}
	return IDENTIFIER
}

// --- lexmachine setup ------------------------------------------------------

// Token ids the DFA reports in addition to TokenType values. The scanner
// driver continues these tokens by hand, as their end is not a regular
// property of a single line.
const (
	blockCommentOpener = int(numTokenTypes) + iota
	rawStringOpener
)

var dfa *lexmachine.Lexer
var dfaOnce sync.Once

// lexmachineLexer returns the compiled DFA for the Initial state. It is compiled
// once and only read afterwards.
func lexmachineLexer() *lexmachine.Lexer {
	dfaOnce.Do(func() {
		lexer, err := compileRules()
		if err != nil {
			panic(fmt.Errorf("lexer: error compiling DFA: %w", err))
		}
		dfa = lexer
	})
	return dfa
}

func compileRules() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`[ \t]+`), makeToken(int(WHITESPACE)))
	lexer.Add([]byte(`(\r|\n)+`), makeToken(int(NEWLINE)))
	lexer.Add([]byte(`//[^\r\n]*`), makeToken(int(COMMENT)))
	lexer.Add([]byte(`/\*`), makeToken(blockCommentOpener))
	lexer.Add([]byte(`\"\"\"`), makeToken(rawStringOpener))
	lexer.Add([]byte(`\"([^"\\\r\n]|\\[^\r\n])*\"?`), makeToken(int(STRING)))
	lexer.Add([]byte(`'([^'\\\r\n]|\\[^\r\n])*'?`), makeToken(int(CHAR)))
	lexer.Add([]byte(`0[xX][0-9a-fA-F_]+[lLuU]?`), makeToken(int(NUMBER)))
	lexer.Add([]byte(`0[bB][01_]+[lLuU]?`), makeToken(int(NUMBER)))
	lexer.Add([]byte(`[0-9][0-9_]*(\.[0-9][0-9_]*)?([eE][\+\-]?[0-9]+)?[fFdDlLuU]?`), makeToken(int(NUMBER)))
	lexer.Add([]byte(`\.[0-9][0-9_]*([eE][\+\-]?[0-9]+)?[fFdD]?`), makeToken(int(NUMBER)))
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), makeToken(int(IDENTIFIER)))
	lexer.Add([]byte("`[^`\\r\\n]*`?"), makeToken(int(IDENTIFIER)))
	brackets := []struct {
		lit string
		tt  TokenType
	}{
		{"(", LPAREN}, {")", RPAREN}, {"{", LBRACE}, {"}", RBRACE},
		{"[", LBRACKET}, {"]", RBRACKET}, {"<", LT}, {">", GT},
	}
	for _, b := range brackets {
		lexer.Add(literal(b.lit), makeToken(int(b.tt)))
	}
	for _, op := range operators {
		lexer.Add(literal(op), makeToken(int(OPERATOR)))
	}
	if err := lexer.Compile(); err != nil {
		return nil, err
	}
	return lexer, nil
}

// literal escapes every character of a literal string.
func literal(lit string) []byte {
	return []byte("\\" + strings.Join(strings.Split(lit, ""), "\\"))
}

// makeToken is an action which wraps a scanned match into a lexmachine token.
func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, nil, m), nil
	}
}
