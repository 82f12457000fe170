/*
Package bracket finds matching and unmatched brackets in a stream of tokens.

Only the paired bracket kinds '(' ')', '{' '}' and '[' ']' take part in
matching. '<' and '>' are ignored, as they double as comparison operators.
Bracket tokens inside strings or comments never exist as such, as the lexer
reports strings and comments as single tokens.

All functions work on tokens as produced by package lexer and never re-scan
them. A Matcher adds convenience functions which tokenize a text first.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package bracket

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/utils"
	"github.com/lukascekic/scriptrunner/lexer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriptrunner.bracket'.
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.bracket")
}

// Pair is a matching pair of brackets.
type Pair struct {
	Open  lexer.Token
	Close lexer.Token
}

func (p Pair) String() string {
	return fmt.Sprintf("%s…%s", p.Open.Span(), p.Close.Span())
}

// Match is the result of looking for the partner of a bracket.
// If no partner has been found, Match is nil and IsMatched is false.
type Match struct {
	Bracket   lexer.Token
	Match     *lexer.Token
	IsMatched bool
}

// brackets collects the paired bracket tokens of a token stream.
func brackets(tokens []lexer.Token) *arraylist.List {
	list := arraylist.New()
	for _, t := range tokens {
		if t.Type.IsBracket() {
			list.Add(t)
		}
	}
	return list
}

func at(list *arraylist.List, i int) lexer.Token {
	t, _ := list.Get(i)
	return t.(lexer.Token)
}

// MatchAt finds the bracket token covering cursor position cursor (a rune offset)
// and looks for its partner, taking nesting into account. It returns nil if
// there is no bracket at the cursor.
func MatchAt(tokens []lexer.Token, cursor int) *Match {
	if cursor < 0 {
		return nil
	}
	list := brackets(tokens)
	k := -1
	for i := 0; i < list.Size(); i++ {
		if at(list, i).Span().Contains(cursor) {
			k = i
			break
		}
	}
	if k < 0 {
		return nil
	}
	b := at(list, k)
	m := &Match{Bracket: b}
	partner := b.Type.Partner()
	step := 1
	if b.Type.IsClosing() {
		step = -1
	}
	depth := 0
	for i := k + step; i >= 0 && i < list.Size(); i += step {
		t := at(list, i)
		switch t.Type {
		case b.Type:
			depth++
		case partner:
			if depth == 0 {
				m.Match = &t
				m.IsMatched = true
				tracer().Debugf("bracket %v matches %v", b, t)
				return m
			}
			depth--
		}
	}
	return m
}

// byStart orders tokens by their start offset.
func byStart(a, b interface{}) int {
	return utils.IntComparator(a.(lexer.Token).Start, b.(lexer.Token).Start)
}

// Unmatched returns all bracket tokens without a partner: closing brackets
// which do not fit the innermost open bracket, and open brackets never closed.
// The result is ordered by start offset.
func Unmatched(tokens []lexer.Token) []lexer.Token {
	unmatched := treeset.NewWith(byStart)
	stack := arraystack.New()
	for _, t := range tokens {
		switch {
		case t.Type.IsOpening():
			stack.Push(t)
		case t.Type.IsClosing():
			top, ok := stack.Peek()
			if ok && top.(lexer.Token).Type == t.Type.Partner() {
				stack.Pop()
			} else {
				unmatched.Add(t)
			}
		}
	}
	for !stack.Empty() {
		t, _ := stack.Pop()
		unmatched.Add(t)
	}
	result := make([]lexer.Token, 0, unmatched.Size())
	for _, t := range unmatched.Values() {
		result = append(result, t.(lexer.Token))
	}
	return result
}

// Pairs returns all matching bracket pairs, in the order their closing brackets
// appear.
func Pairs(tokens []lexer.Token) []Pair {
	var pairs []Pair
	stack := arraystack.New()
	for _, t := range tokens {
		switch {
		case t.Type.IsOpening():
			stack.Push(t)
		case t.Type.IsClosing():
			top, ok := stack.Peek()
			if ok && top.(lexer.Token).Type == t.Type.Partner() {
				stack.Pop()
				pairs = append(pairs, Pair{Open: top.(lexer.Token), Close: t})
			}
		}
	}
	return pairs
}

// --- Matcher ---------------------------------------------------------------

// Matcher does bracket matching for texts, tokenizing them first.
type Matcher struct {
	tokenizer lexer.Tokenizer
}

// NewMatcher creates a matcher which uses tokenizer t. If t is nil, the
// single-pass lexer.Tokenize is used.
func NewMatcher(t lexer.Tokenizer) *Matcher {
	if t == nil {
		t = lexer.TokenizerFunc(lexer.Tokenize)
	}
	return &Matcher{tokenizer: t}
}

// MatchAtText tokenizes text and calls MatchAt.
func (m *Matcher) MatchAtText(text string, cursor int) *Match {
	return MatchAt(m.tokenizer.Tokenize(text), cursor)
}

// UnmatchedText tokenizes text and calls Unmatched.
func (m *Matcher) UnmatchedText(text string) []lexer.Token {
	return Unmatched(m.tokenizer.Tokenize(text))
}

// PairsText tokenizes text and calls Pairs.
func (m *Matcher) PairsText(text string) []Pair {
	return Pairs(m.tokenizer.Tokenize(text))
}
