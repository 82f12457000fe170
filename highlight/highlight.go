/*
Package highlight computes syntax highlighting for Kotlin script.

A Highlighter tokenizes a document incrementally, looks for the partner of a
bracket under the cursor and for unmatched brackets, and maps every token to a
Style. Styles are abstract; a Theme turns them into terminal colors.

Editors request highlighting on every keystroke. A Worker runs highlighting in
the background and drops requests which have been overtaken by newer ones
before they were processed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package highlight

import (
	"github.com/lukascekic/scriptrunner"
	"github.com/lukascekic/scriptrunner/lexer"
	"github.com/lukascekic/scriptrunner/lexer/bracket"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriptrunner.highlight'.
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.highlight")
}

// Style is an abstract highlighting style.
type Style int8

// Styles for tokens. StyleDefault means "not highlighted".
const (
	StyleDefault Style = iota
	StyleKeyword
	StyleBuiltinType
	StyleString
	StyleComment
	StyleNumber
	StyleBracket
	StyleMatchedBracket
	StyleUnmatchedBracket
	StyleError
)

var styleNames = [...]string{
	"default", "keyword", "builtin-type", "string", "comment", "number",
	"bracket", "matched-bracket", "unmatched-bracket", "error",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "style(?)"
	}
	return styleNames[s]
}

// StyleOf returns the style for a token category, not considering bracket matching.
func StyleOf(tt lexer.TokenType) Style {
	switch tt {
	case lexer.KEYWORD:
		return StyleKeyword
	case lexer.BUILTIN_TYPE:
		return StyleBuiltinType
	case lexer.STRING, lexer.CHAR:
		return StyleString
	case lexer.COMMENT:
		return StyleComment
	case lexer.NUMBER:
		return StyleNumber
	case lexer.LPAREN, lexer.RPAREN, lexer.LBRACE, lexer.RBRACE, lexer.LBRACKET,
		lexer.RBRACKET, lexer.LT, lexer.GT:
		return StyleBracket
	case lexer.ERROR:
		return StyleError
	}
	return StyleDefault
}

// Span is a styled run of text. Range is given in rune offsets.
type Span struct {
	Range scriptrunner.Span
	Style Style
}

// Result is the outcome of highlighting a document.
type Result struct {
	Seq       uint64 // sequence number of the request, if run by a Worker
	Text      string
	Cursor    int
	Tokens    []lexer.Token
	Spans     []Span         // spans in document order; tokens with StyleDefault are left out
	Match     *bracket.Match // bracket at the cursor, or nil
	Unmatched []lexer.Token  // brackets without partner
	Stats     lexer.Stats    // cache hits and misses of this pass
}

// Highlighter highlights successive versions of one document.
// It is not safe for concurrent use.
type Highlighter struct {
	lexer *lexer.IncrementalLexer
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithLexer lets a highlighter use an existing incremental lexer.
func WithLexer(lx *lexer.IncrementalLexer) Option {
	return func(h *Highlighter) {
		if lx != nil {
			h.lexer = lx
		}
	}
}

// New creates a highlighter with its own incremental lexer.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{}
	for _, opt := range opts {
		opt(h)
	}
	if h.lexer == nil {
		h.lexer = lexer.NewIncrementalLexer()
	}
	return h
}

// Lexer returns the incremental lexer of h.
func (h *Highlighter) Lexer() *lexer.IncrementalLexer {
	return h.lexer
}

// Highlight tokenizes text and computes styled spans. If cursor is negative,
// no bracket match is looked for.
func (h *Highlighter) Highlight(text string, cursor int) Result {
	before := h.lexer.Stats()
	tokens := h.lexer.Tokenize(text)
	after := h.lexer.Stats()
	r := Result{
		Text:   text,
		Cursor: cursor,
		Tokens: tokens,
		Stats: lexer.Stats{
			Hits:   after.Hits - before.Hits,
			Misses: after.Misses - before.Misses,
		},
	}
	if len(tokens) == 0 {
		return r
	}
	matched := map[int]bool{}
	if cursor >= 0 {
		if r.Match = bracket.MatchAt(tokens, cursor); r.Match != nil {
			matched[r.Match.Bracket.Start] = true
			if r.Match.Match != nil {
				matched[r.Match.Match.Start] = true
			}
		}
	}
	r.Unmatched = bracket.Unmatched(tokens)
	unmatched := make(map[int]bool, len(r.Unmatched))
	for _, t := range r.Unmatched {
		unmatched[t.Start] = true
	}
	r.Spans = make([]Span, 0, len(tokens))
	for _, t := range tokens {
		style := StyleOf(t.Type)
		if unmatched[t.Start] {
			style = StyleUnmatchedBracket
		} else if matched[t.Start] {
			style = StyleMatchedBracket
		}
		if style == StyleDefault {
			continue
		}
		r.Spans = append(r.Spans, Span{Range: t.Span(), Style: style})
	}
	tracer().Debugf("highlighted %d tokens, %d spans", len(tokens), len(r.Spans))
	return r
}

// StyleAt returns the style of the span covering rune offset pos.
func (r Result) StyleAt(pos int) Style {
	for _, s := range r.Spans {
		if s.Range.Contains(pos) {
			return s.Style
		}
	}
	return StyleDefault
}
