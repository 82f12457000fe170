/*
Package completion proposes keywords, builtin functions and builtin types for
the identifier under the cursor. Names declared within the document and
visible at the cursor are proposed as well (see CollectSymbols).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package completion

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lukascekic/scriptrunner/lexer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriptrunner.completion'.
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.completion")
}

// Kind is the category of a completion item.
type Kind int8

// Kinds of completion items
const (
	Keyword Kind = iota
	Builtin
	Type
	Declared
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Builtin:
		return "builtin"
	case Declared:
		return "declared"
	}
	return "type"
}

// Item is a single completion proposal.
type Item struct {
	Text    string
	Display string
	Kind    Kind
}

// Context describes where completion has been requested.
type Context struct {
	Code              string
	Cursor            int    // rune offset
	Prefix            string // partial word in front of the cursor
	InStringOrComment bool
}

// maxUnfiltered is the number of items proposed for an empty prefix.
const maxUnfiltered = 20

var builtinFunctions = []string{
	"println", "print", "readLine", "readln",
	"listOf", "mutableListOf", "listOfNotNull", "emptyList", "buildList",
	"setOf", "mutableSetOf", "emptySet", "buildSet",
	"mapOf", "mutableMapOf", "emptyMap", "buildMap",
	"arrayOf", "intArrayOf", "doubleArrayOf", "floatArrayOf", "longArrayOf",
	"booleanArrayOf", "charArrayOf", "byteArrayOf", "shortArrayOf",
	"sequenceOf", "emptySequence",
	"TODO", "error", "require", "requireNotNull", "check", "checkNotNull",
	"assert", "run", "let", "also", "apply", "with", "takeIf", "takeUnless",
	"repeat", "lazy", "to", "Pair", "Triple",
	"maxOf", "minOf", "sortedBy", "sortedByDescending",
	"filter", "map", "forEach", "find", "first", "last", "any", "all", "none",
}

// Provider proposes completions.
type Provider struct {
	tokenizer lexer.Tokenizer
	items     []Item
}

// NewProvider creates a completion provider, using tokenizer t to analyse the
// text in front of the cursor. If t is nil, the single-pass lexer.Tokenize is used.
func NewProvider(t lexer.Tokenizer) *Provider {
	if t == nil {
		t = lexer.TokenizerFunc(lexer.Tokenize)
	}
	p := &Provider{tokenizer: t}
	for _, kw := range lexer.Keywords() {
		p.items = append(p.items, Item{Text: kw, Display: kw, Kind: Keyword})
	}
	for _, fn := range builtinFunctions {
		p.items = append(p.items, Item{Text: fn, Display: fn, Kind: Builtin})
	}
	for _, tp := range lexer.BuiltinTypes() {
		p.items = append(p.items, Item{Text: tp, Display: tp, Kind: Type})
	}
	return p
}

// Complete returns the proposals for a context. Inside strings and comments
// there are none. For an empty prefix the first 20 items are returned.
// Otherwise items starting with the prefix (ignoring case) are returned,
// shortest first, leaving out exact matches. Names declared in ctx.Code in
// front of the cursor take part in prefix matching and precede other items
// of the same length.
func (p *Provider) Complete(ctx Context) []Item {
	if ctx.InStringOrComment {
		return nil
	}
	prefix := strings.ToLower(ctx.Prefix)
	if prefix == "" {
		n := maxUnfiltered
		if n > len(p.items) {
			n = len(p.items)
		}
		return append([]Item(nil), p.items[:n]...)
	}
	var result []Item
	for _, item := range append(p.declared(ctx), p.items...) {
		t := strings.ToLower(item.Text)
		if strings.HasPrefix(t, prefix) && t != prefix {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return len(result[i].Text) < len(result[j].Text)
	})
	tracer().Debugf("%d completions for prefix %q", len(result), ctx.Prefix)
	return result
}

// declared returns items for the document symbols visible at the cursor,
// leaving out names which are static items anyway.
func (p *Provider) declared(ctx Context) []Item {
	if ctx.Code == "" {
		return nil
	}
	static := make(map[string]bool, len(p.items))
	for _, item := range p.items {
		static[item.Text] = true
	}
	var items []Item
	global := CollectSymbols(p.tokenizer.Tokenize(ctx.Code))
	for _, sym := range global.Visible(ctx.Cursor) {
		if static[sym.Name()] {
			continue
		}
		items = append(items, Item{
			Text:    sym.Name(),
			Display: sym.Decl.String() + " " + sym.Name(),
			Kind:    Declared,
		})
	}
	return items
}

// NewContext analyses code in front of rune offset cursor.
func (p *Provider) NewContext(code string, cursor int) Context {
	ctx := Context{Code: code, Cursor: cursor}
	runes := []rune(code)
	if cursor <= 0 || len(runes) == 0 {
		return ctx
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	tokens := p.tokenizer.Tokenize(string(runes[:cursor]))
	if len(tokens) == 0 {
		return ctx
	}
	last := tokens[len(tokens)-1]
	switch last.Type {
	case lexer.STRING, lexer.CHAR, lexer.COMMENT:
		ctx.InStringOrComment = isOpen(last)
	case lexer.IDENTIFIER, lexer.KEYWORD, lexer.BUILTIN_TYPE:
		if last.End == cursor && isWord(last.Text) {
			ctx.Prefix = last.Text
		}
	}
	return ctx
}

// isOpen is true if a cursor behind token t is still inside of it. Tokens may
// consist of more than one literal or comment, as runs of the same kind are
// merged.
func isOpen(t lexer.Token) bool {
	return open(t.Text)
}

func open(text string) bool {
	switch {
	case text == "":
		return false
	case strings.HasPrefix(text, "//"):
		return true
	case strings.HasPrefix(text, "/*"):
		if i := strings.Index(text[2:], "*/"); i >= 0 {
			return open(text[2+i+2:])
		}
		return true
	case strings.HasPrefix(text, `"""`):
		i := strings.Index(text[3:], `"""`)
		if i < 0 {
			return true
		}
		end := 3 + i + 3
		for end < len(text) && text[end] == '"' {
			end++
		}
		return open(text[end:])
	case text[0] == '"' || text[0] == '\'':
		q := text[0]
		for i := 1; i < len(text); i++ {
			switch text[i] {
			case '\\':
				i++
			case q:
				return open(text[i+1:])
			}
		}
		return true
	}
	return false
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
