package completion

import (
	"strings"
	"testing"

	"github.com/lukascekic/scriptrunner/lexer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func texts(items []Item) []string {
	var s []string
	for _, it := range items {
		s = append(s, it.Text)
	}
	return s
}

func TestCompletePrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.completion")
	defer teardown()
	//
	p := NewProvider(nil)
	items := p.Complete(Context{Code: "fu", Cursor: 2, Prefix: "fu"})
	assert.Contains(t, texts(items), "fun")
	for _, it := range items {
		assert.True(t, strings.HasPrefix(strings.ToLower(it.Text), "fu"), it.Text)
	}
	assert.Contains(t, texts(p.Complete(Context{Prefix: "FU"})), "fun", "case insensitive")
	assert.NotContains(t, texts(p.Complete(Context{Prefix: "for"})), "for", "exact match excluded")
	assert.Contains(t, texts(p.Complete(Context{Prefix: "for"})), "forEach")
}

func TestCompleteOrdersByLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.completion")
	defer teardown()
	//
	items := NewProvider(nil).Complete(Context{Prefix: "print"})
	assert.Equal(t, []string{"println"}, texts(items))
	items = NewProvider(nil).Complete(Context{Prefix: "m"})
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, len(items[i-1].Text), len(items[i].Text))
	}
	items = NewProvider(nil).Complete(Context{Prefix: "Str"})
	assert.Equal(t, []Item{{Text: "String", Display: "String", Kind: Type}}, items)
}

func TestCompleteEmptyPrefixAndStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.completion")
	defer teardown()
	//
	p := NewProvider(nil)
	assert.Len(t, p.Complete(Context{}), 20)
	assert.Empty(t, p.Complete(Context{Code: "\"te", Cursor: 3, Prefix: "te", InStringOrComment: true}))
}

func TestNewContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.completion")
	defer teardown()
	//
	p := NewProvider(lexer.NewIncrementalLexer())
	for i, c := range []struct {
		code     string
		cursor   int
		prefix   string
		inString bool
	}{
		{"val test", 8, "test", false},
		{"for", 3, "for", false},
		{"val x = ", 8, "", false},
		{"\"hello", 6, "", true},
		{"\"hello\"", 7, "", false},
		{"// comment", 10, "", true},
		{"/* a */ b", 9, "b", false},
		{"/* a ", 5, "", true},
		{"val größe", 9, "größe", false},
		{"println(x)", 5, "print", false},
		{"x", 0, "", false},
		{"x", 99, "x", false},
	} {
		ctx := p.NewContext(c.code, c.cursor)
		assert.Equal(t, c.prefix, ctx.Prefix, "#%d %q", i, c.code)
		assert.Equal(t, c.inString, ctx.InStringOrComment, "#%d %q", i, c.code)
	}
}
