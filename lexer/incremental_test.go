package lexer

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"pgregory.net/rapid"
)

type fatalf interface {
	Fatalf(string, ...interface{})
}

func assertSameTokens(t fatalf, expected, actual []Token) {
	if len(expected) != len(actual) {
		t.Fatalf("expected %d tokens, have %d:\n%v\n%v", len(expected), len(actual), expected, actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("token #%d differs: expected %v at %d:%d, have %v at %d:%d", i,
				expected[i], expected[i].Line, expected[i].Column,
				actual[i], actual[i].Line, actual[i].Column)
		}
	}
}

func TestIncrementalSimpleDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	tokens := lx.Tokenize("val x = 1\nval y = 2")
	var two *Token
	for i := range tokens {
		if tokens[i].Text == "2" {
			two = &tokens[i]
		}
	}
	if two == nil {
		t.Fatalf("expected to find token '2'")
	}
	if two.Type != NUMBER || two.Start != 18 || two.Line != 1 || two.Column != 8 {
		t.Errorf("expected NUMBER at offset 18 (1:8), have %v at %d:%d", *two, two.Line, two.Column)
	}
	if lx.CachedLines() != 2 {
		t.Errorf("expected 2 cached lines, have %d", lx.CachedLines())
	}
}

func TestIncrementalIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	doc := "fun main() {\n    println(\"hi\")\n}\n"
	lx := NewIncrementalLexer()
	first := lx.Tokenize(doc)
	if lx.CacheMisses() != 3 || lx.CacheHits() != 0 {
		t.Errorf("expected 3 misses on first pass, have %+v", lx.Stats())
	}
	lx.ResetStats()
	second := lx.Tokenize(doc)
	assertSameTokens(t, first, second)
	if lx.CacheHits() != 3 || lx.CacheMisses() != 0 {
		t.Errorf("expected 3 hits and no misses on second pass, have %+v", lx.Stats())
	}
}

func TestIncrementalLineEditLocality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	lx.Tokenize("a\nb\nc\nd")
	lx.ResetStats()
	tokens := lx.Tokenize("a\nbb\nc\nd")
	assertSameTokens(t, Tokenize("a\nbb\nc\nd"), tokens)
	if s := lx.Stats(); s.Hits != 3 || s.Misses != 1 {
		t.Errorf("expected 3 hits and 1 miss, have %+v", s)
	}
}

func TestIncrementalBlockCommentOpenAndClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	lx.Tokenize("a\nb\nc\nd")
	lx.ResetStats()
	opened := "a\n/*b\nc\nd"
	tokens := lx.Tokenize(opened)
	assertSameTokens(t, Tokenize(opened), tokens)
	if s := lx.Stats(); s.Hits != 1 || s.Misses != 3 {
		t.Errorf("expected every line from the edit on to miss, have %+v", s)
	}
	last := tokens[len(tokens)-1]
	if last.Type != COMMENT || last.Text != "/*b\nc\nd" {
		t.Errorf("expected comment to extend to end of document, have %v", last)
	}
	//
	lx.ResetStats()
	closed := "a\n/*b\nc*/\nd"
	tokens = lx.Tokenize(closed)
	assertSameTokens(t, Tokenize(closed), tokens)
	if s := lx.Stats(); s.Hits != 2 || s.Misses != 2 {
		t.Errorf("expected 2 hits and 2 misses, have %+v", s)
	}
	last = tokens[len(tokens)-1]
	if last.Type != IDENTIFIER || last.Text != "d" || last.Line != 3 {
		t.Errorf("expected identifier d on line 3, have %v", last)
	}
}

func TestIncrementalRawString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	doc := "val s = \"\"\"\nline one\nline two\n\"\"\"\nval t = 1"
	tokens := lx.Tokenize(doc)
	assertSameTokens(t, Tokenize(doc), tokens)
	var str *Token
	for i := range tokens {
		if tokens[i].Type == STRING {
			str = &tokens[i]
		}
	}
	if str == nil || str.Text != "\"\"\"\nline one\nline two\n\"\"\"" {
		t.Errorf("expected raw string spanning 4 lines, have %v", str)
	}
	if tokens[len(tokens)-1].Type != NUMBER {
		t.Errorf("expected scanning to continue after raw string")
	}
}

func TestIncrementalInsertAndDeleteLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	versions := []string{
		"val a = 1\nval c = 3\n",
		"val a = 1\nval b = 2\nval c = 3\n",
		"val a = 1\nval c = 3\n",
		"val a = 1",
	}
	for _, doc := range versions {
		assertSameTokens(t, Tokenize(doc), lx.Tokenize(doc))
		if n := len(splitLines(doc)); lx.CachedLines() != n {
			t.Errorf("expected %d cached lines, have %d", n, lx.CachedLines())
		}
	}
}

func TestIncrementalInvalidateAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	lx.Tokenize("a\nb\n")
	lx.InvalidateAll()
	lx.ResetStats()
	lx.Tokenize("a\nb\n")
	if s := lx.Stats(); s.Hits != 0 || s.Misses != 2 {
		t.Errorf("expected every line to miss after InvalidateAll, have %+v", s)
	}
	lx.Invalidate(1)
	lx.ResetStats()
	lx.Tokenize("a\nb\n")
	if s := lx.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("expected line 1 to miss after Invalidate(1), have %+v", s)
	}
}

func TestIncrementalEmptyDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer()
	lx.Tokenize("a\nb")
	if tokens := lx.Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected no tokens for empty document, have %v", tokens)
	}
	if lx.CachedLines() != 0 {
		t.Errorf("expected cache to be cleared, have %d lines", lx.CachedLines())
	}
}

func TestIncrementalKeepsBracketsApart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	tokens := NewIncrementalLexer().Tokenize("(())<<>>")
	if len(tokens) != 8 {
		t.Errorf("expected 8 single bracket tokens, have %v", tokens)
	}
}

func TestIncrementalSuffixPolicy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	lx := NewIncrementalLexer(WithInvalidation(InvalidateSuffix))
	lx.Tokenize("a\nb\nc\nd")
	lx.ResetStats()
	tokens := lx.Tokenize("a\nbb\nc\nd")
	assertSameTokens(t, Tokenize("a\nbb\nc\nd"), tokens)
	if s := lx.Stats(); s.Hits != 1 || s.Misses != 3 {
		t.Errorf("expected 1 hit and 3 misses, have %+v", s)
	}
}

func TestIncrementalPolicyFromConfig(t *testing.T) {
	gconf.Initialize(testconfig.Conf{"lexer.invalidate-suffix": true})
	defer gconf.Initialize(testconfig.Conf{})
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.lexer")
	defer teardown()
	//
	if p := NewIncrementalLexer().policy; p != InvalidateSuffix {
		t.Errorf("expected policy from configuration to be %s, is %s", InvalidateSuffix, p)
	}
	if p := NewIncrementalLexer(WithInvalidation(InvalidateOnStateChange)).policy; p != InvalidateOnStateChange {
		t.Errorf("expected option to override configuration, policy is %s", p)
	}
}

// Property: whatever the edit history, the incremental result equals the
// single-pass result.
func TestIncrementalEqualsSinglePass(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		policy := rapid.SampledFrom([]InvalidationPolicy{InvalidateOnStateChange, InvalidateSuffix}).Draw(t, "policy")
		lx := NewIncrementalLexer(WithInvalidation(policy))
		doc := fragmentText().Draw(t, "doc")
		steps := rapid.IntRange(1, 8).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			assertSameTokens(t, Tokenize(doc), lx.Tokenize(doc))
			doc = editLine(t, doc)
		}
		assertSameTokens(t, Tokenize(doc), lx.Tokenize(doc))
	})
}

// editLine replaces, inserts or deletes a line of doc.
func editLine(t *rapid.T, doc string) string {
	lines := splitLines(doc)
	if len(lines) == 0 {
		return fragmentText().Draw(t, "new")
	}
	i := rapid.IntRange(0, len(lines)-1).Draw(t, "line")
	switch rapid.IntRange(0, 2).Draw(t, "edit") {
	case 0:
		lines[i] = fragmentText().Draw(t, "replacement") + "\n"
	case 1:
		lines = append(lines[:i], append([]string{fragmentText().Draw(t, "inserted") + "\n"}, lines[i:]...)...)
	default:
		lines = append(lines[:i], lines[i+1:]...)
	}
	return strings.Join(lines, "")
}

// Property: a second pass over an unchanged document hits the cache for every line.
func TestIncrementalSecondPassHitsEveryLine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := fragmentText().Draw(t, "doc")
		lx := NewIncrementalLexer()
		first := lx.Tokenize(doc)
		lx.ResetStats()
		assertSameTokens(t, first, lx.Tokenize(doc))
		if s := lx.Stats(); s.Hits != len(splitLines(doc)) || s.Misses != 0 {
			t.Fatalf("expected %d hits and no misses, have %+v", len(splitLines(doc)), s)
		}
	})
}
