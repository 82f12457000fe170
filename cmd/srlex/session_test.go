package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukascekic/scriptrunner/highlight"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, s *session, input string) {
	quit, err := s.exec(input)
	require.NoError(t, err, input)
	require.False(t, quit)
}

func TestSessionEdits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.cli")
	defer teardown()
	//
	var out bytes.Buffer
	s := newSession(&out, highlight.New())
	run(t, s, "val a = 1")
	run(t, s, "val b = (a")
	assert.Equal(t, "val a = 1\nval b = (a\n", s.doc)
	assert.Len(t, s.last.Unmatched, 1)
	//
	run(t, s, ":insert 2 /*")
	assert.Equal(t, "val a = 1\n/*\nval b = (a\n", s.doc)
	assert.Empty(t, s.last.Unmatched, "bracket is commented out")
	assert.Equal(t, 1, s.last.Stats.Hits)
	//
	run(t, s, ":delete 2")
	run(t, s, ":line 2 val b = (a)")
	assert.Equal(t, "val a = 1\nval b = (a)\n", s.doc)
	assert.Empty(t, s.last.Unmatched)
	//
	out.Reset()
	run(t, s, ":match 18")
	require.NotNil(t, s.last.Match)
	assert.True(t, s.last.Match.IsMatched)
	assert.Contains(t, out.String(), "matches")
	//
	out.Reset()
	run(t, s, ":complete 2")
	assert.Contains(t, out.String(), "var")
	//
	quit, err := s.exec(":quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestSessionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.cli")
	defer teardown()
	//
	s := newSession(&bytes.Buffer{}, highlight.New())
	run(t, s, "x")
	for _, input := range []string{":delete 9", ":delete", ":line x y", ":match", ":bogus"} {
		_, err := s.exec(input)
		assert.Error(t, err, input)
	}
	assert.Equal(t, "x\n", s.doc)
}

func TestSessionLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.cli")
	defer teardown()
	//
	name := filepath.Join(t.TempDir(), "hello.kts")
	require.NoError(t, os.WriteFile(name, []byte("fun main() {\n    println(\"hi\")\n}\n"), 0o644))
	s := newSession(&bytes.Buffer{}, highlight.New())
	require.NoError(t, s.load(name))
	assert.Equal(t, 3, s.hl.Lexer().CachedLines())
	assert.Error(t, s.load(filepath.Join(t.TempDir(), "missing.kts")))
}
