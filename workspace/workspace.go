/*
Package workspace keeps track of the documents open in an editor.

Every open document owns a highlighter, and with it an incremental lexer with a
line cache of its own. The number of documents is bounded; when a new document
is opened beyond the limit, the document used least recently is dropped and its
caches are released.

Configuration

Key "workspace.max-documents" (int) sets the limit if New is called with a size ≤ 0.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 Lukas Cekic

*/
package workspace

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lukascekic/scriptrunner/highlight"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriptrunner.workspace'.
func tracer() tracing.Trace {
	return tracing.Select("scriptrunner.workspace")
}

// DefaultMaxDocuments is used if neither New nor the configuration set a limit.
const DefaultMaxDocuments = 32

// Document is an open document.
type Document struct {
	ID string
	mu sync.Mutex // serializes updates
	hl *highlight.Highlighter
}

// Update highlights a new version of the document.
func (d *Document) Update(text string, cursor int) highlight.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hl.Highlight(text, cursor)
}

// CachedLines returns the number of lines in the document's line cache.
func (d *Document) CachedLines() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hl.Lexer().CachedLines()
}

// Workspace is a registry of open documents. It is safe for concurrent use.
type Workspace struct {
	mu   sync.Mutex // guards docs
	docs *lru.Cache[string, *Document]
}

// New creates a workspace holding at most size documents.
func New(size int) (*Workspace, error) {
	if size <= 0 {
		size = gconf.GetInt("workspace.max-documents")
	}
	if size <= 0 {
		size = DefaultMaxDocuments
	}
	docs, err := lru.NewWithEvict(size, func(id string, d *Document) {
		tracer().P("doc", id).Infof("document dropped from workspace")
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	return &Workspace{docs: docs}, nil
}

// Open returns the document with the given id, creating it if necessary.
func (w *Workspace) Open(id string) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d, ok := w.docs.Get(id); ok {
		return d
	}
	d := &Document{ID: id, hl: highlight.New()}
	w.docs.Add(id, d)
	tracer().P("doc", id).Debugf("opened document")
	return d
}

// Update highlights a new version of document id, opening it if necessary.
func (w *Workspace) Update(id, text string, cursor int) highlight.Result {
	return w.Open(id).Update(text, cursor)
}

// Close drops a document and its caches.
func (w *Workspace) Close(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs.Remove(id)
}

// Len returns the number of open documents.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs.Len()
}

// IsOpen is a predicate: is document id open?
func (w *Workspace) IsOpen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs.Contains(id)
}
