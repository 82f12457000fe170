package lexer

import (
	"github.com/npillmayer/schuko/gconf"
)

// InvalidationPolicy decides which cached lines to drop after a line had to be
// scanned again.
type InvalidationPolicy int

const (
	// InvalidateOnStateChange drops all following lines if the end state of
	// a re-scanned line differs from the one cached before.
	InvalidateOnStateChange InvalidationPolicy = iota
	// InvalidateSuffix drops all following lines whenever a line had to be
	// re-scanned.
	InvalidateSuffix
)

func (p InvalidationPolicy) String() string {
	if p == InvalidateSuffix {
		return "suffix"
	}
	return "on-state-change"
}

// IncrementalLexer tokenizes successive versions of a document, re-scanning only
// lines whose content or start state changed since the last pass.
//
// An IncrementalLexer is not safe for concurrent use. Use one instance per
// document.
type IncrementalLexer struct {
	cache  *LineCache
	policy InvalidationPolicy
}

// Option configures an IncrementalLexer.
type Option func(*IncrementalLexer)

// WithInvalidation sets the invalidation policy.
func WithInvalidation(p InvalidationPolicy) Option {
	return func(l *IncrementalLexer) {
		l.policy = p
	}
}

// NewIncrementalLexer creates a lexer with an empty cache. Unless overridden by
// an option, the invalidation policy is taken from configuration key
// "lexer.invalidate-suffix".
func NewIncrementalLexer(opts ...Option) *IncrementalLexer {
	l := &IncrementalLexer{
		cache:  NewLineCache(),
		policy: InvalidateOnStateChange,
	}
	if gconf.GetBool("lexer.invalidate-suffix") {
		l.policy = InvalidateSuffix
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize returns the tokens of document, in document coordinates. The result
// is identical to Tokenize(document), but lines found in the cache are not
// scanned again.
func (l *IncrementalLexer) Tokenize(document string) []Token {
	if document == "" {
		l.cache.Clear()
		return nil
	}
	metricTokenizePasses.Inc()
	lines := splitLines(document)
	tokens := make([]Token, 0, len(lines)*4)
	frame := lineFrame{}
	state := Initial
	hits := 0
	for i, content := range lines {
		ls, ok := l.cache.Get(i, content, state)
		if ok {
			hits++
		} else {
			ls = l.scanLine(i, content, state)
		}
		tokens = frame.project(ls.Tokens, tokens)
		frame = frame.next(content)
		state = ls.EndState
	}
	if n := l.cache.InvalidateFrom(len(lines)); n > 0 {
		tracer().Debugf("dropped %d cached lines behind end of document", n)
	}
	metricLineLookups.WithLabelValues(metricResultHit).Add(float64(hits))
	metricLineLookups.WithLabelValues(metricResultMiss).Add(float64(len(lines) - hits))
	tracer().P("lines", len(lines)).Debugf("tokenized document, %d cache hits", hits)
	return Coalesce(tokens)
}

// scanLine scans line i after a cache miss, stores the result and invalidates
// following lines as the policy demands.
func (l *IncrementalLexer) scanLine(i int, content string, state State) *LineState {
	toks, end := Scan(content, state)
	ls := &LineState{
		Tokens:     toks,
		Content:    content,
		StartState: state,
		EndState:   end,
	}
	prev := l.cache.Peek(i)
	l.cache.Put(i, ls)
	invalidate := l.policy == InvalidateSuffix
	if prev != nil && prev.EndState != end {
		tracer().P("line", i).Debugf("end state changed from %s to %s", prev.EndState, end)
		invalidate = true
	}
	if invalidate {
		n := l.cache.InvalidateFrom(i + 1)
		metricInvalidatedLines.Add(float64(n))
	}
	return ls
}

// InvalidateAll empties the cache, e.g. when a document has been replaced as a
// whole. Statistics are kept.
func (l *IncrementalLexer) InvalidateAll() {
	l.cache.Clear()
}

// Invalidate drops the cached state of a single line.
func (l *IncrementalLexer) Invalidate(line int) {
	l.cache.Invalidate(line)
}

// InvalidateFrom drops the cached states of all lines ≥ line.
func (l *IncrementalLexer) InvalidateFrom(line int) {
	l.cache.InvalidateFrom(line)
}

// CachedLines returns the number of lines currently cached.
func (l *IncrementalLexer) CachedLines() int {
	return l.cache.Len()
}

// Stats returns cache hits and misses since creation or the last call to ResetStats.
func (l *IncrementalLexer) Stats() Stats {
	return l.cache.Stats()
}

// CacheHits returns the number of cache hits since the last reset.
func (l *IncrementalLexer) CacheHits() int {
	return l.cache.Stats().Hits
}

// CacheMisses returns the number of cache misses since the last reset.
func (l *IncrementalLexer) CacheMisses() int {
	return l.cache.Stats().Misses
}

// ResetStats sets hit and miss counts to zero.
func (l *IncrementalLexer) ResetStats() {
	l.cache.ResetStats()
}
