package lexer

// LineState is the cached result of scanning a single line. Tokens carry
// line-relative offsets and positions (line 0, offsets starting at 0).
// A LineState is never modified after it has been put into a cache.
type LineState struct {
	Tokens     []Token
	Content    string // line content including its terminator
	StartState State  // lexer state at the start of the line
	EndState   State  // lexer state at the end of the line
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
}

// LineCache maps 0-based line indices to LineStates. It is a dense arena of
// slots, indexed by line number; invalidating a suffix of lines truncates it.
//
// A LineCache is not safe for concurrent use.
type LineCache struct {
	slots []*LineState
	stats Stats
}

// NewLineCache creates an empty cache.
func NewLineCache() *LineCache {
	return &LineCache{}
}

// Get returns the cached state for line index, if there is one with exactly the
// given content and start state. Every call counts as either a hit or a miss.
func (c *LineCache) Get(index int, content string, start State) (*LineState, bool) {
	ls := c.Peek(index)
	if ls == nil || ls.Content != content || ls.StartState != start {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return ls, true
}

// Peek returns the entry for line index regardless of its content and start
// state, or nil. Peek does not count as a lookup.
func (c *LineCache) Peek(index int) *LineState {
	if index < 0 || index >= len(c.slots) {
		return nil
	}
	return c.slots[index]
}

// Put stores the state for line index, replacing a previous entry.
func (c *LineCache) Put(index int, ls *LineState) {
	if index < 0 || ls == nil {
		return
	}
	for len(c.slots) <= index {
		c.slots = append(c.slots, nil)
	}
	c.slots[index] = ls
}

// Invalidate removes the entry for line index.
func (c *LineCache) Invalidate(index int) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	c.slots[index] = nil
	if index == len(c.slots)-1 {
		c.trim(index)
	}
}

// InvalidateFrom removes all entries for line indices ≥ index.
// It returns the number of entries removed.
func (c *LineCache) InvalidateFrom(index int) int {
	if index < 0 || index >= len(c.slots) {
		return 0
	}
	n := 0
	for i := index; i < len(c.slots); i++ {
		if c.slots[i] != nil {
			n++
		}
	}
	c.trim(index)
	return n
}

// trim truncates the slots to length n, releasing removed entries.
func (c *LineCache) trim(n int) {
	for i := n; i < len(c.slots); i++ {
		c.slots[i] = nil
	}
	c.slots = c.slots[:n]
}

// Clear removes all entries. Statistics are kept.
func (c *LineCache) Clear() {
	c.trim(0)
}

// Len returns the number of cached lines.
func (c *LineCache) Len() int {
	n := 0
	for _, ls := range c.slots {
		if ls != nil {
			n++
		}
	}
	return n
}

// Stats returns the number of hits and misses since the last reset.
func (c *LineCache) Stats() Stats {
	return c.stats
}

// ResetStats sets hit and miss counts to zero.
func (c *LineCache) ResetStats() {
	c.stats = Stats{}
}
