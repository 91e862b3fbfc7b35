package format

import "strings"

// cursor walks a single line left to right.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) rest() string {
	return c.s[c.pos:]
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.s) && (c.s[c.pos] == ' ' || c.s[c.pos] == '\t') {
		c.pos++
	}
}

func (c *cursor) peek(tok string) bool {
	return strings.HasPrefix(c.rest(), tok)
}

func (c *cursor) consume(tok string) bool {
	if !c.peek(tok) {
		return false
	}
	c.pos += len(tok)
	return true
}

func (c *cursor) digits() (string, bool) {
	start := c.pos
	for c.pos < len(c.s) && c.s[c.pos] >= '0' && c.s[c.pos] <= '9' {
		c.pos++
	}
	return c.s[start:c.pos], c.pos > start
}

// indexOfFirst returns the offset, relative to the cursor, of whichever token
// occurs first.
func (c *cursor) indexOfFirst(tokens ...string) (int, bool) {
	best := -1
	for _, tok := range tokens {
		if i := strings.Index(c.rest(), tok); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best, best >= 0
}

// take returns the next n bytes and advances past them.
func (c *cursor) take(n int) string {
	out := c.s[c.pos : c.pos+n]
	c.pos += n
	return out
}
