package lex

// eof is the rune returned by the cursor once input is exhausted.
const eof = rune(0)

// Cursor wraps raw source text and yields runes one at a time while tracking
// the line and column of the read head for error reporting.
type Cursor struct {
	src  []rune
	next int
	pos  Position
}

// NewCursor returns a cursor positioned at the start of src.
func NewCursor(src string) *Cursor {
	return &Cursor{
		src: []rune(src),
		pos: Position{Line: 1, Column: 1},
	}
}

// Pos returns the position of the next unread rune.
func (c *Cursor) Pos() Position {
	return c.pos
}

// Peek returns the next rune without consuming it.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the rune n positions ahead of the read head without
// consuming anything.
func (c *Cursor) PeekAt(n int) rune {
	if c.next+n >= len(c.src) {
		return eof
	}
	return c.src[c.next+n]
}

// Next consumes and returns the next rune.
func (c *Cursor) Next() rune {
	if c.next >= len(c.src) {
		return eof
	}
	r := c.src[c.next]
	c.next++
	c.pos.Offset++
	if r == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}
	return r
}

// NextIf consumes the next rune if it equals r.
func (c *Cursor) NextIf(r rune) bool {
	if c.Peek() != r {
		return false
	}
	c.Next()
	return true
}

// TakeIf consumes seq if the upcoming runes match it exactly.
func (c *Cursor) TakeIf(seq string) bool {
	for i, r := range []rune(seq) {
		if c.PeekAt(i) != r {
			return false
		}
	}
	for range seq {
		c.Next()
	}
	return true
}

// TakeWhile consumes runes for as long as pred holds and returns them.
func (c *Cursor) TakeWhile(pred func(rune) bool) string {
	var out []rune
	for c.Peek() != eof && pred(c.Peek()) {
		out = append(out, c.Next())
	}
	return string(out)
}
