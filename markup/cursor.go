package markup

import "github.com/ardnew/marq/token"

// Cursor is a read-only, position-tracking view over a token sequence.
//
// The backing slice is never modified, so several cursors may share it.
// A Cursor itself is not safe for concurrent use.
type Cursor struct {
	toks []token.Token
	off  int
}

// NewCursor returns a cursor positioned at the first of toks.
func NewCursor(toks []token.Token) *Cursor {
	return &Cursor{toks: toks}
}

// Remaining returns the tokens not yet consumed.
func (c *Cursor) Remaining() []token.Token {
	return c.toks[c.off:]
}

// Peek returns at most n leading tokens of the remaining sequence.
func (c *Cursor) Peek(n int) []token.Token {
	rest := c.toks[c.off:]
	if n < len(rest) {
		return rest[:n]
	}

	return rest
}

// Len returns the number of tokens not yet consumed.
func (c *Cursor) Len() int {
	return len(c.toks) - c.off
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.off >= len(c.toks)
}

// Offset returns the number of tokens consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Advance drops the first n remaining tokens.
//
// The caller must have just inspected at least n tokens; n larger than
// [Cursor.Len] leaves the cursor in an invalid state.
func (c *Cursor) Advance(n int) {
	c.off += n
}
