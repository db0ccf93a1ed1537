package codec

import (
	"github.com/jokva/dlisio/pkg/dliserr"
)

// Cursor is a read position inside a byte slice. Decoders advance it; a
// failed decode leaves the position where the failure was detected, and the
// error carries that offset.
//
// The offset reported in errors is relative to the start of the slice; when
// the slice is a record payload, callers translate it to a file tell.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps b without copying.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Pos returns the current offset into the underlying slice.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Done reports whether the cursor has consumed the whole slice.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.buf)
}

// take consumes exactly n bytes, failing with Truncated if fewer remain.
func (c *Cursor) take(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, dliserr.At(dliserr.Truncated, int64(c.pos),
			"need %d bytes, have %d", n, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}
