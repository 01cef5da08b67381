package scan

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ErrTooLarge is returned by CheckSize for inputs whose offsets do not fit in
// a Span.
var ErrTooLarge = errors.New("source too large to scan")

// CheckSize reports whether a buffer of n bytes can be scanned.
func CheckSize(n int) error {
	if _, err := safecast.Conv[uint32](n); err != nil {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	return nil
}

// cursor is a forward-only byte position over the scanned text.
type cursor struct {
	buf   []byte
	off   uint32
	limit uint32
}

func newCursor(buf []byte) cursor {
	limit, err := safecast.Conv[uint32](len(buf))
	if err != nil {
		panic(fmt.Errorf("scan: buffer length overflow: %w", err))
	}
	return cursor{buf: buf, limit: limit}
}

func (c *cursor) eof() bool {
	return c.off >= c.limit
}

// peek returns the current byte, or 0 at EOF.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.buf[c.off]
}

// bump advances one byte and returns it.
func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.buf[c.off]
	c.off++
	return b
}

// peekRune decodes the rune at the cursor, with an ASCII fast path.
func (c *cursor) peekRune() (rune, int) {
	if c.eof() {
		return utf8.RuneError, 0
	}
	b := c.buf[c.off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.buf[c.off:c.limit])
}

// advance moves the cursor n bytes forward, clamped to the limit.
func (c *cursor) advance(n int) {
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("scan: advance overflow: %w", err))
	}
	if un > c.limit-c.off {
		un = c.limit - c.off
	}
	c.off += un
}

// rest returns the unread bytes.
func (c *cursor) rest() []byte {
	return c.buf[c.off:c.limit]
}

func (c *cursor) mark() uint32 {
	return c.off
}

func (c *cursor) spanFrom(start uint32) Span {
	return Span{Start: start, End: c.off}
}
