package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"nsguard/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0.
type Cursor struct {
	src  []byte
	file source.FileID
	off  uint32
}

// Mark is a saved cursor offset.
type Mark uint32

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID}
}

// Offset is the byte offset of the next unread byte.
func (c *Cursor) Offset() uint32 { return c.off }

func (c *Cursor) EOF() bool { return int(c.off) >= len(c.src) }

// At returns the byte n positions ahead without consuming it.
func (c *Cursor) At(n int) byte {
	i := int(c.off) + n
	if i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

func (c *Cursor) Peek() byte { return c.At(0) }

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.src[c.off:]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Skip advances n bytes, stopping at the end of input.
func (c *Cursor) Skip(n int) {
	c.off = uint32(min(int(c.off)+n, len(c.src)))
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.off] != b {
		return false
	}
	c.off++
	return true
}

func (c *Cursor) Mark() Mark { return Mark(c.off) }

func (c *Cursor) Reset(m Mark) { c.off = uint32(m) }

// SpanFrom covers the bytes consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}
