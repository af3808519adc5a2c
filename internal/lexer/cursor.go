package lexer

import "quill/internal/source"

// cursor is a byte-level reader over one file's content.
type cursor struct {
	file *source.File
	pos  uint32
}

func newCursor(file *source.File) cursor {
	return cursor{file: file}
}

func (c *cursor) eof() bool {
	return int(c.pos) >= len(c.file.Content)
}

// peek returns the current byte, or 0 at EOF.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.pos]
}

// peekAt returns the byte at offset n from the current position, or 0.
func (c *cursor) peekAt(n uint32) byte {
	if int(c.pos+n) >= len(c.file.Content) {
		return 0
	}
	return c.file.Content[c.pos+n]
}

// bump advances one byte.
func (c *cursor) bump() {
	if !c.eof() {
		c.pos++
	}
}

// mark remembers the current offset for spanFrom.
func (c *cursor) mark() uint32 {
	return c.pos
}

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.pos}
}

func (c *cursor) text(sp source.Span) string {
	return string(c.file.Content[sp.Start:sp.End])
}
