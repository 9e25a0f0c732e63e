package lexer

import (
	"fmt"
	"unicode/utf8"

	"saslint/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле вместе с текущими строкой и колонкой.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32

	line uint32
	col  uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
		line:  1,
		col:   1,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekRune decodes the rune at the cursor without moving it.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// BumpRune consumes one rune and keeps line/column in sync.
// "\n" starts a new line, so CRLF counts as a single line break.
func (c *Cursor) BumpRune() rune {
	r, sz := c.PeekRune()
	if sz == 0 {
		return r
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	c.Off += usz
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

// Bump consumes n ASCII bytes.
func (c *Cursor) Bump(n int) {
	for i := 0; i < n && !c.EOF(); i++ {
		c.BumpRune()
	}
}

// Pos returns the 1-based line and column of the next unread rune.
func (c *Cursor) Pos() source.LineCol {
	return source.LineCol{Line: c.line, Col: c.col}
}
