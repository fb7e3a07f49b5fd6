// Package cursor provides a stateful position into a document.Document:
// an index that can be moved absolutely or relatively, read from, and
// used as the implicit position for insert/replace/erase.
package cursor

import (
	"github.com/pkg/errors"

	"github.com/arkedit/doccore/document"
)

// Cursor tracks a character index into a Document and exposes
// position-relative reads and edits. It is not safe for concurrent use.
type Cursor struct {
	doc *document.Document
	i   int
}

// New returns a cursor positioned at the start of doc.
func New(doc *document.Document) *Cursor {
	return &Cursor{doc: doc}
}

// MoveTo sets the absolute character position, clamped to [0, doc length].
func (c *Cursor) MoveTo(index int) {
	if index < 0 {
		index = 0
	}
	if length := c.doc.CharLen(); index > length {
		index = length
	}
	c.i = index
}

// MoveBy moves the cursor by offset characters, clamped to the document
// bounds.
func (c *Cursor) MoveBy(offset int) {
	c.MoveTo(c.i + offset)
}

// Index returns the cursor's current absolute character position.
func (c *Cursor) Index() int {
	return c.i
}

// At returns the rune at offset characters from the cursor, clamped to
// the last valid position if offset would read past the end.
func (c *Cursor) At(offset int) rune {
	index := c.i + offset
	if length := c.doc.CharLen(); index >= length {
		index = length - 1
	}
	if index < 0 {
		return 0
	}
	return c.doc.CharAt(index)
}

// Rune returns the rune at the cursor's current position.
func (c *Cursor) Rune() rune {
	return c.At(0)
}

// MinOffset returns the largest negative offset At can be called with
// without underflowing the document (the distance back to position 0).
func (c *Cursor) MinOffset() int {
	return -c.i
}

// MaxOffset returns the distance forward from the cursor to the end of the
// document. At(MaxOffset()) is one past the last rune and clamps; the
// largest offset At reads without clamping is MaxOffset()-1.
func (c *Cursor) MaxOffset() int {
	return c.doc.CharLen() - c.i
}

// Line returns the 1-based line number containing the cursor.
func (c *Cursor) Line() int {
	return c.doc.LineAt(c.i)
}

// Column returns the 0-based column of the cursor within its line.
func (c *Cursor) Column() int {
	_, column := c.doc.PointOfOffset(c.i)
	return column
}

// Position returns the cursor's (line, column) pair.
func (c *Cursor) Position() (line, column int) {
	return c.doc.PointOfOffset(c.i)
}

// ToPosition converts a (line, column) pair to an absolute character
// index, clamping both to the document's bounds.
func (c *Cursor) ToPosition(line, column int) int {
	return c.doc.OffsetOfPoint(line, column)
}

// Substr reads count characters starting at the cursor's position,
// without moving the cursor.
func (c *Cursor) Substr(count int) string {
	from := c.i
	to := from + count
	if length := c.doc.CharLen(); to > length {
		to = length
	}
	if to <= from {
		return ""
	}
	return c.doc.Read(from, to)
}

// Insert inserts text at the cursor's position and advances the cursor
// past the inserted text.
func (c *Cursor) Insert(text string) error {
	if err := c.doc.Insert(c.i, text); err != nil {
		return errors.Wrap(err, "inserting at cursor")
	}
	c.MoveBy(runeCount(text))
	return nil
}

// Replace erases count characters at the cursor's position and inserts
// text in their place, leaving the cursor just past the inserted text.
func (c *Cursor) Replace(count int, text string) error {
	from := c.i
	to := from + count
	if length := c.doc.CharLen(); to > length {
		to = length
	}
	if err := c.doc.Replace(from, to, text); err != nil {
		return errors.Wrap(err, "replacing at cursor")
	}
	c.MoveTo(from + runeCount(text))
	return nil
}

// Erase deletes count characters starting at the cursor's position. The
// cursor's position does not change.
func (c *Cursor) Erase(count int) error {
	from := c.i
	to := from + count
	if length := c.doc.CharLen(); to > length {
		to = length
	}
	if to <= from {
		return nil
	}
	if err := c.doc.Erase(from, to); err != nil {
		return errors.Wrap(err, "erasing at cursor")
	}
	return nil
}

// Clear removes all text from the document and resets the cursor to 0.
func (c *Cursor) Clear() {
	c.doc.Erase(0, c.doc.CharLen())
	c.i = 0
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
