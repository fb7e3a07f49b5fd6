// Package document composes a rope, a line index, and an interval tree
// into a single text buffer abstraction: insert/erase/replace text by
// character position, query line boundaries, and attach arbitrary
// attributes (selections, diagnostics, syntax spans) to ranges that
// survive edits elsewhere in the document.
package document

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/arkedit/doccore/config"
	"github.com/arkedit/doccore/interval"
	"github.com/arkedit/doccore/lineindex"
	"github.com/arkedit/doccore/rope"
	"github.com/arkedit/doccore/text"
)

// Document is a mutable, line-aware, attribute-aware UTF-8 text buffer.
// It is not safe for concurrent use.
type Document struct {
	cfg      config.Config
	text     *rope.Rope
	newlines lineindex.LineIndex
	attrs    interval.Tree
}

// New returns an empty document.
func New(cfg config.Config) *Document {
	return &Document{cfg: cfg, text: rope.New(cfg)}
}

// NewFromText returns a document pre-populated with text. text must be
// valid UTF-8.
func NewFromText(cfg config.Config, text string) (*Document, error) {
	d := New(cfg)
	if err := d.Insert(0, text); err != nil {
		return nil, err
	}
	return d, nil
}

// CharLen returns the document length in runes.
func (d *Document) CharLen() int {
	return d.text.CharCount()
}

// ByteLen returns the document length in bytes.
func (d *Document) ByteLen() int {
	return d.text.ByteCount()
}

// Insert inserts s at the given character position, clamped to
// [0, CharLen()]. It fails only if s is not valid UTF-8.
func (d *Document) Insert(pos int, s string) error {
	pos = clamp(pos, 0, d.CharLen())
	deltaLen := utf8.RuneCountInString(s)
	if err := d.text.Insert(pos, []byte(s)); err != nil {
		return errors.Wrap(err, "inserting text into rope")
	}
	d.newlines.Shift(pos, deltaLen)
	d.attrs.Shift(pos, deltaLen)
	d.markNewlines(pos, s)
	return nil
}

// Append inserts s at the end of the document.
func (d *Document) Append(s string) error {
	return d.Insert(d.CharLen(), s)
}

// Erase deletes the half-open character range [from, to), clamped to the
// document's bounds. A range with to <= from erases nothing.
func (d *Document) Erase(from, to int) error {
	from = clamp(from, 0, d.CharLen())
	to = clamp(to, from, d.CharLen())
	deltaLen := from - to
	d.newlines.Shift(from, deltaLen)
	d.attrs.Shift(from, deltaLen)
	d.text.Delete(from, to-from)
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Replace deletes [from, to) and inserts s at from.
func (d *Document) Replace(from, to int, s string) error {
	if err := d.Erase(from, to); err != nil {
		return err
	}
	return d.Insert(from, s)
}

func (d *Document) markNewlines(pos int, s string) {
	charIdx := 0
	for _, r := range s {
		if r == '\n' {
			d.newlines.Insert(pos + charIdx)
		}
		charIdx++
	}
}

// Read returns the substring spanning the half-open character range
// [from, to).
func (d *Document) Read(from, to int) string {
	if to <= from {
		return ""
	}
	return d.text.Substring(from, to-from)
}

// ReadInto writes the half-open character range [from, to) to w.
func (d *Document) ReadInto(w io.Writer, from, to int) (int64, error) {
	s := d.Read(from, to)
	if s == "" {
		return 0, nil
	}
	n, err := io.WriteString(w, s)
	if err != nil {
		return int64(n), errors.Wrap(err, "writing document range")
	}
	return int64(n), nil
}

// CharAt returns the rune at the given character position.
func (d *Document) CharAt(pos int) rune {
	return d.text.CharAt(pos)
}

// Runes returns a cloneable iterator over the runes from pos to the end
// of the document, for callers that want to scan sequentially without
// materializing a substring (e.g. a syntax scanner walking token
// boundaries).
func (d *Document) Runes(pos int) text.CloneableRuneIter {
	return text.NewCloneableForwardRuneIter(rope.NewForwardReader(d.text, pos))
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return d.newlines.Size() + 1
}

// LineAt returns the 1-based line number containing the character
// position pos.
func (d *Document) LineAt(pos int) int {
	if d.newlines.Size() == 0 {
		return 1
	}
	// The number of newlines at or before pos is the rank of the first
	// newline strictly after it; if there is none, every newline is at or
	// before pos.
	_, rank, ok := d.newlines.UpperBound(pos)
	if !ok {
		return d.newlines.Size() + 1
	}
	return rank + 1
}

// SpanForLine returns the half-open character range [start, end) spanned
// by the given 1-based line number. end is the position of the line's
// trailing newline, or the document's length for the last line. ok is
// false if line does not exist.
func (d *Document) SpanForLine(line int) (start, end int, ok bool) {
	line--
	newlineCount := d.newlines.Size()

	switch {
	case line < 0 || line > newlineCount:
		return 0, 0, false
	case newlineCount == 0:
		return 0, d.CharLen(), true
	case line == 0:
		first, _ := d.newlines.Get(0)
		return 0, first, true
	case line == newlineCount:
		last, _ := d.newlines.Get(newlineCount - 1)
		return last + 1, d.CharLen(), true
	default:
		prev, _ := d.newlines.Get(line - 1)
		next, _ := d.newlines.Get(line)
		return prev + 1, next, true
	}
}

// PointOfOffset converts a character position to a 1-based (line, column)
// pair, clamping pos to the document's bounds first.
func (d *Document) PointOfOffset(pos int) (line, column int) {
	pos = clamp(pos, 0, d.CharLen())
	line = d.LineAt(pos)
	start, _, ok := d.SpanForLine(line)
	if !ok {
		return line, 0
	}
	return line, pos - start
}

// OffsetOfPoint converts a 1-based (line, column) pair to a character
// position, clamping both the line number and the column to the
// document's bounds.
func (d *Document) OffsetOfPoint(line, column int) int {
	start, end, ok := d.SpanForLine(line)
	if !ok {
		if line < 1 {
			start, _, _ = d.SpanForLine(1)
			return start
		}
		return d.CharLen()
	}
	pos := start + column
	return clamp(pos, start, end)
}

// SetAttribute attaches payload to the half-open character range
// [start, end) and returns a handle that tracks the range across edits.
func (d *Document) SetAttribute(start, end int, payload interface{}) *interval.Node {
	return d.attrs.Insert(start, end, payload)
}

// Attributes returns the interval tree backing SetAttribute, for direct
// search (FindOverlap, FindInner, FindOuter, FindEqual) or removal.
func (d *Document) Attributes() *interval.Tree {
	return &d.attrs
}

// FindText reports whether query occurs in the document under
// locale-aware case folding and NFC normalization, and if so the
// character position of its first occurrence.
//
// The document is read through a transform.Reader chained from a rope
// Reader, so the document is never materialized as a single string;
// transform.Reader buffers internally across folding/normalization so a
// read-buffer boundary never splits a codepoint mid-transform.
func (d *Document) FindText(query string, lang language.Tag) (found bool, pos int, err error) {
	transformer := transform.Chain(norm.NFC, cases.Lower(lang))

	transformedQuery, _, err := transform.String(transformer, query)
	if err != nil {
		return false, 0, errors.Wrap(err, "normalizing search query")
	}

	reader := rope.NewForwardReader(d.text, 0)
	transformedReader := transform.NewReader(reader, transformer)

	found, offset, err := text.Search(transformedQuery, transformedReader)
	if err != nil {
		return false, 0, errors.Wrap(err, "searching document")
	}
	return found, int(offset), nil
}
