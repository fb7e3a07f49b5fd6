package document

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/arkedit/doccore/config"
)

func smallConfig() config.Config {
	c := config.DefaultConfig()
	c.BlockBytes = 8
	c.MaxHeight = 6
	return c
}

func TestNewFromTextAndRead(t *testing.T) {
	d, err := NewFromText(smallConfig(), "hello\nworld\n")
	require.NoError(t, err)
	assert.Equal(t, 12, d.CharLen())
	assert.Equal(t, "hello", d.Read(0, 5))
	assert.Equal(t, 3, d.LineCount())
}

func TestInsertShiftsLinesAndAttributes(t *testing.T) {
	d, err := NewFromText(smallConfig(), "line one\nline two\nline three")
	require.NoError(t, err)

	attr := d.SetAttribute(9, 17, "tag")
	require.NoError(t, d.Insert(0, "XX\n"))

	assert.Equal(t, 4, d.LineCount())
	assert.Equal(t, 12, attr.Start())
	assert.Equal(t, 20, attr.End())
	assert.Equal(t, "line two", d.Read(attr.Start(), attr.End()))
}

func TestEraseRemovesNewlinesAndShiftsAttributes(t *testing.T) {
	d, err := NewFromText(smallConfig(), "aaa\nbbb\nccc\n")
	require.NoError(t, err)
	attr := d.SetAttribute(8, 11, "ccc-tag")

	require.NoError(t, d.Erase(0, 4))
	assert.Equal(t, 3, d.LineCount())
	assert.Equal(t, "bbb\nccc\n", d.Read(0, d.CharLen()))
	assert.Equal(t, 4, attr.Start())
	assert.Equal(t, "ccc", d.Read(attr.Start(), attr.End()))
}

func TestInsertClampsOutOfRangePosition(t *testing.T) {
	d, err := NewFromText(smallConfig(), "hello")
	require.NoError(t, err)

	require.NoError(t, d.Insert(-5, "A"))
	require.NoError(t, d.Insert(1000, "Z"))
	assert.Equal(t, "Ahello", d.Read(0, 6))
	assert.Equal(t, byte('Z'), d.Read(d.CharLen()-1, d.CharLen())[0])
}

func TestEraseClampsOutOfRangeRange(t *testing.T) {
	d, err := NewFromText(smallConfig(), "hello")
	require.NoError(t, err)

	require.NoError(t, d.Erase(-5, 2))
	assert.Equal(t, "llo", d.Read(0, d.CharLen()))

	require.NoError(t, d.Erase(1, 1000))
	assert.Equal(t, "l", d.Read(0, d.CharLen()))
}

func TestReplace(t *testing.T) {
	d, err := NewFromText(smallConfig(), "hello world")
	require.NoError(t, err)
	require.NoError(t, d.Replace(6, 11, "there"))
	assert.Equal(t, "hello there", d.Read(0, d.CharLen()))
}

func TestLineAtAndSpanForLine(t *testing.T) {
	d, err := NewFromText(smallConfig(), "one\ntwo\nthree")
	require.NoError(t, err)

	assert.Equal(t, 1, d.LineAt(0))
	assert.Equal(t, 2, d.LineAt(3)) // position 3 is the newline itself; it belongs to the next line
	assert.Equal(t, 2, d.LineAt(4))
	assert.Equal(t, 3, d.LineAt(12))

	start, end, ok := d.SpanForLine(1)
	require.True(t, ok)
	assert.Equal(t, "one", d.Read(start, end))

	start, end, ok = d.SpanForLine(2)
	require.True(t, ok)
	assert.Equal(t, "two", d.Read(start, end))

	start, end, ok = d.SpanForLine(3)
	require.True(t, ok)
	assert.Equal(t, "three", d.Read(start, end))

	_, _, ok = d.SpanForLine(4)
	assert.False(t, ok)
}

func TestPointOfOffsetAndOffsetOfPoint(t *testing.T) {
	d, err := NewFromText(smallConfig(), "one\ntwo\nthree")
	require.NoError(t, err)

	line, col := d.PointOfOffset(5)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	assert.Equal(t, 10, d.OffsetOfPoint(3, 2))

	// Out-of-range coordinates clamp rather than error.
	assert.Equal(t, 0, d.OffsetOfPoint(0, 0))
	assert.Equal(t, d.CharLen(), d.OffsetOfPoint(100, 0))

	start, end, ok := d.SpanForLine(2)
	require.True(t, ok)
	assert.Equal(t, end, d.OffsetOfPoint(2, 1000))
	assert.Equal(t, start, d.OffsetOfPoint(2, -5))

	line, col = d.PointOfOffset(-5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)

	line, col = d.PointOfOffset(1000)
	assert.Equal(t, 3, line)
	assert.Equal(t, 5, col)
}

func TestSingleLineDocumentSpan(t *testing.T) {
	d, err := NewFromText(smallConfig(), "no newlines here")
	require.NoError(t, err)
	assert.Equal(t, 1, d.LineCount())
	start, end, ok := d.SpanForLine(1)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, d.CharLen(), end)
}

func TestReadInto(t *testing.T) {
	d, err := NewFromText(smallConfig(), "mixed日本語text")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := d.ReadInto(&buf, 5, 8)
	require.NoError(t, err)
	assert.Equal(t, "日本語", buf.String())
	assert.Equal(t, int64(len("日本語")), n)
}

func TestFindText(t *testing.T) {
	d, err := NewFromText(smallConfig(), "The Quick Brown Fox")
	require.NoError(t, err)

	found, pos, err := d.FindText("quick", language.English)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4, pos)

	found, _, err = d.FindText("slow", language.English)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunesIteratesFromPosition(t *testing.T) {
	d, err := NewFromText(smallConfig(), "hello world")
	require.NoError(t, err)

	iter := d.Runes(6)
	var got []rune
	for {
		r, err := iter.NextRune()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, r)
	}
	assert.Equal(t, []rune("world"), got)
}

func TestFindOverlappingAttributesSurviveEdits(t *testing.T) {
	d, err := NewFromText(smallConfig(), "0123456789")
	require.NoError(t, err)
	d.SetAttribute(2, 5, "a")
	d.SetAttribute(6, 9, "b")

	require.NoError(t, d.Insert(0, "XXXXX"))

	got := d.Attributes().FindOverlap(0, d.CharLen()).Collect()
	require.Len(t, got, 2)
}
