// Package cellwidth estimates terminal column width for a single codepoint.
// It is used only by the demo pager (cmd/docinspect); the document core
// never renders text and has no notion of display width.
//
// Width is computed per codepoint, not per grapheme cluster: clustering
// combining marks and emoji sequences into a single visible glyph is outside
// this module's scope.
package cellwidth

import (
	runewidth "github.com/mattn/go-runewidth"
)

// RuneWidth returns the display width in terminal cells of a single
// codepoint. Non-displayable characters are assigned a width of zero;
// full-width East Asian characters are assigned a width of two.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth sums RuneWidth over every codepoint in s. Tabs, like other
// control characters, count as zero cells; callers that need tab-stop
// expansion should do it before calling StringWidth.
func StringWidth(s string) int {
	width := 0
	for _, r := range s {
		width += RuneWidth(r)
	}
	return width
}
