// Package textwidth measures on-screen column widths and expands tabs to
// a fixed tab stop, the same arithmetic every editor view in vtsh needs to
// turn a byte stream into cells on a row.
package textwidth

import "github.com/mattn/go-runewidth"

// TabWidth is the fixed tab stop every view expands against. The X11
// original's space_width == 1 means "one pixel per column" in vtsh's
// terminal-cell reinterpretation (§1), so tab stops are plain column
// counts rather than pixel measurements.
const TabWidth = 8

// RuneWidth returns ch's column width, floored at 1 so a zero-width or
// combining rune still occupies a cell (mirrors up.go's RowView, which
// never lets a glyph claim zero columns).
func RuneWidth(ch rune) int {
	if w := runewidth.RuneWidth(ch); w > 0 {
		return w
	}
	return 1
}

// Expander turns a rune stream into a tab-expanded one: every '\t' becomes
// enough spaces to reach the next multiple of TabWidth columns, tracking
// column position so consecutive tabs and wide runes interact correctly.
// The zero value starts at column 0.
type Expander struct {
	x int // negative: remaining expanded spaces owed for a pending tab
}

// Next consumes one rune from the underlying stream's perspective and
// returns what should be printed in its place: for a tab, a single space
// (call Next again to drain the rest of the tab stop); for anything else,
// the rune unchanged. Col returns the column Next will resume from.
func (e *Expander) Next(r rune) (out rune, more bool) {
	if e.x < 0 {
		e.x++
		return ' ', e.x < 0
	}

	switch r {
	case '\n', '\r':
		e.x = 0
		return r, false
	case '\t':
		// This call emits the first space; the rest are owed.
		e.x -= TabWidth - 1
		if e.x < 0 {
			return ' ', true
		}
		return ' ', false
	default:
		w := RuneWidth(r)
		e.x = (e.x + w) % TabWidth
		return r, false
	}
}

// Col reports the expander's current column modulo TabWidth; while a tab
// is still being drained it reports 0.
func (e *Expander) Col() int {
	if e.x < 0 {
		return 0
	}
	return e.x
}

// ExpandTabs expands every tab in s to spaces at TabWidth stops, starting
// at column 0. It is the non-streaming convenience form of Expander, for
// expanding a whole row at once.
func ExpandTabs(s string) string {
	var out []rune
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := TabWidth - col%TabWidth
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
		case '\n', '\r':
			out = append(out, r)
			col = 0
		default:
			out = append(out, r)
			col += RuneWidth(r)
		}
	}
	return string(out)
}

// StringWidth returns the total column width of s after tab expansion.
func StringWidth(s string) int {
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			col += TabWidth - col%TabWidth
		case '\n', '\r':
			col = 0
		default:
			col += RuneWidth(r)
		}
	}
	return col
}
