// Package screen provides the clipped drawing surface every widget draws
// through, ported from up.go's Region/TuiRegion.
package screen

import "github.com/gdamore/tcell"

// Region is a rectangular, origin-relative view onto a tcell.Screen: cells
// set outside [0,W)x[0,H) are silently dropped, so a widget never needs to
// clip its own drawing.
type Region struct {
	W, H    int
	SetCell func(x, y int, style tcell.Style, ch rune)
}

// TuiRegion returns a Region at (x, y) of size (w, h) on tui. If
// noColors is true every style is forced to tcell.StyleDefault.
func TuiRegion(tui tcell.Screen, x, y, w, h int, noColors bool) Region {
	return Region{
		W: w, H: h,
		SetCell: func(dx, dy int, style tcell.Style, ch rune) {
			if dx >= 0 && dx < w && dy >= 0 && dy < h {
				if noColors {
					style = tcell.StyleDefault
				}
				tui.SetCell(x+dx, y+dy, style, ch)
			}
		},
	}
}

// DrawText draws text starting at column 0 of row 0 of region in style.
func DrawText(region Region, style tcell.Style, text string) {
	x := 0
	for _, ch := range text {
		region.SetCell(x, 0, style, ch)
		x++
	}
}
