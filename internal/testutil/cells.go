// Package testutil provides golden-style assertions against a tcell
// simulation screen, shared by every package that draws through
// internal/screen.
package testutil

import (
	"strings"

	"github.com/gdamore/tcell"
)

// SimCellsGetter is satisfied by tcell.SimulationScreen.
type SimCellsGetter interface {
	GetContents() (cells []tcell.SimCell, width, height int)
}

// CellsToString renders sim's current contents as a newline-separated
// grid of strings, trimming trailing blank cells from each row.
func CellsToString(sim SimCellsGetter) string {
	cells, w, _ := sim.GetContents()
	s := ""
	for len(cells) > 0 {
		n := w
		if n > len(cells) {
			n = len(cells)
		}
		row, rest := cells[:n], cells[n:]
		cells = rest
		for n > 0 && len(row[n-1].Bytes) == 0 {
			n--
		}
		row = row[:n]
		for _, c := range row {
			s += string(c.Bytes)
		}
		s += "\n"
	}
	return strings.TrimRight(s, "\n") + "\n"
}
