package editor

import (
	"github.com/gdamore/tcell"

	"github.com/tleino/vtsh/internal/palette"
	"github.com/tleino/vtsh/internal/screen"
)

// rowPrinter accumulates cells for one screen row, drawing overflow
// markers («/») the way up.go's RowView does, and substituting control
// characters and errors per the display rules.
type rowPrinter struct {
	region screen.Region
	y      int
	style  tcell.Style
	w      int

	x            int
	overflowLeft bool
	lastW        int
}

func newRowPrinter(region screen.Region, y int, beginCol int, style tcell.Style) *rowPrinter {
	return &rowPrinter{region: region, y: y, style: style, w: region.W, x: -beginCol, lastW: 1}
}

func (p *rowPrinter) put(ch rune, w int, style tcell.Style) {
	switch {
	case p.overflowLeft && p.x == 0, p.x < 0 && p.x+w > 0:
		p.fill('«', p.x+w)
	case p.x < 0:
		p.overflowLeft = true
	case p.x == p.w:
		p.fillAt(p.x-p.lastW, '»', p.lastW)
	case p.x < p.w && p.x+w > p.w:
		p.fillAt(p.x, '»', p.w-p.x)
	default:
		p.region.SetCell(p.x, p.y, style, ch)
	}
	p.x += w
	p.lastW = w
}

func (p *rowPrinter) fill(ch rune, w int) {
	p.fillAt(0, ch, w)
}

func (p *rowPrinter) fillAt(x0 int, ch rune, w int) {
	for i := 0; i < w; i++ {
		x := x0 + i
		if x >= 0 && x < p.w {
			p.region.SetCell(x, p.y, p.style, ch)
		}
	}
}

func (p *rowPrinter) endLine() {
	xStart := p.x
	if xStart < 0 {
		xStart = 0
	}
	if xStart == 0 && p.overflowLeft {
		p.region.SetCell(0, p.y, p.style, '«')
		xStart++
	}
	for x := xStart; x < p.w; x++ {
		p.region.SetCell(x, p.y, p.style, ' ')
	}
}

// DrawTo renders the viewport into region and reports where the cursor
// should be placed on screen via setCursor (nil if the view isn't
// focused and shouldn't show a hardware cursor).
func (v *View) DrawTo(region screen.Region, setCursor func(x, y int)) {
	n := v.Buf.Rows()
	cursorStyle := palette.Style(palette.Focused)
	ocurStyle := palette.Style(palette.Selection)

	for y := 0; y < v.height; y++ {
		row := v.topRow + y
		p := newRowPrinter(region, y, v.beginCol, v.style)
		if row >= n {
			p.endLine()
			continue
		}

		offset := 0
		for {
			chunk, errFlag, ok := v.Buf.U8StrBreak(row, &offset)
			if !ok {
				break
			}
			r, isCtrl := substitute(chunk, errFlag)
			w := cellWidth(chunk, errFlag, p.x+v.beginCol)
			style := v.style
			if isCtrl {
				style = v.style.Reverse(true)
			}
			if v.Cur.Row == row && v.Cur.Offset == offset-len(chunk) {
				style = cursorStyle
			} else if v.OCur != nil && v.OCur.Row == row && v.OCur.Offset == offset-len(chunk) {
				style = ocurStyle
			}
			if v.Buf.HasMark() && v.Buf.IsMarked(row, offset-len(chunk), v.Cur.Row, v.Cur.Offset) {
				style = palette.Style(palette.Selection)
			}
			p.put(r, w, style)
		}
		if v.Cur.Row == row && v.Cur.Offset == v.Buf.BytesAt(row) {
			p.put(' ', 1, cursorStyle)
		}
		p.endLine()
	}

	if setCursor != nil {
		x := v.OffsetFromPos(v.Cur.Row, v.Cur.Offset) - v.beginCol
		y := v.Cur.Row - v.topRow
		setCursor(x, y)
	}

	v.clearExpose()
}
