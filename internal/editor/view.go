// Package editor implements the editor view (C4): a scrollable,
// dual-cursor rendering of a buffer, its input bindings, and an optional
// single-line prompt child for goto-line and search. It generalizes
// up.go's Editor (single-line command editor) and BufView (scrolling
// output view) into one multi-row view that can act as either, since
// vtsh's cmdline and typescript editors are the same widget used two
// ways.
package editor

import (
	"github.com/gdamore/tcell"

	"github.com/tleino/vtsh/internal/buffer"
	"github.com/tleino/vtsh/internal/palette"
	"github.com/tleino/vtsh/internal/screen"
	"github.com/tleino/vtsh/internal/textwidth"
)

// PromptMode selects what a prompt child's submit does with its input.
type PromptMode int

const (
	// Goto parses the prompt's text as a 1-based line number.
	Goto PromptMode = iota
	// FSearch searches forward from the current row.
	FSearch
	// RSearch searches backward from the current row.
	RSearch
)

// GutterWidth is the fixed line-number gutter, carried over from the
// original's 100px fixed gutter reinterpreted as a column count (§1's
// toolkit substitution: 1 pixel == 1 column). It is 0: no gutter columns
// are reserved and no line numbers are drawn.
const GutterWidth = 0

const shiftStep = 8

// View renders rows of a buffer into a fixed-size viewport, tracks a
// primary cursor (Cur) and an optional secondary cursor (OCur, the
// "output cursor" used when a subprocess is writing into the same
// buffer concurrently with the user editing it), and owns viewport
// scroll state.
type View struct {
	Buf  *buffer.Buffer
	Cur  *buffer.Cursor
	OCur *buffer.Cursor

	x, y          int
	width, height int
	topRow        int
	beginCol      int

	preferredCol    int
	preferredColSet bool
	xOn             bool

	style       tcell.Style
	focused     bool
	visible     bool

	Prompt     *View
	promptMode PromptMode

	// Submit is called with the current line's text on Enter, if set
	// (the cmdline editor variant). If nil, Enter inserts '\n'.
	Submit func(string)
	// Exec is called with a row's full text on a mouse-3 click (the
	// typescript variant's "open file under cursor" upcall).
	Exec func(string)

	exposeFrom, exposeTo int
	needExpose            bool

	listener buffer.ListenerHandle
}

// New returns a view over buf sized (width, height), with Cur at (0, 0)
// and no output cursor. Call SetOutputCursor to add one.
func New(buf *buffer.Buffer, width, height int) *View {
	v := &View{
		Buf:     buf,
		Cur:     buf.NewCursor(),
		width:   width,
		height:  height,
		visible: true,
		style:   palette.Style(palette.Normal),
	}
	v.listener = buf.AddListener(v.onUpdate)
	return v
}

// SetOutputCursor gives the view a second cursor, used by panels whose
// buffer is also written to by a subprocess.
func (v *View) SetOutputCursor() {
	v.OCur = v.Buf.NewCursor()
}

// Close unregisters the view's buffer listener. Call it when the view is
// discarded so the buffer doesn't keep broadcasting into a dead view.
func (v *View) Close() {
	v.Buf.RemoveListener(v.listener)
}

// SetSize resizes the viewport.
func (v *View) SetSize(width, height int) {
	v.width, v.height = width, height
}

// Visible reports whether the view should be drawn and laid out.
func (v *View) Visible() bool { return v.visible }

// SetVisible toggles whether the view should be drawn and laid out
// (Alt-h hides a panel's typescript).
func (v *View) SetVisible(visible bool) { v.visible = visible }

// Geometry and PreferSize/SetGeometry/Level implement layout.Widget, so
// a View can be laid out directly by internal/layout's Box.
func (v *View) Geometry() (x, y, w, h int) { return v.x, v.y, v.width, v.height }
func (v *View) SetGeometry(x, y, w, h int) { v.x, v.y, v.width, v.height = x, y, w, h }
func (v *View) PreferSize() (w, h int)     { return v.width, v.height }
func (v *View) Level() int                 { return 0 }

// SetFocused toggles the focused/unfocused style.
func (v *View) SetFocused(f bool) {
	v.focused = f
	if f {
		v.style = palette.Style(palette.Focused)
	} else {
		v.style = palette.Style(palette.Normal)
	}
}

func (v *View) onUpdate(u buffer.Update) {
	if !v.needExpose {
		v.exposeFrom, v.exposeTo = u.FromRow, u.ToRow
	} else {
		if u.FromRow < v.exposeFrom {
			v.exposeFrom = u.FromRow
		}
		if u.ToRow > v.exposeTo {
			v.exposeTo = u.ToRow
		}
	}
	v.needExpose = true
}

// NeedsExpose reports whether the view has accumulated an unpainted
// band since the last DrawTo, and what that band is.
func (v *View) NeedsExpose() (from, to int, need bool) {
	return v.exposeFrom, v.exposeTo, v.needExpose
}

func (v *View) clearExpose() {
	v.needExpose = false
}

// bottomRow is the last fully- or partially-visible row given topRow.
func (v *View) bottomRow() int {
	return v.topRow + v.height - 1
}

// OffsetFromPos returns the leftmost column of the character at
// byteOffset on row, accounting for tab expansion and the display
// substitution rules (control chars/replacement chars occupy one cell).
func (v *View) OffsetFromPos(row, byteOffset int) int {
	if _, ok := v.Buf.U8StrAt(row); !ok {
		return 0
	}
	col := 0
	offset := 0
	for offset < byteOffset {
		chunk, errFlag, ok := v.Buf.U8StrBreak(row, &offset)
		if !ok {
			break
		}
		col += cellWidth(chunk, errFlag, col)
	}
	return col
}

// PosFromOffset is the inverse of OffsetFromPos: the byte offset of the
// character whose glyph strictly contains column px.
func (v *View) PosFromOffset(row, px int) int {
	col := 0
	offset := 0
	for {
		next := offset
		chunk, errFlag, ok := v.Buf.U8StrBreak(row, &next)
		if !ok {
			return offset
		}
		w := cellWidth(chunk, errFlag, col)
		if col+w > px {
			return offset
		}
		col += w
		offset = next
	}
}

func cellWidth(chunk []byte, errFlag bool, col int) int {
	if errFlag {
		return 1
	}
	if len(chunk) == 1 {
		ch := chunk[0]
		if ch == '\t' {
			return textwidth.TabWidth - col%textwidth.TabWidth
		}
		if ch < 0x20 || ch == 0x7f {
			return 1
		}
	}
	r := []rune(string(chunk))
	if len(r) == 0 {
		return 1
	}
	return textwidth.RuneWidth(r[0])
}

// substitute implements the display substitution rules of the spec: an
// error flag draws U+FFFD, a lone control byte other than TAB draws its
// caret notation, everything else passes through. It returns the rune to
// draw and whether it should use the control-char style.
func substitute(chunk []byte, errFlag bool) (r rune, isCtrl bool) {
	if errFlag {
		return 0xFFFD, false
	}
	if len(chunk) == 1 {
		ch := chunk[0]
		if ch == 0x7f {
			return '?', true
		}
		if ch < 0x20 && ch != '\t' {
			return rune(ch ^ 0x40), true
		}
	}
	rs := []rune(string(chunk))
	if len(rs) == 0 {
		return ' ', false
	}
	return rs[0], false
}

// ScrollIntoView adjusts topRow/beginCol so that (row, col) is visible,
// scrolling vertically by row and horizontally in half-viewport-width
// steps until the column is inside the viewport.
func (v *View) ScrollIntoView(row, col int) {
	if row < v.topRow {
		v.topRow = row
	} else if row > v.bottomRow() {
		v.topRow = row - v.height + 1
	}
	if v.topRow < 0 {
		v.topRow = 0
	}

	for col < v.beginCol {
		v.beginCol -= max(v.width/2, 1)
		if v.beginCol < 0 {
			v.beginCol = 0
		}
	}
	for col >= v.beginCol+v.width {
		v.beginCol += max(v.width/2, 1)
	}

	v.needExpose = true
	v.exposeFrom, v.exposeTo = 0, v.height-1
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Recenter scrolls so the cursor's row sits in the middle of the
// viewport (Ctrl+l).
func (v *View) Recenter() {
	v.topRow = v.Cur.Row - v.height/2
	if v.topRow < 0 {
		v.topRow = 0
	}
	v.needExpose = true
	v.exposeFrom, v.exposeTo = 0, v.height-1
}
