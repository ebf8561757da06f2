package editor

import (
	"github.com/gdamore/tcell"

	"github.com/tleino/vtsh/internal/buffer"
	"github.com/tleino/vtsh/internal/keys"
	"github.com/tleino/vtsh/internal/utf8scan"
)

// lineText returns row's bytes as a string, used both for Submit and for
// Exec upcalls.
func (v *View) lineText(row int) string {
	b, _ := v.Buf.U8StrAt(row)
	return string(b)
}

// HandleKey dispatches ev per the input bindings table (spec.md §4.4.4).
// It returns whether the key was handled. A prompt child, if open, gets
// first refusal.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	if v.Prompt != nil {
		if v.handlePromptKey(ev) {
			return true
		}
	}

	k := keys.Of(ev)

	if v.xOn {
		v.xOn = false
		switch k {
		case keys.Ctrl(tcell.KeyCtrlG):
			v.OpenPrompt(Goto)
			return true
		case keys.Ctrl(tcell.KeyCtrlS):
			// Bubble up: the enclosing panel list handles save.
			return false
		}
		return true
	}

	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(^tcell.ModShift) == 0 {
		v.resetPreferredCol()
		v.insertRune(ev.Rune())
		return true
	}

	switch k {
	case keys.Plain(tcell.KeyEnter):
		v.resetPreferredCol()
		if v.Submit != nil {
			v.Submit(v.lineText(v.Cur.Row))
		} else {
			v.Buf.Insert(v.Cur, []byte{'\n'})
			v.ScrollIntoView(v.Cur.Row, 0)
		}
	case keys.Plain(tcell.KeyBackspace), keys.Plain(tcell.KeyBackspace2):
		v.resetPreferredCol()
		v.Buf.Erase(v.Cur)
		v.ScrollIntoView(v.Cur.Row, v.OffsetFromPos(v.Cur.Row, v.Cur.Offset))
	case keys.Ctrl(tcell.KeyCtrlD):
		v.resetPreferredCol()
		v.Buf.DeleteChar(v.Cur)
	case keys.Plain(tcell.KeyLeft), keys.Ctrl(tcell.KeyCtrlB):
		v.resetPreferredCol()
		v.moveCols(-1)
	case keys.Plain(tcell.KeyRight), keys.Ctrl(tcell.KeyCtrlF):
		v.resetPreferredCol()
		v.moveCols(1)
	case shiftKey(tcell.KeyLeft):
		v.resetPreferredCol()
		v.moveCols(-shiftStep)
	case shiftKey(tcell.KeyRight):
		v.resetPreferredCol()
		v.moveCols(shiftStep)
	case keys.Plain(tcell.KeyUp), keys.Ctrl(tcell.KeyCtrlP):
		v.moveRows(-1)
	case keys.Plain(tcell.KeyDown), keys.Ctrl(tcell.KeyCtrlN):
		v.moveRows(1)
	case shiftKey(tcell.KeyUp):
		v.moveRows(-shiftStep)
	case shiftKey(tcell.KeyDown):
		v.moveRows(shiftStep)
	case keys.Plain(tcell.KeyPgUp), keys.Plain(tcell.KeyPgDn):
		v.resetPreferredCol()
		v.pageScroll(k == keys.Plain(tcell.KeyPgDn))
	case keys.Ctrl(tcell.KeyCtrlA):
		v.resetPreferredCol()
		v.Buf.SetCursor(v.Cur, v.Cur.Row, 0)
	case keys.Ctrl(tcell.KeyCtrlE):
		v.resetPreferredCol()
		v.Buf.SetCursor(v.Cur, v.Cur.Row, v.Buf.BytesAt(v.Cur.Row))
	case keys.Ctrl(tcell.KeyCtrlK):
		v.resetPreferredCol()
		if v.Buf.BytesAt(v.Cur.Row) == 0 {
			v.Buf.RemoveRow(v.Cur.Row)
		} else {
			v.Buf.EraseEOL(v.Cur)
		}
	case keys.Ctrl(tcell.KeyCtrlO):
		v.resetPreferredCol()
		row, offset := v.Cur.Row, v.Cur.Offset
		v.Buf.Insert(v.Cur, []byte{'\n'})
		v.Buf.SetCursor(v.Cur, row, offset)
	case keys.Ctrl(tcell.KeyCtrlL):
		v.resetPreferredCol()
		v.Recenter()
	case keys.Ctrl(tcell.KeyCtrlS):
		v.resetPreferredCol()
		v.OpenPrompt(FSearch)
	case keys.Ctrl(tcell.KeyCtrlR):
		v.resetPreferredCol()
		v.OpenPrompt(RSearch)
	case keys.Plain(tcell.KeyCtrlX), keys.Ctrl(tcell.KeyCtrlX):
		v.xOn = true
	default:
		return false
	}
	return true
}

func shiftKey(base tcell.Key) keys.Key {
	return keys.Key(tcell.ModShift)<<16 + keys.Key(base)
}

func (v *View) insertRune(r rune) {
	var buf [4]byte
	n := encodeRune(buf[:], r)
	v.Buf.Insert(v.Cur, buf[:n])
	v.ScrollIntoView(v.Cur.Row, v.OffsetFromPos(v.Cur.Row, v.Cur.Offset))
}

func encodeRune(dst []byte, r rune) int {
	if r < 0x80 {
		dst[0] = byte(r)
		return 1
	}
	n := copy(dst, string(r))
	return n
}

func (v *View) resetPreferredCol() {
	v.preferredColSet = false
}

func (v *View) moveCols(n int) {
	v.Buf.UpdateCursor(v.Cur, 0, n)
	v.ScrollIntoView(v.Cur.Row, v.OffsetFromPos(v.Cur.Row, v.Cur.Offset))
}

// moveRows moves the cursor n rows, preserving the preferred column
// across a run of consecutive vertical moves (captured on the first
// Up/Down, reset by any other key per spec.md §4.4.4).
func (v *View) moveRows(n int) {
	if !v.preferredColSet {
		v.preferredCol = v.OffsetFromPos(v.Cur.Row, v.Cur.Offset)
		v.preferredColSet = true
	}
	row := v.Cur.Row + n
	if row < 0 {
		row = 0
	}
	if max := v.Buf.Rows() - 1; row > max {
		row = max
	}
	offset := v.PosFromOffset(row, v.preferredCol)
	v.Buf.SetCursor(v.Cur, row, offset)
	v.ScrollIntoView(v.Cur.Row, v.preferredCol)
}

// pageScroll implements PageUp/PageDown's "snap to edge, then advance a
// page" rule: the first press within a page aligns the view to the top
// or bottom of the current page; the second press advances a full page.
func (v *View) pageScroll(down bool) {
	if down {
		if v.Cur.Row < v.bottomRow() {
			v.Buf.SetCursor(v.Cur, v.bottomRow(), 0)
		} else {
			v.topRow += v.height
			v.Buf.SetCursor(v.Cur, v.topRow, 0)
		}
	} else {
		if v.Cur.Row > v.topRow {
			v.Buf.SetCursor(v.Cur, v.topRow, 0)
		} else {
			v.topRow -= v.height
			if v.topRow < 0 {
				v.topRow = 0
			}
			v.Buf.SetCursor(v.Cur, v.topRow, 0)
		}
	}
	v.needExpose = true
	v.exposeFrom, v.exposeTo = 0, v.height-1
}

// HandleMouse implements mouse button 1 (move cursor), button 3 (Exec
// upcall with the row's text), and wheel up/down (page scroll).
func (v *View) HandleMouse(x, y int, buttons tcell.ButtonMask) bool {
	switch {
	case buttons&tcell.WheelUp != 0:
		v.pageScroll(false)
		return true
	case buttons&tcell.WheelDown != 0:
		v.pageScroll(true)
		return true
	case buttons&tcell.Button1 != 0:
		row := v.topRow + y
		offset := v.PosFromOffset(row, x+v.beginCol)
		v.Buf.SetCursor(v.Cur, row, offset)
		v.resetPreferredCol()
		return true
	case buttons&tcell.Button3 != 0:
		row := v.topRow + y
		if v.Exec != nil {
			v.Exec(v.lineText(row))
		}
		return true
	}
	return false
}

// OpenPrompt creates and focuses a single-line prompt child in mode.
func (v *View) OpenPrompt(mode PromptMode) {
	p := New(buffer.New(), v.width, 1)
	p.promptMode = mode
	p.Submit = func(text string) {
		v.dispatchPrompt(mode, text)
		v.closePrompt()
	}
	v.Prompt = p
}

func (v *View) closePrompt() {
	if v.Prompt == nil {
		return
	}
	v.Prompt.Close()
	v.Prompt = nil
}

func (v *View) handlePromptKey(ev *tcell.EventKey) bool {
	if keys.Of(ev) == keys.Ctrl(tcell.KeyCtrlG) {
		v.closePrompt()
		return true
	}
	return v.Prompt.HandleKey(ev)
}

func (v *View) dispatchPrompt(mode PromptMode, text string) {
	switch mode {
	case Goto:
		v.gotoLine(text)
	case FSearch:
		v.search(text, true)
	case RSearch:
		v.search(text, false)
	}
}

func (v *View) gotoLine(text string) {
	n := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			return
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		n = 1
	}
	rows := v.Buf.Rows()
	if n > rows {
		n = rows
	}
	v.Buf.SetCursor(v.Cur, n-1, 0)
	v.ScrollIntoView(v.Cur.Row, 0)
}

func (v *View) search(needle string, forward bool) {
	if needle == "" {
		return
	}
	n := v.Buf.Rows()
	startRow := v.Cur.Row

	try := func(row int) bool {
		offset := 0
		if row == startRow && forward {
			offset = v.Cur.Offset
			if b, ok := v.Buf.U8StrAt(row); ok {
				utf8scan.Incr(b, &offset, nil)
			}
		}
		if v.Buf.Match(row, []byte(needle), &offset) {
			v.Buf.SetCursor(v.Cur, row, offset+len(needle))
			v.ScrollIntoView(v.Cur.Row, v.OffsetFromPos(v.Cur.Row, v.Cur.Offset))
			return true
		}
		return false
	}

	if forward {
		for row := startRow; row < n; row++ {
			if try(row) {
				return
			}
		}
		for row := 0; row <= startRow; row++ {
			if try(row) {
				return
			}
		}
	} else {
		for row := startRow - 1; row >= 0; row-- {
			if try(row) {
				return
			}
		}
		for row := n - 1; row > startRow; row-- {
			if try(row) {
				return
			}
		}
	}
}
