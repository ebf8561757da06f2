package main

import (
	"log"

	"github.com/gdamore/tcell"

	"github.com/tleino/vtsh/internal/layout"
	"github.com/tleino/vtsh/internal/palette"
	"github.com/tleino/vtsh/internal/panellist"
	"github.com/tleino/vtsh/internal/ptypanel"
	"github.com/tleino/vtsh/internal/screen"
)

// tsRows is the preferred height of a panel's typescript editor when
// visible. layout.Box never gives a panel more than its preferred height;
// when the screen is too short for every panel, its surplus distribution
// decides how the available rows are split.
const tsRows = 8

// panelMsg is one chunk of subprocess output read off a panel's
// OutputCh, fanned in to the single goroutine that is allowed to mutate
// buffers (spec.md §5).
type panelMsg struct {
	panel *ptypanel.Panel
	data  []byte
}

// app owns the top-level event loop: the chain of windows (panel lists),
// the context menu PtyActionOpen pops, and the output fan-in that keeps
// every panel's typescript live regardless of which window is focused.
type app struct {
	tui      tcell.Screen
	shell    []string
	noColors bool

	windows []*panellist.List
	cur     *panellist.List

	watched map[chan []byte]bool
	outCh   chan panelMsg
	exitCh  chan *ptypanel.Panel

	menu     *layout.Overlay
	menuText string
}

func newApp(tui tcell.Screen, shell []string, noColors bool) *app {
	w, h := tui.Size()
	win := panellist.New(shell, w, h)

	a := &app{
		tui:      tui,
		shell:    shell,
		noColors: noColors,
		windows:  []*panellist.List{win},
		cur:      win,
		watched:  make(map[chan []byte]bool),
		outCh:    make(chan panelMsg, 16),
		exitCh:   make(chan *ptypanel.Panel, 8),
		menu:     layout.NewOverlay(2),
	}
	a.wireWindow(win)
	return a
}

// wirePanel gives p a PtyActionOpen upcall (mouse-3 on its typescript)
// that pops the context menu, and caps its typescript to the --buf
// limit, the two pieces of setup every panel needs regardless of
// whether it came from panellist.New or a later Add.
func (a *app) wirePanel(p *ptypanel.Panel) {
	p.MaxBytes = bufLimit()
	p.Exec = func(text string) {
		w, h := a.tui.Size()
		x, y := w/4, h/3
		a.menuText = text
		a.menu.Open(x, y, 12, 2)
	}
}

func (a *app) wireWindow(win *panellist.List) {
	for _, p := range win.Panels() {
		a.wirePanel(p)
	}
}

// newWindow opens a new top-level window (Alt-n) and focuses it.
func (a *app) newWindow() {
	w, h := a.tui.Size()
	win := panellist.New(a.shell, w, h)
	a.wireWindow(win)
	a.windows = append(a.windows, win)
	a.cur = win
}

// closeWindow closes win; if it was the last window, run's caller exits
// the program. This is the terminal-native substitute for the original's
// WM delete-window client message (there is no window manager here to
// send one).
func (a *app) closeWindow(win *panellist.List) (last bool) {
	for i, w := range a.windows {
		if w == win {
			a.windows = append(a.windows[:i], a.windows[i+1:]...)
			break
		}
	}
	if len(a.windows) == 0 {
		return true
	}
	a.cur = a.windows[len(a.windows)-1]
	return false
}

// ensureForwarders starts one reader goroutine per live OutputCh (i.e.
// per pty master) across every window, the Go re-expression of spec.md
// §5's one-reader-goroutine-per-fd model. A panel's OutputCh is replaced
// on every respawn, so this is safe to call every iteration: already-
// watched channels are a no-op map lookup.
func (a *app) ensureForwarders() {
	for _, win := range a.windows {
		for _, p := range win.Panels() {
			a.ensureForwarder(p)
		}
	}
}

func (a *app) ensureForwarder(p *ptypanel.Panel) {
	ch := p.OutputCh
	if a.watched[ch] {
		return
	}
	a.watched[ch] = true
	go func(p *ptypanel.Panel, ch chan []byte) {
		for data := range ch {
			a.outCh <- panelMsg{panel: p, data: data}
		}
		a.exitCh <- p
	}(p, ch)
}

// run is the top-level event loop: it multiplexes tcell input events
// against subprocess output and subprocess exit notifications, the only
// three kinds of external event the core reacts to (spec.md §5).
func (a *app) run() {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := a.tui.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		a.ensureForwarders()
		a.draw()

		select {
		case ev := <-events:
			if a.handleEvent(ev) {
				return
			}
		case msg := <-a.outCh:
			msg.panel.HandleOutput(msg.data)
		case p := <-a.exitCh:
			p.HandleExit()
		}
	}
}

// handleEvent dispatches one tcell event and reports whether the program
// should quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(e)
	case *tcell.EventMouse:
		a.handleMouse(e)
	case *tcell.EventResize:
		a.tui.Sync()
		w, h := a.tui.Size()
		for _, win := range a.windows {
			win.Width, win.Height = w, h
		}
	}
	return false
}

// altRune reports the rune ev carries if Alt is held and the key decoded
// as a plain rune, which is how tcell reports Alt+letter on most
// terminals.
func altRune(ev *tcell.EventKey) (rune, bool) {
	if ev.Modifiers()&tcell.ModAlt == 0 {
		return 0, false
	}
	if ev.Key() != tcell.KeyRune {
		return 0, false
	}
	return ev.Rune(), true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	if a.menu.Visible() {
		return a.handleMenuKey(ev)
	}

	win := a.cur
	p := win.Focused()
	if p == nil {
		return false
	}
	focused := p.CmdView
	if win.Level() == panellist.LevelTypescript {
		focused = p.TSView
	}

	if focused.HandleKey(ev) {
		return false
	}

	// Below this point the key bubbled up past the focused editor: it is
	// either a panel-list binding (spec.md §4.6) or a window-scope one.
	if ev.Key() == tcell.KeyEscape {
		win.ToggleLevel()
		return false
	}

	if r, ok := altRune(ev); ok {
		switch r {
		case ' ':
			a.wirePanel(win.Add(nil))
			return false
		case 's':
			a.wirePanel(win.Add(p))
			return false
		case 'h':
			win.ToggleTypescriptVisible()
			return false
		case 'H':
			for _, other := range win.Panels() {
				other.TSView.SetVisible(other == p)
			}
			return false
		case 'n':
			a.newWindow()
			return false
		}
	}

	if ev.Modifiers()&tcell.ModAlt != 0 {
		switch ev.Key() {
		case tcell.KeyInsert:
			a.wirePanel(win.Add(nil))
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDEL:
			win.Close(p)
			return false
		case tcell.KeyUp:
			win.FocusPrev()
			return false
		case tcell.KeyDown:
			win.FocusNext()
			return false
		case tcell.KeyEnter:
			win.ToggleLevel()
			return false
		}
	}

	switch ev.Key() {
	case tcell.KeyCtrlS:
		if err := p.Save(); err != nil {
			log.Printf("save: %v", err)
		}
		return false
	case tcell.KeyCtrlC:
		return a.closeWindow(win)
	}

	return false
}

func (a *app) handleMenuKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape {
		a.menu.Close()
	}
	return false
}

// handleMouse routes a click either to the open context menu or to the
// focused panel's editors, translating screen coordinates into each
// widget's local coordinate space via its current geometry.
func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()

	if a.menu.Visible() {
		mx, my, mw, mh := a.menu.Geometry()
		if x >= mx && x < mx+mw && y >= my && y < my+mh {
			if ev.Buttons()&tcell.Button1 != 0 {
				a.dispatchMenu(y - my)
			}
		} else if ev.Buttons() != 0 {
			a.menu.Close()
		}
		return
	}

	win := a.cur
	for _, p := range win.Panels() {
		if cx, cy, cw, ch := p.CmdView.Geometry(); x >= cx && x < cx+cw && y >= cy && y < cy+ch {
			win.FocusPanel(p, panellist.LevelCmd)
			p.CmdView.HandleMouse(x-cx, y-cy, ev.Buttons())
			return
		}
		if !p.TSView.Visible() {
			continue
		}
		if tx, ty, tw, th := p.TSView.Geometry(); x >= tx && x < tx+tw && y >= ty && y < ty+th {
			win.FocusPanel(p, panellist.LevelTypescript)
			p.TSView.HandleMouse(x-tx, y-ty, ev.Buttons())
			return
		}
	}
}

// dispatchMenu implements the two PtyActionOpen buttons: "open" wraps
// the clicked text as a `:PATH` cmdline and spawns a new panel running
// it; "exec" spawns a new panel running the text as a command directly.
func (a *app) dispatchMenu(row int) {
	text := a.menuText
	a.menu.Close()

	p := a.cur.Add(nil)
	a.wirePanel(p)
	switch row {
	case 0:
		p.CmdBuf.Insert(p.CmdView.Cur, []byte(":"+text))
	case 1:
		p.CmdBuf.Insert(p.CmdView.Cur, []byte(text))
	default:
		return
	}
	p.CmdView.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
}

// panelWidget adapts a ptypanel.Panel to layout.Widget so the window's
// panels can be laid out vertically by layout.Box, the same surplus-
// distribution algorithm internal/layout ports from
// original_source/layout.c.
type panelWidget struct {
	panel      *ptypanel.Panel
	x, y, w, h int
}

func (pw *panelWidget) Geometry() (x, y, w, h int) { return pw.x, pw.y, pw.w, pw.h }
func (pw *panelWidget) SetGeometry(x, y, w, h int) { pw.x, pw.y, pw.w, pw.h = x, y, w, h }
func (pw *panelWidget) PreferSize() (w, h int) {
	h = 2
	if pw.panel.TSView.Visible() {
		h += tsRows
	}
	return 0, h
}
func (pw *panelWidget) Visible() bool   { return true }
func (pw *panelWidget) SetVisible(bool) {}
func (pw *panelWidget) Level() int      { return 0 }

// draw lays out the focused window's panels top to bottom and paints
// each one's cmdline, status bar, and (if visible) typescript, then the
// context menu overlay on top if open.
func (a *app) draw() {
	w, h := a.tui.Size()
	win := a.cur
	panels := win.Panels()

	widgets := make([]layout.Widget, len(panels))
	pws := make([]*panelWidget, len(panels))
	for i, p := range panels {
		pw := &panelWidget{panel: p}
		widgets[i] = pw
		pws[i] = pw
	}
	box := layout.VBox(widgets...)
	box.Apply(0, 0, w, h)

	var cursorX, cursorY int
	haveCursor := false

	for i, p := range panels {
		pw := pws[i]
		focused := p == win.Focused()

		p.CmdView.SetFocused(focused && win.Level() == panellist.LevelCmd)
		p.CmdView.SetGeometry(pw.x, pw.y, w, 1)
		p.CmdView.SetSize(w, 1)
		cmdRegion := screen.TuiRegion(a.tui, pw.x, pw.y, w, 1, a.noColors)
		p.CmdView.DrawTo(cmdRegion, func(x, y int) {
			cursorX, cursorY = pw.x+x, pw.y+y
			haveCursor = focused && win.Level() == panellist.LevelCmd
		})

		statusStyle := palette.Style(palette.StatusBar)
		if focused {
			statusStyle = palette.Style(palette.StatusBarFocused)
		}
		statusRegion := screen.TuiRegion(a.tui, 0, pw.y+1, w, 1, a.noColors)
		screen.DrawText(statusRegion, statusStyle, statusText(p))

		if p.TSView.Visible() {
			tsH := pw.h - 2
			if tsH < 0 {
				tsH = 0
			}
			p.TSView.SetFocused(focused && win.Level() == panellist.LevelTypescript)
			p.TSView.SetGeometry(pw.x, pw.y+2, w, tsH)
			p.TSView.SetSize(w, tsH)
			tsRegion := screen.TuiRegion(a.tui, pw.x, pw.y+2, w, tsH, a.noColors)
			p.TSView.DrawTo(tsRegion, func(x, y int) {
				cursorX, cursorY = pw.x+x, pw.y+2+y
				haveCursor = focused && win.Level() == panellist.LevelTypescript
			})
		}
	}

	if a.menu.Visible() {
		mx, my, mw, mh := a.menu.Geometry()
		menuRegion := screen.TuiRegion(a.tui, mx, my, mw, mh, a.noColors)
		screen.DrawText(menuRegion, palette.Style(palette.OverlayMenu), "open")
		screen.DrawText(screen.TuiRegion(a.tui, mx, my+1, mw, 1, a.noColors), palette.Style(palette.OverlayMenu), "exec")
	} else if haveCursor {
		a.tui.ShowCursor(cursorX, cursorY)
	}

	a.tui.Show()
}
