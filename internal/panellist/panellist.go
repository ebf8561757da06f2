// Package panellist implements the panel list (C6): an ordered sequence
// of pty panels inside a vertical layout, focus-level cycling between a
// panel's command editor and its typescript. The chain of windows (one
// List per window) lives in cmd/vtsh. Grounded on original_source/ptylist.c's
// ptylist_add_pty/ptylist_close_pty/ptylist_keypress.
package panellist

import (
	"github.com/tleino/vtsh/internal/layout"
	"github.com/tleino/vtsh/internal/ptypanel"
)

// Level identifies which of a panel's two focusable widgets is active:
// LevelCmd (the command editor) or LevelTypescript.
type Level int

const (
	LevelCmd Level = iota
	LevelTypescript
)

// List is an ordered sequence of panels, plus the focus-level cycling
// state that Alt-Up/Alt-Down traverses.
type List struct {
	Shell  []string
	Width  int
	Height int

	panels []*ptypanel.Panel
	focus  int
	level  Level

	seq int
}

// New returns a panel list with one panel already added, matching
// ptylist_create's implicit first ptylist_add_pty(ptylist, NULL) call.
func New(shell []string, width, height int) *List {
	l := &List{Shell: shell, Width: width, Height: height}
	l.Add(nil)
	return l
}

// Focused returns the currently focused panel, or nil if the list is
// empty.
func (l *List) Focused() *ptypanel.Panel {
	if len(l.panels) == 0 {
		return nil
	}
	return l.panels[l.focus]
}

// Level reports the current focus level (cmd editor vs typescript).
func (l *List) Level() Level { return l.level }

// ToggleLevel swaps between the cmd-editor and typescript focus levels,
// per spec.md §4.6's Escape/Enter-at-panel-list-scope rule.
func (l *List) ToggleLevel() {
	if l.level == LevelCmd {
		l.level = LevelTypescript
	} else {
		l.level = LevelCmd
	}
}

// Add inserts a new panel after the focused one (or at the end if
// nothing is focused), focuses it, and registers it as master's slave if
// master is non-nil. It increments the list's sequence counter, but the
// panel itself carries no sequence id.
func (l *List) Add(master *ptypanel.Panel) *ptypanel.Panel {
	l.seq++
	p := ptypanel.New(l.Shell, l.Width, l.Height)

	at := len(l.panels)
	if len(l.panels) > 0 {
		at = l.focus + 1
	}
	l.panels = append(l.panels, nil)
	copy(l.panels[at+1:], l.panels[at:])
	l.panels[at] = p
	l.focus = at

	if master != nil {
		master.AddSlave(p)
	}
	return p
}

// Close removes panel from the list, first moving focus to an adjacent
// panel at the current level (previous, then next). If no adjacent
// panel exists, the close is refused and it returns false.
func (l *List) Close(panel *ptypanel.Panel) bool {
	idx := l.indexOf(panel)
	if idx < 0 {
		return false
	}

	switch {
	case len(l.panels) == 1:
		return false
	case idx > 0:
		l.focus = idx - 1
	default:
		l.focus = idx + 1
	}

	panel.Close()
	l.panels = append(l.panels[:idx], l.panels[idx+1:]...)
	if l.focus > idx {
		l.focus--
	}
	if l.focus >= len(l.panels) {
		l.focus = len(l.panels) - 1
	}
	return true
}

func (l *List) indexOf(panel *ptypanel.Panel) int {
	for i, p := range l.panels {
		if p == panel {
			return i
		}
	}
	return -1
}

// FocusNext moves focus to the next panel at the current level,
// wrapping around (Alt-Down).
func (l *List) FocusNext() {
	if len(l.panels) == 0 {
		return
	}
	l.focus = (l.focus + 1) % len(l.panels)
}

// FocusPrev moves focus to the previous panel at the current level,
// wrapping around (Alt-Up).
func (l *List) FocusPrev() {
	if len(l.panels) == 0 {
		return
	}
	l.focus = (l.focus - 1 + len(l.panels)) % len(l.panels)
}

// Panels returns the panel list in order, for layout and drawing.
func (l *List) Panels() []*ptypanel.Panel {
	return l.panels
}

// FocusPanel focuses panel (a mouse click target) and sets the current
// level to match which of its widgets was clicked.
func (l *List) FocusPanel(panel *ptypanel.Panel, level Level) {
	if idx := l.indexOf(panel); idx >= 0 {
		l.focus = idx
	}
	l.level = level
}

// ToggleTypescriptVisible hides or shows the focused panel's typescript
// (Alt-h).
func (l *List) ToggleTypescriptVisible() {
	p := l.Focused()
	if p == nil {
		return
	}
	p.TSView.SetVisible(!p.TSView.Visible())
}

// Box returns the vertical layout widget wrapping every panel, keyed to
// the toolkit's layout package (spec.md §6.2).
func (l *List) Box(widgets []layout.Widget) *layout.Box {
	return layout.VBox(widgets...)
}
