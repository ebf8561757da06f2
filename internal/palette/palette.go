// Package palette names the small, fixed set of styles vtsh's widgets
// draw with. The X11 original resolved named colors lazily through
// XAllocNamedColor (see original_source/color.c); tcell's named colors are
// already resolved constants, so this package just gives each role in the
// UI a name instead of a cache.
package palette

import "github.com/gdamore/tcell"

// Role identifies a drawing style by what it's used for, not by color, so
// a future theme only needs to change this table.
type Role int

const (
	// Normal is an unfocused panel's typescript and cmdline.
	Normal Role = iota
	// Focused is the currently-focused panel's typescript and cmdline.
	Focused
	// StatusBar is a panel's one-line status row.
	StatusBar
	// StatusBarFocused is the focused panel's status row.
	StatusBarFocused
	// Prompt is the goto/search prompt overlay.
	Prompt
	// Selection is marked (region) text.
	Selection
	// OverlayMenu is the context-menu overlay background.
	OverlayMenu
)

var table = map[Role]tcell.Style{
	Normal:           tcell.StyleDefault,
	Focused:          tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue),
	StatusBar:        tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	StatusBarFocused: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue),
	Prompt:           tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	Selection:        tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
	OverlayMenu:      tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorGray),
}

// Style returns the tcell.Style for role.
func Style(role Role) tcell.Style {
	return table[role]
}
