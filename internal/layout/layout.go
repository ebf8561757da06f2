// Package layout implements vtsh's widget geometry: an hbox/vbox
// surplus-distribution algorithm ported from the toolkit's layout.c, plus
// focus-level cycling and a transient overlay widget for the context
// menu. The original divided X11 pixels along one axis; the tcell
// reinterpretation (SPEC_FULL.md §1) divides terminal columns or rows
// instead, one cell per unit, so the same integer arithmetic applies
// unchanged.
package layout

// Widget is the capability contract every drawable panel, layout, and
// overlay implements: its current and preferred geometry, visibility, and
// a focus level used by FocusRing.
type Widget interface {
	Geometry() (x, y, w, h int)
	SetGeometry(x, y, w, h int)
	PreferSize() (w, h int)
	Visible() bool
	SetVisible(bool)
	// Level groups widgets for focus cycling: 0 is the outermost
	// (panel-to-panel) level, 1 the next (cmdline vs typescript within
	// a panel), and so on. FocusRing itself does not filter by level: it
	// cycles over exactly the members it was given.
	Level() int
}

// Axis selects which dimension a box layout distributes along.
type Axis int

const (
	// Horizontal distributes width; every child gets the box's full
	// height.
	Horizontal Axis = iota
	// Vertical distributes height; every child gets the box's full
	// width.
	Vertical
)

// Box lays out its children along one axis using the toolkit's
// surplus-distribution rule: start from an equal share per visible
// child, then iteratively redistribute the slack freed by children whose
// preferred size is smaller than the equal share to children that need
// more, until no surplus remains or nobody needs it.
type Box struct {
	Axis     Axis
	Children []Widget
}

// HBox returns a Box distributing width.
func HBox(children ...Widget) *Box { return &Box{Axis: Horizontal, Children: children} }

// VBox returns a Box distributing height.
func VBox(children ...Widget) *Box { return &Box{Axis: Vertical, Children: children} }

// Apply computes and assigns geometry for every visible child within the
// rectangle (x, y, w, h), following layout.c's layout_update_geometry.
func (b *Box) Apply(x, y, w, h int) {
	var visible []Widget
	for _, c := range b.Children {
		if c.Visible() {
			visible = append(visible, c)
		}
	}
	n := len(visible)
	if n == 0 {
		return
	}

	along := w
	if b.Axis == Vertical {
		along = h
	}

	prefer := make([]int, n)
	for i, c := range visible {
		pw, ph := c.PreferSize()
		if b.Axis == Horizontal {
			prefer[i] = pw
		} else {
			prefer[i] = ph
		}
	}

	equal := float64(along) / float64(n)
	sides := make([]float64, n)
	surplus := 0.0
	nNeed := 0
	for i := range visible {
		p := float64(prefer[i])
		if prefer[i] == 0 {
			// No preference: take exactly the equal share.
			p = equal
		}
		if p < equal {
			surplus += equal - p
		} else if p > equal {
			nNeed++
		}
		sides[i] = minF(equal, p)
	}

	for nNeed > 0 {
		equalSurplus := surplus / float64(nNeed)
		if equalSurplus == 0 {
			break
		}
		for i := range visible {
			p := float64(prefer[i])
			d := maxF(p-sides[i], 0)
			if d > 0 {
				add := minF(equalSurplus, d)
				sides[i] += add
				surplus -= add
				d = maxF(p-sides[i], 0)
				if d == 0 {
					nNeed--
				}
			}
		}
	}

	offset := 0
	for i, c := range visible {
		side := int(sides[i])
		if b.Axis == Horizontal {
			c.SetGeometry(x+offset, y, side, h)
		} else {
			c.SetGeometry(x, y+offset, w, side)
		}
		offset += side
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// FocusRing cycles focus among the widgets of one level, matching the
// toolkit's widget_focus_prev/widget_focus_next.
type FocusRing struct {
	members []Widget
	current int
}

// NewFocusRing returns a ring over members, focused on the first one.
func NewFocusRing(members ...Widget) *FocusRing {
	return &FocusRing{members: members}
}

// Current returns the focused widget, or nil if the ring is empty.
func (f *FocusRing) Current() Widget {
	if len(f.members) == 0 {
		return nil
	}
	return f.members[f.current]
}

// Next advances focus to the next member, wrapping around.
func (f *FocusRing) Next() Widget {
	if len(f.members) == 0 {
		return nil
	}
	f.current = (f.current + 1) % len(f.members)
	return f.Current()
}

// Prev moves focus to the previous member, wrapping around.
func (f *FocusRing) Prev() Widget {
	if len(f.members) == 0 {
		return nil
	}
	f.current = (f.current - 1 + len(f.members)) % len(f.members)
	return f.Current()
}

// Set focuses w if it is a member of the ring, returning whether it was
// found.
func (f *FocusRing) Set(w Widget) bool {
	for i, m := range f.members {
		if m == w {
			f.current = i
			return true
		}
	}
	return false
}

// Remove drops w from the ring, adjusting the current index so focus
// stays valid.
func (f *FocusRing) Remove(w Widget) {
	for i, m := range f.members {
		if m == w {
			f.members = append(f.members[:i], f.members[i+1:]...)
			if f.current >= len(f.members) && f.current > 0 {
				f.current--
			}
			return
		}
	}
}

// Overlay is a transient, floating widget drawn above the normal layout
// tree — vtsh's context menu is one. Unlike Box's children, an overlay
// does not participate in surplus distribution: its geometry is set
// directly by whoever opens it (typically anchored near a cursor or
// click position) and it is closed by being hidden again.
type Overlay struct {
	x, y, w, h int
	visible    bool
	level      int
}

// NewOverlay returns a hidden overlay at level, which should sit above
// every panel's own focus levels so it captures input while open.
func NewOverlay(level int) *Overlay {
	return &Overlay{level: level}
}

func (o *Overlay) Geometry() (x, y, w, h int)   { return o.x, o.y, o.w, o.h }
func (o *Overlay) SetGeometry(x, y, w, h int)   { o.x, o.y, o.w, o.h = x, y, w, h }
func (o *Overlay) PreferSize() (w, h int)       { return o.w, o.h }
func (o *Overlay) Visible() bool                { return o.visible }
func (o *Overlay) SetVisible(v bool)            { o.visible = v }
func (o *Overlay) Level() int                   { return o.level }

// Open shows the overlay anchored at (x, y) with size (w, h).
func (o *Overlay) Open(x, y, w, h int) {
	o.SetGeometry(x, y, w, h)
	o.visible = true
}

// Close hides the overlay.
func (o *Overlay) Close() {
	o.visible = false
}
