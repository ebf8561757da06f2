package layout

import "testing"

type fakeWidget struct {
	x, y, w, h   int
	prefW, prefH int
	visible      bool
	level        int
}

func (f *fakeWidget) Geometry() (int, int, int, int) { return f.x, f.y, f.w, f.h }
func (f *fakeWidget) SetGeometry(x, y, w, h int)      { f.x, f.y, f.w, f.h = x, y, w, h }
func (f *fakeWidget) PreferSize() (int, int)          { return f.prefW, f.prefH }
func (f *fakeWidget) Visible() bool                   { return f.visible }
func (f *fakeWidget) SetVisible(v bool)               { f.visible = v }
func (f *fakeWidget) Level() int                      { return f.level }

func newFake(prefW int) *fakeWidget { return &fakeWidget{prefW: prefW, visible: true} }

func TestHBoxEqualSplitWhenNoPreference(t *testing.T) {
	a, b, c := newFake(0), newFake(0), newFake(0)
	box := HBox(a, b, c)
	box.Apply(0, 0, 30, 10)

	for _, w := range []*fakeWidget{a, b, c} {
		if w.w != 10 || w.h != 10 {
			t.Errorf("child geometry = %dx%d, want 10x10", w.w, w.h)
		}
	}
	if a.x != 0 || b.x != 10 || c.x != 20 {
		t.Errorf("offsets = %d,%d,%d, want 0,10,20", a.x, b.x, c.x)
	}
}

func TestHBoxRedistributesSurplusToNeedyChild(t *testing.T) {
	small := newFake(5)
	needy := newFake(50)
	box := HBox(small, needy)
	box.Apply(0, 0, 40, 5)

	if small.w != 5 {
		t.Errorf("small.w = %d, want 5 (only what it prefers)", small.w)
	}
	if needy.w != 35 {
		t.Errorf("needy.w = %d, want 35 (equal share plus all surplus)", needy.w)
	}
}

func TestHBoxSkipsInvisibleChildren(t *testing.T) {
	shown := newFake(0)
	hidden := newFake(0)
	hidden.SetVisible(false)
	box := HBox(shown, hidden)
	box.Apply(0, 0, 20, 5)

	if shown.w != 20 {
		t.Errorf("shown.w = %d, want 20 (hidden child excluded)", shown.w)
	}
	if hidden.w != 0 {
		t.Errorf("hidden.w = %d, want untouched (0)", hidden.w)
	}
}

func TestVBoxDistributesHeight(t *testing.T) {
	a, b := newFake(0), newFake(0)
	box := VBox(a, b)
	box.Apply(0, 0, 10, 20)

	if a.h != 10 || b.h != 10 {
		t.Errorf("heights = %d,%d, want 10,10", a.h, b.h)
	}
	if a.w != 10 || b.w != 10 {
		t.Errorf("widths = %d,%d, want 10,10 (full cross-axis)", a.w, b.w)
	}
	if a.y != 0 || b.y != 10 {
		t.Errorf("offsets = %d,%d, want 0,10", a.y, b.y)
	}
}

func TestFocusRingCyclesAndWraps(t *testing.T) {
	a, b, c := newFake(0), newFake(0), newFake(0)
	ring := NewFocusRing(a, b, c)

	if ring.Current() != a {
		t.Fatal("initial focus should be the first member")
	}
	if ring.Next() != b {
		t.Fatal("Next() should move to second member")
	}
	ring.Next()
	if ring.Next() != a {
		t.Fatal("Next() should wrap around to first member")
	}
	if ring.Prev() != c {
		t.Fatal("Prev() from first member should wrap to last")
	}
}

func TestFocusRingRemove(t *testing.T) {
	a, b := newFake(0), newFake(0)
	ring := NewFocusRing(a, b)
	ring.Set(b)
	ring.Remove(b)
	if ring.Current() != a {
		t.Fatal("removing the focused member should leave a valid focus")
	}
}

func TestOverlayOpenClose(t *testing.T) {
	o := NewOverlay(5)
	if o.Visible() {
		t.Fatal("overlay should start hidden")
	}
	o.Open(1, 2, 10, 4)
	if !o.Visible() {
		t.Fatal("Open should make overlay visible")
	}
	x, y, w, h := o.Geometry()
	if x != 1 || y != 2 || w != 10 || h != 4 {
		t.Errorf("geometry = %d,%d,%d,%d, want 1,2,10,4", x, y, w, h)
	}
	o.Close()
	if o.Visible() {
		t.Fatal("Close should hide overlay")
	}
}
