package panellist

import "testing"

func TestNewHasOnePanel(t *testing.T) {
	l := New(nil, 80, 24)
	if len(l.Panels()) != 1 {
		t.Fatalf("Panels() = %d, want 1", len(l.Panels()))
	}
	if l.Focused() != l.Panels()[0] {
		t.Fatal("the sole panel should be focused")
	}
}

func TestAddInsertsAfterFocused(t *testing.T) {
	l := New(nil, 80, 24)
	first := l.Focused()
	second := l.Add(nil)

	panels := l.Panels()
	if len(panels) != 2 {
		t.Fatalf("Panels() = %d, want 2", len(panels))
	}
	if panels[0] != first || panels[1] != second {
		t.Fatal("new panel should be inserted after the focused one")
	}
	if l.Focused() != second {
		t.Fatal("Add should focus the new panel")
	}
}

func TestAddAsSlaveRegisters(t *testing.T) {
	l := New(nil, 80, 24)
	master := l.Focused()
	slave := l.Add(master)

	found := false
	for _, s := range master.Slaves() {
		if s == slave {
			found = true
		}
	}
	if !found {
		t.Fatal("Add(master) should register the new panel as master's slave")
	}
}

func TestCloseRefusedWhenOnlyPanel(t *testing.T) {
	l := New(nil, 80, 24)
	if l.Close(l.Focused()) {
		t.Fatal("closing the only panel should be refused")
	}
	if len(l.Panels()) != 1 {
		t.Fatal("panel should not have been removed")
	}
}

func TestCloseMovesFocusToPrevious(t *testing.T) {
	l := New(nil, 80, 24)
	first := l.Focused()
	second := l.Add(nil)
	third := l.Add(nil)
	_ = first

	l.Close(third)
	if l.Focused() != second {
		t.Fatalf("after closing the last panel, focus should move to the previous one")
	}
	if len(l.Panels()) != 2 {
		t.Fatalf("Panels() = %d, want 2", len(l.Panels()))
	}
}

func TestFocusNextPrevWraps(t *testing.T) {
	l := New(nil, 80, 24)
	a := l.Focused()
	b := l.Add(nil)

	l.FocusNext()
	if l.Focused() != a {
		t.Fatalf("FocusNext should wrap back to the first panel")
	}
	l.FocusPrev()
	if l.Focused() != b {
		t.Fatalf("FocusPrev should wrap to the last panel")
	}
}

func TestToggleLevel(t *testing.T) {
	l := New(nil, 80, 24)
	if l.Level() != LevelCmd {
		t.Fatalf("initial level = %v, want LevelCmd", l.Level())
	}
	l.ToggleLevel()
	if l.Level() != LevelTypescript {
		t.Fatalf("level after toggle = %v, want LevelTypescript", l.Level())
	}
	l.ToggleLevel()
	if l.Level() != LevelCmd {
		t.Fatalf("level after second toggle = %v, want LevelCmd", l.Level())
	}
}

func TestToggleTypescriptVisible(t *testing.T) {
	l := New(nil, 80, 24)
	p := l.Focused()
	if !p.TSView.Visible() {
		t.Fatal("typescript should start visible")
	}
	l.ToggleTypescriptVisible()
	if p.TSView.Visible() {
		t.Fatal("ToggleTypescriptVisible should hide the typescript")
	}
}
