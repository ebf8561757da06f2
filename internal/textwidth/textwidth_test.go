package textwidth

import "testing"

func TestExpandTabsAlignsToStops(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\t", "        "},
		{"a\tb", "a       b"},
		{"ab\tc", "ab      c"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in); got != tt.want {
			t.Errorf("ExpandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringWidthCountsWideRunes(t *testing.T) {
	if w := StringWidth("ab"); w != 2 {
		t.Errorf("StringWidth(ab) = %d, want 2", w)
	}
	if w := StringWidth("七"); w != 2 { // CJK ideograph, double-width
		t.Errorf("StringWidth(CJK) = %d, want 2", w)
	}
}

func TestRuneWidthNeverZero(t *testing.T) {
	// Combining accent: runewidth reports 0, but a cell must still be
	// claimed so the column model stays consistent.
	if w := RuneWidth('́'); w < 1 {
		t.Errorf("RuneWidth(combining accent) = %d, want >= 1", w)
	}
}

func TestExpanderTracksColumnAcrossTabs(t *testing.T) {
	e := &Expander{}
	col := 0
	for _, r := range "a\tb" {
		for {
			_, more := e.Next(r)
			col++
			if !more {
				break
			}
		}
	}
	if e.Col() != 1 {
		t.Errorf("column after \"a\\tb\" = %d, want 1", e.Col())
	}
}
