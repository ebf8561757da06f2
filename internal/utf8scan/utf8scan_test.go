package utf8scan

import "testing"

func TestIncr(t *testing.T) {
	tests := []struct {
		comment   string
		s         []byte
		offset    int
		wantStep  int
		wantError bool
	}{
		{"empty at end", []byte(""), 0, 0, false},
		{"ascii", []byte("abc"), 0, 1, false},
		{"two-byte", []byte("h\xc3\xa9llo"), 1, 2, false},
		{"three-byte", []byte("\xe4\xb8\x83"), 0, 3, false},
		{"four-byte", []byte("\xf0\x9f\x98\x80"), 0, 4, false},
		{"overlong NUL C0 80", []byte("\xc0\x80"), 0, 1, true},
		{"overlong E0 rejects second < A0", []byte("\xe0\x80\x80"), 0, 1, true},
		{"surrogate ED A0 80", []byte("\xed\xa0\x80"), 0, 1, true},
		{"F0 rejects second < 90", []byte("\xf0\x80\x80\x80"), 0, 1, true},
		{"F4 rejects second > 8F", []byte("\xf4\x90\x80\x80"), 0, 1, true},
		{"truncated two-byte at end", []byte("\xc3"), 0, 1, true},
		{"bad lead byte 0xFF", []byte("\xff"), 0, 1, true},
	}

	for _, tt := range tests {
		offset := tt.offset
		var errFlag bool
		step := Incr(tt.s, &offset, &errFlag)
		if step != tt.wantStep {
			t.Errorf("%s: step = %d, want %d", tt.comment, step, tt.wantStep)
		}
		if errFlag != tt.wantError {
			t.Errorf("%s: error = %v, want %v", tt.comment, errFlag, tt.wantError)
		}
	}
}

func TestIncr_NeverCrossesEnd(t *testing.T) {
	s := []byte("abc")
	offset := 3
	step := Incr(s, &offset, nil)
	if step != 0 || offset != 3 {
		t.Fatalf("Incr at len(s) should be a no-op, got step=%d offset=%d", step, offset)
	}
}

func TestDecr_RoundTrip(t *testing.T) {
	tests := []struct {
		comment string
		s       []byte
		offset  int
	}{
		{"ascii mid", []byte("abcdef"), 3},
		{"after two-byte", []byte("h\xc3\xa9llo"), 3},
		{"after three-byte", []byte("\xe4\xb8\x83x"), 3},
		{"after four-byte", []byte("\xf0\x9f\x98\x80x"), 4},
	}

	for _, tt := range tests {
		offset := tt.offset
		step := Incr(tt.s, &offset, nil)
		if step == 0 {
			t.Fatalf("%s: Incr made no progress", tt.comment)
		}
		back := Decr(tt.s, &offset)
		if offset != tt.offset {
			t.Errorf("%s: decr(incr(x)) = %d, want %d", tt.comment, offset, tt.offset)
		}
		if back != step {
			t.Errorf("%s: decr stepped %d bytes, incr stepped %d", tt.comment, back, step)
		}
	}
}

func TestDecr_AfterError(t *testing.T) {
	// S4: "C0 80" is an overlong NUL; incr single-steps past the first
	// byte, flagging an error. decr from that point must land immediately
	// before the erroring start byte.
	s := []byte("\xc0\x80")
	offset := 0
	var errFlag bool
	Incr(s, &offset, &errFlag)
	if !errFlag || offset != 1 {
		t.Fatalf("setup: offset=%d error=%v", offset, errFlag)
	}
	Decr(s, &offset)
	if offset != 0 {
		t.Errorf("decr after error landed at %d, want 0", offset)
	}
}

func TestDecr_AtStart(t *testing.T) {
	s := []byte("abc")
	offset := 0
	if step := Decr(s, &offset); step != 0 || offset != 0 {
		t.Errorf("decr at 0 should be a no-op, got step=%d offset=%d", step, offset)
	}
}
