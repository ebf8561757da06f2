package buffer

import (
	"testing"
)

func TestRowsLazyInsert(t *testing.T) {
	b := New()
	if n := b.Rows(); n != 1 {
		t.Fatalf("Rows() on empty buffer = %d, want 1", n)
	}
	if n := b.BytesAt(0); n != 0 {
		t.Fatalf("BytesAt(0) = %d, want 0", n)
	}
}

func TestInsertSplitsRowOnNewline(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	if err := b.Insert(cur, []byte("hello\nworld")); err != nil {
		t.Fatal(err)
	}
	if n := b.Rows(); n != 2 {
		t.Fatalf("Rows() = %d, want 2", n)
	}
	got0, _ := b.U8StrAt(0)
	got1, _ := b.U8StrAt(1)
	if string(got0) != "hello" {
		t.Errorf("row 0 = %q, want %q", got0, "hello")
	}
	if string(got1) != "world" {
		t.Errorf("row 1 = %q, want %q", got1, "world")
	}
	if cur.Row != 1 || cur.Offset != 5 {
		t.Errorf("cursor after insert = (%d,%d), want (1,5)", cur.Row, cur.Offset)
	}
}

func TestInsertMidRowSplitsTail(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abcdef"))
	b.SetCursor(cur, 0, 3)
	b.Insert(cur, []byte("\n"))

	got0, _ := b.U8StrAt(0)
	got1, _ := b.U8StrAt(1)
	if string(got0) != "abc" || string(got1) != "def" {
		t.Fatalf("split = %q / %q, want %q / %q", got0, got1, "abc", "def")
	}
}

// S3: backspace at column 0 joins the current row onto the previous row.
func TestEraseJoinsRows(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abc\ndef"))
	b.SetCursor(cur, 1, 0)
	b.Erase(cur)

	if n := b.Rows(); n != 1 {
		t.Fatalf("Rows() after join = %d, want 1", n)
	}
	got, _ := b.U8StrAt(0)
	if string(got) != "abcdef" {
		t.Fatalf("joined row = %q, want %q", got, "abcdef")
	}
	if cur.Row != 0 || cur.Offset != 3 {
		t.Errorf("cursor after join = (%d,%d), want (0,3)", cur.Row, cur.Offset)
	}
}

func TestDeleteCharAtEOLJoinsNextRow(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abc\ndef"))
	b.SetCursor(cur, 0, 3)
	b.DeleteChar(cur)

	if n := b.Rows(); n != 1 {
		t.Fatalf("Rows() = %d, want 1", n)
	}
	got, _ := b.U8StrAt(0)
	if string(got) != "abcdef" {
		t.Fatalf("row = %q, want %q", got, "abcdef")
	}
}

func TestEraseEOL(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abcdef"))
	b.SetCursor(cur, 0, 2)
	b.EraseEOL(cur)

	got, _ := b.U8StrAt(0)
	if string(got) != "ab" {
		t.Fatalf("row = %q, want %q", got, "ab")
	}
}

// S4: an overlong encoding is flagged but still consumed one byte at a
// time so a scan always terminates.
func TestU8StrBreakFlagsOverlong(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("\xc0\x80"))

	offset := 0
	chunk, errFlag, ok := b.U8StrBreak(0, &offset)
	if !ok {
		t.Fatal("U8StrBreak returned ok=false on non-empty row")
	}
	if !errFlag {
		t.Error("expected errFlag=true for overlong encoding")
	}
	if len(chunk) == 0 {
		t.Error("expected non-empty chunk even on malformed input")
	}
}

func TestU8StrBreakMultibyte(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("h\xc3\xa9llo"))

	offset := 0
	var got []string
	for {
		chunk, errFlag, ok := b.U8StrBreak(0, &offset)
		if !ok {
			break
		}
		if errFlag {
			t.Errorf("unexpected error flag on valid UTF-8 at offset %d", offset)
		}
		got = append(got, string(chunk))
	}
	want := []string{"h", "\xc3\xa9", "l", "l", "o"}
	if len(got) != len(want) {
		t.Fatalf("chunks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWordAt(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("the quick brown fox"))

	offset := 6 // inside "quick"
	word, ok := b.WordAt(0, &offset)
	if !ok {
		t.Fatal("WordAt returned ok=false")
	}
	if string(word) != "quick" {
		t.Fatalf("word = %q, want %q", word, "quick")
	}
}

// S1: a match that lands inside a multibyte sequence snaps back to that
// sequence's start.
func TestMatchSnapsToBoundary(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("caf\xc3\xa9 time"))

	offset := 0
	if !b.Match(0, []byte("time"), &offset) {
		t.Fatal("Match failed to find needle")
	}
	got, _ := b.U8StrAt(0)
	if offset < 0 || offset > len(got) {
		t.Fatalf("offset %d out of range", offset)
	}
	// offset must land exactly where "time" begins, not mid-sequence.
	if string(got[offset:]) != "time" {
		t.Fatalf("match offset %d lands at %q, want suffix %q", offset, got[offset:], "time")
	}

	// A needle matching the continuation byte of "é" (C3 A9) snaps back
	// to the C3 lead byte at offset 3.
	offset = 0
	if !b.Match(0, []byte("\xa9"), &offset) {
		t.Fatal("Match failed to find continuation-byte needle")
	}
	if offset != 3 {
		t.Fatalf("mid-sequence match offset = %d, want 3 (start of C3 A9)", offset)
	}
}

func TestSetCursorClampsOffset(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abc"))
	b.SetCursor(cur, 0, 100)
	if cur.Offset != 3 {
		t.Errorf("offset = %d, want 3 (clamped to row length)", cur.Offset)
	}
	b.SetCursor(cur, 5, 0)
	if cur.Row != 0 {
		t.Errorf("row = %d, want 0 (clamped to last row)", cur.Row)
	}
}

func TestUpdateCursorWrapsAcrossRows(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("ab\ncd"))
	b.SetCursor(cur, 0, 2)
	b.UpdateCursor(cur, 0, 1)
	if cur.Row != 1 || cur.Offset != 0 {
		t.Fatalf("cursor after wrap-forward = (%d,%d), want (1,0)", cur.Row, cur.Offset)
	}
	b.UpdateCursor(cur, 0, -1)
	if cur.Row != 0 || cur.Offset != 2 {
		t.Fatalf("cursor after wrap-backward = (%d,%d), want (0,2)", cur.Row, cur.Offset)
	}
}

func TestMarkRegion(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("abcdef"))
	b.SetMark(0, 1)
	if !b.HasMark() {
		t.Fatal("HasMark() = false after SetMark")
	}
	if !b.IsMarked(0, 3, 0, 5) {
		t.Error("offset 3 should be in region [1,5)")
	}
	if b.IsMarked(0, 0, 0, 5) {
		t.Error("offset 0 should not be in region [1,5)")
	}
	if b.IsMarked(0, 5, 0, 5) {
		t.Error("offset 5 (the dot itself) should not be in the region")
	}
	b.ClearMark(0)
	if b.HasMark() {
		t.Error("HasMark() = true after ClearMark")
	}
}

func TestListenerReceivesBroadcast(t *testing.T) {
	b := New()
	var updates []Update
	b.AddListener(func(u Update) { updates = append(updates, u) })

	cur := b.NewCursor()
	b.Insert(cur, []byte("hi"))

	if len(updates) == 0 {
		t.Fatal("listener received no updates")
	}
}

func TestRemoveListenerStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	h := b.AddListener(func(u Update) { count++ })
	cur := b.NewCursor()
	b.Insert(cur, []byte("a"))
	before := count

	b.RemoveListener(h)
	b.Insert(cur, []byte("b"))
	if count != before {
		t.Errorf("listener still receiving updates after RemoveListener: count went from %d to %d", before, count)
	}
}

func TestRowFlags(t *testing.T) {
	b := New()
	b.Rows()
	b.SetRowFlags(0, RowCmdline)
	if f := b.RowFlags(0); f&RowCmdline == 0 {
		t.Error("RowCmdline flag not set")
	}
}

func TestClear(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("a\nb\nc"))
	b.Clear()
	if n := b.Rows(); n != 1 {
		t.Fatalf("Rows() after Clear = %d, want 1 (lazy empty row)", n)
	}
	if got, _ := b.U8StrAt(0); len(got) != 0 {
		t.Errorf("row 0 after Clear = %q, want empty", got)
	}
}

func TestText(t *testing.T) {
	b := New()
	cur := b.NewCursor()
	b.Insert(cur, []byte("a\nb\nc"))
	if got := b.Text(); got != "a\nb\nc" {
		t.Fatalf("Text() = %q, want %q", got, "a\nb\nc")
	}
}
