package editor

import (
	"testing"

	"github.com/gdamore/tcell"

	"github.com/tleino/vtsh/internal/buffer"
	"github.com/tleino/vtsh/internal/screen"
	"github.com/tleino/vtsh/internal/testutil"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	sim.SetSize(w, h)
	return sim
}

func TestViewDrawsInsertedText(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 3)
	v.Buf.Insert(v.Cur, []byte("hi"))

	sim := newSimScreen(t, 10, 3)
	region := screen.TuiRegion(sim, 0, 0, 10, 3, false)
	v.DrawTo(region, nil)
	sim.Show()

	got := testutil.CellsToString(sim)
	want := testutil.Screen{
		testutil.Raw("hi"), testutil.Endline{W: 8},
		testutil.Rows{W: 10, H: 2},
	}.String()
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestViewInsertRuneMovesCursor(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 1)
	v.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if v.Cur.Offset != 1 {
		t.Fatalf("cursor offset = %d, want 1", v.Cur.Offset)
	}
	got, _ := buf.U8StrAt(0)
	if string(got) != "x" {
		t.Fatalf("row 0 = %q, want %q", got, "x")
	}
}

func TestViewBackspaceErases(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 1)
	buf.Insert(v.Cur, []byte("ab"))
	v.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	got, _ := buf.U8StrAt(0)
	if string(got) != "a" {
		t.Fatalf("row 0 = %q, want %q", got, "a")
	}
}

func TestViewEnterCallsSubmit(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 1)
	buf.Insert(v.Cur, []byte("echo hi"))
	var submitted string
	v.Submit = func(s string) { submitted = s }
	v.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if submitted != "echo hi" {
		t.Fatalf("submitted = %q, want %q", submitted, "echo hi")
	}
}

func TestViewEnterInsertsNewlineWithoutSubmit(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 5)
	buf.Insert(v.Cur, []byte("ab"))
	v.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if n := buf.Rows(); n != 2 {
		t.Fatalf("Rows() = %d, want 2", n)
	}
}

func TestGotoLineClampsToRange(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 10, 5)
	buf.Insert(v.Cur, []byte("a\nb\nc"))
	v.gotoLine("999")
	if v.Cur.Row != 2 {
		t.Fatalf("row after goto 999 = %d, want 2 (clamped)", v.Cur.Row)
	}
	v.gotoLine("1")
	if v.Cur.Row != 0 {
		t.Fatalf("row after goto 1 = %d, want 0", v.Cur.Row)
	}
}

func TestSearchForwardMovesPastMatch(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 20, 5)
	buf.Insert(v.Cur, []byte("alpha\nbeta needle end\ngamma"))
	buf.SetCursor(v.Cur, 0, 0)
	v.search("needle", true)
	if v.Cur.Row != 1 {
		t.Fatalf("row after search = %d, want 1", v.Cur.Row)
	}
	want := len("beta needle")
	if v.Cur.Offset != want {
		t.Fatalf("offset after search = %d, want %d", v.Cur.Offset, want)
	}
}

func TestSearchWrapsAround(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 20, 5)
	buf.Insert(v.Cur, []byte("needle\nbeta\ngamma"))
	buf.SetCursor(v.Cur, 2, 0)
	v.search("needle", true)
	if v.Cur.Row != 0 {
		t.Fatalf("row after wraparound search = %d, want 0", v.Cur.Row)
	}
}

func TestOpenPromptAndCancel(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 20, 5)
	v.OpenPrompt(Goto)
	if v.Prompt == nil {
		t.Fatal("OpenPrompt did not create a prompt child")
	}
	v.handlePromptKey(tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl))
	if v.Prompt != nil {
		t.Fatal("Ctrl+g should close the prompt")
	}
}

func TestMoveRowsPreservesPreferredColumn(t *testing.T) {
	buf := buffer.New()
	v := New(buf, 20, 5)
	buf.Insert(v.Cur, []byte("abcdef\nab\nabcdef"))
	buf.SetCursor(v.Cur, 0, 5)
	v.moveRows(1) // row 1 only has 2 chars; preferred col should stay 5
	v.moveRows(1) // back to a long row; cursor should return to col 5
	if v.Cur.Row != 2 || v.Cur.Offset != 5 {
		t.Fatalf("cursor = (%d,%d), want (2,5)", v.Cur.Row, v.Cur.Offset)
	}
}
