package ptypanel

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tleino/vtsh/internal/buffer"
	"github.com/tleino/vtsh/internal/editor"
)

const readChunk = 8192

// Panel is one pty panel: a single-line command editor plus a
// multi-row typescript editor, optionally backed by a running
// subprocess, a saved file, or neither.
type Panel struct {
	Shell []string

	// MaxBytes caps the typescript's total size; once exceeded, HandleOutput
	// drops whole rows from the top before appending, mirroring up.go's
	// fixed-size capture buffer (--buf) reinterpreted as a rolling window
	// instead of a stop-reading-at-full one, since a pty panel's typescript
	// is meant to stay live indefinitely. Zero means unbounded.
	MaxBytes int

	tsWidth, tsHeight int

	CmdBuf  *buffer.Buffer
	CmdView *editor.View

	TSBuf  *buffer.Buffer
	TSView *editor.View

	proc *subprocess
	exit Status

	filePath string
	unsaved  bool

	master *Panel
	slaves []*Panel
	active *Panel

	// OutputCh carries chunks read from the subprocess by readLoop, the
	// reader goroutine respawn starts, for forwarding into the main event
	// loop's select (which hands them to HandleOutput). respawn replaces
	// the channel; readLoop closes it when the pty read fails at exit.
	OutputCh chan []byte

	// Exec is the upcall fired by a mouse-3 click on the typescript,
	// carrying the clicked row's text (spec.md §4.5.7's PtyActionOpen).
	Exec func(text string)
}

// New returns a fresh, unstarted panel.
func New(shell []string, width, height int) *Panel {
	p := &Panel{Shell: shell, OutputCh: make(chan []byte, 16), tsWidth: width, tsHeight: height}
	p.CmdBuf = buffer.New()
	p.CmdView = editor.New(p.CmdBuf, width, 1)
	p.CmdView.Submit = p.submitCommand

	p.TSBuf = buffer.New()
	p.TSView = editor.New(p.TSBuf, width, height)
	p.TSView.SetOutputCursor()
	p.TSView.Submit = p.submitStdin
	p.TSView.Exec = func(text string) {
		if p.Exec != nil {
			p.Exec(text)
		}
	}
	return p
}

// State derives the panel's display state from its live fields, per
// spec.md §4.5.1.
func (p *Panel) State() State {
	switch {
	case p.proc != nil:
		return Started
	case p.exit.State == Exited || p.exit.State == Signaled:
		return p.exit.State
	case p.filePath != "" && p.unsaved:
		return FileUnsaved
	case p.filePath != "":
		return FileSaved
	default:
		return NotStarted
	}
}

// Status reports the panel's full status for the status bar.
func (p *Panel) Status() Status {
	st := p.State()
	code := p.exit.Code
	pid := 0
	if p.proc != nil {
		pid = p.proc.pid
	}
	return Status{State: st, PID: pid, Code: code, Rows: p.TSBuf.Rows()}
}

// submitCommand dispatches the cmdline's text per spec.md §4.5.2.
func (p *Panel) submitCommand(s string) {
	sendTS, terminator, rest := parsePipeSuffix(s)

	if !sendTS && strings.HasPrefix(rest, ":") {
		p.handleColonCommand(rest[1:])
		return
	}

	if p.master != nil {
		p.routeToMaster(rest, sendTS, terminator)
		return
	}

	p.respawn(rest)
}

// parsePipeSuffix recognizes a trailing '<' or '<.' that requests the
// typescript be piped to the target after the command line itself.
func parsePipeSuffix(s string) (send bool, terminator, rest string) {
	switch {
	case strings.HasSuffix(s, "<."):
		return true, ".\n", strings.TrimSuffix(s, "<.")
	case strings.HasSuffix(s, "<"):
		return true, "\n", strings.TrimSuffix(s, "<")
	default:
		return false, "", s
	}
}

func (p *Panel) handleColonCommand(path string) {
	if strings.HasSuffix(path, "/") {
		if err := os.Chdir(path); err != nil {
			return
		}
		p.setCmdline(":./")
		return
	}
	p.openPath(path)
}

func (p *Panel) setCmdline(s string) {
	p.CmdBuf.Clear()
	p.CmdBuf.Insert(p.CmdView.Cur, []byte(s))
}

// openPath implements spec.md §4.5.2 step 5: files are read into the
// typescript via its output cursor; directories are listed as `:name`
// entries (trailing `/` for subdirectories).
func (p *Panel) openPath(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		p.listDirectory(path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	p.TSBuf.Clear()
	p.TSBuf.Insert(p.TSView.OCur, data)
	p.filePath = path
	p.unsaved = false
	p.TSBuf.AddListener(func(buffer.Update) {
		p.unsaved = true
	})
}

func (p *Panel) listDirectory(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if fi, err := os.Lstat(filepath.Join(dir, name)); err == nil && fi.IsDir() {
			name += "/"
		}
		names = append(names, ":"+name)
	}
	sort.Strings(names)

	p.TSBuf.Clear()
	p.TSBuf.Insert(p.TSView.OCur, []byte(strings.Join(names, "\n")))
}

// routeToMaster forwards the command (and, if requested, the
// typescript) to the master panel's subprocess, marking this panel as
// its active slave.
func (p *Panel) routeToMaster(command string, sendTS bool, terminator string) {
	m := p.master
	m.setActiveSlave(p)

	if m.proc == nil {
		return
	}
	m.proc.master.Write([]byte(command + "\n"))
	if sendTS {
		text := p.TSBuf.Text()
		m.proc.master.Write([]byte(text + terminator))
	}
	p.TSBuf.Clear()
}

// respawn kills any existing subprocess, resets the typescript, and
// starts a fresh one per spec.md §4.5.2 step 4.
func (p *Panel) respawn(commandLine string) {
	p.detachSlaves()
	if p.proc != nil {
		p.proc.kill()
		p.proc = nil
	}

	p.TSBuf = buffer.New()
	p.TSView.Close()
	p.TSView = editor.New(p.TSBuf, p.tsWidth, p.tsHeight)
	p.TSView.SetOutputCursor()
	p.TSView.Submit = p.submitStdin
	p.TSView.Exec = func(text string) {
		if p.Exec != nil {
			p.Exec(text)
		}
	}

	proc, err := spawnShell(p.Shell, commandLine)
	if err != nil {
		log.Printf("spawn %q: %v", commandLine, err)
		return
	}
	p.proc = proc
	p.exit = Status{}
	p.OutputCh = make(chan []byte, 16)
	go readLoop(proc, p.OutputCh)
}

// readLoop is the one goroutine per pty master fan-in the concurrency
// model (spec.md §5) calls for: it only reads and forwards bytes over a
// channel, never touching a buffer directly, so every mutation still
// happens on the single event-loop goroutine.
func readLoop(proc *subprocess, out chan<- []byte) {
	buf := make([]byte, readChunk)
	for {
		n, err := proc.master.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			out <- chunk
		}
		if err != nil {
			close(out)
			return
		}
	}
}

// HandleOutput applies a chunk read from the subprocess to the right
// typescript buffer: the active slave's if one is set, else this
// panel's own, per spec.md §4.5.3.
func (p *Panel) HandleOutput(data []byte) {
	target := p
	if p.active != nil {
		target = p.active
	}
	target.TSBuf.Insert(target.TSView.OCur, data)
	target.trimToMaxBytes()
}

// trimToMaxBytes drops whole rows from the top of TSBuf until its total
// size is back under MaxBytes, keeping the typescript a rolling window
// over a long-lived subprocess's output instead of growing unbounded.
func (p *Panel) trimToMaxBytes() {
	if p.MaxBytes <= 0 {
		return
	}
	total := 0
	for row := 0; row < p.TSBuf.Rows(); row++ {
		total += p.TSBuf.BytesAt(row) + 1
	}

	dropped := 0
	for total > p.MaxBytes && p.TSBuf.Rows() > 1 {
		total -= p.TSBuf.BytesAt(0) + 1
		p.TSBuf.RemoveRow(0)
		dropped++
	}
	if dropped == 0 {
		return
	}

	// RemoveRow has no notion of the cursors this panel's views hold into
	// TSBuf, so shift them here the same way the buffer already shifts its
	// own internal mark on a row-affecting edit.
	for _, cur := range []*buffer.Cursor{p.TSView.Cur, p.TSView.OCur} {
		cur.Row -= dropped
		if cur.Row < 0 {
			cur.Row = 0
			cur.Offset = 0
		}
	}
}

// HandleExit reaps the subprocess once its output channel closes,
// detaching slaves first per spec.md §4.5.5.
func (p *Panel) HandleExit() {
	if p.proc == nil {
		return
	}
	p.detachSlaves()
	state, code := p.proc.wait()
	p.exit = Status{State: state, Code: code}
	p.proc = nil
}

// submitStdin implements spec.md §4.5.4: Enter in a started panel's
// typescript marks the current row CMDLINE_ROW, drops stale rows below
// it up to the next CMDLINE_ROW, and writes the line to the pty.
func (p *Panel) submitStdin(s string) {
	if p.proc == nil {
		p.TSBuf.Insert(p.TSView.Cur, []byte{'\n'})
		return
	}

	row := p.TSView.Cur.Row
	p.TSBuf.ClearRow(row)
	p.TSBuf.SetRowFlags(row, buffer.RowCmdline)

	for row+1 < p.TSBuf.Rows() && p.TSBuf.RowFlags(row+1)&buffer.RowCmdline == 0 {
		p.TSBuf.RemoveRow(row + 1)
	}

	p.TSBuf.SetCursor(p.TSView.OCur, row, 0)

	p.proc.master.Write([]byte(s))
	p.proc.master.Write([]byte{'\n'})
}

// Save implements spec.md §4.5.6: write the typescript back to the
// backing file, '\n'-joined, excluding the trailing empty row.
func (p *Panel) Save() error {
	if p.filePath == "" {
		return fmt.Errorf("panel has no backing file")
	}
	if err := os.WriteFile(p.filePath, []byte(p.TSBuf.Text()), 0644); err != nil {
		return fmt.Errorf("save %s: %w", p.filePath, err)
	}
	p.unsaved = false
	return nil
}

// AddSlave registers slave under this panel and makes it the active
// slave, per spec.md §4.5.5.
func (p *Panel) AddSlave(slave *Panel) {
	slave.master = p
	p.slaves = append(p.slaves, slave)
	p.active = slave
}

func (p *Panel) setActiveSlave(slave *Panel) {
	p.active = slave
}

// Slaves returns the panels currently routed through this one as master.
func (p *Panel) Slaves() []*Panel {
	return p.slaves
}

// RemoveSlave detaches slave from this panel, clearing it from the
// active-slave position if it held it.
func (p *Panel) RemoveSlave(slave *Panel) {
	for i, s := range p.slaves {
		if s == slave {
			p.slaves = append(p.slaves[:i], p.slaves[i+1:]...)
			break
		}
	}
	if p.active == slave {
		p.active = nil
	}
	slave.master = nil
}

// detachSlaves removes every slave, in reverse insertion order, per
// spec.md §4.5.5's "when a master exits" rule.
func (p *Panel) detachSlaves() {
	for i := len(p.slaves) - 1; i >= 0; i-- {
		p.RemoveSlave(p.slaves[i])
	}
}

// Close shuts down the panel's subprocess and view listeners.
func (p *Panel) Close() {
	if p.proc != nil {
		p.proc.kill()
	}
	p.CmdView.Close()
	p.TSView.Close()
}
