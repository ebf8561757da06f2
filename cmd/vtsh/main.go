// Command vtsh is a hybrid terminal/editor: each row of the main window
// is a pty panel holding a command editor, a status bar, and a
// typescript editor. See up.go's main for the flat, single-panel
// ancestor this generalizes.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/tleino/vtsh/internal/ptypanel"
)

const version = "0.1.0"

func init() {
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, `Usage: vtsh [OPTIONS] [COMMAND...]

vtsh is a hybrid terminal/editor: every row is a pty panel with a
command editor on top and a scrolling typescript below it. Editing the
command line and pressing Enter runs it through a pseudo-terminal and
streams its combined stdout/stderr into the typescript, which can be
edited freely while the process keeps writing to it.

If COMMAND is given, its words are joined with spaces and submitted as
the first panel's initial command once the screen comes up.

KEYS

- Emacs-like bindings edit the focused editor (Ctrl-A/E/B/F/P/N/D/K/O/L)
- Enter        - submit the focused cmdline, or a typescript line to stdin
- Alt-Space, Alt-Insert - add a new panel after the focused one
- Alt-s        - add a new panel as a slave of the focused panel
- Alt-h        - toggle the focused panel's typescript visibility
- Alt-Shift-h  - show the focused panel, hide all others
- Alt-Backspace - close the focused panel
- Alt-n        - open a new window
- Alt-Up, Alt-Down - cycle focus among panels at the current level
- Escape, Alt-Enter - toggle between cmdline and typescript level
- Ctrl-X Ctrl-S - save the focused typescript to its backing file
- Ctrl-C       - close the current window (quits after the last one)

OPTIONS
`)
		pflag.PrintDefaults()
		fmt.Fprint(os.Stderr, "\nVERSION: "+version+"\n")
	}
}

var (
	shellFlag = pflag.String("shell", "", "shell to run commands with (default: $SHELL, then /bin/sh)")
	debugMode = pflag.Bool("debug", false, "write a debug log to vtsh.debug")
	noColors  = pflag.Bool("no-colors", false, "disable interface colors")
	bufsize   = pflag.Int("buf", 40, "typescript ring size in `megabytes` (MiB), per panel")
)

func main() {
	pflag.Parse()

	log.SetOutput(io.Discard)
	if *debugMode {
		debug, err := os.Create("vtsh.debug")
		if err != nil {
			die(err.Error())
		}
		log.SetOutput(debug)
	}

	shell := shellCommand()
	log.Println("using shell:", shell)

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		die("vtsh requires a terminal on standard output")
	}

	tui := initTUI()
	defer tui.Fini()

	app := newApp(tui, shell, *noColors)

	if initial := strings.Join(pflag.Args(), " "); initial != "" {
		first := app.cur.Panels()[0]
		first.CmdBuf.Insert(first.CmdView.Cur, []byte(initial))
		first.CmdView.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	}

	app.run()
}

// shellCommand picks the shell to run panel commands with: --shell, then
// $SHELL, then /bin/sh, matching spec.md §6.1's environment discovery.
func shellCommand() []string {
	if *shellFlag != "" {
		return []string{*shellFlag}
	}
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "/bin/sh"
	}
	return []string{sh}
}

func initTUI() tcell.Screen {
	tui, err := tcell.NewScreen()
	if err != nil {
		die(err.Error())
	}
	if err := tui.Init(); err != nil {
		die(err.Error())
	}
	return tui
}

func die(message string) {
	os.Stderr.WriteString("vtsh: " + message + "\n")
	os.Exit(1)
}

// bufLimit converts the --buf flag (MiB) into the byte ceiling panels'
// typescript buffers stay under before the oldest rows are dropped;
// app.go's wirePanel copies it into each panel's MaxBytes.
func bufLimit() int {
	return *bufsize * 1024 * 1024
}

// statusText renders a panel's Status for its one-line status bar.
func statusText(p *ptypanel.Panel) string {
	st := p.Status()
	switch st.State {
	case ptypanel.Started:
		return fmt.Sprintf(" [pid %d] %s, %d rows", st.PID, st.State, st.Rows)
	case ptypanel.Exited, ptypanel.Signaled:
		return fmt.Sprintf(" %s (code %d), %d rows", st.State, st.Code, st.Rows)
	default:
		return fmt.Sprintf(" %s, %d rows", st.State, st.Rows)
	}
}
