// Package ptypanel implements the pty panel (C5): a command-line editor
// and a typescript editor sharing a pseudo-terminal-backed subprocess,
// plus the master/slave routing that lets one panel's subprocess forward
// typed commands into another panel. Grounded on
// original_source/pty.c's struct pty and original_source/ptylist.c's
// master/slave bookkeeping, generalized from up.go's flat
// Editor+BufView+Buf+Subprocess into the richer multi-state model
// spec.md §4.5 describes.
package ptypanel

import "fmt"

// State is a panel's derived run state, computed from (pid, file path,
// unsaved flag) rather than stored directly — spec.md §4.5.1.
type State int

const (
	// NotStarted: no subprocess, no file, no directory opened.
	NotStarted State = iota
	// Started: a subprocess is running.
	Started
	// FileSaved: a file is open and matches what was last written.
	FileSaved
	// FileUnsaved: a file is open and has been modified since save.
	FileUnsaved
	// Exited: the subprocess exited normally.
	Exited
	// Signaled: the subprocess was killed by a signal.
	Signaled
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Started:
		return "started"
	case FileSaved:
		return "file saved"
	case FileUnsaved:
		return "file unsaved"
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status summarizes a panel's current state for the status bar.
type Status struct {
	State State
	PID   int
	// Code is the exit code (Exited) or signal number (Signaled).
	Code int
	Rows int
}
