package ptypanel

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// termios builds the line discipline spec.md §4.5.2 step 4 requires:
// OpenBSD's defaults with ECHO dropped (the panel draws its own cmdline
// echo) and ICRNL dropped in favor of IGNCR (vtsh never wants CR turned
// into NL on input, since shells invoked with -c don't need it).
func termiosSettings() unix.Termios {
	var ts unix.Termios
	ts.Lflag = unix.ICANON | unix.ISIG | unix.IEXTEN | unix.ECHOE
	ts.Iflag = unix.IXON | unix.IXANY | unix.IMAXBEL | unix.BRKINT | unix.IGNCR
	ts.Oflag = unix.OPOST
	ts.Cflag = unix.CREAD | unix.CS8 | unix.HUPCL
	ts.Cc[unix.VMIN] = 1
	ts.Cc[unix.VTIME] = 0
	ts.Cc[unix.VEOF] = 0x04
	ts.Cc[unix.VINTR] = 0x03
	ts.Ispeed = unix.B115200
	ts.Ospeed = unix.B115200
	return ts
}

// subprocess wraps one shell invocation's pty master/slave pair and the
// running (or exited) command.
type subprocess struct {
	cmd    *exec.Cmd
	master *os.File
	pid    int
}

// spawnShell starts `shell -c commandLine` attached to a fresh pty,
// applying termiosSettings to the slave before the child execs.
func spawnShell(shell []string, commandLine string) (*subprocess, error) {
	if len(shell) == 0 {
		shell = defaultShell()
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	defer tty.Close()

	ts := termiosSettings()
	if err := unix.IoctlSetTermios(int(tty.Fd()), unix.TCSETS, &ts); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("set termios: %w", err)
	}

	args := append(append([]string{}, shell[1:]...), "-c", commandLine)
	cmd := exec.Command(shell[0], args...)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.Env = append(os.Environ(), "TERM=dumb", `PS1=\$ `, "PAGER=cat")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("start %s: %w", shell[0], err)
	}

	return &subprocess{cmd: cmd, master: ptmx, pid: cmd.Process.Pid}, nil
}

// defaultShell falls back to $SHELL, then /bin/sh, matching
// pty_submit_command's getenv("SHELL") fallback.
func defaultShell() []string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "/bin/sh"
	}
	return []string{sh}
}

// kill sends SIGKILL to the subprocess and reaps it; the exit status is
// discarded (wait is the call that reports EXITED/SIGNALED).
func (s *subprocess) kill() {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
}

// wait blocks until the subprocess exits and reports its terminal state.
func (s *subprocess) wait() (state State, code int) {
	err := s.cmd.Wait()
	if err == nil {
		return Exited, 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return Signaled, int(ws.Signal())
			}
			return Exited, ws.ExitStatus()
		}
	}
	return Exited, -1
}

func (s *subprocess) setSize(cols, rows int) error {
	return pty.Setsize(s.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}
