package remote

import (
	"errors"
	"os"
	"os/exec"

	"fortio.org/log"
	"fortio.org/safecast"
	"github.com/creack/pty"
)

// Shell is a command running under a pseudo terminal.
type Shell struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

// StartShell starts path (e.g. $SHELL) with TERM set for an xterm
// compatible client.
func StartShell(path string, args ...string) (*Shell, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	log.LogVf("Started %s under pty %s, pid %d", path, ptmx.Name(), cmd.Process.Pid)
	return &Shell{cmd: cmd, ptmx: ptmx}, nil
}

func (s *Shell) Read(p []byte) (int, error) {
	return s.ptmx.Read(p)
}

func (s *Shell) Write(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

func (s *Shell) Resize(columns, rows int) error {
	c, err := safecast.Convert[uint16](columns)
	if err != nil {
		return err
	}
	r, err := safecast.Convert[uint16](rows)
	if err != nil {
		return err
	}
	return pty.Setsize(s.ptmx, &pty.Winsize{Cols: c, Rows: r})
}

// Close ends the shell and releases the pty.
func (s *Shell) Close() error {
	err := s.ptmx.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	werr := s.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(werr, &exitErr) {
		// Killed above or exited on its own, either way it's done.
		werr = nil
	}
	return errors.Join(err, werr)
}
