// Package native is the terminal front-end of webterm: keys are read from a
// raw mode tty and decoded back into key events, the display surface is the
// terminal window itself.
package native // import "fortio.org/webterm/native"

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"golang.org/x/term"
)

// Modes requested from the terminal while open.
const (
	focusReportingOn  = "\033[?1004h"
	focusReportingOff = "\033[?1004l"
	// Kitty keyboard protocol, "disambiguate" level: ctrl+shift+letter and
	// friends get a CSI u encoding instead of colliding with ctrl+letter.
	keyboardProtocolPush = "\033[>1u"
	keyboardProtocolPop  = "\033[<u"
)

// DefaultEscapeTimeout is how long a lone ESC waits for the rest of a sequence.
var DefaultEscapeTimeout = 25 * time.Millisecond

type Terminal struct {
	In  *os.File
	Out io.Writer

	fd       int
	oldState *term.State
	reader   *TimeoutReader
	focused  atomic.Bool
}

// Open puts stdin in raw mode, do `defer t.Close()` to restore the terminal
// upon exit.
func Open(escTimeout time.Duration) (*Terminal, error) {
	t := newTerminal(os.Stdin, os.Stdout, escTimeout)
	if !t.IsTerminal() {
		log.Infof("stdin is not a terminal, reading keys as plain bytes")
		return t, nil
	}
	var err error
	t.oldState, err = term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	_, err = io.WriteString(t.Out, focusReportingOn+keyboardProtocolPush)
	return t, err
}

func newTerminal(in *os.File, out io.Writer, escTimeout time.Duration) *Terminal {
	t := &Terminal{
		In:  in,
		Out: out,
		fd:  safecast.MustConvert[int](in.Fd()),
	}
	t.focused.Store(true) // until told otherwise.
	t.reader = NewTimeoutReader(in, escTimeout)
	return t
}

func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

// Fd is the input file descriptor, also used for window size queries.
func (t *Terminal) Fd() int {
	return t.fd
}

// LoggerSetup makes the fortio logger add the \r raw mode needs.
func (t *Terminal) LoggerSetup() {
	colormode := log.ColorMode()
	log.SetOutput(&CRLFWriter{Out: os.Stderr})
	log.Config.ForceColor = colormode
	log.SetColorMode()
}

// Active is false while the terminal window doesn't have the focus.
func (t *Terminal) Active() bool {
	return t.focused.Load()
}

// Events reads and decodes input until ctx is done or the input fails,
// the error (io.EOF included) is sent on errc before both channels close.
func (t *Terminal) Events(ctx context.Context) (<-chan Event, <-chan error) {
	events := make(chan Event, 64)
	errc := make(chan error, 1)
	go func() {
		defer close(events)
		defer close(errc)
		var dec Decoder
		buf := make([]byte, 1024)
		for ctx.Err() == nil {
			n, err := t.reader.Read(buf)
			if err != nil {
				errc <- err
				return
			}
			// Timeouts (n == 0) mean nothing else is coming for a pending ESC.
			flush := n == 0 || !IsUnix
			for _, ev := range dec.Feed(buf[:n], flush) {
				switch ev.Kind {
				case FocusIn:
					t.focused.Store(true)
				case FocusOut:
					t.focused.Store(false)
				case KeyPress:
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, errc
}

// Close restores the terminal to its original state.
func (t *Terminal) Close() error {
	if t.oldState == nil {
		return nil
	}
	_, _ = io.WriteString(t.Out, keyboardProtocolPop+focusReportingOff)
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	log.SetOutput(os.Stderr)
	return err
}
