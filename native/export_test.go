package native

import (
	"io"
	"os"
	"time"
)

// SetClipboardFuncs swaps the system clipboard access for tests, returns a
// function restoring the real one.
func SetClipboardFuncs(read func() (string, error), write func(string) error) func() {
	oldRead, oldWrite := clipboardReadAll, clipboardWriteAll
	clipboardReadAll, clipboardWriteAll = read, write
	return func() {
		clipboardReadAll, clipboardWriteAll = oldRead, oldWrite
	}
}

func NewTestTerminal(in *os.File, out io.Writer, escTimeout time.Duration) *Terminal {
	return newTerminal(in, out, escTimeout)
}
