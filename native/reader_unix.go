//go:build unix

package native

import (
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// IsUnix is true when reads can time out, which lets a lone ESC be told
// apart from the start of a sequence.
const IsUnix = true

// TimeoutReader reads with select(2) so a read returns (0, nil) when nothing
// came within the timeout.
type TimeoutReader struct {
	fd       int
	tv       unix.Timeval
	blocking bool
	stream   *os.File
}

func NewTimeoutReader(stream *os.File, timeout time.Duration) *TimeoutReader {
	if timeout < 0 {
		panic("Timeout must be greater or equal to 0")
	}
	return &TimeoutReader{
		fd:       safecast.MustConvert[int](stream.Fd()),
		tv:       unix.NsecToTimeval(timeout.Nanoseconds()),
		blocking: timeout == 0,
		stream:   stream,
	}
}

func (tr *TimeoutReader) Read(buf []byte) (int, error) {
	if tr.blocking {
		return tr.stream.Read(buf)
	}
	var readfds unix.FdSet
	readfds.Set(tr.fd)
	tv := tr.tv // select may update it.
	n, err := unix.Select(tr.fd+1, &readfds, nil, nil, &tv)
	if errors.Is(err, syscall.EINTR) {
		// SIGWINCH lands here while waiting for keys.
		log.Debugf("Interrupted select")
		return 0, nil
	}
	if err != nil {
		log.Errf("Select error: %v", err)
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	n, err = unix.Read(tr.fd, buf)
	if n == 0 && err == nil {
		err = io.EOF
	}
	return n, err
}
