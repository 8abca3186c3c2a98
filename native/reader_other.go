//go:build !unix

package native

import (
	"os"
	"time"
)

const IsUnix = false

// TimeoutReader is a plain blocking reader where select isn't available,
// each read is decoded as complete.
type TimeoutReader struct {
	stream *os.File
}

func NewTimeoutReader(stream *os.File, _ time.Duration) *TimeoutReader {
	return &TimeoutReader{stream: stream}
}

func (tr *TimeoutReader) Read(buf []byte) (int, error) {
	return tr.stream.Read(buf)
}
