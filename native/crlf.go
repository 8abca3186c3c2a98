package native

import (
	"bytes"
	"io"
)

// CRLFWriter is what log output and -dry-run messages go through while the
// terminal is in raw mode, where a bare \n only moves down a line: each \n
// becomes \r\n.
type CRLFWriter struct {
	// Out is the underlying writer to write to.
	Out io.Writer
}

func (w *CRLFWriter) Write(buf []byte) (int, error) {
	return CRLFWrite(w.Out, buf)
}

var crlf = []byte{'\r', '\n'}

// CRLFWrite writes buf to out, a line at a time, with \r added before each
// \n. The count returned is of bytes of buf, not of what reached out. out is
// flushed when it is a FlushWriter, so a log line shows up whole.
func CRLFWrite(out io.Writer, buf []byte) (int, error) {
	n := 0
	for len(buf) > 0 {
		line, rest, found := bytes.Cut(buf, crlf[1:])
		if len(line) > 0 {
			nn, err := out.Write(line)
			n += nn
			if err != nil {
				return n, err
			}
		}
		if found {
			if _, err := out.Write(crlf); err != nil {
				return n, err
			}
			n++
		}
		buf = rest
	}
	if f, ok := out.(FlushWriter); ok {
		return n, f.Flush()
	}
	return n, nil
}

type FlushWriter interface {
	io.Writer
	Flush() error
}
