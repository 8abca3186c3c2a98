// Package remote is the receiving end of a webterm session: it applies
// keyboard and size messages to a pseudo terminal running a shell and
// streams the shell output back. Used by the webtermd dev server.
package remote // import "fortio.org/webterm/remote"

import (
	"fmt"
	"io"

	"fortio.org/log"
	"fortio.org/webterm"
)

// PTY is what a Bridge drives: keys are written to it and size messages
// resize it.
type PTY interface {
	io.Writer
	Resize(columns, rows int) error
}

type Bridge struct {
	PTY PTY
	// Grid is the last size applied, zero until the first size message.
	Grid webterm.Grid
}

// Apply decodes one message from the client and applies it.
func (b *Bridge) Apply(data []byte) error {
	m, err := webterm.ParseMessage(data)
	if err != nil {
		return err
	}
	switch m := m.(type) {
	case *webterm.KeyboardMessage:
		if m.Keys == "" {
			return nil
		}
		_, err = io.WriteString(b.PTY, m.Keys)
		return err
	case *webterm.SizeMessage:
		if m.Columns == 0 || m.Rows == 0 {
			log.LogVf("Ignoring empty size %dx%d", m.Columns, m.Rows)
			return nil
		}
		if err = b.PTY.Resize(m.Columns, m.Rows); err != nil {
			return fmt.Errorf("resize to %dx%d: %w", m.Columns, m.Rows, err)
		}
		b.Grid.Columns, b.Grid.Rows = m.Columns, m.Rows
		return nil
	default:
		return fmt.Errorf("%w %T", webterm.ErrUnknownMessage, m)
	}
}
