package native

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"fortio.org/log"
	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

var (
	clipboardReadAll  = clipboard.ReadAll
	clipboardWriteAll = clipboard.WriteAll
	// clipboardMu serializes atotto calls, the primary selection toggles
	// package state.
	clipboardMu sync.Mutex
)

// SystemClipboard is the desktop clipboard. Writes fall back to an OSC 52
// sequence on OSC52 when no clipboard helper works (ssh, no display), the
// terminal then sets its own clipboard.
type SystemClipboard struct {
	OSC52 io.Writer
}

func (c *SystemClipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clipboardMu.Lock()
	defer clipboardMu.Unlock()
	return clipboardReadAll()
}

func (c *SystemClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clipboardMu.Lock()
	err := clipboardWriteAll(text)
	clipboardMu.Unlock()
	if err == nil {
		return nil
	}
	if c.OSC52 == nil || missingTerm() {
		return err
	}
	if oscErr := writeOSC52(c.OSC52, text); oscErr != nil {
		return fmt.Errorf("system clipboard failed: %w; OSC52 fallback failed: %w", err, oscErr)
	}
	log.LogVf("System clipboard unavailable (%v), copied using OSC52", err)
	return nil
}

func missingTerm() bool {
	name := strings.TrimSpace(os.Getenv("TERM"))
	return name == "" || strings.EqualFold(name, "dumb")
}

func writeOSC52(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		// Plain and wrapped, tmux may or may not pass it through.
		if _, err := seq.WriteTo(w); err != nil {
			return err
		}
		_, err := seq.Tmux().WriteTo(w)
		return err
	case strings.HasPrefix(strings.ToLower(os.Getenv("TERM")), "screen"):
		_, err := seq.Screen().WriteTo(w)
		return err
	}
	_, err := seq.WriteTo(w)
	return err
}
