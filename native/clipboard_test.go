package native_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"fortio.org/webterm"
	"fortio.org/webterm/native"
)

func TestSystemClipboard(t *testing.T) {
	stored := ""
	restore := native.SetClipboardFuncs(
		func() (string, error) { return stored, nil },
		func(s string) error { stored = s; return nil },
	)
	defer restore()
	var osc bytes.Buffer
	c := &native.SystemClipboard{OSC52: &osc}
	if err := c.WriteText(context.Background(), "hello"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got, err := c.ReadText(context.Background())
	if err != nil || got != "hello" {
		t.Errorf("ReadText = %q, %v", got, err)
	}
	if osc.Len() != 0 {
		t.Errorf("OSC52 used while the system clipboard works: %q", osc.String())
	}
}

func TestSystemClipboardOSC52Fallback(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("TMUX", "")
	restore := native.SetClipboardFuncs(
		func() (string, error) { return "", errors.New("no clipboard utilities available") },
		func(string) error { return errors.New("no clipboard utilities available") },
	)
	defer restore()
	var osc bytes.Buffer
	c := &native.SystemClipboard{OSC52: &osc}
	if err := c.WriteText(context.Background(), "hello"); err != nil {
		t.Fatalf("WriteText with OSC52 fallback: %v", err)
	}
	// base64("hello")
	if !strings.Contains(osc.String(), "\x1b]52;c;aGVsbG8=") {
		t.Errorf("OSC52 output %q", osc.String())
	}
	if _, err := c.ReadText(context.Background()); err == nil {
		t.Errorf("ReadText should fail, OSC52 is write only")
	}
	noFallback := &native.SystemClipboard{}
	if err := noFallback.WriteText(context.Background(), "x"); err == nil {
		t.Errorf("WriteText without fallback should fail")
	}
}

func TestSystemClipboardCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &native.SystemClipboard{}
	if _, err := c.ReadText(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadText on canceled ctx = %v", err)
	}
}

func TestPasteThroughSystemClipboard(t *testing.T) {
	restore := native.SetClipboardFuncs(
		func() (string, error) { return "echo hi", nil },
		func(string) error { return nil },
	)
	defer restore()
	var sent []string
	kt := &webterm.KeyTranslator{
		Activity:  webterm.ActivityFunc(func() bool { return true }),
		OnKeys:    func(k string) { sent = append(sent, k) },
		Clipboard: &native.SystemClipboard{},
	}
	if !kt.Handle(context.Background(), webterm.KeyEvent{Key: "V", Ctrl: true}) {
		t.Fatalf("paste not handled")
	}
	kt.Wait()
	if len(sent) != 1 || sent[0] != "echo hi" {
		t.Errorf("sent %q", sent)
	}
}
