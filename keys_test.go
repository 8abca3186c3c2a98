package webterm_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"fortio.org/log"
	"fortio.org/webterm"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeClipboard struct {
	text    string
	err     error
	mu      sync.Mutex
	written []string
}

func (c *fakeClipboard) ReadText(_ context.Context) (string, error) {
	return c.text, c.err
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	c.written = append(c.written, text)
	c.mu.Unlock()
	return c.err
}

func (c *fakeClipboard) writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

func newTranslator(active bool, rec *recorder) *webterm.KeyTranslator {
	return &webterm.KeyTranslator{
		Activity: webterm.ActivityFunc(func() bool { return active }),
		OnKeys:   func(keys string) { rec.add("keys:" + keys) },
		OnEnter:  func() { rec.add("enter") },
	}
}

func TestPlainKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"Enter", "\n"},
		{"Tab", "\t"},
		{"ArrowUp", "\x1b[A"},
		{"ArrowDown", "\x1b[B"},
		{"ArrowLeft", "\x1b[D"},
		{"ArrowRight", "\x1b[C"},
		{"Backspace", "\b"},
		{"Escape", "\x1b"},
		{"a", "a"},
		{"Z", "Z"},
		{" ", " "},
		{"~", "~"},
		{"\u00e9", "\u00e9"},
		{"e\u0301", "e\u0301"}, // combining accent, still one character.
		{"🇫🇷", "🇫🇷"},
	}
	for _, tt := range tests {
		rec := &recorder{}
		kt := newTranslator(true, rec)
		if !kt.Handle(context.Background(), webterm.KeyEvent{Key: tt.key}) {
			t.Errorf("Handle(%q) = false, want true", tt.key)
			continue
		}
		got := rec.get()
		if len(got) == 0 || got[0] != "keys:"+tt.want {
			t.Errorf("Handle(%q) sent %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestUnhandledPlainKeys(t *testing.T) {
	for _, key := range []string{"Shift", "Control", "F1", "PageUp", "Delete", "", "ab", "\t", "\x00"} {
		rec := &recorder{}
		kt := newTranslator(true, rec)
		if kt.Handle(context.Background(), webterm.KeyEvent{Key: key}) {
			t.Errorf("Handle(%q) = true, want false", key)
		}
		if got := rec.get(); len(got) != 0 {
			t.Errorf("Handle(%q) sent %q, want nothing", key, got)
		}
	}
}

func TestCtrlKeys(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		handled bool
	}{
		{"a", "\x01", true},
		{"e", "\x05", true},
		{"c", "\x03", true},
		{"z", "\x1a", true},
		{"b", "", false},
		{"r", "", false}, // browser refresh must keep working.
		{"v", "", false},
		{"Enter", "", false},
		{"A", "", false},
	}
	for _, tt := range tests {
		rec := &recorder{}
		kt := newTranslator(true, rec)
		got := kt.Handle(context.Background(), webterm.KeyEvent{Key: tt.key, Ctrl: true})
		if got != tt.handled {
			t.Errorf("Handle(ctrl+%q) = %t, want %t", tt.key, got, tt.handled)
		}
		sent := rec.get()
		if !tt.handled {
			if len(sent) != 0 {
				t.Errorf("Handle(ctrl+%q) sent %q, want nothing", tt.key, sent)
			}
			continue
		}
		if len(sent) != 1 || sent[0] != "keys:"+tt.want {
			t.Errorf("Handle(ctrl+%q) sent %q, want %q", tt.key, sent, tt.want)
		}
	}
}

func TestEnterOrder(t *testing.T) {
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.Handle(context.Background(), webterm.KeyEvent{Key: "Enter"})
	got := strings.Join(rec.get(), ",")
	if got != "keys:\n,enter" {
		t.Errorf("Enter events = %q, want keys then enter", got)
	}
}

func TestInactiveIsInert(t *testing.T) {
	clip := &fakeClipboard{text: "abc"}
	events := []webterm.KeyEvent{
		{Key: "Enter"}, {Key: "a"}, {Key: "ArrowUp"},
		{Key: "c", Ctrl: true}, {Key: "V", Ctrl: true}, {Key: "C", Ctrl: true},
	}
	for _, active := range []webterm.Activity{nil, webterm.ActivityFunc(func() bool { return false })} {
		rec := &recorder{}
		kt := newTranslator(false, rec)
		kt.Activity = active
		kt.Clipboard = clip
		kt.Selection = webterm.SelectionFunc(func() (string, bool) { return "sel", true })
		for _, ev := range events {
			if kt.Handle(context.Background(), ev) {
				t.Errorf("inactive Handle(%+v) = true", ev)
			}
		}
		kt.Wait()
		if got := rec.get(); len(got) != 0 {
			t.Errorf("inactive translator called back: %q", got)
		}
	}
	if w := clip.writes(); len(w) != 0 {
		t.Errorf("inactive translator wrote clipboard: %q", w)
	}
}

func TestHistory(t *testing.T) {
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.History = webterm.NewHistory(3)
	for _, k := range []string{"l", "s", "Enter", "ArrowUp", "x", "y"} {
		kt.Handle(context.Background(), webterm.KeyEvent{Key: k})
	}
	kt.Handle(context.Background(), webterm.KeyEvent{Key: "a", Ctrl: true})
	if got := kt.History.String(); got != "sxy" {
		t.Errorf("History = %q, want %q", got, "sxy")
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return buf
}

func TestPasteSuccess(t *testing.T) {
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.Clipboard = &fakeClipboard{text: "abc"}
	if !kt.Handle(context.Background(), webterm.KeyEvent{Key: "V", Ctrl: true}) {
		t.Fatalf("paste not handled")
	}
	kt.Wait()
	got := rec.get()
	if len(got) != 1 || got[0] != "keys:abc" {
		t.Errorf("paste sent %q, want exactly one abc", got)
	}
}

func TestPasteFailure(t *testing.T) {
	buf := captureLog(t)
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.Clipboard = &fakeClipboard{err: errors.New("permission denied")}
	if !kt.Handle(context.Background(), webterm.KeyEvent{Key: "V", Ctrl: true}) {
		t.Fatalf("paste not handled")
	}
	kt.Wait()
	if got := rec.get(); len(got) != 0 {
		t.Errorf("failed paste sent %q", got)
	}
	if n := strings.Count(buf.String(), "Failed to read clipboard contents"); n != 1 {
		t.Errorf("got %d log entries for the failure, want 1: %q", n, buf.String())
	}
}

func TestPasteNoClipboard(t *testing.T) {
	rec := &recorder{}
	kt := newTranslator(true, rec)
	if kt.Handle(context.Background(), webterm.KeyEvent{Key: "V", Ctrl: true}) {
		t.Errorf("paste without clipboard should be left to the platform")
	}
}

func TestCopy(t *testing.T) {
	clip := &fakeClipboard{}
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.Clipboard = clip
	selected := ""
	kt.Selection = webterm.SelectionFunc(func() (string, bool) { return selected, selected != "" })
	if kt.Handle(context.Background(), webterm.KeyEvent{Key: "C", Ctrl: true}) {
		t.Errorf("copy with no selection was handled")
	}
	kt.Wait()
	if w := clip.writes(); len(w) != 0 {
		t.Errorf("copy with no selection wrote %q", w)
	}
	empty := true
	kt.Selection = webterm.SelectionFunc(func() (string, bool) {
		if empty {
			return "", true
		}
		return selected, selected != ""
	})
	if !kt.Handle(context.Background(), webterm.KeyEvent{Key: "C", Ctrl: true}) {
		t.Errorf("copy with an empty selection range should be consumed")
	}
	kt.Wait()
	if w := clip.writes(); len(w) != 0 {
		t.Errorf("copy of an empty selection wrote %q", w)
	}
	empty = false
	selected = "some text"
	if !kt.Handle(context.Background(), webterm.KeyEvent{Key: "C", Ctrl: true}) {
		t.Errorf("copy with selection not handled")
	}
	kt.Wait()
	if w := clip.writes(); len(w) != 1 || w[0] != "some text" {
		t.Errorf("copy wrote %q", w)
	}
	if got := rec.get(); len(got) != 0 {
		t.Errorf("copy sent keys %q", got)
	}
}

func TestCopyFailureLogged(t *testing.T) {
	buf := captureLog(t)
	rec := &recorder{}
	kt := newTranslator(true, rec)
	kt.Clipboard = &fakeClipboard{err: errors.New("no display")}
	kt.Selection = webterm.SelectionFunc(func() (string, bool) { return "x", true })
	kt.Handle(context.Background(), webterm.KeyEvent{Key: "C", Ctrl: true})
	kt.Wait()
	if !strings.Contains(buf.String(), "Failed to write clipboard contents") {
		t.Errorf("copy failure not logged: %q", buf.String())
	}
}

func TestLookup(t *testing.T) {
	a, ok := webterm.Lookup(webterm.KeyEvent{Key: "C", Ctrl: true})
	if !ok || a.Kind != webterm.ActionCopy {
		t.Errorf("Lookup(ctrl+C) = %v %t", a, ok)
	}
	a, ok = webterm.Lookup(webterm.KeyEvent{Key: "V", Ctrl: true})
	if !ok || a.Kind != webterm.ActionPaste {
		t.Errorf("Lookup(ctrl+V) = %v %t", a, ok)
	}
	a, ok = webterm.Lookup(webterm.KeyEvent{Key: "Enter"})
	if !ok || !a.Enter || a.Kind.String() != "send" {
		t.Errorf("Lookup(Enter) = %+v %t", a, ok)
	}
}
