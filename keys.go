// Package webterm turns browser keyboard events into the bytes a remote
// terminal program expects and keeps the remote side informed of the
// character grid that fits the terminal's display surface.
package webterm // import "fortio.org/webterm"

import (
	"context"
	"sync"
	"unicode"

	"fortio.org/log"
	"github.com/rivo/uniseg"
)

// Sequences sent to the remote program.
const (
	Esc         = "\x1b"
	CursorUp    = "\x1b[A"
	CursorDown  = "\x1b[B"
	CursorRight = "\x1b[C"
	CursorLeft  = "\x1b[D"

	CtrlA = "\x01"
	CtrlC = "\x03" // ETX, what the remote tty turns into SIGINT.
	CtrlE = "\x05"
	CtrlZ = "\x1a"
)

// KeyEvent is one raw key press as reported by the front-end.
// Key is either a named key ("Enter", "ArrowUp"...) or a single
// printable character, same as the DOM KeyboardEvent.key property.
type KeyEvent struct {
	Key  string
	Ctrl bool
}

type ActionKind int

const (
	// ActionNone means the key isn't ours, default handling applies.
	ActionNone ActionKind = iota
	// ActionSend sends Action.Keys to the remote session.
	ActionSend
	// ActionCopy copies the current selection to the clipboard.
	ActionCopy
	// ActionPaste sends the clipboard content to the remote session.
	ActionPaste
)

func (k ActionKind) String() string {
	switch k {
	case ActionSend:
		return "send"
	case ActionCopy:
		return "copy"
	case ActionPaste:
		return "paste"
	default:
		return "none"
	}
}

// Action is what a key resolves to.
type Action struct {
	Kind ActionKind
	Keys string
	// Enter is set for the Enter key, which also scrolls the surface to the bottom.
	Enter bool
}

// plainKeys is used when control isn't pressed. Single printable characters
// are not listed, they go through as is.
var plainKeys = map[string]Action{
	"Enter":      {Kind: ActionSend, Keys: "\n", Enter: true},
	"Tab":        {Kind: ActionSend, Keys: "\t"},
	"ArrowUp":    {Kind: ActionSend, Keys: CursorUp},
	"ArrowDown":  {Kind: ActionSend, Keys: CursorDown},
	"ArrowLeft":  {Kind: ActionSend, Keys: CursorLeft},
	"ArrowRight": {Kind: ActionSend, Keys: CursorRight},
	"Backspace":  {Kind: ActionSend, Keys: "\b"},
	"Escape":     {Kind: ActionSend, Keys: Esc},
}

// ctrlKeys is used while control is held. Case matters: the browser reports
// shift+ctrl+c as "C", which is how copy/paste stay distinct from ^C.
var ctrlKeys = map[string]Action{
	"a": {Kind: ActionSend, Keys: CtrlA},
	"e": {Kind: ActionSend, Keys: CtrlE},
	"c": {Kind: ActionSend, Keys: CtrlC},
	"z": {Kind: ActionSend, Keys: CtrlZ},
	"C": {Kind: ActionCopy},
	"V": {Kind: ActionPaste},
}

// Lookup resolves a key event to an action without any side effect.
// The second return value is false when the event should be left alone.
func Lookup(ev KeyEvent) (Action, bool) {
	if ev.Ctrl {
		a, ok := ctrlKeys[ev.Key]
		return a, ok
	}
	if a, ok := plainKeys[ev.Key]; ok {
		return a, true
	}
	if IsPrintable(ev.Key) {
		return Action{Kind: ActionSend, Keys: ev.Key}, true
	}
	return Action{}, false
}

// IsPrintable returns true if s is exactly one user perceived character
// (grapheme cluster) and contains no control code points. So "é" written
// with a combining accent or a flag emoji count as one character, while
// "Enter" or "\t" do not.
func IsPrintable(s string) bool {
	if s == "" || uniseg.GraphemeClusterCount(s) != 1 {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return false
		}
	}
	return true
}

// Activity reports whether the surface a translator is bound to is the one
// the user is currently interacting with (tab active and its toggle on).
type Activity interface {
	Active() bool
}

// ActivityFunc adapts a plain function to the Activity interface.
type ActivityFunc func() bool

func (f ActivityFunc) Active() bool {
	return f()
}

// KeyTranslator decides for each key event whether it is addressed to its
// surface and if so produces the payload for the remote session.
// It is meant to be driven from a single (UI) goroutine; only clipboard
// completions happen on other goroutines, see Wait.
type KeyTranslator struct {
	// Activity gates everything, nil means never active.
	Activity Activity
	// OnKeys receives the payload to send. Called from the event goroutine
	// except for pastes which complete later on their own goroutine.
	OnKeys func(keys string)
	// OnEnter is called after OnKeys("\n") for the Enter key, typically to
	// keep the surface scrolled to the bottom if it already was.
	OnEnter func()
	// Selection and Clipboard are needed for copy/paste, when nil those
	// combos are left unhandled.
	Selection Selection
	Clipboard Clipboard
	// History, if set, records typed printable characters.
	History *History

	wg sync.WaitGroup
}

// Handle processes one key event. It returns true if the event was consumed,
// in which case the caller should suppress the platform default (e.g.
// preventDefault() in the browser). ctx bounds clipboard operations started
// by the event.
func (kt *KeyTranslator) Handle(ctx context.Context, ev KeyEvent) bool {
	if kt.Activity == nil || !kt.Activity.Active() {
		return false
	}
	a, ok := Lookup(ev)
	if !ok {
		log.Debugf("Unhandled key %q ctrl=%t", ev.Key, ev.Ctrl)
		return false
	}
	switch a.Kind {
	case ActionSend:
		kt.send(a.Keys)
		if a.Enter && kt.OnEnter != nil {
			kt.OnEnter()
		}
		if !ev.Ctrl && !a.Enter && kt.History != nil && IsPrintable(ev.Key) {
			kt.History.Add(ev.Key)
		}
		return true
	case ActionCopy:
		return kt.copySelection(ctx)
	case ActionPaste:
		return kt.paste(ctx)
	default:
		return false
	}
}

func (kt *KeyTranslator) send(keys string) {
	if kt.OnKeys == nil {
		return
	}
	kt.OnKeys(keys)
}

func (kt *KeyTranslator) copySelection(ctx context.Context) bool {
	if kt.Selection == nil || kt.Clipboard == nil {
		return false
	}
	text, ok := kt.Selection.SelectedText()
	if !ok {
		log.LogVf("Copy requested with no selection")
		return false
	}
	if text == "" {
		// Collapsed selection: consumed so the combo doesn't fall through.
		return true
	}
	task := StartCopy(ctx, kt.Clipboard, text)
	kt.track(task, "write", nil)
	return true
}

func (kt *KeyTranslator) paste(ctx context.Context) bool {
	if kt.Clipboard == nil {
		return false
	}
	task := StartPaste(ctx, kt.Clipboard)
	kt.track(task, "read", func(text string) {
		if text == "" {
			log.LogVf("Empty clipboard, nothing to paste")
			return
		}
		kt.send(text)
	})
	return true
}

// track waits for task on its own goroutine and reports failures to the log.
// The completion may run after later key events were already handled.
func (kt *KeyTranslator) track(task *ClipboardTask, op string, onSuccess func(string)) {
	kt.wg.Add(1)
	go func() {
		defer kt.wg.Done()
		text, err := task.Wait()
		if err != nil {
			if task.Canceled() {
				log.LogVf("Clipboard %s canceled", op)
				return
			}
			log.Errf("Failed to %s clipboard contents: %v", op, err)
			return
		}
		if onSuccess != nil {
			onSuccess(text)
		}
	}()
}

// Wait blocks until all clipboard operations started so far have completed
// and their callbacks have run.
func (kt *KeyTranslator) Wait() {
	kt.wg.Wait()
}
