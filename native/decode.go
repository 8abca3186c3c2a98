package native

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/log"
	"fortio.org/webterm"
	"github.com/rivo/uniseg"
)

type EventKind int

const (
	KeyPress EventKind = iota
	FocusIn
	FocusOut
)

// Event is a decoded piece of terminal input.
type Event struct {
	Kind EventKind
	Key  webterm.KeyEvent
}

// QuitKey (ctrl+]) ends the native client, like telnet's escape.
var QuitKey = webterm.KeyEvent{Key: "]", Ctrl: true}

// maxSequence bounds how long an unterminated escape sequence is buffered.
const maxSequence = 32

// Decoder turns raw terminal bytes into key events named the way a browser
// names them ("Enter", "ArrowUp", "a", ...) so they go through the same
// translation table. It keeps incomplete sequences and UTF-8 between Feed calls.
type Decoder struct {
	pending []byte
}

// Feed decodes what it can of the pending bytes plus data. With flush set an
// incomplete trailing sequence is resolved instead of kept, a lone ESC
// becoming the Escape key.
func (d *Decoder) Feed(data []byte, flush bool) []Event {
	d.pending = append(d.pending, data...)
	var events []Event
	buf := d.pending
	for len(buf) > 0 {
		ev, n := decodeOne(buf)
		if n == 0 {
			if !flush {
				break
			}
			if buf[0] == webterm.Esc[0] {
				// Nothing more coming: ESC was pressed on its own.
				ev, n = keyEvent("Escape"), 1
			} else {
				log.LogVf("Dropping incomplete input %q", buf)
				buf = nil
				break
			}
		}
		if ev != nil {
			events = append(events, *ev)
		}
		buf = buf[n:]
	}
	d.pending = append(d.pending[:0], buf...)
	return events
}

// Pending is the number of bytes held for the next Feed.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

func keyEvent(key string) *Event {
	return &Event{Kind: KeyPress, Key: webterm.KeyEvent{Key: key}}
}

func ctrlEvent(key string) *Event {
	return &Event{Kind: KeyPress, Key: webterm.KeyEvent{Key: key, Ctrl: true}}
}

// decodeOne returns the first event in buf and how many bytes it used, 0
// meaning more input is needed. A nil event with n > 0 is skipped input.
func decodeOne(buf []byte) (*Event, int) {
	c := buf[0]
	switch {
	case c == 0x1b:
		return decodeEscape(buf)
	case c == '\r':
		if len(buf) > 1 && buf[1] == '\n' {
			return keyEvent("Enter"), 2
		}
		return keyEvent("Enter"), 1
	case c == '\n':
		return keyEvent("Enter"), 1
	case c == '\t':
		return keyEvent("Tab"), 1
	case c == 0x7f || c == 0x08:
		return keyEvent("Backspace"), 1
	case c == 0:
		return nil, 1
	case c <= 0x1a:
		return ctrlEvent(string(rune('a' + c - 1))), 1
	case c < 0x20:
		// 0x1c-0x1f are ctrl with \ ] ^ _
		return ctrlEvent(string(rune('\\' + c - 0x1c))), 1
	}
	if !utf8.FullRune(buf) {
		return nil, 0
	}
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(buf, -1)
	if !utf8.Valid(cluster) {
		log.LogVf("Skipping invalid UTF-8 %q", cluster)
		return nil, len(cluster)
	}
	// A cluster ending the buffer might still grow (combining marks), it is
	// emitted anyway: terminals send a composed character in a single write.
	return keyEvent(string(cluster)), len(cluster)
}

var csiArrows = map[byte]string{
	'A': "ArrowUp",
	'B': "ArrowDown",
	'C': "ArrowRight",
	'D': "ArrowLeft",
	'H': "Home",
	'F': "End",
}

var tildeKeys = map[string]string{
	"1": "Home",
	"2": "Insert",
	"3": "Delete",
	"4": "End",
	"5": "PageUp",
	"6": "PageDown",
}

func decodeEscape(buf []byte) (*Event, int) {
	if len(buf) < 2 {
		return nil, 0
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return nil, 0
		}
		if name, ok := csiArrows[buf[2]]; ok {
			return keyEvent(name), 3
		}
		return nil, 3
	}
	// Alt+key: the ESC goes out first, the key follows on its own.
	return keyEvent("Escape"), 1
}

func decodeCSI(buf []byte) (*Event, int) {
	end := -1
	for i := 2; i < len(buf) && i < maxSequence; i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		if len(buf) >= maxSequence {
			log.LogVf("Skipping overlong escape sequence %q", buf[:maxSequence])
			return nil, maxSequence
		}
		return nil, 0
	}
	n := end + 1
	params := string(buf[2:end])
	final := buf[end]
	switch final {
	case 'I':
		if params == "" {
			return &Event{Kind: FocusIn}, n
		}
	case 'O':
		if params == "" {
			return &Event{Kind: FocusOut}, n
		}
	case 'u':
		return decodeCSIu(params), n
	case '~':
		code, mods, _ := strings.Cut(params, ";")
		if name, ok := tildeKeys[code]; ok {
			ev := keyEvent(name)
			ev.Key.Ctrl = modifiers(mods)&modCtrl != 0
			return ev, n
		}
	default:
		if name, ok := csiArrows[final]; ok {
			ev := keyEvent(name)
			if _, mods, found := strings.Cut(params, ";"); found {
				ev.Key.Ctrl = modifiers(mods)&modCtrl != 0
			}
			return ev, n
		}
	}
	log.Debugf("Ignoring escape sequence %q", buf[:n])
	return nil, n
}

const (
	modShift = 1 << iota
	modAlt
	modCtrl
)

// modifiers decodes the xterm/kitty "1 + bitmask" modifier parameter.
func modifiers(s string) int {
	s, _, _ = strings.Cut(s, ":") // kitty event type.
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0
	}
	return v - 1
}

var csiUKeys = map[int]string{
	9:   "Tab",
	13:  "Enter",
	27:  "Escape",
	127: "Backspace",
}

// decodeCSIu handles the kitty keyboard protocol "code[:alternates];mods u".
func decodeCSIu(params string) *Event {
	codePart, mods, _ := strings.Cut(params, ";")
	codePart, _, _ = strings.Cut(codePart, ":")
	code, err := strconv.Atoi(codePart)
	if err != nil || code <= 0 || !utf8.ValidRune(rune(code)) {
		log.LogVf("Bad CSI u key code %q", params)
		return nil
	}
	m := modifiers(mods)
	name, ok := csiUKeys[code]
	if !ok {
		name = string(rune(code))
		if m&modShift != 0 {
			name = strings.ToUpper(name)
		}
	}
	ev := keyEvent(name)
	ev.Key.Ctrl = m&modCtrl != 0
	return ev
}
