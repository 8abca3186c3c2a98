//go:build js && wasm

package dom

import (
	"errors"
	"syscall/js"

	"fortio.org/log"
	"fortio.org/webterm"
)

// WebSocket.readyState values.
const (
	wsConnecting = 0
	wsOpen       = 1
)

var ErrSocketNotOpen = errors.New("websocket not open")

// Socket is the page's WebSocket to the session.
type Socket struct {
	WS js.Value
}

func (s Socket) Send(data []byte) error {
	if state := s.WS.Get("readyState").Int(); state != wsOpen {
		return ErrSocketNotOpen
	}
	s.WS.Call("send", string(data))
	return nil
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

// Attachment is a session bound to a tab, Detach removes the listeners.
type Attachment struct {
	Session   *webterm.Session
	listeners []listener
}

func (a *Attachment) listen(target js.Value, event string, fn func(e js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(firstArg(args))
		return nil
	})
	target.Call("addEventListener", event, f)
	a.listeners = append(a.listeners, listener{target, event, f})
}

func keyEvent(e js.Value) webterm.KeyEvent {
	return webterm.KeyEvent{Key: e.Get("key").String(), Ctrl: e.Get("ctrlKey").Bool()}
}

// Attach creates the session for tab and starts listening to keys and
// resizes. The first size is sent as soon as socket is open.
func Attach(id string, tab, socket js.Value, cfg webterm.Config, cells webterm.CellMetrics) *Attachment {
	t := Tab{El: tab}
	s := webterm.NewSession(id, webterm.SessionOptions{
		Config:    cfg,
		Channel:   Socket{WS: socket},
		Activity:  t,
		Surface:   &Surface{Tab: t},
		Selection: webterm.SelectionFunc(SelectedText),
		Clipboard: Clipboard{},
		OnEnter:   ScrollToBottom(tab),
	})
	a := &Attachment{Session: s}
	win := js.Global()
	a.listen(win.Get("document"), "keydown", func(e js.Value) {
		if s.HandleKey(keyEvent(e)) {
			e.Call("preventDefault")
		}
	})
	a.listen(win, "resize", func(js.Value) {
		_ = s.Resize()
	})
	start := func() {
		if err := s.Start(cells); err != nil {
			log.Errf("Session %s: %v", id, err)
		}
	}
	if socket.Get("readyState").Int() == wsConnecting {
		a.listen(socket, "open", func(js.Value) { start() })
	} else {
		start()
	}
	return a
}

// Detach removes the listeners and closes the session.
func (a *Attachment) Detach() {
	for _, l := range a.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	a.listeners = nil
	// Close waits on pending clipboard goroutines, not from a JS callback.
	go a.Session.Close()
}
