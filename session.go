package webterm

import (
	"context"
	"sync"

	"fortio.org/log"
)

// SessionOptions are the collaborators a Session is wired to.
type SessionOptions struct {
	Config    Config
	Channel   Channel
	Activity  Activity
	Surface   Surface
	Selection Selection
	Clipboard Clipboard
	// OnEnter is called after Enter was sent, e.g. to scroll to the bottom.
	OnEnter func()
}

// Session binds one KeyTranslator and one GridSizer to one display surface
// and forwards what they produce to the remote session as messages.
type Session struct {
	ID      string
	Keys    *KeyTranslator
	Sizer   *GridSizer
	History *History

	ch     Channel
	mu     sync.Mutex // serializes sends, pastes complete on other goroutines.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession wires the translator and sizer, Start must be called to send
// the initial size.
func NewSession(id string, o SessionOptions) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      id,
		ch:      o.Channel,
		History: NewHistory(o.Config.History),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.Keys = &KeyTranslator{
		Activity:  o.Activity,
		OnKeys:    s.SendKeys,
		OnEnter:   o.OnEnter,
		Selection: o.Selection,
		Clipboard: o.Clipboard,
		History:   s.History,
	}
	s.Sizer = NewGridSizer(o.Surface, o.Config, s.sendSize)
	return s
}

// Start sets the probed cell metrics and reports the initial grid.
func (s *Session) Start(cells CellMetrics) error {
	s.Sizer.SetCellMetrics(cells)
	_, err := s.Sizer.Recompute()
	return err
}

// HandleKey translates a key event, returns true if it was consumed.
func (s *Session) HandleKey(ev KeyEvent) bool {
	return s.Keys.Handle(s.ctx, ev)
}

// Resize is to be called on every resize event of the window/terminal.
func (s *Session) Resize() error {
	changed, err := s.Sizer.Recompute()
	if err != nil {
		log.Errf("Session %s: resize: %v", s.ID, err)
		return err
	}
	if changed {
		g, _ := s.Sizer.Grid()
		log.LogVf("Session %s: grid now %v", s.ID, g)
	}
	return nil
}

// SendKeys sends a keyboard message. Errors are logged, the keys are dropped.
func (s *Session) SendKeys(keys string) {
	s.send(NewKeyboardMessage(keys))
}

func (s *Session) sendSize(g Grid) {
	s.send(NewSizeMessage(g.Columns, g.Rows))
}

func (s *Session) send(m Message) {
	data, err := Encode(m)
	if err != nil {
		log.Errf("Session %s: encoding %s message: %v", s.ID, m.MessageType(), err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		log.Warnf("Session %s: no channel, dropping %s message", s.ID, m.MessageType())
		return
	}
	if err := s.ch.Send(data); err != nil {
		log.Errf("Session %s: sending %s message: %v", s.ID, m.MessageType(), err)
	}
}

// Close cancels pending clipboard operations and waits for them to finish.
func (s *Session) Close() {
	s.cancel()
	s.Keys.Wait()
}
