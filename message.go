package webterm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types on the session channel.
const (
	TypeKeyboard = "keyboard"
	TypeSize     = "size"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Message is either a *KeyboardMessage or a *SizeMessage.
type Message interface {
	MessageType() string
}

// KeyboardMessage carries translated keys (or pasted text) to the remote.
type KeyboardMessage struct {
	Type string `json:"type"`
	Keys string `json:"keys"`
}

func NewKeyboardMessage(keys string) *KeyboardMessage {
	return &KeyboardMessage{Type: TypeKeyboard, Keys: keys}
}

func (m *KeyboardMessage) MessageType() string { return TypeKeyboard }

// SizeMessage tells the remote the new character grid.
type SizeMessage struct {
	Type    string `json:"type"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

func NewSizeMessage(columns, rows int) *SizeMessage {
	return &SizeMessage{Type: TypeSize, Columns: columns, Rows: rows}
}

func (m *SizeMessage) MessageType() string { return TypeSize }

// Encode serializes a message for the channel.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// envelope is used to peek at the type before decoding the rest.
type envelope struct {
	Type string `json:"type"`
}

// ParseMessage decodes a message received on the remote end of the channel.
func ParseMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	var m Message
	switch env.Type {
	case TypeKeyboard:
		m = &KeyboardMessage{}
	case TypeSize:
		m = &SizeMessage{}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding %s message: %w", env.Type, err)
	}
	if s, ok := m.(*SizeMessage); ok && (s.Columns < 0 || s.Rows < 0) {
		return nil, fmt.Errorf("invalid size %dx%d", s.Columns, s.Rows)
	}
	return m, nil
}

// Channel is the bidirectional session channel, only the sending half is
// needed here.
type Channel interface {
	Send(data []byte) error
}

// ChannelFunc adapts a function to the Channel interface.
type ChannelFunc func(data []byte) error

func (f ChannelFunc) Send(data []byte) error {
	return f(data)
}
