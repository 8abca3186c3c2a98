package native

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// WSChannel is the message channel to the remote session over a websocket.
type WSChannel struct {
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time.
}

// Dial connects to the session websocket at url.
func Dial(ctx context.Context, url string) (*WSChannel, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (http status %s)", url, err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	log.Infof("Connected to %s", url)
	return &WSChannel{conn: conn}, nil
}

func (c *WSChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// CopyTo writes every message received to out until the connection ends.
// A normal close returns nil.
func (c *WSChannel) CopyTo(out io.Writer) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if _, err = out.Write(data); err != nil {
			return err
		}
	}
}

// Close sends a close frame and closes the connection.
func (c *WSChannel) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.mu.Unlock()
	return c.conn.Close()
}

// WriterChannel writes each message on its own line, for -dry-run.
type WriterChannel struct {
	Out io.Writer
}

func (w WriterChannel) Send(data []byte) error {
	_, err := fmt.Fprintf(w.Out, "%s\n", data)
	return err
}
