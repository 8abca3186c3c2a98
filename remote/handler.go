package remote

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	// MaxMessageSize bounds one client message, larger ones close the session.
	MaxMessageSize = 8192
)

// Handler serves GET /session/{id}: each websocket gets its own shell.
type Handler struct {
	// Shell to run, $SHELL or /bin/sh when empty.
	Shell    string
	Upgrader websocket.Upgrader
}

func (h *Handler) shell() string {
	if h.Shell != "" {
		return h.Shell
	}
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errf("Session %s: upgrade failed: %v", id, err)
		return
	}
	defer conn.Close()
	sh, err := StartShell(h.shell())
	if err != nil {
		log.Errf("Session %s: starting shell: %v", id, err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "shell failed"))
		return
	}
	defer sh.Close()
	log.S(log.Info, "Session attached", log.Any("id", id), log.Any("remote", conn.RemoteAddr().String()))
	Serve(conn, sh)
	log.S(log.Info, "Session detached", log.Any("id", id))
}

// wsConn is the part of a websocket connection Serve needs.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
}

// Serve copies the pty output to the websocket as binary messages and
// applies incoming messages to the pty until either side ends.
func Serve(c wsConn, p interface {
	PTY
	io.Reader
}) {
	// A client gone without a close is noticed when its pongs stop.
	c.SetReadLimit(MaxMessageSize)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	var mu sync.Mutex // gorilla supports a single concurrent writer.
	write := func(kind int, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		return c.WriteMessage(kind, data)
	}
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(done)
		buf := make([]byte, 4096)
		for {
			n, err := p.Read(buf)
			if n > 0 {
				if werr := write(websocket.BinaryMessage, buf[:n]); werr != nil {
					log.LogVf("Websocket write: %v", werr)
					return
				}
			}
			if err != nil {
				log.LogVf("PTY read: %v", err)
				_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "exited"))
				return
			}
		}
	}()
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-stop:
				return
			case <-ticker.C:
				mu.Lock()
				err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()
	b := &Bridge{PTY: p}
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				log.Warnf("Closing session, message over %d bytes", MaxMessageSize)
			case !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				log.LogVf("Websocket read: %v", err)
			}
			return
		}
		if err = b.Apply(data); err != nil {
			log.Warnf("Bad message %q: %v", data, err)
		}
	}
}
