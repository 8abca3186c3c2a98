package remote_test

import (
	"net/http"

	"github.com/gorilla/websocket"
)

func httpHandler(serve func(*websocket.Conn), upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		serve(c)
	}
}
