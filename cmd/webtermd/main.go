// Development server for webterm: serves the static page and wasm client
// and plays the remote session, a local shell under a pty per websocket.
package main

import (
	"flag"
	"net/http"
	"os"

	"fortio.org/fortio/fhttp"
	"fortio.org/log"
	"fortio.org/scli"
	"fortio.org/webterm/remote"
	"github.com/google/uuid"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	portFlag := flag.String("port", ":8080", "Port to listen on")
	staticFlag := flag.String("static", "", "Directory with the page, wasm_exec.js and webterm.wasm to serve on /")
	shellFlag := flag.String("shell", "", "Shell to run for each session, defaults to $SHELL")
	scli.ServerMain()
	mux, addr := fhttp.HTTPServer("webtermd", *portFlag)
	if addr == nil {
		return 1 // already logged.
	}
	h := &remote.Handler{Shell: *shellFlag}
	mux.Handle("GET /session/{id}", h)
	mux.HandleFunc("GET /session", log.LogAndCall("new-session", newSession))
	if *staticFlag != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(*staticFlag)))
	}
	log.Infof("Sessions on ws://%s/session/{id}", addr)
	scli.UntilInterrupted()
	return 0
}

// newSession hands out a fresh session id for the page to connect with.
func newSession(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(uuid.NewString()))
}
