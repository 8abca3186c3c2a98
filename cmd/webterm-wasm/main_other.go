//go:build !(js && wasm)

package main

import (
	"os"

	"fortio.org/log"
)

func main() {
	os.Exit(log.FErrf("webterm-wasm is the browser client, build it with GOOS=js GOARCH=wasm"))
}
