//go:build linux || freebsd || netbsd || openbsd || solaris || dragonfly

package native

import (
	"fortio.org/log"
	"github.com/atotto/clipboard"
)

// PrimarySelection is the X11 primary selection: whatever text was last
// highlighted with the mouse, in this terminal or elsewhere.
func PrimarySelection() (string, bool) {
	clipboardMu.Lock()
	defer clipboardMu.Unlock()
	clipboard.Primary = true
	defer func() { clipboard.Primary = false }()
	text, err := clipboardReadAll()
	if err != nil {
		log.LogVf("No primary selection: %v", err)
		return "", false
	}
	return text, text != ""
}
