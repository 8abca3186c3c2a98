//go:build unix

package native

import (
	"os"
	"os/signal"
	"syscall"
)

// NotifyResize relays terminal window size changes to c.
func NotifyResize(c chan<- os.Signal) {
	signal.Notify(c, syscall.SIGWINCH)
}
