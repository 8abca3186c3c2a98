//go:build !unix

package native

import "os"

// NotifyResize is a no-op without SIGWINCH, focus changes still trigger a
// size check.
func NotifyResize(_ chan<- os.Signal) {}
