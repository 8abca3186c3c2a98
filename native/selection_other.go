//go:build !(linux || freebsd || netbsd || openbsd || solaris || dragonfly)

package native

// PrimarySelection isn't available on this platform, copy is left to the
// terminal itself.
func PrimarySelection() (string, bool) {
	return "", false
}
