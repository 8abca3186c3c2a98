//go:build !unix

package native

import "golang.org/x/term"

func getWinsize(fd int) (winsize, error) {
	cols, rows, err := term.GetSize(fd)
	return winsize{Cols: cols, Rows: rows}, err
}
