package native

import (
	"errors"
	"fmt"

	"fortio.org/log"
	"fortio.org/webterm"
)

// winsize is the terminal size in characters and, when the terminal
// reports it, in pixels.
type winsize struct {
	Cols, Rows     int
	XPixel, YPixel int
}

// PixelSurface is the terminal window seen as a pixel surface. Terminals
// that don't report their pixel size get one derived from the character
// size and Fallback cells, so the grid still follows the window.
type PixelSurface struct {
	Fd       int
	Activity webterm.Activity
	Margin   float64
	Fallback webterm.CellMetrics
}

func (s *PixelSurface) Active() bool {
	return s.Activity == nil || s.Activity.Active()
}

func (s *PixelSurface) ContentBox() webterm.Box {
	ws, err := getWinsize(s.Fd)
	if err != nil {
		log.Errf("Unable to get terminal size: %v", err)
		return webterm.Box{}
	}
	if ws.XPixel > 0 && ws.YPixel > 0 {
		return webterm.Box{W: float64(ws.XPixel), H: float64(ws.YPixel)}
	}
	return webterm.Box{
		W: float64(ws.Cols)*s.Fallback.Width + s.Margin,
		H: float64(ws.Rows)*s.Fallback.Height + s.Margin,
	}
}

// Fit can't resize a terminal window, the grid is reported as is.
func (s *PixelSurface) Fit(layout webterm.Layout, exact, slack webterm.Box) {
	log.LogVf("Terminal fit (%v): %gx%g px used, %gx%g px left over", layout, exact.W, exact.H, slack.W, slack.H)
}

var ErrNoPixelSize = errors.New("terminal doesn't report its pixel size")

// WinsizeMeasurer derives the cell size from the terminal's own report of
// its size in pixels and characters.
type WinsizeMeasurer struct {
	Fd int
}

func (m WinsizeMeasurer) MeasureColumn(_ string, count int) (float64, float64, error) {
	ws, err := getWinsize(m.Fd)
	if err != nil {
		return 0, 0, err
	}
	if ws.XPixel <= 0 || ws.YPixel <= 0 || ws.Cols <= 0 || ws.Rows <= 0 {
		return 0, 0, fmt.Errorf("%w (%+v)", ErrNoPixelSize, ws)
	}
	w := float64(ws.XPixel) / float64(ws.Cols)
	h := float64(ws.YPixel) / float64(ws.Rows)
	return w, h * float64(count), nil
}

// Measurers tries each measurer in turn and returns the first success.
type Measurers []webterm.Measurer

func (ms Measurers) MeasureColumn(glyph string, count int) (float64, float64, error) {
	var errs []error
	for _, m := range ms {
		w, h, err := m.MeasureColumn(glyph, count)
		if err == nil {
			return w, h, nil
		}
		log.LogVf("Measurer %T failed: %v", m, err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return 0, 0, webterm.ErrBadMetrics
	}
	return 0, 0, errors.Join(errs...)
}
