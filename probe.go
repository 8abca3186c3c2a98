package webterm

import (
	"errors"
	"fmt"

	"fortio.org/log"
)

const (
	// DefaultProbeGlyph is the filler character measured by the probe.
	DefaultProbeGlyph = "J"
	// DefaultProbeCount lines are stacked so rounding of a single line
	// height doesn't skew the result.
	DefaultProbeCount = 160
)

// ErrBadMetrics is returned when a measurement can't be turned into cell metrics.
var ErrBadMetrics = errors.New("unusable font measurement")

// Measurer renders count lines of glyph, stacked vertically, in the
// terminal font and returns the bounding box in pixels.
type Measurer interface {
	MeasureColumn(glyph string, count int) (width, height float64, err error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(glyph string, count int) (float64, float64, error)

func (f MeasurerFunc) MeasureColumn(glyph string, count int) (float64, float64, error) {
	return f(glyph, count)
}

// ProbeCells measures the monospace cell size once; it must run before any
// grid sizing. The column is one glyph wide so its width is the cell width,
// the height is divided by the number of lines.
func ProbeCells(m Measurer, glyph string, count int) (CellMetrics, error) {
	if glyph == "" || !IsPrintable(glyph) {
		return CellMetrics{}, fmt.Errorf("%w: probe glyph %q isn't a single printable character", ErrBadMetrics, glyph)
	}
	if count <= 0 {
		return CellMetrics{}, fmt.Errorf("%w: probe count %d", ErrBadMetrics, count)
	}
	w, h, err := m.MeasureColumn(glyph, count)
	if err != nil {
		return CellMetrics{}, fmt.Errorf("measuring %d %q: %w", count, glyph, err)
	}
	c := CellMetrics{Width: w, Height: h / float64(count)}
	if !c.Valid() {
		return CellMetrics{}, fmt.Errorf("%w: %gx%g for %d lines", ErrBadMetrics, w, h, count)
	}
	log.LogVf("Probed cell metrics %gx%g from %d %q (%gx%g)", c.Width, c.Height, count, glyph, w, h)
	return c, nil
}
