package native

import (
	"fmt"

	"fortio.org/webterm"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Defaults for the font based measurement.
const (
	DefaultFontSize = 14.
	DefaultDPI      = 96.
)

// FaceMeasurer measures glyphs with a font face. It is the fallback for
// terminals that don't report their size in pixels, and what the dry-run
// mode uses.
type FaceMeasurer struct {
	Face font.Face
}

// NewGoMonoMeasurer uses the Go Mono font at size points and dpi.
func NewGoMonoMeasurer(size, dpi float64) (*FaceMeasurer, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &FaceMeasurer{Face: face}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func (m *FaceMeasurer) MeasureColumn(glyph string, count int) (float64, float64, error) {
	w := font.MeasureString(m.Face, glyph)
	h := m.Face.Metrics().Height
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q advance %v height %v", webterm.ErrBadMetrics, glyph, w, h)
	}
	return fixedToFloat(w), fixedToFloat(h) * float64(count), nil
}

func (m *FaceMeasurer) Close() error {
	return m.Face.Close()
}
