package webterm_test

import (
	"errors"
	"testing"

	"fortio.org/webterm"
)

func TestProbeCells(t *testing.T) {
	var gotGlyph string
	var gotCount int
	m := webterm.MeasurerFunc(func(glyph string, count int) (float64, float64, error) {
		gotGlyph, gotCount = glyph, count
		return 8.4, 17.25 * float64(count), nil
	})
	c, err := webterm.ProbeCells(m, webterm.DefaultProbeGlyph, webterm.DefaultProbeCount)
	if err != nil {
		t.Fatalf("ProbeCells: %v", err)
	}
	if gotGlyph != "J" || gotCount != 160 {
		t.Errorf("measured %d %q", gotCount, gotGlyph)
	}
	if c.Width != 8.4 || c.Height != 17.25 {
		t.Errorf("metrics = %+v", c)
	}
}

func TestProbeCellsErrors(t *testing.T) {
	good := webterm.MeasurerFunc(func(_ string, count int) (float64, float64, error) {
		return 8, 16 * float64(count), nil
	})
	zero := webterm.MeasurerFunc(func(_ string, _ int) (float64, float64, error) {
		return 0, 0, nil // detached element, nothing rendered.
	})
	failing := webterm.MeasurerFunc(func(_ string, _ int) (float64, float64, error) {
		return 0, 0, errors.New("no document")
	})
	tests := []struct {
		name  string
		m     webterm.Measurer
		glyph string
		count int
		bad   bool
	}{
		{"zero count", good, "J", 0, true},
		{"empty glyph", good, "", 64, true},
		{"two glyphs", good, "JJ", 64, true},
		{"zero size", zero, "J", 64, true},
		{"measure error", failing, "J", 64, false},
	}
	for _, tt := range tests {
		_, err := webterm.ProbeCells(tt.m, tt.glyph, tt.count)
		if err == nil {
			t.Errorf("%s: no error", tt.name)
			continue
		}
		if errors.Is(err, webterm.ErrBadMetrics) != tt.bad {
			t.Errorf("%s: error %v, ErrBadMetrics expected %t", tt.name, err, tt.bad)
		}
	}
}
