package webterm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fortio.org/log"
	"fortio.org/safecast"
)

// ErrNoCellMetrics is returned when sizing is attempted before the font
// cell metrics were probed (or the probe gave unusable values).
var ErrNoCellMetrics = errors.New("cell metrics not available")

// CellMetrics is the pixel footprint of one monospace character.
type CellMetrics struct {
	Width  float64
	Height float64
}

// Valid is true when both dimensions are usable divisors.
func (c CellMetrics) Valid() bool {
	return c.Width > 0 && c.Height > 0 && !math.IsInf(c.Width, 0) && !math.IsInf(c.Height, 0)
}

// Grid is the character grid for a surface along with the cell metrics
// it was computed with.
type Grid struct {
	Columns int
	Rows    int
	CellMetrics
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d (cell %gx%g)", g.Columns, g.Rows, g.Width, g.Height)
}

// Box is a pixel rectangle size.
type Box struct {
	W, H float64
}

// Layout selects how a surface is adjusted so it shows an exact number of rows.
type Layout int

const (
	// LayoutPadding pads the surface with the leftover pixels.
	LayoutPadding Layout = iota
	// LayoutHeight sets the surface height to the exact grid height.
	LayoutHeight
)

func (l Layout) String() string {
	switch l {
	case LayoutPadding:
		return "padding"
	case LayoutHeight:
		return "height"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout is the reverse of Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "padding", "":
		return LayoutPadding, nil
	case "height":
		return LayoutHeight, nil
	}
	return LayoutPadding, fmt.Errorf("invalid layout %q, must be padding or height", s)
}

func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layout) UnmarshalText(text []byte) error {
	v, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Surface is the display surface a GridSizer keeps in sync.
type Surface interface {
	// Active is true when this surface is the one currently shown.
	Active() bool
	// ContentBox is the pixel size available for text, not counting
	// adjustments previously applied through Fit.
	ContentBox() Box
	// Fit adjusts the surface after a grid change. exact is the size
	// (margin included) the grid occupies, slack the leftover pixels.
	Fit(layout Layout, exact, slack Box)
}

// GridSizer derives the character grid of a surface from its pixel size and
// reports grid changes (and only changes) through OnChange.
type GridSizer struct {
	Surface Surface
	// Margin is subtracted from both dimensions before dividing.
	Margin float64
	Layout Layout
	// OnChange is called with the new grid each time it changes.
	OnChange func(g Grid)

	cells    CellMetrics
	grid     Grid
	reported bool
}

// NewGridSizer returns a sizer using cfg's margin and layout.
func NewGridSizer(s Surface, cfg Config, onChange func(g Grid)) *GridSizer {
	return &GridSizer{
		Surface:  s,
		Margin:   cfg.Margin,
		Layout:   cfg.Layout,
		OnChange: onChange,
	}
}

// SetCellMetrics sets the per character pixel size, typically from ProbeCells.
// A later Recompute will report a change if the grid differs as a result.
func (gs *GridSizer) SetCellMetrics(c CellMetrics) {
	gs.cells = c
}

// CellMetrics returns the metrics in use.
func (gs *GridSizer) CellMetrics() CellMetrics {
	return gs.cells
}

// Grid returns the last reported grid, ok is false if none was reported yet.
func (gs *GridSizer) Grid() (Grid, bool) {
	return gs.grid, gs.reported
}

// Compute returns the grid that fits box with the sizer's metrics and margin,
// along with the exact pixel size it occupies and the leftover. Negative
// space clamps to an empty grid.
func (gs *GridSizer) Compute(box Box) (Grid, Box, Box, error) {
	if !gs.cells.Valid() {
		return Grid{}, Box{}, Box{}, ErrNoCellMetrics
	}
	cols, err := cellCount(box.W-gs.Margin, gs.cells.Width)
	if err != nil {
		return Grid{}, Box{}, Box{}, fmt.Errorf("width %g: %w", box.W, err)
	}
	rows, err := cellCount(box.H-gs.Margin, gs.cells.Height)
	if err != nil {
		return Grid{}, Box{}, Box{}, fmt.Errorf("height %g: %w", box.H, err)
	}
	g := Grid{Columns: cols, Rows: rows, CellMetrics: gs.cells}
	exact := Box{
		W: float64(cols)*gs.cells.Width + gs.Margin,
		H: float64(rows)*gs.cells.Height + gs.Margin,
	}
	slack := Box{W: max(0, box.W-exact.W), H: max(0, box.H-exact.H)}
	return g, exact, slack, nil
}

// cellEpsilon absorbs float error when cell metrics were themselves derived
// by dividing the box (e.g. 1283px / 80 columns).
const cellEpsilon = 1e-9

func cellCount(space, cell float64) (int, error) {
	if space <= 0 {
		return 0, nil
	}
	return safecast.Convert[int](math.Floor(space/cell + cellEpsilon))
}

// Recompute measures the surface and, if the grid changed since the last
// report (or was never reported), records it, calls OnChange and fits the
// surface. Returns whether a change was reported. Does nothing when the
// surface isn't active. Calling it again without any pixel or metrics
// change is a no-op.
func (gs *GridSizer) Recompute() (bool, error) {
	if !gs.cells.Valid() {
		return false, ErrNoCellMetrics
	}
	if gs.Surface == nil || !gs.Surface.Active() {
		log.Debugf("No active surface, skipping grid recompute")
		return false, nil
	}
	box := gs.Surface.ContentBox()
	g, exact, slack, err := gs.Compute(box)
	if err != nil {
		return false, err
	}
	if gs.reported && g.Columns == gs.grid.Columns && g.Rows == gs.grid.Rows {
		return false, nil
	}
	log.S(log.Verbose, "Grid changed", log.Any("box", box), log.Any("columns", g.Columns),
		log.Any("rows", g.Rows), log.Any("cell", gs.cells))
	gs.grid = g
	gs.reported = true
	if gs.OnChange != nil {
		gs.OnChange(g)
	}
	gs.Surface.Fit(gs.Layout, exact, slack)
	return true, nil
}
