package render

import (
	"github.com/matzehuels/fiducial/pkg/errors"
)

// Defaults match a 400px marker on a 480px canvas.
const (
	DefaultMarkerSize   = 400
	DefaultBorderSize   = 40
	DefaultFrameWidth   = 12
	DefaultCodePoints   = 120
	DefaultNumberPoints = 36
	DefaultMinPoints    = 8
	DefaultPadding      = 0.12
)

// Options configures Render.
type Options struct {
	// MarkerSize is the side of the framed marker in pixels.
	MarkerSize int
	// BorderSize is the white margin around the marker.
	BorderSize int
	// FrameWidth is the width of the black frame. The same width of white
	// separates the frame from the grid.
	FrameWidth int

	ShowCode   bool
	ShowNumber bool
	// CodeText is drawn in the code-label region when ShowCode is set.
	CodeText string

	// Starting and minimum point sizes for label fitting.
	CodePoints   float64
	NumberPoints float64
	MinPoints    float64

	// Padding is the fraction of the region's shorter side kept clear on
	// each edge of a label.
	Padding float64
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.MarkerSize == 0 {
		o.MarkerSize = DefaultMarkerSize
	}
	if o.BorderSize == 0 {
		o.BorderSize = DefaultBorderSize
	}
	if o.FrameWidth == 0 {
		o.FrameWidth = DefaultFrameWidth
	}
	if o.CodePoints == 0 {
		o.CodePoints = DefaultCodePoints
	}
	if o.NumberPoints == 0 {
		o.NumberPoints = DefaultNumberPoints
	}
	if o.MinPoints == 0 {
		o.MinPoints = DefaultMinPoints
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// Validate checks geometry after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	switch {
	case o.MarkerSize < 0 || o.BorderSize < 0 || o.FrameWidth < 0:
		return errors.New(errors.ErrCodeInvalidOption, "sizes must not be negative")
	case o.MarkerSize <= 4*o.FrameWidth:
		return errors.New(errors.ErrCodeInvalidOption, "marker size %d too small for frame width %d", o.MarkerSize, o.FrameWidth)
	case o.MinPoints <= 0 || o.MinPoints > o.CodePoints || o.MinPoints > o.NumberPoints:
		return errors.New(errors.ErrCodeInvalidOption, "minimum point size %.1f out of range", o.MinPoints)
	case o.Padding < 0 || o.Padding >= 0.5:
		return errors.New(errors.ErrCodeInvalidOption, "padding %.2f must be in [0, 0.5)", o.Padding)
	}
	return nil
}

// CanvasSize is the side of the rendered image.
func (o Options) CanvasSize() int {
	o = o.withDefaults()
	return o.MarkerSize + 2*o.BorderSize
}
