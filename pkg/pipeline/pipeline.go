// Package pipeline runs marker generation end to end.
//
// This package joins the pure pattern generator to everything around it:
// option validation, font resolution, rasterisation, post-processing,
// encoding and the artifact cache. The CLI and the HTTP server both go
// through a [Runner], so they produce byte-identical output for the same
// options.
//
// # Stages
//
//  1. Validate: parse mode, shape and format, check the key's range
//  2. Generate: build the cell grid (always, it is cheap)
//  3. Cache: return stored bytes unless Refresh is set
//  4. Render: draw the grid and labels, then binarize and scale
//  5. Encode: PNG or SVG, stored back into the cache
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    Key:        26,
//	    Mode:       "dense",
//	    ShowNumber: true,
//	})
//	os.WriteFile("026_Fe.png", res.Data, 0o644)
//
// Many keys at once:
//
//	keys, _ := pipeline.ParseKeys("1-10,noble-gas", 0)
//	results, err := runner.Batch(ctx, keys, opts, 8)
package pipeline

import (
	"image"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMode is the grid geometry when none is given.
	DefaultMode = "simple"

	// DefaultShape is the cell style when none is given.
	DefaultShape = "squares"

	// DefaultFormat is the output encoding when none is given.
	DefaultFormat = FormatPNG

	// MaxSize bounds the requested output side to keep server memory in
	// check.
	MaxSize = 4096
)

// Format constants for output encodings.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid format %q (must be png or svg)", format)
	}
	return nil
}

// =============================================================================
// Options - Generation Request
// =============================================================================

// Options describes one marker. It supports JSON for API requests.
type Options struct {
	Key   int    `json:"key"`
	Mode  string `json:"mode,omitempty"`
	Shape string `json:"shape,omitempty"`

	// Format is "png" (default) or "svg".
	Format string `json:"format,omitempty"`

	ShowCode   bool `json:"show_code,omitempty"`
	ShowNumber bool `json:"show_number,omitempty"`
	// CodeText overrides the short code; it defaults to the element symbol.
	CodeText string `json:"code_text,omitempty"`
	// Font names the label typeface: a path, an embedded name or a system
	// font. Empty uses the embedded Go Bold.
	Font string `json:"font,omitempty"`

	// Size is the side of the PNG in pixels. Zero keeps the native canvas.
	// SVG output ignores it.
	Size int `json:"size,omitempty"`
	// Binary maps the PNG to pure black and white.
	Binary bool `json:"binary,omitempty"`

	// MaxKey overrides the accepted key range 1..MaxKey.
	MaxKey int `json:"max_key,omitempty"`
	// Refresh bypasses cache reads; the result is still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Render geometry. Zero values use the render defaults.
	Render render.Options `json:"-"`

	Logger *log.Logger `json:"-"`

	mode  marker.Mode
	shape marker.Shape
}

// ValidateAndSetDefaults checks every field and fills defaults. It is
// idempotent, and re-validates after fields change.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Shape == "" {
		o.Shape = DefaultShape
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Format = strings.ToLower(o.Format)

	mode, err := marker.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	shape, err := marker.ParseShape(o.Shape)
	if err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := marker.ValidateKey(o.Key, o.MaxKey); err != nil {
		return err
	}
	if o.Size < 0 || o.Size > MaxSize {
		return errors.New(errors.ErrCodeInvalidOption, "size %d out of range 0..%d", o.Size, MaxSize)
	}
	if err := o.Render.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.mode, o.shape = mode, shape
	o.Mode, o.Shape = mode.String(), shape.String()
	return nil
}

// CodeLabel is the short-code text: CodeText when set, else the element
// symbol, else the decimal key for keys outside the element table.
func (o *Options) CodeLabel() string {
	if o.CodeText != "" {
		return o.CodeText
	}
	if s := elements.Symbol(o.Key); s != "" {
		return s
	}
	return strconv.Itoa(o.Key)
}

// MarkerOptions returns the generator options. Call after
// ValidateAndSetDefaults.
func (o *Options) MarkerOptions() marker.Options {
	return marker.Options{Mode: o.mode, Shape: o.shape, MaxKey: o.MaxKey}
}

// RenderOptions returns the rasteriser options.
func (o *Options) RenderOptions() render.Options {
	ro := o.Render
	ro.ShowCode = o.ShowCode
	ro.ShowNumber = o.ShowNumber
	ro.CodeText = o.CodeLabel()
	return ro
}

// ArtifactKeyOpts returns the cache key options. Only fields that change
// the output bytes are included.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Mode:       o.Mode,
		Shape:      o.Shape,
		Format:     o.Format,
		ShowCode:   o.ShowCode,
		ShowNumber: o.ShowNumber,
		Font:       o.Font,
	}
	if o.ShowCode {
		k.CodeText = o.CodeLabel()
	}
	if o.Format == FormatPNG {
		k.Size = o.Size
		k.Binary = o.Binary
	}
	if o.Render != (render.Options{}) {
		k.Geometry = geometryKey(o.Render)
	}
	return k
}

func geometryKey(r render.Options) string {
	var b strings.Builder
	for _, v := range []float64{
		float64(r.MarkerSize), float64(r.BorderSize), float64(r.FrameWidth),
		r.CodePoints, r.NumberPoints, r.MinPoints, r.Padding,
	} {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('/')
	}
	return b.String()
}

// =============================================================================
// Result
// =============================================================================

// Result is one generated marker.
type Result struct {
	Key         int
	Symbol      string
	Hash        marker.Hash
	Fingerprint string
	Format      string

	// Grid is always set. Image is nil for cache hits and SVG output.
	Grid  *marker.Grid
	Image *image.Gray

	// Data is the encoded PNG or SVG document.
	Data   []byte
	Width  int
	Height int

	Cached   bool
	Duration time.Duration
	// Warnings lists non-fatal problems, such as a font fallback.
	Warnings []string
}
