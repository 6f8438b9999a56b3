package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/fiducial/pkg/fonts"
	"github.com/matzehuels/fiducial/pkg/marker"
)

// circleScale and triangleInset shrink non-square glyphs inside their cell.
const (
	circleScale   = 0.9
	triangleInset = 0.05
)

// PlacedLabel records where a label was drawn.
type PlacedLabel struct {
	Kind     marker.RegionKind
	Text     string
	Points   float64
	Box      image.Rectangle
	Overflow bool
}

// Output is a rendered marker.
type Output struct {
	Image  *image.Gray
	Width  int
	Height int
	Labels []PlacedLabel
}

// Renderer draws grids with one resolved font source. It holds no mutable
// state and may be shared between goroutines.
type Renderer struct {
	src fonts.Source
}

// New returns a renderer using src for labels. A nil src resolves the
// default chain.
func New(src fonts.Source) *Renderer {
	if src == nil {
		src, _ = fonts.Resolve(fonts.DefaultChain("")...)
	}
	return &Renderer{src: src}
}

// Font returns the source labels are drawn with.
func (r *Renderer) Font() fonts.Source { return r.src }

// geometry maps cell coordinates to pixels.
type geometry struct {
	origin float64 // top-left of the grid area
	cell   float64 // side of one cell
}

func newGeometry(g *marker.Grid, o Options) geometry {
	inset := float64(o.BorderSize + 2*o.FrameWidth)
	side := float64(o.MarkerSize - 4*o.FrameWidth)
	return geometry{origin: inset, cell: side / float64(g.Size)}
}

func (m geometry) rect(b image.Rectangle) (x, y, w, h float64) {
	return m.origin + float64(b.Min.X)*m.cell,
		m.origin + float64(b.Min.Y)*m.cell,
		float64(b.Dx()) * m.cell,
		float64(b.Dy()) * m.cell
}

// RegionPixels returns the smallest pixel rectangle covering region.
func RegionPixels(g *marker.Grid, region marker.Region, opts Options) image.Rectangle {
	o := opts.withDefaults()
	x, y, w, h := newGeometry(g, o).rect(region.Bounds)
	return image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
}

// Render draws g and its labels.
func (r *Renderer) Render(g *marker.Grid, opts Options) (*Output, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	size := o.CanvasSize()
	geo := newGeometry(g, o)

	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	// Frame: black square with the marker interior cut back to white.
	b, f := float64(o.BorderSize), float64(o.FrameWidth)
	dc.SetColor(color.Black)
	dc.DrawRectangle(b, b, float64(o.MarkerSize), float64(o.MarkerSize))
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawRectangle(b+f, b+f, float64(o.MarkerSize)-2*f, float64(o.MarkerSize)-2*f)
	dc.Fill()

	dc.SetColor(color.Black)
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			drawCell(dc, g.At(row, col), geo.origin+float64(col)*geo.cell, geo.origin+float64(row)*geo.cell, geo.cell)
		}
	}

	out := &Output{Width: size, Height: size}
	for _, region := range g.Regions {
		if !region.Kind.IsLabel() {
			continue
		}
		x, y, w, h := geo.rect(region.Bounds)
		dc.SetColor(color.White)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		text, ok := labelText(g, region.Kind, o)
		if !ok {
			continue
		}
		start := o.NumberPoints
		if region.Kind == marker.RegionCodeLabel {
			start = o.CodePoints
		}
		pad := o.Padding * math.Min(w, h)
		fit, err := FitLabel(r.src, text, w-2*pad, h-2*pad, start, o.MinPoints)
		if err != nil {
			return nil, err
		}
		face, err := r.src.Face(fit.Points)
		if err != nil {
			return nil, err
		}

		dc.Push()
		dc.DrawRectangle(x, y, w, h)
		dc.Clip()
		dc.SetFontFace(face)
		dc.SetColor(color.Black)
		// Baseline placement from face metrics centres the ink box, which
		// MeasureString's line height would not.
		m := face.Metrics()
		baseline := y + h/2 + (fix(m.Ascent)-fix(m.Descent))/2
		dc.DrawStringAnchored(text, x+w/2, baseline, 0.5, 0)
		dc.Pop()
		dc.ResetClip()

		out.Labels = append(out.Labels, PlacedLabel{
			Kind:     region.Kind,
			Text:     text,
			Points:   fit.Points,
			Box:      RegionPixels(g, region, o),
			Overflow: fit.Overflow,
		})
	}

	out.Image = ToGray(dc.Image())
	return out, nil
}

// labelText returns the text for a label region, if it should be drawn.
func labelText(g *marker.Grid, kind marker.RegionKind, o Options) (string, bool) {
	switch kind {
	case marker.RegionCodeLabel:
		return o.CodeText, o.ShowCode && o.CodeText != ""
	case marker.RegionNumberLabel:
		return strconv.Itoa(g.Key), o.ShowNumber
	}
	return "", false
}

// drawCell fills one glyph with its top-left corner at (x, y).
func drawCell(dc *gg.Context, c marker.Cell, x, y, s float64) {
	switch c {
	case marker.Empty:
		return
	case marker.Square:
		dc.DrawRectangle(x, y, s, s)
	case marker.Circle:
		dc.DrawCircle(x+s/2, y+s/2, s/2*circleScale)
	default:
		pts := trianglePoints(c, x+s*triangleInset, y+s*triangleInset, s*(1-2*triangleInset))
		dc.MoveTo(pts[0].X, pts[0].Y)
		dc.LineTo(pts[1].X, pts[1].Y)
		dc.LineTo(pts[2].X, pts[2].Y)
		dc.ClosePath()
	}
	dc.Fill()
}

// trianglePoints returns the vertices of a triangle pointing in c's
// direction inside the s×s box at (x, y).
func trianglePoints(c marker.Cell, x, y, s float64) [3]gg.Point {
	switch c {
	case marker.TriangleRight:
		return [3]gg.Point{{X: x, Y: y}, {X: x + s, Y: y + s/2}, {X: x, Y: y + s}}
	case marker.TriangleDown:
		return [3]gg.Point{{X: x, Y: y}, {X: x + s, Y: y}, {X: x + s/2, Y: y + s}}
	case marker.TriangleLeft:
		return [3]gg.Point{{X: x + s, Y: y}, {X: x + s, Y: y + s}, {X: x, Y: y + s/2}}
	default:
		return [3]gg.Point{{X: x + s/2, Y: y}, {X: x + s, Y: y + s}, {X: x, Y: y + s}}
	}
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
