package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/fiducial/pkg/marker"
)

// SVG writes the same layout as Render as an SVG document. Label sizes are
// fitted with the renderer's font; the document names that font family and
// falls back to sans-serif.
func (r *Renderer) SVG(g *marker.Grid, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	size := o.CanvasSize()
	geo := newGeometry(g, o)
	b, f, m := float64(o.BorderSize), float64(o.FrameWidth), float64(o.MarkerSize)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		size, size, size, size)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#fff"/>`+"\n", size, size)
	fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#000"/>`+"\n", b, b, m, m)
	fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#fff"/>`+"\n", b+f, b+f, m-2*f, m-2*f)

	buf.WriteString(`  <g fill="#000">` + "\n")
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			writeCell(&buf, g.At(row, col), geo.origin+float64(col)*geo.cell, geo.origin+float64(row)*geo.cell, geo.cell)
		}
	}
	buf.WriteString("  </g>\n")

	for _, region := range g.Regions {
		if !region.Kind.IsLabel() {
			continue
		}
		x, y, w, h := geo.rect(region.Bounds)
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#fff"/>`+"\n", x, y, w, h)

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
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="%s, sans-serif" font-weight="bold" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			x+w/2, y+h/2, html.EscapeString(r.src.Name()), fit.Points, html.EscapeString(text))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeCell(buf *bytes.Buffer, c marker.Cell, x, y, s float64) {
	switch c {
	case marker.Empty:
	case marker.Square:
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", x, y, s, s)
	case marker.Circle:
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", x+s/2, y+s/2, s/2*circleScale)
	default:
		p := trianglePoints(c, x+s*triangleInset, y+s*triangleInset, s*(1-2*triangleInset))
		fmt.Fprintf(buf, `    <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
			p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y)
	}
}
