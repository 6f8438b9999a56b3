package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/font"

	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/fonts"
	"github.com/matzehuels/fiducial/pkg/marker"
)

func mustGrid(t *testing.T, key int, opts marker.Options) *marker.Grid {
	t.Helper()
	g, err := marker.Generate(key, opts)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func labelRegion(t *testing.T, g *marker.Grid, kind marker.RegionKind) marker.Region {
	t.Helper()
	for _, r := range g.Regions {
		if r.Kind == kind {
			return r
		}
	}
	t.Fatalf("no %s region", kind)
	return marker.Region{}
}

func TestRenderDimensions(t *testing.T) {
	r := New(nil)
	for _, mode := range []marker.Mode{marker.ModeSimple, marker.ModeDense} {
		g := mustGrid(t, 6, marker.Options{Mode: mode, Shape: marker.ShapeMixed})
		out, err := r.Render(g, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if out.Width != 480 || out.Height != 480 {
			t.Errorf("%s: %dx%d, want 480x480", mode, out.Width, out.Height)
		}
		if b := out.Image.Bounds(); b.Dx() != 480 || b.Dy() != 480 {
			t.Errorf("%s: image bounds %v", mode, b)
		}
		// Corner of the quiet border is white; the frame is black.
		if out.Image.GrayAt(0, 0).Y != 0xff {
			t.Error("border not white")
		}
		if out.Image.GrayAt(45, 240).Y != 0 {
			t.Error("frame not black")
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := New(nil)
	g := mustGrid(t, 42, marker.Options{Mode: marker.ModeDense})
	opts := Options{ShowCode: true, CodeText: "Mo", ShowNumber: true}
	a, err := r.Render(g, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Render(g, opts)
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("render not deterministic")
	}
}

// Only the number region may change when the number label is switched on,
// and the code region stays blank.
func TestRenderNumberLabelOnly(t *testing.T) {
	r := New(nil)
	g := mustGrid(t, 1, marker.Options{Mode: marker.ModeSimple})

	plain, err := r.Render(g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	numbered, err := r.Render(g, Options{ShowNumber: true})
	if err != nil {
		t.Fatal(err)
	}

	box := RegionPixels(g, labelRegion(t, g, marker.RegionNumberLabel), Options{})
	changed := 0
	for y := 0; y < plain.Height; y++ {
		for x := 0; x < plain.Width; x++ {
			if plain.Image.GrayAt(x, y) == numbered.Image.GrayAt(x, y) {
				continue
			}
			if !image.Pt(x, y).In(box) {
				t.Fatalf("pixel (%d,%d) changed outside number region %v", x, y, box)
			}
			changed++
		}
	}
	if changed == 0 {
		t.Error("number label drew nothing")
	}

	code := RegionPixels(g, labelRegion(t, g, marker.RegionCodeLabel), Options{})
	inner := code.Inset(1)
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		for x := inner.Min.X; x < inner.Max.X; x++ {
			if numbered.Image.GrayAt(x, y).Y != 0xff {
				t.Fatalf("code region pixel (%d,%d) not blank", x, y)
			}
		}
	}

	if len(numbered.Labels) != 1 || numbered.Labels[0].Text != "1" {
		t.Errorf("labels = %+v", numbered.Labels)
	}
}

func TestFitLabelShrinks(t *testing.T) {
	src, _ := fonts.Resolve(fonts.DefaultChain("")...)

	fit, err := FitLabel(src, "Ununennium", 150, 60, 120, 8)
	if err != nil {
		t.Fatal(err)
	}
	if fit.Overflow {
		t.Fatalf("unexpected overflow: %+v", fit)
	}
	if fit.Points >= 120 || fit.Width > 150 || fit.Height > 60 {
		t.Errorf("fit = %+v", fit)
	}

	short, _ := FitLabel(src, "H", 150, 150, 36, 8)
	if short.Points != 36 {
		t.Errorf("short label shrank to %.1f", short.Points)
	}
}

func TestFitLabelOverflow(t *testing.T) {
	src, _ := fonts.Resolve(fonts.DefaultChain("")...)
	fit, err := FitLabel(src, strings.Repeat("W", 40), 20, 20, 36, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !fit.Overflow || fit.Points != 8 {
		t.Errorf("fit = %+v, want overflow at 8pt", fit)
	}
}

type countingSource struct {
	fonts.Source
	faces int
}

func (c *countingSource) Face(points float64) (font.Face, error) {
	c.faces++
	return c.Source.Face(points)
}

// fitLinear steps down one point at a time; FitLabel must agree with it.
func fitLinear(t *testing.T, src fonts.Source, text string, w, h, start, min float64) Fit {
	t.Helper()
	for pt := start; ; pt = math.Max(pt-1, min) {
		face, err := src.Face(pt)
		if err != nil {
			t.Fatal(err)
		}
		tw, th := measure(face, text)
		face.Close()
		if tw <= w && th <= h {
			return Fit{Points: pt, Width: tw, Height: th}
		}
		if pt <= min {
			return Fit{Points: pt, Width: tw, Height: th, Overflow: true}
		}
	}
}

func TestFitLabelMatchesLinearSearch(t *testing.T) {
	base, _ := fonts.Resolve(fonts.DefaultChain("")...)
	tests := []struct {
		text       string
		w, h       float64
		start, min float64
	}{
		{"Ununennium", 150, 60, 120, 8},
		{"Oganesson", 200, 80, 96, 6},
		{"H", 150, 150, 36, 8},
		{"Fe", 40, 40, 72.5, 8},
		{strings.Repeat("W", 40), 20, 20, 36, 8},
		{"He", 10, 10, 8, 8},
	}
	for _, tt := range tests {
		src := &countingSource{Source: base}
		got, err := FitLabel(src, tt.text, tt.w, tt.h, tt.start, tt.min)
		if err != nil {
			t.Fatal(err)
		}
		want := fitLinear(t, base, tt.text, tt.w, tt.h, tt.start, tt.min)
		if got != want {
			t.Errorf("FitLabel(%q) = %+v, want %+v", tt.text, got, want)
		}
		// Two endpoints plus log2 of the candidate range.
		limit := 2 + int(math.Ceil(math.Log2(tt.start-tt.min+2)))
		if src.faces > limit {
			t.Errorf("FitLabel(%q) built %d faces, want at most %d", tt.text, src.faces, limit)
		}
	}
}

func TestRenderLongCodeFits(t *testing.T) {
	r := New(nil)
	g := mustGrid(t, 118, marker.Options{})
	out, err := r.Render(g, Options{ShowCode: true, CodeText: "Oganesson"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Labels) != 1 {
		t.Fatalf("labels = %+v", out.Labels)
	}
	l := out.Labels[0]
	if l.Overflow || l.Points >= DefaultCodePoints {
		t.Errorf("label = %+v", l)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"defaults", Options{}, true},
		{"tiny marker", Options{MarkerSize: 40, FrameWidth: 12}, false},
		{"negative border", Options{BorderSize: -1}, false},
		{"padding", Options{Padding: 0.6}, false},
		{"min above start", Options{MinPoints: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v", err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("code = %s", errors.GetCode(err))
			}
		})
	}
}

func TestBinarizeScaleEncode(t *testing.T) {
	r := New(nil)
	out, err := r.Render(mustGrid(t, 26, marker.Options{Mode: marker.ModeDense}), Options{ShowNumber: true})
	if err != nil {
		t.Fatal(err)
	}

	bin := Binarize(out.Image, DefaultThreshold)
	for _, v := range bin.Pix {
		if v != 0 && v != 0xff {
			t.Fatalf("binarized pixel %d", v)
		}
	}

	small, err := Scale(bin, 120)
	if err != nil {
		t.Fatal(err)
	}
	if b := small.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("scaled bounds %v", b)
	}
	if _, err := Scale(bin, 0); err == nil {
		t.Error("expected error for size 0")
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, small); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 120 {
		t.Errorf("decoded width %d", decoded.Bounds().Dx())
	}
}

func TestSVG(t *testing.T) {
	r := New(nil)
	g := mustGrid(t, 8, marker.Options{Shape: marker.ShapeMixed})
	svg, err := r.SVG(g, Options{ShowCode: true, CodeText: "O<", ShowNumber: true})
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.HasPrefix(s, "<svg") || !strings.HasSuffix(s, "</svg>\n") {
		t.Error("not an svg document")
	}
	if !strings.Contains(s, "O&lt;") || !strings.Contains(s, ">8</text>") {
		t.Error("labels missing or unescaped")
	}
}
