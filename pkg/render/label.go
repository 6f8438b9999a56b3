package render

import (
	"math"

	"golang.org/x/image/font"

	"github.com/matzehuels/fiducial/pkg/fonts"
)

// Fit is the outcome of fitting a label into a box.
type Fit struct {
	Points float64
	Width  float64
	Height float64
	// Overflow is set when the text does not fit even at the minimum size.
	Overflow bool
}

// FitLabel finds the largest point size in start, start-1, ... down to min at
// which text fits in a w×h box. Fit is assumed monotonic in the point size,
// so candidates are binary searched. Sources that cannot scale are measured
// once.
func FitLabel(src fonts.Source, text string, w, h, start, min float64) (Fit, error) {
	if start < min {
		start = min
	}
	if !src.Scalable() {
		face, err := src.Face(start)
		if err != nil {
			return Fit{}, err
		}
		tw, th := measure(face, text)
		return Fit{Points: start, Width: tw, Height: th, Overflow: tw > w || th > h}, nil
	}

	// Candidate k is start-k, clamped to min; the last one is min itself.
	last := int(math.Ceil(start - min))
	try := func(k int) (Fit, bool, error) {
		pt := math.Max(start-float64(k), min)
		face, err := src.Face(pt)
		if err != nil {
			return Fit{}, false, err
		}
		tw, th := measure(face, text)
		face.Close()
		return Fit{Points: pt, Width: tw, Height: th}, tw <= w && th <= h, nil
	}

	fit, ok, err := try(0)
	if err != nil || ok {
		return fit, err
	}
	if last > 0 {
		if fit, ok, err = try(last); err != nil {
			return Fit{}, err
		}
	}
	if !ok {
		fit.Overflow = true
		return fit, nil
	}
	// try(lo) does not fit, try(hi) does.
	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		f, ok, err := try(mid)
		if err != nil {
			return Fit{}, err
		}
		if ok {
			hi, fit = mid, f
		} else {
			lo = mid
		}
	}
	return fit, nil
}

// measure returns the advance width and line height of text.
func measure(face font.Face, text string) (float64, float64) {
	m := face.Metrics()
	w := font.MeasureString(face, text)
	return fix(w), fix(m.Ascent + m.Descent)
}
