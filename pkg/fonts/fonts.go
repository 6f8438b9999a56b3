// Package fonts resolves the typeface used for marker labels.
//
// Label text is drawn with whatever face is best available on the machine.
// Candidates are described by a [Provider] and consulted in order by
// [Resolve]; the first one that opens wins. A missing font is never fatal:
// the chain always ends with faces compiled into the binary.
//
//	src, warnings := fonts.Resolve(fonts.DefaultChain("DejaVuSans")...)
//	for _, w := range warnings {
//	    logger.Warn("font unavailable", "err", w)
//	}
//	face, err := src.Face(36)
//
// Faces come from three places:
//   - TrueType files on disk ([FileProvider]) or found by name in the
//     system font directories ([SystemProvider], via go-findfont)
//   - the Go fonts embedded in golang.org/x/image ([EmbeddedProvider])
//   - the fixed 7×13 bitmap face ([BasicProvider]), which cannot scale
package fonts

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DPI used when building scalable faces. At 72 DPI one point is one pixel.
const DPI = 72

// Source produces faces of one typeface.
type Source interface {
	// Name identifies the typeface in logs.
	Name() string
	// Face returns a face at the given point size. Sources that cannot
	// scale ignore points.
	Face(points float64) (font.Face, error)
	// Scalable reports whether Face honours points.
	Scalable() bool
}

// ttfSource is a parsed TrueType font.
type ttfSource struct {
	name string
	font *truetype.Font
}

func (s *ttfSource) Name() string   { return s.name }
func (s *ttfSource) Scalable() bool { return true }

func (s *ttfSource) Face(points float64) (font.Face, error) {
	return truetype.NewFace(s.font, &truetype.Options{
		Size:    points,
		DPI:     DPI,
		Hinting: font.HintingFull,
	}), nil
}

// basicSource wraps the built-in bitmap face.
type basicSource struct{}

func (basicSource) Name() string                   { return "basic-7x13" }
func (basicSource) Scalable() bool                 { return false }
func (basicSource) Face(float64) (font.Face, error) { return basicfont.Face7x13, nil }

// parse builds a scalable source from TrueType bytes.
func parse(name string, ttf []byte) (Source, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &ttfSource{name: name, font: f}, nil
}
