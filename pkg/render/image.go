package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/fiducial/pkg/errors"
)

// DefaultThreshold splits gray levels for Binarize.
const DefaultThreshold = 128

// ToGray converts img to a single-channel image.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[4*x]
		}
	}
	return out
}

// Binarize maps every pixel to black or white. Levels below threshold become
// black.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	g := ToGray(img)
	b := g.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.GrayAt(x, y).Y >= threshold {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}

// Scale resizes img to a px×px square with nearest-neighbour sampling, which
// keeps cell edges hard.
func Scale(img image.Image, px int) (*image.Gray, error) {
	if px <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "size must be positive, got %d", px)
	}
	b := img.Bounds()
	if b.Dx() == px && b.Dy() == px {
		return ToGray(img), nil
	}
	return ToGray(imaging.Resize(img, px, px, imaging.NearestNeighbor)), nil
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}
