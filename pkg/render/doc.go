// Package render rasterises marker grids.
//
// # Overview
//
// A [marker.Grid] is pure data. This package turns it into a printable image:
//
//   - a white canvas with a quiet border around the marker
//   - a solid black frame
//   - one glyph per filled cell (square, circle or triangle)
//   - optional text labels in the grid's label regions
//
// The label regions are always cleared to white before anything is drawn
// into them, so text stays legible whatever the pattern around it.
//
// # Labels
//
// Each label is centered in its region. When the text is too large at the
// requested point size, [FitLabel] steps the size down until it fits, but
// never below Options.MinPoints. Text that still overflows is clipped to
// its region.
//
// # Usage
//
//	src, _ := fonts.Resolve(fonts.DefaultChain("")...)
//	r := render.New(src)
//	out, err := r.Render(grid, render.Options{ShowNumber: true})
//	err = render.EncodePNG(w, out.Image)
//
// [ToGray], [Binarize] and [Scale] post-process the result for print or AR
// tooling. [Renderer.SVG] writes the same layout as vector graphics.
//
// [marker.Grid]: github.com/matzehuels/fiducial/pkg/marker.Grid
package render
