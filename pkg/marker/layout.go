package marker

import (
	"fmt"
	"image"
)

// RegionKind identifies the purpose of a reserved region.
type RegionKind uint8

const (
	RegionLocator RegionKind = iota
	RegionAlignment
	RegionTiming
	RegionFormat
	RegionCodeLabel
	RegionNumberLabel
)

func (k RegionKind) String() string {
	switch k {
	case RegionLocator:
		return "locator"
	case RegionAlignment:
		return "alignment"
	case RegionTiming:
		return "timing"
	case RegionFormat:
		return "format"
	case RegionCodeLabel:
		return "code-label"
	case RegionNumberLabel:
		return "number-label"
	default:
		return "unknown"
	}
}

// IsLabel reports whether the region is reserved for a text overlay.
func (k RegionKind) IsLabel() bool {
	return k == RegionCodeLabel || k == RegionNumberLabel
}

// Region is a reserved rectangle of the grid, in cell coordinates
// (X is the column, Y is the row).
type Region struct {
	Kind   RegionKind
	Name   string
	Bounds image.Rectangle
}

// Contains reports whether the cell at (row, col) lies in the region.
func (r Region) Contains(row, col int) bool {
	return image.Pt(col, row).In(r.Bounds)
}

// Layout is the region map of one mode.
type Layout struct {
	Size    int
	Regions []Region
}

// cells builds a rectangle from row/col origin and extent.
func cells(row, col, rows, cols int) image.Rectangle {
	return image.Rect(col, row, col+cols, row+rows)
}

const (
	simpleSize = 8
	denseSize  = 21

	locatorSize   = 7
	alignmentSize = 5
)

// LayoutFor returns the region map for mode. Label regions are always
// reserved, whether or not a label is drawn, so the cell pattern of a key is
// independent of label options.
func LayoutFor(mode Mode) Layout {
	switch mode {
	case ModeDense:
		return Layout{
			Size: denseSize,
			Regions: []Region{
				// Locators include a one-cell blank separator on their inner edges.
				{RegionLocator, "locator-top-left", cells(0, 0, 8, 8)},
				{RegionLocator, "locator-top-right", cells(0, 13, 8, 8)},
				{RegionLocator, "locator-bottom-left", cells(13, 0, 8, 8)},
				{RegionAlignment, "alignment", cells(8, 8, alignmentSize, alignmentSize)},
				{RegionTiming, "timing-horizontal", cells(6, 8, 1, 5)},
				{RegionTiming, "timing-vertical", cells(8, 6, 5, 1)},
				{RegionFormat, "format-horizontal", cells(8, 0, 1, 6)},
				{RegionFormat, "format-vertical", cells(0, 8, 6, 1)},
				{RegionCodeLabel, "code-label", cells(14, 14, 3, 6)},
				{RegionNumberLabel, "number-label", cells(18, 16, 3, 5)},
			},
		}
	default:
		return Layout{
			Size: simpleSize,
			Regions: []Region{
				{RegionCodeLabel, "code-label", cells(3, 2, 2, 4)},
				{RegionNumberLabel, "number-label", cells(7, 5, 1, 3)},
			},
		}
	}
}

// Validate checks that every region lies inside the grid and that no two
// regions share a cell.
func (l Layout) Validate() error {
	grid := image.Rect(0, 0, l.Size, l.Size)
	for i, r := range l.Regions {
		if r.Bounds.Empty() {
			return fmt.Errorf("region %s is empty", r.Name)
		}
		if !r.Bounds.In(grid) {
			return fmt.Errorf("region %s %v outside %dx%d grid", r.Name, r.Bounds, l.Size, l.Size)
		}
		for _, other := range l.Regions[i+1:] {
			if r.Bounds.Overlaps(other.Bounds) {
				return fmt.Errorf("regions %s and %s overlap", r.Name, other.Name)
			}
		}
	}
	return nil
}

// RegionAt returns the index of the region owning (row, col), or -1.
func (l Layout) RegionAt(row, col int) int {
	for i, r := range l.Regions {
		if r.Contains(row, col) {
			return i
		}
	}
	return -1
}

// Region returns the first region of the given kind.
func (l Layout) Region(kind RegionKind) (Region, bool) {
	for _, r := range l.Regions {
		if r.Kind == kind {
			return r, true
		}
	}
	return Region{}, false
}
