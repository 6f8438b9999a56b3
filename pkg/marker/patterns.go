package marker

import (
	"math/rand/v2"
)

// Salts separate the generator streams of the sub-patterns.
const (
	saltLocatorTopLeft uint64 = iota + 1
	saltLocatorTopRight
	saltLocatorBottomLeft
	saltAlignment
	saltFill
	saltShape
)

// newRand builds a generator local to one sub-pattern call.
func newRand(h Hash, salt uint64) *rand.Rand {
	seed := uint64(h) + salt
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// cellValue returns a deterministic value in [0, 1) for one cell. It depends
// only on the hash, the salt and the coordinates, never on which other cells
// happen to be reserved.
func cellValue(h Hash, salt uint64, row, col int) float64 {
	seed := uint64(h) + salt
	coord := uint64(row)<<32 | uint64(col)
	return rand.New(rand.NewPCG(seed, coord^0x9e3779b97f4a7c15)).Float64()
}

// locatorTemplate is the unmutated 7×7 corner pattern.
var locatorTemplate = [locatorSize][locatorSize]bool{
	{true, true, true, true, true, true, true},
	{true, false, false, false, false, false, true},
	{true, false, true, true, true, false, true},
	{true, false, true, true, true, false, true},
	{true, false, true, true, true, false, true},
	{true, false, false, false, false, false, true},
	{true, true, true, true, true, true, true},
}

// locatorMutation is a structural change applied to the whole template.
type locatorMutation uint8

const (
	mutationNone   locatorMutation = iota
	mutationNotch                  // clear the outer-ring midpoint facing the grid
	mutationBridge                 // join core and ring above and below
	mutationHollow                 // clear the core center
	mutationCount
)

// innerFlipProbability is the chance each core cell is inverted.
const innerFlipProbability = 1.0 / 3

// locatorPattern builds the 7×7 pattern for one corner. inward gives the
// direction (rows, cols) pointing from the corner into the grid, used to
// place the notch on the inner side.
func locatorPattern(h Hash, salt uint64, inwardRow, inwardCol int) [locatorSize][locatorSize]bool {
	p := locatorTemplate
	rng := newRand(h, salt)

	for r := 2; r <= 4; r++ {
		for c := 2; c <= 4; c++ {
			if rng.Float64() < innerFlipProbability {
				p[r][c] = !p[r][c]
			}
		}
	}

	switch locatorMutation((uint64(h) + salt) % uint64(mutationCount)) {
	case mutationNotch:
		if inwardRow > 0 {
			p[6][3] = false
		} else {
			p[0][3] = false
		}
		if inwardCol > 0 {
			p[3][6] = false
		} else {
			p[3][0] = false
		}
	case mutationBridge:
		p[1][3] = true
		p[5][3] = true
	case mutationHollow:
		p[3][3] = false
	}
	return p
}

// drawLocator writes a locator into region idx. The pattern sits in the
// outer corner of the 8×8 region; the remaining row and column stay blank
// as a separator.
func (g *Grid) drawLocator(idx int, salt uint64) {
	b := g.Regions[idx].Bounds
	rowOff, colOff := b.Min.Y, b.Min.X
	inwardRow, inwardCol := 1, 1
	if b.Min.Y > 0 {
		rowOff = b.Max.Y - locatorSize
		inwardRow = -1
	}
	if b.Min.X > 0 {
		colOff = b.Max.X - locatorSize
		inwardCol = -1
	}

	p := locatorPattern(g.Hash, salt, inwardRow, inwardCol)
	for r := 0; r < locatorSize; r++ {
		for c := 0; c < locatorSize; c++ {
			if p[r][c] {
				g.set(idx, rowOff+r, colOff+c, Square)
			}
		}
	}
	g.claim(idx)
}

// alignmentThreshold returns the interior fill probability: one of
// 0.3, 0.4, 0.5, 0.6 or 0.7 depending on the hash.
func alignmentThreshold(h Hash) float64 {
	return 0.30 + 0.10*float64(uint64(h)%5)
}

// drawAlignment writes the bordered center block into region idx.
func (g *Grid) drawAlignment(idx int) {
	b := g.Regions[idx].Bounds
	rng := newRand(g.Hash, saltAlignment)
	threshold := alignmentThreshold(g.Hash)

	for row := b.Min.Y; row < b.Max.Y; row++ {
		for col := b.Min.X; col < b.Max.X; col++ {
			border := row == b.Min.Y || row == b.Max.Y-1 || col == b.Min.X || col == b.Max.X-1
			if border || rng.Float64() < threshold {
				g.set(idx, row, col, Square)
			}
		}
	}
	g.claim(idx)
}

// drawTiming writes an alternating strip starting with a filled cell.
func (g *Grid) drawTiming(idx int) {
	b := g.Regions[idx].Bounds
	i := 0
	for row := b.Min.Y; row < b.Max.Y; row++ {
		for col := b.Min.X; col < b.Max.X; col++ {
			if i%2 == 0 {
				g.set(idx, row, col, Square)
			}
			i++
		}
	}
	g.claim(idx)
}

// drawFormat writes consecutive hash bits, starting at bit offset, into the
// strip cells in reading order.
func (g *Grid) drawFormat(idx int, offset uint) {
	b := g.Regions[idx].Bounds
	bit := offset
	for row := b.Min.Y; row < b.Max.Y; row++ {
		for col := b.Min.X; col < b.Max.X; col++ {
			if uint32(g.Hash)>>bit&1 == 1 {
				g.set(idx, row, col, Square)
			}
			bit++
		}
	}
	g.claim(idx)
}

// fillThreshold varies slightly along diagonals so the fill shows no
// horizontal or vertical banding.
func fillThreshold(row, col int) float64 {
	return 0.5 + 0.04*float64((row+col)%3-1)
}

// fill inks every unclaimed, unreserved cell whose value clears its
// threshold.
func (g *Grid) fill() {
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			i := row*g.Size + col
			if g.owner[i] >= 0 || g.written[i] {
				continue
			}
			if cellValue(g.Hash, saltFill, row, col) >= fillThreshold(row, col) {
				g.set(-1, row, col, g.shapeFor(row, col))
			} else {
				g.written[i] = true
			}
		}
	}
}

// shapeFor picks the glyph of a filled general-fill cell.
func (g *Grid) shapeFor(row, col int) Cell {
	if g.Shape != ShapeMixed {
		return Square
	}
	v := cellValue(g.Hash, saltShape, row, col)
	switch {
	case v < 0.60:
		return Square
	case v < 0.85:
		return Circle
	default:
		// Spread the remaining 15% over the four orientations.
		return TriangleUp + Cell(int((v-0.85)/0.15*4)%4)
	}
}

// claim marks every cell of region idx as written, so blank cells of a
// finished region can never be inked later.
func (g *Grid) claim(idx int) {
	b := g.Regions[idx].Bounds
	for row := b.Min.Y; row < b.Max.Y; row++ {
		for col := b.Min.X; col < b.Max.X; col++ {
			g.written[row*g.Size+col] = true
		}
	}
}
