package marker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"
)

// Cell is the content of one grid position.
type Cell uint8

const (
	Empty Cell = iota
	Square
	Circle
	TriangleUp
	TriangleRight
	TriangleDown
	TriangleLeft
)

// Filled reports whether the cell carries ink.
func (c Cell) Filled() bool { return c != Empty }

// rune returns the ASCII-art glyph for the cell.
func (c Cell) rune() rune {
	switch c {
	case Empty:
		return '.'
	case Square:
		return '#'
	case Circle:
		return 'o'
	case TriangleUp:
		return '^'
	case TriangleRight:
		return '>'
	case TriangleDown:
		return 'v'
	case TriangleLeft:
		return '<'
	default:
		return '?'
	}
}

// Grid is a generated marker pattern.
type Grid struct {
	Key   int
	Hash  Hash
	Mode  Mode
	Shape Shape
	Size  int

	// Cells is row-major, Size*Size long.
	Cells   []Cell
	Regions []Region

	// owner maps each cell to its region index, -1 for general fill.
	owner []int8
	// written marks cells already claimed by a generation step.
	written []bool
}

func newGrid(key int, h Hash, opts Options, l Layout) *Grid {
	n := l.Size * l.Size
	g := &Grid{
		Key:     key,
		Hash:    h,
		Mode:    opts.Mode,
		Shape:   opts.Shape,
		Size:    l.Size,
		Cells:   make([]Cell, n),
		Regions: l.Regions,
		owner:   make([]int8, n),
		written: make([]bool, n),
	}
	for row := 0; row < l.Size; row++ {
		for col := 0; col < l.Size; col++ {
			g.owner[row*l.Size+col] = int8(l.RegionAt(row, col))
		}
	}
	return g
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) Cell {
	return g.Cells[row*g.Size+col]
}

// Filled reports whether the cell at (row, col) carries ink.
func (g *Grid) Filled(row, col int) bool {
	return g.At(row, col).Filled()
}

// Owner returns the reserved region containing (row, col), if any.
func (g *Grid) Owner(row, col int) (Region, bool) {
	i := g.owner[row*g.Size+col]
	if i < 0 {
		return Region{}, false
	}
	return g.Regions[i], true
}

// set writes c at (row, col) on behalf of region idx (-1 for general fill).
// It refuses cells owned by a different region and cells an earlier step
// already wrote, which is what keeps the steps from overwriting each other.
func (g *Grid) set(idx, row, col int, c Cell) bool {
	i := row*g.Size + col
	if int(g.owner[i]) != idx || g.written[i] {
		return false
	}
	g.Cells[i] = c
	g.written[i] = true
	return true
}

// Bits packs the filled state row-major, most significant bit first.
func (g *Grid) Bits() []byte {
	out := make([]byte, (len(g.Cells)+7)/8)
	for i, c := range g.Cells {
		if c.Filled() {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Fingerprint is the hex SHA-256 of Bits. Two grids with the same
// fingerprint are visually identical in filled state.
func (g *Grid) Fingerprint() string {
	sum := sha256.Sum256(g.Bits())
	return hex.EncodeToString(sum[:])
}

// Distance is the number of cells whose filled state differs.
// Grids of different sizes compare their packed bits; filled cells past the
// end of the shorter grid count as differences.
func (g *Grid) Distance(other *Grid) int {
	a, b := g.Bits(), other.Bits()
	if len(a) < len(b) {
		a, b = b, a
	}
	d := 0
	for i := range a {
		var y byte
		if i < len(b) {
			y = b[i]
		}
		d += bits.OnesCount8(a[i] ^ y)
	}
	return d
}

// FilledCount returns the number of inked cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.Filled() {
			n++
		}
	}
	return n
}

// Rows renders each row as a string of glyphs.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Size)
	var b strings.Builder
	for row := 0; row < g.Size; row++ {
		b.Reset()
		for col := 0; col < g.Size; col++ {
			b.WriteRune(g.At(row, col).rune())
		}
		rows[row] = b.String()
	}
	return rows
}

// String returns a multi-line ASCII rendering with a header line.
func (g *Grid) String() string {
	return fmt.Sprintf("key=%d hash=%s mode=%s %dx%d\n%s\n",
		g.Key, g.Hash, g.Mode, g.Size, g.Size, strings.Join(g.Rows(), "\n"))
}
