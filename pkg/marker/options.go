package marker

import (
	"strings"

	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
)

// DefaultMaxKey is the upper bound of the key domain when Options.MaxKey is 0.
const DefaultMaxKey = elements.MaxNumber

// Mode selects the grid geometry.
type Mode uint8

const (
	// ModeSimple is an 8×8 grid with label regions only.
	ModeSimple Mode = iota
	// ModeDense is a 21×21 grid with locators, alignment and timing.
	ModeDense
)

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeDense:
		return "dense"
	default:
		return "unknown"
	}
}

// ParseMode parses "simple" or "dense". The empty string selects ModeSimple.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple":
		return ModeSimple, nil
	case "dense":
		return ModeDense, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidMode, "invalid mode %q (must be simple or dense)", s)
	}
}

// Shape selects how filled general-fill cells are drawn.
type Shape uint8

const (
	// ShapeSquares fills every cell as a square.
	ShapeSquares Shape = iota
	// ShapeMixed mixes squares, circles and oriented triangles.
	ShapeMixed
)

// String returns the shape name accepted by ParseShape.
func (s Shape) String() string {
	switch s {
	case ShapeSquares:
		return "squares"
	case ShapeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseShape parses "squares" or "mixed". The empty string selects ShapeSquares.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "squares", "square":
		return ShapeSquares, nil
	case "mixed":
		return ShapeMixed, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidShape, "invalid shape %q (must be squares or mixed)", s)
	}
}

// Options configures Generate.
type Options struct {
	Mode  Mode
	Shape Shape

	// MaxKey is the largest accepted key. Zero means DefaultMaxKey.
	MaxKey int
}

func (o Options) maxKey() int {
	if o.MaxKey > 0 {
		return o.MaxKey
	}
	return DefaultMaxKey
}

// ValidateKey rejects keys outside 1..maxKey with ErrCodeInvalidKey.
// A maxKey of 0 means DefaultMaxKey.
func ValidateKey(key, maxKey int) error {
	if maxKey <= 0 {
		maxKey = DefaultMaxKey
	}
	if key < 1 || key > maxKey {
		return errors.New(errors.ErrCodeInvalidKey, "key %d outside supported range 1..%d", key, maxKey)
	}
	return nil
}
