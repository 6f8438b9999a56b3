// Package marker generates deterministic fiducial patterns from integer keys.
//
// A marker is a square grid of cells derived entirely from one key. The key is
// first folded into a [Hash] that mixes the key with its derived attributes
// (period, group, category, digit sum and product), so structurally similar
// keys still end up far apart. Every sub-pattern is then drawn from a
// generator seeded with hash + salt and built fresh for the call; nothing is
// cached or shared between calls, so [Generate] is safe to call from any
// number of goroutines.
//
// # Modes
//
// [ModeSimple] produces an 8×8 grid with two label regions. [ModeDense]
// produces a 21×21 grid with three corner locators, a center alignment block,
// timing and format strips, and the same two label regions.
//
// # Generation order
//
//  1. Corner locators (dense only)
//  2. Center alignment block (dense only)
//  3. Timing and format strips (dense only)
//  4. General fill of every cell outside a reserved region
//  5. Label regions, left blank for the renderer to draw into
//
// A step only ever writes into its own region or into cells nobody owns, so
// later steps can never disturb earlier reserved regions.
//
// # Usage
//
//	g, err := marker.Generate(26, marker.Options{Mode: marker.ModeDense})
//	if err != nil {
//	    return err // errors.ErrCodeInvalidKey
//	}
//	fmt.Println(g)
package marker
