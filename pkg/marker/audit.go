package marker

import "fmt"

// Pair names two keys.
type Pair struct {
	A, B int
}

func (p Pair) String() string { return fmt.Sprintf("%d/%d", p.A, p.B) }

// Report summarises how well a set of keys separates.
type Report struct {
	Mode  Mode
	Shape Shape
	Keys  int

	// Identical lists pairs whose filled-state bits match exactly.
	Identical []Pair
	// HashCollisions lists pairs sharing a Hash.
	HashCollisions []Pair

	// MinDistance is the smallest pairwise Hamming distance and Closest the
	// first pair reaching it. Both are zero when fewer than two keys are given.
	MinDistance int
	Closest     Pair
	// MeanDistance is the average pairwise Hamming distance.
	MeanDistance float64
}

// OK reports whether no two keys produced the same grid.
func (r Report) OK() bool { return len(r.Identical) == 0 }

// Audit generates every key and compares all pairs.
func Audit(keys []int, opts Options) (Report, error) {
	rep := Report{Mode: opts.Mode, Shape: opts.Shape, Keys: len(keys)}
	grids := make([]*Grid, len(keys))
	for i, k := range keys {
		g, err := Generate(k, opts)
		if err != nil {
			return Report{}, err
		}
		grids[i] = g
	}

	prints := make([]string, len(grids))
	for i, g := range grids {
		prints[i] = g.Fingerprint()
	}

	var total, pairs int
	rep.MinDistance = -1
	for i := 0; i < len(grids); i++ {
		for j := i + 1; j < len(grids); j++ {
			a, b := grids[i], grids[j]
			p := Pair{a.Key, b.Key}
			if a.Hash == b.Hash {
				rep.HashCollisions = append(rep.HashCollisions, p)
			}
			if prints[i] == prints[j] {
				rep.Identical = append(rep.Identical, p)
			}
			d := a.Distance(b)
			total += d
			pairs++
			if rep.MinDistance < 0 || d < rep.MinDistance {
				rep.MinDistance = d
				rep.Closest = p
			}
		}
	}
	if pairs == 0 {
		rep.MinDistance = 0
		return rep, nil
	}
	rep.MeanDistance = float64(total) / float64(pairs)
	return rep, nil
}
