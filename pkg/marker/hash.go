package marker

import (
	"fmt"

	"github.com/matzehuels/fiducial/pkg/elements"
)

// Modulus bounds every Hash: values lie in [0, Modulus).
const Modulus = 1<<31 - 1

// Mixing weights. All are prime and pairwise distinct.
const (
	weightKey          = 2654435761
	weightPeriod       = 2246822519
	weightGroup        = 3266489917
	weightCategory     = 668265263
	weightDigitSum     = 374761393
	weightDigitProduct = 1000000007
	weightParity       = 998244353
	weightDecade       = 1610612741
)

// Hash is the deterministic seed derived from a key.
type Hash uint32

// String formats the hash as fixed-width hex.
func (h Hash) String() string {
	return fmt.Sprintf("%08x", uint32(h))
}

// DeriveHash folds key and its derived attributes into a Hash.
//
// The sum has five independent terms: the key itself, its period and group,
// its category, its digit sum and product, and its parity and decade. Each
// product is reduced modulo [Modulus] before summing, so the result is exact
// for any key. DeriveHash is pure; it is not injective in general but is
// collision-free over 1..118.
func DeriveHash(key int) Hash {
	k := int64(key)
	sum := mulmod(k, weightKey) +
		mulmod(int64(elements.Period(key)), weightPeriod) +
		mulmod(int64(elements.Group(key)), weightGroup) +
		mulmod(int64(elements.CategoryOf(key)), weightCategory) +
		mulmod(int64(elements.DigitSum(key)), weightDigitSum) +
		mulmod(int64(elements.DigitProduct(key)), weightDigitProduct) +
		mulmod(k&1, weightParity) +
		mulmod(floorDiv(k-1, 10), weightDecade)
	return Hash(sum % Modulus)
}

// mulmod returns (a*w) mod Modulus for any sign of a.
func mulmod(a int64, w uint64) uint64 {
	r := a % Modulus
	if r < 0 {
		r += Modulus
	}
	return uint64(r) * (w % Modulus) % Modulus
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
