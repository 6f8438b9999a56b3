package elements

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the chemical family of an element.
// The zero value is CategoryUnknown, used for keys that appear in no list.
type Category uint8

const (
	CategoryUnknown Category = iota
	AlkaliMetal
	AlkalineEarthMetal
	TransitionMetal
	Lanthanide
	Actinide
	PostTransitionMetal
	Metalloid
	ReactiveNonmetal
	NobleGas
)

var categoryNames = [...]struct {
	slug, label string
}{
	CategoryUnknown:     {"unknown", "Unknown"},
	AlkaliMetal:         {"alkali-metal", "Alkali metals"},
	AlkalineEarthMetal:  {"alkaline-earth-metal", "Alkaline earth metals"},
	TransitionMetal:     {"transition-metal", "Transition metals"},
	Lanthanide:          {"lanthanide", "Lanthanides"},
	Actinide:            {"actinide", "Actinides"},
	PostTransitionMetal: {"post-transition-metal", "Other metals"},
	Metalloid:           {"metalloid", "Metalloids"},
	ReactiveNonmetal:    {"reactive-nonmetal", "Non-metals"},
	NobleGas:            {"noble-gas", "Noble gases"},
}

// String returns the human-readable category label.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c].label
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Slug returns the URL- and flag-friendly category name.
func (c Category) Slug() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c].slug
	}
	return "unknown"
}

// MarshalJSON encodes the category as its slug.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Slug())
}

// UnmarshalJSON decodes a slug written by MarshalJSON.
func (c *Category) UnmarshalJSON(b []byte) error {
	var slug string
	if err := json.Unmarshal(b, &slug); err != nil {
		return err
	}
	v, err := ParseCategory(slug)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory parses a slug such as "noble-gas". Matching ignores case and
// accepts underscores in place of dashes.
func ParseCategory(s string) (Category, error) {
	want := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, n := range categoryNames {
		if n.slug == want {
			return Category(i), nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// Categories lists the named categories in display order, without
// CategoryUnknown.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames)-1)
	for i := 1; i < len(categoryNames); i++ {
		out = append(out, Category(i))
	}
	return out
}

type span struct{ lo, hi int }

func one(n int) span { return span{n, n} }

// membership is the source of truth for classification. Lists never overlap.
var membership = []struct {
	cat   Category
	spans []span
}{
	{AlkaliMetal, []span{one(3), one(11), one(19), one(37), one(55), one(87)}},
	{AlkalineEarthMetal, []span{one(4), one(12), one(20), one(38), one(56), one(88)}},
	{TransitionMetal, []span{{21, 30}, {39, 48}, {72, 80}, {104, 112}}},
	{Lanthanide, []span{{57, 71}}},
	{Actinide, []span{{89, 103}}},
	{PostTransitionMetal, []span{one(13), one(31), one(49), one(50), one(81), one(82), one(83), {113, 116}}},
	{Metalloid, []span{one(5), one(14), one(32), one(33), one(51), one(52), one(84)}},
	{ReactiveNonmetal, []span{one(1), {6, 9}, one(15), one(16), one(17), one(34), one(35), one(53)}},
	{NobleGas, []span{one(2), one(10), one(18), one(36), one(54), one(86), one(118)}},
}

// categoryByNumber is the flattened lookup built from membership.
var categoryByNumber = func() [MaxNumber + 1]Category {
	var t [MaxNumber + 1]Category
	for _, m := range membership {
		for _, s := range m.spans {
			for n := s.lo; n <= s.hi; n++ {
				t[n] = m.cat
			}
		}
	}
	return t
}()

// CategoryOf returns the category for key. Keys outside the table, and the
// few elements no list claims (85, 117), are CategoryUnknown.
func CategoryOf(key int) Category {
	if key < 0 || key > MaxNumber {
		return CategoryUnknown
	}
	return categoryByNumber[key]
}
