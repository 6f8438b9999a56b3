package elements

import (
	"encoding/json"
	"testing"
)

func TestPeriodAndGroup(t *testing.T) {
	tests := []struct {
		key    int
		period int
		group  int
	}{
		{0, 1, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 1},
		{10, 2, 8},
		{11, 3, 1},
		{20, 4, 2},
		{36, 4, 18},
		{54, 5, 18},
		{55, 6, 1},
		{86, 6, 32},
		{96, 7, 10},
		{118, 7, 32},
		{119, 8, 1},
		{500, 8, 382},
	}

	for _, tt := range tests {
		if got := Period(tt.key); got != tt.period {
			t.Errorf("Period(%d) = %d, want %d", tt.key, got, tt.period)
		}
		if got := Group(tt.key); got != tt.group {
			t.Errorf("Group(%d) = %d, want %d", tt.key, got, tt.group)
		}
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		key     int
		sum     int
		product int
	}{
		{0, 0, 0},
		{7, 7, 7},
		{20, 2, 0},
		{96, 15, 54},
		{118, 10, 8},
		{999, 27, 729},
	}

	for _, tt := range tests {
		if got := DigitSum(tt.key); got != tt.sum {
			t.Errorf("DigitSum(%d) = %d, want %d", tt.key, got, tt.sum)
		}
		if got := DigitProduct(tt.key); got != tt.product {
			t.Errorf("DigitProduct(%d) = %d, want %d", tt.key, got, tt.product)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		key  int
		want Category
	}{
		{1, ReactiveNonmetal},
		{2, NobleGas},
		{3, AlkaliMetal},
		{5, Metalloid},
		{13, PostTransitionMetal},
		{20, AlkalineEarthMetal},
		{26, TransitionMetal},
		{57, Lanthanide},
		{85, CategoryUnknown},
		{92, Actinide},
		{96, Actinide},
		{112, TransitionMetal},
		{117, CategoryUnknown},
		{118, NobleGas},
		{0, CategoryUnknown},
		{-4, CategoryUnknown},
		{300, CategoryUnknown},
	}

	for _, tt := range tests {
		if got := CategoryOf(tt.key); got != tt.want {
			t.Errorf("CategoryOf(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestMembershipListsAreDisjoint(t *testing.T) {
	seen := make(map[int]Category)
	for _, m := range membership {
		for _, s := range m.spans {
			for n := s.lo; n <= s.hi; n++ {
				if prev, ok := seen[n]; ok {
					t.Fatalf("key %d listed in both %v and %v", n, prev, m.cat)
				}
				seen[n] = m.cat
			}
		}
	}
	if len(seen) != MaxNumber-2 {
		t.Errorf("classified %d keys, want %d", len(seen), MaxNumber-2)
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(79)
	if !ok {
		t.Fatal("Lookup(79) not found")
	}
	if e.Symbol != "Au" || e.Name != "Gold" || e.Category != TransitionMetal {
		t.Errorf("Lookup(79) = %+v", e)
	}

	for _, n := range []int{0, -1, 119} {
		if _, ok := Lookup(n); ok {
			t.Errorf("Lookup(%d) should not be found", n)
		}
	}
}

func TestBySymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   int
		ok     bool
	}{
		{"Og", 118, true},
		{"og", 118, true},
		{" FE ", 26, true},
		{"Xx", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		e, ok := BySymbol(tt.symbol)
		if ok != tt.ok || e.Number != tt.want {
			t.Errorf("BySymbol(%q) = (%d, %v), want (%d, %v)", tt.symbol, e.Number, ok, tt.want, tt.ok)
		}
	}
}

func TestSymbolsAreUnique(t *testing.T) {
	all := All()
	if len(all) != MaxNumber {
		t.Fatalf("All() returned %d elements, want %d", len(all), MaxNumber)
	}
	seen := make(map[string]bool)
	for i, e := range all {
		if e.Number != i+1 {
			t.Errorf("All()[%d].Number = %d", i, e.Number)
		}
		if seen[e.Symbol] {
			t.Errorf("duplicate symbol %s", e.Symbol)
		}
		seen[e.Symbol] = true
	}
}

func TestInCategory(t *testing.T) {
	gases := InCategory(NobleGas)
	want := []int{2, 10, 18, 36, 54, 86, 118}
	if len(gases) != len(want) {
		t.Fatalf("InCategory(NobleGas) = %d elements, want %d", len(gases), len(want))
	}
	for i, e := range gases {
		if e.Number != want[i] {
			t.Errorf("InCategory(NobleGas)[%d] = %d, want %d", i, e.Number, want[i])
		}
	}

	if n := len(InCategory(Lanthanide)); n != 15 {
		t.Errorf("InCategory(Lanthanide) = %d elements, want 15", n)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.Slug())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.Slug(), got, err)
		}
	}

	if got, err := ParseCategory("Noble_Gas"); err != nil || got != NobleGas {
		t.Errorf("ParseCategory(Noble_Gas) = %v, %v", got, err)
	}
	if _, err := ParseCategory("halogen"); err == nil {
		t.Error("ParseCategory(halogen) should fail")
	}
}

func TestCategoryJSON(t *testing.T) {
	e, _ := Lookup(2)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"number":2,"symbol":"He","name":"Helium","category":"noble-gas"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestCategoryJSONDecode(t *testing.T) {
	var e Element
	if err := json.Unmarshal([]byte(`{"number":26,"category":"transition-metal"}`), &e); err != nil {
		t.Fatal(err)
	}
	if e.Category != TransitionMetal {
		t.Errorf("category = %v, want %v", e.Category, TransitionMetal)
	}
	if err := json.Unmarshal([]byte(`{"category":"plasma"}`), &e); err == nil {
		t.Error("unknown slug should fail")
	}
}
