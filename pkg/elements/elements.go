// Package elements holds the static tables that classify marker keys.
//
// The default key domain is the periodic table: key n is the element with
// atomic number n. Every derived attribute here is a pure function of the key
// backed by fixed lookup data, so callers may use the package from any number
// of goroutines.
//
// The attribute functions ([Period], [Group], [CategoryOf], [DigitSum],
// [DigitProduct]) accept any non-negative integer, not only 1..118; keys
// beyond the table simply land in the last period and [CategoryUnknown].
package elements

import "strings"

// MaxNumber is the highest atomic number in the table.
const MaxNumber = 118

// Element is one entry of the periodic table.
type Element struct {
	Number   int      `json:"number"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// table is indexed by atomic number - 1.
var table = [MaxNumber]struct {
	symbol string
	name   string
}{
	{"H", "Hydrogen"}, {"He", "Helium"}, {"Li", "Lithium"}, {"Be", "Beryllium"},
	{"B", "Boron"}, {"C", "Carbon"}, {"N", "Nitrogen"}, {"O", "Oxygen"},
	{"F", "Fluorine"}, {"Ne", "Neon"}, {"Na", "Sodium"}, {"Mg", "Magnesium"},
	{"Al", "Aluminium"}, {"Si", "Silicon"}, {"P", "Phosphorus"}, {"S", "Sulfur"},
	{"Cl", "Chlorine"}, {"Ar", "Argon"}, {"K", "Potassium"}, {"Ca", "Calcium"},
	{"Sc", "Scandium"}, {"Ti", "Titanium"}, {"V", "Vanadium"}, {"Cr", "Chromium"},
	{"Mn", "Manganese"}, {"Fe", "Iron"}, {"Co", "Cobalt"}, {"Ni", "Nickel"},
	{"Cu", "Copper"}, {"Zn", "Zinc"}, {"Ga", "Gallium"}, {"Ge", "Germanium"},
	{"As", "Arsenic"}, {"Se", "Selenium"}, {"Br", "Bromine"}, {"Kr", "Krypton"},
	{"Rb", "Rubidium"}, {"Sr", "Strontium"}, {"Y", "Yttrium"}, {"Zr", "Zirconium"},
	{"Nb", "Niobium"}, {"Mo", "Molybdenum"}, {"Tc", "Technetium"}, {"Ru", "Ruthenium"},
	{"Rh", "Rhodium"}, {"Pd", "Palladium"}, {"Ag", "Silver"}, {"Cd", "Cadmium"},
	{"In", "Indium"}, {"Sn", "Tin"}, {"Sb", "Antimony"}, {"Te", "Tellurium"},
	{"I", "Iodine"}, {"Xe", "Xenon"}, {"Cs", "Caesium"}, {"Ba", "Barium"},
	{"La", "Lanthanum"}, {"Ce", "Cerium"}, {"Pr", "Praseodymium"}, {"Nd", "Neodymium"},
	{"Pm", "Promethium"}, {"Sm", "Samarium"}, {"Eu", "Europium"}, {"Gd", "Gadolinium"},
	{"Tb", "Terbium"}, {"Dy", "Dysprosium"}, {"Ho", "Holmium"}, {"Er", "Erbium"},
	{"Tm", "Thulium"}, {"Yb", "Ytterbium"}, {"Lu", "Lutetium"}, {"Hf", "Hafnium"},
	{"Ta", "Tantalum"}, {"W", "Tungsten"}, {"Re", "Rhenium"}, {"Os", "Osmium"},
	{"Ir", "Iridium"}, {"Pt", "Platinum"}, {"Au", "Gold"}, {"Hg", "Mercury"},
	{"Tl", "Thallium"}, {"Pb", "Lead"}, {"Bi", "Bismuth"}, {"Po", "Polonium"},
	{"At", "Astatine"}, {"Rn", "Radon"}, {"Fr", "Francium"}, {"Ra", "Radium"},
	{"Ac", "Actinium"}, {"Th", "Thorium"}, {"Pa", "Protactinium"}, {"U", "Uranium"},
	{"Np", "Neptunium"}, {"Pu", "Plutonium"}, {"Am", "Americium"}, {"Cm", "Curium"},
	{"Bk", "Berkelium"}, {"Cf", "Californium"}, {"Es", "Einsteinium"}, {"Fm", "Fermium"},
	{"Md", "Mendelevium"}, {"No", "Nobelium"}, {"Lr", "Lawrencium"}, {"Rf", "Rutherfordium"},
	{"Db", "Dubnium"}, {"Sg", "Seaborgium"}, {"Bh", "Bohrium"}, {"Hs", "Hassium"},
	{"Mt", "Meitnerium"}, {"Ds", "Darmstadtium"}, {"Rg", "Roentgenium"}, {"Cn", "Copernicium"},
	{"Nh", "Nihonium"}, {"Fl", "Flerovium"}, {"Mc", "Moscovium"}, {"Lv", "Livermorium"},
	{"Ts", "Tennessine"}, {"Og", "Oganesson"},
}

// bySymbol maps lower-cased symbols to atomic numbers.
var bySymbol = func() map[string]int {
	m := make(map[string]int, MaxNumber)
	for i, e := range table {
		m[strings.ToLower(e.symbol)] = i + 1
	}
	return m
}()

// Lookup returns the element with the given atomic number.
func Lookup(number int) (Element, bool) {
	if number < 1 || number > MaxNumber {
		return Element{}, false
	}
	e := table[number-1]
	return Element{
		Number:   number,
		Symbol:   e.symbol,
		Name:     e.name,
		Category: CategoryOf(number),
	}, true
}

// BySymbol finds an element by its symbol, ignoring case.
func BySymbol(symbol string) (Element, bool) {
	n, ok := bySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Element{}, false
	}
	return Lookup(n)
}

// Symbol returns the symbol for number, or "" outside the table.
func Symbol(number int) string {
	if e, ok := Lookup(number); ok {
		return e.Symbol
	}
	return ""
}

// All returns every element in atomic-number order.
func All() []Element {
	out := make([]Element, 0, MaxNumber)
	for n := 1; n <= MaxNumber; n++ {
		e, _ := Lookup(n)
		out = append(out, e)
	}
	return out
}

// InCategory returns the elements of category c in atomic-number order.
func InCategory(c Category) []Element {
	var out []Element
	for n := 1; n <= MaxNumber; n++ {
		if categoryByNumber[n] == c {
			e, _ := Lookup(n)
			out = append(out, e)
		}
	}
	return out
}
