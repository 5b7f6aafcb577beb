package components

// CustomerType describes a patience/movement class. The table is static data;
// a patron's TypeID indexes into it for its whole lifetime.
type CustomerType struct {
	Name        string
	MaxPatience float64
	DecayRate   float64 // fraction of max patience lost per second at difficulty 1
	Speed       float64 // approach speed while arriving, cells per second
	Glyph       rune
}

// CustomerTypes is the static type table.
var CustomerTypes = []CustomerType{
	{Name: "regular", MaxPatience: 100, DecayRate: 0.015, Speed: 8, Glyph: '@'},
	{Name: "hurried", MaxPatience: 80, DecayRate: 0.025, Speed: 12, Glyph: '&'},
	{Name: "patient", MaxPatience: 120, DecayRate: 0.010, Speed: 6, Glyph: '%'},
	{Name: "rowdy", MaxPatience: 90, DecayRate: 0.020, Speed: 10, Glyph: '#'},
}

// SyntheticNames is the display-name pool for demo patrons.
var SyntheticNames = []string{
	"Mel", "Otis", "Priya", "Juno", "Santi", "Wren",
	"Bodie", "Ivo", "Nadia", "Quinn", "Rollo", "Tess",
}

// SyntheticMessages is the canned-message pool for demo patrons.
var SyntheticMessages = []string{
	"one of the usual, no rush",
	"it's been a DAY, pour something",
	"whatever's open works",
	"surprise me, bartender",
	"still waiting over here...",
	"make it a double",
	"anything cold, please",
	"heard this place pours fast",
}
