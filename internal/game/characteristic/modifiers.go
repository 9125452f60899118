package characteristic

// Stat is a key that trait modifiers can target: any characteristic key,
// plus initiative and wounds.
type Stat string

const (
	StatInitiative Stat = "initiative"
	StatWounds     Stat = "wounds"
)

// Stats lists every modifiable stat key.
var Stats = []Stat{
	Stat(WS), Stat(BS), Stat(S), Stat(T), Stat(Ag),
	Stat(Int), Stat(Per), Stat(WP), Stat(Fel),
	StatInitiative, StatWounds,
}

// IsStat reports whether s names a modifiable stat.
func IsStat(s string) bool {
	if Key(s).Valid() {
		return true
	}
	return Stat(s) == StatInitiative || Stat(s) == StatWounds
}

// Modifiers maps every stat to its summed trait contribution.
type Modifiers map[Stat]int

// NewModifiers returns a Modifiers with every stat present and zero.
//
// Postcondition: len(result) == len(Stats).
func NewModifiers() Modifiers {
	m := make(Modifiers, len(Stats))
	for _, s := range Stats {
		m[s] = 0
	}
	return m
}

// For returns the modifier for characteristic k.
func (m Modifiers) For(k Key) int {
	return m[Stat(k)]
}
