// Package characteristic defines the nine core characteristics and the pure
// derivation of their totals and bonuses from base values and trait modifiers.
package characteristic

import "fmt"

// Key identifies one of the nine characteristics.
type Key string

const (
	WS  Key = "ws"
	BS  Key = "bs"
	S   Key = "s"
	T   Key = "t"
	Ag  Key = "ag"
	Int Key = "int"
	Per Key = "per"
	WP  Key = "wp"
	Fel Key = "fel"
)

// All lists every characteristic in sheet order.
var All = []Key{WS, BS, S, T, Ag, Int, Per, WP, Fel}

var labels = map[Key]string{
	WS:  "Weapon Skill",
	BS:  "Ballistic Skill",
	S:   "Strength",
	T:   "Toughness",
	Ag:  "Agility",
	Int: "Intelligence",
	Per: "Perception",
	WP:  "Willpower",
	Fel: "Fellowship",
}

// Valid reports whether k is one of the nine characteristic keys.
func (k Key) Valid() bool {
	_, ok := labels[k]
	return ok
}

// Label returns the English display name of k, or the raw key when unknown.
func (k Key) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// ParseKey converts s into a Key.
//
// Postcondition: Returns a valid Key or a non-nil error.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !k.Valid() {
		return "", fmt.Errorf("characteristic: unknown key %q", s)
	}
	return k, nil
}

// Characteristic is the derived view of a single characteristic.
//
// Invariant: Total == Value + Modifier; Bonus == FloorDiv(Total, 10).
type Characteristic struct {
	Value    int
	Modifier int
	Total    int
	Bonus    int
}

// FloorDiv divides a by b rounding toward negative infinity.
//
// Precondition: b > 0.
func FloorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
