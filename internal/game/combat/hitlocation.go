// Package combat resolves attack rules: hit locations, attack types and
// combat action modifiers.
package combat

import (
	"fmt"
	"sort"
)

// Location identifies a body location an attack can strike.
type Location string

const (
	Head     Location = "head"
	RightArm Location = "rightArm"
	LeftArm  Location = "leftArm"
	Body     Location = "body"
	RightLeg Location = "rightLeg"
	LeftLeg  Location = "leftLeg"
)

// Band maps an inclusive range of reversed d100 values to a location.
type Band struct {
	Location Location `yaml:"location"`
	Label    string   `yaml:"label"`
	Min      int      `yaml:"min"`
	Max      int      `yaml:"max"`
}

// HitLocation is the resolved location of a successful attack.
type HitLocation struct {
	Location Location
	Label    string
	// Roll is the raw attack roll; Reversed is the value looked up in the table.
	Roll     int
	Reversed int
}

// Table is an immutable hit-location table.
type Table struct {
	bands []Band
}

// DefaultBands is the standard six-band table.
var DefaultBands = []Band{
	{Location: Head, Label: "Head", Min: 1, Max: 10},
	{Location: RightArm, Label: "Right Arm", Min: 11, Max: 20},
	{Location: LeftArm, Label: "Left Arm", Min: 21, Max: 30},
	{Location: Body, Label: "Body", Min: 31, Max: 70},
	{Location: RightLeg, Label: "Right Leg", Min: 71, Max: 85},
	{Location: LeftLeg, Label: "Left Leg", Min: 86, Max: 100},
}

// DefaultTable is the table built from DefaultBands.
var DefaultTable = MustNewTable(DefaultBands)

// NewTable validates bands and builds a Table.
//
// Precondition: bands must cover 1..100 exactly once, with no gaps or overlaps.
// Postcondition: Returns a Table or a descriptive error.
func NewTable(bands []Band) (*Table, error) {
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	next := 1
	for _, b := range sorted {
		if b.Location == "" {
			return nil, fmt.Errorf("combat: hit location band %d-%d has no location", b.Min, b.Max)
		}
		if b.Min != next {
			return nil, fmt.Errorf("combat: hit location table expected band starting at %d, got %d (%s)", next, b.Min, b.Location)
		}
		if b.Max < b.Min {
			return nil, fmt.Errorf("combat: hit location band %s has max %d < min %d", b.Location, b.Max, b.Min)
		}
		next = b.Max + 1
	}
	if next != 101 {
		return nil, fmt.Errorf("combat: hit location table must end at 100, ends at %d", next-1)
	}
	return &Table{bands: sorted}, nil
}

// MustNewTable is NewTable that panics on error.
func MustNewTable(bands []Band) *Table {
	t, err := NewTable(bands)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Bands returns a copy of the table's bands in ascending order.
func (t *Table) Bands() []Band {
	out := make([]Band, len(t.bands))
	copy(out, t.bands)
	return out
}

// ReverseDigits swaps the tens and ones digits of a d100 roll: 34 → 43,
// 5 → 50, 10 → 1. A roll of 100 reverses to 1 and a reversed 0 reads as 100.
//
// Precondition: roll is in [1, 100].
// Postcondition: result is in [1, 100].
func ReverseDigits(roll int) int {
	if roll == 100 {
		return 1
	}
	reversed := (roll%10)*10 + roll/10
	if reversed == 0 {
		return 100
	}
	return reversed
}

// Resolve maps roll to a location using its digit-reversed value. Values
// outside every band resolve to Body.
func (t *Table) Resolve(roll int) HitLocation {
	reversed := ReverseDigits(roll)
	for _, b := range t.bands {
		if reversed >= b.Min && reversed <= b.Max {
			return HitLocation{Location: b.Location, Label: b.Label, Roll: roll, Reversed: reversed}
		}
	}
	return HitLocation{Location: Body, Label: "Body", Roll: roll, Reversed: reversed}
}

// ResolveHitLocation resolves roll against DefaultTable.
func ResolveHitLocation(roll int) HitLocation {
	return DefaultTable.Resolve(roll)
}
