// Package trait models trait records and aggregates their stat modifiers.
package trait

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
)

// Modifier is a single stat contribution carried by a trait.
type Modifier struct {
	Stat  string `yaml:"stat"`
	Value int    `yaml:"value"`
}

// Trait is a named bundle of stat modifiers.
type Trait struct {
	ID        uuid.UUID
	Name      string
	Modifiers []Modifier
}

// Summary renders the modifiers as "ws +5, wounds -2". Characteristic stats
// use their display label.
func (t Trait) Summary() string {
	parts := make([]string, 0, len(t.Modifiers))
	for _, m := range t.Modifiers {
		label := m.Stat
		if k := characteristic.Key(m.Stat); k.Valid() {
			label = k.Label()
		}
		parts = append(parts, fmt.Sprintf("%s %+d", label, m.Value))
	}
	return strings.Join(parts, ", ")
}

// Aggregate sums the modifiers of every trait by stat key.
//
// Modifiers naming an unknown stat are skipped without error so traits can
// be authored ahead of engine support.
//
// Postcondition: every key in characteristic.Stats is present in the result.
func Aggregate(traits []Trait) characteristic.Modifiers {
	out := characteristic.NewModifiers()
	for _, t := range traits {
		for _, m := range t.Modifiers {
			if !characteristic.IsStat(m.Stat) {
				continue
			}
			out[characteristic.Stat(m.Stat)] += m.Value
		}
	}
	return out
}
