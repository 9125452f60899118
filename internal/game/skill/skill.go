// Package skill resolves skill test target numbers.
//
// Regular skills, specialization instances and custom skill items all share
// ResolveTarget; the only input that differs between them is where the
// Definition and Entry come from.
package skill

import (
	"errors"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
)

// ErrSkillUnusable is returned when an advanced skill is tested untrained
// without a basic override. No die must be rolled.
var ErrSkillUnusable = errors.New("skill: advanced skill requires training")

// Type is the skill category: basic skills may be tested untrained.
type Type string

const (
	TypeBasic    Type = "basic"
	TypeAdvanced Type = "advanced"
)

// Definition is the static rule-table description of a skill.
type Definition struct {
	Key            string             `yaml:"key"`
	Label          string             `yaml:"label"`
	Characteristic characteristic.Key `yaml:"characteristic"`
	Type           Type               `yaml:"type"`
}

// IsAdvanced reports whether the skill requires training.
func (d Definition) IsAdvanced() bool {
	return d.Type == TypeAdvanced
}

// Entry is an actor's training record for a skill.
type Entry struct {
	Trained  bool `yaml:"trained"`
	IsBasic  bool `yaml:"is_basic"`
	Plus10   bool `yaml:"plus10"`
	Plus20   bool `yaml:"plus20"`
	Modifier int  `yaml:"modifier"`
}

// Specialization is a named instance of a specialization skill, e.g. the
// "History" entry of Scholastic Lore.
type Specialization struct {
	Name  string `yaml:"name"`
	Entry `yaml:",inline"`
}

// Breakdown itemizes how a target number was built.
type Breakdown struct {
	// Characteristic is the characteristic total fed to the resolver.
	Characteristic int
	// Base is Characteristic, or half of it when untrained.
	Base int
	// Halved is true when Base is half the characteristic.
	Halved      bool
	Training    int
	SkillMod    int
	Situational int
}

// Target is a resolved, usable target number.
type Target struct {
	Value     int
	State     State
	Breakdown Breakdown
}

// ResolveTarget computes the target number for testing def with entry.
//
// Postcondition: returns ErrSkillUnusable iff StateOf(entry.Trained,
// entry.IsBasic, def.IsAdvanced()) == StateUntrainedAdvancedLocked;
// otherwise Value == base + training + entry.Modifier + situational.
func ResolveTarget(def Definition, entry Entry, charTotal, situational int) (Target, error) {
	state := StateOf(entry.Trained, entry.IsBasic, def.IsAdvanced())
	if !state.Usable() {
		return Target{State: state}, ErrSkillUnusable
	}

	b := Breakdown{
		Characteristic: charTotal,
		Base:           charTotal,
		SkillMod:       entry.Modifier,
		Situational:    situational,
	}
	if !entry.Trained {
		b.Base = characteristic.FloorDiv(charTotal, 2)
		b.Halved = true
	}
	if entry.Plus10 {
		b.Training += 10
	}
	if entry.Plus20 {
		b.Training += 20
	}

	return Target{
		Value:     b.Base + b.Training + b.SkillMod + b.Situational,
		State:     state,
		Breakdown: b,
	}, nil
}
