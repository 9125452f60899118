package combat

import (
	"fmt"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
)

// AttackType distinguishes melee from ranged weapons.
type AttackType string

const (
	Melee  AttackType = "melee"
	Ranged AttackType = "ranged"
)

// ParseAttackType converts s into an AttackType.
func ParseAttackType(s string) (AttackType, error) {
	switch AttackType(s) {
	case Melee, Ranged:
		return AttackType(s), nil
	default:
		return "", fmt.Errorf("combat: unknown attack type %q", s)
	}
}

// Characteristic returns the characteristic an attack of this type tests:
// Weapon Skill for melee, Ballistic Skill otherwise.
func (a AttackType) Characteristic() characteristic.Key {
	if a == Melee {
		return characteristic.WS
	}
	return characteristic.BS
}

// ActionScope restricts a combat action to an attack type, or both.
type ActionScope string

const (
	ScopeMelee  ActionScope = "melee"
	ScopeRanged ActionScope = "ranged"
	ScopeBoth   ActionScope = "both"
)

// Action is a combat action that modifies an attack test.
type Action struct {
	Key      string      `yaml:"key"`
	Label    string      `yaml:"label"`
	Modifier int         `yaml:"modifier"`
	Type     ActionScope `yaml:"type"`
}

// AppliesTo reports whether the action can be taken with an attack of type at.
func (a Action) AppliesTo(at AttackType) bool {
	return a.Type == ScopeBoth || string(a.Type) == string(at)
}

// FilterActions returns the actions that apply to at, preserving order.
func FilterActions(actions []Action, at AttackType) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.AppliesTo(at) {
			out = append(out, a)
		}
	}
	return out
}
