// Package item defines the closed set of item variants an actor can own.
package item

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
	"github.com/cory-johannsen/rogue-trader/internal/game/trait"
)

// Kind is the variant tag of an Item.
type Kind int

const (
	KindTrait Kind = iota + 1
	KindWeapon
	KindPower
	KindSkill
	KindGear
)

// Kinds lists every variant.
var Kinds = []Kind{KindTrait, KindWeapon, KindPower, KindSkill, KindGear}

func (k Kind) String() string {
	switch k {
	case KindTrait:
		return "trait"
	case KindWeapon:
		return "weapon"
	case KindPower:
		return "power"
	case KindSkill:
		return "skill"
	case KindGear:
		return "gear"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a type string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("item: unknown type %q", s)
}

// PowerRollType selects how a power test is presented and resolved.
type PowerRollType string

const (
	PowerRollAttack PowerRollType = "attack"
	PowerRollSkill  PowerRollType = "skill"
	PowerRollOther  PowerRollType = "other"
)

// Weapon is the payload of a KindWeapon item.
type Weapon struct {
	AttackType  combat.AttackType
	Damage      string
	Penetration int
	Notes       string
}

// Power is the payload of a KindPower item.
type Power struct {
	Characteristic characteristic.Key
	RollType       PowerRollType
	Modifier       int
	Damage         string
	Penetration    int
	Notes          string
}

// CustomSkill is the payload of a KindSkill item: a free-text skill tested
// like a basic skill against Characteristic.
type CustomSkill struct {
	Characteristic characteristic.Key
	skill.Entry
}

// Gear is the payload of a KindGear item.
type Gear struct {
	Quantity int
	Weight   float64
}

// Item is a tagged variant: exactly the payload matching Kind is set.
// Trait items carry their payload in Modifiers.
type Item struct {
	ID          uuid.UUID
	Name        string
	Kind        Kind
	Description string

	Modifiers []trait.Modifier
	Weapon    *Weapon
	Power     *Power
	Skill     *CustomSkill
	Gear      *Gear
}

// ErrMissingPayload is returned by Validate when the payload for Kind is nil.
var ErrMissingPayload = errors.New("item: missing payload for kind")

// New creates an item of kind with a fresh ID and the default payload for
// that kind.
func New(kind Kind, name string) Item {
	it := Item{ID: uuid.New(), Name: name, Kind: kind}
	switch kind {
	case KindTrait:
		it.Modifiers = []trait.Modifier{}
	case KindWeapon:
		it.Weapon = &Weapon{AttackType: combat.Melee, Damage: "1d10"}
	case KindPower:
		it.Power = &Power{Characteristic: characteristic.WP, RollType: PowerRollSkill}
	case KindSkill:
		it.Skill = &CustomSkill{Characteristic: characteristic.Int, Entry: skill.Entry{Trained: true}}
	case KindGear:
		it.Gear = &Gear{Quantity: 1}
	}
	return it
}

// Validate checks that the payload matches Kind.
func (it Item) Validate() error {
	var ok bool
	switch it.Kind {
	case KindTrait:
		ok = true
	case KindWeapon:
		ok = it.Weapon != nil
	case KindPower:
		ok = it.Power != nil
	case KindSkill:
		ok = it.Skill != nil
	case KindGear:
		ok = it.Gear != nil
	default:
		return fmt.Errorf("item %q: unknown kind %d", it.Name, int(it.Kind))
	}
	if !ok {
		return fmt.Errorf("item %q (%s): %w", it.Name, it.Kind, ErrMissingPayload)
	}
	return nil
}

// AsTrait returns the trait record for a KindTrait item.
func (it Item) AsTrait() (trait.Trait, bool) {
	if it.Kind != KindTrait {
		return trait.Trait{}, false
	}
	return trait.Trait{ID: it.ID, Name: it.Name, Modifiers: it.Modifiers}, true
}

// DamageProfile is the damage-bearing part of a weapon or power.
type DamageProfile struct {
	Formula     string
	Penetration int
	Notes       string
}

// Damage returns the damage profile of a weapon or power. ok is false for
// other kinds.
func (it Item) Damage() (DamageProfile, bool) {
	switch it.Kind {
	case KindWeapon:
		if it.Weapon == nil {
			return DamageProfile{}, false
		}
		return DamageProfile{Formula: it.Weapon.Damage, Penetration: it.Weapon.Penetration, Notes: it.Weapon.Notes}, true
	case KindPower:
		if it.Power == nil {
			return DamageProfile{}, false
		}
		return DamageProfile{Formula: it.Power.Damage, Penetration: it.Power.Penetration, Notes: it.Power.Notes}, true
	case KindTrait, KindSkill, KindGear:
		return DamageProfile{}, false
	default:
		return DamageProfile{}, false
	}
}
