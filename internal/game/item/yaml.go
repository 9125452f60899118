package item

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
	"github.com/cory-johannsen/rogue-trader/internal/game/trait"
)

// document is the flat YAML shape shared by every item kind.
type document struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`

	Modifiers []trait.Modifier `yaml:"modifiers,omitempty"`

	AttackType     string `yaml:"attack_type,omitempty"`
	Characteristic string `yaml:"characteristic,omitempty"`
	RollType       string `yaml:"roll_type,omitempty"`
	Modifier       int    `yaml:"modifier,omitempty"`
	Damage         string `yaml:"damage,omitempty"`
	Penetration    int    `yaml:"penetration,omitempty"`
	Notes          string `yaml:"notes,omitempty"`

	Trained bool `yaml:"trained,omitempty"`
	IsBasic bool `yaml:"is_basic,omitempty"`
	Plus10  bool `yaml:"plus10,omitempty"`
	Plus20  bool `yaml:"plus20,omitempty"`

	Quantity int     `yaml:"quantity,omitempty"`
	Weight   float64 `yaml:"weight,omitempty"`
}

// sharedFields are accepted on every item; kindFields lists the rest per kind.
var (
	sharedFields = []string{"id", "name", "type", "description"}
	kindFields   = map[Kind][]string{
		KindTrait:  {"modifiers"},
		KindWeapon: {"attack_type", "damage", "penetration", "notes"},
		KindPower:  {"characteristic", "roll_type", "modifier", "damage", "penetration", "notes"},
		KindSkill:  {"characteristic", "trained", "is_basic", "plus10", "plus20", "modifier"},
		KindGear:   {"quantity", "weight"},
	}
	modifierFields = []string{"stat", "value"}
)

// unknownField returns the first key of the mapping node that is not in
// allowed, with its line.
func unknownField(node *yaml.Node, allowed ...[]string) (string, int, bool) {
	if node.Kind != yaml.MappingNode {
		return "", 0, false
	}
keys:
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		for _, set := range allowed {
			if slices.Contains(set, key.Value) {
				continue keys
			}
		}
		return key.Value, key.Line, true
	}
	return "", 0, false
}

// checkFields rejects keys that do not belong to kind, including keys nested
// in trait modifier entries. Node.Decode does not inherit the caller's
// KnownFields setting, so items check themselves.
func checkFields(node *yaml.Node, kind Kind, name string) error {
	if key, line, ok := unknownField(node, sharedFields, kindFields[kind]); ok {
		return fmt.Errorf("line %d: item %q: unknown field %q for %s", line, name, key, kind)
	}
	if kind != KindTrait {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "modifiers" {
			continue
		}
		for _, m := range node.Content[i+1].Content {
			if key, line, ok := unknownField(m, modifierFields); ok {
				return fmt.Errorf("line %d: item %q: unknown modifier field %q", line, name, key)
			}
		}
	}
	return nil
}

// UnmarshalYAML decodes the flat item document into the variant selected by
// its type field. A missing id is assigned a fresh one.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return err
	}
	kind, err := ParseKind(doc.Type)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	if err := checkFields(node, kind, doc.Name); err != nil {
		return err
	}

	out := Item{ID: uuid.New(), Name: doc.Name, Kind: kind, Description: doc.Description}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return fmt.Errorf("line %d: item %q: invalid id: %w", node.Line, doc.Name, err)
		}
		out.ID = id
	}

	switch kind {
	case KindTrait:
		out.Modifiers = doc.Modifiers
	case KindWeapon:
		at := combat.Melee
		if doc.AttackType != "" {
			if at, err = combat.ParseAttackType(doc.AttackType); err != nil {
				return fmt.Errorf("line %d: item %q: %w", node.Line, doc.Name, err)
			}
		}
		out.Weapon = &Weapon{AttackType: at, Damage: doc.Damage, Penetration: doc.Penetration, Notes: doc.Notes}
	case KindPower:
		key, err := characteristicOr(doc.Characteristic, characteristic.WP)
		if err != nil {
			return fmt.Errorf("line %d: item %q: %w", node.Line, doc.Name, err)
		}
		rt := PowerRollType(doc.RollType)
		switch rt {
		case "":
			rt = PowerRollSkill
		case PowerRollAttack, PowerRollSkill, PowerRollOther:
		default:
			return fmt.Errorf("line %d: item %q: unknown roll type %q", node.Line, doc.Name, doc.RollType)
		}
		out.Power = &Power{
			Characteristic: key,
			RollType:       rt,
			Modifier:       doc.Modifier,
			Damage:         doc.Damage,
			Penetration:    doc.Penetration,
			Notes:          doc.Notes,
		}
	case KindSkill:
		key, err := characteristicOr(doc.Characteristic, characteristic.Int)
		if err != nil {
			return fmt.Errorf("line %d: item %q: %w", node.Line, doc.Name, err)
		}
		out.Skill = &CustomSkill{
			Characteristic: key,
			Entry: skill.Entry{
				Trained:  doc.Trained,
				IsBasic:  doc.IsBasic,
				Plus10:   doc.Plus10,
				Plus20:   doc.Plus20,
				Modifier: doc.Modifier,
			},
		}
	case KindGear:
		out.Gear = &Gear{Quantity: doc.Quantity, Weight: doc.Weight}
	}

	*it = out
	return nil
}

// MarshalYAML encodes the item as its flat document.
func (it Item) MarshalYAML() (interface{}, error) {
	if err := it.Validate(); err != nil {
		return nil, err
	}
	doc := document{Name: it.Name, Type: it.Kind.String(), Description: it.Description}
	if it.ID != uuid.Nil {
		doc.ID = it.ID.String()
	}
	switch it.Kind {
	case KindTrait:
		doc.Modifiers = it.Modifiers
	case KindWeapon:
		doc.AttackType = string(it.Weapon.AttackType)
		doc.Damage = it.Weapon.Damage
		doc.Penetration = it.Weapon.Penetration
		doc.Notes = it.Weapon.Notes
	case KindPower:
		doc.Characteristic = string(it.Power.Characteristic)
		doc.RollType = string(it.Power.RollType)
		doc.Modifier = it.Power.Modifier
		doc.Damage = it.Power.Damage
		doc.Penetration = it.Power.Penetration
		doc.Notes = it.Power.Notes
	case KindSkill:
		doc.Characteristic = string(it.Skill.Characteristic)
		doc.Trained = it.Skill.Trained
		doc.IsBasic = it.Skill.IsBasic
		doc.Plus10 = it.Skill.Plus10
		doc.Plus20 = it.Skill.Plus20
		doc.Modifier = it.Skill.Modifier
	case KindGear:
		doc.Quantity = it.Gear.Quantity
		doc.Weight = it.Gear.Weight
	}
	return doc, nil
}

func characteristicOr(s string, def characteristic.Key) (characteristic.Key, error) {
	if s == "" {
		return def, nil
	}
	return characteristic.ParseKey(s)
}
