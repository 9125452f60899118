// Package ruleset holds the static rule tables of the game: skills,
// specializations, test difficulties, combat actions, the hit-location table
// and power roll types.
//
// A Rules value is immutable once built and safe for concurrent use.
package ruleset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/item"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
)

// ErrUnknownKey is matched by every UnknownKeyError.
var ErrUnknownKey = errors.New("ruleset: unknown key")

// UnknownKeyError reports a lookup miss together with near matches.
type UnknownKeyError struct {
	Table       string
	Key         string
	Suggestions []string
}

func (e *UnknownKeyError) Error() string {
	msg := fmt.Sprintf("ruleset: unknown %s %q", e.Table, e.Key)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Is makes errors.Is(err, ErrUnknownKey) hold.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// Difficulty is a named test difficulty and its target modifier.
type Difficulty struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Modifier int    `yaml:"modifier"`
}

// PowerRollType labels one of the power roll types.
type PowerRollType struct {
	Key   item.PowerRollType `yaml:"key"`
	Label string             `yaml:"label"`
}

// Rules is the loaded set of rule tables. Table order is the file order.
type Rules struct {
	skills          []skill.Definition
	specializations []skill.Definition
	difficulties    []Difficulty
	actions         []combat.Action
	hitLocations    *combat.Table
	powerRollTypes  []PowerRollType

	skillIdx  map[string]int
	specIdx   map[string]int
	diffIdx   map[string]int
	actionIdx map[string]int
}

// Skills returns the regular skill definitions.
func (r *Rules) Skills() []skill.Definition {
	return append([]skill.Definition(nil), r.skills...)
}

// Specializations returns the specialization skill definitions.
func (r *Rules) Specializations() []skill.Definition {
	return append([]skill.Definition(nil), r.specializations...)
}

// Difficulties returns the difficulty table, easiest first.
func (r *Rules) Difficulties() []Difficulty {
	return append([]Difficulty(nil), r.difficulties...)
}

// CombatActions returns every combat action.
func (r *Rules) CombatActions() []combat.Action {
	return append([]combat.Action(nil), r.actions...)
}

// CombatActionsFor returns the combat actions available to an attack of type at.
func (r *Rules) CombatActionsFor(at combat.AttackType) []combat.Action {
	return combat.FilterActions(r.actions, at)
}

// HitLocations returns the hit-location table.
func (r *Rules) HitLocations() *combat.Table {
	return r.hitLocations
}

// PowerRollTypes returns the power roll type labels.
func (r *Rules) PowerRollTypes() []PowerRollType {
	return append([]PowerRollType(nil), r.powerRollTypes...)
}

// Skill looks up a regular skill by key.
//
// Postcondition: Returns the definition, or an *UnknownKeyError carrying
// suggestions.
func (r *Rules) Skill(key string) (skill.Definition, error) {
	if i, ok := r.skillIdx[key]; ok {
		return r.skills[i], nil
	}
	return skill.Definition{}, &UnknownKeyError{Table: "skill", Key: key, Suggestions: r.SuggestSkill(key)}
}

// Specialization looks up a specialization skill by key.
func (r *Rules) Specialization(key string) (skill.Definition, error) {
	if i, ok := r.specIdx[key]; ok {
		return r.specializations[i], nil
	}
	return skill.Definition{}, &UnknownKeyError{Table: "specialization", Key: key, Suggestions: r.SuggestSpecialization(key)}
}

// Difficulty looks up a difficulty by key.
func (r *Rules) Difficulty(key string) (Difficulty, error) {
	if i, ok := r.diffIdx[key]; ok {
		return r.difficulties[i], nil
	}
	return Difficulty{}, &UnknownKeyError{Table: "difficulty", Key: key, Suggestions: r.SuggestDifficulty(key)}
}

// CombatAction looks up a combat action by key.
func (r *Rules) CombatAction(key string) (combat.Action, error) {
	if i, ok := r.actionIdx[key]; ok {
		return r.actions[i], nil
	}
	return combat.Action{}, &UnknownKeyError{Table: "combat action", Key: key, Suggestions: r.SuggestCombatAction(key)}
}

// newRules validates the decoded tables and indexes them.
func newRules(f file) (*Rules, error) {
	r := &Rules{
		skills:          f.Skills,
		specializations: f.Specializations,
		difficulties:    f.Difficulties,
		actions:         f.CombatActions,
		powerRollTypes:  f.PowerRollTypes,
	}

	var err error
	if r.skillIdx, err = indexDefinitions("skill", f.Skills); err != nil {
		return nil, err
	}
	if r.specIdx, err = indexDefinitions("specialization", f.Specializations); err != nil {
		return nil, err
	}
	for key := range r.specIdx {
		if _, dup := r.skillIdx[key]; dup {
			return nil, fmt.Errorf("ruleset: key %q is both a skill and a specialization", key)
		}
	}

	r.diffIdx = make(map[string]int, len(f.Difficulties))
	for i, d := range f.Difficulties {
		if err := addKey(r.diffIdx, "difficulty", d.Key, i); err != nil {
			return nil, err
		}
	}

	r.actionIdx = make(map[string]int, len(f.CombatActions))
	for i, a := range f.CombatActions {
		switch a.Type {
		case combat.ScopeMelee, combat.ScopeRanged, combat.ScopeBoth:
		default:
			return nil, fmt.Errorf("ruleset: combat action %q has unknown type %q", a.Key, a.Type)
		}
		if err := addKey(r.actionIdx, "combat action", a.Key, i); err != nil {
			return nil, err
		}
	}

	if len(f.HitLocations) == 0 {
		r.hitLocations = combat.DefaultTable
	} else if r.hitLocations, err = combat.NewTable(f.HitLocations); err != nil {
		return nil, fmt.Errorf("ruleset: %w", err)
	}

	for _, p := range f.PowerRollTypes {
		switch p.Key {
		case item.PowerRollAttack, item.PowerRollSkill, item.PowerRollOther:
		default:
			return nil, fmt.Errorf("ruleset: unknown power roll type %q", p.Key)
		}
	}
	return r, nil
}

func indexDefinitions(table string, defs []skill.Definition) (map[string]int, error) {
	idx := make(map[string]int, len(defs))
	for i, d := range defs {
		if !d.Characteristic.Valid() {
			return nil, fmt.Errorf("ruleset: %s %q has unknown characteristic %q", table, d.Key, d.Characteristic)
		}
		if d.Type != skill.TypeBasic && d.Type != skill.TypeAdvanced {
			return nil, fmt.Errorf("ruleset: %s %q has unknown type %q", table, d.Key, d.Type)
		}
		if err := addKey(idx, table, d.Key, i); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func addKey(idx map[string]int, table, key string, i int) error {
	if key == "" {
		return fmt.Errorf("ruleset: %s at position %d has an empty key", table, i)
	}
	if _, dup := idx[key]; dup {
		return fmt.Errorf("ruleset: duplicate %s %q", table, key)
	}
	idx[key] = i
	return nil
}
