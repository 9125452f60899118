package actor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/damage"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
	"github.com/cory-johannsen/rogue-trader/internal/game/item"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
)

// DamageOutcome is an evaluated damage roll with the item's damage profile.
type DamageOutcome struct {
	damage.Result

	Item        string
	Penetration int
	Notes       string
}

// RollDamage rolls the damage of a weapon or power. Characteristic bonus
// placeholders are substituted only when s, the owning actor, is non-nil.
//
// Postcondition: returns ErrNoDamage without rolling when the item has no
// formula, and an error wrapping damage.ErrUnparseableFormula when the
// substituted formula is not a dice expression.
func (e *Engine) RollDamage(s *Sheet, it item.Item) (DamageOutcome, error) {
	profile, ok := it.Damage()
	if !ok {
		return DamageOutcome{}, fmt.Errorf("%w: %s is a %s", ErrWrongKind, it.Name, it.Kind)
	}
	if profile.Formula == "" {
		return DamageOutcome{}, fmt.Errorf("%w: %s", ErrNoDamage, it.Name)
	}

	var bonuses map[characteristic.Key]int
	if s != nil {
		bonuses = e.Derive(s).Bonuses()
	}
	res, err := damage.Evaluate(profile.Formula, bonuses, e.roller)
	if err != nil {
		return DamageOutcome{}, err
	}
	e.logger.Debug("damage rolled",
		zap.String("item", it.Name),
		zap.String("formula", res.Formula),
		zap.String("substituted", res.Substituted),
		zap.Int("total", res.Total()),
	)
	return DamageOutcome{
		Result:      res,
		Item:        it.Name,
		Penetration: profile.Penetration,
		Notes:       profile.Notes,
	}, nil
}

// InitiativeOutcome is an initiative roll: 1d10 + Agility Bonus + trait
// initiative bonus.
type InitiativeOutcome struct {
	AgilityBonus    int
	InitiativeBonus int
	Roll            dice.RollResult
}

// Total returns the initiative score.
func (o InitiativeOutcome) Total() int {
	return o.Roll.Total()
}

// RollInitiative rolls initiative for s.
func (e *Engine) RollInitiative(s *Sheet) (InitiativeOutcome, error) {
	d := e.Derive(s)
	ag, ok := d.Get(characteristic.Ag)
	if !ok {
		return InitiativeOutcome{}, fmt.Errorf("%w: %s", ErrMissingCharacteristic, characteristic.Ag)
	}
	roll, err := e.roller.RollExpr(fmt.Sprintf("1d10+%d+%d", ag.Bonus, d.InitiativeBonus))
	if err != nil {
		return InitiativeOutcome{}, fmt.Errorf("rolling initiative: %w", err)
	}
	return InitiativeOutcome{AgilityBonus: ag.Bonus, InitiativeBonus: d.InitiativeBonus, Roll: roll}, nil
}

// SkillRow is the display-ready state of one skill or specialization entry.
type SkillRow struct {
	Key            string
	Label          string
	Characteristic characteristic.Key
	Advanced       bool
	// Specialization is the entry name and Index its position; both are
	// zero for regular skills.
	Specialization string
	Index          int
	Entry          skill.Entry
	State          skill.State
	// Target is meaningful only when State.Usable().
	Target int
}

// SkillRows lists every configured skill followed by every specialization
// entry on the sheet, in rule-table order. Missing characteristics count as 0.
func (e *Engine) SkillRows(s *Sheet) []SkillRow {
	d := e.Derive(s)
	totalOf := func(k characteristic.Key) int {
		c, _ := d.Get(k)
		return c.Total
	}
	row := func(def skill.Definition, entry skill.Entry) SkillRow {
		r := SkillRow{
			Key:            def.Key,
			Label:          def.Label,
			Characteristic: def.Characteristic,
			Advanced:       def.IsAdvanced(),
			Entry:          entry,
		}
		t, err := skill.ResolveTarget(def, entry, totalOf(def.Characteristic), 0)
		r.State = t.State
		if err == nil {
			r.Target = t.Value
		}
		return r
	}

	var rows []SkillRow
	for _, def := range e.rules.Skills() {
		rows = append(rows, row(def, s.Skills[def.Key]))
	}
	for _, def := range e.rules.Specializations() {
		for i, spec := range s.Specializations[def.Key] {
			r := row(def, spec.Entry)
			r.Specialization = spec.Name
			r.Index = i
			rows = append(rows, r)
		}
	}
	return rows
}
