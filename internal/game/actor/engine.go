package actor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
	"github.com/cory-johannsen/rogue-trader/internal/game/item"
	"github.com/cory-johannsen/rogue-trader/internal/game/ruleset"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
	"github.com/cory-johannsen/rogue-trader/internal/game/trait"
)

var (
	// ErrMissingCharacteristic is returned without rolling when the actor
	// has no data for the characteristic a test needs. Callers treat it as
	// a no-op.
	ErrMissingCharacteristic = errors.New("actor: missing characteristic")
	// ErrUnowned is returned when an attack or power is rolled without an
	// owning actor.
	ErrUnowned = errors.New("actor: item is not owned by an actor")
	// ErrNoSkillEntry is returned without rolling when the sheet has no entry
	// for a skill. Callers treat it as a no-op.
	ErrNoSkillEntry = errors.New("actor: no skill entry")
	// ErrNoSpecialization is returned when a specialization index has no entry.
	ErrNoSpecialization = errors.New("actor: no specialization entry at index")
	// ErrWrongKind is returned when an item cannot make the requested roll.
	ErrWrongKind = errors.New("actor: item kind cannot make this roll")
	// ErrActionNotAllowed is returned when a combat action does not apply to
	// the weapon's attack type.
	ErrActionNotAllowed = errors.New("actor: combat action not allowed for attack type")
	// ErrDifficultyNotAllowed is returned when an attack is given a
	// difficulty; attacks take their situational modifier from a combat
	// action instead.
	ErrDifficultyNotAllowed = errors.New("actor: attacks take a combat action, not a difficulty")
	// ErrNoDamage is returned without rolling when the item has no damage
	// formula. Callers treat it as a no-op.
	ErrNoDamage = errors.New("actor: item has no damage formula")
)

// TestKind labels the flavour of a d100 test.
type TestKind string

const (
	KindCharacteristic TestKind = "characteristic"
	KindSkill          TestKind = "skill"
	KindAttack         TestKind = "attack"
	KindPower          TestKind = "power"
)

// Options are the situational inputs to a test. Difficulty and Action are
// optional rule-table keys whose modifiers add to Modifier. Attacks accept
// only Action; every other test accepts only Difficulty.
type Options struct {
	Difficulty string
	Action     string
	Modifier   int
}

// Outcome is the result of one d100 test.
type Outcome struct {
	dice.TestResult

	Kind  TestKind
	Label string

	Characteristic characteristic.Key
	// CharacteristicTotal is the derived total fed into the target.
	CharacteristicTotal int
	// Situational is the summed difficulty, action and free modifier.
	Situational int

	// Skill is set for skill tests.
	Skill *skill.Target
	// HitLocation is set for successful attacks only.
	HitLocation *combat.HitLocation
}

// Engine resolves tests and rolls for actor sheets.
//
// Engine holds no per-actor state and is safe for concurrent use when its
// dice.Source is.
type Engine struct {
	rules  *ruleset.Rules
	roller *dice.Roller
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: rules, roller and logger must be non-nil.
func NewEngine(rules *ruleset.Rules, roller *dice.Roller, logger *zap.Logger) *Engine {
	if rules == nil {
		panic("actor.NewEngine: precondition violated: rules must be non-nil")
	}
	if roller == nil {
		panic("actor.NewEngine: precondition violated: roller must be non-nil")
	}
	if logger == nil {
		panic("actor.NewEngine: precondition violated: logger must be non-nil")
	}
	return &Engine{rules: rules, roller: roller, logger: logger}
}

// Rules returns the engine's rule tables.
func (e *Engine) Rules() *ruleset.Rules {
	return e.rules
}

// Derive aggregates the sheet's trait items and derives its stat block.
// Nothing is cached; every call rescans the items.
func (e *Engine) Derive(s *Sheet) characteristic.Derived {
	set := trait.NewSet()
	for _, t := range s.Traits() {
		set.Add(t)
	}
	return characteristic.Derive(s.Characteristics, s.Wounds, set.Aggregate())
}

// situational resolves the optional difficulty and action keys of opts.
func (e *Engine) situational(opts Options, at *combat.AttackType) (int, error) {
	total := opts.Modifier
	if at != nil && opts.Difficulty != "" {
		return 0, fmt.Errorf("%w: %q on %s attack", ErrDifficultyNotAllowed, opts.Difficulty, *at)
	}
	if opts.Difficulty != "" {
		d, err := e.rules.Difficulty(opts.Difficulty)
		if err != nil {
			return 0, err
		}
		total += d.Modifier
	}
	if opts.Action != "" {
		a, err := e.rules.CombatAction(opts.Action)
		if err != nil {
			return 0, err
		}
		if at == nil || !a.AppliesTo(*at) {
			scope := "non-attack"
			if at != nil {
				scope = string(*at)
			}
			return 0, fmt.Errorf("%w: %q on %s test", ErrActionNotAllowed, a.Key, scope)
		}
		total += a.Modifier
	}
	return total, nil
}

// characteristicTotal returns the derived total of k or ErrMissingCharacteristic.
func (e *Engine) characteristicTotal(s *Sheet, k characteristic.Key) (int, error) {
	c, ok := e.Derive(s).Get(k)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingCharacteristic, k)
	}
	return c.Total, nil
}

// test rolls against target and fills the shared Outcome fields.
func (e *Engine) test(out Outcome, target int, resolveHit bool) Outcome {
	out.TestResult = e.roller.Test(target)
	if resolveHit && out.IsSuccess {
		hl := e.rules.HitLocations().Resolve(out.Roll)
		out.HitLocation = &hl
	}
	fields := []zap.Field{
		zap.String("kind", string(out.Kind)),
		zap.String("label", out.Label),
		zap.Int("target", out.Target),
		zap.Int("roll", out.Roll),
		zap.Bool("success", out.IsSuccess),
		zap.Int("degrees", out.Degrees),
	}
	if out.HitLocation != nil {
		fields = append(fields, zap.String("hit_location", string(out.HitLocation.Location)))
	}
	e.logger.Debug("test resolved", fields...)
	return out
}

// RollCharacteristic tests characteristic k: target = total + situational.
//
// Postcondition: returns ErrMissingCharacteristic without rolling when the
// sheet lacks k.
func (e *Engine) RollCharacteristic(s *Sheet, k characteristic.Key, opts Options) (Outcome, error) {
	total, err := e.characteristicTotal(s, k)
	if err != nil {
		return Outcome{}, err
	}
	sit, err := e.situational(opts, nil)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{
		Kind:                KindCharacteristic,
		Label:               k.Label() + " Test",
		Characteristic:      k,
		CharacteristicTotal: total,
		Situational:         sit,
	}
	return e.test(out, total+sit, false), nil
}

// RollSkill tests the regular skill key. A skill with no sheet entry is
// tested as untrained.
//
// Postcondition: returns skill.ErrSkillUnusable without rolling for an
// untrained advanced skill lacking a basic override.
func (e *Engine) RollSkill(s *Sheet, key string, opts Options) (Outcome, error) {
	def, err := e.rules.Skill(key)
	if err != nil {
		return Outcome{}, err
	}
	entry, ok := s.Skills[key]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNoSkillEntry, key)
	}
	return e.rollSkill(s, def, entry, def.Label, opts)
}

// RollSpecialization tests the index-th entry of specialization key.
func (e *Engine) RollSpecialization(s *Sheet, key string, index int, opts Options) (Outcome, error) {
	def, err := e.rules.Specialization(key)
	if err != nil {
		return Outcome{}, err
	}
	entries := s.Specializations[key]
	if index < 0 || index >= len(entries) {
		return Outcome{}, fmt.Errorf("%w: %s[%d]", ErrNoSpecialization, key, index)
	}
	spec := entries[index]
	return e.rollSkill(s, def, spec.Entry, fmt.Sprintf("%s (%s)", def.Label, spec.Name), opts)
}

// RollCustomSkill tests a custom skill item. Custom skills are basic.
func (e *Engine) RollCustomSkill(s *Sheet, it item.Item, opts Options) (Outcome, error) {
	if it.Kind != item.KindSkill || it.Skill == nil {
		return Outcome{}, fmt.Errorf("%w: %s is a %s", ErrWrongKind, it.Name, it.Kind)
	}
	def := skill.Definition{
		Key:            it.ID.String(),
		Label:          it.Name,
		Characteristic: it.Skill.Characteristic,
		Type:           skill.TypeBasic,
	}
	return e.rollSkill(s, def, it.Skill.Entry, it.Name, opts)
}

func (e *Engine) rollSkill(s *Sheet, def skill.Definition, entry skill.Entry, label string, opts Options) (Outcome, error) {
	total, err := e.characteristicTotal(s, def.Characteristic)
	if err != nil {
		return Outcome{}, err
	}
	sit, err := e.situational(opts, nil)
	if err != nil {
		return Outcome{}, err
	}
	target, err := skill.ResolveTarget(def, entry, total, sit)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", label, err)
	}
	out := Outcome{
		Kind:                KindSkill,
		Label:               label + " Test",
		Characteristic:      def.Characteristic,
		CharacteristicTotal: total,
		Situational:         sit,
		Skill:               &target,
	}
	return e.test(out, target.Value, false), nil
}

// RollAttack tests a weapon attack: melee against Weapon Skill, ranged
// against Ballistic Skill. A successful attack resolves its hit location.
//
// Precondition: s is the owning actor; a nil s yields ErrUnowned.
func (e *Engine) RollAttack(s *Sheet, weapon item.Item, opts Options) (Outcome, error) {
	if s == nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnowned, weapon.Name)
	}
	if weapon.Kind != item.KindWeapon || weapon.Weapon == nil {
		return Outcome{}, fmt.Errorf("%w: %s is a %s", ErrWrongKind, weapon.Name, weapon.Kind)
	}
	at := weapon.Weapon.AttackType
	k := at.Characteristic()
	total, err := e.characteristicTotal(s, k)
	if err != nil {
		return Outcome{}, err
	}
	sit, err := e.situational(opts, &at)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{
		Kind:                KindAttack,
		Label:               weapon.Name + " Attack",
		Characteristic:      k,
		CharacteristicTotal: total,
		Situational:         sit,
	}
	return e.test(out, total+sit, true), nil
}

// RollPower tests a power against its characteristic (Willpower when unset)
// with the power's own modifier added. Attack powers resolve a hit location
// on success and accept melee/ranged-agnostic combat actions.
func (e *Engine) RollPower(s *Sheet, power item.Item, opts Options) (Outcome, error) {
	if s == nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnowned, power.Name)
	}
	if power.Kind != item.KindPower || power.Power == nil {
		return Outcome{}, fmt.Errorf("%w: %s is a %s", ErrWrongKind, power.Name, power.Kind)
	}
	p := power.Power
	k := p.Characteristic
	if k == "" {
		k = characteristic.WP
	}
	total, err := e.characteristicTotal(s, k)
	if err != nil {
		return Outcome{}, err
	}

	isAttack := p.RollType == item.PowerRollAttack
	var scope *combat.AttackType
	if isAttack {
		// Powers have no weapon type; only actions usable with either apply.
		both := combat.AttackType(combat.ScopeBoth)
		scope = &both
	}
	sit, err := e.situational(opts, scope)
	if err != nil {
		return Outcome{}, err
	}
	sit += p.Modifier

	label := power.Name
	if isAttack {
		label += " (Attack)"
	}
	out := Outcome{
		Kind:                KindPower,
		Label:               label,
		Characteristic:      k,
		CharacteristicTotal: total,
		Situational:         sit,
	}
	return e.test(out, total+sit, isAttack), nil
}
