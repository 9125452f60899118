package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/rogue-trader/internal/game/actor"
	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
	"github.com/cory-johannsen/rogue-trader/internal/game/item"
	"github.com/cory-johannsen/rogue-trader/internal/storage/postgres"
)

// errUsage marks command-line mistakes; run exits 2 for them.
var errUsage = errors.New("usage")

// dispatch runs the named command.
func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "derive":
		return a.withSheet(ctx, args, 0, a.derive)
	case "skills":
		return a.withSheet(ctx, args, 0, a.skills)
	case "test":
		return a.withSheet(ctx, args, 1, func(s *actor.Sheet, args []string) error {
			k, err := characteristic.ParseKey(args[0])
			if err != nil {
				return err
			}
			return a.printTest(a.engine.RollCharacteristic(s, k, a.opts))
		})
	case "skill":
		return a.withSheet(ctx, args, 1, func(s *actor.Sheet, args []string) error {
			return a.printTest(a.engine.RollSkill(s, args[0], a.opts))
		})
	case "spec":
		return a.withSheet(ctx, args, 2, func(s *actor.Sheet, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: specialization index %q is not a number", errUsage, args[1])
			}
			return a.printTest(a.engine.RollSpecialization(s, args[0], idx, a.opts))
		})
	case "custom":
		return a.withItem(ctx, args, func(s *actor.Sheet, it item.Item) error {
			return a.printTest(a.engine.RollCustomSkill(s, it, a.opts))
		})
	case "attack":
		return a.withItem(ctx, args, func(s *actor.Sheet, it item.Item) error {
			return a.printTest(a.engine.RollAttack(s, it, a.opts))
		})
	case "power":
		return a.withItem(ctx, args, func(s *actor.Sheet, it item.Item) error {
			return a.printTest(a.engine.RollPower(s, it, a.opts))
		})
	case "damage":
		return a.withItem(ctx, args, a.damage)
	case "initiative":
		return a.withSheet(ctx, args, 0, func(s *actor.Sheet, _ []string) error {
			out, err := a.engine.RollInitiative(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Initiative: %s (Agility Bonus %d, trait bonus %+d)\n",
				out.Roll, out.AgilityBonus, out.InitiativeBonus)
			return nil
		})
	case "hitloc":
		return a.hitLocation(args)
	case "macros":
		return a.listMacros(ctx)
	case "macro":
		return a.runMacro(ctx, args)
	case "store":
		return a.store(ctx)
	case "actors":
		return a.listActors(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) withSheet(ctx context.Context, args []string, n int, fn func(*actor.Sheet, []string) error) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, n, len(args))
	}
	s, err := a.loadSheet(ctx)
	if err != nil {
		return err
	}
	return fn(s, args)
}

func (a *app) withItem(ctx context.Context, args []string, fn func(*actor.Sheet, item.Item) error) error {
	return a.withSheet(ctx, args, 1, func(s *actor.Sheet, args []string) error {
		it, ok := s.FindItem(args[0])
		if !ok {
			return fmt.Errorf("%s has no item %q", s.Name, args[0])
		}
		return fn(s, it)
	})
}

func (a *app) printTest(out actor.Outcome, err error) error {
	if err != nil {
		return err
	}
	verdict := "failure"
	if out.IsSuccess {
		verdict = "success"
	}
	fmt.Fprintf(a.out, "%s: rolled %d vs %d, %s by %d degree(s)\n",
		out.Label, out.Roll, out.Target, verdict, out.Degrees)
	fmt.Fprintf(a.out, "  %s %d, situational %+d", out.Characteristic.Label(), out.CharacteristicTotal, out.Situational)
	if out.Skill != nil {
		fmt.Fprintf(a.out, ", %s", out.Skill.State)
	}
	fmt.Fprintln(a.out)
	if out.HitLocation != nil {
		fmt.Fprintf(a.out, "  Hit location: %s (reversed %d)\n", out.HitLocation.Label, out.HitLocation.Reversed)
	}
	return nil
}

func (a *app) derive(s *actor.Sheet, _ []string) error {
	d := a.engine.Derive(s)
	fmt.Fprintf(a.out, "%s (%s)\n", s.Name, s.Type)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHARACTERISTIC\tVALUE\tMOD\tTOTAL\tBONUS")
	for _, k := range characteristic.All {
		c, ok := d.Get(k)
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", k.Label())
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%+d\t%d\t%d\n", k.Label(), c.Value, c.Modifier, c.Total, c.Bonus)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Initiative bonus: %+d\n", d.InitiativeBonus)
	if d.Wounds != nil {
		fmt.Fprintf(a.out, "Wounds: %d/%d (base %d, %+d)\n",
			d.Wounds.Current, d.Wounds.EffectiveMax, d.Wounds.Max, d.Wounds.Modifier)
	}
	for _, t := range s.Traits() {
		fmt.Fprintf(a.out, "Trait %s: %s\n", t.Name, t.Summary())
	}
	if len(s.Inventory) > 0 {
		fmt.Fprintf(a.out, "Carried weight: %.2f\n", actor.CarriedWeight(s.Inventory))
	}
	return nil
}

func (a *app) skills(s *actor.Sheet, _ []string) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tCHAR\tSTATE\tTARGET")
	for _, r := range a.engine.SkillRows(s) {
		label := r.Label
		if r.Specialization != "" {
			label = fmt.Sprintf("%s (%s) [%d]", r.Label, r.Specialization, r.Index)
		}
		target := "-"
		if r.State.Usable() {
			target = strconv.Itoa(r.Target)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", label, strings.ToUpper(string(r.Characteristic)), r.State, target)
	}
	return tw.Flush()
}

func (a *app) damage(s *actor.Sheet, it item.Item) error {
	out, err := a.engine.RollDamage(s, it)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s damage: %s = %d\n", out.Item, out.Roll, out.Total())
	if out.Substituted != out.Formula {
		fmt.Fprintf(a.out, "  formula %s\n", out.Formula)
	}
	if out.Penetration != 0 || out.Notes != "" {
		fmt.Fprintf(a.out, "  penetration %d", out.Penetration)
		if out.Notes != "" {
			fmt.Fprintf(a.out, ", %s", out.Notes)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *app) hitLocation(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: hitloc takes one roll", errUsage)
	}
	roll, err := strconv.Atoi(args[0])
	if err != nil || roll < 1 || roll > dice.D100Sides {
		return fmt.Errorf("%w: roll must be a number in 1..100, got %q", errUsage, args[0])
	}
	hit := a.engine.Rules().HitLocations().Resolve(roll)
	fmt.Fprintf(a.out, "%d reverses to %d: %s\n", hit.Roll, hit.Reversed, hit.Label)
	return nil
}

func (a *app) listMacros(ctx context.Context) error {
	mgr, err := a.macros(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()
	for _, name := range mgr.Macros() {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) runMacro(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: macro needs a name", errUsage)
	}
	mgr, err := a.macros(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()
	ret, err := mgr.CallMacro(args[0], args[1:]...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ret.String())
	return nil
}

// store creates the -sheet actor, or replaces the stored actor of the same name.
func (a *app) store(ctx context.Context) error {
	if a.sheetPath == "" {
		return fmt.Errorf("%w: store needs -sheet", errUsage)
	}
	s, err := a.loadSheet(ctx)
	if err != nil {
		return err
	}
	return a.withActors(ctx, func(ctx context.Context, repo *postgres.ActorRepository) error {
		existing, err := repo.GetByName(ctx, s.Name)
		switch {
		case errors.Is(err, postgres.ErrActorNotFound):
			rec, err := repo.Create(ctx, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s %s\n", rec.Name, rec.ID)
			return nil
		case err != nil:
			return err
		}
		if err := repo.Update(ctx, existing.ID, s); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "updated %s %s\n", s.Name, existing.ID)
		return nil
	})
}

func (a *app) listActors(ctx context.Context) error {
	return a.withActors(ctx, func(ctx context.Context, repo *postgres.ActorRepository) error {
		records, err := repo.List(ctx, nil)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tID\tUPDATED")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Type, r.ID, r.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	})
}
