package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/config"
	"github.com/cory-johannsen/rogue-trader/internal/game/actor"
	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
	"github.com/cory-johannsen/rogue-trader/internal/game/ruleset"
	"github.com/cory-johannsen/rogue-trader/internal/observability"
	"github.com/cory-johannsen/rogue-trader/internal/scripting"
	"github.com/cory-johannsen/rogue-trader/internal/storage/postgres"
)

// dbTimeout bounds every database round trip the tool makes.
const dbTimeout = 30 * time.Second

// app is one invocation of the tool.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	roller *dice.Roller
	engine *actor.Engine
	out    io.Writer

	opts      actor.Options
	sheetPath string
	actorName string
	sheet     *actor.Sheet
}

// run parses args, executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rtroll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file (empty uses defaults and RT_* env)")
	rulesPath := fs.String("rules", "", "rules YAML file, overrides ruleset.path")
	sheetPath := fs.String("sheet", "", "actor sheet YAML file")
	actorName := fs.String("actor", "", "name of a stored actor to load from the database")
	difficulty := fs.String("difficulty", "", "difficulty key, e.g. challenging")
	action := fs.String("action", "", "combat action key, e.g. aimFull")
	modifier := fs.Int("mod", 0, "extra situational modifier")
	seed := fs.Uint64("seed", 0, "roll with a seeded source; 0 keeps the configured source")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: rtroll [flags] <command> [args]")
		fs.PrintDefaults()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "rtroll: loading config: %v\n", err)
		return 1
	}
	if *rulesPath != "" {
		cfg.Ruleset.Path = *rulesPath
	}
	if *seed != 0 {
		cfg.Dice = config.DiceConfig{Source: config.DiceSourceSeeded, Seed: *seed}
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "rtroll: creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	rules, err := ruleset.Load(cfg.Ruleset.Path)
	if err != nil {
		fmt.Fprintf(stderr, "rtroll: %v\n", err)
		return 1
	}

	roller := dice.NewLoggedRoller(newSource(cfg.Dice), logger)
	a := &app{
		cfg:       cfg,
		logger:    logger,
		roller:    roller,
		engine:    actor.NewEngine(rules, roller, logger),
		out:       stdout,
		opts:      actor.Options{Difficulty: *difficulty, Action: *action, Modifier: *modifier},
		sheetPath: *sheetPath,
		actorName: *actorName,
	}

	err = a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, actor.ErrMissingCharacteristic),
		errors.Is(err, actor.ErrNoSkillEntry),
		errors.Is(err, actor.ErrNoDamage):
		logger.Info("nothing to roll", zap.Error(err))
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "rtroll: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "rtroll: %v\n", err)
		return 1
	}
}

func newSource(cfg config.DiceConfig) dice.Source {
	if cfg.Source == config.DiceSourceSeeded {
		return dice.NewSeededSource(cfg.Seed)
	}
	return dice.NewCryptoSource()
}

// loadSheet returns the actor named by -sheet or -actor, loading it once.
func (a *app) loadSheet(ctx context.Context) (*actor.Sheet, error) {
	if a.sheet != nil {
		return a.sheet, nil
	}
	switch {
	case a.sheetPath != "" && a.actorName != "":
		return nil, fmt.Errorf("%w: -sheet and -actor are mutually exclusive", errUsage)
	case a.sheetPath != "":
		s, err := actor.LoadSheet(a.sheetPath)
		if err != nil {
			return nil, err
		}
		a.sheet = s
	case a.actorName != "":
		err := a.withActors(ctx, func(ctx context.Context, repo *postgres.ActorRepository) error {
			rec, err := repo.GetByName(ctx, a.actorName)
			if err != nil {
				return fmt.Errorf("loading actor %q: %w", a.actorName, err)
			}
			a.sheet = rec.Sheet
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: this command needs -sheet or -actor", errUsage)
	}
	return a.sheet, nil
}

// withActors connects to the database for the duration of fn.
func (a *app) withActors(ctx context.Context, fn func(context.Context, *postgres.ActorRepository) error) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pool, err := postgres.Connect(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool.Actors())
}

// macros loads the configured macro directory, binding the rt actor
// functions to the current sheet when one was given.
func (a *app) macros(ctx context.Context) (*scripting.Manager, error) {
	if a.cfg.Scripting.Dir == "" {
		return nil, fmt.Errorf("%w: scripting.dir is not configured", errUsage)
	}
	mgr := scripting.NewManager(a.roller, a.engine.Rules().HitLocations(), a.logger)

	if a.sheetPath != "" || a.actorName != "" {
		s, err := a.loadSheet(ctx)
		if err != nil {
			return nil, err
		}
		mgr.Characteristic = func(key string) (int, int, bool) {
			k, err := characteristic.ParseKey(key)
			if err != nil {
				return 0, 0, false
			}
			c, ok := a.engine.Derive(s).Get(k)
			return c.Total, c.Bonus, ok
		}
		mgr.SkillTest = func(key string, modifier int) (dice.TestResult, error) {
			out, err := a.engine.RollSkill(s, key, actor.Options{Modifier: modifier})
			return out.TestResult, err
		}
	}

	if err := mgr.Load(a.cfg.Scripting.Dir, a.cfg.Scripting.InstructionLimit); err != nil {
		return nil, err
	}
	return mgr, nil
}
