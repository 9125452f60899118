package ruleset

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
)

//go:embed content/rogue_trader.yaml
var content embed.FS

const defaultContent = "content/rogue_trader.yaml"

// file is the on-disk shape of a rules document.
type file struct {
	Skills          []skill.Definition `yaml:"skills"`
	Specializations []skill.Definition `yaml:"specializations"`
	Difficulties    []Difficulty       `yaml:"difficulties"`
	CombatActions   []combat.Action    `yaml:"combat_actions"`
	HitLocations    []combat.Band      `yaml:"hit_locations"`
	PowerRollTypes  []PowerRollType    `yaml:"power_roll_types"`
}

var (
	defaultOnce  sync.Once
	defaultRules *Rules
)

// Default returns the built-in Rogue Trader tables.
//
// Postcondition: Returns the same non-nil *Rules on every call.
func Default() *Rules {
	defaultOnce.Do(func() {
		data, err := content.ReadFile(defaultContent)
		if err != nil {
			panic(fmt.Sprintf("ruleset.Default: reading embedded content: %v", err))
		}
		r, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("ruleset.Default: embedded content invalid: %v", err))
		}
		defaultRules = r
	})
	return defaultRules
}

// Load reads a rules document from path. An empty path selects Default.
//
// Postcondition: Returns validated Rules or a non-nil error.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a rules document. Unknown fields are rejected.
func Parse(data []byte) (*Rules, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return newRules(f)
}
