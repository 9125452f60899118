package ruleset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/ruleset"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault_Tables(t *testing.T) {
	r := ruleset.Default()
	assert.Same(t, r, ruleset.Default())

	assert.Len(t, r.Skills(), 38)
	assert.Len(t, r.Specializations(), 10)
	assert.Len(t, r.Difficulties(), 13)
	assert.Len(t, r.CombatActions(), 10)
	assert.Len(t, r.PowerRollTypes(), 3)
	assert.Len(t, r.HitLocations().Bands(), 6)

	for _, d := range r.Specializations() {
		assert.True(t, d.IsAdvanced(), "specialization %s must be advanced", d.Key)
	}
}

func TestDefault_SkillLookup(t *testing.T) {
	r := ruleset.Default()

	aw, err := r.Skill("awareness")
	require.NoError(t, err)
	assert.Equal(t, characteristic.Per, aw.Characteristic)
	assert.Equal(t, skill.TypeBasic, aw.Type)

	tu, err := r.Skill("techUse")
	require.NoError(t, err)
	assert.Equal(t, "Tech-Use", tu.Label)
	assert.True(t, tu.IsAdvanced())

	drive, err := r.Specialization("drive")
	require.NoError(t, err)
	assert.Equal(t, characteristic.Ag, drive.Characteristic)
}

func TestDefault_Difficulties(t *testing.T) {
	r := ruleset.Default()
	ds := r.Difficulties()
	assert.Equal(t, "trivial", ds[0].Key)
	assert.Equal(t, 60, ds[0].Modifier)
	assert.Equal(t, "hellish", ds[len(ds)-1].Key)
	assert.Equal(t, -60, ds[len(ds)-1].Modifier)

	hard, err := r.Difficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, -20, hard.Modifier)
}

func TestCombatActionsFor(t *testing.T) {
	r := ruleset.Default()

	keys := func(as []combat.Action) []string {
		out := make([]string, len(as))
		for i, a := range as {
			out[i] = a.Key
		}
		return out
	}
	assert.Equal(t,
		[]string{"standard", "aimHalf", "aimFull", "allOutAttack", "charge", "calledShot", "guardedAction"},
		keys(r.CombatActionsFor(combat.Melee)))
	assert.Equal(t,
		[]string{"standard", "aimHalf", "aimFull", "calledShot", "guardedAction", "semiAuto", "fullAuto", "suppressingFire"},
		keys(r.CombatActionsFor(combat.Ranged)))

	charge, err := r.CombatAction("charge")
	require.NoError(t, err)
	assert.Equal(t, 10, charge.Modifier)
	assert.False(t, charge.AppliesTo(combat.Ranged))
}

func TestUnknownKey_CarriesSuggestions(t *testing.T) {
	r := ruleset.Default()

	_, err := r.Skill("awarness")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ruleset.ErrUnknownKey))

	var uk *ruleset.UnknownKeyError
	require.True(t, errors.As(err, &uk))
	assert.Equal(t, "skill", uk.Table)
	require.NotEmpty(t, uk.Suggestions)
	assert.Equal(t, "awareness", uk.Suggestions[0])
	assert.Contains(t, err.Error(), "did you mean awareness")

	_, err = r.Difficulty("impossible")
	assert.ErrorIs(t, err, ruleset.ErrUnknownKey)
	_, err = r.CombatAction("fullauto")
	assert.ErrorIs(t, err, ruleset.ErrUnknownKey)
	_, err = r.Specialization("awareness")
	assert.ErrorIs(t, err, ruleset.ErrUnknownKey)
}

func TestSuggest_PrefixAndLabel(t *testing.T) {
	r := ruleset.Default()
	assert.Equal(t, "techUse", r.SuggestSkill("tech")[0])
	assert.Equal(t, "sleightOfHand", r.SuggestSkill("Sleight of Hand")[0])
	assert.Equal(t, "veryHard", r.SuggestDifficulty("very hard")[0])
	assert.Equal(t, "fullAuto", r.SuggestCombatAction("fullauto")[0])
	assert.Equal(t, "scholasticLore", r.SuggestSpecialization("scholastic")[0])
	assert.Empty(t, r.SuggestSkill("zz"))
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	r, err := ruleset.Load("")
	require.NoError(t, err)
	assert.Same(t, ruleset.Default(), r)
}

func TestLoad_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.yaml")
	writeFile(t, path, `
skills:
  - {key: awareness, label: Awareness, characteristic: per, type: basic}
difficulties:
  - {key: routine, label: Routine, modifier: 20}
combat_actions:
  - {key: standard, label: Standard, modifier: 0, type: both}
`)
	r, err := ruleset.Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Skills(), 1)
	assert.Empty(t, r.Specializations())
	assert.Same(t, combat.DefaultTable, r.HitLocations())
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":        "skils: []\n",
		"bad characteristic":   "skills:\n  - {key: a, label: A, characteristic: luck, type: basic}\n",
		"bad skill type":       "skills:\n  - {key: a, label: A, characteristic: ag, type: expert}\n",
		"duplicate skill":      "skills:\n  - {key: a, label: A, characteristic: ag, type: basic}\n  - {key: a, label: B, characteristic: ag, type: basic}\n",
		"skill and spec clash": "skills:\n  - {key: a, label: A, characteristic: ag, type: basic}\nspecializations:\n  - {key: a, label: A, characteristic: ag, type: advanced}\n",
		"empty difficulty key": "difficulties:\n  - {label: X, modifier: 0}\n",
		"bad action scope":     "combat_actions:\n  - {key: a, label: A, modifier: 0, type: thrown}\n",
		"hit location gap":     "hit_locations:\n  - {location: head, label: Head, min: 1, max: 10}\n  - {location: body, label: Body, min: 12, max: 100}\n",
		"bad power roll type":  "power_roll_types:\n  - {key: dance, label: Dance}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ruleset.Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := ruleset.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestSkill_LookupProperty checks that every configured key resolves and
// returns a copy, so callers cannot mutate the tables.
func TestSkill_LookupProperty(t *testing.T) {
	r := ruleset.Default()
	skills := r.Skills()
	rapid.Check(t, func(rt *rapid.T) {
		i := rapid.IntRange(0, len(skills)-1).Draw(rt, "index")
		def, err := r.Skill(skills[i].Key)
		require.NoError(rt, err)
		assert.Equal(rt, skills[i], def)

		mutated := r.Skills()
		mutated[i].Label = "changed"
		again, err := r.Skill(skills[i].Key)
		require.NoError(rt, err)
		assert.Equal(rt, skills[i].Label, again.Label)
	})
}
