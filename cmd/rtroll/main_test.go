package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const varnYAML = `
name: Lord-Captain Varn
type: character
characteristics: {ws: 42, bs: 35, s: 40, t: 38, ag: 33, int: 45, per: 30, wp: 50, fel: 25}
wounds: {max: 12, current: 10}
skills:
  awareness: {trained: true, plus10: true}
  techUse: {trained: false}
specializations:
  scholasticLore:
    - {name: History, trained: true}
items:
  - name: Unnatural Strength
    type: trait
    modifiers:
      - {stat: s, value: 10}
      - {stat: initiative, value: 2}
      - {stat: wounds, value: 3}
  - name: Chainsword
    type: weapon
    attack_type: melee
    damage: 1d10+SB
    penetration: 2
    notes: Tearing
  - name: Fists
    type: weapon
  - name: Smite
    type: power
    roll_type: attack
    damage: 2d10+WPB
inventory:
  - {name: Rations, quantity: 3, weight: 0.5}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func sheetFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "varn.yaml", varnYAML)
}

// invoke runs the tool with warn-level logging and returns its exit code and
// both streams.
func invoke(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("RT_LOGGING_LEVEL", "warn")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Derive(t *testing.T) {
	code, out, _ := invoke(t, "-sheet", sheetFile(t), "derive")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Lord-Captain Varn (character)")
	assert.Contains(t, out, "Initiative bonus: +2")
	assert.Contains(t, out, "Wounds: 10/15 (base 12, +3)")
	assert.Contains(t, out, "Trait Unnatural Strength: Strength +10, initiative +2, wounds +3")
	assert.Contains(t, out, "Carried weight: 1.50")
}

func TestRun_Skills(t *testing.T) {
	code, out, _ := invoke(t, "-sheet", sheetFile(t), "skills")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Awareness")
	assert.Contains(t, out, "Scholastic Lore (History) [0]")
}

func TestRun_Tests(t *testing.T) {
	sheet := sheetFile(t)
	cases := []struct {
		args  []string
		label string
	}{
		{[]string{"test", "ws"}, "Weapon Skill Test: rolled "},
		{[]string{"-difficulty", "hard", "skill", "awareness"}, "Awareness Test: rolled "},
		{[]string{"spec", "scholasticLore", "0"}, "Scholastic Lore (History) Test: rolled "},
		{[]string{"-action", "aimFull", "attack", "chainsword"}, "Chainsword Attack: rolled "},
		{[]string{"power", "Smite"}, "Smite (Attack): rolled "},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			args := append([]string{"-sheet", sheet, "-seed", "7"}, tc.args...)
			code, out, errOut := invoke(t, args...)
			require.Equal(t, 0, code, errOut)
			assert.Contains(t, out, tc.label)
		})
	}
}

func TestRun_SeededRollsRepeat(t *testing.T) {
	sheet := sheetFile(t)
	_, first, _ := invoke(t, "-sheet", sheet, "-seed", "42", "test", "bs")
	_, second, _ := invoke(t, "-sheet", sheet, "-seed", "42", "test", "bs")
	assert.Equal(t, first, second)
}

func TestRun_Damage(t *testing.T) {
	code, out, errOut := invoke(t, "-sheet", sheetFile(t), "damage", "Chainsword")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Chainsword damage: 1d10+5 →")
	assert.Contains(t, out, "formula 1d10+SB")
	assert.Contains(t, out, "penetration 2, Tearing")
}

func TestRun_NoOpsExitZero(t *testing.T) {
	dir := t.TempDir()
	bare := writeFile(t, dir, "bare.yaml", "name: Servitor\ntype: npc\ncharacteristics: {ws: 30}\n")

	code, out, _ := invoke(t, "-sheet", sheetFile(t), "damage", "Fists")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	code, out, _ = invoke(t, "-sheet", bare, "test", "fel")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	code, out, _ = invoke(t, "-sheet", sheetFile(t), "skill", "dodge")
	assert.Equal(t, 0, code, "skill missing from the sheet")
	assert.Empty(t, out)
}

func TestRun_HitLocation(t *testing.T) {
	code, out, _ := invoke(t, "hitloc", "32")
	require.Equal(t, 0, code)
	assert.Equal(t, "32 reverses to 23: Left Arm\n", out)

	code, _, _ = invoke(t, "hitloc", "101")
	assert.Equal(t, 2, code)
}

func TestRun_Errors(t *testing.T) {
	sheet := sheetFile(t)

	code, _, errOut := invoke(t, "-sheet", sheet, "skill", "awarenes")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "did you mean")

	code, _, _ = invoke(t, "-sheet", sheet, "skill", "techUse")
	assert.Equal(t, 1, code, "untrained advanced skill cannot be rolled")

	code, _, errOut = invoke(t, "-sheet", sheet, "attack", "Bolter")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `no item "Bolter"`)

	code, _, _ = invoke(t, "skill", "awareness")
	assert.Equal(t, 2, code, "missing -sheet")

	code, _, _ = invoke(t, "-sheet", sheet, "-actor", "Varn", "derive")
	assert.Equal(t, 2, code)

	code, _, _ = invoke(t, "teleport")
	assert.Equal(t, 2, code)

	code, _, _ = invoke(t)
	assert.Equal(t, 2, code)
}

func TestRun_Macros(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "strength.lua", `
		function sb()
			local total, bonus = rt.characteristic("s")
			return bonus
		end
		function where(roll) return rt.hit_location(roll).label end
	`)
	t.Setenv("RT_SCRIPTING_DIR", dir)
	sheet := sheetFile(t)

	code, out, _ := invoke(t, "macros")
	require.Equal(t, 0, code)
	assert.Equal(t, "sb\nwhere\n", out)

	code, out, _ = invoke(t, "-sheet", sheet, "macro", "sb")
	require.Equal(t, 0, code)
	assert.Equal(t, "5\n", out)

	code, out, _ = invoke(t, "macro", "where", "32")
	require.Equal(t, 0, code)
	assert.Equal(t, "Left Arm\n", out)

	code, _, _ = invoke(t, "macro", "missing")
	assert.Equal(t, 1, code)
}

func TestRun_MacrosNeedDir(t *testing.T) {
	code, _, _ := invoke(t, "macros")
	assert.Equal(t, 2, code)
}

// TestRun_HitLocationProperty checks every legal roll resolves.
func TestRun_HitLocationProperty(t *testing.T) {
	t.Setenv("RT_LOGGING_LEVEL", "warn")
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(1, 100).Draw(rt, "roll")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"hitloc", strconv.Itoa(roll)}, &stdout, &stderr)
		if code != 0 || stdout.Len() == 0 {
			rt.Fatalf("roll %d: code %d, stderr %q", roll, code, stderr.String())
		}
	})
}

func TestRun_BundledContent(t *testing.T) {
	t.Setenv("RT_SCRIPTING_DIR", filepath.Join("..", "..", "content", "macros"))
	sheet := filepath.Join("..", "..", "content", "actors", "varn.yaml")

	code, out, errOut := invoke(t, "-config", filepath.Join("..", "..", "configs", "dev.yaml"), "-sheet", sheet, "derive")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Lord-Captain Varn (character)")

	code, out, errOut = invoke(t, "-sheet", sheet, "-seed", "3", "macro", "volley", "3", "100")
	require.Equal(t, 0, code, errOut)
	assert.NotEqual(t, "no hits\n", out, "a target of 100 always hits")

	code, out, _ = invoke(t, "-sheet", sheet, "macro", "sb")
	require.Equal(t, 0, code)
	assert.Equal(t, "5\n", out)
}
