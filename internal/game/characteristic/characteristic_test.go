package characteristic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
)

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, want int
	}{
		{43, 4},
		{40, 4},
		{9, 0},
		{0, 0},
		{-1, -1},
		{-10, -1},
		{-11, -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, characteristic.FloorDiv(c.a, 10), "FloorDiv(%d, 10)", c.a)
	}
}

func TestDerive_TotalAndBonus(t *testing.T) {
	mods := characteristic.NewModifiers()
	d := characteristic.Derive(map[characteristic.Key]int{characteristic.WS: 43}, nil, mods)
	ws, ok := d.Get(characteristic.WS)
	require.True(t, ok)
	assert.Equal(t, 43, ws.Total)
	assert.Equal(t, 4, ws.Bonus)
	assert.Equal(t, 0, ws.Modifier)
}

func TestDerive_AppliesModifiers(t *testing.T) {
	mods := characteristic.NewModifiers()
	mods[characteristic.Stat(characteristic.S)] = 10
	mods[characteristic.StatInitiative] = 2
	mods[characteristic.StatWounds] = 3

	d := characteristic.Derive(
		map[characteristic.Key]int{characteristic.S: 35},
		&characteristic.Wounds{Max: 12, Current: 7},
		mods,
	)
	s, ok := d.Get(characteristic.S)
	require.True(t, ok)
	assert.Equal(t, 45, s.Total)
	assert.Equal(t, 4, s.Bonus)
	assert.Equal(t, 10, s.Modifier)
	assert.Equal(t, 2, d.InitiativeBonus)
	require.NotNil(t, d.Wounds)
	assert.Equal(t, 3, d.Wounds.Modifier)
	assert.Equal(t, 15, d.Wounds.EffectiveMax)
	assert.Equal(t, 7, d.Wounds.Current)
}

func TestDerive_NoWoundsModifier_EffectiveMaxEqualsMax(t *testing.T) {
	d := characteristic.Derive(nil, &characteristic.Wounds{Max: 10}, characteristic.NewModifiers())
	require.NotNil(t, d.Wounds)
	assert.Equal(t, 0, d.Wounds.Modifier)
	assert.Equal(t, 10, d.Wounds.EffectiveMax)
}

func TestDerive_NoWoundsBlock(t *testing.T) {
	d := characteristic.Derive(nil, nil, characteristic.NewModifiers())
	assert.Nil(t, d.Wounds)
}

func TestDerive_NegativeTotalFloorsDown(t *testing.T) {
	mods := characteristic.NewModifiers()
	mods[characteristic.Stat(characteristic.Ag)] = -20
	d := characteristic.Derive(map[characteristic.Key]int{characteristic.Ag: 15}, nil, mods)
	ag, _ := d.Get(characteristic.Ag)
	assert.Equal(t, -5, ag.Total)
	assert.Equal(t, -1, ag.Bonus)
}

func TestDerive_MissingKeyAbsent(t *testing.T) {
	d := characteristic.Derive(map[characteristic.Key]int{characteristic.WS: 30}, nil, characteristic.NewModifiers())
	_, ok := d.Get(characteristic.Fel)
	assert.False(t, ok)
}

func TestDerive_IgnoresUnknownBaseKeys(t *testing.T) {
	d := characteristic.Derive(map[characteristic.Key]int{"luck": 50}, nil, characteristic.NewModifiers())
	assert.Empty(t, d.Characteristics)
}

func TestDerive_DoesNotMutateInputs(t *testing.T) {
	base := map[characteristic.Key]int{characteristic.T: 30}
	mods := characteristic.NewModifiers()
	mods[characteristic.Stat(characteristic.T)] = 5
	_ = characteristic.Derive(base, nil, mods)
	assert.Equal(t, 30, base[characteristic.T])
	assert.Equal(t, 5, mods.For(characteristic.T))
}

func TestNewModifiers_AllStatsPresent(t *testing.T) {
	m := characteristic.NewModifiers()
	assert.Len(t, m, 11)
	for _, s := range characteristic.Stats {
		v, ok := m[s]
		assert.True(t, ok, "stat %q must be present", s)
		assert.Equal(t, 0, v)
	}
}

func TestIsStat(t *testing.T) {
	assert.True(t, characteristic.IsStat("ws"))
	assert.True(t, characteristic.IsStat("initiative"))
	assert.True(t, characteristic.IsStat("wounds"))
	assert.False(t, characteristic.IsStat("luck"))
	assert.False(t, characteristic.IsStat("WS"))
}

func TestParseKey(t *testing.T) {
	k, err := characteristic.ParseKey("per")
	require.NoError(t, err)
	assert.Equal(t, characteristic.Per, k)
	assert.Equal(t, "Perception", k.Label())

	_, err = characteristic.ParseKey("initiative")
	assert.Error(t, err)
}

// TestDerive_Property verifies total == value+m and bonus == floor(total/10)
// for arbitrary values and modifiers.
func TestDerive_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.SampledFrom(characteristic.All).Draw(rt, "key")
		value := rapid.IntRange(0, 99).Draw(rt, "value")
		m := rapid.IntRange(-100, 100).Draw(rt, "modifier")

		mods := characteristic.NewModifiers()
		mods[characteristic.Stat(key)] = m
		d := characteristic.Derive(map[characteristic.Key]int{key: value}, nil, mods)
		c, ok := d.Get(key)
		require.True(rt, ok)

		total := value + m
		bonus := total / 10
		if total < 0 && total%10 != 0 {
			bonus--
		}
		assert.Equal(rt, total, c.Total)
		assert.Equal(rt, bonus, c.Bonus)
	})
}

// TestDerive_Idempotent verifies that deriving twice from the same inputs
// yields identical output.
func TestDerive_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := make(map[characteristic.Key]int)
		mods := characteristic.NewModifiers()
		for _, k := range characteristic.All {
			base[k] = rapid.IntRange(0, 99).Draw(rt, string(k))
			mods[characteristic.Stat(k)] = rapid.IntRange(-20, 20).Draw(rt, "mod_"+string(k))
		}
		w := &characteristic.Wounds{Max: rapid.IntRange(1, 30).Draw(rt, "wounds")}
		first := characteristic.Derive(base, w, mods)
		second := characteristic.Derive(base, w, mods)
		assert.Equal(rt, first, second)
	})
}
