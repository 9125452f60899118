package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
)

func TestAttackType_Characteristic(t *testing.T) {
	assert.Equal(t, characteristic.WS, combat.Melee.Characteristic())
	assert.Equal(t, characteristic.BS, combat.Ranged.Characteristic())
}

func TestParseAttackType(t *testing.T) {
	at, err := combat.ParseAttackType("ranged")
	require.NoError(t, err)
	assert.Equal(t, combat.Ranged, at)
	_, err = combat.ParseAttackType("thrown")
	assert.Error(t, err)
}

func TestFilterActions(t *testing.T) {
	actions := []combat.Action{
		{Key: "standard", Type: combat.ScopeBoth},
		{Key: "charge", Modifier: 10, Type: combat.ScopeMelee},
		{Key: "fullAuto", Modifier: 20, Type: combat.ScopeRanged},
	}
	keys := func(as []combat.Action) []string {
		out := make([]string, 0, len(as))
		for _, a := range as {
			out = append(out, a.Key)
		}
		return out
	}
	assert.Equal(t, []string{"standard", "charge"}, keys(combat.FilterActions(actions, combat.Melee)))
	assert.Equal(t, []string{"standard", "fullAuto"}, keys(combat.FilterActions(actions, combat.Ranged)))
}
