package trait_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/trait"
)

func TestAggregate_Empty_AllKeysZero(t *testing.T) {
	mods := trait.Aggregate(nil)
	assert.Len(t, mods, len(characteristic.Stats))
	for _, s := range characteristic.Stats {
		assert.Equal(t, 0, mods[s])
	}
}

func TestAggregate_SumsAcrossTraits(t *testing.T) {
	traits := []trait.Trait{
		{Name: "Unnatural Strength", Modifiers: []trait.Modifier{{Stat: "s", Value: 10}}},
		{Name: "Brute", Modifiers: []trait.Modifier{{Stat: "s", Value: 5}, {Stat: "ag", Value: -5}}},
		{Name: "Sturdy", Modifiers: []trait.Modifier{{Stat: "wounds", Value: 2}, {Stat: "initiative", Value: 1}}},
	}
	mods := trait.Aggregate(traits)
	assert.Equal(t, 15, mods.For(characteristic.S))
	assert.Equal(t, -5, mods.For(characteristic.Ag))
	assert.Equal(t, 2, mods[characteristic.StatWounds])
	assert.Equal(t, 1, mods[characteristic.StatInitiative])
	assert.Equal(t, 0, mods.For(characteristic.Fel))
}

func TestAggregate_IgnoresUnknownStats(t *testing.T) {
	traits := []trait.Trait{
		{Name: "Lucky", Modifiers: []trait.Modifier{{Stat: "luck", Value: 50}, {Stat: "", Value: 3}}},
	}
	mods := trait.Aggregate(traits)
	assert.Len(t, mods, len(characteristic.Stats))
	_, ok := mods["luck"]
	assert.False(t, ok)
}

func TestTrait_Summary(t *testing.T) {
	tr := trait.Trait{Modifiers: []trait.Modifier{{Stat: "ws", Value: 5}, {Stat: "wounds", Value: -2}}}
	assert.Equal(t, "Weapon Skill +5, wounds -2", tr.Summary())
	assert.Equal(t, "", trait.Trait{}.Summary())
}

func TestSet_AddGetRemove(t *testing.T) {
	s := trait.NewSet()
	id := s.Add(trait.Trait{Name: "A"})
	require.NotEqual(t, uuid.Nil, id)
	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, id, got.ID)

	assert.True(t, s.Remove(id))
	assert.False(t, s.Remove(id))
	assert.Equal(t, 0, s.Len())
}

func TestSet_PreservesInsertionOrder(t *testing.T) {
	s := trait.NewSet()
	a := s.Add(trait.Trait{Name: "A"})
	s.Add(trait.Trait{Name: "B"})
	s.Add(trait.Trait{Name: "C"})
	s.Remove(a)
	s.Add(trait.Trait{Name: "D"})

	names := make([]string, 0)
	for _, tr := range s.All() {
		names = append(names, tr.Name)
	}
	assert.Equal(t, []string{"B", "C", "D"}, names)
}

func TestSet_AddExistingIDReplaces(t *testing.T) {
	s := trait.NewSet()
	id := s.Add(trait.Trait{Name: "Old"})
	s.Add(trait.Trait{ID: id, Name: "New"})
	assert.Equal(t, 1, s.Len())
	got, _ := s.Get(id)
	assert.Equal(t, "New", got.Name)
}

// TestSet_Aggregate_ReflectsMutations verifies that aggregation is recomputed
// after every change to the set.
func TestSet_Aggregate_ReflectsMutations(t *testing.T) {
	s := trait.NewSet()
	id := s.Add(trait.Trait{Modifiers: []trait.Modifier{{Stat: "t", Value: 10}}})
	assert.Equal(t, 10, s.Aggregate().For(characteristic.T))
	s.Remove(id)
	assert.Equal(t, 0, s.Aggregate().For(characteristic.T))
}

// TestAggregate_OrderIndependent verifies that aggregation is commutative.
func TestAggregate_OrderIndependent(t *testing.T) {
	stats := []string{"ws", "bs", "s", "t", "ag", "int", "per", "wp", "fel", "initiative", "wounds", "bogus"}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		traits := make([]trait.Trait, n)
		for i := range traits {
			m := rapid.IntRange(0, 4).Draw(rt, "m")
			for j := 0; j < m; j++ {
				traits[i].Modifiers = append(traits[i].Modifiers, trait.Modifier{
					Stat:  rapid.SampledFrom(stats).Draw(rt, "stat"),
					Value: rapid.IntRange(-30, 30).Draw(rt, "value"),
				})
			}
		}
		reversed := make([]trait.Trait, n)
		for i := range traits {
			reversed[n-1-i] = traits[i]
		}
		assert.Equal(rt, trait.Aggregate(traits), trait.Aggregate(reversed))
	})
}
