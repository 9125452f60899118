package trait

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
)

// Set is an insertion-ordered arena of traits addressed by ID.
//
// Set is not safe for concurrent mutation.
type Set struct {
	order  []uuid.UUID
	traits map[uuid.UUID]Trait
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{traits: make(map[uuid.UUID]Trait)}
}

// Add stores t and returns its ID. A zero t.ID is replaced with a new random
// ID; adding an existing ID replaces that trait in place.
//
// Postcondition: Get(returned id) yields t.
func (s *Set) Add(t Trait) uuid.UUID {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if _, ok := s.traits[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.traits[t.ID] = t
	return t.ID
}

// Get returns the trait with id, or (Trait{}, false) if not found.
func (s *Set) Get(id uuid.UUID) (Trait, bool) {
	t, ok := s.traits[id]
	return t, ok
}

// Remove deletes the trait with id and reports whether it existed.
func (s *Set) Remove(id uuid.UUID) bool {
	if _, ok := s.traits[id]; !ok {
		return false
	}
	delete(s.traits, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of traits in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// All returns a snapshot of the traits in insertion order.
func (s *Set) All() []Trait {
	out := make([]Trait, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.traits[id])
	}
	return out
}

// Aggregate sums the modifiers of every trait currently in the set. The
// result is recomputed on each call.
func (s *Set) Aggregate() characteristic.Modifiers {
	return Aggregate(s.All())
}
