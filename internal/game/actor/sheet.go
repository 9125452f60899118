// Package actor holds actor sheets and the Engine that resolves tests and
// rolls against them.
package actor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/item"
	"github.com/cory-johannsen/rogue-trader/internal/game/skill"
	"github.com/cory-johannsen/rogue-trader/internal/game/trait"
)

// Type distinguishes player characters from NPCs.
type Type string

const (
	TypeCharacter Type = "character"
	TypeNPC       Type = "npc"
)

// InventoryEntry is a free-form carried item with a weight.
type InventoryEntry struct {
	Name     string  `yaml:"name"`
	Quantity int     `yaml:"quantity"`
	Weight   float64 `yaml:"weight"`
	Notes    string  `yaml:"notes,omitempty"`
}

// Sheet is an immutable snapshot of an actor's authored data. Derived values
// are never stored on the sheet; see Engine.Derive.
type Sheet struct {
	Name            string                            `yaml:"name"`
	Type            Type                              `yaml:"type"`
	Characteristics map[characteristic.Key]int        `yaml:"characteristics"`
	Wounds          *characteristic.Wounds            `yaml:"wounds,omitempty"`
	Skills          map[string]skill.Entry            `yaml:"skills,omitempty"`
	Specializations map[string][]skill.Specialization `yaml:"specializations,omitempty"`
	Items           []item.Item                       `yaml:"items,omitempty"`
	Inventory       []InventoryEntry                  `yaml:"inventory,omitempty"`
}

// Validate checks the sheet's type, characteristic keys and items.
func (s *Sheet) Validate() error {
	switch s.Type {
	case TypeCharacter, TypeNPC:
	case "":
		return fmt.Errorf("actor %q: type is required", s.Name)
	default:
		return fmt.Errorf("actor %q: unknown type %q", s.Name, s.Type)
	}
	for k, v := range s.Characteristics {
		if !k.Valid() {
			return fmt.Errorf("actor %q: unknown characteristic %q", s.Name, k)
		}
		if v < 0 {
			return fmt.Errorf("actor %q: characteristic %s must be >= 0, got %d", s.Name, k, v)
		}
	}
	seen := make(map[string]bool, len(s.Items))
	for _, it := range s.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("actor %q: %w", s.Name, err)
		}
		id := it.ID.String()
		if seen[id] {
			return fmt.Errorf("actor %q: duplicate item id %s", s.Name, id)
		}
		seen[id] = true
	}
	return nil
}

// Traits returns the trait records of every trait item, in sheet order.
func (s *Sheet) Traits() []trait.Trait {
	var out []trait.Trait
	for _, it := range s.Items {
		if t, ok := it.AsTrait(); ok {
			out = append(out, t)
		}
	}
	return out
}

// ItemsOf returns the items of kind k, in sheet order.
func (s *Sheet) ItemsOf(k item.Kind) []item.Item {
	var out []item.Item
	for _, it := range s.Items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// FindItem looks up an item by id or, failing that, by case-insensitive name.
func (s *Sheet) FindItem(ref string) (item.Item, bool) {
	for _, it := range s.Items {
		if it.ID.String() == ref {
			return it, true
		}
	}
	for _, it := range s.Items {
		if strings.EqualFold(it.Name, ref) {
			return it, true
		}
	}
	return item.Item{}, false
}

// ParseSheet decodes and validates a YAML actor sheet. Unknown fields are
// rejected.
func ParseSheet(data []byte) (*Sheet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Sheet
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("actor: empty sheet")
		}
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSheet reads and parses the actor sheet at path.
//
// Postcondition: Returns a validated *Sheet or a non-nil error.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := ParseSheet(data)
	if err != nil {
		return nil, fmt.Errorf("parsing actor sheet %s: %w", path, err)
	}
	return s, nil
}

// MarshalSheet encodes s as YAML.
func MarshalSheet(s *Sheet) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
