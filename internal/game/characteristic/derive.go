package characteristic

// Wounds is the raw wounds block of an actor.
type Wounds struct {
	Max     int `yaml:"max"`
	Current int `yaml:"current"`
}

// DerivedWounds is the wounds block after trait modifiers are applied.
//
// Invariant: EffectiveMax == Max + Modifier.
type DerivedWounds struct {
	Max          int
	Current      int
	Modifier     int
	EffectiveMax int
}

// Derived is the full derived stat block of an actor.
type Derived struct {
	Characteristics map[Key]Characteristic
	InitiativeBonus int
	// Wounds is nil when the actor has no wounds block.
	Wounds *DerivedWounds
}

// Get returns the derived characteristic for k.
//
// Postcondition: ok is false when the actor has no data for k.
func (d Derived) Get(k Key) (Characteristic, bool) {
	c, ok := d.Characteristics[k]
	return c, ok
}

// Bonuses returns the bonus of every derived characteristic.
func (d Derived) Bonuses() map[Key]int {
	out := make(map[Key]int, len(d.Characteristics))
	for k, c := range d.Characteristics {
		out[k] = c.Bonus
	}
	return out
}

// Derive computes totals and bonuses for every characteristic present in base,
// along with the initiative bonus and effective wounds.
//
// Keys in base that are not characteristics are ignored. Neither base nor mods
// is modified; every call recomputes from scratch.
//
// Postcondition: for every valid k in base,
// result.Characteristics[k].Total == base[k] + mods.For(k).
func Derive(base map[Key]int, wounds *Wounds, mods Modifiers) Derived {
	out := Derived{
		Characteristics: make(map[Key]Characteristic, len(base)),
		InitiativeBonus: mods[StatInitiative],
	}
	for k, v := range base {
		if !k.Valid() {
			continue
		}
		mod := mods.For(k)
		total := v + mod
		out.Characteristics[k] = Characteristic{
			Value:    v,
			Modifier: mod,
			Total:    total,
			Bonus:    FloorDiv(total, 10),
		}
	}
	if wounds != nil {
		wm := mods[StatWounds]
		out.Wounds = &DerivedWounds{
			Max:          wounds.Max,
			Current:      wounds.Current,
			Modifier:     wm,
			EffectiveMax: wounds.Max + wm,
		}
	}
	return out
}
