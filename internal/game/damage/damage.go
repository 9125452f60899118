// Package damage evaluates weapon and power damage formulas that reference
// characteristic bonuses, e.g. "1d10+SB".
package damage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rogue-trader/internal/game/characteristic"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
)

// ErrUnparseableFormula is returned when a formula is not a valid dice
// expression after placeholder substitution.
var ErrUnparseableFormula = errors.New("damage: unparseable formula")

// placeholder pairs a bonus token with the characteristic it reads.
type placeholder struct {
	token string // upper-case
	key   characteristic.Key
}

// placeholders is ordered longest token first so "WSB" and "BSB" are never
// read as a trailing "SB".
var placeholders = []placeholder{
	{"INTB", characteristic.Int},
	{"PERB", characteristic.Per},
	{"FELB", characteristic.Fel},
	{"WPB", characteristic.WP},
	{"AGB", characteristic.Ag},
	{"WSB", characteristic.WS},
	{"BSB", characteristic.BS},
	{"SB", characteristic.S},
	{"TB", characteristic.T},
}

// Substitute replaces every bonus placeholder in formula, case-insensitively,
// with the matching bonus from bonuses. A nil bonuses map (no owning actor)
// returns formula unchanged; tokens whose characteristic is absent from
// bonuses are copied through verbatim.
func Substitute(formula string, bonuses map[characteristic.Key]int) string {
	if bonuses == nil {
		return formula
	}
	upper := asciiUpper(formula)
	var b strings.Builder
	b.Grow(len(formula))
	for i := 0; i < len(formula); {
		p, ok := matchPlaceholder(upper[i:])
		if !ok {
			b.WriteByte(formula[i])
			i++
			continue
		}
		if v, ok := bonuses[p.key]; ok {
			b.WriteString(strconv.Itoa(v))
		} else {
			b.WriteString(formula[i : i+len(p.token)])
		}
		i += len(p.token)
	}
	return b.String()
}

func matchPlaceholder(s string) (placeholder, bool) {
	for _, p := range placeholders {
		if strings.HasPrefix(s, p.token) {
			return p, true
		}
	}
	return placeholder{}, false
}

// asciiUpper upper-cases ASCII letters only, so byte offsets line up with
// the original string.
func asciiUpper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

// Result is an evaluated damage roll.
type Result struct {
	// Formula is the formula as authored, for display.
	Formula string
	// Substituted is the dice expression actually rolled.
	Substituted string
	Roll        dice.RollResult
}

// Total returns the numeric damage.
func (r Result) Total() int {
	return r.Roll.Total()
}

// Evaluate substitutes bonuses into formula and rolls the result with roller.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a Result, or an error wrapping ErrUnparseableFormula.
func Evaluate(formula string, bonuses map[characteristic.Key]int, roller *dice.Roller) (Result, error) {
	substituted := Substitute(formula, bonuses)
	expr, err := dice.Parse(substituted)
	if err != nil {
		return Result{}, fmt.Errorf("%w %q: %w", ErrUnparseableFormula, formula, err)
	}
	roll, err := roller.Roll(expr)
	if err != nil {
		return Result{}, fmt.Errorf("rolling damage %q: %w", substituted, err)
	}
	return Result{Formula: formula, Substituted: substituted, Roll: roll}, nil
}
