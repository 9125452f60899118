// Package dice provides the randomness abstraction, dice-expression rolling,
// and the d100 test classifier used by the rules engine.
package dice

import (
	"fmt"
	"strings"
)

// RollResult is one evaluated dice expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	// Expression is the expression as rolled, e.g. "1d10+4".
	Expression string
	// Dice holds the kept faces; dice from subtracted terms are negative.
	Dice []int
	// Modifier is the sum of the flat terms.
	Modifier int
}

// Total is the value of the roll.
func (r RollResult) Total() int {
	sum := r.Modifier
	for _, face := range r.Dice {
		sum += face
	}
	return sum
}

// String renders the roll for a table log, e.g. "2d10+3 → [4 5] +3 = 12".
// A zero modifier is left out: "1d100 → [57] = 57".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %v", r.Expression, r.Dice)
	if r.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", r.Modifier)
	}
	fmt.Fprintf(&b, " = %d", r.Total())
	return b.String()
}

// Source is the randomness provider for dice rolls. Tests substitute a
// scripted Source to make rolls deterministic.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
