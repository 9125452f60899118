package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDice bounds the number of dice a single term may roll.
const MaxDice = 1000

// Term is one signed dice group of an expression, e.g. the "2d10" in "2d10+3".
//
// Invariant: Count >= 1, Sides >= 2 after successful Parse.
type Term struct {
	Count       int  // number of dice
	Sides       int  // faces per die
	KeepHighest int  // if > 0, keep only the N highest dice (e.g. 4d6kh3)
	Negative    bool // term is subtracted from the total
}

// Expression represents a parsed dice expression ready to be rolled.
type Expression struct {
	Raw      string // original input string
	Terms    []Term // dice groups in source order
	Modifier int    // sum of all flat terms (may be negative)
}

// Parse parses a dice expression string into an Expression.
// Supported forms are sums and differences of dice groups and integers:
// "d100", "1d10+4", "2d10 + 3 - 1", "1d10+1d5", "4d6kh3", "7", "1d10+-1".
// Whitespace is ignored and the "d" is case-insensitive.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	out := Expression{Raw: expr}
	i := 0
	for i < len(s) {
		// Runs of signs fold together: "+-1" is "-1".
		neg := false
		for i < len(s) && (s[i] == '+' || s[i] == '-') {
			if s[i] == '-' {
				neg = !neg
			}
			i++
		}
		j := i
		for j < len(s) && s[j] != '+' && s[j] != '-' {
			j++
		}
		part := s[i:j]
		if part == "" {
			return Expression{}, fmt.Errorf("dice: missing term at offset %d in %q", i, expr)
		}

		if strings.Contains(part, "d") {
			term, err := parseDiceTerm(part, expr)
			if err != nil {
				return Expression{}, err
			}
			term.Negative = neg
			out.Terms = append(out.Terms, term)
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return Expression{}, fmt.Errorf("dice: invalid term %q in %q", part, expr)
			}
			if neg {
				n = -n
			}
			out.Modifier += n
		}
		i = j
	}
	return out, nil
}

// parseDiceTerm parses a single unsigned "NdS" or "NdSkhK" group.
func parseDiceTerm(part, raw string) (Term, error) {
	dIdx := strings.Index(part, "d")

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := part[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Term{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Term{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
		if count > MaxDice {
			return Term{}, fmt.Errorf("dice: die count %d in %q exceeds %d", count, raw, MaxDice)
		}
	}

	rest := part[dIdx+1:]
	keepHighest := 0
	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return Term{}, fmt.Errorf("dice: invalid kh value in %q: %w", raw, err)
		}
		if kh <= 0 || kh >= count {
			return Term{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", kh, count, raw)
		}
		keepHighest = kh
		rest = rest[:khIdx]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Term{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Term{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	return Term{Count: count, Sides: sides, KeepHighest: keepHighest}, nil
}
