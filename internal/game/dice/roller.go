package dice

import "slices"

// Roll rolls every term of expr against src. Subtracted terms contribute
// negated dice; a keep-highest term contributes only its best dice, highest
// first.
//
// Precondition: expr came from Parse and src is non-nil.
func Roll(expr Expression, src Source) (RollResult, error) {
	res := RollResult{Expression: expr.Raw, Modifier: expr.Modifier}
	for _, term := range expr.Terms {
		res.Dice = append(res.Dice, rollTerm(term, src)...)
	}
	return res, nil
}

func rollTerm(term Term, src Source) []int {
	faces := make([]int, term.Count)
	for i := range faces {
		faces[i] = 1 + src.Intn(term.Sides)
	}
	if term.KeepHighest > 0 {
		slices.SortFunc(faces, func(a, b int) int { return b - a })
		faces = faces[:term.KeepHighest]
	}
	if term.Negative {
		for i := range faces {
			faces[i] = -faces[i]
		}
	}
	return faces
}

// RollExpr is Parse followed by Roll.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}
