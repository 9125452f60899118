package dice

// D100Sides is the number of faces on a percentile die.
const D100Sides = 100

// TestResult is the outcome of a d100 test against a target number.
//
// Invariant: IsSuccess == (Roll <= Target);
// Degrees == |Target - Roll| / 10 (integer division).
type TestResult struct {
	Roll      int
	Target    int
	IsSuccess bool
	Degrees   int
}

// Classify compares roll against target. A roll equal to the target succeeds.
//
// Postcondition: result satisfies the TestResult invariant.
func Classify(roll, target int) TestResult {
	diff := target - roll
	if diff < 0 {
		diff = -diff
	}
	return TestResult{
		Roll:      roll,
		Target:    target,
		IsSuccess: roll <= target,
		Degrees:   diff / 10,
	}
}

// D100 draws a single uniformly distributed value in [1, 100].
//
// Precondition: src must be non-nil.
func D100(src Source) int {
	return src.Intn(D100Sides) + 1
}

// Test rolls one d100 against target and classifies it. Exactly one draw is
// consumed from src.
func Test(target int, src Source) TestResult {
	return Classify(D100(src), target)
}
