package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller rolls against a Source and records every result on the debug log,
// so a session's rolls can be audited after the fact.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller over src.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice.NewLoggedRoller: precondition violated: src must be non-nil")
	}
	if logger == nil {
		panic("dice.NewLoggedRoller: precondition violated: logger must be non-nil")
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source {
	return r.src
}

// RollExpr parses expr and rolls it.
//
// Postcondition: Returns a RollResult, or the parse error unwrapped.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(parsed)
}

// Roll evaluates a parsed expression.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	res, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, fmt.Errorf("rolling %s: %w", expr.Raw, err)
	}
	if ce := r.logger.Check(zap.DebugLevel, "dice roll"); ce != nil {
		ce.Write(
			zap.String("expression", res.Expression),
			zap.Ints("dice", res.Dice),
			zap.Int("modifier", res.Modifier),
			zap.Int("total", res.Total()),
		)
	}
	return res, nil
}

// Test rolls a d100 against target.
func (r *Roller) Test(target int) TestResult {
	res := Test(target, r.src)
	if ce := r.logger.Check(zap.DebugLevel, "d100 test"); ce != nil {
		ce.Write(
			zap.Int("roll", res.Roll),
			zap.Int("target", res.Target),
			zap.Bool("success", res.IsSuccess),
			zap.Int("degrees", res.Degrees),
		)
	}
	return res
}
