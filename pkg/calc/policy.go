package calc

import "math"

const (
	// ValueLimit bounds every literal, intermediate and final value.
	ValueLimit = 2e9

	// WholeTolerance is how close to an integer a value must be to count as
	// whole in integer mode.
	WholeTolerance = 1e-9

	// DivisorTolerance is the smallest divisor magnitude accepted. Anything
	// below it is treated as division by zero.
	DivisorTolerance = 1e-4

	// MaxInputSize is the largest raw input, in bytes, the front ends accept.
	MaxInputSize = 1023

	// DefaultMaxDepth is the default limit on nested parentheses.
	DefaultMaxDepth = 256
)

// Options configures an evaluation. It is fixed once an Evaluator is built.
type Options struct {
	// Float selects floating-point arithmetic. The zero value is integer mode.
	Float bool

	// MaxDepth limits parenthesis nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// ModeName returns "FLOAT" or "INTEGER".
func (o Options) ModeName() string {
	if o.Float {
		return "FLOAT"
	}
	return "INTEGER"
}

func inRange(x float64) bool {
	return x >= -ValueLimit && x <= ValueLimit
}

func isWholeNumber(x float64) bool {
	return math.Abs(x-math.Round(x)) < WholeTolerance
}

// checkRange returns an OutOfRange error reported at pos if x is outside
// ±ValueLimit.
func checkRange(x float64, pos int) error {
	if !inRange(x) {
		return NewOutOfRangeError(pos)
	}
	return nil
}

// checkStep validates a value finalized after an operator: it must be in
// range and, in integer mode, whole.
func (o Options) checkStep(x float64, pos int) error {
	if err := checkRange(x, pos); err != nil {
		return err
	}
	if !o.Float && !isWholeNumber(x) {
		return NewNonIntegerResultError(pos)
	}
	return nil
}

// divide applies the division policy for the configured mode: integer mode
// floors toward negative infinity, float mode divides exactly.
func (o Options) divide(lhs, rhs float64, pos int) (float64, error) {
	if math.Abs(rhs) < DivisorTolerance {
		return 0, NewDivisionByZeroError(pos)
	}
	result := lhs / rhs
	if !o.Float {
		result = math.Floor(result)
	}
	if err := checkRange(result, pos); err != nil {
		return 0, err
	}
	return result, nil
}
