package calc

import (
	"math"
	"strconv"
)

// Result is the value of a successful evaluation and the mode it ran in.
type Result struct {
	Value float64
	Float bool
}

// Format renders the result the way the CLI prints it: four decimal places
// in float mode, the rounded integer otherwise. Integer results are checked
// once more for whole-ness.
func (r Result) Format() (string, error) {
	if r.Float {
		return strconv.FormatFloat(r.Value, 'f', 4, 64), nil
	}
	if !isWholeNumber(r.Value) {
		return "", NewFinalNotIntegerError()
	}
	return strconv.FormatInt(int64(math.Round(r.Value)), 10), nil
}
