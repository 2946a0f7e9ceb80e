package calc

import (
	"fmt"
	"io"
)

// ReadInput reads r to the end. It fails with InputTooLarge if the stream
// holds more than limit bytes.
func ReadInput(r io.Reader, limit int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(data) > limit {
		return nil, NewInputTooLargeError()
	}
	return data, nil
}

// Validate rejects input containing any byte IsValidCharacter refuses.
func Validate(input string) error {
	for i := 0; i < len(input); i++ {
		if !IsValidCharacter(input[i]) {
			return NewInvalidCharacterError(i)
		}
	}
	return nil
}

// Sanitize removes every whitespace byte. Digits separated only by
// whitespace therefore join into one literal ("1 2" reads as 12).
func Sanitize(input string) string {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if !isSpace(input[i]) {
			out = append(out, input[i])
		}
	}
	return string(out)
}

// Evaluate validates, sanitizes and evaluates one expression.
func Evaluate(input string, opts Options) (Result, error) {
	if err := Validate(input); err != nil {
		return Result{}, err
	}
	clean := Sanitize(input)
	if clean == "" {
		return Result{}, NewEmptyInputError()
	}

	val, err := NewEvaluator(clean, opts).Run()
	if err != nil {
		return Result{}, err
	}
	return Result{Value: val, Float: opts.Float}, nil
}
