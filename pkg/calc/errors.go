package calc

import (
	"errors"
	"fmt"
)

// Kind identifies one class of evaluation failure.
type Kind string

// Error kinds. Every kind is fatal for the evaluation that raised it.
const (
	KindExpectedNumber    Kind = "ExpectedNumber"
	KindNumberOutOfRange  Kind = "NumberOutOfRange"
	KindOutOfRange        Kind = "OutOfRange"
	KindMissingCloseParen Kind = "MissingCloseParen"
	KindNonIntegerResult  Kind = "NonIntegerResult"
	KindDivisionByZero    Kind = "DivisionByZero"
	KindTrailingInput     Kind = "TrailingInput"
	KindInvalidCharacter  Kind = "InvalidCharacter"
	KindEmptyInput        Kind = "EmptyInput"
	KindInputTooLarge     Kind = "InputTooLarge"
	KindUnknownArgument   Kind = "UnknownArgument"
	KindFinalNotInteger   Kind = "FinalNotInteger"
	KindNestingTooDeep    Kind = "NestingTooDeep"
)

// Error is an evaluation failure with its kind and the scanner position
// (in the sanitized input) where it was detected. Pos is -1 when the error
// is not tied to a position.
type Error struct {
	Kind    Kind
	Message string
	Pos     int
}

// Error implements the error interface. Only the message is returned so the
// CLI can print it verbatim after "Error: ".
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a calc error anywhere in err's chain, or "" if
// err is not a calc error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

func newError(kind Kind, pos int, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Pos: pos}
}

// Common error constructors.

// NewExpectedNumberError reports a non-digit where a number literal must start.
func NewExpectedNumberError(pos int) *Error {
	return newError(KindExpectedNumber, pos, "Expected a number")
}

// NewNumberOutOfRangeError reports a literal whose value passed ValueLimit.
func NewNumberOutOfRangeError(pos int) *Error {
	return newError(KindNumberOutOfRange, pos, "Number exceeds allowed range")
}

// NewOutOfRangeError reports an intermediate or final value outside ±ValueLimit.
func NewOutOfRangeError(pos int) *Error {
	return newError(KindOutOfRange, pos, "Value out of range")
}

// NewMissingCloseParenError reports a group that ends without ')'.
func NewMissingCloseParenError(pos int) *Error {
	return newError(KindMissingCloseParen, pos, "Missing closing parenthesis")
}

// NewNonIntegerResultError reports a non-whole step value in integer mode.
func NewNonIntegerResultError(pos int) *Error {
	return newError(KindNonIntegerResult, pos, "Non-integer result in integer mode")
}

// NewDivisionByZeroError is raised for any divisor with magnitude below
// DivisorTolerance, not only exact zero.
func NewDivisionByZeroError(pos int) *Error {
	return newError(KindDivisionByZero, pos, "Division by zero or near-zero")
}

// NewTrailingInputError reports input left over after a complete expression.
func NewTrailingInputError(pos int) *Error {
	return newError(KindTrailingInput, pos, "Unexpected characters after expression")
}

// NewInvalidCharacterError reports a byte outside the accepted alphabet.
func NewInvalidCharacterError(pos int) *Error {
	return newError(KindInvalidCharacter, pos, "Invalid character in input")
}

// NewEmptyInputError reports input that is empty once whitespace is removed.
func NewEmptyInputError() *Error {
	return newError(KindEmptyInput, -1, "Empty input")
}

// NewInputTooLargeError reports input longer than MaxInputSize bytes.
func NewInputTooLargeError() *Error {
	return newError(KindInputTooLarge, -1, "Input exceeds allowed size")
}

// NewUnknownArgumentError is raised by command-line front ends.
func NewUnknownArgumentError() *Error {
	return newError(KindUnknownArgument, -1, "Unknown argument")
}

// NewFinalNotIntegerError reports a non-whole final value in integer mode.
func NewFinalNotIntegerError() *Error {
	return newError(KindFinalNotInteger, -1, "Final result not an integer")
}

// NewNestingTooDeepError reports parentheses nested beyond Options.MaxDepth.
func NewNestingTooDeepError(pos, max int) *Error {
	return newError(KindNestingTooDeep, pos, fmt.Sprintf("Expression nested too deeply (max %d)", max))
}
