// Package calc implements a single-expression arithmetic evaluator over
// + - * / with parentheses and unary signs. Values are float64 internally; in
// integer mode every finalized value must be whole and division floors.
package calc

// EOF is returned by Scanner.Peek past the end of the input.
const EOF byte = 0

// Scanner is a read cursor over an immutable input string. It only moves
// forward; the grammar never needs to backtrack.
type Scanner struct {
	input string
	pos   int
}

// NewScanner creates a scanner positioned at the start of input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Peek returns the byte at the current position without consuming it.
func (s *Scanner) Peek() byte {
	if s.pos >= len(s.input) {
		return EOF
	}
	return s.input[s.pos]
}

// Advance consumes the current byte. It is a no-op at the end of input.
func (s *Scanner) Advance() {
	if s.pos < len(s.input) {
		s.pos++
	}
}

// Pos returns the current offset into the input.
func (s *Scanner) Pos() int {
	return s.pos
}

// AtEnd reports whether all input has been consumed.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.input)
}

// SkipWhitespace advances past consecutive whitespace bytes.
func (s *Scanner) SkipWhitespace() {
	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
	}
}

// IsValidCharacter reports whether ch may appear anywhere in an expression:
// a digit, one of ()+-*/, or whitespace.
func IsValidCharacter(ch byte) bool {
	if isDigit(ch) || isSpace(ch) {
		return true
	}
	switch ch {
	case '(', ')', '+', '-', '*', '/':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isSpace matches the C locale whitespace set.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
