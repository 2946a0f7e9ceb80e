package calc

// Evaluator is a recursive descent evaluator for one expression. The value is
// computed while parsing; no tree is built.
//
// Grammar (whitespace may appear between any two tokens):
//
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/") factor }
//	factor     = { "+" | "-" } ( "(" expression ")" | number )
//	number     = digit { digit }
type Evaluator struct {
	sc    *Scanner
	opts  Options
	depth int
}

// NewEvaluator creates an evaluator over input. input is expected to have
// passed Validate; the evaluator itself only recognizes the grammar above.
func NewEvaluator(input string, opts Options) *Evaluator {
	return &Evaluator{sc: NewScanner(input), opts: opts}
}

// Run evaluates the whole input as one expression. Anything other than
// whitespace left after the expression is a TrailingInput error.
func (e *Evaluator) Run() (float64, error) {
	val, err := e.parseExpression()
	if err != nil {
		return 0, err
	}
	e.sc.SkipWhitespace()
	if !e.sc.AtEnd() {
		return 0, NewTrailingInputError(e.sc.Pos())
	}
	return val, nil
}

// parseExpression handles + and -, left-associative.
func (e *Evaluator) parseExpression() (float64, error) {
	val, err := e.parseTerm()
	if err != nil {
		return 0, err
	}
	e.sc.SkipWhitespace()

	for e.sc.Peek() == '+' || e.sc.Peek() == '-' {
		op := e.sc.Peek()
		e.sc.Advance()
		e.sc.SkipWhitespace()
		right, err := e.parseTerm()
		if err != nil {
			return 0, err
		}
		e.sc.SkipWhitespace()

		if op == '+' {
			val += right
		} else {
			val -= right
		}
		if err := e.opts.checkStep(val, e.sc.Pos()); err != nil {
			return 0, err
		}
	}
	return val, nil
}

// parseTerm handles * and /, left-associative.
func (e *Evaluator) parseTerm() (float64, error) {
	val, err := e.parseFactor()
	if err != nil {
		return 0, err
	}
	e.sc.SkipWhitespace()

	for e.sc.Peek() == '*' || e.sc.Peek() == '/' {
		op := e.sc.Peek()
		e.sc.Advance()
		e.sc.SkipWhitespace()
		right, err := e.parseFactor()
		if err != nil {
			return 0, err
		}
		e.sc.SkipWhitespace()

		if op == '*' {
			val *= right
			if err := e.opts.checkStep(val, e.sc.Pos()); err != nil {
				return 0, err
			}
			continue
		}
		val, err = e.opts.divide(val, right, e.sc.Pos())
		if err != nil {
			return 0, err
		}
	}
	return val, nil
}

// parseFactor folds a run of unary signs, then reads a parenthesized
// expression or a number literal.
func (e *Evaluator) parseFactor() (float64, error) {
	e.sc.SkipWhitespace()

	negative := false
	for e.sc.Peek() == '+' || e.sc.Peek() == '-' {
		if e.sc.Peek() == '-' {
			negative = !negative
		}
		e.sc.Advance()
		e.sc.SkipWhitespace()
	}

	var val float64
	if e.sc.Peek() == '(' {
		if e.depth >= e.opts.maxDepth() {
			return 0, NewNestingTooDeepError(e.sc.Pos(), e.opts.maxDepth())
		}
		e.sc.Advance()
		e.depth++
		inner, err := e.parseExpression()
		if err != nil {
			return 0, err
		}
		e.depth--
		e.sc.SkipWhitespace()
		if e.sc.Peek() != ')' {
			return 0, NewMissingCloseParenError(e.sc.Pos())
		}
		e.sc.Advance()
		val = inner
	} else {
		n, err := e.readNumber()
		if err != nil {
			return 0, err
		}
		val = n
	}

	if negative {
		val = -val
	}
	if err := checkRange(val, e.sc.Pos()); err != nil {
		return 0, err
	}
	return val, nil
}

// readNumber reads a run of decimal digits. It stops with an error as soon as
// the running value passes ValueLimit.
func (e *Evaluator) readNumber() (float64, error) {
	e.sc.SkipWhitespace()
	if !isDigit(e.sc.Peek()) {
		return 0, NewExpectedNumberError(e.sc.Pos())
	}

	var num float64
	for isDigit(e.sc.Peek()) {
		num = num*10 + float64(e.sc.Peek()-'0')
		e.sc.Advance()
		if num > ValueLimit {
			return 0, NewNumberOutOfRangeError(e.sc.Pos())
		}
	}
	return num, nil
}
