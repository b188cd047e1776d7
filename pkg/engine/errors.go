package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrParse is returned when an expression is empty, uses a symbol outside
	// the whitelist or is not syntactically valid.
	ErrParse = errors.New("parse error")
	// ErrNoClosedForm marks an integrand without an elementary antiderivative.
	// It is reported as an Outcome and never returned by Engine operations.
	ErrNoClosedForm = errors.New("no closed form")
	// ErrNonFiniteResult marks a closed form whose value at a bound is not
	// finite. Like ErrNoClosedForm it only appears as an Outcome.
	ErrNonFiniteResult = errors.New("non-finite result")
	// ErrQuadratureDivergence is returned when numerical integration cannot
	// bound its error estimate.
	ErrQuadratureDivergence = errors.New("quadrature divergence")
	// ErrDegenerateInterval is returned for an interval of zero length.
	ErrDegenerateInterval = errors.New("degenerate interval")
	// ErrInvalidInterval is returned when the upper bound is below the lower
	// bound or a bound is not finite.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidAxis is returned for an axis other than x-axis and y-axis.
	ErrInvalidAxis = errors.New("invalid axis")
	// ErrInvalidQuantity is returned for an unknown derived quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidCount is returned when a panel or sample count is out of range.
	ErrInvalidCount = errors.New("invalid count")
)

// Interval is a closed integration range.
type Interval struct {
	Lower float64
	Upper float64
}

// Validate checks that both bounds are finite and Upper > Lower.
func (i Interval) Validate() error {
	switch {
	case math.IsNaN(i.Lower) || math.IsInf(i.Lower, 0) || math.IsNaN(i.Upper) || math.IsInf(i.Upper, 0):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidInterval)
	case i.Upper == i.Lower:
		return fmt.Errorf("%w: lower and upper bounds are both %g", ErrDegenerateInterval, i.Lower)
	case i.Upper < i.Lower:
		return fmt.Errorf("%w: upper bound %g is below lower bound %g", ErrInvalidInterval, i.Upper, i.Lower)
	}

	return nil
}

// Width returns Upper - Lower.
func (i Interval) Width() float64 { return i.Upper - i.Lower }

func (i Interval) String() string { return fmt.Sprintf("[%g, %g]", i.Lower, i.Upper) }

// Error is returned by every Engine operation that fails. It carries the
// operation, the expression text and the bounds so callers can report the
// failure precisely.
type Error struct {
	Op         string
	Expression string
	Interval   *Interval
	// Err is, or wraps, one of the package sentinels.
	Err error
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Expression != "" {
		fmt.Fprintf(&b, " %q", e.Expression)
	}
	if e.Interval != nil {
		b.WriteString(" on ")
		b.WriteString(e.Interval.String())
	}
	b.WriteString(": ")
	if e.Cause != nil {
		b.WriteString(e.Cause.Error())
	} else {
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

func newError(op, text string, iv *Interval, sentinel, cause error) *Error {
	return &Error{Op: op, Expression: text, Interval: iv, Err: sentinel, Cause: cause}
}
