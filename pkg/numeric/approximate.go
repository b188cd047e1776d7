package numeric

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/integrate/quad"
)

// ErrTooFewPoints is returned when a fixed rule is asked for too few panels
// or samples.
var ErrTooFewPoints = errors.New("too few points")

// MinPanels is the smallest panel count accepted by Approximate.
const MinPanels = 2

// Method names a fixed-panel approximation rule.
type Method string

const (
	MethodLeft      Method = "left"
	MethodRight     Method = "right"
	MethodMidpoint  Method = "midpoint"
	MethodTrapezoid Method = "trapezoid"
	MethodSimpson   Method = "simpson"
	MethodGauss     Method = "gauss"
)

// Methods lists every approximation in the order Approximate reports them.
var Methods = []Method{ //nolint: gochecknoglobals
	MethodLeft, MethodRight, MethodMidpoint, MethodTrapezoid, MethodSimpson, MethodGauss,
}

// Approximation is the value of one fixed rule.
type Approximation struct {
	Method Method
	Value  float64
}

// Approximate evaluates f on n equal panels of [a, b] with each rule in
// Methods. The Gauss rule uses n Legendre nodes over the whole interval.
func Approximate(f Func, a, b float64, n int) ([]Approximation, error) {
	if n < MinPanels {
		return nil, fmt.Errorf("%w: need at least %d panels, got %d", ErrTooFewPoints, MinPanels, n)
	}

	x := floats.Span(make([]float64, n+1), a, b)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = f(xi)
	}
	h := (b - a) / float64(n)

	var left, right, mid float64
	for i := range n {
		left += y[i]
		right += y[i+1]
		mid += f((x[i] + x[i+1]) / 2)
	}

	return []Approximation{
		{Method: MethodLeft, Value: left * h},
		{Method: MethodRight, Value: right * h},
		{Method: MethodMidpoint, Value: mid * h},
		{Method: MethodTrapezoid, Value: integrate.Trapezoidal(x, y)},
		{Method: MethodSimpson, Value: integrate.Simpsons(x, y)},
		{Method: MethodGauss, Value: quad.Fixed(f, a, b, n, quad.Legendre{}, 0)},
	}, nil
}

// Point is a sample of a function. Defined is false where the function is
// not finite.
type Point struct {
	X       float64
	Y       float64
	Defined bool
}

// Sample evaluates f at n evenly spaced points spanning [a, b].
func Sample(f Func, a, b float64, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrTooFewPoints, n)
	}

	xs := floats.Span(make([]float64, n), a, b)
	out := make([]Point, n)
	for i, x := range xs {
		y := f(x)
		out[i] = Point{X: x, Y: y, Defined: IsFinite(y)}
		if !out[i].Defined {
			out[i].Y = 0
		}
	}

	return out, nil
}
