package engine

import (
	"fmt"
	"math"

	"calculus/pkg/expr"
	"calculus/pkg/symbolic"
)

// Quantity names a value derived from a definite integral.
type Quantity string

const (
	QuantityIntegral     Quantity = "integral"
	QuantityArea         Quantity = "area"
	QuantityAverageValue Quantity = "averageValue"
	QuantityArcLength    Quantity = "arcLength"
	QuantitySurfaceArea  Quantity = "surfaceArea"
	QuantityVolume       Quantity = "volume"
)

// Quantities lists every derived quantity.
var Quantities = []Quantity{ //nolint: gochecknoglobals
	QuantityIntegral, QuantityArea, QuantityAverageValue,
	QuantityArcLength, QuantitySurfaceArea, QuantityVolume,
}

// ParseQuantity validates a quantity name.
func ParseQuantity(s string) (Quantity, error) {
	for _, q := range Quantities {
		if string(q) == s {
			return q, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
}

// UsesAxis reports whether the quantity depends on a rotation axis.
func (q Quantity) UsesAxis() bool {
	return q == QuantitySurfaceArea || q == QuantityVolume
}

// Axis is the axis a curve is revolved about.
type Axis string

const (
	AxisX Axis = "x-axis"
	AxisY Axis = "y-axis"
)

// ParseAxis validates an axis name. The empty string means AxisX.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case "", AxisX:
		return AxisX, nil
	case AxisY:
		return AxisY, nil
	default:
		return "", fmt.Errorf("%w: %q, want %q or %q", ErrInvalidAxis, s, AxisX, AxisY)
	}
}

// Request is the input of a derived quantity computation.
type Request struct {
	Expression string
	Interval   Interval
	// Axis is only read by surface area and volume. Empty means AxisX.
	Axis Axis
}

// Result is a derived quantity together with the reconciled integral it was
// computed from.
type Result struct {
	Quantity   Quantity
	Expression string
	Interval   Interval
	// Axis is empty for quantities that do not use one.
	Axis        Axis
	Value       float64
	Integration IntegrationResult
}

// Compute dispatches to the operation for q.
func (e *Engine) Compute(q Quantity, req Request) (Result, error) {
	switch q {
	case QuantityIntegral:
		return e.DefiniteIntegral(req.Expression, req.Interval)
	case QuantityArea:
		return e.Area(req.Expression, req.Interval)
	case QuantityAverageValue:
		return e.AverageValue(req.Expression, req.Interval)
	case QuantityArcLength:
		return e.ArcLength(req.Expression, req.Interval)
	case QuantitySurfaceArea:
		return e.SurfaceArea(req.Expression, req.Interval, req.Axis)
	case QuantityVolume:
		return e.Volume(req.Expression, req.Interval, req.Axis)
	default:
		return Result{}, newError("compute", req.Expression, &req.Interval,
			fmt.Errorf("%w: %q", ErrInvalidQuantity, q), nil)
	}
}

// DefiniteIntegral reconciles the closed-form and numerical values of the
// integral of the expression over iv.
func (e *Engine) DefiniteIntegral(text string, iv Interval) (Result, error) {
	return e.derive(QuantityIntegral, text, iv, "", identity, chosen)
}

// Area is the absolute value of the definite integral.
func (e *Engine) Area(text string, iv Interval) (Result, error) {
	return e.derive(QuantityArea, text, iv, "", identity,
		func(r IntegrationResult) float64 { return math.Abs(r.ChosenValue) })
}

// AverageValue is the definite integral divided by the interval width.
func (e *Engine) AverageValue(text string, iv Interval) (Result, error) {
	return e.derive(QuantityAverageValue, text, iv, "", identity,
		func(r IntegrationResult) float64 { return r.ChosenValue / iv.Width() })
}

// ArcLength integrates sqrt(1 + f'(x)^2).
func (e *Engine) ArcLength(text string, iv Interval) (Result, error) {
	return e.derive(QuantityArcLength, text, iv, "", e.arcElement, chosen)
}

// SurfaceArea integrates 2*pi*f(x)*sqrt(1 + f'(x)^2) about the x-axis, or
// 2*pi*x*sqrt(1 + f'(x)^2) about the y-axis.
func (e *Engine) SurfaceArea(text string, iv Interval, axis Axis) (Result, error) {
	axis, err := ParseAxis(string(axis))
	if err != nil {
		return Result{}, newError(string(QuantitySurfaceArea), text, &iv, err, nil)
	}

	return e.derive(QuantitySurfaceArea, text, iv, axis, func(f expr.Expr) expr.Expr {
		radius := f
		if axis == AxisY {
			radius = e.v
		}

		return expr.MulOf(expr.Int(2), expr.Pi, radius, e.arcElement(f))
	}, chosen)
}

// Volume integrates pi*f(x)^2 (disk method) about the x-axis, or
// 2*pi*x*f(x) (shell method) about the y-axis.
func (e *Engine) Volume(text string, iv Interval, axis Axis) (Result, error) {
	axis, err := ParseAxis(string(axis))
	if err != nil {
		return Result{}, newError(string(QuantityVolume), text, &iv, err, nil)
	}

	return e.derive(QuantityVolume, text, iv, axis, func(f expr.Expr) expr.Expr {
		if axis == AxisY {
			return expr.MulOf(expr.Int(2), expr.Pi, e.v, f)
		}

		return expr.MulOf(expr.Pi, expr.PowOf(f, expr.Int(2)))
	}, chosen)
}

func (e *Engine) arcElement(f expr.Expr) expr.Expr {
	df := symbolic.Diff(f, e.v)

	return expr.Sqrt(expr.AddOf(expr.Int(1), expr.PowOf(df, expr.Int(2))))
}

func (e *Engine) derive(
	q Quantity,
	text string,
	iv Interval,
	axis Axis,
	integrand func(expr.Expr) expr.Expr,
	value func(IntegrationResult) float64,
) (Result, error) {
	op := string(q)
	f, err := e.parse(op, text, &iv)
	if err != nil {
		return Result{}, err
	}

	res, err := e.reconciled(op, text, integrand(f), iv)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Quantity:    q,
		Expression:  text,
		Interval:    iv,
		Axis:        axis,
		Value:       value(res),
		Integration: res,
	}, nil
}

func identity(f expr.Expr) expr.Expr { return f }

func chosen(r IntegrationResult) float64 { return r.ChosenValue }
