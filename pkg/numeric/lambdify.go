// Package numeric evaluates expression trees as float64 functions and
// integrates them numerically.
package numeric

import (
	"math"

	"calculus/pkg/expr"
)

// Func is a real function of one real variable.
type Func func(x float64) float64

// Lambdify compiles e into a pointwise evaluator over v. Evaluation never
// panics: domain violations such as sqrt(-1), log(0) or 1/0 yield NaN or
// ±Inf. Variables other than v evaluate to NaN.
func Lambdify(e expr.Expr, v *expr.Var) Func {
	switch e := e.(type) {
	case *expr.Num:
		c := e.Float64()

		return func(float64) float64 { return c }
	case *expr.Const:
		c := e.Value()

		return func(float64) float64 { return c }
	case *expr.Var:
		if e.Name() != v.Name() {
			return func(float64) float64 { return math.NaN() }
		}

		return func(x float64) float64 { return x }
	case *expr.Add:
		fs := lambdifyAll(e.Terms(), v)

		return func(x float64) float64 {
			var s float64
			for _, f := range fs {
				s += f(x)
			}

			return s
		}
	case *expr.Mul:
		fs := lambdifyAll(e.Factors(), v)

		return func(x float64) float64 {
			p := 1.0
			for _, f := range fs {
				p *= f(x)
			}

			return p
		}
	case *expr.Pow:
		return lambdifyPow(e, v)
	case *expr.Func:
		return lambdifyFunc(e, v)
	default:
		return func(float64) float64 { return math.NaN() }
	}
}

func lambdifyAll(es []expr.Expr, v *expr.Var) []Func {
	fs := make([]Func, len(es))
	for i, e := range es {
		fs[i] = Lambdify(e, v)
	}

	return fs
}

func lambdifyPow(p *expr.Pow, v *expr.Var) Func {
	base := Lambdify(p.Base(), v)
	if n, ok := p.Exponent().(*expr.Num); ok {
		switch {
		case expr.Equal(n, expr.Frac(1, 2)):
			return func(x float64) float64 { return math.Sqrt(base(x)) }
		case expr.Equal(n, expr.Frac(-1, 2)):
			return func(x float64) float64 { return 1 / math.Sqrt(base(x)) }
		}
		k := n.Float64()

		return func(x float64) float64 { return math.Pow(base(x), k) }
	}

	exp := Lambdify(p.Exponent(), v)

	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
}

func lambdifyFunc(f *expr.Func, v *expr.Var) Func {
	arg := Lambdify(f.Arg(), v)

	var fn func(float64) float64
	switch f.Fn() {
	case expr.Sin:
		fn = math.Sin
	case expr.Cos:
		fn = math.Cos
	case expr.Tan:
		fn = math.Tan
	case expr.Exp:
		fn = math.Exp
	case expr.Log:
		fn = math.Log
	case expr.Abs:
		fn = math.Abs
	case expr.Asin:
		fn = math.Asin
	case expr.Atan:
		fn = math.Atan
	default:
		return func(float64) float64 { return math.NaN() }
	}

	return func(x float64) float64 { return fn(arg(x)) }
}

// Evaluate returns the value of an expression that contains no variables.
// Expressions with variables evaluate to NaN.
func Evaluate(e expr.Expr) float64 {
	return Lambdify(e, expr.NewVar(""))(0)
}

// Safe wraps f so that non-finite values are reported as zero.
func Safe(f Func) Func {
	return func(x float64) float64 {
		y := f(x)
		if !IsFinite(y) {
			return 0
		}

		return y
	}
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
