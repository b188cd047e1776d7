package numeric_test

import (
	"math"
	"testing"

	"calculus/pkg/expr"
	"calculus/pkg/numeric"

	"github.com/stretchr/testify/require"
)

func lambdify(t *testing.T, text string) numeric.Func {
	t.Helper()
	e, err := expr.Parse(text)
	require.NoError(t, err)

	return numeric.Lambdify(e, expr.X)
}

func TestLambdify(t *testing.T) {
	tests := []struct {
		in   string
		x    float64
		want float64
	}{
		{in: "x^2 + 1", x: 3, want: 10},
		{in: "sin(x)", x: math.Pi / 2, want: 1},
		{in: "exp(x)", x: 1, want: math.E},
		{in: "sqrt(x)", x: 9, want: 3},
		{in: "1/sqrt(x)", x: 4, want: 0.5},
		{in: "2^x", x: 10, want: 1024},
		{in: "pi*x", x: 2, want: 2 * math.Pi},
		{in: "log(e^x)", x: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.InDelta(t, tt.want, lambdify(t, tt.in)(tt.x), 1e-12)
		})
	}
}

func TestLambdify_DomainViolations(t *testing.T) {
	require.True(t, math.IsNaN(lambdify(t, "sqrt(x)")(-1)))
	require.True(t, math.IsInf(lambdify(t, "log(x)")(0), -1))
	require.True(t, math.IsInf(lambdify(t, "1/x")(0), 1))
	require.True(t, math.IsNaN(lambdify(t, "log(x)")(-2)))

	safe := numeric.Safe(lambdify(t, "1/x"))
	require.Zero(t, safe(0))
	require.Equal(t, 0.5, safe(2))
}

func TestEvaluate(t *testing.T) {
	e, err := expr.Parse("2*pi + 1")
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi+1, numeric.Evaluate(e), 1e-15)

	require.True(t, math.IsNaN(numeric.Evaluate(expr.X)))
}

func TestQuadrature(t *testing.T) {
	tests := []struct {
		name string
		in   string
		a, b float64
		want float64
		tol  float64
	}{
		{name: "square", in: "x^2", a: 0, b: 1, want: 1.0 / 3, tol: 1e-12},
		{name: "sine", in: "sin(x)", a: 0, b: math.Pi, want: 2, tol: 1e-12},
		{name: "exponential", in: "exp(x)", a: 0, b: 1, want: math.E - 1, tol: 1e-12},
		{name: "reversed", in: "x", a: 1, b: 0, want: -0.5, tol: 1e-12},
		{name: "endpoint singularity", in: "1/sqrt(x)", a: 0, b: 1, want: 2, tol: 1e-6},
		{name: "quarter circle", in: "sqrt(1 - x^2)", a: -1, b: 1, want: math.Pi / 2, tol: 1e-7},
		{name: "x exp minus x", in: "x*exp(-x)", a: 0, b: 5, want: 1 - 6*math.Exp(-5), tol: 1e-10},
		{name: "empty interval", in: "x", a: 2, b: 2, want: 0, tol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := numeric.Safe(lambdify(t, tt.in))
			est, err := numeric.Quadrature(f, tt.a, tt.b, numeric.DefaultOptions())
			require.NoError(t, err)
			require.InDelta(t, tt.want, est.Value, tt.tol)
			require.LessOrEqual(t, est.Subdivisions, numeric.DefaultOptions().MaxSubdivisions)
		})
	}
}

func TestQuadrature_Divergent(t *testing.T) {
	f := numeric.Safe(lambdify(t, "1/x^2"))
	_, err := numeric.Quadrature(f, 0, 1, numeric.DefaultOptions())
	require.ErrorIs(t, err, numeric.ErrDivergence)
}

func TestQuadrature_InteriorPole(t *testing.T) {
	tests := []struct {
		in   string
		a, b float64
	}{
		{in: "1/(x - 0.3)^2", a: 0, b: 1},
		{in: "1/(x - 0.3)", a: 0, b: 1},
		{in: "tan(x)", a: 0, b: 3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := numeric.Safe(lambdify(t, tt.in))
			est, err := numeric.Quadrature(f, tt.a, tt.b, numeric.DefaultOptions())
			require.ErrorIs(t, err, numeric.ErrDivergence, "value %g", est.Value)
		})
	}
}

func TestQuadrature_NonFinite(t *testing.T) {
	nan := func(float64) float64 { return math.NaN() }
	_, err := numeric.Quadrature(nan, 0, 1, numeric.DefaultOptions())
	require.ErrorIs(t, err, numeric.ErrDivergence)
}

func TestQuadrature_ZeroOptionsUseDefaults(t *testing.T) {
	est, err := numeric.Quadrature(lambdify(t, "x^3"), 0, 2, numeric.Options{})
	require.NoError(t, err)
	require.InDelta(t, 4, est.Value, 1e-12)
	require.Positive(t, est.Evaluations)
}

func TestApproximate(t *testing.T) {
	approx, err := numeric.Approximate(lambdify(t, "x^2"), 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, approx, len(numeric.Methods))

	want := map[numeric.Method]float64{
		numeric.MethodLeft:      0.285,
		numeric.MethodRight:     0.385,
		numeric.MethodMidpoint:  0.3325,
		numeric.MethodTrapezoid: 0.335,
		numeric.MethodSimpson:   1.0 / 3,
		numeric.MethodGauss:     1.0 / 3,
	}
	for i, a := range approx {
		require.Equal(t, numeric.Methods[i], a.Method)
		require.InDelta(t, want[a.Method], a.Value, 1e-12, "method %s", a.Method)
	}

	_, err = numeric.Approximate(lambdify(t, "x"), 0, 1, 1)
	require.ErrorIs(t, err, numeric.ErrTooFewPoints)
}

func TestSample(t *testing.T) {
	pts, err := numeric.Sample(lambdify(t, "sqrt(x)"), -1, 1, 3)
	require.NoError(t, err)
	require.Len(t, pts, 3)

	require.Equal(t, -1.0, pts[0].X)
	require.False(t, pts[0].Defined)
	require.True(t, pts[1].Defined)
	require.Zero(t, pts[1].Y)
	require.True(t, pts[2].Defined)
	require.Equal(t, 1.0, pts[2].Y)

	_, err = numeric.Sample(lambdify(t, "x"), 0, 1, 1)
	require.ErrorIs(t, err, numeric.ErrTooFewPoints)
}
