package engine_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"calculus/pkg/engine"
	"calculus/pkg/numeric"

	"github.com/stretchr/testify/require"
)

func unit() engine.Interval { return engine.Interval{Lower: 0, Upper: 1} }

func TestDefiniteIntegral_Symbolic(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.DefiniteIntegral("x^2", unit())
	require.NoError(t, err)
	require.Equal(t, engine.QuantityIntegral, res.Quantity)
	require.InDelta(t, 0.333333, res.Value, 1e-6)

	in := res.Integration
	require.Equal(t, engine.SourceSymbolic, in.ChosenSource)
	require.Equal(t, engine.OutcomeClosedForm, in.Symbolic)
	require.NotNil(t, in.SymbolicValue)
	require.InDelta(t, 1.0/3, *in.SymbolicValue, 1e-15)
	require.InDelta(t, 1.0/3, in.NumericalValue, 1e-12)
	require.Equal(t, "x^3/3", in.Antiderivative.String())
	require.Equal(t, "1/3", in.Exact.String())
	require.Equal(t, "x^2", in.Integrand.String())
}

func TestDefiniteIntegral_AgreesOnSmoothIntegrands(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	for _, in := range []string{"x^2", "sin(x)", "exp(x)", "1/x", "x*cos(x)", "sqrt(x)"} {
		t.Run(in, func(t *testing.T) {
			res, err := e.DefiniteIntegral(in, engine.Interval{Lower: 0.5, Upper: 2.5})
			require.NoError(t, err)
			require.Equal(t, engine.SourceSymbolic, res.Integration.ChosenSource)
			require.NotNil(t, res.Integration.Disagreement)
			require.LessOrEqual(t, *res.Integration.Disagreement, engine.DefaultThreshold)
		})
	}
}

func TestDefiniteIntegral_NoClosedForm(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.DefiniteIntegral("exp(x^2)", unit())
	require.NoError(t, err)
	require.Equal(t, engine.SourceNumerical, res.Integration.ChosenSource)
	require.Equal(t, engine.OutcomeNoClosedForm, res.Integration.Symbolic)
	require.Nil(t, res.Integration.SymbolicValue)
	require.Nil(t, res.Integration.Antiderivative)
	require.InDelta(t, 1.4626517459071816, res.Value, 1e-9)
}

func TestDefiniteIntegral_NonFiniteSymbolic(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	// log(x) has F = x*log(x) - x, which is NaN at 0 in float64
	res, err := e.DefiniteIntegral("log(x)", unit())
	require.NoError(t, err)
	require.Equal(t, engine.OutcomeNonFinite, res.Integration.Symbolic)
	require.Equal(t, engine.SourceNumerical, res.Integration.ChosenSource)
	require.InDelta(t, -1, res.Value, 1e-6)
}

func TestDefiniteIntegral_Divergence(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	_, err := e.DefiniteIntegral("1/x^2", unit())
	require.ErrorIs(t, err, engine.ErrQuadratureDivergence)
	require.ErrorIs(t, err, numeric.ErrDivergence)

	var engErr *engine.Error
	require.True(t, errors.As(err, &engErr))
	require.Equal(t, "1/x^2", engErr.Expression)
	require.Equal(t, unit(), *engErr.Interval)
	require.Contains(t, err.Error(), `"1/x^2" on [0, 1]`)
}

func TestDefiniteIntegral_InteriorPole(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	for _, in := range []string{"1/(x - 0.3)^2", "1/(x - 0.3)"} {
		t.Run(in, func(t *testing.T) {
			res, err := e.DefiniteIntegral(in, unit())
			require.ErrorIs(t, err, engine.ErrQuadratureDivergence, "value %v", res.Value)
		})
	}
}

func TestIntegrateDefinite_AntiderivativeSingularInside(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	f, err := e.Parse("1/(x - 0.5)")
	require.NoError(t, err)

	sym := e.IntegrateDefinite(f, unit())
	require.Equal(t, engine.OutcomeNonFinite, sym.Outcome)
	require.False(t, sym.HasValue())
}

func TestDefiniteIntegral_ParseError(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	for _, in := range []string{"x + ; drop", "", "   ", "y^2", "__import__('os')"} {
		t.Run(in, func(t *testing.T) {
			_, err := e.DefiniteIntegral(in, unit())
			require.ErrorIs(t, err, engine.ErrParse)
		})
	}

	_, err := e.Parse("x + ; drop")
	require.ErrorIs(t, err, engine.ErrParse)
}

func TestDefiniteIntegral_InvalidInterval(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	_, err := e.DefiniteIntegral("x", engine.Interval{Lower: 1, Upper: 0})
	require.ErrorIs(t, err, engine.ErrInvalidInterval)

	_, err = e.DefiniteIntegral("x", engine.Interval{Lower: 0, Upper: math.Inf(1)})
	require.ErrorIs(t, err, engine.ErrInvalidInterval)

	_, err = e.DefiniteIntegral("x", engine.Interval{Lower: 2, Upper: 2})
	require.ErrorIs(t, err, engine.ErrDegenerateInterval)
}

func TestArea(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.Area("-x", unit())
	require.NoError(t, err)
	require.InDelta(t, 0.5, res.Value, 1e-12)
	require.InDelta(t, -0.5, res.Integration.ChosenValue, 1e-12)
}

func TestAverageValue(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.AverageValue("x^2", engine.Interval{Lower: 0, Upper: 3})
	require.NoError(t, err)
	require.InDelta(t, 3, res.Value, 1e-12)

	_, err = e.AverageValue("x^2", engine.Interval{Lower: 3, Upper: 3})
	require.ErrorIs(t, err, engine.ErrDegenerateInterval)
}

func TestArcLength_HalfCircle(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.ArcLength("sqrt(1-x^2)", engine.Interval{Lower: -1, Upper: 1})
	require.NoError(t, err)
	require.InDelta(t, math.Pi, res.Value, 1e-4)
	require.Equal(t, engine.SourceNumerical, res.Integration.ChosenSource)
}

func TestArcLength_Line(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.ArcLength("3*x + 1", unit())
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(10), res.Value, 1e-12)
	require.Equal(t, engine.SourceSymbolic, res.Integration.ChosenSource)
}

func TestVolume(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	res, err := e.Volume("x", unit(), engine.AxisX)
	require.NoError(t, err)
	require.InDelta(t, 1.047198, res.Value, 1e-6)
	require.Equal(t, engine.AxisX, res.Axis)
	require.Equal(t, engine.SourceSymbolic, res.Integration.ChosenSource)

	res, err = e.Volume("x", unit(), engine.AxisY)
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi/3, res.Value, 1e-9)

	res, err = e.Volume("x", unit(), "")
	require.NoError(t, err)
	require.Equal(t, engine.AxisX, res.Axis)

	_, err = e.Volume("x", unit(), "z-axis")
	require.ErrorIs(t, err, engine.ErrInvalidAxis)
}

func TestSurfaceArea(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	// cone: 2*pi*x*sqrt(2) on [0, 1]
	res, err := e.SurfaceArea("x", unit(), engine.AxisX)
	require.NoError(t, err)
	require.InDelta(t, math.Pi*math.Sqrt2, res.Value, 1e-9)

	// sphere of radius 1
	res, err = e.SurfaceArea("sqrt(1-x^2)", engine.Interval{Lower: -1, Upper: 1}, engine.AxisX)
	require.NoError(t, err)
	require.InDelta(t, 4*math.Pi, res.Value, 1e-6)

	// disk of radius 1
	res, err = e.SurfaceArea("0*x + 2", unit(), engine.AxisY)
	require.NoError(t, err)
	require.InDelta(t, math.Pi, res.Value, 1e-9)

	_, err = e.SurfaceArea("x", unit(), "both")
	require.ErrorIs(t, err, engine.ErrInvalidAxis)
}

func TestCompute(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	for _, q := range engine.Quantities {
		t.Run(string(q), func(t *testing.T) {
			res, err := e.Compute(q, engine.Request{Expression: "x + 1", Interval: unit()})
			require.NoError(t, err)
			require.Equal(t, q, res.Quantity)
			require.Positive(t, res.Value)
		})
	}

	_, err := e.Compute("mass", engine.Request{Expression: "x", Interval: unit()})
	require.ErrorIs(t, err, engine.ErrInvalidQuantity)

	q, err := engine.ParseQuantity("arcLength")
	require.NoError(t, err)
	require.Equal(t, engine.QuantityArcLength, q)
	require.True(t, engine.QuantityVolume.UsesAxis())
	require.False(t, engine.QuantityArea.UsesAxis())
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := engine.New(engine.DefaultOptions())

	const n = 16
	values := make([]float64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.DefiniteIntegral("x^2", engine.Interval{Lower: 0, Upper: float64(i + 1)})
			values[i], errs[i] = res.Value, err
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		b := float64(i + 1)
		require.InDelta(t, b*b*b/3, values[i], 1e-9*b*b*b)
	}
}

func TestOptions_Defaults(t *testing.T) {
	e := engine.New(engine.Options{})
	opts := e.Options()
	require.Equal(t, engine.DefaultThreshold, opts.DisagreementThreshold)
	require.Equal(t, engine.DefaultComparisonPanels, opts.ComparisonPanels)
	require.Equal(t, engine.DefaultSamplePoints, opts.SamplePoints)
	require.Equal(t, engine.DefaultMaxSamples, opts.MaxSamples)
}
