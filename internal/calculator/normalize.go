package calculator

import (
	"context"

	"calculus/pkg/domain"
	"calculus/pkg/engine"
	"calculus/pkg/expr"
	"calculus/pkg/serrors"
)

// normalize validates req and rewrites it into its canonical form so that
// equivalent requests share a key:
//   - the expression is replaced by the rendering of its parsed tree
//   - the axis defaults to the x-axis for solids and surfaces of revolution
//     and is dropped for every other quantity
//
// Invalid requests fail with serrors.ErrBadRequest. Parsing runs under the
// compute timeout.
func (c *calculator) normalize(ctx context.Context, req domain.CalculationRequest) (domain.CalculationRequest, error) {
	q, err := engine.ParseQuantity(req.Quantity)
	if err != nil {
		return domain.CalculationRequest{}, serrors.Mark(serrors.ErrBadRequest, err)
	}

	iv := engine.Interval{Lower: req.LowerBound, Upper: req.UpperBound}
	if err := iv.Validate(); err != nil {
		return domain.CalculationRequest{}, serrors.Mark(serrors.ErrBadRequest, err)
	}

	f, err := run(ctx, c.options.ComputeTimeout, func() (expr.Expr, error) {
		return c.engine.Parse(req.Expression)
	})
	if err != nil {
		return domain.CalculationRequest{}, err
	}

	var axis engine.Axis
	if q.UsesAxis() {
		if axis, err = engine.ParseAxis(req.Axis); err != nil {
			return domain.CalculationRequest{}, serrors.Mark(serrors.ErrBadRequest, err)
		}
	}

	return domain.CalculationRequest{
		Quantity:   string(q),
		Expression: f.String(),
		LowerBound: iv.Lower,
		UpperBound: iv.Upper,
		Axis:       string(axis),
	}, nil
}

// EngineRequest converts a stored request into engine input.
func EngineRequest(req domain.CalculationRequest) (engine.Quantity, engine.Request) {
	return engine.Quantity(req.Quantity), engine.Request{
		Expression: req.Expression,
		Interval:   engine.Interval{Lower: req.LowerBound, Upper: req.UpperBound},
		Axis:       engine.Axis(req.Axis),
	}
}

// ResultOf flattens an engine result for storage and transport.
func ResultOf(res engine.Result) domain.CalculationResult {
	in := res.Integration
	errEstimate := in.ErrorEstimate
	out := domain.CalculationResult{
		Value:           res.Value,
		ChosenSource:    string(in.ChosenSource),
		SymbolicValue:   in.SymbolicValue,
		NumericalValue:  in.NumericalValue,
		ErrorEstimate:   &errEstimate,
		Disagreement:    in.Disagreement,
		SymbolicOutcome: string(in.Symbolic),
		Subdivisions:    in.Subdivisions,
	}
	if in.Integrand != nil {
		out.Integrand = in.Integrand.String()
	}
	if in.Antiderivative != nil {
		out.Antiderivative = in.Antiderivative.String()
	}
	if in.Exact != nil {
		out.Exact = in.Exact.String()
	}

	return out
}
