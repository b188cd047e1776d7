// Package engine composes parsing, symbolic integration and adaptive
// quadrature into reconciled definite integrals and the quantities derived
// from them.
package engine

import (
	"errors"

	"calculus/pkg/expr"
	"calculus/pkg/numeric"
	"calculus/pkg/symbolic"
)

const (
	// DefaultComparisonPanels is the panel count used by Compare when none is
	// requested.
	DefaultComparisonPanels = 10
	// DefaultSamplePoints is the number of points Samples returns when none is
	// requested.
	DefaultSamplePoints = 101
	// DefaultMaxSamples caps both panel and sample counts.
	DefaultMaxSamples = 2001
)

// Options tune the engine. Zero fields fall back to the defaults.
type Options struct {
	// DisagreementThreshold is passed to Reconcile.
	DisagreementThreshold float64
	Quadrature            numeric.Options
	ComparisonPanels      int
	SamplePoints          int
	MaxSamples            int
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		DisagreementThreshold: DefaultThreshold,
		Quadrature:            numeric.DefaultOptions(),
		ComparisonPanels:      DefaultComparisonPanels,
		SamplePoints:          DefaultSamplePoints,
		MaxSamples:            DefaultMaxSamples,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DisagreementThreshold <= 0 {
		o.DisagreementThreshold = d.DisagreementThreshold
	}
	if o.ComparisonPanels <= 0 {
		o.ComparisonPanels = d.ComparisonPanels
	}
	if o.SamplePoints <= 0 {
		o.SamplePoints = d.SamplePoints
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = d.MaxSamples
	}

	return o
}

// Engine evaluates integrals of expressions in a single free variable. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	opts   Options
	v      *expr.Var
	parser *expr.Parser
}

// New returns an Engine over the variable x.
func New(opts Options) *Engine {
	return &Engine{
		opts:   opts.withDefaults(),
		v:      expr.X,
		parser: expr.NewParser(expr.X),
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Parse parses text into an expression tree. Failures wrap ErrParse.
func (e *Engine) Parse(text string) (expr.Expr, error) {
	return e.parse("parse", text, nil)
}

// IntegrateIndefinite attempts a closed-form antiderivative of f.
func (e *Engine) IntegrateIndefinite(f expr.Expr) Symbolic {
	F, ok := symbolic.Integrate(f, e.v)
	if !ok {
		return Symbolic{Outcome: OutcomeNoClosedForm}
	}

	return Symbolic{Outcome: OutcomeClosedForm, Antiderivative: F}
}

// interiorSamples is the number of evenly spaced points inside the interval at
// which an antiderivative must stay finite.
const interiorSamples = 256

// IntegrateDefinite evaluates F(b) - F(a) for a closed-form antiderivative F
// of f. The outcome is OutcomeNonFinite when F is not finite at either bound
// or at an interior sample point, where it would otherwise bridge a pole.
func (e *Engine) IntegrateDefinite(f expr.Expr, iv Interval) Symbolic {
	sym := e.IntegrateIndefinite(f)
	if !sym.HasValue() {
		return sym
	}

	F := numeric.Lambdify(sym.Antiderivative, e.v)
	fb, fa := F(iv.Upper), F(iv.Lower)
	if !numeric.IsFinite(fb) || !numeric.IsFinite(fa) || !numeric.IsFinite(fb-fa) {
		sym.Outcome = OutcomeNonFinite

		return sym
	}
	step := (iv.Upper - iv.Lower) / interiorSamples
	for i := 1; i < interiorSamples; i++ {
		if !numeric.IsFinite(F(iv.Lower + float64(i)*step)) {
			sym.Outcome = OutcomeNonFinite

			return sym
		}
	}
	sym.Value = fb - fa

	upper, okUpper := expr.Float(iv.Upper)
	lower, okLower := expr.Float(iv.Lower)
	if okUpper && okLower {
		sym.Exact = expr.Sub(
			expr.Substitute(sym.Antiderivative, e.v, upper),
			expr.Substitute(sym.Antiderivative, e.v, lower),
		)
	}

	return sym
}

// Quadrature integrates f numerically. Pointwise domain violations count as
// zero contribution.
func (e *Engine) Quadrature(f expr.Expr, iv Interval) (numeric.Estimate, error) {
	return numeric.Quadrature(numeric.Safe(numeric.Lambdify(f, e.v)), iv.Lower, iv.Upper, e.opts.Quadrature)
}

// reconciled runs both evaluators over the integrand and reconciles them.
func (e *Engine) reconciled(op, text string, integrand expr.Expr, iv Interval) (IntegrationResult, error) {
	if err := iv.Validate(); err != nil {
		return IntegrationResult{}, newError(op, text, &iv, err, nil)
	}

	est, err := e.Quadrature(integrand, iv)
	if err != nil {
		if errors.Is(err, numeric.ErrDivergence) {
			return IntegrationResult{}, newError(op, text, &iv, ErrQuadratureDivergence, err)
		}

		return IntegrationResult{}, newError(op, text, &iv, err, nil)
	}

	res := Reconcile(e.IntegrateDefinite(integrand, iv), est, e.opts.DisagreementThreshold)
	res.Integrand = integrand

	return res, nil
}

// parse parses text for op, attaching the interval to failures.
func (e *Engine) parse(op, text string, iv *Interval) (expr.Expr, error) {
	f, err := e.parser.Parse(text)
	if err != nil {
		return nil, newError(op, text, iv, ErrParse, err)
	}

	return f, nil
}
