package engine

import (
	"math"

	"calculus/pkg/expr"
	"calculus/pkg/numeric"
)

// DefaultThreshold is the relative disagreement up to which a closed-form
// value is preferred over the quadrature estimate.
const DefaultThreshold = 0.01

// Source names the evaluator a reported value came from.
type Source string

const (
	SourceSymbolic  Source = "symbolic"
	SourceNumerical Source = "numerical"
)

// Outcome is the tagged result of a symbolic integration attempt.
type Outcome string

const (
	OutcomeClosedForm   Outcome = "closed_form"
	OutcomeNoClosedForm Outcome = "no_closed_form"
	OutcomeNonFinite    Outcome = "non_finite"
)

// Err returns the sentinel describing a failed outcome, or nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeNoClosedForm:
		return ErrNoClosedForm
	case OutcomeNonFinite:
		return ErrNonFiniteResult
	default:
		return nil
	}
}

// Symbolic is the outcome of closed-form integration. Antiderivative is set
// whenever one was found; Exact and Value only for OutcomeClosedForm on a
// definite integral.
type Symbolic struct {
	Outcome        Outcome
	Antiderivative expr.Expr
	// Exact is F(b) - F(a) with the bounds substituted.
	Exact expr.Expr
	Value float64
}

// HasValue reports whether the symbolic path produced a usable number.
func (s Symbolic) HasValue() bool { return s.Outcome == OutcomeClosedForm }

// IntegrationResult is a reconciled definite integral.
type IntegrationResult struct {
	Integrand      expr.Expr
	Antiderivative expr.Expr
	Exact          expr.Expr
	Symbolic       Outcome
	// SymbolicValue is nil unless Symbolic is OutcomeClosedForm.
	SymbolicValue  *float64
	NumericalValue float64
	ErrorEstimate  float64
	Subdivisions   int
	Disagreement   *float64
	ChosenValue    float64
	ChosenSource   Source
}

// Disagreement returns |s - v| / |v|, or |s - v| when v is zero.
func Disagreement(s, v float64) float64 {
	d := math.Abs(s - v)
	if v == 0 {
		return d
	}

	return d / math.Abs(v)
}

// Reconcile chooses between the symbolic and numerical values of the same
// integral. Without a symbolic value the numerical one is chosen. Otherwise
// the symbolic value wins when the disagreement is at most threshold; a
// non-positive threshold means DefaultThreshold. Both values are kept in the
// result either way.
func Reconcile(sym Symbolic, est numeric.Estimate, threshold float64) IntegrationResult {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	res := IntegrationResult{
		Antiderivative: sym.Antiderivative,
		Symbolic:       sym.Outcome,
		NumericalValue: est.Value,
		ErrorEstimate:  est.Error,
		Subdivisions:   est.Subdivisions,
		ChosenValue:    est.Value,
		ChosenSource:   SourceNumerical,
	}
	if !sym.HasValue() {
		return res
	}

	s := sym.Value
	d := Disagreement(s, est.Value)
	res.SymbolicValue = &s
	res.Exact = sym.Exact
	res.Disagreement = &d
	if d <= threshold {
		res.ChosenValue = s
		res.ChosenSource = SourceSymbolic
	}

	return res
}
