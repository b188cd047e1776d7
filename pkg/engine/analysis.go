package engine

import (
	"errors"
	"fmt"
	"math"

	"calculus/pkg/expr"
	"calculus/pkg/numeric"
	"calculus/pkg/symbolic"
)

// Indefinite is an antiderivative together with its display forms.
type Indefinite struct {
	Expression expr.Expr
	Outcome    Outcome
	// Antiderivative is nil unless Outcome is OutcomeClosedForm.
	Antiderivative expr.Expr
	LaTeX          string
}

// HasClosedForm reports whether an antiderivative was found.
func (i Indefinite) HasClosedForm() bool { return i.Outcome == OutcomeClosedForm }

// Indefinite integrates the expression without bounds.
func (e *Engine) Indefinite(text string) (Indefinite, error) {
	f, err := e.parse("indefinite", text, nil)
	if err != nil {
		return Indefinite{}, err
	}

	sym := e.IntegrateIndefinite(f)
	res := Indefinite{
		Expression:     f,
		Outcome:        sym.Outcome,
		Antiderivative: sym.Antiderivative,
		LaTeX:          `\int ` + f.LaTeX() + ` \, dx`,
	}
	if sym.HasValue() {
		res.LaTeX += " = " + sym.Antiderivative.LaTeX() + " + C"
	}

	return res, nil
}

// Validation is the advisory outcome of Validate.
type Validation struct {
	Valid        bool
	IsIntegrable bool
	Message      string
	// Parsed and LaTeX are empty when Valid is false.
	Parsed string
	LaTeX  string
}

// Validate reports whether text parses and has a closed-form antiderivative.
// It never fails; problems are described in the returned message.
func (e *Engine) Validate(text string) Validation {
	f, err := e.parse("validate", text, nil)
	if err != nil {
		var syntax *expr.SyntaxError
		msg := err.Error()
		if errors.As(err, &syntax) {
			msg = syntax.Error()
		}

		return Validation{Message: msg}
	}

	v := Validation{Valid: true, Parsed: f.String(), LaTeX: f.LaTeX()}
	if sym := e.IntegrateIndefinite(f); sym.HasValue() {
		v.IsIntegrable = true
		v.Message = "Function is integrable"
	} else {
		v.Message = "Function cannot be integrated symbolically"
	}

	return v
}

// Step is one entry of a step trace.
type Step struct {
	Rule        string
	Title       string
	Description string
	Formula     string
}

// Step rules, in trace order.
const (
	RulePowerRule    = "power_rule"
	RuleSine         = "sine"
	RuleCosine       = "cosine"
	RuleExponential  = "exponential"
	RuleReciprocal   = "reciprocal"
	RuleResult       = "result"
	RuleNoClosedForm = "no_closed_form"
)

type stepPattern struct {
	step  Step
	match func(f expr.Expr, v *expr.Var) bool
}

var stepPatterns = []stepPattern{ //nolint: gochecknoglobals
	{
		step: Step{
			Rule:        RulePowerRule,
			Title:       "Apply Power Rule",
			Description: "For polynomial functions, use: ∫xⁿ dx = xⁿ⁺¹/(n+1) + C",
			Formula:     `\int x^n \, dx = \frac{x^{n+1}}{n+1} + C`,
		},
		match: symbolic.IsPolynomial,
	},
	{
		step: Step{
			Rule:        RuleSine,
			Title:       "Trigonometric Integration",
			Description: "∫sin(x) dx = -cos(x) + C",
			Formula:     `\int \sin(x) \, dx = -\cos(x) + C`,
		},
		match: func(f expr.Expr, _ *expr.Var) bool { return expr.HasFunc(f, expr.Sin) },
	},
	{
		step: Step{
			Rule:        RuleCosine,
			Title:       "Trigonometric Integration",
			Description: "∫cos(x) dx = sin(x) + C",
			Formula:     `\int \cos(x) \, dx = \sin(x) + C`,
		},
		match: func(f expr.Expr, _ *expr.Var) bool { return expr.HasFunc(f, expr.Cos) },
	},
	{
		step: Step{
			Rule:        RuleExponential,
			Title:       "Exponential Integration",
			Description: "∫eˣ dx = eˣ + C",
			Formula:     `\int e^x \, dx = e^x + C`,
		},
		match: func(f expr.Expr, _ *expr.Var) bool { return expr.HasFunc(f, expr.Exp) },
	},
	{
		step: Step{
			Rule:        RuleReciprocal,
			Title:       "Logarithmic Integration",
			Description: "∫(1/x) dx = ln|x| + C",
			Formula:     `\int \frac{1}{x} \, dx = \ln|x| + C`,
		},
		match: hasReciprocal,
	},
}

func hasReciprocal(f expr.Expr, v *expr.Var) bool {
	minusOne := expr.Int(-1)

	return expr.Any(f, func(n expr.Expr) bool {
		p, ok := n.(*expr.Pow)
		if !ok {
			return false
		}
		base, ok := p.Base().(*expr.Var)

		return ok && base.Name() == v.Name() && expr.Equal(p.Exponent(), minusOne)
	})
}

// Steps lists the integration rules suggested by the syntactic features of
// the expression, followed by the antiderivative. It is a diagnostic aid and
// may omit techniques outside the listed patterns.
func (e *Engine) Steps(text string) ([]Step, error) {
	f, err := e.parse("steps", text, nil)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, p := range stepPatterns {
		if p.match(f, e.v) {
			steps = append(steps, p.step)
		}
	}

	lhs := `\int ` + f.LaTeX() + ` \, dx`
	if sym := e.IntegrateIndefinite(f); sym.HasValue() {
		steps = append(steps, Step{
			Rule:        RuleResult,
			Title:       "Final Result",
			Description: "∫(" + f.String() + ") dx = " + sym.Antiderivative.String() + " + C",
			Formula:     lhs + " = " + sym.Antiderivative.LaTeX() + " + C",
		})
	} else {
		steps = append(steps, Step{
			Rule:        RuleNoClosedForm,
			Title:       "No Closed Form",
			Description: "∫(" + f.String() + ") dx has no elementary closed form; use numerical integration",
			Formula:     lhs,
		})
	}

	return steps, nil
}

// MethodResult is one fixed-rule approximation compared with the reconciled
// integral.
type MethodResult struct {
	Method   numeric.Method
	Value    float64
	AbsError float64
}

// Comparison contrasts fixed-panel rules with the reconciled integral.
type Comparison struct {
	Reference IntegrationResult
	Panels    int
	Methods   []MethodResult
}

// Compare evaluates the fixed rules of numeric.Approximate on the given
// number of panels. Zero panels means Options.ComparisonPanels.
func (e *Engine) Compare(text string, iv Interval, panels int) (Comparison, error) {
	const op = "comparison"
	if panels == 0 {
		panels = e.opts.ComparisonPanels
	}
	if panels < numeric.MinPanels || panels > e.opts.MaxSamples {
		return Comparison{}, newError(op, text, &iv, fmt.Errorf("%w: panels must be between %d and %d",
			ErrInvalidCount, numeric.MinPanels, e.opts.MaxSamples), nil)
	}

	f, err := e.parse(op, text, &iv)
	if err != nil {
		return Comparison{}, err
	}
	ref, err := e.reconciled(op, text, f, iv)
	if err != nil {
		return Comparison{}, err
	}

	approx, err := numeric.Approximate(numeric.Safe(numeric.Lambdify(f, e.v)), iv.Lower, iv.Upper, panels)
	if err != nil {
		return Comparison{}, newError(op, text, &iv, ErrInvalidCount, err)
	}

	out := Comparison{Reference: ref, Panels: panels, Methods: make([]MethodResult, len(approx))}
	for i, a := range approx {
		out.Methods[i] = MethodResult{
			Method:   a.Method,
			Value:    a.Value,
			AbsError: math.Abs(a.Value - ref.ChosenValue),
		}
	}

	return out, nil
}

// Samples holds points for plotting a function and its accumulated integral.
type Samples struct {
	Function []numeric.Point
	// Integral holds F(x) - F(a) and is nil without a closed form.
	Integral       []numeric.Point
	Antiderivative expr.Expr
}

// Samples evaluates the expression at n evenly spaced points of iv. Zero
// means Options.SamplePoints.
func (e *Engine) Samples(text string, iv Interval, n int) (Samples, error) {
	const op = "samples"
	if n == 0 {
		n = e.opts.SamplePoints
	}
	if n < 2 || n > e.opts.MaxSamples {
		return Samples{}, newError(op, text, &iv, fmt.Errorf("%w: points must be between 2 and %d",
			ErrInvalidCount, e.opts.MaxSamples), nil)
	}
	if err := iv.Validate(); err != nil {
		return Samples{}, newError(op, text, &iv, err, nil)
	}

	f, err := e.parse(op, text, &iv)
	if err != nil {
		return Samples{}, err
	}

	var out Samples
	if out.Function, err = numeric.Sample(numeric.Lambdify(f, e.v), iv.Lower, iv.Upper, n); err != nil {
		return Samples{}, newError(op, text, &iv, ErrInvalidCount, err)
	}

	sym := e.IntegrateIndefinite(f)
	if !sym.HasValue() {
		return out, nil
	}
	F := numeric.Lambdify(sym.Antiderivative, e.v)
	fa := F(iv.Lower)
	acc := func(x float64) float64 { return F(x) - fa }
	if out.Integral, err = numeric.Sample(acc, iv.Lower, iv.Upper, n); err != nil {
		return Samples{}, newError(op, text, &iv, ErrInvalidCount, err)
	}
	out.Antiderivative = sym.Antiderivative

	return out, nil
}
