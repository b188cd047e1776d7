package symbolic

import "calculus/pkg/expr"

const (
	// maxDepth bounds the recursion of rule application.
	maxDepth = 24
	// maxParts bounds the number of integration-by-parts rounds.
	maxParts = 32
)

// Integrate returns an antiderivative of e with respect to v, without the
// constant of integration. It reports false when no rule applies, meaning no
// elementary closed form was found.
func Integrate(e expr.Expr, v *expr.Var) (expr.Expr, bool) {
	return integrate(e, v, 0)
}

func integrate(e expr.Expr, v *expr.Var, depth int) (expr.Expr, bool) {
	if depth > maxDepth {
		return nil, false
	}
	if !expr.DependsOn(e, v) {
		return expr.MulOf(e, v), true
	}

	switch e := e.(type) {
	case *expr.Var:
		return expr.MulOf(expr.Frac(1, 2), expr.PowOf(v, expr.Int(2))), true
	case *expr.Add:
		terms := e.Terms()
		out := make([]expr.Expr, len(terms))
		for i, t := range terms {
			F, ok := integrate(t, v, depth+1)
			if !ok {
				return nil, false
			}
			out[i] = F
		}

		return expr.AddOf(out...), true
	case *expr.Mul:
		return integrateMul(e, v, depth)
	case *expr.Pow:
		return integratePow(e, v, depth)
	case *expr.Func:
		return integrateFunc(e, v)
	default:
		return nil, false
	}
}

func integrateMul(m *expr.Mul, v *expr.Var, depth int) (expr.Expr, bool) {
	var consts, deps []expr.Expr
	for _, f := range m.Factors() {
		if expr.DependsOn(f, v) {
			deps = append(deps, f)
		} else {
			consts = append(consts, f)
		}
	}
	c := expr.MulOf(consts...)

	if len(deps) == 1 {
		F, ok := integrate(deps[0], v, depth+1)
		if !ok {
			return nil, false
		}

		return expr.MulOf(c, F), true
	}

	if F, ok := byParts(deps, v, depth); ok {
		return expr.MulOf(c, F), true
	}
	if F, ok := bySubstitution(deps, v, depth); ok {
		return expr.MulOf(c, F), true
	}

	if F, ok := byLinearPower(deps, v, depth); ok {
		return expr.MulOf(c, F), true
	}
	prod := expr.MulOf(deps...)
	if expanded := Expand(prod); !expr.Equal(expanded, prod) {
		if F, ok := integrate(expanded, v, depth+1); ok {
			return expr.MulOf(c, F), true
		}
	}

	return nil, false
}

// byLinearPower integrates P(x)*(a*x + b)^n for a polynomial P through
// u = a*x + b, so that only P is expanded:
// ∫P(x)*u^n dx = 1/a * ∫P((u - b)/a)*u^n du.
func byLinearPower(deps []expr.Expr, v *expr.Var, depth int) (expr.Expr, bool) {
	for i, f := range deps {
		p, ok := f.(*expr.Pow)
		if !ok || expr.DependsOn(p.Exponent(), v) {
			continue
		}
		a, b, ok := Linear(p.Base(), v)
		if !ok {
			continue
		}
		others := make([]expr.Expr, 0, len(deps)-1)
		others = append(others, deps[:i]...)
		others = append(others, deps[i+1:]...)
		P := expr.MulOf(others...)
		if !IsPolynomial(P, v) {
			continue
		}

		w := expr.NewVar("_u")
		Q := Expand(expr.Substitute(P, v, expr.Div(expr.Sub(w, b), a)))
		G, ok := integrate(Expand(expr.MulOf(Q, expr.PowOf(w, p.Exponent()))), w, depth+1)
		if !ok {
			continue
		}

		return expr.Div(expr.Substitute(G, w, p.Base()), a), true
	}

	return nil, false
}

func integratePow(p *expr.Pow, v *expr.Var, depth int) (expr.Expr, bool) {
	b, n := p.Base(), p.Exponent()

	if expr.DependsOn(n, v) {
		// c^(a*x + b) = c^(a*x + b)/(a*log(c))
		if expr.DependsOn(b, v) {
			return nil, false
		}
		a, _, ok := Linear(n, v)
		if !ok {
			return nil, false
		}

		return expr.Div(p, expr.MulOf(a, expr.FuncOf(expr.Log, b))), true
	}

	num, isNum := n.(*expr.Num)
	if a, _, ok := Linear(b, v); ok {
		if isNum && expr.Equal(num, expr.Int(-1)) {
			return expr.Div(expr.FuncOf(expr.Log, expr.FuncOf(expr.Abs, b)), a), true
		}
		n1 := expr.AddOf(n, expr.Int(1))

		return expr.Div(expr.PowOf(b, n1), expr.MulOf(n1, a)), true
	}

	if isNum {
		square := expr.PowOf(v, expr.Int(2))
		switch {
		case expr.Equal(num, expr.Int(-1)) && expr.Equal(b, expr.AddOf(square, expr.Int(1))):
			return expr.FuncOf(expr.Atan, v), true
		case expr.Equal(num, expr.Frac(-1, 2)) && expr.Equal(b, expr.Sub(expr.Int(1), square)):
			return expr.FuncOf(expr.Asin, v), true
		case num.IsInt() && num.Sign() > 0 && IsPolynomial(b, v):
			if expanded := Expand(p); !expr.Equal(expanded, p) {
				return integrate(expanded, v, depth+1)
			}
		}
	}

	return nil, false
}

func integrateFunc(f *expr.Func, v *expr.Var) (expr.Expr, bool) {
	u := f.Arg()
	a, _, ok := Linear(u, v)
	if !ok {
		return nil, false
	}

	var F expr.Expr
	switch f.Fn() {
	case expr.Sin:
		F = expr.Neg(expr.FuncOf(expr.Cos, u))
	case expr.Cos:
		F = expr.FuncOf(expr.Sin, u)
	case expr.Tan:
		F = expr.Neg(expr.FuncOf(expr.Log, expr.FuncOf(expr.Abs, expr.FuncOf(expr.Cos, u))))
	case expr.Exp:
		F = f
	case expr.Log:
		F = expr.Sub(expr.MulOf(u, f), u)
	default:
		return nil, false
	}

	return expr.Div(F, a), true
}

// byParts integrates P(x)*T(x) where P is a polynomial and T is sin, cos or
// exp of a linear argument, by repeated integration by parts:
// ∫P*T = P*T1 - P'*T2 + P''*T3 - ...
func byParts(deps []expr.Expr, v *expr.Var, depth int) (expr.Expr, bool) {
	var trans expr.Expr
	var poly []expr.Expr
	for _, f := range deps {
		if fn, ok := f.(*expr.Func); ok && trans == nil && periodicOrExp(fn.Fn()) {
			if _, _, linear := Linear(fn.Arg(), v); linear {
				trans = fn

				continue
			}
		}
		if !IsPolynomial(f, v) {
			return nil, false
		}
		poly = append(poly, f)
	}
	if trans == nil || len(poly) == 0 {
		return nil, false
	}

	P := Expand(expr.MulOf(poly...))
	T := trans
	sign := int64(1)
	var out []expr.Expr
	for range maxParts {
		if n, ok := P.(*expr.Num); ok && n.IsZero() {
			return expr.AddOf(out...), true
		}
		Tk, ok := integrate(T, v, depth+1)
		if !ok {
			return nil, false
		}
		out = append(out, expr.MulOf(expr.Int(sign), P, Tk))
		P = Expand(Diff(P, v))
		T = Tk
		sign = -sign
	}

	return nil, false
}

func periodicOrExp(fn expr.Fn) bool {
	return fn == expr.Sin || fn == expr.Cos || fn == expr.Exp
}

// bySubstitution recognises integrands of the form g(u(x))*u'(x)*c where
// g is one of the factors (or its outer function) and c is free of v.
func bySubstitution(deps []expr.Expr, v *expr.Var, depth int) (expr.Expr, bool) {
	w := expr.NewVar("_u")
	for i, f := range deps {
		others := make([]expr.Expr, 0, len(deps)-1)
		others = append(others, deps[:i]...)
		others = append(others, deps[i+1:]...)

		for _, cand := range outerInner(f, v, w) {
			du := Diff(cand.inner, v)
			if n, ok := du.(*expr.Num); ok && n.IsZero() {
				continue
			}
			ratio := expr.MulOf(append(others, expr.PowOf(du, expr.Int(-1)))...)
			if expr.DependsOn(ratio, v) {
				continue
			}
			G, ok := integrate(cand.outer, w, depth+1)
			if !ok {
				continue
			}

			return expr.MulOf(ratio, expr.Substitute(G, w, cand.inner)), true
		}
	}

	return nil, false
}

type decomposition struct {
	outer expr.Expr // in terms of the placeholder variable
	inner expr.Expr
}

// outerInner lists the ways f can be read as g(u).
func outerInner(f expr.Expr, v, w *expr.Var) []decomposition {
	out := []decomposition{{outer: w, inner: f}}
	switch f := f.(type) {
	case *expr.Func:
		out = append(out, decomposition{outer: expr.FuncOf(f.Fn(), w), inner: f.Arg()})
	case *expr.Pow:
		if !expr.DependsOn(f.Exponent(), v) {
			out = append(out, decomposition{outer: expr.PowOf(w, f.Exponent()), inner: f.Base()})
		}
	}

	return out
}
