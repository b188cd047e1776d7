// Package symbolic implements closed-form differentiation and rule-based
// antidifferentiation over expr trees.
package symbolic

import "calculus/pkg/expr"

// Diff returns the derivative of e with respect to v. It is total over the
// expression grammar.
func Diff(e expr.Expr, v *expr.Var) expr.Expr {
	if !expr.DependsOn(e, v) {
		return expr.Int(0)
	}

	switch e := e.(type) {
	case *expr.Var:
		return expr.Int(1)
	case *expr.Add:
		terms := e.Terms()
		ds := make([]expr.Expr, len(terms))
		for i, t := range terms {
			ds[i] = Diff(t, v)
		}

		return expr.AddOf(ds...)
	case *expr.Mul:
		factors := e.Factors()
		terms := make([]expr.Expr, 0, len(factors))
		for i, f := range factors {
			if !expr.DependsOn(f, v) {
				continue
			}
			rest := make([]expr.Expr, 0, len(factors))
			rest = append(rest, factors[:i]...)
			rest = append(rest, Diff(f, v))
			rest = append(rest, factors[i+1:]...)
			terms = append(terms, expr.MulOf(rest...))
		}

		return expr.AddOf(terms...)
	case *expr.Pow:
		return diffPow(e, v)
	case *expr.Func:
		return expr.MulOf(diffFunc(e.Fn(), e.Arg()), Diff(e.Arg(), v))
	default:
		return expr.Int(0)
	}
}

func diffPow(p *expr.Pow, v *expr.Var) expr.Expr {
	b, n := p.Base(), p.Exponent()

	// d/dx b^n = n*b^(n-1)*b'
	if !expr.DependsOn(n, v) {
		return expr.MulOf(n, expr.PowOf(b, expr.AddOf(n, expr.Int(-1))), Diff(b, v))
	}
	// d/dx c^n = c^n*log(c)*n'
	if !expr.DependsOn(b, v) {
		return expr.MulOf(p, expr.FuncOf(expr.Log, b), Diff(n, v))
	}

	// d/dx b^n = b^n*(n'*log(b) + n*b'/b)
	return expr.MulOf(p, expr.AddOf(
		expr.MulOf(Diff(n, v), expr.FuncOf(expr.Log, b)),
		expr.MulOf(n, Diff(b, v), expr.PowOf(b, expr.Int(-1))),
	))
}

// diffFunc returns the outer derivative f'(u).
func diffFunc(fn expr.Fn, u expr.Expr) expr.Expr {
	switch fn {
	case expr.Sin:
		return expr.FuncOf(expr.Cos, u)
	case expr.Cos:
		return expr.Neg(expr.FuncOf(expr.Sin, u))
	case expr.Tan:
		return expr.PowOf(expr.FuncOf(expr.Cos, u), expr.Int(-2))
	case expr.Exp:
		return expr.FuncOf(expr.Exp, u)
	case expr.Log:
		return expr.PowOf(u, expr.Int(-1))
	case expr.Abs:
		return expr.MulOf(expr.FuncOf(expr.Abs, u), expr.PowOf(u, expr.Int(-1)))
	case expr.Asin:
		return expr.PowOf(expr.Sub(expr.Int(1), expr.PowOf(u, expr.Int(2))), expr.Frac(-1, 2))
	case expr.Atan:
		return expr.PowOf(expr.AddOf(expr.Int(1), expr.PowOf(u, expr.Int(2))), expr.Int(-1))
	default:
		return expr.Int(0)
	}
}
