package symbolic

import "calculus/pkg/expr"

// maxExpandTerms bounds the number of terms Expand may produce from a power
// of a sum. Larger powers are left unexpanded.
const maxExpandTerms = 256

// IsPolynomial reports whether e is a polynomial in v with coefficients free
// of v.
func IsPolynomial(e expr.Expr, v *expr.Var) bool {
	if !expr.DependsOn(e, v) {
		return true
	}

	switch e := e.(type) {
	case *expr.Var:
		return true
	case *expr.Add:
		for _, t := range e.Terms() {
			if !IsPolynomial(t, v) {
				return false
			}
		}

		return true
	case *expr.Mul:
		for _, f := range e.Factors() {
			if !IsPolynomial(f, v) {
				return false
			}
		}

		return true
	case *expr.Pow:
		n, ok := e.Exponent().(*expr.Num)

		return ok && n.IsInt() && n.Sign() > 0 && IsPolynomial(e.Base(), v)
	default:
		return false
	}
}

// Expand distributes products over sums and expands positive integer powers
// of sums while the result stays within maxExpandTerms terms. Function
// arguments are left untouched.
func Expand(e expr.Expr) expr.Expr {
	switch e := e.(type) {
	case *expr.Add:
		terms := e.Terms()
		for i, t := range terms {
			terms[i] = Expand(t)
		}

		return expr.AddOf(terms...)
	case *expr.Mul:
		acc := []expr.Expr{expr.Int(1)}
		for _, f := range e.Factors() {
			acc = distribute(acc, Expand(f))
		}

		return expr.AddOf(acc...)
	case *expr.Pow:
		base := Expand(e.Base())
		n, ok := e.Exponent().(*expr.Num)
		if _, isSum := base.(*expr.Add); !isSum || !ok || !n.IsInt() || n.Sign() <= 0 {
			return expr.PowOf(base, e.Exponent())
		}
		// a sum of two or more terms has at least k+1 terms at power k
		k := n.Rat().Num()
		if !k.IsInt64() || k.Int64() >= maxExpandTerms {
			return expr.PowOf(base, e.Exponent())
		}
		acc := []expr.Expr{expr.Int(1)}
		for range k.Int64() {
			acc = distribute(acc, base)
			acc = terms(expr.AddOf(acc...))
			if len(acc) > maxExpandTerms {
				return expr.PowOf(base, e.Exponent())
			}
		}

		return expr.AddOf(acc...)
	default:
		return e
	}
}

// distribute multiplies every term of acc by f, splitting f when it is a sum.
func distribute(acc []expr.Expr, f expr.Expr) []expr.Expr {
	fs := terms(f)
	out := make([]expr.Expr, 0, len(acc)*len(fs))
	for _, a := range acc {
		for _, b := range fs {
			out = append(out, expr.MulOf(a, b))
		}
	}

	return out
}

func terms(e expr.Expr) []expr.Expr {
	if a, ok := e.(*expr.Add); ok {
		return a.Terms()
	}

	return []expr.Expr{e}
}

// Linear reports whether e = a*v + b with a non-zero a free of v, returning
// a and b.
func Linear(e expr.Expr, v *expr.Var) (expr.Expr, expr.Expr, bool) {
	if !expr.DependsOn(e, v) {
		return nil, nil, false
	}
	if !IsPolynomial(e, v) {
		return nil, nil, false
	}

	a := Diff(e, v)
	if expr.DependsOn(a, v) {
		return nil, nil, false
	}

	return a, expr.Substitute(e, v, expr.Int(0)), true
}
