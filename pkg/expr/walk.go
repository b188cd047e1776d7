package expr

// Children returns the direct sub-expressions of e.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *Add:
		return e.Terms()
	case *Mul:
		return e.Factors()
	case *Pow:
		return []Expr{e.base, e.exp}
	case *Func:
		return []Expr{e.arg}
	default:
		return nil
	}
}

// Walk visits e and its descendants in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Any reports whether pred holds for e or any of its descendants.
func Any(e Expr, pred func(Expr) bool) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if pred(n) {
			found = true

			return false
		}

		return true
	})

	return found
}

// DependsOn reports whether e contains the variable v.
func DependsOn(e Expr, v *Var) bool {
	return Any(e, func(n Expr) bool {
		w, ok := n.(*Var)

		return ok && w.name == v.name
	})
}

// Substitute replaces every occurrence of v in e with with, re-simplifying
// the result.
func Substitute(e Expr, v *Var, with Expr) Expr {
	switch e := e.(type) {
	case *Var:
		if e.name == v.name {
			return with
		}

		return e
	case *Add:
		ts := make([]Expr, len(e.terms))
		for i, t := range e.terms {
			ts[i] = Substitute(t, v, with)
		}

		return AddOf(ts...)
	case *Mul:
		fs := make([]Expr, len(e.factors))
		for i, f := range e.factors {
			fs[i] = Substitute(f, v, with)
		}

		return MulOf(fs...)
	case *Pow:
		return PowOf(Substitute(e.base, v, with), Substitute(e.exp, v, with))
	case *Func:
		return FuncOf(e.fn, Substitute(e.arg, v, with))
	default:
		return e
	}
}

// HasFunc reports whether e applies fn anywhere.
func HasFunc(e Expr, fn Fn) bool {
	return Any(e, func(n Expr) bool {
		f, ok := n.(*Func)

		return ok && f.fn == fn
	})
}
