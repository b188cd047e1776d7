package expr

import (
	"math/big"
	"sort"
)

const (
	// maxExactPower bounds exponents evaluated exactly on rational literals.
	maxExactPower = 256
	// maxExactBits bounds the estimated size of an exactly evaluated power,
	// so nested literal powers stay symbolic.
	maxExactBits = 1 << 16
)

// AddOf returns the simplified sum of terms. Nested sums are flattened,
// numeric terms are folded and like terms are combined.
func AddOf(terms ...Expr) Expr {
	constant := Int(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	var order []string

	var collect func(ts []Expr)
	collect = func(ts []Expr) {
		for _, t := range ts {
			switch t := t.(type) {
			case *Add:
				collect(t.terms)
			case *Num:
				constant = addNum(constant, t)
			default:
				c, rest := splitCoeff(t)
				k := rest.String()
				if prev, ok := coeffs[k]; ok {
					coeffs[k] = addNum(prev, c)

					continue
				}
				coeffs[k] = c
				rests[k] = rest
				order = append(order, k)
			}
		}
	}
	collect(terms)

	out := make([]Expr, 0, len(order)+1)
	for _, k := range order {
		c := coeffs[k]
		if c.IsZero() {
			continue
		}
		out = append(out, withCoeff(c, rests[k]))
	}
	if !constant.IsZero() {
		out = append(out, constant)
	}

	switch len(out) {
	case 0:
		return Int(0)
	case 1:
		return out[0]
	}

	sort.SliceStable(out, func(i, j int) bool { return termLess(out[i], out[j]) })

	return &Add{terms: out}
}

// MulOf returns the simplified product of factors. Nested products are
// flattened, numeric factors are folded and equal bases have their exponents
// added.
func MulOf(factors ...Expr) Expr {
	coeff := Int(1)
	exps := map[string][]Expr{}
	bases := map[string]Expr{}
	var order []string

	var collect func(fs []Expr)
	collect = func(fs []Expr) {
		for _, f := range fs {
			var base, exp Expr
			switch f := f.(type) {
			case *Mul:
				collect(f.factors)

				continue
			case *Num:
				coeff = mulNum(coeff, f)

				continue
			case *Pow:
				base, exp = f.base, f.exp
			default:
				base, exp = f, Int(1)
			}

			k := base.String()
			if _, ok := bases[k]; !ok {
				bases[k] = base
				order = append(order, k)
			}
			exps[k] = append(exps[k], exp)
		}
	}
	collect(factors)

	if coeff.IsZero() {
		return Int(0)
	}

	out := make([]Expr, 0, len(order))
	regroup := false
	for _, k := range order {
		p := PowOf(bases[k], AddOf(exps[k]...))
		switch p := p.(type) {
		case *Num:
			coeff = mulNum(coeff, p)
		case *Mul:
			regroup = true
			out = append(out, p)
		default:
			out = append(out, p)
		}
	}

	if regroup {
		return MulOf(append([]Expr{coeff}, out...)...)
	}
	if coeff.IsZero() {
		return Int(0)
	}

	sort.SliceStable(out, func(i, j int) bool { return factorLess(out[i], out[j]) })

	switch {
	case len(out) == 0:
		return coeff
	case len(out) == 1 && coeff.IsOne():
		return out[0]
	case coeff.IsOne():
		return &Mul{factors: out}
	default:
		return &Mul{factors: append([]Expr{coeff}, out...)}
	}
}

// PowOf returns the simplified power base^exp.
func PowOf(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok {
		if n.IsZero() {
			return Int(1)
		}
		if n.IsOne() {
			return base
		}
	}

	switch b := base.(type) {
	case *Num:
		if b.IsOne() {
			return Int(1)
		}
		if n, ok := exp.(*Num); ok {
			if r, ok := powNum(b, n); ok {
				return r
			}
		}
	case *Const:
		if b == E || b.name == E.name {
			return FuncOf(Exp, exp)
		}
	}

	n, ok := exp.(*Num)
	if !ok || !n.IsInt() {
		return &Pow{base: base, exp: exp}
	}

	switch b := base.(type) {
	case *Pow:
		return PowOf(b.base, MulOf(b.exp, n))
	case *Mul:
		fs := make([]Expr, len(b.factors))
		for i, f := range b.factors {
			fs[i] = PowOf(f, n)
		}

		return MulOf(fs...)
	case *Func:
		if b.fn == Exp {
			return FuncOf(Exp, MulOf(n, b.arg))
		}
	}

	return &Pow{base: base, exp: exp}
}

// powNum evaluates b^n exactly when the result is rational.
func powNum(b, n *Num) (Expr, bool) {
	if b.IsZero() {
		if n.Sign() > 0 {
			return Int(0), true
		}

		return nil, false
	}

	if n.IsInt() {
		k := n.val.Num()
		if !k.IsInt64() || !exactPowerFits(b.val, k.Int64()) {
			return nil, false
		}

		return &Num{val: ratPow(b.val, k.Int64())}, true
	}

	// rational exponents with denominator 2 on perfect squares
	if b.Sign() < 0 || n.val.Denom().Cmp(big.NewInt(2)) != 0 {
		return nil, false
	}
	num, ok := isqrt(b.val.Num())
	if !ok {
		return nil, false
	}
	den, ok := isqrt(b.val.Denom())
	if !ok {
		return nil, false
	}
	root := new(big.Rat).SetFrac(num, den)
	p := n.val.Num()
	if !p.IsInt64() || !exactPowerFits(root, p.Int64()) {
		return nil, false
	}

	return &Num{val: ratPow(root, p.Int64())}, true
}

// exactPowerFits reports whether r^k is small enough to evaluate exactly.
func exactPowerFits(r *big.Rat, k int64) bool {
	if k < 0 {
		k = -k
	}
	if k > maxExactPower {
		return false
	}
	bits := max(r.Num().BitLen(), r.Denom().BitLen())

	return int64(bits)*k <= maxExactBits
}

func ratPow(r *big.Rat, k int64) *big.Rat {
	neg := k < 0
	if neg {
		k = -k
	}
	e := big.NewInt(k)
	num := new(big.Int).Exp(r.Num(), e, nil)
	den := new(big.Int).Exp(r.Denom(), e, nil)
	if neg {
		num, den = den, num
	}

	return new(big.Rat).SetFrac(num, den)
}

func isqrt(v *big.Int) (*big.Int, bool) {
	s := new(big.Int).Sqrt(v)

	return s, new(big.Int).Mul(s, s).Cmp(v) == 0
}

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(Int(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Div returns a / b.
func Div(a, b Expr) Expr { return MulOf(a, PowOf(b, Int(-1))) }

// Sqrt returns the principal square root of e.
func Sqrt(e Expr) Expr { return PowOf(e, Frac(1, 2)) }

// splitCoeff separates the numeric coefficient of a term.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return Int(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return Int(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}

	return c, &Mul{factors: m.factors[1:]}
}

// withCoeff is the inverse of splitCoeff for an already canonical rest.
func withCoeff(c *Num, rest Expr) Expr {
	if c.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{c}, m.factors...)}
	}

	return &Mul{factors: []Expr{c, rest}}
}

// degree estimates the power of the first variable found in a term, used
// only to order sums from highest to lowest power.
func degree(e Expr) float64 {
	switch e := e.(type) {
	case *Var:
		return 1
	case *Pow:
		if _, ok := e.base.(*Var); ok {
			if n, ok := e.exp.(*Num); ok {
				return n.Float64()
			}
		}
	case *Mul:
		var d float64
		for _, f := range e.factors {
			d += degree(f)
		}

		return d
	}

	return 0
}

func termLess(a, b Expr) bool {
	_, an := a.(*Num)
	_, bn := b.(*Num)
	if an != bn {
		return bn
	}
	if da, db := degree(a), degree(b); da != db {
		return da > db
	}

	return a.String() < b.String()
}

func factorRank(e Expr) int {
	switch e := e.(type) {
	case *Const:
		return 0
	case *Var:
		return 1
	case *Pow:
		if _, ok := e.base.(*Var); ok {
			return 1
		}

		return 3
	case *Add:
		return 2
	default:
		return 4
	}
}

func factorLess(a, b Expr) bool {
	if ra, rb := factorRank(a), factorRank(b); ra != rb {
		return ra < rb
	}

	return a.String() < b.String()
}
