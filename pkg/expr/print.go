package expr

import (
	"math/big"
	"strings"
)

func wrap(e Expr, minPrec int) string {
	if e.prec() < minPrec {
		return "(" + e.String() + ")"
	}

	return e.String()
}

func wrapLaTeX(e Expr, minPrec int) string {
	if e.prec() < minPrec {
		return `\left(` + e.LaTeX() + `\right)`
	}

	return e.LaTeX()
}

// negated reports whether t prints with a leading minus and returns its
// absolute form.
func negated(t Expr) (bool, Expr) {
	switch t := t.(type) {
	case *Num:
		if t.Sign() < 0 {
			return true, negNum(t)
		}
	case *Mul:
		if c, ok := t.factors[0].(*Num); ok && c.Sign() < 0 {
			return true, withCoeff(negNum(c), &Mul{factors: t.factors[1:]})
		}
	}

	return false, t
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		neg, abs := negated(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-" + wrap(abs, precProduct))
		case i == 0:
			b.WriteString(t.String())
		case neg:
			b.WriteString(" - " + wrap(abs, precProduct))
		default:
			b.WriteString(" + " + wrap(t, precProduct))
		}
	}

	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		neg, abs := negated(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-" + wrapLaTeX(abs, precProduct))
		case i == 0:
			b.WriteString(t.LaTeX())
		case neg:
			b.WriteString(" - " + wrapLaTeX(abs, precProduct))
		default:
			b.WriteString(" + " + wrapLaTeX(t, precProduct))
		}
	}

	return b.String()
}

// fraction splits a product into sign, numerator and denominator factors.
func (m *Mul) fraction() (bool, []Expr, []Expr) {
	var neg bool
	var numer, denom []Expr
	for _, f := range m.factors {
		switch f := f.(type) {
		case *Num:
			r := f.Rat()
			if r.Sign() < 0 {
				neg = true
				r.Neg(r)
			}
			if p := Rat(new(big.Rat).SetInt(r.Num())); !p.IsOne() {
				numer = append(numer, p)
			}
			if q := Rat(new(big.Rat).SetInt(r.Denom())); !q.IsOne() {
				denom = append(denom, q)
			}
		case *Pow:
			if n, ok := f.exp.(*Num); ok && n.Sign() < 0 {
				denom = append(denom, PowOf(f.base, negNum(n)))

				continue
			}
			numer = append(numer, f)
		default:
			numer = append(numer, f)
		}
	}

	return neg, numer, denom
}

func (m *Mul) String() string {
	neg, numer, denom := m.fraction()

	parts := make([]string, len(numer))
	for i, f := range numer {
		parts[i] = wrap(f, precUnary)
	}
	s := strings.Join(parts, "*")
	if s == "" {
		s = "1"
	}

	switch len(denom) {
	case 0:
	case 1:
		s += "/" + wrap(denom[0], precPower)
	default:
		parts = make([]string, len(denom))
		for i, f := range denom {
			parts[i] = wrap(f, precUnary)
		}
		s += "/(" + strings.Join(parts, "*") + ")"
	}

	if neg {
		return "-" + s
	}

	return s
}

func (m *Mul) LaTeX() string {
	neg, numer, denom := m.fraction()

	join := func(fs []Expr) string {
		var b strings.Builder
		for i, f := range fs {
			s := wrapLaTeX(f, precUnary)
			if i > 0 {
				if s[0] >= '0' && s[0] <= '9' {
					b.WriteString(` \cdot `)
				} else {
					b.WriteString(" ")
				}
			}
			b.WriteString(s)
		}

		return b.String()
	}

	s := join(numer)
	if s == "" {
		s = "1"
	}
	if len(denom) > 0 {
		s = `\frac{` + s + "}{" + join(denom) + "}"
	}
	if neg {
		return "-" + s
	}

	return s
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok {
		if n.val.Cmp(half) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
		if n.Sign() < 0 {
			return "1/" + wrap(PowOf(p.base, negNum(n)), precPower)
		}
	}

	return wrap(p.base, precAtom) + "^" + wrap(p.exp, precAtom)
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Num); ok {
		if n.val.Cmp(half) == 0 {
			return `\sqrt{` + p.base.LaTeX() + "}"
		}
		if n.Sign() < 0 {
			return `\frac{1}{` + PowOf(p.base, negNum(n)).LaTeX() + "}"
		}
	}

	return wrapLaTeX(p.base, precAtom) + "^{" + p.exp.LaTeX() + "}"
}

func (f *Func) String() string { return string(f.fn) + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.fn {
	case Exp:
		return "e^{" + arg + "}"
	case Log:
		return `\ln\left(` + arg + `\right)`
	case Abs:
		return `\left|` + arg + `\right|`
	case Asin:
		return `\arcsin\left(` + arg + `\right)`
	case Atan:
		return `\arctan\left(` + arg + `\right)`
	default:
		return `\` + string(f.fn) + `\left(` + arg + `\right)`
	}
}
