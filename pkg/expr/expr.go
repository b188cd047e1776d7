// Package expr implements the immutable expression tree used by the calculus
// engine. Trees are built through simplifying constructors (AddOf, MulOf,
// PowOf, FuncOf) and are never mutated after construction, so they can be
// shared freely between goroutines.
package expr

import (
	"math"
	"math/big"
	"strconv"
)

// precedence levels used when printing.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// Expr is a node of an expression tree.
type Expr interface {
	// String returns a canonical textual form. Two trees with equal String
	// values are treated as the same expression.
	String() string
	// LaTeX returns the LaTeX rendering of the expression.
	LaTeX() string

	prec() int
}

// Num is an exact rational literal.
type Num struct{ val *big.Rat }

// Int returns the integer literal n.
func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// Frac returns the rational literal p/q. q must not be zero.
func Frac(p, q int64) *Num { return &Num{val: big.NewRat(p, q)} }

// Rat returns a literal holding a copy of r.
func Rat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// Float converts f to an exact literal using its shortest decimal
// representation, so 0.1 becomes 1/10. It reports false for NaN and Inf.
func Float(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return nil, false
	}

	return &Num{val: r}, true
}

// Rat returns a copy of the underlying rational.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

// Float64 returns the nearest float64 value.
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }

func (n *Num) IsZero() bool { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool  { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsInt() bool  { return n.val.IsInt() }
func (n *Num) Sign() int    { return n.val.Sign() }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}

	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}

	v := new(big.Rat).Abs(n.val)
	sign := ""
	if n.val.Sign() < 0 {
		sign = "-"
	}

	return sign + `\frac{` + v.Num().String() + "}{" + v.Denom().String() + "}"
}

func (n *Num) prec() int {
	switch {
	case n.val.Sign() < 0:
		return precUnary
	case !n.val.IsInt():
		return precProduct
	default:
		return precAtom
	}
}

func addNum(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func mulNum(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func negNum(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// Const is a named mathematical constant.
type Const struct {
	name  string
	latex string
	value float64
}

var (
	// E is Euler's number.
	E = &Const{name: "e", latex: "e", value: math.E} //nolint: gochecknoglobals
	// Pi is the ratio of a circle's circumference to its diameter.
	Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi} //nolint: gochecknoglobals
)

func (c *Const) Name() string   { return c.name }
func (c *Const) Value() float64 { return c.value }
func (c *Const) String() string { return c.name }
func (c *Const) LaTeX() string  { return c.latex }
func (c *Const) prec() int      { return precAtom }

// Var is a free variable. Variables compare by name.
type Var struct{ name string }

// X is the conventional free variable of single-variable expressions.
var X = NewVar("x") //nolint: gochecknoglobals

// NewVar returns a variable with the given name.
func NewVar(name string) *Var { return &Var{name: name} }

func (v *Var) Name() string   { return v.name }
func (v *Var) String() string { return v.name }
func (v *Var) LaTeX() string  { return v.name }
func (v *Var) prec() int      { return precAtom }

// Add is a sum of two or more terms.
type Add struct{ terms []Expr }

// Terms returns a copy of the summands.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }
func (a *Add) prec() int     { return precSum }

// Mul is a product of two or more factors. A numeric coefficient, when
// present, is always the first factor.
type Mul struct{ factors []Expr }

// Factors returns a copy of the factors.
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }
func (m *Mul) prec() int       { return precProduct }

// Pow is base raised to exponent.
type Pow struct{ base, exp Expr }

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

func (p *Pow) prec() int {
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.val.Cmp(half) == 0:
			return precAtom
		case n.Sign() < 0:
			return precProduct
		}
	}

	return precPower
}

var half = big.NewRat(1, 2) //nolint: gochecknoglobals

// Fn names an elementary function.
type Fn string

const (
	Sin  Fn = "sin"
	Cos  Fn = "cos"
	Tan  Fn = "tan"
	Exp  Fn = "exp"
	Log  Fn = "log"
	Abs  Fn = "abs"
	Asin Fn = "asin"
	Atan Fn = "atan"
)

// Func is an elementary function applied to an argument.
type Func struct {
	fn  Fn
	arg Expr
}

func (f *Func) Fn() Fn    { return f.fn }
func (f *Func) Arg() Expr { return f.arg }
func (f *Func) prec() int { return precAtom }

// Equal reports whether a and b are the same expression.
func Equal(a, b Expr) bool { return a.String() == b.String() }
