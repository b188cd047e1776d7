package expr

import "math/big"

// FuncOf returns fn applied to arg, folding exact values at special points
// (sin(0), cos(pi), log(1), ...) and cancelling exp/log pairs.
func FuncOf(fn Fn, arg Expr) Expr {
	n, isNum := arg.(*Num)
	zero := isNum && n.IsZero()

	switch fn {
	case Sin, Tan:
		if zero {
			return Int(0)
		}
		if k, ok := piMultiple(arg); ok && k.IsInt() {
			return Int(0)
		}
	case Cos:
		if zero {
			return Int(1)
		}
		if k, ok := piMultiple(arg); ok && k.IsInt() {
			if new(big.Int).Abs(k.Num()).Bit(0) == 1 {
				return Int(-1)
			}

			return Int(1)
		}
	case Exp:
		if zero {
			return Int(1)
		}
		if f, ok := arg.(*Func); ok && f.fn == Log {
			return f.arg
		}
	case Log:
		if isNum && n.IsOne() {
			return Int(0)
		}
		if c, ok := arg.(*Const); ok && c.name == E.name {
			return Int(1)
		}
		if f, ok := arg.(*Func); ok && f.fn == Exp {
			return f.arg
		}
	case Abs:
		if isNum {
			return &Num{val: new(big.Rat).Abs(n.val)}
		}
		switch a := arg.(type) {
		case *Const:
			return a
		case *Func:
			if a.fn == Exp || a.fn == Abs {
				return a
			}
		}
	case Asin, Atan:
		if zero {
			return Int(0)
		}
	}

	return &Func{fn: fn, arg: arg}
}

// piMultiple reports k when arg is k*pi for a rational k.
func piMultiple(arg Expr) (*big.Rat, bool) {
	switch a := arg.(type) {
	case *Const:
		if a.name == Pi.name {
			return big.NewRat(1, 1), true
		}
	case *Mul:
		if len(a.factors) != 2 {
			return nil, false
		}
		c, ok := a.factors[0].(*Num)
		if !ok {
			return nil, false
		}
		if p, ok := a.factors[1].(*Const); ok && p.name == Pi.name {
			return c.Rat(), true
		}
	}

	return nil, false
}
