package expr_test

import (
	"testing"
	"time"

	"calculus/pkg/expr"

	"github.com/stretchr/testify/require"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "x^2 + 2*x + 1", want: "x^2 + 2*x + 1"},
		{in: "1 + 2*x + x^2", want: "x^2 + 2*x + 1"},
		{in: "x - x", want: "0"},
		{in: "x*x*x", want: "x^3"},
		{in: "2/4", want: "1/2"},
		{in: "sqrt(4)", want: "2"},
		{in: "sin(pi)", want: "0"},
		{in: "cos(pi)", want: "-1"},
		{in: "e^x", want: "exp(x)"},
		{in: "log(e)", want: "1"},
		{in: "exp(log(x))", want: "x"},
		{in: "1/x", want: "1/x"},
		{in: "-x^2", want: "-x^2"},
		{in: "x - 1", want: "x - 1"},
		{in: "3*x/2", want: "3*x/2"},
		{in: "√(x)", want: "sqrt(x)"},
		{in: "(x+1)^2", want: "(x + 1)^2"},
		{in: "x**3", want: "x^3"},
		{in: "2^3", want: "8"},
		{in: "2^-1", want: "1/2"},
		{in: "x^2^3", want: "x^8"},
		{in: "  .5 * x ", want: "x/2"},
		{in: "sqrt(x)^2", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := expr.Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, e.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pos  int
	}{
		{name: "empty", in: "", pos: 0},
		{name: "whitespace only", in: "   ", pos: 0},
		{name: "injection", in: "x + ; drop", pos: 4},
		{name: "unknown identifier", in: "y + 1", pos: 0},
		{name: "implicit multiplication", in: "2x", pos: 1},
		{name: "function without parens", in: "sin x", pos: 4},
		{name: "unbalanced", in: "(x + 1", pos: 6},
		{name: "malformed number", in: "1..2", pos: 0},
		{name: "dangling operator", in: "x + ", pos: 4},
		{name: "python call", in: "__import__('os')", pos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expr.Parse(tt.in)
			require.Error(t, err)
			require.ErrorIs(t, err, expr.ErrSyntax)

			var se *expr.SyntaxError
			require.ErrorAs(t, err, &se)
			require.Equal(t, tt.pos, se.Pos)
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	in := ""
	for range 500 {
		in += "("
	}
	in += "x"
	for range 500 {
		in += ")"
	}

	_, err := expr.Parse(in)
	require.ErrorIs(t, err, expr.ErrSyntax)
}

func TestParse_NestedLiteralPowersStaySymbolic(t *testing.T) {
	start := time.Now()
	e, err := expr.Parse("((9^256)^256)^256")
	require.NoError(t, err)
	require.Less(t, time.Since(start), time.Second)
	_, isNum := e.(*expr.Num)
	require.False(t, isNum, "got %T", e)
	require.Less(t, len(e.String()), 400)

	e, err = expr.Parse("9^256")
	require.NoError(t, err)
	_, isNum = e.(*expr.Num)
	require.True(t, isNum)

	e, err = expr.Parse("(1/4)^(3/2)")
	require.NoError(t, err)
	require.Equal(t, "1/8", e.String())
}

func TestNewParser_CustomVariable(t *testing.T) {
	tv := expr.NewVar("t")
	e, err := expr.NewParser(tv).Parse("t^2 + 1")
	require.NoError(t, err)
	require.True(t, expr.DependsOn(e, tv))
	require.False(t, expr.DependsOn(e, expr.X))

	_, err = expr.NewParser(tv).Parse("x")
	require.ErrorIs(t, err, expr.ErrSyntax)
}

func TestLaTeX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "x^2/2", want: `\frac{x^{2}}{2}`},
		{in: "sqrt(x)", want: `\sqrt{x}`},
		{in: "sin(x)", want: `\sin\left(x\right)`},
		{in: "exp(2*x)", want: `e^{2 x}`},
		{in: "log(x)", want: `\ln\left(x\right)`},
		{in: "pi*x", want: `\pi x`},
		{in: "x - 1/3", want: `x - \frac{1}{3}`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := expr.Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, e.LaTeX())
		})
	}
}

func TestSubstitute(t *testing.T) {
	e, err := expr.Parse("x^2 + 1")
	require.NoError(t, err)

	got := expr.Substitute(e, expr.X, expr.Int(3))
	require.Equal(t, "10", got.String())

	got = expr.Substitute(e, expr.X, expr.AddOf(expr.X, expr.Int(1)))
	require.Equal(t, "(x + 1)^2 + 1", got.String())
}

func TestFloat(t *testing.T) {
	n, ok := expr.Float(0.1)
	require.True(t, ok)
	require.Equal(t, "1/10", n.String())

	_, ok = expr.Float(0)
	require.True(t, ok)
}

func TestHasFunc(t *testing.T) {
	e, err := expr.Parse("x*sin(2*x) + 1")
	require.NoError(t, err)
	require.True(t, expr.HasFunc(e, expr.Sin))
	require.False(t, expr.HasFunc(e, expr.Cos))
}
