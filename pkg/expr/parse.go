package expr

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is matched by every error returned from Parse.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes why and where parsing failed.
type SyntaxError struct {
	// Pos is the byte offset in the input.
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// maxDepth bounds nesting of parentheses and unary operators.
const maxDepth = 200

// functions that may appear in parsed input.
var parsedFuncs = map[string]bool{ //nolint: gochecknoglobals
	"sqrt": true,
	"sin":  true,
	"cos":  true,
	"tan":  true,
	"exp":  true,
	"log":  true,
}

// Parser turns restricted algebraic text into expression trees over a single
// free variable.
type Parser struct {
	variable *Var
}

// NewParser returns a parser binding the identifier v.Name() to v.
func NewParser(v *Var) *Parser {
	return &Parser{variable: v}
}

// Parse parses text with a parser bound to X.
func Parse(text string) (Expr, error) {
	return NewParser(X).Parse(text)
}

// Parse parses text. Accepted input consists of decimal literals, the
// variable, the constants e and pi, the operators + - * / ^ (also **), the
// functions sqrt sin cos tan exp log (√ is accepted for sqrt), parentheses and
// whitespace. Multiplication is always explicit.
func (p *Parser) Parse(text string) (Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	ps := &parseState{toks: toks, variable: p.variable}
	e, err := ps.sum()
	if err != nil {
		return nil, err
	}
	if t := ps.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", t)}
	}

	return e, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}

	return fmt.Sprintf("%q", t.text)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			start := i
			dots := 0
			for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
				if text[i] == '.' {
					dots++
				}
				i++
			}
			lit := text[start:i]
			if dots > 1 || lit == "." {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", lit)}
			}
			toks = append(toks, token{kind: tokNum, text: lit, pos: start})
		case isLetter(c):
			start := i
			for i < len(text) && (isLetter(text[i]) || isDigit(text[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], pos: start})
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.IndexByte("+-*/^", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			r, size := utf8.DecodeRuneInString(text[i:])
			if r == '√' {
				toks = append(toks, token{kind: tokIdent, text: "sqrt", pos: i})
				i += size

				continue
			}

			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

type parseState struct {
	toks     []token
	i        int
	depth    int
	variable *Var
}

func (ps *parseState) peek() token { return ps.toks[ps.i] }

func (ps *parseState) next() token {
	t := ps.toks[ps.i]
	if t.kind != tokEOF {
		ps.i++
	}

	return t
}

func (ps *parseState) isOp(ops string) bool {
	t := ps.peek()

	return t.kind == tokOp && strings.Contains(ops, t.text)
}

func (ps *parseState) enter(pos int) error {
	ps.depth++
	if ps.depth > maxDepth {
		return &SyntaxError{Pos: pos, Msg: "expression nested too deeply"}
	}

	return nil
}

func (ps *parseState) leave() { ps.depth-- }

// sum := product (('+' | '-') product)*
func (ps *parseState) sum() (Expr, error) {
	left, err := ps.product()
	if err != nil {
		return nil, err
	}
	for ps.isOp("+-") {
		op := ps.next()
		right, err := ps.product()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = Neg(right)
		}
		left = AddOf(left, right)
	}

	return left, nil
}

// product := unary (('*' | '/') unary)*
func (ps *parseState) product() (Expr, error) {
	left, err := ps.unary()
	if err != nil {
		return nil, err
	}
	for ps.isOp("*/") {
		op := ps.next()
		right, err := ps.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "/" {
			left = Div(left, right)
		} else {
			left = MulOf(left, right)
		}
	}

	return left, nil
}

// unary := ('+' | '-') unary | power
func (ps *parseState) unary() (Expr, error) {
	if !ps.isOp("+-") {
		return ps.power()
	}

	op := ps.next()
	if err := ps.enter(op.pos); err != nil {
		return nil, err
	}
	defer ps.leave()

	e, err := ps.unary()
	if err != nil {
		return nil, err
	}
	if op.text == "-" {
		return Neg(e), nil
	}

	return e, nil
}

// power := primary ('^' unary)?
func (ps *parseState) power() (Expr, error) {
	base, err := ps.primary()
	if err != nil {
		return nil, err
	}
	if !ps.isOp("^") {
		return base, nil
	}

	op := ps.next()
	if err := ps.enter(op.pos); err != nil {
		return nil, err
	}
	defer ps.leave()

	exp, err := ps.unary()
	if err != nil {
		return nil, err
	}

	return PowOf(base, exp), nil
}

// primary := number | identifier | function '(' sum ')' | '(' sum ')'
func (ps *parseState) primary() (Expr, error) {
	t := ps.next()
	switch t.kind {
	case tokNum:
		lit := t.text
		if strings.HasSuffix(lit, ".") {
			lit += "0"
		}
		r, ok := new(big.Rat).SetString(lit)
		if !ok {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("malformed number %q", t.text)}
		}

		return &Num{val: r}, nil
	case tokLParen:
		return ps.group(t)
	case tokIdent:
		return ps.identifier(t)
	default:
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", t)}
	}
}

func (ps *parseState) group(open token) (Expr, error) {
	if err := ps.enter(open.pos); err != nil {
		return nil, err
	}
	defer ps.leave()

	e, err := ps.sum()
	if err != nil {
		return nil, err
	}
	if t := ps.next(); t.kind != tokRParen {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected \")\", found %s", t)}
	}

	return e, nil
}

func (ps *parseState) identifier(t token) (Expr, error) {
	switch {
	case t.text == ps.variable.name:
		return ps.variable, nil
	case t.text == E.name:
		return E, nil
	case t.text == Pi.name:
		return Pi, nil
	case !parsedFuncs[t.text]:
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unknown identifier %q", t.text)}
	}

	open := ps.next()
	if open.kind != tokLParen {
		return nil, &SyntaxError{Pos: open.pos, Msg: fmt.Sprintf("expected \"(\" after %s", t.text)}
	}
	arg, err := ps.group(open)
	if err != nil {
		return nil, err
	}

	if t.text == "sqrt" {
		return Sqrt(arg), nil
	}

	return FuncOf(Fn(t.text), arg), nil
}
