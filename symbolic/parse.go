package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/njchilds90/gosymbol"
)

// SyntaxError is returned by Parse for malformed input.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %s", e.Pos, e.Input, e.Msg)
}

// ParseOptions tunes the expression grammar.
type ParseOptions struct {
	// ImplicitMultiplication accepts juxtaposition such as 12x or 2(x+1).
	ImplicitMultiplication bool
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
	num  *big.Rat
}

var greekLetters = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "omicron": true,
	"rho": true, "sigma": true, "tau": true, "upsilon": true, "phi": true,
	"chi": true, "psi": true, "omega": true,
}

type lexer struct {
	s   []rune
	i   int
	out []token
}

func lex(input string) ([]token, error) {
	l := &lexer{s: []rune(input)}
	for {
		t := l.next()
		if t.kind == tokInvalid {
			return nil, &SyntaxError{Input: input, Pos: t.pos, Msg: fmt.Sprintf("unexpected character %q", t.text)}
		}
		l.out = append(l.out, t)
		if t.kind == tokEOF {
			return l.out, nil
		}
	}
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(l.s[l.i]) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}

	start := l.i
	ch := l.s[l.i]
	simple := func(kind tokenKind) token {
		l.i++
		return token{kind: kind, text: string(ch), pos: start}
	}

	switch ch {
	case '+':
		return simple(tokPlus)
	case '-', '−':
		return simple(tokMinus)
	case '*', '×', '·':
		if ch == '*' && l.i+1 < len(l.s) && l.s[l.i+1] == '*' {
			l.i += 2
			return token{kind: tokCaret, text: "**", pos: start}
		}
		return simple(tokStar)
	case '/', '÷':
		return simple(tokSlash)
	case '^':
		return simple(tokCaret)
	case '(', '[', '{':
		return simple(tokLParen)
	case ')', ']', '}':
		return simple(tokRParen)
	case ',':
		return simple(tokComma)
	}

	if ch == '.' || unicode.IsDigit(ch) {
		return l.number()
	}

	if isIdentStart(ch) {
		for l.i < len(l.s) && isIdentContinue(l.s[l.i]) {
			l.i++
		}
		return token{kind: tokIdent, text: string(l.s[start:l.i]), pos: start}
	}

	l.i++
	return token{kind: tokInvalid, text: string(ch), pos: start}
}

func (l *lexer) number() token {
	start := l.i
	digits := func() {
		for l.i < len(l.s) && unicode.IsDigit(l.s[l.i]) {
			l.i++
		}
	}

	digits()
	if l.i < len(l.s) && l.s[l.i] == '.' {
		l.i++
		digits()
	}
	if l.i < len(l.s) && (l.s[l.i] == 'e' || l.s[l.i] == 'E') {
		j := l.i + 1
		if j < len(l.s) && (l.s[j] == '+' || l.s[j] == '-') {
			j++
		}
		if j < len(l.s) && unicode.IsDigit(l.s[j]) {
			l.i = j
			digits()
		}
	}

	text := string(l.s[start:l.i])
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return token{kind: tokInvalid, text: text, pos: start}
	}

	return token{kind: tokNumber, text: text, pos: start, num: r}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

type parser struct {
	input string
	toks  []token
	pos   int
	opts  ParseOptions
	br    *bridge
}

// A piece is a parsed fragment. Arithmetic on plain pieces is written out
// as gosymbol source and collected in one pass at the end. Values gosymbol
// cannot represent, like infinities, are carried in val and combined here.
type piece struct {
	src string
	val Expr
}

// Parse reads an arithmetic expression. It accepts + - * / ^ and **, the
// built in functions (sqrt, root, log with an optional base and the usual
// trigonometric family) and the constants pi, E, e and oo. Variables are
// single letters, optionally indexed (x1, t_0), or Greek letter names.
func Parse(input string, opts ParseOptions) (Expr, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{input: input, toks: toks, opts: opts, br: newBridge()}
	if p.peek().kind == tokEOF {
		return nil, p.errorf("empty expression")
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf("unexpected %q", t.text)
	}

	return p.value(e)
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Input: p.input, Pos: p.peek().pos, Msg: fmt.Sprintf(format, args...)}
}

// lift turns a built value back into a piece.
func (p *parser) lift(e Expr) piece {
	if !finiteTree(e) {
		return piece{val: e}
	}

	switch v := e.(type) {
	case *Num:
		num, den := v.r.Num(), v.r.Denom()
		if !num.IsInt64() || !den.IsInt64() {
			break
		}
		if v.IsInt() {
			if num.Sign() < 0 {
				return piece{src: "(" + num.String() + ")"}
			}
			return piece{src: num.String()}
		}
		// Spaced so gosymbol does not read p/q as one literal.
		return piece{src: "(" + num.String() + " / " + den.String() + ")"}
	case *Sym:
		return piece{src: v.Name}
	}

	return piece{src: p.br.placeholder(e)}
}

// finiteTree reports whether e is free of infinities and undefined values.
func finiteTree(e Expr) bool {
	ok := true
	walk(e, func(n Expr) bool {
		switch n.(type) {
		case *Infinity, *Undefined:
			ok = false
		}
		return ok
	})

	return ok
}

// value builds the expression a piece stands for.
func (p *parser) value(pc piece) (Expr, error) {
	if pc.val != nil {
		return pc.val, nil
	}

	var out Expr
	err := p.br.run(func() error {
		g, err := gosymbol.ParseWithError(pc.src)
		if err != nil {
			return err
		}
		out, err = p.br.from(g)
		return err
	})
	if err != nil {
		return nil, p.errorf("%v", err)
	}

	return out, nil
}

// combine applies a binary operator. Plain pieces stay as source and
// anything else is built here with fn.
func (p *parser) combine(a, b piece, op string, fn func(x, y Expr) Expr) (piece, error) {
	if a.val == nil && b.val == nil {
		return piece{src: "(" + a.src + " " + op + " " + b.src + ")"}, nil
	}

	x, err := p.value(a)
	if err != nil {
		return piece{}, err
	}
	y, err := p.value(b)
	if err != nil {
		return piece{}, err
	}

	return p.lift(fn(x, y)), nil
}

func (p *parser) expr() (piece, error) {
	left, err := p.term()
	if err != nil {
		return piece{}, err
	}

	for {
		var op string
		var fn func(x, y Expr) Expr
		switch p.peek().kind {
		case tokPlus:
			op, fn = "+", func(x, y Expr) Expr { return NewAdd(x, y) }
		case tokMinus:
			op, fn = "-", Sub
		default:
			return left, nil
		}
		p.advance()

		right, err := p.term()
		if err != nil {
			return piece{}, err
		}
		if left, err = p.combine(left, right, op, fn); err != nil {
			return piece{}, err
		}
	}
}

func (p *parser) startsPrimary() bool {
	switch p.peek().kind {
	case tokNumber, tokIdent, tokLParen:
		return true
	}
	return false
}

func mul(x, y Expr) Expr {
	return NewMul(x, y)
}

func (p *parser) term() (piece, error) {
	left, err := p.unary()
	if err != nil {
		return piece{}, err
	}

	for {
		var right piece
		switch {
		case p.peek().kind == tokStar:
			p.advance()
			if right, err = p.unary(); err != nil {
				return piece{}, err
			}
			left, err = p.combine(left, right, "*", mul)
		case p.peek().kind == tokSlash:
			p.advance()
			if right, err = p.unary(); err != nil {
				return piece{}, err
			}
			d, derr := p.value(right)
			if derr != nil {
				return piece{}, derr
			}
			if IsZero(d) {
				return piece{}, p.errorf("division by zero")
			}
			left, err = p.combine(left, right, "/", Div)
		case p.opts.ImplicitMultiplication && p.startsPrimary():
			if right, err = p.power(); err != nil {
				return piece{}, err
			}
			left, err = p.combine(left, right, "*", mul)
		default:
			return left, nil
		}
		if err != nil {
			return piece{}, err
		}
	}
}

func (p *parser) unary() (piece, error) {
	switch p.peek().kind {
	case tokMinus:
		p.advance()
		e, err := p.unary()
		if err != nil {
			return piece{}, err
		}
		return p.combine(piece{src: "(-1)"}, e, "*", mul)
	case tokPlus:
		p.advance()
		return p.unary()
	}

	return p.power()
}

func (p *parser) power() (piece, error) {
	base, err := p.primary()
	if err != nil {
		return piece{}, err
	}

	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.advance()

	exp, err := p.unary()
	if err != nil {
		return piece{}, err
	}

	// gosymbol merges nested powers without minding signs, so only plain
	// symbols are raised there.
	if base.val == nil && isSymbolName(base.src) && exp.val == nil {
		return piece{src: "(" + base.src + " ^ " + exp.src + ")"}, nil
	}

	b, err := p.value(base)
	if err != nil {
		return piece{}, err
	}
	x, err := p.value(exp)
	if err != nil {
		return piece{}, err
	}

	return p.lift(NewPow(b, x)), nil
}

func (p *parser) primary() (piece, error) {
	t := p.peek()

	switch t.kind {
	case tokNumber:
		p.advance()
		return p.lift(NewNum(t.num)), nil
	case tokLParen:
		p.advance()
		e, err := p.expr()
		if err != nil {
			return piece{}, err
		}
		if p.peek().kind != tokRParen {
			return piece{}, p.errorf("missing closing bracket")
		}
		p.advance()
		return e, nil
	case tokIdent:
		p.advance()
		return p.identifier(t)
	case tokEOF:
		return piece{}, p.errorf("unexpected end of expression")
	}

	return piece{}, p.errorf("unexpected %q", t.text)
}

var constants = map[string]Expr{
	"pi": Pi,
	"E":  E,
	"e":  E,
	"oo": Oo,
}

// aliases map accepted spellings onto the canonical function names.
var aliases = map[string]string{
	"ln":     "log",
	"Abs":    "abs",
	"ceil":   "ceiling",
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
	"arccot": "acot",
	"sgn":    "sign",
}

func (p *parser) identifier(t token) (piece, error) {
	name := t.text
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	if c, ok := constants[name]; ok {
		return p.lift(c), nil
	}

	if isCallable(name) {
		if p.peek().kind != tokLParen {
			return piece{}, p.errorf("function %s needs arguments in brackets", name)
		}
		args, err := p.arguments()
		if err != nil {
			return piece{}, err
		}
		e, err := p.call(name, args)
		if err != nil {
			return piece{}, err
		}
		return p.lift(e), nil
	}

	if !isSymbolName(name) {
		return piece{}, &SyntaxError{Input: p.input, Pos: t.pos, Msg: fmt.Sprintf("unknown name %q", t.text)}
	}

	if p.peek().kind == tokLParen && !p.opts.ImplicitMultiplication {
		return piece{}, p.errorf("%s is not a function", name)
	}

	return piece{src: name}, nil
}

func isCallable(name string) bool {
	switch name {
	case "sqrt", "cbrt", "root", "log10", "log2":
		return true
	}

	return IsKnownFunc(name)
}

func isSymbolName(name string) bool {
	if greekLetters[name] {
		return true
	}

	letters := strings.TrimRightFunc(name, func(r rune) bool {
		return unicode.IsDigit(r) || r == '_'
	})

	return len(letters) == 1 && unicode.IsLetter(rune(letters[0]))
}

func (p *parser) arguments() ([]Expr, error) {
	p.advance()

	var args []Expr
	for {
		pc, err := p.expr()
		if err != nil {
			return nil, err
		}
		e, err := p.value(pc)
		if err != nil {
			return nil, err
		}
		args = append(args, e)

		switch p.peek().kind {
		case tokComma:
			p.advance()
		case tokRParen:
			p.advance()
			return args, nil
		default:
			return nil, p.errorf("missing closing bracket")
		}
	}
}

func (p *parser) call(name string, args []Expr) (Expr, error) {
	want := 1
	switch name {
	case "root":
		want = 2
	case "log":
		if len(args) == 2 {
			want = 2
		}
	}
	if len(args) != want {
		return nil, p.errorf("%s takes %d argument(s), got %d", name, want, len(args))
	}

	switch name {
	case "sqrt":
		return NewPow(args[0], Half), nil
	case "cbrt":
		return NewPow(args[0], Rat(1, 3)), nil
	case "root":
		return NewPow(args[0], NewPow(args[1], NegOne)), nil
	case "log10":
		return Div(NewFunc("log", args[0]), NewFunc("log", Int(10))), nil
	case "log2":
		return Div(NewFunc("log", args[0]), NewFunc("log", Two)), nil
	case "log":
		if len(args) == 2 {
			return Div(NewFunc("log", args[0]), NewFunc("log", args[1])), nil
		}
	}

	return NewFunc(name, args[0]), nil
}

// MustParse is like Parse but panics on error. It is meant for tests and
// constant tables.
func MustParse(input string) Expr {
	e, err := Parse(input, ParseOptions{})
	if err != nil {
		panic(err)
	}

	return e
}
