package symbolic

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymbol"
)

func (n *Num) String() string {
	if n.r.IsInt() {
		return n.r.Num().String()
	}

	return n.r.RatString()
}

func (f *Float) String() string {
	return strconv.FormatFloat(f.V, 'g', 10, 64)
}

func (s *Sym) String() string { return s.Name }

func (c *Const) String() string { return c.Name }

func (i *Infinity) String() string {
	if i.Neg {
		return "-oo"
	}

	return "oo"
}

func (*Undefined) String() string { return "nan" }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		if i == 0 {
			b.WriteString(t.String())
			continue
		}
		if couldExtractMinus(t) {
			b.WriteString(" - ")
			b.WriteString(Neg(t).String())
		} else {
			b.WriteString(" + ")
			b.WriteString(t.String())
		}
	}

	return b.String()
}

// numerDenom splits a product into the factors printed above and below the
// fraction bar.
func (m *Mul) numerDenom() (neg bool, num, den []Expr) {
	for _, f := range m.Factors {
		switch v := f.(type) {
		case *Num:
			r := new(big.Rat).Set(v.r)
			if r.Sign() < 0 {
				neg = true
				r.Neg(r)
			}
			if p := new(big.Rat).SetInt(r.Num()); !IsOne(&Num{r: p}) {
				num = append(num, &Num{r: p})
			}
			if q := new(big.Rat).SetInt(r.Denom()); !IsOne(&Num{r: q}) {
				den = append(den, &Num{r: q})
			}
		case *Float:
			if v.V < 0 {
				neg = true
				num = append(num, &Float{V: -v.V})
			} else {
				num = append(num, v)
			}
		case *Pow:
			if IsNumber(v.Exp) && numberSign(v.Exp) < 0 {
				den = append(den, NewPow(v.Base, Neg(v.Exp)))
			} else {
				num = append(num, v)
			}
		default:
			num = append(num, f)
		}
	}

	return neg, num, den
}

func (m *Mul) String() string {
	neg, num, den := m.numerDenom()

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}

	if len(num) == 0 {
		b.WriteString("1")
	}
	for i, f := range num {
		if i > 0 {
			b.WriteString("*")
		}
		b.WriteString(parenIf(f, isSum(f)))
	}

	switch {
	case len(den) == 1:
		b.WriteString("/")
		b.WriteString(parenIf(den[0], isSum(den[0]) || isProduct(den[0])))
	case len(den) > 1:
		parts := make([]string, len(den))
		for i, f := range den {
			parts[i] = parenIf(f, isSum(f))
		}
		b.WriteString("/(" + strings.Join(parts, "*") + ")")
	}

	return b.String()
}

func (p *Pow) String() string {
	if n, ok := p.Exp.(*Num); ok {
		if n.Sign() < 0 {
			inner := NewPow(p.Base, Neg(p.Exp))
			return "1/" + parenIf(inner, isSum(inner) || isProduct(inner))
		}
		if n.String() == "1/2" {
			return "sqrt(" + p.Base.String() + ")"
		}
	}

	base := parenIf(p.Base, needsBaseParens(p.Base))
	exp := p.Exp.String()
	if !isAtom(p.Exp) {
		exp = "(" + exp + ")"
	}

	return base + "**" + exp
}

func (f *Func) String() string {
	return f.Name + "(" + f.Arg.String() + ")"
}

func (e *Eq) String() string {
	return "Eq(" + e.Lhs.String() + ", " + e.Rhs.String() + ")"
}

func isSum(e Expr) bool {
	_, ok := e.(*Add)
	return ok
}

func isProduct(e Expr) bool {
	switch v := e.(type) {
	case *Mul:
		return true
	case *Num:
		return !v.IsInt()
	}

	return false
}

func isAtom(e Expr) bool {
	switch v := e.(type) {
	case *Sym, *Const:
		return true
	case *Num:
		return v.IsInt() && v.Sign() >= 0
	case *Float:
		return v.V >= 0
	}

	return false
}

func needsBaseParens(e Expr) bool {
	switch e.(type) {
	case *Add, *Mul, *Pow, *Eq:
		return true
	}

	return !isAtom(e) && IsNumber(e)
}

func parenIf(e Expr, cond bool) string {
	if cond {
		return "(" + e.String() + ")"
	}

	return e.String()
}

func (n *Num) LaTeX() string { return gosymbol.LaTeX(gsNum(n.r)) }

func (f *Float) LaTeX() string { return f.String() }

func (s *Sym) LaTeX() string {
	if greekLetters[s.Name] {
		return `\` + s.Name
	}

	return s.Name
}

func (c *Const) LaTeX() string {
	if c.Name == "pi" {
		return `\pi`
	}

	return "e"
}

func (i *Infinity) LaTeX() string {
	if i.Neg {
		return `-\infty`
	}

	return `\infty`
}

func (*Undefined) LaTeX() string { return `\text{NaN}` }

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.Terms {
		if i == 0 {
			b.WriteString(t.LaTeX())
			continue
		}
		if couldExtractMinus(t) {
			b.WriteString(" - ")
			b.WriteString(Neg(t).LaTeX())
		} else {
			b.WriteString(" + ")
			b.WriteString(t.LaTeX())
		}
	}

	return b.String()
}

func latexProduct(factors []Expr) string {
	parts := make([]string, len(factors))
	for i, f := range factors {
		s := f.LaTeX()
		if isSum(f) {
			s = `\left(` + s + `\right)`
		}
		parts[i] = s
	}

	sep := " "
	for i := 1; i < len(factors); i++ {
		if IsNumber(factors[i]) {
			sep = ` \cdot `
		}
	}

	return strings.Join(parts, sep)
}

func (m *Mul) LaTeX() string {
	neg, num, den := m.numerDenom()

	sign := ""
	if neg {
		sign = "-"
	}

	top := "1"
	if len(num) > 0 {
		top = latexProduct(num)
	}
	if len(den) == 0 {
		return sign + top
	}

	return sign + `\frac{` + top + "}{" + latexProduct(den) + "}"
}

func (p *Pow) LaTeX() string {
	if n, ok := p.Exp.(*Num); ok {
		if n.Sign() < 0 {
			return `\frac{1}{` + NewPow(p.Base, Neg(p.Exp)).LaTeX() + "}"
		}
		if !n.IsInt() {
			q := n.r.Denom().String()
			root := `\sqrt[` + q + "]{" + p.Base.LaTeX() + "}"
			if q == "2" {
				root = `\sqrt{` + p.Base.LaTeX() + "}"
			}
			if n.r.Num().Int64() != 1 {
				return "{" + root + "}^{" + n.r.Num().String() + "}"
			}
			return root
		}
	}

	base := p.Base.LaTeX()
	if needsBaseParens(p.Base) {
		base = `\left(` + base + `\right)`
	}
	if _, ok := p.Base.(*Func); ok {
		base = `\left(` + base + `\right)`
	}

	return base + "^{" + p.Exp.LaTeX() + "}"
}

func (f *Func) LaTeX() string {
	switch f.Name {
	case "exp":
		return "e^{" + f.Arg.LaTeX() + "}"
	case "abs":
		return `\left|{` + f.Arg.LaTeX() + `}\right|`
	case "floor":
		return `\left\lfloor{` + f.Arg.LaTeX() + `}\right\rfloor`
	case "ceiling":
		return `\left\lceil{` + f.Arg.LaTeX() + `}\right\rceil`
	}

	name := `\operatorname{` + f.Name + "}"
	if def, ok := funcTable[f.Name]; ok && def.latex != "" {
		name = def.latex
	}

	return name + `{\left(` + f.Arg.LaTeX() + ` \right)}`
}

func (e *Eq) LaTeX() string {
	return e.Lhs.LaTeX() + " = " + e.Rhs.LaTeX()
}
