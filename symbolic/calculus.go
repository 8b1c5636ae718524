package symbolic

import (
	"math"
	"math/big"

	"github.com/njchilds90/gosymbol"
)

// Eval evaluates e numerically. Missing symbols and points outside the real
// domain produce NaN.
func Eval(e Expr, env map[string]float64) float64 {
	switch v := e.(type) {
	case *Num:
		return toFloat(v)
	case *Float:
		return v.V
	case *Sym:
		if val, ok := env[v.Name]; ok {
			return val
		}
		return math.NaN()
	case *Const:
		if v.Name == "pi" {
			return math.Pi
		}
		return math.E
	case *Infinity:
		if v.Neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case *Add:
		sum := 0.0
		for _, t := range v.Terms {
			sum += Eval(t, env)
		}
		return sum
	case *Mul:
		prod := 1.0
		for _, f := range v.Factors {
			prod *= Eval(f, env)
		}
		return prod
	case *Pow:
		b := Eval(v.Base, env)
		x := Eval(v.Exp, env)
		if b == 0 && x < 0 {
			return math.NaN()
		}
		return math.Pow(b, x)
	case *Func:
		def, ok := funcTable[v.Name]
		if !ok {
			return math.NaN()
		}
		return def.eval(Eval(v.Arg, env))
	}

	return math.NaN()
}

// EvalAt evaluates a single variable expression at x.
func EvalAt(e Expr, name string, x float64) float64 {
	return Eval(e, map[string]float64{name: x})
}

// Diff differentiates e with respect to the symbol name. The rules are
// gosymbol's; functions it does not know come back through funcTable.
func Diff(e Expr, name string) Expr {
	if eq, ok := e.(*Eq); ok {
		return &Eq{Lhs: Diff(eq.Lhs, name), Rhs: Diff(eq.Rhs, name)}
	}
	if !Has(e, name) {
		return Zero
	}

	br := newBridge(name)
	var out Expr
	err := br.run(func() error {
		g, err := br.to(e)
		if err != nil {
			return err
		}
		out, err = br.from(gosymbol.Diff(g, name))
		return err
	})
	if err != nil {
		return Nan
	}

	return out
}

// Expand multiplies out products of sums and small integer powers of sums.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Expand(t)
		}
		return NewAdd(terms...)
	case *Mul:
		result := []Expr{One}
		for _, f := range v.Factors {
			result = distribute(result, Expand(f))
		}
		return NewAdd(result...)
	case *Pow:
		base := Expand(v.Base)
		if n, ok := v.Exp.(*Num); ok && n.IsInt() && n.Sign() > 0 && isSum(base) {
			k := n.r.Num().Int64()
			if k <= 12 {
				result := []Expr{One}
				for i := int64(0); i < k; i++ {
					result = distribute(result, base)
				}
				return NewAdd(result...)
			}
		}
		return NewPow(base, Expand(v.Exp))
	case *Func:
		return NewFunc(v.Name, Expand(v.Arg))
	case *Eq:
		return &Eq{Lhs: Expand(v.Lhs), Rhs: Expand(v.Rhs)}
	}

	return e
}

func distribute(terms []Expr, f Expr) []Expr {
	fterms := []Expr{f}
	if ad, ok := f.(*Add); ok {
		fterms = ad.Terms
	}

	out := make([]Expr, 0, len(terms)*len(fterms))
	for _, a := range terms {
		for _, b := range fterms {
			out = append(out, NewMul(a, b))
		}
	}

	return out
}

// NumerDenom rewrites e over a common denominator and returns both parts.
func NumerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		r := v.Rat()
		return NewNum(new(big.Rat).SetInt(r.Num())), NewNum(new(big.Rat).SetInt(r.Denom()))
	case *Pow:
		n, ok := v.Exp.(*Num)
		switch {
		case ok && n.IsInt() && n.Sign() < 0:
			num, den := NumerDenom(v.Base)
			return NewPow(den, Neg(v.Exp)), NewPow(num, Neg(v.Exp))
		case IsNumber(v.Exp) && numberSign(v.Exp) < 0:
			return One, NewPow(v.Base, Neg(v.Exp))
		case ok && n.IsInt():
			num, den := NumerDenom(v.Base)
			return NewPow(num, v.Exp), NewPow(den, v.Exp)
		}
	case *Mul:
		num, den := []Expr{}, []Expr{}
		for _, f := range v.Factors {
			n, d := NumerDenom(f)
			num = append(num, n)
			den = append(den, d)
		}
		return NewMul(num...), NewMul(den...)
	case *Add:
		num, den := NumerDenom(v.Terms[0])
		for _, t := range v.Terms[1:] {
			n, d := NumerDenom(t)
			if Equal(d, den) {
				num = NewAdd(num, n)
				continue
			}
			num = NewAdd(NewMul(num, d), NewMul(n, den))
			den = NewMul(den, d)
		}
		return num, den
	}

	return e, One
}

// Together returns e as a single fraction.
func Together(e Expr) Expr {
	num, den := NumerDenom(e)

	return Div(Expand(num), den)
}
