package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// maxExactBits bounds exact integer exponentiation. Anything larger stays an
// unevaluated power so pathological input cannot exhaust memory.
const maxExactBits = 1 << 14

func toFloat(e Expr) float64 {
	switch v := e.(type) {
	case *Num:
		f, _ := v.r.Float64()
		return f
	case *Float:
		return v.V
	}

	return math.NaN()
}

func addNumbers(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return &Num{r: new(big.Rat).Add(an.r, bn.r)}
	}

	return NewFloat(toFloat(a) + toFloat(b))
}

func mulNumbers(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return &Num{r: new(big.Rat).Mul(an.r, bn.r)}
	}

	return NewFloat(toFloat(a) * toFloat(b))
}

func numberSign(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return v.r.Sign()
	case *Float:
		switch {
		case v.V > 0:
			return 1
		case v.V < 0:
			return -1
		}
	}

	return 0
}

// splitCoeff separates the numeric coefficient of a term from the rest.
func splitCoeff(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num, *Float:
		return e, One
	case *Mul:
		if IsNumber(v.Factors[0]) {
			rest := v.Factors[1:]
			if len(rest) == 1 {
				return v.Factors[0], rest[0]
			}
			return v.Factors[0], &Mul{Factors: rest}
		}
	}

	return One, e
}

// NewAdd returns the canonical sum of the arguments: nested sums are
// flattened, like terms are collected and numbers are folded.
func NewAdd(args ...Expr) Expr {
	var flat []Expr
	for _, a := range args {
		if ad, ok := a.(*Add); ok {
			flat = append(flat, ad.Terms...)
		} else {
			flat = append(flat, a)
		}
	}

	number := Zero
	posInf, negInf := false, false
	var order []string
	coeffs := make(map[string]Expr)
	rests := make(map[string]Expr)

	for _, t := range flat {
		switch v := t.(type) {
		case *Undefined:
			return Nan
		case *Infinity:
			if v.Neg {
				negInf = true
			} else {
				posInf = true
			}
			continue
		case *Num, *Float:
			number = addNumbers(number, t)
			continue
		}

		c, rest := splitCoeff(t)
		key := rest.String()
		if old, ok := coeffs[key]; ok {
			coeffs[key] = addNumbers(old, c)
		} else {
			coeffs[key] = c
			rests[key] = rest
			order = append(order, key)
		}
	}

	switch {
	case posInf && negInf:
		return Nan
	case posInf:
		return Oo
	case negInf:
		return NegOo
	}

	var terms []Expr
	for _, key := range order {
		c := coeffs[key]
		if IsZero(c) {
			continue
		}
		terms = append(terms, NewMul(c, rests[key]))
	}

	sortTerms(terms)

	if !IsZero(number) {
		terms = append(terms, number)
	} else if _, ok := number.(*Float); ok && len(terms) == 0 {
		return number
	}

	switch len(terms) {
	case 0:
		return Zero
	case 1:
		return terms[0]
	}

	return &Add{Terms: terms}
}

// degree is a rough polynomial degree used only to order printed terms.
func degree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if IsNumber(v.Exp) {
			return degree(v.Base) * toFloat(v.Exp)
		}
		return degree(v.Base)
	case *Mul:
		d := 0.0
		for _, f := range v.Factors {
			d += degree(f)
		}
		return d
	case *Add:
		d := 0.0
		for _, t := range v.Terms {
			d = math.Max(d, degree(t))
		}
		return d
	case *Func:
		if len(FreeSymbols(v.Arg)) > 0 {
			return 0.5
		}
	}

	return 0
}

func sortTerms(terms []Expr) {
	sort.SliceStable(terms, func(i, j int) bool {
		_, ri := splitCoeff(terms[i])
		_, rj := splitCoeff(terms[j])
		di, dj := degree(ri), degree(rj)
		if di != dj {
			return di > dj
		}
		return ri.String() < rj.String()
	})
}

func factorRank(e Expr) int {
	switch v := e.(type) {
	case *Const:
		return 0
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.Base.(*Sym); ok {
			return 1
		}
		if IsNumber(v.Base) {
			return 0
		}
		return 2
	case *Func:
		return 3
	}

	return 4
}

func sortFactors(factors []Expr) {
	sort.SliceStable(factors, func(i, j int) bool {
		ri, rj := factorRank(factors[i]), factorRank(factors[j])
		if ri != rj {
			return ri < rj
		}
		return baseKey(factors[i]) < baseKey(factors[j])
	})
}

func baseKey(e Expr) string {
	if p, ok := e.(*Pow); ok {
		return p.Base.String()
	}

	return e.String()
}

func asPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.Base, p.Exp
	}

	return e, One
}

// NewMul returns the canonical product of the arguments. Powers of the same
// base are merged and a numeric coefficient is distributed over a single sum.
func NewMul(args ...Expr) Expr {
	var flat []Expr
	for _, a := range args {
		if m, ok := a.(*Mul); ok {
			flat = append(flat, m.Factors...)
		} else {
			flat = append(flat, a)
		}
	}

	coeff := One
	infSign := 0
	var order []string
	bases := make(map[string]Expr)
	exps := make(map[string]Expr)

	for _, f := range flat {
		switch v := f.(type) {
		case *Undefined:
			return Nan
		case *Infinity:
			if infSign == 0 {
				infSign = 1
			}
			if v.Neg {
				infSign = -infSign
			}
			continue
		case *Num, *Float:
			coeff = mulNumbers(coeff, f)
			continue
		}

		b, e := asPow(f)
		key := b.String()
		if old, ok := exps[key]; ok {
			exps[key] = NewAdd(old, e)
		} else {
			bases[key] = b
			exps[key] = e
			order = append(order, key)
		}
	}

	if infSign != 0 {
		switch numberSign(coeff) {
		case 0:
			return Nan
		case -1:
			infSign = -infSign
		}
		if infSign < 0 {
			return NegOo
		}
		return Oo
	}

	if IsZero(coeff) {
		return coeff
	}

	var factors []Expr
	again := false
	for _, key := range order {
		p := NewPow(bases[key], exps[key])
		switch p.(type) {
		case *Num, *Float:
			coeff = mulNumbers(coeff, p)
			continue
		case *Undefined:
			return Nan
		case *Mul, *Infinity:
			again = true
		}
		if !IsOne(p) {
			factors = append(factors, p)
		}
	}

	if again {
		return NewMul(append([]Expr{coeff}, factors...)...)
	}

	if IsZero(coeff) {
		return coeff
	}

	if len(factors) == 1 && !IsOne(coeff) {
		if ad, ok := factors[0].(*Add); ok {
			terms := make([]Expr, len(ad.Terms))
			for i, t := range ad.Terms {
				terms[i] = NewMul(coeff, t)
			}
			return NewAdd(terms...)
		}
	}

	sortFactors(factors)

	switch {
	case len(factors) == 0:
		return coeff
	case len(factors) == 1 && IsOne(coeff):
		return factors[0]
	}

	if !IsOne(coeff) {
		factors = append([]Expr{coeff}, factors...)
	}

	return &Mul{Factors: factors}
}

// NewPow returns the canonical form of base**exp.
func NewPow(base, exp Expr) Expr {
	if IsUndefined(base) || IsUndefined(exp) {
		return Nan
	}

	switch {
	case IsZero(exp):
		return One
	case IsOne(exp):
		return base
	case IsOne(base):
		return One
	}

	if IsZero(base) {
		switch numberSign(exp) {
		case 1:
			return Zero
		case -1:
			return Nan
		}
		if IsInfinite(exp) {
			if exp.(*Infinity).Neg {
				return Oo
			}
			return Zero
		}
	}

	if inf, ok := base.(*Infinity); ok && IsNumber(exp) {
		if numberSign(exp) < 0 {
			return Zero
		}
		if inf.Neg {
			if n, ok := exp.(*Num); ok && n.IsInt() && n.r.Num().Bit(0) == 0 {
				return Oo
			}
			if n, ok := exp.(*Num); ok && n.IsInt() {
				return NegOo
			}
			return Nan
		}
		return Oo
	}

	if IsNumber(base) && IsNumber(exp) {
		if r := powNumbers(base, exp); r != nil {
			return r
		}
	}

	switch b := base.(type) {
	case *Const:
		if b.Name == "E" {
			return NewFunc("exp", exp)
		}
	case *Func:
		if b.Name == "exp" {
			return NewFunc("exp", NewMul(b.Arg, exp))
		}
		if b.Name == "abs" && isEvenInt(exp) {
			return NewPow(b.Arg, exp)
		}
	case *Pow:
		if n, ok := exp.(*Num); ok && n.IsInt() {
			return NewPow(b.Base, NewMul(b.Exp, exp))
		}
		if isPositiveConstant(b.Base) {
			return NewPow(b.Base, NewMul(b.Exp, exp))
		}
		// (u**2)**(1/2) is |u| for real u.
		if isEvenInt(b.Exp) && IsNumber(exp) {
			return NewPow(NewFunc("abs", b.Base), NewMul(b.Exp, exp))
		}
	case *Mul:
		if n, ok := exp.(*Num); ok && n.IsInt() {
			factors := make([]Expr, len(b.Factors))
			for i, f := range b.Factors {
				factors[i] = NewPow(f, exp)
			}
			return NewMul(factors...)
		}
		if IsNumber(b.Factors[0]) && numberSign(b.Factors[0]) > 0 && IsNumber(exp) {
			rest := NewMul(b.Factors[1:]...)
			return NewMul(NewPow(b.Factors[0], exp), &Pow{Base: rest, Exp: exp})
		}
	}

	return &Pow{Base: base, Exp: exp}
}

func isEvenInt(e Expr) bool {
	n, ok := e.(*Num)

	return ok && n.IsInt() && n.r.Num().Bit(0) == 0
}

func isPositiveConstant(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.r.Sign() > 0
	case *Float:
		return v.V > 0
	case *Const:
		return true
	}

	return false
}

// powNumbers folds a numeric power. It returns nil when the result should stay
// symbolic, e.g. an irrational root.
func powNumbers(base, exp Expr) Expr {
	bn, bok := base.(*Num)
	en, eok := exp.(*Num)
	if !bok || !eok {
		v := math.Pow(toFloat(base), toFloat(exp))
		return NewFloat(v)
	}

	if en.IsInt() {
		return ratIntPow(bn.r, en.r.Num())
	}

	if bn.r.Sign() < 0 {
		return nil
	}

	if !bn.IsInt() {
		num := &Num{r: new(big.Rat).SetInt(bn.r.Num())}
		den := &Num{r: new(big.Rat).SetInt(bn.r.Denom())}
		return NewMul(NewPow(num, exp), NewPow(den, Neg(exp)))
	}

	// Pull perfect q-th powers out of the integer base.
	q := en.r.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil
	}
	outside, inside := extractRoot(bn.r.Num(), q.Int64())
	if outside.Cmp(big.NewInt(1)) == 0 {
		return nil
	}

	p := en.r.Num()
	k := ratIntPow(new(big.Rat).SetInt(outside), p)
	if k == nil {
		return nil
	}
	if inside.Cmp(big.NewInt(1)) == 0 {
		return k
	}

	return NewMul(k, &Pow{Base: &Num{r: new(big.Rat).SetInt(inside)}, Exp: exp})
}

func ratIntPow(base *big.Rat, exp *big.Int) Expr {
	if !exp.IsInt64() {
		return nil
	}
	e := exp.Int64()
	neg := e < 0
	if neg {
		e = -e
		if base.Sign() == 0 {
			return Nan
		}
	}

	bits := int64(base.Num().BitLen() + base.Denom().BitLen())
	if bits*e > maxExactBits {
		return nil
	}

	num := new(big.Int).Exp(base.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(base.Denom(), big.NewInt(e), nil)
	r := new(big.Rat).SetFrac(num, den)
	if neg {
		r.Inv(r)
	}

	return &Num{r: r}
}

// extractRoot writes n = outside**q * inside using trial division.
func extractRoot(n *big.Int, q int64) (*big.Int, *big.Int) {
	outside := big.NewInt(1)
	inside := big.NewInt(1)
	rest := new(big.Int).Set(n)
	if rest.BitLen() > 62 {
		return outside, rest
	}

	m := rest.Int64()
	for p := int64(2); p*p <= m && p < 100000; p++ {
		count := int64(0)
		for m%p == 0 {
			m /= p
			count++
		}
		for i := int64(0); i < count/q; i++ {
			outside.Mul(outside, big.NewInt(p))
		}
		for i := int64(0); i < count%q; i++ {
			inside.Mul(inside, big.NewInt(p))
		}
	}
	inside.Mul(inside, big.NewInt(m))

	return outside, inside
}
