package symbolic

import (
	"errors"
	"math"
	"math/big"
	"sort"

	"github.com/njchilds90/gosymbol"
)

// PolyCoeffs returns the rational coefficients of e as a polynomial in the
// symbol name, lowest degree first. ok is false when e is not such a
// polynomial.
func PolyCoeffs(e Expr, name string) (coeffs []*big.Rat, ok bool) {
	e = Expand(e)

	// gosymbol files anything it does not recognise under degree zero, so
	// the shape is checked here first.
	if !polyShape(e, name) {
		return nil, false
	}

	br := newBridge(name)
	var raw gosymbol.PolyCoeffsResult
	err := br.run(func() error {
		g, err := br.to(e)
		if err != nil {
			return err
		}
		raw = gosymbol.PolyCoeffs(g, name)
		return nil
	})
	if err != nil {
		return nil, false
	}

	coeffs = []*big.Rat{new(big.Rat)}
	for deg, c := range raw {
		if deg < 0 || deg > 64 {
			return nil, false
		}
		v, err := br.from(c)
		if err != nil {
			return nil, false
		}

		r := new(big.Rat)
		switch n := v.(type) {
		case *Num:
			r.Set(n.Rat())
		case *Float:
			if r.SetFloat64(n.V) == nil {
				return nil, false
			}
		default:
			return nil, false
		}

		for len(coeffs) <= deg {
			coeffs = append(coeffs, new(big.Rat))
		}
		coeffs[deg].Add(coeffs[deg], r)
	}

	for len(coeffs) > 1 && coeffs[len(coeffs)-1].Sign() == 0 {
		coeffs = coeffs[:len(coeffs)-1]
	}

	return coeffs, true
}

// polyShape reports whether every term of the expanded e is a coefficient
// times a power of name.
func polyShape(e Expr, name string) bool {
	terms := []Expr{e}
	if ad, ok := e.(*Add); ok {
		terms = ad.Terms
	}

	for _, t := range terms {
		factors := []Expr{t}
		if m, ok := t.(*Mul); ok {
			factors = m.Factors
		}
		for _, f := range factors {
			if !Has(f, name) {
				if !IsNumber(f) {
					return false
				}
				continue
			}
			if _, ok := monomialDegree(f, name); !ok {
				return false
			}
		}
	}

	return true
}

func monomialDegree(e Expr, name string) (int, bool) {
	switch v := e.(type) {
	case *Num:
		if IsOne(v) {
			return 0, true
		}
	case *Sym:
		if v.Name == name {
			return 1, true
		}
	case *Pow:
		s, ok := v.Base.(*Sym)
		n, nok := v.Exp.(*Num)
		if ok && nok && s.Name == name && n.IsInt() && n.Sign() > 0 && n.r.Num().IsInt64() {
			return int(n.r.Num().Int64()), true
		}
	}

	return 0, false
}

func hornerRat(coeffs []*big.Rat, x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, coeffs[i])
	}

	return acc
}

func hornerFloat(coeffs []float64, x float64) float64 {
	acc := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*x + coeffs[i]
	}

	return acc
}

// deflate divides the polynomial by (x - r), which must be a root.
func deflate(coeffs []*big.Rat, r *big.Rat) []*big.Rat {
	n := len(coeffs) - 1
	out := make([]*big.Rat, n)
	carry := new(big.Rat)
	for i := n; i >= 1; i-- {
		carry = new(big.Rat).Add(coeffs[i], new(big.Rat).Mul(carry, r))
		out[i-1] = carry
	}

	return out
}

func divisors(n *big.Int) []*big.Int {
	abs := new(big.Int).Abs(n)
	if !abs.IsInt64() || abs.Int64() > 1000000 || abs.Sign() == 0 {
		return nil
	}

	m := abs.Int64()
	var out []*big.Int
	for d := int64(1); d*d <= m; d++ {
		if m%d == 0 {
			out = append(out, big.NewInt(d))
			if d*d != m {
				out = append(out, big.NewInt(m/d))
			}
		}
	}

	return out
}

// rationalRoot finds one rational root by the rational root theorem.
func rationalRoot(coeffs []*big.Rat) *big.Rat {
	// Scale to integer coefficients.
	lcm := big.NewInt(1)
	for _, c := range coeffs {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	a0 := new(big.Rat).Mul(coeffs[0], new(big.Rat).SetInt(lcm)).Num()
	an := new(big.Rat).Mul(coeffs[len(coeffs)-1], new(big.Rat).SetInt(lcm)).Num()

	for _, p := range divisors(a0) {
		for _, q := range divisors(an) {
			for _, sign := range []int64{1, -1} {
				r := new(big.Rat).SetFrac(new(big.Int).Mul(p, big.NewInt(sign)), q)
				if hornerRat(coeffs, r).Sign() == 0 {
					return r
				}
			}
		}
	}

	return nil
}

// PolyRoots returns the distinct real roots of the polynomial in ascending
// order. Rational and quadratic roots are exact; the rest are numeric.
func PolyRoots(coeffs []*big.Rat) []Expr {
	var roots []Expr

	for len(coeffs) > 1 && coeffs[0].Sign() == 0 {
		coeffs = coeffs[1:]
		if len(roots) == 0 {
			roots = append(roots, Zero)
		}
	}

	for len(coeffs) > 3 {
		r := rationalRoot(coeffs)
		if r == nil {
			break
		}
		roots = append(roots, NewNum(r))
		for hornerRat(coeffs, r).Sign() == 0 && len(coeffs) > 1 {
			coeffs = deflate(coeffs, r)
		}
	}

	switch len(coeffs) {
	case 0, 1:
	case 2:
		roots = append(roots, linearRoot(coeffs[1], coeffs[0]))
	case 3:
		roots = append(roots, quadraticRoots(coeffs[2], coeffs[1], coeffs[0])...)
	default:
		fc := make([]float64, len(coeffs))
		for i, c := range coeffs {
			fc[i], _ = c.Float64()
		}
		for _, r := range realPolyRoots(fc) {
			roots = append(roots, snapRoot(r, coeffs))
		}
	}

	fs, ok := NewFiniteSet(roots...).(*FiniteSet)
	if !ok {
		return nil
	}

	return fs.Elems
}

// linearRoot solves a*x + b = 0.
func linearRoot(a, b *big.Rat) Expr {
	res := gosymbol.SolveLinear(gsNum(a), gsNum(b))
	if res.Error != "" || len(res.Solutions) != 1 {
		return Nan
	}
	n, ok := res.Solutions[0].(*gosymbol.Num)
	if !ok {
		return Nan
	}

	return NewNum(n.Rat())
}

// quadraticRoots solves a*x**2 + b*x + c = 0 over the reals. The
// coefficients go to gosymbol as opaque constants so the formula comes
// back exact, and the surds are reduced on the way out.
func quadraticRoots(a, b, c *big.Rat) []Expr {
	disc := new(big.Rat).Sub(new(big.Rat).Mul(b, b), new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	if disc.Sign() < 0 {
		return nil
	}
	if disc.Sign() == 0 {
		twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
		return []Expr{NewNum(new(big.Rat).Quo(new(big.Rat).Neg(b), twoA))}
	}

	br := newBridge()
	var roots []Expr
	err := br.run(func() error {
		var gs [3]gosymbol.Expr
		for i, r := range []*big.Rat{a, b, c} {
			g, err := gosymbol.FromJSON(br.constNode(NewNum(r)))
			if err != nil {
				return err
			}
			gs[i] = g
		}

		res := gosymbol.SolveQuadraticExact(gs[0], gs[1], gs[2])
		if res.Error != "" {
			return errors.New(res.Error)
		}
		var err error
		roots, err = br.fromAll(res.Solutions)
		return err
	})
	if err != nil {
		return nil
	}

	return roots
}

// realPolyRoots isolates real roots between consecutive critical points and
// refines each by bisection.
func realPolyRoots(c []float64) []float64 {
	for len(c) > 1 && c[len(c)-1] == 0 {
		c = c[:len(c)-1]
	}
	n := len(c) - 1
	switch {
	case n < 1:
		return nil
	case n == 1:
		return []float64{-c[0] / c[1]}
	}

	deriv := make([]float64, n)
	for i := 1; i <= n; i++ {
		deriv[i-1] = float64(i) * c[i]
	}

	bound := 1.0
	for i := 0; i < n; i++ {
		bound = math.Max(bound, 1+math.Abs(c[i]/c[n]))
	}

	points := []float64{-bound}
	for _, p := range realPolyRoots(deriv) {
		if p > -bound && p < bound {
			points = append(points, p)
		}
	}
	points = append(points, bound)
	sort.Float64s(points)

	scale := 0.0
	for _, v := range c {
		scale = math.Max(scale, math.Abs(v))
	}

	var roots []float64
	add := func(r float64) {
		if len(roots) > 0 && math.Abs(roots[len(roots)-1]-r) < 1e-9 {
			return
		}
		roots = append(roots, r)
	}

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		fa, fb := hornerFloat(c, a), hornerFloat(c, b)
		if math.Abs(fa) <= 1e-12*scale {
			add(a)
			continue
		}
		if fa*fb > 0 {
			continue
		}
		for k := 0; k < 200 && b-a > 1e-15*math.Max(1, math.Abs(a)); k++ {
			m := (a + b) / 2
			fm := hornerFloat(c, m)
			if fa*fm <= 0 {
				b = m
			} else {
				a, fa = m, fm
			}
		}
		add((a + b) / 2)
	}
	if last := points[len(points)-1]; math.Abs(hornerFloat(c, last)) <= 1e-12*scale {
		add(last)
	}

	return roots
}

// snapRoot returns an exact root when the numeric one is a simple surd that
// really solves the polynomial, and a float otherwise.
func snapRoot(r float64, coeffs []*big.Rat) Expr {
	if e := Snap(r, 1e-9); e != nil {
		if n, ok := e.(*Num); ok && hornerRat(coeffs, n.r).Sign() == 0 {
			return e
		}
	}

	return NewFloat(r)
}

// polyDivMod divides a by b, both lowest degree first.
func polyDivMod(a, b []*big.Rat) (q, r []*big.Rat) {
	r = make([]*big.Rat, len(a))
	for i, c := range a {
		r[i] = new(big.Rat).Set(c)
	}
	db := len(b) - 1
	if len(a)-1 < db {
		return []*big.Rat{new(big.Rat)}, r
	}

	q = make([]*big.Rat, len(a)-db)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lead := b[db]
	for d := len(r) - 1; d >= db; d-- {
		c := new(big.Rat).Quo(r[d], lead)
		q[d-db] = c
		for i := 0; i <= db; i++ {
			r[d-db+i].Sub(r[d-db+i], new(big.Rat).Mul(c, b[i]))
		}
	}

	r = trimPoly(r[:db])

	return q, r
}

func trimPoly(p []*big.Rat) []*big.Rat {
	for len(p) > 1 && p[len(p)-1].Sign() == 0 {
		p = p[:len(p)-1]
	}
	if len(p) == 0 {
		return []*big.Rat{new(big.Rat)}
	}

	return p
}

func isZeroPoly(p []*big.Rat) bool {
	return len(p) == 1 && p[0].Sign() == 0
}

// polyGCD returns the monic greatest common divisor.
func polyGCD(a, b []*big.Rat) []*big.Rat {
	a, b = trimPoly(a), trimPoly(b)
	for !isZeroPoly(b) {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}

	lead := a[len(a)-1]
	if lead.Sign() == 0 {
		return a
	}
	out := make([]*big.Rat, len(a))
	for i, c := range a {
		out[i] = new(big.Rat).Quo(c, lead)
	}

	return out
}

func polyExpr(coeffs []*big.Rat, x string) Expr {
	terms := make([]Expr, 0, len(coeffs))
	for i, c := range coeffs {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, NewMul(NewNum(c), NewPow(S(x), Int(int64(i)))))
	}

	return NewAdd(terms...)
}

// Simplify cancels common polynomial factors of a rational function of one
// variable. Other expressions are returned unchanged.
func Simplify(e Expr) Expr {
	if eq, ok := e.(*Eq); ok {
		return &Eq{Lhs: Simplify(eq.Lhs), Rhs: Simplify(eq.Rhs)}
	}

	vars := FreeSymbols(e)
	if len(vars) != 1 {
		return e
	}
	x := vars[0]

	num, den := NumerDenom(e)
	if IsOne(den) {
		return e
	}
	pn, ok := PolyCoeffs(num, x)
	if !ok {
		return e
	}
	pd, ok := PolyCoeffs(den, x)
	if !ok {
		return e
	}

	g := polyGCD(pn, pd)
	if len(g) == 1 {
		return e
	}

	qn, _ := polyDivMod(pn, g)
	qd, _ := polyDivMod(pd, g)

	return Div(polyExpr(trimPoly(qn), x), polyExpr(trimPoly(qd), x))
}
