package symbolic

import (
	"errors"
	"math"
	"math/big"

	"github.com/njchilds90/gosymbol"
)

// Direction selects which side a limit is taken from.
type Direction int

const (
	Both Direction = iota
	FromRight
	FromLeft
)

func (d Direction) String() string {
	switch d {
	case FromRight:
		return "+"
	case FromLeft:
		return "-"
	}

	return "+-"
}

// Limit computes the limit of e as name approaches point, which may be Oo or
// NegOo. Nan is returned when the limit does not exist.
func Limit(e Expr, name string, point Expr, dir Direction) Expr {
	if !Has(e, name) {
		return e
	}

	if IsInfinite(point) {
		return limitAtInfinity(e, name, point.(*Infinity).Neg)
	}

	if !hasJumps(e) {
		if v := Subs(e, name, point); IsFinite(v) {
			return v
		}
	}

	if v, ok := rationalLimit(e, name, point, dir); ok {
		return v
	}

	if v, ok := lhopital(e, name, point, dir); ok {
		return v
	}

	p := Eval(point, nil)
	switch dir {
	case FromRight:
		return sideLimit(e, name, p, 1)
	case FromLeft:
		return sideLimit(e, name, p, -1)
	}

	right, left := sideLimit(e, name, p, 1), sideLimit(e, name, p, -1)
	if Equal(right, left) || IsFinite(right) && IsFinite(left) && approxEqual(Eval(right, nil), Eval(left, nil)) {
		return right
	}

	return Nan
}

// gosymbolFuncs are the functions gosymbol differentiates itself.
var gosymbolFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true, "exp": true, "log": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"asinh": true, "acosh": true, "atanh": true,
}

// lhopital asks gosymbol, which substitutes and applies l'Hopital's rule
// to quotients. Only exact answers are taken.
func lhopital(e Expr, name string, point Expr, dir Direction) (Expr, bool) {
	known := true
	walk(e, func(n Expr) bool {
		if f, ok := n.(*Func); ok && !gosymbolFuncs[f.Name] {
			known = false
		}
		return known
	})
	if !known {
		return nil, false
	}

	side := ""
	switch dir {
	case FromRight:
		side = "+"
	case FromLeft:
		side = "-"
	}

	br := newBridge(name)
	var out Expr
	err := br.run(func() error {
		g, err := br.to(e)
		if err != nil {
			return err
		}
		pt, err := br.to(point)
		if err != nil {
			return err
		}

		res := gosymbol.LimitWithDirection(g, name, pt, side)
		if !res.Success {
			return errors.New(res.Error)
		}
		out, err = br.from(res.Value)
		return err
	})
	if err != nil {
		return nil, false
	}

	// Its fallbacks sample the function, so the answer has to agree with
	// a look at the nearby values.
	if _, ok := out.(*Num); !ok {
		return nil, false
	}
	v, p := Eval(out, nil), Eval(point, nil)
	for _, s := range []float64{1, -1} {
		if dir == FromRight && s < 0 || dir == FromLeft && s > 0 {
			continue
		}
		near := EvalAt(e, name, p+s*1e-7)
		if math.IsNaN(near) || math.Abs(near-v) > 1e-4*math.Max(1, math.Abs(v)) {
			return nil, false
		}
	}

	return out, true
}

// hasJumps reports whether e contains a piecewise constant function, where
// plain substitution does not give the limit.
func hasJumps(e Expr) bool {
	found := false
	walk(e, func(n Expr) bool {
		if f, ok := n.(*Func); ok {
			switch f.Name {
			case "floor", "ceiling", "sign":
				found = true
			}
		}
		return !found
	})

	return found
}

// rationalLimit handles quotients of polynomials exactly.
func rationalLimit(e Expr, x string, point Expr, dir Direction) (Expr, bool) {
	num, den := NumerDenom(Together(e))
	pn, ok := PolyCoeffs(num, x)
	if !ok {
		return nil, false
	}
	pd, ok := PolyCoeffs(den, x)
	if !ok {
		return nil, false
	}

	pv, ok := point.(*Num)
	if !ok {
		return nil, false
	}

	// Cancel common factors of (x - point).
	r := pv.Rat()
	for len(pn) > 1 && len(pd) > 1 && hornerRat(pn, r).Sign() == 0 && hornerRat(pd, r).Sign() == 0 {
		pn, pd = deflate(pn, r), deflate(pd, r)
	}

	n, d := hornerRat(pn, r), hornerRat(pd, r)
	if d.Sign() != 0 {
		return NewNum(n.Quo(n, d)), true
	}
	if n.Sign() == 0 {
		return nil, false
	}

	// Pole: the sign on each side depends on the multiplicity.
	mult := 0
	for len(pd) > 1 && hornerRat(pd, r).Sign() == 0 {
		pd = deflate(pd, r)
		mult++
	}
	sign := n.Sign() * hornerRat(pd, r).Sign()
	right := sign
	left := sign
	if mult%2 == 1 {
		left = -sign
	}

	inf := func(s int) Expr {
		if s > 0 {
			return Oo
		}
		return NegOo
	}

	switch dir {
	case FromRight:
		return inf(right), true
	case FromLeft:
		return inf(left), true
	}
	if right == left {
		return inf(right), true
	}

	return Nan, true
}

func limitAtInfinity(e Expr, x string, neg bool) Expr {
	num, den := NumerDenom(Together(e))
	if pn, ok := PolyCoeffs(num, x); ok {
		if pd, ok := PolyCoeffs(den, x); ok {
			return rationalAtInfinity(pn, pd, neg)
		}
	}

	sign := 1.0
	if neg {
		sign = -1
	}

	var samples []float64
	for k := 1; k <= 8; k++ {
		samples = append(samples, EvalAt(e, x, sign*math.Pow(10, float64(k))))
	}
	if v := settle(samples); !IsUndefined(v) {
		return v
	}

	// Slow growth such as x**(1/8) only shows much further out.
	samples = samples[:0]
	for k := 1; k <= 12; k++ {
		samples = append(samples, EvalAt(e, x, sign*math.Pow(10, float64(2*k))))
	}

	return settle(samples)
}

func rationalAtInfinity(pn, pd []*big.Rat, neg bool) Expr {
	dn, dd := len(pn)-1, len(pd)-1
	if dn == 0 && pn[0].Sign() == 0 {
		return Zero
	}

	lead := new(big.Rat).Quo(pn[dn], pd[dd])
	switch {
	case dn < dd:
		return Zero
	case dn == dd:
		return NewNum(lead)
	}

	sign := lead.Sign()
	if neg && (dn-dd)%2 == 1 {
		sign = -sign
	}
	if sign > 0 {
		return Oo
	}

	return NegOo
}

func sideLimit(e Expr, x string, p float64, side float64) Expr {
	var samples []float64
	for k := 2; k <= 8; k++ {
		samples = append(samples, EvalAt(e, x, p+side*math.Pow(10, -float64(k))))
	}

	return settle(samples)
}

// settle decides what a sequence of samples tends to: a value when the
// differences shrink, an infinity when the magnitude keeps growing with one
// sign, and Nan otherwise.
func settle(samples []float64) Expr {
	n := len(samples)
	for _, s := range samples[n-3:] {
		if math.IsNaN(s) {
			return Nan
		}
	}

	last := samples[n-1]
	if math.IsInf(last, 0) {
		return NewFloat(last)
	}

	d1 := math.Abs(samples[n-1] - samples[n-2])
	d2 := math.Abs(samples[n-2] - samples[n-3])
	scale := math.Max(1, math.Abs(last))
	if d1 <= 1e-12*scale || d1 <= 1e-3*scale && d1 < 0.8*d2 {
		return approximate(last, math.Max(1e-7, 10*d1/scale))
	}

	// Diverging: one sign, moving away from zero by steps that do not shrink.
	growing := math.Abs(last) > 10
	for i := n - 4; i < n-1 && growing; i++ {
		step, prev := samples[i+1]-samples[i], samples[i]-samples[i-1]
		if step*prev <= 0 || step*last <= 0 || math.Abs(step) < 0.9*math.Abs(prev) {
			growing = false
		}
	}
	if growing {
		if last > 0 {
			return Oo
		}
		return NegOo
	}

	return Nan
}
