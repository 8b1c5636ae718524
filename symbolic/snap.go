package symbolic

import (
	"math"
	"math/big"
)

// Snap recognises simple closed forms behind a float: integers, fractions
// with small denominators, rational multiples of pi and square roots of small
// fractions. It returns nil when none is within tol (relative).
func Snap(v float64, tol float64) Expr {
	if math.IsNaN(v) {
		return nil
	}
	if math.IsInf(v, 1) {
		return Oo
	}
	if math.IsInf(v, -1) {
		return NegOo
	}

	scale := math.Max(1, math.Abs(v))
	near := func(c float64) bool {
		return math.Abs(v-c) <= tol*scale
	}

	if r := math.Round(v); near(r) {
		return NewNum(new(big.Rat).SetFloat64(r))
	}

	if p, q, ok := smallFraction(v, 64, tol*scale); ok {
		return Rat(p, q)
	}

	if p, q, ok := smallFraction(v/math.Pi, 12, tol*scale/math.Pi); ok && p != 0 {
		return NewMul(Rat(p, q), Pi)
	}

	if v != 0 {
		if p, q, ok := smallFraction(v*v, 64, 2*tol*scale*scale); ok && p > 0 {
			root := NewPow(Rat(p, q), Half)
			if v < 0 {
				root = Neg(root)
			}
			return root
		}
	}

	return nil
}

// smallFraction finds p/q with q <= maxDen within tol of v using continued
// fraction convergents.
func smallFraction(v float64, maxDen int64, tol float64) (int64, int64, bool) {
	if math.Abs(v) > 1e12 {
		return 0, 0, false
	}

	x := v
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	for i := 0; i < 32; i++ {
		a := math.Floor(x)
		h0, h1 = h1, int64(a)*h1+h0
		k0, k1 = k1, int64(a)*k1+k0
		if k1 > maxDen {
			return 0, 0, false
		}
		if math.Abs(v-float64(h1)/float64(k1)) <= tol {
			return h1, k1, true
		}
		frac := x - a
		if frac < 1e-15 {
			break
		}
		x = 1 / frac
	}

	return 0, 0, false
}

// approximate turns a float into the nicest expression available.
func approximate(v float64, tol float64) Expr {
	if e := Snap(v, tol); e != nil {
		return e
	}

	return NewFloat(v)
}
