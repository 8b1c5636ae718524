package symbolic

import (
	"math"
	"math/big"
)

// Periodicity returns the smallest period of e in x. Constants have period
// zero. ok is false when e is not periodic or no period could be found.
func Periodicity(e Expr, x string) (period Expr, ok bool) {
	if !Has(e, x) {
		return Zero, true
	}

	var periods []Expr
	aperiodic := false
	walk(e, func(n Expr) bool {
		switch v := n.(type) {
		case *Sym:
			if v.Name == x {
				aperiodic = true
			}
		case *Func:
			def, known := funcTable[v.Name]
			if !known || def.period == nil || !Has(v.Arg, x) {
				return true
			}
			a := Diff(v.Arg, x)
			if Has(a, x) || IsZero(a) {
				aperiodic = true
				return false
			}
			periods = append(periods, Div(def.period, NewFunc("abs", a)))
			return false
		}
		return !aperiodic
	})

	if aperiodic || len(periods) == 0 {
		return nil, false
	}

	t := periods[0]
	for _, p := range periods[1:] {
		r, isNum := Div(t, p).(*Num)
		if !isNum {
			return nil, false
		}
		// lcm(t, p) = p*a when t/p = a/b in lowest terms.
		t = NewMul(p, &Num{r: new(big.Rat).SetInt(new(big.Int).Abs(r.r.Num()))})
	}

	if !shiftInvariant(e, x, Eval(t, nil)) {
		return nil, false
	}

	for k := int64(12); k >= 2; k-- {
		if shiftInvariant(e, x, Eval(t, nil)/float64(k)) {
			return Div(t, Int(k)), true
		}
	}

	return t, true
}

// shiftInvariant checks f(x + p) = f(x) on a spread of sample points,
// including agreement on where f is undefined.
func shiftInvariant(e Expr, x string, p float64) bool {
	if math.IsNaN(p) || p <= 0 {
		return false
	}

	checked := 0
	for i := 0; i < 24; i++ {
		v := -7.3 + 0.6137*float64(i)
		a, b := EvalAt(e, x, v), EvalAt(e, x, v+p)
		if math.IsNaN(a) != math.IsNaN(b) {
			return false
		}
		if math.IsNaN(a) || math.IsInf(a, 0) || math.IsInf(b, 0) {
			continue
		}
		if math.Abs(a-b) > 1e-8*math.Max(1, math.Abs(a)) {
			return false
		}
		checked++
	}

	return checked > 0
}

// IsConvex reports whether e is convex on the whole real line. Functions
// that are undefined or discontinuous somewhere are never convex.
func IsConvex(e Expr, x string) bool {
	if !Has(e, x) {
		return true
	}
	if !IsReals(ContinuousDomain(e, x)) {
		return false
	}

	d2 := Diff(Diff(e, x), x)
	if !Has(d2, x) {
		if Eval(d2, nil) < 0 {
			return false
		}
	} else {
		for _, v := range convexitySamples() {
			f := EvalAt(d2, x, v)
			if math.IsNaN(f) || math.IsInf(f, 1) {
				continue
			}
			if f < -1e-9*math.Max(1, math.Abs(EvalAt(e, x, v))) {
				return false
			}
		}
	}

	// Kinks hide from the second derivative, so test chords as well.
	for _, v := range convexitySamples() {
		for _, h := range []float64{0.5, 3} {
			mid, l, r := EvalAt(e, x, v), EvalAt(e, x, v-h), EvalAt(e, x, v+h)
			if math.IsNaN(mid+l+r) || math.IsInf(mid+l+r, 0) {
				continue
			}
			if mid > (l+r)/2+1e-9*math.Max(1, math.Abs(mid)) {
				return false
			}
		}
	}

	return true
}

// IsConcave reports whether -e is convex.
func IsConcave(e Expr, x string) bool {
	return IsConvex(Neg(e), x)
}

func convexitySamples() []float64 {
	var out []float64
	for i := -400; i <= 400; i++ {
		out = append(out, float64(i)*0.125+0.0131)
	}
	for k := 2; k <= 6; k++ {
		p := math.Pow(10, float64(k))
		out = append(out, p+0.37, -p-0.37)
	}

	return out
}

// VerticalAsymptotes returns the points, and periodic families of points,
// where e tends to an infinity from at least one side.
func VerticalAsymptotes(e Expr, x string) Set {
	l := domainLine(e, x, false)

	var points []Expr
	for _, p := range sortedPoints(l.boundary()) {
		if isPole(e, x, p) {
			points = append(points, p)
		}
	}

	sets := []Set{NewFiniteSet(points...)}
	for _, fam := range mergeFamilies(l.periodic) {
		if isPole(e, x, fam.Offset) {
			sets = append(sets, fam)
		}
	}

	return NewUnion(sets...)
}

func isPole(e Expr, x string, p Expr) bool {
	return IsInfinite(Limit(e, x, p, FromRight)) || IsInfinite(Limit(e, x, p, FromLeft))
}

// Monotonicity returns the sets where e is strictly increasing and strictly
// decreasing.
func Monotonicity(e Expr, x string) (increasing, decreasing Set) {
	df := Diff(e, x)

	inc := signLine(df, x, true)
	inc.merge(domainLine(e, x, false))

	dec := signLine(Neg(df), x, true)
	dec.merge(domainLine(e, x, false))

	return inc.Set(x), dec.Set(x)
}
