package symbolic

import (
	"math"
)

// maxEnumerated caps how many members of a periodic family are listed
// inside a bounded window.
const maxEnumerated = 512

type candidate struct {
	value    Expr
	attained bool
}

// FunctionRange returns the set of values e takes for real x. Periodic
// functions are examined over one period.
func FunctionRange(e Expr, x string) Set {
	if !Has(e, x) {
		return NewFiniteSet(e)
	}

	l := domainLine(e, x, false)
	spans := l.spans

	if period, ok := Periodicity(e, x); ok && !IsZero(period) {
		spans = intersectSpans(spans, []span{{lo: Zero, hi: period}})
	}

	var exclusions []Expr
	for _, fam := range l.periodic {
		for _, s := range spans {
			exclusions = append(exclusions, enumerate(fam, s)...)
		}
	}
	if len(exclusions) > 0 {
		clipped := &line{spans: spans}
		clipped.exclude(exclusions...)
		spans = clipped.spans
	}

	df := Diff(e, x)

	var out []span
	for _, s := range spans {
		if r, ok := spanRange(e, df, x, s); ok {
			out = append(out, r)
		}
	}

	return spansSet(unionSpans(out))
}

// enumerate lists the members of fam inside s, clipped to a window when s
// is unbounded.
func enumerate(fam *ImageSet, s span) []Expr {
	lo, hi := s.loF(), s.hiF()
	off, step := Eval(fam.Offset, nil), Eval(fam.Step, nil)
	if math.IsNaN(off) || math.IsNaN(step) || step <= 0 {
		return nil
	}

	lo = math.Max(lo, off-step*maxEnumerated/2)
	hi = math.Min(hi, off+step*maxEnumerated/2)

	var out []Expr
	for n := math.Ceil((lo - off) / step); n <= math.Floor((hi-off)/step); n++ {
		out = append(out, NewAdd(fam.Offset, NewMul(Int(int64(n)), fam.Step)))
		if len(out) >= maxEnumerated {
			break
		}
	}

	return out
}

func spanRange(e, df Expr, x string, s span) (span, bool) {
	if s.degenerate() {
		v := valueAt(e, x, s.lo)
		if !IsFinite(v) {
			return span{}, false
		}
		return span{lo: v, hi: v}, true
	}

	var cands []candidate

	endpoint := func(p Expr, open bool, dir Direction) {
		if !open {
			if v := valueAt(e, x, p); IsFinite(v) {
				cands = append(cands, candidate{value: v, attained: true})
				return
			}
		}
		v := Limit(e, x, p, dir)
		if IsInfinite(v) || IsFinite(v) {
			cands = append(cands, candidate{value: v})
		}
	}
	endpoint(s.lo, s.loOpen, FromRight)
	endpoint(s.hi, s.hiOpen, FromLeft)

	// Zeros of e are listed too: at a repeated root the derivative is too
	// flat to locate numerically.
	points := criticalPoints(df, x, s)
	points = append(points, interiorZeros(e, x, s)...)
	for _, p := range points {
		if v := valueAt(e, x, p); IsFinite(v) {
			cands = append(cands, candidate{value: v, attained: true})
		}
	}

	if len(cands) == 0 {
		return span{}, false
	}

	lo, hi := cands[0], cands[0]
	for _, c := range cands[1:] {
		v := Eval(c.value, nil)
		switch lv := Eval(lo.value, nil); {
		case approxEqual(v, lv):
			lo = tie(lo, c)
		case v < lv:
			lo = c
		}
		switch hv := Eval(hi.value, nil); {
		case approxEqual(v, hv):
			hi = tie(hi, c)
		case v > hv:
			hi = c
		}
	}

	return span{lo: lo.value, hi: hi.value, loOpen: !lo.attained, hiOpen: !hi.attained}, true
}

// tie merges two candidates with the same value, keeping an exact one.
func tie(a, b candidate) candidate {
	attained := a.attained || b.attained
	if inexact(a.value) && !inexact(b.value) {
		a = b
	}
	a.attained = attained

	return a
}

func inexact(e Expr) bool {
	found := false
	walk(e, func(n Expr) bool {
		if _, ok := n.(*Float); ok {
			found = true
		}
		return !found
	})

	return found
}

func valueAt(e Expr, x string, p Expr) Expr {
	v := Subs(e, x, p)
	if IsNumber(v) || len(FreeSymbols(v)) > 0 {
		return v
	}

	f := Eval(v, nil)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Nan
	}

	return v
}

// criticalPoints returns the interior points of s where df vanishes or is
// undefined.
func criticalPoints(df Expr, x string, s span) []Expr {
	var out []Expr
	keep := func(p Expr) {
		if len(FreeSymbols(p)) == 0 && s.interior(Eval(p, nil)) {
			out = append(out, p)
		}
	}

	sol := solveReal(df, x)
	switch {
	case sol.all:
		return nil
	case sol.unsolved:
		for _, v := range scanZeros(df, x, s) {
			keep(snapZero(df, x, v))
		}
	default:
		for _, p := range sol.points {
			keep(p)
		}
		for _, fam := range mergeFamilies(sol.families) {
			for _, p := range enumerate(fam, s) {
				keep(p)
			}
		}
	}

	for _, p := range domainLine(df, x, false).boundary() {
		keep(p)
	}

	return out
}

// interiorZeros returns the points inside s where f vanishes.
func interiorZeros(f Expr, x string, s span) []Expr {
	var out []Expr
	keep := func(p Expr) {
		if len(FreeSymbols(p)) == 0 && s.interior(Eval(p, nil)) {
			out = append(out, p)
		}
	}

	sol := solveReal(f, x)
	switch {
	case sol.all:
		return nil
	case sol.unsolved:
		for _, v := range scanZeros(f, x, s) {
			keep(snapZero(f, x, v))
		}
	default:
		for _, p := range sol.points {
			keep(p)
		}
		for _, fam := range mergeFamilies(sol.families) {
			for _, p := range enumerate(fam, s) {
				keep(p)
			}
		}
	}

	return out
}

// snapZero returns an exact zero of f near v when one exists. Flat zeros
// are only located to a few digits, so looser tolerances are tried last.
func snapZero(f Expr, x string, v float64) Expr {
	for _, tol := range []float64{1e-9, 1e-6, 1e-4} {
		if e := Snap(v, tol); e != nil && IsZero(Subs(f, x, e)) {
			return e
		}
	}

	return NewFloat(v)
}

// scanZeros finds sign changes of f by sampling and refines them by
// bisection. Unbounded spans are clipped to a window around the origin.
func scanZeros(f Expr, x string, s span) []float64 {
	lo, hi := s.loF(), s.hiF()
	lo = math.Max(lo, -100)
	hi = math.Min(hi, 100)
	if lo >= hi {
		return nil
	}

	const steps = 4000
	h := (hi - lo) / steps

	var out []float64
	a, fa := lo, EvalAt(f, x, lo)
	for i := 1; i <= steps; i++ {
		b := lo + float64(i)*h
		fb := EvalAt(f, x, b)
		if !math.IsNaN(fa) && !math.IsNaN(fb) && fsign(fa)*fsign(fb) <= 0 {
			l, r, fl := a, b, fa
			for k := 0; k < 80; k++ {
				m := (l + r) / 2
				fm := EvalAt(f, x, m)
				if fsign(fl)*fsign(fm) <= 0 {
					r = m
				} else {
					l, fl = m, fm
				}
			}
			if len(out) == 0 || math.Abs(out[len(out)-1]-l) > 1e-9 {
				out = append(out, (l+r)/2)
			}
		}
		a, fa = b, fb
	}

	return out
}

// fsign avoids the underflow of multiplying two tiny values.
func fsign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
