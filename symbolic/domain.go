package symbolic

import (
	"math"
	"sort"
)

// Domain returns the set of real x where e is defined.
func Domain(e Expr, x string) Set {
	return domainLine(e, x, false).Set(x)
}

// ContinuousDomain returns the set of real x where e is defined and
// continuous. It differs from Domain at the jumps of floor, ceiling and sign.
func ContinuousDomain(e Expr, x string) Set {
	return domainLine(e, x, true).Set(x)
}

func domainLine(e Expr, x string, continuous bool) *line {
	l := fullLine()

	walk(e, func(n Expr) bool {
		if !Has(n, x) {
			return false
		}

		switch v := n.(type) {
		case *Pow:
			powConstraint(l, v, x)
		case *Func:
			funcConstraint(l, v, x, continuous)
		}

		return true
	})

	return l
}

func powConstraint(l *line, p *Pow, x string) {
	if Has(p.Exp, x) {
		if Has(p.Base, x) {
			l.merge(signLine(p.Base, x, true))
		}
		return
	}

	n, ok := p.Exp.(*Num)
	if !ok {
		if numberSign(p.Exp) < 0 {
			l.merge(nonZeroLine(p.Base, x))
		}
		return
	}

	switch {
	case n.IsInt() && n.Sign() < 0:
		l.merge(nonZeroLine(p.Base, x))
	case !n.IsInt():
		l.merge(signLine(p.Base, x, n.Sign() < 0))
	}
}

func funcConstraint(l *line, f *Func, x string, continuous bool) {
	switch f.Name {
	case "log":
		l.merge(signLine(f.Arg, x, true))
	case "asin", "acos":
		l.merge(signLine(Sub(One, f.Arg), x, false))
		l.merge(signLine(NewAdd(One, f.Arg), x, false))
	case "tan", "sec":
		l.merge(nonZeroLine(NewFunc("cos", f.Arg), x))
	case "cot", "csc":
		l.merge(nonZeroLine(NewFunc("sin", f.Arg), x))
	case "sign":
		if continuous {
			l.merge(nonZeroLine(f.Arg, x))
		}
	case "floor", "ceiling":
		if continuous {
			l.merge(jumpLine(f.Arg, x))
		}
	}
}

// nonZeroLine is the set where g != 0.
func nonZeroLine(g Expr, x string) *line {
	l := fullLine()
	sol := solveReal(g, x)

	switch {
	case sol.all:
		l.spans = nil
	case sol.unsolved:
		l.conds = append(l.conds, g.String()+" != 0")
	default:
		l.exclude(sol.points...)
		l.periodic = append(l.periodic, mergeFamilies(sol.families)...)
	}

	return l
}

// jumpLine removes the points where the linear argument of floor or ceiling
// crosses an integer.
func jumpLine(g Expr, x string) *line {
	l := fullLine()

	a := Diff(g, x)
	if Has(a, x) || IsZero(a) {
		l.conds = append(l.conds, g.String()+" not in Integers")
		return l
	}

	b := Subs(g, x, Zero)
	l.periodic = append(l.periodic, normalizeFamily(&ImageSet{
		Offset: Div(Neg(b), a),
		Step:   NewPow(NewFunc("abs", a), NegOne),
	}))

	return l
}

// signLine is the set where g > 0, or g >= 0 when strict is false.
func signLine(g Expr, x string, strict bool) *line {
	l := fullLine()
	op := " >= 0"
	if strict {
		op = " > 0"
	}

	sol := solveReal(g, x)
	if sol.all {
		if strict {
			l.spans = nil
		}
		return l
	}
	if sol.unsolved || len(sol.families) > 0 {
		l.conds = append(l.conds, g.String()+op)
		return l
	}

	var cuts []Expr
	for _, p := range sol.points {
		if len(FreeSymbols(p)) > 0 {
			l.conds = append(l.conds, g.String()+op)
			return l
		}
		cuts = append(cuts, p)
	}

	// Sign changes can also happen where g itself is undefined.
	inner := domainLine(g, x, false)
	if len(inner.periodic) > 0 || len(inner.conds) > 0 {
		l.conds = append(l.conds, g.String()+op)
		return l
	}
	cuts = append(cuts, inner.boundary()...)
	cuts = sortedPoints(cuts)

	var spans []span
	for i := 0; i <= len(cuts); i++ {
		lo, hi := NegOo, Oo
		if i > 0 {
			lo = cuts[i-1]
		}
		if i < len(cuts) {
			hi = cuts[i]
		}
		if v := EvalAt(g, x, samplePoint(lo, hi)); v > 0 {
			spans = append(spans, span{lo: lo, hi: hi, loOpen: true, hiOpen: true})
		}
	}

	if !strict {
		for _, p := range sol.points {
			spans = append(spans, span{lo: p, hi: p})
		}
	}

	l.spans = unionSpans(spans)
	l.intersect(inner.spans)

	return l
}

func sortedPoints(points []Expr) []Expr {
	sort.SliceStable(points, func(i, j int) bool {
		return Eval(points[i], nil) < Eval(points[j], nil)
	})

	var out []Expr
	for _, p := range points {
		if len(out) > 0 && approxEqual(Eval(out[len(out)-1], nil), Eval(p, nil)) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// samplePoint picks an interior point of (lo, hi).
func samplePoint(lo, hi Expr) float64 {
	l, h := Eval(lo, nil), Eval(hi, nil)

	switch {
	case math.IsInf(l, -1) && math.IsInf(h, 1):
		return 0.5
	case math.IsInf(l, -1):
		return h - math.Max(1, math.Abs(h))
	case math.IsInf(h, 1):
		return l + math.Max(1, math.Abs(l))
	}

	return (l + h) / 2
}
