package symbolic

import (
	"math"
)

// solutions is the solver's working result: isolated points, periodic
// families, the whole line, or an admission that no closed form was found.
type solutions struct {
	points   []Expr
	families []*ImageSet
	all      bool
	unsolved bool
}

func (s *solutions) add(other solutions) {
	s.points = append(s.points, other.points...)
	s.families = append(s.families, other.families...)
	s.all = s.all || other.all
	s.unsolved = s.unsolved || other.unsolved
}

// Solve returns the real solutions of e = 0 for the symbol name. An Eq is
// solved as Lhs - Rhs = 0.
func Solve(e Expr, name string) Set {
	if eq, ok := e.(*Eq); ok {
		e = Sub(eq.Lhs, eq.Rhs)
	}

	sol := solveReal(e, name)

	switch {
	case sol.all:
		return Reals()
	case sol.unsolved:
		return &ConditionSet{Var: name, Cond: e.String() + " = 0", Base: Reals()}
	}

	sets := []Set{NewFiniteSet(sol.points...)}
	for _, f := range mergeFamilies(sol.families) {
		sets = append(sets, f)
	}

	return NewUnion(sets...)
}

func solveReal(e Expr, x string) solutions {
	if IsUndefined(e) {
		return solutions{}
	}
	if !Has(e, x) {
		if IsZero(e) {
			return solutions{all: true}
		}
		return solutions{}
	}

	num, _ := NumerDenom(e)
	raw := zeros(num, x)

	// Keep only the points where the original expression is defined.
	out := solutions{unsolved: raw.unsolved, all: raw.all}
	for _, p := range raw.points {
		if definedAt(e, x, p) {
			out.points = append(out.points, p)
		}
	}
	for _, f := range raw.families {
		if definedAt(e, x, f.Offset) {
			out.families = append(out.families, f)
		}
	}

	return out
}

func definedAt(e Expr, x string, p Expr) bool {
	if len(FreeSymbols(p)) > 0 {
		return true
	}

	v := EvalAt(e, x, Eval(p, nil))

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// zeros solves n = 0 where n has no denominators left.
func zeros(n Expr, x string) solutions {
	if !Has(n, x) {
		if IsZero(n) {
			return solutions{all: true}
		}
		return solutions{}
	}

	switch v := n.(type) {
	case *Mul:
		var out solutions
		for _, f := range v.Factors {
			if Has(f, x) {
				out.add(zeros(f, x))
			}
		}
		return out
	case *Pow:
		if IsNumber(v.Exp) && numberSign(v.Exp) < 0 {
			return solutions{}
		}
		if !Has(v.Exp, x) {
			return zeros(v.Base, x)
		}
	}

	if coeffs, ok := PolyCoeffs(n, x); ok {
		if len(coeffs) == 1 {
			if coeffs[0].Sign() == 0 {
				return solutions{all: true}
			}
			return solutions{}
		}
		return solutions{points: PolyRoots(coeffs)}
	}

	expanded := Expand(n)
	if common, rest, ok := factorPower(expanded, x); ok {
		out := zeros(common, x)
		out.add(zeros(rest, x))
		return out
	}

	if occurrences(expanded, x) == 1 {
		return invert(expanded, Zero, x)
	}

	if gen := singleGenerator(expanded, x); gen != nil {
		u := "_u"
		replaced := replace(expanded, gen, S(u))
		if coeffs, ok := PolyCoeffs(replaced, u); ok && len(coeffs) > 1 {
			var out solutions
			for _, r := range PolyRoots(coeffs) {
				out.add(invert(gen, r, x))
			}
			return out
		}
	}

	return solutions{unsolved: true}
}

// factorPower pulls the largest common power of x out of a sum.
func factorPower(e Expr, x string) (Expr, Expr, bool) {
	ad, ok := e.(*Add)
	if !ok {
		return nil, nil, false
	}

	minDeg := math.Inf(1)
	for _, t := range ad.Terms {
		d := 0.0
		factors := []Expr{t}
		if m, ok := t.(*Mul); ok {
			factors = m.Factors
		}
		for _, f := range factors {
			b, exp := asPow(f)
			if s, ok := b.(*Sym); ok && s.Name == x {
				if n, ok := exp.(*Num); ok && n.IsInt() {
					d = toFloat(n)
				}
			}
		}
		minDeg = math.Min(minDeg, d)
	}

	if minDeg < 1 || math.IsInf(minDeg, 0) {
		return nil, nil, false
	}

	common := NewPow(S(x), Int(int64(minDeg)))

	return common, Expand(Div(e, common)), true
}

func occurrences(e Expr, x string) int {
	count := 0
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok && s.Name == x {
			count++
		}
		return true
	})

	return count
}

// singleGenerator returns the only non polynomial building block containing
// x, such as sin(x) in sin(x)**2 - 1/4, or nil.
func singleGenerator(e Expr, x string) Expr {
	var gens []Expr
	var visit func(Expr)
	visit = func(n Expr) {
		if !Has(n, x) {
			return
		}
		switch v := n.(type) {
		case *Add:
			for _, t := range v.Terms {
				visit(t)
			}
			return
		case *Mul:
			for _, f := range v.Factors {
				visit(f)
			}
			return
		case *Pow:
			if num, ok := v.Exp.(*Num); ok && num.IsInt() && num.Sign() > 0 {
				visit(v.Base)
				return
			}
		}
		for _, g := range gens {
			if Equal(g, n) {
				return
			}
		}
		gens = append(gens, n)
	}
	visit(e)

	if len(gens) != 1 {
		return nil
	}
	if s, ok := gens[0].(*Sym); ok && s.Name == x {
		return nil
	}

	return gens[0]
}

// replace substitutes every occurrence of the subexpression old.
func replace(e, old, with Expr) Expr {
	if Equal(e, old) {
		return with
	}

	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = replace(t, old, with)
		}
		return NewAdd(terms...)
	case *Mul:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = replace(f, old, with)
		}
		return NewMul(factors...)
	case *Pow:
		return NewPow(replace(v.Base, old, with), replace(v.Exp, old, with))
	case *Func:
		return NewFunc(v.Name, replace(v.Arg, old, with))
	}

	return e
}

// sign of a constant expression: -1, 0, 1, or 2 when unknown.
func constSign(e Expr) int {
	if len(FreeSymbols(e)) > 0 {
		return 2
	}

	v := Eval(e, nil)
	switch {
	case math.IsNaN(v):
		return 2
	case math.Abs(v) < 1e-15:
		return 0
	case v > 0:
		return 1
	}

	return -1
}

func inRange(e Expr, lo, hi float64, loOpen, hiOpen bool) bool {
	if len(FreeSymbols(e)) > 0 {
		return true
	}

	v := Eval(e, nil)
	if math.IsNaN(v) {
		return false
	}
	if approxEqual(v, lo) {
		return !loOpen
	}
	if approxEqual(v, hi) {
		return !hiOpen
	}

	return v > lo && v < hi
}

// invert solves f = rhs where x occurs exactly once in f.
func invert(f, rhs Expr, x string) solutions {
	if IsUndefined(rhs) || IsInfinite(rhs) {
		return solutions{}
	}

	switch v := f.(type) {
	case *Sym:
		if v.Name == x {
			return solutions{points: []Expr{rhs}}
		}
	case *Add:
		var inner Expr
		var rest []Expr
		for _, t := range v.Terms {
			if Has(t, x) {
				inner = t
			} else {
				rest = append(rest, t)
			}
		}
		return invert(inner, Sub(rhs, NewAdd(rest...)), x)
	case *Mul:
		var inner Expr
		var rest []Expr
		for _, fac := range v.Factors {
			if Has(fac, x) {
				inner = fac
			} else {
				rest = append(rest, fac)
			}
		}
		coeff := NewMul(rest...)
		if IsZero(coeff) {
			return solutions{}
		}
		return invert(inner, Div(rhs, coeff), x)
	case *Pow:
		return invertPow(v, rhs, x)
	case *Func:
		return invertFunc(v, rhs, x)
	}

	return solutions{unsolved: true}
}

func invertPow(p *Pow, rhs Expr, x string) solutions {
	if !Has(p.Exp, x) {
		n, ok := p.Exp.(*Num)
		if !ok {
			return solutions{unsolved: true}
		}
		if n.Sign() < 0 {
			if IsZero(rhs) {
				return solutions{}
			}
			return invertPow(&Pow{Base: p.Base, Exp: Neg(n)}, NewPow(rhs, NegOne), x)
		}

		if n.IsInt() {
			k := n.r.Num()
			root := NewPow(rhs, NewPow(n, NegOne))
			if k.Bit(0) == 1 {
				if constSign(rhs) == -1 {
					root = Neg(NewPow(Neg(rhs), NewPow(n, NegOne)))
				}
				return invert(p.Base, root, x)
			}
			switch constSign(rhs) {
			case -1:
				return solutions{}
			case 0:
				return invert(p.Base, Zero, x)
			}
			out := invert(p.Base, root, x)
			out.add(invert(p.Base, Neg(root), x))
			return out
		}

		// Principal real roots are never negative.
		if constSign(rhs) == -1 {
			return solutions{}
		}
		return invert(p.Base, NewPow(rhs, NewPow(n, NegOne)), x)
	}

	if !Has(p.Base, x) && isPositiveConstant(p.Base) {
		if constSign(rhs) != 1 {
			return solutions{}
		}
		return invert(p.Exp, Div(NewFunc("log", rhs), NewFunc("log", p.Base)), x)
	}

	return solutions{unsolved: true}
}

func invertFunc(f *Func, rhs Expr, x string) solutions {
	halfPi := Div(Pi, Two)

	switch f.Name {
	case "exp":
		if constSign(rhs) != 1 {
			return solutions{}
		}
		return invert(f.Arg, NewFunc("log", rhs), x)
	case "log":
		return invert(f.Arg, NewFunc("exp", rhs), x)
	case "abs":
		switch constSign(rhs) {
		case -1:
			return solutions{}
		case 0:
			return invert(f.Arg, Zero, x)
		}
		out := invert(f.Arg, rhs, x)
		out.add(invert(f.Arg, Neg(rhs), x))
		return out
	case "asin":
		if !inRange(rhs, -math.Pi/2, math.Pi/2, false, false) {
			return solutions{}
		}
		return invert(f.Arg, NewFunc("sin", rhs), x)
	case "acos":
		if !inRange(rhs, 0, math.Pi, false, false) {
			return solutions{}
		}
		return invert(f.Arg, NewFunc("cos", rhs), x)
	case "atan":
		if !inRange(rhs, -math.Pi/2, math.Pi/2, true, true) {
			return solutions{}
		}
		return invert(f.Arg, NewFunc("tan", rhs), x)
	case "acot":
		if !inRange(rhs, -math.Pi/2, math.Pi/2, true, false) || constSign(rhs) == 0 {
			return solutions{}
		}
		return invert(f.Arg, NewFunc("cot", rhs), x)
	case "sinh":
		return invert(f.Arg, NewFunc("log", NewAdd(rhs, NewPow(NewAdd(NewPow(rhs, Two), One), Half))), x)
	case "cosh":
		if !inRange(rhs, 1, math.Inf(1), false, true) {
			return solutions{}
		}
		r := NewFunc("log", NewAdd(rhs, NewPow(Sub(NewPow(rhs, Two), One), Half)))
		out := invert(f.Arg, r, x)
		if !IsZero(r) {
			out.add(invert(f.Arg, Neg(r), x))
		}
		return out
	case "tanh":
		if !inRange(rhs, -1, 1, true, true) {
			return solutions{}
		}
		return invert(f.Arg, NewMul(Half, NewFunc("log", Div(NewAdd(One, rhs), Sub(One, rhs)))), x)
	case "sin", "csc":
		if f.Name == "csc" {
			if IsZero(rhs) {
				return solutions{}
			}
			rhs = NewPow(rhs, NegOne)
		}
		if !inRange(rhs, -1, 1, false, false) {
			return solutions{}
		}
		t := NewFunc("asin", rhs)
		return periodicSolutions(f.Arg, x, NewMul(Two, Pi), t, Sub(Pi, t))
	case "cos", "sec":
		if f.Name == "sec" {
			if IsZero(rhs) {
				return solutions{}
			}
			rhs = NewPow(rhs, NegOne)
		}
		if !inRange(rhs, -1, 1, false, false) {
			return solutions{}
		}
		t := NewFunc("acos", rhs)
		return periodicSolutions(f.Arg, x, NewMul(Two, Pi), t, Neg(t))
	case "tan":
		return periodicSolutions(f.Arg, x, Pi, NewFunc("atan", rhs))
	case "cot":
		if IsZero(rhs) {
			return periodicSolutions(f.Arg, x, Pi, halfPi)
		}
		return periodicSolutions(f.Arg, x, Pi, NewFunc("acot", rhs))
	}

	return solutions{unsolved: true}
}

// periodicSolutions solves arg = angle + n*period for each angle, where arg
// must be linear in x.
func periodicSolutions(arg Expr, x string, period Expr, angles ...Expr) solutions {
	a := Diff(arg, x)
	if Has(a, x) || IsZero(a) {
		return solutions{unsolved: true}
	}
	b := Subs(arg, x, Zero)
	step := Div(period, NewFunc("abs", a))

	var out solutions
	for _, angle := range angles {
		offset := Div(Sub(angle, b), a)
		out.families = append(out.families, normalizeFamily(&ImageSet{Offset: offset, Step: step}))
	}

	return out
}

// normalizeFamily moves the offset into [0, step).
func normalizeFamily(is *ImageSet) *ImageSet {
	off, step := Eval(is.Offset, nil), Eval(is.Step, nil)
	if math.IsNaN(off) || math.IsNaN(step) || step == 0 {
		return is
	}

	k := math.Floor(off/step + 1e-12)
	if k == 0 {
		return is
	}

	return &ImageSet{Offset: NewAdd(is.Offset, NewMul(Int(int64(-k)), is.Step)), Step: is.Step}
}

// mergeFamilies removes duplicates and joins pairs that interleave at half
// the step, so sin(x) = 0 reads {n*pi} rather than two families.
func mergeFamilies(in []*ImageSet) []*ImageSet {
	var fams []*ImageSet
	for _, f := range in {
		dup := false
		for _, g := range fams {
			if Equal(f.Step, g.Step) && approxEqual(Eval(f.Offset, nil), Eval(g.Offset, nil)) {
				dup = true
				break
			}
		}
		if !dup {
			fams = append(fams, f)
		}
	}

	for merged := true; merged; {
		merged = false
		for i := 0; i < len(fams) && !merged; i++ {
			for j := i + 1; j < len(fams) && !merged; j++ {
				f, g := fams[i], fams[j]
				if !Equal(f.Step, g.Step) {
					continue
				}
				half := Eval(f.Step, nil) / 2
				if !approxEqual(math.Abs(Eval(f.Offset, nil)-Eval(g.Offset, nil)), half) {
					continue
				}
				lo := f
				if Eval(g.Offset, nil) < Eval(f.Offset, nil) {
					lo = g
				}
				joined := &ImageSet{Offset: lo.Offset, Step: NewMul(Half, f.Step)}
				fams = append(append(fams[:i:i], fams[i+1:j]...), fams[j+1:]...)
				fams = append(fams, joined)
				merged = true
			}
		}
	}

	return fams
}
