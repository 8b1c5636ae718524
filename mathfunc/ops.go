package mathfunc

import (
	"fmt"
	"math"
	"strings"

	"github.com/plotbird/plotbird/symbolic"
)

// singleVar returns the function's only variable, or an error naming the
// action when the function has more than one.
func (f *Function) singleVar(action string) (string, error) {
	if len(f.Variables) > 1 {
		return "", &ComputeError{
			Action: action,
			Msg: fmt.Sprintf("The %s can only be found for a function of one variable, got %s\n%s",
				action, strings.Join(f.Variables, ", "), f.Source),
		}
	}

	return f.mainVar(), nil
}

// Derivative differentiates by each of vars in turn. Without vars the
// function must have at most one variable.
func (f *Function) Derivative(vars ...string) (symbolic.Expr, error) {
	body := f.Body()

	if len(vars) == 0 {
		free := symbolic.FreeSymbols(body)
		if len(free) > 1 {
			return nil, &ComputeError{
				Action: "derivative",
				Msg: "Since there is more than one variable in the expression, " +
					"the variable(s) of differentiation must be supplied to differentiate\n" + f.Source,
			}
		}
		vars = []string{f.mainVar()}
		if len(free) == 1 {
			vars = free
		}
	}

	for _, v := range vars {
		body = symbolic.Diff(body, v)
	}

	return body, nil
}

// Domain returns where the function is defined.
func (f *Function) Domain() (symbolic.Set, error) {
	x, err := f.singleVar("domain")
	if err != nil {
		return nil, err
	}

	return symbolic.Domain(f.Body(), x), nil
}

// Continuity returns where the function is continuous.
func (f *Function) Continuity() (symbolic.Set, error) {
	x, err := f.singleVar("continuity")
	if err != nil {
		return nil, err
	}

	return symbolic.ContinuousDomain(f.Body(), x), nil
}

// Range returns the set of values the function takes.
func (f *Function) Range() (symbolic.Set, error) {
	x, err := f.singleVar("range")
	if err != nil {
		return nil, err
	}

	return symbolic.FunctionRange(f.Body(), x), nil
}

// Zeros solves f = 0.
func (f *Function) Zeros() (symbolic.Set, error) {
	x, err := f.singleVar("zeros")
	if err != nil {
		return nil, err
	}

	return symbolic.Solve(f.Body(), x), nil
}

// AxesIntersection returns where the graph meets the first axis (the
// values of xVar with yVar zero) and the second axis. A plain expression
// without yVar is read as yVar = f(xVar), so it meets the second axis at
// the single value f(0).
func (f *Function) AxesIntersection(xVar, yVar string) (onX, onY symbolic.Set) {
	body := f.Body()

	onX = symbolic.Solve(symbolic.Subs(body, yVar, symbolic.Zero), xVar)
	if symbolic.Has(body, yVar) {
		onY = symbolic.Solve(symbolic.Subs(body, xVar, symbolic.Zero), yVar)
	} else {
		onY = explicitValue(body, xVar)
	}

	return onX, onY
}

func explicitValue(body symbolic.Expr, at string) symbolic.Set {
	v := symbolic.Subs(body, at, symbolic.Zero)
	if !symbolic.IsFinite(v) {
		return symbolic.EmptySet()
	}

	return symbolic.NewFiniteSet(v)
}

// Periodicity returns the smallest period, or Bool(false) when the function
// is not periodic.
func (f *Function) Periodicity() (symbolic.Value, error) {
	x, err := f.singleVar("periodicity")
	if err != nil {
		return nil, err
	}

	if p, ok := symbolic.Periodicity(f.Body(), x); ok {
		return p, nil
	}

	return symbolic.Bool(false), nil
}

// Convexity reports whether the function is convex on the real line.
func (f *Function) Convexity() (bool, error) {
	x, err := f.singleVar("convexity")
	if err != nil {
		return false, err
	}

	return symbolic.IsConvex(f.Body(), x), nil
}

// Concavity reports whether the function is concave on the real line.
func (f *Function) Concavity() (bool, error) {
	x, err := f.singleVar("concavity")
	if err != nil {
		return false, err
	}

	return symbolic.IsConcave(f.Body(), x), nil
}

// Monotonicity returns the sets where the function increases and
// decreases.
func (f *Function) Monotonicity() (increasing, decreasing symbolic.Set, err error) {
	x, err := f.singleVar("monotonicity")
	if err != nil {
		return nil, nil, err
	}

	increasing, decreasing = symbolic.Monotonicity(f.Body(), x)

	return increasing, decreasing, nil
}

// VerticalAsymptotes returns the x positions of vertical asymptotes.
func (f *Function) VerticalAsymptotes() (symbolic.Set, error) {
	x, err := f.singleVar("vertical asymptotes")
	if err != nil {
		return nil, err
	}

	return symbolic.VerticalAsymptotes(f.Body(), x), nil
}

// HorizontalAsymptotes returns the finite limits at both infinities.
func (f *Function) HorizontalAsymptotes() (symbolic.Set, error) {
	x, err := f.singleVar("horizontal asymptotes")
	if err != nil {
		return nil, err
	}

	body := f.Body()
	var values []symbolic.Expr
	for _, end := range []symbolic.Expr{symbolic.NegOo, symbolic.Oo} {
		if l := symbolic.Limit(body, x, end, symbolic.Both); symbolic.IsFinite(l) {
			values = append(values, l)
		}
	}

	return symbolic.NewFiniteSet(values...), nil
}

// SlantAsymptotes returns the lines k*x + b with k != 0 the function
// approaches at either infinity.
func (f *Function) SlantAsymptotes() (symbolic.Set, error) {
	x, err := f.singleVar("slant asymptotes")
	if err != nil {
		return nil, err
	}

	body := f.Body()
	xs := symbolic.S(x)

	var lines []symbolic.Expr
	seen := make(map[string]bool)
	for _, end := range []symbolic.Expr{symbolic.Oo, symbolic.NegOo} {
		k := symbolic.Limit(symbolic.Div(body, xs), x, end, symbolic.Both)
		if !symbolic.IsFinite(k) || symbolic.IsZero(k) {
			continue
		}
		b := symbolic.Limit(symbolic.Sub(body, symbolic.NewMul(k, xs)), x, end, symbolic.Both)
		if !symbolic.IsFinite(b) {
			continue
		}

		line := symbolic.NewAdd(symbolic.NewMul(k, xs), b)
		if symbolic.IsZero(symbolic.Expand(symbolic.Sub(body, line))) {
			// The function is the line itself.
			continue
		}
		if !seen[line.String()] {
			seen[line.String()] = true
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return symbolic.EmptySet(), nil
	}

	return &symbolic.FiniteSet{Elems: lines}, nil
}

// Asymptotes returns the vertical, horizontal and slant asymptotes in that
// order.
func (f *Function) Asymptotes() ([]symbolic.Set, error) {
	v, err := f.VerticalAsymptotes()
	if err != nil {
		return nil, err
	}
	h, err := f.HorizontalAsymptotes()
	if err != nil {
		return nil, err
	}
	s, err := f.SlantAsymptotes()
	if err != nil {
		return nil, err
	}

	return []symbolic.Set{v, h, s}, nil
}

// IsEven checks f(-x) = f(x). With two variables the relation is even when
// mirroring x maps it onto itself.
func (f *Function) IsEven() bool {
	body := f.Body()
	if len(f.Variables) == 0 || len(symbolic.FreeSymbols(body)) == 0 {
		return true
	}

	x := f.Variables[0]
	mirrored := symbolic.Subs(body, x, symbolic.Neg(symbolic.S(x)))

	if len(f.Variables) > 1 {
		return sameUpToSign(mirrored, body, f.Variables[:2])
	}

	return same(mirrored, body, f.Variables[:1])
}

// IsOdd checks f(-x) = -f(x). With two variables the relation is odd when
// the point reflection (x, y) -> (-x, -y) maps it onto itself.
func (f *Function) IsOdd() bool {
	body := f.Body()
	x := f.mainVar()
	mirrored := symbolic.Subs(body, x, symbolic.Neg(symbolic.S(x)))

	if len(f.Variables) > 1 {
		y := f.Variables[1]
		mirrored = symbolic.Subs(mirrored, y, symbolic.Neg(symbolic.S(y)))
		return sameUpToSign(mirrored, body, f.Variables[:2])
	}

	return same(mirrored, symbolic.Neg(body), []string{x})
}

func sameUpToSign(a, b symbolic.Expr, vars []string) bool {
	return same(a, b, vars) || same(a, symbolic.Neg(b), vars)
}

// same compares two expressions symbolically and, failing that, on sample
// points. Both must be undefined at the same samples.
func same(a, b symbolic.Expr, vars []string) bool {
	if symbolic.Equal(a, b) || symbolic.Equal(symbolic.Expand(a), symbolic.Expand(b)) {
		return true
	}

	defined := 0
	for _, env := range samples(vars) {
		va, vb := symbolic.Eval(a, env), symbolic.Eval(b, env)
		if math.IsNaN(va) != math.IsNaN(vb) {
			return false
		}
		if math.IsNaN(va) {
			continue
		}
		if math.Abs(va-vb) > 1e-9*math.Max(1, math.Abs(va)) {
			return false
		}
		defined++
	}

	return defined >= 3
}

func samples(vars []string) []map[string]float64 {
	points := []float64{-3.71, -1.37, -0.53, 0.29, 0.83, 1.61, 2.47, 5.3}

	var out []map[string]float64
	if len(vars) == 1 {
		for _, p := range points {
			out = append(out, map[string]float64{vars[0]: p})
		}
		return out
	}

	for i, p := range points {
		for _, q := range points[i%3:] {
			out = append(out, map[string]float64{vars[0]: p, vars[1]: q})
		}
	}

	return out
}

// Maximum returns the supremum of the function's values.
func (f *Function) Maximum() (symbolic.Expr, error) {
	return f.extremum("maximum", symbolic.Supremum)
}

// Minimum returns the infimum of the function's values.
func (f *Function) Minimum() (symbolic.Expr, error) {
	return f.extremum("minimum", symbolic.Infimum)
}

func (f *Function) extremum(action string, pick func(symbolic.Set) (symbolic.Expr, bool)) (symbolic.Expr, error) {
	r, err := f.Range()
	if err != nil {
		return nil, &ComputeError{Action: action, Msg: err.Error()}
	}

	v, ok := pick(r)
	if !ok {
		return nil, &ComputeError{
			Action: action,
			Msg:    fmt.Sprintf("Could not find the %s of %s", action, f.Source),
		}
	}

	return v, nil
}

// StationaryPoints returns the points where the derivative vanishes and the
// function is defined.
func (f *Function) StationaryPoints() (symbolic.Set, error) {
	x, err := f.singleVar("stationary points")
	if err != nil {
		return nil, err
	}

	body := f.Body()
	zeros := symbolic.Solve(symbolic.Diff(body, x), x)

	return keepDefined(zeros, body, x), nil
}

func keepDefined(s symbolic.Set, e symbolic.Expr, x string) symbolic.Set {
	switch v := s.(type) {
	case *symbolic.FiniteSet:
		var kept []symbolic.Expr
		for _, p := range v.Elems {
			val := symbolic.EvalAt(e, x, symbolic.Eval(p, nil))
			if !math.IsNaN(val) && !math.IsInf(val, 0) {
				kept = append(kept, p)
			}
		}
		return symbolic.NewFiniteSet(kept...)
	case *symbolic.Union:
		sets := make([]symbolic.Set, len(v.Sets))
		for i, sub := range v.Sets {
			sets[i] = keepDefined(sub, e, x)
		}
		return symbolic.NewUnion(sets...)
	}

	return s
}
