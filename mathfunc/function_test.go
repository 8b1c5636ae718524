package mathfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotbird/plotbird/symbolic"
)

func newFunc(t *testing.T, input string) *Function {
	e, err := symbolic.Parse(input, symbolic.ParseOptions{})
	require.NoError(t, err, input)

	return New(input, e, Explicit)
}

func TestFunctionBody(t *testing.T) {
	f := New("y = x", &symbolic.Eq{Lhs: symbolic.YSym, Rhs: symbolic.XSym}, Implicit)
	assert.True(t, f.IsRelation())
	assert.Equal(t, []string{"x", "y"}, f.Variables)
	assert.Equal(t, "implicit", f.Kind.String())

	g := f.WithVariables([]string{"y", "x"})
	assert.Equal(t, []string{"y", "x"}, g.Variables)
	assert.Equal(t, []string{"x", "y"}, f.Variables)
}

func TestDerivative(t *testing.T) {
	d, err := newFunc(t, "x^2").Derivative()
	require.NoError(t, err)
	assert.Equal(t, "2*x", d.String())

	d, err = newFunc(t, "x*y").Derivative("x")
	require.NoError(t, err)
	assert.Equal(t, "y", d.String())

	d, err = newFunc(t, "7").Derivative()
	require.NoError(t, err)
	assert.Equal(t, "0", d.String())

	_, err = newFunc(t, "x*y").Derivative()
	require.IsType(t, &ComputeError{}, err)
	assert.Contains(t, err.Error(), "variable(s) of differentiation must be supplied")
}

func TestSingleVariableOnly(t *testing.T) {
	f := newFunc(t, "x + y")

	_, err := f.Domain()
	assert.IsType(t, &ComputeError{}, err)
	_, err = f.Zeros()
	assert.IsType(t, &ComputeError{}, err)
	_, _, err = f.Monotonicity()
	assert.IsType(t, &ComputeError{}, err)
}

func TestSets(t *testing.T) {
	var testCases = []struct {
		Name     string
		Input    string
		Op       func(*Function) (symbolic.Set, error)
		Expected string
	}{
		{"domain", "sqrt(x)", (*Function).Domain, "[0, oo)"},
		{"domain", "asin(x)", (*Function).Domain, "[-1, 1]"},
		{"range", "x^2", (*Function).Range, "[0, oo)"},
		{"range", "sin(x)", (*Function).Range, "[-1, 1]"},
		{"zeros", "x^2 - 4", (*Function).Zeros, "{-2, 2}"},
		{"zeros", "x^2 + 1", (*Function).Zeros, "EmptySet"},
		{"horizontal", "1/x", (*Function).HorizontalAsymptotes, "{0}"},
		{"horizontal", "x^2", (*Function).HorizontalAsymptotes, "EmptySet"},
		{"vertical", "1/x", (*Function).VerticalAsymptotes, "{0}"},
		{"slant", "(x^2 + 3)/(x - 1)", (*Function).SlantAsymptotes, "{x + 1}"},
		{"slant", "x", (*Function).SlantAsymptotes, "EmptySet"},
		{"slant", "1/x", (*Function).SlantAsymptotes, "EmptySet"},
		{"stationary", "x^2", (*Function).StationaryPoints, "{0}"},
		{"stationary", "x^3 - 3*x", (*Function).StationaryPoints, "{-1, 1}"},
		{"stationary", "x", (*Function).StationaryPoints, "EmptySet"},
	}

	for _, tc := range testCases {
		s, err := tc.Op(newFunc(t, tc.Input))
		if assert.NoError(t, err, tc.Name+" "+tc.Input) {
			assert.Equal(t, tc.Expected, s.String(), tc.Name+" "+tc.Input)
		}
	}
}

func TestAxesIntersection(t *testing.T) {
	onX, onY := newFunc(t, "x^2 - 4").AxesIntersection("x", "y")
	assert.Equal(t, "{-2, 2}", onX.String())
	assert.Equal(t, "{-4}", onY.String())

	onX, onY = newFunc(t, "1/x").AxesIntersection("x", "y")
	assert.Equal(t, "EmptySet", onX.String())
	assert.Equal(t, "EmptySet", onY.String())

	rel := New("y = x^2", &symbolic.Eq{Lhs: symbolic.YSym, Rhs: symbolic.MustParse("x^2")}, Implicit)
	onX, onY = rel.AxesIntersection("x", "y")
	assert.Equal(t, "{0}", onX.String())
	assert.Equal(t, "{0}", onY.String())
}

func TestPeriodicityValue(t *testing.T) {
	p, err := newFunc(t, "sin(x)").Periodicity()
	require.NoError(t, err)
	assert.Equal(t, "2*pi", p.String())

	p, err = newFunc(t, "x^5 - 5").Periodicity()
	require.NoError(t, err)
	assert.Equal(t, symbolic.Bool(false), p)
}

func TestParity(t *testing.T) {
	var testCases = []struct {
		Input string
		Even  bool
		Odd   bool
	}{
		{"cos(x)", true, false},
		{"sin(x)", false, true},
		{"x^2", true, false},
		{"x^3", false, true},
		{"x + 2", false, false},
		{"cos(x + 2)", false, false},
		{"sqrt(x)", false, false},
		{"13", true, false},
		{"0", true, true},
	}

	for _, tc := range testCases {
		f := newFunc(t, tc.Input)
		assert.Equal(t, tc.Even, f.IsEven(), "even "+tc.Input)
		assert.Equal(t, tc.Odd, f.IsOdd(), "odd "+tc.Input)
	}
}

func TestExtremum(t *testing.T) {
	max, err := newFunc(t, "-x^2").Maximum()
	require.NoError(t, err)
	assert.Equal(t, "0", max.String())

	min, err := newFunc(t, "x^2").Minimum()
	require.NoError(t, err)
	assert.Equal(t, "0", min.String())

	max, err = newFunc(t, "x").Maximum()
	require.NoError(t, err)
	assert.Equal(t, "oo", max.String())
}

func TestConvexityOps(t *testing.T) {
	convex, err := newFunc(t, "10 - x + 2*x").Convexity()
	require.NoError(t, err)
	assert.True(t, convex)

	concave, err := newFunc(t, "sin(x) + 2").Concavity()
	require.NoError(t, err)
	assert.False(t, concave)
}

func TestMonotonicity(t *testing.T) {
	inc, dec, err := newFunc(t, "x^2").Monotonicity()
	require.NoError(t, err)
	assert.Equal(t, "(0, oo)", inc.String())
	assert.Equal(t, "(-oo, 0)", dec.String())
}
