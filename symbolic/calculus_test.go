package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	var testCases = []struct {
		Input    string
		Var      string
		Expected string
	}{
		{"x^3", "x", "3*x**2"},
		{"x^2 + 3*x + 1", "x", "2*x + 3"},
		{"sin(x)", "x", "cos(x)"},
		{"cos(x)", "x", "-sin(x)"},
		{"exp(x)", "x", "exp(x)"},
		{"log(x)", "x", "1/x"},
		{"x*y", "y", "x"},
		{"5", "x", "0"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, Diff(MustParse(tc.Input), tc.Var).String(), tc.Input)
	}
}

func TestEval(t *testing.T) {
	assert.InDelta(t, 5.0, EvalAt(MustParse("x^2 + 1"), "x", 2), 1e-12)
	assert.InDelta(t, 1.0, EvalAt(MustParse("sin(x)"), "x", math.Pi/2), 1e-12)
	assert.True(t, math.IsNaN(EvalAt(MustParse("log(x)"), "x", -1)))
	assert.True(t, math.IsNaN(EvalAt(MustParse("1/x"), "x", 0)))
	assert.True(t, math.IsNaN(Eval(MustParse("x + y"), map[string]float64{"x": 1})))
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "x**2 + 2*x + 1", Expand(MustParse("(x + 1)^2")).String())
	assert.Equal(t, "x**2 - 1", Expand(MustParse("(x - 1)*(x + 1)")).String())
}

func TestSubs(t *testing.T) {
	e := MustParse("x^2 + y")
	assert.Equal(t, "y + 4", Subs(e, "x", Two).String())
	assert.Equal(t, "x**2", Subs(e, "y", Zero).String())
	assert.Equal(t, "a**2 + y", Rename(e, map[string]string{"x": "a"}).String())
}

func TestPolyRoots(t *testing.T) {
	coeffs, ok := PolyCoeffs(MustParse("x^3 - 6*x^2 + 11*x - 6"), "x")
	assert.True(t, ok)

	var roots []string
	for _, r := range PolyRoots(coeffs) {
		roots = append(roots, r.String())
	}
	assert.Equal(t, []string{"1", "2", "3"}, roots)

	_, ok = PolyCoeffs(MustParse("sin(x) + x"), "x")
	assert.False(t, ok)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, "3", Snap(3.0000000001, 1e-9).String())
	assert.Equal(t, "1/3", Snap(1.0/3, 1e-9).String())
	assert.Equal(t, "pi/2", Snap(math.Pi/2, 1e-9).String())
	assert.Nil(t, Snap(math.NaN(), 1e-9))
}

func TestSimplify(t *testing.T) {
	assert.Equal(t, "x + 1", Simplify(MustParse("(x^2 - 1)/(x - 1)")).String())
	assert.Equal(t, "sin(x)", Simplify(MustParse("sin(x)")).String())
	assert.Equal(t, "x*y", Simplify(MustParse("x*y")).String())
}
