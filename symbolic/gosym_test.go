package symbolic

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffStaysExact(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"2^x", "2^x*log(2)"},
		{"x^2", "2*x"},
		{"sin(x)*x", "x*cos(x) + sin(x)"},
		{"cot(x)", "-1 - cot(x)^2"},
		{"abs(x)", "sign(x)"},
		{"pi*x", "pi"},
		{"log(3*x)", "1/x"},
	}

	for _, tc := range testCases {
		got := Diff(MustParse(tc.Input), "x")
		want := MustParse(tc.Expected)
		assert.False(t, inexact(got), "%s gave %s", tc.Input, got)
		for _, v := range []float64{-2.5, -0.7, 0.3, 1.9} {
			assert.InDelta(t, EvalAt(want, "x", v), EvalAt(got, "x", v), 1e-9, "%s at %v", tc.Input, v)
		}
	}

	d := Diff(MustParse("y*x^2"), "x")
	assert.InDelta(t, 12.0, Eval(d, map[string]float64{"x": 2, "y": 3}), 1e-12)
}

func TestParseThroughGosymbol(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"(x^2)^(1/2)", "abs(x)"},
		{"2/3^2", "2/9"},
		{"oo - oo", "nan"},
		{"oo + 1", "oo"},
		{"x + x + pi - pi", "2*x"},
		{"123456789012345678901234567890 - 123456789012345678901234567889", "1"},
		{"(x + 1)^2 - (x + 1)^2", "0"},
	}

	for _, tc := range testCases {
		e, err := Parse(tc.Input, ParseOptions{})
		require.NoError(t, err, tc.Input)
		assert.Equal(t, tc.Expected, e.String(), tc.Input)
	}
}

func TestPolyCoeffsShape(t *testing.T) {
	c, ok := PolyCoeffs(MustParse("3*x^2 - x + 1/2"), "x")
	require.True(t, ok)
	require.Len(t, c, 3)
	assert.Equal(t, "1/2", c[0].RatString())
	assert.Equal(t, "-1", c[1].RatString())
	assert.Equal(t, "3", c[2].RatString())

	c, ok = PolyCoeffs(MustParse("(x + 1)^2"), "x")
	require.True(t, ok)
	assert.Equal(t, "2", c[1].RatString())

	for _, input := range []string{"sin(x)", "1/x", "sqrt(x)", "y*x", "pi*x"} {
		_, ok := PolyCoeffs(MustParse(input), "x")
		assert.False(t, ok, input)
	}
}

func TestLowDegreeRoots(t *testing.T) {
	assert.Equal(t, "[-3/2]", rootStrings(PolyRoots(ratCoeffs(3, 2))))
	assert.Equal(t, "[-sqrt(2) sqrt(2)]", rootStrings(PolyRoots(ratCoeffs(-2, 0, 1))))
	assert.Equal(t, "[1 2]", rootStrings(PolyRoots(ratCoeffs(2, -3, 1))))
	assert.Equal(t, "[1]", rootStrings(PolyRoots(ratCoeffs(1, -2, 1))))
	assert.Empty(t, PolyRoots(ratCoeffs(1, 0, 1)))
}

func ratCoeffs(cs ...int64) []*big.Rat {
	out := make([]*big.Rat, len(cs))
	for i, c := range cs {
		out[i] = big.NewRat(c, 1)
	}
	return out
}

func rootStrings(roots []Expr) string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = r.String()
	}
	return fmt.Sprint(out)
}
