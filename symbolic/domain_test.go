package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"x", "(-oo, oo)"},
		{"sin(x)", "(-oo, oo)"},
		{"x^5 + x^3 - 10*x^2 + x - 29", "(-oo, oo)"},
		{"sqrt(x)", "[0, oo)"},
		{"x^(1/2)", "[0, oo)"},
		{"log(x)", "(0, oo)"},
		{"1/x", "(-oo, 0) U (0, oo)"},
		{"sqrt(12*x + x^2)", "(-oo, -12] U [0, oo)"},
		{"1/(x^2 - 1)", "(-oo, -1) U (-1, 1) U (1, oo)"},
		{"asin(x)", "[-1, 1]"},
		{"log(log(x))", "(1, oo)"},
		{"1/sqrt(x)", "(0, oo)"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, ContinuousDomain(MustParse(tc.Input), "x").String(), tc.Input)
	}
}

func TestDomainPeriodicHoles(t *testing.T) {
	d := ContinuousDomain(MustParse("tan(x)"), "x")
	c, ok := d.(*Complement)
	require.True(t, ok, d.String())
	assert.True(t, IsReals(c.A.(*Interval)))

	// The two half-period families of cos(x) = 0 come back as one.
	fam, ok := c.B.(*ImageSet)
	require.True(t, ok, d.String())
	assert.InDelta(t, math.Pi/2, Eval(fam.Offset, nil), 1e-12)
	assert.InDelta(t, math.Pi, Eval(fam.Step, nil), 1e-12)

	v := VerticalAsymptotes(MustParse("tan(x)"), "x")
	fam, ok = v.(*ImageSet)
	require.True(t, ok, v.String())
	assert.InDelta(t, math.Pi/2, Eval(fam.Offset, nil), 1e-12)
	assert.InDelta(t, math.Pi, Eval(fam.Step, nil), 1e-12)
}

func TestContinuityJumps(t *testing.T) {
	assert.True(t, IsReals(Domain(MustParse("floor(x)"), "x")))

	d := ContinuousDomain(MustParse("floor(x)"), "x")
	_, ok := d.(*Complement)
	assert.True(t, ok, d.String())

	assert.Equal(t, "(-oo, 0) U (0, oo)", ContinuousDomain(MustParse("sign(x)"), "x").String())
}
