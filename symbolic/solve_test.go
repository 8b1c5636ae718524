package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveFinite(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"x^2 - 4", "{-2, 2}"},
		{"2*x + 1", "{-1/2}"},
		{"x^3 - x", "{-1, 0, 1}"},
		{"(x^2 - 1)/(x - 1)", "{-1}"},
		{"x^2 + 1", "EmptySet"},
		{"1/x", "EmptySet"},
		{"exp(x) - 1", "{0}"},
		{"log(x)", "{1}"},
		{"sqrt(x) - 2", "{4}"},
		{"sqrt(x) + 2", "EmptySet"},
		{"abs(x) - 3", "{-3, 3}"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, Solve(MustParse(tc.Input), "x").String(), tc.Input)
	}
}

func TestSolveIdentity(t *testing.T) {
	assert.True(t, IsReals(Solve(MustParse("x - x"), "x")))
	assert.True(t, IsEmpty(Solve(MustParse("3"), "x")))
}

func TestSolvePeriodic(t *testing.T) {
	s := Solve(MustParse("sin(x)"), "x")
	fam, ok := s.(*ImageSet)
	require.True(t, ok, s.String())
	assert.InDelta(t, 0, Eval(fam.Offset, nil), 1e-12)
	assert.InDelta(t, math.Pi, Eval(fam.Step, nil), 1e-12)

	s = Solve(MustParse("cos(x)"), "x")
	fam, ok = s.(*ImageSet)
	require.True(t, ok, s.String())
	assert.InDelta(t, math.Pi/2, Eval(fam.Offset, nil), 1e-12)
	assert.InDelta(t, math.Pi, Eval(fam.Step, nil), 1e-12)

	s = Solve(MustParse("sin(x) - 2"), "x")
	assert.True(t, IsEmpty(s))
}

func TestSolveUnsolved(t *testing.T) {
	s := Solve(MustParse("x - cos(x)"), "x")
	_, ok := s.(*ConditionSet)
	assert.True(t, ok, s.String())
}
