package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionRange(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"x^2", "[0, oo)"},
		{"sin(x)", "[-1, 1]"},
		{"sqrt(x)", "[0, oo)"},
		{"log(x)", "(-oo, oo)"},
		{"2^x", "(0, oo)"},
		{"atan(x)", "(-pi/2, pi/2)"},
		{"x^3", "(-oo, oo)"},
		{"5", "{5}"},
		{"-x^2 + 4", "(-oo, 4]"},
		{"(x+1)^60*(x-1)^60", "[0, oo)"},
		{"(x-2)^4 + 1", "[1, oo)"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, FunctionRange(MustParse(tc.Input), "x").String(), tc.Input)
	}
}

func TestPeriodicity(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"sin(x)", "2*pi"},
		{"tan(x)", "pi"},
		{"log(sin(x))", "2*pi"},
		{"sqrt(sin(x)^2)", "pi"},
		{"sin(2*x)", "pi"},
		{"sin(x) + cos(x/2)", "4*pi"},
		{"13", "0"},
	}

	for _, tc := range testCases {
		p, ok := Periodicity(MustParse(tc.Input), "x")
		if assert.True(t, ok, tc.Input) {
			assert.Equal(t, tc.Expected, p.String(), tc.Input)
		}
	}

	for _, input := range []string{"x", "atan(x)", "x*sin(x)", "sin(x^2)"} {
		_, ok := Periodicity(MustParse(input), "x")
		assert.False(t, ok, input)
	}
}

func TestConvexity(t *testing.T) {
	var testCases = []struct {
		Input   string
		Convex  bool
		Concave bool
	}{
		{"13", true, true},
		{"x", true, true},
		{"x^2", true, false},
		{"-x^2", false, true},
		{"x^3", false, false},
		{"sin(x)", false, false},
		{"tan(x)", false, false},
		{"log(x)", false, false},
		{"asin(x)", false, false},
		{"exp(x)", true, false},
		{"sqrt(x^2)", true, false},
	}

	for _, tc := range testCases {
		e := MustParse(tc.Input)
		assert.Equal(t, tc.Convex, IsConvex(e, "x"), tc.Input)
		assert.Equal(t, tc.Concave, IsConcave(e, "x"), tc.Input)
	}
}
