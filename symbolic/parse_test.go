package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"x", "x"},
		{"x^2", "x**2"},
		{"x**2", "x**2"},
		{"2*x + 1", "2*x + 1"},
		{"1 + 2*x", "2*x + 1"},
		{"x - x", "0"},
		{"x*x", "x**2"},
		{"sqrt(x)", "sqrt(x)"},
		{"ln(x)", "log(x)"},
		{"arcsin(x)", "asin(x)"},
		{"sin(-x)", "-sin(x)"},
		{"cos(-x)", "cos(x)"},
		{"0.5", "1/2"},
		{"1/x", "1/x"},
		{"2^3", "8"},
		{"sin(pi)", "0"},
		{"cos(0)", "1"},
		{"-x^2", "-x**2"},
		{"[x + 1]*2", "2*x + 2"},
		{"t_0 + x1", "t_0 + x1"},
	}

	for _, tc := range testCases {
		e, err := Parse(tc.Input, ParseOptions{})
		require.NoError(t, err, tc.Input)
		assert.Equal(t, tc.Expected, e.String(), tc.Input)
	}
}

func TestParseImplicitMultiplication(t *testing.T) {
	e, err := Parse("2x", ParseOptions{ImplicitMultiplication: true})
	require.NoError(t, err)
	assert.Equal(t, "2*x", e.String())

	_, err = Parse("2x", ParseOptions{})
	assert.Error(t, err)

	_, err = Parse("10sin(x)", ParseOptions{})
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	var testCases = []string{
		"",
		"x +",
		"(x",
		"x)",
		"from",
		"qweresdaa",
		"1/0",
		"sin",
		"x(2)",
		"root(x)",
	}

	for _, input := range testCases {
		_, err := Parse(input, ParseOptions{})
		require.Error(t, err, input)

		_, ok := err.(*SyntaxError)
		assert.True(t, ok, input)
	}
}

func TestLaTeX(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"x", "x"},
		{"pi", `\pi`},
		{"oo", `\infty`},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, MustParse(tc.Input).LaTeX(), tc.Input)
	}
}
