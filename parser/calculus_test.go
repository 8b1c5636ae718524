package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotbird/plotbird/internal"
	"github.com/plotbird/plotbird/mathfunc"
	"github.com/plotbird/plotbird/symbolic"
)

func analyse(t *testing.T, query string) (*CalculusParser, []symbolic.Value) {
	c := NewCalculusParser(newTestEnv(t, Config{}))

	ok, err := c.Parse(context.Background(), query)
	require.NoError(t, err, query)
	require.True(t, ok, query)

	out, err := c.ProcessQuery(context.Background())
	require.NoError(t, err, query)

	return c, out
}

func strs(values []symbolic.Value) []string {
	var out []string
	for _, v := range values {
		out = append(out, v.String())
	}

	return out
}

func TestCalculusParseMatches(t *testing.T) {
	var testCases = []struct {
		Input  string
		Action Action
	}{
		{"diff x^2 by x", Derivative},
		{"derivative of sin(x)*cos(x)", Derivative},
		{"differentiate x*y by x, y", Derivative},
		{"dif x^3", Derivative},
		{"domain of sqrt(x)", Domain},
		{"doman sin(x)+2", Domain},
		{"range of x^2", Range},
		{"zeros of x^2 - 4", Zeros},
		{"roots x^3 - x", Zeros},
		{"axes intersection of y=x**2-4", AxesIntersection},
		{"intersection with axes x^2 - 1", AxesIntersection},
		{"periodicity of sin(x)", Periodicity},
		{"convexity of x^2", Convexity},
		{"is x^2 convex?", Convexity},
		{"concavty of -x^2", Concavity},
		{"continuity of 1/x", Continuity},
		{"monotonicity of x^2", Monotonicity},
		{"vertical asymptotes of 1/x", VerticalAsymptotes},
		{"horizontal asymptote 1/x", HorizontalAsymptotes},
		{"slant asymptotes of (x^2 + 3)/(x - 1)", SlantAsymptotes},
		{"asymptotes of 1/x", Asymptotes},
		{"evenness of cos(x)", Evenness},
		{"is sin(x) odd", Oddness},
		{"max of -x^2", Maximum},
		{"minm x^2", Minimum},
		{"stationary points of x^3 - 3x", StationaryPoints},
	}

	for _, tc := range testCases {
		c := NewCalculusParser(newTestEnv(t, Config{}))
		ok, err := c.Parse(context.Background(), tc.Input)
		if assert.NoError(t, err, tc.Input) && assert.True(t, ok, tc.Input) {
			assert.Equal(t, tc.Action, c.Action, tc.Input)
			assert.NotNil(t, c.Function, tc.Input)
		}
	}
}

func TestCalculusParseNoMatch(t *testing.T) {
	c := NewCalculusParser(newTestEnv(t, Config{}))

	ok, err := c.Parse(context.Background(), "tell me a joke")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, c.Function)
}

func TestCalculusParseErrors(t *testing.T) {
	var testCases = []struct {
		Input string
		Kind  ErrorKind
	}{
		{"[kw w", Structural},
		{"diff [", Structural},
		{"diff y=", Construction},
		{"zeros of 1 = 1", Construction},
	}

	for _, tc := range testCases {
		c := NewCalculusParser(newTestEnv(t, Config{}))
		ok, err := c.Parse(context.Background(), tc.Input)
		assert.False(t, ok, tc.Input)
		if assert.Error(t, err, tc.Input) {
			assert.True(t, IsKind(err, tc.Kind), "%s: %v", tc.Input, err)
		}
		assert.Empty(t, c.Warnings(), tc.Input)
	}
}

func TestCalculusDerivative(t *testing.T) {
	c, out := analyse(t, "diff x^4 + 12x^2 - 7x")
	assert.Equal(t, Derivative, c.Action)
	require.Len(t, out, 1)

	want := symbolic.MustParse("4*x^3 + 24*x - 7")
	assert.Equal(t, want.String(), out[0].String())

	c, out = analyse(t, "diff x^2*y by x")
	assert.Equal(t, []string{"x"}, c.AdditionalParams)
	assert.Equal(t, []string{"2*x*y"}, strs(out))

	text, err := c.MakeText(out)
	require.NoError(t, err)
	assert.Equal(t, "Derivative of x**2*y by variable x: 2*x*y", text)

	c, out = analyse(t, "diff x^2*y by x, y")
	assert.Equal(t, []string{"2*x"}, strs(out))

	text, err = c.MakeText(out)
	require.NoError(t, err)
	assert.Equal(t, "Derivative of x**2*y by variables x, y: 2*x", text)
}

func TestCalculusCorrection(t *testing.T) {
	c, out := analyse(t, "doman sin(x)+2")

	assert.Equal(t, Domain, c.Action)
	assert.Equal(t, []string{"Interpreting 'doman' as 'domain'"}, c.Warnings())
	assert.Equal(t, []string{"(-oo, oo)"}, strs(out))
}

func TestCalculusProcessQuery(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected []string
	}{
		{"domain of sqrt(x)", []string{"[0, oo)"}},
		{"range of x^2", []string{"[0, oo)"}},
		{"zeros of x^2 - 4", []string{"{-2, 2}"}},
		{"zeros of 5", []string{"EmptySet"}},
		{"axes intersection of y=x**2-4", []string{"{-2, 2}", "{-4}"}},
		{"periodicity of sin(x)", []string{"2*pi"}},
		{"periodicity of x^5 - 5", []string{"False"}},
		{"monotonicity of x^2", []string{"(0, oo)", "(-oo, 0)"}},
		{"vertical asymptotes of 1/x", []string{"{0}"}},
		{"asymptotes of 1/x", []string{"{0}", "{0}", "EmptySet"}},
		{"slant asymptotes of (x^2 + 3)/(x - 1)", []string{"{x + 1}"}},
		{"evenness of cos(x)", []string{"True"}},
		{"oddness of cos(x)", []string{"False"}},
		{"max of -x^2", []string{"0"}},
		{"min of x^2", []string{"0"}},
		{"stationary points of x^3 - 3*x", []string{"{-1, 1}"}},
	}

	for _, tc := range testCases {
		_, out := analyse(t, tc.Input)
		assert.Equal(t, tc.Expected, strs(out), tc.Input)
	}
}

func TestCalculusComputeErrors(t *testing.T) {
	ctx := context.Background()

	c := NewCalculusParser(newTestEnv(t, Config{}))
	ok, err := c.Parse(ctx, "diff x*y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mathfunc.Implicit, c.Function.Kind)

	_, err = c.ProcessQuery(ctx)
	require.IsType(t, &mathfunc.ComputeError{}, err)
	assert.Contains(t, err.Error(), "variable(s) of differentiation must be supplied")

	c = NewCalculusParser(newTestEnv(t, Config{}))
	ok, err = c.Parse(ctx, "diff x^2 by x1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.ProcessQuery(ctx)
	assert.True(t, IsKind(err, VariableName), "%v", err)

	c = NewCalculusParser(newTestEnv(t, Config{}))
	_, err = c.ProcessQuery(ctx)
	assert.Error(t, err)
}

func TestCalculusRender(t *testing.T) {
	c, out := analyse(t, "axes intersection of y=x**2-4")

	text, err := c.MakeText(out)
	require.NoError(t, err)
	assert.Equal(t, "For function x**2 - 4: intersection with x-axis: x = {-2, 2}; "+
		"intersection with y-axis: y = {-4}", text)

	latex, err := c.MakeLaTeX(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(latex, `For\ function\ `), latex)

	c, out = analyse(t, "zeros of x^2 - 4")
	text, err = c.MakeText(out)
	require.NoError(t, err)
	assert.Equal(t, "Zeros of x**2 - 4 (2 points): {-2, 2}", text)

	c, out = analyse(t, "zeros of x^2")
	text, err = c.MakeText(out)
	require.NoError(t, err)
	assert.Equal(t, "Zeros of x**2 (1 point): {0}", text)

	c, out = analyse(t, "domain of sqrt(x)")
	latex, err = c.MakeLaTeX(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(latex, `Domain\ of\ `), latex)

	_, err = c.MakeText(nil)
	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, ok := ParseAction(a.String())
		assert.True(t, ok, a.String())
		assert.Equal(t, a, got)
	}

	_, ok := ParseAction("integral")
	assert.False(t, ok)
	assert.Equal(t, "Action(99)", Action(99).String())
	assert.Len(t, Actions(), 19)
}

func TestProcessQueryTimeout(t *testing.T) {
	env := newTestEnv(t, Config{
		Timeout: internal.Duration{Duration: 20 * time.Millisecond},
		Workers: 1,
	})
	c := NewCalculusParser(env)

	ok, err := c.Parse(context.Background(), "zeros of x^2 - 4")
	require.NoError(t, err)
	require.True(t, ok)

	release := occupy(env.Pool, 1)
	defer release()

	out, err := c.ProcessQuery(context.Background())
	assert.Equal(t, ErrTimeout, err)
	assert.Nil(t, out)
}
