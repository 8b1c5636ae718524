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
)

func parseGraph(t *testing.T, input string) (*Tokens, *GraphParser) {
	g := NewGraphParser(newTestEnv(t, Config{}))

	tokens, err := g.Parse(context.Background(), input)
	require.NoError(t, err, input)

	return tokens, g
}

func TestGraphExplicit(t *testing.T) {
	tokens, g := parseGraph(t, "y = x**2")

	require.Len(t, tokens.Explicit, 1)
	assert.Empty(t, tokens.Implicit)
	assert.Empty(t, g.Warnings())

	f := tokens.Explicit[0]
	assert.Equal(t, mathfunc.Explicit, f.Kind)
	assert.Equal(t, []string{"x"}, f.Variables)
	assert.Equal(t, "y = x**2", f.Source)
	assert.Equal(t, "x**2", f.Expr.String())
}

func TestGraphImplicit(t *testing.T) {
	tokens, _ := parseGraph(t, "x**2 + y**2 = 4")

	require.Len(t, tokens.Implicit, 1)
	assert.Empty(t, tokens.Explicit)

	f := tokens.Implicit[0]
	assert.Equal(t, mathfunc.Implicit, f.Kind)
	assert.Equal(t, []string{"x", "y"}, f.Variables)
	assert.True(t, f.IsRelation())
}

func TestGraphClassification(t *testing.T) {
	var testCases = []struct {
		Input string
		Kind  mathfunc.Kind
	}{
		{"x", mathfunc.Explicit},
		{"sin(x) + 2", mathfunc.Explicit},
		{"t^2", mathfunc.Explicit},
		{"7", mathfunc.Explicit},
		{"x + y", mathfunc.Implicit},
		{"x = 1", mathfunc.Implicit},
		{"a = 1", mathfunc.Implicit},
		{"y = y^2 + x", mathfunc.Implicit},
		{"x^2 = 2*x", mathfunc.Implicit},
		{"y = 3", mathfunc.Explicit},
	}

	for _, tc := range testCases {
		tokens, _ := parseGraph(t, tc.Input)
		fs := tokens.Functions()
		if assert.Len(t, fs, 1, tc.Input) {
			assert.Equal(t, tc.Kind, fs[0].Kind, tc.Input)
		}
	}
}

func TestGraphParameters(t *testing.T) {
	tokens, _ := parseGraph(t, "from -5 to 5, x**2")
	assert.Equal(t, []float64{-5, 5}, tokens.Domain)
	require.Len(t, tokens.Explicit, 1)
	assert.Equal(t, "x**2", tokens.Explicit[0].Source)

	tokens, _ = parseGraph(t, "x in [-1, 3]; y from 0 to 2.5; ratio 2; sin(x)")
	assert.Equal(t, []float64{-1, 3}, tokens.Domain)
	assert.Equal(t, []float64{0, 2.5}, tokens.Range)
	assert.Equal(t, []float64{2}, tokens.AspectRatio)
	assert.Len(t, tokens.Explicit, 1)

	tokens, g := parseGraph(t, "form -5 to 5, x")
	assert.Equal(t, []float64{-5, 5}, tokens.Domain)
	assert.Equal(t, []string{"Interpreting 'form' as 'from'"}, g.Warnings())
}

func TestGraphVariableWarnings(t *testing.T) {
	tokens, g := parseGraph(t, "a^2 + b^2 = 1")
	require.Len(t, tokens.Implicit, 1)
	assert.Equal(t, []string{"x", "y"}, tokens.Implicit[0].Variables)
	assert.Equal(t, []string{"Variable 'a' is replaced by 'y',\nvariable 'b' is replaced by 'x'"}, g.Warnings())

	g.ClearWarnings()
	assert.Empty(t, g.Warnings())
}

func TestGraphErrors(t *testing.T) {
	var testCases = []struct {
		Input string
		Kind  ErrorKind
	}{
		{"x, y, z, w, e, r, t, y, u, i, o, p, a, s, d, f, g, h", Structural},
		{many(20), Structural},
		{"3y", Construction},
		{"y = 10sin(x)", Construction},
		{"y=x=z", Construction},
		{"y=4*x, from a to b", Structural},
		{"y=4*x+3*z", Construction},
		{"y=2+x, from 6 to 1", Structural},
		{"from 1 to 1", Structural},
		{"x^2, from ", Construction},
		{"ratio 0", Structural},
		{"ratio -2", Structural},
		{"1 = 1", Construction},
		{"x = x + 1", Construction},
		{"x + y + z", Classification},
		{"(x", Structural},
		{"qweresdaa", Construction},
		{"x, x+1, x+2, x+3, x+4, x+5, x+6, x+7, x+8, x+9, x+10", Structural},
	}

	for _, tc := range testCases {
		g := NewGraphParser(newTestEnv(t, Config{}))
		tokens, err := g.Parse(context.Background(), tc.Input)
		assert.Nil(t, tokens, tc.Input)
		if assert.Error(t, err, tc.Input) {
			assert.True(t, IsKind(err, tc.Kind), "%s: %v", tc.Input, err)
		}
	}
}

func TestGraphErrorMessages(t *testing.T) {
	g := NewGraphParser(newTestEnv(t, Config{}))

	_, err := g.Parse(context.Background(), "y=2+x, from 6 to 1")
	assert.EqualError(t, err, "Mistake in function domain parameters.\n"+
		"Your input: from 6 to 1\n"+
		"Left argument cannot be more or equal than right one: 6 >= 1.")

	_, err = g.Parse(context.Background(), many(20))
	assert.EqualError(t, err, "Too many arguments. The limit is 15 statements.")
}

func TestGraphLengthLimit(t *testing.T) {
	g := NewGraphParser(newTestEnv(t, Config{ExpressionLengthLimit: 10}))

	_, err := g.Parse(context.Background(), "x^2 + 3*x + 100")
	assert.True(t, IsKind(err, Structural))

	tokens, err := g.Parse(context.Background(), "x^2")
	require.NoError(t, err)
	assert.Len(t, tokens.Explicit, 1)
}

func many(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "x"
	}

	return strings.Join(parts, ", ")
}

func TestGraphTimeout(t *testing.T) {
	env := newTestEnv(t, Config{
		Timeout: internal.Duration{Duration: 20 * time.Millisecond},
		Workers: 1,
	})
	release := occupy(env.Pool, 1)
	defer release()

	g := NewGraphParser(env)

	// "form" would normally be corrected to "from", but a statement that
	// timed out is not retried as a pattern.
	tokens, err := g.Parse(context.Background(), "form -2 to 2")
	assert.Equal(t, ErrTimeout, err)
	assert.Nil(t, tokens)
	assert.Empty(t, g.Warnings())
}
