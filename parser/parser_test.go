package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, conf Config) *Env {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	env, err := NewEnv(conf, logrus.NewEntry(logger))
	require.NoError(t, err)

	return env
}

// occupy holds every worker of pool until the returned func is called.
func occupy(pool *Pool, workers int) (release func()) {
	stop := make(chan struct{})
	for i := 0; i < workers; i++ {
		started := make(chan struct{})
		go pool.Do(context.Background(), 0, func() error {
			close(started)
			<-stop
			return nil
		})
		<-started
	}

	return func() { close(stop) }
}

func TestNormalizeFunctions(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
	}{
		{"tg(x)", "tan(x)"},
		{"ctg(x)", "cot(x)"},
		{"arcsin(x)", "asin(x)"},
		{"arccos(x)", "acos(x)"},
		{"arctg(x)", "atan(x)"},
		{"arcctg(x)", "acot(x)"},
		{"arccot(x)", "acot(x)"},
		{"ctan(x) + tg(2*x)", "cot(x) + tan(2*x)"},
		{"sin(x)", "sin(x)"},
	}

	for _, tc := range testCases {
		out := NormalizeFunctions(tc.Input)
		assert.Equal(t, tc.Expected, out, tc.Input)
		assert.Equal(t, out, NormalizeFunctions(out), tc.Input)
	}
}

func TestSplitQuery(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected []string
	}{
		{"(a,b)", []string{"(a,b)"}},
		{"a,b", []string{"a", "b"}},
		{"x*4", []string{"x*4"}},
		{"sin( 2* x) + 12\n 10\nx*2", []string{"sin( 2* x) + 12", " 10", "x*2"}},
		{"xxxx", []string{"xxxx"}},
		{"1\n2\n2\n*\n", []string{"1", "2", "2", "*", ""}},
		{"root(x, 3); y = {1, 2}", []string{"root(x, 3)", " y = {1, 2}"}},
	}

	for _, tc := range testCases {
		parts, err := SplitQuery(tc.Input)
		require.NoError(t, err, tc.Input)
		assert.Equal(t, tc.Expected, parts, tc.Input)
	}

	for _, input := range []string{"(((", "))}{{}", ")(x*2", "x)"} {
		_, err := SplitQuery(input)
		assert.True(t, IsKind(err, Structural), input)
	}
}

func TestIsXEqualNum(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected bool
	}{
		{" x= 1", true},
		{"y =x", false},
		{"a= 1", true},
		{"x ^2=2", true},
		{"b^2= a-2", false},
		{"qweresdaa", false},
		{"y = 2", false},
		{"x = 1 = 2", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Expected, IsXEqualNum(tc.Input), tc.Input)
	}
}

func TestFixWords(t *testing.T) {
	p := NewCalculusParser(newTestEnv(t, Config{}))

	fixed, score := p.FixWords("doman sin(x)+2", []string{"domain"})
	assert.Equal(t, "domain sin(x)+2", fixed)
	assert.InDelta(t, 10.0/11, score, 1e-9)
	assert.Equal(t, []string{"Interpreting 'doman' as 'domain'"}, p.Warnings())

	p.ClearWarnings()
	fixed, _ = p.FixWords("domain of x", []string{"domain"})
	assert.Equal(t, "", fixed)
	assert.Empty(t, p.Warnings())

	fixed, _ = p.FixWords("qwerty x", []string{"domain"})
	assert.Equal(t, "", fixed)
	assert.Empty(t, p.Warnings())
}

func TestNormalizeVariables(t *testing.T) {
	var testCases = []struct {
		Input    string
		Expected string
		Warnings int
	}{
		{"x + a", "x + y", 1},
		{"y + a", "x + y", 1},
		{"a^2 + b", "y**2 + x", 1},
		{"t^2", "x**2", 1},
		{"x + y", "x + y", 0},
		{"x^2", "x**2", 0},
		{"5", "5", 0},
	}

	for _, tc := range testCases {
		g := NewGraphParser(newTestEnv(t, Config{}))
		st, err := buildStatement(tc.Input, buildOptions{})
		require.NoError(t, err, tc.Input)

		once := g.normalizeVariables(st.expr)
		assert.Equal(t, tc.Expected, once.String(), tc.Input)
		assert.Len(t, g.Warnings(), tc.Warnings, tc.Input)

		twice := g.normalizeVariables(once)
		assert.Equal(t, once.String(), twice.String(), tc.Input)
		assert.Len(t, g.Warnings(), tc.Warnings, tc.Input)
	}
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(strings.NewReader(`{
		"second": {"patterns": {"b(\\d+)": ["1"]}, "keywords": ["b"]},
		"first": {"keywords": ["a"], "patterns": {"a(\\d+) (\\w+)": [1, 2], "a": [0]}}
	}`))
	require.NoError(t, err)
	require.Len(t, table.Categories, 2)

	assert.Equal(t, "second", table.Categories[0].Name)
	assert.Equal(t, []int{1}, table.Categories[0].Patterns[0].Groups)
	assert.Equal(t, "first", table.Categories[1].Name)
	assert.Equal(t, "a(\\d+) (\\w+)", table.Categories[1].Patterns[0].Source)
	assert.Equal(t, []string{"a"}, table.Categories[1].Keywords)

	m := exactMatch(table, "a12 xyz")
	require.NotNil(t, m)
	assert.Equal(t, "12", m.expression())
	assert.Equal(t, []string{"xyz"}, m.params())

	// Patterns are anchored at the start only.
	assert.Nil(t, exactMatch(table, "xa12 xyz"))
	assert.NotNil(t, exactMatch(table, "b1 and more"))

	var badCases = []string{
		`[]`,
		`{"x": {"patterns": {"(": [1]}}}`,
		`{"x": {"patterns": {"a": [2]}}}`,
		`{"x": {"patterns": {"a": []}}}`,
		`{"x": {"patterns": {"a": ["one"]}}}`,
	}
	for _, input := range badCases {
		_, err := LoadTable(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestNewEnv(t *testing.T) {
	env := newTestEnv(t, Config{})

	assert.Equal(t, DefaultStatementsLimit, env.Config.StatementsLimit)
	assert.Equal(t, DefaultPredictionAccuracy, env.Config.PredictionAccuracy)
	assert.Equal(t, DefaultTimeout, env.Config.Timeout.Duration)

	for _, a := range Actions() {
		assert.NotNil(t, env.Analysis.Category(a.String()), a.String())
	}
	for _, name := range []string{"domain", "range", "aspect ratio"} {
		assert.NotNil(t, env.Graph.Category(name), name)
	}

	_, err := NewEnv(Config{GraphPatterns: "does/not/exist.json"}, nil)
	assert.Error(t, err)
}

func TestPool(t *testing.T) {
	pool := NewPool(1)
	ctx := context.Background()

	assert.NoError(t, pool.Do(ctx, time.Second, func() error { return nil }))

	boom := errors.New("boom")
	assert.Equal(t, boom, pool.Do(ctx, time.Second, func() error { return boom }))

	release := make(chan struct{})
	err := pool.Do(ctx, 20*time.Millisecond, func() error {
		<-release
		return nil
	})
	assert.Equal(t, ErrTimeout, err)

	// The only worker is still busy, so this one times out waiting for it.
	err = pool.Do(ctx, 20*time.Millisecond, func() error { return nil })
	assert.Equal(t, ErrTimeout, err)
	close(release)

	err = pool.Do(ctx, time.Second, func() error { panic("bad input") })
	assert.EqualError(t, err, "computation failed: bad input")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = pool.Do(cancelled, time.Second, func() error { return nil })
	assert.True(t, err == context.Canceled || err == nil)
}
