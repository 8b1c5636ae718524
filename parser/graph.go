package parser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/plotbird/plotbird/mathfunc"
	"github.com/plotbird/plotbird/symbolic"
)

// Tokens is what a plotting request resolves to. Domain and Range are
// either empty or [left, right] with left < right. AspectRatio is empty or
// holds one positive number.
type Tokens struct {
	AspectRatio []float64
	Domain      []float64
	Range       []float64
	Explicit    []*mathfunc.Function
	Implicit    []*mathfunc.Function
}

// Functions returns the explicit functions followed by the implicit ones.
func (t *Tokens) Functions() []*mathfunc.Function {
	out := make([]*mathfunc.Function, 0, len(t.Explicit)+len(t.Implicit))
	out = append(out, t.Explicit...)
	return append(out, t.Implicit...)
}

// GraphParser reads plotting requests such as "y = x**2, from -5 to 5". It
// is meant for one request at a time.
type GraphParser struct {
	Parser
}

// NewGraphParser returns a parser using the shared environment.
func NewGraphParser(env *Env) *GraphParser {
	return &GraphParser{Parser: newParser(env, "graph")}
}

// Parse splits the request into statements. Each one either sets a plot
// parameter or is parsed as a function. A statement that takes too long to
// parse fails the request with ErrTimeout.
func (g *GraphParser) Parse(ctx context.Context, text string) (*Tokens, error) {
	parts, err := SplitQuery(text)
	if err != nil {
		return nil, err
	}

	limit := g.env.Config.StatementsLimit
	if len(parts) >= limit {
		return nil, newError(Structural, text, "Too many arguments. The limit is %d statements.", limit)
	}

	tokens := &Tokens{}
	for _, token := range parts {
		token = strings.TrimSpace(token)

		if m := exactMatch(g.env.Graph, token); m != nil {
			if err := tokens.apply(m, token); err != nil {
				return nil, err
			}
			continue
		}

		f, err := g.function(ctx, token)
		if errors.Is(err, ErrTimeout) {
			return nil, err
		}
		if err != nil {
			if m := g.correctedMatch(g.env.Graph, token); m != nil {
				if err := tokens.apply(m, token); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if f.Kind == mathfunc.Implicit {
			tokens.Implicit = append(tokens.Implicit, f)
		} else {
			tokens.Explicit = append(tokens.Explicit, f)
		}
	}

	count := len(tokens.Explicit) + len(tokens.Implicit)
	if count > g.env.Config.FunctionsLimit {
		return nil, newError(Structural, text, "Too many functions: %d. The limit is %d functions.",
			count, g.env.Config.FunctionsLimit)
	}

	return tokens, nil
}

// function builds and classifies one statement. The symbolic work runs on
// the worker pool under the statement timeout.
func (g *GraphParser) function(ctx context.Context, token string) (*mathfunc.Function, error) {
	var (
		st         *statement
		xEqualsNum bool
	)

	err := g.env.Pool.Do(ctx, g.env.Config.Timeout.Duration, func() error {
		var err error
		if st, err = buildStatement(token, buildOptions{}); err != nil {
			return err
		}
		xEqualsNum = IsXEqualNum(token)
		return nil
	})
	if err != nil {
		return nil, g.wrap(token, err)
	}

	e := g.normalizeVariables(st.expr)

	if n, limit := len(e.String()), g.env.Config.ExpressionLengthLimit; n > limit {
		return nil, newError(Structural, token,
			"Expression is too long: %d characters, the limit is %d.\nYour input: %s", n, limit, token)
	}

	var kind mathfunc.Kind
	switch vars := symbolic.FreeSymbols(e); {
	case len(vars) == 2 || xEqualsNum || st.relation:
		kind = mathfunc.Implicit
	case len(vars) <= 1:
		kind = mathfunc.Explicit
	default:
		return nil, newError(Classification, token, "Cannot resolve statement: %s", token)
	}

	g.log.WithFields(logrus.Fields{
		"statement": token,
		"kind":      kind,
	}).Debug("Parsed function")

	return mathfunc.New(token, e, kind), nil
}

func (p *Parser) wrap(token string, err error) error {
	var perr *ParseError
	switch {
	case errors.Is(err, ErrTimeout):
		p.log.WithField("statement", token).Warn("Statement timed out")
		return err
	case errors.As(err, &perr):
		return err
	case errors.Is(err, context.Canceled):
		return err
	}

	return &ParseError{
		Kind:  Construction,
		Input: token,
		Msg:   "Mistake in expression.\nYour input: " + token + "\nPlease, check your math formula.",
		Err:   err,
	}
}

func (t *Tokens) apply(m *match, token string) error {
	name := m.category.Name

	switch name {
	case "domain", "range":
		left, errL := parseNumber(m.groups[0])
		right, errR := parseNumber(m.groups[1])
		if errL != nil || errR != nil {
			return newError(Structural, token,
				"Mistake in function %s parameters.\nYour input: %s\nPlease, check if numbers are correct.",
				name, token)
		}
		if left >= right {
			return newError(Structural, token,
				"Mistake in function %s parameters.\nYour input: %s\nLeft argument cannot be more or equal than right one: %g >= %g.",
				name, token, left, right)
		}
		if name == "domain" {
			t.Domain = []float64{left, right}
		} else {
			t.Range = []float64{left, right}
		}

	case "aspect ratio":
		ratio, err := parseNumber(m.groups[0])
		if err != nil {
			return newError(Structural, token,
				"Mistake in aspect ratio.\nYour input: %s\nPlease, check if number is correct.", token)
		}
		if ratio <= 0 {
			return newError(Structural, token,
				"Mistake in aspect ratio.\nYour input: %s\nAspect ratio cannot be negative or equal to zero.", token)
		}
		t.AspectRatio = []float64{ratio}

	default:
		return newError(Structural, token, "Unknown plot parameter %q", name)
	}

	return nil
}

func parseNumber(s string) (float64, error) {
	v, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}

	return v, nil
}
