package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird/mathfunc"
	"github.com/plotbird/plotbird/symbolic"
)

// CalculusParser reads analysis requests such as "diff x^2 by x" or
// "doman sin(x)+2" and computes the answer. It is meant for one request at
// a time.
type CalculusParser struct {
	Parser

	Action   Action
	Function *mathfunc.Function
	// AdditionalParams are the secondary captures of the matched pattern,
	// such as the variables to differentiate by.
	AdditionalParams []string
}

// NewCalculusParser returns a parser using the shared environment.
func NewCalculusParser(env *Env) *CalculusParser {
	return &CalculusParser{Parser: newParser(env, "calculus")}
}

// Parse matches the query against the analysis patterns and binds the
// action and function. It returns false without an error when no pattern
// fits, even after correcting misspelled words.
func (c *CalculusParser) Parse(ctx context.Context, query string) (bool, error) {
	query = strings.TrimSpace(query)
	if _, err := SplitQuery(query); err != nil {
		return false, err
	}

	table := c.env.Analysis

	if m := exactMatch(table, query); m != nil {
		err := c.bind(ctx, m)
		if err == nil {
			return true, nil
		}
		if !IsKind(err, Construction) {
			return false, err
		}

		// The words may have been read wrong, such as "max imum x".
		kept := len(c.warnings)
		if m := c.correctedMatch(table, query); m != nil && c.bind(ctx, m) == nil {
			return true, nil
		}
		c.warnings = c.warnings[:kept]

		return false, err
	}

	m := c.correctedMatch(table, query)
	if m == nil {
		c.log.WithField("query", query).Debug("No pattern matched")
		return false, nil
	}

	if err := c.bind(ctx, m); err != nil {
		return false, err
	}

	return true, nil
}

// Matches reports whether query reads like an analysis request at all,
// without checking the expression inside it.
func (c *CalculusParser) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if exactMatch(c.env.Analysis, query) != nil {
		return true
	}

	kept := len(c.warnings)
	defer func() { c.warnings = c.warnings[:kept] }()

	return c.correctedMatch(c.env.Analysis, query) != nil
}

func (c *CalculusParser) bind(ctx context.Context, m *match) error {
	action, ok := ParseAction(m.category.Name)
	if !ok {
		return newError(Structural, m.category.Name, "Unknown analysis %q", m.category.Name)
	}

	source := strings.TrimSpace(m.expression())

	var st *statement
	err := c.env.Pool.Do(ctx, c.env.Config.Timeout.Duration, func() error {
		var err error
		st, err = buildStatement(source, buildOptions{implicitMultiplication: true, residual: true})
		return err
	})
	if err != nil {
		return c.wrap(source, err)
	}

	vars := symbolic.FreeSymbols(st.expr)
	if err := checkVariableNames(vars); err != nil {
		return err
	}

	kind := mathfunc.Explicit
	if len(vars) > 1 {
		kind = mathfunc.Implicit
	}

	f := mathfunc.New(source, st.expr, kind)
	if len(vars) == 0 {
		// Every analysis needs a variable to work along.
		f = f.WithVariables([]string{"x"})
	}

	c.Action = action
	c.Function = f
	c.AdditionalParams = m.params()

	c.log.WithFields(logrus.Fields{
		"action":   action,
		"function": f.Expr,
	}).Debug("Bound analysis")

	return nil
}

// ProcessQuery runs the bound action on the worker pool. Actions answering
// several questions return their results in a fixed order: the first axis
// before the second, increasing before decreasing, and vertical, horizontal
// then slant asymptotes.
func (c *CalculusParser) ProcessQuery(ctx context.Context) ([]symbolic.Value, error) {
	if c.Function == nil {
		return nil, errors.New("no analysis query has been parsed")
	}

	var out []symbolic.Value
	err := c.env.Pool.Do(ctx, c.env.Config.Timeout.Duration, func() error {
		var err error
		out, err = c.compute()
		return err
	})

	var perr *ParseError
	var cerr *mathfunc.ComputeError
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, ErrTimeout):
		c.log.WithField("action", c.Action).Warn("Analysis timed out")
		return nil, err
	case errors.As(err, &perr), errors.As(err, &cerr), errors.Is(err, context.Canceled):
		return nil, err
	}

	return nil, &mathfunc.ComputeError{Action: c.Action.String(), Err: err}
}

func (c *CalculusParser) compute() ([]symbolic.Value, error) {
	f := c.Function

	one := func(v symbolic.Value, err error) ([]symbolic.Value, error) {
		if err != nil {
			return nil, err
		}
		return []symbolic.Value{v}, nil
	}
	set := func(s symbolic.Set, err error) ([]symbolic.Value, error) {
		return one(s, err)
	}
	expr := func(e symbolic.Expr, err error) ([]symbolic.Value, error) {
		return one(e, err)
	}
	yes := func(b bool, err error) ([]symbolic.Value, error) {
		return one(symbolic.Bool(b), err)
	}

	switch c.Action {
	case Derivative:
		vars, err := c.derivativeVariables()
		if err != nil {
			return nil, err
		}
		return expr(f.Derivative(vars...))
	case Domain:
		return set(f.Domain())
	case Range:
		return set(f.Range())
	case Zeros:
		return set(f.Zeros())
	case AxesIntersection:
		axes := c.axes()
		onFirst, onSecond := f.AxesIntersection(axes[0], axes[1])
		return []symbolic.Value{onFirst, onSecond}, nil
	case Periodicity:
		return one(f.Periodicity())
	case Convexity:
		return yes(f.Convexity())
	case Concavity:
		return yes(f.Concavity())
	case Continuity:
		return set(f.Continuity())
	case Monotonicity:
		inc, dec, err := f.Monotonicity()
		if err != nil {
			return nil, err
		}
		return []symbolic.Value{inc, dec}, nil
	case VerticalAsymptotes:
		return set(f.VerticalAsymptotes())
	case HorizontalAsymptotes:
		return set(f.HorizontalAsymptotes())
	case SlantAsymptotes:
		return set(f.SlantAsymptotes())
	case Asymptotes:
		sets, err := f.Asymptotes()
		if err != nil {
			return nil, err
		}
		return []symbolic.Value{sets[0], sets[1], sets[2]}, nil
	case Evenness:
		return yes(f.IsEven(), nil)
	case Oddness:
		return yes(f.IsOdd(), nil)
	case Maximum:
		return expr(f.Maximum())
	case Minimum:
		return expr(f.Minimum())
	case StationaryPoints:
		return set(f.StationaryPoints())
	}

	return nil, fmt.Errorf("unknown action %v", c.Action)
}

// derivativeVariables reads the "by x, y" capture.
func (c *CalculusParser) derivativeVariables() ([]string, error) {
	if len(c.AdditionalParams) == 0 {
		return nil, nil
	}

	vars := strings.Fields(strings.ReplaceAll(c.AdditionalParams[0], ",", " "))
	if err := checkVariableNames(vars); err != nil {
		return nil, err
	}

	return vars, nil
}

// axes returns the two variables of an axes intersection. A function of one
// variable gets the other axis guessed: x for y, y for anything else.
func (c *CalculusParser) axes() []string {
	vars := append([]string(nil), c.Function.Variables...)

	if len(vars) == 1 {
		if vars[0] == "y" {
			vars = append(vars, "x")
		} else {
			vars = append(vars, "y")
		}
	}

	return vars[:2]
}
