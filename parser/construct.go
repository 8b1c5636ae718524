package parser

import (
	"strings"

	"github.com/plotbird/plotbird/symbolic"
)

// statement is the result of building one statement.
type statement struct {
	expr symbolic.Expr
	// relation is set when expr is an equation lhs - rhs = 0.
	relation bool
}

type buildOptions struct {
	implicitMultiplication bool
	// residual turns relations into the plain expression lhs - rhs.
	residual bool
}

// buildStatement parses a statement of the form "expr" or "lhs = rhs".
// A bare "y = expr" keeps only the right side when it does not mention y.
func buildStatement(token string, opts buildOptions) (*statement, error) {
	source := strings.TrimSpace(token)
	token = NormalizeFunctions(token)
	parts := strings.Split(token, "=")

	parse := func(s string) (symbolic.Expr, error) {
		e, err := symbolic.Parse(s, symbolic.ParseOptions{ImplicitMultiplication: opts.implicitMultiplication})
		if err != nil {
			return nil, &ParseError{
				Kind:  Construction,
				Input: source,
				Msg:   "Mistake in expression.\nYour input: " + source + "\nPlease, check your math formula.",
				Err:   err,
			}
		}
		return e, nil
	}

	switch len(parts) {
	case 1:
		e, err := parse(parts[0])
		if err != nil {
			return nil, err
		}
		return &statement{expr: symbolic.Simplify(e)}, nil

	case 2:
		lhs, err := parse(parts[0])
		if err != nil {
			return nil, err
		}
		rhs, err := parse(parts[1])
		if err != nil {
			return nil, err
		}

		vars := symbolic.FreeSymbols(&symbolic.Eq{Lhs: lhs, Rhs: rhs})
		if len(vars) > 2 {
			return nil, newError(Construction, source,
				"Incorrect expression: %s\nThere are %d variables: %s\nYou can use a maximum of 2 variables.",
				source, len(vars), strings.Join(vars, ", "))
		}

		residual := symbolic.Simplify(symbolic.Sub(lhs, rhs))
		if len(symbolic.FreeSymbols(symbolic.Expand(residual))) == 0 {
			return nil, newError(Construction, source,
				"Result of expression '%s' is always %s", source, truthOf(residual))
		}

		if strings.TrimSpace(parts[0]) == "y" && !sharesSymbols(lhs, rhs) {
			return &statement{expr: symbolic.Simplify(rhs)}, nil
		}

		if opts.residual {
			return &statement{expr: residual}, nil
		}

		return &statement{
			expr:     &symbolic.Eq{Lhs: residual, Rhs: symbolic.Zero},
			relation: true,
		}, nil
	}

	return nil, newError(Construction, source,
		"Mistake in implicit function: found more than one equals sign.\nYour input: %s\nPlease, check your math formula.",
		source)
}

func truthOf(residual symbolic.Expr) string {
	if symbolic.IsZero(symbolic.Expand(residual)) {
		return "True"
	}

	return "False"
}

func sharesSymbols(a, b symbolic.Expr) bool {
	for _, v := range symbolic.FreeSymbols(a) {
		if symbolic.Has(b, v) {
			return true
		}
	}

	return false
}

// checkVariableNames rejects symbols that are not made of letters only.
func checkVariableNames(vars []string) error {
	for _, v := range vars {
		if !isAlpha(v) {
			return newError(VariableName, v,
				"Variables can only contain letters\nIncorrect variable: '%s'", v)
		}
	}

	return nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}

	return true
}
