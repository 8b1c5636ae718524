package parser

import "github.com/plotbird/plotbird/symbolic"

// normalizeVariables renames the variables of e onto x and y, which the
// plotter uses as its axes. At most one rule applies:
//
//   x and one other variable: the other becomes y
//   y and one other variable: the other becomes x
//   two other variables: the first by name becomes y, the second x
//   one other variable: it becomes x
//
// Expressions already on x and y are left alone.
func (p *Parser) normalizeVariables(e symbolic.Expr) symbolic.Expr {
	vars := symbolic.FreeSymbols(e)

	var hasX, hasY bool
	var others []string
	for _, v := range vars {
		switch v {
		case "x":
			hasX = true
		case "y":
			hasY = true
		default:
			others = append(others, v)
		}
	}

	switch {
	case hasX && !hasY && len(others) == 1:
		p.PushWarning("Variable '%s' is replaced by 'y'", others[0])
		return symbolic.Rename(e, map[string]string{others[0]: "y"})

	case hasY && !hasX && len(others) == 1:
		p.PushWarning("Variable '%s' is replaced by 'x'", others[0])
		return symbolic.Rename(e, map[string]string{others[0]: "x"})

	case !hasX && !hasY && len(others) == 2:
		p.PushWarning("Variable '%s' is replaced by 'y',\nvariable '%s' is replaced by 'x'", others[0], others[1])
		return symbolic.Rename(e, map[string]string{others[0]: "y", others[1]: "x"})

	case !hasX && !hasY && len(others) == 1:
		p.PushWarning("Variable '%s' is replaced by 'x'", others[0])
		return symbolic.Rename(e, map[string]string{others[0]: "x"})
	}

	return e
}
