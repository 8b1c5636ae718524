// Package mathfunc holds a parsed user function and the analysis operations
// that can be requested on it.
package mathfunc

import (
	"github.com/plotbird/plotbird/symbolic"
)

// Kind tells the plotter how a function has to be drawn.
type Kind int

const (
	// Explicit functions are plotted as y = f(x).
	Explicit Kind = iota
	// Implicit functions are relations drawn as a level curve.
	Implicit
)

func (k Kind) String() string {
	if k == Implicit {
		return "implicit"
	}

	return "explicit"
}

// Function is one parsed statement. It is not modified after construction.
type Function struct {
	// Source is the user's text for this statement, trimmed.
	Source string
	// Expr is either a plain expression or a relation reduced to
	// lhs - rhs = 0.
	Expr symbolic.Expr
	Kind Kind
	// Variables are the free symbols, first one being the independent axis.
	Variables []string
}

// New builds a function with variables sorted by name.
func New(source string, expr symbolic.Expr, kind Kind) *Function {
	return &Function{
		Source:    source,
		Expr:      expr,
		Kind:      kind,
		Variables: symbolic.FreeSymbols(expr),
	}
}

func (f *Function) String() string {
	return f.Source
}

// Body returns the expression with any relation reduced to lhs - rhs.
func (f *Function) Body() symbolic.Expr {
	if eq, ok := f.Expr.(*symbolic.Eq); ok {
		return symbolic.Sub(eq.Lhs, eq.Rhs)
	}

	return f.Expr
}

// IsRelation reports whether the statement was written as an equation.
func (f *Function) IsRelation() bool {
	_, ok := f.Expr.(*symbolic.Eq)
	return ok
}

// WithVariables returns a copy bound to the given variable order.
func (f *Function) WithVariables(vars []string) *Function {
	dup := *f
	dup.Variables = append([]string(nil), vars...)

	return &dup
}

func (f *Function) mainVar() string {
	if len(f.Variables) == 0 {
		return "x"
	}

	return f.Variables[0]
}
