// Package symbolic is a small real-valued computer algebra kernel: an
// auto-simplifying expression tree, a text parser, differentiation, numeric
// evaluation, and the handful of analysis routines (solving, limits, domain,
// range, convexity, periodicity) the analysis commands need.
package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// Value is anything that can be rendered back to a user: expressions, sets
// and booleans.
type Value interface {
	String() string
	LaTeX() string
}

// Expr is a node of the expression tree. Values are immutable; every
// constructor returns a canonical form, so two expressions are equal when they
// print the same.
type Expr interface {
	Value
	isExpr()
}

// Num is an exact rational number.
type Num struct {
	r *big.Rat
}

// Float is an inexact number, produced by numeric fallbacks.
type Float struct {
	V float64
}

// Sym is a free variable.
type Sym struct {
	Name string
}

// Const is a named mathematical constant (pi or E).
type Const struct {
	Name string
}

// Infinity is positive or negative real infinity.
type Infinity struct {
	Neg bool
}

// Undefined marks results with no real value, such as 1/0 or a limit that
// does not exist.
type Undefined struct{}

// Add is a sum of at least two canonical terms.
type Add struct {
	Terms []Expr
}

// Mul is a product of at least two canonical factors. A numeric coefficient,
// if any, is always the first factor.
type Mul struct {
	Factors []Expr
}

// Pow is Base raised to Exp.
type Pow struct {
	Base Expr
	Exp  Expr
}

// Func is a named single argument function such as sin or log.
type Func struct {
	Name string
	Arg  Expr
}

// Eq is the relation Lhs = Rhs.
type Eq struct {
	Lhs Expr
	Rhs Expr
}

func (*Num) isExpr()       {}
func (*Float) isExpr()     {}
func (*Sym) isExpr()       {}
func (*Const) isExpr()     {}
func (*Infinity) isExpr()  {}
func (*Undefined) isExpr() {}
func (*Add) isExpr()       {}
func (*Mul) isExpr()       {}
func (*Pow) isExpr()       {}
func (*Func) isExpr()      {}
func (*Eq) isExpr()        {}

// Frequently used values.
var (
	Zero   Expr = Int(0)
	One    Expr = Int(1)
	NegOne Expr = Int(-1)
	Two    Expr = Int(2)
	Half   Expr = Rat(1, 2)

	Pi     Expr = &Const{Name: "pi"}
	E      Expr = &Const{Name: "E"}
	Oo     Expr = &Infinity{}
	NegOo  Expr = &Infinity{Neg: true}
	Nan    Expr = &Undefined{}
	XSym   Expr = &Sym{Name: "x"}
	YSym   Expr = &Sym{Name: "y"}
)

// Int returns the exact integer n.
func Int(n int64) Expr {
	return &Num{r: new(big.Rat).SetInt64(n)}
}

// Rat returns the exact fraction a/b.
func Rat(a, b int64) Expr {
	return &Num{r: big.NewRat(a, b)}
}

// NewNum wraps a big.Rat. The value is copied.
func NewNum(r *big.Rat) Expr {
	return &Num{r: new(big.Rat).Set(r)}
}

// NewFloat returns an inexact number. NaN becomes Undefined and the
// infinities become Oo and NegOo.
func NewFloat(v float64) Expr {
	switch {
	case math.IsNaN(v):
		return Nan
	case math.IsInf(v, 1):
		return Oo
	case math.IsInf(v, -1):
		return NegOo
	}

	return &Float{V: v}
}

// S returns the symbol with the given name.
func S(name string) Expr {
	return &Sym{Name: name}
}

// Rat returns a copy of the exact value.
func (n *Num) Rat() *big.Rat {
	return new(big.Rat).Set(n.r)
}

// IsInt reports whether the number is an integer.
func (n *Num) IsInt() bool {
	return n.r.IsInt()
}

// Sign returns -1, 0 or 1.
func (n *Num) Sign() int {
	return n.r.Sign()
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b Expr) bool {
	return a.String() == b.String()
}

// IsNumber reports whether e is a Num or a Float.
func IsNumber(e Expr) bool {
	switch e.(type) {
	case *Num, *Float:
		return true
	}

	return false
}

// IsZero reports whether e is numerically zero.
func IsZero(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.r.Sign() == 0
	case *Float:
		return v.V == 0
	}

	return false
}

// IsOne reports whether e is numerically one.
func IsOne(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.r.IsInt() && v.r.Num().IsInt64() && v.r.Num().Int64() == 1
	case *Float:
		return v.V == 1
	}

	return false
}

// IsUndefined reports whether e is, or contains, an undefined value.
func IsUndefined(e Expr) bool {
	undefined := false
	walk(e, func(n Expr) bool {
		if _, ok := n.(*Undefined); ok {
			undefined = true
		}
		return !undefined
	})

	return undefined
}

// IsInfinite reports whether e is Oo or NegOo.
func IsInfinite(e Expr) bool {
	_, ok := e.(*Infinity)
	return ok
}

// IsFinite reports whether e evaluates to a finite real number with no free
// symbols.
func IsFinite(e Expr) bool {
	if len(FreeSymbols(e)) > 0 {
		return false
	}

	v := Eval(e, nil)

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Has reports whether the symbol name occurs in e.
func Has(e Expr, name string) bool {
	found := false
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok && s.Name == name {
			found = true
		}
		return !found
	})

	return found
}

// FreeSymbols returns the sorted names of all symbols in e.
func FreeSymbols(e Expr) []string {
	seen := make(map[string]bool)
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok {
			seen[s.Name] = true
		}
		return true
	})

	ret := make([]string, 0, len(seen))
	for name := range seen {
		ret = append(ret, name)
	}
	sort.Strings(ret)

	return ret
}

// Args returns the direct children of e.
func Args(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.Terms
	case *Mul:
		return v.Factors
	case *Pow:
		return []Expr{v.Base, v.Exp}
	case *Func:
		return []Expr{v.Arg}
	case *Eq:
		return []Expr{v.Lhs, v.Rhs}
	}

	return nil
}

// walk visits e depth first. Returning false from fn stops descent below the
// current node.
func walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}

	for _, a := range Args(e) {
		walk(a, fn)
	}
}

// Subs replaces every occurrence of the symbol name with value and
// re-canonicalises the result.
func Subs(e Expr, name string, value Expr) Expr {
	switch v := e.(type) {
	case *Sym:
		if v.Name == name {
			return value
		}
		return v
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Subs(t, name, value)
		}
		return NewAdd(terms...)
	case *Mul:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = Subs(f, name, value)
		}
		return NewMul(factors...)
	case *Pow:
		return NewPow(Subs(v.Base, name, value), Subs(v.Exp, name, value))
	case *Func:
		return NewFunc(v.Name, Subs(v.Arg, name, value))
	case *Eq:
		return &Eq{Lhs: Subs(v.Lhs, name, value), Rhs: Subs(v.Rhs, name, value)}
	}

	return e
}

// Rename renames symbols according to the mapping. All renames happen at
// once, so swapping two names is safe.
func Rename(e Expr, mapping map[string]string) Expr {
	switch v := e.(type) {
	case *Sym:
		if to, ok := mapping[v.Name]; ok {
			return S(to)
		}
		return v
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Rename(t, mapping)
		}
		return NewAdd(terms...)
	case *Mul:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = Rename(f, mapping)
		}
		return NewMul(factors...)
	case *Pow:
		return NewPow(Rename(v.Base, mapping), Rename(v.Exp, mapping))
	case *Func:
		return NewFunc(v.Name, Rename(v.Arg, mapping))
	case *Eq:
		return &Eq{Lhs: Rename(v.Lhs, mapping), Rhs: Rename(v.Rhs, mapping)}
	}

	return e
}

// Neg returns -e.
func Neg(e Expr) Expr {
	return NewMul(NegOne, e)
}

// Sub returns a - b.
func Sub(a, b Expr) Expr {
	return NewAdd(a, Neg(b))
}

// Div returns a / b.
func Div(a, b Expr) Expr {
	return NewMul(a, NewPow(b, NegOne))
}
