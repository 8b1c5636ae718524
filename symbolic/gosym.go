package symbolic

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymbol"
)

// A bridge converts between this package's canonical trees and gosymbol
// expressions. Subtrees gosymbol should not look inside are swapped for
// placeholder names and swapped back on the way out.
//
// gosymbol folds functions of numbers to floats and differentiates a**x
// through ln(a) evaluated as a float, so anything free of the live symbols
// is frozen before it gets there.
type bridge struct {
	live   map[string]bool
	frozen map[string]Expr
	byKey  map[string]string
}

// newBridge returns a bridge that passes the named symbols through. With no
// names every symbol is live.
func newBridge(live ...string) *bridge {
	br := &bridge{
		frozen: make(map[string]Expr),
		byKey:  make(map[string]string),
	}
	if len(live) > 0 {
		br.live = make(map[string]bool, len(live))
		for _, name := range live {
			br.live[name] = true
		}
	}

	return br
}

// placeholder returns the name standing in for e. Equal subtrees share a
// name so gosymbol can still collect them.
func (br *bridge) placeholder(e Expr) string {
	key := e.String()
	if name, ok := br.byKey[key]; ok {
		return name
	}

	// Two or more letters never parse as a symbol here.
	name := "zz" + strconv.Itoa(len(br.frozen))
	br.frozen[name] = e
	br.byKey[key] = name

	return name
}

func (br *bridge) isLive(e Expr) bool {
	found := false
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok && (br.live == nil || br.live[s.Name]) {
			found = true
		}
		return !found
	})

	return found
}

// to converts e into a gosymbol expression.
func (br *bridge) to(e Expr) (gosymbol.Expr, error) {
	return gosymbol.FromJSON(br.node(e))
}

func numNode(r *big.Rat) map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": r.RatString()}
}

func (br *bridge) constNode(e Expr) map[string]interface{} {
	return map[string]interface{}{"type": "constant", "name": br.placeholder(e)}
}

func (br *bridge) node(e Expr) map[string]interface{} {
	if !br.isLive(e) {
		if n, ok := e.(*Num); ok {
			return numNode(n.r)
		}
		return br.constNode(e)
	}

	switch v := e.(type) {
	case *Sym:
		return map[string]interface{}{"type": "sym", "name": v.Name}
	case *Add:
		terms := make([]interface{}, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = br.node(t)
		}
		return map[string]interface{}{"type": "add", "terms": terms}
	case *Mul:
		factors := make([]interface{}, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = br.node(f)
		}
		return map[string]interface{}{"type": "mul", "factors": factors}
	case *Pow:
		base := br.node(v.Base)
		if _, ok := v.Base.(*Num); ok {
			base = br.constNode(v.Base)
		}
		return map[string]interface{}{"type": "pow", "base": base, "exp": br.node(v.Exp)}
	case *Func:
		name := v.Name
		if name == "log" {
			name = "ln"
		}
		return map[string]interface{}{"type": "func", "name": name, "arg": br.node(v.Arg)}
	}

	return br.constNode(e)
}

// from converts a gosymbol result back into canonical form.
func (br *bridge) from(g gosymbol.Expr) (Expr, error) {
	switch v := g.(type) {
	case *gosymbol.Num:
		return fromRat(v.Rat()), nil
	case *gosymbol.Sym:
		if e, ok := br.frozen[v.Name()]; ok {
			return e, nil
		}
		return S(v.Name()), nil
	case *gosymbol.ConstantNode:
		name := v.String()
		if e, ok := br.frozen[name]; ok {
			return e, nil
		}
		switch name {
		case "inf", "+inf":
			return Oo, nil
		case "-inf":
			return NegOo, nil
		}
		return nil, fmt.Errorf("unknown constant %q", name)
	case *gosymbol.Add:
		terms, err := br.fromAll(v.Terms())
		if err != nil {
			return nil, err
		}
		return NewAdd(terms...), nil
	case *gosymbol.Mul:
		factors, err := br.fromAll(v.Factors())
		if err != nil {
			return nil, err
		}
		return NewMul(factors...), nil
	case *gosymbol.Pow:
		base, err := br.from(v.Base())
		if err != nil {
			return nil, err
		}
		exp, err := br.from(v.ExpExpr())
		if err != nil {
			return nil, err
		}
		return NewPow(base, exp), nil
	case *gosymbol.Func:
		return br.fromFunc(v)
	}

	return nil, fmt.Errorf("unsupported expression %s", g)
}

func (br *bridge) fromAll(in []gosymbol.Expr) ([]Expr, error) {
	out := make([]Expr, len(in))
	for i, g := range in {
		e, err := br.from(g)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}

	return out, nil
}

func (br *bridge) fromFunc(f *gosymbol.Func) (Expr, error) {
	arg, err := br.from(f.Arg())
	if err != nil {
		return nil, err
	}

	name := f.FuncName()

	// gosymbol leaves derivatives of functions it does not know as D[name].
	if strings.HasPrefix(name, "D[") && strings.HasSuffix(name, "]") {
		inner := name[2 : len(name)-1]
		def, ok := funcTable[inner]
		if !ok || def.deriv == nil {
			return nil, fmt.Errorf("no derivative for %s", inner)
		}
		return def.deriv(arg), nil
	}

	switch name {
	case "ln":
		name = "log"
	case "ceil":
		name = "ceiling"
	}
	if !IsKnownFunc(name) {
		return nil, fmt.Errorf("unsupported function %s", name)
	}

	return NewFunc(name, arg), nil
}

// fromRat keeps exact values exact. A denominator that is a large power of
// two means gosymbol went through a float, so the value stays inexact.
func fromRat(r *big.Rat) Expr {
	d := r.Denom()
	if d.BitLen() > 32 && new(big.Int).And(d, new(big.Int).Sub(d, big.NewInt(1))).Sign() == 0 {
		f, _ := r.Float64()
		return NewFloat(f)
	}

	return NewNum(r)
}

// run calls fn, turning a gosymbol panic into an error.
func (br *bridge) run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gosymbol: %v", r)
		}
	}()

	return fn()
}

func gsNum(r *big.Rat) *gosymbol.Num {
	g, err := gosymbol.FromJSON(numNode(r))
	if err != nil {
		panic(err)
	}

	return g.(*gosymbol.Num)
}
