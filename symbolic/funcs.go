package symbolic

import (
	"math"
	"math/big"
)

type parity int

const (
	parityNone parity = iota
	parityOdd
	parityEven
)

// funcDef describes a built in function. deriv is only set for the functions
// gosymbol has no differentiation rule for.
type funcDef struct {
	eval   func(float64) float64
	deriv  func(u Expr) Expr
	parity parity
	exact  func(arg Expr) Expr
	latex  string
	period Expr
}

var funcTable map[string]*funcDef

func init() {
	twoPi := NewMul(Two, Pi)

	funcTable = map[string]*funcDef{
		"sin": {
			eval:   math.Sin,
			parity: parityOdd,
			exact:  func(a Expr) Expr { return trigExact(a, 0) },
			latex:  `\sin`,
			period: twoPi,
		},
		"cos": {
			eval:   math.Cos,
			parity: parityEven,
			exact: func(a Expr) Expr {
				r, ok := piMultiple(a)
				if !ok {
					return nil
				}
				return sinPi(new(big.Rat).Add(r, big.NewRat(1, 2)))
			},
			latex:  `\cos`,
			period: twoPi,
		},
		"tan": {
			eval:   math.Tan,
			parity: parityOdd,
			exact:  func(a Expr) Expr { return ratioExact(a, false) },
			latex:  `\tan`,
			period: Pi,
		},
		"cot": {
			eval:   func(v float64) float64 { return 1 / math.Tan(v) },
			deriv:  func(u Expr) Expr { return NewAdd(Neg(NewPow(NewFunc("cot", u), Two)), NegOne) },
			parity: parityOdd,
			exact:  func(a Expr) Expr { return ratioExact(a, true) },
			latex:  `\cot`,
			period: Pi,
		},
		"sec": {
			eval: func(v float64) float64 { return 1 / math.Cos(v) },
			deriv: func(u Expr) Expr {
				return NewMul(NewFunc("sec", u), NewFunc("tan", u))
			},
			parity: parityEven,
			exact: func(a Expr) Expr {
				c := NewFunc("cos", a)
				if _, ok := c.(*Func); ok {
					return nil
				}
				return NewPow(c, NegOne)
			},
			latex:  `\sec`,
			period: twoPi,
		},
		"csc": {
			eval: func(v float64) float64 { return 1 / math.Sin(v) },
			deriv: func(u Expr) Expr {
				return Neg(NewMul(NewFunc("csc", u), NewFunc("cot", u)))
			},
			parity: parityOdd,
			exact: func(a Expr) Expr {
				s := NewFunc("sin", a)
				if _, ok := s.(*Func); ok {
					return nil
				}
				return NewPow(s, NegOne)
			},
			latex:  `\csc`,
			period: twoPi,
		},
		"asin": {
			eval:   math.Asin,
			parity: parityOdd,
			exact: func(a Expr) Expr {
				return lookupExact(a, map[string]Expr{
					"0": Zero, "1": Div(Pi, Two), "1/2": Div(Pi, Int(6)),
				}, true)
			},
			latex: `\operatorname{asin}`,
		},
		"acos": {
			eval: math.Acos,
			exact: func(a Expr) Expr {
				return lookupExact(a, map[string]Expr{
					"0": Div(Pi, Two), "1": Zero, "-1": Pi,
					"1/2": Div(Pi, Int(3)), "-1/2": NewMul(Rat(2, 3), Pi),
				}, true)
			},
			latex: `\operatorname{acos}`,
		},
		"atan": {
			eval:   math.Atan,
			parity: parityOdd,
			exact: func(a Expr) Expr {
				if inf, ok := a.(*Infinity); ok {
					if inf.Neg {
						return Neg(Div(Pi, Two))
					}
					return Div(Pi, Two)
				}
				return lookupExact(a, map[string]Expr{"0": Zero, "1": Div(Pi, Int(4))}, false)
			},
			latex: `\operatorname{atan}`,
		},
		"acot": {
			eval: func(v float64) float64 {
				if v == 0 {
					return math.Pi / 2
				}
				return math.Atan(1 / v)
			},
			deriv: func(u Expr) Expr {
				return Neg(NewPow(NewAdd(NewPow(u, Two), One), NegOne))
			},
			parity: parityOdd,
			exact: func(a Expr) Expr {
				if IsInfinite(a) {
					return Zero
				}
				return lookupExact(a, map[string]Expr{"0": Div(Pi, Two), "1": Div(Pi, Int(4))}, false)
			},
			latex: `\operatorname{acot}`,
		},
		"sinh": {
			eval:   math.Sinh,
			parity: parityOdd,
			exact:  func(a Expr) Expr { return zeroAt(a, Zero) },
			latex:  `\sinh`,
		},
		"cosh": {
			eval:   math.Cosh,
			parity: parityEven,
			exact:  func(a Expr) Expr { return zeroAt(a, One) },
			latex:  `\cosh`,
		},
		"tanh": {
			eval:   math.Tanh,
			parity: parityOdd,
			exact: func(a Expr) Expr {
				if inf, ok := a.(*Infinity); ok {
					if inf.Neg {
						return NegOne
					}
					return One
				}
				return zeroAt(a, Zero)
			},
			latex: `\tanh`,
		},
		"exp": {
			eval: math.Exp,
			exact: func(a Expr) Expr {
				switch v := a.(type) {
				case *Func:
					if v.Name == "log" {
						return v.Arg
					}
				case *Infinity:
					if v.Neg {
						return Zero
					}
					return Oo
				}
				return zeroAt(a, One)
			},
			latex: "e",
		},
		"log": {
			eval: math.Log,
			exact: func(a Expr) Expr {
				switch v := a.(type) {
				case *Func:
					if v.Name == "exp" {
						return v.Arg
					}
				case *Const:
					if v.Name == "E" {
						return One
					}
				case *Infinity:
					if !v.Neg {
						return Oo
					}
					return Nan
				case *Num:
					if v.Sign() <= 0 {
						return Nan
					}
					if IsOne(v) {
						return Zero
					}
				}
				return nil
			},
			latex: `\log`,
		},
		"abs": {
			eval:   math.Abs,
			deriv:  func(u Expr) Expr { return NewFunc("sign", u) },
			parity: parityEven,
			exact: func(a Expr) Expr {
				switch v := a.(type) {
				case *Num:
					return &Num{r: new(big.Rat).Abs(v.r)}
				case *Infinity:
					return Oo
				case *Const:
					return v
				case *Func:
					if v.Name == "abs" || v.Name == "exp" {
						return v
					}
				}
				return nil
			},
		},
		"sign": {
			eval: func(v float64) float64 {
				switch {
				case v > 0:
					return 1
				case v < 0:
					return -1
				}
				return 0
			},
			deriv:  func(Expr) Expr { return Zero },
			parity: parityOdd,
			exact: func(a Expr) Expr {
				if n, ok := a.(*Num); ok {
					return Int(int64(n.Sign()))
				}
				if _, ok := a.(*Const); ok {
					return One
				}
				return nil
			},
			latex: `\operatorname{sign}`,
		},
		"floor": {
			eval:  math.Floor,
			deriv: func(Expr) Expr { return Zero },
			exact: func(a Expr) Expr {
				if n, ok := a.(*Num); ok {
					return roundRat(n.r, false)
				}
				return nil
			},
		},
		"ceiling": {
			eval:  math.Ceil,
			deriv: func(Expr) Expr { return Zero },
			exact: func(a Expr) Expr {
				if n, ok := a.(*Num); ok {
					return roundRat(n.r, true)
				}
				return nil
			},
		},
	}
}

// IsKnownFunc reports whether name is a built in function.
func IsKnownFunc(name string) bool {
	_, ok := funcTable[name]
	return ok
}

// NewFunc applies the named function to arg, folding known exact values and
// using the function's parity to pull out a leading minus sign.
func NewFunc(name string, arg Expr) Expr {
	def, ok := funcTable[name]
	if !ok {
		return &Func{Name: name, Arg: arg}
	}

	if IsUndefined(arg) {
		return Nan
	}

	if f, ok := arg.(*Float); ok {
		return NewFloat(def.eval(f.V))
	}

	if def.exact != nil {
		if r := def.exact(arg); r != nil {
			return r
		}
	}

	if IsInfinite(arg) {
		return Nan
	}

	if def.parity != parityNone && couldExtractMinus(arg) {
		inner := NewFunc(name, Neg(arg))
		if def.parity == parityOdd {
			return Neg(inner)
		}
		return inner
	}

	return &Func{Name: name, Arg: arg}
}

// couldExtractMinus reports whether e reads more naturally with its sign
// flipped, e.g. -x or -x + 1.
func couldExtractMinus(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Float:
		return numberSign(v) < 0
	case *Mul:
		return IsNumber(v.Factors[0]) && numberSign(v.Factors[0]) < 0
	case *Add:
		return couldExtractMinus(v.Terms[0])
	}

	return false
}

// piMultiple returns r when e is exactly r*pi.
func piMultiple(e Expr) (*big.Rat, bool) {
	switch v := e.(type) {
	case *Num:
		if v.Sign() == 0 {
			return new(big.Rat), true
		}
	case *Const:
		if v.Name == "pi" {
			return big.NewRat(1, 1), true
		}
	case *Mul:
		if len(v.Factors) == 2 {
			if n, ok := v.Factors[0].(*Num); ok {
				if c, ok := v.Factors[1].(*Const); ok && c.Name == "pi" {
					return n.Rat(), true
				}
			}
		}
	}

	return nil, false
}

// sinPi returns sin(r*pi) for the angles with well known closed forms.
func sinPi(r *big.Rat) Expr {
	two := big.NewRat(2, 1)
	one := big.NewRat(1, 1)
	half := big.NewRat(1, 2)

	x := new(big.Rat).Set(r)
	// reduce into [0, 2)
	q := new(big.Rat).Quo(x, two)
	fl := new(big.Int).Div(q.Num(), q.Denom())
	x.Sub(x, new(big.Rat).Mul(new(big.Rat).SetInt(fl), two))

	sign := int64(1)
	if x.Cmp(one) >= 0 {
		x.Sub(x, one)
		sign = -1
	}
	if x.Cmp(half) > 0 {
		x.Sub(one, x)
	}

	var v Expr
	switch x.RatString() {
	case "0":
		v = Zero
	case "1/6":
		v = Half
	case "1/4":
		v = NewMul(Half, NewPow(Two, Half))
	case "1/3":
		v = NewMul(Half, NewPow(Int(3), Half))
	case "1/2":
		v = One
	default:
		return nil
	}

	return NewMul(Int(sign), v)
}

func trigExact(a Expr, shift int64) Expr {
	r, ok := piMultiple(a)
	if !ok {
		return nil
	}

	return sinPi(new(big.Rat).Add(r, big.NewRat(shift, 2)))
}

func ratioExact(a Expr, invert bool) Expr {
	r, ok := piMultiple(a)
	if !ok {
		return nil
	}

	s := sinPi(r)
	c := sinPi(new(big.Rat).Add(r, big.NewRat(1, 2)))
	if s == nil || c == nil {
		return nil
	}
	if invert {
		s, c = c, s
	}
	if IsZero(c) {
		return Nan
	}

	return Div(s, c)
}

// lookupExact maps exact numeric arguments to known values. With symmetric
// set, -a is looked up through the function's odd parity by the caller.
func lookupExact(a Expr, table map[string]Expr, bounded bool) Expr {
	n, ok := a.(*Num)
	if !ok {
		return nil
	}
	if v, ok := table[n.String()]; ok {
		return v
	}
	if bounded && new(big.Rat).Abs(n.r).Cmp(big.NewRat(1, 1)) > 0 {
		return Nan
	}

	return nil
}

func zeroAt(a, v Expr) Expr {
	if IsZero(a) {
		return v
	}

	return nil
}

func roundRat(r *big.Rat, up bool) Expr {
	q, m := new(big.Int).DivMod(r.Num(), r.Denom(), new(big.Int))
	if up && m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}

	return &Num{r: new(big.Rat).SetInt(q)}
}
