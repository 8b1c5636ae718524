package symbolic

import (
	"math"
	"sort"
	"strings"
)

// Set is a subset of the real line, or a family of points, returned by the
// solver and the domain and range routines.
type Set interface {
	Value
	isSet()
}

// Bool is a yes/no answer.
type Bool bool

func (b Bool) String() string {
	if b {
		return "True"
	}

	return "False"
}

// LaTeX renders the answer as upright text.
func (b Bool) LaTeX() string {
	return `\text{` + b.String() + "}"
}

// Empty is the empty set.
type Empty struct{}

// Interval is a connected piece of the real line. Infinite ends are always
// open.
type Interval struct {
	Lo, Hi              Expr
	LeftOpen, RightOpen bool
}

// FiniteSet is a sorted list of points.
type FiniteSet struct {
	Elems []Expr
}

// Union joins disjoint sets.
type Union struct {
	Sets []Set
}

// ImageSet is the periodic family {Offset + n*Step | n in Z}.
type ImageSet struct {
	Offset Expr
	Step   Expr
}

// Complement is A without B.
type Complement struct {
	A, B Set
}

// ConditionSet stands for the points of Base where Cond holds, when the
// condition could not be resolved in closed form.
type ConditionSet struct {
	Var  string
	Cond string
	Base Set
}

func (*Empty) isSet()        {}
func (*Interval) isSet()     {}
func (*FiniteSet) isSet()    {}
func (*Union) isSet()        {}
func (*ImageSet) isSet()     {}
func (*Complement) isSet()   {}
func (*ConditionSet) isSet() {}

// Reals returns the whole real line.
func Reals() *Interval {
	return &Interval{Lo: NegOo, Hi: Oo, LeftOpen: true, RightOpen: true}
}

// EmptySet returns the empty set.
func EmptySet() Set {
	return &Empty{}
}

// IsEmpty reports whether s is the empty set.
func IsEmpty(s Set) bool {
	switch v := s.(type) {
	case *Empty:
		return true
	case *FiniteSet:
		return len(v.Elems) == 0
	case *Union:
		for _, sub := range v.Sets {
			if !IsEmpty(sub) {
				return false
			}
		}
		return true
	}

	return false
}

// IsReals reports whether s is the whole real line.
func IsReals(s Set) bool {
	iv, ok := s.(*Interval)
	return ok && Equal(iv.Lo, NegOo) && Equal(iv.Hi, Oo)
}

// NewFiniteSet sorts and de-duplicates the points numerically.
func NewFiniteSet(elems ...Expr) Set {
	sorted := make([]Expr, 0, len(elems))
	sorted = append(sorted, elems...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Eval(sorted[i], nil) < Eval(sorted[j], nil)
	})

	var out []Expr
	for _, e := range sorted {
		if len(out) > 0 && approxEqual(Eval(out[len(out)-1], nil), Eval(e, nil)) {
			continue
		}
		out = append(out, e)
	}

	if len(out) == 0 {
		return EmptySet()
	}

	return &FiniteSet{Elems: out}
}

// NewUnion drops empty members and flattens nested unions.
func NewUnion(sets ...Set) Set {
	var out []Set
	for _, s := range sets {
		if IsEmpty(s) {
			continue
		}
		if u, ok := s.(*Union); ok {
			out = append(out, u.Sets...)
			continue
		}
		out = append(out, s)
	}

	switch len(out) {
	case 0:
		return EmptySet()
	case 1:
		return out[0]
	}

	return &Union{Sets: out}
}

func approxEqual(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}

	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func (*Empty) String() string { return "EmptySet" }

func (*Empty) LaTeX() string { return `\emptyset` }

func (iv *Interval) brackets() (string, string) {
	l, r := "[", "]"
	if iv.LeftOpen {
		l = "("
	}
	if iv.RightOpen {
		r = ")"
	}

	return l, r
}

func (iv *Interval) String() string {
	l, r := iv.brackets()
	return l + iv.Lo.String() + ", " + iv.Hi.String() + r
}

func (iv *Interval) LaTeX() string {
	if IsReals(iv) {
		return `\mathbb{R}`
	}

	l, r := iv.brackets()

	return `\left` + l + iv.Lo.LaTeX() + ", " + iv.Hi.LaTeX() + `\right` + r
}

func (fs *FiniteSet) String() string {
	parts := make([]string, len(fs.Elems))
	for i, e := range fs.Elems {
		parts[i] = e.String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

func (fs *FiniteSet) LaTeX() string {
	parts := make([]string, len(fs.Elems))
	for i, e := range fs.Elems {
		parts[i] = e.LaTeX()
	}

	return `\left\{` + strings.Join(parts, ", ") + `\right\}`
}

func (u *Union) String() string {
	parts := make([]string, len(u.Sets))
	for i, s := range u.Sets {
		parts[i] = s.String()
	}

	return strings.Join(parts, " U ")
}

func (u *Union) LaTeX() string {
	parts := make([]string, len(u.Sets))
	for i, s := range u.Sets {
		parts[i] = s.LaTeX()
	}

	return strings.Join(parts, ` \cup `)
}

func (is *ImageSet) general() Expr {
	return NewAdd(NewMul(is.Step, S("n")), is.Offset)
}

func (is *ImageSet) String() string {
	return "{" + is.general().String() + " | n in Z}"
}

func (is *ImageSet) LaTeX() string {
	return `\left\{` + is.general().LaTeX() + `\; \middle|\; n \in \mathbb{Z}\right\}`
}

func (c *Complement) String() string {
	return c.A.String() + ` \ ` + c.B.String()
}

func (c *Complement) LaTeX() string {
	return c.A.LaTeX() + ` \setminus ` + c.B.LaTeX()
}

func (c *ConditionSet) String() string {
	return "{" + c.Var + " in " + c.Base.String() + " | " + c.Cond + "}"
}

func (c *ConditionSet) LaTeX() string {
	return `\left\{` + c.Var + ` \in ` + c.Base.LaTeX() + `\; \middle|\; \text{` + c.Cond + `}\right\}`
}

// Supremum returns the least upper bound of s. ok is false for sets whose
// bound is not known in closed form.
func Supremum(s Set) (Expr, bool) {
	return bound(s, true)
}

// Infimum returns the greatest lower bound of s.
func Infimum(s Set) (Expr, bool) {
	return bound(s, false)
}

func bound(s Set, upper bool) (Expr, bool) {
	better := func(a, b Expr) bool {
		if upper {
			return Eval(a, nil) > Eval(b, nil)
		}
		return Eval(a, nil) < Eval(b, nil)
	}

	switch v := s.(type) {
	case *Interval:
		if upper {
			return v.Hi, true
		}
		return v.Lo, true
	case *FiniteSet:
		if len(v.Elems) == 0 {
			return nil, false
		}
		best := v.Elems[0]
		for _, e := range v.Elems[1:] {
			if better(e, best) {
				best = e
			}
		}
		return best, true
	case *Union:
		var best Expr
		for _, sub := range v.Sets {
			b, ok := bound(sub, upper)
			if !ok {
				return nil, false
			}
			if best == nil || better(b, best) {
				best = b
			}
		}
		return best, best != nil
	case *ImageSet:
		if upper {
			return Oo, true
		}
		return NegOo, true
	case *Complement:
		return bound(v.A, upper)
	}

	return nil, false
}
