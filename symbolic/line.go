package symbolic

import (
	"math"
	"sort"
	"strings"
)

// span is an interval with exact endpoints and cached float values.
type span struct {
	lo, hi         Expr
	loOpen, hiOpen bool
}

func (s span) loF() float64 { return Eval(s.lo, nil) }
func (s span) hiF() float64 { return Eval(s.hi, nil) }

func (s span) contains(v float64) bool {
	lo, hi := s.loF(), s.hiF()
	switch {
	case approxEqual(v, lo):
		return !s.loOpen
	case approxEqual(v, hi):
		return !s.hiOpen
	}

	return v > lo && v < hi
}

func (s span) interior(v float64) bool {
	return v > s.loF() && v < s.hiF() && !approxEqual(v, s.loF()) && !approxEqual(v, s.hiF())
}

func (s span) degenerate() bool {
	return approxEqual(s.loF(), s.hiF())
}

func fullSpan() span {
	return span{lo: NegOo, hi: Oo, loOpen: true, hiOpen: true}
}

// line is a finite union of spans minus periodic families of points, plus
// conditions that could not be resolved.
type line struct {
	spans    []span
	periodic []*ImageSet
	conds    []string
}

func fullLine() *line {
	return &line{spans: []span{fullSpan()}}
}

func (l *line) intersect(spans []span) {
	l.spans = intersectSpans(l.spans, spans)
}

func (l *line) merge(other *line) {
	l.intersect(other.spans)
	l.periodic = append(l.periodic, other.periodic...)
	l.conds = append(l.conds, other.conds...)
}

func intersectSpans(a, b []span) []span {
	var out []span
	for _, x := range a {
		for _, y := range b {
			s := x
			switch lx, ly := x.loF(), y.loF(); {
			case approxEqual(lx, ly):
				s.loOpen = x.loOpen || y.loOpen
			case ly > lx:
				s.lo, s.loOpen = y.lo, y.loOpen
			}
			switch hx, hy := x.hiF(), y.hiF(); {
			case approxEqual(hx, hy):
				s.hiOpen = x.hiOpen || y.hiOpen
			case hy < hx:
				s.hi, s.hiOpen = y.hi, y.hiOpen
			}

			lo, hi := s.loF(), s.hiF()
			if lo < hi && !approxEqual(lo, hi) {
				out = append(out, s)
			} else if approxEqual(lo, hi) && !s.loOpen && !s.hiOpen {
				out = append(out, s)
			}
		}
	}

	sortSpans(out)

	return out
}

func sortSpans(spans []span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].loF() < spans[j].loF()
	})
}

// unionSpans merges overlapping or touching spans.
func unionSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}

	sorted := append([]span(nil), spans...)
	sortSpans(sorted)

	out := []span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		lastHi, lo := last.hiF(), s.loF()
		touching := approxEqual(lastHi, lo) && !(last.hiOpen && s.loOpen)
		if lo < lastHi && !approxEqual(lo, lastHi) || touching {
			switch hi := s.hiF(); {
			case approxEqual(hi, lastHi):
				last.hiOpen = last.hiOpen && s.hiOpen
			case hi > lastHi:
				last.hi, last.hiOpen = s.hi, s.hiOpen
			}
			if approxEqual(s.loF(), last.loF()) {
				last.loOpen = last.loOpen && s.loOpen
			}
			continue
		}
		out = append(out, s)
	}

	return out
}

// exclude removes single points from the spans.
func (l *line) exclude(points ...Expr) {
	for _, p := range points {
		v := Eval(p, nil)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		var out []span
		for _, s := range l.spans {
			if !s.contains(v) {
				out = append(out, s)
				continue
			}
			if s.degenerate() {
				continue
			}
			if approxEqual(v, s.loF()) {
				s.loOpen = true
				out = append(out, s)
				continue
			}
			if approxEqual(v, s.hiF()) {
				s.hiOpen = true
				out = append(out, s)
				continue
			}
			out = append(out,
				span{lo: s.lo, hi: p, loOpen: s.loOpen, hiOpen: true},
				span{lo: p, hi: s.hi, loOpen: true, hiOpen: s.hiOpen},
			)
		}
		l.spans = out
	}
}

// contains reports whether the real number v belongs to the line, ignoring
// unresolved conditions.
func (l *line) contains(v float64) bool {
	in := false
	for _, s := range l.spans {
		if s.contains(v) {
			in = true
			break
		}
	}
	if !in {
		return false
	}

	for _, is := range l.periodic {
		if onImageSet(is, v) {
			return false
		}
	}

	return true
}

func onImageSet(is *ImageSet, v float64) bool {
	step := Eval(is.Step, nil)
	off := Eval(is.Offset, nil)
	k := (v - off) / step

	return math.Abs(k-math.Round(k)) < 1e-9
}

// boundary returns the finite endpoints of all spans.
func (l *line) boundary() []Expr {
	var out []Expr
	for _, s := range l.spans {
		if !IsInfinite(s.lo) {
			out = append(out, s.lo)
		}
		if !IsInfinite(s.hi) {
			out = append(out, s.hi)
		}
	}

	return out
}

func (s span) set() Set {
	if s.degenerate() {
		return &FiniteSet{Elems: []Expr{s.lo}}
	}

	return &Interval{Lo: s.lo, Hi: s.hi, LeftOpen: s.loOpen || IsInfinite(s.lo), RightOpen: s.hiOpen || IsInfinite(s.hi)}
}

func spansSet(spans []span) Set {
	var sets []Set
	var points []Expr
	for _, s := range spans {
		if s.degenerate() {
			points = append(points, s.lo)
			continue
		}
		sets = append(sets, s.set())
	}
	if len(points) > 0 {
		sets = append(sets, NewFiniteSet(points...))
	}

	return NewUnion(sets...)
}

// Set converts the line into its public representation.
func (l *line) Set(x string) Set {
	base := spansSet(l.spans)

	if len(l.periodic) > 0 && !IsEmpty(base) {
		fams := mergeFamilies(l.periodic)
		removed := make([]Set, len(fams))
		for i, is := range fams {
			removed[i] = is
		}
		base = &Complement{A: base, B: NewUnion(removed...)}
	}

	if len(l.conds) > 0 && !IsEmpty(base) {
		return &ConditionSet{Var: x, Cond: strings.Join(l.conds, " and "), Base: base}
	}

	return base
}
