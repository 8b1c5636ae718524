package parser

import "fmt"

// Action is an analysis the calculus parser can be asked for.
type Action int

// The supported actions. Their names are the category keys of the analysis
// pattern file.
const (
	Derivative Action = iota
	Domain
	Range
	Zeros
	AxesIntersection
	Periodicity
	Convexity
	Concavity
	Continuity
	Monotonicity
	VerticalAsymptotes
	HorizontalAsymptotes
	SlantAsymptotes
	Asymptotes
	Evenness
	Oddness
	Maximum
	Minimum
	StationaryPoints

	actionCount
)

var actionNames = [actionCount]string{
	Derivative:           "derivative",
	Domain:               "domain",
	Range:                "range",
	Zeros:                "zeros",
	AxesIntersection:     "axes_intersection",
	Periodicity:          "periodicity",
	Convexity:            "convexity",
	Concavity:            "concavity",
	Continuity:           "continuity",
	Monotonicity:         "monotonicity",
	VerticalAsymptotes:   "vertical asymptotes",
	HorizontalAsymptotes: "horizontal asymptotes",
	SlantAsymptotes:      "slant asymptotes",
	Asymptotes:           "asymptotes",
	Evenness:             "evenness",
	Oddness:              "oddness",
	Maximum:              "maximum",
	Minimum:              "minimum",
	StationaryPoints:     "stationary points",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}

	return actionNames[a]
}

// ParseAction looks an action up by its pattern category name.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), true
		}
	}

	return 0, false
}

// Actions lists every action in order.
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}

	return out
}

// results is how many values ProcessQuery produces for the action.
func (a Action) results() int {
	switch a {
	case AxesIntersection, Monotonicity:
		return 2
	case Asymptotes:
		return 3
	}

	return 1
}
