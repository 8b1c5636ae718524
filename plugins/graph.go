package plugins

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/soudy/mathcat"

	"github.com/plotbird/plotbird"
	"github.com/plotbird/plotbird/mathfunc"
	"github.com/plotbird/plotbird/parser"
	"github.com/plotbird/plotbird/symbolic"
)

func init() {
	plotbird.RegisterPlugin("graph", newGraphPlugin)
}

// Plot bounds used for the sample table when the request has no domain.
const (
	defaultLeft  = -5.0
	defaultRight = 5.0
	sampleCount  = 5
)

type graphPlugin struct {
	env *parser.Env
}

func newGraphPlugin(cm *plotbird.CommandMux, env *parser.Env) {
	p := &graphPlugin{env: env}

	cm.Event("graph", p.graphCallback, &plotbird.HelpInfo{
		Usage: "<function>[, <function>...][, from <a> to <b>][, y from <c> to <d>][, ratio <r>]",
		Description: "Reads a plot request: classifies each function as explicit or implicit " +
			"and shows a few sample values of the explicit ones",
		Examples: []string{
			"graph y = x**2, from -5 to 5",
			"graph x^2 + y^2 = 4; ratio 1",
			"graph sin(x); cos(x); x in [-3, 3]",
			"graph a^2 + b, y in [0, 10]",
		},
	})
}

func (p *graphPlugin) graphCallback(r *plotbird.Request) {
	query := strings.TrimSpace(r.Message.Trailing())
	if query == "" {
		r.MentionReplyf("What should I plot? Try \"y = x**2, from -5 to 5\"")
		return
	}

	g := parser.NewGraphParser(p.env)

	tokens, err := g.Parse(r.Context, query)
	if err != nil {
		r.MentionReplyf("%s", errorReply(r.Logger(), err))
		return
	}

	lines := warningLines(g.Warnings())
	lines = append(lines, describeTokens(r.Logger(), tokens)...)

	r.MentionReplyf("%s", strings.Join(lines, "\n"))
}

func describeTokens(log *logrus.Entry, tokens *parser.Tokens) []string {
	var lines []string

	left, right := defaultLeft, defaultRight
	if len(tokens.Domain) == 2 {
		left, right = tokens.Domain[0], tokens.Domain[1]
		lines = append(lines, fmt.Sprintf("Domain: [%g, %g]", left, right))
	}
	if len(tokens.Range) == 2 {
		lines = append(lines, fmt.Sprintf("Range: [%g, %g]", tokens.Range[0], tokens.Range[1]))
	}
	if len(tokens.AspectRatio) == 1 {
		lines = append(lines, fmt.Sprintf("Aspect ratio: %g", tokens.AspectRatio[0]))
	}

	for _, f := range tokens.Explicit {
		lines = append(lines, fmt.Sprintf("Explicit: y = %s", f.Expr))
		lines = append(lines, "  "+sampleTable(log, f, left, right))
	}
	for _, f := range tokens.Implicit {
		lines = append(lines, fmt.Sprintf("Implicit: %s", f.Expr))
	}

	return lines
}

// sampleTable evaluates an explicit function at evenly spaced points.
func sampleTable(log *logrus.Entry, f *mathfunc.Function, left, right float64) string {
	v := "x"
	if len(f.Variables) > 0 {
		v = f.Variables[0]
	}

	step := (right - left) / (sampleCount - 1)
	parts := make([]string, 0, sampleCount)

	for i := 0; i < sampleCount; i++ {
		at := left + float64(i)*step
		y := symbolic.EvalAt(f.Expr, v, at)

		if ok, checked := crossCheck(f.Expr.String(), v, at, y); checked && !ok {
			log.WithFields(logrus.Fields{
				"function": f.Expr,
				v:          at,
				"value":    y,
			}).Debug("Numeric cross-check disagrees")
		}

		parts = append(parts, fmt.Sprintf("%s=%g: %s", v, at, formatSample(y)))
	}

	return strings.Join(parts, ", ")
}

func formatSample(y float64) string {
	switch {
	case math.IsNaN(y):
		return "undefined"
	case math.IsInf(y, 1):
		return "oo"
	case math.IsInf(y, -1):
		return "-oo"
	}

	return fmt.Sprintf("%.4g", y)
}

// crossCheck evaluates expr with mathcat. checked is false when mathcat
// cannot read the expression, such as for functions it does not know.
func crossCheck(expr, v string, at, want float64) (ok, checked bool) {
	if math.IsNaN(want) || math.IsInf(want, 0) {
		return false, false
	}

	mc := mathcat.New()
	if _, err := mc.Run(fmt.Sprintf("%s = %g", v, at)); err != nil {
		return false, false
	}

	got, err := mc.Run(expr)
	if err != nil || math.IsNaN(got) {
		return false, false
	}

	return math.Abs(got-want) <= 1e-9*math.Max(1, math.Abs(want)), true
}
