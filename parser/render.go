package parser

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/plotbird/plotbird/internal"
	"github.com/plotbird/plotbird/symbolic"
)

var latexTemplates = compileTemplates("latex", [actionCount]string{
	Derivative: `Derivative\ of\ {{.Function}}{{if .Vars}}\ by\ {{join "\\ " .Vars}}{{end}}:\\{{index .Results 0}}`,
	Domain:     `Domain\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Range:      `Range\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Zeros:      `Zeros\ of\ {{.Function}}:\\{{index .Results 0}}`,
	AxesIntersection: `For\ function\ {{.Function}}:\\` +
		`Intersection\ with\ {{index .Axes 0}}-axis:\\{{index .Axes 0}} = {{index .Results 0}}\\` +
		`Intersection\ with\ {{index .Axes 1}}-axis:\\{{index .Axes 1}} = {{index .Results 1}}`,
	Periodicity: `Periodicity\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Convexity:   `Is\ {{.Function}}\ convex?\\{{index .Results 0}}`,
	Concavity:   `Is\ {{.Function}}\ concave?\\{{index .Results 0}}`,
	Continuity:  `Continuity\ interval\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Monotonicity: `Increasing\ on\ {{index .Results 0}}\\` +
		`Decreasing\ on\ {{index .Results 1}}\\` +
		`for\ {{.Function}}`,
	VerticalAsymptotes:   `Vertical\ asymptotes\ of\ {{.Function}}:\\{{index .Results 0}}`,
	HorizontalAsymptotes: `Horizontal\ asymptotes\ of\ {{.Function}}:\\{{index .Results 0}}`,
	SlantAsymptotes:      `Slant\ asymptotes\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Asymptotes: `Vertical\ asymptotes\ of\ {{.Function}}:\\{{index .Results 0}}\\\\` +
		`Horizontal\ asymptotes\ of\ {{.Function}}:\\{{index .Results 1}}\\\\` +
		`Slant\ asymptotes\ of\ {{.Function}}:\\{{index .Results 2}}`,
	Evenness:         `Is\ {{.Function}}\ even?\\{{index .Results 0}}`,
	Oddness:          `Is\ {{.Function}}\ odd?\\{{index .Results 0}}`,
	Maximum:          `Max\ value\ of\ {{.Function}}:\\{{index .Results 0}}`,
	Minimum:          `Min\ value\ of\ {{.Function}}:\\{{index .Results 0}}`,
	StationaryPoints: `Stationary\ points\ of\ {{.Function}}:\\{{index .Results 0}}`,
})

var textTemplates = compileTemplates("text", [actionCount]string{
	Derivative: `Derivative of {{.Function}}` +
		`{{if .Vars}} by {{pluralize (len .Vars) "variable"}} {{join ", " .Vars}}{{end}}: {{index .Results 0}}`,
	Domain: `Domain of {{.Function}}: {{index .Results 0}}`,
	Range:  `Range of {{.Function}}: {{index .Results 0}}`,
	Zeros: `Zeros of {{.Function}}` +
		`{{with index .Counts 0}} ({{.}} {{pluralize . "point"}}){{end}}: {{index .Results 0}}`,
	AxesIntersection: `For function {{.Function}}: ` +
		`intersection with {{index .Axes 0}}-axis: {{index .Axes 0}} = {{index .Results 0}}; ` +
		`intersection with {{index .Axes 1}}-axis: {{index .Axes 1}} = {{index .Results 1}}`,
	Periodicity: `Periodicity of {{.Function}}: {{index .Results 0}}`,
	Convexity:   `Is {{.Function}} convex? {{index .Results 0}}`,
	Concavity:   `Is {{.Function}} concave? {{index .Results 0}}`,
	Continuity:  `Continuity interval of {{.Function}}: {{index .Results 0}}`,
	Monotonicity: `{{.Function}} is increasing on {{index .Results 0}} ` +
		`and decreasing on {{index .Results 1}}`,
	VerticalAsymptotes:   `Vertical asymptotes of {{.Function}}: {{index .Results 0}}`,
	HorizontalAsymptotes: `Horizontal asymptotes of {{.Function}}: {{index .Results 0}}`,
	SlantAsymptotes:      `Slant asymptotes of {{.Function}}: {{index .Results 0}}`,
	Asymptotes: `Asymptotes of {{.Function}}: ` +
		`vertical {{index .Results 0}}; horizontal {{index .Results 1}}; slant {{index .Results 2}}`,
	Evenness: `Is {{.Function}} even? {{index .Results 0}}`,
	Oddness:  `Is {{.Function}} odd? {{index .Results 0}}`,
	Maximum:  `Max value of {{.Function}}: {{index .Results 0}}`,
	Minimum:  `Min value of {{.Function}}: {{index .Results 0}}`,
	StationaryPoints: `Stationary points of {{.Function}}` +
		`{{with index .Counts 0}} ({{.}} {{pluralize . "point"}}){{end}}: {{index .Results 0}}`,
})

func compileTemplates(kind string, sources [actionCount]string) [actionCount]*template.Template {
	var out [actionCount]*template.Template
	for a, src := range sources {
		if src == "" {
			panic(fmt.Sprintf("parser: no %s template for %v", kind, Action(a)))
		}
		out[a] = internal.TemplateMustCompile(kind+" "+Action(a).String(), src)
	}

	return out
}

type renderVars struct {
	Function string
	Vars     []string
	Axes     []string
	Results  []string
	// Counts holds the number of points of finite results, zero otherwise.
	Counts []int
}

// MakeLaTeX renders the results of ProcessQuery as a LaTeX sentence.
func (c *CalculusParser) MakeLaTeX(results []symbolic.Value) (string, error) {
	return c.render(latexTemplates, results, symbolic.Value.LaTeX)
}

// MakeText renders the results of ProcessQuery as plain text.
func (c *CalculusParser) MakeText(results []symbolic.Value) (string, error) {
	return c.render(textTemplates, results, symbolic.Value.String)
}

// Render picks LaTeX or plain text according to the config.
func (c *CalculusParser) Render(results []symbolic.Value) (string, error) {
	if c.env.Config.LaTeX {
		return c.MakeLaTeX(results)
	}

	return c.MakeText(results)
}

func (c *CalculusParser) render(templates [actionCount]*template.Template, results []symbolic.Value, show func(symbolic.Value) string) (string, error) {
	if c.Action < 0 || c.Action >= actionCount {
		return "", fmt.Errorf("unknown action %v", c.Action)
	}
	if c.Function == nil {
		return "", fmt.Errorf("no function bound for %v", c.Action)
	}
	if want := c.Action.results(); len(results) < want {
		return "", fmt.Errorf("%v needs %d results, got %d", c.Action, want, len(results))
	}

	vars := renderVars{Function: show(c.Function.Expr)}
	for _, r := range results {
		vars.Results = append(vars.Results, show(r))

		n := 0
		if fs, ok := r.(*symbolic.FiniteSet); ok {
			n = len(fs.Elems)
		}
		vars.Counts = append(vars.Counts, n)
	}
	for _, v := range c.axes() {
		vars.Axes = append(vars.Axes, show(symbolic.S(v)))
	}
	if c.Action == Derivative {
		dv, err := c.derivativeVariables()
		if err != nil {
			return "", err
		}
		for _, v := range dv {
			vars.Vars = append(vars.Vars, show(symbolic.S(v)))
		}
	}

	out, err := internal.RenderTemplate(templates[c.Action], vars)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}
