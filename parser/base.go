// Package parser turns free form chat requests into plot parameters and
// classified functions, or into an analysis action bound to a function.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird/symbolic"
)

// Parser holds what the graph and analysis parsers have in common: the
// shared environment and the warnings collected for the current request.
// Warnings are kept until ClearWarnings is called.
type Parser struct {
	env      *Env
	log      *logrus.Entry
	warnings []string
}

func newParser(env *Env, name string) Parser {
	return Parser{
		env: env,
		log: env.Log.WithField("parser", name),
	}
}

// PushWarning records a note for the user.
func (p *Parser) PushWarning(format string, v ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, v...))
}

// Warnings returns the collected warnings in order.
func (p *Parser) Warnings() []string {
	return p.warnings
}

// ClearWarnings drops all collected warnings.
func (p *Parser) ClearWarnings() {
	p.warnings = nil
}

// IsXEqualNum reports whether token reads like "x = 1": an equation whose
// two sides together mention exactly one variable, which is not y. Such a
// statement is a vertical line rather than a function of x.
func IsXEqualNum(token string) bool {
	parts := strings.Split(token, "=")
	if len(parts) != 2 {
		return false
	}

	vars := make(map[string]bool)
	for _, part := range parts {
		e, err := symbolic.Parse(NormalizeFunctions(part), symbolic.ParseOptions{})
		if err != nil {
			return false
		}
		for _, v := range symbolic.FreeSymbols(e) {
			vars[v] = true
		}
	}

	return len(vars) == 1 && !vars["y"]
}

var wordRe = regexp.MustCompile(`\S+`)

// FixWords replaces every word longer than two characters with the closest
// keyword, if one is similar enough, and records a warning for each
// replacement. It returns the corrected query and the mean similarity of
// the replacements, or "" when nothing was replaced.
func (p *Parser) FixWords(query string, keywords []string) (string, float64) {
	fixed, score, warnings := fixWords(query, keywords, p.env.Config.PredictionAccuracy)
	p.warnings = append(p.warnings, warnings...)

	return fixed, score
}

func fixWords(query string, keywords []string, cutoff float64) (string, float64, []string) {
	var (
		total    float64
		warnings []string
	)

	fixed := wordRe.ReplaceAllStringFunc(query, func(word string) string {
		if len([]rune(word)) <= 2 {
			return word
		}

		best, score := closestWord(word, keywords, cutoff)
		if best == "" || best == word {
			return word
		}

		total += score
		warnings = append(warnings, fmt.Sprintf("Interpreting '%s' as '%s'", word, best))

		return best
	})

	if len(warnings) == 0 {
		return "", 0, nil
	}

	return fixed, total / float64(len(warnings)), warnings
}

// closestWord finds the most similar candidate with a similarity ratio of
// at least cutoff. Ties keep the earlier candidate.
func closestWord(word string, candidates []string, cutoff float64) (string, float64) {
	var (
		best      string
		bestScore float64
	)

	w := strings.Split(word, "")
	for _, c := range candidates {
		m := difflib.NewMatcher(strings.Split(c, ""), w)
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}

		if score := m.Ratio(); score >= cutoff && score > bestScore {
			best, bestScore = c, score
		}
	}

	return best, bestScore
}

// exactMatch returns the first pattern of the table matching text.
func exactMatch(t *Table, text string) *match {
	for _, c := range t.Categories {
		if m := matchCategory(c, text); m != nil {
			return m
		}
	}

	return nil
}

// correctedMatch corrects the words of text against each category's
// keywords in turn and retries that category's patterns. The category whose
// correction scored best wins and only its warnings are kept.
func (p *Parser) correctedMatch(t *Table, text string) *match {
	var (
		best         *match
		bestScore    float64
		bestWarnings []string
	)

	for _, c := range t.Categories {
		fixed, score, warnings := fixWords(text, c.Keywords, p.env.Config.PredictionAccuracy)
		if fixed == "" {
			continue
		}

		m := matchCategory(c, fixed)
		if m == nil || score <= bestScore {
			continue
		}

		best, bestScore, bestWarnings = m, score, warnings
	}

	if best != nil {
		p.log.WithFields(logrus.Fields{
			"category": best.category.Name,
			"score":    bestScore,
		}).Debug("Matched after correction")
		p.warnings = append(p.warnings, bestWarnings...)
	}

	return best
}
