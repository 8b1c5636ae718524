package plugins

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird"
	"github.com/plotbird/plotbird/parser"
)

func init() {
	plotbird.RegisterPlugin("analyse", newAnalysePlugin)
}

var analyseExamples = []string{
	"analyse diff x^4 + 12x^2 - 7x",
	"analyse diff x^2*y by x, y",
	"analyse domain of sqrt(x)",
	"analyse range of sin(x) + 2",
	"analyse zeros of x^2 - 4",
	"analyse axes intersection of y = x^2 - 4",
	"analyse periodicity of sin(2x)",
	"analyse is x^2 convex?",
	"analyse continuity of 1/x",
	"analyse monotonicity of x^3 - 3x",
	"analyse asymptotes of (x^2 + 3)/(x - 1)",
	"analyse is cos(x) even?",
	"analyse max of -x^2 + 4",
	"analyse stationary points of x^3 - 3x",
}

type analysePlugin struct {
	env   *parser.Env
	cache *Cache
}

func newAnalysePlugin(cm *plotbird.CommandMux, mm *plotbird.MentionMux, env *parser.Env, cache *Cache) {
	p := &analysePlugin{
		env:   env,
		cache: cache,
	}

	cm.Event("analyse", p.analyseCallback, &plotbird.HelpInfo{
		Usage: "<query>",
		Description: "Answers calculus questions about a function: derivative, domain, range, zeros, " +
			"axes intersection, periodicity, convexity, concavity, continuity, monotonicity, " +
			"asymptotes, evenness, oddness, max, min and stationary points",
		Examples: analyseExamples,
	})

	mm.Event(p.mentionCallback)
}

func (p *analysePlugin) analyseCallback(r *plotbird.Request) {
	query := strings.TrimSpace(r.Message.Trailing())
	if query == "" {
		r.MentionReplyf("What should I analyse? Try %q", analyseExamples[0])
		return
	}

	reply, ok := p.answer(r.Context, r.Logger(), query)
	if !ok {
		r.MentionReplyf("I don't know how to answer %q, see help analyse for what I can do", query)
		return
	}

	r.MentionReplyf("%s", reply)
}

// mentionCallback answers "plotbird: diff x^2" and stays quiet on anything
// which does not read like an analysis request, even when it would not
// parse.
func (p *analysePlugin) mentionCallback(r *plotbird.Request) {
	query := r.Message.Trailing()
	if !parser.NewCalculusParser(p.env).Matches(query) {
		return
	}

	reply, ok := p.answer(r.Context, r.Logger(), query)
	if ok {
		r.MentionReplyf("%s", reply)
	}
}

// answer parses and computes query. It returns false when the query
// matches no analysis at all.
func (p *analysePlugin) answer(ctx context.Context, log *logrus.Entry, query string) (string, bool) {
	format := "text"
	if p.env.Config.LaTeX {
		format = "latex"
	}
	key := CacheKey(format, query)

	if p.cache != nil {
		reply, found, err := p.cache.Get(key)
		if err != nil {
			log.WithError(err).Warn("Failed to read cache")
		} else if found {
			log.WithField("query", query).Debug("Answered from cache")
			return reply, true
		}
	}

	c := parser.NewCalculusParser(p.env)

	ok, err := c.Parse(ctx, query)
	if err != nil {
		return errorReply(log, err), true
	}
	if !ok {
		return "", false
	}

	results, err := c.ProcessQuery(ctx)
	if err != nil {
		return errorReply(log, err), true
	}

	text, err := c.Render(results)
	if err != nil {
		return errorReply(log, err), true
	}

	lines := append(warningLines(c.Warnings()), text)
	reply := strings.Join(lines, "\n")

	log.WithFields(logrus.Fields{
		"action":   c.Action,
		"function": c.Function.Expr,
	}).Info("Answered analysis")

	if p.cache != nil {
		if err := p.cache.Put(key, query, c.Action.String(), reply); err != nil {
			log.WithError(err).Warn("Failed to write cache")
		}
	}

	return reply, true
}
