package parser

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird/internal"
)

// Config is the [parser] section of the bot config. Zero values fall back
// to the defaults.
type Config struct {
	// StatementsLimit is the number of statements a request must stay
	// below.
	StatementsLimit int
	// FunctionsLimit is the most functions a graph request may hold.
	FunctionsLimit int
	// ExpressionLengthLimit bounds the printed length of a parsed function.
	ExpressionLengthLimit int
	// PredictionAccuracy is the similarity cutoff for word correction.
	PredictionAccuracy float64

	Timeout internal.Duration
	Workers int

	// GraphPatterns and AnalysisPatterns override the built in pattern
	// files.
	GraphPatterns    string
	AnalysisPatterns string

	// LaTeX selects LaTeX replies over plain text.
	LaTeX bool
}

// Defaults for the zero Config.
const (
	DefaultStatementsLimit       = 15
	DefaultFunctionsLimit        = 10
	DefaultExpressionLengthLimit = 200
	DefaultPredictionAccuracy    = 0.7
	DefaultTimeout               = 5 * time.Second
	DefaultWorkers               = 4
)

func (c Config) withDefaults() Config {
	if c.StatementsLimit <= 0 {
		c.StatementsLimit = DefaultStatementsLimit
	}
	if c.FunctionsLimit <= 0 {
		c.FunctionsLimit = DefaultFunctionsLimit
	}
	if c.ExpressionLengthLimit <= 0 {
		c.ExpressionLengthLimit = DefaultExpressionLengthLimit
	}
	if c.PredictionAccuracy <= 0 {
		c.PredictionAccuracy = DefaultPredictionAccuracy
	}
	if c.Timeout.Duration <= 0 {
		c.Timeout.Duration = DefaultTimeout
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}

	return c
}

// Env is everything the parsers share between requests: the settings, the
// loaded pattern tables and the worker pool. It is read only once built.
type Env struct {
	Config   Config
	Graph    *Table
	Analysis *Table
	Pool     *Pool
	Log      *logrus.Entry
}

// NewEnv applies the config defaults and loads the pattern tables.
func NewEnv(conf Config, logger *logrus.Entry) (*Env, error) {
	conf = conf.withDefaults()

	graph, err := LoadTableFile(conf.GraphPatterns, "graph")
	if err != nil {
		return nil, fmt.Errorf("graph patterns: %w", err)
	}

	analysis, err := LoadTableFile(conf.AnalysisPatterns, "analysis")
	if err != nil {
		return nil, fmt.Errorf("analysis patterns: %w", err)
	}

	for _, a := range Actions() {
		if analysis.Category(a.String()) == nil {
			return nil, fmt.Errorf("analysis patterns: missing category %q", a)
		}
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Env{
		Config:   conf,
		Graph:    graph,
		Analysis: analysis,
		Pool:     NewPool(conf.Workers),
		Log:      logger,
	}, nil
}
