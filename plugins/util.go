package plugins

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird/mathfunc"
	"github.com/plotbird/plotbird/parser"
)

const timeoutReply = "Execution time limit exceeded"

// errorReply turns a parser or analysis failure into what the user sees.
// Parse and compute errors already carry a message written for the user;
// anything else is logged and replaced by a generic line.
func errorReply(log *logrus.Entry, err error) string {
	var (
		perr *parser.ParseError
		cerr *mathfunc.ComputeError
	)

	switch {
	case errors.Is(err, parser.ErrTimeout):
		return timeoutReply
	case errors.As(err, &perr), errors.As(err, &cerr):
		return err.Error()
	case errors.Is(err, context.Canceled):
		return "The request was cancelled"
	}

	log.WithError(err).Error("Unexpected failure")

	return "Something went wrong, sorry."
}

// warningLines prefixes each parser warning for display.
func warningLines(warnings []string) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, "Note: "+w)
	}

	return out
}
