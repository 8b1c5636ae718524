package plotbird

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/plotbird/plotbird/internal"
)

const (
	contextKeyBot       = internal.ContextKey("plotbird-bot")
	contextKeyLogger    = internal.ContextKey("plotbird-logger-entry")
	contextKeyRequestID = internal.ContextKey("plotbird-request-id")
)

func withBotValues(ctx context.Context, b *Bot, log *logrus.Entry, id string) context.Context {
	ctx = context.WithValue(ctx, contextKeyBot, b)
	ctx = context.WithValue(ctx, contextKeyLogger, log)
	ctx = context.WithValue(ctx, contextKeyRequestID, id)

	return ctx
}

func CtxBot(ctx context.Context) *Bot {
	b, _ := ctx.Value(contextKeyBot).(*Bot)
	return b
}

// CtxLogger returns the request logger, or the standard logger outside of
// a request.
func CtxLogger(ctx context.Context) *logrus.Entry {
	if log, ok := ctx.Value(contextKeyLogger).(*logrus.Entry); ok {
		return log
	}

	return logrus.NewEntry(logrus.StandardLogger())
}

func CtxRequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
