package plotbird

import (
	"context"
	"sort"
	"time"

	irc "github.com/go-irc/irc/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Timing struct {
	Start time.Time
	End   time.Time
}

func (t *Timing) Done() {
	t.End = time.Now()
}

func (t *Timing) Elapsed() time.Duration {
	if t.End.IsZero() {
		return time.Since(t.Start)
	}

	return t.End.Sub(t.Start)
}

// Request is one incoming message along with everything a handler needs to
// answer it. The Context carries the bot, a logger and the request id.
type Request struct {
	Message *irc.Message
	Context context.Context
	ID      string

	bot    *Bot
	log    *logrus.Entry
	timers map[string]*Timing
}

// NewRequest wraps m for b, giving it a fresh id.
func NewRequest(b *Bot, m *irc.Message) *Request {
	id := uuid.New().String()

	log := logrus.NewEntry(logrus.StandardLogger())
	if b != nil && b.log != nil {
		log = b.log
	}
	log = log.WithField("request_id", id)

	return &Request{
		Message: m,
		Context: withBotValues(context.Background(), b, log, id),
		ID:      id,
		bot:     b,
		log:     log,
		timers:  make(map[string]*Timing),
	}
}

// Copy returns a request for a modified copy of the message which shares
// the id, context and timers of r.
func (r *Request) Copy() *Request {
	return &Request{
		Message: r.Message.Copy(),
		Context: r.Context,
		ID:      r.ID,
		bot:     r.bot,
		log:     r.log,
		timers:  r.timers,
	}
}

// Logger returns the request scoped logger.
func (r *Request) Logger() *logrus.Entry {
	return r.log
}

// Bot returns the bot which received the request.
func (r *Request) Bot() *Bot {
	return r.bot
}

// Timer starts a named timer. Call Done on the result to stop it.
func (r *Request) Timer(event string) *Timing {
	timer := &Timing{
		Start: time.Now(),
	}

	r.timers[event] = timer

	return timer
}

// Log writes the collected timings at debug level.
func (r *Request) Log() {
	if r.Message == nil || r.log.Logger.Level < logrus.DebugLevel {
		return
	}

	names := make([]string, 0, len(r.timers))
	for name := range r.timers {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := logrus.Fields{"command": r.Message.Command}
	for _, name := range names {
		fields[name] = r.timers[name].Elapsed().String()
	}

	r.log.WithFields(fields).Debug("Request done")
}
