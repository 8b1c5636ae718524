package plotbird

import (
	"testing"

	irc "github.com/go-irc/irc/v2"
	"github.com/stretchr/testify/require"
)

type messageHandler struct {
	count int
	last  string
}

func (mh *messageHandler) Handle(r *Request) {
	mh.count++
	mh.last = r.Message.Trailing()
}

func testBot() *Bot {
	return &Bot{config: coreConfig{Nick: "plotbird", Prefix: "!"}}
}

func TestBasicMux(t *testing.T) {
	r := NewRequest(nil, irc.MustParseMessage("001"))
	r2 := NewRequest(nil, irc.MustParseMessage("002"))

	// Single message, single handler
	mh := &messageHandler{}
	mux := NewBasicMux()
	mux.Event("001", mh.Handle)
	mux.HandleEvent(r)
	require.Equal(t, 1, mh.count)
	mux.HandleEvent(r)
	require.Equal(t, 2, mh.count)
	require.True(t, mux.Has("001"))
	require.False(t, mux.Has("002"))

	// Single message, multiple handlers
	mh = &messageHandler{}
	mh2 := &messageHandler{}
	mux = NewBasicMux()
	mux.Event("001", mh.Handle)
	mux.Event("001", mh2.Handle)
	mux.HandleEvent(r)
	require.Equal(t, 1, mh.count)
	require.Equal(t, 1, mh2.count)

	// Different messages, wildcard handler
	mh = &messageHandler{}
	mux = NewBasicMux()
	mux.Event("*", mh.Handle)
	mux.HandleEvent(r)
	require.Equal(t, 1, mh.count)
	mux.HandleEvent(r2)
	require.Equal(t, 2, mh.count)

	// No handlers
	mux = NewBasicMux()
	mux.HandleEvent(r)
}

func TestRequest(t *testing.T) {
	r := NewRequest(nil, irc.MustParseMessage(":someone PRIVMSG #math :hello"))
	r2 := NewRequest(nil, irc.MustParseMessage(":someone PRIVMSG #math :hello"))
	require.NotEmpty(t, r.ID)
	require.NotEqual(t, r.ID, r2.ID)
	require.Equal(t, r.ID, CtxRequestID(r.Context))
	require.NotNil(t, CtxLogger(r.Context))
	require.Nil(t, CtxBot(r.Context))

	c := r.Copy()
	c.Message.Params[1] = "changed"
	require.Equal(t, "hello", r.Message.Trailing())
	require.Equal(t, r.ID, c.ID)

	timer := c.Timer("work")
	timer.Done()
	require.Contains(t, r.timers, "work")
	require.True(t, timer.Elapsed() >= 0)
}
