package plotbird

import (
	"testing"

	irc "github.com/go-irc/irc/v2"
	"github.com/stretchr/testify/assert"
)

func TestCommandMux(t *testing.T) {
	b := testBot()
	send := func(mux *CommandMux, line string) {
		mux.HandleEvent(NewRequest(b, irc.MustParseMessage(line)))
	}

	// Empty mux should still have help
	mux := NewCommandMux("!")
	assert.Equal(t, []string{"help"}, mux.Commands())

	mh := &messageHandler{}

	// Ensure simple commands can be hit
	mux.Event("hello", mh.Handle, nil)
	send(mux, ":someone PRIVMSG #hello :!hello")
	assert.Equal(t, 1, mh.count)
	send(mux, ":someone PRIVMSG plotbird :!hello  world ")
	assert.Equal(t, 2, mh.count)
	assert.Equal(t, "world", mh.last)

	// Other prefixes and commands are ignored
	send(mux, ":someone PRIVMSG #hello :?hello")
	send(mux, ":someone NOTICE #hello :!hello")
	assert.Equal(t, 2, mh.count)

	// Ensure private commands don't work publicly
	mux = NewCommandMux("!")
	mh = &messageHandler{}
	mux.Private("hello", mh.Handle, nil)
	send(mux, ":someone PRIVMSG #hello :!hello")
	assert.Equal(t, 0, mh.count)
	send(mux, ":someone PRIVMSG plotbird :!hello")
	assert.Equal(t, 1, mh.count)

	// Ensure public commands don't work privately
	mux = NewCommandMux("!")
	mh = &messageHandler{}
	mux.Channel("hello", mh.Handle, nil)
	send(mux, ":someone PRIVMSG #hello :!hello")
	assert.Equal(t, 1, mh.count)
	send(mux, ":someone PRIVMSG plotbird :!hello")
	assert.Equal(t, 1, mh.count)

	// Ensure commands are separate
	mux = NewCommandMux("!")
	mh = &messageHandler{}
	mh2 := &messageHandler{}
	mux.Event("hello1", mh.Handle, nil)
	mux.Event("hello2", mh2.Handle, nil)
	send(mux, ":someone PRIVMSG #hello :!hello1")
	assert.Equal(t, 1, mh.count)
	assert.Equal(t, 0, mh2.count)
	send(mux, ":someone PRIVMSG #hello :!hello2")
	assert.Equal(t, 1, mh.count)
	assert.Equal(t, 1, mh2.count)
}

func TestHelpFormat(t *testing.T) {
	h := &HelpInfo{
		Usage:       "<query>",
		Description: "Analyses a function",
		Examples:    []string{"analyse diff x^2"},
	}
	assert.Equal(t, []string{
		"Usage: !analyse <query>",
		"Analyses a function",
		"Examples:",
		"  !analyse diff x^2",
	}, h.format("!", "analyse"))

	assert.Equal(t, []string{"There is no help available for command x"}, (&HelpInfo{}).format("!", "x"))
}

func TestMentionMux(t *testing.T) {
	b := testBot()
	mux := NewMentionMux()
	mh := &messageHandler{}
	mux.Event(mh.Handle)

	var testCases = []struct {
		Line string
		Text string
	}{
		{":someone PRIVMSG #math :plotbird: diff x^2", "diff x^2"},
		{":someone PRIVMSG #math :plotbird,   domain of 1/x ", "domain of 1/x"},
		{":someone PRIVMSG #math :plotbird diff x^2", ""},
		{":someone PRIVMSG #math :plotbird:diff x^2", ""},
		{":someone PRIVMSG #math :plotbird: ", ""},
		{":someone PRIVMSG #math :diff x^2", ""},
	}

	for _, tc := range testCases {
		mh.count, mh.last = 0, ""
		mux.HandleEvent(NewRequest(b, irc.MustParseMessage(tc.Line)))

		if tc.Text == "" {
			assert.Equal(t, 0, mh.count, tc.Line)
		} else if assert.Equal(t, 1, mh.count, tc.Line) {
			assert.Equal(t, tc.Text, mh.last, tc.Line)
		}
	}
}
