package utils

import (
	"bytes"
	"strings"
	"testing"

	irc "github.com/go-irc/irc/v2"
	"github.com/stretchr/testify/require"
)

// TestClientServer is a simple abstraction meant to be used as an
// io.ReadWriter with plotbird.Bot so messages can be tracked.
type TestClientServer struct {
	client *bytes.Buffer
	server *bytes.Buffer
}

// NewTestClientServer returns a new TestClientServer
func NewTestClientServer() *TestClientServer {
	return &TestClientServer{
		client: &bytes.Buffer{},
		server: &bytes.Buffer{},
	}
}

// Read is what will be coming from the "server"
func (cs *TestClientServer) Read(p []byte) (int, error) {
	return cs.server.Read(p)
}

// Write is what will be going to the "server"
func (cs *TestClientServer) Write(p []byte) (int, error) {
	return cs.client.Write(p)
}

// SendServerLines will queue the given lines as if they were coming from
// the server, to be read by the test client.
func (cs *TestClientServer) SendServerLines(lines []string) {
	w := irc.NewWriter(cs.server)

	for _, line := range lines {
		w.WriteMessage(irc.MustParseMessage(line))
	}
}

// Sent parses everything the client wrote.
func (cs *TestClientServer) Sent(t *testing.T) []*irc.Message {
	var out []*irc.Message

	for _, line := range strings.Split(cs.client.String(), "\r\n") {
		if line == "" {
			continue
		}

		m, err := irc.ParseMessage(line)
		require.NoError(t, err, line)
		out = append(out, m)
	}

	return out
}

// Replies returns the text of every PRIVMSG the client sent to target.
func (cs *TestClientServer) Replies(t *testing.T, target string) []string {
	var out []string

	for _, m := range cs.Sent(t) {
		if m.Command == "PRIVMSG" && len(m.Params) == 2 && m.Params[0] == target {
			out = append(out, m.Trailing())
		}
	}

	return out
}

// Reset clears the contents of the internal buffers
func (cs *TestClientServer) Reset() {
	cs.client.Reset()
	cs.server.Reset()
}
