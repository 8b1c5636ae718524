// Package utils runs a bot against canned server lines for plugin tests.
package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plotbird/plotbird"
)

const baseConfig = `
[core]
nick = "plotbird"
user = "plotbird_user"
name = "Plotbird Bot"
pass = "password"
prefix = "!"
plugins = [%s]
`

// Channel is where RunTest sends its messages from.
const Channel = "#math"

// NewTestBot will return the TestClientServer and plotbird.Bot for use in
// the test, loading only the named plugins. extraConfig is appended to the
// config file.
func NewTestBot(t *testing.T, plugins []string, extraConfig string) (*TestClientServer, *plotbird.Bot) {
	quoted := make([]string, len(plugins))
	for i, p := range plugins {
		quoted[i] = strconv.Quote(p)
	}

	confReader := bytes.NewBufferString(fmt.Sprintf(baseConfig, strings.Join(quoted, ", ")))
	confReader.WriteString(extraConfig)

	b, err := plotbird.NewBot(confReader)
	require.NoError(t, err)

	return NewTestClientServer(), b
}

// RunTest sends each message to Channel, runs the bot until it has read
// them all and returns the replies sent back to the channel.
func RunTest(t *testing.T, b *plotbird.Bot, cs *TestClientServer, messages ...string) []string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = ":tester!tester@localhost PRIVMSG " + Channel + " :" + m
	}

	cs.SendServerLines(lines)

	// Run the bot until EOF
	_ = b.Run(cs)

	return cs.Replies(t, Channel)
}
