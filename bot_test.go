package plotbird

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCore = `
[core]
nick = "plotbird"
prefix = "!"
loglevel = "debug"
`

func TestNewBotConfig(t *testing.T) {
	b, err := NewBot(strings.NewReader(testCore + `
[parser]
statementslimit = 3
timeout = "2s"
latex = true
`))
	require.NoError(t, err)

	conf := b.ParserEnv().Config
	assert.Equal(t, 3, conf.StatementsLimit)
	assert.Equal(t, 2*time.Second, conf.Timeout.Duration)
	assert.True(t, conf.LaTeX)
	assert.Equal(t, 10, conf.FunctionsLimit)
	assert.Equal(t, "plotbird", b.CurrentNick())
	assert.Equal(t, []string{"help"}, b.CommandMux().Commands())

	var extra struct{ Value int }
	assert.Error(t, b.Config("missing", &extra))
	assert.False(t, b.HasConfig("missing"))
}

func TestNewBotErrors(t *testing.T) {
	var testCases = []string{
		`nick = "plotbird"`,
		"[core\n",
		testCore + "[core]\n",
		"[core]\nloglevel = \"loud\"\n",
		testCore + "[parser]\ntimeout = \"soon\"\n",
		testCore + "[parser]\ngraphpatterns = \"/does/not/exist.json\"\n",
	}

	for _, input := range testCases {
		_, err := NewBot(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

type closer struct {
	order *[]string
	name  string
	err   error
}

func (c closer) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestBotClose(t *testing.T) {
	b, err := NewBot(strings.NewReader(testCore))
	require.NoError(t, err)

	var order []string
	boom := errors.New("boom")
	b.OnClose(closer{&order, "first", nil})
	b.OnClose(closer{&order, "second", boom})

	assert.Equal(t, boom, b.Close())
	assert.Equal(t, []string{"second", "first"}, order)
	assert.NoError(t, b.Close())
}
