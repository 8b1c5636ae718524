package plotbird

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/codegangsta/inject"
	irc "github.com/go-irc/irc/v2"
	"github.com/sirupsen/logrus"

	plugin "github.com/belak/go-plugin"

	"github.com/plotbird/plotbird/internal"
	"github.com/plotbird/plotbird/parser"
)

//nolint:maligned
type coreConfig struct {
	Nick string
	User string
	Name string
	Pass string

	PingFrequency internal.Duration
	PingTimeout   internal.Duration

	Host        string
	TLS         bool
	TLSNoVerify bool
	TLSCert     string
	TLSKey      string

	Cmds   []string
	Prefix string

	Plugins []string

	LogLevel string

	SendLimit internal.Duration
	SendBurst int
}

// A Bot is our wrapper around the irc.Client. It owns the config, the
// muxes plugins register with and the parser environment shared by every
// request.
type Bot struct {
	mux      *BasicMux
	commands *CommandMux
	mentions *MentionMux

	// Config stuff
	confValues map[string]toml.Primitive
	md         toml.MetaData
	config     coreConfig

	parserEnv *parser.Env
	closers   []io.Closer

	// Internal things
	client   *irc.Client
	registry *plugin.Registry
	injector inject.Injector
	log      *logrus.Entry
}

// NewBot will return a new Bot given an io.Reader pointing to a config
// file. The plugins named in the [core] plugins whitelist are loaded.
func NewBot(confReader io.Reader) (*Bot, error) {
	var err error

	b := &Bot{
		mux:        NewBasicMux(),
		confValues: make(map[string]toml.Primitive),
		registry:   plugins.Copy(),
	}

	// Decode the file, but leave all the config sections intact so we can
	// decode those later.
	b.md, err = toml.DecodeReader(confReader, &b.confValues)
	if err != nil {
		return nil, err
	}

	err = b.Config("core", &b.config)
	if err != nil {
		return nil, err
	}

	b.log = logrus.NewEntry(logrus.New())

	b.log.Logger.Level = logrus.InfoLevel
	if b.config.LogLevel != "" {
		level, innerErr := logrus.ParseLevel(b.config.LogLevel)
		if innerErr != nil {
			return nil, innerErr
		}

		b.log.Logger.Level = level
	}

	// The parser section is optional, every field has a default.
	var parserConf parser.Config
	if b.HasConfig("parser") {
		err = b.Config("parser", &parserConf)
		if err != nil {
			return nil, err
		}
	}

	b.parserEnv, err = parser.NewEnv(parserConf, b.log.WithField("component", "parser"))
	if err != nil {
		return nil, err
	}

	b.commands = NewCommandMux(b.config.Prefix)
	b.mentions = NewMentionMux()

	b.mux.Event("PRIVMSG", b.commands.HandleEvent)
	b.mux.Event("PRIVMSG", b.mentions.HandleEvent)

	// Register all the things we want with the plugin registry.
	err = b.registry.RegisterProvider("plotbird/core", func() (*Bot, *BasicMux, *CommandMux, *MentionMux, *parser.Env) {
		return b, b.mux, b.commands, b.mentions, b.parserEnv
	})
	if err != nil {
		return nil, err
	}

	b.injector, err = b.registry.Load(b.config.Plugins, nil)
	if err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

// GetLogger grabs the underlying logger for this bot.
func (b *Bot) GetLogger() *logrus.Entry {
	return b.log
}

// ParserEnv returns the limits, pattern tables and worker pool the parsers
// share.
func (b *Bot) ParserEnv() *parser.Env {
	return b.parserEnv
}

// CommandMux returns the mux for prefixed commands.
func (b *Bot) CommandMux() *CommandMux {
	return b.commands
}

// MentionMux returns the mux for messages addressed to the bot by nick.
func (b *Bot) MentionMux() *MentionMux {
	return b.mentions
}

// CurrentNick returns the current nick of the bot, or the configured one
// before the bot has connected.
func (b *Bot) CurrentNick() string {
	if b == nil {
		return ""
	}
	if b.client == nil {
		return b.config.Nick
	}

	return b.client.CurrentNick()
}

// HasConfig reports whether the config file has a section for name.
func (b *Bot) HasConfig(name string) bool {
	_, ok := b.confValues[name]
	return ok
}

// Config will decode the config section for the given name into the given
// interface{}
func (b *Bot) Config(name string, c interface{}) error {
	if v, ok := b.confValues[name]; ok {
		return b.md.PrimitiveDecode(v, c)
	}

	return fmt.Errorf("Config section for %q missing", name)
}

// Invoke calls fn with its arguments filled from the values the core and
// the loaded plugins provide.
func (b *Bot) Invoke(fn interface{}) error {
	_, err := b.injector.Invoke(fn)
	return err
}

// OnClose registers something a plugin opened which should be closed with
// the bot.
func (b *Bot) OnClose(c io.Closer) {
	b.closers = append(b.closers, c)
}

// Close releases everything registered with OnClose, most recent first.
func (b *Bot) Close() error {
	var first error

	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil

	return first
}

// WriteMessage sends an IRC message.
func (b *Bot) WriteMessage(m *irc.Message) {
	if err := b.client.WriteMessage(m); err != nil {
		b.log.WithError(err).Warn("Failed to write message")
	}
}

// Write will write a raw IRC line to the stream.
func (b *Bot) Write(line string) {
	if err := b.client.Write(line); err != nil {
		b.log.WithError(err).Warn("Failed to write line")
	}
}

// Writef is a convenience method around fmt.Sprintf and Bot.Write.
func (b *Bot) Writef(format string, args ...interface{}) {
	b.Write(fmt.Sprintf(format, args...))
}

func (b *Bot) handler(c *irc.Client, m *irc.Message) {
	r := NewRequest(b, m)

	timer := r.Timer("total_request")

	if r.Message.Command == "001" {
		b.log.Info("Connected")

		for _, v := range b.config.Cmds {
			b.Write(v)
		}
	} else if r.Message.Command == "PRIVMSG" {
		// Clean up CTCP stuff so plugins don't need to parse it manually
		lastArg := r.Message.Trailing()
		lastIdx := len(lastArg) - 1
		if lastIdx > 0 && lastArg[0] == '\x01' && lastArg[lastIdx] == '\x01' {
			r.Message.Command = "CTCP"
			r.Message.Params[len(r.Message.Params)-1] = lastArg[1:lastIdx]
		}
	}

	b.mux.HandleEvent(r)
	timer.Done()

	r.Log()
}

// ConnectAndRun is a convenience function which will pull the connection
// information out of the config and connect, then call Run.
func (b *Bot) ConnectAndRun() error {
	// The ReadWriteCloser will contain either a *net.Conn or *tls.Conn
	var (
		c   io.ReadWriteCloser
		err error
	)

	if b.config.TLS {
		conf := &tls.Config{
			InsecureSkipVerify: b.config.TLSNoVerify, //nolint:gosec
		}

		if b.config.TLSCert != "" && b.config.TLSKey != "" {
			var cert tls.Certificate
			cert, err = tls.LoadX509KeyPair(b.config.TLSCert, b.config.TLSKey)
			if err != nil {
				return err
			}

			conf.Certificates = []tls.Certificate{cert}
		}

		c, err = tls.Dial("tcp", b.config.Host, conf)
	} else {
		c, err = net.Dial("tcp", b.config.Host)
	}

	if err != nil {
		return err
	}
	defer c.Close()

	return b.Run(c)
}

// Run starts the bot and loops until it dies. It accepts a ReadWriter. If
// you wish to use the connection feature from the config, use
// ConnectAndRun.
func (b *Bot) Run(c io.ReadWriter) error {
	rc := irc.ClientConfig{
		Nick: b.config.Nick,
		Pass: b.config.Pass,
		User: b.config.User,
		Name: b.config.Name,

		PingFrequency: b.config.PingFrequency.Duration,
		PingTimeout:   b.config.PingTimeout.Duration,

		SendLimit: b.config.SendLimit.Duration,
		SendBurst: b.config.SendBurst,

		Handler: irc.HandlerFunc(b.handler),
	}

	b.client = irc.NewClient(c, rc)

	b.client.Reader.DebugCallback = func(line string) {
		b.log.Debug("<-- ", strings.Trim(line, "\r\n"))
	}
	b.client.Writer.DebugCallback = func(line string) {
		if len(line) > 512 {
			b.log.Warnf("Line longer than 512 chars: %s", strings.Trim(line, "\r\n"))
		}

		b.log.Debug("--> ", strings.Trim(line, "\r\n"))
	}

	return b.client.Run()
}
