package plotbird

import (
	"errors"
	"fmt"
	"strings"

	irc "github.com/go-irc/irc/v2"
)

var errInvalidMessage = errors.New("Invalid IRC message")

// FromChannel reports whether the message was sent to a channel rather
// than to the bot directly.
func (r *Request) FromChannel() bool {
	if len(r.Message.Params) < 1 {
		return false
	}

	return r.Message.Params[0] != r.bot.CurrentNick()
}

// Replyf answers where the request came from, one PRIVMSG per line of the
// formatted text.
func (r *Request) Replyf(format string, v ...interface{}) error {
	return r.reply("", format, v...)
}

// MentionReplyf acts the same as Replyf but it will prefix every line with
// the user's nick if we are in a channel.
func (r *Request) MentionReplyf(format string, v ...interface{}) error {
	prefix := ""
	if r.FromChannel() && r.Message.Prefix != nil {
		prefix = r.Message.Prefix.Name + ": "
	}

	return r.reply(prefix, format, v...)
}

func (r *Request) reply(prefix, format string, v ...interface{}) error {
	if len(r.Message.Params) < 1 || len(r.Message.Params[0]) < 1 || r.Message.Prefix == nil {
		return errInvalidMessage
	}

	target := r.Message.Prefix.Name
	if r.FromChannel() {
		target = r.Message.Params[0]
	}

	fullMsg := fmt.Sprintf(format, v...)
	for _, resp := range strings.Split(fullMsg, "\n") {
		if strings.TrimSpace(resp) == "" {
			continue
		}

		r.WriteMessage(&irc.Message{
			Prefix:  &irc.Prefix{},
			Command: "PRIVMSG",
			Params: []string{
				target,
				prefix + resp,
			},
		})
	}

	return nil
}

// PrivateReplyf is similar to Replyf, but it will always send privately.
func (r *Request) PrivateReplyf(format string, v ...interface{}) error {
	if r.Message.Prefix == nil {
		return errInvalidMessage
	}

	r.WriteMessage(&irc.Message{
		Prefix:  &irc.Prefix{},
		Command: "PRIVMSG",
		Params: []string{
			r.Message.Prefix.Name,
			fmt.Sprintf(format, v...),
		},
	})

	return nil
}

// CTCPReplyf is a convenience function to respond to CTCP requests.
func (r *Request) CTCPReplyf(format string, v ...interface{}) error {
	if r.Message.Command != "CTCP" || r.Message.Prefix == nil {
		return errors.New("Invalid CTCP message")
	}

	r.WriteMessage(&irc.Message{
		Prefix:  &irc.Prefix{},
		Command: "NOTICE",
		Params: []string{
			r.Message.Prefix.Name,
			fmt.Sprintf(format, v...),
		},
	})

	return nil
}

// WriteMessage sends an IRC message through the bot.
func (r *Request) WriteMessage(m *irc.Message) {
	r.bot.WriteMessage(m)
}
