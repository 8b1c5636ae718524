package plotbird

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// MentionMux is a simple IRC event multiplexer, based on a slice of Handlers
//
// The MentionMux uses the current Nick and punctuation to determine if the
// Client has been mentioned. The nick, punctuation and any leading or
// trailing spaces are removed from the message.
type MentionMux struct {
	handlers []HandlerFunc
	lock     sync.RWMutex
}

// NewMentionMux will create an initialized MentionMux with no handlers.
func NewMentionMux() *MentionMux {
	return &MentionMux{}
}

// Event will register a Handler
func (m *MentionMux) Event(h HandlerFunc) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.handlers = append(m.handlers, h)
}

// HandleEvent strips off the nick punctuation and spaces and runs the handlers
func (m *MentionMux) HandleEvent(r *Request) {
	if r.Message.Command != "PRIVMSG" {
		return
	}

	text, ok := stripMention(r.Message.Trailing(), r.bot.CurrentNick())
	if !ok {
		return
	}

	mention := r.Copy()
	mention.Message.Params[len(mention.Message.Params)-1] = text

	m.lock.RLock()
	handlers := m.handlers
	m.lock.RUnlock()

	for _, h := range handlers {
		h(mention)
	}
}

// stripMention returns the message without a leading "nick: " or
// "nick, ", and whether it had one.
func stripMention(msg, nick string) (string, bool) {
	if nick == "" || !strings.HasPrefix(msg, nick) {
		return "", false
	}

	rest := msg[len(nick):]
	punct, size := utf8.DecodeRuneInString(rest)
	if !unicode.IsPunct(punct) || !strings.HasPrefix(rest[size:], " ") {
		return "", false
	}

	text := strings.TrimSpace(rest[size:])

	return text, text != ""
}
