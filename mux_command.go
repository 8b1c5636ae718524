package plotbird

import (
	"sort"
	"strings"
	"sync"
)

// HelpInfo is a collection of instructions for command usage that
// is formatted with <prefix>help
type HelpInfo struct {
	Usage       string
	Description string
	// Examples are full commands, without the prefix, shown by
	// "<prefix>help <command>".
	Examples []string
}

// The CommandMux is given a prefix string and matches all PRIVMSG
// events which start with it. The first word after the string is
// moved into the Event.Command.
type CommandMux struct {
	private *BasicMux
	public  *BasicMux
	prefix  string

	mu      sync.RWMutex
	cmdHelp map[string]*HelpInfo
}

// NewCommandMux will create an initialized CommandMux with only the help
// command.
func NewCommandMux(prefix string) *CommandMux {
	m := &CommandMux{
		private: NewBasicMux(),
		public:  NewBasicMux(),
		prefix:  prefix,
		cmdHelp: make(map[string]*HelpInfo),
	}

	m.Event("help", m.help, &HelpInfo{
		Usage:       "<command>",
		Description: "Displays help messages for a given command",
	})

	return m
}

// Commands returns the registered command names in order.
func (m *CommandMux) Commands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.cmdHelp))
	for k := range m.cmdHelp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Help returns the help for a command and whether it is registered.
func (m *CommandMux) Help(cmd string) (*HelpInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.cmdHelp[cmd]

	return h, ok
}

func (m *CommandMux) help(r *Request) {
	cmd := strings.TrimPrefix(r.Message.Trailing(), m.prefix)
	if cmd == "" {
		keys := m.Commands()

		if r.FromChannel() {
			// If they said "!help" in a channel, list all available commands
			r.Replyf("Available commands: %s. Use %shelp [command] for more info.", strings.Join(keys, ", "), m.prefix)
			return
		}

		for _, v := range keys {
			h, _ := m.Help(v)
			switch {
			case h == nil:
				r.Replyf("%s", v)
			case h.Usage != "":
				r.Replyf("%s %s: %s", v, h.Usage, h.Description)
			default:
				r.Replyf("%s: %s", v, h.Description)
			}
		}

		return
	}

	help, ok := m.Help(cmd)
	switch {
	case !ok:
		r.MentionReplyf("There is no help available for command %q", cmd)
	case help == nil:
		r.Replyf("There is no help available for command %q", cmd)
	default:
		r.Replyf("%s", strings.Join(help.format(m.prefix, cmd), "\n"))
	}
}

func (h *HelpInfo) format(prefix, command string) []string {
	if h.Usage == "" && h.Description == "" && len(h.Examples) == 0 {
		return []string{"There is no help available for command " + command}
	}

	ret := []string{}

	if h.Usage != "" {
		ret = append(ret, "Usage: "+prefix+command+" "+h.Usage)
	}

	if h.Description != "" {
		ret = append(ret, h.Description)
	}

	if len(h.Examples) > 0 {
		ret = append(ret, "Examples:")
		for _, ex := range h.Examples {
			ret = append(ret, "  "+prefix+ex)
		}
	}

	return ret
}

func (m *CommandMux) setHelp(c string, help *HelpInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cmdHelp[c] = help
}

// Event will register a Handler as both a private and public command
func (m *CommandMux) Event(c string, h HandlerFunc, help *HelpInfo) {
	m.private.Event(c, h)
	m.public.Event(c, h)

	m.setHelp(c, help)
}

// Channel will register a handler as a public command
func (m *CommandMux) Channel(c string, h HandlerFunc, help *HelpInfo) {
	m.public.Event(c, h)

	m.setHelp(c, help)
}

// Private will register a handler as a private command
func (m *CommandMux) Private(c string, h HandlerFunc, help *HelpInfo) {
	m.private.Event(c, h)

	m.setHelp(c, help)
}

// HandleEvent strips off the prefix, pulls the command out
// and runs HandleEvent on the internal BasicMux
func (m *CommandMux) HandleEvent(r *Request) {
	if r.Message.Command != "PRIVMSG" {
		return
	}

	// Get the last arg and see if it starts with the command prefix
	lastArg := r.Message.Trailing()
	if !strings.HasPrefix(lastArg, m.prefix) {
		return
	}

	// Copy it into a new request
	cmd := r.Copy()

	// Chop off the command itself
	msgParts := strings.SplitN(lastArg, " ", 2)
	cmd.Message.Params[len(cmd.Message.Params)-1] = ""
	if len(msgParts) > 1 {
		cmd.Message.Params[len(cmd.Message.Params)-1] = strings.TrimSpace(msgParts[1])
	}

	cmd.Message.Command = msgParts[0][len(m.prefix):]

	if cmd.FromChannel() {
		m.public.HandleEvent(cmd)
	} else {
		m.private.HandleEvent(cmd)
	}
}
