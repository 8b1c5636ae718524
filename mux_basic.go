package plotbird

import (
	"fmt"
	"sync"
)

// BasicMux is a simple IRC event multiplexer. It matches the command against
// registered Handlers and calls the correct set.
//
// Handlers will be processed in the order in which they were added.
// Registering a handler with a "*" command will cause it to receive all events.
// Note that even though "*" will match all commands, glob matching is not used.
type BasicMux struct {
	m  map[string][]HandlerFunc
	mu sync.RWMutex
}

// NewBasicMux will create an initialized BasicMux with no handlers.
func NewBasicMux() *BasicMux {
	return &BasicMux{
		m: make(map[string][]HandlerFunc),
	}
}

// Event will register a Handler
func (mux *BasicMux) Event(c string, h HandlerFunc) {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	mux.m[c] = append(mux.m[c], h)
}

// Has reports whether any handler is registered for c.
func (mux *BasicMux) Has(c string) bool {
	mux.mu.RLock()
	defer mux.mu.RUnlock()

	return len(mux.m[c]) > 0
}

// HandleEvent runs the "*" handlers and then the ones registered for the
// message command.
func (mux *BasicMux) HandleEvent(r *Request) {
	timer := r.Timer("basic_mux")
	defer timer.Done()

	mux.mu.RLock()
	global := mux.m["*"]
	handlers := mux.m[r.Message.Command]
	mux.mu.RUnlock()

	for _, h := range global {
		h(r)
	}

	for idx, handler := range handlers {
		handlerTimer := r.Timer(fmt.Sprintf("basic_mux_handler:%s:%d", r.Message.Command, idx))
		handler(r)
		handlerTimer.Done()
	}
}
