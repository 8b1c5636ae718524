package plotbird

// HandlerFunc handles one request. Handlers run on the IRC read loop, so a
// handler doing slow work should bound it, as the parser pool does with its
// timeout.
type HandlerFunc func(r *Request)

// HandleEvent calls f(r)
func (f HandlerFunc) HandleEvent(r *Request) {
	f(r)
}
