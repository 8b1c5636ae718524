package internal

// ContextKey namespaces the values the bot stores on a request context.
type ContextKey string

func (key ContextKey) String() string {
	return "plotbird context key " + string(key)
}
