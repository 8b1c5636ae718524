package plotbird

import plugin "github.com/belak/go-plugin"

var plugins = plugin.NewRegistry()

// RegisterPlugin registers a plugin factory for a given name. The factory
// is a function whose arguments are filled from what the core and other
// plugins provide. Its results are provided in turn, and a trailing error
// result aborts loading.
func RegisterPlugin(name string, factory interface{}) error {
	return plugins.Register(name, factory)
}
