package plotbird

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotbird/plotbird/parser"
)

type widget struct {
	users []string
}

func init() {
	RegisterPlugin("test.widget", func() *widget { return &widget{} })
	RegisterPlugin("test.user", func(w *widget, env *parser.Env) {
		if env != nil {
			w.users = append(w.users, "user")
		}
	})
}

func TestRegisterPlugin(t *testing.T) {
	assert.Error(t, RegisterPlugin("test.widget", func() {}))

	b, err := NewBot(strings.NewReader(testCore + `plugins = ["test.widget", "test.user"]` + "\n"))
	require.NoError(t, err)

	require.NoError(t, b.Invoke(func(w *widget, core *Bot, cm *CommandMux) {
		assert.Equal(t, []string{"user"}, w.users)
		assert.Equal(t, b, core)
		assert.Equal(t, b.CommandMux(), cm)
	}))

	// test.user cannot load without something providing a *widget.
	_, err = NewBot(strings.NewReader(testCore + `plugins = ["test.user"]` + "\n"))
	assert.Error(t, err)
}
