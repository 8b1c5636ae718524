package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluralize(t *testing.T) {
	assert.Equal(t, "point", Pluralize(1, "point"))
	assert.Equal(t, "points", Pluralize(0, "point"))
	assert.Equal(t, "points", Pluralize(2, "point"))
	assert.Equal(t, "asymptotes", Pluralize(3, "asymptote"))
}

func TestTemplateHelpers(t *testing.T) {
	tmpl := TemplateMustCompile("test", `
		{{.N}} {{pluralize .N "root"}}: {{join ", " .Items}}
	`)

	out, err := RenderTemplate(tmpl, map[string]interface{}{
		"N":     2,
		"Items": []string{"-1", "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 roots: -1, 1", out)

	out, err = RenderTemplate(tmpl, map[string]interface{}{
		"N":     "1",
		"Items": []interface{}{"0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1 root: 0", out)

	_, err = RenderTemplate(tmpl, map[string]interface{}{
		"N":     "many",
		"Items": nil,
	})
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration)

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
