package internal

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/bep/inflect"
	"github.com/spf13/cast"
)

// TemplateMustCompile will add all the helpers to a new template,
// compile it and panic if that fails. Note that it will also trim
// space from the start and end of the template to make definitions
// easier.
//
// Provided functions:
// - pluralize - takes the count and the word, pluralizing unless count is 1
// - join - joins a list of values with the given separator
func TemplateMustCompile(name, data string) *template.Template {
	ret := template.New(name)
	ret.Funcs(template.FuncMap{
		"pluralize": templatePluralize,
		"join":      templateJoin,
	})

	template.Must(ret.Parse(strings.TrimSpace(data)))

	return ret
}

// RenderTemplate is a wrapper to render a template to a string.
func RenderTemplate(t *template.Template, vars interface{}) (string, error) {
	b := bytes.NewBuffer(nil)

	err := t.Execute(b, vars)
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

func templatePluralize(count interface{}, in interface{}) (string, error) {
	n, err := cast.ToIntE(count)
	if err != nil {
		return "", err
	}

	word, err := cast.ToStringE(in)
	if err != nil {
		return "", err
	}

	return Pluralize(n, word), nil
}

// Pluralize pluralizes word unless count is exactly one.
func Pluralize(count int, word string) string {
	if count == 1 {
		return word
	}

	return inflect.Pluralize(word)
}

func templateJoin(sep string, in interface{}) (string, error) {
	items, err := cast.ToStringSliceE(in)
	if err != nil {
		return "", err
	}

	return strings.Join(items, sep), nil
}

// Duration is a time.Duration which can be read from a config file as
// text such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error

	d.Duration, err = time.ParseDuration(string(text))

	return err
}
