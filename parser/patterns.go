package parser

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/spf13/cast"
)

//go:embed patterns/*.json
var defaultPatterns embed.FS

// Pattern is one regular expression of a category. Groups lists the capture
// groups of interest: the first one holds the expression (or the first
// number), the rest are secondary parameters.
type Pattern struct {
	Source string
	Regexp *regexp.Regexp
	Groups []int
}

// Category is a named set of patterns with the keywords used to correct
// misspelled queries.
type Category struct {
	Name     string
	Patterns []Pattern
	Keywords []string
}

// Table is an ordered list of categories. Order matters: the first matching
// pattern wins. A Table is never modified after loading.
type Table struct {
	Categories []*Category
}

// Category looks a category up by name.
func (t *Table) Category(name string) *Category {
	for _, c := range t.Categories {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// LoadTable reads a pattern file. The file is a JSON object of categories,
// each with a "patterns" object mapping a regular expression to its capture
// group indices and a "keywords" list. Key order is preserved.
func LoadTable(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	t := &Table{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		c, err := readCategory(dec, name)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		t.Categories = append(t.Categories, c)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return t, nil
}

// LoadTableFile loads a table from path, or the embedded default of the
// given name when path is empty.
func LoadTableFile(path, name string) (*Table, error) {
	var (
		data []byte
		err  error
	)

	if path == "" {
		data, err = defaultPatterns.ReadFile("patterns/" + name + ".json")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return LoadTable(bytes.NewReader(data))
}

func readCategory(dec *json.Decoder, name string) (*Category, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	c := &Category{Name: name}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		switch key {
		case "patterns":
			c.Patterns, err = readPatterns(dec)
		case "keywords":
			var raw []interface{}
			if err = dec.Decode(&raw); err == nil {
				c.Keywords, err = cast.ToStringSliceE(raw)
			}
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	return c, expectDelim(dec, '}')
}

func readPatterns(dec *json.Decoder) ([]Pattern, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var out []Pattern
	for dec.More() {
		src, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		var raw []interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("pattern %q has no capture groups", src)
		}

		groups := make([]int, len(raw))
		for i, v := range raw {
			if groups[i], err = cast.ToIntE(v); err != nil {
				return nil, fmt.Errorf("pattern %q: %w", src, err)
			}
		}

		// Patterns only have to match at the start of the input.
		re, err := regexp.Compile(`^(?:` + src + `)`)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			if g < 0 || g > re.NumSubexp() {
				return nil, fmt.Errorf("pattern %q has no group %d", src, g)
			}
		}

		out = append(out, Pattern{Source: src, Regexp: re, Groups: groups})
	}

	return out, expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}

	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}

	return nil
}

// match is a successful pattern application.
type match struct {
	category *Category
	groups   []string
}

// expression returns the first capture of interest.
func (m *match) expression() string {
	return m.groups[0]
}

// params returns the secondary captures.
func (m *match) params() []string {
	return m.groups[1:]
}

// matchCategory tries the category's patterns in order against text.
func matchCategory(c *Category, text string) *match {
	for _, p := range c.Patterns {
		sub := p.Regexp.FindStringSubmatch(text)
		if sub == nil {
			continue
		}

		groups := make([]string, len(p.Groups))
		for i, g := range p.Groups {
			groups[i] = sub[g]
		}

		return &match{category: c, groups: groups}
	}

	return nil
}
