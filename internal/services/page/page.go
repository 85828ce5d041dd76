// Package page renders the static checkout page.
package page

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed index.html
var indexHTML string

// Page is a template whose {{KEY}} placeholders are filled from a map.
type Page struct {
	template string
}

// Default returns the embedded checkout page.
func Default() *Page {
	return &Page{template: indexHTML}
}

// Load reads a page template from path, or returns the embedded page when
// path is empty.
func Load(path string) (*Page, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page template: %w", err)
	}

	return &Page{template: string(b)}, nil
}

// Render replaces {{KEY}} for every key in values. Placeholders without a
// value are left as they are.
func (p *Page) Render(values map[string]string) string {
	return Interpolate(p.template, values)
}

func Interpolate(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}
