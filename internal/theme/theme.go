// Package theme holds the layout and style lookup tables used when rendering
// a document. Unknown IDs fall back to "classic".
package theme

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultID is used for unknown layout and style IDs.
const DefaultID = "classic"

//go:embed themes.yaml
var themesYAML []byte

// Layout controls the arrangement of the rendered page.
type Layout struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	HeaderAlign     string `yaml:"header_align"` // L or R
	ShowItemNumbers bool   `yaml:"show_item_numbers"`
	HideBorders     bool   `yaml:"hide_borders"`
}

// Style controls fonts and colours.
type Style struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Font   string `yaml:"font"`
	Accent []int  `yaml:"accent"` // RGB
}

type catalog struct {
	Layouts []Layout `yaml:"layouts"`
	Styles  []Style  `yaml:"styles"`
}

var themes = mustLoad(themesYAML)

func mustLoad(data []byte) catalog {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("failed to unmarshal theme catalog: %v", err))
	}
	for _, s := range c.Styles {
		if len(s.Accent) != 3 {
			panic(fmt.Sprintf("style %s: accent must be an RGB triple", s.ID))
		}
	}
	return c
}

// GetLayout returns the layout with id, or the default layout.
func GetLayout(id string) Layout {
	if l, ok := findLayout(id); ok {
		return l
	}
	l, _ := findLayout(DefaultID)
	return l
}

// RGB returns the accent colour components.
func (s Style) RGB() (r, g, b int) {
	return s.Accent[0], s.Accent[1], s.Accent[2]
}

// GetStyle returns the style with id, or the default style.
func GetStyle(id string) Style {
	if s, ok := findStyle(id); ok {
		return s
	}
	s, _ := findStyle(DefaultID)
	return s
}

// HasLayout reports whether id names a known layout.
func HasLayout(id string) bool {
	_, ok := findLayout(id)
	return ok
}

// HasStyle reports whether id names a known style.
func HasStyle(id string) bool {
	_, ok := findStyle(id)
	return ok
}

// LayoutIDs lists known layouts in table order.
func LayoutIDs() []string {
	ids := make([]string, len(themes.Layouts))
	for i, l := range themes.Layouts {
		ids[i] = l.ID
	}
	return ids
}

// StyleIDs lists known styles in table order.
func StyleIDs() []string {
	ids := make([]string, len(themes.Styles))
	for i, s := range themes.Styles {
		ids[i] = s.ID
	}
	return ids
}

func findLayout(id string) (Layout, bool) {
	for _, l := range themes.Layouts {
		if l.ID == id {
			return l, true
		}
	}
	return Layout{}, false
}

func findStyle(id string) (Style, bool) {
	for _, s := range themes.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}
