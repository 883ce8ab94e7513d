package config

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/lixenwraith/iron-idols/render"
)

// Theme maps every render style to a hex color
type Theme struct {
	Background string `toml:"background"`
	Normal     string `toml:"normal"`
	Error      string `toml:"error"`
	Rune       string `toml:"rune"`
	RuneAccent string `toml:"rune_accent"`
	Title      string `toml:"title"`
	Link       string `toml:"link"`
	Hidden     string `toml:"hidden"`
	Dim        string `toml:"dim"`
}

// DefaultTheme is white on black with red errors and dark red rune accents
func DefaultTheme() Theme {
	return Theme{
		Background: "#000000",
		Normal:     "#e0e0e0",
		Error:      "#ff2b2b",
		Rune:       "#b8b8b8",
		RuneAccent: "#8b0000",
		Title:      "#ffffff",
		Link:       "#ffffff",
		Hidden:     "#5a5a5a",
		Dim:        "#808080",
	}
}

// Palette parses the theme into one color per style
func (t Theme) Palette() (map[render.Style]colorful.Color, error) {
	hex := map[render.Style]string{
		render.StyleNormal:     t.Normal,
		render.StyleError:      t.Error,
		render.StyleRune:       t.Rune,
		render.StyleRuneAccent: t.RuneAccent,
		render.StyleTitle:      t.Title,
		render.StyleLink:       t.Link,
		render.StyleHidden:     t.Hidden,
		render.StyleDim:        t.Dim,
	}
	out := make(map[render.Style]colorful.Color, len(hex))
	for _, style := range render.Styles() {
		c, err := colorful.Hex(hex[style])
		if err != nil {
			return nil, errors.Wrapf(err, "theme.%s", style)
		}
		out[style] = c
	}
	return out, nil
}

// BackgroundColor parses the background color
func (t Theme) BackgroundColor() (colorful.Color, error) {
	c, err := colorful.Hex(t.Background)
	if err != nil {
		return colorful.Color{}, errors.Wrap(err, "theme.background")
	}
	return c, nil
}
