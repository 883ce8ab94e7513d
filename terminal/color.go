package terminal

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/iron-idols/render"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// trueColorHosts are emulators that export one of these variables and always
// render 24-bit color
var trueColorHosts = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"WEZTERM_PANE",
}

// DetectColorMode determines terminal color capability from environment
// An explicit TCELL_TRUECOLOR=disable wins over every other hint
func DetectColorMode() ColorMode {
	if os.Getenv("TCELL_TRUECOLOR") == "disable" {
		return ColorMode256
	}
	if m, ok := colorModes[os.Getenv("COLORTERM")]; ok && m == ColorModeTrueColor {
		return m
	}
	for _, v := range trueColorHosts {
		if os.Getenv(v) != "" {
			return ColorModeTrueColor
		}
	}
	term := os.Getenv("TERM")
	for _, suffix := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, suffix) {
			return ColorModeTrueColor
		}
	}
	return ColorMode256
}

// colorModes maps config and COLORTERM spellings to a mode
var colorModes = map[string]ColorMode{
	"truecolor": ColorModeTrueColor,
	"24bit":     ColorModeTrueColor,
	"256":       ColorMode256,
}

// ParseColorMode maps a config value to a mode; "auto" or anything unknown detects from the environment
func ParseColorMode(s string) ColorMode {
	if m, ok := colorModes[s]; ok {
		return m
	}
	return DetectColorMode()
}

// ApplyColorMode tells tcell whether to emit 24-bit colors
// Must run before the screen is created; in 256 mode tcell maps RGB to the palette
func ApplyColorMode(m ColorMode) {
	if m == ColorMode256 {
		os.Setenv("TCELL_TRUECOLOR", "disable")
	}
}

// Palette holds one tcell style per render style
type Palette struct {
	base   tcell.Style
	styles map[render.Style]tcell.Style
}

// NewPalette builds styles from theme colors; missing styles use the default foreground
func NewPalette(colors map[render.Style]colorful.Color, background colorful.Color) Palette {
	base := tcell.StyleDefault.Background(toTcell(background))
	p := Palette{base: base, styles: make(map[render.Style]tcell.Style, len(colors))}
	for style, c := range colors {
		p.styles[style] = base.Foreground(toTcell(c))
	}
	return p
}

// Base is the screen background style
func (p Palette) Base() tcell.Style {
	return p.base
}

// Style returns the tcell style for s
func (p Palette) Style(s render.Style) tcell.Style {
	if st, ok := p.styles[s]; ok {
		return st
	}
	return p.base
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
