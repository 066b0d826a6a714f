package building

import (
	"strings"

	"github.com/lixenwraith/wrecker/component"
)

// Theme is a named color set for a level
type Theme struct {
	Name    string
	Palette []component.Color
	Window  component.Color
	Accent  component.Color
	Sky     component.Color
	Ground  component.Color
}

var themes = map[string]Theme{
	"MODERN": {
		Name:    "MODERN",
		Palette: []component.Color{component.Hex(0xffffff), component.Hex(0xdddddd), component.Hex(0xaaaaaa), component.Hex(0x333333)},
		Window:  component.Hex(0x00d4ff),
		Accent:  component.Hex(0xff0055),
		Sky:     component.Hex(0x05070a),
		Ground:  component.Hex(0x1a1a1a),
	},
	"INDUSTRIAL": {
		Name:    "INDUSTRIAL",
		Palette: []component.Color{component.Hex(0x8b4513), component.Hex(0x555555), component.Hex(0x2f4f4f)},
		Window:  component.Hex(0xffaa00),
		Accent:  component.Hex(0xff3300),
		Sky:     component.Hex(0x2c2c2c),
		Ground:  component.Hex(0x3e3e3e),
	},
	"ANCIENT": {
		Name:    "ANCIENT",
		Palette: []component.Color{component.Hex(0xe0c9a6), component.Hex(0xd2b48c), component.Hex(0x8b4513)},
		Window:  component.Hex(0x000000),
		Accent:  component.Hex(0x228b22),
		Sky:     component.Hex(0x87ceeb),
		Ground:  component.Hex(0xe6d5ac),
	},
}

// DefaultTheme is used when a level names an unknown theme
func DefaultTheme() Theme { return themes["MODERN"] }

// ThemeByName looks up a theme tag case-insensitively
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[strings.ToUpper(name)]
	return t, ok
}
