package component

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a packed 8-bit RGB color
type Color struct {
	R, G, B uint8
}

// Hex builds a Color from 0xRRGGBB
func Hex(rgb uint32) Color {
	return Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
	}
}

// ParseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb"
func ParseColor(s string) (Color, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if len(t) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// Uint32 packs the color as 0xRRGGBB
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Vec3 returns the color as normalized floats for instance attributes
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Uint32())
}

// UnmarshalText lets colors appear as strings in TOML and YAML
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText mirrors UnmarshalText
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Fixed colors not owned by any theme
var (
	ColorHazardRed = Hex(0xff0000)
	ColorWhite     = Hex(0xffffff)
)
