package types

import (
	"fmt"
	"image/color"
)

// FallbackColor is used for palette entries that fail to parse
var FallbackColor = color.RGBA{200, 200, 255, 255}

// ParseHexColor parses "#rrggbb" into an opaque color
func ParseHexColor(hex string) (color.RGBA, bool) {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
		if err == nil && n == 3 {
			return color.RGBA{r, g, b, 255}, true
		}
	}
	return FallbackColor, false
}

// PackRGB packs a "#rrggbb" color as 0xRRGGBB
func PackRGB(hex string) uint32 {
	c, _ := ParseHexColor(hex)
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// UnpackRGB is the inverse of PackRGB
func UnpackRGB(v uint32) string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(v>>16), uint8(v>>8), uint8(v))
}
