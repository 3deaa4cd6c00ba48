package core

import (
	"fmt"
	"strconv"
	"strings"
)

// HexColor is a "#rrggbb" color string as stored in map settings.
type HexColor string

// ParseHex converts the color to its numeric 0xRRGGBB value.
// Accepts an optional leading '#' or "0x" prefix.
func (c HexColor) ParseHex() (uint32, error) {
	s := strings.TrimSpace(string(c))
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 6 {
		return 0, fmt.Errorf("core: color %q: expected 6 hex digits", string(c))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("core: color %q: %w", string(c), err)
	}
	return uint32(v), nil
}

// Valid reports whether the color parses.
func (c HexColor) Valid() bool {
	_, err := c.ParseHex()
	return err == nil
}

// HexFromInt formats a numeric color as "#rrggbb".
func HexFromInt(v uint32) HexColor {
	return HexColor(fmt.Sprintf("#%06x", v&0xffffff))
}
