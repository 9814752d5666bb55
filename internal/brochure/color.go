package brochure

import (
	"strconv"
	"strings"
)

type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	White     = Color{255, 255, 255}
	Ink       = Color{34, 34, 34}
	Muted     = Color{110, 110, 110}
	TileFill  = Color{243, 244, 246}
	LineColor = Color{210, 210, 210}
)

// ParseHex parses #rgb or #rrggbb, returning fallback on anything else.
func ParseHex(s string, fallback Color) Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Readable picks white or ink for text drawn on top of c.
func (c Color) Readable() Color {
	// perceived luminance, ITU-R BT.601
	if 299*c.R+587*c.G+114*c.B > 150000 {
		return Ink
	}
	return White
}
