package labels

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// palette maps canonical lowercase #rrggbb values to the names used on paperwork.
var palette = map[string]string{
	"#22c55e": "Green",
	"#ef4444": "Red",
	"#eab308": "Yellow",
	"#3b82f6": "Blue",
	"#000000": "Black",
	"#ffffff": "White",
	"#f97316": "Orange",
	"#6b7280": "Gray",
}

// ResolveColorName returns the palette name for hex, or hex unchanged when it is not a
// palette colour. Matching ignores case and accepts the short #rgb form.
func ResolveColorName(hex string) string {
	if name, ok := palette[strings.ToLower(strings.TrimSpace(hex))]; ok {
		return name
	}
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return hex
	}
	if name, ok := palette[c.Hex()]; ok {
		return name
	}
	return hex
}

// RGB decodes hex into 8-bit channels. ok is false when hex is not a colour, in which
// case the channels are black.
func RGB(hex string) (r, g, b uint8, ok bool) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}

// CSSColor returns hex as a CSS colour literal, falling back to fallback when hex cannot
// be parsed. Raw input never reaches markup unvalidated.
func CSSColor(hex, fallback string) string {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return fallback
	}
	return c.Hex()
}
