package labels

import (
	"unicode/utf8"

	"nameplate/internal/domain"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// RenderedBox is the on-page rectangle for one design, in render units (points).
type RenderedBox struct {
	Width  float64
	Height float64
	// Scale converts design font sizes to rendered font sizes.
	Scale float64
}

// Scaler fits physical label dimensions into a render area.
type Scaler struct {
	// UnitToPoint converts one design unit to render units (72 for inches).
	UnitToPoint float64
	MinFont     float64
	MaxFont     float64
}

// FitBox returns the largest box with the design's aspect ratio that fits inside
// maxWidth x maxHeight. Non-positive design dimensions fall back to the domain defaults.
func (s Scaler) FitBox(designWidth, designHeight, maxWidth, maxHeight float64) RenderedBox {
	if designWidth <= 0 {
		designWidth = domain.Defaults.Width
	}
	if designHeight <= 0 {
		designHeight = domain.Defaults.Height
	}
	unit := s.UnitToPoint
	if unit <= 0 {
		unit = 1
	}

	ratio := designWidth / designHeight
	var box RenderedBox
	if ratio > maxWidth/maxHeight {
		box.Width = maxWidth
		box.Height = maxWidth / ratio
	} else {
		box.Height = maxHeight
		box.Width = maxHeight * ratio
	}
	// Both axes share the ratio, so the width-derived multiplier is the only one.
	box.Scale = box.Width / (designWidth * unit)
	return box
}

// FontSize scales a design font size into the box and clamps it to the legible range.
func (s Scaler) FontSize(designSize float64, box RenderedBox) float64 {
	size := designSize * box.Scale
	if s.MinFont > 0 && size < s.MinFont {
		size = s.MinFont
	}
	if s.MaxFont > 0 && size > s.MaxFont {
		size = s.MaxFont
	}
	return size
}

// TextPosition is the absolute anchor of a line placed at (x%, y%) of a box at boxX, boxY.
func TextPosition(boxX, boxY float64, box RenderedBox, xPct, yPct float64) (float64, float64) {
	return boxX + (xPct/100)*box.Width, boxY + (yPct/100)*box.Height
}

// Truncate keeps at most maxChars characters and appends an ellipsis when it cuts.
// Text already at or under the budget is returned unchanged.
func Truncate(text string, maxChars int) string {
	if maxChars < 0 {
		maxChars = 0
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + Ellipsis
}
