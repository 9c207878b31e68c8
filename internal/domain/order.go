package domain

import (
	"fmt"
	"strings"
)

// Corner styles accepted on a label design.
const (
	CornersSquared = "squared"
	CornersRounded = "rounded"
)

// TextLine is one line of engraved text. X and Y are percentages of the label box,
// measured from the top-left corner.
type TextLine struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// LabelDesign is one label template. Quantity only controls how many tabular rows the
// design produces; it is rendered once in visual documents.
type LabelDesign struct {
	ID         int        `json:"id"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Font       string     `json:"font"`
	LabelColor string     `json:"labelColor"`
	TextColor  string     `json:"textColor"`
	Corners    string     `json:"corners"`
	StickyBack bool       `json:"stickyBack"`
	Quantity   int        `json:"quantity"`
	TextLines  []TextLine `json:"textLines"`
}

// OrderRequest is the inbound design set.
type OrderRequest struct {
	RefID        string        `json:"refId"`
	ContactName  string        `json:"contactName,omitempty"`
	ContactEmail string        `json:"contactEmail,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Format       string        `json:"format,omitempty"`
	Labels       []LabelDesign `json:"labels"`
}

// DesignDefaults holds the substitutes for absent or malformed design fields.
type DesignDefaults struct {
	Width      float64
	Height     float64
	Font       string
	LabelColor string
	TextColor  string
	Corners    string
	Quantity   int
	FontSize   float64
}

// Defaults is consulted once, by Normalize. Renderers never re-derive fallbacks.
var Defaults = DesignDefaults{
	Width:      7,
	Height:     2,
	Font:       "Arial",
	LabelColor: "#000000",
	TextColor:  "#FFFFFF",
	Corners:    CornersSquared,
	Quantity:   1,
	FontSize:   12,
}

// Validate rejects orders that cannot be rendered at all.
func (o *OrderRequest) Validate() error {
	if strings.TrimSpace(o.RefID) == "" {
		return fmt.Errorf("%w: refId is required", ErrValidation)
	}
	if len(o.Labels) == 0 {
		return fmt.Errorf("%w: at least one label is required", ErrValidation)
	}
	return nil
}

// Normalize fills every absent field with its documented default so that rendering is
// total over the declared input shape.
func (o *OrderRequest) Normalize() {
	o.RefID = strings.TrimSpace(o.RefID)
	for i := range o.Labels {
		o.Labels[i].normalize(Defaults)
	}
}

func (d *LabelDesign) normalize(def DesignDefaults) {
	if d.Width <= 0 {
		d.Width = def.Width
	}
	if d.Height <= 0 {
		d.Height = def.Height
	}
	if strings.TrimSpace(d.Font) == "" {
		d.Font = def.Font
	}
	if strings.TrimSpace(d.LabelColor) == "" {
		d.LabelColor = def.LabelColor
	}
	if strings.TrimSpace(d.TextColor) == "" {
		d.TextColor = def.TextColor
	}
	switch strings.ToLower(strings.TrimSpace(d.Corners)) {
	case CornersRounded:
		d.Corners = CornersRounded
	default:
		d.Corners = def.Corners
	}
	if d.Quantity <= 0 {
		d.Quantity = def.Quantity
	}
	for i := range d.TextLines {
		ln := &d.TextLines[i]
		if ln.FontSize <= 0 {
			ln.FontSize = def.FontSize
		}
		ln.X = clampPercent(ln.X)
		ln.Y = clampPercent(ln.Y)
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// EffectiveQuantity never reports fewer than one label for a declared design.
func (d LabelDesign) EffectiveQuantity() int {
	if d.Quantity < 1 {
		return 1
	}
	return d.Quantity
}

// TotalLabels is the number of physical labels to manufacture.
func (o *OrderRequest) TotalLabels() int {
	total := 0
	for _, d := range o.Labels {
		total += d.EffectiveQuantity()
	}
	return total
}
