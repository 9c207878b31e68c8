package labels

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nameplate/internal/domain"
)

var titleCaser = cases.Title(language.English)

// Row is one physical label in the tabular export.
type Row struct {
	RefID      string
	Columns    []Column
	LabelColor string
	TextColor  string
	Width      string
	Height     string
	Corners    string
	StickyBack string
	Notes      string
}

// Cells flattens the row in header order.
func (r Row) Cells() []string {
	cells := make([]string, 0, 1+2*len(r.Columns)+7)
	cells = append(cells, r.RefID)
	for _, c := range r.Columns {
		cells = append(cells, c.Text, c.Size)
	}
	return append(cells, r.LabelColor, r.TextColor, r.Width, r.Height, r.Corners, r.StickyBack, r.Notes)
}

// Expand produces one identical row per ordered label of design, never fewer than one.
func Expand(design domain.LabelDesign, budget int, refID, notes string) []Row {
	row := Row{
		RefID:      refID,
		Columns:    ToColumns(design.TextLines, budget),
		LabelColor: ResolveColorName(design.LabelColor),
		TextColor:  ResolveColorName(design.TextColor),
		Width:      FormatNumber(design.Width),
		Height:     FormatNumber(design.Height),
		Corners:    CornerLabel(design.Corners),
		StickyBack: YesNo(design.StickyBack),
		Notes:      notes,
	}

	n := design.EffectiveQuantity()
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = row
		// Rows must not share the column backing array.
		rows[i].Columns = append([]Column(nil), row.Columns...)
	}
	return rows
}

// CornerLabel capitalises the corner style for paperwork ("Rounded", "Squared").
func CornerLabel(corners string) string {
	if corners == "" {
		corners = domain.Defaults.Corners
	}
	return titleCaser.String(corners)
}

// YesNo renders a boolean flag the way the production sheets expect.
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
