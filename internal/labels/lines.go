package labels

import (
	"strconv"

	"nameplate/internal/domain"
)

// Column is one text/size pair of a tabular row. Size is empty, not "0", for absent lines.
type Column struct {
	Text string
	Size string
}

// ToColumns projects lines onto exactly budget columns. Slot i carries lines[i] when it
// exists and has text; every other slot is blank. Slots are positional while the budget
// counts only non-empty lines, so text behind a leading blank line can fall past the last
// slot: lines ["", "X"] with budget 1 export no text.
func ToColumns(lines []domain.TextLine, budget int) []Column {
	if budget < 1 {
		budget = 1
	}
	cols := make([]Column, budget)
	for i := 0; i < budget && i < len(lines); i++ {
		if lines[i].Text == "" {
			continue
		}
		cols[i] = Column{Text: lines[i].Text, Size: FormatNumber(lines[i].FontSize)}
	}
	return cols
}

// NonEmpty keeps the lines that have text, in their original order.
func NonEmpty(lines []domain.TextLine) []domain.TextLine {
	out := make([]domain.TextLine, 0, len(lines))
	for _, ln := range lines {
		if ln.Text != "" {
			out = append(out, ln)
		}
	}
	return out
}

// ColumnBudget is the widest non-empty line count across the whole design set, at least 1.
func ColumnBudget(designs []domain.LabelDesign) int {
	budget := 1
	for _, d := range designs {
		if n := len(NonEmpty(d.TextLines)); n > budget {
			budget = n
		}
	}
	return budget
}

// PrimaryText is the first non-empty line, or "" when the design has none.
func PrimaryText(lines []domain.TextLine) string {
	for _, ln := range lines {
		if ln.Text != "" {
			return ln.Text
		}
	}
	return ""
}

// FormatNumber prints dimensions and sizes without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
