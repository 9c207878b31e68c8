package labels

import (
	"fmt"

	"nameplate/internal/domain"
)

// Trailing header columns that follow the per-line pairs.
var trailingHeader = []string{"LABEL COLOR", "TEXT COLOR", "WIDTH", "HEIGHT", "CORNERS", "STICKY BACK", "NOTES"}

// Table is the full tabular export: a header plus one row per physical label.
type Table struct {
	Budget int
	Header []string
	Rows   []Row
}

// BuildTable expands every design of order, in order, under a single column budget.
func BuildTable(order *domain.OrderRequest) Table {
	budget := ColumnBudget(order.Labels)
	t := Table{
		Budget: budget,
		Header: Header(budget),
		Rows:   make([]Row, 0, order.TotalLabels()),
	}
	for _, d := range order.Labels {
		t.Rows = append(t.Rows, Expand(d, budget, order.RefID, order.Notes)...)
	}
	return t
}

// Header returns the positional header for a column budget.
func Header(budget int) []string {
	h := make([]string, 0, 1+2*budget+len(trailingHeader))
	h = append(h, "REF ID")
	for i := 1; i <= budget; i++ {
		h = append(h, fmt.Sprintf("LINE %d TEXT", i), fmt.Sprintf("LINE %d TEXT SIZE", i))
	}
	return append(h, trailingHeader...)
}

// Records returns header and rows as string records, header first.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	for _, r := range t.Rows {
		out = append(out, r.Cells())
	}
	return out
}

// Len counts the header plus every data row.
func (t Table) Len() int {
	return len(t.Rows) + 1
}
