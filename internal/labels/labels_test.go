package labels

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameplate/internal/domain"
)

func exampleOrder() *domain.OrderRequest {
	o := &domain.OrderRequest{
		RefID: "ORD-42",
		Notes: "rush",
		Labels: []domain.LabelDesign{
			{ID: 1, Width: 7, Height: 2, Quantity: 3, LabelColor: "#22C55E", TextColor: "#ffffff",
				TextLines: []domain.TextLine{{Text: "ACME", FontSize: 24, X: 50, Y: 50}}},
			{ID: 2, Width: 4, Height: 2, Quantity: 1, LabelColor: "#123456", Corners: "rounded", StickyBack: true,
				TextLines: []domain.TextLine{{Text: "LOT 7", FontSize: 18, X: 50, Y: 30}, {Text: "B2", FontSize: 10.5, X: 50, Y: 70}}},
		},
	}
	o.Normalize()
	return o
}

func TestResolveColorName(t *testing.T) {
	assert.Equal(t, "Green", ResolveColorName("#22C55E"))
	assert.Equal(t, "Green", ResolveColorName("#22c55e"))
	assert.Equal(t, "White", ResolveColorName("#FFF"))
	assert.Equal(t, "#123456", ResolveColorName("#123456"))
	assert.Equal(t, "not-a-colour", ResolveColorName("not-a-colour"))

	for hex := range palette {
		once := ResolveColorName(strings.ToUpper(hex))
		assert.Equal(t, once, ResolveColorName(once), "resolve must be idempotent for %s", hex)
	}
}

func TestRGBAndCSSColor(t *testing.T) {
	r, g, b, ok := RGB("#22C55E")
	require.True(t, ok)
	assert.Equal(t, [3]uint8{0x22, 0xc5, 0x5e}, [3]uint8{r, g, b})

	_, _, _, ok = RGB("green")
	assert.False(t, ok)

	assert.Equal(t, "#22c55e", CSSColor("#22C55E", "#000000"))
	assert.Equal(t, "#000000", CSSColor("red;}body{", "#000000"))
}

func TestToColumns_PadsAndTruncatesToBudget(t *testing.T) {
	lines := []domain.TextLine{{Text: "A", FontSize: 12}, {Text: "", FontSize: 9}, {Text: "C", FontSize: 8.5}}

	cols := ToColumns(lines, 4)
	require.Len(t, cols, 4)
	assert.Equal(t, Column{Text: "A", Size: "12"}, cols[0])
	assert.Equal(t, Column{}, cols[1], "empty line keeps its slot but emits blank size")
	assert.Equal(t, Column{Text: "C", Size: "8.5"}, cols[2])
	assert.Equal(t, Column{}, cols[3])

	assert.Len(t, ToColumns(lines, 1), 1)
	assert.Len(t, ToColumns(nil, 0), 1)
}

func TestToColumns_BlankLeadingLineShiftsTextPastBudget(t *testing.T) {
	d := domain.LabelDesign{TextLines: []domain.TextLine{{Text: ""}, {Text: "X", FontSize: 10}}}
	budget := ColumnBudget([]domain.LabelDesign{d})
	require.Equal(t, 1, budget)

	assert.Equal(t, []Column{{}}, ToColumns(d.TextLines, budget))
	assert.Equal(t, "X", PrimaryText(d.TextLines))

	// A wider design elsewhere in the order widens the budget and the text reappears.
	wide := domain.LabelDesign{TextLines: []domain.TextLine{{Text: "a"}, {Text: "b"}}}
	budget = ColumnBudget([]domain.LabelDesign{d, wide})
	assert.Equal(t, []Column{{}, {Text: "X", Size: "10"}}, ToColumns(d.TextLines, budget))
}

func TestNonEmpty_PreservesOrder(t *testing.T) {
	lines := []domain.TextLine{{Text: "x"}, {Text: ""}, {Text: "y"}, {Text: ""}}
	got := NonEmpty(lines)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Text)
	assert.Equal(t, "y", got[1].Text)
}

func TestColumnBudget(t *testing.T) {
	assert.Equal(t, 1, ColumnBudget(nil))
	assert.Equal(t, 1, ColumnBudget([]domain.LabelDesign{{TextLines: []domain.TextLine{{Text: ""}}}}))
	assert.Equal(t, 2, ColumnBudget(exampleOrder().Labels))
}

func TestFitBox_PreservesAspectAndBounds(t *testing.T) {
	s := Scaler{UnitToPoint: 72, MinFont: 4, MaxFont: 48}
	cases := []struct{ w, h, maxW, maxH float64 }{
		{7, 2, 400, 120},
		{4, 2, 400, 120},
		{1, 5, 400, 120},
		{3, 3, 100, 100},
		{12, 0.5, 250, 90},
	}
	for _, c := range cases {
		box := s.FitBox(c.w, c.h, c.maxW, c.maxH)
		assert.LessOrEqual(t, box.Width, c.maxW+1e-9)
		assert.LessOrEqual(t, box.Height, c.maxH+1e-9)
		assert.InDelta(t, c.w/c.h, box.Width/box.Height, 1e-9)
		assert.InDelta(t, box.Width/(c.w*72), box.Scale, 1e-12)
		if math.Abs(box.Width-c.maxW) > 1e-9 && math.Abs(box.Height-c.maxH) > 1e-9 {
			t.Fatalf("box %+v touches neither bound for %+v", box, c)
		}
	}
}

func TestFitBox_DefaultsInvalidDimensions(t *testing.T) {
	s := Scaler{UnitToPoint: 72}
	box := s.FitBox(0, -1, 350, 100)
	assert.InDelta(t, 7.0/2.0, box.Width/box.Height, 1e-9)
}

func TestFontSize_Clamps(t *testing.T) {
	s := Scaler{UnitToPoint: 72, MinFont: 4, MaxFont: 40}
	assert.Equal(t, 4.0, s.FontSize(2, RenderedBox{Scale: 0.5}))
	assert.Equal(t, 40.0, s.FontSize(200, RenderedBox{Scale: 1}))
	assert.InDelta(t, 12.0, s.FontSize(24, RenderedBox{Scale: 0.5}), 1e-9)
}

func TestTextPosition(t *testing.T) {
	x, y := TextPosition(10, 20, RenderedBox{Width: 200, Height: 50}, 25, 50)
	assert.Equal(t, 60.0, x)
	assert.Equal(t, 45.0, y)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 5))
	assert.Equal(t, "abc…", Truncate("abcdef", 3))
	assert.Equal(t, "ñañ…", Truncate("ñañaña", 3))
	for _, s := range []string{"", "a", "hello world", "ümlaut überall"} {
		for n := 0; n < 8; n++ {
			once := Truncate(s, n)
			assert.Equal(t, once, Truncate(once, n), "idempotent for %q/%d", s, n)
		}
	}
}

func TestExpand_RepeatsRowsByQuantity(t *testing.T) {
	o := exampleOrder()
	rows := Expand(o.Labels[0], 2, o.RefID, o.Notes)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, rows[0], r)
	}
	r := rows[0]
	assert.Equal(t, "ORD-42", r.RefID)
	assert.Equal(t, "Green", r.LabelColor)
	assert.Equal(t, "White", r.TextColor)
	assert.Equal(t, "7", r.Width)
	assert.Equal(t, "2", r.Height)
	assert.Equal(t, "Squared", r.Corners)
	assert.Equal(t, "No", r.StickyBack)
	assert.Equal(t, "rush", r.Notes)
	assert.Len(t, r.Columns, 2)

	rows[0].Columns[0].Text = "mutated"
	assert.Equal(t, "ACME", rows[1].Columns[0].Text)

	zero := o.Labels[0]
	zero.Quantity = 0
	assert.Len(t, Expand(zero, 1, "R", ""), 1)
}

func TestBuildTable_EndToEnd(t *testing.T) {
	o := exampleOrder()
	tbl := BuildTable(o)

	assert.Equal(t, 2, tbl.Budget)
	assert.Equal(t, 5, tbl.Len())
	assert.Equal(t, 1+o.TotalLabels(), tbl.Len())

	assert.Equal(t, []string{
		"REF ID", "LINE 1 TEXT", "LINE 1 TEXT SIZE", "LINE 2 TEXT", "LINE 2 TEXT SIZE",
		"LABEL COLOR", "TEXT COLOR", "WIDTH", "HEIGHT", "CORNERS", "STICKY BACK", "NOTES",
	}, tbl.Header)

	recs := tbl.Records()
	require.Len(t, recs, 5)
	for _, rec := range recs {
		assert.Len(t, rec, len(tbl.Header))
	}
	last := recs[4]
	assert.Equal(t, []string{"ORD-42", "LOT 7", "18", "B2", "10.5", "#123456", "White", "4", "2", "Rounded", "Yes", "rush"}, last)
	assert.Equal(t, []string{"ORD-42", "ACME", "24", "", "", "Green", "White", "7", "2", "Squared", "No", "rush"}, recs[1])
}

func TestSummarize(t *testing.T) {
	o := exampleOrder()
	s := Summarize(o, "s3://x.xlsx", "s3://x.pdf")
	assert.Equal(t, 4, s.TotalLabels)
	require.Len(t, s.Designs, 2)
	assert.Equal(t, "Green", s.Designs[0].LabelColor)
	assert.Equal(t, []string{"LOT 7", "B2"}, s.Designs[1].Lines)
	assert.Equal(t, "s3://x.pdf", s.DocumentURL)
}

func TestCornerLabelAndPrimaryText(t *testing.T) {
	assert.Equal(t, "Rounded", CornerLabel("rounded"))
	assert.Equal(t, "Squared", CornerLabel(""))
	assert.Equal(t, "B", PrimaryText([]domain.TextLine{{Text: ""}, {Text: "B"}}))
	assert.Equal(t, "", PrimaryText(nil))
}
