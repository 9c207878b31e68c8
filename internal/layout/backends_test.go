package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameplate/internal/domain"
)

func sampleOrder() *domain.OrderRequest {
	o := &domain.OrderRequest{RefID: "R-1", ContactName: "Ada", Notes: "n", Labels: []domain.LabelDesign{
		{ID: 1, Width: 7, Height: 2, Quantity: 2, Corners: "rounded", LabelColor: "#22C55E", Font: "Times New Roman",
			TextLines: []domain.TextLine{{Text: "ACME <b>", FontSize: 24, X: 50, Y: 50}}},
		{ID: 2, Width: 4, Height: 2, StickyBack: true, Font: "Courier",
			TextLines: []domain.TextLine{{Text: "Ünïcode…", FontSize: 12, X: 10, Y: 10}}},
	}}
	o.Normalize()
	return o
}

func TestPDFCanvas_ProducesDocument(t *testing.T) {
	s := DefaultSettings()
	c := NewPDFCanvas(s.PageWidth, s.PageHeight, "Order R-1")
	st := Render(c, sampleOrder(), s)
	assert.Equal(t, 1, st.Pages)

	out, err := c.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "expected PDF header")
	assert.Greater(t, len(out), 500)
}

func TestHTMLCanvas_EscapesAndPositions(t *testing.T) {
	s := DefaultSettings()
	c := NewHTMLCanvas(s.PageWidth, s.PageHeight, "Order <R-1>")
	Render(c, sampleOrder(), s)
	doc := c.String()

	assert.Contains(t, doc, "<title>Order &lt;R-1&gt;</title>")
	assert.Contains(t, doc, "ACME &lt;b&gt;")
	assert.NotContains(t, doc, "ACME <b>")
	assert.Contains(t, doc, "font-family:'Times New Roman'")
	assert.Contains(t, doc, "background:#22c55e;")
	assert.Contains(t, doc, "border-radius:")
	assert.Equal(t, 1, strings.Count(doc, `<section class="page"`))
	assert.Equal(t, strings.Count(doc, "<section"), strings.Count(doc, "</section>"))

	w, h := c.PageSizeInches()
	assert.InDelta(t, 8.5, w, 1e-9)
	assert.InDelta(t, 11, h, 1e-9)
}

func TestHTMLCanvas_OnePagePerBreak(t *testing.T) {
	s := DefaultSettings()
	s.MaxBoxHeight = 2 * s.PageHeight
	o := &domain.OrderRequest{RefID: "R", Labels: designs(3, domain.LabelDesign{Width: 1, Height: 10, Font: "Arial"})}
	c := NewHTMLCanvas(s.PageWidth, s.PageHeight, "x")
	Render(c, o, s)
	assert.Equal(t, 3, strings.Count(c.String(), `<section class="page"`))
}

func TestHTMLCanvas_TemplateEscapesStyleValues(t *testing.T) {
	c := NewHTMLCanvas(612, 792, "t")
	c.AddPage()
	c.Box(Box{X: 1, Y: 2, W: 3, H: 4, Fill: "red;}</style><script>", Stroke: "#ABCDEF"})
	c.Text(Text{X: 10, Y: 20, Size: 9, Font: "Arial", Color: "#111827", Align: AlignRight, Bold: true, Value: "</div><b>x"})
	c.Text(Text{Value: ""})

	doc, err := c.Bytes()
	require.NoError(t, err)
	out := string(doc)
	assert.Contains(t, out, "left:1.00pt;top:2.00pt;width:3.00pt;height:4.00pt;background:transparent;border:0.75pt solid #abcdef;")
	assert.Contains(t, out, `class="text right bold"`)
	assert.Contains(t, out, "&lt;/div&gt;&lt;b&gt;x")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "ZgotmplZ")
	assert.Equal(t, 1, strings.Count(out, `class="text`))
	assert.Contains(t, out, "@page { size: 612.00pt 792.00pt; margin: 0; }")
}

func TestCoreFontAndCSSFont(t *testing.T) {
	assert.Equal(t, "Times", coreFont("Times New Roman"))
	assert.Equal(t, "Courier", coreFont("JetBrains Mono"))
	assert.Equal(t, "Helvetica", coreFont("Arial"))
	assert.Equal(t, "Arial Black", cssFont("Arial Black"))
	assert.Equal(t, "Arialstyle", cssFont("Arial';}<style>"))
	assert.Equal(t, "Helvetica", cssFont("';"))
}
