package layout

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"nameplate/internal/labels"
)

// bezier control point distance for a quarter circle
const kappa = 0.5523

// PDFCanvas draws directly into a gofpdf document sized in points.
type PDFCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas creates an empty document with pages of width x height points.
func NewPDFCanvas(width, height float64, title string) *PDFCanvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("nameplate", true)
	return &PDFCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *PDFCanvas) AddPage() { c.pdf.AddPage() }

func (c *PDFCanvas) Box(b Box) {
	style := ""
	if r, g, bl, ok := labels.RGB(b.Fill); ok {
		c.pdf.SetFillColor(int(r), int(g), int(bl))
		style += "F"
	}
	if r, g, bl, ok := labels.RGB(b.Stroke); ok {
		c.pdf.SetDrawColor(int(r), int(g), int(bl))
		c.pdf.SetLineWidth(0.75)
		style += "D"
	}
	if style == "" {
		return
	}
	if b.Radius <= 0 {
		c.pdf.Rect(b.X, b.Y, b.W, b.H, style)
		return
	}
	c.roundedRect(b, style)
}

func (c *PDFCanvas) roundedRect(b Box, style string) {
	r := min(b.Radius, b.W/2, b.H/2)
	k := r * kappa
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.W, b.Y+b.H

	p := c.pdf
	p.MoveTo(x0+r, y0)
	p.LineTo(x1-r, y0)
	p.CurveBezierCubicTo(x1-r+k, y0, x1, y0+r-k, x1, y0+r)
	p.LineTo(x1, y1-r)
	p.CurveBezierCubicTo(x1, y1-r+k, x1-r+k, y1, x1-r, y1)
	p.LineTo(x0+r, y1)
	p.CurveBezierCubicTo(x0+r-k, y1, x0, y1-r+k, x0, y1-r)
	p.LineTo(x0, y0+r)
	p.CurveBezierCubicTo(x0, y0+r-k, x0+r-k, y0, x0+r, y0)
	p.ClosePath()
	p.DrawPath(style)
}

func (c *PDFCanvas) Text(t Text) {
	if t.Value == "" {
		return
	}
	style := ""
	if t.Bold {
		style = "B"
	}
	c.pdf.SetFont(coreFont(t.Font), style, t.Size)
	if r, g, b, ok := labels.RGB(t.Color); ok {
		c.pdf.SetTextColor(int(r), int(g), int(b))
	} else {
		c.pdf.SetTextColor(0, 0, 0)
	}

	s := c.tr(t.Value)
	x := t.X
	switch t.Align {
	case AlignCenter:
		x -= c.pdf.GetStringWidth(s) / 2
	case AlignRight:
		x -= c.pdf.GetStringWidth(s)
	}
	// gofpdf places text on its baseline; 0.35em puts the x-height middle on t.Y.
	c.pdf.Text(x, t.Y+0.35*t.Size, s)
}

// Bytes finishes the document.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// coreFont maps a design font onto one of the PDF core families.
func coreFont(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		return "Courier"
	case strings.Contains(n, "times"), strings.Contains(n, "georgia"), strings.Contains(n, "garamond"),
		n == "serif":
		return "Times"
	}
	return "Helvetica"
}
