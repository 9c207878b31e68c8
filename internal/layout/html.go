package layout

import (
	"bytes"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"nameplate/internal/labels"
)

var unsafeFontChars = regexp.MustCompile(`[^A-Za-z0-9 \-]`)

type htmlBox struct {
	X, Y, W, H   float64
	Fill, Stroke string
	Radius       float64
}

type htmlText struct {
	X, Y, Size float64
	Class      string
	Color      string
	Font       string
	Value      string
}

// htmlElement is either a box or a text; the other pointer is nil.
type htmlElement struct {
	Box  *htmlBox
	Text *htmlText
}

type htmlPage struct {
	Elements []htmlElement
}

var htmlTmpl = template.Must(template.New("pages").Funcs(template.FuncMap{
	"pt": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "pt" },
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
@page { size: {{pt .Width}} {{pt .Height}}; margin: 0; }
html, body { margin: 0; padding: 0; }
.page { position: relative; overflow: hidden; page-break-after: always; break-after: page; }
.page:last-child { page-break-after: auto; break-after: auto; }
.box, .text { position: absolute; box-sizing: border-box; }
.text { white-space: nowrap; line-height: 1; transform: translate(0, -50%); }
.text.center { transform: translate(-50%, -50%); }
.text.right { transform: translate(-100%, -50%); }
.text.bold { font-weight: bold; }
</style></head><body>
{{- range .Pages}}
<section class="page" style="width:{{pt $.Width}};height:{{pt $.Height}};">
{{- range .Elements}}
{{- with .Box}}
<div class="box" style="left:{{pt .X}};top:{{pt .Y}};width:{{pt .W}};height:{{pt .H}};
{{- if .Fill}}background:{{.Fill}};{{end}}
{{- if .Stroke}}border:0.75pt solid {{.Stroke}};{{end}}
{{- if .Radius}}border-radius:{{pt .Radius}};{{end}}"></div>
{{- end}}
{{- with .Text}}
<div class="{{.Class}}" style="left:{{pt .X}};top:{{pt .Y}};font-size:{{pt .Size}};color:{{.Color}};font-family:'{{.Font}}',sans-serif;">{{.Value}}</div>
{{- end}}
{{- end}}
</section>
{{- end}}
</body></html>
`))

// HTMLCanvas collects one fixed-size page of absolutely positioned elements per
// AddPage and renders them through html/template, for printing through a browser.
type HTMLCanvas struct {
	width, height float64
	title         string
	pages         []htmlPage
}

// NewHTMLCanvas starts a document whose pages are width x height points.
func NewHTMLCanvas(width, height float64, title string) *HTMLCanvas {
	return &HTMLCanvas{width: width, height: height, title: title}
}

func (c *HTMLCanvas) AddPage() {
	c.pages = append(c.pages, htmlPage{})
}

func (c *HTMLCanvas) add(e htmlElement) {
	if len(c.pages) == 0 {
		c.AddPage()
	}
	last := &c.pages[len(c.pages)-1]
	last.Elements = append(last.Elements, e)
}

func (c *HTMLCanvas) Box(b Box) {
	hb := &htmlBox{X: b.X, Y: b.Y, W: b.W, H: b.H, Radius: b.Radius}
	if b.Fill != "" {
		hb.Fill = labels.CSSColor(b.Fill, "transparent")
	}
	if b.Stroke != "" {
		hb.Stroke = labels.CSSColor(b.Stroke, "#000000")
	}
	c.add(htmlElement{Box: hb})
}

func (c *HTMLCanvas) Text(t Text) {
	if t.Value == "" {
		return
	}
	class := []string{"text"}
	switch t.Align {
	case AlignCenter:
		class = append(class, "center")
	case AlignRight:
		class = append(class, "right")
	}
	if t.Bold {
		class = append(class, "bold")
	}
	c.add(htmlElement{Text: &htmlText{
		X: t.X, Y: t.Y, Size: t.Size,
		Class: strings.Join(class, " "),
		Color: labels.CSSColor(t.Color, "#000000"),
		Font:  cssFont(t.Font),
		Value: t.Value,
	}})
}

// Bytes renders the finished document.
func (c *HTMLCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := htmlTmpl.Execute(&buf, struct {
		Title         string
		Width, Height float64
		Pages         []htmlPage
	}{c.title, c.width, c.height, c.pages})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the finished document, or "" when rendering fails.
func (c *HTMLCanvas) String() string {
	b, _ := c.Bytes()
	return string(b)
}

// PageSizeInches reports the page size for the browser print dialog.
func (c *HTMLCanvas) PageSizeInches() (float64, float64) {
	return c.width / 72, c.height / 72
}

func cssFont(name string) string {
	name = strings.TrimSpace(unsafeFontChars.ReplaceAllString(name, ""))
	if name == "" {
		return "Helvetica"
	}
	return name
}
