package export

import (
	"bytes"
	"fmt"
	"html/template"

	"nameplate/internal/domain"
	"nameplate/internal/labels"
)

// Placeholder stands in for the primary text of a design without any text lines.
const Placeholder = "—"

// PreviewBlock is the summary of one design in the preview document.
type PreviewBlock struct {
	ID         int
	Primary    string
	Lines      []string
	Dimensions string
	LabelColor string
	LabelHex   string
	TextColor  string
	TextHex    string
	Font       string
	Corners    string
	StickyBack string
	Quantity   int
}

type previewPage struct {
	RefID        string
	ContactName  string
	ContactEmail string
	Notes        string
	TotalLabels  int
	Blocks       []PreviewBlock
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Order {{.RefID}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #111827; margin: 24px; }
.design { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; margin-bottom: 12px; }
.primary { font-size: 18px; font-weight: bold; }
.swatch { display: inline-block; width: 12px; height: 12px; border: 1px solid #d1d5db; vertical-align: middle; }
dl { display: grid; grid-template-columns: max-content auto; gap: 2px 12px; margin: 8px 0 0; }
dt { color: #6b7280; }
dd { margin: 0; }
</style></head><body>
<h1>Order {{.RefID}}</h1>
{{- if or .ContactName .ContactEmail}}
<section class="contact">
{{- if .ContactName}}<p>{{.ContactName}}</p>{{end}}
{{- if .ContactEmail}}<p>{{.ContactEmail}}</p>{{end}}
</section>
{{- end}}
<p class="total">Total labels: {{.TotalLabels}}</p>
{{- range .Blocks}}
<section class="design" data-id="{{.ID}}">
<div class="primary">{{.Primary}}</div>
{{- if gt (len .Lines) 1}}
<ul class="lines">{{range .Lines}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
<dl>
<dt>Size</dt><dd>{{.Dimensions}}</dd>
<dt>Label color</dt><dd><span class="swatch" style="background: {{.LabelHex}}"></span> {{.LabelColor}}</dd>
<dt>Text color</dt><dd><span class="swatch" style="background: {{.TextHex}}"></span> {{.TextColor}}</dd>
<dt>Font</dt><dd>{{.Font}}</dd>
<dt>Corners</dt><dd>{{.Corners}}</dd>
<dt>Sticky back</dt><dd>{{.StickyBack}}</dd>
<dt>Quantity</dt><dd>{{.Quantity}}</dd>
</dl>
</section>
{{- end}}
{{- if .Notes}}
<section class="notes"><h2>Notes</h2><p>{{.Notes}}</p></section>
{{- end}}
</body></html>
`))

// PreviewBlocks summarises every design in order. Text is cut to maxChars.
func PreviewBlocks(order *domain.OrderRequest, unit string, maxChars int) []PreviewBlock {
	blocks := make([]PreviewBlock, 0, len(order.Labels))
	for _, d := range order.Labels {
		lines := labels.NonEmpty(d.TextLines)
		texts := make([]string, len(lines))
		for i, ln := range lines {
			texts[i] = labels.Truncate(ln.Text, maxChars)
		}
		primary := Placeholder
		if len(texts) > 0 {
			primary = texts[0]
		}
		blocks = append(blocks, PreviewBlock{
			ID:         d.ID,
			Primary:    primary,
			Lines:      texts,
			Dimensions: fmt.Sprintf("%s x %s %s", labels.FormatNumber(d.Width), labels.FormatNumber(d.Height), unit),
			LabelColor: labels.ResolveColorName(d.LabelColor),
			LabelHex:   labels.CSSColor(d.LabelColor, domain.Defaults.LabelColor),
			TextColor:  labels.ResolveColorName(d.TextColor),
			TextHex:    labels.CSSColor(d.TextColor, domain.Defaults.TextColor),
			Font:       d.Font,
			Corners:    labels.CornerLabel(d.Corners),
			StickyBack: labels.YesNo(d.StickyBack),
			Quantity:   d.EffectiveQuantity(),
		})
	}
	return blocks
}

// BuildPreview renders the non-paginated markup summary of order.
func BuildPreview(order *domain.OrderRequest, unit string, maxChars int) ([]byte, error) {
	page := previewPage{
		RefID:        order.RefID,
		ContactName:  order.ContactName,
		ContactEmail: order.ContactEmail,
		Notes:        order.Notes,
		TotalLabels:  order.TotalLabels(),
		Blocks:       PreviewBlocks(order, unit, maxChars),
	}
	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}
