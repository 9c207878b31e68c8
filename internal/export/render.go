package export

import (
	"bytes"
	"context"
	"fmt"

	"nameplate/internal/config"
	"nameplate/internal/domain"
	"nameplate/internal/labels"
	"nameplate/internal/layout"
)

// Kind names an artifact.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindDocument    Kind = "document"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Artifact is one generated output, ready for upload.
type Artifact struct {
	Kind        Kind
	Ext         string
	ContentType string
	Body        []byte
}

// HTMLPrinter turns a paginated HTML document into PDF.
type HTMLPrinter interface {
	PrintHTML(ctx context.Context, html string, paper config.PaperSize) ([]byte, error)
}

// Renderer produces artifacts for normalized orders.
type Renderer struct {
	Settings     layout.Settings
	PreviewChars int
	// Backend is "native" or "chrome". Chrome needs Printer.
	Backend string
	Printer HTMLPrinter
}

// SettingsFromConfig builds page settings from the configured paper, margin and layout.
func SettingsFromConfig(cfg config.Config) layout.Settings {
	s := layout.DefaultSettings()
	if paper, ok := cfg.Paper(); ok {
		s.PageWidth = paper.Width * 72
		s.PageHeight = paper.Height * 72
	}
	if cfg.PDF.MarginInches > 0 {
		s.Margin = cfg.PDF.MarginInches * 72
	}
	if cfg.Layout.MaxBoxWidth > 0 {
		s.MaxBoxWidth = cfg.Layout.MaxBoxWidth
	}
	if cfg.Layout.MaxBoxHeight > 0 {
		s.MaxBoxHeight = cfg.Layout.MaxBoxHeight
	}
	if cfg.Layout.Spacing != nil {
		s.Spacing = *cfg.Layout.Spacing
	}
	if cfg.Layout.MinFont > 0 {
		s.Scaler.MinFont = cfg.Layout.MinFont
	}
	if cfg.Layout.MaxFont > 0 {
		s.Scaler.MaxFont = cfg.Layout.MaxFont
	}
	if cfg.Layout.CardTextChars > 0 {
		s.TextBudget = cfg.Layout.CardTextChars
	}
	if cfg.Layout.Unit != "" {
		s.Unit = cfg.Layout.Unit
	}
	s.Scaler.UnitToPoint = cfg.UnitToPoint()
	return s
}

// NewRenderer configures a Renderer. printer may be nil for the native backend.
func NewRenderer(cfg config.Config, printer HTMLPrinter) *Renderer {
	return &Renderer{
		Settings:     SettingsFromConfig(cfg),
		PreviewChars: cfg.Layout.PreviewChars,
		Backend:      cfg.PDF.Backend,
		Printer:      printer,
	}
}

// Spreadsheet builds the tabular artifact.
func (r *Renderer) Spreadsheet(order *domain.OrderRequest) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteSpreadsheet(&buf, labels.BuildTable(order)); err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindSpreadsheet, Ext: "xlsx", ContentType: ContentTypeXLSX, Body: buf.Bytes()}, nil
}

// Document builds the second artifact for format: a paginated PDF or the markup preview.
func (r *Renderer) Document(ctx context.Context, order *domain.OrderRequest, format domain.Format) (Artifact, error) {
	switch format {
	case domain.FormatPreview:
		return r.Preview(order)
	case domain.FormatPaginated:
		return r.PDF(ctx, order)
	}
	return Artifact{}, fmt.Errorf("%w: no document for format %q", domain.ErrValidation, format)
}

// Preview builds the markup summary.
func (r *Renderer) Preview(order *domain.OrderRequest) (Artifact, error) {
	body, err := BuildPreview(order, r.Settings.Unit, r.PreviewChars)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindDocument, Ext: "html", ContentType: ContentTypeHTML, Body: body}, nil
}

// PDF lays the order out page by page and draws it with the configured backend.
func (r *Renderer) PDF(ctx context.Context, order *domain.OrderRequest) (Artifact, error) {
	s := r.Settings
	title := "Order " + order.RefID

	var body []byte
	switch r.Backend {
	case "chrome":
		if r.Printer == nil {
			return Artifact{}, fmt.Errorf("%w: chrome backend without a printer", domain.ErrConfiguration)
		}
		c := layout.NewHTMLCanvas(s.PageWidth, s.PageHeight, title)
		layout.Render(c, order, s)
		doc, err := c.Bytes()
		if err != nil {
			return Artifact{}, err
		}
		w, h := c.PageSizeInches()
		out, err := r.Printer.PrintHTML(ctx, string(doc), config.PaperSize{Width: w, Height: h})
		if err != nil {
			return Artifact{}, fmt.Errorf("print pdf: %w", err)
		}
		body = out
	default:
		c := layout.NewPDFCanvas(s.PageWidth, s.PageHeight, title)
		layout.Render(c, order, s)
		out, err := c.Bytes()
		if err != nil {
			return Artifact{}, err
		}
		body = out
	}
	return Artifact{Kind: KindDocument, Ext: "pdf", ContentType: ContentTypePDF, Body: body}, nil
}
