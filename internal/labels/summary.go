package labels

import "nameplate/internal/domain"

// Summarize builds the notification payload for an exported order.
func Summarize(order *domain.OrderRequest, spreadsheetURL, documentURL string) domain.Summary {
	s := domain.Summary{
		RefID:          order.RefID,
		ContactName:    order.ContactName,
		ContactEmail:   order.ContactEmail,
		Notes:          order.Notes,
		TotalLabels:    order.TotalLabels(),
		SpreadsheetURL: spreadsheetURL,
		DocumentURL:    documentURL,
		Designs:        make([]domain.DesignSummary, 0, len(order.Labels)),
	}
	for _, d := range order.Labels {
		lines := NonEmpty(d.TextLines)
		texts := make([]string, len(lines))
		for i, ln := range lines {
			texts[i] = ln.Text
		}
		s.Designs = append(s.Designs, domain.DesignSummary{
			ID:         d.ID,
			Width:      d.Width,
			Height:     d.Height,
			LabelColor: ResolveColorName(d.LabelColor),
			TextColor:  ResolveColorName(d.TextColor),
			Font:       d.Font,
			Corners:    d.Corners,
			StickyBack: d.StickyBack,
			Quantity:   d.EffectiveQuantity(),
			Lines:      texts,
		})
	}
	return s
}
