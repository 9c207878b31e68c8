package domain

import (
	"fmt"
	"strings"
)

// Format selects which artifact the engine produces.
type Format string

const (
	FormatTabular   Format = "tabular"
	FormatPaginated Format = "paginated"
	FormatPreview   Format = "preview"
)

// ParseFormat maps request spellings onto a Format. An empty value selects the
// paginated document.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf", "paginated":
		return FormatPaginated, nil
	case "html", "preview":
		return FormatPreview, nil
	case "xlsx", "tabular", "spreadsheet":
		return FormatTabular, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", ErrValidation, s)
}
