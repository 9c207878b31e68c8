package domain

// DesignSummary is the per-design entry of a notification payload.
type DesignSummary struct {
	ID         int      `json:"id"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	LabelColor string   `json:"labelColor"`
	TextColor  string   `json:"textColor"`
	Font       string   `json:"font"`
	Corners    string   `json:"corners"`
	StickyBack bool     `json:"stickyBack"`
	Quantity   int      `json:"quantity"`
	Lines      []string `json:"lines"`
}

// Summary is the JSON body posted to the notification webhook.
type Summary struct {
	RefID          string          `json:"refId"`
	ContactName    string          `json:"contactName,omitempty"`
	ContactEmail   string          `json:"contactEmail,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	TotalLabels    int             `json:"totalLabels"`
	SpreadsheetURL string          `json:"spreadsheetUrl"`
	DocumentURL    string          `json:"documentUrl"`
	Designs        []DesignSummary `json:"designs"`
}

// Result is the synchronous response of a successful export.
type Result struct {
	RefID          string `json:"refId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
	DocumentURL    string `json:"documentUrl"`
	TotalLabels    int    `json:"totalLabels"`
}
