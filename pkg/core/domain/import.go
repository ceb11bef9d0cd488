package domain

// ImportRow is one data row of an uploaded spreadsheet, keyed by raw header.
type ImportRow struct {
	Number  int               // 1-based row number in the sheet
	Headers []string          // sheet header order; nil means unordered
	Cells   map[string]string // header -> cell value
}

const (
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportResult is the outcome of a single row
type ImportResult struct {
	Row    int         `json:"row"`
	Status string      `json:"status"`
	Slug   string      `json:"slug,omitempty"`
	Errors FieldErrors `json:"errors,omitempty"`
}

// ImportReport aggregates the outcomes of a bulk import
type ImportReport struct {
	Total   int            `json:"total"`
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
	Results []ImportResult `json:"results"`
}
