package dto

// IndustrySubmitResponse reports what an industry-table submission did.
// Single-record submits fill Created; bulk submits fill the row counts.
type IndustrySubmitResponse struct {
	Created     bool `json:"created"`
	Rows        int  `json:"rows,omitempty"`
	CreatedRows int  `json:"createdRows,omitempty"`
	UpdatedRows int  `json:"updatedRows,omitempty"`
	SkippedRows int  `json:"skippedRows,omitempty"`
}

type IndustryListResponse struct {
	Table string           `json:"table"`
	Rows  []map[string]any `json:"rows"`
}
