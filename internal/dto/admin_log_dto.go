package dto

// Log entries come from the system_logs table, fed by the logger's
// warn and error sink. IDs are the row UUIDs.

type LogListResponse struct {
	Id        string `json:"id"`
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
