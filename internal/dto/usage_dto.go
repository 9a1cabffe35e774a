package dto

import (
	"time"

	"github.com/google/uuid"
)

// TrackUsageRequest is one AI call reported by the scraper or recorded
// by the server's own AI features.
type TrackUsageRequest struct {
	Type         string  `json:"type" validate:"required,oneof=processing ocr query"`
	Model        string  `json:"model" validate:"required"`
	Cost         float64 `json:"cost" validate:"min=0"`
	Success      bool    `json:"success"`
	InputTokens  int     `json:"inputTokens" validate:"min=0"`
	OutputTokens int     `json:"outputTokens" validate:"min=0"`
	Source       string  `json:"source"`
	ErrorMsg     string  `json:"errorMsg,omitempty"`
	DurationMs   int     `json:"durationMs,omitempty" validate:"min=0"`
}

type UsageResponse struct {
	Id           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Model        string    `json:"model"`
	Cost         float64   `json:"cost"`
	Success      bool      `json:"success"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	Source       string    `json:"source,omitempty"`
	ErrorMsg     string    `json:"errorMsg,omitempty"`
	DurationMs   int       `json:"durationMs,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UsageListResponse struct {
	Usage []UsageResponse `json:"usage"`
	Total int64           `json:"total"`
}

// UsageBucketResponse is one aggregation row of the monthly summary.
type UsageBucketResponse struct {
	Key          string  `json:"key"`
	Cost         float64 `json:"cost"`
	Calls        int64   `json:"calls"`
	SuccessRate  float64 `json:"successRate"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
}

type UsageDailyResponse struct {
	Day   string  `json:"day"`
	Cost  float64 `json:"cost"`
	Calls int64   `json:"calls"`
}

// UsageSummaryResponse is the current-month rollup for the admin panel.
type UsageSummaryResponse struct {
	Month        string                `json:"month"`
	TotalCost    float64               `json:"totalCost"`
	TotalCalls   int64                 `json:"totalCalls"`
	SuccessRate  float64               `json:"successRate"`
	InputTokens  int64                 `json:"inputTokens"`
	OutputTokens int64                 `json:"outputTokens"`
	ByType       []UsageBucketResponse `json:"byType"`
	ByModel      []UsageBucketResponse `json:"byModel"`
	Daily        []UsageDailyResponse  `json:"daily"`
}
