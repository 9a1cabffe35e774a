package dto

import (
	"time"

	"github.com/google/uuid"
)

// DashboardResponse is the admin landing-page aggregate.
type DashboardResponse struct {
	PostsByStatus     map[string]int64    `json:"postsByStatus"`
	IngestedToday     int64               `json:"ingestedToday"`
	PublishedToday    int64               `json:"publishedToday"`
	PublishedThisWeek int64               `json:"publishedThisWeek"`
	QueueDepth        int64               `json:"queueDepth"`
	XQuotaRemaining   int                 `json:"xQuotaRemaining"`
	XQuotaLimit       int                 `json:"xQuotaLimit"`
	AICostThisMonth   float64             `json:"aiCostThisMonth"`
	TopCategories     []CategoryCount     `json:"topCategories"`
	RecentRuns        []ScrapeRunResponse `json:"recentRuns,omitempty"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SourceStatResponse struct {
	Source     string `json:"source"`
	Received   int    `json:"received"`
	Created    int    `json:"created"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
}

type ScrapeRunResponse struct {
	Id              uuid.UUID            `json:"id"`
	BatchId         string               `json:"batchId"`
	StartedAt       time.Time            `json:"startedAt"`
	FinishedAt      *time.Time           `json:"finishedAt,omitempty"`
	SourceStats     []SourceStatResponse `json:"sourceStats,omitempty"`
	TotalReceived   int                  `json:"totalReceived"`
	TotalCreated    int                  `json:"totalCreated"`
	TotalDuplicates int                  `json:"totalDuplicates"`
	TotalSkipped    int                  `json:"totalSkipped"`
	Status          string               `json:"status"`
	Error           string               `json:"error,omitempty"`
}

type ScrapeRunListResponse struct {
	Runs []ScrapeRunResponse `json:"runs"`
}
