package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScrapeRunStatus string

const (
	ScrapeRunStatusCompleted ScrapeRunStatus = "completed"
	ScrapeRunStatusPartial   ScrapeRunStatus = "partial"
	ScrapeRunStatusFailed    ScrapeRunStatus = "failed"
)

// SourceStat is the per-source breakdown of one ingested batch.
type SourceStat struct {
	Source     string `json:"source"`
	Received   int    `json:"received"`
	Created    int    `json:"created"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
}

// ScrapeRun records one webhook batch as seen by the server. Counters are
// the server's view: received posts, rows created, URL-hash duplicates and
// below-score skips.
type ScrapeRun struct {
	Id              uuid.UUID
	BatchId         string
	StartedAt       time.Time
	FinishedAt      *time.Time
	SourceStats     []SourceStat
	TotalReceived   int
	TotalCreated    int
	TotalDuplicates int
	TotalSkipped    int
	Status          ScrapeRunStatus
	Error           string
	CreatedAt       time.Time
}
