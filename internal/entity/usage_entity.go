package entity

import (
	"time"

	"github.com/google/uuid"
)

type UsageType string

const (
	UsageTypeProcessing UsageType = "processing"
	UsageTypeOCR        UsageType = "ocr"
	UsageTypeQuery      UsageType = "query"
)

// AIUsage is one recorded LLM call. Append-only.
type AIUsage struct {
	Id           uuid.UUID
	Type         UsageType
	Model        string
	Cost         float64
	Success      bool
	InputTokens  int
	OutputTokens int
	Source       string
	ErrorMsg     *string
	DurationMs   int
	CreatedAt    time.Time
}
