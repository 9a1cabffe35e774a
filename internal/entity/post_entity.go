package entity

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostStatusPending   PostStatus = "pending"
	PostStatusApproved  PostStatus = "approved"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
	PostStatusSkipped   PostStatus = "skipped"
)

type Post struct {
	Id                uuid.UUID
	SourceId          string
	Source            string
	SourceURL         string
	URLHash           string
	SourceAuthor      string
	SourceDate        time.Time
	OriginalTitle     string
	OriginalContent   string
	OriginalMediaURLs []string
	TranslatedTitle   string
	TranslatedContent string
	TranslatedSummary string
	XSummary          string
	Categories        []string
	RelevanceScore    int
	Status            PostStatus
	BatchId           string
	ScheduledAt       *time.Time
	PostedAt          *time.Time
	XPostId           string
	FailReason        string
	Attempts          int
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}

type PostEmbedding struct {
	Id             uuid.UUID
	PostId         uuid.UUID
	Document       string
	EmbeddingValue []float32
	Model          string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
