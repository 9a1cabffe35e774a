package dto

import (
	"time"

	"github.com/google/uuid"
)

// WebhookPost is one article in the scraper's ingest wire form.
type WebhookPost struct {
	SourceId          string    `json:"sourceId"`
	Source            string    `json:"source" validate:"required,oneof=OFFICIAL MEDIA WEIBO MANUAL"`
	SourceURL         string    `json:"sourceUrl" validate:"required,url"`
	SourceAuthor      string    `json:"sourceAuthor"`
	SourceDate        time.Time `json:"sourceDate"`
	OriginalTitle     string    `json:"originalTitle"`
	OriginalContent   string    `json:"originalContent"`
	OriginalMediaURLs []string  `json:"originalMediaUrls"`
	TranslatedTitle   string    `json:"translatedTitle"`
	TranslatedContent string    `json:"translatedContent"`
	TranslatedSummary string    `json:"translatedSummary"`
	Categories        []string  `json:"categories"`
	RelevanceScore    int       `json:"relevanceScore" validate:"min=0,max=100"`
}

type WebhookBatchRequest struct {
	Posts   []WebhookPost `json:"posts" validate:"required,min=1,dive"`
	BatchId string        `json:"batchId"`
}

// IngestResponse reports what happened to one webhook batch.
type IngestResponse struct {
	Received   int `json:"received"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

type PostResponse struct {
	Id                uuid.UUID  `json:"id"`
	Source            string     `json:"source"`
	SourceURL         string     `json:"sourceUrl"`
	SourceAuthor      string     `json:"sourceAuthor"`
	SourceDate        time.Time  `json:"sourceDate"`
	OriginalTitle     string     `json:"originalTitle"`
	TranslatedTitle   string     `json:"translatedTitle"`
	TranslatedContent string     `json:"translatedContent,omitempty"`
	TranslatedSummary string     `json:"translatedSummary"`
	XSummary          string     `json:"xSummary,omitempty"`
	Categories        []string   `json:"categories"`
	RelevanceScore    int        `json:"relevanceScore"`
	Status            string     `json:"status"`
	BatchId           string     `json:"batchId,omitempty"`
	ScheduledAt       *time.Time `json:"scheduledAt,omitempty"`
	PostedAt          *time.Time `json:"postedAt,omitempty"`
	XPostId           string     `json:"xPostId,omitempty"`
	FailReason        string     `json:"failReason,omitempty"`
	Attempts          int        `json:"attempts"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int64          `json:"total"`
}

// UpdatePostRequest covers the admin moderation actions. ScheduledAt is
// required for the schedule action; XSummary only applies to edit.
type UpdatePostRequest struct {
	Action      string     `json:"action" validate:"required,oneof=approve skip schedule edit"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	XSummary    string     `json:"xSummary,omitempty" validate:"omitempty,max=280"`
}

// RelatedPostResponse is one nearest-neighbor hit.
type RelatedPostResponse struct {
	Post       PostResponse `json:"post"`
	Similarity float64      `json:"similarity"`
}
