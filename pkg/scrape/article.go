// Package scrape collects EV news articles from official IR pages,
// media sites and Weibo accounts and normalizes them into the wire form
// the platform's ingest endpoint expects.
package scrape

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Source classes for scraped articles.
const (
	SourceOfficial = "OFFICIAL"
	SourceMedia    = "MEDIA"
	SourceWeibo    = "WEIBO"
	SourceManual   = "MANUAL"
)

// DefaultRelevanceScore is assigned before AI scoring runs.
const DefaultRelevanceScore = 50

// Article is a scraped article in the ingest wire form.
type Article struct {
	SourceID     string    `json:"sourceId"`
	Source       string    `json:"source"` // OFFICIAL, MEDIA, WEIBO, MANUAL
	SourceURL    string    `json:"sourceUrl"`
	SourceAuthor string    `json:"sourceAuthor"`
	SourceDate   time.Time `json:"sourceDate"`

	OriginalTitle     string   `json:"originalTitle,omitempty"`
	OriginalContent   string   `json:"originalContent"`
	OriginalMediaURLs []string `json:"originalMediaUrls"`

	// Filled by the AI processor.
	TranslatedTitle   string `json:"translatedTitle,omitempty"`
	TranslatedContent string `json:"translatedContent,omitempty"`
	TranslatedSummary string `json:"translatedSummary,omitempty"`

	Categories     []string `json:"categories"`
	RelevanceScore int      `json:"relevanceScore"`
}

// Source is a site adapter that can list recent articles.
type Source interface {
	// Name is the author string attached to articles ("NIO", "CnEVData").
	Name() string

	// Type is the source class (OFFICIAL, MEDIA, WEIBO).
	Type() string

	// FetchArticles returns up to limit recent articles, newest first.
	FetchArticles(ctx context.Context, limit int) ([]Article, error)
}

// GenerateSourceID derives a stable id from source name, URL and date
// so re-scraping the same article never produces a duplicate.
func GenerateSourceID(sourceName, url string, date time.Time) string {
	unique := fmt.Sprintf("%s_%s_%s", sourceName, url, date.Format(time.RFC3339))
	sum := md5.Sum([]byte(unique))
	return hex.EncodeToString(sum[:])[:16]
}

// CleanText collapses runs of whitespace into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
