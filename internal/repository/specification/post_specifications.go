package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByStatuses struct {
	Statuses []string
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

type ByURLHash struct {
	Hash string
}

func (s ByURLHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("url_hash = ?", s.Hash)
}

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

type ByBatchId struct {
	BatchId string
}

func (s ByBatchId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("batch_id = ?", s.BatchId)
}

type MinScore struct {
	Score int
}

func (s MinScore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("relevance_score >= ?", s.Score)
}

// DueForPublish selects scheduled posts whose time has come.
type DueForPublish struct {
	Now time.Time
}

func (s DueForPublish) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", "scheduled", s.Now)
}

// PostedSince keeps posts published at or after a time.
type PostedSince struct {
	Time time.Time
}

func (s PostedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("posted_at >= ?", s.Time)
}

// MaxAttempts keeps posts that have not exhausted their publish retries.
type MaxAttempts struct {
	Limit int
}

func (s MaxAttempts) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attempts < ?", s.Limit)
}
