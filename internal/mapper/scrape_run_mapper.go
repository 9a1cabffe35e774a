package mapper

import (
	"encoding/json"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
)

type ScrapeRunMapper struct{}

func NewScrapeRunMapper() *ScrapeRunMapper {
	return &ScrapeRunMapper{}
}

func (m *ScrapeRunMapper) ToEntity(r *model.ScrapeRun) *entity.ScrapeRun {
	if r == nil {
		return nil
	}

	var stats []entity.SourceStat
	if len(r.SourceStats) > 0 {
		if err := json.Unmarshal(r.SourceStats, &stats); err != nil {
			stats = nil
		}
	}

	return &entity.ScrapeRun{
		Id:              r.Id,
		BatchId:         r.BatchId,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		SourceStats:     stats,
		TotalReceived:   r.TotalReceived,
		TotalCreated:    r.TotalCreated,
		TotalDuplicates: r.TotalDuplicates,
		TotalSkipped:    r.TotalSkipped,
		Status:          entity.ScrapeRunStatus(r.Status),
		Error:           r.Error,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *ScrapeRunMapper) ToModel(e *entity.ScrapeRun) *model.ScrapeRun {
	if e == nil {
		return nil
	}

	var stats []byte
	if len(e.SourceStats) > 0 {
		data, err := json.Marshal(e.SourceStats)
		if err == nil {
			stats = data
		}
	}

	return &model.ScrapeRun{
		Id:              e.Id,
		BatchId:         e.BatchId,
		StartedAt:       e.StartedAt,
		FinishedAt:      e.FinishedAt,
		SourceStats:     stats,
		TotalReceived:   e.TotalReceived,
		TotalCreated:    e.TotalCreated,
		TotalDuplicates: e.TotalDuplicates,
		TotalSkipped:    e.TotalSkipped,
		Status:          string(e.Status),
		Error:           e.Error,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *ScrapeRunMapper) ToEntities(runs []*model.ScrapeRun) []*entity.ScrapeRun {
	entities := make([]*entity.ScrapeRun, len(runs))
	for i, r := range runs {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

type RateLimitMapper struct{}

func NewRateLimitMapper() *RateLimitMapper {
	return &RateLimitMapper{}
}

func (m *RateLimitMapper) ToEntity(r *model.XRateLimit) *entity.XRateLimit {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.XRateLimit{
		Id:          r.Id,
		Day:         r.Day,
		PostedCount: r.PostedCount,
		DailyLimit:  r.DailyLimit,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *RateLimitMapper) ToModel(e *entity.XRateLimit) *model.XRateLimit {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.XRateLimit{
		Id:          e.Id,
		Day:         e.Day,
		PostedCount: e.PostedCount,
		DailyLimit:  e.DailyLimit,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
