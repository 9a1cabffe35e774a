package mapper

import (
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(u *model.AIUsage) *entity.AIUsage {
	if u == nil {
		return nil
	}
	return &entity.AIUsage{
		Id:           u.Id,
		Type:         entity.UsageType(u.Type),
		Model:        u.Model,
		Cost:         u.Cost,
		Success:      u.Success,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		Source:       u.Source,
		ErrorMsg:     u.ErrorMsg,
		DurationMs:   u.DurationMs,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *UsageMapper) ToModel(e *entity.AIUsage) *model.AIUsage {
	if e == nil {
		return nil
	}
	return &model.AIUsage{
		Id:           e.Id,
		Type:         string(e.Type),
		Model:        e.Model,
		Cost:         e.Cost,
		Success:      e.Success,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
		Source:       e.Source,
		ErrorMsg:     e.ErrorMsg,
		DurationMs:   e.DurationMs,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *UsageMapper) ToEntities(usages []*model.AIUsage) []*entity.AIUsage {
	entities := make([]*entity.AIUsage, len(usages))
	for i, u := range usages {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

type SystemLogMapper struct{}

func NewSystemLogMapper() *SystemLogMapper {
	return &SystemLogMapper{}
}

func (m *SystemLogMapper) ToEntity(l *model.SystemLog) *entity.SystemLog {
	if l == nil {
		return nil
	}
	return &entity.SystemLog{
		Id:        l.Id,
		Level:     l.Level,
		Source:    l.Source,
		Message:   l.Message,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *SystemLogMapper) ToModel(e *entity.SystemLog) *model.SystemLog {
	if e == nil {
		return nil
	}
	return &model.SystemLog{
		Id:        e.Id,
		Level:     e.Level,
		Source:    e.Source,
		Message:   e.Message,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}

func (m *SystemLogMapper) ToEntities(logs []*model.SystemLog) []*entity.SystemLog {
	entities := make([]*entity.SystemLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
