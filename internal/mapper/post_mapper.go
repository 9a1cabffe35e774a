package mapper

import (
	"encoding/json"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostMapper struct{}

func NewPostMapper() *PostMapper {
	return &PostMapper{}
}

func (m *PostMapper) ToEntity(p *model.Post) *entity.Post {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Post{
		Id:                p.Id,
		SourceId:          p.SourceId,
		Source:            p.Source,
		SourceURL:         p.SourceURL,
		URLHash:           p.URLHash,
		SourceAuthor:      p.SourceAuthor,
		SourceDate:        p.SourceDate,
		OriginalTitle:     p.OriginalTitle,
		OriginalContent:   p.OriginalContent,
		OriginalMediaURLs: stringList(p.OriginalMediaURLs),
		TranslatedTitle:   p.TranslatedTitle,
		TranslatedContent: p.TranslatedContent,
		TranslatedSummary: p.TranslatedSummary,
		XSummary:          p.XSummary,
		Categories:        stringList(p.Categories),
		RelevanceScore:    p.RelevanceScore,
		Status:            entity.PostStatus(p.Status),
		BatchId:           p.BatchId,
		ScheduledAt:       p.ScheduledAt,
		PostedAt:          p.PostedAt,
		XPostId:           p.XPostId,
		FailReason:        p.FailReason,
		Attempts:          p.Attempts,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         p.DeletedAt.Valid,
	}
}

func (m *PostMapper) ToModel(e *entity.Post) *model.Post {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Post{
		Id:                e.Id,
		SourceId:          e.SourceId,
		Source:            e.Source,
		SourceURL:         e.SourceURL,
		URLHash:           e.URLHash,
		SourceAuthor:      e.SourceAuthor,
		SourceDate:        e.SourceDate,
		OriginalTitle:     e.OriginalTitle,
		OriginalContent:   e.OriginalContent,
		OriginalMediaURLs: jsonList(e.OriginalMediaURLs),
		TranslatedTitle:   e.TranslatedTitle,
		TranslatedContent: e.TranslatedContent,
		TranslatedSummary: e.TranslatedSummary,
		XSummary:          e.XSummary,
		Categories:        jsonList(e.Categories),
		RelevanceScore:    e.RelevanceScore,
		Status:            string(e.Status),
		BatchId:           e.BatchId,
		ScheduledAt:       e.ScheduledAt,
		PostedAt:          e.PostedAt,
		XPostId:           e.XPostId,
		FailReason:        e.FailReason,
		Attempts:          e.Attempts,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
	}
}

func (m *PostMapper) ToEntities(posts []*model.Post) []*entity.Post {
	entities := make([]*entity.Post, len(posts))
	for i, p := range posts {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PostMapper) ToModels(posts []*entity.Post) []*model.Post {
	models := make([]*model.Post, len(posts))
	for i, p := range posts {
		models[i] = m.ToModel(p)
	}
	return models
}

func stringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func jsonList(items []string) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return data
}
