package mapper

import (
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PostEmbeddingMapper struct{}

func NewPostEmbeddingMapper() *PostEmbeddingMapper {
	return &PostEmbeddingMapper{}
}

func (m *PostEmbeddingMapper) ToEntity(e *model.PostEmbedding) *entity.PostEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.PostEmbedding{
		Id:             e.Id,
		PostId:         e.PostId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *PostEmbeddingMapper) ToModel(e *entity.PostEmbedding) *model.PostEmbedding {
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

	return &model.PostEmbedding{
		Id:             e.Id,
		PostId:         e.PostId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *PostEmbeddingMapper) ToEntities(embeddings []*model.PostEmbedding) []*entity.PostEmbedding {
	entities := make([]*entity.PostEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *PostEmbeddingMapper) ToModels(embeddings []*entity.PostEmbedding) []*model.PostEmbedding {
	models := make([]*model.PostEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
