package implementation

import (
	"context"
	"errors"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/mapper"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PostEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PostEmbeddingMapper
}

func NewPostEmbeddingRepository(db *gorm.DB) contract.PostEmbeddingRepository {
	return &PostEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPostEmbeddingMapper(),
	}
}

func (r *PostEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.PostEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PostEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.PostEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PostEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PostEmbedding{}, id).Error
}

func (r *PostEmbeddingRepositoryImpl) DeleteByPostId(ctx context.Context, postId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("post_id = ?", postId).Delete(&model.PostEmbedding{}).Error
}

func (r *PostEmbeddingRepositoryImpl) FindByPostId(ctx context.Context, postId uuid.UUID) (*entity.PostEmbedding, error) {
	var m model.PostEmbedding
	if err := r.db.WithContext(ctx).Where("post_id = ?", postId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// FindNearest ranks by pgvector cosine distance. Cosine similarity is
// 1 - (embedding_value <=> query), so results come back best first.
func (r *PostEmbeddingRepositoryImpl) FindNearest(ctx context.Context, embedding []float32, limit int, excludePostId uuid.UUID) ([]*contract.ScoredPostEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PostEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("post_embeddings").
		Select("post_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN posts ON posts.id = post_embeddings.post_id").
		Where("post_embeddings.post_id <> ?", excludePostId).
		Where("post_embeddings.deleted_at IS NULL").
		Where("posts.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPostEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPostEmbedding{
			Embedding:  r.mapper.ToEntity(&res.PostEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
