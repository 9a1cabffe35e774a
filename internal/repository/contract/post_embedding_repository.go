package contract

import (
	"context"

	"ev-platform-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredPostEmbedding pairs an embedding with its cosine similarity
// (1.0 = identical).
type ScoredPostEmbedding struct {
	Embedding  *entity.PostEmbedding
	Similarity float64
}

type PostEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.PostEmbedding) error
	Update(ctx context.Context, embedding *entity.PostEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPostId(ctx context.Context, postId uuid.UUID) error
	FindByPostId(ctx context.Context, postId uuid.UUID) (*entity.PostEmbedding, error)
	// FindNearest returns the closest embeddings by cosine distance,
	// excluding the given post.
	FindNearest(ctx context.Context, embedding []float32, limit int, excludePostId uuid.UUID) ([]*ScoredPostEmbedding, error)
}
