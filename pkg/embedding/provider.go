// Package embedding is the provider seam for text embeddings used by
// the related-posts search.
package embedding

// Task types for providers that embed documents and queries
// differently. Providers without the distinction ignore them.
const (
	TaskDocument = "retrieval.passage"
	TaskQuery    = "retrieval.query"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	// Generate embeds a single text. taskType is one of the Task
	// constants or empty.
	Generate(text string, taskType string) ([]float32, error)

	// Model identifies the embedding model, stored alongside vectors
	// so a model switch can invalidate stale embeddings.
	Model() string
}
