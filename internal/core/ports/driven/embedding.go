package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this is separate from VectorStore, which stores and searches
// vectors. EmbeddingService generates them.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI-compatible endpoints (text-embedding-3-small, ...)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	// Collections record this name and reject other models.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
