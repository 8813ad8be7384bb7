package driven

import "context"

// LLMService produces natural-language answers from retrieved passages.
// This is an optional service: retrieval works without it, and the
// `ask` command degrades to plain retrieval when it is unavailable.
type LLMService interface {
	// Chat sends a system prompt and a user message and returns the
	// model's reply.
	Chat(ctx context.Context, system, user string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
