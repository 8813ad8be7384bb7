// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/burrowlabs/burrow-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/burrowlabs/burrow-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/burrowlabs/burrow-cli/internal/adapters/driven/llm/ollama"
	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates
// connectivity before any work is queued against it.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbedding, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil without error when no LLM is configured.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("llm service unreachable: %w", err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on
// settings. An unset provider falls back to local Ollama.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{}), nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			BaseURL: settings.BaseURL,
			APIKey:  settings.APIKey,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
