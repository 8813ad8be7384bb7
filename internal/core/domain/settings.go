package domain

// AIProvider identifies an AI service provider.
type AIProvider string

// Supported AI providers.
const (
	AIProviderOllama AIProvider = "ollama"
	AIProviderOpenAI AIProvider = "openai"
)

// EmbeddingSettings holds configuration for the embedding service.
type EmbeddingSettings struct {
	Provider AIProvider
	BaseURL  string
	APIKey   string
	Model    string
}

// IsConfigured reports whether the settings name a usable provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// LLMSettings holds configuration for the LLM service used by answer
// generation. The LLM is optional; retrieval works without one.
type LLMSettings struct {
	Provider AIProvider
	BaseURL  string
	APIKey   string
	Model    string
}

// IsConfigured reports whether the settings name a usable provider.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}
