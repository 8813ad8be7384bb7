// Package cli implements the burrow command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burrowlabs/burrow-cli/internal/adapters/driven/ai"
	"github.com/burrowlabs/burrow-cli/internal/adapters/driven/config/file"
	"github.com/burrowlabs/burrow-cli/internal/adapters/driven/store/sqlite"
	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
	"github.com/burrowlabs/burrow-cli/internal/core/services"
	"github.com/burrowlabs/burrow-cli/internal/crawler"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

// Shared application state, wired in initServices.
var (
	configStore   *file.ConfigStore
	vectorStore   driven.VectorStore
	embeddingSvc  driven.EmbeddingService
	llmSvc        driven.LLMService
	ingestService driving.Ingestor
	retrieveSvc   driving.Retriever
	answerService driving.Answerer
)

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Local document ingestion and retrieval",
	Long: `Burrow ingests web pages, sitemaps and local files into a local
vector index and retrieves the most relevant passages for a query.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.burrow)")
}

// Execute runs the root command. The context carries interrupt
// cancellation, so an in-flight ingest drains and reports instead of
// being killed mid-run.
func Execute(ctx context.Context) {
	defer closeServices()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initServices wires the store, embedding service and core services.
// Commands that touch the pipeline call this lazily so that commands
// like version work without a reachable embedding backend.
func initServices() error {
	if retrieveSvc != nil {
		return nil
	}

	var err error
	configStore, err = file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	vectorStore, err = sqlite.NewStore(configStore.GetString("store.data_dir"))
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}

	embeddingSvc, err = ai.CreateAndValidateEmbeddingService(embeddingSettings())
	if err != nil {
		return err
	}

	// LLM is optional; the ask command reports its absence itself.
	llmSvc, err = ai.CreateAndValidateLLMService(llmSettings())
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		llmSvc = nil
	}

	gate, err := crawler.NewMemoryGate(crawler.MemoryGateConfig{
		Budget:    uint64(configStore.GetInt("crawl.memory_budget")),
		HighWater: configStore.GetFloat("crawl.memory_high_water"),
		LowWater:  configStore.GetFloat("crawl.memory_low_water"),
	})
	if err != nil {
		return fmt.Errorf("crawl memory gate: %w", err)
	}

	ingestService = services.NewIngestService(vectorStore, embeddingSvc,
		services.WithDispatcherOptions(crawler.WithMemoryGate(gate)))
	retrieveSvc = services.NewRetrieveService(vectorStore, embeddingSvc)
	answerService = services.NewAnswerService(retrieveSvc, llmSvc)
	return nil
}

// closeServices releases everything initServices opened.
func closeServices() {
	if embeddingSvc != nil {
		embeddingSvc.Close()
	}
	if llmSvc != nil {
		llmSvc.Close()
	}
	if vectorStore != nil {
		vectorStore.Close()
	}
}

// embeddingSettings builds embedding settings from config and environment.
// Environment variables win so CI and one-off runs can override the file.
func embeddingSettings() *domain.EmbeddingSettings {
	s := &domain.EmbeddingSettings{
		Provider: domain.AIProvider(configStore.GetString("embedding.provider")),
		BaseURL:  configStore.GetString("embedding.base_url"),
		APIKey:   configStore.GetString("embedding.api_key"),
		Model:    configStore.GetString("embedding.model"),
	}
	if v := os.Getenv("BURROW_EMBEDDING_PROVIDER"); v != "" {
		s.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv("BURROW_EMBEDDING_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("BURROW_EMBEDDING_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("BURROW_EMBEDDING_MODEL"); v != "" {
		s.Model = v
	}
	return s
}

// llmSettings builds LLM settings from config and environment.
func llmSettings() *domain.LLMSettings {
	s := &domain.LLMSettings{
		Provider: domain.AIProvider(configStore.GetString("llm.provider")),
		BaseURL:  configStore.GetString("llm.base_url"),
		APIKey:   configStore.GetString("llm.api_key"),
		Model:    configStore.GetString("llm.model"),
	}
	if v := os.Getenv("BURROW_LLM_PROVIDER"); v != "" {
		s.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv("BURROW_LLM_MODEL"); v != "" {
		s.Model = v
	}
	return s
}
