// Package app assembles the assistant from configuration. Both binaries
// share this wiring and differ only in their interaction loop.
package app

import (
	"errors"
	"fmt"
	"time"

	"rulebot/internal/assistant"
	"rulebot/internal/chunker"
	"rulebot/internal/config"
	"rulebot/internal/domain"
	embopenai "rulebot/internal/embedding/openai"
	"rulebot/internal/embedding/tfidf"
	"rulebot/internal/history"
	llmopenai "rulebot/internal/llm/openai"
	"rulebot/internal/loader"
	"rulebot/internal/summarizer"
	"rulebot/internal/vectorstore/memory"
	"rulebot/internal/vectorstore/qdrant"
)

// Build constructs a fully wired assistant. Misconfiguration is fatal here,
// before any document is touched.
func Build(cfg *config.AppConfig) (*assistant.Assistant, error) {
	embedder, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	completer, err := llmopenai.NewClient(llmopenai.Config{
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return assistant.New(
		loader.New(),
		chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap),
		embedder,
		store,
		completer,
		history.NewMemoryStore(),
		summarizer.NewFrequencySummarizer(),
		assistant.Options{
			TopK:                cfg.Retriever.TopK,
			FetchK:              cfg.Retriever.FetchK,
			Lambda:              cfg.Retriever.Lambda,
			SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		},
	), nil
}

func buildEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai", "":
		oc := cfg.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{APIKeyEnv: "OPENAI_API_KEY"}
		}
		return embopenai.NewClient(embopenai.Config{
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			BatchSize: oc.BatchSize,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

func buildStore(cfg config.VectorStoreConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil || cfg.Qdrant.URL == "" {
			return nil, errors.New("qdrant vector store selected but no url configured")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.Type)
	}
}

// LoadConfig resolves the config: an explicit path wins, otherwise the
// default lookup chain applies (./config.yaml, then the user config dir).
func LoadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}
