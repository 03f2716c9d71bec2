// Package rerank is a "parallel factory" alongside internal/llm and
// internal/llm/embedding: the same provider-tag-keyed construction
// pattern, applied to cross-encoder reranking instead of chat completion
// or embedding.
package rerank

import (
	"context"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/retry"
)

// Provider scores a list of candidate texts against a query.
type Provider interface {
	// Similarity returns one relevance score per text, normalized to
	// [0, 1] min-max across the batch, plus the tokens consumed.
	Similarity(ctx context.Context, query string, texts []string) ([]float64, int64, error)
}

// Config configures one Provider construction.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	RetryPolicy retry.Policy
}

// Constructor builds a Provider from Config.
type Constructor func(Config) (Provider, error)

// registry mirrors the original rerank factory's provider-tag-to-class
// map. Only "openai_compatible" (shared by OpenAI-shaped /rerank
// endpoints such as SiliconFlow and Qwen) gets a real implementation;
// every other tag the original ships is kept as a named stub so the
// registry's shape stays faithful.
var registry = map[string]Constructor{
	"openai_compatible": func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"siliconflow":       func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"qwen":              func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"baai":              unconfiguredStub("baai"),
	"jina":              unconfiguredStub("jina"),
	"xinference":        unconfiguredStub("xinference"),
	"cohere":            unconfiguredStub("cohere"),
	"nvidia":            unconfiguredStub("nvidia"),
	"voyage":            unconfiguredStub("voyage"),
	"baidu_yiyan":       unconfiguredStub("baidu_yiyan"),
	"huggingface":       unconfiguredStub("huggingface"),
	"gpustack":          unconfiguredStub("gpustack"),
}

// unconfiguredStub returns a Constructor for a provider tag the original
// supports but this module does not implement an HTTP integration for
// yet — it fails fast with a ConfigError rather than silently returning
// unranked results.
func unconfiguredStub(tag string) Constructor {
	return func(Config) (Provider, error) {
		return nil, codewikierr.New(codewikierr.KindConfig, "rerank provider not configured: "+tag)
	}
}

// New builds the Provider registered under tag.
func New(tag string, cfg Config) (Provider, error) {
	ctor, ok := registry[tag]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindConfig, "unknown rerank provider: "+tag)
	}
	return ctor(cfg)
}
