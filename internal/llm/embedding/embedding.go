// Package embedding is a "parallel factory" alongside internal/llm: the
// same provider-tag-keyed construction pattern, applied to text
// embedding instead of chat completion.
package embedding

import (
	"context"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/retry"
)

// Provider embeds text into dense vectors.
type Provider interface {
	// Encode embeds a batch of texts, returning one vector per input text
	// in order, plus the total tokens consumed.
	Encode(ctx context.Context, texts []string) ([][]float64, int64, error)
	// EncodeQuery embeds a single query text.
	EncodeQuery(ctx context.Context, text string) ([]float64, int64, error)
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

// registry mirrors the original factory's provider-tag-to-class map:
// every embedding backend the original ships gets a named slot here, so
// the registry's shape stays faithful even though only the
// OpenAI-compatible slot has a real implementation.
var registry = map[string]Constructor{
	"openai":      func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"siliconflow": func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"qwen":        func(cfg Config) (Provider, error) { return NewOpenAICompat(cfg), nil },
	"baai":        unconfiguredStub("baai"),
	"zhipu":       unconfiguredStub("zhipu"),
	"ollama":      unconfiguredStub("ollama"),
	"azure":       unconfiguredStub("azure"),
	"baichuan":    unconfiguredStub("baichuan"),
	"jina":        unconfiguredStub("jina"),
	"cohere":      unconfiguredStub("cohere"),
	"localai":     unconfiguredStub("localai"),
	"bedrock":     unconfiguredStub("bedrock"),
	"gemini":      unconfiguredStub("gemini"),
	"nvidia":      unconfiguredStub("nvidia"),
	"xinference":  unconfiguredStub("xinference"),
	"mistral":     unconfiguredStub("mistral"),
	"baidu_yiyan": unconfiguredStub("baidu_yiyan"),
	"voyage":      unconfiguredStub("voyage"),
	"huggingface": unconfiguredStub("huggingface"),
}

// unconfiguredStub returns a Constructor for a provider tag the original
// supports but this module does not implement an HTTP integration for
// yet — it fails fast with a ConfigError rather than silently no-op'ing.
func unconfiguredStub(tag string) Constructor {
	return func(Config) (Provider, error) {
		return nil, codewikierr.New(codewikierr.KindConfig, "embedding provider not configured: "+tag)
	}
}

// New builds the Provider registered under tag.
func New(tag string, cfg Config) (Provider, error) {
	ctor, ok := registry[tag]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindConfig, "unknown embedding provider: "+tag)
	}
	return ctor(cfg)
}
