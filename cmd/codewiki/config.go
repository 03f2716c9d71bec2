package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tangerg/codewiki/internal/scanner"
)

// LLMConfig selects a chat backend and model. Provider is one of
// "openai", "anthropic", or any other value, which is treated as an
// OpenAI-compatible endpoint (DeepSeek, SiliconFlow, Qwen, a gateway)
// distinguished only by BaseURL.
type LLMConfig struct {
	Provider      string  `yaml:"provider"`
	APIKey        string  `yaml:"api_key"`
	BaseURL       string  `yaml:"base_url"`
	Model         string  `yaml:"model"`
	MaxTokens     int64   `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	ChineseLocale bool    `yaml:"chinese_locale"`
}

// GitConfig enables GitFunction against one of the two supported issue
// trackers. Empty Token still works for public repositories, at a
// lower, unauthenticated rate limit.
type GitConfig struct {
	Provider string `yaml:"provider"` // "github" or "gitee"
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Token    string `yaml:"token"`
}

// RagConfig enables RagFunction's forward to an external semantic-search
// endpoint. Empty Endpoint leaves RAG disabled.
type RagConfig struct {
	Endpoint    string `yaml:"endpoint"`
	APIKey      string `yaml:"api_key"`
	WarehouseID string `yaml:"warehouse_id"`
}

// PipelineConfig mirrors pipeline.Dependencies' tunables.
type PipelineConfig struct {
	EnableSmartFilter    bool          `yaml:"enable_smart_filter"`
	SmartFilterThreshold int           `yaml:"smart_filter_threshold"`
	CatalogueFormat      scanner.Format `yaml:"catalogue_format"`
	Language             string        `yaml:"language"`
	PoolSize             int           `yaml:"pool_size"`
}

// Config is codewiki's top-level YAML configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Git      GitConfig      `yaml:"git"`
	Rag      RagConfig      `yaml:"rag"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DefaultConfig returns the configuration used when no file is given and
// no override flags are set.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.2,
		},
		Pipeline: PipelineConfig{
			EnableSmartFilter:    true,
			SmartFilterThreshold: 800,
			CatalogueFormat:      scanner.FormatCompact,
			Language:             "en",
			PoolSize:             4,
		},
	}
}

// LoadConfig reads path as YAML over DefaultConfig, then layers any
// recognized environment variables on top. A missing file is not an
// error: the caller gets defaults plus env overrides, matching a
// zero-config `codewiki run` invocation.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers API credentials from the environment on top
// of whatever the config file set, so a key never has to be committed to
// disk alongside the rest of the configuration.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Git.Token = token
	}
	if token := os.Getenv("GITEE_TOKEN"); token != "" {
		c.Git.Token = token
	}
	if key := os.Getenv("CODEWIKI_RAG_API_KEY"); key != "" {
		c.Rag.APIKey = key
	}
}
