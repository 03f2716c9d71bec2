package main

import (
	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/llm/anthropic"
	"github.com/tangerg/codewiki/internal/llm/kernel"
	"github.com/tangerg/codewiki/internal/llm/llmrecord"
	"github.com/tangerg/codewiki/internal/llm/nativefn"
	"github.com/tangerg/codewiki/internal/llm/openaicompat"
	"github.com/tangerg/codewiki/internal/retry"
	"github.com/tangerg/codewiki/internal/sse"
)

// buildProvider constructs the chat backend cfg.LLM selects. "anthropic"
// is the one branch with its own wire format; every other provider
// string is treated as an OpenAI-compatible endpoint, distinguished only
// by BaseURL.
func buildProvider(cfg LLMConfig) llm.Provider {
	policy := retry.Policy{}
	if cfg.Provider == "anthropic" {
		return anthropic.New(anthropic.Config{
			APIKey:        cfg.APIKey,
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			MaxTokens:     cfg.MaxTokens,
			Temperature:   cfg.Temperature,
			ChineseLocale: cfg.ChineseLocale,
			RetryPolicy:   policy,
		})
	}
	return openaicompat.New(openaicompat.Config{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		Model:         cfg.Model,
		ChineseLocale: cfg.ChineseLocale,
		RetryPolicy:   policy,
	})
}

// buildKernel wires a Kernel for one run: a chat Provider selected by
// cfg.LLM, optionally wrapped by llmrecord when a transcript writer is
// given, and the native functions scoped to repoRoot plus whichever
// optional tools cfg enables.
func buildKernel(cfg *Config, repoRoot string, recordTo *sse.Writer) *kernel.Kernel {
	provider := buildProvider(cfg.LLM)
	if recordTo != nil {
		provider = llmrecord.Wrap(provider, recordTo)
	}

	k := kernel.New(provider)

	files := nativefn.FileFunction{Root: repoRoot}
	k.AddNativeFunction("ReadFile", nativefn.ReadFunction{FileFunction: files})
	k.AddNativeFunction("ListDirectory", nativefn.ListFunction{FileFunction: files})
	k.AddNativeFunction("SearchFiles", nativefn.SearchFunction{FileFunction: files})

	if cfg.Git.Owner != "" && cfg.Git.Repo != "" {
		var gitFn nativefn.GitFunction
		if cfg.Git.Provider == "gitee" {
			gitFn = nativefn.NewGiteeFunction(cfg.Git.Owner, cfg.Git.Repo, cfg.Git.Token)
		} else {
			gitFn = nativefn.NewGithubFunction(cfg.Git.Owner, cfg.Git.Repo, cfg.Git.Token)
		}
		k.AddNativeFunction("SearchIssues", gitFn)
	}

	k.AddNativeFunction("RagSearch", nativefn.RagFunction{Config: nativefn.RagConfig{
		Endpoint:    cfg.Rag.Endpoint,
		APIKey:      cfg.Rag.APIKey,
		WarehouseID: cfg.Rag.WarehouseID,
	}})

	return k
}
