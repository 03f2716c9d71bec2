package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKernelRegistersFileToolsAndSkipsOptionalOnesByDefault(t *testing.T) {
	cfg := DefaultConfig()
	k := buildKernel(cfg, t.TempDir(), nil)

	for _, name := range []string{"ReadFile", "ListDirectory", "SearchFiles", "RagSearch"} {
		_, ok := k.NativeFunction(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
	_, ok := k.NativeFunction("SearchIssues")
	assert.False(t, ok, "SearchIssues should not register without git owner/repo configured")
}

func TestBuildKernelRegistersGitFunctionWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Git = GitConfig{Provider: "github", Owner: "tangerg", Repo: "codewiki"}
	k := buildKernel(cfg, t.TempDir(), nil)

	_, ok := k.NativeFunction("SearchIssues")
	assert.True(t, ok)
}
