package kernel_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/llm/kernel"
)

type recordingProvider struct {
	lastRequest llm.AskToolsRequest
	content     string
}

func (p *recordingProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	return llm.ChatResponse{Success: true, Content: p.content}, llm.Usage{}, nil
}

func (p *recordingProvider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	return p.Chat(ctx, req)
}

func (p *recordingProvider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	p.lastRequest = req
	resp, usage, err := p.Chat(ctx, req.ChatRequest)
	return llm.AskToolResponse{ChatResponse: resp}, usage, err
}

func (p *recordingProvider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return p.AskTools(ctx, req)
}

type echoFunction struct {
	name string
}

func (f echoFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{Name: f.name, Description: "echoes its input"}
}

func (f echoFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	return argsJSON, nil
}

func TestManagerCachesKernelByConfig(t *testing.T) {
	builds := 0
	mgr := kernel.NewManager(func(cfg kernel.Config) (*kernel.Kernel, error) {
		builds++
		return kernel.New(&recordingProvider{}), nil
	})

	cfg := kernel.Config{BaseURL: "https://api", APIKey: "key", WorkingDir: "/repo", Model: "gpt", AnalysisMode: "deep"}
	k1, err := mgr.Get(cfg)
	require.NoError(t, err)
	k2, err := mgr.Get(cfg)
	require.NoError(t, err)

	assert.Same(t, k1, k2)
	assert.Equal(t, 1, builds)
}

func TestManagerBuildsDistinctKernelsForDistinctConfig(t *testing.T) {
	mgr := kernel.NewManager(func(cfg kernel.Config) (*kernel.Kernel, error) {
		return kernel.New(&recordingProvider{}), nil
	})

	k1, err := mgr.Get(kernel.Config{Model: "gpt-4"})
	require.NoError(t, err)
	k2, err := mgr.Get(kernel.Config{Model: "gpt-3.5"})
	require.NoError(t, err)

	assert.NotSame(t, k1, k2)
}

func TestManagerPropagatesFactoryError(t *testing.T) {
	mgr := kernel.NewManager(func(cfg kernel.Config) (*kernel.Kernel, error) {
		return nil, errors.New("no model configured")
	})
	_, err := mgr.Get(kernel.Config{})
	assert.Error(t, err)
}

func TestInvokePromptOffersToolsOnlyWhenBehaviorIsAuto(t *testing.T) {
	provider := &recordingProvider{content: "ok"}
	k := kernel.New(provider)
	k.AddNativeFunction("echo", echoFunction{name: "echo"})

	_, _, err := k.InvokePrompt(context.Background(), kernel.PromptRequest{Question: "hi", Behavior: kernel.FunctionChoiceAuto})
	require.NoError(t, err)
	assert.Len(t, provider.lastRequest.Tools, 1)
	assert.Equal(t, llm.ToolChoiceAuto, provider.lastRequest.ToolChoice)

	_, _, err = k.InvokePrompt(context.Background(), kernel.PromptRequest{Question: "hi", Behavior: kernel.FunctionChoiceNone})
	require.NoError(t, err)
	assert.Empty(t, provider.lastRequest.Tools)
	assert.Equal(t, llm.ToolChoiceNone, provider.lastRequest.ToolChoice)
}

func TestInvokeByPluginRendersTemplateBeforeCalling(t *testing.T) {
	dir := t.TempDir()
	fnDir := filepath.Join(dir, "summarize")
	require.NoError(t, os.MkdirAll(fnDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fnDir, "config.json"),
		[]byte(`{"description":"summarizes a repo","input":{"parameters":[{"name":"repo","description":"repo name","defaultValue":"unknown"}]}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(fnDir, "skprompt.txt"), []byte("Summarize {{.repo}} in one line."), 0o644))

	plugin, err := kernel.LoadPlugin("overview", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"summarize"}, plugin.Names())

	provider := &recordingProvider{content: "done"}
	k := kernel.New(provider)
	k.AddSemanticPlugin("overview", plugin)

	resp, _, err := k.InvokeByPlugin(context.Background(), "overview", "summarize", map[string]any{"repo": "codewiki"}, kernel.FunctionChoiceNone)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Equal(t, "Summarize codewiki in one line.", provider.lastRequest.Question)
}

func TestInvokeByPluginUsesDefaultWhenArgOmitted(t *testing.T) {
	dir := t.TempDir()
	fnDir := filepath.Join(dir, "summarize")
	require.NoError(t, os.MkdirAll(fnDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fnDir, "config.json"),
		[]byte(`{"input":{"parameters":[{"name":"repo","defaultValue":"unknown"}]}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(fnDir, "skprompt.txt"), []byte("Summarize {{.repo}}."), 0o644))

	plugin, err := kernel.LoadPlugin("overview", dir)
	require.NoError(t, err)

	provider := &recordingProvider{content: "done"}
	k := kernel.New(provider)
	k.AddSemanticPlugin("overview", plugin)

	_, _, err = k.InvokeByPlugin(context.Background(), "overview", "summarize", nil, kernel.FunctionChoiceNone)
	require.NoError(t, err)
	assert.Equal(t, "Summarize unknown.", provider.lastRequest.Question)
}

func TestInvokeByPluginMissingFunctionIsNotFoundError(t *testing.T) {
	k := kernel.New(&recordingProvider{})
	k.AddSemanticPlugin("overview", &kernel.Plugin{Name: "overview", Functions: map[string]*kernel.Function{}})

	_, _, err := k.InvokeByPlugin(context.Background(), "overview", "missing", nil, kernel.FunctionChoiceNone)
	assert.Error(t, err)
}

func TestLoadPluginSkipsDirectoriesMissingEitherFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "incomplete"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incomplete", "config.json"), []byte(`{}`), 0o644))

	plugin, err := kernel.LoadPlugin("partial", dir)
	require.NoError(t, err)
	assert.Empty(t, plugin.Names())
}
