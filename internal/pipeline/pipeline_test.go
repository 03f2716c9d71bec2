package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/llm/kernel"
	"github.com/tangerg/codewiki/internal/pipeline"
	"github.com/tangerg/codewiki/internal/wikimodel"
	"github.com/tangerg/codewiki/internal/wikistore/memstore"
)

// stagedProvider replies to each stage's prompt by matching a substring
// of the rendered question against canned responses, mirroring how
// kernel_test's recordingProvider stubs a single fixed reply but
// extended to this package's multi-stage flow.
type stagedProvider struct {
	replies []stagedReply
}

type stagedReply struct {
	match string
	reply string
}

func (p *stagedProvider) reply(question string) string {
	for _, r := range p.replies {
		if strings.Contains(question, r.match) {
			return r.reply
		}
	}
	return ""
}

func (p *stagedProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	return llm.ChatResponse{Success: true, Content: p.reply(req.Question)}, llm.Usage{}, nil
}

func (p *stagedProvider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	return p.Chat(ctx, req)
}

func (p *stagedProvider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	resp, usage, err := p.Chat(ctx, req.ChatRequest)
	return llm.AskToolResponse{ChatResponse: resp}, usage, err
}

func (p *stagedProvider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return p.AskTools(ctx, req)
}

func newFixtureProvider() *stagedProvider {
	return &stagedProvider{replies: []stagedReply{
		{match: "Generate a README", reply: "<readme>\n# demo\n\nA tiny demo repo.\n</readme>"},
		{match: "Classify this repository", reply: "<classify>classifyName: Libraries</classify>"},
		{match: "Produce a nested knowledge map", reply: "### Getting Started: README.md\n### Usage: pkg/usage.go"},
		{match: "Write a project overview", reply: "<blog>\n# demo overview\n</blog>"},
		{match: "Design a hierarchical table of contents", reply: "### Getting Started: intro to the project\n### Usage: how to call the library"},
		{match: "Write a Markdown article", reply: "<blog>\nArticle body.\n</blog>"},
	}}
}

func newTestPipeline(t *testing.T, store *memstore.Store, provider llm.Provider) (*pipeline.Pipeline, *wikimodel.Repository, *wikimodel.WikiDocument) {
	t.Helper()
	ctx := context.Background()

	repo, err := wikimodel.NewRepository(uuid.New(), "github", "acme", "demo", "main", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.CreateRepository(ctx, repo))

	doc, err := wikimodel.NewWikiDocument(repo.ID, "en")
	require.NoError(t, err)
	require.NoError(t, store.CreateDocument(ctx, doc))

	p := pipeline.New(pipeline.Dependencies{
		Store:  store,
		Kernel: kernel.New(provider),
	})
	return p, repo, doc
}

func TestPipelineRunCompletesAllStagesAndPersistsArtifacts(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	p, _, doc := newTestPipeline(t, store, newFixtureProvider())

	err := p.Run(ctx, doc.ID)
	require.NoError(t, err)

	updated, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, wikimodel.StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, "Libraries", updated.ClassifyName)
	assert.Contains(t, updated.Readme, "demo repo")

	overview, err := store.GetOverview(ctx, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, overview.Body, "demo overview")

	miniMap, err := store.GetMiniMap(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, miniMap.Root)
	assert.Len(t, miniMap.Root.Nodes, 2)

	tree, err := store.ListTree(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, 0, tree[0].Order)
	assert.Equal(t, 1, tree[1].Order)

	for _, node := range tree {
		content, err := store.GetContent(ctx, node.ID)
		require.NoError(t, err)
		assert.Contains(t, content.Body, "Article body")
	}
}

func TestPipelineRunSkipsChangelogWithoutRemoteURL(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	p, _, doc := newTestPipeline(t, store, newFixtureProvider())

	require.NoError(t, p.Run(ctx, doc.ID))

	commits, err := store.ListCommits(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestPipelineRunUnrecognizedClassificationResolvesToEmptyNotError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	provider := newFixtureProvider()
	for i, r := range provider.replies {
		if r.match == "Classify this repository" {
			provider.replies[i].reply = "<classify>classifyName: NotARealCategory</classify>"
		}
	}
	p, _, doc := newTestPipeline(t, store, provider)

	require.NoError(t, p.Run(ctx, doc.ID))

	updated, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, wikimodel.StatusCompleted, updated.Status)
	assert.Empty(t, updated.ClassifyName)
}
