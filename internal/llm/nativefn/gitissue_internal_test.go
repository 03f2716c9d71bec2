package nativefn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/docctx"
)

type testGithubProvider struct{ base string }

func (p testGithubProvider) searchIssuesURL(owner, repo, query string, maxResults int) (string, map[string]string, map[string]string) {
	return p.base + "/search/issues", map[string]string{"q": query}, nil
}

func (p testGithubProvider) issuesField() string { return "items" }

func TestGitFunctionParsesGithubSearchResponseAndRecordsDocContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"bug one","html_url":"https://example.com/1","number":1,"state":"open","body":"oops","url":"https://api.example.com/1","user":{"login":"alice"},"created_at":"2026-01-02T03:04:05Z"}]}`))
	}))
	defer server.Close()

	fn := GitFunction{
		Owner:    "acme",
		Repo:     "widgets",
		Client:   server.Client(),
		Provider: testGithubProvider{base: server.URL},
	}

	docCtx := docctx.New()
	ctx := docctx.With(context.Background(), docCtx)

	args, _ := json.Marshal(map[string]any{"query": "bug"})
	out, err := fn.Call(ctx, string(args))
	require.NoError(t, err)
	assert.Contains(t, out, "bug one")

	issues := docCtx.GitIssues()
	if assert.Len(t, issues, 1) {
		assert.Equal(t, "bug one", issues[0].Title)
		assert.Equal(t, "alice", issues[0].Author)
		assert.Equal(t, 1, issues[0].Number)
	}
}

func TestGitFunctionReturnsMessageWhenNoIssuesFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	fn := GitFunction{
		Owner:    "acme",
		Repo:     "widgets",
		Client:   server.Client(),
		Provider: testGithubProvider{base: server.URL},
	}

	args, _ := json.Marshal(map[string]any{"query": "bug"})
	out, err := fn.Call(context.Background(), string(args))
	require.NoError(t, err)
	assert.Equal(t, "no matching issues found", out)
}

func TestNewGithubFunctionAndNewGiteeFunctionBuildDistinctDialects(t *testing.T) {
	gh := NewGithubFunction("acme", "widgets", "tok")
	url, _, headers := gh.Provider.searchIssuesURL("acme", "widgets", "bug", 5)
	assert.Contains(t, url, "api.github.com")
	assert.Equal(t, "token tok", headers["Authorization"])

	gt := NewGiteeFunction("acme", "widgets", "tok")
	url2, params, _ := gt.Provider.searchIssuesURL("acme", "widgets", "bug", 5)
	assert.Contains(t, url2, "gitee.com")
	assert.Equal(t, "tok", params["access_token"])
}
