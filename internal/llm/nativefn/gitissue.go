package nativefn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/docctx"
	"github.com/tangerg/codewiki/internal/llm"
)

// gitProvider abstracts the two REST dialects GitFunction speaks:
// GitHub's search/issues (v3) and Gitee's repos/.../issues (v5) list
// endpoint, which differ in base URL, auth, and list-vs-search shape.
type gitProvider interface {
	searchIssuesURL(owner, repo, query string, maxResults int) (string, map[string]string, map[string]string)
	issuesField() string // JSON path to the array of issues in the response, "" for top-level array
}

type githubProvider struct{ token string }

func (g githubProvider) searchIssuesURL(owner, repo, query string, maxResults int) (string, map[string]string, map[string]string) {
	url := "https://api.github.com/search/issues"
	params := map[string]string{
		"q":        fmt.Sprintf("%s repo:%s/%s is:issue", query, owner, repo),
		"per_page": fmt.Sprintf("%d", maxResults),
		"sort":     "updated",
		"order":    "desc",
	}
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": "codewiki/1.0",
	}
	if g.token != "" {
		headers["Authorization"] = "token " + g.token
	}
	return url, params, headers
}

func (g githubProvider) issuesField() string { return "items" }

type giteeProvider struct{ token string }

func (g giteeProvider) searchIssuesURL(owner, repo, query string, maxResults int) (string, map[string]string, map[string]string) {
	url := fmt.Sprintf("https://gitee.com/api/v5/repos/%s/%s/issues", owner, repo)
	params := map[string]string{
		"page":         "1",
		"per_page":     fmt.Sprintf("%d", maxResults),
		"access_token": g.token,
		"q":            query,
	}
	return url, params, nil
}

func (g giteeProvider) issuesField() string { return "" }

// GitFunction searches issues in one repository over a provider's REST
// API, recording each hit in the ambient docctx.Context so the
// persistence layer can cite it as a source.
type GitFunction struct {
	Owner, Repo string
	Provider    gitProvider
	Client      *http.Client
}

// NewGithubFunction builds a GitFunction against the GitHub REST v3 API.
func NewGithubFunction(owner, repo, token string) GitFunction {
	return GitFunction{Owner: owner, Repo: repo, Provider: githubProvider{token: token}}
}

// NewGiteeFunction builds a GitFunction against the Gitee REST v5 API.
func NewGiteeFunction(owner, repo, token string) GitFunction {
	return GitFunction{Owner: owner, Repo: repo, Provider: giteeProvider{token: token}}
}

func (g GitFunction) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (g GitFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "SearchIssues",
		Description: "Searches repository issues by keyword. Parameters: query (string), max_results (integer, default 5).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string"},
				"max_results": map[string]any{"type": "integer", "default": 5},
			},
			"required": []string{"query"},
		},
	}
}

type searchIssuesArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Call issues the search and, when ctx carries a docctx.Context, appends
// every hit to it as a docctx.GitIssue.
func (g GitFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	var args searchIssuesArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", codewikierr.Wrap(codewikierr.KindParse, "SearchIssues arguments are not valid JSON", err)
	}
	if args.MaxResults == 0 {
		args.MaxResults = 5
	}

	rawURL, params, headers := g.Provider.searchIssuesURL(g.Owner, g.Repo, args.Query, args.MaxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "build issue search request", err)
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return "issue search failed: " + err.Error(), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "issue search failed: " + err.Error(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("issue search failed with status %d", resp.StatusCode), nil
	}

	root := gjson.ParseBytes(body)
	items := root
	if field := g.Provider.issuesField(); field != "" {
		items = root.Get(field)
	}
	if !items.Exists() || !items.IsArray() || len(items.Array()) == 0 {
		return "no matching issues found", nil
	}

	var lines []string
	docCtx, hasDocCtx := docctx.From(ctx)
	for _, item := range items.Array() {
		title := item.Get("title").String()
		htmlURL := item.Get("html_url").String()
		number := item.Get("number").Int()
		state := item.Get("state").String()
		lines = append(lines, fmt.Sprintf("[%s](%s) #%d - %s", title, htmlURL, number, state))

		if hasDocCtx {
			author := item.Get("user.name").String()
			if author == "" {
				author = item.Get("user.login").String()
			}
			createdAt, _ := time.Parse(time.RFC3339, item.Get("created_at").String())
			docCtx.AddGitIssue(docctx.GitIssue{
				Title:     title,
				URL:       item.Get("url").String(),
				HTMLURL:   htmlURL,
				Content:   item.Get("body").String(),
				Author:    author,
				State:     state,
				Number:    int(number),
				CreatedAt: createdAt,
			})
		}
	}
	return strings.Join(lines, "\n"), nil
}
