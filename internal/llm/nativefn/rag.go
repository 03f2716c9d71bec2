package nativefn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/sjson"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm"
)

// ragTimeout mirrors the original client's generous (effectively
// unbounded for interactive use) search timeout.
const ragTimeout = 10 * time.Minute

// RagConfig configures an optional semantic-search forward. Endpoint
// empty means RAG is not enabled; RagFunction then returns the
// "not enabled" payload instead of making any request.
type RagConfig struct {
	Endpoint    string
	APIKey      string
	WarehouseID string
}

// RagFunction forwards a search query to an external vector-search
// endpoint, returning its JSON response body verbatim. With no Endpoint
// configured it degrades to an explicit "not enabled" response rather
// than erroring, since RAG is an optional accelerator, not a dependency.
type RagFunction struct {
	Config RagConfig
	Client *http.Client
}

func (r RagFunction) httpClient() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return &http.Client{Timeout: ragTimeout}
}

func (r RagFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name: "RagSearch",
		Description: "Searches the current repository's semantic index for relevant code or documentation. " +
			"Parameters: query (string), limit (integer, default 5), min_relevance (number 0-1, default 0.3).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":         map[string]any{"type": "string"},
				"limit":         map[string]any{"type": "integer", "default": 5},
				"min_relevance": map[string]any{"type": "number", "default": 0.3},
			},
			"required": []string{"query"},
		},
	}
}

type ragSearchArgs struct {
	Query        string  `json:"query"`
	Limit        int     `json:"limit"`
	MinRelevance float64 `json:"min_relevance"`
}

func notEnabledPayload() string {
	out, _ := json.Marshal(map[string]any{"error": "RAG is not enabled", "results": []any{}})
	return string(out)
}

func errorPayload(msg string) string {
	out, _ := json.Marshal(map[string]any{"error": msg, "results": []any{}})
	return string(out)
}

func (r RagFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	if r.Config.Endpoint == "" {
		return notEnabledPayload(), nil
	}

	var args ragSearchArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", codewikierr.Wrap(codewikierr.KindParse, "RagSearch arguments are not valid JSON", err)
	}
	if args.Limit == 0 {
		args.Limit = 5
	}
	if args.MinRelevance == 0 {
		args.MinRelevance = 0.3
	}

	body, err := sjson.Set("{}", "query", args.Query)
	if err == nil {
		body, err = sjson.Set(body, "user_id", r.Config.WarehouseID)
	}
	if err == nil {
		body, err = sjson.Set(body, "threshold", args.MinRelevance)
	}
	if err == nil {
		body, err = sjson.Set(body, "limit", args.Limit)
	}
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "build RAG search request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Config.Endpoint+"/search", bytes.NewBufferString(body))
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "build RAG search request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "codewiki/1.0")
	if r.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.Config.APIKey)
	}

	resp, err := r.httpClient().Do(req)
	if err != nil {
		return errorPayload("RAG search failed: " + err.Error()), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorPayload("RAG search failed: " + err.Error()), nil
	}
	if resp.StatusCode != http.StatusOK {
		return errorPayload("RAG search failed with status " + resp.Status), nil
	}
	return string(respBody), nil
}
