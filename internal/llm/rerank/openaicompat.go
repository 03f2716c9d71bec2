package rerank

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/retry"
)

// truncateChars mirrors the original's per-document truncation before
// scoring: long documents are cut to 500 characters.
const truncateChars = 500

const rerankTimeout = 60 * time.Second

// openAICompat reranks against an OpenAI-shaped /rerank HTTP endpoint.
// No SDK in the retrieved pack exposes a rerank call directly — the
// original itself talks to this endpoint with raw aiohttp rather than
// the OpenAI client, so this implementation does the same over net/http.
type openAICompat struct {
	cfg    Config
	client *http.Client
}

// NewOpenAICompat builds the OpenAI-compatible rerank Provider.
func NewOpenAICompat(cfg Config) Provider {
	return &openAICompat{cfg: cfg, client: &http.Client{Timeout: rerankTimeout}}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (p *openAICompat) endpoint() string {
	base := strings.TrimRight(p.cfg.BaseURL, "/")
	if strings.Contains(base, "/rerank") {
		return base
	}
	return base + "/rerank"
}

func (p *openAICompat) Similarity(ctx context.Context, query string, texts []string) ([]float64, int64, error) {
	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = truncate(t, truncateChars)
	}

	body, err := sjson.SetBytes(nil, "model", p.cfg.Model)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build rerank request", err)
	}
	body, err = sjson.SetBytes(body, "query", query)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build rerank request", err)
	}
	body, err = sjson.SetBytes(body, "documents", truncated)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build rerank request", err)
	}
	body, err = sjson.SetBytes(body, "top_n", len(truncated))
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build rerank request", err)
	}

	type result struct {
		scores []float64
		tokens int64
	}

	r, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (result, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
		if err != nil {
			return result{}, codewikierr.Wrap(codewikierr.KindIO, "build rerank request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

		resp, err := p.client.Do(req)
		if err != nil {
			return result{}, codewikierr.Wrap(codewikierr.KindTransientRemote, "rerank request failed", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return result{}, codewikierr.Wrap(codewikierr.KindIO, "read rerank response", err)
		}
		if resp.StatusCode >= 300 {
			return result{}, codewikierr.New(codewikierr.KindTransientRemote, "rerank request failed: "+resp.Status+": "+string(raw))
		}

		scores := make([]float64, len(truncated))
		for _, item := range gjson.GetBytes(raw, "results").Array() {
			idx := int(item.Get("index").Int())
			if idx >= 0 && idx < len(scores) {
				scores[idx] = item.Get("relevance_score").Float()
			}
		}
		tokens := gjson.GetBytes(raw, "usage.total_tokens").Int()
		if tokens == 0 {
			tokens = gjson.GetBytes(raw, "meta.billed_units.total_tokens").Int()
		}
		return result{scores: scores, tokens: tokens}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	return minMaxNormalize(r.scores), r.tokens, nil
}

// minMaxNormalize rescales scores to [0, 1], matching the original's
// (rank - min) / (max - min), falling back to all-zero when every score
// ties to avoid a divide by zero.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	if max-min == 0 {
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}
