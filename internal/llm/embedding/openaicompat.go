package embedding

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tangerg/codewiki/internal/retry"
)

// openAICompat is the OpenAI-compatible embedding Provider: OpenAI,
// SiliconFlow, and Qwen/DashScope all speak this request/response shape,
// selected purely via BaseURL the same way internal/llm/openaicompat
// does for chat.
type openAICompat struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAICompat builds the OpenAI-compatible embedding Provider.
func NewOpenAICompat(cfg Config) Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &openAICompat{client: &client, cfg: cfg}
}

// embedBatchSize mirrors the original OpenAI embedding client's batching
// rule: at most 16 inputs per request.
const embedBatchSize = 16

func (p *openAICompat) Encode(ctx context.Context, texts []string) ([][]float64, int64, error) {
	var (
		vectors     [][]float64
		totalTokens int64
	)
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]

		resp, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*openai.CreateEmbeddingResponse, error) {
			return p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
				Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
				Model: p.cfg.Model,
			})
		})
		if err != nil {
			return nil, totalTokens, err
		}
		for _, d := range resp.Data {
			vectors = append(vectors, d.Embedding)
		}
		totalTokens += resp.Usage.TotalTokens
	}
	return vectors, totalTokens, nil
}

func (p *openAICompat) EncodeQuery(ctx context.Context, text string) ([]float64, int64, error) {
	resp, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*openai.CreateEmbeddingResponse, error) {
		return p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
			Model: p.cfg.Model,
		})
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Data) == 0 {
		return nil, resp.Usage.TotalTokens, nil
	}
	return resp.Data[0].Embedding, resp.Usage.TotalTokens, nil
}
