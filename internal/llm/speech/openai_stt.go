package speech

import (
	"context"
	"io"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tangerg/codewiki/internal/retry"
)

const defaultSTTModel = "whisper-1"

// openAISTT transcribes audio via the OpenAI-compatible audio
// transcriptions endpoint, grounded on OpenAISTT.stt: same model
// default, same plain-text response format, same retry wrapper.
type openAISTT struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAISTT builds the OpenAI-compatible STTProvider.
func NewOpenAISTT(cfg Config) STTProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &openAISTT{client: &client, cfg: cfg}
}

func (p *openAISTT) Transcribe(ctx context.Context, r io.Reader, filename string) (string, int64, error) {
	model := p.cfg.Model
	if model == "" {
		model = defaultSTTModel
	}

	transcription, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*openai.Transcription, error) {
		return p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
			Model:          openai.AudioModel(model),
			File:           r,
			ResponseFormat: openai.AudioResponseFormatText,
		})
	})
	if err != nil {
		return "", 0, err
	}

	return strings.TrimSpace(transcription.Text), int64(transcription.Usage.TotalTokens), nil
}
