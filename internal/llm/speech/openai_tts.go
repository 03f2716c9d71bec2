package speech

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm/tokencount"
)

const (
	defaultTTSModel = "tts-1"
	defaultVoice    = "alloy"
	ttsTimeout      = 5 * time.Minute
)

// openAITTS streams synthesized speech from an OpenAI-compatible
// /audio/speech endpoint, grounded on OpenAITTS.tts. No retry wrapping
// here: once streaming has begun there is nothing left to retry, same
// as the original, which only retries the initial POST.
type openAITTS struct {
	cfg     Config
	client  *http.Client
	counter *tokencount.Counter
}

// NewOpenAITTS builds the OpenAI-compatible TTSProvider.
func NewOpenAITTS(cfg Config) TTSProvider {
	return &openAITTS{cfg: cfg, client: &http.Client{Timeout: ttsTimeout}, counter: tokencount.New()}
}

func (p *openAITTS) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, int64, error) {
	model := p.cfg.Model
	if model == "" {
		model = defaultTTSModel
	}
	if voice == "" {
		voice = defaultVoice
	}

	body, err := sjson.SetBytes(nil, "model", model)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build tts request", err)
	}
	body, err = sjson.SetBytes(body, "voice", voice)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build tts request", err)
	}
	body, err = sjson.SetBytes(body, "input", text)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build tts request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.cfg.BaseURL, "/")+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build tts request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindTransientRemote, "tts request failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, 0, codewikierr.New(codewikierr.KindTransientRemote, "tts request failed: "+resp.Status+": "+string(msg))
	}

	tokens, err := p.counter.CountDefault(text)
	if err != nil {
		tokens = 0
	}

	return resp.Body, int64(tokens), nil
}
