// Package speech is a "parallel factory" alongside internal/llm,
// internal/llm/embedding, and internal/llm/rerank: the same
// provider-tag-keyed construction pattern, applied to speech-to-text and
// text-to-speech instead of chat completion.
package speech

import (
	"context"
	"io"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/retry"
)

// STTProvider transcribes audio to text.
type STTProvider interface {
	// Transcribe reads audio from r (filename carries the extension the
	// backend needs to pick a decoder) and returns the transcript plus
	// the tokens consumed.
	Transcribe(ctx context.Context, r io.Reader, filename string) (string, int64, error)
}

// TTSProvider synthesizes speech from text.
type TTSProvider interface {
	// Synthesize returns a streamed audio body plus the tokens consumed
	// by the input text. Callers must close the returned ReadCloser.
	Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, int64, error)
}

// Config configures one provider construction.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	RetryPolicy retry.Policy
}

// STTConstructor builds an STTProvider from Config.
type STTConstructor func(Config) (STTProvider, error)

// TTSConstructor builds a TTSProvider from Config.
type TTSConstructor func(Config) (TTSProvider, error)

// sttRegistry mirrors speech2text_models/factory.py's provider-tag map.
// Only "openai" is wired to a real implementation.
var sttRegistry = map[string]STTConstructor{
	"openai":     func(cfg Config) (STTProvider, error) { return NewOpenAISTT(cfg), nil },
	"qwen":       unconfiguredSTTStub("qwen"),
	"azure":      unconfiguredSTTStub("azure"),
	"tencent":    unconfiguredSTTStub("tencent"),
	"xinference": unconfiguredSTTStub("xinference"),
	"gpustack":   unconfiguredSTTStub("gpustack"),
	"gitee":      unconfiguredSTTStub("gitee"),
}

// ttsRegistry mirrors text2speech_models/factory.py's provider-tag map.
// Only "openai" is wired to a real implementation.
var ttsRegistry = map[string]TTSConstructor{
	"openai":      func(cfg Config) (TTSProvider, error) { return NewOpenAITTS(cfg), nil },
	"fish_audio":  unconfiguredTTSStub("fish_audio"),
	"qwen":        unconfiguredTTSStub("qwen"),
	"spark":       unconfiguredTTSStub("spark"),
	"siliconflow": unconfiguredTTSStub("siliconflow"),
	"xinference":  unconfiguredTTSStub("xinference"),
	"gpustack":    unconfiguredTTSStub("gpustack"),
	"ollama":      unconfiguredTTSStub("ollama"),
}

func unconfiguredSTTStub(tag string) STTConstructor {
	return func(Config) (STTProvider, error) {
		return nil, codewikierr.New(codewikierr.KindConfig, "speech-to-text provider not configured: "+tag)
	}
}

func unconfiguredTTSStub(tag string) TTSConstructor {
	return func(Config) (TTSProvider, error) {
		return nil, codewikierr.New(codewikierr.KindConfig, "text-to-speech provider not configured: "+tag)
	}
}

// NewSTT builds the STTProvider registered under tag.
func NewSTT(tag string, cfg Config) (STTProvider, error) {
	ctor, ok := sttRegistry[tag]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindConfig, "unknown speech-to-text provider: "+tag)
	}
	return ctor(cfg)
}

// NewTTS builds the TTSProvider registered under tag.
func NewTTS(tag string, cfg Config) (TTSProvider, error) {
	ctor, ok := ttsRegistry[tag]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindConfig, "unknown text-to-speech provider: "+tag)
	}
	return ctor(cfg)
}
