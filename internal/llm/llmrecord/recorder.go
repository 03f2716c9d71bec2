// Package llmrecord wraps an llm.Provider so every streamed delta it
// emits is also appended, SSE-encoded, to a transcript. The CLI's
// `run --record` flag installs it in front of whichever provider the
// kernel built; `codewiki replay` later decodes the same file back into
// a sequence of Messages for offline inspection, without needing the
// provider or network access that produced it.
package llmrecord

import (
	"context"
	"strconv"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/sse"
)

// Provider decorates an llm.Provider, recording every StreamDelta passed
// to a streaming call before forwarding it to the caller's StreamFunc.
type Provider struct {
	inner llm.Provider
	w     *sse.Writer
	seq   int
}

var _ llm.Provider = (*Provider)(nil)

// Wrap returns a Provider that behaves exactly like inner except that
// ChatStream and AskToolsStream also record each delta through w.
func Wrap(inner llm.Provider, w *sse.Writer) *Provider {
	return &Provider{inner: inner, w: w}
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	return p.inner.Chat(ctx, req)
}

func (p *Provider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	return p.inner.AskTools(ctx, req)
}

func (p *Provider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	return p.inner.ChatStream(ctx, req, p.record(fn))
}

func (p *Provider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return p.inner.AskToolsStream(ctx, req, p.record(fn))
}

// record builds a StreamFunc that writes each delta to the transcript
// before calling through to fn. A transcript write failure is ignored
// rather than aborting the underlying stream: a broken recording should
// never take down a live run.
func (p *Provider) record(fn llm.StreamFunc) llm.StreamFunc {
	return func(ctx context.Context, delta llm.StreamDelta) error {
		p.seq++
		event := "delta"
		if delta.Reasoning {
			event = "reasoning"
		}
		_ = p.w.Write(sse.Message{
			ID:    strconv.Itoa(p.seq),
			Event: event,
			Data:  []byte(delta.Content),
		})
		return fn(ctx, delta)
	}
}
