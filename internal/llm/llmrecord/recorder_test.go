package llmrecord_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/llm/llmrecord"
	"github.com/tangerg/codewiki/internal/sse"
)

type streamingFakeProvider struct {
	deltas []llm.StreamDelta
}

func (f streamingFakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	return llm.ChatResponse{Success: true}, llm.Usage{}, nil
}

func (f streamingFakeProvider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	for _, d := range f.deltas {
		if err := fn(ctx, d); err != nil {
			return llm.ChatResponse{}, llm.Usage{}, err
		}
	}
	return llm.ChatResponse{Success: true}, llm.Usage{}, nil
}

func (f streamingFakeProvider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	resp, usage, err := f.Chat(ctx, req.ChatRequest)
	return llm.AskToolResponse{ChatResponse: resp}, usage, err
}

func (f streamingFakeProvider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	resp, usage, err := f.ChatStream(ctx, req.ChatRequest, fn)
	return llm.AskToolResponse{ChatResponse: resp}, usage, err
}

func TestChatStreamRecordsEveryDeltaAndForwardsToCaller(t *testing.T) {
	inner := streamingFakeProvider{deltas: []llm.StreamDelta{
		{Content: "hello "},
		{Content: "world", Reasoning: true},
	}}
	var buf bytes.Buffer
	p := llmrecord.Wrap(inner, sse.NewWriter(&buf))

	var forwarded []llm.StreamDelta
	_, _, err := p.ChatStream(context.Background(), llm.ChatRequest{}, func(ctx context.Context, d llm.StreamDelta) error {
		forwarded = append(forwarded, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, forwarded, 2)
	assert.Equal(t, "hello ", forwarded[0].Content)

	dec := sse.NewDecoder(&buf)
	var recorded []sse.Message
	for dec.Next() {
		recorded = append(recorded, dec.Current())
	}
	require.NoError(t, dec.Err())
	require.Len(t, recorded, 2)
	assert.Equal(t, "1", recorded[0].ID)
	assert.Equal(t, "delta", recorded[0].Event)
	assert.Equal(t, "hello ", string(recorded[0].Data))
	assert.Equal(t, "reasoning", recorded[1].Event)
	assert.Equal(t, "world", string(recorded[1].Data))
}

func TestChatPassesThroughWithoutRecording(t *testing.T) {
	inner := streamingFakeProvider{}
	var buf bytes.Buffer
	p := llmrecord.Wrap(inner, sse.NewWriter(&buf))

	resp, _, err := p.Chat(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Zero(t, buf.Len())
}
