package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangerg/codewiki/internal/llm"
)

type fakeProvider struct {
	content string
	success bool
	err     error
}

func (f fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	if f.err != nil {
		return llm.ChatResponse{}, llm.Usage{}, f.err
	}
	return llm.ChatResponse{Success: f.success, Content: f.content}, llm.Usage{}, nil
}

func (f fakeProvider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	return f.Chat(ctx, req)
}

func (f fakeProvider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	resp, usage, err := f.Chat(ctx, req.ChatRequest)
	return llm.AskToolResponse{ChatResponse: resp}, usage, err
}

func (f fakeProvider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return f.AskTools(ctx, req)
}

func TestIsStrongEnoughTrueWhenAllSucceed(t *testing.T) {
	assert.True(t, llm.IsStrongEnough(context.Background(), fakeProvider{success: true, content: "pong"}))
}

func TestIsStrongEnoughFalseOnErrorMarker(t *testing.T) {
	assert.False(t, llm.IsStrongEnough(context.Background(), fakeProvider{success: true, content: "**ERROR**"}))
}

func TestIsStrongEnoughFalseOnFailure(t *testing.T) {
	assert.False(t, llm.IsStrongEnough(context.Background(), fakeProvider{success: false, content: strings.Repeat("x", 3)}))
}
