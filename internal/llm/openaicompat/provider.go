// Package openaicompat implements llm.Provider against any
// OpenAI-compatible chat completions endpoint — OpenAI itself, DeepSeek,
// SiliconFlow, Qwen/DashScope, or an internal gateway — purely through a
// base URL override.
package openaicompat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/retry"
)

// Config selects an endpoint and model. BaseURL is left empty to talk to
// OpenAI directly; DeepSeek/SiliconFlow/Qwen/gateway configurations set
// it to their own compatible endpoint.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	ChineseLocale bool
	RetryPolicy   retry.Policy
}

// Provider is the OpenAI-compatible llm.Provider implementation.
type Provider struct {
	client *openai.Client
	cfg    Config
}

var _ llm.Provider = (*Provider)(nil)

func New(cfg Config) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &Provider{client: &client, cfg: cfg}
}

func (p *Provider) buildMessages(req llm.ChatRequest) []openai.ChatCompletionMessageParamUnion {
	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, h := range req.History {
		switch h.Role {
		case llm.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(h.Content))
		case llm.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(userContent(req)))
	return msgs
}

// userContent joins UserPrompt and Question with a newline when both are
// present, per the shared OpenAI-compatible message-formatting rule.
func userContent(req llm.ChatRequest) string {
	if req.UserPrompt != "" && req.Question != "" {
		return req.UserPrompt + "\n" + req.Question
	}
	if req.UserPrompt != "" {
		return req.UserPrompt
	}
	return req.Question
}

func (p *Provider) buildTools(tools []llm.ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// toolChoiceParam maps the shared ToolChoice enum onto the union param the
// OpenAI-compatible API expects, following the SDK's "Of"-prefixed union
// field convention.
func toolChoiceParam(choice llm.ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	switch choice {
	case llm.ToolChoiceNone:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("none")}
	case llm.ToolChoiceRequired:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("required")}
	default:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")}
	}
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	resp, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*openai.ChatCompletion, error) {
		return p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    p.cfg.Model,
			Messages: p.buildMessages(req),
		})
	})
	if err != nil {
		return llm.ChatResponse{Success: false, Content: err.Error()}, llm.Usage{}, nil
	}
	return p.completionResponse(resp), p.usageOf(resp), nil
}

func (p *Provider) completionResponse(resp *openai.ChatCompletion) llm.ChatResponse {
	if len(resp.Choices) == 0 {
		return llm.ChatResponse{Success: true}
	}
	choice := resp.Choices[0]
	content := choice.Message.Content
	if choice.FinishReason == "length" {
		content += llm.TruncationNotice(p.cfg.ChineseLocale)
	}
	return llm.ChatResponse{Success: true, Content: content}
}

func (p *Provider) usageOf(resp *openai.ChatCompletion) llm.Usage {
	return llm.Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
}

func (p *Provider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	resp, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*openai.ChatCompletion, error) {
		return p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:      p.cfg.Model,
			Messages:   p.buildMessages(req.ChatRequest),
			Tools:      p.buildTools(req.Tools),
			ToolChoice: toolChoiceParam(req.ToolChoice),
		})
	})
	if err != nil {
		return llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: false, Content: err.Error()}}, llm.Usage{}, nil
	}
	out := llm.AskToolResponse{ChatResponse: p.completionResponse(resp)}
	if len(resp.Choices) > 0 {
		for _, tc := range resp.Choices[0].Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, llm.ToolInfo{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			})
		}
	}
	return out, p.usageOf(resp), nil
}

func (p *Provider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	out, usage, err := p.streamCompletion(ctx, req, nil, llm.ToolChoiceAuto, fn)
	return out.ChatResponse, usage, err
}

func (p *Provider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return p.streamCompletion(ctx, req.ChatRequest, req.Tools, req.ToolChoice, fn)
}

func (p *Provider) streamCompletion(ctx context.Context, req llm.ChatRequest, tools []llm.ToolSpec, choice llm.ToolChoice, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model:    p.cfg.Model,
		Messages: p.buildMessages(req),
	}
	if len(tools) > 0 {
		params.Tools = p.buildTools(tools)
		params.ToolChoice = toolChoiceParam(choice)
	}

	type streamResult struct {
		content      strings.Builder
		finishReason string
		usage        llm.Usage
		calls        *llm.ToolCallAccumulator
	}

	result, runErr := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*streamResult, error) {
		res := &streamResult{calls: llm.NewToolCallAccumulator()}
		reasoningOpen := false

		stream := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			res.usage = llm.Usage{
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
				TotalTokens:  chunk.Usage.TotalTokens,
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			delta := choice.Delta
			if choice.FinishReason != "" {
				res.finishReason = choice.FinishReason
			}

			if reasoning := reasoningContent(delta); reasoning != "" {
				if !reasoningOpen {
					reasoningOpen = true
					if err := fn(ctx, llm.StreamDelta{Content: "<think>", Reasoning: true}); err != nil {
						return res, err
					}
				}
				if err := fn(ctx, llm.StreamDelta{Content: reasoning, Reasoning: true}); err != nil {
					return res, err
				}
			}
			if delta.Content != "" {
				if reasoningOpen {
					reasoningOpen = false
					if err := fn(ctx, llm.StreamDelta{Content: "</think>"}); err != nil {
						return res, err
					}
				}
				res.content.WriteString(delta.Content)
				if err := fn(ctx, llm.StreamDelta{Content: delta.Content}); err != nil {
					return res, err
				}
			}
			for _, tc := range delta.ToolCalls {
				res.calls.AddFragment(tc.ID, tc.Function.Name, tc.Function.Arguments)
			}
		}
		return res, stream.Err()
	})
	if runErr != nil {
		return llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: false, Content: runErr.Error()}}, llm.Usage{}, nil
	}

	full := result.content.String()
	if result.finishReason == "length" {
		full += llm.TruncationNotice(p.cfg.ChineseLocale)
	}
	out := llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: true, Content: full}}
	if toolCalls := result.calls.ToolCalls(); len(toolCalls) > 0 {
		out.ToolCalls = toolCalls
		out.Content += llm.SerializeToolCalls(toolCalls)
	}
	return out, result.usage, nil
}

// reasoningContent extracts a DeepSeek-R1/Qwen-style reasoning_content
// delta field, which the SDK surfaces as a raw extra field on the delta.
func reasoningContent(delta openai.ChatCompletionChunkChoiceDelta) string {
	raw, ok := delta.JSON.ExtraFields["reasoning_content"]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal([]byte(raw.Raw()), &s)
	return s
}
