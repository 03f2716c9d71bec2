// Package anthropic implements llm.Provider against the Anthropic
// Messages API. Claude has no system role on individual turns, so the
// system prompt is merged into the first user message instead.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/retry"
)

// Config selects a model and credentials.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int64
	Temperature   float64
	ChineseLocale bool
	RetryPolicy   retry.Policy
}

// Provider is the Anthropic llm.Provider implementation.
type Provider struct {
	client *anthropic.Client
	cfg    Config
}

var _ llm.Provider = (*Provider)(nil)

func New(cfg Config) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}
	return &Provider{client: &client, cfg: cfg}
}

// buildMessages merges System into the first user turn: Claude has no
// system role, so the system text is prefixed to the earliest user message
// in History, or to the new user turn when History holds none.
func (p *Provider) buildMessages(req llm.ChatRequest) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(req.History)+1)
	system := req.System
	for _, h := range req.History {
		if h.Role == llm.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(h.Content)))
		} else {
			content := h.Content
			if system != "" {
				content = system + "\n\n" + content
				system = ""
			}
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))
		}
	}

	user := userContent(req)
	if system != "" {
		if user != "" {
			user = system + "\n\n" + user
		} else {
			user = system
		}
	}
	if user != "" {
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))
	}
	return msgs
}

func userContent(req llm.ChatRequest) string {
	if req.UserPrompt != "" && req.Question != "" {
		return req.UserPrompt + "\n" + req.Question
	}
	if req.UserPrompt != "" {
		return req.UserPrompt
	}
	return req.Question
}

func (p *Provider) newParams(req llm.ChatRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: anthropic.Float(p.cfg.Temperature),
		Messages:    p.buildMessages(req),
	}
}

func (p *Provider) buildTools(tools []llm.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Parameters["properties"],
				},
			},
		})
	}
	return out
}

func toolChoiceParam(choice llm.ToolChoice) anthropic.ToolChoiceUnionParam {
	switch choice {
	case llm.ToolChoiceRequired:
		return anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
	case llm.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	default:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, llm.Usage, error) {
	params := p.newParams(req)
	msg, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*anthropic.Message, error) {
		return p.client.Messages.New(ctx, params)
	})
	if err != nil {
		return llm.ChatResponse{Success: false, Content: err.Error()}, llm.Usage{}, nil
	}
	return p.response(msg), p.usage(msg), nil
}

func (p *Provider) response(msg *anthropic.Message) llm.ChatResponse {
	var b strings.Builder
	for _, block := range msg.Content {
		if text := block.AsAny(); text != nil {
			if t, ok := text.(anthropic.TextBlock); ok {
				b.WriteString(t.Text)
			}
		}
	}
	content := b.String()
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		content += llm.TruncationNotice(p.cfg.ChineseLocale)
	}
	return llm.ChatResponse{Success: true, Content: content}
}

func (p *Provider) usage(msg *anthropic.Message) llm.Usage {
	return llm.Usage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
}

func (p *Provider) AskTools(ctx context.Context, req llm.AskToolsRequest) (llm.AskToolResponse, llm.Usage, error) {
	params := p.newParams(req.ChatRequest)
	if len(req.Tools) > 0 && req.ToolChoice != llm.ToolChoiceNone {
		params.Tools = p.buildTools(req.Tools)
		params.ToolChoice = toolChoiceParam(req.ToolChoice)
	}
	msg, err := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*anthropic.Message, error) {
		return p.client.Messages.New(ctx, params)
	})
	if err != nil {
		return llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: false, Content: err.Error()}}, llm.Usage{}, nil
	}
	out := llm.AskToolResponse{ChatResponse: p.response(msg)}
	for _, block := range msg.Content {
		if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			out.ToolCalls = append(out.ToolCalls, llm.ToolInfo{
				ID:   tu.ID,
				Name: tu.Name,
				Args: string(tu.Input),
			})
		}
	}
	return out, p.usage(msg), nil
}

func (p *Provider) ChatStream(ctx context.Context, req llm.ChatRequest, fn llm.StreamFunc) (llm.ChatResponse, llm.Usage, error) {
	out, usage, err := p.streamMessage(ctx, req, nil, llm.ToolChoiceAuto, fn)
	return out.ChatResponse, usage, err
}

func (p *Provider) AskToolsStream(ctx context.Context, req llm.AskToolsRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return p.streamMessage(ctx, req.ChatRequest, req.Tools, req.ToolChoice, fn)
}

func (p *Provider) streamMessage(ctx context.Context, req llm.ChatRequest, tools []llm.ToolSpec, choice llm.ToolChoice, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	params := p.newParams(req)
	if len(tools) > 0 && choice != llm.ToolChoiceNone {
		params.Tools = p.buildTools(tools)
		params.ToolChoice = toolChoiceParam(choice)
	}

	type streamResult struct {
		content    strings.Builder
		stopReason anthropic.StopReason
		usage      llm.Usage
		calls      *llm.ToolCallAccumulator
	}

	result, runErr := retry.Do(ctx, p.cfg.RetryPolicy, func(ctx context.Context, _ int) (*streamResult, error) {
		res := &streamResult{calls: llm.NewToolCallAccumulator()}
		acc := anthropic.Message{}

		stream := p.client.Messages.NewStreaming(ctx, params)
		for stream.Next() {
			event := stream.Current()
			if err := acc.Accumulate(event); err != nil {
				return res, err
			}
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					res.content.WriteString(delta.Text)
					if err := fn(ctx, llm.StreamDelta{Content: delta.Text}); err != nil {
						return res, err
					}
				}
				if delta, ok := ev.Delta.AsAny().(anthropic.InputJSONDelta); ok {
					res.calls.AddFragment(lastToolUseID(acc), "", delta.PartialJSON)
				}
			case anthropic.ContentBlockStartEvent:
				if tu, ok := ev.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
					res.calls.AddFragment(tu.ID, tu.Name, "")
				}
			}
		}
		if err := stream.Err(); err != nil {
			return res, err
		}
		res.stopReason = acc.StopReason
		res.usage = llm.Usage{InputTokens: acc.Usage.InputTokens, OutputTokens: acc.Usage.OutputTokens}
		return res, nil
	})
	if runErr != nil {
		return llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: false, Content: runErr.Error()}}, llm.Usage{}, nil
	}

	full := result.content.String()
	if result.stopReason == anthropic.StopReasonMaxTokens {
		full += llm.TruncationNotice(p.cfg.ChineseLocale)
	}
	out := llm.AskToolResponse{ChatResponse: llm.ChatResponse{Success: true, Content: full}}
	if toolCalls := result.calls.ToolCalls(); len(toolCalls) > 0 {
		out.ToolCalls = toolCalls
		out.Content += llm.SerializeToolCalls(toolCalls)
	}
	return out, result.usage, nil
}

// lastToolUseID finds the most recently started tool_use block's id in
// the accumulated message, since InputJSONDelta events carry only an
// index, not the block's id.
func lastToolUseID(acc anthropic.Message) string {
	for i := len(acc.Content) - 1; i >= 0; i-- {
		if tu, ok := acc.Content[i].AsAny().(anthropic.ToolUseBlock); ok {
			return tu.ID
		}
	}
	return ""
}
