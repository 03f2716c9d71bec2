package kernel

import (
	"context"
	"sort"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm"
)

// FunctionChoiceBehavior mirrors Semantic Kernel's auto-invoke switch: Auto
// offers every registered native function to the model, None offers none.
type FunctionChoiceBehavior string

const (
	FunctionChoiceAuto FunctionChoiceBehavior = "auto"
	FunctionChoiceNone FunctionChoiceBehavior = "none"
)

func (b FunctionChoiceBehavior) toolChoice() llm.ToolChoice {
	if b == FunctionChoiceAuto {
		return llm.ToolChoiceAuto
	}
	return llm.ToolChoiceNone
}

// PromptRequest bundles one invoke_prompt call's inputs.
type PromptRequest struct {
	System   string
	Question string
	History  []llm.Message
	Behavior FunctionChoiceBehavior
}

func (k *Kernel) toolsFor(behavior FunctionChoiceBehavior) []llm.ToolSpec {
	if behavior != FunctionChoiceAuto {
		return nil
	}
	specs := k.ToolSpecs()
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

func (k *Kernel) askToolsRequest(req PromptRequest) llm.AskToolsRequest {
	return llm.AskToolsRequest{
		ChatRequest: llm.ChatRequest{
			System:   req.System,
			Question: req.Question,
			History:  req.History,
		},
		Tools:      k.toolsFor(req.Behavior),
		ToolChoice: req.Behavior.toolChoice(),
	}
}

// InvokePrompt performs one non-streaming completion over req's history,
// offering the kernel's registered native functions when Behavior is
// FunctionChoiceAuto.
func (k *Kernel) InvokePrompt(ctx context.Context, req PromptRequest) (llm.AskToolResponse, llm.Usage, error) {
	return k.Provider.AskTools(ctx, k.askToolsRequest(req))
}

// InvokePromptStream performs one streaming completion, invoking fn per
// delta, with the same native-function offering rule as InvokePrompt.
func (k *Kernel) InvokePromptStream(ctx context.Context, req PromptRequest, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	return k.Provider.AskToolsStream(ctx, k.askToolsRequest(req), fn)
}

// InvokeByPlugin renders the named semantic function against args and runs
// it as a non-streaming completion.
func (k *Kernel) InvokeByPlugin(ctx context.Context, pluginName, functionName string, args map[string]any, behavior FunctionChoiceBehavior) (llm.AskToolResponse, llm.Usage, error) {
	prompt, err := k.renderPlugin(pluginName, functionName, args)
	if err != nil {
		return llm.AskToolResponse{}, llm.Usage{}, err
	}
	return k.InvokePrompt(ctx, PromptRequest{Question: prompt, Behavior: behavior})
}

// InvokeByPluginStream renders the named semantic function against args
// and streams its completion, invoking fn per delta.
func (k *Kernel) InvokeByPluginStream(ctx context.Context, pluginName, functionName string, args map[string]any, behavior FunctionChoiceBehavior, fn llm.StreamFunc) (llm.AskToolResponse, llm.Usage, error) {
	prompt, err := k.renderPlugin(pluginName, functionName, args)
	if err != nil {
		return llm.AskToolResponse{}, llm.Usage{}, err
	}
	return k.InvokePromptStream(ctx, PromptRequest{Question: prompt, Behavior: behavior}, fn)
}

func (k *Kernel) renderPlugin(pluginName, functionName string, args map[string]any) (string, error) {
	plugin, ok := k.SemanticPlugin(pluginName)
	if !ok {
		return "", codewikierr.New(codewikierr.KindNotFound, "semantic plugin not loaded: "+pluginName)
	}
	function, ok := plugin.Function(functionName)
	if !ok {
		return "", codewikierr.New(codewikierr.KindNotFound, "semantic function not found: "+pluginName+"."+functionName)
	}
	return function.Render(args)
}
