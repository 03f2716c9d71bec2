package pipeline

import (
	"context"
	"fmt"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/llm/kernel"
)

// maxToolRounds bounds the tool-calling loop below. kernel.InvokePrompt
// makes exactly one provider call and returns any unexecuted tool calls
// rather than looping itself (see internal/llm/kernel's own doc comment),
// so a caller that offers tools is responsible for executing them and
// re-invoking until the model returns a final answer.
const maxToolRounds = 6

// invokeWithTools drives req through k.InvokePrompt, executing any tool
// calls the model requests via the kernel's registered native functions
// and feeding their results back as history, until the model returns a
// response with no further tool calls or maxToolRounds is exhausted.
func invokeWithTools(ctx context.Context, k *kernel.Kernel, req kernel.PromptRequest) (string, error) {
	history := append([]llm.Message(nil), req.History...)
	question := req.Question

	for round := 0; round < maxToolRounds; round++ {
		resp, _, err := k.InvokePrompt(ctx, kernel.PromptRequest{
			System:   req.System,
			Question: question,
			History:  history,
			Behavior: req.Behavior,
		})
		if err != nil {
			return "", err
		}
		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		history = append(history, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
		for _, call := range resp.ToolCalls {
			result := callNativeFunction(ctx, k, call)
			history = append(history, llm.Message{
				Role:    llm.RoleUser,
				Content: fmt.Sprintf("Tool %s result: %s", call.Name, result),
			})
		}
		question = ""
	}

	return "", codewikierr.New(codewikierr.KindTransientRemote, "tool-calling loop exceeded max rounds without a final response")
}

func callNativeFunction(ctx context.Context, k *kernel.Kernel, call llm.ToolInfo) string {
	fn, ok := k.NativeFunction(call.Name)
	if !ok {
		return fmt.Sprintf(`{"error":"unknown tool %s"}`, call.Name)
	}
	out, err := fn.Call(ctx, call.Args)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return out
}
