package openaicompat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangerg/codewiki/internal/llm"
)

func TestUserContentJoinsPromptAndQuestion(t *testing.T) {
	got := userContent(llm.ChatRequest{UserPrompt: "context", Question: "what now?"})
	assert.Equal(t, "context\nwhat now?", got)
}

func TestUserContentFallsBackToQuestionOnly(t *testing.T) {
	got := userContent(llm.ChatRequest{Question: "what now?"})
	assert.Equal(t, "what now?", got)
}

func TestBuildMessagesPrependsSystemAsOwnMessage(t *testing.T) {
	p := &Provider{}
	msgs := p.buildMessages(llm.ChatRequest{System: "be terse", Question: "hi"})
	assert.Len(t, msgs, 2)
}

func TestToolChoiceParamMapsEnum(t *testing.T) {
	none := toolChoiceParam(llm.ToolChoiceNone)
	assert.Equal(t, "none", none.OfAuto.Value)

	required := toolChoiceParam(llm.ToolChoiceRequired)
	assert.Equal(t, "required", required.OfAuto.Value)

	auto := toolChoiceParam(llm.ToolChoiceAuto)
	assert.Equal(t, "auto", auto.OfAuto.Value)
}
