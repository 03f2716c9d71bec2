package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/llm"
)

func TestBuildMessagesMergesSystemIntoFirstUserTurn(t *testing.T) {
	p := &Provider{}
	msgs := p.buildMessages(llm.ChatRequest{
		System:     "be terse",
		UserPrompt: "context",
		Question:   "hi",
	})
	require.Len(t, msgs, 1)
}

func TestBuildMessagesKeepsHistoryAheadOfUserTurn(t *testing.T) {
	p := &Provider{}
	msgs := p.buildMessages(llm.ChatRequest{
		History:  []llm.Message{{Role: llm.RoleUser, Content: "earlier"}},
		Question: "now",
	})
	require.Len(t, msgs, 2)
}

func TestUserContentJoinsPromptAndQuestion(t *testing.T) {
	assert.Equal(t, "a\nb", userContent(llm.ChatRequest{UserPrompt: "a", Question: "b"}))
}

func TestToolChoiceParamRequiredMapsToAny(t *testing.T) {
	choice := toolChoiceParam(llm.ToolChoiceRequired)
	assert.NotNil(t, choice.OfAny)
}
