package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangerg/codewiki/internal/llm"
)

func TestUsageResolvePrefersTotalTokens(t *testing.T) {
	u := llm.Usage{TotalTokens: 42, InputTokens: 10, OutputTokens: 10}
	assert.Equal(t, int64(42), u.Resolve())
}

func TestUsageResolveFallsBackToSum(t *testing.T) {
	u := llm.Usage{InputTokens: 10, OutputTokens: 5}
	assert.Equal(t, int64(15), u.Resolve())
}

func TestUsageResolveZeroWhenEmpty(t *testing.T) {
	assert.Equal(t, int64(0), llm.Usage{}.Resolve())
}

func TestToolCallAccumulatorAggregatesFragmentsByID(t *testing.T) {
	acc := llm.NewToolCallAccumulator()
	acc.AddFragment("call_1", "search", `{"q":`)
	acc.AddFragment("call_1", "", `"go"}`)
	acc.AddFragment("call_2", "fetch", `{"url":"x"}`)

	calls := acc.ToolCalls()
	assert.Len(t, calls, 2)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "search", calls[0].Name)
	assert.Equal(t, `{"q":"go"}`, calls[0].Args)
	assert.Equal(t, "call_2", calls[1].ID)
}

func TestSerializeToolCallsWrapsEachCall(t *testing.T) {
	out := llm.SerializeToolCalls([]llm.ToolInfo{{ID: "1", Name: "search", Args: `{"q":"go"}`}})
	assert.Contains(t, out, "<tool_calls>")
	assert.Contains(t, out, `"name":"search"`)
	assert.Contains(t, out, "</tool_calls>")
}

func TestSerializeToolCallsEmptyWhenNoCalls(t *testing.T) {
	assert.Equal(t, "", llm.SerializeToolCalls(nil))
}

func TestTruncationNoticeLocale(t *testing.T) {
	assert.Contains(t, llm.TruncationNotice(false), "truncated")
	assert.Contains(t, llm.TruncationNotice(true), "截断")
}
