package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToolCallAccumulator aggregates per-tool id/name/arguments-fragment
// deltas streamed across many chunks into complete ToolInfo records,
// preserving first-seen order. Shared by every streaming Provider
// implementation.
type ToolCallAccumulator struct {
	order []string
	byID  map[string]*ToolInfo
}

func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{byID: map[string]*ToolInfo{}}
}

func (a *ToolCallAccumulator) AddFragment(id, name, argsFragment string) {
	info, ok := a.byID[id]
	if !ok {
		info = &ToolInfo{ID: id}
		a.byID[id] = info
		a.order = append(a.order, id)
	}
	if name != "" {
		info.Name = name
	}
	info.Args += argsFragment
}

func (a *ToolCallAccumulator) ToolCalls() []ToolInfo {
	calls := make([]ToolInfo, 0, len(a.order))
	for _, id := range a.order {
		calls = append(calls, *a.byID[id])
	}
	return calls
}

// SerializeToolCalls renders calls as the canonical
// <tool_calls><tool>{…}</tool>…</tool_calls> block emitted at the end of a
// streamed tool-augmented response.
func SerializeToolCalls(calls []ToolInfo) string {
	if len(calls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<tool_calls>")
	for _, c := range calls {
		fmt.Fprintf(&b, `<tool>{"id":%q,"name":%q,"args":%s}</tool>`, c.ID, c.Name, toolArgsJSON(c.Args))
	}
	b.WriteString("</tool_calls>")
	return b.String()
}

// toolArgsJSON renders the tool's raw argument text as a JSON value,
// degrading an empty or malformed fragment to an empty object.
func toolArgsJSON(args string) string {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return "{}"
	}
	return trimmed
}

// TruncationNotice returns the localized notice appended to content when
// the provider reports length-truncated generation.
func TruncationNotice(chinese bool) string {
	if chinese {
		return "\n\n[注意：内容因长度限制被截断]"
	}
	return "\n\n[Note: content was truncated due to length limits]"
}
