package llm

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	strengthProbeCount   = 32
	strengthProbeTimeout = 30 * time.Second
	strengthErrorMarker  = "**ERROR**"
)

// IsStrongEnough issues strengthProbeCount concurrent trivial prompts
// against p, each bounded by a 30-second timeout, and reports true only
// if every one succeeds without timing out or returning the literal
// "**ERROR**" marker some providers use for degraded responses.
func IsStrongEnough(ctx context.Context, p Provider) bool {
	var wg sync.WaitGroup
	results := make([]bool, strengthProbeCount)
	for i := 0; i < strengthProbeCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = probeOnce(ctx, p)
		}(i)
	}
	wg.Wait()
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

func probeOnce(ctx context.Context, p Provider) bool {
	probeCtx, cancel := context.WithTimeout(ctx, strengthProbeTimeout)
	defer cancel()
	resp, _, err := p.Chat(probeCtx, ChatRequest{UserPrompt: "ping"})
	if err != nil {
		return false
	}
	if !resp.Success {
		return false
	}
	if strings.Contains(resp.Content, strengthErrorMarker) {
		return false
	}
	return true
}
