package sse_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/sse"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msgs := []sse.Message{
		{ID: "1", Event: "delta", Data: []byte("hello")},
		{ID: "2", Event: "delta", Data: []byte("multi\nline\ndata")},
		{Event: "reasoning", Data: []byte("thinking...")},
	}

	var buf bytes.Buffer
	w := sse.NewWriter(&buf)
	for _, m := range msgs {
		require.NoError(t, w.Write(m))
	}

	dec := sse.NewDecoder(&buf)
	var got []sse.Message
	for dec.Next() {
		got = append(got, dec.Current())
	}
	require.NoError(t, dec.Err())
	require.Len(t, got, 3)

	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "delta", got[0].Event)
	assert.Equal(t, "hello", string(got[0].Data))

	// id persists across messages once set, per the SSE spec's own rule.
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "multi\nline\ndata", string(got[1].Data))

	assert.Equal(t, "2", got[2].ID)
	assert.Equal(t, "reasoning", got[2].Event)
}

func TestEncodeRejectsEmptyMessage(t *testing.T) {
	_, err := sse.Encode(sse.Message{})
	assert.ErrorIs(t, err, sse.ErrEmptyMessage)
}
