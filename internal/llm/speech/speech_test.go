package speech_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm/speech"
)

func TestNewSTTReturnsConfigErrorForUnconfiguredProviderTag(t *testing.T) {
	_, err := speech.NewSTT("tencent", speech.Config{})
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindConfig))
}

func TestNewTTSReturnsConfigErrorForUnconfiguredProviderTag(t *testing.T) {
	_, err := speech.NewTTS("fish_audio", speech.Config{})
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindConfig))
}

func TestNewSTTAndNewTTSRouteOpenAITag(t *testing.T) {
	stt, err := speech.NewSTT("openai", speech.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, stt)

	tts, err := speech.NewTTS("openai", speech.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, tts)
}

func TestSynthesizeStreamsAudioBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("fake-audio-bytes"))
	}))
	defer server.Close()

	tts := speech.NewOpenAITTS(speech.Config{BaseURL: server.URL, APIKey: "k"})
	body, tokens, err := tts.Synthesize(context.Background(), "hello world", "")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "fake-audio-bytes", string(data))
	assert.Greater(t, tokens, int64(0))
}

func TestSynthesizeReturnsErrorOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	tts := speech.NewOpenAITTS(speech.Config{BaseURL: server.URL})
	_, _, err := tts.Synthesize(context.Background(), "hello", "alloy")
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindTransientRemote))
}
