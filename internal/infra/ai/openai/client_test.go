package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/millwatt/internal/domain/ai"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("sk-test", srv.URL+"/v1")
}

func TestGenerate_SendsImageDataURL(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	})

	text, err := c.Generate(context.Background(), ai.GenerateRequest{
		Model:  "gpt-4o-mini",
		Prompt: "analyze",
		Media:  ai.MediaPart{Data: "AAAA", MimeType: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, maxTokens, body["max_tokens"])
	msgs := body["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	img := content[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", img["url"])
}

func TestGenerate_ReasoningModelsUseMaxCompletionTokens(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})
	_, err := c.Generate(context.Background(), ai.GenerateRequest{Model: "o4-mini", Media: ai.MediaPart{Data: "AA==", MimeType: "image/png"}})
	require.NoError(t, err)
	assert.EqualValues(t, maxTokens, body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
}

func TestGenerate_RefusesAudio(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	_, err := c.Generate(context.Background(), ai.GenerateRequest{Model: "gpt-4o", Media: ai.MediaPart{Data: "AA==", MimeType: "audio/webm"}})
	require.Error(t, err)
	assert.False(t, called)
}

func TestGenerate_Quota(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	})
	_, err := c.Generate(context.Background(), ai.GenerateRequest{Model: "gpt-4o", Media: ai.MediaPart{Data: "AA==", MimeType: "image/png"}})
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestGenerate_NoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Generate(context.Background(), ai.GenerateRequest{Model: "gpt-4o", Media: ai.MediaPart{Data: "AA==", MimeType: "image/png"}})
	assert.ErrorContains(t, err, "no choices")
}
