package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"model":   "test-model",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGenerate(t *testing.T) {
	srv := newCompletionServer(t, "Main Topic: testing.", http.StatusOK)

	c := NewClient(srv.URL, "test-key", 0.7, ModelConfig{ID: "test-model", MaxTokens: 128})
	out, err := c.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Main Topic: testing.", out)
}

func TestClientGenerateNoKeys(t *testing.T) {
	c := NewClient("http://localhost:0", "", 0.7, DefaultModel)
	_, err := c.Generate(context.Background(), "summarize this")
	assert.Error(t, err)
}

func TestClientGenerateServerError(t *testing.T) {
	srv := newCompletionServer(t, "", http.StatusInternalServerError)

	c := NewClient(srv.URL, "k1", 0.7, ModelConfig{ID: "test-model", MaxTokens: 128})
	_, err := c.Generate(context.Background(), "summarize this")
	assert.Error(t, err)

	// The failing key was recorded so rotation can prefer healthier ones.
	assert.Equal(t, 1, c.getBestKey().FailureCount)
}
