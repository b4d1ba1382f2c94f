package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mathmark/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIOracle_Locate(t *testing.T) {
	var got openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"x\":12,\"y\":14,\"width\":20,\"height\":22}"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAIOracle("secret", "vision-model", srv.URL, 5*time.Second)
	req := Request{Phrase: "the bracket", Snapshot: testSnapshot(t), Canvas: canvas800}
	r, err := o.Locate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, &geom.Rect{X: 12, Y: 14, Width: 20, Height: 22}, r)

	assert.Equal(t, "vision-model", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Contains(t, got.Messages[0].Content[0].Text, `"the bracket"`)
	require.NotNil(t, got.Messages[0].Content[1].ImageURL)
	assert.Contains(t, got.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,")
}

func TestOpenAIOracle_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := NewOpenAIOracle("secret", "m", srv.URL+"/v1", 5*time.Second)
	_, err := o.Locate(context.Background(), Request{Phrase: "x", Snapshot: testSnapshot(t), Canvas: canvas800})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIOracle_RequiresKey(t *testing.T) {
	o := NewOpenAIOracle("", "m", "", time.Second)
	_, err := o.Locate(context.Background(), Request{Phrase: "x", Snapshot: testSnapshot(t)})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOllamaOracle_Locate(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"{\"found\": false}","done":true}`))
	}))
	defer srv.Close()

	o := NewOllamaOracle("llava", srv.URL+"/", 5*time.Second)
	r, err := o.Locate(context.Background(), Request{Phrase: "the bracket", Snapshot: testSnapshot(t), Canvas: canvas800})
	require.NoError(t, err)
	assert.Nil(t, r)

	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Images, 1)
}
