package oracle

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mathmark/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiOracle_RequiresKey(t *testing.T) {
	_, err := NewGeminiOracle(context.Background(), "", "gemini-2.5-flash", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiOracle_RejectsMissingSnapshot(t *testing.T) {
	o, err := NewGeminiOracle(context.Background(), "key", "gemini-2.5-flash", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", o.Name())

	_, err = o.Locate(context.Background(), Request{Phrase: "the bracket", Canvas: canvas800})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestGeminiOracle_Locate(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "vision-model:generateContent"), r.URL.Path)
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		body = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"x\":40,\"y\":30,\"width\":25,\"height\":15}"}]}}]}`))
	}))
	defer srv.Close()

	o, err := NewGeminiOracle(context.Background(), "key", "vision-model", srv.URL)
	require.NoError(t, err)

	r, err := o.Locate(context.Background(), Request{Phrase: "the bracket", Snapshot: testSnapshot(t), Canvas: canvas800})
	require.NoError(t, err)
	assert.Equal(t, &geom.Rect{X: 40, Y: 30, Width: 25, Height: 15}, r)
	assert.Contains(t, body, "the bracket")
	assert.Contains(t, body, "image/png")
}

func TestGeminiOracle_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"image too small","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	o, err := NewGeminiOracle(context.Background(), "key", "vision-model", srv.URL)
	require.NoError(t, err)

	_, err = o.Locate(context.Background(), Request{Phrase: "x", Snapshot: testSnapshot(t), Canvas: canvas800})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini locate")
}
