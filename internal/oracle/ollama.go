package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mathmark/internal/geom"
)

// OllamaOracle uses a local vision model through /api/generate.
type OllamaOracle struct {
	client   *http.Client
	model    string
	endpoint string
	prompts  *PromptBuilder
}

type ollamaGenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Format string   `json:"format"`
	Stream bool     `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func NewOllamaOracle(model, baseURL string, timeout time.Duration) *OllamaOracle {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost:11434"
	}
	return &OllamaOracle{
		client:   &http.Client{Timeout: timeout},
		model:    model,
		endpoint: base + "/api/generate",
		prompts:  &PromptBuilder{},
	}
}

func (o *OllamaOracle) Name() string { return "ollama" }

func (o *OllamaOracle) Locate(ctx context.Context, req Request) (*geom.Rect, error) {
	if req.Snapshot == nil {
		return nil, ErrInvalidSnapshot
	}
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.model,
		Prompt: o.prompts.BuildLocatePrompt(req),
		Images: []string{req.Snapshot.Base64()},
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama locate request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return ParseLocation(parsed.Response)
}
