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

// OpenAIOracle talks to any chat-completions endpoint that accepts
// image_url content parts.
type OpenAIOracle struct {
	client   *http.Client
	apiKey   string
	model    string
	endpoint string
	prompts  *PromptBuilder
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type openAIChatMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIOracle(apiKey, model, baseURL string, timeout time.Duration) *OpenAIOracle {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &OpenAIOracle{
		client:   &http.Client{Timeout: timeout},
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		prompts:  &PromptBuilder{},
	}
}

func (o *OpenAIOracle) Name() string { return "openai" }

func (o *OpenAIOracle) Locate(ctx context.Context, req Request) (*geom.Rect, error) {
	if strings.TrimSpace(o.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Snapshot == nil {
		return nil, ErrInvalidSnapshot
	}

	body, err := json.Marshal(openAIChatRequest{
		Model: o.model,
		Messages: []openAIChatMessage{{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: o.prompts.BuildLocatePrompt(req)},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: req.Snapshot.DataURL()}},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
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
		return nil, fmt.Errorf("openai locate request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return ParseLocation(parsed.Choices[0].Message.Content)
}
