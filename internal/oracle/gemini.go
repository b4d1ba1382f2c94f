package oracle

import (
	"context"
	"fmt"

	"mathmark/internal/geom"

	"google.golang.org/genai"
)

// GeminiOracle sends the snapshot as an inline image part and asks for a
// JSON reply.
type GeminiOracle struct {
	client  *genai.Client
	model   string
	prompts *PromptBuilder
}

// NewGeminiOracle creates a client for the Gemini API. An empty baseURL uses
// the public endpoint.
func NewGeminiOracle(ctx context.Context, apiKey, modelName, baseURL string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiOracle{
		client:  client,
		model:   modelName,
		prompts: &PromptBuilder{},
	}, nil
}

func (o *GeminiOracle) Name() string { return "gemini" }

func (o *GeminiOracle) Locate(ctx context.Context, req Request) (*geom.Rect, error) {
	if req.Snapshot == nil {
		return nil, ErrInvalidSnapshot
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Snapshot.Data, req.Snapshot.MIMEType),
		genai.NewPartFromText(o.prompts.BuildLocatePrompt(req)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := float32(0)
	resp, err := o.client.Models.GenerateContent(ctx, o.model, contents, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini locate: %w", err)
	}
	return ParseLocation(resp.Text())
}
