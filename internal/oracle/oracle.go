package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mathmark/internal/element"
	"mathmark/internal/geom"
)

var (
	ErrMalformedResponse = errors.New("malformed oracle response")
	ErrUnknownProvider   = errors.New("unsupported oracle provider")
	ErrMissingAPIKey     = errors.New("oracle api key is required")
)

// Request asks the oracle where a phrase appears on the canvas snapshot.
type Request struct {
	Phrase   string
	Snapshot *Snapshot
	Canvas   element.CanvasDimensions
}

// Oracle localizes a phrase on an image. A nil box with a nil error means the
// oracle explicitly could not find it.
type Oracle interface {
	Name() string
	Locate(ctx context.Context, req Request) (*geom.Rect, error)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaModel = "llava"
	defaultTimeout     = 30 * time.Second
)

func New(ctx context.Context, opts Options) (Oracle, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	switch provider {
	case "gemini":
		return NewGeminiOracle(ctx, opts.APIKey, orDefault(opts.Model, defaultGeminiModel), opts.BaseURL)
	case "openai":
		return NewOpenAIOracle(opts.APIKey, orDefault(opts.Model, defaultOpenAIModel), opts.BaseURL, opts.Timeout), nil
	case "ollama":
		return NewOllamaOracle(orDefault(opts.Model, defaultOllamaModel), opts.BaseURL, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, opts.Provider)
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
