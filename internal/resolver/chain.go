package resolver

import (
	"context"
	"time"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/oracle"
	"mathmark/internal/registry"
)

// Query is one resolution request against a frozen registry snapshot.
type Query struct {
	Phrase   string
	Elements registry.Snapshot
	Canvas   element.CanvasDimensions
	Image    *oracle.Snapshot
}

type Match struct {
	Bounds geom.Rect
	Detail string
}

// Tier is one stage of the cascade. A miss is (Match{}, false), never an error.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, q Query) (Match, bool)
}

type StageResult struct {
	Tier    string        `json:"tier"`
	Hit     bool          `json:"hit"`
	Bounds  geom.Rect     `json:"bounds"`
	Detail  string        `json:"detail,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

type TierChain struct {
	tiers []Tier
}

func NewTierChain(tiers ...Tier) *TierChain {
	return &TierChain{tiers: tiers}
}

func (c *TierChain) Names() []string {
	out := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.Name()
	}
	return out
}

// Run executes tiers in order and stops after the first hit.
func (c *TierChain) Run(ctx context.Context, q Query) []StageResult {
	var out []StageResult
	for _, t := range c.tiers {
		start := time.Now()
		m, ok := t.Resolve(ctx, q)
		out = append(out, StageResult{
			Tier:    t.Name(),
			Hit:     ok,
			Bounds:  m.Bounds,
			Detail:  m.Detail,
			Elapsed: time.Since(start),
		})
		if ok {
			break
		}
	}
	return out
}
