package resolver

import (
	"context"

	"mathmark/internal/oracle"
	"mathmark/internal/structural"
	"mathmark/internal/symbolic"
)

type SymbolicTier struct {
	matcher *symbolic.Matcher
}

func NewSymbolicTier(m *symbolic.Matcher) *SymbolicTier {
	if m == nil {
		m = symbolic.NewDefaultMatcher()
	}
	return &SymbolicTier{matcher: m}
}

func (t *SymbolicTier) Name() string { return "symbolic" }

func (t *SymbolicTier) Resolve(_ context.Context, q Query) (Match, bool) {
	r, strategy, ok := t.matcher.Match(q.Phrase, q.Elements)
	return Match{Bounds: r, Detail: strategy}, ok
}

type StructuralTier struct {
	matcher *structural.Matcher
}

func NewStructuralTier(m *structural.Matcher) *StructuralTier {
	if m == nil {
		m = structural.NewMatcher(structural.DefaultOptions())
	}
	return &StructuralTier{matcher: m}
}

func (t *StructuralTier) Name() string { return "structural" }

func (t *StructuralTier) Resolve(_ context.Context, q Query) (Match, bool) {
	r, region, ok := t.matcher.Match(q.Phrase, q.Elements, q.Canvas)
	return Match{Bounds: r, Detail: string(region)}, ok
}

// OracleTier is the only tier that blocks; it is skipped without an image.
type OracleTier struct {
	locator *oracle.Locator
}

func NewOracleTier(l *oracle.Locator) *OracleTier {
	return &OracleTier{locator: l}
}

func (t *OracleTier) Name() string { return "oracle" }

func (t *OracleTier) Resolve(ctx context.Context, q Query) (Match, bool) {
	if q.Image == nil || t.locator == nil {
		return Match{}, false
	}
	r, ok := t.locator.Locate(ctx, q.Phrase, q.Image, q.Canvas)
	return Match{Bounds: r}, ok
}
