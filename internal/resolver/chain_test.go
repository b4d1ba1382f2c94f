package resolver

import (
	"context"
	"testing"

	"mathmark/internal/geom"
	"mathmark/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTier struct {
	name  string
	calls int
	fn    func(q Query) (Match, bool)
}

func (f *fakeTier) Name() string { return f.name }
func (f *fakeTier) Resolve(_ context.Context, q Query) (Match, bool) {
	f.calls++
	return f.fn(q)
}

func missTier(name string) *fakeTier {
	return &fakeTier{name: name, fn: func(Query) (Match, bool) { return Match{}, false }}
}

func TestTierChain_Run(t *testing.T) {
	t1 := missTier("t1")
	t2 := &fakeTier{
		name: "t2",
		fn: func(q Query) (Match, bool) {
			return Match{Bounds: geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}, Detail: q.Phrase}, true
		},
	}
	t3 := missTier("t3")

	chain := NewTierChain(t1, t2, t3)
	results := chain.Run(context.Background(), Query{Phrase: "p", Elements: registry.NewSnapshot(nil)})

	require.Len(t, results, 2)
	assert.Equal(t, "t1", results[0].Tier)
	assert.False(t, results[0].Hit)
	assert.Equal(t, "t2", results[1].Tier)
	assert.True(t, results[1].Hit)
	assert.Equal(t, "p", results[1].Detail)
	assert.Zero(t, t3.calls, "tiers after a hit must not run")
	assert.Equal(t, []string{"t1", "t2", "t3"}, chain.Names())
}

func TestTierChain_AllMiss(t *testing.T) {
	chain := NewTierChain(missTier("a"), missTier("b"))
	results := chain.Run(context.Background(), Query{})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Hit)
	}
}
