package resolver

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/oracle"
	"mathmark/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingOracle struct {
	box   *geom.Rect
	calls int
}

func (o *countingOracle) Name() string { return "counting" }

func (o *countingOracle) Locate(context.Context, oracle.Request) (*geom.Rect, error) {
	o.calls++
	return o.box, nil
}

func box(x, y, w, h float64) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

func pngBase64(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newEquationResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	reg := registry.New()
	for id, b := range map[string]geom.Rect{
		"number_2":   box(10, 50, 12, 20),
		"variable_x": box(24, 50, 12, 20),
		"operator_+": box(45, 50, 12, 20),
		"number_5":   box(65, 50, 12, 20),
		"operator__": box(100, 50, 14, 20),
		"number_13":  box(130, 50, 24, 20),
	} {
		require.NoError(t, reg.Register(id, b))
	}
	return New(reg, opts...)
}

func TestResolve_SimpleLookup(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("number_5", box(10, 10, 20, 20)))
	r := New(reg)

	a, ok := r.Resolve(context.Background(), "5")
	require.True(t, ok)
	assert.Equal(t, box(10, 10, 20, 20), a.Bounds)
	assert.Equal(t, "symbolic", a.Tier)
}

func TestResolve_FullMissWithoutSnapshotSkipsOracle(t *testing.T) {
	o := &countingOracle{box: &geom.Rect{Width: 5, Height: 5}}
	r := New(registry.New(), WithLocator(oracle.NewLocator(o, nil, nil)))

	_, ok := r.Resolve(context.Background(), "banana")
	assert.False(t, ok)
	assert.Zero(t, o.calls)
}

func TestResolve_ClearedRegistryMisses(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("number_5", box(10, 10, 20, 20)))
	r := New(reg)
	reg.Clear()

	_, ok := r.Resolve(context.Background(), "number_5")
	assert.False(t, ok)
}

func TestResolve_Idempotent(t *testing.T) {
	o := &countingOracle{box: &geom.Rect{X: 300, Y: 300, Width: 40, Height: 40}}
	r := newEquationResolver(t, WithLocator(oracle.NewLocator(o, nil, nil)))
	require.NoError(t, r.SetCanvasSnapshot(pngBase64(t)))

	for _, phrase := range []string{"2x", "left side", "the little arrow"} {
		first, ok1 := r.Resolve(context.Background(), phrase)
		second, ok2 := r.Resolve(context.Background(), phrase)
		assert.Equal(t, ok1, ok2, phrase)
		assert.Equal(t, first, second, phrase)
	}
	assert.Equal(t, 1, o.calls, "oracle answers are cached")
}

func TestResolve_TierOrder(t *testing.T) {
	o := &countingOracle{box: &geom.Rect{X: 300, Y: 300, Width: 40, Height: 40}}
	r := newEquationResolver(t, WithLocator(oracle.NewLocator(o, nil, nil)))
	require.NoError(t, r.SetCanvasSnapshot(pngBase64(t)))

	a, ok := r.Resolve(context.Background(), "equals sign")
	require.True(t, ok)
	assert.Equal(t, "symbolic", a.Tier)
	assert.Equal(t, box(100, 50, 14, 20), a.Bounds)

	a, ok = r.Resolve(context.Background(), "left side")
	require.True(t, ok)
	assert.Equal(t, "structural", a.Tier)
	assert.Equal(t, box(10, 50, 67, 20), a.Bounds)

	a, ok = r.Resolve(context.Background(), "right side")
	require.True(t, ok)
	assert.Equal(t, box(130, 50, 24, 20), a.Bounds)

	a, ok = r.Resolve(context.Background(), "the little arrow")
	require.True(t, ok)
	assert.Equal(t, "oracle", a.Tier)
	assert.Equal(t, box(300, 300, 40, 40), a.Bounds)
	assert.Equal(t, 1, o.calls)
}

func TestResolve_SideOfEqualsSignIsStructural(t *testing.T) {
	r := newEquationResolver(t)

	a, ok := r.Resolve(context.Background(), "right side of the equals sign")
	require.True(t, ok)
	assert.Equal(t, "structural", a.Tier)
	assert.Equal(t, "right_side", a.Detail)
	assert.Equal(t, box(130, 50, 24, 20), a.Bounds)

	a, ok = r.Resolve(context.Background(), "the left side of the equals sign")
	require.True(t, ok)
	assert.Equal(t, "structural", a.Tier)
	assert.Equal(t, "left_side", a.Detail)
	assert.Equal(t, box(10, 50, 67, 20), a.Bounds)
}

func TestResolve_CompoundNeverHalf(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("number_2", box(10, 10, 12, 20)))
	r := New(reg)
	_, ok := r.Resolve(context.Background(), "2x")
	assert.False(t, ok)
}

func TestResolve_CanvasFallback(t *testing.T) {
	r := New(registry.New())
	r.UpdateCanvasDimensions(1000, 500)

	a, ok := r.Resolve(context.Background(), "left side")
	require.True(t, ok)
	assert.Equal(t, box(0, 0, 500, 500), a.Bounds)
	assert.Equal(t, element.CanvasDimensions{Width: 1000, Height: 500}, r.Canvas())
}

func TestResolve_OracleClamped(t *testing.T) {
	o := &countingOracle{box: &geom.Rect{X: -5, Y: 0, Width: 850, Height: 10}}
	r := New(registry.New(), WithLocator(oracle.NewLocator(o, nil, nil)))

	a, ok := r.ResolveWithSnapshot(context.Background(), "the long bar", pngBase64(t))
	require.True(t, ok)
	assert.Equal(t, 0.0, a.Bounds.X)
	assert.LessOrEqual(t, a.Bounds.Width, 800.0)
	assert.False(t, r.HasSnapshot(), "per-call snapshots are not stored")
}

func TestResolve_UnreadableSnapshotDisablesOracle(t *testing.T) {
	o := &countingOracle{box: &geom.Rect{Width: 5, Height: 5}}
	r := New(registry.New(), WithLocator(oracle.NewLocator(o, nil, nil)))
	_, ok := r.ResolveWithSnapshot(context.Background(), "anything", "not an image")
	assert.False(t, ok)
	assert.Zero(t, o.calls)
}

func TestSetCanvasSnapshot(t *testing.T) {
	r := New(registry.New())
	require.NoError(t, r.SetCanvasSnapshot(pngBase64(t)))
	assert.True(t, r.HasSnapshot())

	err := r.SetCanvasSnapshot("garbage")
	assert.ErrorIs(t, err, oracle.ErrInvalidSnapshot)
	assert.True(t, r.HasSnapshot(), "previous snapshot survives a bad update")

	require.NoError(t, r.SetCanvasSnapshot(""))
	assert.False(t, r.HasSnapshot())
}

func TestTrace(t *testing.T) {
	r := newEquationResolver(t)
	stages := r.Trace(context.Background(), "numerator")
	require.Len(t, stages, 2)
	assert.Equal(t, "symbolic", stages[0].Tier)
	assert.False(t, stages[0].Hit)
	assert.Equal(t, "structural", stages[1].Tier)
	assert.Equal(t, "numerator", stages[1].Detail)
}
