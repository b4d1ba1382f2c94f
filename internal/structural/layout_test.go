package structural

import (
	"testing"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/registry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canvas = element.CanvasDimensions{Width: 800, Height: 600}

func box(x, y, w, h float64) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

func snapshotOf(t *testing.T, pairs ...any) registry.Snapshot {
	t.Helper()
	r := registry.New()
	for i := 0; i < len(pairs); i += 2 {
		require.NoError(t, r.Register(pairs[i].(string), pairs[i+1].(geom.Rect)))
	}
	return r.Snapshot()
}

// 2x + 5 = 13
func linearEquation(t *testing.T, equalsAt geom.Rect) registry.Snapshot {
	return snapshotOf(t,
		"number_2", box(10, 50, 12, 20),
		"variable_x", box(24, 50, 12, 20),
		"operator_+", box(45, 50, 12, 20),
		"number_5", box(65, 50, 12, 20),
		"operator__", equalsAt,
		"number_13", box(130, 50, 24, 20),
	)
}

func TestMatch_LeftAndRightSide(t *testing.T) {
	snap := linearEquation(t, box(100, 50, 14, 20))
	m := NewMatcher(DefaultOptions())

	left, region, ok := m.Match("left side", snap, canvas)
	require.True(t, ok)
	assert.Equal(t, RegionLeftSide, region)
	assert.Equal(t, box(10, 50, 67, 20), left)

	right, _, ok := m.Match("the right-hand side of the equation", snap, canvas)
	require.True(t, ok)
	assert.Equal(t, box(130, 50, 24, 20), right)

	l := m.Analyze(snap, canvas)
	assert.Equal(t, SplitEquals, l.Split.Source)
	require.NotNil(t, l.Separator)
	assert.Equal(t, "operator__", l.Separator.ID.String())
}

func TestMatch_EmptyRegistryFallsBackToCanvas(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	left, _, ok := m.Match("left side", registry.NewSnapshot(nil), canvas)
	require.True(t, ok)
	assert.Equal(t, box(0, 0, 400, 600), left)

	right, _, ok := m.Match("right side", registry.NewSnapshot(nil), canvas)
	require.True(t, ok)
	assert.Equal(t, box(400, 0, 400, 600), right)
}

func TestMatch_NothingToMeasure(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	_, _, ok := m.Match("left side", registry.NewSnapshot(nil), element.CanvasDimensions{})
	assert.False(t, ok)
}

func TestAnalyze_EdgeSeparatorRepairedByGap(t *testing.T) {
	// The equals sign was detected at the far left, so it has nothing on that side.
	snap := linearEquation(t, box(0, 50, 5, 20))
	l := Analyze(snap, canvas, DefaultOptions())

	assert.Equal(t, SplitGap, l.Split.Source)
	assert.Equal(t, 77.0, l.Split.Left)
	assert.Equal(t, 130.0, l.Split.Right)
	assert.Equal(t, box(10, 50, 67, 20), l.LeftSide)
	assert.Equal(t, box(130, 50, 24, 20), l.RightSide)
}

func TestAnalyze_EdgeSeparatorWithoutGapUsesMidpoint(t *testing.T) {
	snap := snapshotOf(t,
		"number_1", box(0, 0, 10, 10),
		"number_2", box(12, 0, 10, 10),
		"operator__", box(30, 0, 10, 10),
	)
	l := Analyze(snap, canvas, DefaultOptions())
	assert.Equal(t, SplitMidpoint, l.Split.Source)
	assert.Equal(t, 20.0, l.Split.X())
}

func TestAnalyze_PrefersSeparatorWithMostLeftElements(t *testing.T) {
	snap := snapshotOf(t,
		"number_2", box(10, 50, 12, 20),
		"variable_x", box(24, 50, 12, 20),
		"operator__", box(100, 50, 14, 20),
		"number_13", box(130, 50, 24, 20),
	)
	// A second, spurious equals-shaped element from malformed rendering.
	spurious := registry.NewSnapshot(append(snap.Elements(), element.SemanticElement{
		ID:     element.ID{Category: element.CategoryOperator, Content: element.EqualsContent},
		Bounds: box(2, 50, 5, 20),
	}))
	sep, ok := chooseSeparator(spurious.Filter(func(e element.SemanticElement) bool { return e.ID.IsEquals() }), snap.Filter(func(e element.SemanticElement) bool { return !e.ID.IsEquals() }))
	require.True(t, ok)
	assert.Equal(t, 100.0, sep.Bounds.X)
}

func TestChooseSeparator_TieGoesRightmost(t *testing.T) {
	eq := func(x float64) element.SemanticElement {
		return element.SemanticElement{ID: element.ParseID("operator__"), Bounds: box(x, 0, 4, 4)}
	}
	others := []element.SemanticElement{
		{ID: element.ParseID("number_1"), Bounds: box(0, 0, 4, 4)},
		{ID: element.ParseID("number_2"), Bounds: box(50, 0, 4, 4)},
	}
	sep, ok := chooseSeparator([]element.SemanticElement{eq(20), eq(30)}, others)
	require.True(t, ok)
	assert.Equal(t, 30.0, sep.Bounds.X)
}

func TestAnalyze_RightSideWinsAmbiguousElement(t *testing.T) {
	// number_13 sits inside the tolerance band on both sides of a narrow split.
	opts := Options{MinGap: 10, Tolerance: 20}
	snap := snapshotOf(t,
		"number_2", box(10, 0, 10, 10),
		"operator__", box(40, 0, 4, 10),
		"number_13", box(46, 0, 10, 10),
	)
	l := Analyze(snap, canvas, opts)
	assert.Equal(t, box(10, 0, 10, 10), l.LeftSide)
	assert.Equal(t, box(46, 0, 10, 10), l.RightSide)
}

func TestAnalyze_NoSeparatorSplitsAtBasisMidpoint(t *testing.T) {
	snap := snapshotOf(t,
		"number_2", box(0, 0, 10, 10),
		"number_3", box(90, 0, 10, 10),
	)
	l := Analyze(snap, canvas, DefaultOptions())
	assert.Equal(t, SplitMidpoint, l.Split.Source)
	assert.Equal(t, box(0, 0, 10, 10), l.LeftSide)
	assert.Equal(t, box(90, 0, 10, 10), l.RightSide)
}

func TestAnalyze_OneSidedFallsBackToBasisSplit(t *testing.T) {
	snap := snapshotOf(t, "number_2", box(0, 0, 100, 10))
	l := Analyze(snap, canvas, DefaultOptions())
	assert.Equal(t, box(0, 0, 50, 10), l.LeftSide)
	assert.Equal(t, box(50, 0, 50, 10), l.RightSide)
}

func TestLayout_FixedProportions(t *testing.T) {
	snap := snapshotOf(t, "number_1", box(0, 0, 300, 90))
	l := Analyze(snap, canvas, DefaultOptions())

	want := map[Region]geom.Rect{
		RegionNumerator:   box(50, 0, 200, 30),
		RegionDenominator: box(50, 60, 200, 30),
		RegionFirstTerm:   box(0, 0, 100, 90),
		RegionSecondTerm:  box(100, 0, 100, 90),
		RegionThirdTerm:   box(200, 0, 100, 90),
		RegionTopHalf:     box(0, 0, 800, 300),
		RegionBottomHalf:  box(0, 300, 800, 300),
		RegionLeftHalf:    box(0, 0, 400, 600),
		RegionRightHalf:   box(400, 0, 400, 600),
		RegionWhole:       box(0, 0, 300, 90),
	}
	got := make(map[Region]geom.Rect, len(want))
	for r := range want {
		b, ok := l.Bounds(r)
		require.True(t, ok, r)
		got[r] = b
	}
	approx := cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("region bounds mismatch (-want +got):\n%s", diff)
	}

	_, ok := l.Bounds(Region("sideways"))
	assert.False(t, ok)
}

func TestParseRegion(t *testing.T) {
	tests := map[string]Region{
		"left side":                   RegionLeftSide,
		"The Left-Hand Side":          RegionLeftSide,
		"RHS":                         RegionRightSide,
		"the numerator":               RegionNumerator,
		"denominator of the fraction": RegionDenominator,
		"2nd term":                    RegionSecondTerm,
		"bottom half":                 RegionBottomHalf,
		"the whole equation":          RegionWhole,
	}
	for phrase, want := range tests {
		got, ok := ParseRegion(phrase)
		require.True(t, ok, phrase)
		assert.Equal(t, want, got, phrase)
	}
	_, ok := ParseRegion("banana")
	assert.False(t, ok)
}
