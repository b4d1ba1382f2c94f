package structural

import (
	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/registry"
)

type Matcher struct {
	opts Options
}

func NewMatcher(opts Options) *Matcher {
	if opts.MinGap <= 0 {
		opts.MinGap = DefaultOptions().MinGap
	}
	if opts.Tolerance < 0 {
		opts.Tolerance = 0
	}
	return &Matcher{opts: opts}
}

// Match resolves a structural phrase. The layout is only computed once the
// phrase names a known region.
func (m *Matcher) Match(phrase string, snap registry.Snapshot, canvas element.CanvasDimensions) (geom.Rect, Region, bool) {
	region, ok := ParseRegion(phrase)
	if !ok {
		return geom.Rect{}, "", false
	}
	r, ok := Analyze(snap, canvas, m.opts).Bounds(region)
	if !ok {
		return geom.Rect{}, "", false
	}
	return r, region, true
}

func (m *Matcher) Analyze(snap registry.Snapshot, canvas element.CanvasDimensions) Layout {
	return Analyze(snap, canvas, m.opts)
}
