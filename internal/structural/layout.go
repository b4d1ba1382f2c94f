package structural

import (
	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/registry"
	"mathmark/internal/symbolic"
)

// Options tunes the split heuristics, in canvas pixels.
type Options struct {
	MinGap    float64 `yaml:"min_gap"`
	Tolerance float64 `yaml:"tolerance"`
}

func DefaultOptions() Options {
	return Options{MinGap: 10, Tolerance: 2}
}

// SplitSource records how the left/right split was established.
type SplitSource string

const (
	SplitEquals   SplitSource = "equals"
	SplitGap      SplitSource = "gap"
	SplitMidpoint SplitSource = "midpoint"
)

// Split is the vertical band separating the two sides of an equation.
type Split struct {
	Left   float64     `json:"left"`
	Right  float64     `json:"right"`
	Source SplitSource `json:"source"`
}

func (s Split) X() float64 { return (s.Left + s.Right) / 2 }

// Layout is the structural reading of one registry snapshot.
type Layout struct {
	Canvas    element.CanvasDimensions `json:"canvas"`
	Basis     geom.Rect                `json:"basis"`
	Elements  int                      `json:"elements"`
	Separator *element.SemanticElement `json:"-"`
	Split     Split                    `json:"split"`
	LeftSide  geom.Rect                `json:"left_side"`
	RightSide geom.Rect                `json:"right_side"`
}

// Analyze derives the split and both sides. Tier 2 is tuned for single-line
// linear equations; anything else gets a best-effort reading.
func Analyze(snap registry.Snapshot, canvas element.CanvasDimensions, opts Options) Layout {
	l := Layout{Canvas: canvas, Basis: canvas.Rect(), Elements: snap.Len()}
	if pb, ok := snap.UnionBounds(); ok {
		l.Basis = pb.Rect()
	}

	var others []element.SemanticElement
	for _, e := range snap.Elements() {
		if !e.ID.IsEquals() {
			others = append(others, e)
		}
	}

	l.Split = Split{Left: l.Basis.CenterX(), Right: l.Basis.CenterX(), Source: SplitMidpoint}
	if sep, ok := chooseSeparator(symbolic.FindEquals(snap), others); ok {
		l.Separator = &sep
		l.Split = Split{Left: sep.Bounds.X, Right: sep.Bounds.Right(), Source: SplitEquals}
		if countLeft(others, l.Split, opts) == 0 || countRight(others, l.Split, opts) == 0 {
			l.Split = repairSplit(others, l.Basis, opts)
		}
	}

	left, right := partition(others, l.Split, opts)
	lu, lok := geom.Union(registry.Rects(left)...)
	ru, rok := geom.Union(registry.Rects(right)...)
	if lok && rok {
		l.LeftSide, l.RightSide = lu, ru
	} else {
		l.LeftSide, l.RightSide = geom.SplitAt(l.Basis, l.Split.X())
	}
	return l
}

// chooseSeparator prefers the equals sign with the most elements to its left,
// then the rightmost one.
func chooseSeparator(seps, others []element.SemanticElement) (element.SemanticElement, bool) {
	if len(seps) == 0 {
		return element.SemanticElement{}, false
	}
	best, bestCount := seps[0], leftOfCenter(others, seps[0].Bounds.X)
	for _, s := range seps[1:] {
		n := leftOfCenter(others, s.Bounds.X)
		if n > bestCount || (n == bestCount && s.Bounds.X > best.Bounds.X) {
			best, bestCount = s, n
		}
	}
	return best, true
}

func leftOfCenter(elems []element.SemanticElement, x float64) int {
	n := 0
	for _, e := range elems {
		if e.Bounds.CenterX() < x {
			n++
		}
	}
	return n
}

// repairSplit replaces an edge-hugging separator with the widest gap between
// elements, or the basis midpoint when there is none.
func repairSplit(others []element.SemanticElement, basis geom.Rect, opts Options) Split {
	if g, ok := geom.WidestGap(registry.Rects(others), opts.MinGap); ok {
		return Split{Left: g.Start, Right: g.End, Source: SplitGap}
	}
	return Split{Left: basis.CenterX(), Right: basis.CenterX(), Source: SplitMidpoint}
}

func isLeft(e element.SemanticElement, s Split, opts Options) bool {
	return e.Bounds.Right() <= s.Left+opts.Tolerance
}

func isRight(e element.SemanticElement, s Split, opts Options) bool {
	return e.Bounds.X >= s.Right-opts.Tolerance
}

func countLeft(elems []element.SemanticElement, s Split, opts Options) int {
	n := 0
	for _, e := range elems {
		if isLeft(e, s, opts) {
			n++
		}
	}
	return n
}

func countRight(elems []element.SemanticElement, s Split, opts Options) int {
	n := 0
	for _, e := range elems {
		if isRight(e, s, opts) {
			n++
		}
	}
	return n
}

// partition assigns elements to each side. An element that qualifies for
// the right side is never counted on the left.
func partition(elems []element.SemanticElement, s Split, opts Options) (left, right []element.SemanticElement) {
	for _, e := range elems {
		switch {
		case isRight(e, s, opts):
			right = append(right, e)
		case isLeft(e, s, opts):
			left = append(left, e)
		}
	}
	return left, right
}

// Bounds returns the box for a region. Fraction, term and half regions are
// fixed proportions of the basis or canvas, not derived from content.
func (l Layout) Bounds(r Region) (geom.Rect, bool) {
	canvas := l.Canvas.Rect()
	var out geom.Rect
	switch r {
	case RegionLeftSide:
		out = l.LeftSide
	case RegionRightSide:
		out = l.RightSide
	case RegionNumerator:
		out = geom.Fraction(l.Basis, 1.0/6, 0, 2.0/3, 1.0/3)
	case RegionDenominator:
		out = geom.Fraction(l.Basis, 1.0/6, 2.0/3, 2.0/3, 1.0/3)
	case RegionFirstTerm:
		out = geom.Fraction(l.Basis, 0, 0, 1.0/3, 1)
	case RegionSecondTerm:
		out = geom.Fraction(l.Basis, 1.0/3, 0, 1.0/3, 1)
	case RegionThirdTerm:
		out = geom.Fraction(l.Basis, 2.0/3, 0, 1.0/3, 1)
	case RegionTopHalf:
		out = geom.Fraction(canvas, 0, 0, 1, 0.5)
	case RegionBottomHalf:
		out = geom.Fraction(canvas, 0, 0.5, 1, 0.5)
	case RegionLeftHalf:
		out = geom.Fraction(canvas, 0, 0, 0.5, 1)
	case RegionRightHalf:
		out = geom.Fraction(canvas, 0.5, 0, 0.5, 1)
	case RegionWhole:
		out = l.Basis
	default:
		return geom.Rect{}, false
	}
	if out.Width <= 0 && out.Height <= 0 {
		return geom.Rect{}, false
	}
	return out, true
}
