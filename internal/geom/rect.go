package geom

import (
	"math"
	"sort"
)

// Rect is an axis-aligned box in canvas pixel space, top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// Valid reports whether every field is finite and the size is non-negative.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Union returns the tightest box covering all rects. ok is false for an empty input.
func Union(rects ...Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Clamp pulls r inside a w×h surface. Sizes shrink rather than go negative.
func Clamp(r Rect, w, h float64) Rect {
	out := r
	out.X = clampRange(out.X, 0, w)
	out.Y = clampRange(out.Y, 0, h)
	out.Width = clampRange(out.Width, 0, w-out.X)
	out.Height = clampRange(out.Height, 0, h-out.Y)
	return out
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// Fraction returns the sub-box of r starting at the fractional offsets (fx, fy)
// with fractional size (fw, fh).
func Fraction(r Rect, fx, fy, fw, fh float64) Rect {
	return Rect{
		X:      r.X + r.Width*fx,
		Y:      r.Y + r.Height*fy,
		Width:  r.Width * fw,
		Height: r.Height * fh,
	}
}

// SplitAt cuts r vertically at x, clamped into r's horizontal extent.
func SplitAt(r Rect, x float64) (left, right Rect) {
	x = clampRange(x, r.X, r.Right())
	left = Rect{X: r.X, Y: r.Y, Width: x - r.X, Height: r.Height}
	right = Rect{X: x, Y: r.Y, Width: r.Right() - x, Height: r.Height}
	return left, right
}

// Gap is an empty horizontal band between two runs of boxes.
type Gap struct {
	Start float64 // right edge of the run before the gap
	End   float64 // left edge of the first box after the gap
}

func (g Gap) Width() float64 { return g.End - g.Start }
func (g Gap) Mid() float64   { return (g.Start + g.End) / 2 }

// WidestGap sorts boxes by X and returns the widest horizontal gap strictly
// greater than minWidth. Overlapping boxes are merged into one run, so every
// returned gap has at least one box on each side.
func WidestGap(rects []Rect, minWidth float64) (Gap, bool) {
	if len(rects) < 2 {
		return Gap{}, false
	}
	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var best Gap
	found := false
	runRight := sorted[0].Right()
	for _, r := range sorted[1:] {
		if g := (Gap{Start: runRight, End: r.X}); g.Width() > minWidth && (!found || g.Width() > best.Width()) {
			best = g
			found = true
		}
		runRight = math.Max(runRight, r.Right())
	}
	return best, found
}
