package element

import (
	"mathmark/internal/geom"
)

// SemanticElement is one rendered piece of an expression and its screen box.
type SemanticElement struct {
	ID     ID
	Bounds geom.Rect
}

// Wire is the renderer's JSON shape for an element.
type Wire struct {
	ID     string    `json:"id"`
	Bounds geom.Rect `json:"bounds"`
}

func (e SemanticElement) Wire() Wire {
	return Wire{ID: e.ID.String(), Bounds: e.Bounds}
}

func FromWire(w Wire) SemanticElement {
	return SemanticElement{ID: ParseID(w.ID), Bounds: w.Bounds}
}

// ProblemBounds is the union box of every registered element.
type ProblemBounds struct {
	MinX   float64 `json:"min_x"`
	MaxX   float64 `json:"max_x"`
	MinY   float64 `json:"min_y"`
	MaxY   float64 `json:"max_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func ProblemBoundsOf(r geom.Rect) ProblemBounds {
	return ProblemBounds{
		MinX:   r.X,
		MaxX:   r.Right(),
		MinY:   r.Y,
		MaxY:   r.Bottom(),
		Width:  r.Width,
		Height: r.Height,
	}
}

func (p ProblemBounds) Rect() geom.Rect {
	return geom.Rect{X: p.MinX, Y: p.MinY, Width: p.Width, Height: p.Height}
}

// CanvasDimensions is the size of the rendering surface.
type CanvasDimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (c CanvasDimensions) Rect() geom.Rect {
	return geom.Rect{Width: c.Width, Height: c.Height}
}
