package registry

import (
	"mathmark/internal/element"
	"mathmark/internal/geom"
)

// Snapshot is a read-only, insertion-ordered view of a registry.
type Snapshot struct {
	elements []element.SemanticElement
	index    map[string]int
	bounds   *element.ProblemBounds
}

func NewSnapshot(elements []element.SemanticElement) Snapshot {
	idx := make(map[string]int, len(elements))
	for i, e := range elements {
		idx[e.ID.String()] = i
	}
	return Snapshot{elements: elements, index: idx}
}

func (s Snapshot) Len() int { return len(s.elements) }

// Elements returns the elements in insertion order. Callers must not modify it.
func (s Snapshot) Elements() []element.SemanticElement { return s.elements }

func (s Snapshot) Lookup(id string) (element.SemanticElement, bool) {
	i, ok := s.index[id]
	if !ok {
		return element.SemanticElement{}, false
	}
	return s.elements[i], true
}

// Filter returns the elements for which keep is true, in insertion order.
func (s Snapshot) Filter(keep func(element.SemanticElement) bool) []element.SemanticElement {
	var out []element.SemanticElement
	for _, e := range s.elements {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// UnionBounds returns the problem bounds captured from the registry, or the
// union of the elements for snapshots built with NewSnapshot.
func (s Snapshot) UnionBounds() (element.ProblemBounds, bool) {
	if s.bounds != nil {
		return *s.bounds, true
	}
	u, ok := geom.Union(Rects(s.elements)...)
	if !ok {
		return element.ProblemBounds{}, false
	}
	return element.ProblemBoundsOf(u), true
}

func Rects(elems []element.SemanticElement) []geom.Rect {
	out := make([]geom.Rect, len(elems))
	for i, e := range elems {
		out[i] = e.Bounds
	}
	return out
}
