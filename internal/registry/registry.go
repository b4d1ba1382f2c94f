package registry

import (
	"errors"
	"fmt"
	"sync"

	"mathmark/internal/element"
	"mathmark/internal/geom"
)

var ErrInvalidBounds = errors.New("invalid element bounds")

// Registry holds the semantic elements of the active problem. It must be
// cleared whenever the problem changes.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]element.SemanticElement
	bounds *element.ProblemBounds
}

func New() *Registry {
	return &Registry{byID: make(map[string]element.SemanticElement)}
}

// Register inserts or overwrites an element. An overwritten id keeps its
// original insertion position.
func (r *Registry) Register(id string, bounds geom.Rect) error {
	if err := validate(id, bounds); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(element.SemanticElement{ID: element.ParseID(id), Bounds: bounds})
	return nil
}

// RegisterMany applies a batch atomically: if any entry is invalid nothing is
// registered.
func (r *Registry) RegisterMany(elements []element.SemanticElement) error {
	for _, e := range elements {
		if err := validate(e.ID.String(), e.Bounds); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range elements {
		r.put(e)
	}
	return nil
}

func (r *Registry) put(e element.SemanticElement) {
	key := e.ID.String()
	if _, exists := r.byID[key]; !exists {
		r.order = append(r.order, key)
	}
	r.byID[key] = e
	r.bounds = nil
}

func validate(id string, b geom.Rect) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBounds)
	}
	if !b.Valid() {
		return fmt.Errorf("%w: %s %+v", ErrInvalidBounds, id, b)
	}
	return nil
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.byID = make(map[string]element.SemanticElement)
	r.bounds = nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// ComputeUnionBounds recomputes the problem bounds. ok is false when the
// registry is empty.
func (r *Registry) ComputeUnionBounds() (element.ProblemBounds, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds = nil
	return r.problemBoundsLocked()
}

// ProblemBounds returns the cached union, computing it if a mutation
// invalidated it.
func (r *Registry) ProblemBounds() (element.ProblemBounds, bool) {
	r.mu.RLock()
	cached := r.bounds
	r.mu.RUnlock()
	if cached != nil {
		return *cached, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.problemBoundsLocked()
}

// problemBoundsLocked fills the cache if needed. Callers hold the write lock.
func (r *Registry) problemBoundsLocked() (element.ProblemBounds, bool) {
	if r.bounds != nil {
		return *r.bounds, true
	}
	rects := make([]geom.Rect, 0, len(r.order))
	for _, key := range r.order {
		rects = append(rects, r.byID[key].Bounds)
	}
	u, ok := geom.Union(rects...)
	if !ok {
		return element.ProblemBounds{}, false
	}
	pb := element.ProblemBoundsOf(u)
	r.bounds = &pb
	return pb, true
}

// Snapshot copies the current elements in insertion order together with the
// registry's problem bounds.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	elems := make([]element.SemanticElement, 0, len(r.order))
	for _, key := range r.order {
		elems = append(elems, r.byID[key])
	}
	snap := NewSnapshot(elems)
	if pb, ok := r.problemBoundsLocked(); ok {
		snap.bounds = &pb
	}
	return snap
}
