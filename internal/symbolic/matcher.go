package symbolic

import (
	"math"
	"sort"
	"strings"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/registry"
)

// Strategy is one symbolic lookup. Match receives a normalized phrase.
type Strategy struct {
	Name  string
	Match func(phrase string, snap registry.Snapshot) (geom.Rect, bool)
}

// Matcher runs its strategies in order and stops at the first hit.
type Matcher struct {
	strategies []Strategy
}

func NewMatcher(strategies ...Strategy) *Matcher {
	return &Matcher{strategies: strategies}
}

// NewDefaultMatcher orders strategies from most to least specific.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(
		Strategy{Name: "exact_id", Match: matchExactID},
		Strategy{Name: "compound", Match: matchCompound},
		Strategy{Name: "content", Match: matchContent},
		Strategy{Name: "description", Match: matchDescription},
		Strategy{Name: "fuzzy", Match: matchFuzzy},
	)
}

func (m *Matcher) Strategies() []string {
	names := make([]string, len(m.strategies))
	for i, s := range m.strategies {
		names[i] = s.Name
	}
	return names
}

// Match returns the bounds and the name of the strategy that produced them.
func (m *Matcher) Match(phrase string, snap registry.Snapshot) (geom.Rect, string, bool) {
	p := Normalize(phrase)
	if p == "" || snap.Len() == 0 {
		return geom.Rect{}, "", false
	}
	for _, s := range m.strategies {
		if r, ok := s.Match(p, snap); ok {
			return r, s.Name, true
		}
	}
	return geom.Rect{}, "", false
}

func matchExactID(phrase string, snap registry.Snapshot) (geom.Rect, bool) {
	if e, ok := lookupID(snap, phrase); ok {
		return e.Bounds, true
	}
	if e, ok := lookupID(snap, strings.ReplaceAll(phrase, " ", "_")); ok {
		return e.Bounds, true
	}
	return geom.Rect{}, false
}

// matchCompound needs both halves of "<digits><letter>"; half a compound is a miss.
func matchCompound(phrase string, snap registry.Snapshot) (geom.Rect, bool) {
	digits, letter, ok := splitCompound(phrase)
	if !ok {
		return geom.Rect{}, false
	}
	num, ok := FindElement(snap, element.CategoryNumber, digits)
	if !ok {
		return geom.Rect{}, false
	}
	v, ok := FindElement(snap, element.CategoryVariable, letter)
	if !ok {
		return geom.Rect{}, false
	}
	return compoundBox(num.Bounds, v.Bounds), true
}

func compoundBox(a, b geom.Rect) geom.Rect {
	left := math.Min(a.X, b.X)
	return geom.Rect{
		X:      left,
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Max(a.Right(), b.Right()) - left,
		Height: math.Max(a.Height, b.Height),
	}
}

func matchContent(phrase string, snap registry.Snapshot) (geom.Rect, bool) {
	if e, ok := FindByContent(snap, phrase, ""); ok {
		return e.Bounds, true
	}
	// "2x" must not degrade to the bare coefficient.
	if _, _, compound := splitCompound(phrase); compound {
		return geom.Rect{}, false
	}
	if n, ok := largestNumber(phrase); ok {
		if e, ok := FindByContent(snap, n, element.CategoryNumber); ok {
			return e.Bounds, true
		}
	}
	return geom.Rect{}, false
}

func matchDescription(phrase string, snap registry.Snapshot) (geom.Rect, bool) {
	d, ok := lookupDescription(phrase)
	if !ok {
		return geom.Rect{}, false
	}
	if e, ok := d.find(snap); ok {
		return e.Bounds, true
	}
	return geom.Rect{}, false
}

// matchFuzzy tests substring containment in both directions. Ties go to the
// shortest id, then the leftmost element, then insertion order.
func matchFuzzy(phrase string, snap registry.Snapshot) (geom.Rect, bool) {
	var hits []element.SemanticElement
	for _, e := range snap.Elements() {
		id := strings.ToLower(e.ID.String())
		spaced := strings.ReplaceAll(id, "_", " ")
		if strings.Contains(phrase, id) || strings.Contains(id, phrase) ||
			strings.Contains(phrase, spaced) || strings.Contains(spaced, phrase) {
			hits = append(hits, e)
		}
	}
	if len(hits) == 0 {
		return geom.Rect{}, false
	}
	sort.SliceStable(hits, func(i, j int) bool {
		li, lj := len(hits[i].ID.String()), len(hits[j].ID.String())
		if li != lj {
			return li < lj
		}
		return hits[i].Bounds.X < hits[j].Bounds.X
	})
	return hits[0].Bounds, true
}
