package symbolic

import (
	"strings"

	"mathmark/internal/element"
	"mathmark/internal/registry"
)

// FindByContent returns the first element whose content segment equals text,
// exactly or in loose form. A non-empty preferred category restricts the
// search; nothing outside it is considered.
func FindByContent(snap registry.Snapshot, text string, preferred element.Category) (element.SemanticElement, bool) {
	if text == "" {
		return element.SemanticElement{}, false
	}
	loose := looseForm(text)
	for _, e := range snap.Elements() {
		if preferred != "" && e.ID.Category != preferred {
			continue
		}
		seg := e.ID.Segment()
		if seg == text || looseForm(seg) == loose {
			return e, true
		}
	}
	return element.SemanticElement{}, false
}

// FindElement looks up an element of a category by exact id first, then by
// content scoped to the same category.
func FindElement(snap registry.Snapshot, c element.Category, content string) (element.SemanticElement, bool) {
	if e, ok := snap.Lookup(element.NewID(c, content).String()); ok {
		return e, true
	}
	return FindByContent(snap, content, c)
}

func lookupID(snap registry.Snapshot, key string) (element.SemanticElement, bool) {
	if e, ok := snap.Lookup(key); ok {
		return e, true
	}
	for _, e := range snap.Elements() {
		if strings.EqualFold(e.ID.String(), key) {
			return e, true
		}
	}
	return element.SemanticElement{}, false
}

// FindEquals returns every equals-sign element in insertion order.
func FindEquals(snap registry.Snapshot) []element.SemanticElement {
	return snap.Filter(func(e element.SemanticElement) bool { return e.ID.IsEquals() })
}
