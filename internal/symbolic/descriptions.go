package symbolic

import (
	"mathmark/internal/element"
	"mathmark/internal/registry"
)

// description maps a spoken name to the elements it can denote. With no
// contents any element of the category matches.
type description struct {
	phrases  []string
	category element.Category
	contents []string
}

var descriptions = []description{
	{phrases: []string{"equals sign", "equal sign", "equals symbol", "equal to", "equals", "equal"}, category: element.CategoryOperator, contents: []string{element.EqualsContent}},
	{phrases: []string{"plus sign", "addition sign", "plus"}, category: element.CategoryOperator, contents: []string{"+"}},
	{phrases: []string{"minus sign", "subtraction sign", "negative sign", "minus"}, category: element.CategoryOperator, contents: []string{"-", "−"}},
	{phrases: []string{"multiplication sign", "times sign", "times"}, category: element.CategoryOperator, contents: []string{"×", "*", "·"}},
	{phrases: []string{"division sign", "divided by", "division"}, category: element.CategoryOperator, contents: []string{"÷", "/"}},
	{phrases: []string{"question mark"}, category: element.CategoryQuestion},
	{phrases: []string{"percent sign", "percentage", "percent"}, category: element.CategoryPercentage},
	{phrases: []string{"variable", "unknown"}, category: element.CategoryVariable},
	{phrases: []string{"operator"}, category: element.CategoryOperator},
	{phrases: []string{"number"}, category: element.CategoryNumber},
	{phrases: []string{"name", "label"}, category: element.CategoryName},
}

var phraseIndex = buildPhraseIndex()

func buildPhraseIndex() map[string]*description {
	out := make(map[string]*description)
	for i := range descriptions {
		for _, p := range descriptions[i].phrases {
			out[p] = &descriptions[i]
		}
	}
	return out
}

// lookupDescription needs the whole normalized phrase to be a table name.
// Longer phrases such as "right side of the equals sign" name a region, not
// the symbol itself.
func lookupDescription(phrase string) (*description, bool) {
	d, ok := phraseIndex[phrase]
	return d, ok
}

// find resolves the description by exact id. The equals sign is only ever
// operator__, never a prefix scan over operator_.
func (d *description) find(snap registry.Snapshot) (element.SemanticElement, bool) {
	if len(d.contents) == 0 {
		for _, e := range snap.Elements() {
			if e.ID.Category == d.category {
				return e, true
			}
		}
		return element.SemanticElement{}, false
	}
	for _, c := range d.contents {
		if e, ok := snap.Lookup(element.NewID(d.category, c).String()); ok {
			return e, true
		}
	}
	return element.SemanticElement{}, false
}
