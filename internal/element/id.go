package element

import (
	"strings"
)

// Category is the kind of rendered symbol an element represents.
type Category string

const (
	CategoryNumber     Category = "number"
	CategoryVariable   Category = "variable"
	CategoryOperator   Category = "operator"
	CategoryName       Category = "name"
	CategoryPercentage Category = "percentage"
	CategoryQuestion   Category = "question"
)

var knownCategories = map[Category]bool{
	CategoryNumber:     true,
	CategoryVariable:   true,
	CategoryOperator:   true,
	CategoryName:       true,
	CategoryPercentage: true,
	CategoryQuestion:   true,
}

func (c Category) Known() bool { return knownCategories[c] }

// EqualsContent is the content of the equals-sign operator.
const EqualsContent = "="

// ID identifies a rendered element. Ids outside the <category>_<content>
// convention keep only Raw.
type ID struct {
	Category Category
	Content  string
	Raw      string
}

// NewID builds an id from a category and the literal rendered symbol.
func NewID(c Category, content string) ID {
	return ID{Category: c, Content: content}
}

// encodedEquals is how the renderer writes a content of "=".
const encodedEquals = "_"

// ParseID decodes "<category>_<content>". Only the first underscore separates
// the category. A content of exactly "_" is the encoded "="; any other
// underscore is literal, so name_total_cost has content "total_cost".
func ParseID(s string) ID {
	cat, rest, ok := strings.Cut(s, "_")
	if !ok || !Category(cat).Known() {
		return ID{Raw: s}
	}
	if rest == encodedEquals {
		rest = EqualsContent
	}
	return ID{Category: Category(cat), Content: rest}
}

// String encodes the id in the renderer's wire form.
func (id ID) String() string {
	if id.Category == "" {
		return id.Raw
	}
	content := id.Content
	if content == EqualsContent {
		content = encodedEquals
	}
	return string(id.Category) + "_" + content
}

// IsEquals reports whether the id is the equals-sign operator (operator__).
func (id ID) IsEquals() bool {
	return id.Category == CategoryOperator && id.Content == EqualsContent
}

// Segment is the trailing content used for content matching. For ids outside
// the convention it is everything after the first underscore.
func (id ID) Segment() string {
	if id.Category != "" {
		return id.Content
	}
	if _, rest, ok := strings.Cut(id.Raw, "_"); ok {
		return rest
	}
	return id.Raw
}
