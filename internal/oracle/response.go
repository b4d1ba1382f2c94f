package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"mathmark/internal/geom"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const locationSchemaJSON = `{
	"type": "object",
	"required": ["x", "y", "width", "height"],
	"properties": {
		"x": {"type": "number"},
		"y": {"type": "number"},
		"width": {"type": "number", "exclusiveMinimum": 0},
		"height": {"type": "number", "exclusiveMinimum": 0}
	}
}`

var locationSchema = jsonschema.MustCompileString("mathmark://oracle/location.json", locationSchemaJSON)

// ParseLocation reads an oracle reply. It returns nil, nil for an explicit
// not-found answer and ErrMalformedResponse for anything unusable.
func ParseLocation(text string) (*geom.Rect, error) {
	t := cleanJSONOutput(text)
	if t == "" || strings.EqualFold(t, "null") {
		return nil, nil
	}

	start, end := strings.Index(t, "{"), strings.LastIndex(t, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformedResponse, truncate(t, 80))
	}

	var doc any
	if err := json.Unmarshal([]byte(t[start:end+1]), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedResponse)
	}
	if found, ok := obj["found"].(bool); ok && !found {
		return nil, nil
	}
	if nested, ok := obj["bounds"].(map[string]any); ok {
		obj = nested
	}
	if err := locationSchema.Validate(obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	r := geom.Rect{
		X:      obj["x"].(float64),
		Y:      obj["y"].(float64),
		Width:  obj["width"].(float64),
		Height: obj["height"].(float64),
	}
	return &r, nil
}

func cleanJSONOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
