package oracle

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func (b *PromptBuilder) BuildLocatePrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("The image is a rendered math problem on a canvas of ")
	fmt.Fprintf(&sb, "%.0fx%.0f pixels (origin at the top-left corner).\n", req.Canvas.Width, req.Canvas.Height)
	fmt.Fprintf(&sb, "Locate: %q\n\n", strings.TrimSpace(req.Phrase))
	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"x": <left>, "y": <top>, "width": <width>, "height": <height>}` + "\n")
	sb.WriteString("Use canvas pixel units. The box must tightly cover the described part.\n")
	sb.WriteString(`If the described part is not visible, respond with {"found": false}.`)
	return sb.String()
}
