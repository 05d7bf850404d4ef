package output

import (
	"bytes"
	"fmt"
	"html/template"
)

type interactivePage struct {
	Title   string
	Tree    *Component
	TierCSS template.CSS
}

// RenderInteractivePage wraps a component tree in an HTML page that draws
// it in the browser. Section toggles are client-side only and charts are
// drawn with Mermaid.
func RenderInteractivePage(tree *Component) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("render interactive page: nil component tree")
	}
	title, _ := tree.Props["title"].(string)
	page := interactivePage{
		Title:   title,
		Tree:    tree,
		TierCSS: template.CSS(TierCSS()),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "interactive.html.tmpl", page); err != nil {
		return "", fmt.Errorf("render interactive page: %w", err)
	}
	return buf.String(), nil
}
