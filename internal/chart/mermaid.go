package chart

import (
	"fmt"
	"strings"

	"github.com/featrix/modelcard/internal/format"
)

// Mermaid renders a series as a Mermaid diagram: a pie chart for Pie series
// and an xychart-beta bar chart for Bar series. Point order is preserved.
// An empty series renders as "".
func Mermaid(s Series) string {
	if s.Empty() {
		return ""
	}
	if s.Kind == Pie {
		return mermaidPie(s)
	}
	return mermaidBar(s)
}

func mermaidPie(s Series) string {
	var sb strings.Builder

	if s.Title != "" {
		sb.WriteString(fmt.Sprintf("pie title %s\n", escapeMermaidString(s.Title)))
	} else {
		sb.WriteString("pie\n")
	}
	for _, p := range s.Points {
		sb.WriteString(fmt.Sprintf("    \"%s\" : %s\n", escapeMermaidString(p.Label), format.Float(p.Value, 4)))
	}
	return sb.String()
}

func mermaidBar(s Series) string {
	var sb strings.Builder

	sb.WriteString("xychart-beta\n")
	if s.Title != "" {
		sb.WriteString(fmt.Sprintf("    title \"%s\"\n", escapeMermaidString(s.Title)))
	}

	labels := make([]string, len(s.Points))
	values := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = fmt.Sprintf("\"%s\"", escapeMermaidString(p.Label))
		values[i] = format.Float(p.Value, 4)
	}
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	return sb.String()
}

// escapeMermaidString escapes characters Mermaid treats specially in labels.
func escapeMermaidString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
