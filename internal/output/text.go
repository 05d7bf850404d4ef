package output

import (
	"fmt"
	"strings"

	"github.com/featrix/modelcard/internal/format"
	"github.com/featrix/modelcard/internal/report"
)

const (
	briefRule    = 60
	detailedRule = 80
	sectionRule  = 60
)

// RenderText renders c in the given mode.
func RenderText(c *report.Card, mode TextMode) string {
	if mode == TextBrief {
		return RenderBrief(c)
	}
	return RenderDetailed(c)
}

// RenderBrief renders the identification summary and the top-line metrics.
// Output depends only on c, so rendering the same card twice yields the same
// bytes.
func RenderBrief(c *report.Card) string {
	var blocks [][]string

	if id := c.Section(report.SectionIdentification); present(id) {
		blocks = append(blocks, []string{
			"Model: " + display(id, "name"),
			"Type: " + display(id, "model_type"),
			"Status: " + display(id, "status"),
			"Session: " + display(id, "session_id"),
		})
	}

	if ds := c.Section(report.SectionDataset); present(ds) {
		blocks = append(blocks, []string{
			fmt.Sprintf("Training: %s rows, %s features", display(ds, "train_rows"), display(ds, "total_features")),
		})
	}

	if line := briefMetrics(c.Section(report.SectionMetrics)); line != "" {
		blocks = append(blocks, []string{line})
	}

	if q := c.Section(report.SectionQuality); present(q) {
		var lines []string
		if f, ok := q.Field("assessment"); ok {
			lines = append(lines, "Quality: "+f.Display)
		}
		if w := q.Sub("warnings"); w != nil && len(w.Subsections) > 0 {
			lines = append(lines, fmt.Sprintf("Warnings: %d", len(w.Subsections)))
		}
		if len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}

	var sb strings.Builder
	sb.WriteString(c.Title + "\n")
	sb.WriteString(strings.Repeat("=", briefRule) + "\n")
	for _, block := range blocks {
		sb.WriteString("\n")
		for _, line := range block {
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

// briefMetrics is the single metrics line of the brief view: accuracy, F1
// and AUC for a classifier, otherwise the best validation loss.
func briefMetrics(metrics *report.Section) string {
	if !present(metrics) {
		return ""
	}
	if cm := metrics.Sub("classification_metrics"); cm != nil {
		return fmt.Sprintf("Accuracy: %s, F1: %s, AUC: %s",
			display(cm, "accuracy"), display(cm, "f1"), display(cm, "auc"))
	}
	if best := metrics.Sub("best_epoch"); best != nil {
		if f, ok := best.Field("validation_loss"); ok && !f.Raw.IsAbsent() {
			return "Best Val Loss: " + f.Display
		}
	}
	return ""
}

// RenderDetailed renders every present section, nested subsections
// indented under their parent.
func RenderDetailed(c *report.Card) string {
	var sb strings.Builder
	sb.WriteString(c.Title + "\n")
	sb.WriteString(strings.Repeat("=", detailedRule) + "\n")
	sb.WriteString("\n")

	for _, s := range c.Present() {
		writeTextSection(&sb, s, 0)
	}
	return sb.String()
}

func writeTextSection(sb *strings.Builder, s *report.Section, depth int) {
	if !s.Present {
		return
	}
	rule := strings.Repeat("=", sectionRule)
	fieldIndent := strings.Repeat("  ", depth)
	if depth == 0 {
		sb.WriteString(rule + "\n")
		sb.WriteString(strings.ToUpper(s.Title) + "\n")
		sb.WriteString(rule + "\n")
	} else {
		title := s.Title
		if s.Emphasis {
			title += " (target)"
		}
		sb.WriteString(strings.Repeat("  ", depth-1) + title + ":\n")
	}

	width := 0
	for _, f := range s.Fields {
		if n := len(f.Label) + 1; n > width {
			width = n
		}
	}
	for _, f := range s.Fields {
		label := fmt.Sprintf("%-*s ", width, f.Label+":")
		value := strings.ReplaceAll(f.Display, "\n", "\n"+fieldIndent+strings.Repeat(" ", len(label)))
		sb.WriteString(fieldIndent + label + value + "\n")
	}

	for _, sub := range s.Subsections {
		writeTextSection(sb, sub, depth+1)
	}
	if depth <= 1 {
		sb.WriteString("\n")
	}
}

func present(s *report.Section) bool {
	return s != nil && s.Present
}

// display returns the display string of a field, format.NA when the section
// has no such field.
func display(s *report.Section, key string) string {
	if f, ok := s.Field(key); ok {
		return f.Display
	}
	return format.NA
}
