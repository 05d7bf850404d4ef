package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/featrix/modelcard/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// DefaultMaxFeatureRows caps how many features the static document lists.
const DefaultMaxFeatureRows = 50

// MarkupOptions configure the static HTML document.
type MarkupOptions struct {
	// Visibility selects which sections start expanded. Nil expands all.
	Visibility *Visibility

	// GeneratedAt is printed in the footer when non-zero.
	GeneratedAt time.Time

	// MaxFeatureRows caps the feature inventory; 0 uses the default.
	MaxFeatureRows int
}

type markupField struct {
	Label   string
	Display string
	Badge   bool
	Class   string
}

type markupSection struct {
	ID          string
	Title       string
	Open        bool
	Emphasis    bool
	Depth       int
	Fields      []markupField
	Subsections []markupSection
	Omitted     int
}

type markupPage struct {
	Title       string
	Sections    []markupSection
	TierCSS     template.CSS
	GeneratedAt string
}

// RenderMarkup renders c as a self-contained HTML document with
// collapsible sections and expand-all / collapse-all controls.
func RenderMarkup(c *report.Card, opts MarkupOptions) (string, error) {
	if opts.MaxFeatureRows <= 0 {
		opts.MaxFeatureRows = DefaultMaxFeatureRows
	}
	page := markupPage{Title: c.Title}
	page.TierCSS = template.CSS(TierCSS())
	if !opts.GeneratedAt.IsZero() {
		page.GeneratedAt = opts.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	}
	for _, s := range c.Present() {
		page.Sections = append(page.Sections, markupView(s, 0, opts))
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "markup.html.tmpl", page); err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return buf.String(), nil
}

func markupView(s *report.Section, depth int, opts MarkupOptions) markupSection {
	v := markupSection{
		ID:       s.ID,
		Title:    s.Title,
		Open:     opts.Visibility == nil || opts.Visibility.Visible(s.ID),
		Emphasis: s.Emphasis,
		Depth:    depth,
	}
	for _, f := range s.Fields {
		mf := markupField{Label: f.Label, Display: f.Display}
		if f.Categorical() {
			style := StyleFor(f.Tier)
			mf.Badge = true
			mf.Class = style.Class
		}
		v.Fields = append(v.Fields, mf)
	}

	subs := s.Subsections
	if s.ID == string(report.SectionFeatures) && len(subs) > opts.MaxFeatureRows {
		v.Omitted = len(subs) - opts.MaxFeatureRows
		subs = subs[:opts.MaxFeatureRows]
	}
	for _, sub := range subs {
		if sub.Present {
			v.Subsections = append(v.Subsections, markupView(sub, depth+1, opts))
		}
	}
	return v
}
