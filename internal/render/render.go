// Package render exposes the model card entry points: static markup, brief
// and detailed text, and the interactive component tree, each also offered
// as a render-to-file variant.
//
// A render call parses the document, builds the section model and projects
// it. Content never fails a render; only input that is not a JSON object
// does, with an error wrapping card.ErrMalformedInput. File variants write
// only after rendering succeeded and report write failures as
// *output.WriteError.
package render

import (
	"fmt"
	"time"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/chart"
	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/report"
)

// Options tune every render.
type Options struct {
	Report report.Options
	Chart  chart.Options

	// Collapsed starts markup sections collapsed.
	Collapsed bool

	// MaxFeatureRows caps the markup feature inventory.
	MaxFeatureRows int

	// Now stamps the markup footer. Nil leaves the footer out, which keeps
	// output reproducible.
	Now func() time.Time
}

// DefaultOptions returns the standard options.
func DefaultOptions() Options {
	return Options{
		Report:         report.DefaultOptions(),
		Chart:          chart.DefaultOptions(),
		MaxFeatureRows: output.DefaultMaxFeatureRows,
	}
}

// Renderer renders model cards.
type Renderer struct {
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Model parses doc and returns its section model and chart series.
func (r *Renderer) Model(doc []byte) (*report.Card, chart.Charts, error) {
	d, err := card.Parse(doc)
	if err != nil {
		return nil, chart.Charts{}, err
	}
	c := report.Build(d, r.opts.Report)
	return c, chart.Derive(c, r.opts.Chart), nil
}

// Markup renders the self-contained static HTML document.
func (r *Renderer) Markup(doc []byte) (string, error) {
	c, _, err := r.Model(doc)
	if err != nil {
		return "", err
	}
	return r.markup(c)
}

func (r *Renderer) markup(c *report.Card) (string, error) {
	opts := output.MarkupOptions{MaxFeatureRows: r.opts.MaxFeatureRows}
	if r.opts.Collapsed {
		none := output.CollapseAll()
		opts.Visibility = &none
	}
	if r.opts.Now != nil {
		opts.GeneratedAt = r.opts.Now()
	}
	return output.RenderMarkup(c, opts)
}

// Brief renders the brief text view.
func (r *Renderer) Brief(doc []byte) (string, error) {
	return r.Text(doc, output.TextBrief)
}

// Detailed renders the detailed text view.
func (r *Renderer) Detailed(doc []byte) (string, error) {
	return r.Text(doc, output.TextDetailed)
}

// Text renders the text view in mode.
func (r *Renderer) Text(doc []byte, mode output.TextMode) (string, error) {
	c, _, err := r.Model(doc)
	if err != nil {
		return "", err
	}
	return output.RenderText(c, mode), nil
}

// Interactive builds the component tree. A nil vis expands every section.
func (r *Renderer) Interactive(doc []byte, vis *output.Visibility, opts output.InteractiveOptions) (*output.Component, error) {
	c, charts, err := r.Model(doc)
	if err != nil {
		return nil, err
	}
	v := output.AllVisible(c)
	if vis != nil {
		v = *vis
	} else if r.opts.Collapsed {
		v = output.CollapseAll()
	}
	return output.RenderInteractive(c, charts, v, opts), nil
}

// InteractivePage renders the component tree as a browser page.
func (r *Renderer) InteractivePage(doc []byte, vis *output.Visibility, opts output.InteractiveOptions) (string, error) {
	tree, err := r.Interactive(doc, vis, opts)
	if err != nil {
		return "", err
	}
	return output.RenderInteractivePage(tree)
}

// Render renders doc in any output format.
func (r *Renderer) Render(doc []byte, f output.Format, mode output.TextMode) (string, error) {
	switch f {
	case output.FormatHTML:
		return r.Markup(doc)
	case output.FormatText:
		return r.Text(doc, mode)
	case output.FormatInteractive:
		return r.InteractivePage(doc, nil, output.InteractiveOptions{})
	case output.FormatTree:
		tree, err := r.Interactive(doc, nil, output.InteractiveOptions{})
		if err != nil {
			return "", err
		}
		return encode(f, tree)
	case output.FormatJSON, output.FormatYAML:
		c, charts, err := r.Model(doc)
		if err != nil {
			return "", err
		}
		return encode(f, Model{Card: c, Charts: charts})
	}
	return "", fmt.Errorf("unsupported format %q", f)
}

// Model is the structured dump written by the json and yaml formats.
type Model struct {
	Card   *report.Card `yaml:"card" json:"card"`
	Charts chart.Charts `yaml:"charts" json:"charts"`
}

func encode(f output.Format, v any) (string, error) {
	formatter, err := output.GetFormatter(f)
	if err != nil {
		return "", err
	}
	return formatter.Format(v)
}

// ToFile renders doc in format f and writes it to path.
func (r *Renderer) ToFile(doc []byte, path string, f output.Format, mode output.TextMode) error {
	content, err := r.Render(doc, f, mode)
	if err != nil {
		return err
	}
	return output.WriteFile(path, []byte(content))
}

// MarkupToFile renders markup and writes it to path.
func (r *Renderer) MarkupToFile(doc []byte, path string) error {
	return r.ToFile(doc, path, output.FormatHTML, "")
}

// TextToFile renders text in mode and writes it to path.
func (r *Renderer) TextToFile(doc []byte, path string, mode output.TextMode) error {
	return r.ToFile(doc, path, output.FormatText, mode)
}

// InteractiveToFile renders the interactive page and writes it to path.
func (r *Renderer) InteractiveToFile(doc []byte, path string) error {
	return r.ToFile(doc, path, output.FormatInteractive, "")
}
