package config

import (
	"time"

	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/render"
)

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Report.Precision = c.Render.Precision
	opts.Report.SampleValues = c.Render.SampleValues
	opts.Chart.TopColumns = c.Render.TopColumns
	opts.MaxFeatureRows = c.Render.MaxFeatureRows
	opts.Collapsed = c.Render.Collapsed
	if !c.Render.Reproducible {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return opts
}

// Format returns the configured default output format.
func (c *Config) Format() output.Format {
	f, err := output.ParseFormat(c.Render.DefaultFormat)
	if err != nil {
		return output.DefaultFormat
	}
	return f
}

// TextMode returns the configured default text mode.
func (c *Config) TextMode() output.TextMode {
	m, err := output.ParseTextMode(c.Render.TextMode)
	if err != nil {
		return output.DefaultTextMode
	}
	return m
}
