package config

import "time"

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// the config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			DefaultFormat:  "html",
			TextMode:       "detailed",
			Precision:      4,
			SampleValues:   5,
			TopColumns:     10,
			MaxFeatureRows: 50,
			Collapsed:      false,
			Reproducible:   false,
		},
		Catalog: CatalogConfig{
			Backend: "sqlite",
			Path:    "catalog.db",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Serve: ServeConfig{
			Tools:   []string{"modelcard_render", "modelcard_sections", "modelcard_charts", "modelcard_classify"},
			Timeout: 30 * time.Minute,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Render:  mergeRenderConfig(loaded.Render, defaults.Render),
		Catalog: mergeCatalogConfig(loaded.Catalog, defaults.Catalog),
		Watch:   mergeWatchConfig(loaded.Watch, defaults.Watch),
		Serve:   mergeServeConfig(loaded.Serve, defaults.Serve),
	}
}

func mergeRenderConfig(loaded, defaults RenderConfig) RenderConfig {
	result := defaults

	if loaded.DefaultFormat != "" {
		result.DefaultFormat = loaded.DefaultFormat
	}
	if loaded.TextMode != "" {
		result.TextMode = loaded.TextMode
	}
	// An explicit precision of 0 reads as unset.
	if loaded.Precision != 0 {
		result.Precision = loaded.Precision
	}
	if loaded.SampleValues != 0 {
		result.SampleValues = loaded.SampleValues
	}
	if loaded.TopColumns != 0 {
		result.TopColumns = loaded.TopColumns
	}
	if loaded.MaxFeatureRows != 0 {
		result.MaxFeatureRows = loaded.MaxFeatureRows
	}
	if loaded.Collapsed {
		result.Collapsed = true
	}
	if loaded.Reproducible {
		result.Reproducible = true
	}

	return result
}

func mergeCatalogConfig(loaded, defaults CatalogConfig) CatalogConfig {
	result := defaults

	if loaded.Backend != "" {
		result.Backend = loaded.Backend
	}
	if loaded.Path != "" {
		result.Path = loaded.Path
	}

	return result
}

func mergeWatchConfig(loaded, defaults WatchConfig) WatchConfig {
	result := defaults

	if loaded.Debounce != 0 {
		result.Debounce = loaded.Debounce
	}

	return result
}

func mergeServeConfig(loaded, defaults ServeConfig) ServeConfig {
	result := defaults

	if len(loaded.Tools) > 0 {
		result.Tools = loaded.Tools
	}
	if loaded.Timeout != 0 {
		result.Timeout = loaded.Timeout
	}

	return result
}

// ValidFormats lists the valid values for render.default_format
var ValidFormats = []string{"html", "text", "interactive", "tree", "json", "yaml"}

// ValidTextModes lists the valid values for render.text_mode
var ValidTextModes = []string{"brief", "detailed"}

// ValidBackends lists the valid catalog backends
var ValidBackends = []string{"sqlite", "dolt"}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
