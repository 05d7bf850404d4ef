package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the modelcard configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the modelcard configuration directory
const ConfigDirName = ".modelcard"

// Config holds all modelcard configuration
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Catalog CatalogConfig `yaml:"catalog"`
	Watch   WatchConfig   `yaml:"watch"`
	Serve   ServeConfig   `yaml:"serve"`
}

// RenderConfig holds defaults for rendering
type RenderConfig struct {
	DefaultFormat  string `yaml:"default_format"`
	TextMode       string `yaml:"text_mode"`
	Precision      int    `yaml:"precision"`
	SampleValues   int    `yaml:"sample_values"`
	TopColumns     int    `yaml:"top_columns"`
	MaxFeatureRows int    `yaml:"max_feature_rows"`
	Collapsed      bool   `yaml:"collapsed"`

	// Reproducible leaves the generation timestamp out of markup.
	Reproducible bool `yaml:"reproducible"`
}

// CatalogConfig holds configuration for the card catalog
type CatalogConfig struct {
	// Backend is "sqlite" or "dolt".
	Backend string `yaml:"backend"`

	// Path is the database file (sqlite) or repository directory (dolt),
	// relative to the config directory unless absolute.
	Path string `yaml:"path"`
}

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ServeConfig holds configuration for the MCP server
type ServeConfig struct {
	Tools   []string      `yaml:"tools"`
	Timeout time.Duration `yaml:"timeout"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .modelcard/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .modelcard directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .modelcard directory if it doesn't exist.
// Returns the path to the directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// CatalogPath resolves the catalog location for a config found under
// configDir.
func (c *Config) CatalogPath(configDir string) string {
	if filepath.IsAbs(c.Catalog.Path) {
		return c.Catalog.Path
	}
	return filepath.Join(configDir, c.Catalog.Path)
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !contains(ValidFormats, cfg.Render.DefaultFormat) {
		return fmt.Errorf("%w: default_format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Render.DefaultFormat)
	}

	if !contains(ValidTextModes, cfg.Render.TextMode) {
		return fmt.Errorf("%w: text_mode must be one of %v, got %q",
			ErrInvalidConfig, ValidTextModes, cfg.Render.TextMode)
	}

	if cfg.Render.Precision < 0 || cfg.Render.Precision > 12 {
		return fmt.Errorf("%w: precision must be between 0 and 12, got %d",
			ErrInvalidConfig, cfg.Render.Precision)
	}

	if cfg.Render.SampleValues <= 0 {
		return fmt.Errorf("%w: sample_values must be positive, got %d",
			ErrInvalidConfig, cfg.Render.SampleValues)
	}

	if cfg.Render.TopColumns <= 0 {
		return fmt.Errorf("%w: top_columns must be positive, got %d",
			ErrInvalidConfig, cfg.Render.TopColumns)
	}

	if cfg.Render.MaxFeatureRows <= 0 {
		return fmt.Errorf("%w: max_feature_rows must be positive, got %d",
			ErrInvalidConfig, cfg.Render.MaxFeatureRows)
	}

	if !contains(ValidBackends, cfg.Catalog.Backend) {
		return fmt.Errorf("%w: catalog backend must be one of %v, got %q",
			ErrInvalidConfig, ValidBackends, cfg.Catalog.Backend)
	}

	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("%w: debounce must be non-negative, got %s",
			ErrInvalidConfig, cfg.Watch.Debounce)
	}

	if cfg.Serve.Timeout < 0 {
		return fmt.Errorf("%w: serve timeout must be non-negative, got %s",
			ErrInvalidConfig, cfg.Serve.Timeout)
	}

	return nil
}

// SaveDefault writes the default configuration to .modelcard/config.yaml in
// workDir. Creates the directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# modelcard configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
