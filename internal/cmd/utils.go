package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/config"
	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/render"
)

// readCard reads a model card from path, or stdin for "-".
func readCard(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model card: %w", err)
	}
	return data, nil
}

// newRenderer builds a renderer from the loaded config.
func newRenderer(collapsed bool) *render.Renderer {
	opts := currentConfig().RenderOptions()
	if collapsed {
		opts.Collapsed = true
	}
	return render.New(opts)
}

// resolveFormat parses a --format flag, falling back to the configured
// default when empty.
func resolveFormat(flag string) (output.Format, error) {
	if flag == "" {
		return currentConfig().Format(), nil
	}
	return output.ParseFormat(flag)
}

// resolveTextMode parses a --mode flag, falling back to the configured
// default when empty.
func resolveTextMode(flag string) (output.TextMode, error) {
	if flag == "" {
		return currentConfig().TextMode(), nil
	}
	return output.ParseTextMode(flag)
}

// defaultOutputPath places the rendered file next to its source with the
// format's extension.
func defaultOutputPath(source string, f output.Format) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return base + f.Extension()
}

// catalogLocation returns where the catalog lives for cfg.
func catalogLocation(c *config.Config) string {
	dir := cfgDir
	if dir == "" {
		dir = config.ConfigDirName
	}
	return c.CatalogPath(dir)
}

// commandContext returns the command's context, or Background when the
// command was invoked without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
