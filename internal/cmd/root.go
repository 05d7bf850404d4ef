// Package cmd contains all CLI commands for modelcard.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/config"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitMalformed = 2
)

var (
	// Version is the current version of modelcard
	Version = "0.1.0"

	// Global flags
	verbose    bool
	configPath string
	forAgents  bool

	logger = logrus.New()
	cfg    *config.Config

	// cfgDir is the .modelcard directory in effect, empty when none was
	// found.
	cfgDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modelcard",
	Short: "Render model cards as HTML, text, and interactive views",
	Long: `modelcard renders machine-learning model cards (a JSON document describing
a trained model) into human-readable reports.

Every section of a card is optional. Missing sections are left out of the
output entirely and missing fields display as N/A, so partial cards always
render. Only input that is not a JSON object is rejected (exit code 2).

Outputs:
  html          Self-contained static HTML with collapsible sections
  text          Brief summary or detailed plain text (--mode)
  interactive   Browser page driven by the component tree, with charts
  tree          The interactive component tree as JSON
  json, yaml    The section model and chart series

Examples:
  modelcard render card.json -o card.html      # Static HTML report
  modelcard brief card.json                    # One-screen summary
  modelcard detailed card.json                 # Full text report
  modelcard charts card.json --mermaid         # Chart series as Mermaid
  modelcard watch card.json -o card.html       # Re-render on change
  modelcard index runs/*.json && modelcard list

See 'modelcard <command> --help' for command-specific options.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, card.ErrMalformedInput):
		return ExitMalformed
	default:
		return ExitError
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .modelcard/config.yaml)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd.OutOrStdout(), cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// setup configures logging and loads the config before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	loaded, dir, err := loadConfig()
	if err != nil {
		return err
	}
	cfg, cfgDir = loaded, dir
	logger.WithField("config_dir", cfgDir).Debug("configuration loaded")
	return nil
}

func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		c, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, "", err
		}
		return c, filepath.Dir(configPath), nil
	}

	dir, err := config.FindConfigDir(".")
	if err != nil {
		return config.DefaultConfig(), "", nil
	}
	c, err := config.Load(".")
	if err != nil {
		return nil, "", err
	}
	return c, dir, nil
}

// currentConfig returns the loaded config, or defaults when a command runs
// without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(w io.Writer, cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	out := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
		"exit_codes": map[string]int{
			"ok":        ExitOK,
			"error":     ExitError,
			"malformed": ExitMalformed,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
