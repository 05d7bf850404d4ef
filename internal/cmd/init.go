package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/catalog"
	"github.com/featrix/modelcard/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .modelcard directory, config, and catalog",
	Long: `Initialize the .modelcard directory in the current directory.

This writes a default config.yaml and creates the model card catalog using
the configured backend.

Examples:
  modelcard init          # Initialize in current directory
  modelcard init --force  # Rewrite config.yaml with defaults`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	out := cmd.OutOrStdout()

	dir := filepath.Join(cwd, config.ConfigDirName)
	cfgFile := filepath.Join(dir, config.ConfigFileName)

	_, err = os.Stat(cfgFile)
	switch {
	case err == nil && !initForce:
		rel, _ := filepath.Rel(cwd, dir)
		fmt.Fprintf(out, "Already initialized at %s\n", rel)
		return nil
	case err == nil:
		if err := os.Remove(cfgFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}

	c := config.DefaultConfig()
	cat, err := catalog.Open(c.Catalog.Backend, c.CatalogPath(dir), logger)
	if err != nil {
		return fmt.Errorf("initializing catalog: %w", err)
	}
	defer cat.Close()

	rel, _ := filepath.Rel(cwd, dir)
	fmt.Fprintf(out, "Initialized modelcard at %s\n", rel)
	return nil
}
