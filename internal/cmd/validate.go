package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/schema"
)

// validateCmd represents the modelcard validate command
var validateCmd = &cobra.Command{
	Use:   "validate <card.json>...",
	Short: "Check model cards against the model card schema",
	Long: `Check model cards against the bundled JSON Schema.

Validation is advisory: the renderers accept any JSON object and degrade
gracefully, so issues are reported but only fail the command with --strict.
Input that is not a JSON object is always an error (exit code 2).`,
	Example: `  modelcard validate card.json
  modelcard validate runs/*.json --strict
  modelcard validate --print-schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if validatePrintSchema {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runValidate,
}

var (
	validateStrict      bool
	validatePrintSchema bool
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail when any card has schema issues")
	validateCmd.Flags().BoolVar(&validatePrintSchema, "print-schema", false, "Print the bundled JSON Schema and exit")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if validatePrintSchema {
		_, err := fmt.Fprint(out, schema.Source())
		return err
	}

	failed := 0
	for _, path := range args {
		doc, err := readCard(path)
		if err != nil {
			return err
		}
		issues, err := schema.Validate(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if len(issues) == 0 {
			fmt.Fprintf(out, "%s: ok\n", path)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s: %d issue(s)\n", path, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		logger.WithFields(logrus.Fields{"source": path, "issues": len(issues)}).Debug("schema issues")
	}

	if validateStrict && failed > 0 {
		return fmt.Errorf("%d of %d card(s) failed validation", failed, len(args))
	}
	return nil
}
