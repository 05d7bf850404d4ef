package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/output"
)

// renderCmd represents the modelcard render command
var renderCmd = &cobra.Command{
	Use:   "render <card.json>",
	Short: "Render a model card",
	Long: `Render a model card JSON document.

Formats:
  html (default)  Static HTML with one collapsible block per section
  text            Plain text; --mode brief|detailed
  interactive     HTML page built from the component tree, with charts
  tree            Component tree as JSON
  json, yaml      Section model and derived chart series

Output goes to stdout unless --output is given. Files are written
atomically: a failed write leaves any previous file untouched. Use - to
read the card from stdin.`,
	Example: `  modelcard render card.json -o card.html
  modelcard render card.json --format text --mode brief
  modelcard render card.json --format interactive -o card.html --open
  cat card.json | modelcard render - --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// briefCmd is a shortcut for render --format text --mode brief
var briefCmd = &cobra.Command{
	Use:   "brief <card.json>",
	Short: "Print the brief text summary of a model card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderText(cmd, args[0], output.TextBrief)
	},
}

// detailedCmd is a shortcut for render --format text --mode detailed
var detailedCmd = &cobra.Command{
	Use:   "detailed <card.json>",
	Short: "Print every section of a model card as text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderText(cmd, args[0], output.TextDetailed)
	},
}

var (
	renderFormat    string // --format
	renderMode      string // --mode brief|detailed
	renderOutput    string // -o/--output file path
	renderCollapsed bool   // --collapsed
	renderOpen      bool   // --open
)

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(detailedCmd)

	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: html|text|interactive|tree|json|yaml (default from config)")
	renderCmd.Flags().StringVarP(&renderMode, "mode", "m", "", "Text mode: brief|detailed (default from config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().BoolVar(&renderCollapsed, "collapsed", false, "Start HTML sections collapsed")
	renderCmd.Flags().BoolVar(&renderOpen, "open", false, "Open the written file in a browser")
}

func runRender(cmd *cobra.Command, args []string) error {
	f, err := resolveFormat(renderFormat)
	if err != nil {
		return err
	}
	mode, err := resolveTextMode(renderMode)
	if err != nil {
		return err
	}
	if renderOpen && renderOutput == "" {
		return fmt.Errorf("--open requires --output")
	}

	doc, err := readCard(args[0])
	if err != nil {
		return err
	}

	r := newRenderer(renderCollapsed)
	log := logger.WithFields(logrus.Fields{"source": args[0], "format": f})

	if renderOutput == "" {
		out, err := r.Render(doc, f, mode)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}

	if err := r.ToFile(doc, renderOutput, f, mode); err != nil {
		return err
	}
	log.WithField("output", renderOutput).Info("model card written")

	if renderOpen {
		if err := browser.OpenFile(renderOutput); err != nil {
			log.WithError(err).Warn("could not open browser")
		}
	}
	return nil
}

func renderText(cmd *cobra.Command, path string, mode output.TextMode) error {
	doc, err := readCard(path)
	if err != nil {
		return err
	}
	out, err := newRenderer(false).Text(doc, mode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
