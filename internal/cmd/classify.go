package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/output"
)

// classifyCmd represents the modelcard classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <domain> [value]",
	Short: "Show the tier a status, severity, or quality value maps to",
	Long: `Show the semantic tier of an enumerated model card value.

Domains:
  status     training_status / model_identification.status
  severity   model_quality.issues[].severity
  quality    model_quality.assessment

Matching is exact and case-insensitive. Unrecognized values are unknown and
render without emphasis.`,
	Example: `  modelcard classify status DONE
  modelcard classify severity moderate
  modelcard classify quality --list`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClassify,
}

var classifyList bool

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifyList, "list", false, "List the known values of the domain")
}

func runClassify(cmd *cobra.Command, args []string) error {
	d, err := classify.ParseDomain(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if classifyList {
		return listDomain(out, d)
	}
	if len(args) < 2 {
		return fmt.Errorf("value required (or use --list)")
	}

	tier := classify.ClassifyString(d, args[1])
	style := output.StyleFor(tier)
	_, err = fmt.Fprintf(out, "%s\t%s\t%s\n", tier, style.Class, style.Color)
	return err
}

func listDomain(out io.Writer, d classify.Domain) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tTIER\tCOLOR")
	for _, v := range classify.Values(d) {
		tier := classify.ClassifyString(d, v)
		fmt.Fprintf(w, "%s\t%s\t%s\n", v, tier, output.StyleFor(tier).Color)
	}
	return w.Flush()
}
