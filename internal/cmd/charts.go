package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/chart"
	"github.com/featrix/modelcard/internal/output"
)

// chartsCmd represents the modelcard charts command
var chartsCmd = &cobra.Command{
	Use:   "charts <card.json>",
	Short: "Print the chart series derived from a model card",
	Long: `Print the three chart series derived from a model card:

  feature_types           Count of features per type (pie)
  classification_metrics  Accuracy, precision, recall, F1, AUC; zero and
                          missing values are dropped (bar)
  column_statistics       Top columns by mutual information, descending (bar)

Series with no points are omitted with --mermaid.`,
	Example: `  modelcard charts card.json
  modelcard charts card.json --format json --top 5
  modelcard charts card.json --mermaid`,
	Args: cobra.ExactArgs(1),
	RunE: runCharts,
}

var (
	chartsFormat  string
	chartsMermaid bool
	chartsTop     int
)

func init() {
	rootCmd.AddCommand(chartsCmd)

	chartsCmd.Flags().StringVarP(&chartsFormat, "format", "f", "yaml", "Output format: yaml|json")
	chartsCmd.Flags().BoolVar(&chartsMermaid, "mermaid", false, "Print Mermaid diagram source")
	chartsCmd.Flags().IntVar(&chartsTop, "top", 0, "Columns in the column statistics chart (default from config)")
}

func runCharts(cmd *cobra.Command, args []string) error {
	doc, err := readCard(args[0])
	if err != nil {
		return err
	}

	c, charts, err := newRenderer(false).Model(doc)
	if err != nil {
		return err
	}
	if chartsTop > 0 {
		charts.ColumnStatistics = chart.ColumnStatistics(c, chartsTop)
	}

	if chartsMermaid {
		return writeMermaid(cmd.OutOrStdout(), charts)
	}

	f, err := output.ParseFormat(chartsFormat)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(f)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), charts)
}

func writeMermaid(w io.Writer, charts chart.Charts) error {
	first := true
	for _, s := range charts.All() {
		if s.Empty() {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		if _, err := fmt.Fprint(w, chart.Mermaid(s)); err != nil {
			return err
		}
	}
	return nil
}
