package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/catalog"
	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/format"
	"github.com/featrix/modelcard/internal/output"
)

// indexCmd represents the modelcard index command
var indexCmd = &cobra.Command{
	Use:   "index <card.json>...",
	Short: "Add model cards to the catalog",
	Long: `Summarize model cards into the local catalog.

Each card is keyed by its session id, or by its file path when it has none,
so re-indexing a card replaces its entry. Cards that are not JSON objects are
skipped with an error; the rest are still indexed.

The catalog lives in .modelcard/ and uses the backend set in config.yaml
(sqlite by default; dolt keeps a commit per index run).`,
	Example: `  modelcard index card.json
  modelcard index runs/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

// listCmd represents the modelcard list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued model cards",
	Example: `  modelcard list
  modelcard list --tier negative
  modelcard list --format json --limit 5
  modelcard list --history`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// removeCmd represents the modelcard remove command
var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove model cards from the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

var (
	listTier    string
	listLimit   int
	listFormat  string
	listHistory bool
)

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)

	listCmd.Flags().StringVar(&listTier, "tier", "", "Only cards whose status has this tier: positive|caution|negative|unknown")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum entries (0 for all)")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format: table|json|yaml")
	listCmd.Flags().BoolVar(&listHistory, "history", false, "Show catalog commits (dolt backend only)")
}

func openCatalog() (*catalog.Catalog, error) {
	c := currentConfig()
	return catalog.Open(c.Catalog.Backend, catalogLocation(c), logger)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	var (
		entries []catalog.Entry
		errs    []error
	)
	for _, path := range args {
		data, err := readCard(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc, err := card.Parse(data)
		if err != nil {
			logger.WithError(err).WithField("source", path).Warn("skipping model card")
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		entries = append(entries, catalog.NewEntry(doc, path))
	}

	if err := cat.Index(commandContext(cmd), entries...); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"indexed": len(entries),
		"catalog": cat.Path(),
	}).Debug("index complete")
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d model card(s)\n", len(entries))

	return errors.Join(errs...)
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	if listHistory {
		commits, err := cat.History(ctx, listLimit)
		if err != nil {
			return err
		}
		return writeListing(out, commits, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COMMIT\tDATE\tMESSAGE")
			for _, c := range commits {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", shortHash(c.Hash), c.Date, c.Message)
			}
			tw.Flush()
		})
	}

	opts := catalog.ListOptions{Limit: listLimit}
	if listTier != "" {
		var tier classify.Tier
		if err := tier.UnmarshalText([]byte(strings.ToLower(listTier))); err != nil {
			return err
		}
		opts.Tier = &tier
	}

	entries, err := cat.List(ctx, opts)
	if err != nil {
		return err
	}
	return writeListing(out, entries, func(w io.Writer) {
		writeEntryTable(w, entries)
	})
}

// writeListing writes v with the structured formatter for --format, or calls
// table for the default table output.
func writeListing(w io.Writer, v any, table func(io.Writer)) error {
	if listFormat == "" || listFormat == "table" {
		table(w)
		return nil
	}
	f, err := output.ParseFormat(listFormat)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(f)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(w, v)
}

func writeEntryTable(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No model cards indexed")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSTATUS\tACCURACY\tWARNINGS\tINDEXED\tID")
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = format.NA
		}
		status := e.Status
		if status == "" {
			status = format.NA
		}
		if e.StatusTier != classify.Unknown {
			status = fmt.Sprintf("%s (%s)", status, e.StatusTier)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			name, e.ModelType, status, formatOptional(e.Accuracy), e.Warnings,
			humanize.Time(e.IndexedAt), e.ID)
	}
	tw.Flush()
}

func formatOptional(f *float64) string {
	if f == nil {
		return format.NA
	}
	return format.Float(*f, 4)
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func runRemove(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	for _, id := range args {
		if err := cat.Remove(commandContext(cmd), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}
	return nil
}
