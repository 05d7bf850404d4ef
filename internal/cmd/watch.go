package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/watch"
)

// watchCmd represents the modelcard watch command
var watchCmd = &cobra.Command{
	Use:   "watch <card.json>...",
	Short: "Re-render model cards whenever they change",
	Long: `Watch model card files and re-render each one when it is written.

Every source is rendered once at startup. Bursts of writes are debounced per
file. A card that fails to parse is reported and its previous output is left
untouched until the next good write.

Outputs are written next to each source with the format's extension, into
--out-dir when given, or to --output when watching a single card.

Press Ctrl+C to stop.`,
	Example: `  modelcard watch card.json -o card.html
  modelcard watch runs/*.json --out-dir reports --format interactive
  modelcard watch card.json --format text --mode brief --validate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

var (
	watchFormat   string
	watchMode     string
	watchOutput   string
	watchOutDir   string
	watchDebounce time.Duration
	watchValidate bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "Output format (default from config)")
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", "", "Text mode: brief|detailed (default from config)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output file (single source only)")
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "Directory for rendered files")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Debounce interval (default from config)")
	watchCmd.Flags().BoolVar(&watchValidate, "validate", false, "Log schema issues on every render")
}

func runWatch(cmd *cobra.Command, args []string) error {
	f, err := resolveFormat(watchFormat)
	if err != nil {
		return err
	}
	mode, err := resolveTextMode(watchMode)
	if err != nil {
		return err
	}

	jobs, err := watchJobs(args, f, watchOutput, watchOutDir)
	if err != nil {
		return err
	}
	if watchOutDir != "" {
		if err := os.MkdirAll(watchOutDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	debounce := watchDebounce
	if debounce == 0 {
		debounce = currentConfig().Watch.Debounce
	}

	w, err := watch.New(watch.Config{
		Jobs:     jobs,
		Format:   f,
		Mode:     mode,
		Debounce: debounce,
		Validate: watchValidate,
		OnRender: func(r watch.Result) {
			if r.Err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "rendered %s -> %s\n", r.Job.Source, r.Job.Output)
			}
		},
	}, newRenderer(false), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{
		"sources":  len(jobs),
		"format":   f,
		"debounce": debounce,
	}).Info("watching model cards")

	return w.Run(ctx)
}

// watchJobs pairs each source with its output path.
func watchJobs(sources []string, f output.Format, out, outDir string) ([]watch.Job, error) {
	if out != "" && len(sources) > 1 {
		return nil, fmt.Errorf("--output needs exactly one source; use --out-dir for several")
	}
	if out != "" && outDir != "" {
		return nil, fmt.Errorf("--output and --out-dir are mutually exclusive")
	}

	jobs := make([]watch.Job, 0, len(sources))
	seen := make(map[string]bool)
	for _, src := range sources {
		if src == "-" {
			return nil, fmt.Errorf("cannot watch stdin")
		}
		dst := out
		if dst == "" {
			dst = defaultOutputPath(src, f)
			if outDir != "" {
				dst = filepath.Join(outDir, filepath.Base(dst))
			}
		}
		if strings.EqualFold(filepath.Clean(dst), filepath.Clean(src)) {
			return nil, fmt.Errorf("output %s would overwrite its source", dst)
		}
		if seen[dst] {
			return nil, fmt.Errorf("two sources render to %s", dst)
		}
		seen[dst] = true
		jobs = append(jobs, watch.Job{Source: src, Output: dst})
	}
	return jobs, nil
}
