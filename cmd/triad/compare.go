package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/triadlabs/triad/internal/store"
	"github.com/triadlabs/triad/pkg/arena"
	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/executor"
	"github.com/triadlabs/triad/pkg/arena/policy"
	"github.com/triadlabs/triad/pkg/arena/provider"
	"github.com/triadlabs/triad/pkg/arena/runner"
)

var (
	compareModels  []string
	sequentialMode bool
	showResponses  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [prompt]",
	Short: "Run one prompt against multiple models and compare the results",
	Long: `Run one prompt against up to three models, concurrently or
sequentially, and print per-model latency and outcome. The prompt is read
from the argument, or from stdin when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringArrayVarP(&compareModels, "model", "m", nil, "model to query (repeatable, max 3)")
	compareCmd.Flags().BoolVar(&sequentialMode, "sequential", false, "run calls one at a time instead of in parallel")
	compareCmd.Flags().BoolVar(&showResponses, "show-responses", false, "print full response text per model")
	compareCmd.MarkFlagRequired("model")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	promptText, err := readPrompt(args)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	registry, err := provider.FromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to build provider registry")
	}

	dir, err := dataDir()
	if err != nil {
		return err
	}
	db, err := store.NewSQLite(dir)
	if err != nil {
		return errors.Wrap(err, "failed to open comparison store")
	}
	defer db.Close()

	exec := executor.New(cfg, logger)
	run := runner.New(exec, policy.New(cfg), cfg.MaxConcurrency, logger)
	orchestrator := arena.New(registry, run, db, cfg, arena.WithLogger(logger))

	mode := runner.ModeParallel
	if sequentialMode {
		mode = runner.ModeSequential
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	aggregate, err := orchestrator.ExecuteComparison(ctx, promptText, compareModels, mode)
	if err != nil {
		return err
	}

	printAggregate(cmd.OutOrStdout(), aggregate, compareModels)
	return nil
}

func readPrompt(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read prompt from stdin")
	}
	return string(data), nil
}

// printAggregate renders the comparison table. Parallel outcomes arrive in
// completion order; display re-sorts by requested model order.
func printAggregate(w io.Writer, aggregate *compare.Aggregate, requested []string) {
	ordered := make([]compare.Outcome, 0, len(aggregate.Outcomes))
	seen := make(map[int]bool)
	for _, want := range requested {
		for i, o := range aggregate.Outcomes {
			if !seen[i] && strings.EqualFold(o.Model, want) {
				ordered = append(ordered, o)
				seen[i] = true
				break
			}
		}
	}
	for i, o := range aggregate.Outcomes {
		if !seen[i] {
			ordered = append(ordered, o)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPROVIDER\tSTATUS\tLATENCY\tTOKENS")
	for _, o := range ordered {
		detail := fmt.Sprintf("%dms", o.LatencyMs)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", o.Model, o.Provider, o.Status, detail, o.TokenCount)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d/%d succeeded, avg %.0fms, %d tokens (comparison %s)\n",
		aggregate.SuccessfulModels(), aggregate.TotalModels(),
		aggregate.AverageResponseTime(), aggregate.TotalTokens(), aggregate.ID)

	for _, o := range ordered {
		if o.Status == compare.StatusError {
			fmt.Fprintf(w, "  %s: %s\n", o.Model, o.ErrorMessage)
		}
		if showResponses && o.Status == compare.StatusSuccess {
			fmt.Fprintf(w, "\n--- %s ---\n%s\n", o.Model, o.Response)
		}
	}
}
