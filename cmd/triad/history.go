package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/triadlabs/triad/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent comparisons",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}

		db, err := store.NewSQLite(dir)
		if err != nil {
			return errors.Wrap(err, "failed to open comparison store")
		}
		defer db.Close()

		aggregates, err := db.List(cmd.Context(), historyLimit)
		if err != nil {
			return errors.Wrap(err, "failed to list comparisons")
		}

		if len(aggregates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No comparisons recorded yet.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tMODELS\tSUCCEEDED\tAVG LATENCY\tPROMPT")
		for _, a := range aggregates {
			prompt := a.Prompt
			if len(prompt) > 40 {
				prompt = prompt[:37] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0fms\t%s\n",
				a.ID, a.CreatedAt.Format("2006-01-02 15:04"),
				a.TotalModels(), a.SuccessfulModels(), a.AverageResponseTime(), prompt)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of comparisons to show")
	RootCmd.AddCommand(historyCmd)
}
