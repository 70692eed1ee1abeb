package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/triadlabs/triad/pkg/arena/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers and the models they serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		registry, err := provider.FromConfig(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to build provider registry")
		}

		handles := registry.ListAll()
		if len(handles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No providers configured. Add a providers block to your config file.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROVIDER\tENDPOINT\tMODELS")
		for _, h := range handles {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Name(), h.BaseURL(), strings.Join(h.Models(), ", "))
		}
		return tw.Flush()
	},
}

func init() {
	RootCmd.AddCommand(providersCmd)
}
