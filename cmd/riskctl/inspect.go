package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the active model",
		Long:  `Loads the artifacts in --models and prints the model name, kind, threshold and its features with their display labels.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(opts.logger(cmd))
			if err != nil {
				return err
			}
			summary, err := svc.Model(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Modelo:      %s (%s)\n", summary.Name, summary.Kind)
			fmt.Fprintf(out, "Threshold:   %.2f\n", summary.Threshold)
			fmt.Fprintf(out, "Explicável:  %t\n\n", summary.Explainable)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FEATURE\tRÓTULO")
			for i, name := range summary.Features {
				fmt.Fprintf(tw, "%s\t%s\n", name, summary.FeatureLabels[i])
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
