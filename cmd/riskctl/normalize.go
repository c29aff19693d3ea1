package main

import (
	"github.com/spf13/cobra"

	api "defasagem/pkg/contracts/api/v1"
)

func newNormalizeCmd(opts *options) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the prepared form of a student record",
		Long:  `Runs the feature preparation on the record in --input and prints the result. No model is needed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd)
			record, err := readRecord(input, logger)
			if err != nil {
				return err
			}
			svc, err := opts.service(logger)
			if err != nil {
				return err
			}
			prepared := svc.Normalize(cmd.Context(), record)
			return writeJSON(cmd.OutOrStdout(), api.NormalizeResponse{
				Record:  prepared.Map(),
				Columns: prepared.Columns(),
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with one student record")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
