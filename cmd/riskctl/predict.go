package main

import (
	"github.com/spf13/cobra"
)

func newPredictCmd(opts *options) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one student record",
		Long:  `Prepares the record in --input, scores it with the model in --models and prints the prediction with its explanation as JSON.`,
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
			pred, err := svc.Predict(cmd.Context(), record)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pred)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with one student record")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
