// Command riskctl scores, normalizes and inspects single student records
// against the model artifacts, without starting the web service.
//
// Usage:
//
//	riskctl predict --input aluno.json --models models
//	riskctl normalize --input aluno.json
//	riskctl inspect --models models
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"defasagem/internal/config"
	"defasagem/internal/features"
	"defasagem/internal/infrastructure"
	"defasagem/internal/services"
	"defasagem/internal/store"
	"defasagem/internal/validation"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configFile string
	modelsDir  string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Student lag-risk predictor tools",
		Long:          `Scores one student record at a time with the trained model, prints the prepared features or describes the active model.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		// Each invocation logs under one trace id.
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&opts.modelsDir, "models", "", "directory holding the model artifacts")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newPredictCmd(opts))
	root.AddCommand(newNormalizeCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	return root
}

// logger writes JSON logs to the command's stderr.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return infrastructure.NewLoggerWithWriter(cmd.ErrOrStderr(), level)
}

// service builds a prediction service the way the web binary does.
func (o *options) service(logger *slog.Logger) (*services.PredictionService, error) {
	cfg, err := config.LoadFrom(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.modelsDir != "" {
		cfg.Paths.ModelsDir = o.modelsDir
	}

	models := store.NewFromConfig(cfg.Paths, logger, nil)
	return services.NewPredictionService(models, cfg.Prediction, logger, nil, nil), nil
}

// readRecord decodes a single JSON object of column to cell value.
func readRecord(path string, logger *slog.Logger) (features.Record, error) {
	if err := validation.NewFileValidator(logger).ValidateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode %s: expected a JSON object", path)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode %s: one record per invocation", path)
	}
	return features.RecordFrom(raw), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
