// Command web serves the lag-risk form and the JSON API.
package main

import (
	"log/slog"
	"os"

	"defasagem/internal/app"
	"defasagem/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = application.Run()
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil {
		slog.Warn("Failed to close log file", slog.String("error", closeErr.Error()))
	}
	if err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
