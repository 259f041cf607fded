package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/app"
	"github.com/abhisek/pathwise/internal/external"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/suggest"
)

// runApp opens the store, builds dependencies, and launches the TUI. Logs go
// to a file since the TUI owns the terminal.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(cfg.LogFilePath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := newEnv(cmd.Context(), cfg, logFile)
	if err != nil {
		return err
	}
	defer e.close()

	opts := app.Options{
		Catalog:   e.catalog,
		Progress:  e.progress,
		IDMode:    e.cfg.IDMode(),
		Launcher:  external.NewBrowserLauncher(),
		Clipboard: external.SystemClipboard{},
		Logger:    e.logger,
	}

	provider, err := llm.NewFromEnv(cmd.Context(), e.store.EventRepo(), e.logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		e.logger.Info("no LLM provider configured, step suggestions disabled")
	case err != nil:
		e.logger.Warn("LLM provider unavailable", "error", err)
	default:
		opts.Suggester = suggest.NewService(provider, suggest.DefaultConfig())
	}

	e.logger.Info("starting tui", "roadmaps", e.catalog.Len(), "completed", e.progress.CompletedTotal())
	if err := app.Run(opts); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
