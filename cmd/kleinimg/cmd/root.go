package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"kleinimg/internal/config"
	"kleinimg/internal/container"
	"kleinimg/internal/database"
	"kleinimg/internal/metrics"
	"kleinimg/internal/storage"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kleinimg",
		Short:         "Shrinks product, banner and category images to fit their size budgets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newCompressCmd(), newProfilesCmd(), newServeCmd())
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}

// app bundles what the compress and serve commands share
type app struct {
	config    *config.Config
	container *container.Container
	metrics   *metrics.Metrics
}

func bootstrap(withStore bool) (*app, error) {
	cfg := config.New()
	slog.SetDefault(cfg.Logger)

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.New()
	opts := []container.Option{container.WithMetrics(m)}
	if withStore {
		store, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open object storage: %w", err)
		}
		opts = append(opts, container.WithStore(store))
	}

	return &app{
		config:    cfg,
		container: container.New(cfg, db, opts...),
		metrics:   m,
	}, nil
}

func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.config.Logger.Warn("Failed to close object storage", "error", err)
	}
}
