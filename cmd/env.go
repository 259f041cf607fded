package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/store"
)

// env is everything a command needs once flags, config and storage have
// been resolved.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	catalog  *roadmap.Catalog
	progress *progress.Store
}

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PATHWISE_DB, then the config file, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// loadCatalog returns the built-in roadmaps plus any configured extras.
func loadCatalog(cfg *config.Config) (*roadmap.Catalog, error) {
	catalog := roadmap.Default()
	if cfg.CatalogPath == "" {
		return catalog, nil
	}
	extra, err := roadmap.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return catalog.With(extra)
}

// openEnv loads config from the command's flags and opens the env on it.
// Callers must call close.
func openEnv(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newEnv(cmd.Context(), cfg, logOut)
}

// newEnv sets up logging to logOut, the catalog, the database and the
// progress store from an already loaded cfg.
func newEnv(ctx context.Context, cfg *config.Config, logOut io.Writer) (*env, error) {
	logger, err := logging.Configure(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	if ctx == nil {
		ctx = context.Background()
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		catalog:  catalog,
		progress: progress.Load(ctx, st.KVRepo(), progress.WithLogger(logger)),
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close database", "error", err)
	}
}
