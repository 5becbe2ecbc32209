package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/config"
	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/store"
)

// session is an open ledger plus everything a command needs around it.
type session struct {
	cfg      *config.Config
	store    *store.Store
	ledger   *ledger.Ledger
	logger   *slog.Logger
	registry *prometheus.Registry
}

// loadConfig resolves configuration from the global flags.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigDir: opts.ConfigDir,
		DataDir:   opts.DataDir,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// openSession loads config, installs the logger, and opens the database,
// creating the data directory if needed. Callers must Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
	}

	logger.Debug("opening database", "path", cfg.DatabasePath())
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", cfg.DatabasePath()), err)
	}

	reg := prometheus.NewRegistry()
	ledgerOpts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithLocation(cfg.Location),
		ledger.WithMetrics(ledger.NewMetrics(reg)),
	}
	if opts.Clock != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithClock(opts.Clock))
	}
	if opts.References != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithReferences(opts.References))
	}

	return &session{
		cfg:      cfg,
		store:    st,
		ledger:   ledger.New(st, ledgerOpts...),
		logger:   logger,
		registry: reg,
	}, nil
}

// clockOf returns the clock commands read "today" from.
func clockOf(opts *RootOptions) ledger.Clock {
	if opts.Clock != nil {
		return opts.Clock
	}
	return ledger.SystemClock{}
}

// Close releases the database.
func (s *session) Close() error {
	return s.store.Close()
}
