package cli

import (
	"log/slog"

	"github.com/quaestor-io/quaestor/internal/config"
	"github.com/quaestor-io/quaestor/internal/ledger"
)

// loadConfig resolves the effective configuration: defaults, then the
// YAML file, then QUAESTOR_* environment variables, then command-line
// overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// openLedger opens the configured state backend and builds a ledger on
// top of it. The returned close function must run before the process
// exits; backends hold file locks.
func openLedger(opts *RootOptions) (*ledger.Ledger, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	st, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open state backend", err)
	}

	closeStore := func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing state backend", "error", err)
		}
	}
	return ledger.New(st), closeStore, nil
}
