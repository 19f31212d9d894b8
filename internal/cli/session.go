package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/config"
	"github.com/roach88/stockroom/internal/kv"
	"github.com/roach88/stockroom/internal/notify"
	"github.com/roach88/stockroom/internal/schema"
	"github.com/roach88/stockroom/internal/store"
)

// inputs checks user input before it reaches the store. Compiling the CUE
// schema is deferred until a command needs it.
var inputs = sync.OnceValue(schema.MustNew)

// env is what a command handler needs besides the store, which it reads
// from its context.
type env struct {
	cfg *config.Config
	out *OutputFormatter
	log *slog.Logger
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // notifications and verbose logs stay off stdout
		Verbose:   opts.Verbose,
	}
}

// loadEnv reads the configuration and builds the logger. The --db flag
// takes precedence over database.path.
func loadEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	return &env{
		cfg: cfg,
		out: newFormatter(opts, cmd),
		log: newLogger(opts, cfg, cmd.ErrOrStderr()),
	}, nil
}

func newLogger(opts *RootOptions, cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.Log.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withStore opens the configured database, attaches a store session to the
// command context and runs fn. The database is closed when fn returns.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := loadEnv(opts, cmd)
	if err != nil {
		return err
	}

	mode, err := store.ParseIndexMode(e.cfg.Customers.IndexMode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	e.log.Debug("opening database", "path", e.cfg.Database.Path, "index_mode", mode)
	db, err := kv.Open(e.cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			e.log.Error("error closing database", "error", closeErr)
		}
	}()

	toast := notify.NewToast(
		notify.WithDelay(e.cfg.Notify.Delay),
		notify.WithOnChange(func(message string, visible bool) {
			if visible && e.out.Format != "json" {
				fmt.Fprintf(e.out.GetErrWriter(), "✓ %s\n", message)
			}
		}),
	)
	defer toast.Stop()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := store.New(ctx, db,
		store.WithIndexMode(mode),
		store.WithNotifier(toast),
		store.WithLogger(e.log),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load state", err)
	}

	return fn(store.WithSession(ctx, s), e)
}

// persistFailed reports a store write error.
func persistFailed(e *env, err error) error {
	_ = e.out.Error(ErrCodePersistence, err.Error(), nil)
	return WrapExitError(ExitFailure, "failed to save", err)
}

// notFound reports a missing entity.
func notFound(e *env, kind, key string) error {
	return e.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("%s not found: %s", kind, key), nil)
}
