package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/config"
	"github.com/roach88/purse/internal/metrics"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/store"
)

// session is one hydrated store plus what has to be released after it.
type session struct {
	store   *store.Store
	metrics *metrics.Metrics
	close   func() error
}

// openAdapter builds the configured backend.
func openAdapter(cfg config.Storage) (persist.Adapter, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := persist.OpenSQLite(cfg.Path, cfg.Key)
		if err != nil {
			return nil, nil, &persist.StorageError{Op: "open", Key: cfg.Key, Err: err}
		}
		return db, db.Close, nil
	case config.BackendFile:
		return persist.NewFile(cfg.Path), noop, nil
	case config.BackendMemory:
		slog.Warn("memory backend is a dry run; changes are discarded on exit")
		return persist.NewMemory(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openSession opens storage and hydrates a store from it.
func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	if opts.cfg == nil {
		if err := opts.prepare(cmd); err != nil {
			return nil, err
		}
	}
	cfg := opts.cfg

	adapter, closeFn := opts.Adapter, func() error { return nil }
	if adapter == nil {
		var err error
		adapter, closeFn, err = openAdapter(cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	timeout, _ := cfg.Storage.Timeout()
	tag, _ := cfg.Tag()
	m := metrics.New()

	storeOpts := []store.Option{
		store.WithRecorder(m),
		store.WithSaveTimeout(timeout),
		store.WithLocale(tag),
	}
	s := store.New(adapter, append(storeOpts, opts.StoreOptions...)...)

	slog.Debug("hydrating", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	if err := s.Hydrate(ctx); err != nil {
		closeFn()
		return nil, err
	}
	return &session{store: s, metrics: m, close: closeFn}, nil
}

// withStore runs fn against a hydrated store and reports any failure
// through the formatter.
func withStore(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *store.Store, out *OutputFormatter) error) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	if out.Format == "" {
		out.Format = "text"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx, cmd, opts)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return report(out, err)
	}
	defer func() {
		if cerr := sess.close(); cerr != nil {
			slog.Warn("closing storage failed", "error", cerr)
		}
	}()

	err = fn(ctx, sess.store, out)

	if opts.Metrics {
		if merr := sess.metrics.WriteText(cmd.ErrOrStderr()); merr != nil {
			slog.Warn("writing metrics failed", "error", merr)
		}
	}
	if err != nil {
		return report(out, err)
	}
	return nil
}
