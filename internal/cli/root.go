package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/config"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides storage.path
	Backend    string // overrides storage.backend
	Metrics    bool

	// Adapter replaces the configured backend (for testing).
	Adapter persist.Adapter

	// StoreOptions are appended to the options built from config (for testing).
	StoreOptions []store.Option

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the purse CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{})
}

// NewRootCommandWith creates the root command around caller-owned options.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purse",
		Short: "purse - personal account ledger",
		Long: `Keep track of personal money accounts: cards, cash and anything else.

Accounts live in a single storage slot (SQLite by default) and are shown
sorted and filtered per invocation.

The memory backend (--backend memory) is a dry run: every command starts
from the two starter accounts and changes are discarded on exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "storage path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend: sqlite, file or memory (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr after the command")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// prepare validates global flags, loads config and installs the logger.
// Failures are printed to stderr since no output format is settled yet.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	fail := func(code string, err error) error {
		f := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
		_ = f.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if o.Format == "" {
		o.Format = "text"
	}
	if !isValidFormat(o.Format) {
		return fail(ErrCodeGeneric, fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fail(ErrCodeConfig, err)
	}
	if o.Database != "" {
		cfg.Storage.Path = o.Database
	}
	if o.Backend != "" {
		cfg.Storage.Backend = o.Backend
	}
	if err := cfg.Validate(); err != nil {
		return fail(ErrCodeConfig, err)
	}

	slog.SetDefault(slog.New(cfg.Log.Handler(cmd.ErrOrStderr(), o.Verbose)))
	o.cfg = &cfg
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
