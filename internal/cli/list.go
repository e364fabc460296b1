package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/store"
	"github.com/roach88/purse/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Sort   string
	Filter string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long: `List accounts, filtered by type and sorted.

Sorting by name follows the collation of the configured locale. Sorting by
balance or creation time puts the largest or newest first.

Example:
  purse list
  purse list --sort balance --filter card`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", string(view.DefaultSort), "sort order: name, balance or createdAt")
	cmd.Flags().StringVar(&opts.Filter, "filter", string(view.DefaultFilter), "type filter: all, card, cash or custom")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	return withStore(cmd, opts.RootOptions, func(_ context.Context, s *store.Store, out *OutputFormatter) error {
		if err := s.SetSort(view.SortKey(opts.Sort)); err != nil {
			return err
		}
		if err := s.SetFilter(view.FilterKey(opts.Filter)); err != nil {
			return err
		}
		shown, err := s.Display()
		if err != nil {
			return err
		}
		out.VerboseLog("%d account(s), sort=%s filter=%s", len(shown), s.SortBy(), s.FilterType())
		return out.Success(newAccountList(shown))
	})
}
