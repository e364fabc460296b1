package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/store"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long: `Delete an account by id.

Deleting an id that does not exist succeeds and changes nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(ctx context.Context, s *store.Store, out *OutputFormatter) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(deleted{ID: args[0]})
			})
		},
	}
}
