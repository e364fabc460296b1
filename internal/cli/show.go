package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one account",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(_ context.Context, s *store.Store, out *OutputFormatter) error {
				a, err := s.Get(args[0])
				if err != nil {
					return err
				}
				return out.Success(newAccountView(a))
			})
		},
	}
}
