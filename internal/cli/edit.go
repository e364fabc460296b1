package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/store"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Name           string
	Currency       string
	Balance        string
	IncludeInTotal bool
	CardType       string
	Icon           string
	Description    string
	CreditLimit    string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an account",
		Long: `Change fields of an existing account.

Only the flags given on the command line are applied; everything else keeps
its stored value. The id, type and creation time never change. Card flags
are ignored for cash and custom accounts.

Example:
  purse edit initial-card --name "Salary card" --balance 1520.75
  purse edit initial-cash --include-in-total=false`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.Currency, "currency", "", "new currency code")
	cmd.Flags().StringVar(&opts.Balance, "balance", "", "new balance")
	cmd.Flags().BoolVar(&opts.IncludeInTotal, "include-in-total", true, "count the account in the total")
	cmd.Flags().StringVar(&opts.CardType, "card-type", "", "new card type")
	cmd.Flags().StringVar(&opts.Icon, "icon", "", "new card icon")
	cmd.Flags().StringVar(&opts.Description, "description", "", "new card description")
	cmd.Flags().StringVar(&opts.CreditLimit, "credit-limit", "", "new card credit limit")

	return cmd
}

func runEdit(opts *EditOptions, id string, cmd *cobra.Command) error {
	return withStore(cmd, opts.RootOptions, func(ctx context.Context, s *store.Store, out *OutputFormatter) error {
		p, err := opts.patch(cmd)
		if err != nil {
			return err
		}
		if p.IsEmpty() {
			out.VerboseLog("no fields given, nothing to change")
		}
		a, err := s.Edit(ctx, id, p)
		if err != nil {
			return err
		}
		return out.Success(newAccountView(a))
	})
}

// patch builds a patch from the flags that were set.
func (o *EditOptions) patch(cmd *cobra.Command) (account.Patch, error) {
	var p account.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		if err := account.CheckNameLength(o.Name); err != nil {
			return p, err
		}
		p.Name = &o.Name
	}
	if changed("currency") {
		c, err := account.ParseCurrency(o.Currency)
		if err != nil {
			return p, err
		}
		p.Currency = &c
	}
	if changed("balance") {
		b, err := account.ParseAmount("balance", o.Balance)
		if err != nil {
			return p, err
		}
		p.Balance = &b
	}
	if changed("include-in-total") {
		p.IncludeInTotal = &o.IncludeInTotal
	}
	if changed("card-type") {
		ct, err := account.ParseCardType(o.CardType)
		if err != nil {
			return p, err
		}
		p.CardType = &ct
	}
	if changed("icon") {
		p.Icon = &o.Icon
	}
	if changed("description") {
		p.Description = &o.Description
	}
	if changed("credit-limit") {
		limit, err := account.ParseAmount("creditLimit", o.CreditLimit)
		if err != nil {
			return p, err
		}
		p.CreditLimit = &limit
	}
	return p, nil
}
