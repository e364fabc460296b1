package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/store"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name             string
	Type             string
	Currency         string
	Balance          string
	CardType         string
	Icon             string
	Description      string
	CreditLimit      string
	ExcludeFromTotal bool
}

// cardFlags are only meaningful for card accounts.
var cardFlags = []string{"card-type", "icon", "description", "credit-limit"}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Long: `Add a card, cash or custom account.

Card flags (--card-type, --icon, --description, --credit-limit) are only
accepted for --type card.

Example:
  purse add --name Wallet --type cash --currency USD --balance 12.50
  purse add --name "Tinkoff Black" --type card --card-type debt --credit-limit 50000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "account type: card, cash or custom (required)")
	cmd.Flags().StringVar(&opts.Currency, "currency", string(account.RUB), "currency code: RUB, USD, EUR, GBP or JPY")
	cmd.Flags().StringVar(&opts.Balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&opts.CardType, "card-type", string(account.CardNormal), "card type: normal, savings or debt")
	cmd.Flags().StringVar(&opts.Icon, "icon", account.DefaultIcon, "card icon")
	cmd.Flags().StringVar(&opts.Description, "description", "", "card description")
	cmd.Flags().StringVar(&opts.CreditLimit, "credit-limit", "", "card credit limit")
	cmd.Flags().BoolVar(&opts.ExcludeFromTotal, "exclude-from-total", false, "leave the account out of the total")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	return withStore(cmd, opts.RootOptions, func(ctx context.Context, s *store.Store, out *OutputFormatter) error {
		d, err := opts.draft(cmd)
		if err != nil {
			return err
		}
		a, err := s.Add(ctx, d)
		if err != nil {
			return err
		}
		out.VerboseLog("added %s", a.ID)
		return out.Success(newAccountView(a))
	})
}

// draft turns the flags into an account draft. Parse failures come back
// as account validation errors.
func (o *AddOptions) draft(cmd *cobra.Command) (account.Draft, error) {
	if err := account.CheckNameLength(o.Name); err != nil {
		return account.Draft{}, err
	}
	kind, err := account.ParseKind(o.Type)
	if err != nil {
		return account.Draft{}, err
	}
	currency, err := account.ParseCurrency(o.Currency)
	if err != nil {
		return account.Draft{}, err
	}
	balance, err := account.ParseAmount("balance", o.Balance)
	if err != nil {
		return account.Draft{}, err
	}

	d := account.Draft{
		Name:           o.Name,
		Type:           kind,
		Currency:       currency,
		Balance:        balance,
		IncludeInTotal: !o.ExcludeFromTotal,
	}
	if kind != account.KindCard && !anyChanged(cmd, cardFlags...) {
		return d, nil
	}

	// A non-card draft with card flags keeps its details so validation
	// rejects them.
	card := account.DefaultCardDetails()
	if card.CardType, err = account.ParseCardType(o.CardType); err != nil {
		return account.Draft{}, err
	}
	card.Icon = o.Icon
	card.Description = o.Description
	if o.CreditLimit != "" {
		limit, err := account.ParseAmount("creditLimit", o.CreditLimit)
		if err != nil {
			return account.Draft{}, err
		}
		card.CreditLimit = &limit
	}
	d.Card = card
	return d, nil
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
