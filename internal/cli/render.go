package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/purse/internal/account"
)

// accountView is the CLI shape of one account.
type accountView struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           account.Kind     `json:"type"`
	Balance        decimal.Decimal  `json:"balance"`
	Currency       account.Currency `json:"currency"`
	IncludeInTotal bool             `json:"includeInTotal"`
	CreatedAt      time.Time        `json:"createdAt"`

	CardType    account.CardType `json:"cardType,omitempty"`
	Icon        string           `json:"icon,omitempty"`
	Description string           `json:"description,omitempty"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
}

func newAccountView(a account.Account) accountView {
	v := accountView{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		Balance:        a.Balance,
		Currency:       a.Currency,
		IncludeInTotal: a.IncludeInTotal,
		CreatedAt:      a.CreatedAt.UTC(),
	}
	if a.Card != nil {
		v.CardType = a.Card.CardType
		v.Icon = a.Card.Icon
		v.Description = a.Card.Description
		v.CreditLimit = a.Card.CreditLimit
	}
	return v
}

// RenderText prints one account as aligned key/value lines.
func (v accountView) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", v.ID)
	fmt.Fprintf(tw, "name:\t%s\n", v.Name)
	fmt.Fprintf(tw, "type:\t%s\n", v.Type)
	fmt.Fprintf(tw, "balance:\t%s\n", account.FormatAmount(v.Balance, v.Currency))
	fmt.Fprintf(tw, "in total:\t%t\n", v.IncludeInTotal)
	fmt.Fprintf(tw, "created:\t%s\n", v.CreatedAt.Format(time.RFC3339))
	if v.Type == account.KindCard {
		fmt.Fprintf(tw, "card type:\t%s\n", v.CardType)
		fmt.Fprintf(tw, "icon:\t%s\n", v.Icon)
		if v.Description != "" {
			fmt.Fprintf(tw, "description:\t%s\n", v.Description)
		}
		if v.CreditLimit != nil {
			fmt.Fprintf(tw, "credit limit:\t%s\n", account.FormatAmount(*v.CreditLimit, v.Currency))
		}
	}
	return tw.Flush()
}

// accountList is the payload of the list command.
type accountList []accountView

func newAccountList(accounts []account.Account) accountList {
	out := make(accountList, len(accounts))
	for i, a := range accounts {
		out[i] = newAccountView(a)
	}
	return out
}

// RenderText prints one row per account.
func (l accountList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "no accounts")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBALANCE\tTYPE")
	for _, v := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.Name, account.FormatAmount(v.Balance, v.Currency), v.Type)
	}
	return tw.Flush()
}

// deleted is the payload of the delete command.
type deleted struct {
	ID string `json:"id"`
}

func (d deleted) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "deleted %s\n", d.ID)
	return err
}
