package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the caller-supplied part of a new account. The store assigns
// ID and CreatedAt.
type Draft struct {
	Name           string
	Balance        decimal.Decimal
	Type           Kind
	Currency       Currency
	IncludeInTotal bool
	Card           *CardDetails
}

// NewCardDraft returns a card draft with the defaults of the create-card form:
// normal card type, default icon, counted in the total.
func NewCardDraft(name string, currency Currency) Draft {
	return Draft{
		Name:           name,
		Type:           KindCard,
		Currency:       currency,
		IncludeInTotal: true,
		Card:           DefaultCardDetails(),
	}
}

// Validate checks the draft. Returns nil or ValidationErrors.
func (d Draft) Validate() error {
	if errs := validateFields(d.Name, d.Type, d.Currency, d.Card); len(errs) > 0 {
		return errs
	}
	return nil
}

// Build finalizes the draft into an account. A card draft without details
// gets DefaultCardDetails.
func (d Draft) Build(id string, createdAt time.Time) Account {
	card := d.Card.clone()
	if d.Type == KindCard && card == nil {
		card = DefaultCardDetails()
	}
	return Account{
		ID:             id,
		Name:           NormalizeName(d.Name),
		Balance:        d.Balance,
		Type:           d.Type,
		Currency:       d.Currency,
		Card:           card,
		IncludeInTotal: d.IncludeInTotal,
		CreatedAt:      createdAt,
	}
}

// Patch is a partial update. A nil field is absent and leaves the stored
// value untouched.
//
// ID, Type and CreatedAt are accepted so a full record can be sent back,
// but Apply ignores them.
type Patch struct {
	Name           *string          `json:"name,omitempty"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	Currency       *Currency        `json:"currency,omitempty"`
	IncludeInTotal *bool            `json:"includeInTotal,omitempty"`
	CardType       *CardType        `json:"cardType,omitempty"`
	Icon           *string          `json:"icon,omitempty"`
	Description    *string          `json:"description,omitempty"`
	CreditLimit    *decimal.Decimal `json:"creditLimit,omitempty"`

	ID        *string    `json:"id,omitempty"`
	Type      *Kind      `json:"type,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Balance == nil && p.Currency == nil &&
		p.IncludeInTotal == nil && !p.touchesCard()
}

func (p Patch) touchesCard() bool {
	return p.CardType != nil || p.Icon != nil || p.Description != nil || p.CreditLimit != nil
}

// Apply returns a copy of a with the present fields merged in.
// Card fields are dropped for non-card accounts.
func (p Patch) Apply(a Account) Account {
	out := a.Clone()
	if p.Name != nil {
		out.Name = NormalizeName(*p.Name)
	}
	if p.Balance != nil {
		out.Balance = *p.Balance
	}
	if p.Currency != nil {
		out.Currency = *p.Currency
	}
	if p.IncludeInTotal != nil {
		out.IncludeInTotal = *p.IncludeInTotal
	}
	if out.Card == nil || !p.touchesCard() {
		return out
	}
	if p.CardType != nil {
		out.Card.CardType = *p.CardType
	}
	if p.Icon != nil {
		out.Card.Icon = *p.Icon
	}
	if p.Description != nil {
		out.Card.Description = *p.Description
	}
	if p.CreditLimit != nil {
		limit := *p.CreditLimit
		out.Card.CreditLimit = &limit
	}
	return out
}
