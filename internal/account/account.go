package account

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the account type. It is fixed at creation.
type Kind string

const (
	KindCard   Kind = "card"
	KindCash   Kind = "cash"
	KindCustom Kind = "custom"
)

// Kinds lists every valid Kind in display order.
var Kinds = []Kind{KindCard, KindCash, KindCustom}

// Valid reports whether k is one of the closed set of kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCard, KindCash, KindCustom:
		return true
	}
	return false
}

// CardType distinguishes the purpose of a card account.
type CardType string

const (
	CardNormal  CardType = "normal"
	CardSavings CardType = "savings"
	CardDebt    CardType = "debt"
)

// CardTypes lists every valid CardType in display order.
var CardTypes = []CardType{CardNormal, CardSavings, CardDebt}

// Valid reports whether c is one of the closed set of card types.
func (c CardType) Valid() bool {
	switch c {
	case CardNormal, CardSavings, CardDebt:
		return true
	}
	return false
}

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	RUB Currency = "RUB"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

// Currencies lists every supported Currency in display order.
var Currencies = []Currency{RUB, USD, EUR, GBP, JPY}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case RUB, USD, EUR, GBP, JPY:
		return true
	}
	return false
}

// DefaultIcon is the icon preselected for new cards.
const DefaultIcon = "credit-card"

// CardDetails holds the fields that only mean something for card accounts.
type CardDetails struct {
	CardType    CardType
	Icon        string
	Description string
	CreditLimit *decimal.Decimal
}

// DefaultCardDetails returns the details a new card starts with.
func DefaultCardDetails() *CardDetails {
	return &CardDetails{CardType: CardNormal, Icon: DefaultIcon}
}

func (c *CardDetails) clone() *CardDetails {
	if c == nil {
		return nil
	}
	out := *c
	if c.CreditLimit != nil {
		limit := *c.CreditLimit
		out.CreditLimit = &limit
	}
	return &out
}

// Account is a single personal account.
//
// Card is the variant payload: set for KindCard, nil otherwise. Validate
// enforces this.
type Account struct {
	ID             string
	Name           string
	Balance        decimal.Decimal
	Type           Kind
	Currency       Currency
	Card           *CardDetails
	IncludeInTotal bool
	CreatedAt      time.Time

	// Unknown holds persisted fields this build does not understand.
	// They are written back unchanged on the next save.
	Unknown map[string]json.RawMessage
}

// IsCard reports whether a is a card account.
func (a Account) IsCard() bool {
	return a.Type == KindCard
}

// Clone returns a deep copy of a.
func (a Account) Clone() Account {
	out := a
	out.Card = a.Card.clone()
	if a.Unknown != nil {
		out.Unknown = maps.Clone(a.Unknown)
	}
	return out
}

// CloneAll deep-copies a collection.
func CloneAll(accounts []Account) []Account {
	if accounts == nil {
		return nil
	}
	out := make([]Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Clone()
	}
	return out
}

// Equal reports whether a and b hold the same values. Amounts and times
// are compared by value, not by representation.
func (a Account) Equal(b Account) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Type != b.Type || a.Currency != b.Currency ||
		a.IncludeInTotal != b.IncludeInTotal {
		return false
	}
	if !a.Balance.Equal(b.Balance) || !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	if !a.Card.equal(b.Card) {
		return false
	}
	return maps.EqualFunc(a.Unknown, b.Unknown, func(x, y json.RawMessage) bool {
		return string(x) == string(y)
	})
}

func (c *CardDetails) equal(o *CardDetails) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.CardType != o.CardType || c.Icon != o.Icon || c.Description != o.Description {
		return false
	}
	if c.CreditLimit == nil || o.CreditLimit == nil {
		return c.CreditLimit == o.CreditLimit
	}
	return c.CreditLimit.Equal(*o.CreditLimit)
}

// EqualAll reports whether two collections are element-wise Equal.
func EqualAll(a, b []Account) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
