package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/purse/internal/account"
)

// Ids of the starter accounts seeded on first run.
const (
	InitialCardID = "initial-card"
	InitialCashID = "initial-cash"
)

// DefaultAccounts returns the starter collection: one card and one cash
// account, both empty and in roubles.
func DefaultAccounts(now time.Time) []account.Account {
	return []account.Account{
		{
			ID:             InitialCardID,
			Name:           "Основная карта",
			Balance:        decimal.Zero,
			Type:           account.KindCard,
			Currency:       account.RUB,
			Card:           account.DefaultCardDetails(),
			IncludeInTotal: true,
			CreatedAt:      now,
		},
		{
			ID:             InitialCashID,
			Name:           "Наличные",
			Balance:        decimal.Zero,
			Type:           account.KindCash,
			Currency:       account.RUB,
			IncludeInTotal: true,
			CreatedAt:      now,
		},
	}
}
