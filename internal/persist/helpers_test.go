package persist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purse/internal/account"
)

var baseTime = time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

// sampleAccounts covers every variant and optional field.
func sampleAccounts() []account.Account {
	limit := decimal.RequireFromString("75000.00")
	return []account.Account{
		{
			ID:             "initial-card",
			Name:           "Основная карта",
			Balance:        decimal.Zero,
			Type:           account.KindCard,
			Currency:       account.RUB,
			Card:           &account.CardDetails{CardType: account.CardNormal, Icon: "credit-card"},
			IncludeInTotal: true,
			CreatedAt:      baseTime,
		},
		{
			ID:             "acc-2",
			Name:           "Credit",
			Balance:        decimal.RequireFromString("-1250.75"),
			Type:           account.KindCard,
			Currency:       account.EUR,
			Card: &account.CardDetails{
				CardType:    account.CardDebt,
				Icon:        "bank",
				Description: "rainy day",
				CreditLimit: &limit,
			},
			IncludeInTotal: false,
			CreatedAt:      baseTime.Add(1500 * time.Millisecond),
		},
		{
			ID:        "acc-3",
			Name:      "Piggy",
			Balance:   decimal.NewFromInt(300000),
			Type:      account.KindCustom,
			Currency:  account.JPY,
			CreatedAt: baseTime.Add(time.Nanosecond),
			Unknown:   map[string]json.RawMessage{"color": json.RawMessage(`"#ff0000"`)},
		},
	}
}

// requireSameAccounts asserts element-wise value equality.
func requireSameAccounts(t *testing.T, want, got []account.Account) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Truef(t, want[i].Equal(got[i]), "record %d differs:\nwant %+v\ngot  %+v", i, want[i], got[i])
	}
}
