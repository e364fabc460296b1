package account

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func cardAccount() Account {
	limit := decimal.RequireFromString("50000")
	return Account{
		ID:       "acc-1",
		Name:     "Tinkoff Black",
		Balance:  decimal.RequireFromString("1200.50"),
		Type:     KindCard,
		Currency: RUB,
		Card: &CardDetails{
			CardType:    CardDebt,
			Icon:        "bank",
			Description: "main card",
			CreditLimit: &limit,
		},
		IncludeInTotal: true,
		CreatedAt:      testTime,
		Unknown:        map[string]json.RawMessage{"color": json.RawMessage(`"#4A90E2"`)},
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.Valid(), "kind %q", k)
	}
	assert.False(t, Kind("all").Valid(), "all is a filter key, not a kind")
	assert.False(t, Kind("").Valid())
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range Currencies {
		assert.True(t, c.Valid(), "currency %q", c)
	}
	assert.False(t, Currency("CHF").Valid())
	assert.False(t, Currency("rub").Valid())
}

func TestClone_IsDeep(t *testing.T) {
	a := cardAccount()
	b := a.Clone()

	b.Card.Icon = "wallet"
	*b.Card.CreditLimit = decimal.NewFromInt(1)
	b.Unknown["color"] = json.RawMessage(`"red"`)

	assert.Equal(t, "bank", a.Card.Icon)
	assert.True(t, a.Card.CreditLimit.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, `"#4A90E2"`, string(a.Unknown["color"]))
}

func TestCloneAll_Nil(t *testing.T) {
	assert.Nil(t, CloneAll(nil))
	assert.Len(t, CloneAll([]Account{}), 0)
}

func TestDraftBuild(t *testing.T) {
	d := Draft{
		Name:           "  Wallet  ",
		Type:           KindCash,
		Currency:       USD,
		IncludeInTotal: true,
	}
	require.NoError(t, d.Validate())

	a := d.Build("acc-7", testTime)
	assert.Equal(t, "acc-7", a.ID)
	assert.Equal(t, "Wallet", a.Name)
	assert.True(t, a.Balance.IsZero())
	assert.Nil(t, a.Card)
	assert.Equal(t, testTime, a.CreatedAt)
	assert.NoError(t, Validate(a))
}

func TestDraftBuild_CardGetsDefaults(t *testing.T) {
	d := Draft{Name: "Visa", Type: KindCard, Currency: EUR}
	a := d.Build("acc-1", testTime)

	require.NotNil(t, a.Card)
	assert.Equal(t, CardNormal, a.Card.CardType)
	assert.Equal(t, DefaultIcon, a.Card.Icon)
	assert.NoError(t, Validate(a))
}

func TestNewCardDraft(t *testing.T) {
	d := NewCardDraft("Visa", USD)
	assert.Equal(t, KindCard, d.Type)
	assert.True(t, d.IncludeInTotal)
	require.NotNil(t, d.Card)
	assert.Equal(t, CardNormal, d.Card.CardType)
	assert.Equal(t, "credit-card", d.Card.Icon)
}

func TestNormalizeName(t *testing.T) {
	decomposed := "\u0438\u0306" // и + combining breve
	assert.Equal(t, "\u0439", NormalizeName(" "+decomposed+"\t"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00 RUB", FormatAmount(decimal.Zero, RUB))
	assert.Equal(t, "-12.50 EUR", FormatAmount(decimal.RequireFromString("-12.5"), EUR))
	assert.Equal(t, "1500 JPY", FormatAmount(decimal.NewFromInt(1500), JPY))
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatBalance(decimal.RequireFromString("1234.5"), USD))
	assert.Equal(t, int32(0), JPY.Fraction())
	assert.Equal(t, int32(2), GBP.Fraction())
}

func TestEqual(t *testing.T) {
	a := cardAccount()
	b := a.Clone()
	assert.True(t, a.Equal(b))

	// same value, different representation
	b.Balance = decimal.RequireFromString("1200.5000")
	b.CreatedAt = testTime.In(time.FixedZone("MSK", 3*3600))
	assert.True(t, a.Equal(b))

	b.Card.Icon = "other"
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Unknown = nil
	assert.False(t, a.Equal(c))

	assert.True(t, EqualAll([]Account{a}, []Account{a.Clone()}))
	assert.False(t, EqualAll([]Account{a}, nil))
}
