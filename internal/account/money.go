package account

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Fraction returns the number of minor-unit digits of the currency
// (2 for most, 0 for JPY).
func (c Currency) Fraction() int32 {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return 2
	}
	return int32(cur.Fraction)
}

// FormatAmount renders an amount with the currency's minor-unit precision
// followed by its code, e.g. "1234.50 USD".
func FormatAmount(amount decimal.Decimal, c Currency) string {
	return amount.StringFixed(c.Fraction()) + " " + string(c)
}

// FormatBalance renders an amount the way the currency is written,
// with its symbol and thousands separators, e.g. "$1,234.50".
func FormatBalance(amount decimal.Decimal, c Currency) string {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return FormatAmount(amount, c)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
