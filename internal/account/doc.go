// Package account defines the Account entity, its closed enumerations and
// the validation rules every stored record satisfies.
//
// This package contains no I/O. All other internal packages import account;
// account imports nothing internal.
//
// Key constraints:
//   - Card-only metadata lives in Account.Card, which is non-nil iff the
//     account type is KindCard
//   - Amounts are decimal.Decimal, never float64
//   - Id and CreatedAt are assigned by the store and never change
package account
