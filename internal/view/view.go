// Package view derives displayable account lists from a collection.
//
// Every function here is pure: inputs are never modified and the same
// inputs always give the same output.
package view

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/purse/internal/account"
)

// SortKey selects the display order.
type SortKey string

const (
	SortByName      SortKey = "name"      // ascending, locale-aware
	SortByBalance   SortKey = "balance"   // descending
	SortByCreatedAt SortKey = "createdAt" // newest first
)

// SortKeys lists every valid SortKey.
var SortKeys = []SortKey{SortByName, SortByBalance, SortByCreatedAt}

// Valid reports whether k is a known sort order.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// FilterKey selects which account types are shown.
type FilterKey string

const (
	FilterAll    FilterKey = "all"
	FilterCard   FilterKey = FilterKey(account.KindCard)
	FilterCash   FilterKey = FilterKey(account.KindCash)
	FilterCustom FilterKey = FilterKey(account.KindCustom)
)

// FilterKeys lists every valid FilterKey.
var FilterKeys = []FilterKey{FilterAll, FilterCard, FilterCash, FilterCustom}

// Valid reports whether k is a known filter.
func (k FilterKey) Valid() bool {
	return slices.Contains(FilterKeys, k)
}

// Defaults applied to every new session.
const (
	DefaultSort   = SortByName
	DefaultFilter = FilterAll
)

// ParseSortKey parses a sort key, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", account.ValidationError{
		Field:   "sortBy",
		Message: fmt.Sprintf("invalid sort key %q, must be one of: name, balance, createdAt", s),
		Code:    account.ErrUnknownViewOption,
	}
}

// ParseFilterKey parses a filter key, case-insensitively.
func ParseFilterKey(s string) (FilterKey, error) {
	for _, k := range FilterKeys {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", account.ValidationError{
		Field:   "filterType",
		Message: fmt.Sprintf("invalid filter %q, must be one of: all, card, cash, custom", s),
		Code:    account.ErrUnknownViewOption,
	}
}

// Filter returns the accounts whose type matches, in input order.
// FilterAll returns the input unchanged.
func Filter(accounts []account.Account, f FilterKey) []account.Account {
	if f == FilterAll {
		return accounts
	}
	out := make([]account.Account, 0, len(accounts))
	for _, a := range accounts {
		if FilterKey(a.Type) == f {
			out = append(out, a)
		}
	}
	return out
}

// Sort returns a new slice ordered by key. Ties keep their input order.
// Names are compared with the collation rules of tag.
func Sort(accounts []account.Account, key SortKey, tag language.Tag) []account.Account {
	out := slices.Clone(accounts)

	switch key {
	case SortByName:
		// Collators keep internal buffers; one per call keeps Sort safe for concurrent use.
		c := collate.New(tag)
		slices.SortStableFunc(out, func(a, b account.Account) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortByBalance:
		slices.SortStableFunc(out, func(a, b account.Account) int {
			return b.Balance.Cmp(a.Balance)
		})
	case SortByCreatedAt:
		slices.SortStableFunc(out, func(a, b account.Account) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

// Display is the canonical pipeline: filter first, then sort.
func Display(accounts []account.Account, f FilterKey, key SortKey, tag language.Tag) []account.Account {
	return Sort(Filter(accounts, f), key, tag)
}
