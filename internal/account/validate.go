package account

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Validation error codes (E201-E211)
const (
	ErrNameEmpty         = "E201" // name is required
	ErrUnknownKind       = "E202" // type outside the closed set
	ErrUnknownCurrency   = "E203" // currency outside the closed set
	ErrUnknownCardType   = "E204" // card type outside the closed set
	ErrCardOnNonCard     = "E205" // card details on cash/custom account
	ErrCardMissing       = "E206" // card account without card details
	ErrIDMissing         = "E207" // id is required
	ErrCreatedAtMissing  = "E208" // createdAt is required
	ErrUnknownViewOption = "E209" // sort or filter key outside the closed set
	ErrInvalidAmount     = "E210" // balance or credit limit is not a decimal number
	ErrNameTooLong       = "E211" // name longer than MaxNameLength
)

// MaxNameLength is the longest name, in runes, the input forms accept.
const MaxNameLength = 32

// ValidationError describes one rule an account (or draft) breaks.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is every rule an input breaks, in field order.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// IsValidationError returns true if err is or wraps a validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var list ValidationErrors
	if errors.As(err, &list) {
		return true
	}
	var ve ValidationError
	return errors.As(err, &ve)
}

// NormalizeName trims surrounding space and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate checks a stored account against every rule.
// Returns nil or ValidationErrors (not fail-fast).
func Validate(a Account) error {
	var errs ValidationErrors
	if a.ID == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "id is required", Code: ErrIDMissing})
	}
	errs = append(errs, validateFields(a.Name, a.Type, a.Currency, a.Card)...)
	if a.Type == KindCard && a.Card == nil {
		errs = append(errs, ValidationError{
			Field:   "card",
			Message: "card account requires card details",
			Code:    ErrCardMissing,
		})
	}
	if a.CreatedAt.IsZero() {
		errs = append(errs, ValidationError{Field: "createdAt", Message: "createdAt is required", Code: ErrCreatedAtMissing})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateFields checks the caller-supplied part of an account.
func validateFields(name string, kind Kind, currency Currency, card *CardDetails) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrNameEmpty,
		})
	}

	if !kind.Valid() {
		errs = append(errs, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("invalid type %q, must be one of: card, cash, custom", kind),
			Code:    ErrUnknownKind,
		})
	}

	if !currency.Valid() {
		errs = append(errs, ValidationError{
			Field:   "currency",
			Message: fmt.Sprintf("invalid currency %q, must be one of: RUB, USD, EUR, GBP, JPY", currency),
			Code:    ErrUnknownCurrency,
		})
	}

	if card != nil {
		if kind.Valid() && kind != KindCard {
			errs = append(errs, ValidationError{
				Field:   "card",
				Message: fmt.Sprintf("card details are not allowed on %s accounts", kind),
				Code:    ErrCardOnNonCard,
			})
		}
		if !card.CardType.Valid() {
			errs = append(errs, ValidationError{
				Field:   "cardType",
				Message: fmt.Sprintf("invalid card type %q, must be one of: normal, savings, debt", card.CardType),
				Code:    ErrUnknownCardType,
			})
		}
	}

	return errs
}

// ParseAmount parses a decimal amount such as "1234.50" or "-20".
func ParseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ValidationError{Field: field, Message: fmt.Sprintf("invalid amount %q", s), Code: ErrInvalidAmount}
	}
	return d, nil
}

// CheckNameLength rejects names longer than MaxNameLength after
// normalization.
func CheckNameLength(name string) error {
	if n := utf8.RuneCountInString(NormalizeName(name)); n > MaxNameLength {
		return ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name is %d characters, at most %d allowed", n, MaxNameLength),
			Code:    ErrNameTooLong,
		}
	}
	return nil
}

// ParseKind parses a type name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", s), Code: ErrUnknownKind}
	}
	return k, nil
}

// ParseCurrency parses a currency code, case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ValidationError{Field: "currency", Message: fmt.Sprintf("unknown currency %q", s), Code: ErrUnknownCurrency}
	}
	return c, nil
}

// ParseCardType parses a card type name, case-insensitively.
func ParseCardType(s string) (CardType, error) {
	c := CardType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ValidationError{Field: "cardType", Message: fmt.Sprintf("unknown card type %q", s), Code: ErrUnknownCardType}
	}
	return c, nil
}
