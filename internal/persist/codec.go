package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/purse/internal/account"
)

// CurrentVersion is the envelope version written by Encode.
const CurrentVersion = 1

type envelope struct {
	Version  int               `json:"version"`
	SavedAt  time.Time         `json:"savedAt"`
	Accounts []json.RawMessage `json:"accounts"`
}

// probe reads just enough of an object payload to pick a shape.
type probe struct {
	Version  *int            `json:"version"`
	Accounts json.RawMessage `json:"accounts"`
	State    *struct {
		Accounts json.RawMessage `json:"accounts"`
	} `json:"state"`
}

// record is the wire form of one account.
type record struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Balance        decimal.Decimal  `json:"balance"`
	Type           account.Kind     `json:"type"`
	CardType       account.CardType `json:"cardType,omitempty"`
	Currency       account.Currency `json:"currency"`
	Icon           string           `json:"icon,omitempty"`
	Description    string           `json:"description,omitempty"`
	CreditLimit    *decimal.Decimal `json:"creditLimit,omitempty"`
	IncludeInTotal *bool            `json:"includeInTotal,omitempty"`
	CreatedAt      wireTime         `json:"createdAt"`
}

// recordFields are the keys record understands.
var recordFields = map[string]bool{
	"id": true, "name": true, "balance": true, "type": true, "currency": true,
	"includeInTotal": true, "createdAt": true,
}

// cardFields are only understood on card records; elsewhere they pass through.
var cardFields = map[string]bool{
	"cardType": true, "icon": true, "description": true, "creditLimit": true,
}

// wireTime is an RFC 3339 timestamp on write; on read it also accepts
// epoch milliseconds.
type wireTime time.Time

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		*t = wireTime(parsed.UTC())
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("createdAt: want RFC 3339 string or epoch milliseconds, got %s", data)
	}
	*t = wireTime(time.UnixMilli(ms).UTC())
	return nil
}

// Encode serializes the collection into the current envelope.
func Encode(accounts []account.Account, savedAt time.Time) ([]byte, error) {
	env := envelope{
		Version:  CurrentVersion,
		SavedAt:  savedAt.UTC(),
		Accounts: make([]json.RawMessage, 0, len(accounts)),
	}
	for i, a := range accounts {
		raw, err := encodeRecord(a)
		if err != nil {
			return nil, fmt.Errorf("encode account %d (%s): %w", i, a.ID, err)
		}
		env.Accounts = append(env.Accounts, raw)
	}
	return json.MarshalIndent(env, "", "  ")
}

func encodeRecord(a account.Account) (json.RawMessage, error) {
	include := a.IncludeInTotal
	rec := record{
		ID:             a.ID,
		Name:           a.Name,
		Balance:        a.Balance,
		Type:           a.Type,
		Currency:       a.Currency,
		IncludeInTotal: &include,
		CreatedAt:      wireTime(a.CreatedAt),
	}
	if a.Card != nil {
		rec.CardType = a.Card.CardType
		rec.Icon = a.Card.Icon
		rec.Description = a.Card.Description
		rec.CreditLimit = a.Card.CreditLimit
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if len(a.Unknown) == 0 {
		return raw, nil
	}

	// Merge pass-through fields; known fields win.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range a.Unknown {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// Decode parses any supported payload shape.
func Decode(data []byte) ([]account.Account, error) {
	version, rawAccounts, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if len(rawAccounts) > 0 && !bytes.Equal(rawAccounts, []byte("null")) {
		if err := json.Unmarshal(rawAccounts, &records); err != nil {
			return nil, &SchemaError{Version: version, Index: -1, Message: "accounts is not a list", Err: err}
		}
	}

	accounts := make([]account.Account, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, raw := range records {
		if err := checkRecord(raw); err != nil {
			return nil, &SchemaError{Version: version, Index: i, Message: err.Error(), Err: err}
		}
		a, err := decodeRecord(raw)
		if err != nil {
			return nil, &SchemaError{Version: version, Index: i, Message: err.Error(), Err: err}
		}
		if prev, dup := seen[a.ID]; dup {
			return nil, &SchemaError{
				Version: version,
				Index:   i,
				Message: fmt.Sprintf("duplicate id %q (first at record %d)", a.ID, prev),
			}
		}
		seen[a.ID] = i
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// unwrap finds the record list and payload version.
func unwrap(data []byte) (int, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0, nil, &SchemaError{Index: -1, Message: "empty payload"}
	}

	switch trimmed[0] {
	case '[':
		return 0, trimmed, nil
	case '{':
		var p probe
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return 0, nil, &SchemaError{Index: -1, Message: "malformed payload", Err: err}
		}
		if p.State != nil {
			if missing(p.State.Accounts) {
				return 0, nil, &SchemaError{Index: -1, Message: "persisted state has no accounts list"}
			}
			return 0, p.State.Accounts, nil
		}
		version := 0
		if p.Version != nil {
			version = *p.Version
		}
		if version > CurrentVersion {
			return version, nil, &SchemaError{
				Version: version,
				Index:   -1,
				Message: fmt.Sprintf("payload version %d is newer than supported version %d", version, CurrentVersion),
			}
		}
		if missing(p.Accounts) {
			return version, nil, &SchemaError{Version: version, Index: -1, Message: "payload has no accounts list"}
		}
		return version, p.Accounts, nil
	default:
		return 0, nil, &SchemaError{Index: -1, Message: "payload is neither a list nor an object"}
	}
}

// missing reports an absent or null field. An explicit [] is present.
func missing(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeRecord(raw json.RawMessage) (account.Account, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return account.Account{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return account.Account{}, err
	}

	a := account.Account{
		ID:             rec.ID,
		Name:           rec.Name,
		Balance:        rec.Balance,
		Type:           rec.Type,
		Currency:       rec.Currency,
		IncludeInTotal: true,
		CreatedAt:      time.Time(rec.CreatedAt),
	}
	if rec.IncludeInTotal != nil {
		a.IncludeInTotal = *rec.IncludeInTotal
	}
	if rec.Type == account.KindCard {
		cardType := rec.CardType
		if cardType == "" {
			cardType = account.CardNormal
		}
		a.Card = &account.CardDetails{
			CardType:    cardType,
			Icon:        rec.Icon,
			Description: rec.Description,
			CreditLimit: rec.CreditLimit,
		}
	}

	for k, v := range fields {
		if recordFields[k] || (a.Card != nil && cardFields[k]) {
			continue
		}
		if a.Unknown == nil {
			a.Unknown = make(map[string]json.RawMessage)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, v); err != nil {
			return account.Account{}, err
		}
		a.Unknown[k] = json.RawMessage(compact.Bytes())
	}

	if err := account.Validate(a); err != nil {
		return account.Account{}, err
	}
	return a, nil
}
