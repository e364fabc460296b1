package persist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purse/internal/account"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := sampleAccounts()

	data, err := Encode(want, baseTime)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	requireSameAccounts(t, want, got)

	// nanosecond precision survives
	assert.Equal(t, time.Nanosecond, got[2].CreatedAt.Sub(baseTime))
}

func TestEncode_Envelope(t *testing.T) {
	data, err := Encode(sampleAccounts()[:1], baseTime)
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	assert.JSONEq(t, `1`, string(env["version"]))
	assert.JSONEq(t, `"2025-01-02T03:04:05.678Z"`, string(env["savedAt"]))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(env["accounts"], &records))
	require.Len(t, records, 1)
	assert.Equal(t, "initial-card", records[0]["id"])
	assert.Equal(t, "normal", records[0]["cardType"])
	assert.Equal(t, "2025-01-02T03:04:05.678Z", records[0]["createdAt"])
	assert.Equal(t, true, records[0]["includeInTotal"])
}

func TestEncode_EmptyCollection(t *testing.T) {
	data, err := Encode(nil, baseTime)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_UnversionedArray(t *testing.T) {
	payload := `[
		{"id":"initial-card","name":"Основная карта","balance":0,"type":"card","currency":"RUB","createdAt":"2024-05-01T10:00:00.000Z"},
		{"id":"acc-1714557600000","name":"Wallet","balance":12.5,"type":"cash","currency":"USD","createdAt":1714557600000}
	]`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 2)

	card := got[0]
	require.NotNil(t, card.Card, "legacy card records gain default details")
	assert.Equal(t, account.CardNormal, card.Card.CardType)
	assert.True(t, card.IncludeInTotal, "missing includeInTotal defaults to true")

	cash := got[1]
	assert.Nil(t, cash.Card)
	assert.True(t, cash.Balance.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, cash.CreatedAt.Equal(time.UnixMilli(1714557600000)))
}

func TestDecode_PersistedStateWrapper(t *testing.T) {
	payload := `{"state":{"accounts":[
		{"id":"initial-cash","name":"Наличные","balance":0,"type":"cash","currency":"RUB","createdAt":"2024-05-01T10:00:00.000Z"}
	],"sortBy":"name","filterType":"all"},"version":0}`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Наличные", got[0].Name)
}

func TestDecode_ObjectWithoutVersion(t *testing.T) {
	payload := `{"accounts":[{"id":"a","name":"A","balance":"1","type":"custom","currency":"GBP","createdAt":"2024-01-01T00:00:00Z"}]}`
	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDecode_UnknownFieldsPassThrough(t *testing.T) {
	payload := `[{"id":"c","name":"Cash","balance":"5","type":"cash","currency":"RUB",
		"createdAt":"2024-01-01T00:00:00Z","color":{"r": 1, "g": 2},"icon":"wallet"}]`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Card)
	assert.JSONEq(t, `{"r":1,"g":2}`, string(got[0].Unknown["color"]))
	assert.JSONEq(t, `"wallet"`, string(got[0].Unknown["icon"]), "card-only field on cash record passes through")

	data, err := Encode(got, baseTime)
	require.NoError(t, err)
	again, err := Decode(data)
	require.NoError(t, err)
	requireSameAccounts(t, got, again)
}

func TestDecode_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		index   int
	}{
		{"empty", ``, -1},
		{"scalar", `42`, -1},
		{"malformed", `{"accounts": [`, -1},
		{"accounts not list", `{"version":1,"accounts":{}}`, -1},
		{"no accounts field", `{"version":1,"items":[{"id":"keep","name":"Savings"}]}`, -1},
		{"null accounts", `{"version":1,"accounts":null}`, -1},
		{"state without accounts", `{"state":{"accs":[{"id":"keep","name":"Savings"}]},"version":0}`, -1},
		{"unknown type", `[{"id":"a","name":"A","balance":0,"type":"bank","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"unknown currency", `[{"id":"a","name":"A","balance":0,"type":"cash","currency":"CHF","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"empty name", `[{"id":"a","name":"  ","balance":0,"type":"cash","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"missing id", `[{"name":"A","balance":0,"type":"cash","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"bad balance", `[{"id":"a","name":"A","balance":"lots","type":"cash","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"bad createdAt", `[{"id":"a","name":"A","balance":0,"type":"cash","currency":"RUB","createdAt":"yesterday"}]`, 0},
		{"bad card type", `[{"id":"a","name":"A","balance":0,"type":"card","cardType":"gold","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 0},
		{"duplicate id", `[
			{"id":"a","name":"A","balance":0,"type":"cash","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"},
			{"id":"a","name":"B","balance":0,"type":"cash","currency":"RUB","createdAt":"2024-01-01T00:00:00Z"}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			require.True(t, IsSchemaError(err), "got %T: %v", err, err)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.index, se.Index)
		})
	}
}

func TestDecode_ExplicitEmptyList(t *testing.T) {
	for _, payload := range []string{`[]`, `{"version":1,"accounts":[]}`, `{"state":{"accounts":[]},"version":0}`} {
		got, err := Decode([]byte(payload))
		require.NoError(t, err, payload)
		assert.Empty(t, got, payload)
	}
}

func TestDecode_NewerVersionRejected(t *testing.T) {
	_, err := Decode([]byte(`{"version":2,"accounts":[]}`))
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Version)
	assert.Contains(t, se.Error(), "newer than supported")
}

func TestWireTime_EpochMillis(t *testing.T) {
	var wt wireTime
	require.NoError(t, json.Unmarshal([]byte(`1700000000123`), &wt))
	assert.Equal(t, int64(1700000000123), time.Time(wt).UnixMilli())

	assert.Error(t, json.Unmarshal([]byte(`1.5`), &wt))
}
