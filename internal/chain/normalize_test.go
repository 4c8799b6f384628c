package chain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionpulse/internal/models"
)

func TestRawNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value float64
		valid bool
	}{
		{"plain number", `42.5`, 42.5, true},
		{"quoted number", `"42.5"`, 42.5, true},
		{"quoted with separators", `"1,20,500"`, 120500, true},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"dash placeholder", `"-"`, 0, false},
		{"garbage", `"abc"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n RawNumber
			require.NoError(t, n.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.valid, n.Valid)
			if tt.valid {
				assert.Equal(t, tt.value, n.Value)
			}
		})
	}
}

func TestRawLeg_AliasFields(t *testing.T) {
	payload := `{
		"strikePrice": 45100,
		"optionType": "CE",
		"openInterest": 120500,
		"changeinOpenInterest": -3200,
		"totalTradedVolume": 88000,
		"impliedVolatility": 18.25,
		"lastPrice": 122.5,
		"bidPrice": 121,
		"askPrice": 124,
		"expiryDate": "03-Sep-2026",
		"underlyingValue": 45012.35
	}`

	var leg RawLeg
	require.NoError(t, json.Unmarshal([]byte(payload), &leg))

	assert.Equal(t, 45100.0, leg.Strike.Value)
	assert.Equal(t, "CE", leg.Type)
	assert.Equal(t, 120500.0, leg.OpenInterest.Value)
	assert.Equal(t, -3200.0, leg.ChangeInOI.Value)
	assert.Equal(t, 88000.0, leg.Volume.Value)
	assert.Equal(t, 18.25, leg.IV.Value)
	assert.Equal(t, 122.5, leg.LastPrice.Value)
	assert.Equal(t, 121.0, leg.Bid.Value)
	assert.Equal(t, 124.0, leg.Ask.Value)
	assert.Equal(t, "03-Sep-2026", leg.Expiry)
	assert.Equal(t, 45012.35, leg.Spot.Value)
}

func TestNormalize_DropsUnusableLegs(t *testing.T) {
	rows := []RawLeg{
		{Strike: Num(45000), Type: "CE", LastPrice: Num(100)},
		{Type: "PE", LastPrice: Num(50)},             // no strike
		{Strike: Num(45100), LastPrice: Num(75)},     // no type
		{Strike: Num(-100), Type: "PE"},              // negative strike
		{Strike: Num(45200), Type: "banana"},         // unknown type
		{Strike: Num(45100), Type: "put", Bid: Num(3)},
	}

	snap := Normalize("NIFTY", time.Now(), rows)

	require.Len(t, snap.Legs, 2)
	assert.Equal(t, models.CallOption, snap.Legs[0].Type)
	assert.Equal(t, models.PutOption, snap.Legs[1].Type)
}

func TestNormalize_IVToDecimalFraction(t *testing.T) {
	rows := []RawLeg{
		{Strike: Num(45000), Type: "CE", IV: Num(18.5)},
		{Strike: Num(45100), Type: "CE", IV: Num(0.22)},
		{Strike: Num(45200), Type: "CE"},
	}

	snap := Normalize("NIFTY", time.Now(), rows)

	require.Len(t, snap.Legs, 3)
	assert.InDelta(t, 0.185, snap.Legs[0].IV, 1e-9)
	assert.InDelta(t, 0.22, snap.Legs[1].IV, 1e-9)
	assert.False(t, models.Known(snap.Legs[2].IV))
}

func TestNormalize_MissingBecomesUnknownNotZero(t *testing.T) {
	rows := []RawLeg{
		{Strike: Num(45000), Type: "CE"},
	}

	snap := Normalize("NIFTY", time.Now(), rows)

	require.Len(t, snap.Legs, 1)
	leg := snap.Legs[0]
	assert.False(t, models.Known(leg.OpenInterest))
	assert.False(t, models.Known(leg.ChangeInOI))
	assert.False(t, models.Known(leg.Volume))
	assert.False(t, models.Known(leg.Bid))
	assert.False(t, models.Known(leg.Ask))
	assert.False(t, models.Known(leg.LastPrice))
}

func TestNormalize_SpotFromFirstValidRow(t *testing.T) {
	rows := []RawLeg{
		{Strike: Num(45000), Type: "CE"},
		{Strike: Num(45100), Type: "CE", Spot: Num(45012.35)},
		{Strike: Num(45200), Type: "CE", Spot: Num(99999)},
	}

	snap := Normalize("NIFTY", time.Now(), rows)

	assert.Equal(t, 45012.35, snap.Spot)
}

func TestNormalize_Idempotent(t *testing.T) {
	ts := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	rows := []RawLeg{
		{
			Strike: Num(45000), Type: "CE",
			OpenInterest: Num(120500), ChangeInOI: Num(-3200), Volume: Num(88000),
			IV: Num(0.1825), LastPrice: Num(122.5), Bid: Num(121), Ask: Num(124),
			Expiry: "03-Sep-2026", Spot: Num(45012.35),
		},
		{
			Strike: Num(44900), Type: "PE",
			OpenInterest: Num(98000), ChangeInOI: Num(4100), Volume: Num(64000),
			IV: Num(0.191), LastPrice: Num(98.7), Bid: Num(97), Ask: Num(100),
			Expiry: "03-Sep-2026", Spot: Num(45012.35),
		},
	}

	first := Normalize("NIFTY", ts, rows)

	roundTripped := make([]RawLeg, 0, len(first.Legs))
	for _, leg := range first.Legs {
		roundTripped = append(roundTripped, RawFromLeg(leg))
	}
	second := Normalize("NIFTY", ts, roundTripped)

	assert.Equal(t, first.Legs, second.Legs)
	assert.Equal(t, first.Spot, second.Spot)
}
