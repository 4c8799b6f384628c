package chain

import (
	"strings"
	"time"

	"optionpulse/internal/models"
)

// Expiry layouts accepted at ingestion. NSE wire format first.
var expiryLayouts = []string{
	"02-Jan-2006",
	"2006-01-02",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
}

// Normalize coerces raw rows into a canonical snapshot. Legs without a
// usable strike or option type are dropped, never defaulted. Unparsable
// numeric values become models.Unknown(), not zero. Implied volatility is
// unified to a decimal fraction regardless of whether the source quoted a
// percentage. The transform is pure: raw rows are not modified.
func Normalize(symbol string, timestamp time.Time, rows []RawLeg) *models.OptionChainSnapshot {
	snap := &models.OptionChainSnapshot{
		Symbol:    symbol,
		Timestamp: timestamp,
	}

	for _, row := range rows {
		typ, ok := parseOptionType(row.Type)
		if !ok {
			continue
		}
		if !row.Strike.Valid || row.Strike.Value <= 0 {
			continue
		}

		leg := models.OptionLeg{
			Strike:         row.Strike.Value,
			Type:           typ,
			OpenInterest:   numberOrUnknown(row.OpenInterest),
			ChangeInOI:     numberOrUnknown(row.ChangeInOI),
			Volume:         numberOrUnknown(row.Volume),
			IV:             normalizeIV(row.IV),
			LastPrice:      numberOrUnknown(row.LastPrice),
			Bid:            numberOrUnknown(row.Bid),
			Ask:            numberOrUnknown(row.Ask),
			Expiry:         parseExpiry(row.Expiry),
			UnderlyingSpot: numberOrUnknown(row.Spot),
		}
		snap.Legs = append(snap.Legs, leg)

		if snap.Spot == 0 && row.Spot.Valid && row.Spot.Value > 0 {
			snap.Spot = row.Spot.Value
		}
	}

	return snap
}

func parseOptionType(s string) (models.OptionType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CE", "CALL", "C":
		return models.CallOption, true
	case "PE", "PUT", "P":
		return models.PutOption, true
	default:
		return "", false
	}
}

func numberOrUnknown(n RawNumber) float64 {
	if !n.Valid {
		return models.Unknown()
	}
	return n.Value
}

// normalizeIV unifies implied volatility to a decimal fraction. Sources quote
// either 0.22 or 22; anything above 5 is treated as a percentage.
func normalizeIV(n RawNumber) float64 {
	if !n.Valid {
		return models.Unknown()
	}
	iv := n.Value
	if iv > 5 {
		iv = iv / 100.0
	}
	return iv
}

func parseExpiry(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RawFromLeg converts a canonical leg back to its raw representation. Used
// for persistence round-trips; normalizing the result reproduces the leg
// exactly.
func RawFromLeg(leg models.OptionLeg) RawLeg {
	raw := RawLeg{
		Strike: Num(leg.Strike),
		Type:   string(leg.Type),
	}
	if !leg.Expiry.IsZero() {
		raw.Expiry = leg.Expiry.Format("02-Jan-2006")
	}
	setIfKnown := func(dst *RawNumber, v float64) {
		if models.Known(v) {
			*dst = Num(v)
		}
	}
	setIfKnown(&raw.OpenInterest, leg.OpenInterest)
	setIfKnown(&raw.ChangeInOI, leg.ChangeInOI)
	setIfKnown(&raw.Volume, leg.Volume)
	setIfKnown(&raw.IV, leg.IV)
	setIfKnown(&raw.LastPrice, leg.LastPrice)
	setIfKnown(&raw.Bid, leg.Bid)
	setIfKnown(&raw.Ask, leg.Ask)
	setIfKnown(&raw.Spot, leg.UnderlyingSpot)
	return raw
}
