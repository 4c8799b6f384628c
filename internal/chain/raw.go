// Package chain converts raw, inconsistently shaped option-chain rows into
// the canonical snapshot consumed by the analysis pipeline. It is the only
// place that tolerates missing fields, alias column names, or mixed
// numeric/text values; everything downstream assumes validity by
// construction.
package chain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawNumber is a numeric field that tolerates JSON numbers, quoted numbers,
// null, and empty CSV cells. Unparsable values are recorded as invalid, not
// coerced to zero.
type RawNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *RawNumber) UnmarshalJSON(data []byte) error {
	n.Value, n.Valid = 0, false
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		return n.UnmarshalCSV(s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// UnmarshalCSV implements the gocsv field unmarshaler.
func (n *RawNumber) UnmarshalCSV(s string) error {
	n.Value, n.Valid = 0, false
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// MarshalCSV implements the gocsv field marshaler.
func (n RawNumber) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
}

// Num constructs a valid RawNumber.
func Num(v float64) RawNumber {
	return RawNumber{Value: v, Valid: true}
}

// RawLeg is one source row of an option chain before normalization. Every
// field is optional; the coercion step in Normalize decides what survives.
type RawLeg struct {
	Strike       RawNumber `csv:"strike"`
	Type         string    `csv:"type"`
	OpenInterest RawNumber `csv:"oi"`
	ChangeInOI   RawNumber `csv:"change_oi"`
	Volume       RawNumber `csv:"volume"`
	IV           RawNumber `csv:"iv"`
	LastPrice    RawNumber `csv:"last_price"`
	Bid          RawNumber `csv:"bid"`
	Ask          RawNumber `csv:"ask"`
	Expiry       string    `csv:"expiry"`
	Spot         RawNumber `csv:"spot"`
}

// Field aliases seen across chain sources (NSE wire format, broker quote
// dumps, yfinance exports). First match wins.
var (
	strikeKeys = []string{"strike", "strikePrice", "strike_price"}
	typeKeys   = []string{"type", "optionType", "option_type", "instrument_type", "right"}
	oiKeys     = []string{"oi", "openInterest", "open_interest"}
	doiKeys    = []string{"change_oi", "changeinOpenInterest", "changeInOpenInterest", "change_in_oi", "oiChange"}
	volKeys    = []string{"volume", "totalTradedVolume", "total_traded_volume"}
	ivKeys     = []string{"iv", "impliedVolatility", "implied_volatility"}
	lastKeys   = []string{"lastPrice", "last_price", "ltp"}
	bidKeys    = []string{"bid", "bidprice", "bidPrice", "buyPrice"}
	askKeys    = []string{"ask", "askPrice", "sellPrice"}
	expiryKeys = []string{"expiry", "expiryDate", "expiry_date"}
	spotKeys   = []string{"spot", "underlyingValue", "underlying_value"}
)

// UnmarshalJSON accepts any of the alias field names for each column.
func (r *RawLeg) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Strike = pickNumber(m, strikeKeys)
	r.Type = pickString(m, typeKeys)
	r.OpenInterest = pickNumber(m, oiKeys)
	r.ChangeInOI = pickNumber(m, doiKeys)
	r.Volume = pickNumber(m, volKeys)
	r.IV = pickNumber(m, ivKeys)
	r.LastPrice = pickNumber(m, lastKeys)
	r.Bid = pickNumber(m, bidKeys)
	r.Ask = pickNumber(m, askKeys)
	r.Expiry = pickString(m, expiryKeys)
	r.Spot = pickNumber(m, spotKeys)
	return nil
}

func pickNumber(m map[string]json.RawMessage, keys []string) RawNumber {
	for _, k := range keys {
		if raw, ok := m[k]; ok {
			var n RawNumber
			_ = n.UnmarshalJSON(raw)
			if n.Valid {
				return n
			}
		}
	}
	return RawNumber{}
}

func pickString(m map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
