package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"optionpulse/internal/chain"
	"optionpulse/internal/errors"
	"optionpulse/internal/models"
)

// nseEnvelope is the option-chain payload shape of the NSE website API:
// one record per strike/expiry carrying both sides.
type nseEnvelope struct {
	Records struct {
		UnderlyingValue float64 `json:"underlyingValue"`
		Timestamp       string  `json:"timestamp"`
		Data            []struct {
			StrikePrice float64          `json:"strikePrice"`
			ExpiryDate  string           `json:"expiryDate"`
			CE          *json.RawMessage `json:"CE"`
			PE          *json.RawMessage `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

// LoadSnapshot reads an option-chain snapshot from a CSV or JSON file and
// normalizes it. JSON may be either a flat array of legs or the NSE
// records envelope.
func LoadSnapshot(path, symbol string) (*models.OptionChainSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDataError(path, symbol, "reading snapshot file", err)
	}

	var rows []chain.RawLeg
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = parseCSV(data)
	default:
		rows, err = parseJSON(data)
	}
	if err != nil {
		return nil, errors.NewDataError(path, symbol, "decoding snapshot", err)
	}

	snap := chain.Normalize(symbol, time.Now(), rows)
	if len(snap.Legs) == 0 {
		return nil, errors.NewDataError(path, symbol, "no usable legs after normalization", errors.ErrEmptySnapshot)
	}
	return snap, nil
}

func parseCSV(data []byte) ([]chain.RawLeg, error) {
	var rows []chain.RawLeg
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseJSON(data []byte) ([]chain.RawLeg, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var rows []chain.RawLeg
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	return parseNSE(data)
}

// parseNSE flattens the NSE envelope into one raw leg per present side.
func parseNSE(data []byte) ([]chain.RawLeg, error) {
	var env nseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var rows []chain.RawLeg
	for _, rec := range env.Records.Data {
		for side, raw := range map[string]*json.RawMessage{"CE": rec.CE, "PE": rec.PE} {
			if raw == nil {
				continue
			}
			var leg chain.RawLeg
			if err := json.Unmarshal(*raw, &leg); err != nil {
				continue
			}
			leg.Type = side
			if !leg.Strike.Valid {
				leg.Strike = chain.Num(rec.StrikePrice)
			}
			if leg.Expiry == "" {
				leg.Expiry = rec.ExpiryDate
			}
			if !leg.Spot.Valid && env.Records.UnderlyingValue > 0 {
				leg.Spot = chain.Num(env.Records.UnderlyingValue)
			}
			rows = append(rows, leg)
		}
	}
	return rows, nil
}
