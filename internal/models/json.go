package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// The unknown-value marker is not representable in JSON, so legs cross the
// JSON boundary with optional fields: unknown maps to null and back.

type optionLegJSON struct {
	Strike         float64    `json:"strike"`
	Type           OptionType `json:"type"`
	OpenInterest   *float64   `json:"openInterest"`
	ChangeInOI     *float64   `json:"changeInOI"`
	Volume         *float64   `json:"volume"`
	IV             *float64   `json:"iv"`
	LastPrice      *float64   `json:"lastPrice"`
	Bid            *float64   `json:"bid"`
	Ask            *float64   `json:"ask"`
	Expiry         time.Time  `json:"expiry"`
	UnderlyingSpot *float64   `json:"underlyingSpot"`
}

// MarshalJSON implements json.Marshaler.
func (l OptionLeg) MarshalJSON() ([]byte, error) {
	return json.Marshal(optionLegJSON{
		Strike:         l.Strike,
		Type:           l.Type,
		OpenInterest:   optional(l.OpenInterest),
		ChangeInOI:     optional(l.ChangeInOI),
		Volume:         optional(l.Volume),
		IV:             optional(l.IV),
		LastPrice:      optional(l.LastPrice),
		Bid:            optional(l.Bid),
		Ask:            optional(l.Ask),
		Expiry:         l.Expiry,
		UnderlyingSpot: optional(l.UnderlyingSpot),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *OptionLeg) UnmarshalJSON(data []byte) error {
	var w optionLegJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.Strike = w.Strike
	l.Type = w.Type
	l.OpenInterest = required(w.OpenInterest)
	l.ChangeInOI = required(w.ChangeInOI)
	l.Volume = required(w.Volume)
	l.IV = required(w.IV)
	l.LastPrice = required(w.LastPrice)
	l.Bid = required(w.Bid)
	l.Ask = required(w.Ask)
	l.Expiry = w.Expiry
	l.UnderlyingSpot = required(w.UnderlyingSpot)
	return nil
}

// scoredLegJSON flattens the embedded leg into a named field; embedding
// would otherwise promote the leg's marshaler and drop the score fields.
type scoredLegJSON struct {
	Leg                OptionLeg    `json:"leg"`
	Factors            FactorScores `json:"factors"`
	BaseScore          float64      `json:"baseScore"`
	LiquidityPenalty   float64      `json:"liquidityPenalty"`
	ScorePostLiquidity float64      `json:"scorePostLiquidity"`
	LiquidBid          float64      `json:"liquidBid"`
	Spread             float64      `json:"spread"`
	SyntheticBid       bool         `json:"syntheticBid"`
	Risk               *RiskProfile `json:"risk,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s ScoredLeg) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoredLegJSON{
		Leg:                s.OptionLeg,
		Factors:            s.Factors,
		BaseScore:          s.BaseScore,
		LiquidityPenalty:   s.LiquidityPenalty,
		ScorePostLiquidity: s.ScorePostLiquidity,
		LiquidBid:          s.LiquidBid,
		Spread:             s.Spread,
		SyntheticBid:       s.SyntheticBid,
		Risk:               s.Risk,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ScoredLeg) UnmarshalJSON(data []byte) error {
	var w scoredLegJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.OptionLeg = w.Leg
	s.Factors = w.Factors
	s.BaseScore = w.BaseScore
	s.LiquidityPenalty = w.LiquidityPenalty
	s.ScorePostLiquidity = w.ScorePostLiquidity
	s.LiquidBid = w.LiquidBid
	s.Spread = w.Spread
	s.SyntheticBid = w.SyntheticBid
	s.Risk = w.Risk
	return nil
}

type maxPainJSON struct {
	Price         float64            `json:"price"`
	PerStrikeLoss map[string]float64 `json:"perStrikeLoss,omitempty"`
}

// MarshalJSON implements json.Marshaler. Strike keys become strings since
// JSON objects cannot be keyed by numbers.
func (m MaxPainResult) MarshalJSON() ([]byte, error) {
	w := maxPainJSON{Price: m.Price}
	if len(m.PerStrikeLoss) > 0 {
		w.PerStrikeLoss = make(map[string]float64, len(m.PerStrikeLoss))
		for k, v := range m.PerStrikeLoss {
			w.PerStrikeLoss[strconv.FormatFloat(k, 'f', -1, 64)] = v
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *MaxPainResult) UnmarshalJSON(data []byte) error {
	var w maxPainJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Price = w.Price
	m.PerStrikeLoss = nil
	if len(w.PerStrikeLoss) > 0 {
		m.PerStrikeLoss = make(map[float64]float64, len(w.PerStrikeLoss))
		for k, v := range w.PerStrikeLoss {
			strike, err := strconv.ParseFloat(k, 64)
			if err != nil {
				return err
			}
			m.PerStrikeLoss[strike] = v
		}
	}
	return nil
}

func optional(v float64) *float64 {
	if !Known(v) {
		return nil
	}
	return &v
}

func required(p *float64) float64 {
	if p == nil {
		return Unknown()
	}
	return *p
}
