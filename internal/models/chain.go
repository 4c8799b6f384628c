// Package models provides domain models for the options analytics engine.
package models

import (
	"math"
	"sort"
	"time"
)

// OptionType identifies the side of an option leg.
type OptionType string

const (
	CallOption OptionType = "CE"
	PutOption  OptionType = "PE"
)

// Unknown returns the marker for a numeric field whose source value was
// absent or unparsable. It is deliberately not zero: a missing open interest
// must never rank as a real zero downstream.
func Unknown() float64 {
	return math.NaN()
}

// Known reports whether v carries a real value.
func Known(v float64) bool {
	return !math.IsNaN(v)
}

// KnownPositive reports whether v carries a real value greater than zero.
func KnownPositive(v float64) bool {
	return Known(v) && v > 0
}

// OptionLeg is one tradable strike/expiry contract in canonical form.
// Numeric fields hold Unknown() when the source row did not supply them.
// A leg is immutable once constructed.
type OptionLeg struct {
	Strike         float64
	Type           OptionType
	OpenInterest   float64
	ChangeInOI     float64
	Volume         float64
	IV             float64 // decimal fraction, e.g. 0.22
	LastPrice      float64
	Bid            float64
	Ask            float64
	Expiry         time.Time
	UnderlyingSpot float64
}

// OptionChainSnapshot is one observation of the full chain for an underlying.
// It is created fresh per request and never mutated; every recomputation
// starts from a new snapshot.
type OptionChainSnapshot struct {
	Symbol    string
	Spot      float64
	Timestamp time.Time
	Legs      []OptionLeg
}

// Side returns the legs of one side in snapshot order.
func (s *OptionChainSnapshot) Side(t OptionType) []OptionLeg {
	var out []OptionLeg
	for _, leg := range s.Legs {
		if leg.Type == t {
			out = append(out, leg)
		}
	}
	return out
}

// Strikes returns the distinct strikes in ascending order.
func (s *OptionChainSnapshot) Strikes() []float64 {
	seen := make(map[float64]bool, len(s.Legs))
	var out []float64
	for _, leg := range s.Legs {
		if !seen[leg.Strike] {
			seen[leg.Strike] = true
			out = append(out, leg.Strike)
		}
	}
	sort.Float64s(out)
	return out
}

// ATMStrike returns the strike closest to spot. Ties resolve to the lower
// strike. Returns 0 when the snapshot has no legs.
func (s *OptionChainSnapshot) ATMStrike() float64 {
	strikes := s.Strikes()
	if len(strikes) == 0 {
		return 0
	}
	atm := strikes[0]
	best := math.Abs(strikes[0] - s.Spot)
	for _, k := range strikes[1:] {
		if d := math.Abs(k - s.Spot); d < best {
			best = d
			atm = k
		}
	}
	return atm
}

// ExpiryDates returns the distinct expiry dates in ascending order,
// excluding legs whose expiry could not be parsed.
func (s *OptionChainSnapshot) ExpiryDates() []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, leg := range s.Legs {
		if leg.Expiry.IsZero() || seen[leg.Expiry] {
			continue
		}
		seen[leg.Expiry] = true
		out = append(out, leg.Expiry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ForExpiry returns a new snapshot holding only the legs of one expiry.
func (s *OptionChainSnapshot) ForExpiry(expiry time.Time) *OptionChainSnapshot {
	sub := &OptionChainSnapshot{
		Symbol:    s.Symbol,
		Spot:      s.Spot,
		Timestamp: s.Timestamp,
	}
	y, m, d := expiry.Date()
	for _, leg := range s.Legs {
		ly, lm, ld := leg.Expiry.Date()
		if ly == y && lm == m && ld == d {
			sub.Legs = append(sub.Legs, leg)
		}
	}
	return sub
}

// NearestExpiry returns the earliest expiry at or after now, falling back to
// the earliest expiry overall. ok is false when no leg has a parsed expiry.
func (s *OptionChainSnapshot) NearestExpiry(now time.Time) (time.Time, bool) {
	dates := s.ExpiryDates()
	if len(dates) == 0 {
		return time.Time{}, false
	}
	for _, d := range dates {
		if !d.Before(now.Truncate(24 * time.Hour)) {
			return d, true
		}
	}
	return dates[0], true
}
