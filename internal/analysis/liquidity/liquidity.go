// Package liquidity derives a tradability penalty per option leg from its
// quoted bid/ask, synthesizing a conservative bid when the source quoted
// none.
package liquidity

import (
	"math"

	"optionpulse/internal/models"
)

// Thresholds holds the liquidity gate configuration. Supplied per call,
// never package-level state.
type Thresholds struct {
	MinBid            float64 // bid at or below this is effectively untradeable
	ThinBidPenalty    float64 // added when bid <= MinBid
	WideSpreadRatio   float64 // spread / lastPrice above this is a wide market
	WideSpreadPenalty float64 // added when the market is wide
	SyntheticBidRatio float64 // synthesized bid as a fraction of ask
	FloorBid          float64 // last-resort synthetic bid
}

// DefaultThresholds returns the default liquidity thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinBid:            0.05,
		ThinBidPenalty:    0.30,
		WideSpreadRatio:   0.50,
		WideSpreadPenalty: 0.30,
		SyntheticBidRatio: 0.85,
		FloorBid:          0.05,
	}
}

// Assessment is the liquidity view of one leg.
type Assessment struct {
	Bid          float64
	Ask          float64
	Spread       float64
	Penalty      float64
	SyntheticBid bool
}

// Assess gates and penalizes one leg. ok is false when the leg carries no
// price information at all (no positive bid, ask, or last price) and must be
// excluded from scoring entirely rather than scored as zero.
func Assess(leg models.OptionLeg, t Thresholds) (Assessment, bool) {
	bid := positiveOrZero(leg.Bid)
	ask := positiveOrZero(leg.Ask)
	last := positiveOrZero(leg.LastPrice)

	if bid <= 0 && ask <= 0 && last <= 0 {
		return Assessment{}, false
	}

	a := Assessment{Bid: bid, Ask: ask}

	if bid <= 0 {
		a.SyntheticBid = true
		switch {
		case ask > 0:
			a.Bid = t.SyntheticBidRatio * ask
		case last > 0:
			a.Bid = (ask + last) / 2
		default:
			a.Bid = t.FloorBid
		}
	}

	a.Spread = math.Abs(a.Ask - a.Bid)

	if a.Bid <= t.MinBid {
		a.Penalty += t.ThinBidPenalty
	}
	if last > 0 && a.Spread/last > t.WideSpreadRatio {
		a.Penalty += t.WideSpreadPenalty
	}

	return a, true
}

func positiveOrZero(v float64) float64 {
	if models.KnownPositive(v) {
		return v
	}
	return 0
}
