// Package risk computes closed-form option risk metrics: lognormal expected
// move, payoff targets, Black-Scholes probability of profit and greeks, and
// an IV-tiered stop-loss premium.
package risk

import (
	"math"

	"optionpulse/internal/models"
)

// Params holds the risk engine configuration.
type Params struct {
	RiskFreeRate     float64 // annualized, decimal fraction
	TargetMultiplier float64 // k applied to the expected move when projecting the target
	TradingDays      int     // trading days per year
	MinRiskReward    float64 // candidate filter floor for ScanCandidates
}

// DefaultParams returns the default risk configuration.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:     0.065,
		TargetMultiplier: 1.0,
		TradingDays:      252,
		MinRiskReward:    2.0,
	}
}

// ExpectedMove returns the one-sigma lognormal price move of the underlying
// over the given number of trading days.
func ExpectedMove(spot, iv float64, days int, p Params) float64 {
	if spot <= 0 || iv <= 0 || days <= 0 {
		return 0
	}
	return spot * iv * math.Sqrt(float64(days)/float64(p.TradingDays))
}

// Profile computes the full risk profile of one long option position.
// Degenerate inputs never raise: when iv, spot or strike is not positive the
// distribution-dependent metrics resolve to zero and only the arithmetic
// identities (breakeven, stop-loss) remain.
func Profile(spot, strike, premium, iv float64, days int, typ models.OptionType, p Params) models.RiskProfile {
	rp := models.RiskProfile{DaysToExpiry: days}

	if typ == models.CallOption {
		rp.Breakeven = strike + premium
	} else {
		rp.Breakeven = strike - premium
	}
	rp.StopLossPremium = premium * (1 - stopLossCut(iv))

	rp.ExpectedMove = ExpectedMove(spot, iv, days, p)
	move := p.TargetMultiplier * rp.ExpectedMove
	if typ == models.CallOption {
		rp.TargetPrice = spot + move
		rp.Payoff = math.Max(0, rp.TargetPrice-strike)
	} else {
		rp.TargetPrice = spot - move
		rp.Payoff = math.Max(0, strike-rp.TargetPrice)
	}
	if premium > 0 {
		rp.RiskReward = rp.Payoff / premium
	}

	if spot <= 0 || strike <= 0 || iv <= 0 {
		return rp
	}

	// Clamp to one trading day so near-expiry chains still price.
	t := math.Max(1, float64(days)) / float64(p.TradingDays)
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (p.RiskFreeRate+0.5*iv*iv)*t) / (iv * sqrtT)
	d2 := d1 - iv*sqrtT

	if typ == models.CallOption {
		rp.ProbabilityOfProfit = normalCDF(d2)
		rp.Delta = normalCDF(d1)
	} else {
		rp.ProbabilityOfProfit = 1 - normalCDF(d2)
		rp.Delta = normalCDF(d1) - 1
	}
	rp.Gamma = normalPDF(d1) / (spot * iv * sqrtT)
	rp.Vega = spot * normalPDF(d1) * sqrtT / 100

	discounted := p.RiskFreeRate * strike * math.Exp(-p.RiskFreeRate*t)
	decay := -spot * normalPDF(d1) * iv / (2 * sqrtT)
	if typ == models.CallOption {
		rp.Theta = (decay - discounted*normalCDF(d2)) / float64(p.TradingDays)
	} else {
		rp.Theta = (decay + discounted*normalCDF(-d2)) / float64(p.TradingDays)
	}

	return rp
}

// Candidate pairs a scored leg with its risk profile during a scan.
type Candidate struct {
	Leg  models.ScoredLeg
	Risk models.RiskProfile
}

// ScanCandidates profiles every leg with real premium, volatility and open
// interest, keeping those whose risk:reward clears the configured floor.
// Order follows the input ranking.
func ScanCandidates(legs []models.ScoredLeg, spot float64, days int, p Params) []Candidate {
	var out []Candidate
	for _, leg := range legs {
		premium := Premium(leg.OptionLeg)
		if premium <= 0 || !models.KnownPositive(leg.IV) || !models.KnownPositive(leg.OpenInterest) {
			continue
		}
		rp := Profile(spot, leg.Strike, premium, leg.IV, days, leg.Type, p)
		if rp.RiskReward < p.MinRiskReward {
			continue
		}
		out = append(out, Candidate{Leg: leg, Risk: rp})
	}
	return out
}

// Premium returns the entry price assumed for a leg: last traded price when
// present, otherwise the quote midpoint.
func Premium(leg models.OptionLeg) float64 {
	if models.KnownPositive(leg.LastPrice) {
		return leg.LastPrice
	}
	bid := knownOrZero(leg.Bid)
	ask := knownOrZero(leg.Ask)
	if bid > 0 && ask > 0 {
		return (bid + ask) / 2
	}
	return 0
}

// stopLossCut returns the premium fraction surrendered at the stop, tiered
// by the volatility regime. Richer premium decays faster and gets a wider
// stop.
func stopLossCut(iv float64) float64 {
	ivPct := iv * 100
	switch {
	case ivPct <= 15:
		return 0.25
	case ivPct <= 25:
		return 0.30
	case ivPct <= 35:
		return 0.40
	default:
		return 0.50
	}
}

func normalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func knownOrZero(v float64) float64 {
	if models.Known(v) {
		return v
	}
	return 0
}
