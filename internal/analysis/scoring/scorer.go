// Package scoring ranks the legs of one option-chain side by a weighted
// composite of normalized open-interest, flow, volume, volatility, distance
// and spread factors.
package scoring

import (
	"math"
	"sort"

	"optionpulse/internal/analysis/liquidity"
	"optionpulse/internal/models"
)

// Weights holds the factor weights of the composite score. OI, ChangeOI,
// Volume and IV reward; Distance and Spread penalize.
type Weights struct {
	OI       float64
	ChangeOI float64
	Volume   float64
	IV       float64
	Distance float64
	Spread   float64
}

// DefaultWeights returns the default factor weights.
func DefaultWeights() Weights {
	return Weights{
		OI:       0.30,
		ChangeOI: 0.30,
		Volume:   0.20,
		IV:       0.10,
		Distance: 0.06,
		Spread:   0.04,
	}
}

// Params holds the full scoring configuration.
type Params struct {
	Weights    Weights
	StrikeStep float64 // ladder spacing of the underlying
	ATMBonus   float64 // added when the strike is within one step of spot
	Liquidity  liquidity.Thresholds
}

// DefaultParams returns the default scoring configuration.
func DefaultParams() Params {
	return Params{
		Weights:    DefaultWeights(),
		StrikeStep: 100,
		ATMBonus:   0.05,
		Liquidity:  liquidity.DefaultThresholds(),
	}
}

// ScoreSide scores the legs of one side against the spot price and returns
// them ranked best first. Legs with no price information are excluded before
// normalization so they cannot distort the factor ranges. Ties rank the
// lower strike first.
func ScoreSide(legs []models.OptionLeg, spot float64, p Params) []models.ScoredLeg {
	type candidate struct {
		leg models.OptionLeg
		liq liquidity.Assessment
	}
	var cands []candidate
	for _, leg := range legs {
		a, ok := liquidity.Assess(leg, p.Liquidity)
		if !ok {
			continue
		}
		cands = append(cands, candidate{leg: leg, liq: a})
	}
	if len(cands) == 0 {
		return nil
	}

	oi := make([]float64, len(cands))
	doi := make([]float64, len(cands))
	vol := make([]float64, len(cands))
	iv := make([]float64, len(cands))
	dist := make([]float64, len(cands))
	spread := make([]float64, len(cands))
	for i, c := range cands {
		oi[i] = knownOrZero(c.leg.OpenInterest)
		doi[i] = math.Abs(knownOrZero(c.leg.ChangeInOI))
		vol[i] = knownOrZero(c.leg.Volume)
		iv[i] = knownOrZero(c.leg.IV)
		dist[i] = math.Abs(c.leg.Strike - spot)
		spread[i] = c.liq.Spread
	}
	normalize(oi)
	normalize(doi)
	normalize(vol)
	normalize(iv)
	normalize(dist)
	normalize(spread)

	w := p.Weights
	scored := make([]models.ScoredLeg, len(cands))
	for i, c := range cands {
		f := models.FactorScores{
			OI:       oi[i],
			ChangeOI: doi[i],
			Volume:   vol[i],
			IV:       iv[i],
			Distance: dist[i],
			Spread:   spread[i],
		}
		base := w.OI*f.OI + w.ChangeOI*f.ChangeOI + w.Volume*f.Volume + w.IV*f.IV -
			w.Distance*f.Distance - w.Spread*f.Spread
		if math.Abs(c.leg.Strike-spot) <= p.StrikeStep {
			base += p.ATMBonus
		}
		scored[i] = models.ScoredLeg{
			OptionLeg:          c.leg,
			Factors:            f,
			BaseScore:          base,
			LiquidityPenalty:   c.liq.Penalty,
			ScorePostLiquidity: math.Max(0, base-c.liq.Penalty),
			LiquidBid:          c.liq.Bid,
			Spread:             c.liq.Spread,
			SyntheticBid:       c.liq.SyntheticBid,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].ScorePostLiquidity != scored[j].ScorePostLiquidity {
			return scored[i].ScorePostLiquidity > scored[j].ScorePostLiquidity
		}
		return scored[i].Strike < scored[j].Strike
	})
	return scored
}

// normalize rescales values to [0,1] in place by min-max. A constant column
// carries no ranking information, so every entry becomes the neutral 0.5.
func normalize(vals []float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		for i := range vals {
			vals[i] = 0.5
		}
		return
	}
	for i := range vals {
		vals[i] = (vals[i] - lo) / (hi - lo)
	}
}

func knownOrZero(v float64) float64 {
	if models.Known(v) {
		return v
	}
	return 0
}
