// Package maxpain locates the underlying price at which aggregate
// option-writer payout across the chain is smallest.
package maxpain

import (
	"sort"

	"optionpulse/internal/models"
)

// Calculate evaluates the writer payout at every observed strike and returns
// the strike minimizing it, together with the full per-strike loss map. A
// call strike below the candidate price pays (price - strike) per unit of
// open interest, a put strike above pays (strike - price). Ties resolve to
// the lowest price. Quadratic over the strike count, which stays in the tens
// per expiry.
func Calculate(snap *models.OptionChainSnapshot) models.MaxPainResult {
	strikes := snap.Strikes()
	if len(strikes) == 0 {
		return models.MaxPainResult{}
	}

	callOI := make(map[float64]float64, len(strikes))
	putOI := make(map[float64]float64, len(strikes))
	for _, leg := range snap.Legs {
		oi := leg.OpenInterest
		if !models.Known(oi) {
			continue
		}
		switch leg.Type {
		case models.CallOption:
			callOI[leg.Strike] += oi
		case models.PutOption:
			putOI[leg.Strike] += oi
		}
	}

	losses := make(map[float64]float64, len(strikes))
	for _, price := range strikes {
		var loss float64
		for _, strike := range strikes {
			if strike < price {
				loss += (price - strike) * callOI[strike]
			} else if strike > price {
				loss += (strike - price) * putOI[strike]
			}
		}
		losses[price] = loss
	}

	sort.Float64s(strikes)
	best := strikes[0]
	for _, price := range strikes[1:] {
		if losses[price] < losses[best] {
			best = price
		}
	}

	return models.MaxPainResult{Price: best, PerStrikeLoss: losses}
}
