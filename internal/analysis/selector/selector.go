// Package selector picks the best call and put from ranked scored legs,
// shifting the picks directionally when a bias is present and guaranteeing
// the two picks never land on the same strike.
package selector

import (
	"sort"

	"optionpulse/internal/models"
)

// Params holds the selection configuration.
type Params struct {
	StrikeStep    float64 // ladder spacing used for directional shifts
	MaxShiftSteps int     // extra steps tried when the first neighbor has no data
}

// DefaultParams returns the default selection configuration.
func DefaultParams() Params {
	return Params{
		StrikeStep:    100,
		MaxShiftSteps: 3,
	}
}

// Select takes the ranked legs of each side, best first, and returns the
// pick. Either side of the result is nil when that side has no scored legs.
// A directional bias shifts the picks one strike-step: bullish moves the
// call out-of-the-money and the put in-the-money, bearish the opposite. The
// shift search is bounded and keeps the original pick when no neighbor has
// data. When both picks land on the same strike the put is moved to an
// adjacent observed strike first, then the call.
func Select(calls, puts []models.ScoredLeg, bias models.BiasSignal, p Params) models.Pick {
	pick := models.Pick{
		CE: top(calls),
		PE: top(puts),
	}

	switch bias.Direction {
	case models.BiasBullish:
		pick.CE = shift(pick.CE, calls, +1, p)
		pick.PE = shift(pick.PE, puts, -1, p)
	case models.BiasBearish:
		pick.CE = shift(pick.CE, calls, -1, p)
		pick.PE = shift(pick.PE, puts, +1, p)
	}

	return resolveCollision(pick, calls, puts)
}

func top(legs []models.ScoredLeg) *models.ScoredLeg {
	if len(legs) == 0 {
		return nil
	}
	leg := legs[0]
	return &leg
}

// shift moves a pick by one strike-step in the given direction, widening the
// search one step at a time until a scored leg exists at the candidate
// strike. The original pick survives when no candidate has data.
func shift(pick *models.ScoredLeg, legs []models.ScoredLeg, direction int, p Params) *models.ScoredLeg {
	if pick == nil {
		return nil
	}
	for steps := 1; steps <= 1+p.MaxShiftSteps; steps++ {
		target := pick.Strike + float64(direction*steps)*p.StrikeStep
		if leg := atStrike(legs, target); leg != nil {
			return leg
		}
	}
	return pick
}

func atStrike(legs []models.ScoredLeg, strike float64) *models.ScoredLeg {
	for i := range legs {
		if legs[i].Strike == strike {
			leg := legs[i]
			return &leg
		}
	}
	return nil
}

// resolveCollision forces the two picks onto distinct strikes. The put tries
// its adjacent observed strikes first, lower then higher; only when the put
// ladder offers nothing does the call move, higher then lower. Adjacency is
// over strikes actually scored, so gappy ladders still resolve.
func resolveCollision(pick models.Pick, calls, puts []models.ScoredLeg) models.Pick {
	if pick.CE == nil || pick.PE == nil || pick.CE.Strike != pick.PE.Strike {
		return pick
	}

	strike := pick.PE.Strike
	if lower := adjacent(puts, strike, -1); lower != nil {
		pick.PE = lower
		return pick
	}
	if higher := adjacent(puts, strike, +1); higher != nil {
		pick.PE = higher
		return pick
	}
	if higher := adjacent(calls, strike, +1); higher != nil {
		pick.CE = higher
		return pick
	}
	if lower := adjacent(calls, strike, -1); lower != nil {
		pick.CE = lower
		return pick
	}
	return pick
}

// adjacent returns the scored leg at the next observed strike beside the
// given one, in the given direction.
func adjacent(legs []models.ScoredLeg, strike float64, direction int) *models.ScoredLeg {
	strikes := make([]float64, 0, len(legs))
	seen := make(map[float64]bool, len(legs))
	for _, leg := range legs {
		if !seen[leg.Strike] {
			seen[leg.Strike] = true
			strikes = append(strikes, leg.Strike)
		}
	}
	sort.Float64s(strikes)

	idx := -1
	for i, k := range strikes {
		if k == strike {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	next := idx + direction
	if next < 0 || next >= len(strikes) {
		return nil
	}
	return atStrike(legs, strikes[next])
}
