// Package bias measures the directional open-interest imbalance in a window
// around the at-the-money strike.
package bias

import (
	"math"

	"optionpulse/internal/models"
)

// Params holds the bias detection configuration.
type Params struct {
	WindowSteps    int     // half-width of the ATM window in strike-steps
	StrikeStep     float64 // ladder spacing of the underlying
	MinThreshold   float64 // absolute floor of the classification threshold
	ThresholdScale float64 // fraction of windowed OI used as the scaled threshold
}

// DefaultParams returns the default bias configuration.
func DefaultParams() Params {
	return Params{
		WindowSteps:    3,
		StrikeStep:     100,
		MinThreshold:   200,
		ThresholdScale: 0.005,
	}
}

// Detect computes the open-interest flow imbalance around the at-the-money
// strike. Flow is change-in-OI summed per side over the window; when the
// window carries no flow data at all, raw open interest substitutes. The
// classification threshold scales with the total windowed open interest so a
// fixed flow means less on a heavier chain. Classification uses strict
// inequality: an imbalance exactly at the threshold is neutral.
func Detect(snap *models.OptionChainSnapshot, p Params) models.BiasSignal {
	atm := snap.ATMStrike()
	window := float64(p.WindowSteps) * p.StrikeStep

	var callFlow, putFlow, flowMagnitude, totalOI float64
	var inWindow []models.OptionLeg
	for _, leg := range snap.Legs {
		if math.Abs(leg.Strike-atm) > window {
			continue
		}
		inWindow = append(inWindow, leg)
		doi := knownOrZero(leg.ChangeInOI)
		flowMagnitude += math.Abs(doi)
		totalOI += knownOrZero(leg.OpenInterest)
		switch leg.Type {
		case models.CallOption:
			callFlow += doi
		case models.PutOption:
			putFlow += doi
		}
	}

	usedFallback := false
	if flowMagnitude == 0 {
		usedFallback = true
		callFlow, putFlow = 0, 0
		for _, leg := range inWindow {
			oi := knownOrZero(leg.OpenInterest)
			switch leg.Type {
			case models.CallOption:
				callFlow += oi
			case models.PutOption:
				putFlow += oi
			}
		}
	}

	imbalance := callFlow - putFlow
	threshold := math.Max(p.MinThreshold, p.ThresholdScale*totalOI)

	direction := models.BiasNeutral
	if imbalance > threshold {
		direction = models.BiasBullish
	} else if imbalance < -threshold {
		direction = models.BiasBearish
	}

	return models.BiasSignal{
		Imbalance:      imbalance,
		Threshold:      threshold,
		CallFlow:       callFlow,
		PutFlow:        putFlow,
		Direction:      direction,
		UsedOIFallback: usedFallback,
	}
}

func knownOrZero(v float64) float64 {
	if models.Known(v) {
		return v
	}
	return 0
}
