// Package analysis orchestrates the full option-chain pipeline: scoring both
// sides, detecting bias, selecting the strike pair, profiling risk, and
// computing max pain and the expiry buckets, all from one immutable
// snapshot.
package analysis

import (
	"time"

	"optionpulse/internal/analysis/bias"
	"optionpulse/internal/analysis/expiry"
	"optionpulse/internal/analysis/maxpain"
	"optionpulse/internal/analysis/risk"
	"optionpulse/internal/analysis/scoring"
	"optionpulse/internal/analysis/selector"
	"optionpulse/internal/errors"
	"optionpulse/internal/models"
)

// Params aggregates the configuration of every pipeline stage. Now supplies
// the clock used for days-to-expiry so analyses are reproducible in tests.
type Params struct {
	Scoring  scoring.Params
	Bias     bias.Params
	Selector selector.Params
	Risk     risk.Params
	Expiry   expiry.Classifier
	Now      func() time.Time
}

// DefaultParams returns the default pipeline configuration.
func DefaultParams() Params {
	return Params{
		Scoring:  scoring.DefaultParams(),
		Bias:     bias.DefaultParams(),
		Selector: selector.DefaultParams(),
		Risk:     risk.DefaultParams(),
		Expiry:   expiry.DefaultClassifier(),
		Now:      time.Now,
	}
}

// Analyze runs the full pipeline over one snapshot. A zero expiryDate means
// the nearest upcoming expiry in the snapshot; when the snapshot has no
// parseable expiries the whole chain is analyzed as-is. The snapshot is
// never mutated.
func Analyze(snap *models.OptionChainSnapshot, expiryDate time.Time, p Params) (*models.ChainAnalysis, error) {
	if snap == nil || len(snap.Legs) == 0 {
		return nil, errors.NewSnapshotError(symbolOf(snap), "no legs to analyze", errors.ErrEmptySnapshot)
	}
	if snap.Spot <= 0 {
		return nil, errors.NewSnapshotError(snap.Symbol, "spot price unusable", errors.ErrInvalidSpot)
	}

	sub := snap
	if expiryDate.IsZero() {
		if nearest, ok := snap.NearestExpiry(p.Now()); ok {
			expiryDate = nearest
		}
	}
	if !expiryDate.IsZero() {
		sub = snap.ForExpiry(expiryDate)
		if len(sub.Legs) == 0 {
			return nil, errors.NewSnapshotError(snap.Symbol, "no legs for requested expiry", errors.ErrNoExpiries)
		}
	}

	calls := scoring.ScoreSide(sub.Side(models.CallOption), sub.Spot, p.Scoring)
	puts := scoring.ScoreSide(sub.Side(models.PutOption), sub.Spot, p.Scoring)
	if len(calls) == 0 && len(puts) == 0 {
		return nil, errors.NewSnapshotError(snap.Symbol, "every leg failed the liquidity gate", errors.ErrNoLiquidLegs)
	}

	signal := bias.Detect(sub, p.Bias)
	pick := selector.Select(calls, puts, signal, p.Selector)

	days := daysBetween(p.Now(), expiryDate)
	attachRisk(pick.CE, sub.Spot, days, p.Risk)
	attachRisk(pick.PE, sub.Spot, days, p.Risk)

	return &models.ChainAnalysis{
		Symbol:    snap.Symbol,
		Spot:      snap.Spot,
		Expiry:    expiryDate,
		Timestamp: snap.Timestamp,
		Pick:      pick,
		Bias:      signal,
		MaxPain:   maxpain.Calculate(sub),
		Expiries:  p.Expiry.Classify(snap.ExpiryDates()),
		Calls:     calls,
		Puts:      puts,
	}, nil
}

func attachRisk(leg *models.ScoredLeg, spot float64, days int, p risk.Params) {
	if leg == nil {
		return
	}
	premium := risk.Premium(leg.OptionLeg)
	iv := leg.IV
	if !models.Known(iv) {
		iv = 0
	}
	rp := risk.Profile(spot, leg.Strike, premium, iv, days, leg.Type, p)
	leg.Risk = &rp
}

// daysBetween counts whole calendar days from now to the expiry date,
// clamped at zero. A zero expiry yields zero days.
func daysBetween(now, expiryDate time.Time) int {
	if expiryDate.IsZero() {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(expiryDate.Year(), expiryDate.Month(), expiryDate.Day(), 0, 0, 0, 0, time.UTC)
	days := int(target.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func symbolOf(snap *models.OptionChainSnapshot) string {
	if snap == nil {
		return ""
	}
	return snap.Symbol
}
