package models

import "time"

// FactorScores holds the per-factor normalized scores, each in [0,1].
type FactorScores struct {
	OI       float64
	ChangeOI float64
	Volume   float64
	IV       float64
	Distance float64
	Spread   float64
}

// ScoredLeg is an OptionLeg augmented with its composite desirability score.
// LiquidBid and Spread come from the liquidity gate; LiquidBid may be a
// synthesized conservative bid when the source quoted none.
type ScoredLeg struct {
	OptionLeg
	Factors            FactorScores
	BaseScore          float64
	LiquidityPenalty   float64
	ScorePostLiquidity float64
	LiquidBid          float64
	Spread             float64
	SyntheticBid       bool
	Risk               *RiskProfile
}

// BiasDirection classifies the open-interest flow imbalance.
type BiasDirection string

const (
	BiasBullish BiasDirection = "BULLISH"
	BiasBearish BiasDirection = "BEARISH"
	BiasNeutral BiasDirection = "NEUTRAL"
)

// BiasSignal is the measured directional open-interest imbalance in a window
// around the at-the-money strike. Positive imbalance means call-side
// open-interest growth dominates.
type BiasSignal struct {
	Imbalance      float64
	Threshold      float64
	CallFlow       float64
	PutFlow        float64
	Direction      BiasDirection
	UsedOIFallback bool // no change-in-OI data; raw OI was used instead
}

// Pick is the selected best call and put leg. Either side may be nil when
// that side had no scoreable legs. When both sides are present their strikes
// are guaranteed distinct.
type Pick struct {
	CE *ScoredLeg
	PE *ScoredLeg
}

// RiskProfile holds the closed-form risk metrics attached to a selected leg.
// Theta is per trading day; Vega is per one percentage point of volatility.
type RiskProfile struct {
	ExpectedMove        float64
	TargetPrice         float64
	Payoff              float64
	RiskReward          float64
	Breakeven           float64
	ProbabilityOfProfit float64
	Delta               float64
	Gamma               float64
	Theta               float64
	Vega                float64
	StopLossPremium     float64
	DaysToExpiry        int
}

// MaxPainResult is the strike minimizing aggregate option-writer payout,
// with the full per-strike loss map it was derived from.
type MaxPainResult struct {
	Price         float64
	PerStrikeLoss map[float64]float64
}

// ExpiryClassification partitions available expiry dates into weekly and
// monthly buckets, each in chronological order. Combined is weekly followed
// by monthly, preserving the per-bucket order.
type ExpiryClassification struct {
	Weekly   []time.Time
	Monthly  []time.Time
	Combined []time.Time
}

// ChainAnalysis is the full output record for one snapshot analysis.
type ChainAnalysis struct {
	Symbol    string
	Spot      float64
	Expiry    time.Time
	Timestamp time.Time
	Pick      Pick
	Bias      BiasSignal
	MaxPain   MaxPainResult
	Expiries  ExpiryClassification
	Calls     []ScoredLeg // ranked, best first
	Puts      []ScoredLeg // ranked, best first
}
