package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionpulse/internal/errors"
	"optionpulse/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
}

func testParams() Params {
	p := DefaultParams()
	p.Now = fixedNow
	return p
}

func chainLeg(strike float64, typ models.OptionType, oi, doi, last float64, exp time.Time) models.OptionLeg {
	return models.OptionLeg{
		Strike: strike, Type: typ,
		OpenInterest: oi, ChangeInOI: doi, Volume: oi / 2,
		IV: 0.18, LastPrice: last, Bid: last * 0.98, Ask: last * 1.02,
		Expiry: exp,
	}
}

func testSnapshot() *models.OptionChainSnapshot {
	exp := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	monthly := time.Date(2026, 9, 24, 0, 0, 0, 0, time.UTC)

	legs := []models.OptionLeg{
		chainLeg(44800, models.CallOption, 80000, 1000, 260, exp),
		chainLeg(44900, models.CallOption, 95000, 2500, 190, exp),
		chainLeg(45000, models.CallOption, 150000, 9000, 130, exp),
		chainLeg(45100, models.CallOption, 120000, 6000, 85, exp),
		chainLeg(45200, models.CallOption, 70000, 1500, 50, exp),
		chainLeg(44800, models.PutOption, 90000, 2000, 45, exp),
		chainLeg(44900, models.PutOption, 110000, 4000, 70, exp),
		chainLeg(45000, models.PutOption, 140000, 8000, 110, exp),
		chainLeg(45100, models.PutOption, 100000, 3000, 165, exp),
		chainLeg(45200, models.PutOption, 60000, 500, 235, exp),
		chainLeg(45000, models.CallOption, 40000, 700, 210, monthly),
		chainLeg(45000, models.PutOption, 35000, 600, 190, monthly),
	}

	return &models.OptionChainSnapshot{
		Symbol:    "NIFTY",
		Spot:      45012,
		Timestamp: fixedNow(),
		Legs:      legs,
	}
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	_, err := Analyze(&models.OptionChainSnapshot{Symbol: "NIFTY", Spot: 45000}, time.Time{}, testParams())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptySnapshot))
}

func TestAnalyze_InvalidSpot(t *testing.T) {
	snap := testSnapshot()
	snap.Spot = 0

	_, err := Analyze(snap, time.Time{}, testParams())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSpot))
}

func TestAnalyze_UnknownExpiry(t *testing.T) {
	snap := testSnapshot()

	_, err := Analyze(snap, time.Date(2027, 1, 7, 0, 0, 0, 0, time.UTC), testParams())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoExpiries))
}

func TestAnalyze_AllLegsPriceless(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.Legs {
		snap.Legs[i].Bid = 0
		snap.Legs[i].Ask = 0
		snap.Legs[i].LastPrice = 0
	}

	_, err := Analyze(snap, time.Time{}, testParams())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoLiquidLegs))
}

func TestAnalyze_FullPipeline(t *testing.T) {
	snap := testSnapshot()

	result, err := Analyze(snap, time.Time{}, testParams())

	require.NoError(t, err)
	assert.Equal(t, "NIFTY", result.Symbol)
	assert.Equal(t, 45012.0, result.Spot)

	// nearest expiry from the fixed clock is the front weekly
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), result.Expiry)

	// monthly legs must not leak into the per-expiry scoring
	assert.Len(t, result.Calls, 5)
	assert.Len(t, result.Puts, 5)

	require.NotNil(t, result.Pick.CE)
	require.NotNil(t, result.Pick.PE)
	assert.NotEqual(t, result.Pick.CE.Strike, result.Pick.PE.Strike)

	require.NotNil(t, result.Pick.CE.Risk)
	require.NotNil(t, result.Pick.PE.Risk)
	assert.Equal(t, 6, result.Pick.CE.Risk.DaysToExpiry)
	assert.Greater(t, result.Pick.CE.Risk.Breakeven, result.Pick.CE.Strike)
	assert.Less(t, result.Pick.PE.Risk.Breakeven, result.Pick.PE.Strike)

	assert.NotZero(t, result.MaxPain.Price)
	assert.NotEmpty(t, result.MaxPain.PerStrikeLoss)

	// Sep 3 is a weekly, Sep 24 is the last Thursday of its month
	require.Len(t, result.Expiries.Weekly, 1)
	require.Len(t, result.Expiries.Monthly, 1)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), result.Expiries.Weekly[0])
	assert.Equal(t, time.Date(2026, 9, 24, 0, 0, 0, 0, time.UTC), result.Expiries.Monthly[0])
}

func TestAnalyze_ExplicitExpiry(t *testing.T) {
	snap := testSnapshot()
	monthly := time.Date(2026, 9, 24, 0, 0, 0, 0, time.UTC)

	result, err := Analyze(snap, monthly, testParams())

	require.NoError(t, err)
	assert.Equal(t, monthly, result.Expiry)
	assert.Len(t, result.Calls, 1)
	assert.Len(t, result.Puts, 1)
	require.NotNil(t, result.Pick.CE.Risk)
	assert.Equal(t, 27, result.Pick.CE.Risk.DaysToExpiry)
}

func TestAnalyze_DoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot()
	before := make([]models.OptionLeg, len(snap.Legs))
	copy(before, snap.Legs)

	_, err := Analyze(snap, time.Time{}, testParams())

	require.NoError(t, err)
	assert.Equal(t, before, snap.Legs)
}
