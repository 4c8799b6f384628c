package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionpulse/internal/models"
)

func callLeg(strike, oi, doi, vol, iv, last float64) models.OptionLeg {
	return models.OptionLeg{
		Strike: strike, Type: models.CallOption,
		OpenInterest: oi, ChangeInOI: doi, Volume: vol, IV: iv,
		LastPrice: last, Bid: last * 0.98, Ask: last * 1.02,
	}
}

func TestScoreSide_ExcludesPricelessLegs(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(45000, 100000, 2000, 50000, 0.18, 120),
		{Strike: 45100, Type: models.CallOption, OpenInterest: 9e9}, // no price data at all
	}

	scored := ScoreSide(legs, 45000, DefaultParams())

	require.Len(t, scored, 1)
	assert.Equal(t, 45000.0, scored[0].Strike)
}

func TestScoreSide_ConstantColumnNormalizesToNeutral(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(45000, 100000, 1000, 50000, 0.18, 120),
		callLeg(45100, 100000, 2000, 60000, 0.19, 95),
	}

	scored := ScoreSide(legs, 45000, DefaultParams())

	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.Equal(t, 0.5, s.Factors.OI)
	}
}

func TestScoreSide_FactorBounds(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(44800, 250000, -12000, 90000, 0.21, 260),
		callLeg(45000, 100000, 2000, 50000, 0.18, 120),
		callLeg(45200, 40000, 31000, 15000, 0.16, 45),
		callLeg(45400, 5000, 500, 2000, 0.24, 12),
	}

	scored := ScoreSide(legs, 45050, DefaultParams())

	require.Len(t, scored, 4)
	for _, s := range scored {
		for _, f := range []float64{s.Factors.OI, s.Factors.ChangeOI, s.Factors.Volume, s.Factors.IV, s.Factors.Distance, s.Factors.Spread} {
			assert.GreaterOrEqual(t, f, 0.0)
			assert.LessOrEqual(t, f, 1.0)
		}
		assert.GreaterOrEqual(t, s.ScorePostLiquidity, 0.0)
	}
}

func TestScoreSide_ATMBonus(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(45000, 100000, 2000, 50000, 0.18, 120),
		callLeg(45500, 100000, 2000, 50000, 0.18, 120),
	}

	scored := ScoreSide(legs, 45000, DefaultParams())

	require.Len(t, scored, 2)
	atm, far := scored[0], scored[1]
	assert.Equal(t, 45000.0, atm.Strike)
	// every factor except distance is identical; the ATM leg gains the
	// bonus and avoids the full distance penalty
	w := DefaultWeights()
	assert.InDelta(t, w.Distance+DefaultParams().ATMBonus, atm.BaseScore-far.BaseScore, 1e-9)
}

func TestScoreSide_RanksBestFirstTiesToLowerStrike(t *testing.T) {
	legs := []models.OptionLeg{
		callLeg(45100, 100000, 2000, 50000, 0.18, 120),
		callLeg(45000, 100000, 2000, 50000, 0.18, 120),
	}

	// equidistant from spot, identical in every factor: scores tie
	scored := ScoreSide(legs, 45050, DefaultParams())

	require.Len(t, scored, 2)
	assert.Equal(t, scored[0].ScorePostLiquidity, scored[1].ScorePostLiquidity)
	assert.Equal(t, 45000.0, scored[0].Strike)
}

func TestScoreSide_EmptyInput(t *testing.T) {
	assert.Nil(t, ScoreSide(nil, 45000, DefaultParams()))
}
