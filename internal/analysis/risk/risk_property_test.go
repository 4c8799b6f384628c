package risk

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"optionpulse/internal/models"
)

// Property: for any valid inputs the breakeven identities hold exactly and
// the probability of profit stays inside [0,1].

func TestProperty_BreakevenAndProbability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("breakeven law and PoP bounds", prop.ForAll(
		func(spot, strikeOffset, premium, iv float64, days int) bool {
			strike := spot + strikeOffset
			p := DefaultParams()

			call := Profile(spot, strike, premium, iv, days, models.CallOption, p)
			if call.Breakeven != strike+premium {
				return false
			}
			put := Profile(spot, strike, premium, iv, days, models.PutOption, p)
			if put.Breakeven != strike-premium {
				return false
			}

			for _, pop := range []float64{call.ProbabilityOfProfit, put.ProbabilityOfProfit} {
				if math.IsNaN(pop) || pop < 0 || pop > 1 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(1000, 60000),
		gen.Float64Range(-2000, 2000),
		gen.Float64Range(0.05, 1000),
		gen.Float64Range(0.01, 1.5),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
