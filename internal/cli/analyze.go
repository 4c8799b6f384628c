package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"optionpulse/internal/analysis"
	"optionpulse/internal/analysis/risk"
	"optionpulse/internal/logging"
	"optionpulse/internal/models"
	"optionpulse/internal/store"
)

var dateLayouts = []string{"02-Jan-2006", "2006-01-02"}

func newAnalyzeCmd(app *App) *cobra.Command {
	var expiryFlag string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "analyze <snapshot-file>",
		Short: "Analyze an option chain snapshot",
		Long: `Analyze runs the full pipeline over one snapshot file: strike scoring,
bias detection, CE/PE selection, risk metrics, max pain and the expiry
calendar. The snapshot may be CSV or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")

			snap, err := LoadSnapshot(args[0], symbol)
			if err != nil {
				return err
			}

			expiryDate, err := parseDateFlag(expiryFlag)
			if err != nil {
				return err
			}

			logger := logging.WithSymbol(app.Logger, snap.Symbol)
			result, err := analysis.Analyze(snap, expiryDate, app.Config.AnalysisParams())
			if err != nil {
				logger.Error().Err(err).Msg("Analysis failed")
				return err
			}

			logging.LogAnalysis(logger, result.Symbol, result.Spot,
				string(result.Bias.Direction), pickStrike(result.Pick.CE), pickStrike(result.Pick.PE))

			if app.Store != nil && !noSave {
				if err := app.Store.SaveAnalysis(cmd.Context(), result); err != nil {
					logger.Warn().Err(err).Msg("Failed to save analysis")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			renderAnalysis(output, result)
			return nil
		},
	}

	cmd.Flags().String("symbol", "NIFTY", "underlying symbol")
	cmd.Flags().StringVar(&expiryFlag, "expiry", "", "expiry date (02-Jan-2006 or 2006-01-02, default: nearest)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip recording the analysis in history")

	return cmd
}

func newScanCmd(app *App) *cobra.Command {
	var expiryFlag string
	var side string

	cmd := &cobra.Command{
		Use:   "scan <snapshot-file>",
		Short: "Scan for high risk:reward option candidates",
		Long: `Scan scores every leg of the chain and keeps those whose projected
risk:reward clears the configured floor, ranked by score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")

			snap, err := LoadSnapshot(args[0], symbol)
			if err != nil {
				return err
			}

			expiryDate, err := parseDateFlag(expiryFlag)
			if err != nil {
				return err
			}

			result, err := analysis.Analyze(snap, expiryDate, app.Config.AnalysisParams())
			if err != nil {
				return err
			}

			days := 0
			if cePick := result.Pick.CE; cePick != nil && cePick.Risk != nil {
				days = cePick.Risk.DaysToExpiry
			} else if pePick := result.Pick.PE; pePick != nil && pePick.Risk != nil {
				days = pePick.Risk.DaysToExpiry
			}

			riskParams := app.Config.AnalysisParams().Risk
			var candidates []risk.Candidate
			if side != "PE" {
				candidates = append(candidates, risk.ScanCandidates(result.Calls, result.Spot, days, riskParams)...)
			}
			if side != "CE" {
				candidates = append(candidates, risk.ScanCandidates(result.Puts, result.Spot, days, riskParams)...)
			}

			if output.IsJSON() {
				return output.JSON(candidates)
			}
			renderCandidates(output, result, candidates)
			return nil
		},
	}

	cmd.Flags().String("symbol", "NIFTY", "underlying symbol")
	cmd.Flags().StringVar(&expiryFlag, "expiry", "", "expiry date (02-Jan-2006 or 2006-01-02, default: nearest)")
	cmd.Flags().StringVar(&side, "side", "", "restrict to one side: CE or PE")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [symbol]",
		Short: "Show recorded analyses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("analysis store unavailable")
			}

			filter := store.AnalysisFilter{Limit: limit}
			if len(args) > 0 {
				filter.Symbol = args[0]
			}

			analyses, err := app.Store.GetAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(analyses)
			}

			if len(analyses) == 0 {
				output.Dim("No recorded analyses.")
				return nil
			}

			table := NewTable(output, "TIME", "SYMBOL", "SPOT", "BIAS", "CE", "PE", "MAX PAIN")
			for _, a := range analyses {
				table.AddRow(
					a.Timestamp.Format("02-Jan 15:04"),
					a.Symbol,
					FormatPrice(a.Spot),
					string(a.Bias),
					FormatStrike(a.CEStrike),
					FormatStrike(a.PEStrike),
					FormatStrike(a.MaxPain),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")

	return cmd
}

func renderAnalysis(output *Output, a *models.ChainAnalysis) {
	output.Bold("%s  spot %s  %s", a.Symbol, FormatPrice(a.Spot), FormatDate(a.Expiry))
	output.Println()

	output.Printf("Bias: %s  (imbalance %s vs threshold %.0f",
		output.BiasLabel(a.Bias.Direction), FormatSigned(a.Bias.Imbalance), a.Bias.Threshold)
	if a.Bias.UsedOIFallback {
		output.Printf(", OI fallback")
	}
	output.Printf(")\n")
	output.Printf("Max Pain: %s\n", FormatStrike(a.MaxPain.Price))
	output.Println()

	renderPick(output, "CE", a.Pick.CE)
	renderPick(output, "PE", a.Pick.PE)

	if len(a.Expiries.Weekly) > 0 || len(a.Expiries.Monthly) > 0 {
		output.Bold("Expiries")
		for _, d := range a.Expiries.Weekly {
			output.Printf("  %s  weekly\n", FormatDate(d))
		}
		for _, d := range a.Expiries.Monthly {
			output.Printf("  %s  monthly\n", FormatDate(d))
		}
	}
}

func renderPick(output *Output, side string, leg *models.ScoredLeg) {
	if leg == nil {
		output.Warning("%s: no scoreable legs", side)
		return
	}

	output.Bold("%s %s", side, FormatStrike(leg.Strike))
	output.Printf("  Score: %s (base %s, liquidity penalty %.2f)\n",
		FormatScore(leg.ScorePostLiquidity), FormatScore(leg.BaseScore), leg.LiquidityPenalty)
	output.Printf("  OI: %s  ΔOI: %s  IV: %s\n",
		FormatOI(leg.OpenInterest), FormatOI(leg.ChangeInOI), FormatIV(leg.IV))
	bidNote := ""
	if leg.SyntheticBid {
		bidNote = " (synthetic)"
	}
	output.Printf("  Bid: %s%s  Spread: %s\n", FormatPrice(leg.LiquidBid), bidNote, FormatPrice(leg.Spread))

	if r := leg.Risk; r != nil {
		output.Printf("  Breakeven: %s  Target: %s  R:R %s  PoP: %s\n",
			FormatPrice(r.Breakeven), FormatPrice(r.TargetPrice),
			FormatRiskReward(r.RiskReward), FormatProbability(r.ProbabilityOfProfit))
		output.Printf("  %s\n", FormatGreeks(r.Delta, r.Gamma, r.Theta, r.Vega))
		output.Printf("  Stop-loss premium: %s  (%d days to expiry)\n", FormatPrice(r.StopLossPremium), r.DaysToExpiry)
	}
	output.Println()
}

func renderCandidates(output *Output, a *models.ChainAnalysis, candidates []risk.Candidate) {
	output.Bold("%s  spot %s  %s", a.Symbol, FormatPrice(a.Spot), FormatDate(a.Expiry))
	output.Println()

	if len(candidates) == 0 {
		output.Dim("No candidates cleared the risk:reward floor.")
		return
	}

	table := NewTable(output, "TYPE", "STRIKE", "SCORE", "PREMIUM", "R:R", "PoP", "OI")
	for _, c := range candidates {
		table.AddRow(
			string(c.Leg.Type),
			FormatStrike(c.Leg.Strike),
			FormatScore(c.Leg.ScorePostLiquidity),
			FormatPrice(risk.Premium(c.Leg.OptionLeg)),
			FormatRiskReward(c.Risk.RiskReward),
			FormatProbability(c.Risk.ProbabilityOfProfit),
			FormatOI(c.Leg.OpenInterest),
		)
	}
	table.Render()
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected 02-Jan-2006 or 2006-01-02)", s)
}

func pickStrike(leg *models.ScoredLeg) float64 {
	if leg == nil {
		return 0
	}
	return leg.Strike
}
