package cli

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"optionpulse/internal/analysis/expiry"
	"optionpulse/internal/analysis/maxpain"
	"optionpulse/internal/errors"
)

func newMaxPainCmd(app *App) *cobra.Command {
	var expiryFlag string

	cmd := &cobra.Command{
		Use:   "maxpain <snapshot-file>",
		Short: "Compute the max pain price of a chain",
		Long: `Max pain is the underlying price at which the aggregate payout owed by
option writers across the chain is smallest.`,
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
			if !expiryDate.IsZero() {
				snap = snap.ForExpiry(expiryDate)
				if len(snap.Legs) == 0 {
					return errors.NewSnapshotError(symbol, "no legs for requested expiry", errors.ErrNoExpiries)
				}
			}

			result := maxpain.Calculate(snap)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("%s  spot %s", snap.Symbol, FormatPrice(snap.Spot))
			output.Printf("Max Pain: %s\n", FormatStrike(result.Price))
			output.Println()

			strikes := make([]float64, 0, len(result.PerStrikeLoss))
			for k := range result.PerStrikeLoss {
				strikes = append(strikes, k)
			}
			sort.Float64s(strikes)

			table := NewTable(output, "STRIKE", "WRITER LOSS")
			for _, k := range strikes {
				table.AddRow(FormatStrike(k), FormatOI(result.PerStrikeLoss[k]))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "NIFTY", "underlying symbol")
	cmd.Flags().StringVar(&expiryFlag, "expiry", "", "expiry date (02-Jan-2006 or 2006-01-02)")

	return cmd
}

func newExpiriesCmd(app *App) *cobra.Command {
	var front bool

	cmd := &cobra.Command{
		Use:   "expiries <snapshot-file>",
		Short: "Classify a chain's expiry dates",
		Long: `Expiries buckets the chain's expiry dates into weekly and monthly
cycles. A monthly expiry is the last expiry-weekday of its month.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")

			snap, err := LoadSnapshot(args[0], symbol)
			if err != nil {
				return err
			}

			dates := snap.ExpiryDates()
			if len(dates) == 0 {
				return errors.NewSnapshotError(symbol, "no parseable expiry dates", errors.ErrNoExpiries)
			}

			classifier := expiry.Classifier{Weekday: parseWeekdayOrThursday(app.Config.Expiry.Weekday)}

			if front {
				picks := classifier.FrontExpiries(dates, time.Now(), 3, 2)
				if output.IsJSON() {
					return output.JSON(picks)
				}
				output.Bold("Front expiries")
				for _, d := range picks {
					kind := "weekly"
					if classifier.IsMonthly(d) {
						kind = "monthly"
					}
					output.Printf("  %s  %s\n", FormatDate(d), kind)
				}
				return nil
			}

			cls := classifier.Classify(dates)
			if output.IsJSON() {
				return output.JSON(cls)
			}

			output.Bold("Weekly")
			for _, d := range cls.Weekly {
				output.Printf("  %s\n", FormatDate(d))
			}
			output.Bold("Monthly")
			for _, d := range cls.Monthly {
				output.Printf("  %s\n", FormatDate(d))
			}
			return nil
		},
	}

	cmd.Flags().String("symbol", "NIFTY", "underlying symbol")
	cmd.Flags().BoolVar(&front, "front", false, "show only the nearest 3 weekly and 2 monthly expiries")

	return cmd
}

func parseWeekdayOrThursday(s string) time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() {
			return d
		}
	}
	return time.Thursday
}
