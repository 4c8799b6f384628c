package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionpulse/internal/config"
	"optionpulse/internal/logging"
	"optionpulse/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.AnalysisStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dbPath := cfg.Store.Path
	if dbPath == "" {
		dbPath = filepath.Join(config.DefaultConfigDir(), "optionpulse.db")
	}
	analysisStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, history will be unavailable")
	} else {
		app.Store = analysisStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "optionpulse",
		Short: "OptionPulse - option chain analytics CLI",
		Long: `OptionPulse analyzes index option chains: it scores every strike by
open-interest flow, volume and liquidity, detects the directional bias,
selects a call/put pair, and attaches Black-Scholes risk metrics,
max-pain and the expiry calendar.

Snapshots are read from CSV or JSON files produced by a chain fetcher.
Use 'optionpulse help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionpulse)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newMaxPainCmd(app))
	rootCmd.AddCommand(newExpiriesCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("OptionPulse v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Scoring")
	output.Printf("  OI Weight:        %.2f\n", cfg.Scoring.WeightOI)
	output.Printf("  ΔOI Weight:       %.2f\n", cfg.Scoring.WeightChangeOI)
	output.Printf("  Volume Weight:    %.2f\n", cfg.Scoring.WeightVolume)
	output.Printf("  IV Weight:        %.2f\n", cfg.Scoring.WeightIV)
	output.Printf("  Distance Weight:  %.2f\n", cfg.Scoring.WeightDistance)
	output.Printf("  Spread Weight:    %.2f\n", cfg.Scoring.WeightSpread)
	output.Printf("  Strike Step:      %.0f\n", cfg.Scoring.StrikeStep)
	output.Printf("  ATM Bonus:        %.2f\n", cfg.Scoring.ATMBonus)
	output.Println()

	output.Bold("Liquidity")
	output.Printf("  Min Bid:          %.2f\n", cfg.Liquidity.MinBid)
	output.Printf("  Thin Bid Penalty: %.2f\n", cfg.Liquidity.ThinBidPenalty)
	output.Printf("  Wide Spread:      %.2f ratio, %.2f penalty\n", cfg.Liquidity.WideSpreadRatio, cfg.Liquidity.WideSpreadPenalty)
	output.Println()

	output.Bold("Bias")
	output.Printf("  Window:           ±%d steps\n", cfg.Bias.WindowSteps)
	output.Printf("  Min Threshold:    %.0f\n", cfg.Bias.MinThreshold)
	output.Printf("  Threshold Scale:  %.3f\n", cfg.Bias.ThresholdScale)
	output.Println()

	output.Bold("Risk")
	output.Printf("  Risk-free Rate:   %.2f%%\n", cfg.Risk.RiskFreeRate*100)
	output.Printf("  Target Mult:      %.1f\n", cfg.Risk.TargetMultiplier)
	output.Printf("  Min Risk/Reward:  %.1f\n", cfg.Risk.MinRiskReward)
	output.Println()

	output.Bold("Expiry")
	output.Printf("  Weekday:          %s\n", cfg.Expiry.Weekday)

	return nil
}
