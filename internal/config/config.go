// Package config provides configuration management for the analytics
// application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "optionpulse/internal/errors"

	"optionpulse/internal/analysis"
	"optionpulse/internal/analysis/bias"
	"optionpulse/internal/analysis/expiry"
	"optionpulse/internal/analysis/liquidity"
	"optionpulse/internal/analysis/risk"
	"optionpulse/internal/analysis/scoring"
	"optionpulse/internal/analysis/selector"
)

// Config holds all application configuration.
type Config struct {
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Liquidity LiquidityConfig `mapstructure:"liquidity"`
	Bias      BiasConfig      `mapstructure:"bias"`
	Selector  SelectorConfig  `mapstructure:"selector"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Expiry    ExpiryConfig    `mapstructure:"expiry"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ScoringConfig holds the composite-score weights and ATM bonus.
type ScoringConfig struct {
	WeightOI       float64 `mapstructure:"weight_oi"`
	WeightChangeOI float64 `mapstructure:"weight_change_oi"`
	WeightVolume   float64 `mapstructure:"weight_volume"`
	WeightIV       float64 `mapstructure:"weight_iv"`
	WeightDistance float64 `mapstructure:"weight_distance"`
	WeightSpread   float64 `mapstructure:"weight_spread"`
	StrikeStep     float64 `mapstructure:"strike_step"`
	ATMBonus       float64 `mapstructure:"atm_bonus"`
}

// LiquidityConfig holds the liquidity gate thresholds.
type LiquidityConfig struct {
	MinBid            float64 `mapstructure:"min_bid"`
	ThinBidPenalty    float64 `mapstructure:"thin_bid_penalty"`
	WideSpreadRatio   float64 `mapstructure:"wide_spread_ratio"`
	WideSpreadPenalty float64 `mapstructure:"wide_spread_penalty"`
	SyntheticBidRatio float64 `mapstructure:"synthetic_bid_ratio"`
	FloorBid          float64 `mapstructure:"floor_bid"`
}

// BiasConfig holds the open-interest bias detection parameters.
type BiasConfig struct {
	WindowSteps    int     `mapstructure:"window_steps"`
	MinThreshold   float64 `mapstructure:"min_threshold"`
	ThresholdScale float64 `mapstructure:"threshold_scale"`
}

// SelectorConfig holds the strike selection parameters.
type SelectorConfig struct {
	MaxShiftSteps int `mapstructure:"max_shift_steps"`
}

// RiskConfig holds the risk engine parameters.
type RiskConfig struct {
	RiskFreeRate     float64 `mapstructure:"risk_free_rate"`
	TargetMultiplier float64 `mapstructure:"target_multiplier"`
	TradingDays      int     `mapstructure:"trading_days"`
	MinRiskReward    float64 `mapstructure:"min_risk_reward"`
}

// ExpiryConfig holds the expiry-cycle convention.
type ExpiryConfig struct {
	Weekday string `mapstructure:"weekday"`
}

// StoreConfig holds the analysis history database configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionpulse"
	}
	return filepath.Join(home, ".config", "optionpulse")
}

// Default returns the built-in configuration.
func Default() *Config {
	s := scoring.DefaultParams()
	l := liquidity.DefaultThresholds()
	b := bias.DefaultParams()
	sel := selector.DefaultParams()
	r := risk.DefaultParams()
	return &Config{
		Scoring: ScoringConfig{
			WeightOI:       s.Weights.OI,
			WeightChangeOI: s.Weights.ChangeOI,
			WeightVolume:   s.Weights.Volume,
			WeightIV:       s.Weights.IV,
			WeightDistance: s.Weights.Distance,
			WeightSpread:   s.Weights.Spread,
			StrikeStep:     s.StrikeStep,
			ATMBonus:       s.ATMBonus,
		},
		Liquidity: LiquidityConfig{
			MinBid:            l.MinBid,
			ThinBidPenalty:    l.ThinBidPenalty,
			WideSpreadRatio:   l.WideSpreadRatio,
			WideSpreadPenalty: l.WideSpreadPenalty,
			SyntheticBidRatio: l.SyntheticBidRatio,
			FloorBid:          l.FloorBid,
		},
		Bias: BiasConfig{
			WindowSteps:    b.WindowSteps,
			MinThreshold:   b.MinThreshold,
			ThresholdScale: b.ThresholdScale,
		},
		Selector: SelectorConfig{
			MaxShiftSteps: sel.MaxShiftSteps,
		},
		Risk: RiskConfig{
			RiskFreeRate:     r.RiskFreeRate,
			TargetMultiplier: r.TargetMultiplier,
			TradingDays:      r.TradingDays,
			MinRiskReward:    r.MinRiskReward,
		},
		Expiry: ExpiryConfig{Weekday: "Thursday"},
		Store:  StoreConfig{Path: filepath.Join(DefaultConfigDir(), "optionpulse.db")},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
	}
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file is not an
// error: a commented template is written and the defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"weight_oi", c.Scoring.WeightOI},
		{"weight_change_oi", c.Scoring.WeightChangeOI},
		{"weight_volume", c.Scoring.WeightVolume},
		{"weight_iv", c.Scoring.WeightIV},
		{"weight_distance", c.Scoring.WeightDistance},
		{"weight_spread", c.Scoring.WeightSpread},
	}
	for _, w := range weights {
		if w.value < 0 {
			return invalid("%s must be non-negative", w.name)
		}
	}
	if c.Scoring.StrikeStep <= 0 {
		return invalid("strike_step must be positive")
	}
	if c.Liquidity.SyntheticBidRatio <= 0 || c.Liquidity.SyntheticBidRatio > 1 {
		return invalid("synthetic_bid_ratio must be in (0, 1]")
	}
	if c.Bias.WindowSteps <= 0 {
		return invalid("window_steps must be positive")
	}
	if c.Bias.ThresholdScale < 0 {
		return invalid("threshold_scale must be non-negative")
	}
	if c.Selector.MaxShiftSteps < 0 {
		return invalid("max_shift_steps must be non-negative")
	}
	if c.Risk.TradingDays <= 0 {
		return invalid("trading_days must be positive")
	}
	if c.Risk.MinRiskReward < 0 {
		return invalid("min_risk_reward must be non-negative")
	}
	if _, err := parseWeekday(c.Expiry.Weekday); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrConfigInvalid, fmt.Sprintf(format, args...))
}

// AnalysisParams converts the configuration into the pipeline parameters.
func (c *Config) AnalysisParams() analysis.Params {
	weekday, err := parseWeekday(c.Expiry.Weekday)
	if err != nil {
		weekday = time.Thursday
	}
	thresholds := liquidity.Thresholds{
		MinBid:            c.Liquidity.MinBid,
		ThinBidPenalty:    c.Liquidity.ThinBidPenalty,
		WideSpreadRatio:   c.Liquidity.WideSpreadRatio,
		WideSpreadPenalty: c.Liquidity.WideSpreadPenalty,
		SyntheticBidRatio: c.Liquidity.SyntheticBidRatio,
		FloorBid:          c.Liquidity.FloorBid,
	}
	return analysis.Params{
		Scoring: scoring.Params{
			Weights: scoring.Weights{
				OI:       c.Scoring.WeightOI,
				ChangeOI: c.Scoring.WeightChangeOI,
				Volume:   c.Scoring.WeightVolume,
				IV:       c.Scoring.WeightIV,
				Distance: c.Scoring.WeightDistance,
				Spread:   c.Scoring.WeightSpread,
			},
			StrikeStep: c.Scoring.StrikeStep,
			ATMBonus:   c.Scoring.ATMBonus,
			Liquidity:  thresholds,
		},
		Bias: bias.Params{
			WindowSteps:    c.Bias.WindowSteps,
			StrikeStep:     c.Scoring.StrikeStep,
			MinThreshold:   c.Bias.MinThreshold,
			ThresholdScale: c.Bias.ThresholdScale,
		},
		Selector: selector.Params{
			StrikeStep:    c.Scoring.StrikeStep,
			MaxShiftSteps: c.Selector.MaxShiftSteps,
		},
		Risk: risk.Params{
			RiskFreeRate:     c.Risk.RiskFreeRate,
			TargetMultiplier: c.Risk.TargetMultiplier,
			TradingDays:      c.Risk.TradingDays,
			MinRiskReward:    c.Risk.MinRiskReward,
		},
		Expiry: expiry.Classifier{Weekday: weekday},
		Now:    time.Now,
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid expiry weekday: %q", s)
}
