package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.30, cfg.Scoring.WeightOI)
	assert.Equal(t, 100.0, cfg.Scoring.StrikeStep)
	assert.Equal(t, "Thursday", cfg.Expiry.Weekday)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Scoring.WeightOI = -0.1 }},
		{"zero strike step", func(c *Config) { c.Scoring.StrikeStep = 0 }},
		{"bad synthetic ratio", func(c *Config) { c.Liquidity.SyntheticBidRatio = 1.5 }},
		{"zero bias window", func(c *Config) { c.Bias.WindowSteps = 0 }},
		{"negative shift steps", func(c *Config) { c.Selector.MaxShiftSteps = -1 }},
		{"zero trading days", func(c *Config) { c.Risk.TradingDays = 0 }},
		{"bad weekday", func(c *Config) { c.Expiry.Weekday = "Someday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_MissingFileCreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[scoring]
weight_oi = 0.40
strike_step = 50.0

[risk]
min_risk_reward = 3.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 0.40, cfg.Scoring.WeightOI)
	assert.Equal(t, 50.0, cfg.Scoring.StrikeStep)
	assert.Equal(t, 3.0, cfg.Risk.MinRiskReward)
	// untouched sections keep the defaults
	assert.Equal(t, 0.30, cfg.Scoring.WeightChangeOI)
	assert.Equal(t, 0.065, cfg.Risk.RiskFreeRate)
}

func TestAnalysisParams_Conversion(t *testing.T) {
	cfg := Default()
	cfg.Scoring.StrikeStep = 50
	cfg.Bias.WindowSteps = 5
	cfg.Expiry.Weekday = "Tuesday"

	p := cfg.AnalysisParams()

	assert.Equal(t, 50.0, p.Scoring.StrikeStep)
	assert.Equal(t, 50.0, p.Bias.StrikeStep)
	assert.Equal(t, 50.0, p.Selector.StrikeStep)
	assert.Equal(t, 5, p.Bias.WindowSteps)
	assert.Equal(t, time.Tuesday, p.Expiry.Weekday)
	assert.NotNil(t, p.Now)
}
