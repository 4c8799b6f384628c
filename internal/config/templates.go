package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# OptionPulse Configuration
# All values shown are the defaults; uncomment and edit to override.

[scoring]
# Composite score factor weights
# weight_oi = 0.30
# weight_change_oi = 0.30
# weight_volume = 0.20
# weight_iv = 0.10
# weight_distance = 0.06
# weight_spread = 0.04
# Strike ladder spacing of the underlying
# strike_step = 100.0
# Flat bonus for strikes within one step of at-the-money
# atm_bonus = 0.05

[liquidity]
# Bid at or below this is effectively untradeable
# min_bid = 0.05
# Penalty added for an untradeable bid
# thin_bid_penalty = 0.30
# spread / last_price above this marks a wide market
# wide_spread_ratio = 0.50
# Penalty added for a wide market
# wide_spread_penalty = 0.30
# Synthesized bid as a fraction of ask when the source quoted none
# synthetic_bid_ratio = 0.85
# Last-resort synthetic bid
# floor_bid = 0.05

[bias]
# Half-width of the ATM window in strike-steps
# window_steps = 3
# Absolute floor of the classification threshold
# min_threshold = 200.0
# Fraction of windowed open interest used as the scaled threshold
# threshold_scale = 0.005

[selector]
# Extra strike-steps searched when a directional shift finds no data
# max_shift_steps = 3

[risk]
# Annualized risk-free rate (decimal fraction)
# risk_free_rate = 0.065
# Multiplier applied to the expected move when projecting the target
# target_multiplier = 1.0
# Trading days per year
# trading_days = 252
# Minimum risk:reward kept by the candidate scan
# min_risk_reward = 2.0

[expiry]
# Weekday of the index's standard expiry cycle
# weekday = "Thursday"

[store]
# Analysis history database path
# path = "~/.config/optionpulse/optionpulse.db"

[logging]
# Log level: debug, info, warn, error
# level = "info"
# console = true
# file = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
