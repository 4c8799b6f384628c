package cli

import (
	"fmt"
	"strings"
	"time"

	"optionpulse/internal/models"
)

// FormatIndianNumber formats an integer string in the Indian numbering
// system: 1,00,00,000 (1 crore) rather than 10,000,000.
func FormatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatPrice formats a price with two decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatStrike formats a strike price without decimals.
func FormatStrike(strike float64) string {
	return FormatIndianNumber(fmt.Sprintf("%.0f", strike))
}

// FormatOI formats open interest in compact form.
func FormatOI(oi float64) string {
	if !models.Known(oi) {
		return "-"
	}
	v := int64(oi)
	if v >= 10000000 {
		return fmt.Sprintf("%.2f Cr", oi/10000000)
	} else if v >= 100000 {
		return fmt.Sprintf("%.2f L", oi/100000)
	} else if v >= 1000 {
		return fmt.Sprintf("%.2f K", oi/1000)
	}
	return fmt.Sprintf("%d", v)
}

// FormatIV formats implied volatility as a percentage.
func FormatIV(iv float64) string {
	if !models.Known(iv) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", iv*100)
}

// FormatScore formats a composite score.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.3f", score)
}

// FormatRiskReward formats a risk-reward ratio.
func FormatRiskReward(rr float64) string {
	return fmt.Sprintf("1:%.2f", rr)
}

// FormatProbability formats a probability as a percentage.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FormatGreeks formats option greeks.
func FormatGreeks(delta, gamma, theta, vega float64) string {
	return fmt.Sprintf("Δ: %.4f  Γ: %.6f  Θ: %.2f  ν: %.2f", delta, gamma, theta, vega)
}

// FormatDate formats a date in the NSE convention.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-2006")
}

// FormatSigned formats a number with an explicit sign.
func FormatSigned(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.0f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
