package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optionpulse/internal/models"
)

func TestFormatIndianNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"45000", "45,000"},
		{"100000", "1,00,000"},
		{"10000000", "1,00,00,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIndianNumber(tt.in))
	}
}

func TestFormatOI(t *testing.T) {
	assert.Equal(t, "-", FormatOI(models.Unknown()))
	assert.Equal(t, "850", FormatOI(850))
	assert.Equal(t, "12.50 K", FormatOI(12500))
	assert.Equal(t, "1.21 L", FormatOI(120500))
	assert.Equal(t, "1.50 Cr", FormatOI(15000000))
}

func TestFormatIV(t *testing.T) {
	assert.Equal(t, "-", FormatIV(models.Unknown()))
	assert.Equal(t, "18.25%", FormatIV(0.1825))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "03-Sep-2026", FormatDate(time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)))
}

func TestFormatRiskReward(t *testing.T) {
	assert.Equal(t, "1:6.53", FormatRiskReward(6.53))
}
