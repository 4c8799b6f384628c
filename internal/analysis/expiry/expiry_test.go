package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsMonthly(t *testing.T) {
	c := DefaultClassifier()

	// Thursdays of August 2026: 6, 13, 20, 27
	assert.False(t, c.IsMonthly(day(2026, time.August, 6)))
	assert.False(t, c.IsMonthly(day(2026, time.August, 20)))
	assert.True(t, c.IsMonthly(day(2026, time.August, 27)))

	// not a Thursday at all
	assert.False(t, c.IsMonthly(day(2026, time.August, 28)))
}

func TestClassify(t *testing.T) {
	c := DefaultClassifier()

	dates := []time.Time{
		day(2026, time.September, 24), // last Thursday of September
		day(2026, time.August, 27),    // last Thursday of August
		day(2026, time.September, 3),
		day(2026, time.September, 10),
		day(2026, time.September, 3), // duplicate
	}

	cls := c.Classify(dates)

	require.Len(t, cls.Weekly, 2)
	assert.Equal(t, day(2026, time.September, 3), cls.Weekly[0])
	assert.Equal(t, day(2026, time.September, 10), cls.Weekly[1])

	require.Len(t, cls.Monthly, 2)
	assert.Equal(t, day(2026, time.August, 27), cls.Monthly[0])
	assert.Equal(t, day(2026, time.September, 24), cls.Monthly[1])

	// combined is weekly then monthly, bucket order preserved
	require.Len(t, cls.Combined, 4)
	assert.Equal(t, cls.Weekly, cls.Combined[:2])
	assert.Equal(t, cls.Monthly, cls.Combined[2:])
}

func TestFrontExpiries(t *testing.T) {
	c := DefaultClassifier()
	now := day(2026, time.September, 1)

	dates := []time.Time{
		day(2026, time.August, 20),    // past, skipped
		day(2026, time.September, 3),
		day(2026, time.September, 10),
		day(2026, time.September, 17),
		day(2026, time.October, 1),
		day(2026, time.September, 24), // monthly
		day(2026, time.October, 29),   // monthly
		day(2026, time.November, 26),  // monthly
	}

	picks := c.FrontExpiries(dates, now, 3, 2)

	require.Len(t, picks, 5)
	assert.Equal(t, day(2026, time.September, 3), picks[0])
	assert.Equal(t, day(2026, time.September, 10), picks[1])
	assert.Equal(t, day(2026, time.September, 17), picks[2])
	assert.Equal(t, day(2026, time.September, 24), picks[3])
	assert.Equal(t, day(2026, time.October, 29), picks[4])
}

func TestClassifier_CustomWeekday(t *testing.T) {
	c := Classifier{Weekday: time.Tuesday}

	// Tuesdays of September 2026: 1, 8, 15, 22, 29
	assert.True(t, c.IsMonthly(day(2026, time.September, 29)))
	assert.False(t, c.IsMonthly(day(2026, time.September, 22)))
}
