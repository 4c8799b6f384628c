// Package expiry partitions option expiry dates into weekly and monthly
// buckets. A monthly expiry is the last occurrence of the index's standard
// expiry weekday within its month; every other date is weekly.
package expiry

import (
	"sort"
	"time"

	"optionpulse/internal/models"
)

// Classifier holds the expiry-cycle convention of one index family.
type Classifier struct {
	Weekday time.Weekday
}

// DefaultClassifier returns the NSE index convention of Thursday expiries.
func DefaultClassifier() Classifier {
	return Classifier{Weekday: time.Thursday}
}

// IsMonthly reports whether d is the last occurrence of the expiry weekday
// in its month.
func (c Classifier) IsMonthly(d time.Time) bool {
	if d.Weekday() != c.Weekday {
		return false
	}
	return d.AddDate(0, 0, 7).Month() != d.Month()
}

// Classify buckets the given dates. Each bucket is chronological and the
// combined list is weekly first, then monthly, preserving bucket order.
// Duplicates are collapsed.
func (c Classifier) Classify(dates []time.Time) models.ExpiryClassification {
	var out models.ExpiryClassification
	seen := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		d = d.Truncate(24 * time.Hour)
		if seen[d] {
			continue
		}
		seen[d] = true
		if c.IsMonthly(d) {
			out.Monthly = append(out.Monthly, d)
		} else {
			out.Weekly = append(out.Weekly, d)
		}
	}
	sortDates(out.Weekly)
	sortDates(out.Monthly)
	out.Combined = append(append([]time.Time{}, out.Weekly...), out.Monthly...)
	return out
}

// FrontExpiries returns the nearest upcoming expiries: up to weeklyCount
// weekly and monthlyCount monthly dates at or after now, weekly first.
func (c Classifier) FrontExpiries(dates []time.Time, now time.Time, weeklyCount, monthlyCount int) []time.Time {
	cls := c.Classify(dates)
	today := now.Truncate(24 * time.Hour)

	var out []time.Time
	out = append(out, upcoming(cls.Weekly, today, weeklyCount)...)
	out = append(out, upcoming(cls.Monthly, today, monthlyCount)...)
	return out
}

func upcoming(dates []time.Time, today time.Time, n int) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if d.Before(today) {
			continue
		}
		out = append(out, d)
		if len(out) == n {
			break
		}
	}
	return out
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
