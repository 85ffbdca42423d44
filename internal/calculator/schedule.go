// Package calculator holds the pure round math: contribution and payout
// calendars, payout recipient resolution, and next-action aggregation.
// Nothing here reads the wall clock or touches storage; "now" is always
// passed in by the caller.
package calculator

import (
	"time"

	"github.com/mmynk/rondo/internal/models"
)

// IntervalDays returns the number of days in one interval of the given
// frequency. Monthly is a fixed 30-day approximation, not calendar-aware.
func IntervalDays(freq models.Frequency) int {
	switch freq {
	case models.FrequencyDaily:
		return 1
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyBiweekly:
		return 14
	case models.FrequencyMonthly:
		return 30
	default:
		return 0
	}
}

// Contributions returns the ordered due dates for every member-cycle
// obligation across cyclesToGenerate cycles. Within a cycle the members'
// due dates are spread one interval apart, so cycle c member m is due at
// start + (c·interval·members + m·interval) days.
func Contributions(start time.Time, freq models.Frequency, numberOfMembers, cyclesToGenerate int) []time.Time {
	interval := IntervalDays(freq)
	dates := make([]time.Time, 0, numberOfMembers*cyclesToGenerate)
	for c := 0; c < cyclesToGenerate; c++ {
		for m := 0; m < numberOfMembers; m++ {
			offset := c*interval*numberOfMembers + m*interval
			dates = append(dates, start.AddDate(0, 0, offset))
		}
	}
	return dates
}

// Payouts returns the ordered payout dates: one payout every single
// interval, numberOfMembers·cyclesToGenerate in total. Payouts are not
// bundled per cycle the way contributions are; the asymmetry matches the
// round semantics and is covered by tests.
func Payouts(start time.Time, freq models.Frequency, numberOfMembers, cyclesToGenerate int) []time.Time {
	interval := IntervalDays(freq)
	n := numberOfMembers * cyclesToGenerate
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i*interval))
	}
	return dates
}
