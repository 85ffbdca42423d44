package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rondo/internal/models"
)

// NextAction is the single most important upcoming item for one user in
// one round. Overdue contributions always win: their synthetic date is
// the current instant, so they also dominate the cross-round reduction.
type NextAction struct {
	Date    time.Time
	Action  string
	Amount  decimal.Decimal
	Overdue bool
}

// Next computes the user's next action for one round using strict
// priority: overdue contributions (date = now), then the earliest
// pending contribution, then the earliest scheduled payout. The inputs
// are the user's own contributions and payouts for the round.
func Next(contributions []models.Contribution, payouts []models.Payout, now time.Time, gracePeriodDays int) (NextAction, bool) {
	overdue := 0
	var earliestPending *models.Contribution
	for i := range contributions {
		c := &contributions[i]
		switch c.EffectiveStatus(now, gracePeriodDays) {
		case models.ContributionLate:
			overdue++
		case models.ContributionPending:
			if earliestPending == nil || c.DueDate.Before(earliestPending.DueDate) {
				earliestPending = c
			}
		}
	}

	if overdue > 0 {
		return NextAction{
			Date:    now,
			Action:  fmt.Sprintf("%d overdue contribution(s)", overdue),
			Overdue: true,
		}, true
	}

	if earliestPending != nil {
		return NextAction{
			Date:   earliestPending.DueDate,
			Action: "contribution due",
			Amount: earliestPending.Amount,
		}, true
	}

	var earliestPayout *models.Payout
	for i := range payouts {
		p := &payouts[i]
		if p.Status != models.PayoutScheduled {
			continue
		}
		if earliestPayout == nil || p.ScheduledDate.Before(earliestPayout.ScheduledDate) {
			earliestPayout = p
		}
	}
	if earliestPayout != nil {
		return NextAction{
			Date:   earliestPayout.ScheduledDate,
			Action: "payout scheduled",
			Amount: earliestPayout.Amount,
		}, true
	}

	return NextAction{}, false
}

// DashboardStatus summarizes a user's standing across all their rounds.
type DashboardStatus string

const (
	StatusHealthy      DashboardStatus = "healthy"
	StatusActionNeeded DashboardStatus = "action-needed"
)

// RoundSignal is one round's next action tagged with its round.
type RoundSignal struct {
	RoundID   string
	RoundName string
	Next      NextAction
	Has       bool
}

// DashboardSummary is the cross-round reduction shown on the dashboard.
type DashboardSummary struct {
	Status    DashboardStatus
	RoundID   string
	RoundName string
	Date      time.Time
	Action    string
	Amount    decimal.Decimal
	Has       bool
}

// ReduceDashboard picks the entry with the minimum date across rounds.
// Any overdue round flips the global status to action-needed even when
// another round holds the earliest date.
func ReduceDashboard(signals []RoundSignal) DashboardSummary {
	summary := DashboardSummary{Status: StatusHealthy}
	for _, s := range signals {
		if !s.Has {
			continue
		}
		if s.Next.Overdue {
			summary.Status = StatusActionNeeded
		}
		if !summary.Has || s.Next.Date.Before(summary.Date) {
			summary.Has = true
			summary.RoundID = s.RoundID
			summary.RoundName = s.RoundName
			summary.Date = s.Next.Date
			summary.Action = s.Next.Action
			summary.Amount = s.Next.Amount
		}
	}
	return summary
}
