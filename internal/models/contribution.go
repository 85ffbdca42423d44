package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionStatus is the state of one member-cycle obligation.
//
// Transitions: pending → late (derived from time, never stored eagerly),
// pending|late → paid (owner marks paid, idempotent), paid|pending|late →
// verified (only via an approved payment proof). Late never reverts to
// pending; paid and verified are sticky.
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionLate     ContributionStatus = "late"
	ContributionPaid     ContributionStatus = "paid"
	ContributionVerified ContributionStatus = "verified"
)

// Contribution represents one member's obligation for one cycle.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// RoundID is the round this contribution belongs to.
	RoundID string

	// UserID is the owing member.
	UserID string

	// Amount is the fixed contribution amount, in the round's currency.
	Amount decimal.Decimal

	// DueDate is when the contribution is due.
	DueDate time.Time

	// PaidDate is when the member marked the contribution paid; zero until then.
	PaidDate time.Time

	// Status is the stored status. Readers should use EffectiveStatus,
	// which folds in the time-derived late transition.
	Status ContributionStatus
}

// EffectiveStatus returns the contribution's status as of now. A stored
// pending contribution reads as late once now is past the due date plus
// the round's grace period. Paid and verified are returned as stored.
func (c *Contribution) EffectiveStatus(now time.Time, gracePeriodDays int) ContributionStatus {
	if c.Status != ContributionPending {
		return c.Status
	}
	deadline := c.DueDate.AddDate(0, 0, gracePeriodDays)
	if now.After(deadline) {
		return ContributionLate
	}
	return ContributionPending
}
