package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus is the state of a scheduled payout.
type PayoutStatus string

const (
	PayoutScheduled PayoutStatus = "scheduled"
	PayoutCompleted PayoutStatus = "completed"
)

// Payout represents the pooled amount owed to one member on one cycle.
// Like contributions, payouts track obligations only; no money moves
// through the platform.
type Payout struct {
	// ID is the unique identifier for the payout (UUID format).
	ID string

	// RoundID is the round this payout belongs to.
	RoundID string

	// RecipientID is the member receiving this payout.
	RecipientID string

	// Amount is the pooled amount (contribution amount × members).
	Amount decimal.Decimal

	// ScheduledDate is when the payout is due to the recipient.
	ScheduledDate time.Time

	// CompletedDate is when the organizer recorded the payout as done;
	// zero until then.
	CompletedDate time.Time

	// Status is scheduled or completed.
	Status PayoutStatus
}
