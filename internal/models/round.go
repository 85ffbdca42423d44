package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the contribution cadence of a round.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Valid reports whether the frequency is one of the supported cadences.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// PayoutOrder determines how the payout recipient is chosen each cycle.
type PayoutOrder string

const (
	// PayoutOrderFixed pays members by their assigned payout position.
	PayoutOrderFixed PayoutOrder = "fixed"
	// PayoutOrderRandom pays members in join order. The name is historical:
	// the rotation is deterministic, sorted by join time.
	PayoutOrderRandom PayoutOrder = "random"
)

// Valid reports whether the payout order is supported.
func (o PayoutOrder) Valid() bool {
	return o == PayoutOrderFixed || o == PayoutOrderRandom
}

// StartType describes when a round's schedule begins.
type StartType string

const (
	StartImmediate  StartType = "immediate"
	StartFuture     StartType = "future"
	StartInProgress StartType = "in-progress"
)

// Valid reports whether the start type is supported.
func (s StartType) Valid() bool {
	return s == StartImmediate || s == StartFuture || s == StartInProgress
}

// Verification controls whether payment proofs are required for contributions.
type Verification string

const (
	VerificationOptional  Verification = "optional"
	VerificationMandatory Verification = "mandatory"
)

// Valid reports whether the verification mode is supported.
func (v Verification) Valid() bool {
	return v == VerificationOptional || v == VerificationMandatory
}

// RoundStatus is the lifecycle status of a round.
type RoundStatus string

const (
	RoundActive   RoundStatus = "active"
	RoundArchived RoundStatus = "archived"
)

// Round represents one rotating savings circle.
//
// NumberOfMembers is fixed at creation and never changes; membership grows
// toward it through invite redemption only.
type Round struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// Name is the display name of the round (e.g., "Office Susu").
	Name string

	// OrganizerID is the user who created the round. The organizer is the
	// sole authority for settings, archival and proof review.
	OrganizerID string

	// Currency is the ISO 4217 code all amounts in this round share.
	Currency string

	// ContributionAmount is the fixed amount every member contributes each cycle.
	ContributionAmount decimal.Decimal

	// Frequency is the contribution cadence.
	Frequency Frequency

	// NumberOfMembers is the fixed member capacity, immutable once set.
	NumberOfMembers int

	// PayoutOrder selects the recipient rotation policy.
	PayoutOrder PayoutOrder

	// StartType describes when the schedule begins. StartDate is required
	// unless StartType is StartImmediate.
	StartType StartType

	// StartDate anchors the contribution and payout calendars.
	StartDate time.Time

	// GracePeriodDays is how many days after a due date a pending
	// contribution is tolerated before it reads as late.
	GracePeriodDays int

	// Verification controls whether proofs are required.
	Verification Verification

	// OrganizerParticipates reports whether the organizer is also member #1.
	OrganizerParticipates bool

	// Status is active or archived. Archival is a soft state change.
	Status RoundStatus

	// CreatedAt is the Unix timestamp when the round was created.
	CreatedAt int64
}

// Validate checks the round's creation invariants.
func (r *Round) Validate() error {
	if r.Name == "" {
		return ErrRoundNameRequired
	}
	if r.Currency == "" {
		return ErrCurrencyRequired
	}
	if !r.ContributionAmount.IsPositive() {
		return ErrAmountNotPositive
	}
	if r.NumberOfMembers < 2 {
		return ErrTooFewMembers
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if !r.PayoutOrder.Valid() {
		return ErrInvalidPayoutOrder
	}
	if !r.StartType.Valid() {
		return ErrInvalidStartType
	}
	if r.StartType != StartImmediate && r.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	if r.GracePeriodDays < 0 {
		return ErrNegativeGracePeriod
	}
	if !r.Verification.Valid() {
		return ErrInvalidVerification
	}
	return nil
}
