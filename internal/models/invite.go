package models

import "time"

// InviteLink is a redeemable code admitting new members to a round.
//
// MaxUses of zero means unlimited; ExpiresAt of zero means no expiry.
// Code uniqueness is enforced by the storage layer's unique constraint,
// not by pre-checking.
type InviteLink struct {
	// ID is the unique identifier for the invite (UUID format).
	ID string

	// RoundID is the round this invite admits members to.
	RoundID string

	// Code is the short unique token shared with invitees.
	Code string

	// MaxUses caps redemptions; zero means unlimited.
	MaxUses int

	// UseCount is how many times the code has been redeemed.
	UseCount int

	// ExpiresAt is when the code stops working; zero means never.
	ExpiresAt time.Time

	// CreatedAt is when the invite was issued.
	CreatedAt time.Time
}

// Expired reports whether the invite has passed its expiry as of now.
func (i *InviteLink) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Exhausted reports whether the invite has no redemptions left.
func (i *InviteLink) Exhausted() bool {
	return i.MaxUses > 0 && i.UseCount >= i.MaxUses
}
