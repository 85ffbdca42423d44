package models

import "time"

// Role is a member's role within a round.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleMember    Role = "member"
)

// RoundMember represents a user's membership in a round.
//
// PayoutPosition is 1..NumberOfMembers and unique per round; it is only
// assigned when the round's payout order is fixed, and stays zero otherwise.
type RoundMember struct {
	// RoundID is the round this membership belongs to.
	RoundID string

	// UserID is the member's user account.
	UserID string

	// Role is organizer or member. A participating organizer is always
	// member #1.
	Role Role

	// PayoutPosition is the member's rank in the fixed payout rotation,
	// zero when the round uses join-order rotation.
	PayoutPosition int

	// JoinedAt is when the member was admitted.
	JoinedAt time.Time
}
