// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/rondo/internal/models"
)

// RoundFilter narrows round listings to the caller's relationship.
type RoundFilter string

const (
	FilterAll       RoundFilter = "all"
	FilterOrganized RoundFilter = "organized"
	FilterJoined    RoundFilter = "joined"
)

// Store defines the interface for round storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Mutations with concurrency hazards are modeled as single atomic
// operations here rather than sequential writes: RedeemInvite runs its
// precondition checks and both writes in one transaction,
// MarkContributionPaid and the proof reviews are compare-and-set updates.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when
	// no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no user
	// matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateRound persists a round together with its organizer membership
	// (nil when the organizer does not participate) and its first invite
	// link, in one transaction.
	CreateRound(ctx context.Context, round *models.Round, organizer *models.RoundMember, invite *models.InviteLink) error

	// GetRound retrieves a round by ID.
	GetRound(ctx context.Context, id string) (*models.Round, error)

	// ListRoundsByUser lists the rounds a user organizes and/or belongs
	// to, per the filter.
	ListRoundsByUser(ctx context.Context, userID string, filter RoundFilter) ([]models.Round, error)

	// ArchiveRound soft-closes a round. Returns false when the round was
	// already archived.
	ArchiveRound(ctx context.Context, roundID string) (bool, error)

	// ListMembers returns a round's members ordered by join time.
	ListMembers(ctx context.Context, roundID string) ([]models.RoundMember, error)

	// GetMember retrieves one membership. Returns (nil, nil) when absent.
	GetMember(ctx context.Context, roundID, userID string) (*models.RoundMember, error)

	// CountMembers returns the current member count of a round.
	CountMembers(ctx context.Context, roundID string) (int, error)

	// EnsureContributions inserts contribution rows that do not exist yet,
	// keyed by (round, user, due date). Existing rows are left untouched.
	EnsureContributions(ctx context.Context, contributions []models.Contribution) error

	// GetContribution retrieves a contribution by ID.
	GetContribution(ctx context.Context, id string) (*models.Contribution, error)

	// ListContributionsByRound returns a round's stored contributions
	// ordered by due date.
	ListContributionsByRound(ctx context.Context, roundID string) ([]models.Contribution, error)

	// ListContributionsByRoundAndUser returns one member's stored
	// contributions ordered by due date.
	ListContributionsByRoundAndUser(ctx context.Context, roundID, userID string) ([]models.Contribution, error)

	// MarkContributionPaid transitions pending|late → paid as one
	// compare-and-set. Returns false when the contribution was already
	// paid or verified, so duplicate calls never overwrite the paid date.
	MarkContributionPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)

	// CreateProof persists a new payment proof.
	CreateProof(ctx context.Context, proof *models.PaymentProof) error

	// GetProof retrieves a proof by ID.
	GetProof(ctx context.Context, id string) (*models.PaymentProof, error)

	// GetCurrentProof returns the most recently created proof for a
	// contribution, or (nil, nil) when none exists.
	GetCurrentProof(ctx context.Context, contributionID string) (*models.PaymentProof, error)

	// ApproveProof approves a pending proof and flips its contribution to
	// verified in the same transaction. Returns false when the proof is
	// no longer pending.
	ApproveProof(ctx context.Context, proofID, reviewerID string, at time.Time) (bool, error)

	// RejectProof rejects a pending proof with a reason, leaving the
	// contribution status untouched. Returns false when the proof is no
	// longer pending.
	RejectProof(ctx context.Context, proofID, reviewerID string, at time.Time, reason string) (bool, error)

	// EnsurePayouts inserts payout rows that do not exist yet, keyed by
	// (round, scheduled date). Existing rows are left untouched.
	EnsurePayouts(ctx context.Context, payouts []models.Payout) error

	// GetPayout retrieves a payout by ID.
	GetPayout(ctx context.Context, id string) (*models.Payout, error)

	// ListPayoutsByRound returns a round's stored payouts ordered by
	// scheduled date.
	ListPayoutsByRound(ctx context.Context, roundID string) ([]models.Payout, error)

	// CompletePayout transitions scheduled → completed as one
	// compare-and-set. Returns false when the payout was already completed.
	CompletePayout(ctx context.Context, id string, at time.Time) (bool, error)

	// CreateInviteLink persists a new invite link. Code uniqueness is
	// enforced by the unique constraint.
	CreateInviteLink(ctx context.Context, invite *models.InviteLink) error

	// GetInviteByCode retrieves an invite by its code. Returns (nil, nil)
	// when the code is unknown.
	GetInviteByCode(ctx context.Context, code string) (*models.InviteLink, error)

	// RedeemInvite atomically admits a member through an invite code: it
	// validates the code, expiry, use count, round capacity and duplicate
	// membership, assigns the payout position, inserts the membership and
	// increments the use count, all in one transaction. Violations surface
	// as apperrors so concurrent redemptions past capacity or past the
	// use limit yield exactly one success.
	RedeemInvite(ctx context.Context, invCode string, member *models.RoundMember, now time.Time) error

	// AppendTimelineEvent appends an event to a round's activity log.
	// Events are never updated or deleted.
	AppendTimelineEvent(ctx context.Context, event *models.TimelineEvent) error

	// ListTimelineByRound returns a round's events, newest first.
	ListTimelineByRound(ctx context.Context, roundID string) ([]models.TimelineEvent, error)

	// Close releases any resources held by the store.
	Close() error
}
