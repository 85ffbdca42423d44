// Package notify holds the collaborator sinks the core emits into: the
// append-only round timeline and per-user notifications. Both are
// fire-and-forget; a failed append or delivery is logged and never fails
// the request that produced it.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/storage"
)

// Event is a timeline payload. Each event type has exactly one payload
// shape; the marker method keeps the union closed.
type Event interface {
	EventType() string
}

// RoundCreated records a new round opening.
type RoundCreated struct {
	Name            string `json:"name"`
	NumberOfMembers int    `json:"number_of_members"`
}

func (RoundCreated) EventType() string { return "round_created" }

// MemberJoined records an invite redemption admitting a member.
type MemberJoined struct {
	PayoutPosition int    `json:"payout_position,omitempty"`
	InviteCode     string `json:"invite_code"`
}

func (MemberJoined) EventType() string { return "member_joined" }

// ContributionPaid records a member marking a contribution paid.
type ContributionPaid struct {
	ContributionID string `json:"contribution_id"`
	Amount         string `json:"amount"`
	PaidDate       string `json:"paid_date"`
}

func (ContributionPaid) EventType() string { return "contribution_paid" }

// ProofSubmitted records a payment proof awaiting review.
type ProofSubmitted struct {
	ContributionID string `json:"contribution_id"`
	ProofID        string `json:"proof_id"`
	ProofType      string `json:"proof_type"`
}

func (ProofSubmitted) EventType() string { return "proof_submitted" }

// ProofApproved records an organizer approving a proof.
type ProofApproved struct {
	ContributionID string `json:"contribution_id"`
	ProofID        string `json:"proof_id"`
}

func (ProofApproved) EventType() string { return "proof_approved" }

// ProofRejected records an organizer rejecting a proof.
type ProofRejected struct {
	ContributionID string `json:"contribution_id"`
	ProofID        string `json:"proof_id"`
	Reason         string `json:"reason"`
}

func (ProofRejected) EventType() string { return "proof_rejected" }

// PayoutCompleted records the organizer marking a payout done.
type PayoutCompleted struct {
	PayoutID  string `json:"payout_id"`
	Recipient string `json:"recipient"`
}

func (PayoutCompleted) EventType() string { return "payout_completed" }

// RoundArchived records the organizer closing the round.
type RoundArchived struct{}

func (RoundArchived) EventType() string { return "round_archived" }

// Recorder appends events to a round's timeline.
type Recorder struct {
	store storage.Store
}

// NewRecorder creates a timeline recorder backed by the given store.
func NewRecorder(store storage.Store) *Recorder {
	return &Recorder{store: store}
}

// Record appends one event. Failures are logged, not returned: the
// timeline is an observability surface, not part of the transaction.
func (r *Recorder) Record(ctx context.Context, roundID, userID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode timeline event", "event_type", event.EventType(), "error", err)
		return
	}

	err = r.store.AppendTimelineEvent(ctx, &models.TimelineEvent{
		RoundID:   roundID,
		UserID:    userID,
		EventType: event.EventType(),
		EventData: data,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to append timeline event",
			"round_id", roundID,
			"event_type", event.EventType(),
			"error", err,
		)
	}
}
