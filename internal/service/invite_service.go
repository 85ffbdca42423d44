package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/code"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/storage"
)

// InviteService issues invite links and governs membership admission
// through them.
type InviteService struct {
	store    storage.Store
	recorder *notify.Recorder
	notifier notify.Notifier
	now      func() time.Time
}

// NewInviteService creates a new InviteService.
func NewInviteService(store storage.Store, recorder *notify.Recorder, notifier notify.Notifier) *InviteService {
	return &InviteService{
		store:    store,
		recorder: recorder,
		notifier: notifier,
		now:      time.Now,
	}
}

// InvitePreview is the read-only summary shown before joining.
type InvitePreview struct {
	RoundID     string           `json:"round_id"`
	RoundName   string           `json:"round_name"`
	Currency    string           `json:"currency"`
	Amount      string           `json:"contribution_amount"`
	Frequency   models.Frequency `json:"contribution_frequency"`
	MemberCount MemberCount      `json:"member_count"`
}

// Preview resolves an invite code to its round summary without redeeming
// it. Unknown codes are NotFound; expired or exhausted codes are gone.
func (s *InviteService) Preview(ctx context.Context, inviteCode string) (*InvitePreview, error) {
	invite, err := s.store.GetInviteByCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, apperrors.NotFound("invite not found")
	}
	if invite.Expired(s.now().UTC()) {
		return nil, apperrors.Conflict("invite has expired")
	}
	if invite.Exhausted() {
		return nil, apperrors.Conflict("invite has no uses left")
	}

	round, err := s.store.GetRound(ctx, invite.RoundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}

	count, err := s.store.CountMembers(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	return &InvitePreview{
		RoundID:     round.ID,
		RoundName:   round.Name,
		Currency:    round.Currency,
		Amount:      round.ContributionAmount.String(),
		Frequency:   round.Frequency,
		MemberCount: MemberCount{Current: count, Total: round.NumberOfMembers},
	}, nil
}

// Redeem admits the caller to the invite's round. All preconditions and
// both writes happen atomically in the store, so racing redemptions of
// the last slot or the last use yield exactly one success.
func (s *InviteService) Redeem(ctx context.Context, userID, inviteCode string) (*models.RoundMember, error) {
	member := &models.RoundMember{UserID: userID}
	if err := s.store.RedeemInvite(ctx, inviteCode, member, s.now().UTC()); err != nil {
		if apperrors.KindOf(err) == 0 {
			slog.Error("Redeem invite failed", "user_id", userID, "error", err)
		}
		return nil, err
	}

	s.recorder.Record(ctx, member.RoundID, userID, notify.MemberJoined{
		PayoutPosition: member.PayoutPosition,
		InviteCode:     inviteCode,
	})

	round, err := s.store.GetRound(ctx, member.RoundID)
	if err == nil && round != nil {
		s.notifier.Notify(ctx, round.OrganizerID, "A new member joined your round")
	}

	slog.Info("Invite redeemed",
		"round_id", member.RoundID,
		"user_id", userID,
		"payout_position", member.PayoutPosition,
	)
	return member, nil
}

// CreateLinkInput carries optional limits for a new invite link.
type CreateLinkInput struct {
	MaxUses   int       `json:"max_uses,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// CreateLink issues an additional invite link for a round. Organizer only.
func (s *InviteService) CreateLink(ctx context.Context, userID, roundID string, in CreateLinkInput) (*models.InviteLink, error) {
	if in.MaxUses < 0 {
		return nil, apperrors.Validation("max uses cannot be negative")
	}

	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}
	if round.OrganizerID != userID {
		return nil, apperrors.Forbidden("only the organizer can create invite links")
	}
	if round.Status != models.RoundActive {
		return nil, apperrors.State("round is archived")
	}

	inviteCode, err := code.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}
	invite := &models.InviteLink{
		RoundID:   roundID,
		Code:      inviteCode,
		MaxUses:   in.MaxUses,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateInviteLink(ctx, invite); err != nil {
		slog.Error("Create invite link failed", "round_id", roundID, "error", err)
		return nil, err
	}

	slog.Info("Invite link created", "round_id", roundID, "invite_id", invite.ID)
	return invite, nil
}
