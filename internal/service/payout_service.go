package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
)

// ListPayouts returns a round's payout schedule for a member or its
// organizer, materializing any rows not yet observed.
func (s *RoundService) ListPayouts(ctx context.Context, userID, roundID string) ([]models.Payout, error) {
	round, _, err := s.requireAccess(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.materializeSchedule(ctx, round); err != nil {
		return nil, err
	}
	return s.store.ListPayoutsByRound(ctx, roundID)
}

// CompletePayout marks a scheduled payout as handed over. Organizer
// only; completing an already-completed payout is a state conflict.
func (s *RoundService) CompletePayout(ctx context.Context, userID, payoutID string) (*models.Payout, error) {
	payout, err := s.store.GetPayout(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, apperrors.NotFound("payout not found")
	}

	round, err := s.store.GetRound(ctx, payout.RoundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}
	if round.OrganizerID != userID {
		return nil, apperrors.Forbidden("only the organizer can complete a payout")
	}

	completed, err := s.store.CompletePayout(ctx, payoutID, s.now().UTC())
	if err != nil {
		slog.Error("CompletePayout failed", "payout_id", payoutID, "error", err)
		return nil, err
	}
	if !completed {
		return nil, apperrors.State("payout is already completed")
	}

	s.recorder.Record(ctx, round.ID, userID, notify.PayoutCompleted{
		PayoutID:  payoutID,
		Recipient: payout.RecipientID,
	})
	s.notifier.Notify(ctx, payout.RecipientID, "Your payout was marked as completed")
	slog.Info("Payout completed", "payout_id", payoutID, "round_id", round.ID)

	return s.store.GetPayout(ctx, payoutID)
}
