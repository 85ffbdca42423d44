package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/storage"
)

// ContributionService owns the contribution state machine:
// pending → late (derived) → paid → verified.
type ContributionService struct {
	store    storage.Store
	rounds   *RoundService
	recorder *notify.Recorder
	notifier notify.Notifier
	now      func() time.Time
}

// NewContributionService creates a new ContributionService.
func NewContributionService(store storage.Store, rounds *RoundService, recorder *notify.Recorder, notifier notify.Notifier) *ContributionService {
	return &ContributionService{
		store:    store,
		rounds:   rounds,
		recorder: recorder,
		notifier: notifier,
		now:      time.Now,
	}
}

// ContributionView is a contribution with its time-derived effective status.
type ContributionView struct {
	models.Contribution
	EffectiveStatus models.ContributionStatus `json:"effective_status"`
}

// ListForRound returns every member-cycle obligation of a round with
// statuses effective as of now. Missing rows are materialized first so
// the full schedule is always visible.
func (s *ContributionService) ListForRound(ctx context.Context, userID, roundID string) ([]ContributionView, error) {
	round, _, err := s.rounds.requireAccess(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.rounds.materializeSchedule(ctx, round); err != nil {
		return nil, err
	}

	contributions, err := s.store.ListContributionsByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	views := make([]ContributionView, len(contributions))
	for i, c := range contributions {
		views[i] = ContributionView{
			Contribution:    c,
			EffectiveStatus: c.EffectiveStatus(now, round.GracePeriodDays),
		}
	}
	return views, nil
}

// MarkPaid transitions a contribution from pending or late to paid. Only
// the owning member may call it, and it is idempotent: marking an
// already-paid contribution again returns it unchanged, never touching
// the original paid date.
func (s *ContributionService) MarkPaid(ctx context.Context, userID, contributionID string) (*ContributionView, error) {
	contribution, err := s.store.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		return nil, apperrors.NotFound("contribution not found")
	}
	if contribution.UserID != userID {
		return nil, apperrors.Forbidden("only the owning member can mark a contribution paid")
	}

	round, err := s.store.GetRound(ctx, contribution.RoundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}

	now := s.now().UTC()
	marked, err := s.store.MarkContributionPaid(ctx, contributionID, now)
	if err != nil {
		slog.Error("MarkPaid failed", "contribution_id", contributionID, "error", err)
		return nil, err
	}

	contribution, err = s.store.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}

	if marked {
		s.recorder.Record(ctx, round.ID, userID, notify.ContributionPaid{
			ContributionID: contribution.ID,
			Amount:         contribution.Amount.String(),
			PaidDate:       contribution.PaidDate.Format(time.RFC3339),
		})
		s.notifier.Notify(ctx, round.OrganizerID, "A member marked a contribution as paid")
		slog.Info("Contribution marked paid",
			"contribution_id", contributionID,
			"round_id", round.ID,
			"user_id", userID,
		)
	}

	return &ContributionView{
		Contribution:    *contribution,
		EffectiveStatus: contribution.EffectiveStatus(now, round.GracePeriodDays),
	}, nil
}
