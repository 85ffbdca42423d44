package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rondo/internal/calculator"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/storage"
)

// Dashboard is the cross-round summary for one user.
type Dashboard struct {
	Status      calculator.DashboardStatus `json:"status"`
	NextAction  *DashboardAction           `json:"next_action,omitempty"`
	RoundCount  int                        `json:"round_count"`
	ActiveCount int                        `json:"active_count"`
}

// DashboardAction is the single most urgent item across every round.
type DashboardAction struct {
	RoundID   string          `json:"round_id"`
	RoundName string          `json:"round_name"`
	Date      time.Time       `json:"date"`
	Action    string          `json:"action"`
	Amount    decimal.Decimal `json:"amount"`
}

// Dashboard reduces the caller's rounds to one status and one next
// action. Archived rounds contribute to the total count but emit no
// signal; any overdue contribution anywhere flips the status.
func (s *RoundService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	rounds, err := s.store.ListRoundsByUser(ctx, userID, storage.FilterAll)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dashboard := &Dashboard{RoundCount: len(rounds)}

	var signals []calculator.RoundSignal
	for i := range rounds {
		round := &rounds[i]
		if round.Status != models.RoundActive {
			continue
		}
		dashboard.ActiveCount++

		if _, err := s.materializeSchedule(ctx, round); err != nil {
			return nil, err
		}

		contributions, err := s.store.ListContributionsByRoundAndUser(ctx, round.ID, userID)
		if err != nil {
			return nil, err
		}
		payouts, err := s.store.ListPayoutsByRound(ctx, round.ID)
		if err != nil {
			return nil, err
		}
		var mine []models.Payout
		for _, p := range payouts {
			if p.RecipientID == userID {
				mine = append(mine, p)
			}
		}

		next, ok := calculator.Next(contributions, mine, now, round.GracePeriodDays)
		signals = append(signals, calculator.RoundSignal{
			RoundID:   round.ID,
			RoundName: round.Name,
			Next:      next,
			Has:       ok,
		})
	}

	summary := calculator.ReduceDashboard(signals)
	dashboard.Status = summary.Status
	if summary.Has {
		dashboard.NextAction = &DashboardAction{
			RoundID:   summary.RoundID,
			RoundName: summary.RoundName,
			Date:      summary.Date,
			Action:    summary.Action,
			Amount:    summary.Amount,
		}
	}
	return dashboard, nil
}
