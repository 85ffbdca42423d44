package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rondo/internal/calculator"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/storage"
)

// ContributionProgress summarizes a round's obligations by effective status.
type ContributionProgress struct {
	Total   int `json:"total"`
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Late    int `json:"late"`
}

// MemberCount is current membership versus capacity.
type MemberCount struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Overview is the per-round aggregation shown on a round's home screen.
type Overview struct {
	ContributionProgress ContributionProgress `json:"contribution_progress"`
	NextImportantDate    *time.Time           `json:"next_important_date,omitempty"`
	NextImportantAction  string               `json:"next_important_action,omitempty"`
	MemberCount          MemberCount          `json:"member_count"`
	UserRole             string               `json:"user_role"`
}

// Overview aggregates a round's contribution progress and the caller's
// next important action. Statuses are effective as of now: stored pending
// rows past due date plus grace read as late.
func (s *RoundService) Overview(ctx context.Context, userID, roundID string) (*Overview, error) {
	round, role, err := s.requireAccess(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}

	members, err := s.materializeSchedule(ctx, round)
	if err != nil {
		return nil, err
	}

	contributions, err := s.store.ListContributionsByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	payouts, err := s.store.ListPayoutsByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	overview := &Overview{
		MemberCount: MemberCount{Current: len(members), Total: round.NumberOfMembers},
		UserRole:    role,
	}

	var mine []models.Contribution
	for _, c := range contributions {
		overview.ContributionProgress.Total++
		switch c.EffectiveStatus(now, round.GracePeriodDays) {
		case models.ContributionPaid, models.ContributionVerified:
			overview.ContributionProgress.Paid++
		case models.ContributionLate:
			overview.ContributionProgress.Late++
		default:
			overview.ContributionProgress.Pending++
		}
		if c.UserID == userID {
			mine = append(mine, c)
		}
	}

	var myPayouts []models.Payout
	for _, p := range payouts {
		if p.RecipientID == userID {
			myPayouts = append(myPayouts, p)
		}
	}

	if next, ok := calculator.Next(mine, myPayouts, now, round.GracePeriodDays); ok {
		date := next.Date
		overview.NextImportantDate = &date
		overview.NextImportantAction = next.Action
	}

	return overview, nil
}

// CalendarEntry is one dated event in the caller's cross-round calendar.
type CalendarEntry struct {
	RoundID   string          `json:"round_id"`
	RoundName string          `json:"round_name"`
	Date      time.Time       `json:"date"`
	EventType string          `json:"event_type"`
	Recipient string          `json:"recipient,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// Calendar merges the caller's contribution due dates and every round
// payout across their rounds, ordered by date.
func (s *RoundService) Calendar(ctx context.Context, userID string, filter storage.RoundFilter) ([]CalendarEntry, error) {
	rounds, err := s.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	var entries []CalendarEntry
	for i := range rounds {
		round := &rounds[i]
		if round.Status != models.RoundActive {
			continue
		}
		if _, err := s.materializeSchedule(ctx, round); err != nil {
			return nil, err
		}

		contributions, err := s.store.ListContributionsByRoundAndUser(ctx, round.ID, userID)
		if err != nil {
			return nil, err
		}
		for _, c := range contributions {
			entries = append(entries, CalendarEntry{
				RoundID:   round.ID,
				RoundName: round.Name,
				Date:      c.DueDate,
				EventType: "contribution-due",
				Amount:    c.Amount,
				Currency:  round.Currency,
			})
		}

		payouts, err := s.store.ListPayoutsByRound(ctx, round.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range payouts {
			entries = append(entries, CalendarEntry{
				RoundID:   round.ID,
				RoundName: round.Name,
				Date:      p.ScheduledDate,
				EventType: "payout",
				Recipient: p.RecipientID,
				Amount:    p.Amount,
				Currency:  round.Currency,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// Timeline returns a round's activity log, newest first.
func (s *RoundService) Timeline(ctx context.Context, userID, roundID string) ([]models.TimelineEvent, error) {
	if _, _, err := s.requireAccess(ctx, userID, roundID); err != nil {
		return nil, err
	}
	return s.store.ListTimelineByRound(ctx, roundID)
}
