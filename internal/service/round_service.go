package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/calculator"
	"github.com/mmynk/rondo/internal/code"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/storage"
)

// cyclesToGenerate is how many full rotations of the schedule are
// materialized on read. One rotation already covers every member
// contributing once and every member receiving one payout.
const cyclesToGenerate = 1

// RoundService owns the round lifecycle: creation, overview aggregation,
// calendar, payout completion and archival.
type RoundService struct {
	store    storage.Store
	recorder *notify.Recorder
	notifier notify.Notifier
	now      func() time.Time
}

// NewRoundService creates a new RoundService with the given storage backend.
func NewRoundService(store storage.Store, recorder *notify.Recorder, notifier notify.Notifier) *RoundService {
	return &RoundService{
		store:    store,
		recorder: recorder,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateRoundInput carries the round creation parameters.
type CreateRoundInput struct {
	Name                  string              `json:"name"`
	Currency              string              `json:"currency"`
	ContributionAmount    decimal.Decimal     `json:"contribution_amount"`
	Frequency             models.Frequency    `json:"contribution_frequency"`
	NumberOfMembers       int                 `json:"number_of_members"`
	PayoutOrder           models.PayoutOrder  `json:"payout_order"`
	StartType             models.StartType    `json:"start_type"`
	StartDate             time.Time           `json:"start_date"`
	GracePeriodDays       int                 `json:"grace_period_days"`
	Verification          models.Verification `json:"payment_verification"`
	OrganizerParticipates bool                `json:"organizer_participates"`
}

// RoundDetail is a round plus its derived context for the caller.
type RoundDetail struct {
	Round       models.Round `json:"round"`
	InviteCode  string       `json:"invite_code,omitempty"`
	MemberCount int          `json:"member_count"`
	UserRole    string       `json:"user_role"`
}

// Create validates and persists a new round with the organizer as member #1
// (when participating) and its first invite link, in one transaction.
func (s *RoundService) Create(ctx context.Context, userID string, in CreateRoundInput) (*RoundDetail, error) {
	now := s.now().UTC()

	round := &models.Round{
		Name:                  in.Name,
		OrganizerID:           userID,
		Currency:              in.Currency,
		ContributionAmount:    in.ContributionAmount,
		Frequency:             in.Frequency,
		NumberOfMembers:       in.NumberOfMembers,
		PayoutOrder:           in.PayoutOrder,
		StartType:             in.StartType,
		StartDate:             in.StartDate,
		GracePeriodDays:       in.GracePeriodDays,
		Verification:          in.Verification,
		OrganizerParticipates: in.OrganizerParticipates,
		Status:                models.RoundActive,
	}
	if round.StartType == models.StartImmediate && round.StartDate.IsZero() {
		round.StartDate = now
	}
	if err := round.Validate(); err != nil {
		return nil, err
	}

	inviteCode, err := code.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}
	invite := &models.InviteLink{
		Code:      inviteCode,
		CreatedAt: now,
	}

	var organizer *models.RoundMember
	if round.OrganizerParticipates {
		organizer = &models.RoundMember{
			UserID:         userID,
			Role:           models.RoleOrganizer,
			PayoutPosition: calculator.NextPosition(round.PayoutOrder, 0),
			JoinedAt:       now,
		}
	}

	if err := s.store.CreateRound(ctx, round, organizer, invite); err != nil {
		slog.Error("CreateRound failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.recorder.Record(ctx, round.ID, userID, notify.RoundCreated{
		Name:            round.Name,
		NumberOfMembers: round.NumberOfMembers,
	})

	slog.Info("Round created", "round_id", round.ID, "organizer_id", userID)

	memberCount := 0
	if organizer != nil {
		memberCount = 1
	}
	return &RoundDetail{
		Round:       *round,
		InviteCode:  inviteCode,
		MemberCount: memberCount,
		UserRole:    string(models.RoleOrganizer),
	}, nil
}

// Get returns a round for a member or its organizer.
func (s *RoundService) Get(ctx context.Context, userID, roundID string) (*RoundDetail, error) {
	round, role, err := s.requireAccess(ctx, userID, roundID)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountMembers(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return &RoundDetail{Round: *round, MemberCount: count, UserRole: role}, nil
}

// List returns the caller's rounds per the filter (all, organized, joined).
func (s *RoundService) List(ctx context.Context, userID string, filter storage.RoundFilter) ([]models.Round, error) {
	switch filter {
	case storage.FilterAll, storage.FilterOrganized, storage.FilterJoined, "":
	default:
		return nil, apperrors.Validation("unsupported filter")
	}
	if filter == "" {
		filter = storage.FilterAll
	}
	return s.store.ListRoundsByUser(ctx, userID, filter)
}

// Archive soft-closes a round. Organizer only.
func (s *RoundService) Archive(ctx context.Context, userID, roundID string) error {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return err
	}
	if round == nil {
		return apperrors.NotFound("round not found")
	}
	if round.OrganizerID != userID {
		return apperrors.Forbidden("only the organizer can archive a round")
	}

	archived, err := s.store.ArchiveRound(ctx, roundID)
	if err != nil {
		return err
	}
	if !archived {
		return apperrors.State("round is already archived")
	}

	s.recorder.Record(ctx, roundID, userID, notify.RoundArchived{})
	slog.Info("Round archived", "round_id", roundID, "user_id", userID)
	return nil
}

// requireAccess loads a round and verifies the caller is its organizer or
// a member, returning the caller's role.
func (s *RoundService) requireAccess(ctx context.Context, userID, roundID string) (*models.Round, string, error) {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, "", err
	}
	if round == nil {
		return nil, "", apperrors.NotFound("round not found")
	}
	if round.OrganizerID == userID {
		return round, string(models.RoleOrganizer), nil
	}
	member, err := s.store.GetMember(ctx, roundID, userID)
	if err != nil {
		return nil, "", err
	}
	if member == nil {
		return nil, "", apperrors.Forbidden("not a member of this round")
	}
	return round, string(member.Role), nil
}

// orderedMembers returns the round's members in rotation order: payout
// position under fixed order, join time otherwise.
func orderedMembers(round *models.Round, members []models.RoundMember) []models.RoundMember {
	sorted := make([]models.RoundMember, len(members))
	copy(sorted, members)
	if round.PayoutOrder == models.PayoutOrderFixed {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PayoutPosition < sorted[j].PayoutPosition
		})
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].JoinedAt.Equal(sorted[j].JoinedAt) {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].JoinedAt.Before(sorted[j].JoinedAt)
	})
	return sorted
}

// materializeSchedule derives the round's contribution and payout rows
// for the visible window and persists any not yet observed. Rows that
// already exist keep their recorded state.
func (s *RoundService) materializeSchedule(ctx context.Context, round *models.Round) ([]models.RoundMember, error) {
	members, err := s.store.ListMembers(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 || round.StartDate.IsZero() {
		return members, nil
	}

	ordered := orderedMembers(round, members)
	dueDates := calculator.Contributions(round.StartDate, round.Frequency, round.NumberOfMembers, cyclesToGenerate)

	var contributions []models.Contribution
	for c := 0; c < cyclesToGenerate; c++ {
		for m, member := range ordered {
			idx := c*round.NumberOfMembers + m
			if idx >= len(dueDates) {
				break
			}
			contributions = append(contributions, models.Contribution{
				RoundID: round.ID,
				UserID:  member.UserID,
				Amount:  round.ContributionAmount,
				DueDate: dueDates[idx],
				Status:  models.ContributionPending,
			})
		}
	}
	if err := s.store.EnsureContributions(ctx, contributions); err != nil {
		return nil, err
	}

	potAmount := round.ContributionAmount.Mul(decimal.NewFromInt(int64(round.NumberOfMembers)))
	payoutDates := calculator.Payouts(round.StartDate, round.Frequency, round.NumberOfMembers, cyclesToGenerate)

	var payouts []models.Payout
	for i, date := range payoutDates {
		recipient, err := calculator.Recipient(members, round.PayoutOrder, round.NumberOfMembers, i)
		if err != nil {
			// Round not full yet: slots whose holder has not joined are
			// left unmaterialized until the member exists.
			continue
		}
		payouts = append(payouts, models.Payout{
			RoundID:       round.ID,
			RecipientID:   recipient.UserID,
			Amount:        potAmount,
			ScheduledDate: date,
			Status:        models.PayoutScheduled,
		})
	}
	if err := s.store.EnsurePayouts(ctx, payouts); err != nil {
		return nil, err
	}

	return members, nil
}
