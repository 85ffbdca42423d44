package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/storage"
)

// CreateRound persists a round, its organizer membership (when the
// organizer participates) and the first invite link in one transaction.
func (s *SQLiteStore) CreateRound(ctx context.Context, round *models.Round, organizer *models.RoundMember, invite *models.InviteLink) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CreatedAt == 0 {
		round.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rounds (
			id, name, organizer_id, currency, contribution_amount, frequency,
			number_of_members, payout_order, start_type, start_date,
			grace_period_days, verification, organizer_participates, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.Name, round.OrganizerID, round.Currency,
		round.ContributionAmount.String(), string(round.Frequency),
		round.NumberOfMembers, string(round.PayoutOrder), string(round.StartType),
		timeToUnix(round.StartDate), round.GracePeriodDays, string(round.Verification),
		round.OrganizerParticipates, string(round.Status), round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	if organizer != nil {
		organizer.RoundID = round.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO round_members (round_id, user_id, role, payout_position, joined_at)
			VALUES (?, ?, ?, ?, ?)`,
			organizer.RoundID, organizer.UserID, string(organizer.Role),
			organizer.PayoutPosition, organizer.JoinedAt.UTC().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert organizer membership: %w", err)
		}
	}

	if invite != nil {
		if invite.ID == "" {
			invite.ID = uuid.New().String()
		}
		invite.RoundID = round.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invite_links (id, round_id, code, max_uses, use_count, expires_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			invite.ID, invite.RoundID, invite.Code, invite.MaxUses, invite.UseCount,
			timeToUnix(invite.ExpiresAt), invite.CreatedAt.UTC().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert invite link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const roundColumns = `
	id, name, organizer_id, currency, contribution_amount, frequency,
	number_of_members, payout_order, start_type, start_date,
	grace_period_days, verification, organizer_participates, status, created_at`

// scanRound reads one round row.
func scanRound(row interface{ Scan(...any) error }) (*models.Round, error) {
	round := &models.Round{}
	var amount string
	var frequency, order, startType, verification, status string
	var startDate sql.NullInt64

	err := row.Scan(
		&round.ID, &round.Name, &round.OrganizerID, &round.Currency,
		&amount, &frequency, &round.NumberOfMembers, &order, &startType,
		&startDate, &round.GracePeriodDays, &verification,
		&round.OrganizerParticipates, &status, &round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	round.ContributionAmount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}
	round.Frequency = models.Frequency(frequency)
	round.PayoutOrder = models.PayoutOrder(order)
	round.StartType = models.StartType(startType)
	round.StartDate = unixToTime(startDate)
	round.Verification = models.Verification(verification)
	round.Status = models.RoundStatus(status)
	return round, nil
}

// GetRound retrieves a round by ID.
func (s *SQLiteStore) GetRound(ctx context.Context, id string) (*models.Round, error) {
	row := s.db.QueryRowContext(ctx, "SELECT"+roundColumns+" FROM rounds WHERE id = ?", id)
	round, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, nil // Round not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// ListRoundsByUser lists the rounds a user organizes and/or belongs to.
func (s *SQLiteStore) ListRoundsByUser(ctx context.Context, userID string, filter storage.RoundFilter) ([]models.Round, error) {
	var query string
	switch filter {
	case storage.FilterOrganized:
		query = "SELECT" + roundColumns + " FROM rounds WHERE organizer_id = ? ORDER BY created_at DESC"
	case storage.FilterJoined:
		query = "SELECT" + roundColumns + ` FROM rounds
			WHERE organizer_id != ? AND id IN (SELECT round_id FROM round_members WHERE user_id = ?)
			ORDER BY created_at DESC`
	default:
		query = "SELECT" + roundColumns + ` FROM rounds
			WHERE organizer_id = ? OR id IN (SELECT round_id FROM round_members WHERE user_id = ?)
			ORDER BY created_at DESC`
	}

	args := []any{userID}
	if filter != storage.FilterOrganized {
		args = append(args, userID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, *round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}

	return rounds, nil
}

// ArchiveRound soft-closes a round.
func (s *SQLiteStore) ArchiveRound(ctx context.Context, roundID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE rounds SET status = ? WHERE id = ? AND status = ?",
		string(models.RoundArchived), roundID, string(models.RoundActive),
	)
	if err != nil {
		return false, fmt.Errorf("failed to archive round: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListMembers returns a round's members ordered by join time.
func (s *SQLiteStore) ListMembers(ctx context.Context, roundID string) ([]models.RoundMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round_id, user_id, role, payout_position, joined_at
		FROM round_members WHERE round_id = ? ORDER BY joined_at, user_id`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.RoundMember
	for rows.Next() {
		var m models.RoundMember
		var role string
		var joinedAt int64
		if err := rows.Scan(&m.RoundID, &m.UserID, &role, &m.PayoutPosition, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		m.JoinedAt = time.Unix(joinedAt, 0).UTC()
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// GetMember retrieves one membership.
func (s *SQLiteStore) GetMember(ctx context.Context, roundID, userID string) (*models.RoundMember, error) {
	var m models.RoundMember
	var role string
	var joinedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT round_id, user_id, role, payout_position, joined_at
		FROM round_members WHERE round_id = ? AND user_id = ?`,
		roundID, userID,
	).Scan(&m.RoundID, &m.UserID, &role, &m.PayoutPosition, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not a member
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.Role = models.Role(role)
	m.JoinedAt = time.Unix(joinedAt, 0).UTC()
	return &m, nil
}

// CountMembers returns the current member count of a round.
func (s *SQLiteStore) CountMembers(ctx context.Context, roundID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM round_members WHERE round_id = ?", roundID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}
