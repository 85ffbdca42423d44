package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/models"
)

// EnsureContributions inserts contribution rows that do not exist yet.
// The (round, user, due date) unique key makes re-materializing the same
// schedule window a no-op for rows already observed.
func (s *SQLiteStore) EnsureContributions(ctx context.Context, contributions []models.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range contributions {
		c := &contributions[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contributions (id, round_id, user_id, amount, due_date, paid_date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (round_id, user_id, due_date) DO NOTHING`,
			c.ID, c.RoundID, c.UserID, c.Amount.String(),
			c.DueDate.UTC().Unix(), timeToUnix(c.PaidDate), string(c.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const contributionColumns = "id, round_id, user_id, amount, due_date, paid_date, status"

func scanContribution(row interface{ Scan(...any) error }) (*models.Contribution, error) {
	c := &models.Contribution{}
	var amount, status string
	var dueDate int64
	var paidDate sql.NullInt64

	err := row.Scan(&c.ID, &c.RoundID, &c.UserID, &amount, &dueDate, &paidDate, &status)
	if err != nil {
		return nil, err
	}

	c.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}
	c.DueDate = time.Unix(dueDate, 0).UTC()
	c.PaidDate = unixToTime(paidDate)
	c.Status = models.ContributionStatus(status)
	return c, nil
}

// GetContribution retrieves a contribution by ID.
func (s *SQLiteStore) GetContribution(ctx context.Context, id string) (*models.Contribution, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contributionColumns+" FROM contributions WHERE id = ?", id)
	c, err := scanContribution(row)
	if err == sql.ErrNoRows {
		return nil, nil // Contribution not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	return c, nil
}

// ListContributionsByRound returns a round's stored contributions ordered by due date.
func (s *SQLiteStore) ListContributionsByRound(ctx context.Context, roundID string) ([]models.Contribution, error) {
	return s.listContributions(ctx,
		"SELECT "+contributionColumns+" FROM contributions WHERE round_id = ? ORDER BY due_date, user_id",
		roundID)
}

// ListContributionsByRoundAndUser returns one member's stored contributions ordered by due date.
func (s *SQLiteStore) ListContributionsByRoundAndUser(ctx context.Context, roundID, userID string) ([]models.Contribution, error) {
	return s.listContributions(ctx,
		"SELECT "+contributionColumns+" FROM contributions WHERE round_id = ? AND user_id = ? ORDER BY due_date",
		roundID, userID)
}

func (s *SQLiteStore) listContributions(ctx context.Context, query string, args ...any) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}

// MarkContributionPaid transitions pending|late → paid as a single
// compare-and-set, so concurrent duplicate calls cannot overwrite the
// paid date.
func (s *SQLiteStore) MarkContributionPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contributions SET status = ?, paid_date = ?
		WHERE id = ? AND status IN (?, ?)`,
		string(models.ContributionPaid), paidAt.UTC().Unix(), id,
		string(models.ContributionPending), string(models.ContributionLate),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark contribution paid: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
