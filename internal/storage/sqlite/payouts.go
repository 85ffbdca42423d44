package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/models"
)

// EnsurePayouts inserts payout rows that do not exist yet, keyed by
// (round, scheduled date).
func (s *SQLiteStore) EnsurePayouts(ctx context.Context, payouts []models.Payout) error {
	if len(payouts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range payouts {
		p := &payouts[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payouts (id, round_id, recipient_id, amount, scheduled_date, completed_date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (round_id, scheduled_date) DO NOTHING`,
			p.ID, p.RoundID, p.RecipientID, p.Amount.String(),
			p.ScheduledDate.UTC().Unix(), timeToUnix(p.CompletedDate), string(p.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payout: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const payoutColumns = "id, round_id, recipient_id, amount, scheduled_date, completed_date, status"

func scanPayout(row interface{ Scan(...any) error }) (*models.Payout, error) {
	p := &models.Payout{}
	var amount, status string
	var scheduled int64
	var completed sql.NullInt64

	err := row.Scan(&p.ID, &p.RoundID, &p.RecipientID, &amount, &scheduled, &completed, &status)
	if err != nil {
		return nil, err
	}

	p.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}
	p.ScheduledDate = time.Unix(scheduled, 0).UTC()
	p.CompletedDate = unixToTime(completed)
	p.Status = models.PayoutStatus(status)
	return p, nil
}

// GetPayout retrieves a payout by ID.
func (s *SQLiteStore) GetPayout(ctx context.Context, id string) (*models.Payout, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+payoutColumns+" FROM payouts WHERE id = ?", id)
	p, err := scanPayout(row)
	if err == sql.ErrNoRows {
		return nil, nil // Payout not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return p, nil
}

// ListPayoutsByRound returns a round's stored payouts ordered by scheduled date.
func (s *SQLiteStore) ListPayoutsByRound(ctx context.Context, roundID string) ([]models.Payout, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+payoutColumns+" FROM payouts WHERE round_id = ? ORDER BY scheduled_date", roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payouts: %w", err)
	}

	return payouts, nil
}

// CompletePayout transitions scheduled → completed as a compare-and-set.
func (s *SQLiteStore) CompletePayout(ctx context.Context, id string, at time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE payouts SET status = ?, completed_date = ?
		WHERE id = ? AND status = ?`,
		string(models.PayoutCompleted), at.UTC().Unix(), id, string(models.PayoutScheduled),
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete payout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
