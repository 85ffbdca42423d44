package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/models"
)

// CreateProof persists a new payment proof.
func (s *SQLiteStore) CreateProof(ctx context.Context, proof *models.PaymentProof) error {
	if proof.ID == "" {
		proof.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_proofs (
			id, contribution_id, submitted_by, proof_type, url, reference_text,
			status, reviewed_by, reviewed_at, rejection_reason, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proof.ID, proof.ContributionID, proof.SubmittedBy, string(proof.Type),
		proof.URL, proof.ReferenceText, string(proof.Status), proof.ReviewedBy,
		timeToUnix(proof.ReviewedAt), proof.RejectionReason, proof.CreatedAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}

	return nil
}

const proofColumns = `
	id, contribution_id, submitted_by, proof_type, url, reference_text,
	status, reviewed_by, reviewed_at, rejection_reason, created_at`

func scanProof(row interface{ Scan(...any) error }) (*models.PaymentProof, error) {
	p := &models.PaymentProof{}
	var proofType, status string
	var reviewedAt sql.NullInt64
	var createdAt int64

	err := row.Scan(
		&p.ID, &p.ContributionID, &p.SubmittedBy, &proofType, &p.URL,
		&p.ReferenceText, &status, &p.ReviewedBy, &reviewedAt,
		&p.RejectionReason, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = models.ProofType(proofType)
	p.Status = models.ProofStatus(status)
	p.ReviewedAt = unixToTime(reviewedAt)
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

// GetProof retrieves a proof by ID.
func (s *SQLiteStore) GetProof(ctx context.Context, id string) (*models.PaymentProof, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+proofColumns+" FROM payment_proofs WHERE id = ?", id)
	p, err := scanProof(row)
	if err == sql.ErrNoRows {
		return nil, nil // Proof not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}
	return p, nil
}

// GetCurrentProof returns the most recently created proof for a
// contribution; creation-time ties break by insertion order.
func (s *SQLiteStore) GetCurrentProof(ctx context.Context, contributionID string) (*models.PaymentProof, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+proofColumns+` FROM payment_proofs
		WHERE contribution_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`,
		contributionID)
	p, err := scanProof(row)
	if err == sql.ErrNoRows {
		return nil, nil // No proof submitted yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current proof: %w", err)
	}
	return p, nil
}

// ApproveProof approves a pending proof and flips its contribution to
// verified in the same transaction. The status guard on the UPDATE makes
// simultaneous approve and reject calls resolve to exactly one winner.
func (s *SQLiteStore) ApproveProof(ctx context.Context, proofID, reviewerID string, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE payment_proofs SET status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ? AND status = ?`,
		string(models.ProofApproved), reviewerID, at.UTC().Unix(),
		proofID, string(models.ProofPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to approve proof: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE contributions SET status = ?
		WHERE id = (SELECT contribution_id FROM payment_proofs WHERE id = ?)`,
		string(models.ContributionVerified), proofID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to verify contribution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// RejectProof rejects a pending proof with a reason. The contribution
// keeps whatever status it had.
func (s *SQLiteStore) RejectProof(ctx context.Context, proofID, reviewerID string, at time.Time, reason string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE payment_proofs SET status = ?, reviewed_by = ?, reviewed_at = ?, rejection_reason = ?
		WHERE id = ? AND status = ?`,
		string(models.ProofRejected), reviewerID, at.UTC().Unix(), reason,
		proofID, string(models.ProofPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to reject proof: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
