package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/calculator"
	"github.com/mmynk/rondo/internal/models"
)

// CreateInviteLink persists a new invite link.
func (s *SQLiteStore) CreateInviteLink(ctx context.Context, invite *models.InviteLink) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invite_links (id, round_id, code, max_uses, use_count, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		invite.ID, invite.RoundID, invite.Code, invite.MaxUses, invite.UseCount,
		timeToUnix(invite.ExpiresAt), invite.CreatedAt.UTC().Unix(),
	)
	if isUniqueViolation(err) {
		return apperrors.Conflict("invite code already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create invite link: %w", err)
	}

	return nil
}

const inviteColumns = "id, round_id, code, max_uses, use_count, expires_at, created_at"

func scanInvite(row interface{ Scan(...any) error }) (*models.InviteLink, error) {
	inv := &models.InviteLink{}
	var expiresAt sql.NullInt64
	var createdAt int64

	err := row.Scan(&inv.ID, &inv.RoundID, &inv.Code, &inv.MaxUses, &inv.UseCount, &expiresAt, &createdAt)
	if err != nil {
		return nil, err
	}

	inv.ExpiresAt = unixToTime(expiresAt)
	inv.CreatedAt = time.Unix(createdAt, 0).UTC()
	return inv, nil
}

// GetInviteByCode retrieves an invite by its code.
func (s *SQLiteStore) GetInviteByCode(ctx context.Context, invCode string) (*models.InviteLink, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM invite_links WHERE code = ?", invCode)
	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, nil // Unknown code
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

// RedeemInvite atomically admits a member through an invite code. All
// precondition checks, the membership insert and the use-count increment
// run in one transaction; the conditional UPDATE on use_count and the
// (round_id, user_id) primary key close the race windows, so two
// concurrent redemptions of the last slot yield exactly one success.
func (s *SQLiteStore) RedeemInvite(ctx context.Context, invCode string, member *models.RoundMember, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM invite_links WHERE code = ?", invCode)
	invite, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("invite not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load invite: %w", err)
	}
	if invite.Expired(now) {
		return apperrors.Conflict("invite has expired")
	}
	if invite.Exhausted() {
		return apperrors.Conflict("invite has no uses left")
	}

	var numberOfMembers int
	var payoutOrder, status string
	err = tx.QueryRowContext(ctx,
		"SELECT number_of_members, payout_order, status FROM rounds WHERE id = ?",
		invite.RoundID,
	).Scan(&numberOfMembers, &payoutOrder, &status)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("round not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load round: %w", err)
	}
	if models.RoundStatus(status) != models.RoundActive {
		return apperrors.State("round is archived")
	}

	var memberCount int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM round_members WHERE round_id = ?", invite.RoundID,
	).Scan(&memberCount)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if memberCount >= numberOfMembers {
		return apperrors.Conflict("round is full")
	}

	member.RoundID = invite.RoundID
	member.Role = models.RoleMember
	member.JoinedAt = now.UTC()
	member.PayoutPosition = calculator.NextPosition(models.PayoutOrder(payoutOrder), memberCount)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_members (round_id, user_id, role, payout_position, joined_at)
		VALUES (?, ?, ?, ?, ?)`,
		member.RoundID, member.UserID, string(member.Role),
		member.PayoutPosition, member.JoinedAt.Unix(),
	)
	if isUniqueViolation(err) {
		return apperrors.Conflict("already a member of this round")
	}
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE invite_links SET use_count = use_count + 1
		WHERE id = ? AND (max_uses = 0 OR use_count < max_uses)`,
		invite.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment use count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.Conflict("invite has no uses left")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
