package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
	"chatguard/pkg/platform/tx"
)

// PostgresStore persists moderation records in PostgreSQL.
// This store is pure I/O; transitions and invariants belong in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.ModerationStatus, error) {
	query := `
		SELECT user_id, status, restrictions, unblock_at, reason, updated_at
		FROM moderation_status
		WHERE user_id = $1
	`
	record, err := scanStatus(tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get moderation status: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get moderation status: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, status *models.ModerationStatus) error {
	if status == nil {
		return fmt.Errorf("moderation status is required")
	}
	restrictions := make([]string, len(status.Restrictions))
	for i, r := range status.Restrictions {
		restrictions[i] = string(r)
	}
	query := `
		INSERT INTO moderation_status (user_id, status, restrictions, unblock_at, reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			restrictions = EXCLUDED.restrictions,
			unblock_at = EXCLUDED.unblock_at,
			reason = EXCLUDED.reason,
			updated_at = EXCLUDED.updated_at
	`
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		status.UserID.String(),
		string(status.Status),
		pq.Array(restrictions),
		status.UnblockAt,
		status.Reason,
		status.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert moderation status: %w", err)
	}
	return nil
}

func scanStatus(row *sql.Row) (*models.ModerationStatus, error) {
	var (
		userID       string
		status       string
		restrictions []string
		unblockAt    sql.NullTime
		record       models.ModerationStatus
	)
	if err := row.Scan(&userID, &status, pq.Array(&restrictions), &unblockAt, &record.Reason, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.UserID = id.UserID(userID)
	record.Status = models.Status(status)
	record.Restrictions = make([]models.Restriction, len(restrictions))
	for i, r := range restrictions {
		record.Restrictions[i] = models.Restriction(r)
	}
	if unblockAt.Valid {
		t := unblockAt.Time
		record.UnblockAt = &t
	}
	return &record, nil
}
