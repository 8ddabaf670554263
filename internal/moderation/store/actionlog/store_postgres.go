package actionlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/tx"
)

// PostgresStore persists the moderation action log in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, a *models.ModerationAction) error {
	if a == nil {
		return fmt.Errorf("moderation action is required")
	}
	query := `
		INSERT INTO moderation_logs (id, user_id, actor_id, action, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		a.ID, a.UserID.String(), a.ActorID, string(a.Action), a.Reason, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append moderation action: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountByAction(ctx context.Context, from, to time.Time) (map[models.ActionType]int, error) {
	query := `
		SELECT action, COUNT(*)
		FROM moderation_logs
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY action
	`
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("count moderation actions: %w", err)
	}
	defer rows.Close()

	out := make(map[models.ActionType]int)
	for rows.Next() {
		var (
			action string
			count  int
		)
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("scan moderation action count: %w", err)
		}
		out[models.ActionType(action)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation action counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.ModerationAction, error) {
	query := `
		SELECT id, user_id, actor_id, action, reason, created_at
		FROM moderation_logs
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	return s.list(ctx, query, from, to, limit)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.ModerationAction, error) {
	query := `
		SELECT id, user_id, actor_id, action, reason, created_at
		FROM moderation_logs
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	return s.list(ctx, query, userID.String())
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.ModerationAction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list moderation actions: %w", err)
	}
	defer rows.Close()

	var out []*models.ModerationAction
	for rows.Next() {
		var (
			a      models.ModerationAction
			userID string
			action string
		)
		if err := rows.Scan(&a.ID, &userID, &a.ActorID, &action, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation action: %w", err)
		}
		a.UserID = id.UserID(userID)
		a.Action = models.ActionType(action)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation actions: %w", err)
	}
	return out, nil
}
