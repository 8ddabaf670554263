package violation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/tx"
)

// PostgresStore persists violations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, v *models.Violation) error {
	if v == nil {
		return fmt.Errorf("violation is required")
	}
	query := `
		INSERT INTO moderation_violations (id, user_id, chat_id, type, severity, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var chatID sql.NullString
	if !v.ChatID.IsNil() {
		chatID = sql.NullString{String: v.ChatID.String(), Valid: true}
	}
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		v.ID, v.UserID.String(), chatID, string(v.Type), string(v.Severity), v.Detail, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append violation: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountSince(ctx context.Context, userID id.UserID, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM moderation_violations WHERE user_id = $1 AND created_at >= $2`
	if err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, userID.String(), since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountByType(ctx context.Context, from, to time.Time) (map[models.ViolationType]int, error) {
	query := `
		SELECT type, COUNT(*)
		FROM moderation_violations
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY type
	`
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("count violations by type: %w", err)
	}
	defer rows.Close()

	out := make(map[models.ViolationType]int)
	for rows.Next() {
		var (
			vType string
			count int
		)
		if err := rows.Scan(&vType, &count); err != nil {
			return nil, fmt.Errorf("scan violation count: %w", err)
		}
		out[models.ViolationType(vType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violation counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, from, to time.Time, limit int) ([]*models.Violation, error) {
	query := `
		SELECT id, user_id, chat_id, type, severity, detail, created_at
		FROM moderation_violations
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	defer rows.Close()

	var out []*models.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violations: %w", err)
	}
	return out, nil
}

func scanViolation(rows *sql.Rows) (*models.Violation, error) {
	var (
		v        models.Violation
		rawID    uuid.UUID
		userID   string
		chatID   sql.NullString
		vType    string
		severity string
	)
	if err := rows.Scan(&rawID, &userID, &chatID, &vType, &severity, &v.Detail, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ID = rawID
	v.UserID = id.UserID(userID)
	if chatID.Valid {
		v.ChatID = id.ChatID(chatID.String)
	}
	v.Type = models.ViolationType(vType)
	v.Severity = models.Severity(severity)
	return &v, nil
}
