package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LogActivity records one user action. Callers treat failures as
// best-effort: a failed log never blocks the operation it describes.
func (db *DB) LogActivity(ctx context.Context, userID *uuid.UUID, actionType, description string, metadata map[string]any, ipAddress, userAgent string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO activity_logs (user_id, action_type, description, metadata, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, actionType, description, JSONMap(metadata), ipAddress, userAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// ListRecentActivity retrieves a user's latest actions, newest first
func (db *DB) ListRecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, action_type, description, metadata, ip_address, user_agent, created_at
		 FROM activity_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var logs []ActivityLog
	for rows.Next() {
		var l ActivityLog
		err := rows.Scan(&l.ID, &l.UserID, &l.ActionType, &l.Description,
			&l.Metadata, &l.IPAddress, &l.UserAgent, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// CountRecentActivity counts a user's actions over the last N days
func (db *DB) CountRecentActivity(ctx context.Context, userID uuid.UUID, days int) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_logs
		 WHERE user_id = $1 AND created_at > NOW() - ($2 || ' days')::interval`,
		userID, days,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent activity: %w", err)
	}
	return count, nil
}
