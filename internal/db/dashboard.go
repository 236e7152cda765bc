package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetDashboardStats aggregates a user's account activity for the dashboard
func (db *DB) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	var stats DashboardStats
	err := db.pool.QueryRow(ctx,
		`SELECT
		        (SELECT COUNT(*) FROM resumes WHERE user_id = $1),
		        (SELECT COUNT(*) FROM job_descriptions WHERE user_id = $1),
		        (SELECT COUNT(*) FROM match_history WHERE user_id = $1),
		        (SELECT COALESCE(ROUND(AVG(match_score)), 0) FROM match_history WHERE user_id = $1),
		        (SELECT COALESCE(MAX(match_score), 0) FROM match_history WHERE user_id = $1),
		        (SELECT COUNT(*) FROM activity_logs WHERE user_id = $1 AND created_at > NOW() - INTERVAL '7 days')`,
		userID,
	).Scan(&stats.TotalResumes, &stats.TotalJobs, &stats.TotalMatches,
		&stats.AvgMatchScore, &stats.BestMatchScore, &stats.RecentActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

// ListRecentMatches retrieves a user's latest matches joined with resume and
// job names for display
func (db *DB) ListRecentMatches(ctx context.Context, userID uuid.UUID, limit int) ([]RecentMatch, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.pool.Query(ctx,
		`SELECT m.id, m.resume_id, m.job_id, r.filename, j.title, j.company,
		        m.match_score, m.created_at
		 FROM match_history m
		 JOIN resumes r ON r.id = m.resume_id
		 JOIN job_descriptions j ON j.id = m.job_id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}
	defer rows.Close()

	var matches []RecentMatch
	for rows.Next() {
		var m RecentMatch
		err := rows.Scan(&m.ID, &m.ResumeID, &m.JobID, &m.ResumeName,
			&m.JobTitle, &m.Company, &m.MatchScore, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
