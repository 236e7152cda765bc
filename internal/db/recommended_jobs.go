package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recommendedJobColumns = `id, user_id, external_job_id, title, company, location,
	description, match_score, apply_link, source, salary_info, job_type,
	seniority_level, remote_friendly, posted_date, application_status, notes, fetched_at`

func scanRecommendedJob(row pgx.Row) (*RecommendedJob, error) {
	var j RecommendedJob
	err := row.Scan(&j.ID, &j.UserID, &j.ExternalJobID, &j.Title, &j.Company,
		&j.Location, &j.Description, &j.MatchScore, &j.ApplyLink, &j.Source,
		&j.SalaryInfo, &j.JobType, &j.SeniorityLevel, &j.RemoteFriendly,
		&j.PostedDate, &j.ApplicationStatus, &j.Notes, &j.FetchedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// UpsertRecommendedJob inserts a provider result or refreshes the existing row
// for the same external job. Application status and notes survive refreshes.
func (db *DB) UpsertRecommendedJob(ctx context.Context, input *RecommendedJobInput) (*RecommendedJob, error) {
	job, err := scanRecommendedJob(db.pool.QueryRow(ctx,
		`INSERT INTO recommended_jobs (user_id, external_job_id, title, company,
		        location, description, match_score, apply_link, source, salary_info,
		        job_type, seniority_level, remote_friendly, posted_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (user_id, external_job_id) DO UPDATE SET
		        title = EXCLUDED.title, company = EXCLUDED.company,
		        location = EXCLUDED.location, description = EXCLUDED.description,
		        match_score = EXCLUDED.match_score, apply_link = EXCLUDED.apply_link,
		        source = EXCLUDED.source, salary_info = EXCLUDED.salary_info,
		        job_type = EXCLUDED.job_type, seniority_level = EXCLUDED.seniority_level,
		        remote_friendly = EXCLUDED.remote_friendly,
		        posted_date = EXCLUDED.posted_date, fetched_at = NOW()
		 RETURNING `+recommendedJobColumns,
		input.UserID, input.ExternalJobID, input.Title, input.Company,
		input.Location, input.Description, input.MatchScore, input.ApplyLink,
		input.Source, input.SalaryInfo, input.JobType, input.SeniorityLevel,
		input.RemoteFriendly, input.PostedDate))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert recommended job: %w", err)
	}
	return job, nil
}

// ListRecommendedJobs retrieves a user's saved recommendations, best score first.
// A limit of 0 returns all rows.
func (db *DB) ListRecommendedJobs(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendedJob, error) {
	query := `SELECT ` + recommendedJobColumns + ` FROM recommended_jobs
		 WHERE user_id = $1 ORDER BY match_score DESC, fetched_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommended jobs: %w", err)
	}
	defer rows.Close()

	var jobs []RecommendedJob
	for rows.Next() {
		j, err := scanRecommendedJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommended job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// UpdateApplicationStatus records where the user is in the application process.
// Returns the updated row, or nil when the recommendation is not theirs.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id, userID uuid.UUID, status, notes string) (*RecommendedJob, error) {
	job, err := scanRecommendedJob(db.pool.QueryRow(ctx,
		`UPDATE recommended_jobs SET application_status = $1, notes = $2
		 WHERE id = $3 AND user_id = $4
		 RETURNING `+recommendedJobColumns,
		status, notes, id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return job, nil
}

// GetRecommendationStats aggregates a user's saved recommendations
func (db *DB) GetRecommendationStats(ctx context.Context, userID uuid.UUID) (*RecommendationStats, error) {
	stats := &RecommendationStats{
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}

	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(ROUND(AVG(match_score)), 0), MAX(fetched_at)
		 FROM recommended_jobs WHERE user_id = $1`,
		userID,
	).Scan(&stats.Total, &stats.AvgScore, &stats.LastFetch)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation totals: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT application_status, source, COUNT(*)
		 FROM recommended_jobs WHERE user_id = $1
		 GROUP BY application_status, source`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, source string
		var count int
		if err := rows.Scan(&status, &source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation breakdown: %w", err)
		}
		stats.ByStatus[status] += count
		stats.BySource[source] += count
	}
	return stats, nil
}
