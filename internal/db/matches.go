package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, user_id, resume_id, job_id, match_score, skills_match_score,
	experience_match_score, education_match_score, keywords_match_score,
	matching_skills, missing_skills, matching_keywords, missing_keywords,
	detailed_analysis, optimized_resume_text, optimization_suggestions,
	improvement_areas, raw_ai_response, processing_status, created_at`

func scanMatch(row pgx.Row) (*Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.UserID, &m.ResumeID, &m.JobID, &m.MatchScore,
		&m.SkillsMatchScore, &m.ExperienceMatchScore, &m.EducationMatchScore,
		&m.KeywordsMatchScore, &m.MatchingSkills, &m.MissingSkills,
		&m.MatchingKeywords, &m.MissingKeywords, &m.DetailedAnalysis,
		&m.OptimizedResumeText, &m.OptimizationSuggestions, &m.ImprovementAreas,
		&m.RawAIResponse, &m.ProcessingStatus, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMatch persists a scored comparison and returns the stored row
func (db *DB) CreateMatch(ctx context.Context, input *MatchCreateInput) (*Match, error) {
	match, err := scanMatch(db.pool.QueryRow(ctx,
		`INSERT INTO match_history (user_id, resume_id, job_id, match_score,
		        skills_match_score, experience_match_score, education_match_score,
		        keywords_match_score, matching_skills, missing_skills,
		        matching_keywords, missing_keywords, detailed_analysis,
		        raw_ai_response, processing_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+matchColumns,
		input.UserID, input.ResumeID, input.JobID, input.MatchScore,
		input.SkillsMatchScore, input.ExperienceMatchScore, input.EducationMatchScore,
		input.KeywordsMatchScore, StringArray(input.MatchingSkills),
		StringArray(input.MissingSkills), StringArray(input.MatchingKeywords),
		StringArray(input.MissingKeywords), input.DetailedAnalysis,
		input.RawResponse, StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

// GetMatch retrieves a match by ID scoped to its owner.
// Returns nil when the row does not exist or belongs to another user.
func (db *DB) GetMatch(ctx context.Context, id, userID uuid.UUID) (*Match, error) {
	match, err := scanMatch(db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_history WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// ListMatches retrieves a user's match history, newest first.
// A limit of 0 returns all rows.
func (db *DB) ListMatches(ctx context.Context, userID uuid.UUID, limit int) ([]Match, error) {
	query := `SELECT ` + matchColumns + ` FROM match_history WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

// LatestMatchForPair returns the newest match for a resume/job pair, or nil
func (db *DB) LatestMatchForPair(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*Match, error) {
	match, err := scanMatch(db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM match_history
		 WHERE user_id = $1 AND resume_id = $2 AND job_id = $3
		 ORDER BY created_at DESC LIMIT 1`,
		userID, resumeID, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest match: %w", err)
	}
	return match, nil
}

// UpdateMatchOptimization stores the rewritten resume and suggestions on a match
func (db *DB) UpdateMatchOptimization(ctx context.Context, id uuid.UUID, optimizedText string, suggestions, improvementAreas []string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE match_history SET optimized_resume_text = $1,
		        optimization_suggestions = $2, improvement_areas = $3
		 WHERE id = $4`,
		optimizedText, StringArray(suggestions), StringArray(improvementAreas), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update match optimization: %w", err)
	}
	return nil
}
