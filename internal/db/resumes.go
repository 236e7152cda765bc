package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, filename, file_type, file_size, extracted_text,
	parsed_skills, parsed_experience, parsed_education, parsed_certifications,
	parsed_achievements, raw_ai_response, processing_status, uploaded_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.UserID, &r.Filename, &r.FileType, &r.FileSize,
		&r.ExtractedText, &r.ParsedSkills, &r.ParsedExperience, &r.ParsedEducation,
		&r.ParsedCertifications, &r.ParsedAchievements, &r.RawAIResponse,
		&r.ProcessingStatus, &r.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume stores a new upload in pending state and returns its ID.
// Each upload is a new row; earlier uploads are kept.
func (db *DB) CreateResume(ctx context.Context, input *ResumeCreateInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, filename, file_type, file_size, extracted_text, processing_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		input.UserID, input.Filename, input.FileType, input.FileSize,
		input.ExtractedText, StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// UpdateResumeAnalysis writes the AI-extracted structure and marks the resume completed
func (db *DB) UpdateResumeAnalysis(ctx context.Context, id uuid.UUID, analysis *ResumeAnalysis) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET parsed_skills = $1, parsed_experience = $2, parsed_education = $3,
		        parsed_certifications = $4, parsed_achievements = $5, raw_ai_response = $6,
		        processing_status = $7
		 WHERE id = $8`,
		StringArray(analysis.Skills), StringArray(analysis.Experience),
		StringArray(analysis.Education), StringArray(analysis.Certifications),
		StringArray(analysis.Achievements), analysis.RawResponse, StatusCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume analysis: %w", err)
	}
	return nil
}

// SetResumeStatus updates only the processing status
func (db *DB) SetResumeStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET processing_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set resume status: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by ID scoped to its owner.
// Returns nil when the row does not exist or belongs to another user.
func (db *DB) GetResume(ctx context.Context, id, userID uuid.UUID) (*Resume, error) {
	resume, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return resume, nil
}

// ListResumes retrieves a user's resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, nil
}

// GetLatestCompletedResume returns the user's newest fully parsed resume, or nil
func (db *DB) GetLatestCompletedResume(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	resume, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE user_id = $1 AND processing_status = $2
		 ORDER BY uploaded_at DESC LIMIT 1`,
		userID, StatusCompleted))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume: %w", err)
	}
	return resume, nil
}

// DeleteResume removes a resume scoped to its owner.
// Returns false when nothing was deleted.
func (db *DB) DeleteResume(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
