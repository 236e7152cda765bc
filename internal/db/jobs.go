package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, user_id, title, company, location, job_text, source_link,
	source_type, file_type, extracted_skills, experience_requirements,
	education_requirements, required_certifications, salary_range, job_type,
	seniority_level, remote_friendly, raw_ai_response, processing_status, created_at`

func scanJob(row pgx.Row) (*JobDescription, error) {
	var j JobDescription
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Location, &j.JobText,
		&j.SourceLink, &j.SourceType, &j.FileType, &j.ExtractedSkills,
		&j.ExperienceRequirements, &j.EducationRequirements, &j.RequiredCertifications,
		&j.SalaryRange, &j.JobType, &j.SeniorityLevel, &j.RemoteFriendly,
		&j.RawAIResponse, &j.ProcessingStatus, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJobDescription stores a new job posting in pending state and returns its ID
func (db *DB) CreateJobDescription(ctx context.Context, input *JobCreateInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (user_id, title, company, location, job_text,
		        source_link, source_type, file_type, processing_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		input.UserID, input.Title, input.Company, input.Location, input.JobText,
		input.SourceLink, input.SourceType, input.FileType, StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job description: %w", err)
	}
	return id, nil
}

// UpdateJobAnalysis writes the AI-extracted requirements and marks the job completed.
// Title, company and location are only overwritten when the analysis found them.
func (db *DB) UpdateJobAnalysis(ctx context.Context, id uuid.UUID, analysis *JobAnalysis) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_descriptions SET
		        title = CASE WHEN $1 <> '' THEN $1 ELSE title END,
		        company = CASE WHEN $2 <> '' THEN $2 ELSE company END,
		        location = CASE WHEN $3 <> '' THEN $3 ELSE location END,
		        extracted_skills = $4, experience_requirements = $5,
		        education_requirements = $6, required_certifications = $7,
		        salary_range = $8, job_type = $9, seniority_level = $10,
		        remote_friendly = $11, raw_ai_response = $12, processing_status = $13
		 WHERE id = $14`,
		analysis.Title, analysis.Company, analysis.Location,
		StringArray(analysis.Skills), StringArray(analysis.ExperienceRequirements),
		StringArray(analysis.EducationRequirements), StringArray(analysis.RequiredCertifications),
		analysis.SalaryRange, analysis.JobType, analysis.SeniorityLevel,
		analysis.RemoteFriendly, analysis.RawResponse, StatusCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job analysis: %w", err)
	}
	return nil
}

// SetJobStatus updates only the processing status
func (db *DB) SetJobStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_descriptions SET processing_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set job status: %w", err)
	}
	return nil
}

// GetJobDescription retrieves a job by ID scoped to its owner.
// Returns nil when the row does not exist or belongs to another user.
func (db *DB) GetJobDescription(ctx context.Context, id, userID uuid.UUID) (*JobDescription, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return job, nil
}

// ListJobDescriptions retrieves a user's job postings, newest first
func (db *DB) ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]JobDescription, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	defer rows.Close()

	var jobs []JobDescription
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job description: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// DeleteJobDescription removes a job scoped to its owner.
// Returns false when nothing was deleted.
func (db *DB) DeleteJobDescription(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM job_descriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete job description: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
