package db

import (
	"time"

	"github.com/google/uuid"
)

// Match represents one resume-to-job comparison stored in match history
type Match struct {
	ID                      uuid.UUID   `json:"id"`
	UserID                  uuid.UUID   `json:"user_id"`
	ResumeID                uuid.UUID   `json:"resume_id"`
	JobID                   uuid.UUID   `json:"job_id"`
	MatchScore              int         `json:"match_score"`
	SkillsMatchScore        int         `json:"skills_match_score"`
	ExperienceMatchScore    int         `json:"experience_match_score"`
	EducationMatchScore     int         `json:"education_match_score"`
	KeywordsMatchScore      int         `json:"keywords_match_score"`
	MatchingSkills          StringArray `json:"matching_skills"`
	MissingSkills           StringArray `json:"missing_skills"`
	MatchingKeywords        StringArray `json:"matching_keywords"`
	MissingKeywords         StringArray `json:"missing_keywords"`
	DetailedAnalysis        string      `json:"detailed_analysis,omitempty"`
	OptimizedResumeText     string      `json:"optimized_resume_text,omitempty"`
	OptimizationSuggestions StringArray `json:"optimization_suggestions"`
	ImprovementAreas        StringArray `json:"improvement_areas"`
	RawAIResponse           string      `json:"-"`
	ProcessingStatus        string      `json:"processing_status"`
	CreatedAt               time.Time   `json:"created_at"`
}

// MatchCreateInput holds a scored comparison ready to persist.
// All score fields must already be clamped to [0,100].
type MatchCreateInput struct {
	UserID               uuid.UUID
	ResumeID             uuid.UUID
	JobID                uuid.UUID
	MatchScore           int
	SkillsMatchScore     int
	ExperienceMatchScore int
	EducationMatchScore  int
	KeywordsMatchScore   int
	MatchingSkills       []string
	MissingSkills        []string
	MatchingKeywords     []string
	MissingKeywords      []string
	DetailedAnalysis     string
	RawResponse          string
}

// RecentMatch is a match joined with resume and job names for the dashboard
type RecentMatch struct {
	ID         uuid.UUID `json:"id"`
	ResumeID   uuid.UUID `json:"resume_id"`
	JobID      uuid.UUID `json:"job_id"`
	ResumeName string    `json:"resume_name"`
	JobTitle   string    `json:"job_title"`
	Company    string    `json:"company"`
	MatchScore int       `json:"match_score"`
	CreatedAt  time.Time `json:"created_at"`
}
