package db

import (
	"time"

	"github.com/google/uuid"
)

// JobDescription represents a job posting a user wants to match against
type JobDescription struct {
	ID                     uuid.UUID   `json:"id"`
	UserID                 uuid.UUID   `json:"user_id"`
	Title                  string      `json:"title"`
	Company                string      `json:"company"`
	Location               string      `json:"location,omitempty"`
	JobText                string      `json:"job_text"`
	SourceLink             string      `json:"source_link,omitempty"`
	SourceType             string      `json:"source_type"` // upload, url, text
	FileType               string      `json:"file_type,omitempty"`
	ExtractedSkills        StringArray `json:"extracted_skills"`
	ExperienceRequirements StringArray `json:"experience_requirements"`
	EducationRequirements  StringArray `json:"education_requirements"`
	RequiredCertifications StringArray `json:"required_certifications"`
	SalaryRange            string      `json:"salary_range,omitempty"`
	JobType                string      `json:"job_type,omitempty"`
	SeniorityLevel         string      `json:"seniority_level,omitempty"`
	RemoteFriendly         string      `json:"remote_friendly,omitempty"`
	RawAIResponse          string      `json:"-"`
	ProcessingStatus       string      `json:"processing_status"`
	CreatedAt              time.Time   `json:"created_at"`
}

// JobCreateInput holds the fields required to store a new job description
type JobCreateInput struct {
	UserID     uuid.UUID
	Title      string
	Company    string
	Location   string
	JobText    string
	SourceLink string
	SourceType string
	FileType   string
}

// JobAnalysis holds the AI-extracted job requirements written after analysis
type JobAnalysis struct {
	Title                  string
	Company                string
	Location               string
	Skills                 []string
	ExperienceRequirements []string
	EducationRequirements  []string
	RequiredCertifications []string
	SalaryRange            string
	JobType                string
	SeniorityLevel         string
	RemoteFriendly         string
	RawResponse            string
}
