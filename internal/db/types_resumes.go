package db

import (
	"time"

	"github.com/google/uuid"
)

// Resume represents an uploaded resume and its AI-extracted structure.
// Every upload creates a new row; prior versions are never overwritten.
type Resume struct {
	ID                   uuid.UUID   `json:"id"`
	UserID               uuid.UUID   `json:"user_id"`
	Filename             string      `json:"filename"`
	FileType             string      `json:"file_type"`
	FileSize             int64       `json:"file_size"`
	ExtractedText        string      `json:"extracted_text,omitempty"`
	ParsedSkills         StringArray `json:"parsed_skills"`
	ParsedExperience     StringArray `json:"parsed_experience"`
	ParsedEducation      StringArray `json:"parsed_education"`
	ParsedCertifications StringArray `json:"parsed_certifications"`
	ParsedAchievements   StringArray `json:"parsed_achievements"`
	RawAIResponse        string      `json:"-"`
	ProcessingStatus     string      `json:"processing_status"`
	UploadedAt           time.Time   `json:"uploaded_at"`
}

// ResumeCreateInput holds the fields required to store a new upload
type ResumeCreateInput struct {
	UserID        uuid.UUID
	Filename      string
	FileType      string
	FileSize      int64
	ExtractedText string
}

// ResumeAnalysis holds the AI-extracted structure written after parsing
type ResumeAnalysis struct {
	Skills         []string
	Experience     []string
	Education      []string
	Certifications []string
	Achievements   []string
	RawResponse    string
}
