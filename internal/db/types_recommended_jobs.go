package db

import (
	"time"

	"github.com/google/uuid"
)

// Application status values for recommended jobs
const (
	ApplicationNone      = "none"
	ApplicationApplied   = "applied"
	ApplicationInterview = "interview"
	ApplicationRejected  = "rejected"
)

// RecommendedJob represents an externally sourced job suggestion for a user
type RecommendedJob struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	ExternalJobID     string     `json:"external_job_id"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Location          string     `json:"location,omitempty"`
	Description       string     `json:"description,omitempty"`
	MatchScore        int        `json:"match_score"`
	ApplyLink         string     `json:"apply_link,omitempty"`
	Source            string     `json:"source"` // linkedin, adzuna, sample
	SalaryInfo        string     `json:"salary_info,omitempty"`
	JobType           string     `json:"job_type,omitempty"`
	SeniorityLevel    string     `json:"seniority_level,omitempty"`
	RemoteFriendly    string     `json:"remote_friendly,omitempty"`
	PostedDate        *time.Time `json:"posted_date,omitempty"`
	ApplicationStatus string     `json:"application_status"`
	Notes             string     `json:"notes,omitempty"`
	FetchedAt         time.Time  `json:"fetched_at"`
}

// RecommendedJobInput holds one provider result ready to upsert
type RecommendedJobInput struct {
	UserID         uuid.UUID
	ExternalJobID  string
	Title          string
	Company        string
	Location       string
	Description    string
	MatchScore     int
	ApplyLink      string
	Source         string
	SalaryInfo     string
	JobType        string
	SeniorityLevel string
	RemoteFriendly string
	PostedDate     *time.Time
}

// RecommendationStats aggregates a user's saved recommendations
type RecommendationStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySource   map[string]int `json:"by_source"`
	AvgScore   int            `json:"avg_score"`
	LastFetch  *time.Time     `json:"last_fetch,omitempty"`
}
