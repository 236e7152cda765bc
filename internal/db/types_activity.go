package db

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog records one significant user action for auditing and stats
type ActivityLog struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	ActionType  string     `json:"action_type"`
	Description string     `json:"description"`
	Metadata    JSONMap    `json:"metadata"`
	IPAddress   string     `json:"ip_address,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DashboardStats aggregates a user's account activity
type DashboardStats struct {
	TotalResumes     int `json:"total_resumes"`
	TotalJobs        int `json:"total_jobs"`
	TotalMatches     int `json:"total_matches"`
	AvgMatchScore    int `json:"avg_match_score"`
	BestMatchScore   int `json:"best_match_score"`
	RecentActivities int `json:"recent_activities"`
}
