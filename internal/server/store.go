package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/db"
)

// Store is the persistence surface the handlers depend on. *db.DB
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	// Users
	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByLinkedInID(ctx context.Context, linkedinID string) (*db.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpsertOAuthUser(ctx context.Context, provider, name, email, picture string) (*db.User, error)
	ConnectLinkedIn(ctx context.Context, userID uuid.UUID, linkedinID, accessToken string) error
	DisconnectLinkedIn(ctx context.Context, userID uuid.UUID) error
	SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error
	UpdateSubscriptionPlan(ctx context.Context, userID uuid.UUID, plan string) error

	// Resumes
	CreateResume(ctx context.Context, input *db.ResumeCreateInput) (uuid.UUID, error)
	UpdateResumeAnalysis(ctx context.Context, id uuid.UUID, analysis *db.ResumeAnalysis) error
	SetResumeStatus(ctx context.Context, id uuid.UUID, status string) error
	GetResume(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetLatestCompletedResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	DeleteResume(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// Job descriptions
	CreateJobDescription(ctx context.Context, input *db.JobCreateInput) (uuid.UUID, error)
	UpdateJobAnalysis(ctx context.Context, id uuid.UUID, analysis *db.JobAnalysis) error
	SetJobStatus(ctx context.Context, id uuid.UUID, status string) error
	GetJobDescription(ctx context.Context, id, userID uuid.UUID) (*db.JobDescription, error)
	ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]db.JobDescription, error)
	DeleteJobDescription(ctx context.Context, id, userID uuid.UUID) (bool, error)

	// Matches
	CreateMatch(ctx context.Context, input *db.MatchCreateInput) (*db.Match, error)
	GetMatch(ctx context.Context, id, userID uuid.UUID) (*db.Match, error)
	ListMatches(ctx context.Context, userID uuid.UUID, limit int) ([]db.Match, error)
	LatestMatchForPair(ctx context.Context, userID, resumeID, jobID uuid.UUID) (*db.Match, error)
	UpdateMatchOptimization(ctx context.Context, id uuid.UUID, optimizedText string, suggestions, improvementAreas []string) error

	// Recommendations
	UpsertRecommendedJob(ctx context.Context, input *db.RecommendedJobInput) (*db.RecommendedJob, error)
	ListRecommendedJobs(ctx context.Context, userID uuid.UUID, limit int) ([]db.RecommendedJob, error)
	UpdateApplicationStatus(ctx context.Context, id, userID uuid.UUID, status, notes string) (*db.RecommendedJob, error)
	GetRecommendationStats(ctx context.Context, userID uuid.UUID) (*db.RecommendationStats, error)

	// Subscriptions
	GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*db.Subscription, error)
	GetSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string) (*db.Subscription, error)
	UpsertSubscription(ctx context.Context, input *db.SubscriptionUpsertInput) (*db.Subscription, error)
	MarkSubscriptionCanceled(ctx context.Context, userID uuid.UUID) error

	// Activity and dashboard
	LogActivity(ctx context.Context, userID *uuid.UUID, actionType, description string, metadata map[string]any, ipAddress, userAgent string) error
	ListRecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]db.ActivityLog, error)
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (*db.DashboardStats, error)
	ListRecentMatches(ctx context.Context, userID uuid.UUID, limit int) ([]db.RecentMatch, error)
}
