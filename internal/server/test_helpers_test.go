package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jobalign/jobalign-api/internal/ai"
	"github.com/jobalign/jobalign-api/internal/analysis"
	"github.com/jobalign/jobalign-api/internal/billing"
	"github.com/jobalign/jobalign-api/internal/config"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/jobsearch"
	"github.com/jobalign/jobalign-api/internal/oauth"
)

// mockStore is an in-memory Store for handler tests. Every method
// mirrors the ownership and nil-on-missing semantics of the real
// database layer.
type mockStore struct {
	mu              sync.Mutex
	users           map[uuid.UUID]*db.User
	resumes         map[uuid.UUID]*db.Resume
	jobs            map[uuid.UUID]*db.JobDescription
	matches         map[uuid.UUID]*db.Match
	recommendations map[uuid.UUID]*db.RecommendedJob
	subscriptions   map[uuid.UUID]*db.Subscription
	activity        []db.ActivityLog

	// failWith makes every subsequent call fail, for error-path tests
	failWith error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:           make(map[uuid.UUID]*db.User),
		resumes:         make(map[uuid.UUID]*db.Resume),
		jobs:            make(map[uuid.UUID]*db.JobDescription),
		matches:         make(map[uuid.UUID]*db.Match),
		recommendations: make(map[uuid.UUID]*db.RecommendedJob),
		subscriptions:   make(map[uuid.UUID]*db.Subscription),
	}
}

// Users

func (m *mockStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	id := uuid.New()
	m.users[id] = &db.User{
		ID:               id,
		Name:             name,
		Email:            email,
		SubscriptionPlan: db.PlanFree,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}
	return id, nil
}

func (m *mockStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetUserByLinkedInID(_ context.Context, linkedinID string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, user := range m.users {
		if user.LinkedInID != nil && *user.LinkedInID == linkedinID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetUserByStripeCustomerID(_ context.Context, customerID string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, user := range m.users {
		if user.StripeCustomerID == customerID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if user, ok := m.users[userID]; ok {
		user.PasswordHash = passwordHash
		user.PasswordSet = true
	}
	return nil
}

func (m *mockStore) UpsertOAuthUser(_ context.Context, provider, name, email, picture string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, user := range m.users {
		if user.Email == email {
			user.OAuthProvider = provider
			if picture != "" {
				user.ProfilePicture = picture
			}
			copied := *user
			return &copied, nil
		}
	}
	id := uuid.New()
	user := &db.User{
		ID:               id,
		Name:             name,
		Email:            email,
		OAuthProvider:    provider,
		ProfilePicture:   picture,
		SubscriptionPlan: db.PlanFree,
		IsActive:         true,
		IsVerified:       true,
		CreatedAt:        time.Now(),
	}
	m.users[id] = user
	copied := *user
	return &copied, nil
}

func (m *mockStore) ConnectLinkedIn(_ context.Context, userID uuid.UUID, linkedinID, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if user, ok := m.users[userID]; ok {
		user.LinkedInID = &linkedinID
		user.LinkedInAccessToken = accessToken
	}
	return nil
}

func (m *mockStore) DisconnectLinkedIn(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if user, ok := m.users[userID]; ok {
		user.LinkedInID = nil
		user.LinkedInAccessToken = ""
	}
	return nil
}

func (m *mockStore) SetStripeCustomerID(_ context.Context, userID uuid.UUID, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if user, ok := m.users[userID]; ok {
		user.StripeCustomerID = customerID
	}
	return nil
}

func (m *mockStore) UpdateSubscriptionPlan(_ context.Context, userID uuid.UUID, plan string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if user, ok := m.users[userID]; ok {
		user.SubscriptionPlan = plan
	}
	return nil
}

// Resumes

func (m *mockStore) CreateResume(_ context.Context, input *db.ResumeCreateInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	id := uuid.New()
	m.resumes[id] = &db.Resume{
		ID:               id,
		UserID:           input.UserID,
		Filename:         input.Filename,
		FileType:         input.FileType,
		FileSize:         input.FileSize,
		ExtractedText:    input.ExtractedText,
		ProcessingStatus: db.StatusPending,
		UploadedAt:       time.Now(),
	}
	return id, nil
}

func (m *mockStore) UpdateResumeAnalysis(_ context.Context, id uuid.UUID, analysis *db.ResumeAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if resume, ok := m.resumes[id]; ok {
		resume.ParsedSkills = db.StringArray(analysis.Skills)
		resume.ParsedExperience = db.StringArray(analysis.Experience)
		resume.ParsedEducation = db.StringArray(analysis.Education)
		resume.ParsedCertifications = db.StringArray(analysis.Certifications)
		resume.ParsedAchievements = db.StringArray(analysis.Achievements)
		resume.RawAIResponse = analysis.RawResponse
		resume.ProcessingStatus = db.StatusCompleted
	}
	return nil
}

func (m *mockStore) SetResumeStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if resume, ok := m.resumes[id]; ok {
		resume.ProcessingStatus = status
	}
	return nil
}

func (m *mockStore) GetResume(_ context.Context, id, userID uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	resume, ok := m.resumes[id]
	if !ok || resume.UserID != userID {
		return nil, nil
	}
	copied := *resume
	return &copied, nil
}

func (m *mockStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.Resume
	for _, resume := range m.resumes {
		if resume.UserID == userID {
			out = append(out, *resume)
		}
	}
	return out, nil
}

func (m *mockStore) GetLatestCompletedResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var latest *db.Resume
	for _, resume := range m.resumes {
		if resume.UserID != userID || resume.ProcessingStatus != db.StatusCompleted {
			continue
		}
		if latest == nil || resume.UploadedAt.After(latest.UploadedAt) {
			latest = resume
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *mockStore) DeleteResume(_ context.Context, id, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	resume, ok := m.resumes[id]
	if !ok || resume.UserID != userID {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

// Job descriptions

func (m *mockStore) CreateJobDescription(_ context.Context, input *db.JobCreateInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return uuid.Nil, m.failWith
	}
	id := uuid.New()
	m.jobs[id] = &db.JobDescription{
		ID:               id,
		UserID:           input.UserID,
		Title:            input.Title,
		Company:          input.Company,
		Location:         input.Location,
		JobText:          input.JobText,
		SourceLink:       input.SourceLink,
		SourceType:       input.SourceType,
		FileType:         input.FileType,
		ProcessingStatus: db.StatusPending,
		CreatedAt:        time.Now(),
	}
	return id, nil
}

func (m *mockStore) UpdateJobAnalysis(_ context.Context, id uuid.UUID, analysis *db.JobAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	// Analysis values only overwrite fields the user left blank
	if analysis.Title != "" {
		job.Title = analysis.Title
	}
	if analysis.Company != "" {
		job.Company = analysis.Company
	}
	if analysis.Location != "" {
		job.Location = analysis.Location
	}
	job.ExtractedSkills = db.StringArray(analysis.Skills)
	job.ExperienceRequirements = db.StringArray(analysis.ExperienceRequirements)
	job.EducationRequirements = db.StringArray(analysis.EducationRequirements)
	job.RequiredCertifications = db.StringArray(analysis.RequiredCertifications)
	job.SalaryRange = analysis.SalaryRange
	job.JobType = analysis.JobType
	job.SeniorityLevel = analysis.SeniorityLevel
	job.RemoteFriendly = analysis.RemoteFriendly
	job.RawAIResponse = analysis.RawResponse
	job.ProcessingStatus = db.StatusCompleted
	return nil
}

func (m *mockStore) SetJobStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if job, ok := m.jobs[id]; ok {
		job.ProcessingStatus = status
	}
	return nil
}

func (m *mockStore) GetJobDescription(_ context.Context, id, userID uuid.UUID) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (m *mockStore) ListJobDescriptions(_ context.Context, userID uuid.UUID) ([]db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.JobDescription
	for _, job := range m.jobs {
		if job.UserID == userID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteJobDescription(_ context.Context, id, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return false, nil
	}
	delete(m.jobs, id)
	return true, nil
}

// Matches

func (m *mockStore) CreateMatch(_ context.Context, input *db.MatchCreateInput) (*db.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	match := &db.Match{
		ID:                   uuid.New(),
		UserID:               input.UserID,
		ResumeID:             input.ResumeID,
		JobID:                input.JobID,
		MatchScore:           input.MatchScore,
		SkillsMatchScore:     input.SkillsMatchScore,
		ExperienceMatchScore: input.ExperienceMatchScore,
		EducationMatchScore:  input.EducationMatchScore,
		KeywordsMatchScore:   input.KeywordsMatchScore,
		MatchingSkills:       db.StringArray(input.MatchingSkills),
		MissingSkills:        db.StringArray(input.MissingSkills),
		MatchingKeywords:     db.StringArray(input.MatchingKeywords),
		MissingKeywords:      db.StringArray(input.MissingKeywords),
		DetailedAnalysis:     input.DetailedAnalysis,
		RawAIResponse:        input.RawResponse,
		ProcessingStatus:     db.StatusCompleted,
		CreatedAt:            time.Now(),
	}
	m.matches[match.ID] = match
	copied := *match
	return &copied, nil
}

func (m *mockStore) GetMatch(_ context.Context, id, userID uuid.UUID) (*db.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	match, ok := m.matches[id]
	if !ok || match.UserID != userID {
		return nil, nil
	}
	copied := *match
	return &copied, nil
}

func (m *mockStore) ListMatches(_ context.Context, userID uuid.UUID, limit int) ([]db.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.Match
	for _, match := range m.matches {
		if match.UserID == userID {
			out = append(out, *match)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) LatestMatchForPair(_ context.Context, userID, resumeID, jobID uuid.UUID) (*db.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var latest *db.Match
	for _, match := range m.matches {
		if match.UserID != userID || match.ResumeID != resumeID || match.JobID != jobID {
			continue
		}
		if latest == nil || match.CreatedAt.After(latest.CreatedAt) {
			latest = match
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *mockStore) UpdateMatchOptimization(_ context.Context, id uuid.UUID, optimizedText string, suggestions, improvementAreas []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if match, ok := m.matches[id]; ok {
		match.OptimizedResumeText = optimizedText
		match.OptimizationSuggestions = db.StringArray(suggestions)
		match.ImprovementAreas = db.StringArray(improvementAreas)
	}
	return nil
}

// Recommendations

func (m *mockStore) UpsertRecommendedJob(_ context.Context, input *db.RecommendedJobInput) (*db.RecommendedJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, rec := range m.recommendations {
		if rec.UserID == input.UserID && rec.ExternalJobID == input.ExternalJobID {
			rec.Title = input.Title
			rec.Company = input.Company
			rec.MatchScore = input.MatchScore
			rec.FetchedAt = time.Now()
			copied := *rec
			return &copied, nil
		}
	}
	rec := &db.RecommendedJob{
		ID:                uuid.New(),
		UserID:            input.UserID,
		ExternalJobID:     input.ExternalJobID,
		Title:             input.Title,
		Company:           input.Company,
		Location:          input.Location,
		Description:       input.Description,
		MatchScore:        input.MatchScore,
		ApplyLink:         input.ApplyLink,
		Source:            input.Source,
		SalaryInfo:        input.SalaryInfo,
		JobType:           input.JobType,
		SeniorityLevel:    input.SeniorityLevel,
		RemoteFriendly:    input.RemoteFriendly,
		PostedDate:        input.PostedDate,
		ApplicationStatus: db.ApplicationNone,
		FetchedAt:         time.Now(),
	}
	m.recommendations[rec.ID] = rec
	copied := *rec
	return &copied, nil
}

func (m *mockStore) ListRecommendedJobs(_ context.Context, userID uuid.UUID, limit int) ([]db.RecommendedJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.RecommendedJob
	for _, rec := range m.recommendations {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) UpdateApplicationStatus(_ context.Context, id, userID uuid.UUID, status, notes string) (*db.RecommendedJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	rec, ok := m.recommendations[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	rec.ApplicationStatus = status
	rec.Notes = notes
	copied := *rec
	return &copied, nil
}

func (m *mockStore) GetRecommendationStats(_ context.Context, userID uuid.UUID) (*db.RecommendationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	stats := &db.RecommendationStats{
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}
	total := 0
	scoreSum := 0
	for _, rec := range m.recommendations {
		if rec.UserID != userID {
			continue
		}
		total++
		scoreSum += rec.MatchScore
		stats.ByStatus[rec.ApplicationStatus]++
		stats.BySource[rec.Source]++
	}
	stats.Total = total
	if total > 0 {
		stats.AvgScore = scoreSum / total
	}
	return stats, nil
}

// Subscriptions

func (m *mockStore) GetSubscriptionByUser(_ context.Context, userID uuid.UUID) (*db.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	sub, ok := m.subscriptions[userID]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (m *mockStore) GetSubscriptionByStripeID(_ context.Context, stripeSubscriptionID string) (*db.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, sub := range m.subscriptions {
		if sub.StripeSubscriptionID == stripeSubscriptionID {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpsertSubscription(_ context.Context, input *db.SubscriptionUpsertInput) (*db.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	sub, ok := m.subscriptions[input.UserID]
	if !ok {
		sub = &db.Subscription{ID: uuid.New(), UserID: input.UserID, CreatedAt: time.Now()}
		m.subscriptions[input.UserID] = sub
	}
	sub.PlanType = input.PlanType
	sub.StripeCustomerID = input.StripeCustomerID
	sub.StripeSubscriptionID = input.StripeSubscriptionID
	sub.StripePriceID = input.StripePriceID
	sub.Status = input.Status
	sub.CurrentPeriodStart = input.CurrentPeriodStart
	sub.CurrentPeriodEnd = input.CurrentPeriodEnd
	sub.CancelAtPeriodEnd = input.CancelAtPeriodEnd
	sub.CanceledAt = input.CanceledAt
	sub.UpdatedAt = time.Now()
	copied := *sub
	return &copied, nil
}

func (m *mockStore) MarkSubscriptionCanceled(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if sub, ok := m.subscriptions[userID]; ok {
		sub.CancelAtPeriodEnd = true
		now := time.Now()
		sub.CanceledAt = &now
	}
	return nil
}

// Activity and dashboard

func (m *mockStore) LogActivity(_ context.Context, userID *uuid.UUID, actionType, description string, metadata map[string]any, ipAddress, userAgent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.activity = append(m.activity, db.ActivityLog{
		ID:          uuid.New(),
		UserID:      userID,
		ActionType:  actionType,
		Description: description,
		Metadata:    metadata,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (m *mockStore) ListRecentActivity(_ context.Context, userID uuid.UUID, limit int) ([]db.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.ActivityLog
	for i := len(m.activity) - 1; i >= 0; i-- {
		entry := m.activity[i]
		if entry.UserID != nil && *entry.UserID == userID {
			out = append(out, entry)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) GetDashboardStats(_ context.Context, userID uuid.UUID) (*db.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	stats := &db.DashboardStats{}
	for _, resume := range m.resumes {
		if resume.UserID == userID {
			stats.TotalResumes++
		}
	}
	for _, job := range m.jobs {
		if job.UserID == userID {
			stats.TotalJobs++
		}
	}
	scoreSum := 0
	for _, match := range m.matches {
		if match.UserID != userID {
			continue
		}
		stats.TotalMatches++
		scoreSum += match.MatchScore
		if match.MatchScore > stats.BestMatchScore {
			stats.BestMatchScore = match.MatchScore
		}
	}
	if stats.TotalMatches > 0 {
		stats.AvgMatchScore = scoreSum / stats.TotalMatches
	}
	for _, entry := range m.activity {
		if entry.UserID != nil && *entry.UserID == userID {
			stats.RecentActivities++
		}
	}
	return stats, nil
}

func (m *mockStore) ListRecentMatches(_ context.Context, userID uuid.UUID, limit int) ([]db.RecentMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []db.RecentMatch
	for _, match := range m.matches {
		if match.UserID != userID {
			continue
		}
		recent := db.RecentMatch{
			ID:         match.ID,
			ResumeID:   match.ResumeID,
			JobID:      match.JobID,
			MatchScore: match.MatchScore,
			CreatedAt:  match.CreatedAt,
		}
		if resume, ok := m.resumes[match.ResumeID]; ok {
			recent.ResumeName = resume.Filename
		}
		if job, ok := m.jobs[match.JobID]; ok {
			recent.JobTitle = job.Title
			recent.Company = job.Company
		}
		out = append(out, recent)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// seedResume inserts a resume directly, bypassing the upload pipeline
func (m *mockStore) seedResume(userID uuid.UUID, status string, skills ...string) *db.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()
	resume := &db.Resume{
		ID:               uuid.New(),
		UserID:           userID,
		Filename:         "resume.txt",
		FileType:         "txt",
		ExtractedText:    "Experienced engineer",
		ParsedSkills:     db.StringArray(skills),
		ProcessingStatus: status,
		UploadedAt:       time.Now(),
	}
	m.resumes[resume.ID] = resume
	return resume
}

// seedJob inserts a job description directly
func (m *mockStore) seedJob(userID uuid.UUID, status string, skills ...string) *db.JobDescription {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &db.JobDescription{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            "Backend Engineer",
		Company:          "Acme",
		JobText:          "We are hiring a backend engineer",
		SourceType:       "text",
		ExtractedSkills:  db.StringArray(skills),
		ProcessingStatus: status,
		CreatedAt:        time.Now(),
	}
	m.jobs[job.ID] = job
	return job
}

// newTestServer builds a Server wired to an in-memory store, a scripted
// AI client and no external providers.
func newTestServer(_ *testing.T) (*Server, *mockStore) {
	mock := newMockStore()
	s := &Server{
		store: mock,
		cfg: &config.AppConfig{
			Port:           8080,
			FrontendURL:    "http://localhost:3000",
			MaxUploadBytes: 10 << 20,
		},
		validator: validator.New(),
		states:    newStateStore(),
		analyzer:  analysis.NewAnalyzer(ai.NewMockClient()),
		jobSearch: jobsearch.NewService(),
		billing:   billing.NewService("", ""),
		social:    make(map[string]*oauth.Provider),
	}
	s.userService = NewUserService(mock, &config.PasswordConfig{BcryptCost: 10})
	s.jwtService = NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		Issuer:          "jobalign",
		ExpirationHours: 24,
	})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	return s, mock
}

// createTestUser registers an account and returns its ID and a bearer token
func createTestUser(t *testing.T, s *Server) (uuid.UUID, string) {
	t.Helper()
	email := fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
	user, err := s.userService.Register(context.Background(), "Test User", email, "password123")
	require.NoError(t, err)
	token, err := s.jwtService.GenerateToken(user.ID)
	require.NoError(t, err)
	return user.ID, token
}

// doJSON issues a request against the route table and records the response
func doJSON(t *testing.T, s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response into a map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// verify the real DB still satisfies the handler contract
var _ Store = (*db.DB)(nil)
var _ Store = (*mockStore)(nil)
