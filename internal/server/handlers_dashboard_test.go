package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobalign/jobalign-api/internal/db"
)

func TestMatchQuality(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{score: 95, expected: "high"},
		{score: 80, expected: "high"},
		{score: 79, expected: "medium"},
		{score: 60, expected: "medium"},
		{score: 59, expected: "low"},
		{score: 0, expected: "low"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, matchQuality(tt.score), "score %d", tt.score)
	}
}

func TestHandleDashboardStats(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)

	resume := mock.seedResume(userID, db.StatusCompleted, "go")
	job := mock.seedJob(userID, db.StatusCompleted, "go")
	_, err := mock.CreateMatch(t.Context(), &db.MatchCreateInput{
		UserID: userID, ResumeID: resume.ID, JobID: job.ID, MatchScore: 80,
	})
	require.NoError(t, err)
	_, err = mock.CreateMatch(t.Context(), &db.MatchCreateInput{
		UserID: userID, ResumeID: resume.ID, JobID: job.ID, MatchScore: 60,
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats db.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalResumes)
	assert.Equal(t, 1, stats.TotalJobs)
	assert.Equal(t, 2, stats.TotalMatches)
	assert.Equal(t, 70, stats.AvgMatchScore)
	assert.Equal(t, 80, stats.BestMatchScore)
}

func TestHandleRecentMatches(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)

	resume := mock.seedResume(userID, db.StatusCompleted, "go")
	job := mock.seedJob(userID, db.StatusCompleted, "go")
	_, err := mock.CreateMatch(t.Context(), &db.MatchCreateInput{
		UserID: userID, ResumeID: resume.ID, JobID: job.ID, MatchScore: 85,
	})
	require.NoError(t, err)
	_, err = mock.CreateMatch(t.Context(), &db.MatchCreateInput{
		UserID: userID, ResumeID: resume.ID, JobID: job.ID, MatchScore: 40,
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/dashboard/recent-matches", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Matches []RecentMatchItem `json:"matches"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)

	qualities := make(map[string]int)
	for _, item := range resp.Matches {
		qualities[item.Quality]++
		assert.Equal(t, "resume.txt", item.ResumeName)
		assert.Equal(t, "Backend Engineer", item.JobTitle)
	}
	assert.Equal(t, 1, qualities["high"])
	assert.Equal(t, 1, qualities["low"])
}

func TestHandleRecentActivity(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)

	require.NoError(t, mock.LogActivity(t.Context(), &userID, "resume_upload", "Uploaded resume", nil, "127.0.0.1", "test"))
	require.NoError(t, mock.LogActivity(t.Context(), &userID, "match_calculated", "Scored a match", nil, "127.0.0.1", "test"))

	w := doJSON(t, s, http.MethodGet, "/api/dashboard/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Activity []db.ActivityLog `json:"activity"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	// Newest first
	assert.Equal(t, "match_calculated", resp.Activity[0].ActionType)
}

func TestHandleRecentActivity_Limit(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)

	for i := 0; i < 5; i++ {
		require.NoError(t, mock.LogActivity(t.Context(), &userID, "job_added", "Added a job", nil, "127.0.0.1", "test"))
	}

	w := doJSON(t, s, http.MethodGet, "/api/dashboard/activity?limit=3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
}
