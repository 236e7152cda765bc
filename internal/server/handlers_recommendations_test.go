package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobalign/jobalign-api/internal/db"
)

func TestHandleRecommendedJobs_EmptyStoreFallsBackToSample(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)
	mock.seedResume(userID, db.StatusCompleted, "go", "kubernetes")

	w := doJSON(t, s, http.MethodGet, "/api/recommendations/jobs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jobs  []db.RecommendedJob `json:"jobs"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Jobs)
	assert.Equal(t, len(resp.Jobs), resp.Count)

	// No external provider is configured, so the sample set serves
	for _, job := range resp.Jobs {
		assert.Equal(t, "sample", job.Source)
		assert.Equal(t, userID, job.UserID)
		assert.Equal(t, db.ApplicationNone, job.ApplicationStatus)
	}
}

func TestHandleRecommendedJobs_StoredRowsServeWithoutRefresh(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)
	_, err := mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: userID, ExternalJobID: "stored-1", Title: "Stored Role", Company: "Acme", Source: "adzuna",
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/recommendations/jobs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}

func TestHandleRecommendedJobs_RefreshUpserts(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)
	mock.seedResume(userID, db.StatusCompleted, "go")

	w := doJSON(t, s, http.MethodGet, "/api/recommendations/jobs?refresh=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)

	// A second refresh reuses external IDs instead of duplicating rows
	w = doJSON(t, s, http.MethodGet, "/api/recommendations/jobs?refresh=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)

	assert.Equal(t, first["count"], second["count"])
}

func TestHandleRecommendedJobs_InvalidLimit(t *testing.T) {
	s, _ := newTestServer(t)
	_, token := createTestUser(t, s)

	w := doJSON(t, s, http.MethodGet, "/api/recommendations/jobs?limit=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleApplicationStatus(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)
	rec, err := mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: userID, ExternalJobID: "job-1", Title: "Role", Company: "Acme", Source: "sample",
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodPost, "/api/recommendations/"+rec.ID.String()+"/status", token, map[string]string{
		"status": db.ApplicationApplied,
		"notes":  "Applied via referral",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, db.ApplicationApplied, body["application_status"])
	assert.Equal(t, "Applied via referral", body["notes"])
}

func TestHandleApplicationStatus_InvalidStatus(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)
	rec, err := mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: userID, ExternalJobID: "job-1", Title: "Role", Company: "Acme", Source: "sample",
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodPost, "/api/recommendations/"+rec.ID.String()+"/status", token, map[string]string{
		"status": "ghosted",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestHandleApplicationStatus_NotOwned(t *testing.T) {
	s, mock := newTestServer(t)
	_, token := createTestUser(t, s)
	rec, err := mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: uuid.New(), ExternalJobID: "job-1", Title: "Role", Company: "Acme", Source: "sample",
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodPost, "/api/recommendations/"+rec.ID.String()+"/status", token, map[string]string{
		"status": db.ApplicationApplied,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleRecommendationStats(t *testing.T) {
	s, mock := newTestServer(t)
	userID, token := createTestUser(t, s)

	rec, err := mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: userID, ExternalJobID: "job-1", Title: "Role", Company: "Acme", Source: "sample", MatchScore: 80,
	})
	require.NoError(t, err)
	_, err = mock.UpsertRecommendedJob(t.Context(), &db.RecommendedJobInput{
		UserID: userID, ExternalJobID: "job-2", Title: "Role 2", Company: "Beta", Source: "adzuna", MatchScore: 60,
	})
	require.NoError(t, err)
	_, err = mock.UpdateApplicationStatus(t.Context(), rec.ID, userID, db.ApplicationApplied, "")
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/recommendations/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats db.RecommendationStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 70, stats.AvgScore)
	assert.Equal(t, 1, stats.ByStatus[db.ApplicationApplied])
	assert.Equal(t, 1, stats.BySource["sample"])
	assert.Equal(t, 1, stats.BySource["adzuna"])
}
