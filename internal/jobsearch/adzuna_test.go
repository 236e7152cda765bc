package jobsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdzuna(serverURL string) *AdzunaClient {
	c := NewAdzunaClient("test-id", "test-key", "in")
	c.baseURL = serverURL
	return c
}

func TestAdzunaSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/in/search/1", r.URL.Path)
		assert.Equal(t, "test-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("app_key"))
		assert.Equal(t, "go postgresql", r.URL.Query().Get("what"))
		assert.Equal(t, "Mumbai", r.URL.Query().Get("where"))
		assert.Equal(t, "relevance", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "10", r.URL.Query().Get("results_per_page"))

		_, _ = w.Write([]byte(`{"results": [{
			"id": "12345",
			"title": "Senior Go Developer",
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Mumbai, Maharashtra"},
			"description": "Remote role building Go microservices.",
			"redirect_url": "https://adzuna.example/jobs/12345",
			"salary_min": 900000,
			"salary_max": 1400000,
			"contract_time": "full_time",
			"created": "2026-08-01T10:00:00Z"
		}]}`))
	}))
	defer server.Close()

	listings, err := newTestAdzuna(server.URL).Search(context.Background(), SearchParams{
		Keywords: []string{"go", "postgresql"},
		Location: "Mumbai",
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "adzuna-12345", l.ExternalID)
	assert.Equal(t, "Senior Go Developer", l.Title)
	assert.Equal(t, "Acme", l.Company)
	assert.Equal(t, "adzuna", l.Source)
	assert.Equal(t, "900000 - 1400000 per year", l.SalaryInfo)
	assert.Equal(t, "full-time", l.JobType)
	assert.Equal(t, "senior", l.SeniorityLevel)
	assert.Equal(t, "remote", l.RemoteFriendly)
	require.NotNil(t, l.PostedDate)
}

func TestAdzunaSearch_Defaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultKeywords, r.URL.Query().Get("what"))
		assert.Equal(t, DefaultLocation, r.URL.Query().Get("where"))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	listings, err := newTestAdzuna(server.URL).Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestAdzunaSearch_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusUnauthorized, "credentials"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusTooManyRequests, "rate limit"},
		{http.StatusInternalServerError, "status 500"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := newTestAdzuna(server.URL).Search(context.Background(), SearchParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.message)
		server.Close()
	}
}

func TestAdzunaSearch_NotConfigured(t *testing.T) {
	c := NewAdzunaClient("", "", "in")
	assert.False(t, c.Configured())

	_, err := c.Search(context.Background(), SearchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestFormatSalary(t *testing.T) {
	assert.Equal(t, "50000 - 70000 per year", formatSalary(50000, 70000))
	assert.Equal(t, "from 50000 per year", formatSalary(50000, 0))
	assert.Equal(t, "up to 70000 per year", formatSalary(0, 70000))
	assert.Equal(t, "", formatSalary(0, 0))
}
