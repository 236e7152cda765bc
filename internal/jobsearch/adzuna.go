package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobalign/jobalign-api/internal/analysis"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api"

// AdzunaClient queries the Adzuna job search API
type AdzunaClient struct {
	baseURL    string
	appID      string
	appKey     string
	country    string
	httpClient *http.Client
}

// NewAdzunaClient creates an Adzuna provider. Country is the two-letter
// market code Adzuna routes by (e.g. "in", "us", "gb").
func NewAdzunaClient(appID, appKey, country string) *AdzunaClient {
	if country == "" {
		country = "in"
	}
	return &AdzunaClient{
		baseURL:    adzunaBaseURL,
		appID:      appID,
		appKey:     appKey,
		country:    country,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider in stored results
func (c *AdzunaClient) Name() string {
	return "adzuna"
}

// Configured reports whether API credentials are present
func (c *AdzunaClient) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

// adzunaResponse mirrors the fields we use from Adzuna's search result
type adzunaResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Description  string  `json:"description"`
		RedirectURL  string  `json:"redirect_url"`
		SalaryMin    float64 `json:"salary_min"`
		SalaryMax    float64 `json:"salary_max"`
		ContractTime string  `json:"contract_time"`
		Created      string  `json:"created"`
	} `json:"results"`
}

// Search queries Adzuna's first results page
func (c *AdzunaClient) Search(ctx context.Context, params SearchParams) ([]Listing, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("adzuna credentials not configured")
	}

	limit := params.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	what := strings.Join(params.Keywords, " ")
	if what == "" {
		what = DefaultKeywords
	}
	where := params.Location
	if where == "" {
		where = DefaultLocation
	}

	query := url.Values{}
	query.Set("app_id", c.appID)
	query.Set("app_key", c.appKey)
	query.Set("results_per_page", strconv.Itoa(limit))
	query.Set("what", what)
	query.Set("where", where)
	query.Set("sort_by", "relevance")

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", c.baseURL, c.country, query.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create adzuna request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("adzuna rejected credentials")
	case http.StatusForbidden:
		return nil, fmt.Errorf("adzuna access forbidden, check subscription")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("adzuna rate limit exceeded")
	default:
		return nil, fmt.Errorf("adzuna returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read adzuna response: %w", err)
	}

	var parsed adzunaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode adzuna response: %w", err)
	}

	listings := make([]Listing, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		listing := Listing{
			ExternalID:     "adzuna-" + r.ID,
			Title:          r.Title,
			Company:        r.Company.DisplayName,
			Location:       r.Location.DisplayName,
			Description:    r.Description,
			ApplyLink:      r.RedirectURL,
			Source:         c.Name(),
			SalaryInfo:     formatSalary(r.SalaryMin, r.SalaryMax),
			JobType:        contractTimeToJobType(r.ContractTime),
			SeniorityLevel: analysis.ExtractSeniorityLevel(r.Title + " " + r.Description),
			RemoteFriendly: analysis.ExtractRemoteStatus(r.Description),
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			listing.PostedDate = &t
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// formatSalary renders Adzuna's numeric salary bounds for display
func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%.0f - %.0f per year", min, max)
	case min > 0:
		return fmt.Sprintf("from %.0f per year", min)
	case max > 0:
		return fmt.Sprintf("up to %.0f per year", max)
	default:
		return ""
	}
}

// contractTimeToJobType maps Adzuna contract_time to our job type values
func contractTimeToJobType(contractTime string) string {
	switch contractTime {
	case "full_time":
		return "full-time"
	case "part_time":
		return "part-time"
	default:
		return ""
	}
}
