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

const (
	rapidAPIHost    = "linkedin-jobs-search.p.rapidapi.com"
	rapidAPIBaseURL = "https://" + rapidAPIHost
)

// LinkedInClient queries LinkedIn job listings through a RapidAPI proxy
type LinkedInClient struct {
	baseURL    string
	host       string
	apiKey     string
	httpClient *http.Client
}

// NewLinkedInClient creates a LinkedIn provider backed by RapidAPI
func NewLinkedInClient(apiKey string) *LinkedInClient {
	return &LinkedInClient{
		baseURL:    rapidAPIBaseURL,
		host:       rapidAPIHost,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider in stored results
func (c *LinkedInClient) Name() string {
	return "linkedin"
}

// Configured reports whether a RapidAPI key is present
func (c *LinkedInClient) Configured() bool {
	return c.apiKey != ""
}

// linkedinJob mirrors the fields we use from the RapidAPI response
type linkedinJob struct {
	ID          string `json:"job_id"`
	Title       string `json:"job_title"`
	Company     string `json:"company_name"`
	Location    string `json:"job_location"`
	Description string `json:"job_description"`
	URL         string `json:"job_url"`
	PostedDate  string `json:"posted_date"`
}

// Search queries LinkedIn listings through RapidAPI
func (c *LinkedInClient) Search(ctx context.Context, params SearchParams) ([]Listing, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("rapidapi key not configured")
	}

	limit := params.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	keywords := strings.Join(params.Keywords, " ")
	if keywords == "" {
		keywords = DefaultKeywords
	}
	location := params.Location
	if location == "" {
		location = DefaultLocation
	}

	query := url.Values{}
	query.Set("keywords", keywords)
	query.Set("location", location)
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create linkedin request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("rapidapi rejected credentials")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rapidapi rate limit exceeded")
	default:
		return nil, fmt.Errorf("rapidapi returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read linkedin response: %w", err)
	}

	var jobs []linkedinJob
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode linkedin response: %w", err)
	}

	listings := make([]Listing, 0, len(jobs))
	for _, j := range jobs {
		listing := Listing{
			ExternalID:     "linkedin-" + j.ID,
			Title:          j.Title,
			Company:        j.Company,
			Location:       j.Location,
			Description:    j.Description,
			ApplyLink:      j.URL,
			Source:         c.Name(),
			SeniorityLevel: analysis.ExtractSeniorityLevel(j.Title + " " + j.Description),
			RemoteFriendly: analysis.ExtractRemoteStatus(j.Description),
		}
		if t, err := time.Parse("2006-01-02", j.PostedDate); err == nil {
			listing.PostedDate = &t
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
