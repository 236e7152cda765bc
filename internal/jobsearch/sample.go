package jobsearch

import (
	"context"
	"fmt"
	"strings"
)

// SampleProvider serves deterministic listings so the recommendations
// feature works in development and when no provider is configured.
type SampleProvider struct{}

// Name identifies the provider in stored results
func (SampleProvider) Name() string {
	return "sample"
}

var sampleRoles = []struct {
	title    string
	company  string
	jobType  string
	remote   string
	salary   string
	blurb    string
}{
	{"Backend Engineer", "TechNova Labs", "full-time", "remote", "90000 - 130000 per year",
		"Build and operate APIs handling millions of requests a day. We care about clean interfaces, observability and boring reliability."},
	{"Full Stack Developer", "BrightPath Systems", "full-time", "hybrid", "75000 - 110000 per year",
		"Ship features end to end across a React frontend and a Go backend. Small team, big ownership."},
	{"Platform Engineer", "CloudRiver", "full-time", "remote", "100000 - 145000 per year",
		"Own our Kubernetes platform and internal developer tooling. Terraform, CI/CD and a healthy on-call rotation."},
	{"Data Engineer", "Metricly", "full-time", "on-site", "85000 - 120000 per year",
		"Design pipelines that move billions of events into our warehouse. SQL, Python and strong data modeling required."},
	{"Software Engineer", "Orbit Commerce", "full-time", "hybrid", "70000 - 105000 per year",
		"Join the checkout team of a fast-growing marketplace. PostgreSQL, Redis and a taste for measured experiments."},
}

// Search returns sample listings tailored to the first keyword
func (p SampleProvider) Search(_ context.Context, params SearchParams) ([]Listing, error) {
	location := params.Location
	if location == "" {
		location = DefaultLocation
	}

	keyword := ""
	if len(params.Keywords) > 0 {
		keyword = params.Keywords[0]
	}

	limit := params.Limit
	if limit <= 0 || limit > len(sampleRoles) {
		limit = len(sampleRoles)
	}

	listings := make([]Listing, 0, limit)
	for i, role := range sampleRoles[:limit] {
		title := role.title
		if keyword != "" {
			title = fmt.Sprintf("%s (%s)", role.title, capitalize(keyword))
		}
		listings = append(listings, Listing{
			ExternalID:     fmt.Sprintf("sample-%d", i+1),
			Title:          title,
			Company:        role.company,
			Location:       location,
			Description:    role.blurb,
			ApplyLink:      "https://example.com/jobs/sample-" + fmt.Sprint(i+1),
			Source:         p.Name(),
			SalaryInfo:     role.salary,
			JobType:        role.jobType,
			SeniorityLevel: "mid",
			RemoteFriendly: role.remote,
		})
	}
	return listings, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
