// Package jobsearch aggregates job recommendations from external
// providers and scores them against a user's parsed resume.
package jobsearch

import (
	"context"
	"time"
)

// Listing is one job result from an external provider
type Listing struct {
	ExternalID     string
	Title          string
	Company        string
	Location       string
	Description    string
	ApplyLink      string
	Source         string
	SalaryInfo     string
	JobType        string
	SeniorityLevel string
	RemoteFriendly string
	PostedDate     *time.Time
}

// SearchParams controls a provider query
type SearchParams struct {
	Keywords []string
	Location string
	Limit    int
}

// Provider is one external job source
type Provider interface {
	// Name identifies the provider in stored results
	Name() string
	// Search returns listings for the given parameters
	Search(ctx context.Context, params SearchParams) ([]Listing, error)
}

// Defaults applied when the user's profile gives us nothing to go on
const (
	DefaultKeywords = "software engineer"
	DefaultLocation = "Bangalore"
	MaxResults      = 50
)
