package jobsearch

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jobalign/jobalign-api/internal/analysis"
	"github.com/jobalign/jobalign-api/internal/db"
)

// maxSearchKeywords bounds how many resume skills seed the provider query
const maxSearchKeywords = 3

// Service aggregates listings across providers and scores them against
// a user's parsed resume.
type Service struct {
	providers []Provider
	fallback  Provider
}

// NewService creates a recommendation service. Providers are tried in
// order; the sample provider serves results when every real provider
// fails or returns nothing.
func NewService(providers ...Provider) *Service {
	return &Service{
		providers: providers,
		fallback:  SampleProvider{},
	}
}

// Recommend fetches listings matched to a user's resume. The resume's
// parsed skills seed the search; each listing gets an overlap-based
// match score in [0,100].
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, resume *db.Resume, location string, limit int) []db.RecommendedJobInput {
	params := SearchParams{
		Keywords: searchKeywords(resume),
		Location: location,
		Limit:    limit,
	}

	var listings []Listing
	for _, p := range s.providers {
		results, err := p.Search(ctx, params)
		if err != nil {
			log.Printf("[jobsearch] provider %s failed: %v", p.Name(), err)
			continue
		}
		listings = append(listings, results...)
		if limit > 0 && len(listings) >= limit {
			break
		}
	}

	if len(listings) == 0 {
		log.Println("[jobsearch] no provider results, serving sample listings")
		listings, _ = s.fallback.Search(ctx, params)
	}

	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	inputs := make([]db.RecommendedJobInput, 0, len(listings))
	for _, l := range listings {
		inputs = append(inputs, db.RecommendedJobInput{
			UserID:         userID,
			ExternalJobID:  l.ExternalID,
			Title:          l.Title,
			Company:        l.Company,
			Location:       l.Location,
			Description:    l.Description,
			MatchScore:     scoreListing(resume, l),
			ApplyLink:      l.ApplyLink,
			Source:         l.Source,
			SalaryInfo:     l.SalaryInfo,
			JobType:        l.JobType,
			SeniorityLevel: l.SeniorityLevel,
			RemoteFriendly: l.RemoteFriendly,
			PostedDate:     l.PostedDate,
		})
	}
	return inputs
}

// searchKeywords picks the leading resume skills as the provider query
func searchKeywords(resume *db.Resume) []string {
	if resume == nil || len(resume.ParsedSkills) == 0 {
		return strings.Fields(DefaultKeywords)
	}
	skills := resume.ParsedSkills
	if len(skills) > maxSearchKeywords {
		skills = skills[:maxSearchKeywords]
	}
	return skills
}

// scoreListing estimates resume fit from skill keyword overlap.
// Listings whose text mentions none of our known skills sit at a
// neutral 40.
func scoreListing(resume *db.Resume, l Listing) int {
	if resume == nil {
		return 40
	}

	wanted := analysis.ExtractSkills(l.Title + " " + l.Description)
	if len(wanted) == 0 {
		return 40
	}

	have := make(map[string]bool, len(resume.ParsedSkills))
	for _, s := range resume.ParsedSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	overlap := 0
	for _, w := range wanted {
		if have[w] {
			overlap++
		}
	}

	score := 40 + 60*overlap/len(wanted)
	if score > 100 {
		score = 100
	}
	return score
}
