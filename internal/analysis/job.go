package analysis

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jobalign/jobalign-api/internal/ai"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/prompts"
	"github.com/jobalign/jobalign-api/internal/schemas"
)

// maxJobChars bounds job text sent to the model
const maxJobChars = 24000

// jobProfile mirrors the model's JSON output for job analysis
type jobProfile struct {
	Title                  string   `json:"title"`
	Company                string   `json:"company"`
	Location               string   `json:"location"`
	Skills                 []string `json:"skills"`
	ExperienceRequirements []string `json:"experience_requirements"`
	EducationRequirements  []string `json:"education_requirements"`
	RequiredCertifications []string `json:"required_certifications"`
	SalaryRange            string   `json:"salary_range"`
	JobType                string   `json:"job_type"`
	SeniorityLevel         string   `json:"seniority_level"`
	RemoteFriendly         string   `json:"remote_friendly"`
}

// AnalyzeJob extracts structured requirements from job description text.
// When the model is unreachable or returns an unusable document it falls
// back to keyword heuristics.
func (a *Analyzer) AnalyzeJob(ctx context.Context, jobText string) (*db.JobAnalysis, error) {
	systemPrompt := prompts.MustGet("parsing.json", "analyze-job-system")
	template := prompts.MustGet("parsing.json", "analyze-job")
	prompt := prompts.Format(template, map[string]string{
		"JobText": truncate(jobText, maxJobChars),
	})

	raw, err := a.client.ChatJSON(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[analysis] job analysis fell back to heuristics: %v", err)
		return fallbackJobAnalysis(jobText), nil
	}

	doc := ai.ExtractJSONObject(raw)
	if err := schemas.ValidateJSONString(schemas.JobProfile, doc); err != nil {
		log.Printf("[analysis] job profile failed validation, falling back to heuristics: %v", err)
		return fallbackJobAnalysis(jobText), nil
	}

	var profile jobProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		log.Printf("[analysis] job profile failed to decode, falling back to heuristics: %v", err)
		return fallbackJobAnalysis(jobText), nil
	}

	return &db.JobAnalysis{
		Title:                  profile.Title,
		Company:                profile.Company,
		Location:               profile.Location,
		Skills:                 profile.Skills,
		ExperienceRequirements: profile.ExperienceRequirements,
		EducationRequirements:  profile.EducationRequirements,
		RequiredCertifications: profile.RequiredCertifications,
		SalaryRange:            profile.SalaryRange,
		JobType:                profile.JobType,
		SeniorityLevel:         profile.SeniorityLevel,
		RemoteFriendly:         profile.RemoteFriendly,
		RawResponse:            raw,
	}, nil
}
