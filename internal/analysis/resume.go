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

// maxResumeChars bounds resume text sent to the model
const maxResumeChars = 24000

// resumeProfile mirrors the model's JSON output for resume parsing
type resumeProfile struct {
	Skills         []string `json:"skills"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
	Achievements   []string `json:"achievements"`
}

// ParseResume extracts a structured profile from resume text. When the
// model is unreachable or returns an unusable document it falls back to
// keyword heuristics rather than failing the upload.
func (a *Analyzer) ParseResume(ctx context.Context, resumeText string) (*db.ResumeAnalysis, error) {
	systemPrompt := prompts.MustGet("parsing.json", "parse-resume-system")
	template := prompts.MustGet("parsing.json", "parse-resume")
	prompt := prompts.Format(template, map[string]string{
		"ResumeText": truncate(resumeText, maxResumeChars),
	})

	raw, err := a.client.ChatJSON(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[analysis] resume parsing fell back to heuristics: %v", err)
		return fallbackResumeAnalysis(resumeText), nil
	}

	doc := ai.ExtractJSONObject(raw)
	if err := schemas.ValidateJSONString(schemas.ResumeProfile, doc); err != nil {
		log.Printf("[analysis] resume profile failed validation, falling back to heuristics: %v", err)
		return fallbackResumeAnalysis(resumeText), nil
	}

	var profile resumeProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		log.Printf("[analysis] resume profile failed to decode, falling back to heuristics: %v", err)
		return fallbackResumeAnalysis(resumeText), nil
	}

	return &db.ResumeAnalysis{
		Skills:         profile.Skills,
		Experience:     profile.Experience,
		Education:      profile.Education,
		Certifications: profile.Certifications,
		Achievements:   profile.Achievements,
		RawResponse:    raw,
	}, nil
}
