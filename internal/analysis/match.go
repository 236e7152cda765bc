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

// MatchResult is a scored resume-to-job comparison, with every score
// already clamped to [0,100].
type MatchResult struct {
	MatchScore           int
	SkillsMatchScore     int
	ExperienceMatchScore int
	EducationMatchScore  int
	KeywordsMatchScore   int
	MatchingSkills       []string
	MissingSkills        []string
	MatchingKeywords     []string
	MissingKeywords      []string
	DetailedAnalysis     string
	RawResponse          string
}

// matchReport mirrors the model's JSON output for match scoring
type matchReport struct {
	MatchScore           float64  `json:"match_score"`
	SkillsMatchScore     float64  `json:"skills_match_score"`
	ExperienceMatchScore float64  `json:"experience_match_score"`
	EducationMatchScore  float64  `json:"education_match_score"`
	KeywordsMatchScore   float64  `json:"keywords_match_score"`
	MatchingSkills       []string `json:"matching_skills"`
	MissingSkills        []string `json:"missing_skills"`
	MatchingKeywords     []string `json:"matching_keywords"`
	MissingKeywords      []string `json:"missing_keywords"`
	DetailedAnalysis     string   `json:"detailed_analysis"`
}

// ScoreMatch compares a parsed resume against an analyzed job. When the
// model is unreachable or returns an unusable document it computes a
// deterministic overlap-based score instead.
func (a *Analyzer) ScoreMatch(ctx context.Context, resume *db.Resume, job *db.JobDescription) (*MatchResult, error) {
	systemPrompt := prompts.MustGet("matching.json", "score-match-system")
	template := prompts.MustGet("matching.json", "score-match")
	prompt := prompts.Format(template, map[string]string{
		"ResumeSkills":     joinList(resume.ParsedSkills),
		"ResumeExperience": joinList(resume.ParsedExperience),
		"ResumeEducation":  joinList(resume.ParsedEducation),
		"JobTitle":         job.Title,
		"JobSkills":        joinList(job.ExtractedSkills),
		"JobExperience":    joinList(job.ExperienceRequirements),
		"JobEducation":     joinList(job.EducationRequirements),
	})

	raw, err := a.client.ChatJSON(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[analysis] match scoring fell back to heuristics: %v", err)
		return fallbackMatchResult(resume, job), nil
	}

	doc := ai.ExtractJSONObject(raw)
	if err := schemas.ValidateJSONString(schemas.MatchReport, doc); err != nil {
		log.Printf("[analysis] match report failed validation, falling back to heuristics: %v", err)
		return fallbackMatchResult(resume, job), nil
	}

	var report matchReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil {
		log.Printf("[analysis] match report failed to decode, falling back to heuristics: %v", err)
		return fallbackMatchResult(resume, job), nil
	}

	return &MatchResult{
		MatchScore:           clampScore(int(report.MatchScore)),
		SkillsMatchScore:     clampScore(int(report.SkillsMatchScore)),
		ExperienceMatchScore: clampScore(int(report.ExperienceMatchScore)),
		EducationMatchScore:  clampScore(int(report.EducationMatchScore)),
		KeywordsMatchScore:   clampScore(int(report.KeywordsMatchScore)),
		MatchingSkills:       report.MatchingSkills,
		MissingSkills:        report.MissingSkills,
		MatchingKeywords:     report.MatchingKeywords,
		MissingKeywords:      report.MissingKeywords,
		DetailedAnalysis:     report.DetailedAnalysis,
		RawResponse:          raw,
	}, nil
}
