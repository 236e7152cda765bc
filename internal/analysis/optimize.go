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

// OptimizationResult holds a rewritten resume targeted at one job
type OptimizationResult struct {
	OptimizedResume  string
	Suggestions      []string
	ImprovementAreas []string
}

// optimizationReport mirrors the model's JSON output for optimization
type optimizationReport struct {
	OptimizedResume  string   `json:"optimized_resume"`
	Suggestions      []string `json:"suggestions"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// OptimizeResume rewrites a resume to target a job, guided by the
// missing skills from an earlier match. When the model is unreachable
// or returns an unusable document it returns actionable suggestions
// built from the gaps instead of a rewrite.
func (a *Analyzer) OptimizeResume(ctx context.Context, resume *db.Resume, job *db.JobDescription, missingSkills []string) (*OptimizationResult, error) {
	systemPrompt := prompts.MustGet("matching.json", "optimize-resume-system")
	template := prompts.MustGet("matching.json", "optimize-resume")
	prompt := prompts.Format(template, map[string]string{
		"ResumeText":    truncate(resume.ExtractedText, maxResumeChars),
		"JobTitle":      job.Title,
		"JobCompany":    job.Company,
		"JobSkills":     joinList(job.ExtractedSkills),
		"MissingSkills": joinList(missingSkills),
	})

	raw, err := a.client.ChatJSON(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[analysis] optimization fell back to heuristics: %v", err)
		return fallbackOptimization(resume, job, missingSkills), nil
	}

	doc := ai.ExtractJSONObject(raw)
	if err := schemas.ValidateJSONString(schemas.OptimizationReport, doc); err != nil {
		log.Printf("[analysis] optimization report failed validation, falling back to heuristics: %v", err)
		return fallbackOptimization(resume, job, missingSkills), nil
	}

	var report optimizationReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil {
		log.Printf("[analysis] optimization report failed to decode, falling back to heuristics: %v", err)
		return fallbackOptimization(resume, job, missingSkills), nil
	}

	return &OptimizationResult{
		OptimizedResume:  report.OptimizedResume,
		Suggestions:      report.Suggestions,
		ImprovementAreas: report.ImprovementAreas,
	}, nil
}
