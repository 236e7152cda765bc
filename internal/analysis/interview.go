package analysis

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/jobalign/jobalign-api/internal/ai"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/prompts"
	"github.com/jobalign/jobalign-api/internal/schemas"
)

// Question categories used for generation and grouping
const (
	CategoryTechnical    = "technical"
	CategoryBehavioral   = "behavioral"
	CategorySituational  = "situational"
	CategoryExperience   = "experience"
	CategorySystemDesign = "system_design"
)

// QuestionCategories lists every category in display order
var QuestionCategories = []string{
	CategoryTechnical,
	CategoryBehavioral,
	CategorySituational,
	CategoryExperience,
	CategorySystemDesign,
}

// preparationTips maps each category to advice shown alongside its questions
var preparationTips = map[string]string{
	CategoryTechnical:    "Review the core technologies in the job posting and be ready to explain trade-offs, not just definitions.",
	CategoryBehavioral:   "Prepare two or three stories from your experience and structure them as situation, task, action, result.",
	CategorySituational:  "Think out loud: interviewers want to see how you reason through unfamiliar problems, not a memorized answer.",
	CategoryExperience:   "Know your own resume cold. Be ready to go deep on any project you list, including what you would do differently.",
	CategorySystemDesign: "Practice sketching a design end to end: requirements, data model, APIs, scaling bottlenecks.",
}

// PreparationTip returns the study advice for a category
func PreparationTip(category string) string {
	if tip, ok := preparationTips[category]; ok {
		return tip
	}
	return "Research the company and prepare questions of your own to ask the interviewer."
}

// Question is one generated interview question
type Question struct {
	Question   string   `json:"question"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty,omitempty"`
	Hints      []string `json:"hints,omitempty"`
}

// questionSet mirrors the model's JSON output for question generation
type questionSet struct {
	Questions []Question `json:"questions"`
}

// GenerateQuestions produces interview questions tailored to a resume
// and job pair. When the model is unreachable or returns an unusable
// document it returns a canned set built from the job's required skills.
func (a *Analyzer) GenerateQuestions(ctx context.Context, resume *db.Resume, job *db.JobDescription, count int) ([]Question, error) {
	if count <= 0 {
		count = 10
	}

	systemPrompt := prompts.MustGet("interview.json", "generate-questions-system")
	template := prompts.MustGet("interview.json", "generate-questions")
	prompt := prompts.Format(template, map[string]string{
		"Count":            strconv.Itoa(count),
		"ResumeSkills":     joinList(resume.ParsedSkills),
		"ResumeExperience": joinList(resume.ParsedExperience),
		"JobTitle":         job.Title,
		"JobSkills":        joinList(job.ExtractedSkills),
		"Seniority":        job.SeniorityLevel,
	})

	raw, err := a.client.ChatJSON(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[analysis] question generation fell back to canned set: %v", err)
		return fallbackQuestions(job, count), nil
	}

	doc := ai.ExtractJSONObject(raw)
	if err := schemas.ValidateJSONString(schemas.InterviewQuestions, doc); err != nil {
		log.Printf("[analysis] interview questions failed validation, falling back to canned set: %v", err)
		return fallbackQuestions(job, count), nil
	}

	var set questionSet
	if err := json.Unmarshal([]byte(doc), &set); err != nil {
		log.Printf("[analysis] interview questions failed to decode, falling back to canned set: %v", err)
		return fallbackQuestions(job, count), nil
	}

	// Unknown categories are folded into behavioral so grouping stays closed
	for i := range set.Questions {
		if _, ok := preparationTips[set.Questions[i].Category]; !ok {
			set.Questions[i].Category = CategoryBehavioral
		}
	}
	return set.Questions, nil
}

// FollowUp asks one follow-up question probing the candidate's answer
func (a *Analyzer) FollowUp(ctx context.Context, jobTitle, question, answer string) (string, error) {
	template := prompts.MustGet("interview.json", "follow-up")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle": jobTitle,
		"Question": question,
		"Answer":   truncate(answer, 8000),
	})

	text, err := a.client.Chat(ctx, "", prompt)
	if err != nil {
		log.Printf("[analysis] follow-up fell back to canned question: %v", err)
		return "Can you walk me through a specific example of that from your own experience?", nil
	}
	return strings.TrimSpace(text), nil
}

// AnswerSuggestion writes a sample answer grounded in the candidate's background
func (a *Analyzer) AnswerSuggestion(ctx context.Context, resume *db.Resume, question string) (string, error) {
	template := prompts.MustGet("interview.json", "answer-suggestion")
	prompt := prompts.Format(template, map[string]string{
		"ResumeSkills":     joinList(resume.ParsedSkills),
		"ResumeExperience": joinList(resume.ParsedExperience),
		"Question":         question,
	})

	text, err := a.client.Chat(ctx, "", prompt)
	if err != nil {
		log.Printf("[analysis] answer suggestion fell back to canned advice: %v", err)
		return "Structure your answer as situation, task, action and result, and anchor it in one concrete project where you used the skills this question is probing.", nil
	}
	return strings.TrimSpace(text), nil
}
