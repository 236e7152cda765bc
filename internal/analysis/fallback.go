package analysis

import (
	"fmt"
	"strings"

	"github.com/jobalign/jobalign-api/internal/db"
)

// skillKeywords is the vocabulary for heuristic skill extraction when
// no model backend is available.
var skillKeywords = []string{
	"python", "java", "javascript", "typescript", "go", "rust", "c++", "c#",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"sql", "postgresql", "mysql", "mongodb", "redis",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"git", "ci/cd", "linux", "rest", "graphql", "microservices",
	"machine learning", "data analysis", "pandas", "tensorflow",
	"agile", "scrum", "project management", "communication", "leadership",
}

// maxHeuristicSkills caps the skills pulled from free text
const maxHeuristicSkills = 10

// ExtractSkills finds known skill keywords in free text
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range skillKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
			if len(found) >= maxHeuristicSkills {
				break
			}
		}
	}
	return found
}

// ExtractSeniorityLevel infers a seniority bucket from title and description
func ExtractSeniorityLevel(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range []string{"senior", "lead", "principal", "staff", "architect", "manager"} {
		if strings.Contains(lower, kw) {
			return "senior"
		}
	}
	for _, kw := range []string{"junior", "entry", "graduate", "trainee", "associate"} {
		if strings.Contains(lower, kw) {
			return "entry"
		}
	}
	return "mid"
}

// ExtractRemoteStatus infers the work arrangement from a description
func ExtractRemoteStatus(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range []string{"remote", "work from home", "wfh", "virtual"} {
		if strings.Contains(lower, kw) {
			return "remote"
		}
	}
	for _, kw := range []string{"hybrid", "flexible"} {
		if strings.Contains(lower, kw) {
			return "hybrid"
		}
	}
	return "on-site"
}

// fallbackResumeAnalysis builds a coarse profile from keyword matches
func fallbackResumeAnalysis(resumeText string) *db.ResumeAnalysis {
	return &db.ResumeAnalysis{
		Skills:         ExtractSkills(resumeText),
		Experience:     []string{},
		Education:      []string{},
		Certifications: []string{},
		Achievements:   []string{},
		RawResponse:    "",
	}
}

// fallbackJobAnalysis builds coarse requirements from keyword matches
func fallbackJobAnalysis(jobText string) *db.JobAnalysis {
	return &db.JobAnalysis{
		Skills:                 ExtractSkills(jobText),
		ExperienceRequirements: []string{},
		EducationRequirements:  []string{},
		RequiredCertifications: []string{},
		SeniorityLevel:         ExtractSeniorityLevel(jobText),
		RemoteFriendly:         ExtractRemoteStatus(jobText),
		RawResponse:            "",
	}
}

// fallbackMatchResult scores a pair from skill overlap alone. The
// overall score blends skills, experience presence and a neutral
// keyword component, and never drops below 15 so a sparse profile
// still renders meaningfully in the UI.
func fallbackMatchResult(resume *db.Resume, job *db.JobDescription) *MatchResult {
	resumeSkills := make(map[string]bool, len(resume.ParsedSkills))
	for _, s := range resume.ParsedSkills {
		resumeSkills[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var matching, missing []string
	for _, s := range job.ExtractedSkills {
		if resumeSkills[strings.ToLower(strings.TrimSpace(s))] {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}

	skillsScore := 50
	if len(job.ExtractedSkills) > 0 {
		skillsScore = clampScore(100 * len(matching) / len(job.ExtractedSkills))
	}

	experienceScore := clampScore(20 * len(resume.ParsedExperience))
	overall := clampScore(int(0.4*float64(skillsScore) + 0.3*float64(experienceScore) + 0.3*50))
	if overall < 15 {
		overall = 15
	}

	return &MatchResult{
		MatchScore:           overall,
		SkillsMatchScore:     skillsScore,
		ExperienceMatchScore: experienceScore,
		EducationMatchScore:  50,
		KeywordsMatchScore:   skillsScore,
		MatchingSkills:       matching,
		MissingSkills:        missing,
		MatchingKeywords:     matching,
		MissingKeywords:      missing,
		DetailedAnalysis: fmt.Sprintf(
			"Overlap-based estimate: %d of %d required skills found in the resume. Run again with an AI backend configured for a full analysis.",
			len(matching), len(job.ExtractedSkills)),
	}
}

// fallbackOptimization turns skill gaps into suggestions without rewriting
func fallbackOptimization(resume *db.Resume, job *db.JobDescription, missingSkills []string) *OptimizationResult {
	suggestions := []string{
		fmt.Sprintf("Tailor your summary to the %s role at %s.", job.Title, job.Company),
		"Move the most relevant experience for this role to the top of your resume.",
	}
	for _, skill := range missingSkills {
		suggestions = append(suggestions, fmt.Sprintf("Add evidence of %s experience, or a project where you used it.", skill))
	}

	return &OptimizationResult{
		OptimizedResume:  resume.ExtractedText,
		Suggestions:      suggestions,
		ImprovementAreas: missingSkills,
	}
}

// fallbackQuestions builds a canned question set from the job's skills
func fallbackQuestions(job *db.JobDescription, count int) []Question {
	questions := []Question{
		{Question: fmt.Sprintf("Why do you want to work as a %s?", job.Title), Category: CategoryBehavioral, Difficulty: "easy"},
		{Question: "Tell me about a project you are most proud of and your specific contribution.", Category: CategoryExperience, Difficulty: "medium"},
		{Question: "Describe a time you disagreed with a teammate. How did you resolve it?", Category: CategoryBehavioral, Difficulty: "medium"},
		{Question: "How would you approach a production incident you have never seen before?", Category: CategorySituational, Difficulty: "medium"},
		{Question: "Design a system that serves this company's core product at ten times the current load.", Category: CategorySystemDesign, Difficulty: "hard"},
	}

	for _, skill := range job.ExtractedSkills {
		questions = append(questions, Question{
			Question:   fmt.Sprintf("What is your experience with %s, and what trade-offs have you run into using it?", skill),
			Category:   CategoryTechnical,
			Difficulty: "medium",
		})
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	return questions
}
