package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/analysis"
	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// GenerateQuestionsRequest is the body for POST /api/interview/generate.
// Either job_id (an owned, completed job description) or inline job_text
// must be supplied.
type GenerateQuestionsRequest struct {
	JobID          string `json:"job_id,omitempty" validate:"omitempty,uuid"`
	JobText        string `json:"job_text,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	Company        string `json:"company,omitempty"`
	SeniorityLevel string `json:"seniority_level,omitempty"`
	Count          int    `json:"count,omitempty" validate:"omitempty,min=1,max=30"`
}

// FollowUpRequest is the body for POST /api/interview/follow-up
type FollowUpRequest struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer,omitempty"`
	JobContext string `json:"job_context,omitempty"`
}

// AnswerSuggestionRequest is the body for POST /api/interview/answer-suggestions
type AnswerSuggestionRequest struct {
	Question       string `json:"question" validate:"required"`
	UserExperience string `json:"user_experience,omitempty"`
	JobContext     string `json:"job_context,omitempty"`
}

// CategoryGroup is one category's slice of a generated question set
type CategoryGroup struct {
	Category       string              `json:"category"`
	Count          int                 `json:"count"`
	Questions      []analysis.Question `json:"questions"`
	PreparationTip string              `json:"preparation_tip"`
}

// resolveInterviewJob turns the request into a job description the
// analyzer can work with, either stored or synthesized from inline text.
func (s *Server) resolveInterviewJob(w http.ResponseWriter, r *http.Request, userID uuid.UUID, req *GenerateQuestionsRequest) (*db.JobDescription, bool) {
	if req.JobID != "" {
		jobID := uuid.MustParse(req.JobID)
		job, err := s.store.GetJobDescription(r.Context(), jobID, userID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return nil, false
		}
		if job == nil {
			s.errorResponse(w, http.StatusNotFound, "Job description not found")
			return nil, false
		}
		if job.ProcessingStatus != db.StatusCompleted {
			s.errorResponse(w, http.StatusBadRequest, "Job description has not finished processing")
			return nil, false
		}
		return job, true
	}

	if req.JobText == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either job_id or job_text is required")
		return nil, false
	}

	return &db.JobDescription{
		Title:           req.JobTitle,
		Company:         req.Company,
		JobText:         req.JobText,
		SeniorityLevel:  req.SeniorityLevel,
		ExtractedSkills: analysis.ExtractSkills(req.JobText),
	}, true
}

// interviewResume picks the caller's newest completed resume, or an
// empty one so generation still works for users who have not uploaded.
func (s *Server) interviewResume(r *http.Request, userID uuid.UUID) (*db.Resume, error) {
	resume, err := s.store.GetLatestCompletedResume(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		resume = &db.Resume{UserID: userID}
	}
	return resume, nil
}

// handleGenerateQuestions produces interview questions for a job,
// personalized with the caller's newest completed resume.
func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, ok := s.resolveInterviewJob(w, r, userID, &req)
	if !ok {
		return
	}

	resume, err := s.interviewResume(r, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	questions, err := s.analyzer.GenerateQuestions(r.Context(), resume, job, req.Count)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate questions: "+err.Error())
		return
	}

	tips := make(map[string]string)
	for _, q := range questions {
		tips[q.Category] = analysis.PreparationTip(q.Category)
	}

	s.logActivity(r, userID, "interview_generated", "Generated interview questions", map[string]any{
		"job_title": job.Title,
		"count":     len(questions),
	})

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"questions":        questions,
		"preparation_tips": tips,
		"count":            len(questions),
	})
}

// handleFollowUp asks one probing follow-up for a candidate's answer
func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	var req FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	followUp, err := s.analyzer.FollowUp(r.Context(), req.JobContext, req.Question, req.Answer)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate follow-up: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"follow_up": followUp})
}

// handleAnswerSuggestions writes a sample answer grounded in the
// caller's background.
func (s *Server) handleAnswerSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AnswerSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var resume *db.Resume
	if req.UserExperience != "" {
		resume = &db.Resume{
			UserID:           userID,
			ParsedExperience: []string{req.UserExperience},
			ParsedSkills:     analysis.ExtractSkills(req.UserExperience),
		}
	} else {
		resume, err = s.interviewResume(r, userID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	suggestion, err := s.analyzer.AnswerSuggestion(r.Context(), resume, req.Question)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate suggestion: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}

// handleQuestionCategories generates questions for a stored job and
// groups them per category with counts and preparation tips.
func (s *Server) handleQuestionCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.store.GetJobDescription(r.Context(), jobID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return
	}
	if job.ProcessingStatus != db.StatusCompleted {
		s.errorResponse(w, http.StatusBadRequest, "Job description has not finished processing")
		return
	}

	resume, err := s.interviewResume(r, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	questions, err := s.analyzer.GenerateQuestions(r.Context(), resume, job, 25)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate questions: "+err.Error())
		return
	}

	byCategory := make(map[string][]analysis.Question)
	for _, q := range questions {
		byCategory[q.Category] = append(byCategory[q.Category], q)
	}

	groups := make([]CategoryGroup, 0, len(analysis.QuestionCategories))
	for _, category := range analysis.QuestionCategories {
		qs := byCategory[category]
		group := CategoryGroup{
			Category:       category,
			Count:          len(qs),
			PreparationTip: analysis.PreparationTip(category),
		}
		// Show the first five per category
		if len(qs) > 5 {
			qs = qs[:5]
		}
		group.Questions = qs
		groups = append(groups, group)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":     job.ID,
		"job_title":  job.Title,
		"categories": groups,
	})
}
