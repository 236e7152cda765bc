package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// OptimizeResumeRequest is the body for POST /api/optimize/resume
type OptimizeResumeRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	JobID    string `json:"job_id" validate:"required,uuid"`
}

// handleOptimizeResume rewrites a resume to target a job. The result is
// persisted on the newest match row for the pair; when the pair has
// never been scored a match is created first.
func (s *Server) handleOptimizeResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req OptimizeResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resumeID := uuid.MustParse(req.ResumeID)
	jobID := uuid.MustParse(req.JobID)

	resume, job, ok := s.loadCompletedPair(w, r, userID, resumeID, jobID)
	if !ok {
		return
	}

	match, err := s.store.LatestMatchForPair(r.Context(), userID, resumeID, jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if match == nil {
		match, err = s.scoreAndStore(r.Context(), userID, resume, job)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to score match: "+err.Error())
			return
		}
	}

	result, err := s.analyzer.OptimizeResume(r.Context(), resume, job, match.MissingSkills)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to optimize resume: "+err.Error())
		return
	}

	if err := s.store.UpdateMatchOptimization(r.Context(), match.ID, result.OptimizedResume, result.Suggestions, result.ImprovementAreas); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r, userID, "resume_optimized", "Optimized resume for job", map[string]any{
		"match_id": match.ID.String(),
	})

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"match_id":          match.ID,
		"optimized_resume":  result.OptimizedResume,
		"suggestions":       result.Suggestions,
		"improvement_areas": result.ImprovementAreas,
	})
}

// handleOptimizationSuggestions returns stored optimization output for a match
func (s *Server) handleOptimizationSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := uuid.Parse(r.PathValue("match_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid match ID format")
		return
	}

	match, err := s.store.GetMatch(r.Context(), matchID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if match == nil {
		s.errorResponse(w, http.StatusNotFound, "Match not found")
		return
	}
	if match.OptimizedResumeText == "" && len(match.OptimizationSuggestions) == 0 {
		s.errorResponse(w, http.StatusNotFound, "No optimization stored for this match")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"match_id":          match.ID,
		"optimized_resume":  match.OptimizedResumeText,
		"suggestions":       match.OptimizationSuggestions,
		"improvement_areas": match.ImprovementAreas,
	})
}
