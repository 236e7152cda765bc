package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// batchConcurrency bounds parallel AI calls in a batch match
const batchConcurrency = 4

// CalculateMatchRequest is the body for POST /api/match/calculate
type CalculateMatchRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	JobID    string `json:"job_id" validate:"required,uuid"`
}

// BatchMatchRequest is the body for POST /api/match/batch
type BatchMatchRequest struct {
	ResumeID string   `json:"resume_id" validate:"required,uuid"`
	JobIDs   []string `json:"job_ids" validate:"required,min=1,max=20,dive,uuid"`
}

// BatchMatchEntry is one per-job outcome in a batch response
type BatchMatchEntry struct {
	JobID string    `json:"job_id"`
	Match *db.Match `json:"match,omitempty"`
	Error string    `json:"error,omitempty"`
}

// loadCompletedPair fetches an owned, fully analyzed resume and job.
// A missing row writes 404; a row still pending or failed writes 400.
func (s *Server) loadCompletedPair(w http.ResponseWriter, r *http.Request, userID, resumeID, jobID uuid.UUID) (*db.Resume, *db.JobDescription, bool) {
	resume, err := s.store.GetResume(r.Context(), resumeID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, nil, false
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return nil, nil, false
	}
	if resume.ProcessingStatus != db.StatusCompleted {
		s.errorResponse(w, http.StatusBadRequest, "Resume has not finished processing")
		return nil, nil, false
	}

	job, err := s.store.GetJobDescription(r.Context(), jobID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, nil, false
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job description not found")
		return nil, nil, false
	}
	if job.ProcessingStatus != db.StatusCompleted {
		s.errorResponse(w, http.StatusBadRequest, "Job description has not finished processing")
		return nil, nil, false
	}

	return resume, job, true
}

// scoreAndStore runs the AI comparison and persists the match row
func (s *Server) scoreAndStore(ctx context.Context, userID uuid.UUID, resume *db.Resume, job *db.JobDescription) (*db.Match, error) {
	result, err := s.analyzer.ScoreMatch(ctx, resume, job)
	if err != nil {
		return nil, err
	}

	return s.store.CreateMatch(ctx, &db.MatchCreateInput{
		UserID:               userID,
		ResumeID:             resume.ID,
		JobID:                job.ID,
		MatchScore:           result.MatchScore,
		SkillsMatchScore:     result.SkillsMatchScore,
		ExperienceMatchScore: result.ExperienceMatchScore,
		EducationMatchScore:  result.EducationMatchScore,
		KeywordsMatchScore:   result.KeywordsMatchScore,
		MatchingSkills:       result.MatchingSkills,
		MissingSkills:        result.MissingSkills,
		MatchingKeywords:     result.MatchingKeywords,
		MissingKeywords:      result.MissingKeywords,
		DetailedAnalysis:     result.DetailedAnalysis,
		RawResponse:          result.RawResponse,
	})
}

// handleCalculateMatch scores one resume against one job description
func (s *Server) handleCalculateMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CalculateMatchRequest
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

	match, err := s.scoreAndStore(r.Context(), userID, resume, job)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to score match: "+err.Error())
		return
	}

	s.logActivity(r, userID, "match_calculated", "Scored resume against job", map[string]any{
		"match_id":    match.ID.String(),
		"match_score": match.MatchScore,
	})

	s.jsonResponse(w, http.StatusCreated, match)
}

// handleBatchMatch scores one resume against several jobs concurrently.
// Each job gets its own success or error entry; one failure does not
// abort the rest.
func (s *Server) handleBatchMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BatchMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resumeID := uuid.MustParse(req.ResumeID)
	resume, err := s.store.GetResume(r.Context(), resumeID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}
	if resume.ProcessingStatus != db.StatusCompleted {
		s.errorResponse(w, http.StatusBadRequest, "Resume has not finished processing")
		return
	}

	entries := make([]BatchMatchEntry, len(req.JobIDs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchConcurrency)

	for i, rawID := range req.JobIDs {
		g.Go(func() error {
			entries[i] = BatchMatchEntry{JobID: rawID}

			jobID := uuid.MustParse(rawID)
			job, err := s.store.GetJobDescription(ctx, jobID, userID)
			if err != nil {
				entries[i].Error = "database error"
				return nil
			}
			if job == nil {
				entries[i].Error = "job description not found"
				return nil
			}
			if job.ProcessingStatus != db.StatusCompleted {
				entries[i].Error = "job description has not finished processing"
				return nil
			}

			match, err := s.scoreAndStore(ctx, userID, resume, job)
			if err != nil {
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Match = match
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, e := range entries {
		if e.Match != nil {
			succeeded++
		}
	}

	s.logActivity(r, userID, "match_batch", "Scored resume against job batch", map[string]any{
		"requested": len(req.JobIDs),
		"succeeded": succeeded,
	})

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results":   entries,
		"requested": len(req.JobIDs),
		"succeeded": succeeded,
	})
}

// handleMatchHistory returns the caller's matches, newest first
func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	matches, err := s.store.ListMatches(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleGetMatch returns one full match report
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := uuid.Parse(r.PathValue("id"))
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

	s.jsonResponse(w, http.StatusOK, match)
}
