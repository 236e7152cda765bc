package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// defaultRecommendationLimit bounds one recommendations page
const defaultRecommendationLimit = 20

// ApplicationStatusRequest is the body for POST /api/recommendations/{id}/status
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=none applied interview rejected"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
}

// handleRecommendedJobs returns stored recommendations, refreshing them
// from the external providers when asked to or when the store is empty.
func (s *Server) handleRecommendedJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultRecommendationLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	stored, err := s.store.ListRecommendedJobs(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if refresh || len(stored) == 0 {
		// Keywords default to the newest completed resume's top skills
		resume, err := s.store.GetLatestCompletedResume(r.Context(), userID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if keywords := r.URL.Query().Get("keywords"); keywords != "" {
			// Explicit keywords override the resume-derived ones
			resume = &db.Resume{UserID: userID, ParsedSkills: strings.Fields(keywords)}
		}

		inputs := s.jobSearch.Recommend(r.Context(), userID, resume, r.URL.Query().Get("location"), limit)
		for i := range inputs {
			if _, err := s.store.UpsertRecommendedJob(r.Context(), &inputs[i]); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
				return
			}
		}

		s.logActivity(r, userID, "recommendations_refreshed", "Refreshed job recommendations", map[string]any{
			"fetched": len(inputs),
		})

		stored, err = s.store.ListRecommendedJobs(r.Context(), userID, limit)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  stored,
		"count": len(stored),
	})
}

// handleApplicationStatus updates application tracking on a recommendation
func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid recommendation ID format")
		return
	}

	var req ApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.store.UpdateApplicationStatus(r.Context(), recID, userID, req.Status, req.Notes)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Recommendation not found")
		return
	}

	s.logActivity(r, userID, "application_status", "Updated application status to "+req.Status, map[string]any{
		"recommendation_id": recID.String(),
		"status":            req.Status,
	})

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleRecommendationStats aggregates the caller's saved recommendations
func (s *Server) handleRecommendationStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := s.store.GetRecommendationStats(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
