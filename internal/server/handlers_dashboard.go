package server

import (
	"net/http"
	"strconv"

	"github.com/jobalign/jobalign-api/internal/db"
	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// RecentMatchItem is one dashboard match row with a quality label
type RecentMatchItem struct {
	db.RecentMatch
	Quality string `json:"quality"`
}

// matchQuality buckets a score for dashboard display
func matchQuality(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}

// handleDashboardStats returns the caller's aggregate account activity
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := s.store.GetDashboardStats(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

// handleRecentMatches returns the newest matches joined with resume and
// job names, each labeled by score quality.
func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
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

	matches, err := s.store.ListRecentMatches(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	items := make([]RecentMatchItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, RecentMatchItem{
			RecentMatch: m,
			Quality:     matchQuality(m.MatchScore),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": items,
		"count":   len(items),
	})
}

// handleRecentActivity returns the caller's newest activity log entries
func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
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

	activity, err := s.store.ListRecentActivity(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"activity": activity,
		"count":    len(activity),
	})
}
