package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jobalign/jobalign-api/internal/server/middleware"
)

// handleLinkedInAuthURL starts the LinkedIn identity connection. The
// state token is bound to the caller so the public callback can find
// the account being connected.
func (s *Server) handleLinkedInAuthURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if s.linkedIn == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "LinkedIn integration is not configured")
		return
	}

	state := s.states.Issue(userID)
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"auth_url": s.linkedIn.AuthURL(state),
		"state":    state,
	})
}

// handleLinkedInCallback completes the connection: exchanges the code,
// stores the LinkedIn member ID and access token on the user and
// notifies the opener window.
func (s *Server) handleLinkedInCallback(w http.ResponseWriter, r *http.Request) {
	if s.linkedIn == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "LinkedIn integration is not configured")
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": errMsg})
		return
	}

	userID, ok := s.states.Consume(r.URL.Query().Get("state"))
	if !ok || userID == uuid.Nil {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": "invalid or expired state"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": "missing authorization code"})
		return
	}

	profile, token, err := s.linkedIn.Exchange(r.Context(), code)
	if err != nil {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": err.Error()})
		return
	}

	// A LinkedIn identity can back only one account
	existing, err := s.store.GetUserByLinkedInID(r.Context(), profile.ID)
	if err != nil {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": "database error"})
		return
	}
	if existing != nil && existing.ID != userID {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": "this LinkedIn account is already connected to another user"})
		return
	}

	if err := s.store.ConnectLinkedIn(r.Context(), userID, profile.ID, token.AccessToken); err != nil {
		s.popupResponse(w, map[string]string{"type": "LINKEDIN_ERROR", "error": "failed to store connection"})
		return
	}

	s.logActivity(r, userID, "linkedin_connected", "Connected LinkedIn profile", map[string]any{
		"linkedin_id": profile.ID,
	})

	s.popupResponse(w, map[string]string{"type": "LINKEDIN_CONNECTED"})
}

// handleLinkedInStatus reports whether the caller has a connected profile
func (s *Server) handleLinkedInStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	response := map[string]any{"connected": user.LinkedInID != nil}
	if user.LinkedInID != nil {
		response["linkedin_id"] = *user.LinkedInID
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleLinkedInDisconnect clears the stored LinkedIn identity and token
func (s *Server) handleLinkedInDisconnect(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.store.DisconnectLinkedIn(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.logActivity(r, userID, "linkedin_disconnected", "Disconnected LinkedIn profile", nil)

	s.jsonResponse(w, http.StatusOK, map[string]any{"connected": false})
}
