package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// popupPage posts a message to the opening window and closes the popup.
// The payload is JSON-encoded before interpolation so it is safe to embed.
const popupPage = `<!DOCTYPE html>
<html>
<head><title>JobAlign</title></head>
<body>
<script>
if (window.opener) {
  window.opener.postMessage(%s, %s);
}
window.close();
</script>
<p>You can close this window.</p>
</body>
</html>`

// popupResponse renders the OAuth popup result page
func (s *Server) popupResponse(w http.ResponseWriter, payload map[string]string) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	origin, _ := json.Marshal(s.cfg.FrontendURL)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, popupPage, body, origin)
}

// handleOAuthLogin returns the provider consent URL for a social login popup
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.social[r.PathValue("provider")]
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown or unconfigured provider")
		return
	}

	state := s.states.Issue(uuid.Nil)
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"auth_url": provider.AuthURL(state),
		"state":    state,
	})
}

// handleOAuthCallback completes a social login: exchanges the code,
// upserts the user by email and hands a token back to the opener window.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.social[r.PathValue("provider")]
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Unknown or unconfigured provider")
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": errMsg})
		return
	}

	if _, ok := s.states.Consume(r.URL.Query().Get("state")); !ok {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": "invalid or expired state"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": "missing authorization code"})
		return
	}

	profile, _, err := provider.Exchange(r.Context(), code)
	if err != nil {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": err.Error()})
		return
	}

	// Matching email links the social identity to an existing account
	user, err := s.store.UpsertOAuthUser(r.Context(), provider.Name(), profile.Name, profile.Email, profile.Picture)
	if err != nil {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": "failed to create account"})
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.popupResponse(w, map[string]string{"type": "OAUTH_ERROR", "error": "failed to generate token"})
		return
	}

	s.logActivity(r, user.ID, "oauth_login", "Signed in with "+provider.Name(), map[string]any{
		"provider": provider.Name(),
	})

	s.popupResponse(w, map[string]string{"type": "OAUTH_SUCCESS", "token": token})
}
