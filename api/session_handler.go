package api

import (
	"net/http"

	"github.com/seenimoa/stockdash/internal/config"
)

// SessionResponse is the JSON body of GET /api/session.
type SessionResponse struct {
	Configured bool                `json:"configured"`
	Source     config.APIKeySource `json:"source"` // session, env, config or none
	Masked     string              `json:"masked,omitempty"`
	Provider   string              `json:"provider"`
}

// handleGetSession reports which key the caller's requests would use.
// The key itself is never returned.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	key, source := s.resolveKey(r)
	resp := SessionResponse{
		Configured: key != "",
		Source:     source,
		Provider:   s.info.Name,
	}
	if key != "" {
		resp.Masked = config.MaskKey(key)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDeleteSession forgets the session key. A configured default key, if
// any, stays in effect.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}
