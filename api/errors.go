package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockdash/internal/provider"
)

// ErrorResponse is the JSON body of every failed /api call.
type ErrorResponse struct {
	ErrorKind provider.ErrorKind `json:"error_kind"`
	Message   string             `json:"message"`
	Detail    string             `json:"detail,omitempty"` // development only
}

// retryAfterSeconds is sent with 429 responses; free-tier quotas reset per minute.
const retryAfterSeconds = "60"

// statusFor maps an error kind to its HTTP status.
func statusFor(e *provider.Error) int {
	switch e.Kind {
	case provider.KindInvalidInput:
		return http.StatusBadRequest
	case provider.KindKeyRequired:
		return http.StatusUnauthorized
	case provider.KindNotFound:
		return http.StatusNotFound
	case provider.KindRateLimited:
		return http.StatusTooManyRequests
	case provider.KindNetwork:
		if e.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}

// writeError classifies err and writes the matching status and body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	pe := provider.AsError(err)
	status := statusFor(pe)

	resp := ErrorResponse{ErrorKind: pe.Kind, Message: pe.Message}
	if resp.Message == "" {
		resp.Message = http.StatusText(status)
	}
	if s.cfg.IsDevelopment() {
		resp.Detail = pe.Error()
	}
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	ev := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Str("error_kind", string(pe.Kind)).Int("status", status).Msg("request failed")

	writeJSON(w, r, status, resp)
}
