package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/fiducial/pkg/errors"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are out; an encode failure can only truncate the body.
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	respondJSON(w, status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// respondErr maps coded errors to their status. Uncoded errors are logged
// and hidden behind a generic message.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "path", r.URL.Path, "err", err)
		if code == "" {
			code = string(errors.ErrCodeInternal)
			msg = "internal error"
		}
	}
	respondError(w, r, status, code, msg)
}
