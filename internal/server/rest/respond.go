package rest

import (
	"encoding/json"
	"net/http"

	"github.com/csye-webapp/webapp/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindValidation, common.KindConflict:
		return http.StatusBadRequest
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindUnauthorized:
		return http.StatusUnauthorized
	case common.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// fail logs err and answers with the status of its kind and its
// client-facing message. Causes never reach the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(common.KindOf(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Warn(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeMessage(w, status, common.MessageOf(err, common.ErrServiceUnavailable.Message))
}

func hasQuery(r *http.Request) bool {
	return len(r.URL.Query()) > 0
}

// hasBody treats an unknown length (chunked upload) as a body.
func hasBody(r *http.Request) bool {
	return r.ContentLength > 0 || r.ContentLength == -1
}
