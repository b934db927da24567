package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/filehost/internal/common"
)

// errorStatuses maps sentinel errors to HTTP statuses. The first match wins.
var errorStatuses = []struct {
	err  error
	code int
}{
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrMissingToken, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrUserAlreadyExists, http.StatusBadRequest},
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrInvalidFileType, http.StatusBadRequest},
	{common.ErrNoFileUploaded, http.StatusBadRequest},
	{common.ErrUserNotFound, http.StatusNotFound},
	{common.ErrFileNotFound, http.StatusNotFound},
	{common.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
}

// classify returns the HTTP status for err and the message safe to show to
// the client.
func classify(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.code, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func (s *RESTServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classify(err)

	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}

	writeJSON(w, code, errorResponse{
		Status:  fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Message: msg,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
