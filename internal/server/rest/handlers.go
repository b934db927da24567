package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/server/models"
)

const (
	banner       = "filehost API server"
	maxJSONBytes = 1 << 20
)

func (s *RESTServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, banner)
}

func (s *RESTServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *RESTServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, user.Public())
}

func (s *RESTServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user.Public()})
}

func (s *RESTServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

func (s *RESTServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", common.ErrNoFileUploaded, err))
		return
	}

	file, err := s.files.Upload(r.Context(), user.ID, mr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, file.Summary())
}

func (s *RESTServer) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	items, err := s.files.List(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]models.FileSummary, 0, len(items))
	for _, f := range items {
		result = append(result, f.Summary())
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *RESTServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	id, err := fileID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	file, fh, err := s.files.Open(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer fh.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", file.MediaType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(w, r, "", file.CreatedAt, fh)
}

func (s *RESTServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	id, err := fileID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.files.Delete(r.Context(), id, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// fileID parses the {id} path value. Anything that is not a positive
// integer cannot name a file.
func fileID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrFileNotFound
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", common.ErrValidation)
		}
		return fmt.Errorf("%w: malformed json: %w", common.ErrValidation, err)
	}
	return nil
}
