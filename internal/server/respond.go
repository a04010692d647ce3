package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/session"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

// writeError maps err to a status: input errors are 4xx, anything else is
// logged and reported as 500 without details.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}

	switch {
	case stderrors.Is(err, session.ErrNotFound), stderrors.Is(err, session.ErrExpired),
		errors.Is(err, errors.ErrCodeSessionNotFound):
		status = http.StatusNotFound
		resp = errorResponse{Code: errors.ErrCodeSessionNotFound, Message: "session not found"}
	case errors.Is(err, errors.ErrCodeNotFound):
		status = http.StatusNotFound
		resp = errorResponse{Code: errors.ErrCodeNotFound, Message: errors.UserMessage(err)}
	case errors.Is(err, errors.ErrCodeUnsupported):
		status = http.StatusNotFound
		resp = errorResponse{Code: errors.ErrCodeUnsupported, Message: errors.UserMessage(err)}
	case errors.IsUserError(err):
		status = http.StatusBadRequest
		resp = errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	default:
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, resp)
}

// decode reads a JSON body into v, which should already hold defaults.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
