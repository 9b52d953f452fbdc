package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

// errorResponse is the JSON body for every failure. Errors is populated
// only for validation failures.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps the error taxonomy onto HTTP statuses. Anything not in
// the taxonomy is logged and reported as a generic server error with no
// internal detail.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {

	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: ve.Fields})
	case errors.Is(err, common.ErrorConflict):
		s.writeJSON(w, http.StatusConflict, errorResponse{Message: "username or email already exists"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
	case errors.Is(err, common.ErrServerConfig):
		s.logger.Error(r.Context(), "server misconfigured", "error", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "server configuration error"})
	default:
		s.logger.Error(r.Context(), "unhandled error", "error", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
