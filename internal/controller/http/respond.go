package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/pkg/logger"
)

// envelope is the response wrapper every endpoint uses: a success flag
// plus either payload fields or an error message.
type envelope map[string]interface{}

func respondWithJSON(w http.ResponseWriter, code int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, envelope{"success": true, "data": data})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, envelope{"success": false, "message": message})
}

// respondWithDomainError maps domain errors onto status codes. Anything
// unrecognized is a storage or programming failure: it is logged and
// replaced by a generic message so no internal detail leaks out.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, entity.ErrTaskNotFound):
		respondWithError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, entity.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Not authorized to access this task")
	case errors.Is(err, entity.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, entity.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, entity.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		logger.Log.WithError(err).Error("Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}
