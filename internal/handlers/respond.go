package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// statusFor maps an error classification to its HTTP status. Conflicts
// are surfaced as 400 to match the web client's expectations.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to an HTTP response. Internal error
// detail is suppressed in production.
func writeError(w http.ResponseWriter, err error, production bool) {
	status := statusFor(err)
	message := apperr.Message(err)

	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("Unhandled internal error")
		if production {
			message = "Internal Server Error"
		}
	}

	writeJSON(w, status, map[string]string{"message": message})
}
