package response

import (
	"errors"
	"net/http"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/pkg/logger"
)

func writeError(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, message)
}

func RateLimit(w http.ResponseWriter, message string) {
	writeError(w, http.StatusTooManyRequests, message)
}

func InternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}

// Error maps a service-layer error onto the matching HTTP status.
// Domain sentinel errors carry their own user-facing message; anything
// else is treated as an internal failure and not leaked to the client.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrAuth):
		Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, domain.ErrConflict):
		Conflict(w, err.Error())
	default:
		logger.Error("Unhandled service error", "error", err)
		InternalError(w, "internal server error")
	}
}
